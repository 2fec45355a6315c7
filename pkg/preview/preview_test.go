package preview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTree(t *testing.T) {
	got := Tree([]string{
		"manifests/b.yaml",
		"manifests/a.json",
		"top.json",
		"deep/nested/only/x.yaml",
		"deep/nested/only/y.yaml",
	})

	want := strings.Join([]string{
		"├── manifests/",
		"│   ├── b.yaml",
		"│   └── a.json",
		"├── top.json",
		"└── deep/nested/only/",
		"    ├── x.yaml",
		"    └── y.yaml",
	}, "\n") + "\n"
	assert.Equal(t, want, got)
}

func TestTree_KeepsInterleavedOrder(t *testing.T) {
	got := Tree([]string{"a/x.yaml", "b/y.yaml", "a/z.yaml", "a/sub/w.json", "a/v.yaml"})

	want := strings.Join([]string{
		"├── a/",
		"│   └── x.yaml",
		"├── b/",
		"│   └── y.yaml",
		"└── a/",
		"    ├── z.yaml",
		"    ├── sub/",
		"    │   └── w.json",
		"    └── v.yaml",
	}, "\n") + "\n"
	assert.Equal(t, want, got)
}

func TestTree_AbsoluteAndEmpty(t *testing.T) {
	assert.Equal(t, "└── /srv/conf/\n    └── a.yaml\n", Tree([]string{"/srv/conf/a.yaml"}))
	assert.Equal(t, "", Tree(nil))
}

func TestRender(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Render(&b, Plan{
		Files:    []string{"a.json", "b.yaml"},
		Output:   "combined.yaml",
		Encoding: "json-array",
	}, false))

	out := b.String()
	assert.NotContains(t, out, "\x1b[")
	assert.Contains(t, out, "Format:      json-array\n")
	assert.Contains(t, out, "Destination: combined.yaml\n")
	assert.Contains(t, out, "Input:       2 file(s)\n├── a.json\n└── b.yaml\n")
}

func TestRender_StdinAndNoFiles(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Render(&b, Plan{Stdin: true, Output: "out.yaml", Encoding: "yaml"}, false))
	assert.Contains(t, b.String(), "Input:       standard input\n")

	b.Reset()
	require.NoError(t, Render(&b, Plan{Output: "out.yaml", Encoding: "yaml"}, false))
	assert.Contains(t, b.String(), "Input:       no matching files\n")
}

func TestRender_Colorized(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Render(&b, Plan{Files: []string{"a.yaml"}, Output: "o", Encoding: "yaml"}, true))
	assert.Contains(t, b.String(), "\x1b[")
}
