package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"yamine/pkg/document"
	"yamine/pkg/selector"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) selector.SourceFile {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	format, ok := selector.FormatOf(path)
	require.True(t, ok, "unsupported extension in %s", name)
	return selector.SourceFile{Path: path, Format: format}
}

func assertDocs(t *testing.T, want []document.Document, got []document.Document) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, document.Equal(want[i], got[i]), "document %d: got %#v", i, got[i])
	}
}

func TestLoad_JSON(t *testing.T) {
	file := writeFile(t, t.TempDir(), "a.json", `{"x": 1, "list": [1, "two"]}`)

	docs, err := Load(file, Options{})
	require.NoError(t, err)

	assertDocs(t, []document.Document{
		document.Mapping(
			document.KV("x", document.Number("1")),
			document.KV("list", document.Sequence(document.Number("1"), document.String("two"))),
		),
	}, docs)
}

func TestLoad_JSONParseFailures(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"trailing.json": `{"x": 1} {"y": 2}`,
		"invalid.json":  `{"x": }`,
		"empty.json":    ``,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, dir, name, content), Options{})

			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, ParseFailure, loadErr.Kind)
			assert.Contains(t, err.Error(), name)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(selector.SourceFile{Path: filepath.Join(t.TempDir(), "gone.yaml")}, Options{})

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, IOFailure, loadErr.Kind)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoad_YAMLMarkerSplit(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []document.Document
	}{
		{
			name:    "single document",
			content: "y: 2\n",
			want:    []document.Document{document.Mapping(document.KV("y", document.Number("2")))},
		},
		{
			name:    "two documents",
			content: "y: 2\n---\nz: 3",
			want: []document.Document{
				document.Mapping(document.KV("y", document.Number("2"))),
				document.Mapping(document.KV("z", document.Number("3"))),
			},
		},
		{
			name:    "empty file",
			content: "",
			want:    []document.Document{document.Null()},
		},
		{
			name:    "empty middle and trailing segments",
			content: "a: 1\n---\n---\nb: 2\n---\n",
			want: []document.Document{
				document.Mapping(document.KV("a", document.Number("1"))),
				document.Null(),
				document.Mapping(document.KV("b", document.Number("2"))),
				document.Null(),
			},
		},
		{
			name:    "leading marker",
			content: "---\na: 1\n---\nb: 2\n",
			want: []document.Document{
				document.Mapping(document.KV("a", document.Number("1"))),
				document.Mapping(document.KV("b", document.Number("2"))),
			},
		},
		{
			name:    "marker inside a scalar splits it",
			content: "text: before---after\n",
			want: []document.Document{
				document.Mapping(document.KV("text", document.String("before"))),
				document.String("after"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := writeFile(t, t.TempDir(), "doc.yaml", tt.content)
			docs, err := Load(file, Options{})
			require.NoError(t, err)
			assertDocs(t, tt.want, docs)
		})
	}
}

func TestSplitDocuments_CountsMarkers(t *testing.T) {
	for n := 0; n < 5; n++ {
		text := "x: 1" + strings.Repeat("\n---\nx: 1", n)
		assert.Len(t, SplitDocuments(text), n+1, "markers: %d", n)
	}
}

func TestSplitDocuments_LeadingMarkerOpensFirstDocument(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"---\na: 1\n", []string{"\na: 1\n"}},
		{"  \n---\na: 1\n---\nb: 2\n", []string{"\na: 1\n", "\nb: 2\n"}},
		{"---\n---\n", []string{"\n", "\n"}},
		{"# head\n---\na: 1\n", []string{"# head\n", "\na: 1\n"}},
		{"a: 1\n---\n", []string{"a: 1\n", "\n"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SplitDocuments(tt.text), "text: %q", tt.text)
	}
}

func TestLoad_YAMLSyntaxSplit(t *testing.T) {
	file := writeFile(t, t.TempDir(), "doc.yaml", "text: |\n  before\n  ---\n  after\n---\nb: 2\n")

	docs, err := Load(file, Options{Split: SplitSyntax})
	require.NoError(t, err)

	assertDocs(t, []document.Document{
		document.Mapping(document.KV("text", document.String("before\n---\nafter\n"))),
		document.Mapping(document.KV("b", document.Number("2"))),
	}, docs)
}

func TestLoad_YAMLParseFailureNamesDocument(t *testing.T) {
	file := writeFile(t, t.TempDir(), "bad.yaml", "ok: 1\n---\nbad: [unclosed\n")

	_, err := Load(file, Options{})

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ParseFailure, loadErr.Kind)
	assert.Equal(t, 1, loadErr.Document)
	assert.Contains(t, err.Error(), "bad.yaml (document 2)")
}

func TestLoad_RejectsBinary(t *testing.T) {
	file := writeFile(t, t.TempDir(), "blob.yaml", "a: \x00\x01\x02")

	_, err := Load(file, Options{})

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ParseFailure, loadErr.Kind)
}

func TestLoadStream(t *testing.T) {
	docs, err := LoadStream("<stdin>", strings.NewReader("a: 1\n---\n- x\n"), Options{})
	require.NoError(t, err)

	assertDocs(t, []document.Document{
		document.Mapping(document.KV("a", document.Number("1"))),
		document.Sequence(document.String("x")),
	}, docs)
}

func TestLoadAll_PreservesOrder(t *testing.T) {
	dir := t.TempDir()
	var files []selector.SourceFile
	var want []document.Document
	for i := 0; i < 20; i++ {
		if i%2 == 0 {
			files = append(files, writeFile(t, dir, fmt.Sprintf("f%02d.json", i), fmt.Sprintf(`{"i": %d}`, i)))
			want = append(want, document.Mapping(document.KV("i", document.Number(fmt.Sprint(i)))))
			continue
		}
		files = append(files, writeFile(t, dir, fmt.Sprintf("f%02d.yaml", i), fmt.Sprintf("i: %d\n---\nj: %d\n", i, i)))
		want = append(want,
			document.Mapping(document.KV("i", document.Number(fmt.Sprint(i)))),
			document.Mapping(document.KV("j", document.Number(fmt.Sprint(i)))),
		)
	}

	for _, workers := range []int{0, 1, 4, 32} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			batch, err := LoadAll(files, Options{Workers: workers}, nil)
			require.NoError(t, err)
			assertDocs(t, want, batch)
		})
	}
}

func TestLoadAll_ReportsFirstFailure(t *testing.T) {
	dir := t.TempDir()
	files := []selector.SourceFile{
		writeFile(t, dir, "ok.json", `{}`),
		writeFile(t, dir, "first.json", `{`),
		writeFile(t, dir, "second.json", `}`),
	}

	for _, workers := range []int{1, 3} {
		batch, err := LoadAll(files, Options{Workers: workers}, nil)
		assert.Nil(t, batch)

		var loadErr *LoadError
		require.ErrorAs(t, err, &loadErr)
		assert.Equal(t, files[1].Path, loadErr.Path, "workers %d", workers)
	}
}

func TestParseSplit(t *testing.T) {
	s, err := ParseSplit("Syntax")
	require.NoError(t, err)
	assert.Equal(t, SplitSyntax, s)

	s, err = ParseSplit("")
	require.NoError(t, err)
	assert.Equal(t, SplitMarker, s)

	_, err = ParseSplit("smart")
	assert.Error(t, err)
}
