package encoder

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"yamine/pkg/document"
	"yamine/pkg/loader"
	"yamine/pkg/selector"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, docs []document.Document, enc Encoding, opts Options) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Encode(docs, enc, &buf, opts))
	return buf.String()
}

func sampleBatch() []document.Document {
	return []document.Document{
		document.Mapping(document.KV("x", document.Number("1"))),
		document.Mapping(document.KV("y", document.Number("2"))),
		document.Mapping(document.KV("z", document.Number("3"))),
	}
}

func TestParseEncoding(t *testing.T) {
	tests := map[string]Encoding{
		"yaml":            YAMLStream,
		"YAML":            YAMLStream,
		"json-array":      JSONArray,
		"json":            JSONArray,
		"k8s-json":        JSONK8sList,
		"kubernetes-json": JSONK8sList,
		"json-k8s":        JSONK8sList,
	}
	for name, want := range tests {
		got, err := ParseEncoding(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseEncoding("toml")
	assert.Error(t, err)
}

func TestEncoding_SetAndString(t *testing.T) {
	var e Encoding
	require.NoError(t, e.Set("kubernetes-json"))
	assert.Equal(t, JSONK8sList, e)
	assert.Equal(t, "k8s-json", e.String())
	assert.Equal(t, "format", e.Type())
	assert.Error(t, e.Set("xml"))
}

func TestEncode_JSONArray(t *testing.T) {
	assert.Equal(t, `[]`, encode(t, nil, JSONArray, Options{}))
	assert.Equal(t, `[{"x":1}]`, encode(t, sampleBatch()[:1], JSONArray, Options{}))
	assert.Equal(t, `[{"x":1},{"y":2},{"z":3}]`, encode(t, sampleBatch(), JSONArray, Options{}))
}

func TestEncode_JSONK8sList(t *testing.T) {
	assert.Equal(t, `{"kind": "List", "apiVersion": "v1", "items": []}`, encode(t, nil, JSONK8sList, Options{}))

	out := encode(t, sampleBatch(), JSONK8sList, Options{})
	assert.Equal(t, `{"kind": "List", "apiVersion": "v1", "items": [{"x":1},{"y":2},{"z":3}]}`, out)

	var parsed struct {
		Kind       string            `json:"kind"`
		APIVersion string            `json:"apiVersion"`
		Items      []json.RawMessage `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Equal(t, "List", parsed.Kind)
	assert.Len(t, parsed.Items, 3)
}

func TestEncode_YAMLStream(t *testing.T) {
	docs := []document.Document{
		document.Mapping(document.KV("a", document.Number("1"))),
		document.Null(),
		document.Sequence(document.String("x")),
	}

	assert.Equal(t, "---\na: 1\n---\nnull\n---\n- x\n", encode(t, docs, YAMLStream, Options{}))
	assert.Equal(t, "", encode(t, nil, YAMLStream, Options{}))
}

func TestEncode_YAMLStreamRoundTrip(t *testing.T) {
	docs := []document.Document{
		document.Mapping(
			document.KV("apiVersion", document.String("v1")),
			document.KV("kind", document.String("ConfigMap")),
			document.KV("data", document.Mapping(
				document.KV("port", document.String("8080")),
				document.KV("script", document.String("echo hi\nexit 0\n")),
			)),
		),
		document.Null(),
		document.Mapping(),
		document.Sequence(document.Number("1.5"), document.Bool(true), document.Null(), document.String("")),
		document.String("plain"),
		document.Sequence(document.Number("1E400"), document.Number("-0.0"), document.Number("123456789012345678901234567890")),
	}

	out := encode(t, docs, YAMLStream, Options{Indent: 4})

	back, err := loader.Parse("roundtrip.yaml", selector.FormatYAML, []byte(out), loader.Options{})
	require.NoError(t, err)
	require.Len(t, back, len(docs), "output was:\n%s", out)
	for i := range docs {
		assert.True(t, document.Equal(docs[i], back[i]), "document %d differs, output was:\n%s", i, out)
	}
}

func TestEncode_EndToEndScenario(t *testing.T) {
	a, err := loader.Parse("a.json", selector.FormatJSON, []byte(`{"x":1}`), loader.Options{})
	require.NoError(t, err)
	b, err := loader.Parse("b.yaml", selector.FormatYAML, []byte("y: 2\n---\nz: 3"), loader.Options{})
	require.NoError(t, err)

	assert.Equal(t, `[{"x":1},{"y":2},{"z":3}]`, encode(t, append(a, b...), JSONArray, Options{}))
}

func TestEncode_NonStringKeys(t *testing.T) {
	docs := []document.Document{
		document.Mapping(document.KV("ok", document.Bool(true))),
		document.Mapping(document.Pair{Key: document.Number("8080"), Value: document.String("http")}),
	}

	var buf bytes.Buffer
	err := Encode(docs, JSONArray, &buf, Options{})

	var encErr *EncodeError
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, SerializationFailure, encErr.Kind)
	assert.Equal(t, 1, encErr.Index)
	var unsupported *document.UnsupportedError
	assert.ErrorAs(t, err, &unsupported)
	// the first document was already streamed out
	assert.Equal(t, `[{"ok":true}`, buf.String())

	var reported []int
	out := encode(t, docs, JSONArray, Options{
		CoerceKeys: true,
		OnCoerce:   func(index int, _ string, _ document.Document) { reported = append(reported, index) },
	})
	assert.Equal(t, `[{"ok":true},{"8080":"http"}]`, out)
	assert.Equal(t, []int{1}, reported)
}

func TestEncode_YAMLKeepsNonStringKeys(t *testing.T) {
	docs := []document.Document{
		document.Mapping(document.Pair{Key: document.Number("1"), Value: document.String("one")}),
	}
	assert.Equal(t, "---\n1: one\n", encode(t, docs, YAMLStream, Options{}))
}

// recordingWriter keeps every Write call separately.
type recordingWriter struct {
	writes []string
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	w.writes = append(w.writes, string(p))
	return len(p), nil
}

func TestEncode_WritesIncrementally(t *testing.T) {
	w := &recordingWriter{}
	require.NoError(t, Encode(sampleBatch(), JSONArray, w, Options{}))
	assert.Equal(t, []string{"[", `{"x":1}`, `,{"y":2}`, `,{"z":3}`, "]"}, w.writes)

	w = &recordingWriter{}
	require.NoError(t, Encode(sampleBatch(), YAMLStream, w, Options{}))
	assert.Equal(t, []string{"---\nx: 1\n", "---\ny: 2\n", "---\nz: 3\n"}, w.writes)
}

// failingWriter accepts n writes, then fails.
type failingWriter struct {
	n int
}

var errDiskFull = errors.New("disk full")

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.n == 0 {
		return 0, errDiskFull
	}
	w.n--
	return len(p), nil
}

func TestEncode_WriteFailure(t *testing.T) {
	for _, enc := range []Encoding{YAMLStream, JSONArray, JSONK8sList} {
		t.Run(enc.String(), func(t *testing.T) {
			err := Encode(sampleBatch(), enc, &failingWriter{n: 1}, Options{})

			var encErr *EncodeError
			require.ErrorAs(t, err, &encErr)
			assert.Equal(t, WriteFailure, encErr.Kind)
			assert.ErrorIs(t, err, errDiskFull)
		})
	}
}
