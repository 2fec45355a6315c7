// Package loader turns source files into documents.
//
// JSON files hold exactly one document. YAML files are cut into documents on
// the literal "---" marker by default; the cut is a plain substring split, so
// a "---" inside a scalar or block string also splits the document. The
// SplitSyntax mode uses the YAML parser's own document stream instead.
//
// N markers give N+1 documents, with one exception: a first marker preceded
// only by whitespace opens the first document instead of ending an empty one.
// "---\na: 1\n" is one document, not a null followed by a mapping, which
// lets the YAML stream written by the encoder load back unchanged.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"yamine/pkg/document"
	"yamine/pkg/selector"

	"gopkg.in/yaml.v3"
)

// Marker separates YAML documents.
const Marker = "---"

// Split selects how YAML content is cut into documents.
type Split int

const (
	SplitMarker Split = iota // plain split on Marker, empty segments become null
	SplitSyntax              // document stream as the YAML parser sees it
)

func (s Split) String() string {
	if s == SplitSyntax {
		return "syntax"
	}
	return "marker"
}

// ParseSplit parses "marker" or "syntax".
func ParseSplit(s string) (Split, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "marker":
		return SplitMarker, nil
	case "syntax":
		return SplitSyntax, nil
	}
	return SplitMarker, fmt.Errorf("unknown split mode %q (must be marker or syntax)", s)
}

// Options configures loading.
type Options struct {
	Split   Split
	Workers int // files loaded concurrently by LoadAll; values below 2 load sequentially
}

// Load reads one source file and returns its documents in file order.
func Load(file selector.SourceFile, opts Options) ([]document.Document, error) {
	data, err := os.ReadFile(file.Path)
	if err != nil {
		return nil, ioError(file.Path, err)
	}
	return Parse(file.Path, file.Format, data, opts)
}

// LoadStream reads r to the end and parses it as a YAML document stream.
// name identifies the stream in errors, e.g. "<stdin>".
func LoadStream(name string, r io.Reader, opts Options) ([]document.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ioError(name, err)
	}
	return Parse(name, selector.FormatYAML, data, opts)
}

// Parse converts raw content of the given format into documents.
func Parse(name string, format selector.Format, data []byte, opts Options) ([]document.Document, error) {
	if isBinary(data) {
		return nil, parseError(name, -1, errBinary)
	}

	if format == selector.FormatJSON {
		doc, err := document.DecodeJSON(data)
		if err != nil {
			return nil, parseError(name, -1, err)
		}
		return []document.Document{doc}, nil
	}

	if opts.Split == SplitSyntax {
		return parseStream(name, data)
	}
	return parseSegments(name, data)
}

// SplitDocuments cuts text on Marker. Whitespace before a leading marker is
// not a segment of its own; every other segment is kept, empty or not.
func SplitDocuments(text string) []string {
	segments := strings.Split(text, Marker)
	if len(segments) > 1 && strings.TrimSpace(segments[0]) == "" {
		segments = segments[1:]
	}
	return segments
}

func parseSegments(name string, data []byte) ([]document.Document, error) {
	segments := SplitDocuments(string(data))
	docs := make([]document.Document, 0, len(segments))
	for i, segment := range segments {
		var node yaml.Node
		if err := yaml.Unmarshal([]byte(segment), &node); err != nil {
			return nil, parseError(name, i, err)
		}
		doc, err := document.FromNode(&node)
		if err != nil {
			return nil, parseError(name, i, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func parseStream(name string, data []byte) ([]document.Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var docs []document.Document
	for i := 0; ; i++ {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return nil, parseError(name, i, err)
		}
		doc, err := document.FromNode(&node)
		if err != nil {
			return nil, parseError(name, i, err)
		}
		docs = append(docs, doc)
	}
}
