// Package encoder serialises a batch of documents into one output stream.
//
// Output is written document by document as it is produced; a failure part
// way through leaves whatever was already written in the sink.
package encoder

import (
	"bytes"
	"fmt"
	"io"

	"yamine/pkg/document"

	"gopkg.in/yaml.v3"
)

const (
	docStart  = "---\n"
	k8sPrefix = `{"kind": "List", "apiVersion": "v1", "items": [`
	k8sSuffix = `]}`
)

// ErrorKind classifies an EncodeError.
type ErrorKind int

const (
	SerializationFailure ErrorKind = iota // a document cannot be expressed in the target encoding
	WriteFailure                          // the sink rejected a write
)

func (k ErrorKind) String() string {
	if k == WriteFailure {
		return "write failure"
	}
	return "serialization failure"
}

// EncodeError reports a failed Encode. Index is the 0-based document
// position, or -1 for failures outside any document.
type EncodeError struct {
	Kind  ErrorKind
	Index int
	Err   error
}

func (e *EncodeError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s at document %d: %v", e.Kind, e.Index+1, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// Options configures Encode.
type Options struct {
	// CoerceKeys stringifies null, bool and number mapping keys for the JSON
	// encodings instead of failing.
	CoerceKeys bool
	// OnCoerce is told about each coerced key: the document index and the
	// path of the mapping holding it.
	OnCoerce func(index int, path string, key document.Document)
	// Indent is the YAML indentation width; 2 when zero.
	Indent int
}

// Encode writes docs to w in the given encoding.
func Encode(docs []document.Document, enc Encoding, w io.Writer, opts Options) error {
	switch enc {
	case YAMLStream:
		return encodeYAML(docs, w, opts)
	case JSONArray:
		return encodeJSON(docs, w, "[", "]", opts)
	case JSONK8sList:
		return encodeJSON(docs, w, k8sPrefix, k8sSuffix, opts)
	}
	return &EncodeError{Kind: SerializationFailure, Index: -1, Err: fmt.Errorf("unknown encoding %d", enc)}
}

func encodeYAML(docs []document.Document, w io.Writer, opts Options) error {
	indent := opts.Indent
	if indent <= 0 {
		indent = 2
	}

	var buf bytes.Buffer
	for i, doc := range docs {
		buf.Reset()
		buf.WriteString(docStart)

		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(indent)
		if err := enc.Encode(doc.Node()); err != nil {
			return &EncodeError{Kind: SerializationFailure, Index: i, Err: err}
		}
		if err := enc.Close(); err != nil {
			return &EncodeError{Kind: SerializationFailure, Index: i, Err: err}
		}

		if err := write(w, buf.Bytes(), i); err != nil {
			return err
		}
	}
	return nil
}

func encodeJSON(docs []document.Document, w io.Writer, open, closing string, opts Options) error {
	if err := write(w, []byte(open), -1); err != nil {
		return err
	}

	var buf []byte
	first := true
	for i, doc := range docs {
		buf = buf[:0]
		if !first {
			buf = append(buf, ',')
		}
		first = false

		index := i
		jsonOpts := document.JSONOptions{CoerceKeys: opts.CoerceKeys}
		if opts.OnCoerce != nil {
			jsonOpts.OnCoerce = func(path string, key document.Document) { opts.OnCoerce(index, path, key) }
		}

		var err error
		if buf, err = document.AppendJSON(buf, doc, jsonOpts); err != nil {
			return &EncodeError{Kind: SerializationFailure, Index: i, Err: err}
		}
		if err := write(w, buf, i); err != nil {
			return err
		}
	}

	return write(w, []byte(closing), -1)
}

func write(w io.Writer, p []byte, index int) error {
	if _, err := w.Write(p); err != nil {
		return &EncodeError{Kind: WriteFailure, Index: index, Err: err}
	}
	return nil
}
