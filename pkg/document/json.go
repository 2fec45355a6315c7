package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// DecodeJSON parses exactly one JSON value. Object keys keep their order and
// numbers keep their literal text. Anything after the value is an error.
func DecodeJSON(data []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	doc, err := decodeValue(dec)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Document{}, io.ErrUnexpectedEOF
		}
		return Document{}, err
	}

	tok, err := dec.Token()
	switch {
	case errors.Is(err, io.EOF):
		return doc, nil
	case err != nil:
		return Document{}, err
	default:
		return Document{}, fmt.Errorf("unexpected data after top-level value at offset %d: %v", dec.InputOffset(), tok)
	}
}

func decodeValue(dec *json.Decoder) (Document, error) {
	tok, err := dec.Token()
	if err != nil {
		return Document{}, err
	}

	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Number(t.String()), nil
	case string:
		return String(t), nil
	case json.Delim:
		switch t {
		case '[':
			var items []Document
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return Document{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return Document{}, err
			}
			return Document{kind: KindSequence, items: items}, nil
		case '{':
			var pairs []Pair
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Document{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Document{}, fmt.Errorf("object key at offset %d is not a string", dec.InputOffset())
				}
				value, err := decodeValue(dec)
				if err != nil {
					return Document{}, err
				}
				pairs = append(pairs, Pair{Key: String(key), Value: value})
			}
			if _, err := dec.Token(); err != nil {
				return Document{}, err
			}
			return Document{kind: KindMapping, pairs: pairs}, nil
		}
	}
	return Document{}, fmt.Errorf("unexpected token %v at offset %d", tok, dec.InputOffset())
}

// UnsupportedError reports a value that JSON cannot represent.
type UnsupportedError struct {
	Path   string // location inside the document, e.g. $.spec.ports[0]
	Reason string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("cannot represent value at %s in JSON: %s", e.Path, e.Reason)
}

// JSONOptions controls AppendJSON.
type JSONOptions struct {
	// CoerceKeys turns null, bool and number mapping keys into strings using
	// their YAML spelling. Without it such keys are an error.
	CoerceKeys bool
	// OnCoerce is called once per coerced key with the path of its mapping.
	OnCoerce func(path string, key Document)
}

// AppendJSON appends the compact JSON encoding of d to buf.
func AppendJSON(buf []byte, d Document, opts JSONOptions) ([]byte, error) {
	return appendJSON(buf, d, "$", opts)
}

// MarshalJSON implements json.Marshaler without key coercion.
func (d Document) MarshalJSON() ([]byte, error) {
	return AppendJSON(nil, d, JSONOptions{})
}

func appendJSON(buf []byte, d Document, path string, opts JSONOptions) ([]byte, error) {
	switch d.kind {
	case KindNull:
		return append(buf, "null"...), nil
	case KindBool:
		return strconv.AppendBool(buf, d.flag), nil
	case KindNumber:
		if !isJSONNumber(d.text) {
			return nil, &UnsupportedError{Path: path, Reason: fmt.Sprintf("number %s has no JSON form", d.text)}
		}
		return append(buf, d.text...), nil
	case KindString:
		return appendString(buf, d.text), nil
	case KindSequence:
		buf = append(buf, '[')
		for i, item := range d.items {
			if i > 0 {
				buf = append(buf, ',')
			}
			var err error
			if buf, err = appendJSON(buf, item, fmt.Sprintf("%s[%d]", path, i), opts); err != nil {
				return nil, err
			}
		}
		return append(buf, ']'), nil
	case KindMapping:
		buf = append(buf, '{')
		for i, p := range d.pairs {
			if i > 0 {
				buf = append(buf, ',')
			}
			key, err := jsonKey(p.Key, path, opts)
			if err != nil {
				return nil, err
			}
			buf = appendString(buf, key)
			buf = append(buf, ':')
			if buf, err = appendJSON(buf, p.Value, path+"."+key, opts); err != nil {
				return nil, err
			}
		}
		return append(buf, '}'), nil
	}
	return nil, &UnsupportedError{Path: path, Reason: "unknown kind"}
}

func jsonKey(k Document, path string, opts JSONOptions) (string, error) {
	if k.kind == KindString {
		return k.text, nil
	}

	var text string
	switch k.kind {
	case KindNull:
		text = "null"
	case KindBool:
		text = strconv.FormatBool(k.flag)
	case KindNumber:
		text = k.text
	default:
		return "", &UnsupportedError{Path: path, Reason: fmt.Sprintf("%s used as a mapping key", k.kind)}
	}

	if !opts.CoerceKeys {
		return "", &UnsupportedError{Path: path, Reason: fmt.Sprintf("non-string key %s (%s)", text, k.kind)}
	}
	if opts.OnCoerce != nil {
		opts.OnCoerce(path, k)
	}
	return text, nil
}

func appendString(buf []byte, s string) []byte {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s) // strings always encode
	return append(buf, bytes.TrimSuffix(b.Bytes(), []byte("\n"))...)
}
