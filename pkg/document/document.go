// Package document provides the generic value model shared by the loader and
// the encoder. A Document can hold any YAML or JSON value: scalars, ordered
// sequences and ordered mappings whose keys are Documents themselves.
package document

import (
	"encoding/json"
	"strings"
)

// Kind identifies the variant held by a Document.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Document is an immutable tagged value. The zero value is Null.
type Document struct {
	kind  Kind
	flag  bool       // bool payload
	text  string     // number literal or string payload
	items []Document // sequence payload
	pairs []Pair     // mapping payload, insertion order
}

// Pair is one entry of a mapping.
type Pair struct {
	Key   Document
	Value Document
}

// Null returns the null document.
func Null() Document { return Document{} }

// Bool returns a boolean document.
func Bool(b bool) Document { return Document{kind: KindBool, flag: b} }

// Number returns a number document holding the given literal, e.g. "42" or "1.5e3".
func Number(text string) Document { return Document{kind: KindNumber, text: text} }

// String returns a string document.
func String(s string) Document { return Document{kind: KindString, text: s} }

// Sequence returns a sequence document. The items are copied.
func Sequence(items ...Document) Document {
	return Document{kind: KindSequence, items: append([]Document{}, items...)}
}

// Mapping returns a mapping document. The pairs are copied and keep their order.
func Mapping(pairs ...Pair) Document {
	return Document{kind: KindMapping, pairs: append([]Pair{}, pairs...)}
}

// KV is shorthand for a Pair with a string key.
func KV(key string, value Document) Pair {
	return Pair{Key: String(key), Value: value}
}

func (d Document) Kind() Kind { return d.kind }

// IsNull reports whether d is the null document.
func (d Document) IsNull() bool { return d.kind == KindNull }

// BoolValue returns the payload of a bool document.
func (d Document) BoolValue() bool { return d.flag }

// Text returns the literal of a number document or the value of a string document.
func (d Document) Text() string { return d.text }

// Items returns a copy of the sequence items.
func (d Document) Items() []Document { return append([]Document(nil), d.items...) }

// Pairs returns a copy of the mapping pairs.
func (d Document) Pairs() []Pair { return append([]Pair(nil), d.pairs...) }

// Len returns the number of items or pairs; zero for scalars.
func (d Document) Len() int {
	switch d.kind {
	case KindSequence:
		return len(d.items)
	case KindMapping:
		return len(d.pairs)
	}
	return 0
}

// Lookup returns the value of the first pair whose key is the string key.
func (d Document) Lookup(key string) (Document, bool) {
	for _, p := range d.pairs {
		if p.Key.kind == KindString && p.Key.text == key {
			return p.Value, true
		}
	}
	return Document{}, false
}

// Equal reports whether a and b are structurally identical. Numbers compare by
// literal, mappings compare pairwise in order.
func Equal(a, b Document) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.flag == b.flag
	case KindNumber, KindString:
		return a.text == b.text
	case KindSequence:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		if len(a.pairs) != len(b.pairs) {
			return false
		}
		for i := range a.pairs {
			if !Equal(a.pairs[i].Key, b.pairs[i].Key) || !Equal(a.pairs[i].Value, b.pairs[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

// isJSONNumber reports whether text is a number literal JSON accepts verbatim.
func isJSONNumber(text string) bool {
	if text == "" || strings.ContainsAny(text, " \t\r\n") {
		return false
	}
	if c := text[0]; c != '-' && (c < '0' || c > '9') {
		return false
	}
	return json.Valid([]byte(text))
}
