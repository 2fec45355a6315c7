package encoder

import (
	"fmt"
	"strings"
)

// Encoding selects the shape of the combined output.
type Encoding int

const (
	YAMLStream  Encoding = iota // documents back to back, each opened by "---"
	JSONArray                   // one JSON array, one element per document
	JSONK8sList                 // JSONArray nested in a Kubernetes List object
)

// Names accepted by ParseEncoding, canonical name first for each encoding.
var encodingNames = map[string]Encoding{
	"yaml":            YAMLStream,
	"json-array":      JSONArray,
	"json":            JSONArray,
	"k8s-json":        JSONK8sList,
	"kubernetes-json": JSONK8sList,
	"json-k8s":        JSONK8sList,
}

// ParseEncoding maps a user-supplied name (case-insensitive) to an Encoding.
func ParseEncoding(s string) (Encoding, error) {
	if e, ok := encodingNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return e, nil
	}
	return YAMLStream, fmt.Errorf("unknown format %q (options are: yaml, json-array, k8s-json)", s)
}

func (e Encoding) String() string {
	switch e {
	case JSONArray:
		return "json-array"
	case JSONK8sList:
		return "k8s-json"
	default:
		return "yaml"
	}
}

// Set implements pflag.Value so an Encoding can be bound to a flag directly.
func (e *Encoding) Set(s string) error {
	v, err := ParseEncoding(s)
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// Type implements pflag.Value.
func (e *Encoding) Type() string { return "format" }

// UnmarshalText lets configuration files name an encoding.
func (e *Encoding) UnmarshalText(text []byte) error { return e.Set(string(text)) }

// MarshalText returns the canonical name.
func (e Encoding) MarshalText() ([]byte, error) { return []byte(e.String()), nil }
