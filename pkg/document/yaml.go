package document

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Special float literals that have no JSON spelling.
const (
	posInf = ".inf"
	negInf = "-.inf"
	notNum = ".nan"
)

// FromNode converts a parsed yaml.v3 node into a Document. Aliases are
// expanded, merge keys ("<<") are kept as ordinary keys and custom tags fall
// back to the kind of the tagged node.
func FromNode(n *yaml.Node) (Document, error) {
	c := converter{active: map[*yaml.Node]bool{}}
	return c.convert(n)
}

type converter struct {
	active map[*yaml.Node]bool // aliases currently being expanded
}

func (c converter) convert(n *yaml.Node) (Document, error) {
	if n == nil {
		return Null(), nil
	}

	switch n.Kind {
	case 0:
		return Null(), nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}
		return c.convert(n.Content[0])
	case yaml.AliasNode:
		if c.active[n.Alias] {
			return Document{}, fmt.Errorf("line %d: alias *%s refers to itself", n.Line, n.Value)
		}
		c.active[n.Alias] = true
		defer delete(c.active, n.Alias)
		return c.convert(n.Alias)
	case yaml.SequenceNode:
		items := make([]Document, 0, len(n.Content))
		for _, child := range n.Content {
			item, err := c.convert(child)
			if err != nil {
				return Document{}, err
			}
			items = append(items, item)
		}
		return Document{kind: KindSequence, items: items}, nil
	case yaml.MappingNode:
		if len(n.Content)%2 != 0 {
			return Document{}, fmt.Errorf("line %d: mapping has a key without a value", n.Line)
		}
		pairs := make([]Pair, 0, len(n.Content)/2)
		for i := 0; i < len(n.Content); i += 2 {
			key, err := c.convert(n.Content[i])
			if err != nil {
				return Document{}, err
			}
			value, err := c.convert(n.Content[i+1])
			if err != nil {
				return Document{}, err
			}
			pairs = append(pairs, Pair{Key: key, Value: value})
		}
		return Document{kind: KindMapping, pairs: pairs}, nil
	case yaml.ScalarNode:
		return scalar(n)
	}
	return Document{}, fmt.Errorf("line %d: unsupported yaml node kind %d", n.Line, n.Kind)
}

func scalar(n *yaml.Node) (Document, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Document{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return Bool(b), nil
	case "!!int", "!!float":
		if isJSONNumber(n.Value) {
			return Number(n.Value), nil
		}
		var v interface{}
		if err := n.Decode(&v); err != nil {
			return Document{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return numberOf(v, n)
	default:
		// !!str, !!timestamp, !!binary and custom tags keep their text.
		return String(n.Value), nil
	}
}

func numberOf(v interface{}, n *yaml.Node) (Document, error) {
	switch x := v.(type) {
	case int:
		return Number(strconv.Itoa(x)), nil
	case int64:
		return Number(strconv.FormatInt(x, 10)), nil
	case uint64:
		return Number(strconv.FormatUint(x, 10)), nil
	case float64:
		switch {
		case math.IsNaN(x):
			return Number(notNum), nil
		case math.IsInf(x, 1):
			return Number(posInf), nil
		case math.IsInf(x, -1):
			return Number(negInf), nil
		}
		return Number(strconv.FormatFloat(x, 'g', -1, 64)), nil
	}
	return Document{}, fmt.Errorf("line %d: %q is not a number", n.Line, n.Value)
}

// Node converts d into a yaml.v3 node ready for encoding. Numbers are written
// plain when a YAML reader resolves the literal back to a number, and tagged
// otherwise (e.g. 1E400, which overflows float64).
func (d Document) Node() *yaml.Node {
	switch d.kind {
	case KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(d.flag)}
	case KindNumber:
		return numberNode(d.text)
	case KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: d.text}
	case KindSequence:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range d.items {
			n.Content = append(n.Content, item.Node())
		}
		return n
	case KindMapping:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, p := range d.pairs {
			n.Content = append(n.Content, p.Key.Node(), p.Value.Node())
		}
		return n
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

func numberNode(text string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Value: text}
	switch n.ShortTag() {
	case "!!int", "!!float":
		return n
	}
	if strings.ContainsAny(text, ".eE") {
		n.Tag = "!!float"
	} else {
		n.Tag = "!!int"
	}
	return n
}
