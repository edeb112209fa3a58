package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"gopkg.in/yaml.v3"
)

// Props is an insertion-ordered mapping from prop name to value.
//
// Values are string, bool, a number (float64 or any integer type), []any,
// a nested *Props, or nil. Key order is preserved through Set, Clone and the
// JSON and YAML encodings; re-setting an existing key keeps its position.
type Props struct {
	keys   []string
	values map[string]any
}

// NewProps creates an empty Props.
func NewProps() *Props {
	return &Props{values: make(map[string]any)}
}

// Set stores value under key and returns p for chaining.
func (p *Props) Set(key string, value any) *Props {
	if p.values == nil {
		p.values = make(map[string]any)
	}
	if _, exists := p.values[key]; !exists {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
	return p
}

// Get returns the value stored under key.
func (p *Props) Get(key string) (any, bool) {
	if p == nil {
		return nil, false
	}
	v, ok := p.values[key]
	return v, ok
}

// String returns the value under key if it is a string.
func (p *Props) String(key string) (string, bool) {
	v, ok := p.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Len returns the number of keys.
func (p *Props) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Keys returns the keys in insertion order.
func (p *Props) Keys() []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Range calls fn for each key in insertion order until fn returns false.
func (p *Props) Range(fn func(key string, value any) bool) {
	if p == nil {
		return
	}
	for _, k := range p.keys {
		if !fn(k, p.values[k]) {
			return
		}
	}
}

// Clone returns a deep copy of p. Nested *Props and slices are copied.
func (p *Props) Clone() *Props {
	if p == nil {
		return nil
	}
	out := &Props{
		keys:   make([]string, len(p.keys)),
		values: make(map[string]any, len(p.values)),
	}
	copy(out.keys, p.keys)
	for k, v := range p.values {
		out.values[k] = cloneValue(v)
	}
	return out
}

// Equal reports whether p and q hold the same keys in the same order with
// deeply equal values. A nil Props equals an empty one.
func (p *Props) Equal(q *Props) bool {
	if p.Len() != q.Len() {
		return false
	}
	if p.Len() == 0 {
		return true
	}
	for i, k := range p.keys {
		if q.keys[i] != k {
			return false
		}
		if !valuesEqual(p.values[k], q.values[k]) {
			return false
		}
	}
	return true
}

func valuesEqual(a, b any) bool {
	pa, aok := a.(*Props)
	pb, bok := b.(*Props)
	if aok || bok {
		return aok && bok && pa.Equal(pb)
	}
	sa, aok := a.([]any)
	sb, bok := b.([]any)
	if aok && bok {
		if len(sa) != len(sb) {
			return false
		}
		for i := range sa {
			if !valuesEqual(sa[i], sb[i]) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case *Props:
		return val.Clone()
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// MarshalJSON encodes p as a JSON object in insertion order.
func (p *Props) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, p, true); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping the document's key order.
// Nested objects become *Props, arrays become []any and numbers float64.
func (p *Props) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	v, err := decodeValue(dec)
	if err != nil {
		return err
	}
	switch val := v.(type) {
	case nil:
		*p = *NewProps()
	case *Props:
		*p = *val
	default:
		return fmt.Errorf("props must be a JSON object, got %T", v)
	}
	return nil
}

// MarshalYAML encodes p as an ordered YAML mapping.
func (p *Props) MarshalYAML() (interface{}, error) {
	return yamlNode(p)
}

func yamlNode(v any) (*yaml.Node, error) {
	switch val := v.(type) {
	case *Props:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		var err error
		val.Range(func(k string, e any) bool {
			var child *yaml.Node
			child, err = yamlNode(e)
			if err != nil {
				return false
			}
			node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, child)
			return true
		})
		if err != nil {
			return nil, err
		}
		return node, nil
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range val {
			child, err := yamlNode(e)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	default:
		node := &yaml.Node{}
		if err := node.Encode(val); err != nil {
			return nil, fmt.Errorf("failed to encode prop value: %w", err)
		}
		return node, nil
	}
}
