package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CompactJSON renders a prop value as compact JSON without HTML escaping.
// Nested *Props keep their insertion order.
func CompactJSON(v any) (string, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v, false); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func writeJSON(buf *bytes.Buffer, v any, escapeHTML bool) error {
	switch val := v.(type) {
	case *Props:
		if val == nil {
			buf.WriteString("null")
			return nil
		}
		buf.WriteByte('{')
		for i, k := range val.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeScalar(buf, k, escapeHTML); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeJSON(buf, val.values[k], escapeHTML); err != nil {
				return fmt.Errorf("prop %q: %w", k, err)
			}
		}
		buf.WriteByte('}')
		return nil
	case []any:
		if val == nil {
			buf.WriteString("null")
			return nil
		}
		buf.WriteByte('[')
		for i, e := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, e, escapeHTML); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	default:
		return writeScalar(buf, v, escapeHTML)
	}
}

func writeScalar(buf *bytes.Buffer, v any, escapeHTML bool) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(escapeHTML)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode appends a newline.
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch delim {
	case '{':
		p := NewProps()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("expected object key, got %v", keyTok)
			}
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			p.Set(key, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return p, nil
	case '[':
		arr := []any{}
		for dec.More() {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", delim)
	}
}
