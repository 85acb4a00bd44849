package ast

import (
	"bytes"
	"encoding/json"
)

// MarshalJSON renders the meta section as a JSON object in insertion order.
// Duplicate keys collapse to their last occurrence, keeping the position of
// the first.
func (m MetaEntries) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	written := make(map[string]bool, len(m))
	first := true
	for _, e := range m {
		if written[e.Key] {
			continue
		}
		written[e.Key] = true
		v, _ := m.Get(e.Key)
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON restores a meta object. Key order follows the document.
func (m *MetaEntries) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return &json.UnmarshalTypeError{Value: "non-object", Type: nil}
	}

	var out MetaEntries
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)

		valTok, err := dec.Token()
		if err != nil {
			return err
		}
		var val any
		switch v := valTok.(type) {
		case json.Number:
			n, err := v.Int64()
			if err != nil {
				return err
			}
			val = n
		default:
			val = v
		}
		out = append(out, &MetaEntry{Key: key, Value: val})
	}
	*m = out
	return nil
}
