package plain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// MarshalJSON implements json.Marshaler emitting keys in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	var err error
	i := 0
	m.Range(func(k string, v any) bool {
		if i > 0 {
			buf.WriteByte(',')
		}
		i++

		var kb, vb []byte

		kb, err = json.Marshal(k)
		if err != nil {
			return false
		}

		vb, err = json.Marshal(v)
		if err != nil {
			err = fmt.Errorf("key %q: %w", k, err)
			return false
		}

		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)

		return true
	})

	if err != nil {
		return nil, err
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler keeping document key order.
// Integral numbers decode as int, the rest as float64, matching what
// yaml.v3 produces for the same document.
func (m *Map) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeJSONValue(dec)
	if err != nil {
		return err
	}

	switch tv := v.(type) {
	case nil:
		*m = Map{}
	case *Map:
		*m = *tv
	default:
		return fmt.Errorf("expected a JSON object, got %T", v)
	}

	return nil
}

func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			out := New()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}

				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("expected object key, got %v", keyTok)
				}

				v, err := decodeJSONValue(dec)
				if err != nil {
					return nil, fmt.Errorf("key %q: %w", key, err)
				}

				out.Set(key, v)
			}

			if _, err := dec.Token(); err != nil {
				return nil, err
			}

			return out, nil

		case '[':
			out := []any{}
			for dec.More() {
				v, err := decodeJSONValue(dec)
				if err != nil {
					return nil, fmt.Errorf("index %d: %w", len(out), err)
				}

				out = append(out, v)
			}

			if _, err := dec.Token(); err != nil {
				return nil, err
			}

			return out, nil

		default:
			return nil, errors.New("unexpected delimiter " + t.String())
		}

	case json.Number:
		return numberValue(t)

	default:
		return t, nil
	}
}

func numberValue(n json.Number) (any, error) {
	if !strings.ContainsAny(n.String(), ".eE") {
		if i, err := n.Int64(); err == nil && int64(int(i)) == i {
			return int(i), nil
		}
	}

	return n.Float64()
}
