package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"config-reconciler/plain"
)

// JSONCodec handles JSON documents.
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Parse reads a JSON object.
func (c *JSONCodec) Parse(r io.Reader) (*plain.Map, error) {
	m := plain.New()
	if err := json.NewDecoder(r).Decode(m); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return m, nil
}

// Export writes m as indented JSON.
func (c *JSONCodec) Export(m *plain.Map, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}

	return nil
}
