package codec

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"config-reconciler/plain"
)

// YAMLCodec handles YAML documents.
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Parse reads a single YAML document. An empty document yields an empty map.
func (c *YAMLCodec) Parse(r io.Reader) (*plain.Map, error) {
	m := plain.New()

	if err := yaml.NewDecoder(r).Decode(m); err != nil {
		if errors.Is(err, io.EOF) {
			return m, nil
		}

		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return m, nil
}

// Export writes m as a YAML document indented by four spaces.
func (c *YAMLCodec) Export(m *plain.Map, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(4)

	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("failed to write YAML: %w", err)
	}

	return enc.Close()
}
