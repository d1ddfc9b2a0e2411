// Package codec reads and writes plain mappings in the file formats the
// command line tool accepts.
package codec

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"config-reconciler/plain"
)

// Importer parses a mapping from a reader.
type Importer interface {
	Parse(r io.Reader) (*plain.Map, error)
	Format() string
}

// Exporter writes a mapping to a writer.
type Exporter interface {
	Export(m *plain.Map, w io.Writer) error
	Format() string
}

// Codec both imports and exports one format.
type Codec interface {
	Importer
	Exporter
}

// ForFormat returns the codec for a format name ("yaml", "yml" or "json").
func ForFormat(format string) (Codec, error) {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	case "json":
		return NewJSONCodec(), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// ForPath picks the codec from the file extension of path.
func ForPath(path string) (Codec, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return nil, fmt.Errorf("cannot infer format of %q: no extension", path)
	}

	return ForFormat(ext)
}

// LoadFile reads the mapping stored at path.
func LoadFile(path string) (*plain.Map, error) {
	c, err := ForPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	m, err := c.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return m, nil
}
