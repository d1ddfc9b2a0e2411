package plain

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML implements yaml.Unmarshaler keeping document key order.
// A null document decodes into an empty map.
func (m *Map) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*m = Map{}
		return nil
	}

	decoded, err := mapFromNode(node)
	if err != nil {
		return err
	}

	*m = *decoded

	return nil
}

func mapFromNode(node *yaml.Node) (*Map, error) {
	if node.Kind == yaml.AliasNode {
		return mapFromNode(node.Alias)
	}

	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping, got %s", node.Line, nodeKindName(node.Kind))
	}

	out := New()
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]

		var key string
		if err := keyNode.Decode(&key); err != nil {
			return nil, fmt.Errorf("line %d: decode key: %w", keyNode.Line, err)
		}

		v, err := valueFromNode(valueNode)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}

		out.Set(key, v)
	}

	return out, nil
}

func valueFromNode(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.MappingNode:
		return mapFromNode(node)

	case yaml.SequenceNode:
		out := make([]any, 0, len(node.Content))
		for i, item := range node.Content {
			v, err := valueFromNode(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}

			out = append(out, v)
		}

		return out, nil

	case yaml.AliasNode:
		return valueFromNode(node.Alias)

	default:
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}

		return v, nil
	}
}

// MarshalYAML implements yaml.Marshaler emitting keys in insertion order.
func (m *Map) MarshalYAML() (any, error) {
	return m.node()
}

func (m *Map) node() (*yaml.Node, error) {
	out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	var err error
	m.Range(func(k string, v any) bool {
		var valueNode *yaml.Node

		valueNode, err = nodeFromValue(v)
		if err != nil {
			err = fmt.Errorf("key %q: %w", k, err)
			return false
		}

		out.Content = append(out.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			valueNode,
		)

		return true
	})

	return out, err
}

func nodeFromValue(v any) (*yaml.Node, error) {
	switch tv := v.(type) {
	case *Map:
		return tv.node()

	case []any:
		out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i, item := range tv {
			child, err := nodeFromValue(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}

			out.Content = append(out.Content, child)
		}

		return out, nil

	default:
		var n yaml.Node
		if err := n.Encode(v); err != nil {
			return nil, err
		}

		return &n, nil
	}
}

func nodeKindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
