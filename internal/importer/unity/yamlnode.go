package unity

import (
	"errors"

	"gopkg.in/yaml.v3"
)

const (
	tagNull = "!!null"
	tagInt  = "!!int"
)

// parseMapping parses data into a node tree and returns its top-level mapping.
// Decoding into yaml.Node keeps every scalar's source text, so values such as
// hex strings or all-digit GUIDs are never coerced into numbers.
func parseMapping(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("document is empty")
	}
	root := resolve(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return nil, errors.New("document is not a mapping")
	}
	return root, nil
}

// lookup returns the value stored under key in mapping m, or nil when the key
// is absent or m is not a mapping.
func lookup(m *yaml.Node, key string) *yaml.Node {
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return resolve(m.Content[i+1])
		}
	}
	return nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.ShortTag() == tagNull)
}

// scalarText returns the literal text of a non-null scalar.
func scalarText(n *yaml.Node) (string, bool) {
	if n == nil || n.Kind != yaml.ScalarNode || n.ShortTag() == tagNull {
		return "", false
	}
	return n.Value, true
}

// describe names the shape of n for error messages.
func describe(n *yaml.Node) string {
	switch {
	case n == nil:
		return "missing"
	case n.Kind == yaml.MappingNode:
		return "a mapping"
	case n.Kind == yaml.SequenceNode:
		return "a sequence"
	case n.Kind == yaml.ScalarNode && n.ShortTag() == tagNull:
		return "null"
	case n.Kind == yaml.ScalarNode:
		return "scalar " + n.ShortTag() + " " + quote(n.Value)
	default:
		return "unknown node"
	}
}

func quote(s string) string {
	const limit = 40
	if len(s) > limit {
		s = s[:limit] + "..."
	}
	return `"` + s + `"`
}
