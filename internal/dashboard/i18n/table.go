package i18n

import (
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Node is one entry of a translation table: either a leaf holding display
// text or a branch holding named children.
type Node struct {
	text     string
	children map[string]*Node
}

// Leaf reports whether n holds display text.
func (n *Node) Leaf() bool {
	return n != nil && n.children == nil
}

// Text returns the display text of a leaf.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	return n.text
}

// Child returns the named child of a branch.
func (n *Node) Child(name string) (*Node, bool) {
	if n == nil || n.children == nil {
		return nil, false
	}
	child, ok := n.children[name]
	return child, ok
}

// Walk follows path from n. It fails as soon as a segment is missing or the
// current node is a leaf.
func (n *Node) Walk(path []string) (*Node, bool) {
	current := n
	for _, segment := range path {
		next, ok := current.Child(segment)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// Keys returns the dotted paths of every leaf below n, sorted.
func (n *Node) Keys() []string {
	var keys []string
	n.collect("", &keys)
	sort.Strings(keys)
	return keys
}

func (n *Node) collect(prefix string, keys *[]string) {
	for name, child := range n.children {
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		if child.Leaf() {
			*keys = append(*keys, path)
			continue
		}
		child.collect(path, keys)
	}
}

// ParseTable decodes a YAML translation document. The document must be a
// mapping whose values are strings or further mappings.
func ParseTable(data []byte) (*Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode translation table: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("translation table is empty")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: translation table must be a mapping", root.Line)
	}
	return parseBranch(root, "")
}

func parseBranch(mapping *yaml.Node, prefix string) (*Node, error) {
	branch := &Node{children: make(map[string]*Node, len(mapping.Content)/2)}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		keyNode, valueNode := mapping.Content[i], mapping.Content[i+1]
		if keyNode.Kind != yaml.ScalarNode || keyNode.Value == "" {
			return nil, fmt.Errorf("line %d: invalid key under %q", keyNode.Line, prefix)
		}
		path := keyNode.Value
		if prefix != "" {
			path = prefix + "." + keyNode.Value
		}
		if _, exists := branch.children[keyNode.Value]; exists {
			return nil, fmt.Errorf("line %d: duplicate key %q", keyNode.Line, path)
		}

		switch {
		case valueNode.Kind == yaml.MappingNode:
			child, err := parseBranch(valueNode, path)
			if err != nil {
				return nil, err
			}
			branch.children[keyNode.Value] = child
		case valueNode.Kind == yaml.ScalarNode && valueNode.Tag == "!!str":
			branch.children[keyNode.Value] = &Node{text: valueNode.Value}
		default:
			return nil, fmt.Errorf("line %d: %q must be a string or a mapping", valueNode.Line, path)
		}
	}
	return branch, nil
}
