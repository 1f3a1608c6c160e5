// Package yamlfmt adapts yaml.v3 node trees to comparable documents.
package yamlfmt

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pstuifzand/hierarchy-diff/internal/document"
)

const (
	KindDocument document.Kind = "document"
	KindMapping  document.Kind = "mapping"
	KindSequence document.Kind = "sequence"
	KindScalar   document.Kind = "scalar"
	KindAlias    document.Kind = "alias"
)

// Node wraps a yaml.Node with the key it is stored under
type Node struct {
	key      string
	node     *yaml.Node
	children []*Node
}

func wrap(key string, n *yaml.Node) *Node {
	w := &Node{key: key, node: n}
	switch n.Kind {
	case yaml.DocumentNode:
		for _, c := range n.Content {
			w.children = append(w.children, wrap("$", c))
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			w.children = append(w.children, wrap(n.Content[i].Value, n.Content[i+1]))
		}
	case yaml.SequenceNode:
		for _, c := range n.Content {
			w.children = append(w.children, wrap("[]", c))
		}
	}
	return w
}

func (n *Node) Kind() document.Kind {
	switch n.node.Kind {
	case yaml.DocumentNode:
		return KindDocument
	case yaml.MappingNode:
		return KindMapping
	case yaml.SequenceNode:
		return KindSequence
	case yaml.AliasNode:
		return KindAlias
	}
	return KindScalar
}

func (n *Node) Name() string { return n.key }

func (n *Node) Value() (string, bool) {
	switch n.node.Kind {
	case yaml.ScalarNode:
		return n.node.Value, true
	case yaml.AliasNode:
		return "*" + n.node.Value, true
	}
	return "", false
}

// ValueType is the resolved tag of a scalar, such as !!int
func (n *Node) ValueType() string {
	if n.node.Kind != yaml.ScalarNode {
		return ""
	}
	return n.node.ShortTag()
}

func (n *Node) Children() []document.Node {
	out := make([]document.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

// Format is the YAML document adapter
type Format struct{}

var _ document.Format = Format{}

func (Format) Name() string { return "yaml" }

func (Format) Extensions() []string { return []string{".yaml", ".yml"} }

func (Format) Load(path string) (document.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data)
}

// Parse decodes the first YAML document in data
func Parse(data []byte) (*Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if root.Kind == 0 {
		root.Kind = yaml.DocumentNode
	}
	return wrap("#document", &root), nil
}

func (Format) Save(root document.Node, path string) error {
	n, ok := root.(*Node)
	if !ok {
		return fmt.Errorf("failed to save: %T is not a YAML node", root)
	}
	data, err := Marshal(n)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Marshal encodes the document with two-space indentation
func Marshal(n *Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n.node); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// Compare matches collections by key and scalars by key and value
func (Format) Compare(a, b document.Node) float64 {
	if a.Kind() != b.Kind() || a.Name() != b.Name() {
		return 0
	}
	if (a.Kind() != KindScalar && a.Kind() != KindAlias) || document.SameValue(a, b) {
		return 1
	}
	return 0.5
}

// SetValue replaces a scalar. Explicit string tags are kept; other tags are
// resolved again from the new value.
func (Format) SetValue(n document.Node, value string) bool {
	x, ok := n.(*Node)
	if !ok || x.node.Kind != yaml.ScalarNode {
		return false
	}
	if x.node.ShortTag() != "!!str" {
		x.node.Tag = ""
	}
	x.node.Value = value
	return true
}
