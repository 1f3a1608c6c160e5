// Package outline reads and writes .tuo outline files. Items are named by
// their ID so that renamed items still line up across revisions.
package outline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pstuifzand/hierarchy-diff/internal/document"
	"github.com/pstuifzand/hierarchy-diff/internal/model"
)

const (
	KindOutline   document.Kind = "outline"
	KindItem      document.Kind = "item"
	KindTag       document.Kind = "tag"
	KindAttribute document.Kind = "attribute"
)

// Node is one outline element. Exactly one of the pointers is set,
// depending on the kind.
type Node struct {
	kind    document.Kind
	outline *model.Outline
	item    *model.Item
	owner   *model.Item
	tag     int
	key     string
}

func (n *Node) Kind() document.Kind { return n.kind }

func (n *Node) Name() string {
	switch n.kind {
	case KindOutline:
		return "#outline"
	case KindItem:
		return n.item.ID
	case KindTag:
		return "#tag"
	}
	return n.key
}

func (n *Node) Value() (string, bool) {
	switch n.kind {
	case KindItem:
		return n.item.Text, true
	case KindTag:
		return n.owner.Metadata.Tags[n.tag], true
	case KindAttribute:
		return n.owner.Metadata.Attributes[n.key], true
	}
	return "", false
}

// Children lists tags, then attributes by sorted key, then child items
func (n *Node) Children() []document.Node {
	var out []document.Node
	switch n.kind {
	case KindOutline:
		for _, item := range n.outline.Items {
			out = append(out, &Node{kind: KindItem, item: item})
		}
	case KindItem:
		for i := range n.item.Tags() {
			out = append(out, &Node{kind: KindTag, owner: n.item, tag: i})
		}
		if md := n.item.Metadata; md != nil {
			for _, k := range sortedKeys(md.Attributes) {
				out = append(out, &Node{kind: KindAttribute, owner: n.item, key: k})
			}
		}
		for _, child := range n.item.Children {
			out = append(out, &Node{kind: KindItem, item: child})
		}
	}
	return out
}

// Item returns the outline item behind an item node
func (n *Node) Item() *model.Item {
	return n.item
}

// Format is the outline document adapter
type Format struct{}

var _ document.Format = Format{}

func (Format) Name() string { return "outline" }
func (Format) Extensions() []string { return []string{".tuo"} }

func (Format) Load(path string) (document.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	o, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Root(o), nil
}

// Parse decodes a .tuo file
func Parse(data []byte) (*model.Outline, error) {
	var o model.Outline
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	o.RestoreParents()
	return &o, nil
}

// Root wraps an outline as a document node
func Root(o *model.Outline) *Node {
	return &Node{kind: KindOutline, outline: o}
}

func (Format) Save(root document.Node, path string) error {
	n, ok := root.(*Node)
	if !ok || n.kind != KindOutline {
		return fmt.Errorf("failed to save: %T is not an outline", root)
	}
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(n.outline, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Compare pairs items by ID, falling back to a weak match on equal text
func (Format) Compare(a, b document.Node) float64 {
	if a.Kind() != b.Kind() {
		return 0
	}
	av, _ := a.Value()
	bv, _ := b.Value()
	switch a.Kind() {
	case KindOutline:
		return 1
	case KindItem:
		switch {
		case a.Name() == b.Name() && av == bv:
			return 1
		case a.Name() == b.Name():
			return 0.5
		case av == bv:
			return 0.3
		}
		return 0
	case KindTag:
		if av == bv {
			return 1
		}
		return 0
	}
	if a.Name() != b.Name() {
		return 0
	}
	if av == bv {
		return 1
	}
	return 0.5
}

// SetValue edits item text, tags and attribute values
func (Format) SetValue(n document.Node, value string) bool {
	x, ok := n.(*Node)
	if !ok {
		return false
	}
	switch x.kind {
	case KindItem:
		x.item.SetText(value)
	case KindTag:
		if value == "" {
			return false
		}
		x.owner.Metadata.Tags[x.tag] = value
		x.owner.Touch()
	case KindAttribute:
		x.owner.Metadata.Attributes[x.key] = value
		x.owner.Touch()
	default:
		return false
	}
	return true
}
