package document

import (
	"fmt"
	"path/filepath"

	"github.com/pstuifzand/hierarchy-diff/internal/tree"
)

// Document is a loaded file: its adapter and the tree built from its root
// payload.
type Document struct {
	Path   string
	Format Format
	Root   *tree.Node
}

// Load reads path with the format registered for its extension
func Load(registry *Registry, path string) (*Document, error) {
	format, err := registry.ForPath(path)
	if err != nil {
		return nil, err
	}
	return LoadWith(format, path)
}

// LoadWith reads path with an explicit format
func LoadWith(format Format, path string) (*Document, error) {
	payload, err := format.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, filepath.Base(path), err)
	}
	return FromRoot(format, path, payload)
}

// FromRoot builds a document from an already parsed root payload
func FromRoot(format Format, path string, root Node) (*Document, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: %s: empty document", ErrUnavailable, filepath.Base(path))
	}
	top, err := tree.Build(root, func(p any) ([]any, error) {
		node, ok := p.(Node)
		if !ok {
			return nil, fmt.Errorf("payload %T is not a document node", p)
		}
		children := node.Children()
		out := make([]any, 0, len(children))
		for _, c := range children {
			out = append(out, c)
		}
		return out, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, filepath.Base(path), err)
	}
	return &Document{Path: path, Format: format, Root: top}, nil
}

// Save writes the document back through its format
func (d *Document) Save() error {
	return d.SaveAs(d.Path)
}

// SaveAs writes the document to path
func (d *Document) SaveAs(path string) error {
	if err := d.Format.Save(d.Root.Payload().(Node), path); err != nil {
		return fmt.Errorf("failed to save %s: %w", filepath.Base(path), err)
	}
	return nil
}

// NodeOf returns the payload of a tree node
func NodeOf(n *tree.Node) Node {
	if n == nil {
		return nil
	}
	return n.Payload().(Node)
}
