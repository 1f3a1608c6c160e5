// Package syntax loads source files as read-only syntax trees using
// tree-sitter grammars. Only named grammar nodes are kept.
package syntax

import (
	"fmt"
	"os"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/pstuifzand/hierarchy-diff/internal/document"
)

// Node is a snapshot of one named syntax node. The tree-sitter tree is
// closed once loading finishes.
type Node struct {
	kind     string
	name     string
	text     string
	line     int
	children []*Node
}

func (n *Node) Kind() document.Kind { return document.Kind(n.kind) }

// Name is the identifier in the node's name field, or empty
func (n *Node) Name() string { return n.name }

// Value is the source text of leaf nodes
func (n *Node) Value() (string, bool) {
	if len(n.children) > 0 {
		return "", false
	}
	return n.text, true
}

// Line is the 1-based line the node starts on
func (n *Node) Line() int { return n.line }

func (n *Node) Children() []document.Node {
	out := make([]document.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

// Format parses one language
type Format struct {
	name string
	exts []string
	lang *tree_sitter.Language
}

var _ document.Format = (*Format)(nil)

// Go returns the Go source format
func Go() *Format {
	return &Format{name: "go", exts: []string{".go"}, lang: tree_sitter.NewLanguage(tree_sitter_go.Language())}
}

// Python returns the Python source format
func Python() *Format {
	return &Format{name: "python", exts: []string{".py"}, lang: tree_sitter.NewLanguage(tree_sitter_python.Language())}
}

// TypeScript returns the TypeScript source format
func TypeScript() *Format {
	return &Format{name: "typescript", exts: []string{".ts"}, lang: tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())}
}

// Rust returns the Rust source format
func Rust() *Format {
	return &Format{name: "rust", exts: []string{".rs"}, lang: tree_sitter.NewLanguage(tree_sitter_rust.Language())}
}

// All returns every supported language
func All() []*Format {
	return []*Format{Go(), Python(), TypeScript(), Rust()}
}

func (f *Format) Name() string { return f.name }
func (f *Format) Extensions() []string { return f.exts }

func (f *Format) Load(path string) (document.Node, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return f.Parse(source)
}

// Parse snapshots the syntax tree of source
func (f *Format) Parse(source []byte) (*Node, error) {
	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(f.lang); err != nil {
		return nil, fmt.Errorf("set language %s: %w", f.name, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter returned nil tree for %s source", f.name)
	}
	defer tree.Close()

	cursor := tree.RootNode().Walk()
	defer cursor.Close()
	return snapshot(cursor, source), nil
}

func snapshot(cursor *tree_sitter.TreeCursor, source []byte) *Node {
	node := cursor.Node()
	n := &Node{
		kind: node.Kind(),
		line: int(node.StartPosition().Row) + 1,
	}
	if name := node.ChildByFieldName("name"); name != nil {
		n.name = name.Utf8Text(source)
	}

	if cursor.GotoFirstChild() {
		for {
			if cursor.Node().IsNamed() {
				n.children = append(n.children, snapshot(cursor, source))
			}
			if !cursor.GotoNextSibling() {
				break
			}
		}
		cursor.GotoParent()
	}
	if len(n.children) == 0 {
		n.text = node.Utf8Text(source)
	}
	return n
}

func (f *Format) Save(document.Node, string) error {
	return fmt.Errorf("%w: %s", document.ErrReadOnly, f.name)
}

// Compare pairs nodes of the same grammar kind, preferring equal names
func (f *Format) Compare(a, b document.Node) float64 {
	if a.Kind() != b.Kind() {
		return 0
	}
	if a.Name() != b.Name() {
		return 0.3
	}
	if document.SameValue(a, b) {
		return 1
	}
	return 0.5
}

func (f *Format) SetValue(document.Node, string) bool { return false }

// ReadOnly marks syntax trees as never saved
func (f *Format) ReadOnly() bool { return true }
