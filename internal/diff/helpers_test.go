package diff

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/hierarchy-diff/internal/document"
)

// testNode is a minimal payload: "name" or "name=value", with an optional
// "kind:" prefix (default "elem").
type testNode struct {
	kind     document.Kind
	name     string
	value    string
	hasValue bool
	children []document.Node
}

func (n *testNode) Kind() document.Kind { return n.kind }
func (n *testNode) Name() string { return n.name }
func (n *testNode) Value() (string, bool) { return n.value, n.hasValue }
func (n *testNode) Children() []document.Node { return n.children }

type testFormat struct {
	name string
}

func (f testFormat) Name() string {
	if f.name == "" {
		return "test"
	}
	return f.name
}

func (testFormat) Extensions() []string { return []string{".tree"} }

func (testFormat) Load(path string) (document.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseTree(string(data))
}

func (testFormat) Save(root document.Node, path string) error {
	var sb strings.Builder
	var write func(n document.Node, depth int)
	write = func(n document.Node, depth int) {
		t := n.(*testNode)
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(t.name)
		if t.hasValue {
			sb.WriteString("=" + t.value)
		}
		sb.WriteString("\n")
		for _, c := range t.children {
			write(c, depth+1)
		}
	}
	write(root, 0)
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}

func (testFormat) Compare(a, b document.Node) float64 {
	if a.Kind() != b.Kind() || a.Name() != b.Name() {
		return 0
	}
	if document.SameValue(a, b) {
		return 1
	}
	return 0.5
}

func (testFormat) SetValue(n document.Node, value string) bool {
	t := n.(*testNode)
	if !t.hasValue || value == "reject" {
		return false
	}
	t.value = value
	return true
}

// parseTree reads two-space indented lines
func parseTree(text string) (document.Node, error) {
	var root *testNode
	var stack []*testNode
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		trimmed := strings.TrimLeft(line, " ")
		depth := (len(line) - len(trimmed)) / 2

		n := &testNode{kind: "elem"}
		if kind, rest, ok := strings.Cut(trimmed, ":"); ok {
			n.kind = document.Kind(kind)
			trimmed = rest
		}
		n.name, n.value, n.hasValue = strings.Cut(trimmed, "=")

		if depth == 0 {
			if root != nil {
				return nil, fmt.Errorf("second root %q", n.name)
			}
			root = n
			stack = []*testNode{n}
			continue
		}
		if depth > len(stack) {
			return nil, fmt.Errorf("bad indent at %q", line)
		}
		stack = stack[:depth]
		parent := stack[depth-1]
		parent.children = append(parent.children, n)
		stack = append(stack, n)
	}
	if root == nil {
		return nil, fmt.Errorf("empty tree")
	}
	return root, nil
}

func mustDoc(t *testing.T, name, text string) *document.Document {
	t.Helper()
	root, err := parseTree(text)
	require.NoError(t, err)
	doc, err := document.FromRoot(testFormat{}, name, root)
	require.NoError(t, err)
	return doc
}

func mustCompare(t *testing.T, origin, target string, opts ...Option) *Comparison {
	t.Helper()
	c, err := Compare([]*document.Document{mustDoc(t, "origin", origin), mustDoc(t, "target", target)}, opts...)
	require.NoError(t, err)
	return c
}

// find returns the first node in document order whose slot carries name
func find(t *testing.T, c *Comparison, slot int, name string) *ParallelNode {
	t.Helper()
	for _, n := range c.Nodes() {
		if p := n.Get(slot); p != nil && p.Name() == name {
			return n
		}
	}
	t.Fatalf("no node %q in slot %d\n%s", name, slot, dump(c))
	return nil
}

// classifications lists "name:origin/target" for every node in order
func classifications(c *Comparison) []string {
	var out []string
	for _, n := range c.Nodes() {
		out = append(out, fmt.Sprintf("%s:%s/%s", n.Name(), n.Classification(0), n.Classification(1)))
	}
	return out
}

func dump(c *Comparison) string {
	return spew.Sdump(classifications(c))
}
