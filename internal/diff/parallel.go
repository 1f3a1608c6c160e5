package diff

import (
	"fmt"

	"github.com/pstuifzand/hierarchy-diff/internal/document"
)

// ParallelNode pairs corresponding nodes across documents. Slot i holds the
// payload from document i or nil. All occupied slots share one kind.
type ParallelNode struct {
	slots     []document.Node
	kind      document.Kind
	parent    *ParallelNode
	groups    []*kindGroup
	cmp       *Comparison
	observers []func(slot int, value string)
}

// kindGroup keeps the children of one kind in visitation order
type kindGroup struct {
	kind  document.Kind
	nodes []*ParallelNode
}

// NewParallelNode creates a detached node with one slot per argument
func NewParallelNode(slots ...document.Node) (*ParallelNode, error) {
	return newParallelNode(nil, slots)
}

func newParallelNode(cmp *Comparison, slots []document.Node) (*ParallelNode, error) {
	var kind document.Kind
	occupied := 0
	for _, n := range slots {
		if n == nil {
			continue
		}
		if occupied > 0 && n.Kind() != kind {
			return nil, fmt.Errorf("%w: %s and %s", ErrKindMismatch, kind, n.Kind())
		}
		kind = n.Kind()
		occupied++
	}
	if occupied == 0 {
		return nil, fmt.Errorf("%w: no occupied slot", ErrKindMismatch)
	}
	return &ParallelNode{slots: slots, kind: kind, cmp: cmp}, nil
}

// Get returns the payload in slot, or nil when the slot is empty
func (p *ParallelNode) Get(slot int) document.Node {
	if slot < 0 || slot >= len(p.slots) {
		return nil
	}
	return p.slots[slot]
}

// Width is the number of slots
func (p *ParallelNode) Width() int {
	return len(p.slots)
}

// Kind is the shared kind of the occupied slots
func (p *ParallelNode) Kind() document.Kind {
	return p.kind
}

// Parent returns the parent node, or nil for the root
func (p *ParallelNode) Parent() *ParallelNode {
	return p.parent
}

// Name returns the name of the first occupied slot
func (p *ParallelNode) Name() string {
	for _, n := range p.slots {
		if n != nil {
			return n.Name()
		}
	}
	return ""
}

// Children returns the children grouped by kind in first-seen order
func (p *ParallelNode) Children() []*ParallelNode {
	var out []*ParallelNode
	for _, g := range p.groups {
		out = append(out, g.nodes...)
	}
	return out
}

// HasChildren reports whether the node has any child
func (p *ParallelNode) HasChildren() bool {
	return len(p.groups) > 0
}

// AddChild appends child to the group of its kind
func (p *ParallelNode) AddChild(child *ParallelNode) {
	child.parent = p
	for _, g := range p.groups {
		if g.kind == child.kind {
			g.nodes = append(g.nodes, child)
			return
		}
	}
	p.groups = append(p.groups, &kindGroup{kind: child.kind, nodes: []*ParallelNode{child}})
}

// indexOf returns the position of child in Children order, or -1
func (p *ParallelNode) indexOf(child *ParallelNode) int {
	offset := 0
	for _, g := range p.groups {
		for i, n := range g.nodes {
			if n == child {
				return offset + i
			}
		}
		offset += len(g.nodes)
	}
	return -1
}

// IsAncestorOf reports whether p is a strict ancestor of other
func (p *ParallelNode) IsAncestorOf(other *ParallelNode) bool {
	if other == nil {
		return false
	}
	for n := other.parent; n != nil; n = n.parent {
		if n == p {
			return true
		}
	}
	return false
}

// Depth is 0 for the root
func (p *ParallelNode) Depth() int {
	depth := 0
	for n := p.parent; n != nil; n = n.parent {
		depth++
	}
	return depth
}

// path returns the nodes from the root down to p
func (p *ParallelNode) path() []*ParallelNode {
	var nodes []*ParallelNode
	for n := p; n != nil; n = n.parent {
		nodes = append(nodes, n)
	}
	for l, r := 0, len(nodes)-1; l < r; l, r = l+1, r-1 {
		nodes[l], nodes[r] = nodes[r], nodes[l]
	}
	return nodes
}

// Walk visits p and its descendants in preorder. Returning false from fn
// skips the descendants of that node.
func (p *ParallelNode) Walk(fn func(*ParallelNode) bool) {
	if !fn(p) {
		return
	}
	for _, child := range p.Children() {
		child.Walk(fn)
	}
}

// Unchanged reports whether every slot of every node in the subtree is Same
func (p *ParallelNode) Unchanged() bool {
	unchanged := true
	p.Walk(func(n *ParallelNode) bool {
		if !n.same() {
			unchanged = false
		}
		return unchanged
	})
	return unchanged
}

// Changed reports whether any slot of p itself differs
func (p *ParallelNode) Changed() bool {
	return !p.same()
}

func (p *ParallelNode) same() bool {
	for slot := range p.slots {
		if p.Classification(slot) != Same {
			return false
		}
	}
	return true
}

// OnValueChanged registers fn to run after a value edit on any slot of p
func (p *ParallelNode) OnValueChanged(fn func(slot int, value string)) {
	p.observers = append(p.observers, fn)
}

func (p *ParallelNode) notify(slot int, value string) {
	for _, fn := range p.observers {
		fn(slot, value)
	}
}

// SetValue edits the payload in slot through the owning comparison. It
// reports whether the value changed.
func (p *ParallelNode) SetValue(slot int, value string) bool {
	if p.cmp == nil {
		return false
	}
	return p.cmp.SetValue(p, slot, value)
}

// Undo reverts the most recent edit of the document in slot. The edit may
// belong to another node of the same document.
func (p *ParallelNode) Undo(slot int) bool {
	if p.cmp == nil {
		return false
	}
	return p.cmp.Undo(slot)
}

// Redo reapplies the most recently undone edit of the document in slot
func (p *ParallelNode) Redo(slot int) bool {
	if p.cmp == nil {
		return false
	}
	return p.cmp.Redo(slot)
}

// View projects p onto one slot
func (p *ParallelNode) View(slot int) ViewNode {
	return ViewNode{node: p, slot: slot}
}

// ViewNode is the projection of a parallel node onto one document. Two
// views are equal when they share the node and the slot.
type ViewNode struct {
	node *ParallelNode
	slot int
}

// Node returns the underlying parallel node
func (v ViewNode) Node() *ParallelNode { return v.node }

// Slot returns the projected slot
func (v ViewNode) Slot() int { return v.slot }

// Payload returns the document node of the slot, or nil
func (v ViewNode) Payload() document.Node {
	if v.node == nil {
		return nil
	}
	return v.node.Get(v.slot)
}

// Present reports whether the slot holds a payload
func (v ViewNode) Present() bool {
	return v.Payload() != nil
}

func (v ViewNode) Name() string {
	if n := v.Payload(); n != nil {
		return n.Name()
	}
	return ""
}

func (v ViewNode) Value() (string, bool) {
	if n := v.Payload(); n != nil {
		return n.Value()
	}
	return "", false
}

// Classification classifies the projected slot
func (v ViewNode) Classification() Difference {
	return v.node.Classification(v.slot)
}

// Display is the classification recolored for rendering this slot
func (v ViewNode) Display() Difference {
	return v.node.Display(v.slot)
}

// Children projects the children of the node onto the same slot. Children
// whose slot is empty are included so columns stay aligned.
func (v ViewNode) Children() []ViewNode {
	children := v.node.Children()
	out := make([]ViewNode, len(children))
	for i, c := range children {
		out[i] = c.View(v.slot)
	}
	return out
}

// SetValue edits the projected slot
func (v ViewNode) SetValue(value string) bool {
	return v.node.SetValue(v.slot, value)
}
