package diff

import (
	"fmt"

	"github.com/pstuifzand/hierarchy-diff/internal/document"
	"github.com/pstuifzand/hierarchy-diff/internal/tree"
)

const (
	originSlot = 0
	targetSlot = 1
)

// merger builds the parallel tree from the walk decisions. Parents are
// always decided before their children, so their parallel nodes exist by
// the time a child is placed.
type merger struct {
	cmp       *Comparison
	byOrigin  map[*tree.Node]*ParallelNode
	byTarget  map[*tree.Node]*ParallelNode
	root      *ParallelNode
	demotions []Demotion
}

func newMerger(cmp *Comparison) *merger {
	return &merger{
		cmp:      cmp,
		byOrigin: make(map[*tree.Node]*ParallelNode),
		byTarget: make(map[*tree.Node]*ParallelNode),
	}
}

func (m *merger) merge(decisions []decision) (*ParallelNode, error) {
	for _, d := range decisions {
		var err error
		switch {
		case d.joined():
			err = m.addJoined(d.origin, d.target)
		case d.origin != nil:
			err = m.addOrphan(originSlot, d.origin)
		default:
			err = m.addOrphan(targetSlot, d.target)
		}
		if err != nil {
			return nil, err
		}
	}
	if m.root == nil {
		return nil, fmt.Errorf("%w: nothing to merge", ErrDisjointRoots)
	}
	return m.root, nil
}

func (m *merger) parentOf(n *tree.Node, placed map[*tree.Node]*ParallelNode) *ParallelNode {
	if n.Parent() == nil {
		return nil
	}
	return placed[n.Parent()]
}

func (m *merger) addJoined(origin, target *tree.Node) error {
	po := m.parentOf(origin, m.byOrigin)
	pt := m.parentOf(target, m.byTarget)

	var parent *ParallelNode
	switch {
	case po == nil && pt == nil:
	case po == nil:
		parent = pt
	case pt == nil, po == pt:
		parent = po
	case po.IsAncestorOf(pt):
		parent = pt
	case pt.IsAncestorOf(po):
		parent = po
	default:
		m.demotions = append(m.demotions, Demotion{
			Origin: document.NodeOf(origin),
			Target: document.NodeOf(target),
			Reason: "parents are on unrelated branches",
		})
		if err := m.addOrphan(originSlot, origin); err != nil {
			return err
		}
		return m.addOrphan(targetSlot, target)
	}

	node, err := newParallelNode(m.cmp, []document.Node{document.NodeOf(origin), document.NodeOf(target)})
	if err != nil {
		return err
	}
	if err := m.place(node, parent); err != nil {
		return err
	}
	m.byOrigin[origin] = node
	m.byTarget[target] = node
	return nil
}

func (m *merger) addOrphan(slot int, n *tree.Node) error {
	slots := make([]document.Node, 2)
	slots[slot] = document.NodeOf(n)
	node, err := newParallelNode(m.cmp, slots)
	if err != nil {
		return err
	}

	placed := m.byOrigin
	if slot == targetSlot {
		placed = m.byTarget
	}
	if err := m.place(node, m.parentOf(n, placed)); err != nil {
		return err
	}
	placed[n] = node
	return nil
}

func (m *merger) place(node, parent *ParallelNode) error {
	if parent != nil {
		parent.AddChild(node)
		return nil
	}
	if m.root != nil {
		return fmt.Errorf("%w: second root %q", ErrDisjointRoots, node.Name())
	}
	m.root = node
	return nil
}
