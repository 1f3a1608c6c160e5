package tree

import "fmt"

// ChildrenFunc returns the ordered children of a payload. Build calls it
// exactly once per node.
type ChildrenFunc func(payload any) ([]any, error)

// Build populates a tree breadth-first from the root payload and assigns
// preorder indexes once the shape is complete.
func Build(root any, children ChildrenFunc) (*Node, error) {
	if root == nil {
		return nil, fmt.Errorf("failed to build tree: nil root payload")
	}

	top := &Node{payload: root}
	queue := []*Node{top}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		payloads, err := children(current.payload)
		if err != nil {
			return nil, fmt.Errorf("failed to read children at depth %d: %w", current.depth, err)
		}
		if len(payloads) == 0 {
			continue
		}

		current.children = make([]*Node, 0, len(payloads))
		for _, p := range payloads {
			if p == nil {
				continue
			}
			child := &Node{payload: p, parent: current, depth: current.depth + 1}
			current.children = append(current.children, child)
			queue = append(queue, child)
		}
	}

	next := 0
	top.Walk(Preorder, func(n *Node) bool {
		n.index = next
		next++
		return true
	})

	return top, nil
}
