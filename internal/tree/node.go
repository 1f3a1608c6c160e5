// Package tree wraps document payloads in an ordered tree with parent links
// and stable preorder indexes.
package tree

// Order selects a traversal order
type Order int

const (
	Preorder Order = iota
	Postorder
)

func (o Order) String() string {
	if o == Postorder {
		return "postorder"
	}
	return "preorder"
}

// Node owns one payload and its ordered children. The parent link is a
// back-reference only.
type Node struct {
	payload  any
	parent   *Node
	children []*Node
	index    int
	depth    int
}

// Payload returns the wrapped document node
func (n *Node) Payload() any {
	return n.payload
}

// Parent returns the parent node, or nil for the root
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the ordered children. The slice must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// Index is the preorder position of the node inside its tree. It is unique
// per tree and increases along a preorder traversal.
func (n *Node) Index() int {
	return n.index
}

// Depth is 0 for the root
func (n *Node) Depth() int {
	return n.depth
}

// IsRoot reports whether the node has no parent
func (n *Node) IsRoot() bool {
	return n.parent == nil
}

// IsAncestorOf reports whether n is a strict ancestor of other
func (n *Node) IsAncestorOf(other *Node) bool {
	if other == nil {
		return false
	}
	for p := other.parent; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// Walk visits n and its descendants in the given order. Returning false from
// fn stops the walk.
func (n *Node) Walk(order Order, fn func(*Node) bool) bool {
	if order == Preorder && !fn(n) {
		return false
	}
	for _, child := range n.children {
		if !child.Walk(order, fn) {
			return false
		}
	}
	if order == Postorder && !fn(n) {
		return false
	}
	return true
}

// Flatten returns n and all its descendants in the given order
func (n *Node) Flatten(order Order) []*Node {
	var nodes []*Node
	n.Walk(order, func(node *Node) bool {
		nodes = append(nodes, node)
		return true
	})
	return nodes
}

// Size returns the number of nodes in the subtree rooted at n
func (n *Node) Size() int {
	size := 1
	for _, child := range n.children {
		size += child.Size()
	}
	return size
}
