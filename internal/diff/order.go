package diff

// IsBefore reports whether a comes before b in document order. An ancestor
// comes before its descendants; siblings are ordered by child index under
// their shared ancestor. Equal nodes and nodes of different trees are never
// before each other.
func IsBefore(a, b *ParallelNode) bool {
	if a == nil || b == nil || a == b {
		return false
	}

	pa, pb := a.path(), b.path()
	if pa[0] != pb[0] {
		return false
	}

	i := 0
	for i < len(pa) && i < len(pb) && pa[i] == pb[i] {
		i++
	}
	switch {
	case i == len(pa):
		return true
	case i == len(pb):
		return false
	}

	shared := pa[i-1]
	return shared.indexOf(pa[i]) < shared.indexOf(pb[i])
}

// Between returns the nodes of the tree from the earlier of a and b to the
// later one, inclusive, in document order.
func Between(a, b *ParallelNode) []*ParallelNode {
	if a == nil || b == nil {
		return nil
	}
	if IsBefore(b, a) {
		a, b = b, a
	}

	root := a.path()[0]
	var out []*ParallelNode
	inside := false
	done := false
	root.Walk(func(n *ParallelNode) bool {
		if done {
			return false
		}
		if n == a {
			inside = true
		}
		if inside {
			out = append(out, n)
		}
		if n == b {
			done = true
		}
		return true
	})
	if !done || !inside {
		return nil
	}
	return out
}
