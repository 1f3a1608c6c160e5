package diff

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/pstuifzand/hierarchy-diff/internal/align"
	"github.com/pstuifzand/hierarchy-diff/internal/document"
	"github.com/pstuifzand/hierarchy-diff/internal/tree"
)

type nodePair = align.Pair[*tree.Node]

// decision is the outcome for one node of the final walk: joined when both
// sides are set, an orphan otherwise.
type decision struct {
	origin *tree.Node
	target *tree.Node
}

func (d decision) joined() bool {
	return d.origin != nil && d.target != nil
}

// Demotion records a matched pair that was split into two orphans because
// its placement was inconsistent with the surrounding matches.
type Demotion struct {
	Origin document.Node
	Target document.Node
	Reason string
}

type correspondence struct {
	decisions []decision
	demotions []Demotion
	// mapped holds origin preorder index -> target preorder index
	mapped map[int]int
}

// sameKind admits only pairs whose payloads share a kind
func sameKind(a, b *tree.Node) bool {
	return document.NodeOf(a).Kind() == document.NodeOf(b).Kind()
}

// correspond aligns the two trees in preorder, refines the survivors in
// postorder and walks both trees to decide every node.
func correspond(origin, target *tree.Node, score func(a, b *tree.Node) float64, logger *slog.Logger) (*correspondence, error) {
	candidates, err := align.AlignWhere(origin.Flatten(tree.Preorder), target.Flatten(tree.Preorder), score, sameKind)
	if err != nil {
		return nil, fmt.Errorf("failed preorder alignment: %w", err)
	}

	inOrigin := make(map[*tree.Node]bool, len(candidates))
	inTarget := make(map[*tree.Node]bool, len(candidates))
	for _, p := range candidates {
		inOrigin[p.Origin] = true
		inTarget[p.Target] = true
	}
	restrict := func(nodes []*tree.Node, keep map[*tree.Node]bool) []*tree.Node {
		return slices.DeleteFunc(nodes, func(n *tree.Node) bool { return !keep[n] })
	}

	refined, err := align.AlignWhere(
		restrict(origin.Flatten(tree.Postorder), inOrigin),
		restrict(target.Flatten(tree.Postorder), inTarget),
		score,
		sameKind,
	)
	if err != nil {
		return nil, fmt.Errorf("failed postorder alignment: %w", err)
	}

	ordered, dropped, err := reconcile(refined)
	if err != nil {
		return nil, err
	}

	logger.Debug("aligned documents",
		"candidates", len(candidates),
		"refined", len(refined),
		"ordered", len(ordered))

	c, err := walk(origin, target, ordered)
	if err != nil {
		return nil, err
	}
	for _, p := range dropped {
		c.demotions = append(c.demotions, Demotion{
			Origin: document.NodeOf(p.Origin),
			Target: document.NodeOf(p.Target),
			Reason: "crosses document order",
		})
	}
	return c, nil
}

// reconcile keeps the heaviest subset of pairs that increases in preorder on
// both sides, which the final walk requires. The pairs it gives up are
// returned as dropped.
func reconcile(pairs []nodePair) (kept, dropped []nodePair, err error) {
	if increasingInPreorder(pairs) {
		return pairs, nil, nil
	}

	byOrigin := slices.Clone(pairs)
	slices.SortFunc(byOrigin, func(a, b nodePair) int { return a.Origin.Index() - b.Origin.Index() })
	byTarget := slices.Clone(pairs)
	slices.SortFunc(byTarget, func(a, b nodePair) int { return a.Target.Index() - b.Target.Index() })

	partner := make(map[*tree.Node]nodePair, len(pairs))
	origins := make([]*tree.Node, len(byOrigin))
	for i, p := range byOrigin {
		origins[i] = p.Origin
		partner[p.Origin] = p
	}
	targets := make([]*tree.Node, len(byTarget))
	for i, p := range byTarget {
		targets[i] = p.Target
	}

	kept, err = align.AlignWhere(origins, targets,
		func(o, t *tree.Node) float64 { return partner[o].Score },
		func(o, t *tree.Node) bool { return partner[o].Target == t },
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to order matches: %w", err)
	}

	survived := make(map[*tree.Node]bool, len(kept))
	for _, p := range kept {
		survived[p.Origin] = true
	}
	for _, p := range byOrigin {
		if !survived[p.Origin] {
			dropped = append(dropped, p)
		}
	}
	return kept, dropped, nil
}

func increasingInPreorder(pairs []nodePair) bool {
	for i := 1; i < len(pairs); i++ {
		if pairs[i-1].Origin.Index() >= pairs[i].Origin.Index() ||
			pairs[i-1].Target.Index() >= pairs[i].Target.Index() {
			return false
		}
	}
	return true
}

// walk advances both preorder traversals against the ordered pairs. A pair
// is joined only when both nodes are roots or their parents were joined to
// each other.
func walk(origin, target *tree.Node, pairs []nodePair) (*correspondence, error) {
	origins := origin.Flatten(tree.Preorder)
	targets := target.Flatten(tree.Preorder)

	c := &correspondence{mapped: make(map[int]int, len(pairs))}
	oi, ti, k := 0, 0, 0
	for oi < len(origins) || ti < len(targets) {
		var o, t *tree.Node
		if oi < len(origins) {
			o = origins[oi]
		}
		if ti < len(targets) {
			t = targets[ti]
		}
		var next *nodePair
		if k < len(pairs) {
			next = &pairs[k]
		}

		if next != nil && o == next.Origin && t == next.Target {
			if c.parentsJoined(o, t) {
				c.mapped[o.Index()] = t.Index()
				c.decisions = append(c.decisions, decision{origin: o, target: t})
			} else {
				c.decisions = append(c.decisions, decision{origin: o}, decision{target: t})
				c.demotions = append(c.demotions, Demotion{
					Origin: document.NodeOf(o),
					Target: document.NodeOf(t),
					Reason: "parents do not correspond",
				})
			}
			oi++
			ti++
			k++
			continue
		}

		if o != nil && (next == nil || o.Index() < next.Origin.Index()) {
			c.decisions = append(c.decisions, decision{origin: o})
			oi++
			continue
		}
		if t != nil && (next == nil || t.Index() < next.Target.Index()) {
			c.decisions = append(c.decisions, decision{target: t})
			ti++
			continue
		}

		return nil, fmt.Errorf("%w: stuck at origin %d, target %d, pair %d of %d",
			ErrInconsistentCorrespondence, oi, ti, k, len(pairs))
	}

	if k < len(pairs) {
		return nil, fmt.Errorf("%w: %d matched pairs left after walk",
			ErrInconsistentCorrespondence, len(pairs)-k)
	}
	return c, nil
}

func (c *correspondence) parentsJoined(o, t *tree.Node) bool {
	op, tp := o.Parent(), t.Parent()
	if op == nil && tp == nil {
		return true
	}
	if op == nil || tp == nil {
		return false
	}
	mapped, ok := c.mapped[op.Index()]
	return ok && mapped == tp.Index()
}
