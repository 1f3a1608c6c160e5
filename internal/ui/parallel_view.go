package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/pstuifzand/hierarchy-diff/internal/diff"
)

// row is one visible line of the parallel tree
type row struct {
	node  *diff.ParallelNode
	depth int
}

// ParallelView shows a comparison as columns, one per document, sharing a
// single tree layout. Every row holds the same parallel node in each column;
// an empty slot leaves a gap so the columns stay aligned.
type ParallelView struct {
	cmp               *diff.Comparison
	rows              []row
	expanded          map[*diff.ParallelNode]bool
	collapseUnchanged bool
	cursor            int
	offset            int
	slot              int
	anchor            *diff.ParallelNode
	inRange           map[*diff.ParallelNode]bool
	matches           map[*diff.ParallelNode]bool
}

// NewParallelView creates a view of c. With collapseUnchanged, subtrees that
// are identical in every document start collapsed.
func NewParallelView(c *diff.Comparison, collapseUnchanged bool) *ParallelView {
	v := &ParallelView{
		cmp:               c,
		expanded:          make(map[*diff.ParallelNode]bool),
		collapseUnchanged: collapseUnchanged,
	}
	v.rebuild()
	return v
}

// Comparison returns the comparison being shown
func (v *ParallelView) Comparison() *diff.Comparison {
	return v.cmp
}

// SetComparison replaces the comparison, for example after a reload. The
// cursor keeps its row index where possible.
func (v *ParallelView) SetComparison(c *diff.Comparison) {
	v.cmp = c
	v.expanded = make(map[*diff.ParallelNode]bool)
	v.anchor = nil
	v.matches = nil
	v.rebuild()
}

// isExpanded decides whether the children of n are shown
func (v *ParallelView) isExpanded(n *diff.ParallelNode) bool {
	if open, ok := v.expanded[n]; ok {
		return open
	}
	if n.Parent() == nil {
		return true
	}
	return !(v.collapseUnchanged && n.Unchanged())
}

func (v *ParallelView) rebuild() {
	var selected *diff.ParallelNode
	if v.cursor < len(v.rows) {
		selected = v.rows[v.cursor].node
	}

	v.rows = v.rows[:0]
	root := v.cmp.Root()
	base := root.Depth()
	root.Walk(func(n *diff.ParallelNode) bool {
		v.rows = append(v.rows, row{node: n, depth: n.Depth() - base})
		return v.isExpanded(n)
	})

	if selected != nil {
		for i, r := range v.rows {
			if r.node == selected {
				v.cursor = i
				break
			}
		}
	}
	v.clampCursor()
	v.updateRange()
}

func (v *ParallelView) clampCursor() {
	if v.cursor >= len(v.rows) {
		v.cursor = len(v.rows) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

// Rows returns the visible nodes in display order
func (v *ParallelView) Rows() []*diff.ParallelNode {
	out := make([]*diff.ParallelNode, len(v.rows))
	for i, r := range v.rows {
		out[i] = r.node
	}
	return out
}

// Selected returns the node under the cursor
func (v *ParallelView) Selected() *diff.ParallelNode {
	if len(v.rows) == 0 {
		return nil
	}
	return v.rows[v.cursor].node
}

// SelectedIndex returns the cursor row
func (v *ParallelView) SelectedIndex() int {
	return v.cursor
}

// Slot returns the focused column
func (v *ParallelView) Slot() int {
	return v.slot
}

// SwitchSlot moves focus to the next column
func (v *ParallelView) SwitchSlot() {
	v.slot = (v.slot + 1) % v.cmp.Width()
}

// SelectedView projects the selected node onto the focused column
func (v *ParallelView) SelectedView() diff.ViewNode {
	return v.Selected().View(v.slot)
}

func (v *ParallelView) moveTo(i int) {
	v.cursor = i
	v.clampCursor()
	v.updateRange()
}

// SelectNext moves the cursor down one row
func (v *ParallelView) SelectNext() {
	v.moveTo(v.cursor + 1)
}

// SelectPrev moves the cursor up one row
func (v *ParallelView) SelectPrev() {
	v.moveTo(v.cursor - 1)
}

// SelectFirst moves the cursor to the root
func (v *ParallelView) SelectFirst() {
	v.moveTo(0)
}

// SelectLast moves the cursor to the last visible row
func (v *ParallelView) SelectLast() {
	v.moveTo(len(v.rows) - 1)
}

// Page moves the cursor by n rows
func (v *ParallelView) Page(n int) {
	v.moveTo(v.cursor + n)
}

// Select moves the cursor to n, expanding its ancestors first
func (v *ParallelView) Select(n *diff.ParallelNode) bool {
	if n == nil {
		return false
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		if !v.isExpanded(p) {
			v.expanded[p] = true
		}
	}
	v.rebuild()
	for i, r := range v.rows {
		if r.node == n {
			v.moveTo(i)
			return true
		}
	}
	return false
}

// Expand shows the children of the selected node
func (v *ParallelView) Expand() {
	n := v.Selected()
	if n == nil || !n.HasChildren() {
		return
	}
	v.expanded[n] = true
	v.rebuild()
}

// Collapse hides the children of the selected node, or moves to its parent
// when it is already collapsed
func (v *ParallelView) Collapse() {
	n := v.Selected()
	if n == nil {
		return
	}
	if n.HasChildren() && v.isExpanded(n) && n.Parent() != nil {
		v.expanded[n] = false
		v.rebuild()
		return
	}
	if p := n.Parent(); p != nil {
		v.Select(p)
	}
}

// Toggle flips the expansion of the selected node
func (v *ParallelView) Toggle() {
	n := v.Selected()
	if n == nil || !n.HasChildren() || n.Parent() == nil {
		return
	}
	v.expanded[n] = !v.isExpanded(n)
	v.rebuild()
}

// ExpandAll clears every manual collapse and stops collapsing unchanged
// subtrees
func (v *ParallelView) ExpandAll() {
	v.expanded = make(map[*diff.ParallelNode]bool)
	v.collapseUnchanged = false
	v.rebuild()
}

// SetCollapseUnchanged changes whether unchanged subtrees start collapsed
// and forgets manual expansion
func (v *ParallelView) SetCollapseUnchanged(collapse bool) {
	v.expanded = make(map[*diff.ParallelNode]bool)
	v.collapseUnchanged = collapse
	v.rebuild()
}

// CollapseUnchanged reports the current collapse mode
func (v *ParallelView) CollapseUnchanged() bool {
	return v.collapseUnchanged
}

// Refresh rebuilds the rows after nodes changed classification
func (v *ParallelView) Refresh() {
	v.rebuild()
}

// NextChange selects the first changed node after the cursor in document
// order
func (v *ParallelView) NextChange() bool {
	cur := v.Selected()
	for _, n := range v.cmp.Changes() {
		if diff.IsBefore(cur, n) {
			return v.Select(n)
		}
	}
	return false
}

// PrevChange selects the last changed node before the cursor
func (v *ParallelView) PrevChange() bool {
	cur := v.Selected()
	changes := v.cmp.Changes()
	for i := len(changes) - 1; i >= 0; i-- {
		if diff.IsBefore(changes[i], cur) {
			return v.Select(changes[i])
		}
	}
	return false
}

// ToggleAnchor starts a range at the cursor, or clears the current one
func (v *ParallelView) ToggleAnchor() {
	if v.anchor != nil {
		v.anchor = nil
	} else {
		v.anchor = v.Selected()
	}
	v.updateRange()
}

// Anchor returns the start of the range, or nil
func (v *ParallelView) Anchor() *diff.ParallelNode {
	return v.anchor
}

// Range returns the nodes between the anchor and the cursor in document
// order, including nodes hidden in collapsed subtrees
func (v *ParallelView) Range() []*diff.ParallelNode {
	if v.anchor == nil {
		return nil
	}
	return diff.Between(v.anchor, v.Selected())
}

func (v *ParallelView) updateRange() {
	v.inRange = nil
	nodes := v.Range()
	if len(nodes) == 0 {
		return
	}
	v.inRange = make(map[*diff.ParallelNode]bool, len(nodes))
	for _, n := range nodes {
		v.inRange[n] = true
	}
}

// SetMatches marks search hits for highlighting
func (v *ParallelView) SetMatches(nodes []*diff.ParallelNode) {
	v.matches = make(map[*diff.ParallelNode]bool, len(nodes))
	for _, n := range nodes {
		v.matches[n] = true
	}
}

// label renders one slot of a node as indentation, arrow, name and value.
// Empty slots render as blank.
func label(r row, slot int, expanded bool) string {
	view := r.node.View(slot)
	if !view.Present() {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(strings.Repeat("  ", r.depth))
	switch {
	case !r.node.HasChildren():
		sb.WriteString("  ")
	case expanded:
		sb.WriteString("▼ ")
	default:
		sb.WriteString("▶ ")
	}
	sb.WriteString(view.Name())
	if value, ok := view.Value(); ok {
		sb.WriteString(" = ")
		sb.WriteString(SingleLine(value))
	}
	return sb.String()
}

// ensureVisible scrolls so the cursor lies within height rows
func (v *ParallelView) ensureVisible(height int) {
	if height <= 0 {
		return
	}
	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+height {
		v.offset = v.cursor - height + 1
	}
	if maxOffset := len(v.rows) - height; v.offset > maxOffset {
		v.offset = max(maxOffset, 0)
	}
}

// ColumnLayout returns the x offset and width of column slot for a view
// width columns wide
func (v *ParallelView) ColumnLayout(slot, width int) (x, w int) {
	n := v.cmp.Width()
	w = (width - (n - 1)) / n
	return slot * (w + 1), w
}

// RowY returns the screen row of the cursor relative to the top of the
// view, or -1 when it is scrolled out
func (v *ParallelView) RowY(height int) int {
	v.ensureVisible(height)
	y := v.cursor - v.offset
	if y < 0 || y >= height {
		return -1
	}
	return y
}

// Render draws the rows in the rectangle at x, y
func (v *ParallelView) Render(screen *Screen, x, y, width, height int) {
	v.ensureVisible(height)
	divider := screen.DividerStyle()

	for i := 0; i < height; i++ {
		idx := v.offset + i
		for slot := 0; slot < v.cmp.Width(); slot++ {
			cx, cw := v.ColumnLayout(slot, width)
			if slot > 0 {
				screen.SetCell(x+cx-1, y+i, '│', divider)
			}
			if idx >= len(v.rows) {
				screen.FillLine(x+cx, y+i, cw, screen.BackgroundStyle())
				continue
			}
			v.renderCell(screen, v.rows[idx], idx, slot, x+cx, y+i, cw)
		}
	}
}

func (v *ParallelView) renderCell(screen *Screen, r row, idx, slot, x, y, width int) {
	view := r.node.View(slot)
	style := screen.DifferenceStyle(view.Display())
	if v.matches[r.node] {
		style = style.Underline(true)
	}

	var bg func(tcell.Style) tcell.Style
	switch {
	case idx == v.cursor && slot == v.slot:
		bg = screen.SelectedStyle
	case idx == v.cursor:
		bg = screen.RangeStyle
	case v.inRange[r.node]:
		bg = screen.RangeStyle
	}
	if bg != nil {
		style = bg(style)
	}

	text := label(r, slot, v.isExpanded(r.node))
	if text == "" {
		fill := bg
		if fill == nil {
			fill = func(s tcell.Style) tcell.Style { return s }
		}
		screen.FillLine(x, y, width, fill(screen.DifferenceStyle(diff.None)))
		return
	}

	screen.DrawString(x, y, Fit(text, width), style)
	if arrowAt := r.depth * 2; r.node.HasChildren() && arrowAt+1 < width {
		arrow := '▶'
		if v.isExpanded(r.node) {
			arrow = '▼'
		}
		st := screen.ArrowStyle()
		if bg != nil {
			st = bg(st)
		}
		screen.SetCell(x+arrowAt, y, arrow, st)
	}
}
