package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/pstuifzand/hierarchy-diff/internal/diff"
	"github.com/pstuifzand/hierarchy-diff/internal/history"
)

// Search finds nodes whose name or value fuzzily matches a query in any
// document. A query starting with "=" only looks at values.
type Search struct {
	input   LineInput
	active  bool
	nodes   []*diff.ParallelNode
	matches []*diff.ParallelNode
	history *History
}

// NewSearch creates a search bar. A nil manager keeps history in memory only.
func NewSearch(manager *history.Manager) *Search {
	return &Search{
		history: NewHistoryWithManager(50, manager, "search.toml"),
	}
}

// Start opens the search bar over nodes, given in document order
func (s *Search) Start(nodes []*diff.ParallelNode) {
	s.active = true
	s.nodes = nodes
	s.input.SetText("")
	s.matches = nil
	s.history.Reset()
}

// Stop closes the search bar and keeps the matches for n and N
func (s *Search) Stop() {
	s.active = false
	s.history.Reset()
}

// IsActive returns whether search mode is active
func (s *Search) IsActive() bool {
	return s.active
}

// Query returns the current search text
func (s *Search) Query() string {
	return s.input.Text()
}

// GetHistory returns a copy of the search history
func (s *Search) GetHistory() []string {
	return s.history.GetAll()
}

// HandleKey handles a key in the search bar. It reports whether the search
// was accepted with at least one match.
func (s *Search) HandleKey(ev *tcell.EventKey) bool {
	if !s.active {
		return false
	}

	switch ev.Key() {
	case tcell.KeyEscape:
		s.matches = nil
		s.Stop()
		return false
	case tcell.KeyEnter:
		s.history.Add(s.input.Text())
		s.Stop()
		return len(s.matches) > 0
	case tcell.KeyUp:
		if prev, ok := s.history.Previous(s.input.Text()); ok {
			s.input.SetText(prev)
			s.update()
		}
		return false
	case tcell.KeyDown:
		if next, ok := s.history.Next(); ok {
			s.input.SetText(next)
			s.update()
		}
		return false
	}
	if s.input.HandleKey(ev) {
		s.update()
	}
	return false
}

// SetQuery runs query over nodes without opening the bar
func (s *Search) SetQuery(query string, nodes []*diff.ParallelNode) {
	s.nodes = nodes
	s.input.SetText(query)
	s.update()
}

func (s *Search) update() {
	s.matches = nil
	query := s.input.Text()
	valuesOnly := strings.HasPrefix(query, "=")
	query = strings.TrimSpace(strings.TrimPrefix(query, "="))
	if query == "" {
		return
	}
	for _, n := range s.nodes {
		if matchNode(query, n, valuesOnly) {
			s.matches = append(s.matches, n)
		}
	}
}

func matchNode(query string, n *diff.ParallelNode, valuesOnly bool) bool {
	for slot := 0; slot < n.Width(); slot++ {
		view := n.View(slot)
		if !view.Present() {
			continue
		}
		if !valuesOnly && fuzzy.MatchNormalizedFold(query, view.Name()) {
			return true
		}
		if value, ok := view.Value(); ok && fuzzy.MatchNormalizedFold(query, value) {
			return true
		}
	}
	return false
}

// Matches returns the matching nodes in document order
func (s *Search) Matches() []*diff.ParallelNode {
	return s.matches
}

// HasResults returns true if there are active search results
func (s *Search) HasResults() bool {
	return len(s.matches) > 0
}

// Next returns the first match after from, wrapping to the first match
func (s *Search) Next(from *diff.ParallelNode) *diff.ParallelNode {
	if len(s.matches) == 0 {
		return nil
	}
	for _, n := range s.matches {
		if diff.IsBefore(from, n) {
			return n
		}
	}
	return s.matches[0]
}

// Prev returns the last match before from, wrapping to the last match
func (s *Search) Prev(from *diff.ParallelNode) *diff.ParallelNode {
	if len(s.matches) == 0 {
		return nil
	}
	for i := len(s.matches) - 1; i >= 0; i-- {
		if diff.IsBefore(s.matches[i], from) {
			return s.matches[i]
		}
	}
	return s.matches[len(s.matches)-1]
}

// MatchNumber returns the 1-based position of n among the matches, or 0
func (s *Search) MatchNumber(n *diff.ParallelNode) int {
	for i, m := range s.matches {
		if m == n {
			return i + 1
		}
	}
	return 0
}

// Render renders the search bar on row y. current is the selected node.
func (s *Search) Render(screen *Screen, y int, current *diff.ParallelNode) {
	width := screen.GetWidth()

	var count string
	switch {
	case len(s.matches) == 0:
		count = " (no matches)"
	default:
		count = fmt.Sprintf(" (%d of %d matches)", s.MatchNumber(current), len(s.matches))
	}

	labelWidth := screen.DrawString(0, y, "/", screen.SearchLabelStyle())
	inputWidth := width - labelWidth - StringWidth(count)
	s.input.Render(screen, labelWidth, y, inputWidth, screen.EditorStyle(), screen.EditorCursorStyle())
	screen.DrawString(width-StringWidth(count), y, count, screen.SearchMatchStyle())
}
