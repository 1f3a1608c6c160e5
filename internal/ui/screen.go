package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/pstuifzand/hierarchy-diff/internal/diff"
	"github.com/pstuifzand/hierarchy-diff/internal/theme"
)

// Screen manages the tcell screen and rendering
type Screen struct {
	tcellScreen tcell.Screen
	width       int
	height      int
	Theme       *theme.Theme
}

// NewScreenWithTheme creates a terminal screen using theme t
func NewScreenWithTheme(t *theme.Theme) (*Screen, error) {
	tcellScreen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	return NewScreenFrom(tcellScreen, t)
}

// NewScreenFrom initializes an existing tcell screen, such as a simulation
// screen in tests
func NewScreenFrom(tcellScreen tcell.Screen, t *theme.Theme) (*Screen, error) {
	if err := tcellScreen.Init(); err != nil {
		return nil, fmt.Errorf("failed to init screen: %w", err)
	}
	if t == nil {
		t = theme.Default()
	}

	width, height := tcellScreen.Size()
	return &Screen{
		tcellScreen: tcellScreen,
		width:       width,
		height:      height,
		Theme:       t,
	}, nil
}

// Close closes the screen
func (s *Screen) Close() error {
	s.tcellScreen.Fini()
	return nil
}

// Suspend releases terminal control temporarily
func (s *Screen) Suspend() error {
	return s.tcellScreen.Suspend()
}

// Resume restores terminal control after suspension
func (s *Screen) Resume() error {
	return s.tcellScreen.Resume()
}

// Clear fills the screen with the theme background
func (s *Screen) Clear() {
	s.tcellScreen.Fill(' ', s.BackgroundStyle())
}

// SetCell sets a cell at the given position
func (s *Screen) SetCell(x, y int, r rune, style tcell.Style) {
	if x >= 0 && x < s.width && y >= 0 && y < s.height {
		s.tcellScreen.SetContent(x, y, r, nil, style)
	}
}

// DrawString draws text at the given position and returns the number of
// columns used. Wide runes take two cells.
func (s *Screen) DrawString(x, y int, text string, style tcell.Style) int {
	col := 0
	for _, r := range text {
		w := RuneWidth(r)
		if w == 0 {
			continue
		}
		s.SetCell(x+col, y, r, style)
		if w == 2 {
			s.SetCell(x+col+1, y, ' ', style)
		}
		col += w
	}
	return col
}

// DrawStringLimited draws a string, truncating it to maxWidth columns
func (s *Screen) DrawStringLimited(x, y int, text string, maxWidth int, style tcell.Style) int {
	if maxWidth <= 0 {
		return 0
	}
	return s.DrawString(x, y, Truncate(text, maxWidth), style)
}

// FillLine paints columns x to x+width-1 of row y
func (s *Screen) FillLine(x, y, width int, style tcell.Style) {
	for i := 0; i < width; i++ {
		s.SetCell(x+i, y, ' ', style)
	}
}

// PollEvent polls for the next event (key press, resize, etc.)
func (s *Screen) PollEvent() tcell.Event {
	return s.tcellScreen.PollEvent()
}

// Sync redraws the whole terminal, used after a resize
func (s *Screen) Sync() {
	s.Size()
	s.tcellScreen.Sync()
}

// Show shows the screen
func (s *Screen) Show() {
	s.tcellScreen.Show()
}

// Size returns the width and height of the screen
func (s *Screen) Size() (int, int) {
	w, h := s.tcellScreen.Size()
	s.width = w
	s.height = h
	return w, h
}

// GetWidth returns the width of the screen
func (s *Screen) GetWidth() int {
	s.width, _ = s.tcellScreen.Size()
	return s.width
}

// GetHeight returns the height of the screen
func (s *Screen) GetHeight() int {
	_, s.height = s.tcellScreen.Size()
	return s.height
}

// BackgroundStyle returns the default background style for the application
func (s *Screen) BackgroundStyle() tcell.Style {
	return tcell.StyleDefault.Background(s.Theme.Colors.Background)
}

// NormalStyle returns the style for unchanged nodes
func (s *Screen) NormalStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.Normal, s.Theme.Colors.Background)
}

// DifferenceStyle colours a node column by its classification
func (s *Screen) DifferenceStyle(d diff.Difference) tcell.Style {
	c := s.Theme.Colors
	switch d {
	case diff.Add:
		return theme.ColorPairToStyle(c.Added, c.Background)
	case diff.Remove:
		return theme.ColorPairToStyle(c.Removed, c.Background)
	case diff.Modify:
		return theme.ColorPairToStyle(c.Modified, c.Background)
	case diff.None:
		return theme.ColorPairToStyle(c.Absent, c.Background)
	}
	return s.NormalStyle()
}

// SelectedStyle puts style on the selection background
func (s *Screen) SelectedStyle(style tcell.Style) tcell.Style {
	return style.Background(s.Theme.Colors.Selected).Bold(true)
}

// RangeStyle puts style on the range highlight background
func (s *Screen) RangeStyle(style tcell.Style) tcell.Style {
	return style.Background(s.Theme.Colors.RangeHighlight)
}

// ArrowStyle returns the style for expand/collapse arrows
func (s *Screen) ArrowStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.Arrow, s.Theme.Colors.Background)
}

// DividerStyle returns the style for the column divider and box borders
func (s *Screen) DividerStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.Divider, s.Theme.Colors.Background)
}

// EditorStyle returns the style for editor text
func (s *Screen) EditorStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.EditorText, s.Theme.Colors.Background)
}

// EditorCursorStyle returns the style for the editor cursor
func (s *Screen) EditorCursorStyle() tcell.Style {
	return s.EditorStyle().Reverse(true)
}

// SearchLabelStyle returns the style for prompts such as "/" and ":"
func (s *Screen) SearchLabelStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.SearchLabel, s.Theme.Colors.Background)
}

// SearchMatchStyle returns the style for search match counts and hits
func (s *Screen) SearchMatchStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.SearchMatch, s.Theme.Colors.Background).Underline(true)
}

// StatusModeStyle returns the style for the mode indicator
func (s *Screen) StatusModeStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.StatusMode, s.Theme.Colors.Background).Bold(true)
}

// StatusMessageStyle returns the style for status messages
func (s *Screen) StatusMessageStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.StatusMessage, s.Theme.Colors.Background)
}

// StatusModifiedStyle returns the style for the modified indicator and errors
func (s *Screen) StatusModifiedStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.StatusModified, s.Theme.Colors.Background)
}

// HeaderStyle returns the style for header titles
func (s *Screen) HeaderStyle() tcell.Style {
	return theme.ColorPairToStyle(s.Theme.Colors.HeaderTitle, s.Theme.Colors.Background).Bold(true)
}

// drawBox draws a simple box border
func drawBox(screen *Screen, x, y, width, height int, style tcell.Style) {
	screen.SetCell(x, y, '┌', style)
	for i := 1; i < width-1; i++ {
		screen.SetCell(x+i, y, '─', style)
	}
	screen.SetCell(x+width-1, y, '┐', style)

	screen.SetCell(x, y+height-1, '└', style)
	for i := 1; i < width-1; i++ {
		screen.SetCell(x+i, y+height-1, '─', style)
	}
	screen.SetCell(x+width-1, y+height-1, '┘', style)

	for i := 1; i < height-1; i++ {
		screen.SetCell(x, y+i, '│', style)
		screen.SetCell(x+width-1, y+i, '│', style)
	}
}
