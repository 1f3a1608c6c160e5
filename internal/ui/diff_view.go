package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/pstuifzand/hierarchy-diff/internal/diff"
)

// DiffViewWidget shows the text report of a comparison as an overlay
type DiffViewWidget struct {
	visible      bool
	title        string
	lines        []diff.DiffLine
	scrollOffset int
	pageHeight   int
}

// NewDiffViewWidget creates a new diff view widget
func NewDiffViewWidget() *DiffViewWidget {
	return &DiffViewWidget{}
}

// Show displays the report of c
func (dv *DiffViewWidget) Show(c *diff.Comparison, opts diff.ReportOptions) {
	dv.title = fmt.Sprintf(" Diff: %s → %s ",
		filepath.Base(c.Document(0).Path), filepath.Base(c.Document(1).Path))
	dv.ShowLines(dv.title, diff.BuildDiffLines(c, opts))
}

// ShowLines displays arbitrary lines under title
func (dv *DiffViewWidget) ShowLines(title string, lines []diff.DiffLine) {
	dv.title = title
	dv.lines = lines
	dv.scrollOffset = 0
	dv.visible = true
}

// Hide closes the diff view
func (dv *DiffViewWidget) Hide() {
	dv.visible = false
}

// IsVisible returns whether the widget is currently visible
func (dv *DiffViewWidget) IsVisible() bool {
	return dv.visible
}

// Lines returns the lines being shown
func (dv *DiffViewWidget) Lines() []diff.DiffLine {
	return dv.lines
}

// HandleKeyEvent processes keyboard input
func (dv *DiffViewWidget) HandleKeyEvent(ev *tcell.EventKey) {
	if !dv.visible {
		return
	}

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		dv.Hide()
	case tcell.KeyUp:
		dv.scroll(-1)
	case tcell.KeyDown:
		dv.scroll(1)
	case tcell.KeyPgUp, tcell.KeyCtrlU:
		dv.scroll(-max(dv.pageHeight/2, 1))
	case tcell.KeyPgDn, tcell.KeyCtrlD:
		dv.scroll(max(dv.pageHeight/2, 1))
	case tcell.KeyHome:
		dv.scrollOffset = 0
	case tcell.KeyEnd:
		dv.scrollOffset = dv.maxScroll()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			dv.Hide()
		case 'j':
			dv.scroll(1)
		case 'k':
			dv.scroll(-1)
		case 'g':
			dv.scrollOffset = 0
		case 'G':
			dv.scrollOffset = dv.maxScroll()
		}
	}
}

func (dv *DiffViewWidget) maxScroll() int {
	return max(len(dv.lines)-dv.pageHeight, 0)
}

func (dv *DiffViewWidget) scroll(lines int) {
	dv.scrollOffset = min(max(dv.scrollOffset+lines, 0), dv.maxScroll())
}

// Render draws the diff view on the screen
func (dv *DiffViewWidget) Render(screen *Screen) {
	if !dv.visible {
		return
	}

	width := screen.GetWidth()
	height := screen.GetHeight()
	boxWidth := width - 4
	boxHeight := height - 4
	startX := 2
	startY := 2
	if boxWidth < 20 || boxHeight < 5 {
		return
	}

	for y := startY; y < startY+boxHeight; y++ {
		screen.FillLine(startX, y, boxWidth, screen.BackgroundStyle())
	}
	drawBox(screen, startX, startY, boxWidth, boxHeight, screen.DividerStyle())
	screen.DrawStringLimited(startX+1, startY, dv.title, boxWidth-2, screen.HeaderStyle())

	dv.pageHeight = boxHeight - 2
	dv.scroll(0)
	dv.renderContent(screen, startX+1, startY+1, boxWidth-2, dv.pageHeight)

	footer := " j/k: scroll  Ctrl+U/D: page  q/Esc: close "
	screen.DrawStringLimited(startX+1, startY+boxHeight-1, footer, boxWidth-2, screen.DividerStyle())
}

func (dv *DiffViewWidget) renderContent(screen *Screen, x, y, width, height int) {
	end := min(dv.scrollOffset+height, len(dv.lines))
	for i := dv.scrollOffset; i < end; i++ {
		line := dv.lines[i]
		text := diff.Marker(line.Type) + strings.Repeat("  ", line.Indent) + SingleLine(line.Content)
		screen.DrawString(x, y+i-dv.scrollOffset, Ellipsize(text, width-1), dv.styleFor(screen, line.Type))
	}

	if len(dv.lines) > height && height > 0 {
		thumb := y + dv.scrollOffset*height/len(dv.lines)
		screen.SetCell(x+width-1, thumb, '█', screen.DividerStyle())
	}
}

func (dv *DiffViewWidget) styleFor(screen *Screen, lineType diff.DiffLineType) tcell.Style {
	switch lineType {
	case diff.DiffTypeHeader, diff.DiffTypeSummary:
		return screen.HeaderStyle()
	case diff.DiffTypeAdded:
		return screen.DifferenceStyle(diff.Add)
	case diff.DiffTypeRemoved:
		return screen.DifferenceStyle(diff.Remove)
	case diff.DiffTypeModified:
		return screen.DifferenceStyle(diff.Modify)
	case diff.DiffTypeDetail:
		return screen.DividerStyle()
	}
	return screen.NormalStyle()
}
