package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/pstuifzand/hierarchy-diff/internal/diff"
	"github.com/pstuifzand/hierarchy-diff/internal/theme"
)

// printer writes report lines, coloured by line type when enabled
type printer struct {
	w      io.Writer
	color  bool
	styles map[diff.DiffLineType]lipgloss.Style
}

// useColor resolves the auto, always and never modes for w
func useColor(w io.Writer, mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func newPrinter(w io.Writer, mode string, t *theme.Theme) *printer {
	p := &printer{w: w, color: useColor(w, mode)}
	if !p.color {
		return p
	}

	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.TrueColor)
	fg := func(c tcell.Color) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(theme.Hex(c)))
	}
	p.styles = map[diff.DiffLineType]lipgloss.Style{
		diff.DiffTypeHeader:   fg(t.Colors.HeaderTitle).Bold(true),
		diff.DiffTypeAdded:    fg(t.Colors.Added),
		diff.DiffTypeRemoved:  fg(t.Colors.Removed),
		diff.DiffTypeModified: fg(t.Colors.Modified),
		diff.DiffTypeDetail:   fg(t.Colors.Absent),
		diff.DiffTypeSummary:  fg(t.Colors.StatusMessage).Bold(true),
	}
	return p
}

// Print writes lines the way diff.RenderPlain does, adding colour
func (p *printer) Print(lines []diff.DiffLine) {
	for _, l := range lines {
		text := diff.Marker(l.Type) + strings.Repeat("  ", l.Indent) + l.Content
		if style, ok := p.styles[l.Type]; ok && text != "" {
			text = style.Render(text)
		}
		fmt.Fprintln(p.w, text)
	}
}

// Title writes a heading line
func (p *printer) Title(text string) {
	p.Print([]diff.DiffLine{{Type: diff.DiffTypeHeader, Content: text}})
}
