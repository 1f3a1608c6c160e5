package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Widths are display columns, not bytes. Wide runes such as CJK and emoji
// take two columns; combining marks and control characters take none.

// RuneWidth returns the display width of a single rune
func RuneWidth(r rune) int {
	w := runewidth.RuneWidth(r)
	if w < 0 {
		return 0
	}
	return w
}

// StringWidth returns the display width of a string
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// Truncate cuts s to at most width columns without splitting a rune
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	col := 0
	for i, r := range s {
		rw := RuneWidth(r)
		if col+rw > width {
			return s[:i]
		}
		col += rw
	}
	return s
}

// Ellipsize truncates s to width columns, ending in "…" when cut
func Ellipsize(s string, width int) string {
	if StringWidth(s) <= width {
		return s
	}
	if width <= 1 {
		return Truncate(s, width)
	}
	return Truncate(s, width-1) + "…"
}

// Fit ellipsizes s and pads it with spaces to exactly width columns
func Fit(s string, width int) string {
	s = Ellipsize(s, width)
	if pad := width - StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// SingleLine folds a multi-line value onto one display line
func SingleLine(s string) string {
	if !strings.ContainsAny(s, "\n\t\r") {
		return s
	}
	r := strings.NewReplacer("\r\n", "⏎", "\n", "⏎", "\r", "⏎", "\t", " ")
	return r.Replace(s)
}

// columnOf returns the display column at which rune index i starts
func columnOf(runes []rune, i int) int {
	col := 0
	for _, r := range runes[:i] {
		col += RuneWidth(r)
	}
	return col
}
