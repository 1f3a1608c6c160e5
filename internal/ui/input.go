package ui

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// LineInput is a single-line text buffer with a rune cursor. The editor,
// command line and search bar share it.
type LineInput struct {
	runes  []rune
	cursor int
}

// Text returns the buffer contents
func (l *LineInput) Text() string {
	return string(l.runes)
}

// SetText replaces the buffer and moves the cursor to the end
func (l *LineInput) SetText(text string) {
	l.runes = []rune(text)
	l.cursor = len(l.runes)
}

// Cursor returns the cursor position in runes
func (l *LineInput) Cursor() int {
	return l.cursor
}

// Empty reports whether the buffer holds no text
func (l *LineInput) Empty() bool {
	return len(l.runes) == 0
}

func (l *LineInput) insert(r rune) {
	l.runes = append(l.runes, 0)
	copy(l.runes[l.cursor+1:], l.runes[l.cursor:])
	l.runes[l.cursor] = r
	l.cursor++
}

func (l *LineInput) deleteRange(from, to int) {
	l.runes = append(l.runes[:from], l.runes[to:]...)
	l.cursor = from
}

func (l *LineInput) deleteWordBackwards() {
	pos := l.cursor
	for pos > 0 && unicode.IsSpace(l.runes[pos-1]) {
		pos--
	}
	for pos > 0 && !unicode.IsSpace(l.runes[pos-1]) {
		pos--
	}
	l.deleteRange(pos, l.cursor)
}

// HandleKey applies an editing key and reports whether it was consumed.
// Enter, Escape and the arrow keys Up and Down are left to the caller.
func (l *LineInput) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if l.cursor > 0 {
			l.deleteRange(l.cursor-1, l.cursor)
		}
	case tcell.KeyDelete, tcell.KeyCtrlD:
		if l.cursor < len(l.runes) {
			cursor := l.cursor
			l.deleteRange(cursor, cursor+1)
		}
	case tcell.KeyLeft, tcell.KeyCtrlB:
		if l.cursor > 0 {
			l.cursor--
		}
	case tcell.KeyRight, tcell.KeyCtrlF:
		if l.cursor < len(l.runes) {
			l.cursor++
		}
	case tcell.KeyHome, tcell.KeyCtrlA:
		l.cursor = 0
	case tcell.KeyEnd, tcell.KeyCtrlE:
		l.cursor = len(l.runes)
	case tcell.KeyCtrlU:
		l.deleteRange(0, l.cursor)
	case tcell.KeyCtrlK:
		l.runes = l.runes[:l.cursor]
	case tcell.KeyCtrlW:
		l.deleteWordBackwards()
	case tcell.KeyRune:
		l.insert(ev.Rune())
	default:
		return false
	}
	return true
}

// Render draws the buffer in width columns starting at x, scrolling
// horizontally to keep the cursor visible
func (l *LineInput) Render(screen *Screen, x, y, width int, style, cursorStyle tcell.Style) {
	if width <= 0 {
		return
	}
	screen.FillLine(x, y, width, style)

	cursorCol := columnOf(l.runes, l.cursor)
	start := 0
	for cursorCol-columnOf(l.runes, start) >= width && start < l.cursor {
		start++
	}

	col := 0
	for i := start; i < len(l.runes); i++ {
		r := l.runes[i]
		rw := RuneWidth(r)
		if col+rw > width {
			break
		}
		st := style
		if i == l.cursor {
			st = cursorStyle
		}
		screen.SetCell(x+col, y, r, st)
		col += rw
	}
	if l.cursor == len(l.runes) && col < width {
		screen.SetCell(x+col, y, ' ', cursorStyle)
	}
}
