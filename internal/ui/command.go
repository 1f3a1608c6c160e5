package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/pstuifzand/hierarchy-diff/internal/history"
)

// CommandMode manages command line input (`:command`)
type CommandMode struct {
	active  bool
	input   LineInput
	history *History
}

// NewCommandMode creates a command line. A nil manager keeps history in
// memory only.
func NewCommandMode(manager *history.Manager) *CommandMode {
	return &CommandMode{
		history: NewHistoryWithManager(50, manager, "command.toml"),
	}
}

// Start enters command mode
func (c *CommandMode) Start() {
	c.active = true
	c.input.SetText("")
	c.history.Reset()
}

// Stop exits command mode
func (c *CommandMode) Stop() {
	c.active = false
}

// IsActive returns whether command mode is active
func (c *CommandMode) IsActive() bool {
	return c.active
}

// HandleKey processes a key press in command mode. done is set when the
// command line closes; command is empty when it was cancelled.
func (c *CommandMode) HandleKey(ev *tcell.EventKey) (command string, done bool) {
	switch ev.Key() {
	case tcell.KeyEscape:
		c.Stop()
		return "", true
	case tcell.KeyEnter:
		cmd := strings.TrimSpace(c.input.Text())
		c.history.Add(cmd)
		c.Stop()
		return cmd, true
	case tcell.KeyUp:
		if prev, ok := c.history.Previous(c.input.Text()); ok {
			c.input.SetText(prev)
		}
	case tcell.KeyDown:
		if next, ok := c.history.Next(); ok {
			c.input.SetText(next)
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if c.input.Empty() {
			c.Stop()
			return "", true
		}
		c.input.HandleKey(ev)
	default:
		c.input.HandleKey(ev)
	}
	return "", false
}

// GetInput returns the current command input
func (c *CommandMode) GetInput() string {
	return strings.TrimSpace(c.input.Text())
}

// Render renders the command line
func (c *CommandMode) Render(screen *Screen, y int) {
	if !c.active {
		return
	}
	width := screen.GetWidth()
	screen.DrawString(0, y, ":", screen.SearchLabelStyle())
	c.input.Render(screen, 1, y, width-1, screen.EditorStyle(), screen.EditorCursorStyle())
}
