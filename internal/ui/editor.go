package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/pstuifzand/hierarchy-diff/internal/diff"
)

// EditResult tells the caller how an edit key was handled
type EditResult int

const (
	// EditPending means the editor is still open
	EditPending EditResult = iota
	// EditCommitted means the value was written and changed
	EditCommitted
	// EditUnchanged means the editor closed without a change, either because
	// the text was equal or because the format rejected it
	EditUnchanged
	// EditCancelled means the edit was abandoned
	EditCancelled
)

// Editor manages inline editing of one node value through an EditSession
type Editor struct {
	session diff.EditSession
	input   LineInput
}

// Start opens the editor on v. It fails for empty slots and nodes without a
// scalar value.
func (e *Editor) Start(v diff.ViewNode) bool {
	if !e.session.Begin(v) {
		return false
	}
	e.input.SetText(e.session.Buffer())
	return true
}

// StartEmpty opens the editor on v with an empty buffer
func (e *Editor) StartEmpty(v diff.ViewNode) bool {
	if !e.Start(v) {
		return false
	}
	e.input.SetText("")
	return true
}

// IsActive returns whether the editor is active
func (e *Editor) IsActive() bool {
	return e.session.Active()
}

// Cancel abandons the edit
func (e *Editor) Cancel() {
	e.session.Cancel()
}

// Target returns the node being edited
func (e *Editor) Target() diff.ViewNode {
	return e.session.Target()
}

// HandleKey handles a key press during editing
func (e *Editor) HandleKey(ev *tcell.EventKey) EditResult {
	if !e.session.Active() {
		return EditCancelled
	}

	switch ev.Key() {
	case tcell.KeyEscape:
		e.session.Cancel()
		return EditCancelled
	case tcell.KeyEnter:
		e.session.SetBuffer(e.input.Text())
		if e.session.Commit() {
			return EditCommitted
		}
		return EditUnchanged
	}
	e.input.HandleKey(ev)
	return EditPending
}

// Render draws the editor at x, y in width columns
func (e *Editor) Render(screen *Screen, x, y, width int) {
	if !e.session.Active() {
		return
	}
	e.input.Render(screen, x, y, width, screen.EditorStyle(), screen.EditorCursorStyle())
}

// GetText returns the current text
func (e *Editor) GetText() string {
	return e.input.Text()
}

// SetText sets the text
func (e *Editor) SetText(text string) {
	e.input.SetText(text)
}
