package app

import (
	"github.com/gdamore/tcell/v2"
	"github.com/pstuifzand/hierarchy-diff/internal/ui"
)

// handleRawEvent processes raw input events
func (a *App) handleRawEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventKey:
		a.handleKey(ev)
	}
}

// handleKey routes a key to the topmost active widget
func (a *App) handleKey(ev *tcell.EventKey) {
	switch {
	case a.report.IsVisible():
		a.report.HandleKeyEvent(ev)
	case a.help.IsVisible():
		a.handleHelpKey(ev)
	case a.command.IsActive():
		cmd, done := a.command.HandleKey(ev)
		if done {
			a.handleCommand(cmd)
		}
	case a.search.IsActive():
		a.handleSearchKey(ev)
	case a.editor.IsActive():
		a.handleEditorKey(ev)
	default:
		a.handleKeypress(ev)
	}
}

func (a *App) handleHelpKey(ev *tcell.EventKey) {
	switch {
	case ev.Key() == tcell.KeyEscape, ev.Rune() == '?', ev.Rune() == 'q':
		a.help.Toggle()
	case ev.Key() == tcell.KeyDown, ev.Rune() == 'j':
		a.help.Scroll(1)
	case ev.Key() == tcell.KeyUp, ev.Rune() == 'k':
		a.help.Scroll(-1)
	}
}

func (a *App) handleSearchKey(ev *tcell.EventKey) {
	accepted := a.search.HandleKey(ev)
	a.view.SetMatches(a.search.Matches())
	if accepted {
		a.jumpToMatch(true)
	}
}

func (a *App) handleEditorKey(ev *tcell.EventKey) {
	switch a.editor.HandleKey(ev) {
	case ui.EditPending:
		return
	case ui.EditCommitted:
		a.view.Refresh()
		a.SetStatus("Modified " + a.editor.Target().Name())
	case ui.EditUnchanged:
		a.SetStatus("Unchanged")
	}
	a.mode = NormalMode
}

// handleKeypress handles a single keypress in normal mode
func (a *App) handleKeypress(ev *tcell.EventKey) {
	if a.pendingKey != 0 {
		prefix := a.pendingKey
		a.pendingKey = 0
		if pkb := a.GetPendingKeyBindingByPrefix(prefix); pkb != nil && ev.Key() == tcell.KeyRune {
			if kb, ok := pkb.Sequences[ev.Rune()]; ok {
				kb.Handler(a)
			}
		}
		return
	}

	switch ev.Key() {
	case tcell.KeyDown:
		a.view.SelectNext()
		return
	case tcell.KeyUp:
		a.view.SelectPrev()
		return
	case tcell.KeyLeft:
		a.view.Collapse()
		return
	case tcell.KeyRight:
		a.view.Expand()
		return
	case tcell.KeyTab, tcell.KeyBacktab:
		a.view.SwitchSlot()
		return
	case tcell.KeyEnter:
		a.startEdit(false)
		return
	case tcell.KeyPgDn, tcell.KeyCtrlF:
		a.view.Page(a.treeHeight())
		return
	case tcell.KeyPgUp, tcell.KeyCtrlB:
		a.view.Page(-a.treeHeight())
		return
	case tcell.KeyCtrlD:
		a.view.Page(a.treeHeight() / 2)
		return
	case tcell.KeyCtrlU:
		a.view.Page(-a.treeHeight() / 2)
		return
	case tcell.KeyHome:
		a.view.SelectFirst()
		return
	case tcell.KeyEnd:
		a.view.SelectLast()
		return
	case tcell.KeyCtrlS:
		a.saveAndReport(a.view.Slot(), false)
		return
	case tcell.KeyCtrlR:
		a.redo()
		return
	case tcell.KeyCtrlL:
		a.screen.Sync()
		return
	case tcell.KeyEscape:
		if a.view.Anchor() != nil {
			a.view.ToggleAnchor()
			a.mode = NormalMode
		}
		a.view.SetMatches(nil)
		return
	}

	if ev.Key() != tcell.KeyRune {
		return
	}
	r := ev.Rune()
	if a.IsPendingKeyPrefix(r) {
		a.pendingKey = r
		return
	}
	if kb := a.GetKeybindingByKey(r); kb != nil {
		kb.Handler(a)
	}
}
