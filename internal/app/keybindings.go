package app

import (
	"fmt"

	"github.com/pstuifzand/hierarchy-diff/internal/diff"
	"github.com/pstuifzand/hierarchy-diff/internal/ui"
)

// KeyBinding represents a key binding with its description and handler
type KeyBinding struct {
	Key         rune
	Description string
	Handler     func(*App)
}

// GetKey returns the key of this keybinding
func (kb *KeyBinding) GetKey() rune {
	return kb.Key
}

// GetDescription returns the description of this keybinding
func (kb *KeyBinding) GetDescription() string {
	return kb.Description
}

// PendingKeyBinding represents a pending key (like 'g' or 'z') that waits for a second key
type PendingKeyBinding struct {
	Prefix      rune                // The first key (e.g., 'g' or 'z')
	Description string              // Description of what the pending key does
	Sequences   map[rune]KeyBinding // Map of second key to keybinding
}

// GetKey returns the prefix key
func (pkb *PendingKeyBinding) GetKey() rune {
	return pkb.Prefix
}

// GetDescription returns the description
func (pkb *PendingKeyBinding) GetDescription() string {
	return pkb.Description
}

// GetSequences returns a map of second key to description for display in help
func (pkb *PendingKeyBinding) GetSequences() map[rune]string {
	result := make(map[rune]string)
	for key, binding := range pkb.Sequences {
		result[key] = binding.Description
	}
	return result
}

// InitializeKeybindings sets up all the key bindings
func (a *App) InitializeKeybindings() []KeyBinding {
	return []KeyBinding{
		{
			Key:         'j',
			Description: "Move down",
			Handler:     func(app *App) { app.view.SelectNext() },
		},
		{
			Key:         'k',
			Description: "Move up",
			Handler:     func(app *App) { app.view.SelectPrev() },
		},
		{
			Key:         'h',
			Description: "Collapse node or go to parent",
			Handler:     func(app *App) { app.view.Collapse() },
		},
		{
			Key:         'l',
			Description: "Expand node",
			Handler:     func(app *App) { app.view.Expand() },
		},
		{
			Key:         ' ',
			Description: "Toggle node",
			Handler:     func(app *App) { app.view.Toggle() },
		},
		{
			Key:         'G',
			Description: "Go to last node",
			Handler:     func(app *App) { app.view.SelectLast() },
		},
		{
			Key:         'n',
			Description: "Next search match",
			Handler:     func(app *App) { app.jumpToMatch(true) },
		},
		{
			Key:         'N',
			Description: "Previous search match",
			Handler:     func(app *App) { app.jumpToMatch(false) },
		},
		{
			Key:         'i',
			Description: "Edit value",
			Handler:     func(app *App) { app.startEdit(false) },
		},
		{
			Key:         'c',
			Description: "Change (replace) value",
			Handler:     func(app *App) { app.startEdit(true) },
		},
		{
			Key:         'E',
			Description: "Edit value in external editor",
			Handler:     func(app *App) { app.externalEdit() },
		},
		{
			Key:         'u',
			Description: "Undo in focused document",
			Handler:     func(app *App) { app.undo() },
		},
		{
			Key:         'o',
			Description: "Obtain value(s) from the other column",
			Handler: func(app *App) {
				slot := app.view.Slot()
				app.copyValues(counterpart(slot), slot)
			},
		},
		{
			Key:         'p',
			Description: "Put value(s) into the other column",
			Handler: func(app *App) {
				slot := app.view.Slot()
				app.copyValues(slot, counterpart(slot))
			},
		},
		{
			Key:         'v',
			Description: "Start or end a range",
			Handler:     func(app *App) { app.toggleRange() },
		},
		{
			Key:         '/',
			Description: "Search names and values (=text for values)",
			Handler:     func(app *App) { app.search.Start(app.cmp.Nodes()) },
		},
		{
			Key:         ':',
			Description: "Command mode",
			Handler:     func(app *App) { app.command.Start() },
		},
		{
			Key:         'r',
			Description: "Show change report",
			Handler:     func(app *App) { app.showReport() },
		},
		{
			Key:         '?',
			Description: "Toggle help",
			Handler:     func(app *App) { app.help.Toggle() },
		},
	}
}

// InitializePendingKeybindings sets up the two-key sequences
func (a *App) InitializePendingKeybindings() []PendingKeyBinding {
	return []PendingKeyBinding{
		{
			Prefix:      'g',
			Description: "Go to... (g + key)",
			Sequences: map[rune]KeyBinding{
				'g': {
					Key:         'g',
					Description: "Go to first node",
					Handler:     func(app *App) { app.view.SelectFirst() },
				},
			},
		},
		{
			Prefix:      ']',
			Description: "Next... (] + key)",
			Sequences: map[rune]KeyBinding{
				'c': {
					Key:         'c',
					Description: "Next change",
					Handler: func(app *App) {
						if !app.view.NextChange() {
							app.SetStatus("No later change")
						}
					},
				},
			},
		},
		{
			Prefix:      '[',
			Description: "Previous... ([ + key)",
			Sequences: map[rune]KeyBinding{
				'c': {
					Key:         'c',
					Description: "Previous change",
					Handler: func(app *App) {
						if !app.view.PrevChange() {
							app.SetStatus("No earlier change")
						}
					},
				},
			},
		},
		{
			Prefix:      'z',
			Description: "Folds... (z + key)",
			Sequences: map[rune]KeyBinding{
				'a': {
					Key:         'a',
					Description: "Toggle node",
					Handler:     func(app *App) { app.view.Toggle() },
				},
				'o': {
					Key:         'o',
					Description: "Open node",
					Handler:     func(app *App) { app.view.Expand() },
				},
				'c': {
					Key:         'c',
					Description: "Close node",
					Handler:     func(app *App) { app.view.Collapse() },
				},
				'R': {
					Key:         'R',
					Description: "Expand everything",
					Handler:     func(app *App) { app.view.ExpandAll() },
				},
				'M': {
					Key:         'M',
					Description: "Collapse unchanged subtrees",
					Handler:     func(app *App) { app.view.SetCollapseUnchanged(true) },
				},
			},
		},
	}
}

func (a *App) helpEntries() []ui.KeyBindingInfo {
	entries := make([]ui.KeyBindingInfo, 0, len(a.keybindings)+len(a.pendingKeybindings))
	for i := range a.keybindings {
		entries = append(entries, &a.keybindings[i])
	}
	for i := range a.pendingKeybindings {
		entries = append(entries, &a.pendingKeybindings[i])
	}
	return entries
}

// GetKeybindingByKey returns a keybinding for a given key
func (a *App) GetKeybindingByKey(key rune) *KeyBinding {
	for i := range a.keybindings {
		if a.keybindings[i].Key == key {
			return &a.keybindings[i]
		}
	}
	return nil
}

// GetPendingKeyBindingByPrefix returns a pending keybinding for a prefix key
func (a *App) GetPendingKeyBindingByPrefix(prefix rune) *PendingKeyBinding {
	for i := range a.pendingKeybindings {
		if a.pendingKeybindings[i].Prefix == prefix {
			return &a.pendingKeybindings[i]
		}
	}
	return nil
}

// IsPendingKeyPrefix checks if a key is a pending key prefix
func (a *App) IsPendingKeyPrefix(key rune) bool {
	return a.GetPendingKeyBindingByPrefix(key) != nil
}

// counterpart is the column values are copied from or to
func counterpart(slot int) int {
	if slot == 0 {
		return 1
	}
	return 0
}

func (a *App) startEdit(empty bool) {
	v := a.view.SelectedView()
	var ok bool
	if empty {
		ok = a.editor.StartEmpty(v)
	} else {
		ok = a.editor.Start(v)
	}
	if !ok {
		a.SetError("Nothing to edit here")
		return
	}
	a.mode = InsertMode
}

func (a *App) externalEdit() {
	v := a.view.SelectedView()
	value, ok := v.Value()
	if !ok {
		a.SetError("Nothing to edit here")
		return
	}
	if err := a.screen.Suspend(); err != nil {
		a.SetError("Failed to suspend screen: " + err.Error())
		return
	}
	edited, changed, err := ui.EditInExternalEditor(value, a.cfg.Effective().Editor, ".txt")
	if rerr := a.screen.Resume(); rerr != nil {
		a.logger.Error("failed to resume screen", "error", rerr)
	}
	if err != nil {
		a.SetError(err.Error())
		return
	}
	if !changed {
		a.SetStatus("Unchanged")
		return
	}
	if !v.SetValue(edited) {
		a.SetError("Value rejected by " + a.cmp.Document(v.Slot()).Format.Name())
		return
	}
	a.view.Refresh()
	a.SetStatus("Modified " + v.Name())
}

func (a *App) undo() {
	if !a.cmp.Undo(a.view.Slot()) {
		a.SetStatus("Already at oldest change")
		return
	}
	a.view.Refresh()
	a.SetStatus("Undone")
}

func (a *App) redo() {
	if !a.cmp.Redo(a.view.Slot()) {
		a.SetStatus("Already at newest change")
		return
	}
	a.view.Refresh()
	a.SetStatus("Redone")
}

// copyValues writes the values of column from into column to for the range,
// or for the selected node when no range is set
func (a *App) copyValues(from, to int) {
	nodes := a.view.Range()
	if nodes == nil {
		nodes = []*diff.ParallelNode{a.view.Selected()}
	}
	copied := 0
	for _, n := range nodes {
		if n == nil || !n.View(to).Present() {
			continue
		}
		value, ok := n.View(from).Value()
		if !ok {
			continue
		}
		if a.cmp.SetValue(n, to, value) {
			copied++
		}
	}
	if copied == 0 {
		a.SetStatus("Nothing to copy")
		return
	}
	a.view.Refresh()
	a.SetStatus(fmt.Sprintf("Copied %d value(s) into %s", copied, a.cmp.Document(to).Path))
}

func (a *App) toggleRange() {
	a.view.ToggleAnchor()
	if a.view.Anchor() != nil {
		a.mode = RangeMode
	} else {
		a.mode = NormalMode
	}
}

func (a *App) jumpToMatch(forward bool) {
	if !a.search.HasResults() {
		a.SetStatus("No search results")
		return
	}
	var n *diff.ParallelNode
	if forward {
		n = a.search.Next(a.view.Selected())
	} else {
		n = a.search.Prev(a.view.Selected())
	}
	if n == nil || !a.view.Select(n) {
		return
	}
	a.SetStatus(fmt.Sprintf("Match %d of %d", a.search.MatchNumber(n), len(a.search.Matches())))
}

func (a *App) reportOptions() diff.ReportOptions {
	cfg := a.cfg.Effective()
	return diff.ReportOptions{
		Verbose:         true,
		TimestampFormat: cfg.Report.TimestampFormat,
		Context:         cfg.Diff.ContextLines,
	}
}

func (a *App) showReport() {
	a.report.Show(a.cmp, a.reportOptions())
}
