package app

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/pstuifzand/hierarchy-diff/internal/diff"
	"github.com/pstuifzand/hierarchy-diff/internal/export"
	"github.com/pstuifzand/hierarchy-diff/internal/theme"
)

// parseCommand splits a command line into words. Single and double quotes
// group words; a backslash escapes the next character.
func parseCommand(input string) []string {
	var parts []string
	var current strings.Builder
	var quote rune
	inWord, escaped := false, false

	for _, r := range input {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
			inWord = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inWord = true
		case r == ' ' || r == '\t':
			if inWord {
				parts = append(parts, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteRune(r)
			inWord = true
		}
	}
	if inWord {
		parts = append(parts, current.String())
	}
	return parts
}

// handleCommand processes a command from command mode
func (a *App) handleCommand(cmd string) {
	parts := parseCommand(cmd)
	if len(parts) == 0 {
		return
	}
	args := parts[1:]

	switch parts[0] {
	case "q", "quit":
		if a.anyDirty() {
			a.SetError("Unsaved changes! Use :q! to force quit or :w to save")
			return
		}
		a.quit = true
	case "q!", "quit!":
		a.quit = true
	case "w", "write":
		a.saveAndReport(a.view.Slot(), false)
	case "w!", "write!":
		a.saveAndReport(a.view.Slot(), true)
	case "wa", "wall":
		a.saveAll(false)
	case "wq", "x":
		if a.saveAll(false) {
			a.quit = true
		}
	case "e", "edit", "reload":
		a.reloadCommand(false)
	case "e!", "edit!":
		a.reloadCommand(true)
	case "u", "undo":
		a.undo()
	case "redo":
		a.redo()
	case "swap":
		a.swap()
	case "set":
		a.handleSet(args)
	case "export":
		a.handleExport(args)
	case "report":
		a.showReport()
	case "messages":
		a.report.ShowLines(" Messages ", a.messages.Lines())
	case "backups":
		lines, err := a.backupLines()
		if err != nil {
			a.SetError(err.Error())
			return
		}
		a.report.ShowLines(" Backups ", lines)
	case "backup":
		n := 1
		if len(args) > 0 {
			var err error
			if n, err = strconv.Atoi(args[0]); err != nil {
				a.SetError("Usage: :backup N")
				return
			}
		}
		if err := a.compareWithBackup(n); err != nil {
			a.reportReloadError(err)
		}
	case "help":
		a.help.Toggle()
	default:
		a.SetError("Unknown command: " + parts[0])
	}
}

func (a *App) reloadCommand(force bool) {
	if err := a.Reload(force); err != nil {
		a.reportReloadError(err)
		return
	}
	a.SetStatus("Reloaded")
}

func (a *App) reportReloadError(err error) {
	if errors.Is(err, errUnsaved) {
		a.SetError("Unsaved changes! Use :w first or :e! to discard them")
		return
	}
	a.SetError(err.Error())
}

// swap exchanges the columns
func (a *App) swap() {
	if a.anyDirty() {
		a.reportReloadError(errUnsaved)
		return
	}
	paths, readOnly := a.paths, a.opts.ReadOnly
	a.paths = []string{paths[1], paths[0]}
	a.opts.ReadOnly = map[int]bool{0: readOnly[1], 1: readOnly[0]}
	if err := a.Reload(true); err != nil {
		a.paths, a.opts.ReadOnly = paths, readOnly
		a.SetError(err.Error())
		return
	}
	a.SetStatus("Swapped columns")
}

// handleSet shows or changes session settings. It accepts "key=value",
// "key value", "key" and no arguments.
func (a *App) handleSet(args []string) {
	if len(args) == 0 {
		a.showSettings()
		return
	}

	key, value, hasValue := strings.Cut(args[0], "=")
	if !hasValue && len(args) > 1 {
		value, hasValue = strings.Join(args[1:], " "), true
	}
	if !hasValue {
		if v, ok := a.cfg.GetAll()[key]; ok {
			a.SetStatus(key + "=" + v)
		} else {
			a.SetError("Unknown setting: " + key)
		}
		return
	}

	if err := a.cfg.Set(key, value); err != nil {
		a.SetError(err.Error())
		return
	}
	a.applySetting(key)
	a.SetStatus(key + "=" + value)
}

// applySetting makes a changed setting visible without a restart
func (a *App) applySetting(key string) {
	cfg := a.cfg.Effective()
	switch key {
	case "theme":
		a.screen.Theme = theme.LoadThemeOrDefault(cfg.Theme)
	case "diff.collapse_unchanged":
		a.view.SetCollapseUnchanged(cfg.Diff.CollapseUnchanged)
	case "diff.similarity":
		if err := a.Reload(false); err != nil {
			a.logger.Info("similarity applies on next reload", "error", err)
		}
	}
}

func (a *App) showSettings() {
	all := a.cfg.GetAll()
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	lines := make([]diff.DiffLine, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, diff.DiffLine{Type: diff.DiffTypeContext, Content: fmt.Sprintf("%-26s %s", k, all[k])})
	}
	a.report.ShowLines(" Settings ", lines)
}

func (a *App) handleExport(args []string) {
	if len(args) != 1 {
		a.SetError("Usage: :export FILE.md")
		return
	}
	cfg := a.cfg.Effective()
	err := export.ExportToMarkdown(a.cmp, args[0], export.Options{
		TimestampFormat: cfg.Report.TimestampFormat,
		Context:         cfg.Diff.ContextLines,
	})
	if err != nil {
		a.SetError(err.Error())
		return
	}
	a.SetStatus("Exported to " + args[0])
}
