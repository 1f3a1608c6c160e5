package app

import (
	"fmt"
	"path/filepath"

	"github.com/pstuifzand/hierarchy-diff/internal/diff"
	"github.com/pstuifzand/hierarchy-diff/internal/document"
)

// Save writes the document in slot. The file on disk is backed up first and
// old backups are pruned afterwards. force overrides read-only slots, not
// read-only formats.
func (a *App) Save(slot int, force bool) error {
	doc := a.cmp.Document(slot)
	if doc == nil {
		return fmt.Errorf("no document in slot %d", slot)
	}
	if !document.Writable(doc.Format) {
		return fmt.Errorf("%w: %s", document.ErrReadOnly, doc.Format.Name())
	}
	if a.opts.ReadOnly[slot] && !force {
		return fmt.Errorf("%s is read-only, use :w! to override", doc.Path)
	}

	if a.opts.Backups != nil {
		meta, err := a.opts.Backups.CreateBackup(doc.Path, a.sessionID, doc.Format.Name())
		if err != nil {
			return fmt.Errorf("failed to back up %s: %w", doc.Path, err)
		}
		if meta != nil {
			a.logger.Debug("created backup", "path", meta.FilePath, "original", doc.Path)
		}
	}

	abs, err := filepath.Abs(doc.Path)
	if err != nil {
		abs = doc.Path
	}
	a.savedAt[abs] = a.now()
	if err := a.cmp.Save(slot); err != nil {
		return err
	}

	if a.opts.Backups != nil {
		removed, err := a.opts.Backups.Prune(doc.Path, a.cfg.Effective().Backup.Keep)
		if err != nil {
			a.logger.Warn("failed to prune backups", "path", doc.Path, "error", err)
		} else if removed > 0 {
			a.logger.Debug("pruned backups", "path", doc.Path, "removed", removed)
		}
	}
	return nil
}

// saveAndReport saves slot and puts the outcome in the status line
func (a *App) saveAndReport(slot int, force bool) bool {
	if !a.cmp.Dirty(slot) && !force {
		a.SetStatus("No changes to save")
		return true
	}
	if err := a.Save(slot, force); err != nil {
		a.SetError("Failed to save: " + err.Error())
		return false
	}
	a.SetStatus("Saved " + a.cmp.Document(slot).Path)
	return true
}

// saveAll saves every document with unsaved edits
func (a *App) saveAll(force bool) bool {
	ok := true
	for slot := range a.cmp.Width() {
		if a.cmp.Dirty(slot) && !a.saveAndReport(slot, force) {
			ok = false
		}
	}
	return ok
}

// backupLines lists the backups of the focused document, newest first
func (a *App) backupLines() ([]diff.DiffLine, error) {
	if a.opts.Backups == nil {
		return nil, fmt.Errorf("backups are not available")
	}
	path := a.cmp.Document(a.view.Slot()).Path
	backups, err := a.opts.Backups.FindBackupsForFile(path)
	if err != nil {
		return nil, err
	}
	if len(backups) == 0 {
		return []diff.DiffLine{{Type: diff.DiffTypeContext, Content: "No backups found for " + path}}, nil
	}

	lines := []diff.DiffLine{
		{Type: diff.DiffTypeHeader, Content: "Backups of " + path},
		{Type: diff.DiffTypeBlank},
	}
	for i := len(backups) - 1; i >= 0; i-- {
		b := backups[i]
		lines = append(lines, diff.DiffLine{
			Type:    diff.DiffTypeContext,
			Content: fmt.Sprintf("%3d  %s  %s", len(backups)-i, b.Timestamp.Format("2006-01-02 15:04:05"), b.SessionID),
		})
	}
	lines = append(lines,
		diff.DiffLine{Type: diff.DiffTypeBlank},
		diff.DiffLine{Type: diff.DiffTypeSummary, Content: ":backup N compares with backup N"})
	return lines, nil
}

// compareWithBackup replaces the comparison with the n-th newest backup of
// the focused document on the left and the document itself on the right
func (a *App) compareWithBackup(n int) error {
	if a.opts.Backups == nil {
		return fmt.Errorf("backups are not available")
	}
	if a.anyDirty() {
		return errUnsaved
	}
	path := a.cmp.Document(a.view.Slot()).Path
	backups, err := a.opts.Backups.FindBackupsForFile(path)
	if err != nil {
		return err
	}
	if n < 1 || n > len(backups) {
		return fmt.Errorf("no backup %d of %s (%d available)", n, path, len(backups))
	}
	b := backups[len(backups)-n]

	paths, readOnly := a.paths, a.opts.ReadOnly
	a.paths = []string{b.FilePath, path}
	a.opts.ReadOnly = map[int]bool{0: true}
	if err := a.Reload(true); err != nil {
		a.paths, a.opts.ReadOnly = paths, readOnly
		return err
	}
	a.SetStatus(fmt.Sprintf("Comparing with backup from %s (%s)", b.Timestamp.Format("2006-01-02 15:04:05"), b.SessionID))
	return nil
}
