package ui

import (
	"log/slog"

	"github.com/pstuifzand/hierarchy-diff/internal/history"
)

// History manages input history for search and command inputs.
// It allows navigating backward and forward through previous entries.
type History struct {
	entries        []string
	currentIndex   int // -1 when not navigating
	maxEntries     int
	temporaryInput string // input typed before navigation started
	manager        *history.Manager
	filename       string
}

// NewHistory creates an in-memory History with a maximum number of entries
func NewHistory(maxEntries int) *History {
	return &History{
		currentIndex: -1,
		maxEntries:   maxEntries,
	}
}

// NewHistoryWithManager creates a History persisted by manager under
// filename. A history that fails to load starts empty.
func NewHistoryWithManager(maxEntries int, manager *history.Manager, filename string) *History {
	h := NewHistory(maxEntries)
	if manager == nil {
		return h
	}
	h.manager = manager
	h.filename = filename

	entries, err := manager.LoadInputs(filename)
	if err != nil {
		slog.Warn("failed to load input history", "file", filename, "error", err)
		return h
	}
	if len(entries) > maxEntries {
		entries = entries[len(entries)-maxEntries:]
	}
	h.entries = entries
	return h
}

// Add appends entry, skipping empty entries and repeats of the most recent
// one. The oldest entries are dropped beyond the limit.
func (h *History) Add(entry string) {
	if entry == "" {
		return
	}
	h.Reset()
	if len(h.entries) > 0 && h.entries[len(h.entries)-1] == entry {
		return
	}

	h.entries = append(h.entries, entry)
	if len(h.entries) > h.maxEntries {
		h.entries = h.entries[len(h.entries)-h.maxEntries:]
	}

	if h.manager != nil {
		if err := h.manager.SaveInputs(h.filename, h.entries); err != nil {
			slog.Warn("failed to save input history", "file", h.filename, "error", err)
		}
	}
}

// Previous steps back through the history. The first step remembers
// current so that stepping forward past the end restores it.
func (h *History) Previous(current string) (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	switch {
	case h.currentIndex < 0:
		h.temporaryInput = current
		h.currentIndex = len(h.entries) - 1
	case h.currentIndex > 0:
		h.currentIndex--
	}
	return h.entries[h.currentIndex], true
}

// Next steps forward through the history
func (h *History) Next() (string, bool) {
	if h.currentIndex < 0 {
		return "", false
	}
	h.currentIndex++
	if h.currentIndex >= len(h.entries) {
		temp := h.temporaryInput
		h.Reset()
		return temp, true
	}
	return h.entries[h.currentIndex], true
}

// Reset leaves history navigation
func (h *History) Reset() {
	h.currentIndex = -1
	h.temporaryInput = ""
}

// GetAll returns a copy of all history entries
func (h *History) GetAll() []string {
	return append([]string(nil), h.entries...)
}

// Len returns the number of entries in history
func (h *History) Len() int {
	return len(h.entries)
}
