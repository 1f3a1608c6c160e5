package history

import (
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// DefaultLimit is the number of comparisons kept
const DefaultLimit = 50

const comparisonsFile = "comparisons.toml"

// Manager handles loading and saving history to TOML files
type Manager struct {
	historyDir string
	limit      int
}

// Entry is one recorded comparison
type Entry struct {
	Paths    []string  `toml:"paths"`
	Format   string    `toml:"format"`
	Compared time.Time `toml:"compared"`
	Added    int       `toml:"added"`
	Removed  int       `toml:"removed"`
	Modified int       `toml:"modified"`
}

// HistoryFile represents the structure of a history TOML file
type HistoryFile struct {
	Entries []Entry `toml:"entries"`
}

// InputFile holds typed input such as viewer commands or search queries
type InputFile struct {
	Entries []string `toml:"entries"`
}

// NewManager creates a new history manager with directory at ~/.local/share/hierarchy-diff/history/
func NewManager() (*Manager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewManagerAt(filepath.Join(homeDir, ".local", "share", "hierarchy-diff", "history"))
}

// NewManagerAt creates a history manager storing its files in dir
func NewManagerAt(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Manager{historyDir: dir, limit: DefaultLimit}, nil
}

// Load returns recorded comparisons, newest first
func (m *Manager) Load() ([]Entry, error) {
	data, err := os.ReadFile(filepath.Join(m.historyDir, comparisonsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, err
	}

	var histFile HistoryFile
	if err := toml.Unmarshal(data, &histFile); err != nil {
		// If parse error, return empty and continue (don't fail on corrupted file)
		return []Entry{}, nil
	}
	return histFile.Entries, nil
}

// Record stores e as the newest entry. An older entry for the same paths is
// replaced.
func (m *Manager) Record(e Entry) error {
	entries, err := m.Load()
	if err != nil {
		return err
	}
	entries = slices.DeleteFunc(entries, func(old Entry) bool {
		return slices.Equal(old.Paths, e.Paths)
	})
	entries = append([]Entry{e}, entries...)
	if len(entries) > m.limit {
		entries = entries[:m.limit]
	}
	return m.save(entries)
}

func (m *Manager) save(entries []Entry) error {
	data, err := toml.Marshal(HistoryFile{Entries: entries})
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(m.historyDir, comparisonsFile), data, 0o644)
}

// LoadInputs loads input history (e.g., "command.toml", "search.toml")
func (m *Manager) LoadInputs(filename string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(m.historyDir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	var f InputFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return []string{}, nil
	}
	return f.Entries, nil
}

// SaveInputs replaces the input history stored in filename
func (m *Manager) SaveInputs(filename string, entries []string) error {
	data, err := toml.Marshal(InputFile{Entries: entries})
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(m.historyDir, filename), data, 0o644)
}
