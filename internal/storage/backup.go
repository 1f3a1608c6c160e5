// Package storage keeps copies of documents taken before they are overwritten.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
)

const (
	timestampLayout = "20060102_150405"
	sidecarExt      = ".meta.toml"
)

// BackupManager handles backup creation for compared documents
type BackupManager struct {
	backupDir string
}

// NewBackupManager creates a backup manager storing files in dir, or in the
// default location when dir is empty
func NewBackupManager(dir string) (*BackupManager, error) {
	if dir == "" {
		dir = getBackupDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	return &BackupManager{
		backupDir: dir,
	}, nil
}

// NewSessionID returns an 8-character session identifier
func NewSessionID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// BackupMetadata holds information about a backup file, stored in a TOML
// sidecar next to it
type BackupMetadata struct {
	FilePath     string    `toml:"-"`
	Timestamp    time.Time `toml:"timestamp"`
	SessionID    string    `toml:"session"`
	OriginalFile string    `toml:"original"`
	Format       string    `toml:"format"`
}

// CreateBackup copies the current contents of originalPath into the backup
// directory. It returns nil metadata when there is no file to back up yet.
func (bm *BackupManager) CreateBackup(originalPath, sessionID, format string) (*BackupMetadata, error) {
	absPath, err := filepath.Abs(originalPath)
	if err != nil {
		// If we can't get absolute path, use the original
		absPath = originalPath
	}

	src, err := os.Open(absPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open original: %w", err)
	}
	defer src.Close()

	now := time.Now()
	meta := &BackupMetadata{
		FilePath:     filepath.Join(bm.backupDir, generateBackupFilename(now, sessionID, absPath)),
		Timestamp:    now.Truncate(time.Second),
		SessionID:    sessionID,
		OriginalFile: filepath.Clean(absPath),
		Format:       format,
	}

	dst, err := os.Create(meta.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create backup file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return nil, fmt.Errorf("failed to write backup file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return nil, fmt.Errorf("failed to write backup file: %w", err)
	}

	data, err := toml.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal backup metadata: %w", err)
	}
	if err := os.WriteFile(meta.FilePath+sidecarExt, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write backup metadata: %w", err)
	}
	return meta, nil
}

// generateBackupFilename creates a filename in the format:
// YYYYMMDD_HHMMSS_<sessionID>_<name>, keeping the original extension so the
// backup opens with the same format
func generateBackupFilename(t time.Time, sessionID, originalPath string) string {
	return fmt.Sprintf("%s_%s_%s", t.Format(timestampLayout), sessionID, filepath.Base(originalPath))
}

// getBackupDir returns the path to the backup directory
func getBackupDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to /tmp if home directory cannot be determined
		return filepath.Join("/tmp", ".hierarchy-diff", "backups")
	}
	return filepath.Join(homeDir, ".local", "share", "hierarchy-diff", "backups")
}

// Dir returns the directory holding the backups
func (bm *BackupManager) Dir() string {
	return bm.backupDir
}

// IsBackup reports whether path is a file inside the backup directory
func (bm *BackupManager) IsBackup(path string) bool {
	if path == "" {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return filepath.Dir(abs) == filepath.Clean(bm.backupDir)
}

// FindBackupsForFile returns all backup files for a given original filename, sorted chronologically.
// An empty path returns every backup.
func (bm *BackupManager) FindBackupsForFile(originalFilePath string) ([]BackupMetadata, error) {
	entries, err := os.ReadDir(bm.backupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var searchPath string
	if originalFilePath != "" {
		absPath, err := filepath.Abs(originalFilePath)
		if err != nil {
			searchPath = originalFilePath
		} else {
			searchPath = filepath.Clean(absPath)
		}
	}

	var backups []BackupMetadata
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), sidecarExt) {
			continue
		}

		metadata, err := readSidecar(filepath.Join(bm.backupDir, entry.Name()))
		if err != nil {
			continue // Skip files that can't be parsed
		}
		if searchPath != "" && filepath.Clean(metadata.OriginalFile) != searchPath {
			continue
		}
		backups = append(backups, metadata)
	}

	sortBackupsByTimestamp(backups)
	return backups, nil
}

// Latest returns the newest backup of originalFilePath
func (bm *BackupManager) Latest(originalFilePath string) (BackupMetadata, bool, error) {
	backups, err := bm.FindBackupsForFile(originalFilePath)
	if err != nil || len(backups) == 0 {
		return BackupMetadata{}, false, err
	}
	return backups[len(backups)-1], true, nil
}

// Prune removes the oldest backups of originalFilePath so that at most keep
// remain. A keep of zero disables pruning.
func (bm *BackupManager) Prune(originalFilePath string, keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}
	backups, err := bm.FindBackupsForFile(originalFilePath)
	if err != nil {
		return 0, err
	}
	removed := 0
	for len(backups)-removed > keep {
		b := backups[removed]
		if err := os.Remove(b.FilePath); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("failed to remove backup: %w", err)
		}
		if err := os.Remove(b.FilePath + sidecarExt); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("failed to remove backup metadata: %w", err)
		}
		removed++
	}
	return removed, nil
}

func readSidecar(path string) (BackupMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return BackupMetadata{}, err
	}
	var meta BackupMetadata
	if err := toml.Unmarshal(data, &meta); err != nil {
		return BackupMetadata{}, fmt.Errorf("invalid backup metadata: %w", err)
	}
	meta.FilePath = strings.TrimSuffix(path, sidecarExt)
	if _, err := os.Stat(meta.FilePath); err != nil {
		return BackupMetadata{}, err
	}
	return meta, nil
}

// sortBackupsByTimestamp sorts backups chronologically (oldest first)
func sortBackupsByTimestamp(backups []BackupMetadata) {
	slices.SortStableFunc(backups, func(a, b BackupMetadata) int {
		if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
			return c
		}
		return strings.Compare(a.FilePath, b.FilePath)
	})
}
