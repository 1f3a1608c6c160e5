package storage

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) (*BackupManager, string) {
	t.Helper()
	bm, err := NewBackupManager(filepath.Join(t.TempDir(), "backups"))
	require.NoError(t, err)
	return bm, t.TempDir()
}

func TestCreateBackup(t *testing.T) {
	bm, work := newManager(t)
	original := filepath.Join(work, "config.xml")
	require.NoError(t, os.WriteFile(original, []byte("<a/>"), 0o644))

	meta, err := bm.CreateBackup(original, "abc12345", "xml")
	require.NoError(t, err)
	require.NotNil(t, meta)

	data, err := os.ReadFile(meta.FilePath)
	require.NoError(t, err)
	assert.Equal(t, "<a/>", string(data))
	assert.Equal(t, original, meta.OriginalFile)
	assert.Equal(t, ".xml", filepath.Ext(meta.FilePath), "backups keep the original extension")

	found, err := bm.FindBackupsForFile(original)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, meta.FilePath, found[0].FilePath)
	assert.Equal(t, "xml", found[0].Format)
	assert.Equal(t, "abc12345", found[0].SessionID)
}

func TestCreateBackupWithoutOriginal(t *testing.T) {
	bm, work := newManager(t)
	meta, err := bm.CreateBackup(filepath.Join(work, "missing.json"), "abc12345", "json")
	require.NoError(t, err)
	assert.Nil(t, meta)
}

func TestBackupFilenameFormat(t *testing.T) {
	at := time.Date(2025, 11, 3, 15, 4, 5, 0, time.Local)
	name := generateBackupFilename(at, "abc12345", "/tmp/dir/settings.toml")
	assert.Equal(t, "20251103_150405_abc12345_settings.toml", name)
}

func TestSessionIDGeneration(t *testing.T) {
	id1, id2 := NewSessionID(), NewSessionID()
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{8}$`), id1)
	assert.NotEqual(t, id1, id2)
}

func TestFindLatestAndPrune(t *testing.T) {
	bm, work := newManager(t)
	original := filepath.Join(work, "data.json")
	other := filepath.Join(work, "other.json")
	require.NoError(t, os.WriteFile(other, []byte("{}"), 0o644))

	for i, body := range []string{"1", "2", "3"} {
		require.NoError(t, os.WriteFile(original, []byte(body), 0o644))
		_, err := bm.CreateBackup(original, "sess000"+body, "json")
		require.NoError(t, err, i)
	}
	_, err := bm.CreateBackup(other, "sessother", "json")
	require.NoError(t, err)

	found, err := bm.FindBackupsForFile(original)
	require.NoError(t, err)
	require.Len(t, found, 3)

	all, err := bm.FindBackupsForFile("")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	latest, ok, err := bm.Latest(original)
	require.NoError(t, err)
	require.True(t, ok)
	data, err := os.ReadFile(latest.FilePath)
	require.NoError(t, err)
	assert.Equal(t, "3", string(data))

	removed, err := bm.Prune(original, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	found, err = bm.FindBackupsForFile(original)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, latest.FilePath, found[0].FilePath)

	_, ok, err = bm.Latest(filepath.Join(work, "never.json"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsBackup(t *testing.T) {
	bm, work := newManager(t)

	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{name: "Empty path", path: "", expected: false},
		{name: "Regular file", path: filepath.Join(work, "doc.xml"), expected: false},
		{name: "Backup file", path: filepath.Join(bm.Dir(), "20251103_150405_abc12345_doc.xml"), expected: true},
		{name: "Nested below backups", path: filepath.Join(bm.Dir(), "sub", "doc.xml"), expected: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, bm.IsBackup(tt.path))
		})
	}
}
