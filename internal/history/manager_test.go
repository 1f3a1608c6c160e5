package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordNewestFirst(t *testing.T) {
	m, err := NewManagerAt(t.TempDir())
	require.NoError(t, err)

	entries, err := m.Load()
	require.NoError(t, err)
	assert.Empty(t, entries)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, m.Record(Entry{Paths: []string{"a.xml", "b.xml"}, Format: "xml", Compared: now, Modified: 2}))
	require.NoError(t, m.Record(Entry{Paths: []string{"c.json", "d.json"}, Format: "json", Compared: now.Add(time.Minute)}))
	require.NoError(t, m.Record(Entry{Paths: []string{"a.xml", "b.xml"}, Format: "xml", Compared: now.Add(2 * time.Minute), Added: 1}))

	entries, err = m.Load()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, []string{"a.xml", "b.xml"}, entries[0].Paths)
	assert.Equal(t, 1, entries[0].Added)
	assert.True(t, entries[0].Compared.Equal(now.Add(2*time.Minute)))
	assert.Equal(t, "json", entries[1].Format)
}

func TestRecordLimit(t *testing.T) {
	m, err := NewManagerAt(t.TempDir())
	require.NoError(t, err)
	m.limit = 3

	for _, p := range []string{"1", "2", "3", "4"} {
		require.NoError(t, m.Record(Entry{Paths: []string{p, p}}))
	}
	entries, err := m.Load()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "4", entries[0].Paths[0])
	assert.Equal(t, "2", entries[2].Paths[0])
}

func TestCorruptedFileIsIgnored(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, comparisonsFile), []byte("entries = ["), 0o644))
	m, err := NewManagerAt(dir)
	require.NoError(t, err)

	entries, err := m.Load()
	require.NoError(t, err)
	assert.Empty(t, entries)
	require.NoError(t, m.Record(Entry{Paths: []string{"a", "b"}}))
}

func TestInputsRoundTrip(t *testing.T) {
	m, err := NewManagerAt(t.TempDir())
	require.NoError(t, err)

	entries, err := m.LoadInputs("search.toml")
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, m.SaveInputs("search.toml", []string{"port", "replicas"}))
	entries, err = m.LoadInputs("search.toml")
	require.NoError(t, err)
	assert.Equal(t, []string{"port", "replicas"}, entries)

	other, err := m.LoadInputs("command.toml")
	require.NoError(t, err)
	assert.Empty(t, other)
}
