package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/hierarchy-diff/internal/storage"
)

const (
	originJSON = `{"a": "1", "b": "2", "c": {"d": "x", "e": "y"}, "f": {"g": "z"}}`
	targetJSON = `{"a": "1", "b": "3", "c": {"d": "x", "e": "y"}, "f": {"g": "w"}}`
)

type cli struct {
	dir    string
	origin string
	target string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	c := &cli{
		dir:    dir,
		origin: filepath.Join(dir, "a.json"),
		target: filepath.Join(dir, "b.json"),
	}
	require.NoError(t, os.WriteFile(c.origin, []byte(originJSON), 0o644))
	require.NoError(t, os.WriteFile(c.target, []byte(targetJSON), 0o644))
	return c
}

// run executes hdiff with an isolated state directory and no config file
func (c *cli) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{
		"--state-dir", filepath.Join(c.dir, "state"),
		"--config", filepath.Join(c.dir, "missing.toml"),
	}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (c *cli) backups(t *testing.T) *storage.BackupManager {
	t.Helper()
	bm, err := storage.NewBackupManager(filepath.Join(c.dir, "state", "backups"))
	require.NoError(t, err)
	return bm
}

func TestDiffReport(t *testing.T) {
	c := newCLI(t)
	out, err := c.run(t, "diff", "--color", "never", c.origin, c.target)
	require.NoError(t, err)

	assert.Contains(t, out, "--- "+c.origin)
	assert.Contains(t, out, "+++ "+c.target)
	assert.Contains(t, out, "2 → 3")
	assert.Contains(t, out, "z → w")
	assert.Contains(t, out, "=== Summary ===")
	assert.Contains(t, out, "2 modified, 0 added, 0 removed")
	assert.NotContains(t, out, "\x1b[")
}

func TestDiffSummaryOnly(t *testing.T) {
	c := newCLI(t)
	out, err := c.run(t, "diff", "-s", "--color", "never", c.origin, c.target)
	require.NoError(t, err)

	assert.NotContains(t, out, "2 → 3")
	assert.Contains(t, out, "2 modified, 0 added, 0 removed")
}

func TestDiffColor(t *testing.T) {
	c := newCLI(t)
	out, err := c.run(t, "diff", "--color", "always", c.origin, c.target)
	require.NoError(t, err)
	assert.Contains(t, out, "\x1b[")
}

func TestDiffMixedFormats(t *testing.T) {
	c := newCLI(t)
	other := filepath.Join(c.dir, "c.yaml")
	require.NoError(t, os.WriteFile(other, []byte("a: 1\n"), 0o644))

	_, err := c.run(t, "diff", c.origin, other)
	assert.Error(t, err)
}

func TestDiffSingleFileWithoutBackups(t *testing.T) {
	c := newCLI(t)
	_, err := c.run(t, "diff", c.target)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no backups found")
}

func TestDiffSingleFileUsesLatestBackup(t *testing.T) {
	c := newCLI(t)
	bm := c.backups(t)
	_, err := bm.CreateBackup(c.origin, storage.NewSessionID(), "json")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(c.origin, []byte(targetJSON), 0o644))

	out, err := c.run(t, "diff", "--color", "never", c.origin)
	require.NoError(t, err)
	assert.Contains(t, out, "+++ "+c.origin)
	assert.Contains(t, out, "2 → 3")

	out, err = c.run(t, "diff", "--history", "-s", "--color", "never", c.origin)
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 backups")
	assert.Contains(t, out, "current file")
	assert.Contains(t, out, "2 modified, 0 added, 0 removed")
}

func TestExport(t *testing.T) {
	c := newCLI(t)
	path := filepath.Join(c.dir, "report.md")
	_, err := c.run(t, "export", "-o", path, c.origin, c.target)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Comparison")
	assert.Contains(t, string(data), "| 2 | 0 | 0 |")

	out, err := c.run(t, "export", c.origin, c.target)
	require.NoError(t, err)
	assert.Contains(t, out, "- Origin: `"+c.origin+"`")
}

func TestFormats(t *testing.T) {
	c := newCLI(t)
	out, err := c.run(t, "formats")
	require.NoError(t, err)
	for _, name := range []string{"json", "xml", "yaml", "toml", "outline", ".go"} {
		assert.Contains(t, out, name)
	}
}

func TestHistory(t *testing.T) {
	c := newCLI(t)
	out, err := c.run(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No comparisons recorded")

	_, err = c.run(t, "diff", "--color", "never", c.origin, c.target)
	require.NoError(t, err)

	out, err = c.run(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "a.json → b.json")
	assert.Contains(t, out, "+0 -0 ~2")
}

func TestBackupsListAndPrune(t *testing.T) {
	c := newCLI(t)
	out, err := c.run(t, "backups", c.origin)
	require.NoError(t, err)
	assert.Contains(t, out, "No backups found")

	bm := c.backups(t)
	session := storage.NewSessionID()
	_, err = bm.CreateBackup(c.origin, session, "json")
	require.NoError(t, err)

	out, err = c.run(t, "backups", c.origin)
	require.NoError(t, err)
	assert.Contains(t, out, session)
	assert.Contains(t, out, "_a.json")

	_, err = bm.CreateBackup(c.origin, storage.NewSessionID(), "json")
	require.NoError(t, err)

	out, err = c.run(t, "backups", "--prune", "1", c.origin)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 1 backup(s)")

	left, err := bm.FindBackupsForFile(c.origin)
	require.NoError(t, err)
	assert.Len(t, left, 1)
}

func TestGenerate(t *testing.T) {
	c := newCLI(t)
	path := filepath.Join(c.dir, "gen", "big.tuo")
	out, err := c.run(t, "generate", "--nodes", "60", "--changes", "20", "--seed", "7", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Generated outline with 60 nodes")

	changed := filepath.Join(c.dir, "gen", "big-changed.tuo")
	require.FileExists(t, path)
	require.FileExists(t, changed)

	out, err = c.run(t, "diff", "-s", "--color", "never", path, changed)
	require.NoError(t, err)
	assert.Contains(t, out, "=== Summary ===")
	assert.False(t, strings.Contains(out, "  0 modified, 0 added, 0 removed"), "the copy differs")
}

func TestGenerateRejectsBadInput(t *testing.T) {
	c := newCLI(t)
	_, err := c.run(t, "generate", "--nodes", "0", "-o", filepath.Join(c.dir, "x.tuo"))
	assert.Error(t, err)
	_, err = c.run(t, "generate", "--changes", "150", "-o", filepath.Join(c.dir, "x.tuo"))
	assert.Error(t, err)
}

func TestChangedName(t *testing.T) {
	assert.Equal(t, "dir/big-changed.tuo", changedName("dir/big.tuo"))
	assert.Equal(t, "plain-changed", changedName("plain"))
}
