package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet(t *testing.T) {
	cfg := defaultConfig()

	require.NoError(t, cfg.Set("diff.similarity", "fuzzy"))
	assert.Equal(t, "fuzzy", cfg.Get("diff.similarity"))
	assert.Equal(t, "format", cfg.Diff.Similarity, "session settings do not touch persisted values")
}

func TestSetRejectsInvalidValues(t *testing.T) {
	cfg := defaultConfig()

	assert.Error(t, cfg.Set("nonexistent", "x"))
	assert.Error(t, cfg.Set("diff.similarity", "magic"))
	assert.Error(t, cfg.Set("diff.context_lines", "many"))
	assert.Error(t, cfg.Set("diff.context_lines", "-1"))
	assert.Error(t, cfg.Set("report.timestamp_format", ""))
	assert.Equal(t, "format", cfg.Get("diff.similarity"))
}

func TestGet(t *testing.T) {
	cfg := defaultConfig()

	assert.Equal(t, "", cfg.Get("nonexistent"))
	assert.Equal(t, "tokyo-night", cfg.Get("theme"))
	assert.Equal(t, "true", cfg.Get("diff.collapse_unchanged"))

	require.NoError(t, cfg.Set("theme", "light"))
	assert.Equal(t, "light", cfg.Get("theme"))
}

func TestGetAll(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, cfg.Set("backup.keep", "5"))

	all := cfg.GetAll()
	assert.Len(t, all, len(Keys))
	assert.Equal(t, "5", all["backup.keep"])
	assert.Equal(t, "auto", all["report.color"])
}

func TestGetAllReturnsACopy(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, cfg.Set("theme", "value"))

	all := cfg.GetAll()
	all["theme"] = "modified"

	assert.Equal(t, "value", cfg.Get("theme"), "GetAll() should return a copy, not a reference")
}

func TestNilSessionSettings(t *testing.T) {
	cfg := defaultConfig()
	cfg.sessionSettings = nil

	require.NoError(t, cfg.Set("log_level", "debug"))
	assert.Equal(t, "debug", cfg.Get("log_level"))

	cfg2 := &Config{}
	assert.Equal(t, "", cfg2.Get("theme"))
}

func TestEffective(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, cfg.Set("diff.collapse_unchanged", "false"))
	require.NoError(t, cfg.Set("diff.context_lines", "7"))

	eff := cfg.Effective()
	assert.False(t, eff.Diff.CollapseUnchanged)
	assert.Equal(t, 7, eff.Diff.ContextLines)
	assert.True(t, cfg.Diff.CollapseUnchanged)
	assert.NoError(t, eff.Validate())
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()
	assert.Equal(t, "tokyo-night", cfg.Theme)
	assert.NotNil(t, cfg.sessionSettings)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadFromFile(filepath.Join(dir, "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, defaultConfig().Diff, cfg.Diff)

	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
theme = "light"

[diff]
similarity = "structural"

[report]
color = "never"
`), 0o644))

	cfg, err = LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "light", cfg.Theme)
	assert.Equal(t, "structural", cfg.Diff.Similarity)
	assert.True(t, cfg.Diff.CollapseUnchanged, "missing keys keep defaults")
	assert.Equal(t, "never", cfg.Report.Color)
	assert.Equal(t, 20, cfg.Backup.Keep)
}

func TestLoadFromFileInvalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("theme = "), 0o644))
	_, err := LoadFromFile(bad)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.toml")
	require.NoError(t, os.WriteFile(invalid, []byte("[diff]\nsimilarity = \"magic\"\n"), 0o644))
	_, err = LoadFromFile(invalid)
	assert.ErrorContains(t, err, "invalid config")
}

func TestSaveToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := defaultConfig()
	cfg.Theme = "light"
	require.NoError(t, cfg.Set("theme", "session-only"))
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "light", loaded.Theme)
	assert.Equal(t, cfg.Diff, loaded.Diff)
}
