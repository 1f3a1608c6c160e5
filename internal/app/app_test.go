package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/hierarchy-diff/internal/config"
	"github.com/pstuifzand/hierarchy-diff/internal/diff"
	"github.com/pstuifzand/hierarchy-diff/internal/history"
	"github.com/pstuifzand/hierarchy-diff/internal/logging"
	"github.com/pstuifzand/hierarchy-diff/internal/storage"
	"github.com/pstuifzand/hierarchy-diff/internal/theme"
	"github.com/pstuifzand/hierarchy-diff/internal/ui"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "simple command",
			input:    "report",
			expected: []string{"report"},
		},
		{
			name:     "command with arguments",
			input:    "export report.md",
			expected: []string{"export", "report.md"},
		},
		{
			name:     "double quoted string",
			input:    `export "my report.md"`,
			expected: []string{"export", "my report.md"},
		},
		{
			name:     "single quoted string",
			input:    "export 'my report.md'",
			expected: []string{"export", "my report.md"},
		},
		{
			name:     "mixed quotes",
			input:    `set editor "vim --clean" and more`,
			expected: []string{"set", "editor", "vim --clean", "and", "more"},
		},
		{
			name:     "escaped quotes",
			input:    `set editor "code \"--wait\""`,
			expected: []string{"set", "editor", `code "--wait"`},
		},
		{
			name:     "escaped backslash",
			input:    `export "C:\\Users\\test.md"`,
			expected: []string{"export", `C:\Users\test.md`},
		},
		{
			name:     "multiple spaces",
			input:    "command    with    spaces",
			expected: []string{"command", "with", "spaces"},
		},
		{
			name:     "tabs and spaces",
			input:    "command\twith\t  mixed",
			expected: []string{"command", "with", "mixed"},
		},
		{
			name:     "empty quoted string",
			input:    `set editor ""`,
			expected: []string{"set", "editor", ""},
		},
		{
			name:     "assignment with special characters",
			input:    `set report.timestamp_format="%Y-%m-%d %H:%M"`,
			expected: []string{"set", "report.timestamp_format=%Y-%m-%d %H:%M"},
		},
		{
			name:     "blank line",
			input:    "   ",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseCommand(tt.input), "input %q", tt.input)
		})
	}
}

const (
	originJSON = `{"a": "1", "b": "2", "c": {"d": "x", "e": "y"}, "f": {"g": "z"}}`
	targetJSON = `{"a": "1", "b": "3", "c": {"d": "x", "e": "y"}, "f": {"g": "w"}}`
)

type fixture struct {
	app     *App
	sim     tcell.SimulationScreen
	origin  string
	target  string
	backups *storage.BackupManager
	history *history.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{
		origin: filepath.Join(dir, "a.json"),
		target: filepath.Join(dir, "b.json"),
	}
	require.NoError(t, os.WriteFile(f.origin, []byte(originJSON), 0o644))
	require.NoError(t, os.WriteFile(f.target, []byte(targetJSON), 0o644))

	var err error
	f.backups, err = storage.NewBackupManager(filepath.Join(dir, "backups"))
	require.NoError(t, err)
	f.history, err = history.NewManagerAt(filepath.Join(dir, "history"))
	require.NoError(t, err)

	f.sim = tcell.NewSimulationScreen("UTF-8")
	screen, err := ui.NewScreenFrom(f.sim, theme.Default())
	require.NoError(t, err)
	f.sim.SetSize(100, 20)
	screen.Size()

	f.app, err = NewApp(screen, []string{f.origin, f.target}, Options{
		Config:  config.Default(),
		Backups: f.backups,
		History: f.history,
		Logger:  logging.Discard(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { f.app.Close() })
	return f
}

func (f *fixture) keys(text string) {
	for _, r := range text {
		f.app.handleKey(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

func (f *fixture) special(k tcell.Key) {
	f.app.handleKey(tcell.NewEventKey(k, 0, tcell.ModNone))
}

func (f *fixture) command(cmd string) {
	f.keys(":" + cmd)
	f.special(tcell.KeyEnter)
}

func (f *fixture) selected() string {
	return f.app.view.Selected().Name()
}

func (f *fixture) lastMessage() ui.Message {
	msgs := f.app.messages.GetMessagesReverse()
	if len(msgs) == 0 {
		return ui.Message{}
	}
	return msgs[0]
}

func (f *fixture) node(t *testing.T, name string) *diff.ParallelNode {
	t.Helper()
	for _, n := range f.app.cmp.Nodes() {
		if n.Name() == name {
			return n
		}
	}
	t.Fatalf("no node %q", name)
	return nil
}

func TestNewAppRecordsHistory(t *testing.T) {
	f := newFixture(t)

	entries, err := f.history.Load()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "json", entries[0].Format)
	assert.Equal(t, 2, entries[0].Modified)
	assert.True(t, filepath.IsAbs(entries[0].Paths[0]))
	assert.Equal(t, "0 added, 0 removed, 2 modified", f.lastMessage().Text)
}

func TestNavigationKeys(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "$", f.selected())
	f.keys("]c")
	assert.Equal(t, "b", f.selected())
	f.keys("]c")
	assert.Equal(t, "g", f.selected())
	f.keys("[c")
	assert.Equal(t, "b", f.selected())

	f.keys("G")
	assert.Equal(t, "g", f.selected())
	f.keys("gg")
	assert.Equal(t, "$", f.selected())

	f.keys("zR")
	assert.Len(t, f.app.view.Rows(), 8)
	f.keys("zM")
	assert.Len(t, f.app.view.Rows(), 6)

	f.keys("jjj")
	assert.Equal(t, "c", f.selected())
	f.keys("l")
	assert.Contains(t, rowNames(f.app), "d")
	f.keys("h")
	assert.NotContains(t, rowNames(f.app), "d")

	f.special(tcell.KeyTab)
	assert.Equal(t, 1, f.app.view.Slot())
}

func rowNames(a *App) []string {
	var names []string
	for _, n := range a.view.Rows() {
		names = append(names, n.Name())
	}
	return names
}

func TestEditAndSaveCreatesBackup(t *testing.T) {
	f := newFixture(t)

	f.keys("]c")
	f.special(tcell.KeyTab)
	f.keys("i")
	require.Equal(t, InsertMode, f.app.mode)
	f.special(tcell.KeyBackspace2)
	f.keys("2")
	f.special(tcell.KeyEnter)
	assert.Equal(t, NormalMode, f.app.mode)

	b := f.node(t, "b")
	assert.Equal(t, diff.Same, b.Classification(1))
	require.True(t, f.app.cmp.Dirty(1))

	f.command("q")
	assert.False(t, f.app.quit, "quit refuses unsaved edits")
	assert.True(t, f.lastMessage().Error)

	f.command("w")
	assert.False(t, f.app.cmp.Dirty(1))
	data, err := os.ReadFile(f.target)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"b": "2"`)

	backups, err := f.backups.FindBackupsForFile(f.target)
	require.NoError(t, err)
	require.Len(t, backups, 1)
	saved, err := os.ReadFile(backups[0].FilePath)
	require.NoError(t, err)
	assert.Equal(t, targetJSON, string(saved), "the backup holds the file as it was before the save")
	assert.Equal(t, f.app.sessionID, backups[0].SessionID)

	f.command("q")
	assert.True(t, f.app.quit)
}

func TestSaveWithoutChanges(t *testing.T) {
	f := newFixture(t)
	f.special(tcell.KeyCtrlS)
	assert.Equal(t, "No changes to save", f.lastMessage().Text)

	backups, err := f.backups.FindBackupsForFile(f.origin)
	require.NoError(t, err)
	assert.Empty(t, backups)
}

func TestUndoRedo(t *testing.T) {
	f := newFixture(t)
	b := f.node(t, "b")

	f.keys("]c")
	f.keys("o")
	assert.Equal(t, diff.Same, b.Classification(0), "obtain copies the right value into the left column")
	assert.True(t, f.app.cmp.Dirty(0))

	f.keys("u")
	assert.Equal(t, diff.Modify, b.Classification(0))

	f.special(tcell.KeyCtrlR)
	assert.Equal(t, diff.Same, b.Classification(0))

	f.special(tcell.KeyTab)
	f.keys("u")
	assert.Equal(t, "Already at oldest change", f.lastMessage().Text, "undo is per document")
}

func TestPutRange(t *testing.T) {
	f := newFixture(t)

	f.keys("]c")
	f.keys("v")
	assert.Equal(t, RangeMode, f.app.mode)
	f.keys("]c")
	f.keys("p")
	assert.False(t, f.app.cmp.Stats().Changed(), "every value in the range now matches")
	assert.Equal(t, 2, f.app.cmp.Journal(1).Len())
	assert.Equal(t, 0, f.app.cmp.Journal(0).Len())

	f.special(tcell.KeyEscape)
	assert.Equal(t, NormalMode, f.app.mode)
	assert.Nil(t, f.app.view.Anchor())
}

func TestSearchJumps(t *testing.T) {
	f := newFixture(t)

	f.keys("/g")
	f.special(tcell.KeyEnter)
	assert.Equal(t, "g", f.selected())

	f.keys("/=x")
	f.special(tcell.KeyEnter)
	assert.Equal(t, "d", f.selected())
	f.keys("n")
	assert.Equal(t, "d", f.selected(), "a single match wraps onto itself")
}

func TestSetCommand(t *testing.T) {
	f := newFixture(t)

	f.command("set diff.collapse_unchanged=false")
	assert.Len(t, f.app.view.Rows(), 8)
	assert.Equal(t, "false", f.app.cfg.Get("diff.collapse_unchanged"))

	f.command("set diff.similarity=bogus")
	assert.True(t, f.lastMessage().Error)
	assert.Equal(t, "format", f.app.cfg.Get("diff.similarity"))

	old := f.app.cmp
	f.command("set diff.similarity fuzzy")
	assert.NotSame(t, old, f.app.cmp, "a new similarity recompares")

	f.command("set theme=light")
	assert.Equal(t, "light", f.app.screen.Theme.Name)

	f.command("set backup.keep")
	assert.Equal(t, "backup.keep=20", f.lastMessage().Text)

	f.command("set")
	assert.True(t, f.app.report.IsVisible())
}

func TestReloadOnExternalChange(t *testing.T) {
	f := newFixture(t)
	abs, err := filepath.Abs(f.origin)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(f.origin, []byte(targetJSON), 0o644))
	f.app.handleExternalChange([]string{abs})
	assert.False(t, f.app.cmp.Stats().Changed())

	f.node(t, "b").SetValue(0, "9")
	require.NoError(t, os.WriteFile(f.origin, []byte(originJSON), 0o644))
	f.app.handleExternalChange([]string{abs})
	assert.Contains(t, f.lastMessage().Text, "changed on disk")

	f.command("e!")
	assert.Equal(t, 2, f.app.cmp.Stats().Modified)
}

func TestOwnSaveIsNotAnExternalChange(t *testing.T) {
	f := newFixture(t)
	f.keys("]co")
	f.command("w")
	cmp := f.app.cmp

	abs, err := filepath.Abs(f.origin)
	require.NoError(t, err)
	f.app.handleExternalChange([]string{abs})
	assert.Same(t, cmp, f.app.cmp)
}

func TestCompareWithBackup(t *testing.T) {
	f := newFixture(t)
	f.special(tcell.KeyTab)
	f.keys("]cp")
	f.special(tcell.KeyTab)
	f.command("w")

	f.command("backups")
	require.True(t, f.app.report.IsVisible())
	assert.Contains(t, f.app.report.Lines()[2].Content, "  1  ")
	f.keys("q")

	f.command("backup 1")
	require.False(t, f.lastMessage().Error, f.lastMessage().Text)
	assert.Equal(t, f.origin, f.app.paths[1], "the focused document stays on the right")
	assert.True(t, strings.HasSuffix(f.app.paths[0], "_a.json"))
	assert.True(t, f.app.opts.ReadOnly[0])

	f.keys("gg]c")
	assert.Equal(t, "b", f.selected())
	f.keys("o")
	f.special(tcell.KeyCtrlS)
	assert.True(t, f.lastMessage().Error, "the backup column is read-only")
}

func TestSwap(t *testing.T) {
	f := newFixture(t)
	f.command("swap")
	assert.Equal(t, []string{f.target, f.origin}, f.app.paths)
	assert.Equal(t, "3", mustValue(t, f.node(t, "b").View(0)))
}

func mustValue(t *testing.T, v diff.ViewNode) string {
	t.Helper()
	value, ok := v.Value()
	require.True(t, ok)
	return value
}

func TestExportCommand(t *testing.T) {
	f := newFixture(t)
	out := filepath.Join(t.TempDir(), "my report.md")
	f.command(`export "` + out + `"`)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "b")
	assert.Equal(t, "Exported to "+out, f.lastMessage().Text)
}

func TestOverlays(t *testing.T) {
	f := newFixture(t)

	f.keys("?")
	assert.True(t, f.app.help.IsVisible())
	f.keys("j")
	f.special(tcell.KeyEscape)
	assert.False(t, f.app.help.IsVisible())

	f.keys("r")
	require.True(t, f.app.report.IsVisible())
	f.keys("q")
	assert.False(t, f.app.report.IsVisible())

	f.command("nope")
	assert.Equal(t, "Unknown command: nope", f.lastMessage().Text)
	f.command("messages")
	assert.True(t, f.app.report.IsVisible())
}

func TestRender(t *testing.T) {
	f := newFixture(t)
	f.special(tcell.KeyTab)
	f.app.render()

	cells, w, h := f.sim.GetContents()
	line := func(y int) string {
		var sb strings.Builder
		for x := 0; x < w; x++ {
			if r := cells[y*w+x].Runes; len(r) > 0 {
				sb.WriteRune(r[0])
			}
		}
		return sb.String()
	}
	assert.Contains(t, line(0), "│")
	assert.Contains(t, line(1), "$")
	assert.Contains(t, line(h-1), "NORMAL")
	assert.Contains(t, line(h-1), "+0 -0 ~2")
}
