package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pstuifzand/hierarchy-diff/internal/config"
	"github.com/pstuifzand/hierarchy-diff/internal/diff"
	"github.com/pstuifzand/hierarchy-diff/internal/document"
	"github.com/pstuifzand/hierarchy-diff/internal/formats"
	"github.com/pstuifzand/hierarchy-diff/internal/history"
	"github.com/pstuifzand/hierarchy-diff/internal/similarity"
	"github.com/pstuifzand/hierarchy-diff/internal/storage"
	"github.com/pstuifzand/hierarchy-diff/internal/ui"
	"github.com/pstuifzand/hierarchy-diff/internal/watch"
)

// Mode is the input mode shown in the status line
type Mode string

const (
	NormalMode Mode = "NORMAL"
	InsertMode Mode = "INSERT"
	RangeMode  Mode = "RANGE"
)

const (
	statusTTL     = 3 * time.Second
	watchDebounce = 200 * time.Millisecond
	// writes of our own saves are not reported as external changes
	selfWriteGrace = time.Second
)

var errUnsaved = errors.New("unsaved changes")

// Options carries the collaborators of an App. Zero fields get defaults.
type Options struct {
	Config   *config.Config
	Registry *document.Registry
	Backups  *storage.BackupManager
	History  *history.Manager
	Logger   *slog.Logger
	// ReadOnly slots refuse :w, for example a backup compared with its file
	ReadOnly map[int]bool
	// Watch reloads the comparison when a file changes on disk
	Watch bool
}

// App is the main application controller
type App struct {
	screen   *ui.Screen
	paths    []string
	opts     Options
	cfg      *config.Config
	logger   *slog.Logger
	cmp      *diff.Comparison
	view     *ui.ParallelView
	editor   ui.Editor
	search   *ui.Search
	help     *ui.HelpScreen
	command  *ui.CommandMode
	report   *ui.DiffViewWidget
	messages *ui.MessageLogger

	keybindings        []KeyBinding
	pendingKeybindings []PendingKeyBinding
	pendingKey         rune

	sessionID string
	mode      Mode
	quit      bool
	savedAt   map[string]time.Time
	now       func() time.Time
}

// NewApp compares the documents at paths and prepares the viewer
func NewApp(screen *ui.Screen, paths []string, opts Options) (*App, error) {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Registry == nil {
		opts.Registry = formats.Registry()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	a := &App{
		screen:    screen,
		paths:     paths,
		opts:      opts,
		cfg:       opts.Config,
		logger:    opts.Logger,
		search:    ui.NewSearch(opts.History),
		help:      ui.NewHelpScreen(),
		command:   ui.NewCommandMode(opts.History),
		report:    ui.NewDiffViewWidget(),
		messages:  ui.NewMessageLogger(50),
		sessionID: storage.NewSessionID(),
		mode:      NormalMode,
		savedAt:   make(map[string]time.Time),
		now:       time.Now,
	}

	c, err := a.compare(context.Background())
	if err != nil {
		return nil, err
	}
	a.cmp = c
	a.view = ui.NewParallelView(c, a.cfg.Effective().Diff.CollapseUnchanged)

	a.keybindings = a.InitializeKeybindings()
	a.pendingKeybindings = a.InitializePendingKeybindings()
	a.help.SetKeybindings(a.helpEntries())

	a.recordHistory()
	stats := c.Stats()
	a.SetStatus(fmt.Sprintf("%d added, %d removed, %d modified", stats.Added, stats.Removed, stats.Modified))
	return a, nil
}

func (a *App) compare(ctx context.Context) (*diff.Comparison, error) {
	cfg := a.cfg.Effective()
	score, err := similarity.ByName(cfg.Diff.Similarity)
	if err != nil {
		return nil, err
	}
	c, err := diff.Open(ctx, a.opts.Registry, a.paths,
		diff.WithLogger(a.logger),
		diff.WithScore(diff.ScoreFunc(score)))
	if err != nil {
		return nil, err
	}
	a.logger.Info("compared documents", "paths", a.paths, "id", c.ID(), "demotions", len(c.Demotions()))
	return c, nil
}

func (a *App) recordHistory() {
	if a.opts.History == nil {
		return
	}
	stats := a.cmp.Stats()
	err := a.opts.History.Record(history.Entry{
		Paths:    a.absPaths(),
		Format:   a.cmp.Document(0).Format.Name(),
		Compared: a.cmp.Created(),
		Added:    stats.Added,
		Removed:  stats.Removed,
		Modified: stats.Modified,
	})
	if err != nil {
		a.logger.Warn("failed to record history", "error", err)
	}
}

func (a *App) absPaths() []string {
	out := make([]string, len(a.paths))
	for i, p := range a.paths {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		out[i] = p
	}
	return out
}

// Comparison returns the comparison on screen
func (a *App) Comparison() *diff.Comparison {
	return a.cmp
}

// Run starts the main event loop. It returns when the user quits or ctx
// is done.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	eventChan := make(chan tcell.Event)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	changes := make(chan []string, 1)
	if a.opts.Watch {
		a.startWatcher(ctx, changes)
	}

	ticker := time.NewTicker(50 * time.Millisecond) // ~20 FPS
	defer ticker.Stop()

	for !a.quit {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-eventChan:
			a.handleRawEvent(ev)
		case changed := <-changes:
			a.handleExternalChange(changed)
		case <-ticker.C:
			a.render()
		}
	}
	return nil
}

func (a *App) startWatcher(ctx context.Context, changes chan<- []string) {
	w, err := watch.New(a.paths, watchDebounce, a.logger)
	if err != nil {
		a.SetError("Watch disabled: " + err.Error())
		return
	}
	go func() {
		err := w.Run(ctx, func(changed []string) {
			select {
			case changes <- changed:
			default:
				a.logger.Debug("dropped change batch", "paths", changed)
			}
		})
		if err != nil {
			a.logger.Warn("watcher stopped", "error", err)
		}
	}()
}

// handleExternalChange reloads when files change on disk, unless the change
// was our own save or there are unsaved edits
func (a *App) handleExternalChange(changed []string) {
	var external []string
	for _, p := range changed {
		if t, ok := a.savedAt[p]; ok && a.now().Sub(t) < selfWriteGrace {
			continue
		}
		external = append(external, p)
	}
	if len(external) == 0 {
		return
	}
	a.logger.Info("files changed on disk", "paths", external)
	if err := a.Reload(false); err != nil {
		if errors.Is(err, errUnsaved) {
			a.SetError(filepath.Base(external[0]) + " changed on disk, :e! to reload")
			return
		}
		a.SetError("Reload failed: " + err.Error())
		return
	}
	a.SetStatus("Reloaded " + filepath.Base(external[0]))
}

// Reload compares the files again. Unsaved edits block it unless force.
func (a *App) Reload(force bool) error {
	if !force && a.anyDirty() {
		return errUnsaved
	}
	c, err := a.compare(context.Background())
	if err != nil {
		return err
	}
	a.editor.Cancel()
	a.search.Stop()
	a.cmp = c
	a.view.SetComparison(c)
	a.view.SetMatches(nil)
	a.mode = NormalMode
	return nil
}

func (a *App) anyDirty() bool {
	for slot := range a.cmp.Width() {
		if a.cmp.Dirty(slot) {
			return true
		}
	}
	return false
}

// Close closes the application
func (a *App) Close() error {
	if a.screen != nil {
		return a.screen.Close()
	}
	return nil
}

// treeHeight is the number of rows available to the parallel view
func (a *App) treeHeight() int {
	h := a.screen.GetHeight() - 2
	if a.search.IsActive() || a.command.IsActive() {
		h--
	}
	return max(h, 1)
}

// render renders the current state to the screen
func (a *App) render() {
	a.screen.Clear()

	width := a.screen.GetWidth()
	height := a.screen.GetHeight()
	treeHeight := a.treeHeight()

	a.renderHeader(width)
	a.view.Render(a.screen, 0, 1, width, treeHeight)
	a.renderEditor(width, treeHeight)

	if a.search.IsActive() {
		a.search.Render(a.screen, height-2, a.view.Selected())
	}
	if a.command.IsActive() {
		a.command.Render(a.screen, height-2)
	}
	a.renderStatus(width, height-1)

	a.help.Render(a.screen)
	a.report.Render(a.screen)

	a.screen.Show()
}

func (a *App) renderHeader(width int) {
	for slot := range a.cmp.Width() {
		x, w := a.view.ColumnLayout(slot, width)
		doc := a.cmp.Document(slot)
		title := " " + doc.Path
		if a.cmp.Dirty(slot) {
			title += " [+]"
		}
		if a.opts.ReadOnly[slot] || !document.Writable(doc.Format) {
			title += " [RO]"
		}
		style := a.screen.NormalStyle()
		if slot == a.view.Slot() {
			style = a.screen.HeaderStyle()
		}
		a.screen.FillLine(x, 0, w, style)
		a.screen.DrawStringLimited(x, 0, title, w, style)
		if slot > 0 {
			a.screen.SetCell(x-1, 0, '│', a.screen.DividerStyle())
		}
	}
}

// renderEditor draws the inline editor over the value of the selected cell
func (a *App) renderEditor(width, treeHeight int) {
	if !a.editor.IsActive() {
		return
	}
	y := a.view.RowY(treeHeight)
	if y < 0 {
		return
	}
	target := a.editor.Target()
	x, w := a.view.ColumnLayout(target.Slot(), width)
	offset := target.Node().Depth()*2 + 2 + ui.StringWidth(target.Name()) + 3
	offset = min(offset, max(w-1, 0))
	a.editor.Render(a.screen, x+offset, 1+y, w-offset)
}

func (a *App) renderStatus(width, y int) {
	a.screen.FillLine(0, y, width, a.screen.BackgroundStyle())
	x := a.screen.DrawString(0, y, " "+string(a.mode)+" ", a.screen.StatusModeStyle())

	stats := a.cmp.Stats()
	summary := fmt.Sprintf(" +%d -%d ~%d ", stats.Added, stats.Removed, stats.Modified)
	x += a.screen.DrawString(x, y, summary, a.screen.StatusMessageStyle())

	if a.anyDirty() {
		x += a.screen.DrawString(x, y, "(modified) ", a.screen.StatusModifiedStyle())
	}
	if a.pendingKey != 0 {
		x += a.screen.DrawString(x, y, string(a.pendingKey)+" ", a.screen.StatusMessageStyle())
	}
	if msg, ok := a.messages.Current(statusTTL); ok {
		style := a.screen.StatusMessageStyle()
		if msg.Error {
			style = a.screen.DifferenceStyle(diff.Remove)
		}
		a.screen.DrawStringLimited(x, y, msg.Text, width-x, style)
	}
}

// SetStatus sets the status message
func (a *App) SetStatus(msg string) {
	a.messages.AddMessage(msg)
}

// SetError sets an error status message
func (a *App) SetError(msg string) {
	a.logger.Warn(msg)
	a.messages.AddError(msg)
}

// Quit signals the app to quit
func (a *App) Quit() {
	a.quit = true
}
