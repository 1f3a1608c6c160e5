package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pstuifzand/hierarchy-diff/internal/config"
	"github.com/pstuifzand/hierarchy-diff/internal/diff"
	"github.com/pstuifzand/hierarchy-diff/internal/document"
	"github.com/pstuifzand/hierarchy-diff/internal/formats"
	"github.com/pstuifzand/hierarchy-diff/internal/history"
	"github.com/pstuifzand/hierarchy-diff/internal/logging"
	"github.com/pstuifzand/hierarchy-diff/internal/similarity"
	"github.com/pstuifzand/hierarchy-diff/internal/storage"
)

type rootOptions struct {
	configPath string
	logLevel   string
	stateDir   string
	similarity string
}

// env holds what every subcommand needs, set up before it runs
type env struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *document.Registry
	backups  *storage.BackupManager
	history  *history.Manager
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	e := &env{}

	root := &cobra.Command{
		Use:   "hdiff",
		Short: "Compare structured documents as trees",
		Long: `hdiff aligns two hierarchical documents (XML, JSON, YAML, TOML, outlines
and source code) node by node and reports what was added, removed and
modified. Use hierarchy-diff for the interactive side-by-side viewer.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.init(cmd, opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.config/hierarchy-diff/config.toml)")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	flags.StringVar(&opts.stateDir, "state-dir", "", "directory for backups and history instead of the defaults")
	flags.StringVar(&opts.similarity, "similarity", "", "similarity strategy: format, structural or fuzzy")

	root.AddCommand(
		newDiffCmd(e),
		newExportCmd(e),
		newFormatsCmd(e),
		newHistoryCmd(e),
		newBackupsCmd(e),
		newGenerateCmd(),
		newServeMCPCmd(e),
	)
	return root
}

func (e *env) init(cmd *cobra.Command, opts *rootOptions) error {
	var err error
	if opts.configPath != "" {
		e.cfg, err = config.LoadFromFile(opts.configPath)
	} else {
		e.cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if opts.similarity != "" {
		if err := e.cfg.Set("diff.similarity", opts.similarity); err != nil {
			return err
		}
	}

	e.logger, err = logging.New(cmd.ErrOrStderr(), opts.logLevel)
	if err != nil {
		return err
	}
	e.registry = formats.Registry()

	backupDir := e.cfg.Backup.Dir
	if opts.stateDir != "" {
		backupDir = filepath.Join(opts.stateDir, "backups")
	}
	if e.backups, err = storage.NewBackupManager(backupDir); err != nil {
		return err
	}

	if opts.stateDir != "" {
		e.history, err = history.NewManagerAt(filepath.Join(opts.stateDir, "history"))
	} else {
		e.history, err = history.NewManager()
	}
	if err != nil {
		e.logger.Warn("history disabled", "error", err)
		e.history = nil
	}
	return nil
}

// open compares the documents at paths with the configured similarity
func (e *env) open(ctx context.Context, paths []string) (*diff.Comparison, error) {
	score, err := similarity.ByName(e.cfg.Effective().Diff.Similarity)
	if err != nil {
		return nil, err
	}
	c, err := diff.Open(ctx, e.registry, paths,
		diff.WithLogger(e.logger),
		diff.WithScore(diff.ScoreFunc(score)))
	if err != nil {
		return nil, err
	}
	e.logger.Info("compared documents", "paths", paths, "id", c.ID())
	e.record(c)
	return c, nil
}

func (e *env) record(c *diff.Comparison) {
	if e.history == nil {
		return
	}
	paths := make([]string, 0, c.Width())
	for _, doc := range c.Documents() {
		p, err := filepath.Abs(doc.Path)
		if err != nil {
			p = doc.Path
		}
		paths = append(paths, p)
	}
	stats := c.Stats()
	err := e.history.Record(history.Entry{
		Paths:    paths,
		Format:   c.Document(0).Format.Name(),
		Compared: c.Created(),
		Added:    stats.Added,
		Removed:  stats.Removed,
		Modified: stats.Modified,
	})
	if err != nil {
		e.logger.Warn("failed to record history", "error", err)
	}
}

// resolvePaths turns a single file into its newest backup and the file
func (e *env) resolvePaths(args []string) ([]string, error) {
	if len(args) == 2 {
		return args, nil
	}
	latest, ok, err := e.backups.Latest(args[0])
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no backups found for %s in %s", args[0], e.backups.Dir())
	}
	return []string{latest.FilePath, args[0]}, nil
}
