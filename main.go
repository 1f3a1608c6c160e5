package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pstuifzand/hierarchy-diff/internal/app"
	"github.com/pstuifzand/hierarchy-diff/internal/config"
	"github.com/pstuifzand/hierarchy-diff/internal/formats"
	"github.com/pstuifzand/hierarchy-diff/internal/history"
	"github.com/pstuifzand/hierarchy-diff/internal/logging"
	"github.com/pstuifzand/hierarchy-diff/internal/storage"
	"github.com/pstuifzand/hierarchy-diff/internal/theme"
	"github.com/pstuifzand/hierarchy-diff/internal/ui"
)

func main() {
	watch := flag.Bool("watch", false, "Reload when the files change on disk")
	themeName := flag.String("theme", "", "Theme to use instead of the configured one")
	configPath := flag.String("config", "", "Config file (default ~/.config/hierarchy-diff/config.toml)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: hierarchy-diff [options] <origin> <target>
       hierarchy-diff [options] <file>

Shows two structured documents side by side with their differences.
With one file, the file is compared with its newest backup.

Options:
`)
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(flag.Args(), *configPath, *themeName, *watch); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, configPath, themeName string, watch bool) error {
	if len(args) < 1 || len(args) > 2 {
		flag.Usage()
		return errors.New("expected one or two files")
	}

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	logFile, err := logging.OpenFile(cfg.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger, err := logging.New(logFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	backups, err := storage.NewBackupManager(cfg.Backup.Dir)
	if err != nil {
		return err
	}
	hist, err := history.NewManager()
	if err != nil {
		logger.Warn("history disabled", "error", err)
		hist = nil
	}

	paths, readOnly, err := resolvePaths(args, backups)
	if err != nil {
		return err
	}

	if themeName == "" {
		themeName = cfg.Theme
	}
	screen, err := ui.NewScreenWithTheme(theme.LoadThemeOrDefault(themeName))
	if err != nil {
		return err
	}

	application, err := app.NewApp(screen, paths, app.Options{
		Config:   cfg,
		Registry: formats.Registry(),
		Backups:  backups,
		History:  hist,
		Logger:   logger,
		ReadOnly: readOnly,
		Watch:    watch,
	})
	if err != nil {
		screen.Close()
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := application.Run(ctx); err != nil {
		return fmt.Errorf("runtime error: %w", err)
	}
	return nil
}

// resolvePaths turns a single file into its newest backup and the file.
// The backup column is read-only.
func resolvePaths(args []string, backups *storage.BackupManager) ([]string, map[int]bool, error) {
	if len(args) == 2 {
		return args, nil, nil
	}
	latest, ok, err := backups.Latest(args[0])
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, fmt.Errorf("no backups found for %s in %s", args[0], backups.Dir())
	}
	return []string{latest.FilePath, args[0]}, map[int]bool{0: true}, nil
}
