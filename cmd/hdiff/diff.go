package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pstuifzand/hierarchy-diff/internal/diff"
	"github.com/pstuifzand/hierarchy-diff/internal/export"
	"github.com/pstuifzand/hierarchy-diff/internal/theme"
	"github.com/pstuifzand/hierarchy-diff/internal/watch"
)

type diffOptions struct {
	summary       bool
	all           bool
	verbose       bool
	watch         bool
	backupHistory bool
	color         string
}

func newDiffCmd(e *env) *cobra.Command {
	o := &diffOptions{}
	cmd := &cobra.Command{
		Use:   "diff <origin> <target> | diff <file>",
		Short: "Report the differences between two documents",
		Long: `Report the differences between two documents of the same format.

With one file, the file is compared with its newest backup. With --history,
every backup is compared with the one before it and the newest backup with
the file.`,
		Args: cobra.RangeArgs(1, 2),
		Example: `  # Show changes between two files
  hdiff diff old.xml new.xml

  # Compare a file with the backup taken before it was last saved
  hdiff diff config.yaml

  # Walk the backup history of a file, counts only
  hdiff diff --history --summary notes.tuo`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.color == "" {
				o.color = e.cfg.Effective().Report.Color
			}
			p := newPrinter(cmd.OutOrStdout(), o.color, theme.LoadThemeOrDefault(e.cfg.Effective().Theme))
			if o.backupHistory {
				if len(args) != 1 {
					return fmt.Errorf("--history takes a single file")
				}
				return e.printBackupHistory(cmd.Context(), p, args[0], o)
			}
			return e.runDiff(cmd.Context(), cmd.ErrOrStderr(), p, args, o)
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&o.summary, "summary", "s", false, "summary only (counts without node details)")
	flags.BoolVarP(&o.all, "all", "a", false, "include unchanged nodes as context")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "list every removed and added descendant and diff multi-line values")
	flags.BoolVarP(&o.watch, "watch", "w", false, "print the report again whenever a file changes")
	flags.BoolVar(&o.backupHistory, "history", false, "compare consecutive backups of a single file")
	flags.StringVar(&o.color, "color", "", "colour output: auto, always or never (default from config)")
	return cmd
}

func (e *env) reportOptions(o *diffOptions) diff.ReportOptions {
	cfg := e.cfg.Effective()
	return diff.ReportOptions{
		Verbose:         o.verbose,
		All:             o.all,
		Summary:         o.summary,
		TimestampFormat: cfg.Report.TimestampFormat,
		Context:         cfg.Diff.ContextLines,
	}
}

func (e *env) runDiff(ctx context.Context, errOut io.Writer, p *printer, args []string, o *diffOptions) error {
	paths, err := e.resolvePaths(args)
	if err != nil {
		return err
	}
	if err := e.printDiff(ctx, p, paths, o); err != nil {
		return err
	}
	if !o.watch {
		return nil
	}

	w, err := watch.New(paths, 0, e.logger)
	if err != nil {
		return err
	}
	return w.Run(ctx, func(changed []string) {
		fmt.Fprintln(p.w)
		if err := e.printDiff(ctx, p, paths, o); err != nil {
			fmt.Fprintf(errOut, "Error: %v\n", err)
		}
	})
}

func (e *env) printDiff(ctx context.Context, p *printer, paths []string, o *diffOptions) error {
	c, err := e.open(ctx, paths)
	if err != nil {
		return err
	}
	p.Print(diff.BuildDiffLines(c, e.reportOptions(o)))
	return nil
}

// printBackupHistory compares each backup of path with the next one, ending
// with the file itself
func (e *env) printBackupHistory(ctx context.Context, p *printer, path string, o *diffOptions) error {
	backups, err := e.backups.FindBackupsForFile(path)
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found for %s in %s", path, e.backups.Dir())
	}

	p.Title(fmt.Sprintf("=== Backup History for: %s ===", path))
	fmt.Fprintf(p.w, "Found %d backups\n\n", len(backups))

	chain := make([]string, 0, len(backups)+1)
	for _, b := range backups {
		chain = append(chain, b.FilePath)
	}
	chain = append(chain, path)

	for i := 0; i < len(chain)-1; i++ {
		to := "current file"
		if i+1 < len(backups) {
			to = fmt.Sprintf("backup %d, %s", i+2, backups[i+1].Timestamp.Format("2006-01-02 15:04:05"))
		}
		p.Title(fmt.Sprintf("=== backup %d, %s → %s ===", i+1, backups[i].Timestamp.Format("2006-01-02 15:04:05"), to))

		c, err := e.open(ctx, chain[i:i+2])
		if err != nil {
			e.logger.Warn("skipping backup pair", "origin", chain[i], "error", err)
			fmt.Fprintf(p.w, "  skipped: %v\n\n", err)
			continue
		}
		p.Print(diff.BuildDiffLines(c, e.reportOptions(o)))
		fmt.Fprintln(p.w)
	}
	return nil
}

type exportOptions struct {
	output string
	all    bool
}

func newExportCmd(e *env) *cobra.Command {
	o := &exportOptions{}
	cmd := &cobra.Command{
		Use:   "export <origin> <target> | export <file>",
		Short: "Write the change report as Markdown",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := e.resolvePaths(args)
			if err != nil {
				return err
			}
			c, err := e.open(cmd.Context(), paths)
			if err != nil {
				return err
			}
			cfg := e.cfg.Effective()
			opts := export.Options{
				TimestampFormat: cfg.Report.TimestampFormat,
				All:             o.all,
				Context:         cfg.Diff.ContextLines,
			}
			if o.output == "" || o.output == "-" {
				_, err := io.WriteString(cmd.OutOrStdout(), export.Markdown(c, opts))
				return err
			}
			if err := export.ExportToMarkdown(c, o.output, opts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", o.output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVarP(&o.all, "all", "a", false, "list unchanged nodes too")
	return cmd
}
