package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/ncruces/go-strftime"
	"github.com/spf13/cobra"

	"github.com/pstuifzand/hierarchy-diff/internal/document"
)

const listTimeFormat = "%Y-%m-%d %H:%M:%S"

// renderTable writes rows under headers as a bordered table
func renderTable(w io.Writer, headers []string, rows [][]string) {
	r := lipgloss.NewRenderer(w)
	header := r.NewStyle().Bold(true).Padding(0, 1)
	cell := r.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.NewStyle().Faint(true)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	fmt.Fprintln(w, t.Render())
}

func newFormatsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the supported document formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows [][]string
			for _, f := range e.registry.Formats() {
				writable := "yes"
				if !document.Writable(f) {
					writable = "no"
				}
				rows = append(rows, []string{f.Name(), strings.Join(f.Extensions(), " "), writable})
			}
			renderTable(cmd.OutOrStdout(), []string{"Format", "Extensions", "Writable"}, rows)
			return nil
		},
	}
}

func newHistoryCmd(e *env) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent comparisons",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if e.history == nil {
				return fmt.Errorf("history is not available")
			}
			entries, err := e.history.Load()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No comparisons recorded")
				return nil
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}

			format := e.cfg.Effective().Report.TimestampFormat
			if format == "" {
				format = listTimeFormat
			}
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				names := make([]string, len(entry.Paths))
				for i, p := range entry.Paths {
					names[i] = filepath.Base(p)
				}
				rows = append(rows, []string{
					strftime.Format(format, entry.Compared.Local()),
					entry.Format,
					strings.Join(names, " → "),
					fmt.Sprintf("+%d -%d ~%d", entry.Added, entry.Removed, entry.Modified),
				})
			}
			renderTable(cmd.OutOrStdout(), []string{"Compared", "Format", "Documents", "Changes"}, rows)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show, 0 for all")
	return cmd
}

func newBackupsCmd(e *env) *cobra.Command {
	var prune int
	cmd := &cobra.Command{
		Use:   "backups <file>",
		Short: "List the backups of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if cmd.Flags().Changed("prune") {
				removed, err := e.backups.Prune(args[0], prune)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Removed %d backup(s)\n", removed)
			}

			backups, err := e.backups.FindBackupsForFile(args[0])
			if err != nil {
				return err
			}
			if len(backups) == 0 {
				fmt.Fprintf(out, "No backups found for %s in %s\n", args[0], e.backups.Dir())
				return nil
			}

			rows := make([][]string, 0, len(backups))
			for i := len(backups) - 1; i >= 0; i-- {
				b := backups[i]
				rows = append(rows, []string{
					fmt.Sprint(len(backups) - i),
					strftime.Format(listTimeFormat, b.Timestamp.Local()),
					b.SessionID,
					b.Format,
					filepath.Base(b.FilePath),
				})
			}
			renderTable(out, []string{"#", "Taken", "Session", "Format", "File"}, rows)
			return nil
		},
	}
	cmd.Flags().IntVar(&prune, "prune", 0, "keep only the newest N backups before listing, 0 keeps all")
	return cmd
}
