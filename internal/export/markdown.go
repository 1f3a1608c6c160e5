// Package export writes comparisons as Markdown reports.
package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/ncruces/go-strftime"

	"github.com/pstuifzand/hierarchy-diff/internal/diff"
)

// Options controls the Markdown report
type Options struct {
	// TimestampFormat is a strftime pattern for the comparison time
	TimestampFormat string
	// All lists unchanged nodes too
	All bool
	// Context is the number of context lines in value diffs
	Context int
}

// ExportToMarkdown writes the comparison to filePath as a Markdown report.
// Changed nodes are bullets with indentation based on depth.
func ExportToMarkdown(c *diff.Comparison, filePath string, opts Options) error {
	if err := os.WriteFile(filePath, []byte(Markdown(c, opts)), 0o644); err != nil {
		return fmt.Errorf("failed to write markdown file: %w", err)
	}
	return nil
}

// Markdown renders the comparison report
func Markdown(c *diff.Comparison, opts Options) string {
	var sb strings.Builder

	origin, target := c.Document(0), c.Document(1)
	sb.WriteString("# Comparison\n\n")
	fmt.Fprintf(&sb, "- Origin: `%s`\n", origin.Path)
	fmt.Fprintf(&sb, "- Target: `%s`\n", target.Path)
	fmt.Fprintf(&sb, "- Format: %s\n", origin.Format.Name())
	if opts.TimestampFormat != "" {
		fmt.Fprintf(&sb, "- Compared: %s\n", strftime.Format(opts.TimestampFormat, c.Created()))
	}

	stats := c.Stats()
	sb.WriteString("\n| Modified | Added | Removed | Unchanged |\n")
	sb.WriteString("|---:|---:|---:|---:|\n")
	fmt.Fprintf(&sb, "| %d | %d | %d | %d |\n", stats.Modified, stats.Added, stats.Removed, stats.Same)

	sb.WriteString("\n## Changes\n\n")
	lines := diff.BuildDiffLines(c, diff.ReportOptions{Verbose: true, All: opts.All, Context: opts.Context})
	if !stats.Changed() && !opts.All {
		sb.WriteString("No differences.\n")
		return sb.String()
	}
	writeLines(&sb, lines)
	return sb.String()
}

// writeLines writes node lines as bullets and groups value diffs into fenced
// blocks under the bullet they belong to
func writeLines(sb *strings.Builder, lines []diff.DiffLine) {
	inDetail := false
	detailIndent := ""
	for _, l := range lines {
		if l.Type == diff.DiffTypeDetail {
			if !inDetail {
				detailIndent = strings.Repeat("  ", l.Indent)
				sb.WriteString(detailIndent + "```diff\n")
				inDetail = true
			}
			sb.WriteString(detailIndent + l.Content + "\n")
			continue
		}
		if inDetail {
			sb.WriteString(detailIndent + "```\n")
			inDetail = false
		}

		prefix, ok := bullet(l.Type)
		if !ok {
			continue
		}
		sb.WriteString(strings.Repeat("  ", l.Indent))
		sb.WriteString("- " + prefix + escape(l.Content) + "\n")
	}
	if inDetail {
		sb.WriteString(detailIndent + "```\n")
	}
}

func bullet(t diff.DiffLineType) (string, bool) {
	switch t {
	case diff.DiffTypeAdded:
		return "**added** ", true
	case diff.DiffTypeRemoved:
		return "**removed** ", true
	case diff.DiffTypeModified:
		return "**modified** ", true
	case diff.DiffTypeContext:
		return "", true
	}
	return "", false
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"<", "&lt;",
)

func escape(s string) string {
	return markdownEscaper.Replace(s)
}
