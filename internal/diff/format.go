package diff

import (
	"fmt"
	"strings"

	"github.com/ncruces/go-strftime"
	"github.com/pmezard/go-difflib/difflib"
)

// ReportOptions controls BuildDiffLines
type ReportOptions struct {
	// Verbose lists every orphan descendant and shows unified diffs of
	// multi-line values
	Verbose bool
	// All includes unchanged nodes as context
	All bool
	// Summary drops node lines and keeps the header and counts
	Summary bool
	// TimestampFormat is a strftime pattern for the header; empty omits it
	TimestampFormat string
	// Context is the number of context lines in value diffs
	Context int
}

// BuildDiffLines converts a Comparison into formatted display lines
// This is suitable for both CLI and TUI output
func BuildDiffLines(c *Comparison, opts ReportOptions) []DiffLine {
	var lines []DiffLine

	lines = append(lines,
		DiffLine{Type: DiffTypeHeader, Content: "--- " + c.Document(originSlot).Path},
		DiffLine{Type: DiffTypeHeader, Content: "+++ " + c.Document(targetSlot).Path},
	)
	if opts.TimestampFormat != "" {
		lines = append(lines, DiffLine{
			Type:    DiffTypeHeader,
			Content: "@@ compared " + strftime.Format(opts.TimestampFormat, c.Created()),
		})
	}
	lines = append(lines, DiffLine{Type: DiffTypeBlank})

	if !opts.Summary {
		c.root.Walk(func(n *ParallelNode) bool {
			nodeLines, descend := formatNode(n, opts)
			lines = append(lines, nodeLines...)
			return descend
		})
	}

	stats := c.Stats()
	lines = append(lines, DiffLine{Type: DiffTypeBlank})
	lines = append(lines, DiffLine{Type: DiffTypeSummary, Content: "=== Summary ==="})
	lines = append(lines, DiffLine{
		Type: DiffTypeSummary,
		Content: fmt.Sprintf("  %d modified, %d added, %d removed, %d unchanged",
			stats.Modified, stats.Added, stats.Removed, stats.Same),
	})
	if demoted := len(c.Demotions()); demoted > 0 {
		lines = append(lines, DiffLine{
			Type:    DiffTypeSummary,
			Content: fmt.Sprintf("  %d ambiguous matches split into additions and removals", demoted),
		})
	}

	return lines
}

// formatNode returns the lines for one node and whether its children should
// be visited.
func formatNode(n *ParallelNode, opts ReportOptions) ([]DiffLine, bool) {
	indent := n.Depth()
	origin, target := n.Classification(originSlot), n.Classification(targetSlot)

	switch {
	case origin == Same:
		if opts.All {
			return []DiffLine{{Type: DiffTypeContext, Content: describe(n.View(originSlot)), Indent: indent}}, true
		}
		return nil, true

	case origin == Modify:
		return formatModified(n, indent, opts), true

	case origin == Remove && target == Add:
		return []DiffLine{
			{Type: DiffTypeRemoved, Content: describe(n.View(originSlot)), Indent: indent},
			{Type: DiffTypeAdded, Content: describe(n.View(targetSlot)), Indent: indent},
		}, true

	case origin == Remove:
		return formatOrphan(n.View(originSlot), DiffTypeRemoved, indent, opts)

	default:
		return formatOrphan(n.View(targetSlot), DiffTypeAdded, indent, opts)
	}
}

func formatOrphan(v ViewNode, lineType DiffLineType, indent int, opts ReportOptions) ([]DiffLine, bool) {
	content := describe(v)
	if !opts.Verbose {
		if below := countBelow(v.Node()); below > 0 {
			content += fmt.Sprintf(" (+%d nested)", below)
		}
	}
	return []DiffLine{{Type: lineType, Content: content, Indent: indent}}, opts.Verbose
}

func formatModified(n *ParallelNode, indent int, opts ReportOptions) []DiffLine {
	old, _ := n.Get(originSlot).Value()
	updated, _ := n.Get(targetSlot).Value()

	lines := []DiffLine{{
		Type:    DiffTypeModified,
		Content: fmt.Sprintf("%s: %s → %s", n.Name(), truncateText(old, 40), truncateText(updated, 40)),
		Indent:  indent,
	}}

	if opts.Verbose && (strings.Contains(old, "\n") || strings.Contains(updated, "\n")) {
		for _, l := range valueDiff(old, updated, opts.Context) {
			lines = append(lines, DiffLine{Type: DiffTypeDetail, Content: l, Indent: indent + 1})
		}
	}
	return lines
}

// valueDiff renders a unified diff of two multi-line values
func valueDiff(old, updated string, context int) []string {
	if context <= 0 {
		context = 3
	}
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLinesKeepNL(old),
		B:        splitLinesKeepNL(updated),
		FromFile: "origin",
		ToFile:   "target",
		Context:  context,
	})
	if err != nil {
		return []string{"(diff unavailable: " + err.Error() + ")"}
	}
	return strings.Split(strings.TrimRight(text, "\n"), "\n")
}

func splitLinesKeepNL(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if !strings.HasSuffix(lines[len(lines)-1], "\n") {
		lines[len(lines)-1] += "\n"
	}
	return lines
}

// describe renders a node as name, optionally followed by its value
func describe(v ViewNode) string {
	value, ok := v.Value()
	if !ok {
		return v.Name()
	}
	return fmt.Sprintf("%s = %s", v.Name(), truncateText(value, 60))
}

func countBelow(n *ParallelNode) int {
	count := -1
	n.Walk(func(*ParallelNode) bool {
		count++
		return true
	})
	return count
}

// truncateText limits text length for display
func truncateText(text string, maxLen int) string {
	// Handle multi-line text
	lines := strings.Split(text, "\n")
	text = lines[0]
	if len(lines) > 1 {
		text += " ..."
	}

	runes := []rune(text)
	if len(runes) > maxLen {
		return string(runes[:maxLen]) + "..."
	}
	return text
}

// RenderPlain joins lines with two spaces per indent level and the change
// marker of each line.
func RenderPlain(lines []DiffLine) string {
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(Marker(l.Type))
		sb.WriteString(strings.Repeat("  ", l.Indent))
		sb.WriteString(l.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Marker is the prefix printed before a line of the given type
func Marker(t DiffLineType) string {
	switch t {
	case DiffTypeAdded:
		return Add.Symbol() + " "
	case DiffTypeRemoved:
		return Remove.Symbol() + " "
	case DiffTypeModified:
		return Modify.Symbol() + " "
	case DiffTypeContext, DiffTypeDetail:
		return "  "
	}
	return ""
}
