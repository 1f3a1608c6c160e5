package mcptools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pstuifzand/hierarchy-diff/internal/diff"
	"github.com/pstuifzand/hierarchy-diff/internal/document"
	"github.com/pstuifzand/hierarchy-diff/internal/similarity"
	"github.com/pstuifzand/hierarchy-diff/internal/storage"
)

// ErrNoBackup is returned when a document has never been backed up
var ErrNoBackup = errors.New("no backup found")

// CompareInput names the two documents to compare
type CompareInput struct {
	Origin     string `json:"origin" jsonschema:"path of the original document"`
	Target     string `json:"target" jsonschema:"path of the changed document"`
	Similarity string `json:"similarity,omitempty" jsonschema:"pairing strategy: format (default), structural or fuzzy"`
	All        bool   `json:"all,omitempty" jsonschema:"also list unchanged nodes"`
}

// BackupInput names a document whose newest backup is the origin
type BackupInput struct {
	Path       string `json:"path" jsonschema:"path of the document"`
	Similarity string `json:"similarity,omitempty" jsonschema:"pairing strategy: format (default), structural or fuzzy"`
}

// Change is one node of the parallel tree
type Change struct {
	Path       string `json:"path"`
	Kind       string `json:"kind"`
	Difference string `json:"difference"`
	Origin     string `json:"origin,omitempty"`
	Target     string `json:"target,omitempty"`
}

// CompareOutput reports the differences between two documents
type CompareOutput struct {
	Origin  string     `json:"origin"`
	Target  string     `json:"target"`
	Format  string     `json:"format"`
	Stats   diff.Stats `json:"stats"`
	Changes []Change   `json:"changes"`
	Report  string     `json:"report"`
	Demoted int        `json:"demoted,omitempty"`
}

// FormatInfo describes one registered format
type FormatInfo struct {
	Name       string   `json:"name"`
	Extensions []string `json:"extensions"`
	Writable   bool     `json:"writable"`
}

// ListFormatsInput takes no arguments
type ListFormatsInput struct{}

// ListFormatsOutput lists the registered formats
type ListFormatsOutput struct {
	Formats []FormatInfo `json:"formats"`
}

// Service handles MCP tool calls
type Service struct {
	registry *document.Registry
	backups  *storage.BackupManager
	logger   *slog.Logger
}

// NewService creates a Service. backups may be nil, which disables
// compare_with_backup.
func NewService(registry *document.Registry, backups *storage.BackupManager, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{registry: registry, backups: backups, logger: logger}
}

// CompareDocuments compares two files
func (s *Service) CompareDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CompareInput,
) (*mcp.CallToolResult, CompareOutput, error) {
	if input.Origin == "" || input.Target == "" {
		return nil, CompareOutput{}, fmt.Errorf("origin and target are required")
	}
	out, err := s.compare(ctx, input.Origin, input.Target, input.Similarity, input.All)
	if err != nil {
		return nil, CompareOutput{}, err
	}
	return nil, out, nil
}

// CompareWithBackup compares the newest backup of a file with the file
func (s *Service) CompareWithBackup(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input BackupInput,
) (*mcp.CallToolResult, CompareOutput, error) {
	if s.backups == nil {
		return nil, CompareOutput{}, fmt.Errorf("backups are not available")
	}
	latest, ok, err := s.backups.Latest(input.Path)
	if err != nil {
		return nil, CompareOutput{}, err
	}
	if !ok {
		return nil, CompareOutput{}, fmt.Errorf("%w: %s", ErrNoBackup, input.Path)
	}
	out, err := s.compare(ctx, latest.FilePath, input.Path, input.Similarity, false)
	if err != nil {
		return nil, CompareOutput{}, err
	}
	return nil, out, nil
}

// ListFormats lists the registered formats
func (s *Service) ListFormats(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListFormatsInput,
) (*mcp.CallToolResult, ListFormatsOutput, error) {
	var out ListFormatsOutput
	for _, f := range s.registry.Formats() {
		out.Formats = append(out.Formats, FormatInfo{
			Name:       f.Name(),
			Extensions: f.Extensions(),
			Writable:   document.Writable(f),
		})
	}
	return nil, out, nil
}

func (s *Service) compare(ctx context.Context, origin, target, strategy string, all bool) (CompareOutput, error) {
	score, err := similarity.ByName(strategy)
	if err != nil {
		return CompareOutput{}, err
	}
	c, err := diff.Open(ctx, s.registry, []string{origin, target},
		diff.WithLogger(s.logger),
		diff.WithScore(diff.ScoreFunc(score)))
	if err != nil {
		return CompareOutput{}, err
	}
	s.logger.Info("compared documents", "origin", origin, "target", target, "id", c.ID())

	out := CompareOutput{
		Origin:  origin,
		Target:  target,
		Format:  c.Document(0).Format.Name(),
		Stats:   c.Stats(),
		Changes: []Change{},
		Report:  diff.RenderPlain(diff.BuildDiffLines(c, diff.ReportOptions{Summary: true})),
		Demoted: len(c.Demotions()),
	}
	nodes := c.Changes()
	if all {
		nodes = c.Nodes()
	}
	for _, n := range nodes {
		out.Changes = append(out.Changes, describe(n))
	}
	return out, nil
}

func describe(n *diff.ParallelNode) Change {
	ch := Change{
		Path:       nodePath(n),
		Kind:       string(n.Kind()),
		Difference: difference(n).String(),
	}
	if v, ok := n.View(0).Value(); ok {
		ch.Origin = v
	}
	if v, ok := n.View(1).Value(); ok {
		ch.Target = v
	}
	return ch
}

// difference folds both slots into one label, preferring the origin side
func difference(n *diff.ParallelNode) diff.Difference {
	origin, target := n.Classification(0), n.Classification(1)
	switch {
	case origin == diff.None:
		return target
	case origin == diff.Remove && target == diff.Add:
		return diff.Modify
	}
	return origin
}

func nodePath(n *diff.ParallelNode) string {
	var parts []string
	for p := n; p != nil; p = p.Parent() {
		parts = append(parts, p.Name())
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}
