package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/hierarchy-diff/internal/diff"
	"github.com/pstuifzand/hierarchy-diff/internal/formats"
)

func compareJSON(t *testing.T, origin, target string) *diff.Comparison {
	t.Helper()
	dir := t.TempDir()
	a := filepath.Join(dir, "a.json")
	b := filepath.Join(dir, "b.json")
	require.NoError(t, os.WriteFile(a, []byte(origin), 0o644))
	require.NoError(t, os.WriteFile(b, []byte(target), 0o644))

	c, err := diff.Open(context.Background(), formats.Registry(), []string{a, b})
	require.NoError(t, err)
	return c
}

func TestMarkdown(t *testing.T) {
	c := compareJSON(t,
		`{"name": "a", "tags": ["x"], "count": 1}`,
		`{"name": "b", "tags": ["x", "y"], "count": 1}`)

	md := Markdown(c, Options{TimestampFormat: "%Y"})

	assert.Contains(t, md, "# Comparison\n")
	assert.Contains(t, md, "- Format: json\n")
	assert.Contains(t, md, "- Compared: "+c.Created().Format("2006")+"\n")
	assert.Contains(t, md, "| 1 | 1 | 0 | 4 |\n")
	assert.Contains(t, md, "  - **modified** name: a → b\n")
	assert.Contains(t, md, "    - **added** \\[\\] = y\n")
	assert.NotContains(t, md, "count", "unchanged nodes are left out")
}

func TestMarkdownAll(t *testing.T) {
	c := compareJSON(t, `{"count": 1}`, `{"count": 1}`)

	md := Markdown(c, Options{})
	assert.Contains(t, md, "No differences.\n")
	assert.NotContains(t, md, "Compared")

	md = Markdown(c, Options{All: true})
	assert.Contains(t, md, "  - count = 1\n")
}

func TestMarkdownValueDiff(t *testing.T) {
	c := compareJSON(t, `{"body": "one\ntwo\n"}`, `{"body": "one\nthree\n"}`)

	md := Markdown(c, Options{})
	assert.Contains(t, md, "```diff\n")
	assert.Contains(t, md, "-two\n")
	assert.Contains(t, md, "+three\n")
}

func TestExportToMarkdown(t *testing.T) {
	c := compareJSON(t, `{"a": 1}`, `{"a": 2}`)
	out := filepath.Join(t.TempDir(), "report.md")

	require.NoError(t, ExportToMarkdown(c, out, Options{}))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, Markdown(c, Options{}), string(data))

	assert.Error(t, ExportToMarkdown(c, filepath.Join(out, "nested", "x.md"), Options{}))
}
