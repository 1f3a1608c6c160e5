package formats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/hierarchy-diff/internal/document"
)

func TestRegistryByExtension(t *testing.T) {
	r := Registry()
	cases := map[string]string{
		"a.xml":    "xml",
		"b.SVG":    "xml",
		"c.json":   "json",
		"d.yml":    "yaml",
		"e.yaml":   "yaml",
		"f.toml":   "toml",
		"g.tuo":    "outline",
		"h.go":     "go",
		"dir/i.py": "python",
		"j.ts":     "typescript",
		"k.rs":     "rust",
	}
	for path, want := range cases {
		f, err := r.ForPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, f.Name(), path)
	}

	_, err := r.ForPath("notes.txt")
	assert.ErrorIs(t, err, document.ErrUnknownFormat)
}

func TestNames(t *testing.T) {
	assert.Equal(t,
		[]string{"xml", "json", "yaml", "toml", "outline", "go", "python", "typescript", "rust"},
		Registry().Names())
}
