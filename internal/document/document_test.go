package document

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type leaf struct {
	name     string
	children []Node
}

func (l *leaf) Kind() Kind { return "leaf" }
func (l *leaf) Name() string { return l.name }
func (l *leaf) Value() (string, bool) { return "", false }
func (l *leaf) Children() []Node { return l.children }

type stubFormat struct {
	name string
	exts []string
	root Node
	err  error
}

func (f stubFormat) Name() string { return f.name }
func (f stubFormat) Extensions() []string { return f.exts }
func (f stubFormat) Load(string) (Node, error) { return f.root, f.err }
func (f stubFormat) Save(Node, string) error { return ErrReadOnly }
func (f stubFormat) Compare(Node, Node) float64 { return 0 }
func (f stubFormat) SetValue(Node, string) bool { return false }

func TestRegistry(t *testing.T) {
	a := stubFormat{name: "alpha", exts: []string{".a", "A2"}}
	b := stubFormat{name: "beta", exts: []string{".b"}}
	r, err := NewRegistry(a, b)
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha", "beta"}, r.Names())
	assert.Len(t, r.Formats(), 2)
	assert.Equal(t, "beta", r.Lookup("BETA").Name())
	assert.Nil(t, r.Lookup("gamma"))

	f, err := r.ForPath("/x/y/file.A")
	require.NoError(t, err)
	assert.Equal(t, "alpha", f.Name())
	f, err = r.ForPath("file.a2")
	require.NoError(t, err)
	assert.Equal(t, "alpha", f.Name())

	_, err = r.ForPath("file.c")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	assert.ErrorIs(t, r.Register(stubFormat{name: "alpha"}), ErrDuplicate)
	assert.ErrorIs(t, r.Register(stubFormat{name: "gamma", exts: []string{".b"}}), ErrDuplicate)
	assert.Nil(t, r.Lookup("gamma"), "failed registration leaves no trace")
}

func TestLoadBuildsTree(t *testing.T) {
	root := &leaf{name: "root", children: []Node{&leaf{name: "a"}, nil, &leaf{name: "b"}}}
	r, err := NewRegistry(stubFormat{name: "stub", exts: []string{".s"}, root: root})
	require.NoError(t, err)

	doc, err := Load(r, "doc.s")
	require.NoError(t, err)
	assert.Equal(t, "doc.s", doc.Path)
	assert.Equal(t, 3, doc.Root.Size())
	assert.Same(t, root, NodeOf(doc.Root))
	assert.Nil(t, NodeOf(nil))

	assert.ErrorIs(t, doc.Save(), ErrReadOnly)
}

func TestLoadErrors(t *testing.T) {
	broken := stubFormat{name: "broken", exts: []string{".x"}, err: errors.New("boom")}
	_, err := LoadWith(broken, "doc.x")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorContains(t, err, "boom")

	empty := stubFormat{name: "empty"}
	_, err = LoadWith(empty, "doc.x")
	assert.ErrorIs(t, err, ErrUnavailable)

	path := filepath.Join(t.TempDir(), "doc.unknown")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	r, err := NewRegistry()
	require.NoError(t, err)
	_, err = Load(r, path)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestSameValue(t *testing.T) {
	assert.True(t, SameValue(&leaf{name: "a"}, &leaf{name: "b"}))
}

func TestWritable(t *testing.T) {
	assert.True(t, Writable(stubFormat{name: "stub"}))
}
