package xmlfmt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/hierarchy-diff/internal/document"
)

const catalog = `<?xml version="1.0"?>
<catalog>
  <!-- books -->
  <book id="1" lang="en">Go &amp; trees</book>
  <book id="2"/>
</catalog>`

func names(nodes []document.Node) []string {
	var out []string
	for _, n := range nodes {
		out = append(out, n.Name())
	}
	return out
}

func TestParseChildren(t *testing.T) {
	root, err := Parse(strings.NewReader(catalog))
	require.NoError(t, err)

	assert.Equal(t, KindDocument, root.Kind())
	assert.Equal(t, []string{"xml", "catalog"}, names(root.Children()))

	cat := root.Children()[1]
	assert.Equal(t, []string{"#comment", "book", "book"}, names(cat.Children()))

	book := cat.Children()[1]
	assert.Equal(t, []string{"id", "lang", "#text"}, names(book.Children()))

	text, ok := book.Children()[2].Value()
	require.True(t, ok)
	assert.Equal(t, "Go & trees", text)

	_, ok = book.Value()
	assert.False(t, ok)
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{"<a><b></a>", "<a>", "<a></a></b>"} {
		_, err := Parse(strings.NewReader(src))
		assert.Error(t, err, src)
	}
}

func TestCompare(t *testing.T) {
	f := Format{}
	el := func(name string) *Node { return &Node{kind: KindElement, name: name} }
	attr := func(name, value string) *Node { return &Node{kind: KindAttribute, name: name, value: value} }

	assert.Equal(t, 1.0, f.Compare(el("a"), el("a")))
	assert.Equal(t, 0.0, f.Compare(el("a"), el("b")))
	assert.Equal(t, 1.0, f.Compare(attr("id", "1"), attr("id", "1")))
	assert.Equal(t, 0.5, f.Compare(attr("id", "1"), attr("id", "2")))
	assert.Equal(t, 0.1, f.Compare(attr("id", "1"), attr("key", "1")))
	assert.Equal(t, 0.0, f.Compare(el("id"), attr("id", "1")))
	assert.Equal(t, 1.0, f.Compare(&Node{kind: KindDocument}, &Node{kind: KindDocument}))
	assert.Equal(t, 0.5, f.Compare(&Node{kind: KindText, value: "a"}, &Node{kind: KindText, value: "b"}))
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.xml")
	require.NoError(t, os.WriteFile(path, []byte(catalog), 0o644))

	f := Format{}
	root, err := f.Load(path)
	require.NoError(t, err)

	book := root.Children()[1].Children()[1]
	id := book.Children()[0]
	require.True(t, f.SetValue(id, `1"a`))
	assert.False(t, f.SetValue(book, "x"), "elements carry no value")

	out := filepath.Join(dir, "out.xml")
	require.NoError(t, f.Save(root, out))
	data, err := os.ReadFile(out)
	require.NoError(t, err)

	assert.Equal(t, strings.Replace(catalog, `id="1"`, `id="1&quot;a"`, 1), string(data))

	again, err := f.Load(out)
	require.NoError(t, err)
	v, _ := again.Children()[1].Children()[1].Children()[0].Value()
	assert.Equal(t, `1"a`, v)
}
