package outline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/hierarchy-diff/internal/document"
	"github.com/pstuifzand/hierarchy-diff/internal/model"
)

const sample = `{
  "items": [
    {
      "id": "a",
      "text": "Groceries",
      "metadata": {
        "tags": ["todo", "home"],
        "attributes": {"priority": "high", "due": "2024-05-01"}
      },
      "children": [
        {"id": "b", "text": "Milk"}
      ]
    }
  ]
}`

func TestChildren(t *testing.T) {
	o, err := Parse([]byte(sample))
	require.NoError(t, err)
	root := Root(o)

	items := root.Children()
	require.Len(t, items, 1)
	a := items[0]
	assert.Equal(t, KindItem, a.Kind())
	assert.Equal(t, "a", a.Name())
	v, _ := a.Value()
	assert.Equal(t, "Groceries", v)

	var got []string
	for _, c := range a.Children() {
		v, _ := c.Value()
		got = append(got, string(c.Kind())+":"+c.Name()+"="+v)
	}
	assert.Equal(t, []string{
		"tag:#tag=todo",
		"tag:#tag=home",
		"attribute:due=2024-05-01",
		"attribute:priority=high",
		"item:b=Milk",
	}, got)

	assert.Same(t, o.Items[0], o.Items[0].Children[0].Parent)
}

func TestCompare(t *testing.T) {
	f := Format{}
	item := func(id, text string) document.Node {
		return &Node{kind: KindItem, item: &model.Item{ID: id, Text: text}}
	}
	assert.Equal(t, 1.0, f.Compare(item("a", "x"), item("a", "x")))
	assert.Equal(t, 0.5, f.Compare(item("a", "x"), item("a", "y")))
	assert.Equal(t, 0.3, f.Compare(item("a", "x"), item("b", "x")))
	assert.Equal(t, 0.0, f.Compare(item("a", "x"), item("b", "y")))
	assert.Equal(t, 1.0, f.Compare(Root(nil), Root(nil)))
}

func TestSetValueAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "list.tuo")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	f := Format{}
	root, err := f.Load(path)
	require.NoError(t, err)

	a := root.Children()[0]
	children := a.Children()
	require.True(t, f.SetValue(a, "Shopping"))
	require.True(t, f.SetValue(children[0], "later"))
	require.False(t, f.SetValue(children[1], ""))
	require.True(t, f.SetValue(children[3], "low"))
	require.False(t, f.SetValue(root, "x"))

	out := filepath.Join(dir, "sub", "out.tuo")
	require.NoError(t, f.Save(root, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	o, err := Parse(data)
	require.NoError(t, err)

	item := o.FindItemByID("a")
	require.NotNil(t, item)
	assert.Equal(t, "Shopping", item.Text)
	assert.Equal(t, []string{"later", "home"}, item.Metadata.Tags)
	assert.Equal(t, "low", item.Metadata.Attributes["priority"])
	assert.False(t, item.Metadata.Modified.IsZero())
	assert.Equal(t, "Milk", o.FindItemByID("b").Text)
}
