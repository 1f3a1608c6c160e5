package yamlfmt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/hierarchy-diff/internal/document"
)

const service = `name: api
replicas: 3
quoted: "42"
ports:
  - 80
  - 443
`

func TestParse(t *testing.T) {
	root, err := Parse([]byte(service))
	require.NoError(t, err)
	assert.Equal(t, KindDocument, root.Kind())

	top := root.Children()
	require.Len(t, top, 1)
	assert.Equal(t, KindMapping, top[0].Kind())

	var keys []string
	for _, c := range top[0].Children() {
		keys = append(keys, c.Name())
	}
	assert.Equal(t, []string{"name", "replicas", "quoted", "ports"}, keys)

	replicas := top[0].Children()[1]
	v, ok := replicas.Value()
	require.True(t, ok)
	assert.Equal(t, "3", v)
	assert.Equal(t, "!!int", document.ValueType(replicas))
	assert.Equal(t, "!!str", document.ValueType(top[0].Children()[2]))

	ports := top[0].Children()[3]
	assert.Equal(t, KindSequence, ports.Kind())
	require.Len(t, ports.Children(), 2)
	assert.Equal(t, "[]", ports.Children()[0].Name())
}

func TestParseError(t *testing.T) {
	_, err := Parse([]byte("a: [1, 2"))
	assert.Error(t, err)
}

func TestCompare(t *testing.T) {
	a, err := Parse([]byte("x: 1\ny: \"1\"\n"))
	require.NoError(t, err)
	b, err := Parse([]byte("x: 2\ny: 1\n"))
	require.NoError(t, err)

	f := Format{}
	am, bm := a.Children()[0], b.Children()[0]
	assert.Equal(t, 1.0, f.Compare(am, bm))
	assert.Equal(t, 0.5, f.Compare(am.Children()[0], bm.Children()[0]))
	assert.Equal(t, 0.5, f.Compare(am.Children()[1], bm.Children()[1]), "string and int differ by tag")
	assert.Equal(t, 0.0, f.Compare(am.Children()[0], bm.Children()[1]))
	assert.Equal(t, 0.0, f.Compare(am, bm.Children()[0]))
}

func TestSetValueAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "service.yaml")
	require.NoError(t, os.WriteFile(path, []byte(service), 0o644))

	f := Format{}
	root, err := f.Load(path)
	require.NoError(t, err)

	mapping := root.Children()[0]
	require.True(t, f.SetValue(mapping.Children()[1], "5"))
	require.True(t, f.SetValue(mapping.Children()[2], "43"))
	assert.False(t, f.SetValue(mapping, "x"))

	out := filepath.Join(dir, "out.yaml")
	require.NoError(t, f.Save(root, out))

	again, err := f.Load(out)
	require.NoError(t, err)
	m := again.Children()[0]

	v, _ := m.Children()[1].Value()
	assert.Equal(t, "5", v)
	assert.Equal(t, "!!int", document.ValueType(m.Children()[1]))

	v, _ = m.Children()[2].Value()
	assert.Equal(t, "43", v)
	assert.Equal(t, "!!str", document.ValueType(m.Children()[2]), "explicit strings stay strings")
	assert.Len(t, m.Children()[3].Children(), 2)
}
