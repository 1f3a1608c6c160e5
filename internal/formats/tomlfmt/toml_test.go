package tomlfmt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/hierarchy-diff/internal/document"
)

const settings = `
title = "demo"
ratio = 0.5
enabled = true
released = 2024-05-01

[server]
port = 8080
hosts = ["a", "b"]
`

func childNamed(t *testing.T, n document.Node, name string) document.Node {
	t.Helper()
	for _, c := range n.Children() {
		if c.Name() == name {
			return c
		}
	}
	t.Fatalf("no child %q", name)
	return nil
}

func TestParseSortsKeys(t *testing.T) {
	root, err := Parse([]byte(settings))
	require.NoError(t, err)

	var keys []string
	for _, c := range root.Children() {
		keys = append(keys, c.Name())
	}
	assert.Equal(t, []string{"enabled", "ratio", "released", "server", "title"}, keys)

	server := childNamed(t, root, "server")
	assert.Equal(t, KindTable, server.Kind())
	port := childNamed(t, server, "port")
	v, ok := port.Value()
	require.True(t, ok)
	assert.Equal(t, "8080", v)
	assert.Equal(t, TypeInteger, document.ValueType(port))

	hosts := childNamed(t, server, "hosts")
	assert.Equal(t, KindArray, hosts.Kind())
	assert.Len(t, hosts.Children(), 2)

	released := childNamed(t, root, "released")
	assert.Equal(t, TypeDatetime, document.ValueType(released))
	v, _ = released.Value()
	assert.Equal(t, "2024-05-01", v)
}

func TestParseError(t *testing.T) {
	_, err := Parse([]byte("a = "))
	assert.Error(t, err)
}

func TestCompare(t *testing.T) {
	a, err := Parse([]byte("x = 1\ny = \"1\"\n"))
	require.NoError(t, err)
	b, err := Parse([]byte("x = 2\ny = 1\n"))
	require.NoError(t, err)

	f := Format{}
	assert.Equal(t, 1.0, f.Compare(a, b))
	assert.Equal(t, 0.5, f.Compare(a.children[0], b.children[0]))
	assert.Equal(t, 0.5, f.Compare(a.children[1], b.children[1]), "string and integer differ by type")
	assert.Equal(t, 0.0, f.Compare(a.children[0], b.children[1]))
}

func TestSetValue(t *testing.T) {
	root, err := Parse([]byte(settings))
	require.NoError(t, err)
	f := Format{}

	port := childNamed(t, childNamed(t, root, "server"), "port")
	assert.False(t, f.SetValue(port, "eighty"))
	assert.True(t, f.SetValue(port, "9090"))

	enabled := childNamed(t, root, "enabled")
	assert.False(t, f.SetValue(enabled, "maybe"))
	assert.True(t, f.SetValue(enabled, "false"))

	released := childNamed(t, root, "released")
	assert.False(t, f.SetValue(released, "yesterday"))
	assert.True(t, f.SetValue(released, "2025-01-02"))

	assert.False(t, f.SetValue(root, "x"))
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte(settings), 0o644))

	f := Format{}
	root, err := f.Load(path)
	require.NoError(t, err)
	require.True(t, f.SetValue(childNamed(t, root, "title"), "renamed"))

	out := filepath.Join(dir, "out.toml")
	require.NoError(t, f.Save(root, out))

	again, err := f.Load(out)
	require.NoError(t, err)
	v, _ := childNamed(t, again, "title").Value()
	assert.Equal(t, "renamed", v)
	v, _ = childNamed(t, childNamed(t, again, "server"), "port").Value()
	assert.Equal(t, "8080", v)
	assert.Len(t, childNamed(t, childNamed(t, again, "server"), "hosts").Children(), 2)
}
