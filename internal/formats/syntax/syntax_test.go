package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/hierarchy-diff/internal/document"
)

const goSource = `package demo

func Add(a, b int) int {
	return a + b
}

func Sub(a, b int) int {
	return a - b
}
`

func declarations(root document.Node, kind document.Kind) []document.Node {
	var out []document.Node
	for _, c := range root.Children() {
		if c.Kind() == kind {
			out = append(out, c)
		}
	}
	return out
}

func TestParseGo(t *testing.T) {
	root, err := Go().Parse([]byte(goSource))
	require.NoError(t, err)
	assert.Equal(t, document.Kind("source_file"), root.Kind())

	funcs := declarations(root, "function_declaration")
	require.Len(t, funcs, 2)
	assert.Equal(t, "Add", funcs[0].Name())
	assert.Equal(t, "Sub", funcs[1].Name())
	assert.Equal(t, 3, funcs[0].(*Node).Line())

	_, ok := funcs[0].Value()
	assert.False(t, ok, "inner nodes carry no value")

	pkg := declarations(root, "package_clause")
	require.Len(t, pkg, 1)
	ident := pkg[0].Children()[0]
	v, ok := ident.Value()
	require.True(t, ok)
	assert.Equal(t, "demo", v)
}

func TestParseOtherLanguages(t *testing.T) {
	sources := map[*Format]string{
		Python():     "def add(a, b):\n    return a + b\n",
		TypeScript(): "function add(a: number, b: number): number { return a + b; }\n",
		Rust():       "fn add(a: i32, b: i32) -> i32 { a + b }\n",
	}
	for f, src := range sources {
		root, err := f.Parse([]byte(src))
		require.NoError(t, err, f.Name())
		require.NotEmpty(t, root.Children(), f.Name())
		assert.Equal(t, "add", root.Children()[0].Name(), f.Name())
	}
}

func TestReadOnly(t *testing.T) {
	f := Go()
	root, err := f.Parse([]byte(goSource))
	require.NoError(t, err)

	assert.ErrorIs(t, f.Save(root, t.TempDir()+"/out.go"), document.ErrReadOnly)
	assert.False(t, f.SetValue(root, "x"))
	assert.False(t, document.Writable(f))
}

func TestCompare(t *testing.T) {
	f := Go()
	a, err := f.Parse([]byte(goSource))
	require.NoError(t, err)
	b, err := f.Parse([]byte("package demo\n\nfunc Add(a, b int) int {\n\treturn b + a\n}\n"))
	require.NoError(t, err)

	fa := declarations(a, "function_declaration")
	fb := declarations(b, "function_declaration")
	assert.Equal(t, 1.0, f.Compare(fa[0], fb[0]))
	assert.Equal(t, 0.3, f.Compare(fa[1], fb[0]))
	assert.Equal(t, 0.0, f.Compare(fa[0], b))
}
