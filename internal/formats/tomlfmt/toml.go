// Package tomlfmt exposes TOML documents as trees of tables, arrays and values.
// Keys of a table are listed in sorted order.
package tomlfmt

import (
	"bytes"
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/pstuifzand/hierarchy-diff/internal/document"
)

const (
	KindTable document.Kind = "table"
	KindArray document.Kind = "array"
	KindValue document.Kind = "value"
)

// Value types
const (
	TypeString   = "string"
	TypeInteger  = "integer"
	TypeFloat    = "float"
	TypeBoolean  = "boolean"
	TypeDatetime = "datetime"
)

// Node is a TOML table, array or value
type Node struct {
	kind     document.Kind
	name     string
	raw      any
	vtype    string
	children []*Node
}

func (n *Node) Kind() document.Kind { return n.kind }
func (n *Node) Name() string { return n.name }
func (n *Node) ValueType() string { return n.vtype }

func (n *Node) Value() (string, bool) {
	if n.kind != KindValue {
		return "", false
	}
	return format(n.raw), true
}

func (n *Node) Children() []document.Node {
	out := make([]document.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func format(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

func typeOf(v any) string {
	switch v.(type) {
	case string:
		return TypeString
	case int64:
		return TypeInteger
	case float64:
		return TypeFloat
	case bool:
		return TypeBoolean
	}
	return TypeDatetime
}

func build(name string, v any) *Node {
	switch x := v.(type) {
	case map[string]any:
		n := &Node{kind: KindTable, name: name}
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			n.children = append(n.children, build(k, x[k]))
		}
		return n
	case []any:
		n := &Node{kind: KindArray, name: name}
		for _, item := range x {
			n.children = append(n.children, build("[]", item))
		}
		return n
	}
	return &Node{kind: KindValue, name: name, raw: v, vtype: typeOf(v)}
}

// plain rebuilds the value go-toml marshals
func (n *Node) plain() any {
	switch n.kind {
	case KindTable:
		m := make(map[string]any, len(n.children))
		for _, c := range n.children {
			m[c.name] = c.plain()
		}
		return m
	case KindArray:
		items := make([]any, len(n.children))
		for i, c := range n.children {
			items[i] = c.plain()
		}
		return items
	}
	return n.raw
}

// Format is the TOML document adapter
type Format struct{}

var _ document.Format = Format{}

func (Format) Name() string { return "toml" }
func (Format) Extensions() []string { return []string{".toml"} }

func (Format) Load(path string) (document.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a TOML document into its root table
func Parse(data []byte) (*Node, error) {
	var m map[string]any
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if m == nil {
		m = map[string]any{}
	}
	return build("$", m), nil
}

func (Format) Save(root document.Node, path string) error {
	n, ok := root.(*Node)
	if !ok || n.kind != KindTable {
		return fmt.Errorf("failed to save: %T is not a TOML table", root)
	}
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(n.plain()); err != nil {
		return fmt.Errorf("failed to encode TOML: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Compare matches tables and arrays by key, values by key and typed value
func (Format) Compare(a, b document.Node) float64 {
	if a.Kind() != b.Kind() || a.Name() != b.Name() {
		return 0
	}
	if a.Kind() != KindValue || document.SameValue(a, b) {
		return 1
	}
	return 0.5
}

// SetValue parses value as the node's current type
func (Format) SetValue(n document.Node, value string) bool {
	x, ok := n.(*Node)
	if !ok || x.kind != KindValue {
		return false
	}
	var parsed any
	switch x.vtype {
	case TypeString:
		parsed = value
	case TypeInteger:
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return false
		}
		parsed = i
	case TypeFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return false
		}
		parsed = f
	case TypeBoolean:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false
		}
		parsed = b
	case TypeDatetime:
		var wrapped struct{ V any }
		if err := toml.Unmarshal([]byte("V = "+value), &wrapped); err != nil || typeOf(wrapped.V) != TypeDatetime {
			return false
		}
		parsed = wrapped.V
	}
	x.raw = parsed
	return true
}
