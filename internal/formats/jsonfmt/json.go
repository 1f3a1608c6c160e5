// Package jsonfmt reads and writes JSON documents with member order kept.
package jsonfmt

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pstuifzand/hierarchy-diff/internal/document"
)

const (
	KindObject document.Kind = "object"
	KindArray  document.Kind = "array"
	KindScalar document.Kind = "scalar"
)

// Value types of scalars
const (
	TypeString = "string"
	TypeNumber = "number"
	TypeBool   = "bool"
	TypeNull   = "null"
)

const (
	rootName = "$"
	itemName = "[]"
)

// Node is a JSON value named by its member key
type Node struct {
	kind     document.Kind
	name     string
	value    string
	vtype    string
	children []*Node
}

func (n *Node) Kind() document.Kind { return n.kind }
func (n *Node) Name() string { return n.name }
func (n *Node) ValueType() string { return n.vtype }

func (n *Node) Value() (string, bool) {
	if n.kind != KindScalar {
		return "", false
	}
	return n.value, true
}

func (n *Node) Children() []document.Node {
	out := make([]document.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

// Format is the JSON document adapter
type Format struct{}

var _ document.Format = Format{}

func (Format) Name() string { return "json" }
func (Format) Extensions() []string { return []string{".json"} }

func (Format) Load(path string) (document.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data)
}

// Parse decodes one JSON value
func Parse(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	root, err := parseValue(dec, rootName)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse JSON: trailing data after value")
	}
	return root, nil
}

func parseValue(dec *json.Decoder, name string) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		n := &Node{name: name}
		switch t {
		case '{':
			n.kind = KindObject
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key %v is not a string", keyTok)
				}
				child, err := parseValue(dec, key)
				if err != nil {
					return nil, err
				}
				n.children = append(n.children, child)
			}
		case '[':
			n.kind = KindArray
			for dec.More() {
				child, err := parseValue(dec, itemName)
				if err != nil {
					return nil, err
				}
				n.children = append(n.children, child)
			}
		default:
			return nil, fmt.Errorf("unexpected delimiter %v", t)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return n, nil
	case string:
		return &Node{kind: KindScalar, name: name, value: t, vtype: TypeString}, nil
	case json.Number:
		return &Node{kind: KindScalar, name: name, value: t.String(), vtype: TypeNumber}, nil
	case bool:
		return &Node{kind: KindScalar, name: name, value: strconv.FormatBool(t), vtype: TypeBool}, nil
	case nil:
		return &Node{kind: KindScalar, name: name, value: "null", vtype: TypeNull}, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func (Format) Save(root document.Node, path string) error {
	n, ok := root.(*Node)
	if !ok {
		return fmt.Errorf("failed to save: %T is not a JSON node", root)
	}
	if err := os.WriteFile(path, Marshal(n), 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Marshal renders n with two-space indentation
func Marshal(n *Node) []byte {
	var sb strings.Builder
	writeValue(&sb, n, 0)
	sb.WriteString("\n")
	return []byte(sb.String())
}

func writeValue(sb *strings.Builder, n *Node, depth int) {
	switch n.kind {
	case KindObject, KindArray:
		open, closing := "{", "}"
		if n.kind == KindArray {
			open, closing = "[", "]"
		}
		if len(n.children) == 0 {
			sb.WriteString(open + closing)
			return
		}
		sb.WriteString(open + "\n")
		for i, c := range n.children {
			sb.WriteString(strings.Repeat("  ", depth+1))
			if n.kind == KindObject {
				sb.WriteString(quote(c.name) + ": ")
			}
			writeValue(sb, c, depth+1)
			if i < len(n.children)-1 {
				sb.WriteString(",")
			}
			sb.WriteString("\n")
		}
		sb.WriteString(strings.Repeat("  ", depth) + closing)
	default:
		if n.vtype == TypeString {
			sb.WriteString(quote(n.value))
		} else {
			sb.WriteString(n.value)
		}
	}
}

func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}

// Compare matches containers by name and scalars by name and value
func (Format) Compare(a, b document.Node) float64 {
	if a.Kind() != b.Kind() || a.Name() != b.Name() {
		return 0
	}
	if a.Kind() != KindScalar || document.SameValue(a, b) {
		return 1
	}
	return 0.5
}

// SetValue replaces a scalar, keeping its JSON type
func (Format) SetValue(n document.Node, value string) bool {
	x, ok := n.(*Node)
	if !ok || x.kind != KindScalar {
		return false
	}
	switch x.vtype {
	case TypeNumber:
		if !json.Valid([]byte(value)) {
			return false
		}
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return false
		}
	case TypeBool:
		if value != "true" && value != "false" {
			return false
		}
	case TypeNull:
		return false
	}
	x.value = value
	return true
}
