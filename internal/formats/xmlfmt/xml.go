// Package xmlfmt reads and writes XML documents as comparable node trees.
package xmlfmt

import (
	"bufio"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pstuifzand/hierarchy-diff/internal/document"
)

const (
	KindDocument  document.Kind = "document"
	KindElement   document.Kind = "element"
	KindAttribute document.Kind = "attribute"
	KindText      document.Kind = "text"
	KindComment   document.Kind = "comment"
	KindProcInst  document.Kind = "procinst"
	KindDirective document.Kind = "directive"
)

// Node is one XML node. Whitespace-only text is kept for saving but hidden
// from Children.
type Node struct {
	kind       document.Kind
	name       string
	value      string
	attrs      []*Node
	content    []*Node
	whitespace bool
}

func (n *Node) Kind() document.Kind { return n.kind }

func (n *Node) Name() string {
	switch n.kind {
	case KindDocument:
		return "#document"
	case KindText:
		return "#text"
	case KindComment:
		return "#comment"
	case KindDirective:
		return "#directive"
	}
	return n.name
}

func (n *Node) Value() (string, bool) {
	switch n.kind {
	case KindDocument, KindElement:
		return "", false
	}
	return n.value, true
}

// Children lists attributes first, then child nodes
func (n *Node) Children() []document.Node {
	out := make([]document.Node, 0, len(n.attrs)+len(n.content))
	for _, a := range n.attrs {
		out = append(out, a)
	}
	for _, c := range n.content {
		if !c.whitespace {
			out = append(out, c)
		}
	}
	return out
}

// Format is the XML document adapter
type Format struct{}

var _ document.Format = Format{}

func (Format) Name() string { return "xml" }

func (Format) Extensions() []string {
	return []string{".xml", ".xsd", ".xsl", ".svg", ".csproj", ".xaml", ".plist"}
}

func (f Format) Load(path string) (document.Node, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()
	return Parse(file)
}

// Parse builds the node tree of an XML stream
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	root := &Node{kind: KindDocument}
	stack := []*Node{root}

	for {
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse XML: %w", err)
		}

		top := stack[len(stack)-1]
		switch t := tok.(type) {
		case xml.StartElement:
			el := &Node{kind: KindElement, name: qualified(t.Name)}
			for _, a := range t.Attr {
				el.attrs = append(el.attrs, &Node{kind: KindAttribute, name: qualified(a.Name), value: a.Value})
			}
			top.content = append(top.content, el)
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) == 1 || top.name != qualified(t.Name) {
				return nil, fmt.Errorf("failed to parse XML: unexpected end element </%s>", qualified(t.Name))
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			text := string(t)
			top.content = append(top.content, &Node{
				kind:       KindText,
				value:      text,
				whitespace: strings.TrimSpace(text) == "",
			})
		case xml.Comment:
			top.content = append(top.content, &Node{kind: KindComment, value: string(t)})
		case xml.ProcInst:
			top.content = append(top.content, &Node{kind: KindProcInst, name: t.Target, value: string(t.Inst)})
		case xml.Directive:
			top.content = append(top.content, &Node{kind: KindDirective, value: string(t)})
		}
	}

	if len(stack) != 1 {
		return nil, fmt.Errorf("failed to parse XML: unclosed element <%s>", stack[len(stack)-1].name)
	}
	return root, nil
}

func qualified(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}

func (Format) Save(root document.Node, path string) error {
	n, ok := root.(*Node)
	if !ok {
		return fmt.Errorf("failed to save: %T is not an XML node", root)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	w := bufio.NewWriter(file)
	if err := Write(w, n); err != nil {
		file.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	return file.Close()
}

// Write serializes n and its descendants
func Write(w io.Writer, n *Node) error {
	var sb strings.Builder
	write(&sb, n)
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("failed to write XML: %w", err)
	}
	return nil
}

func write(sb *strings.Builder, n *Node) {
	switch n.kind {
	case KindDocument:
		for _, c := range n.content {
			write(sb, c)
		}
	case KindElement:
		sb.WriteString("<" + n.name)
		for _, a := range n.attrs {
			sb.WriteString(" " + a.name + `="` + attrEscaper.Replace(a.value) + `"`)
		}
		if len(n.content) == 0 {
			sb.WriteString("/>")
			return
		}
		sb.WriteString(">")
		for _, c := range n.content {
			write(sb, c)
		}
		sb.WriteString("</" + n.name + ">")
	case KindText:
		sb.WriteString(textEscaper.Replace(n.value))
	case KindComment:
		sb.WriteString("<!--" + n.value + "-->")
	case KindProcInst:
		sb.WriteString("<?" + n.name)
		if n.value != "" {
			sb.WriteString(" " + n.value)
		}
		sb.WriteString("?>")
	case KindDirective:
		sb.WriteString("<!" + n.value + ">")
	}
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", `"`, "&quot;", "\n", "&#xA;", "\t", "&#x9;")
)

// Compare scores elements by name and attributes by name and value
func (Format) Compare(a, b document.Node) float64 {
	x, ok := a.(*Node)
	y, ok2 := b.(*Node)
	if !ok || !ok2 || x.kind != y.kind {
		return 0
	}

	switch x.kind {
	case KindDocument:
		return 1
	case KindElement:
		if x.name == y.name {
			return 1
		}
		return 0
	case KindAttribute:
		if x.name != y.name {
			return 0.1
		}
		if x.value != y.value {
			return 0.5
		}
		return 1
	case KindProcInst:
		if x.name != y.name {
			return 0
		}
	}

	if x.value == y.value {
		return 1
	}
	return 0.5
}

// SetValue edits attributes and character content
func (Format) SetValue(n document.Node, value string) bool {
	x, ok := n.(*Node)
	if !ok {
		return false
	}
	switch x.kind {
	case KindAttribute, KindText, KindComment, KindProcInst:
		x.value = value
	default:
		return false
	}
	return true
}
