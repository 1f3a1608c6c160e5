// Package document defines the contract between the diff engine and the
// format adapters that parse hierarchical files.
package document

// Kind is the type tag of a node. Only nodes of the same kind are compared
// with each other.
type Kind string

// Node is implemented by every concrete node kind of a format
type Node interface {
	Kind() Kind
	Name() string
	// Value returns the scalar value and whether the node has one
	Value() (string, bool)
	Children() []Node
}

// Typed is implemented by nodes whose scalar values carry a type, such as a
// JSON number versus a JSON string.
type Typed interface {
	ValueType() string
}

// ValueType returns the value type of n, or "" when n is untyped
func ValueType(n Node) string {
	if t, ok := n.(Typed); ok {
		return t.ValueType()
	}
	return ""
}

// SameValue reports whether a and b carry equal scalar values, comparing
// presence, type and content.
func SameValue(a, b Node) bool {
	av, aok := a.Value()
	bv, bok := b.Value()
	if aok != bok {
		return false
	}
	if ValueType(a) != ValueType(b) {
		return false
	}
	return av == bv
}

// Format is a document adapter. Implementations are registered explicitly in
// a Registry.
type Format interface {
	Name() string
	Extensions() []string
	Load(path string) (Node, error)
	Save(root Node, path string) error
	// Compare scores two nodes of this format in [0,1]
	Compare(a, b Node) float64
	// SetValue writes value into n and reports whether the format accepted it
	SetValue(n Node, value string) bool
}

// ReadOnly is implemented by formats that can load but never save
type ReadOnly interface {
	ReadOnly() bool
}

// Writable reports whether documents of f can be saved
func Writable(f Format) bool {
	if ro, ok := f.(ReadOnly); ok {
		return !ro.ReadOnly()
	}
	return true
}
