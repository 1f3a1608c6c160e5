// Package formats assembles the registry of every built-in document format.
package formats

import (
	"github.com/pstuifzand/hierarchy-diff/internal/document"
	"github.com/pstuifzand/hierarchy-diff/internal/formats/jsonfmt"
	"github.com/pstuifzand/hierarchy-diff/internal/formats/outline"
	"github.com/pstuifzand/hierarchy-diff/internal/formats/syntax"
	"github.com/pstuifzand/hierarchy-diff/internal/formats/tomlfmt"
	"github.com/pstuifzand/hierarchy-diff/internal/formats/xmlfmt"
	"github.com/pstuifzand/hierarchy-diff/internal/formats/yamlfmt"
)

// Builtin returns the built-in formats in registration order
func Builtin() []document.Format {
	out := []document.Format{
		xmlfmt.Format{},
		jsonfmt.Format{},
		yamlfmt.Format{},
		tomlfmt.Format{},
		outline.Format{},
	}
	for _, f := range syntax.All() {
		out = append(out, f)
	}
	return out
}

// Registry returns a registry holding the built-in formats
func Registry() *document.Registry {
	r, err := document.NewRegistry(Builtin()...)
	if err != nil {
		// built-in names and extensions are distinct
		panic(err)
	}
	return r
}
