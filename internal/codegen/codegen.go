// Package codegen compiles a loaded introspection document into Go
// source declarations targeting the pkg/gqlt runtime. Generation is
// single-threaded and all-or-nothing: types are classified into four
// emission phases, the output phase is dependency-ordered, and one pass
// writes every declaration into a buffer that reaches the caller only
// on full success.
package codegen

import (
	"github.com/gqlforge/gqlforge/internal/schema"
)

// Options configure one generation run.
type Options struct {
	// SchemaName names the schema variable and, lowered, the package.
	// Empty falls back to "generated_schema"; derive it from file paths
	// with SchemaName().
	SchemaName string

	// PackageName overrides the derived package clause.
	PackageName string

	// Source is recorded in the generated file header when set.
	Source string
}

// Generator compiles introspection documents with fixed options.
type Generator struct {
	opts Options
}

// New creates a Generator.
func New(opts Options) *Generator {
	return &Generator{opts: opts}
}

// Generate compiles doc into one complete Go source file. On error the
// returned bytes are nil; nothing partial is ever produced.
func (g *Generator) Generate(doc *schema.Document) ([]byte, error) {
	name := CleanSchemaName(g.opts.SchemaName)
	if name == "" {
		name = "generated_schema"
	}
	pkg := g.opts.PackageName
	if pkg == "" {
		pkg = PackageName(name)
	}

	b, err := classify(doc)
	if err != nil {
		return nil, err
	}
	e := newEmitter(doc, name, pkg, g.opts.Source)
	return e.emit(b)
}
