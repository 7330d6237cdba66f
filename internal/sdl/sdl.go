// Package sdl renders introspection documents as GraphQL schema
// definition language and validates them through gqlparser.
package sdl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/gqlforge/gqlforge/internal/schema"
)

// builtinDirectives ship with every GraphQL implementation and must not
// be re-declared.
var builtinDirectives = map[string]bool{
	"skip": true, "include": true, "deprecated": true, "specifiedBy": true,
}

// FromDocument renders the document as SDL text. Types come out in
// model order, followed by custom directives and the schema block.
// Builtin scalars and introspection meta types are omitted since every
// GraphQL parser declares those itself.
func FromDocument(doc *schema.Document) string {
	var blocks []string
	for _, t := range doc.Types {
		if skipType(t) {
			continue
		}
		blocks = append(blocks, renderType(t))
	}
	for _, d := range doc.Directives {
		if builtinDirectives[d.Name] || len(d.Locations) == 0 {
			continue
		}
		blocks = append(blocks, renderDirective(d))
	}
	if block := renderSchemaBlock(doc); block != "" {
		blocks = append(blocks, block)
	}
	if len(blocks) == 0 {
		return ""
	}
	return strings.Join(blocks, "\n\n") + "\n"
}

// Validate renders the document and parses the result back through
// gqlparser, catching undefined references, interface violations, and
// bad default values that the document model alone cannot see.
func Validate(doc *schema.Document) error {
	src := FromDocument(doc)
	if _, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: src}); err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	return nil
}

func skipType(t *schema.Type) bool {
	if strings.HasPrefix(t.Name, "__") {
		return true
	}
	return t.Kind == schema.KindScalar && schema.BuiltinScalars[t.Name]
}

func renderType(t *schema.Type) string {
	var b strings.Builder
	writeDescription(&b, t.Description, "")
	switch t.Kind {
	case schema.KindScalar:
		fmt.Fprintf(&b, "scalar %s", t.Name)
	case schema.KindEnum:
		fmt.Fprintf(&b, "enum %s", t.Name)
		if len(t.EnumValues) > 0 {
			b.WriteString(" {\n")
			for _, v := range t.EnumValues {
				writeDescription(&b, v.Description, "  ")
				b.WriteString("  " + v.Name + deprecation(v.IsDeprecated, v.DeprecationReason) + "\n")
			}
			b.WriteString("}")
		}
	case schema.KindObject, schema.KindInterface:
		keyword := "type"
		if t.Kind == schema.KindInterface {
			keyword = "interface"
		}
		fmt.Fprintf(&b, "%s %s", keyword, t.Name)
		if len(t.Interfaces) > 0 {
			names := make([]string, len(t.Interfaces))
			for i := range t.Interfaces {
				names[i] = t.Interfaces[i].TypeName()
			}
			b.WriteString(" implements " + strings.Join(names, " & "))
		}
		if len(t.Fields) > 0 {
			b.WriteString(" {\n")
			for i := range t.Fields {
				writeField(&b, &t.Fields[i])
			}
			b.WriteString("}")
		}
	case schema.KindInputObject:
		fmt.Fprintf(&b, "input %s", t.Name)
		if len(t.InputFields) > 0 {
			b.WriteString(" {\n")
			for i := range t.InputFields {
				f := &t.InputFields[i]
				writeDescription(&b, f.Description, "  ")
				b.WriteString("  " + inputValue(f) + "\n")
			}
			b.WriteString("}")
		}
	case schema.KindUnion:
		fmt.Fprintf(&b, "union %s", t.Name)
		if len(t.PossibleTypes) > 0 {
			names := make([]string, len(t.PossibleTypes))
			for i := range t.PossibleTypes {
				names[i] = t.PossibleTypes[i].TypeName()
			}
			b.WriteString(" = " + strings.Join(names, " | "))
		}
	}
	return b.String()
}

func writeField(b *strings.Builder, f *schema.Field) {
	writeDescription(b, f.Description, "  ")
	b.WriteString("  " + f.Name)
	if len(f.Args) > 0 {
		args := make([]string, len(f.Args))
		for i := range f.Args {
			args[i] = inputValue(&f.Args[i])
		}
		b.WriteString("(" + strings.Join(args, ", ") + ")")
	}
	b.WriteString(": " + f.Type.String())
	b.WriteString(deprecation(f.IsDeprecated, f.DeprecationReason))
	b.WriteString("\n")
}

// inputValue renders an argument or input field. The default literal is
// already GraphQL syntax and passes through untouched.
func inputValue(v *schema.InputValue) string {
	s := v.Name + ": " + v.Type.String()
	if v.DefaultValue != nil && *v.DefaultValue != "" {
		s += " = " + *v.DefaultValue
	}
	return s
}

func renderDirective(d schema.Directive) string {
	var b strings.Builder
	writeDescription(&b, d.Description, "")
	b.WriteString("directive @" + d.Name)
	if len(d.Args) > 0 {
		args := make([]string, len(d.Args))
		for i := range d.Args {
			args[i] = inputValue(&d.Args[i])
		}
		b.WriteString("(" + strings.Join(args, ", ") + ")")
	}
	b.WriteString(" on " + strings.Join(d.Locations, " | "))
	return b.String()
}

func renderSchemaBlock(doc *schema.Document) string {
	var roots []string
	if doc.QueryType != "" {
		roots = append(roots, "  query: "+doc.QueryType)
	}
	if doc.MutationType != "" {
		roots = append(roots, "  mutation: "+doc.MutationType)
	}
	if doc.SubscriptionType != "" {
		roots = append(roots, "  subscription: "+doc.SubscriptionType)
	}
	if len(roots) == 0 {
		return ""
	}
	return "schema {\n" + strings.Join(roots, "\n") + "\n}"
}

// writeDescription emits a block string with the closing quotes on
// their own line, which keeps content ending in a quote parseable.
func writeDescription(b *strings.Builder, desc, indent string) {
	if desc == "" {
		return
	}
	body := strings.ReplaceAll(desc, `"""`, `\"""`)
	b.WriteString(indent + `"""` + "\n")
	for _, line := range strings.Split(body, "\n") {
		b.WriteString(indent + line + "\n")
	}
	b.WriteString(indent + `"""` + "\n")
}

func deprecation(deprecated bool, reason string) string {
	if !deprecated {
		return ""
	}
	if reason == "" {
		return " @deprecated"
	}
	return " @deprecated(reason: " + strconv.Quote(reason) + ")"
}
