package sdl

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/gqlforge/gqlforge/internal/schema"
)

// defaultDeprecationReason is what introspection reports when
// @deprecated carries no reason argument.
const defaultDeprecationReason = "No longer supported"

// sdlKeywords are top-level declaration markers used to sniff SDL text
// when the filename gives no hint.
var sdlKeywords = []string{
	"type ", "interface ", "enum ", "union ", "input ",
	"scalar ", "schema {", "directive @",
}

// IsSDL reports whether the input looks like SDL text rather than
// introspection JSON. The file extension wins when it carries one;
// otherwise a leading brace means JSON and top-level declaration
// keywords mean SDL.
func IsSDL(filename string, content []byte) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".graphql", ".gql", ".sdl":
		return true
	case ".json":
		return false
	}
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 || trimmed[0] == '{' {
		return false
	}
	for _, kw := range sdlKeywords {
		if bytes.Contains(trimmed, []byte(kw)) {
			return true
		}
	}
	return false
}

// Parse builds an introspection document from SDL source. gqlparser
// supplies the builtin scalars, meta types, and directives, so the
// result matches what a live endpoint serves for the same schema.
func Parse(src []byte) (*schema.Document, error) {
	parsed, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: string(src)})
	if err != nil {
		return nil, fmt.Errorf("failed to parse SDL: %w", err)
	}

	raw := &schema.Schema{}
	if parsed.Query != nil {
		raw.QueryType = &schema.RootRef{Name: parsed.Query.Name}
	}
	if parsed.Mutation != nil {
		raw.MutationType = &schema.RootRef{Name: parsed.Mutation.Name}
	}
	if parsed.Subscription != nil {
		raw.SubscriptionType = &schema.RootRef{Name: parsed.Subscription.Name}
	}

	names := make([]string, 0, len(parsed.Types))
	for name := range parsed.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		raw.Types = append(raw.Types, convertDefinition(parsed.Types[name], parsed))
	}

	dirNames := make([]string, 0, len(parsed.Directives))
	for name := range parsed.Directives {
		dirNames = append(dirNames, name)
	}
	sort.Strings(dirNames)
	for _, name := range dirNames {
		raw.Directives = append(raw.Directives, convertDirective(parsed.Directives[name], parsed))
	}

	return schema.FromSchema(raw)
}

func convertDefinition(def *ast.Definition, s *ast.Schema) *schema.Type {
	t := &schema.Type{
		Kind:        string(def.Kind),
		Name:        def.Name,
		Description: def.Description,
	}
	switch def.Kind {
	case ast.Enum:
		for _, v := range def.EnumValues {
			deprecated, reason := deprecationOf(v.Directives)
			t.EnumValues = append(t.EnumValues, schema.EnumValue{
				Name:              v.Name,
				Description:       v.Description,
				IsDeprecated:      deprecated,
				DeprecationReason: reason,
			})
		}
	case ast.Object, ast.Interface:
		for _, name := range def.Interfaces {
			t.Interfaces = append(t.Interfaces, *namedRef(name, s))
		}
		for _, f := range def.Fields {
			// Meta fields never appear in introspection output.
			if strings.HasPrefix(f.Name, "__") {
				continue
			}
			deprecated, reason := deprecationOf(f.Directives)
			t.Fields = append(t.Fields, schema.Field{
				Name:              f.Name,
				Description:       f.Description,
				Args:              convertArguments(f.Arguments, s),
				Type:              convertRef(f.Type, s),
				IsDeprecated:      deprecated,
				DeprecationReason: reason,
			})
		}
	case ast.InputObject:
		for _, f := range def.Fields {
			t.InputFields = append(t.InputFields, convertInputValue(f.Name, f.Description, f.Type, f.DefaultValue, s))
		}
	case ast.Union:
		for _, name := range def.Types {
			t.PossibleTypes = append(t.PossibleTypes, *namedRef(name, s))
		}
	}
	return t
}

func convertDirective(def *ast.DirectiveDefinition, s *ast.Schema) schema.Directive {
	d := schema.Directive{
		Name:        def.Name,
		Description: def.Description,
		Args:        convertArguments(def.Arguments, s),
	}
	for _, loc := range def.Locations {
		d.Locations = append(d.Locations, string(loc))
	}
	return d
}

func convertArguments(args ast.ArgumentDefinitionList, s *ast.Schema) []schema.InputValue {
	out := make([]schema.InputValue, 0, len(args))
	for _, a := range args {
		out = append(out, convertInputValue(a.Name, a.Description, a.Type, a.DefaultValue, s))
	}
	return out
}

func convertInputValue(name, description string, typ *ast.Type, defaultValue *ast.Value, s *ast.Schema) schema.InputValue {
	iv := schema.InputValue{
		Name:        name,
		Description: description,
		Type:        convertRef(typ, s),
	}
	if defaultValue != nil {
		text := defaultValue.String()
		iv.DefaultValue = &text
	}
	return iv
}

// convertRef rebuilds the introspection wrapper chain for a type
// reference. gqlparser nests lists through Elem with a NonNull flag at
// each level; introspection nests through NON_NULL and LIST wrappers.
func convertRef(t *ast.Type, s *ast.Schema) *schema.TypeRef {
	if t == nil {
		return nil
	}
	var ref *schema.TypeRef
	if t.Elem != nil {
		ref = &schema.TypeRef{Kind: schema.KindList, OfType: convertRef(t.Elem, s)}
	} else {
		ref = namedRef(t.NamedType, s)
	}
	if t.NonNull {
		ref = &schema.TypeRef{Kind: schema.KindNonNull, OfType: ref}
	}
	return ref
}

// namedRef builds a concrete reference carrying the declared kind of
// the named type.
func namedRef(name string, s *ast.Schema) *schema.TypeRef {
	kind := schema.KindScalar
	if def, ok := s.Types[name]; ok {
		kind = string(def.Kind)
	}
	n := name
	return &schema.TypeRef{Kind: kind, Name: &n}
}

// deprecationOf extracts @deprecated the way introspection reports it.
func deprecationOf(directives ast.DirectiveList) (bool, string) {
	for _, d := range directives {
		if d.Name != "deprecated" {
			continue
		}
		for _, arg := range d.Arguments {
			if arg.Name == "reason" {
				return true, arg.Value.Raw
			}
		}
		return true, defaultDeprecationReason
	}
	return false, ""
}
