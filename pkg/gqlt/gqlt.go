// Package gqlt is the type registry that generated schema packages
// register into. A generated file declares one Schema plus one package
// variable per GraphQL type; field and argument types may reference other
// declarations directly or by name, and names are resolved lazily so
// declarations can point at types that appear later in the file.
package gqlt

import "fmt"

// Kind classifies a declared type.
type Kind string

const (
	KindScalar      Kind = "SCALAR"
	KindEnum        Kind = "ENUM"
	KindObject      Kind = "OBJECT"
	KindInterface   Kind = "INTERFACE"
	KindInputObject Kind = "INPUT_OBJECT"
	KindUnion       Kind = "UNION"
)

// TypeRef is anything that can stand in a type position: a *Type, a type
// name (resolved on Schema.Resolve), or a wrapper built with NonNull or
// ListOf.
type TypeRef interface{}

type nonNullRef struct{ Of TypeRef }

type listRef struct{ Of TypeRef }

// NonNull wraps a reference in the non-null modifier.
func NonNull(of TypeRef) TypeRef { return nonNullRef{Of: of} }

// ListOf wraps a reference in the list modifier.
func ListOf(of TypeRef) TypeRef { return listRef{Of: of} }

// Variable references a query variable used as an argument default.
type Variable struct{ Name string }

// Var builds a Variable reference.
func Var(name string) Variable { return Variable{Name: name} }

// Null is the explicit null default. An Arg whose Default is nil declares
// no default at all; an Arg whose Default is Null declares `= null`.
var Null = nullValue{}

type nullValue struct{}

// List is an ordered list literal used as an argument default.
type List []interface{}

// Obj is an ordered object literal used as an argument default. Field
// order is preserved exactly as written in the schema.
type Obj []ObjField

// ObjField is one entry of an Obj literal.
type ObjField struct {
	Name  string
	Value interface{}
}

// Field declares one field of an object, interface or input object.
type Field struct {
	Name string
	Type TypeRef
	Args Args
}

// Args is the ordered argument list of an output field.
type Args []Arg

// Arg declares one field argument.
type Arg struct {
	Name    string
	Type    TypeRef
	Default interface{}
}

// ObjectPart is a building block accepted by Object declarations: either
// a *Field or an Implements clause.
type ObjectPart interface{ objectPart() }

func (*Field) objectPart() {}

type implementsList struct{ refs []TypeRef }

func (implementsList) objectPart() {}

// Implements lists the interfaces an object declaration implements.
func Implements(interfaces ...TypeRef) ObjectPart {
	return implementsList{refs: interfaces}
}

// Type is one declared schema type.
type Type struct {
	Name       string
	Kind       Kind
	Fields     []*Field
	Interfaces []TypeRef
	Members    []TypeRef
	EnumValues []string
	Connection bool
}

// Field returns the named field, or nil.
func (t *Type) Field(name string) *Field {
	for _, f := range t.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func (t *Type) String() string { return t.Name }

// baseTypes holds types shared by every schema: the builtin scalars plus
// whatever support packages add via the Base constructors. It is written
// during package initialization only.
var baseTypes = map[string]*Type{}

// BaseScalar declares a scalar in the shared base registry. Meant for
// package init of support packages.
func BaseScalar(name string) *Type {
	return baseRegister(&Type{Name: name, Kind: KindScalar})
}

// BaseObject declares an object in the shared base registry.
func BaseObject(name string, fields ...*Field) *Type {
	return baseRegister(&Type{Name: name, Kind: KindObject, Fields: fields})
}

// BaseInterface declares an interface in the shared base registry.
func BaseInterface(name string, fields ...*Field) *Type {
	return baseRegister(&Type{Name: name, Kind: KindInterface, Fields: fields})
}

func baseRegister(t *Type) *Type {
	if t.Name == "" {
		panic("gqlt: base type with empty name")
	}
	baseTypes[t.Name] = t
	return t
}

// Builtin scalars, available to every schema without declaration.
var (
	Int     = BaseScalar("Int")
	Float   = BaseScalar("Float")
	String  = BaseScalar("String")
	Boolean = BaseScalar("Boolean")
	ID      = BaseScalar("ID")
)

// Schema is an ordered registry of type declarations. Lookups fall back
// to the base registry unless the name was masked with Unexport.
type Schema struct {
	types  map[string]*Type
	order  []string
	masked map[string]bool

	query        *Type
	mutation     *Type
	subscription *Type
}

// NewSchema creates an empty schema.
func NewSchema() *Schema {
	return &Schema{
		types:  make(map[string]*Type),
		masked: make(map[string]bool),
	}
}

// declare registers t, panicking on redeclaration. Declarations run in
// package-variable initializers of generated code, where a panic at load
// is the conventional failure mode for a corrupt registration.
func (s *Schema) declare(t *Type) *Type {
	if t.Name == "" {
		panic(fmt.Sprintf("gqlt: %s declaration with empty name", t.Kind))
	}
	if _, dup := s.types[t.Name]; dup {
		panic(fmt.Sprintf("gqlt: type %q already declared", t.Name))
	}
	s.types[t.Name] = t
	s.order = append(s.order, t.Name)
	return t
}

// Scalar declares a custom scalar.
func (s *Schema) Scalar(name string) *Type {
	return s.declare(&Type{Name: name, Kind: KindScalar})
}

// Enum declares an enum with its value names in schema order.
func (s *Schema) Enum(name string, values ...string) *Type {
	return s.declare(&Type{Name: name, Kind: KindEnum, EnumValues: values})
}

// Input declares an input object.
func (s *Schema) Input(name string, fields ...*Field) *Type {
	return s.declare(&Type{Name: name, Kind: KindInputObject, Fields: fields})
}

// Interface declares an interface.
func (s *Schema) Interface(name string, fields ...*Field) *Type {
	return s.declare(&Type{Name: name, Kind: KindInterface, Fields: fields})
}

// Object declares an object from Implements clauses and fields.
func (s *Schema) Object(name string, parts ...ObjectPart) *Type {
	t := &Type{Name: name, Kind: KindObject}
	for _, p := range parts {
		switch v := p.(type) {
		case *Field:
			t.Fields = append(t.Fields, v)
		case implementsList:
			t.Interfaces = append(t.Interfaces, v.refs...)
		}
	}
	return s.declare(t)
}

// Union declares a union over its member types.
func (s *Schema) Union(name string, members ...TypeRef) *Type {
	return s.declare(&Type{Name: name, Kind: KindUnion, Members: members})
}

// Unexport masks base-registry names so the schema's own declarations of
// those names take precedence.
func (s *Schema) Unexport(types ...*Type) *Schema {
	for _, t := range types {
		s.masked[t.Name] = true
	}
	return s
}

// Query sets the query entry point (nil when the schema has none).
func (s *Schema) Query(t *Type) *Schema {
	s.query = t
	return s
}

// Mutation sets the mutation entry point.
func (s *Schema) Mutation(t *Type) *Schema {
	s.mutation = t
	return s
}

// Subscription sets the subscription entry point.
func (s *Schema) Subscription(t *Type) *Schema {
	s.subscription = t
	return s
}

// QueryType returns the query entry point, or nil.
func (s *Schema) QueryType() *Type { return s.query }

// MutationType returns the mutation entry point, or nil.
func (s *Schema) MutationType() *Type { return s.mutation }

// SubscriptionType returns the subscription entry point, or nil.
func (s *Schema) SubscriptionType() *Type { return s.subscription }

// Type looks a name up in the schema's own declarations first, then in
// the base registry unless the name is masked.
func (s *Schema) Type(name string) *Type {
	if t, ok := s.types[name]; ok {
		return t
	}
	if s.masked[name] {
		return nil
	}
	return baseTypes[name]
}

// Types returns the schema's own declarations in declaration order.
func (s *Schema) Types() []*Type {
	out := make([]*Type, len(s.order))
	for i, name := range s.order {
		out[i] = s.types[name]
	}
	return out
}

// Len reports the number of declared types.
func (s *Schema) Len() int { return len(s.order) }

// Resolve replaces every by-name reference with the declared *Type and
// checks interface and union targets. It fails on the first dangling
// name, so a fully resolved schema has no strings left in any reference.
func (s *Schema) Resolve() error {
	for _, name := range s.order {
		t := s.types[name]
		for _, f := range t.Fields {
			ref, err := s.resolveRef(f.Type)
			if err != nil {
				return fmt.Errorf("type %s, field %s: %w", t.Name, f.Name, err)
			}
			f.Type = ref
			for i := range f.Args {
				ref, err := s.resolveRef(f.Args[i].Type)
				if err != nil {
					return fmt.Errorf("type %s, field %s, arg %s: %w", t.Name, f.Name, f.Args[i].Name, err)
				}
				f.Args[i].Type = ref
			}
		}
		for i, ref := range t.Interfaces {
			r, err := s.resolveRef(ref)
			if err != nil {
				return fmt.Errorf("type %s, interface %d: %w", t.Name, i, err)
			}
			it, ok := r.(*Type)
			if !ok || it.Kind != KindInterface {
				return fmt.Errorf("type %s implements %s, which is not an interface", t.Name, FormatRef(r))
			}
			t.Interfaces[i] = it
		}
		for i, ref := range t.Members {
			r, err := s.resolveRef(ref)
			if err != nil {
				return fmt.Errorf("union %s, member %d: %w", t.Name, i, err)
			}
			mt, ok := r.(*Type)
			if !ok || mt.Kind != KindObject {
				return fmt.Errorf("union %s member %s is not an object", t.Name, FormatRef(r))
			}
			t.Members[i] = mt
		}
	}
	return nil
}

func (s *Schema) resolveRef(ref TypeRef) (TypeRef, error) {
	switch r := ref.(type) {
	case *Type:
		return r, nil
	case string:
		t := s.Type(r)
		if t == nil {
			return nil, fmt.Errorf("undefined type %q", r)
		}
		return t, nil
	case nonNullRef:
		of, err := s.resolveRef(r.Of)
		if err != nil {
			return nil, err
		}
		return nonNullRef{Of: of}, nil
	case listRef:
		of, err := s.resolveRef(r.Of)
		if err != nil {
			return nil, err
		}
		return listRef{Of: of}, nil
	case nil:
		return nil, fmt.Errorf("missing type reference")
	default:
		return nil, fmt.Errorf("invalid type reference %T", ref)
	}
}

// FormatRef renders a reference in GraphQL notation, e.g. "[Human!]!".
func FormatRef(ref TypeRef) string {
	switch r := ref.(type) {
	case *Type:
		return r.Name
	case string:
		return r
	case nonNullRef:
		return FormatRef(r.Of) + "!"
	case listRef:
		return "[" + FormatRef(r.Of) + "]"
	case nil:
		return ""
	default:
		return fmt.Sprintf("%%!ref(%T)", ref)
	}
}

// RefName returns the innermost concrete type name of a reference.
func RefName(ref TypeRef) string {
	switch r := ref.(type) {
	case *Type:
		return r.Name
	case string:
		return r
	case nonNullRef:
		return RefName(r.Of)
	case listRef:
		return RefName(r.Of)
	default:
		return ""
	}
}
