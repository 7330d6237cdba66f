// Package schema models GraphQL introspection documents: the JSON
// description of a GraphQL API's type system obtained by running the
// standard introspection query against it.
package schema

// Type kinds as they appear in introspection output. LIST and NON_NULL
// never name a declared type; they only occur inline inside a TypeRef.
const (
	KindScalar      = "SCALAR"
	KindEnum        = "ENUM"
	KindObject      = "OBJECT"
	KindInterface   = "INTERFACE"
	KindInputObject = "INPUT_OBJECT"
	KindUnion       = "UNION"
	KindList        = "LIST"
	KindNonNull     = "NON_NULL"
)

// Name sets the generator treats specially.
var (
	// BuiltinScalars ship with every GraphQL implementation.
	BuiltinScalars = map[string]bool{
		"Int": true, "Float": true, "String": true, "Boolean": true, "ID": true,
	}

	// TimeScalars are the conventional ISO 8601 scalar names.
	TimeScalars = map[string]bool{
		"DateTime": true, "Date": true, "Time": true,
	}

	// PaginationNames mark a schema that follows the relay cursor
	// pagination conventions.
	PaginationNames = map[string]bool{
		"Node": true, "PageInfo": true,
	}

	// BuiltinEnums are the introspection meta enums, never emitted.
	BuiltinEnums = map[string]bool{
		"__TypeKind": true, "__DirectiveLocation": true,
	}

	// BuiltinObjects are the introspection meta objects, never emitted.
	BuiltinObjects = map[string]bool{
		"__Schema": true, "__Type": true, "__Field": true,
		"__Directive": true, "__EnumValue": true, "__InputValue": true,
	}
)

// TypeRef is a possibly wrapped reference to a type. Wrappers (LIST,
// NON_NULL) have a nil Name and carry the wrapped reference in OfType;
// the innermost reference names a declared type.
type TypeRef struct {
	Kind   string   `json:"kind"`
	Name   *string  `json:"name"`
	OfType *TypeRef `json:"ofType"`
}

// Unwrap returns the innermost reference of a wrapper chain.
func (r *TypeRef) Unwrap() *TypeRef {
	for r != nil && r.OfType != nil {
		r = r.OfType
	}
	return r
}

// TypeName returns the name of the innermost referenced type, or "".
func (r *TypeRef) TypeName() string {
	inner := r.Unwrap()
	if inner == nil || inner.Name == nil {
		return ""
	}
	return *inner.Name
}

// String renders the reference in GraphQL notation, [Episode!]! style.
func (r *TypeRef) String() string {
	if r == nil {
		return ""
	}
	switch r.Kind {
	case KindNonNull:
		return r.OfType.String() + "!"
	case KindList:
		return "[" + r.OfType.String() + "]"
	}
	if r.Name == nil {
		return ""
	}
	return *r.Name
}

// InputValue is a field argument or an input-object field. DefaultValue
// holds the raw literal text exactly as the schema serves it; nil means
// no default was declared.
type InputValue struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Type         *TypeRef `json:"type"`
	DefaultValue *string  `json:"defaultValue"`
}

// Field is an output field of an object or interface.
type Field struct {
	Name              string       `json:"name"`
	Description       string       `json:"description"`
	Args              []InputValue `json:"args"`
	Type              *TypeRef     `json:"type"`
	IsDeprecated      bool         `json:"isDeprecated"`
	DeprecationReason string       `json:"deprecationReason"`
}

// EnumValue is one member of an enum type.
type EnumValue struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	IsDeprecated      bool   `json:"isDeprecated"`
	DeprecationReason string `json:"deprecationReason"`
}

// Type is one declared type of the schema. Children are kind-specific:
// Fields and Interfaces for objects, Fields for interfaces, InputFields
// for input objects, EnumValues for enums, PossibleTypes for unions.
type Type struct {
	Kind          string       `json:"kind"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Fields        []Field      `json:"fields"`
	InputFields   []InputValue `json:"inputFields"`
	Interfaces    []TypeRef    `json:"interfaces"`
	EnumValues    []EnumValue  `json:"enumValues"`
	PossibleTypes []TypeRef    `json:"possibleTypes"`
}

// RootRef names an entry-point type inside the raw schema payload.
type RootRef struct {
	Name string `json:"name"`
}

// Directive is a declared schema directive.
type Directive struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Locations   []string     `json:"locations"`
	Args        []InputValue `json:"args"`
}

// Schema is the raw __schema payload as served by introspection.
type Schema struct {
	QueryType        *RootRef    `json:"queryType"`
	MutationType     *RootRef    `json:"mutationType"`
	SubscriptionType *RootRef    `json:"subscriptionType"`
	Types            []*Type     `json:"types"`
	Directives       []Directive `json:"directives"`
}

// Document is the loaded, indexed model the rest of the pipeline works
// on. It is built once by Load and read-only afterwards.
type Document struct {
	// Types sorted ascending by name, the canonical emission order for
	// same-kind ties.
	Types []*Type

	// Entry-point type names, empty when the schema declares none.
	QueryType        string
	MutationType     string
	SubscriptionType string

	Directives []Directive

	// UsesDateTime is set when the schema declares any of the ISO 8601
	// scalar names; UsesPagination when it declares Node or PageInfo.
	UsesDateTime   bool
	UsesPagination bool

	byName map[string]*Type
}

// Type returns the named declared type, or nil.
func (d *Document) Type(name string) *Type {
	return d.byName[name]
}

// Len reports the number of declared types.
func (d *Document) Len() int {
	return len(d.Types)
}
