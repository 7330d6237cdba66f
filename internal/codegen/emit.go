package codegen

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/gqlforge/gqlforge/internal/schema"
)

// Import paths written into generated files.
const (
	gqltImport    = "github.com/gqlforge/gqlforge/pkg/gqlt"
	gqltimeImport = "github.com/gqlforge/gqlforge/pkg/gqlt/gqltime"
	relayImport   = "github.com/gqlforge/gqlforge/pkg/gqlt/relay"
)

const maxLineWidth = 80

// EmissionState is the log of type names already written to the output,
// the only mutable state of the pipeline. The emitter owns it and
// appends exactly once per declaration, after the declaration text is
// complete, so self-references stay forward.
type EmissionState struct {
	written map[string]bool
	order   []string
}

func newEmissionState() *EmissionState {
	return &EmissionState{written: make(map[string]bool)}
}

// MarkWritten logs a declared name.
func (s *EmissionState) MarkWritten(name string) {
	if !s.written[name] {
		s.written[name] = true
		s.order = append(s.order, name)
	}
}

// Written reports whether a name has been declared.
func (s *EmissionState) Written(name string) bool {
	return s.written[name]
}

// WrittenNames returns the emission order so far.
func (s *EmissionState) WrittenNames() []string {
	return append([]string(nil), s.order...)
}

// emitter writes one generated file into an in-memory buffer; bytes
// reach the caller only on full success.
type emitter struct {
	doc   *schema.Document
	buf   bytes.Buffer
	state *EmissionState

	schemaName string
	schemaVar  string
	pkgName    string
	source     string

	idents map[string]string
}

func newEmitter(doc *schema.Document, schemaName, pkgName, source string) *emitter {
	return &emitter{
		doc:        doc,
		state:      newEmissionState(),
		schemaName: schemaName,
		schemaVar:  SchemaVar(schemaName),
		pkgName:    pkgName,
		source:     source,
	}
}

func (e *emitter) emit(b *buckets) ([]byte, error) {
	if err := e.buildIdents(b); err != nil {
		return nil, err
	}

	e.header()

	e.banner("Scalars and Enumerations")
	for _, t := range b.scalars {
		if t.Kind == schema.KindEnum {
			e.enumDecl(t)
		} else {
			e.scalarDecl(t)
		}
	}

	e.banner("Input Objects")
	for _, t := range b.inputs {
		if err := e.inputDecl(t); err != nil {
			return nil, err
		}
	}

	e.banner("Output Objects and Interfaces")
	for _, t := range b.outputs {
		var err error
		if t.Kind == schema.KindInterface {
			err = e.interfaceDecl(t)
		} else {
			err = e.objectDecl(t)
		}
		if err != nil {
			return nil, err
		}
	}

	e.banner("Unions")
	for _, t := range b.unions {
		e.unionDecl(t)
	}

	e.entryPoints()
	return e.buf.Bytes(), nil
}

// buildIdents derives the Go identifier of every declaration up front
// and rejects collisions: two schema names mapping to one identifier,
// or an identifier claiming the schema variable's name.
func (e *emitter) buildIdents(b *buckets) error {
	e.idents = make(map[string]string)
	byIdent := make(map[string]string)
	for _, group := range [][]*schema.Type{b.scalars, b.inputs, b.outputs, b.unions} {
		for _, t := range group {
			ident := Exported(t.Name)
			if ident == e.schemaVar {
				return fmt.Errorf("%w: type %s collides with schema variable %s", ErrConsistency, t.Name, e.schemaVar)
			}
			if prev, ok := byIdent[ident]; ok {
				return fmt.Errorf("%w: types %s and %s both map to identifier %s", ErrConsistency, prev, t.Name, ident)
			}
			byIdent[ident] = t.Name
			e.idents[t.Name] = ident
		}
	}
	return nil
}

// ident returns the Go identifier of a schema type name. Names outside
// the emission plan (entry points naming unknown types) fall back to
// the derived form.
func (e *emitter) ident(name string) string {
	if id, ok := e.idents[name]; ok {
		return id
	}
	return Exported(name)
}

func (e *emitter) header() {
	e.buf.WriteString("// Code generated by gqlforge. DO NOT EDIT.\n")
	if e.source != "" {
		fmt.Fprintf(&e.buf, "// Source: %s\n", e.source)
	}
	fmt.Fprintf(&e.buf, "\npackage %s\n\n", e.pkgName)

	paths := []string{gqltImport}
	if e.doc.UsesDateTime {
		paths = append(paths, gqltimeImport)
	}
	if e.doc.UsesPagination {
		paths = append(paths, relayImport)
	}
	if len(paths) == 1 {
		fmt.Fprintf(&e.buf, "import %q\n", paths[0])
	} else {
		e.buf.WriteString("import (\n")
		for _, p := range paths {
			fmt.Fprintf(&e.buf, "\t%q\n", p)
		}
		e.buf.WriteString(")\n")
	}

	fmt.Fprintf(&e.buf, "\nvar %s = gqlt.NewSchema()\n", e.schemaVar)
	if e.doc.UsesPagination {
		e.buf.WriteString("\n// Unexport Node/PageInfo, let the schema re-declare them\n")
		fmt.Fprintf(&e.buf, "var _ = %s.Unexport(relay.Node, relay.PageInfo)\n", e.schemaVar)
	}
}

func (e *emitter) banner(title string) {
	bar := "// " + strings.Repeat("-", 72)
	fmt.Fprintf(&e.buf, "\n%s\n// %s\n%s\n", bar, title, bar)
}

// decl writes one declaration with a blank line before it.
func (e *emitter) decl(text string) {
	e.buf.WriteString("\n")
	e.buf.WriteString(text)
	e.buf.WriteString("\n")
}

// callDecl writes a var declaration for a call, one argument per line
// when the single-line form is too wide.
func (e *emitter) callDecl(ident, call string, args []string) {
	oneLine := fmt.Sprintf("var %s = %s(%s)", ident, call, strings.Join(args, ", "))
	if len(oneLine) <= maxLineWidth {
		e.decl(oneLine)
		return
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "var %s = %s(\n", ident, call)
	for _, a := range args {
		fmt.Fprintf(&sb, "\t%s,\n", a)
	}
	sb.WriteString(")")
	e.decl(sb.String())
}

// containerDecl writes a container declaration from its opening call
// text (without closing parenthesis) and rendered parts, one per line.
func (e *emitter) containerDecl(ident, open string, parts []string) {
	if len(parts) == 0 {
		e.decl(fmt.Sprintf("var %s = %s)", ident, open))
		return
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "var %s = %s,\n", ident, open)
	for _, p := range parts {
		sb.WriteString("\t" + strings.ReplaceAll(p, "\n", "\n\t") + ",\n")
	}
	sb.WriteString(")")
	e.decl(sb.String())
}

func (e *emitter) scalarDecl(t *schema.Type) {
	ident := e.ident(t.Name)
	switch {
	case schema.BuiltinScalars[t.Name]:
		e.decl(fmt.Sprintf("var %s = gqlt.%s", ident, t.Name))
	case schema.TimeScalars[t.Name]:
		e.decl(fmt.Sprintf("var %s = gqltime.%s", ident, t.Name))
	default:
		e.decl(fmt.Sprintf("var %s = %s.Scalar(%q)", ident, e.schemaVar, t.Name))
	}
	e.state.MarkWritten(t.Name)
}

func (e *emitter) enumDecl(t *schema.Type) {
	args := make([]string, 0, len(t.EnumValues)+1)
	args = append(args, strconv.Quote(t.Name))
	for _, v := range t.EnumValues {
		args = append(args, strconv.Quote(v.Name))
	}
	e.callDecl(e.ident(t.Name), e.schemaVar+".Enum", args)
	e.state.MarkWritten(t.Name)
}

func (e *emitter) inputDecl(t *schema.Type) error {
	siblings := make(map[string]bool, len(t.InputFields))
	for i := range t.InputFields {
		siblings[t.InputFields[i].Name] = true
	}

	var parts []string
	for i := range t.InputFields {
		f := &t.InputFields[i]
		ref, err := resolveRef(e.state, f.Type, siblings)
		if err != nil {
			return fmt.Errorf("input %s, field %s: %w", t.Name, f.Name, err)
		}
		parts = append(parts, fmt.Sprintf("&gqlt.Field{Name: %q, Type: %s}", f.Name, e.renderRef(ref)))
	}

	e.containerDecl(e.ident(t.Name), fmt.Sprintf("%s.Input(%q", e.schemaVar, t.Name), parts)
	e.state.MarkWritten(t.Name)
	return nil
}

func (e *emitter) interfaceDecl(t *schema.Type) error {
	siblings := make(map[string]bool, len(t.Fields))
	for i := range t.Fields {
		siblings[t.Fields[i].Name] = true
	}

	var parts []string
	for i := range t.Fields {
		part, err := e.outputField(&t.Fields[i], siblings, t.Name)
		if err != nil {
			return err
		}
		parts = append(parts, part)
	}

	e.containerDecl(e.ident(t.Name), fmt.Sprintf("%s.Interface(%q", e.schemaVar, t.Name), parts)
	e.state.MarkWritten(t.Name)
	return nil
}

func (e *emitter) objectDecl(t *schema.Type) error {
	open := fmt.Sprintf("%s.Object(%q", e.schemaVar, t.Name)
	if e.doc.UsesPagination && strings.HasSuffix(t.Name, "Connection") {
		open = fmt.Sprintf("relay.Connection(%s, %q", e.schemaVar, t.Name)
	}

	// Fields declared by implemented interfaces are not re-declared;
	// every implemented interface must already be emitted.
	var parts []string
	inherited := make(map[string]bool)
	if len(t.Interfaces) > 0 {
		ifaceIdents := make([]string, 0, len(t.Interfaces))
		for j := range t.Interfaces {
			name := t.Interfaces[j].TypeName()
			if name == "" {
				return fmt.Errorf("%w: object %s has an unnamed interface reference", ErrConsistency, t.Name)
			}
			if !e.state.Written(name) {
				return fmt.Errorf("%w: object %s implements %s before it is declared", ErrConsistency, t.Name, name)
			}
			iface := e.doc.Type(name)
			if iface == nil {
				return fmt.Errorf("%w: object %s implements unknown interface %s", ErrConsistency, t.Name, name)
			}
			for k := range iface.Fields {
				inherited[iface.Fields[k].Name] = true
			}
			ifaceIdents = append(ifaceIdents, e.ident(name))
		}
		parts = append(parts, fmt.Sprintf("gqlt.Implements(%s)", strings.Join(ifaceIdents, ", ")))
	}

	var own []*schema.Field
	for i := range t.Fields {
		if !inherited[t.Fields[i].Name] {
			own = append(own, &t.Fields[i])
		}
	}
	siblings := make(map[string]bool, len(own))
	for _, f := range own {
		siblings[f.Name] = true
	}
	for _, f := range own {
		part, err := e.outputField(f, siblings, t.Name)
		if err != nil {
			return err
		}
		parts = append(parts, part)
	}

	e.containerDecl(e.ident(t.Name), open, parts)
	e.state.MarkWritten(t.Name)
	return nil
}

func (e *emitter) unionDecl(t *schema.Type) {
	args := make([]string, 0, len(t.PossibleTypes)+1)
	args = append(args, strconv.Quote(t.Name))
	for i := range t.PossibleTypes {
		name := t.PossibleTypes[i].TypeName()
		if e.state.Written(name) {
			args = append(args, e.ident(name))
		} else {
			args = append(args, strconv.Quote(name))
		}
	}
	e.callDecl(e.ident(t.Name), e.schemaVar+".Union", args)
	e.state.MarkWritten(t.Name)
}

// outputField renders one field of an interface or object, with its
// argument list and defaults.
func (e *emitter) outputField(f *schema.Field, siblings map[string]bool, owner string) (string, error) {
	ref, err := resolveRef(e.state, f.Type, siblings)
	if err != nil {
		return "", fmt.Errorf("type %s, field %s: %w", owner, f.Name, err)
	}
	if len(f.Args) == 0 {
		return fmt.Sprintf("&gqlt.Field{Name: %q, Type: %s}", f.Name, e.renderRef(ref)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "&gqlt.Field{Name: %q, Type: %s, Args: gqlt.Args{\n", f.Name, e.renderRef(ref))
	for i := range f.Args {
		entry, err := e.argEntry(&f.Args[i], siblings, owner, f.Name)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "\t%s,\n", entry)
	}
	sb.WriteString("}}")
	return sb.String(), nil
}

func (e *emitter) argEntry(a *schema.InputValue, siblings map[string]bool, owner, fieldName string) (string, error) {
	ref, err := resolveRef(e.state, a.Type, siblings)
	if err != nil {
		return "", fmt.Errorf("type %s, field %s, arg %s: %w", owner, fieldName, a.Name, err)
	}
	if a.DefaultValue == nil || *a.DefaultValue == "" {
		return fmt.Sprintf("{Name: %q, Type: %s}", a.Name, e.renderRef(ref)), nil
	}
	def, err := e.renderDefault(*a.DefaultValue)
	if err != nil {
		return "", fmt.Errorf("type %s, field %s, arg %s: %w", owner, fieldName, a.Name, err)
	}
	return fmt.Sprintf("{Name: %q, Type: %s, Default: %s}", a.Name, e.renderRef(ref), def), nil
}

// renderDefault renders a raw default value: a $-prefixed reference
// becomes a Var call, anything else goes through the literal evaluator.
func (e *emitter) renderDefault(raw string) (string, error) {
	if strings.HasPrefix(raw, "$") {
		return fmt.Sprintf("gqlt.Var(%q)", raw[1:]), nil
	}
	v, err := evalLiteral(raw)
	if err != nil {
		return "", err
	}
	return renderValue(v), nil
}

// renderRef renders a Ref as Go source: wrappers as NonNull/ListOf
// calls, resolved names as identifiers, forward names quoted.
func (e *emitter) renderRef(r *Ref) string {
	switch r.Wrap {
	case WrapNonNull:
		return "gqlt.NonNull(" + e.renderRef(r.Of) + ")"
	case WrapList:
		return "gqlt.ListOf(" + e.renderRef(r.Of) + ")"
	}
	if r.Kind == RefResolved {
		return e.ident(r.Name)
	}
	return strconv.Quote(r.Name)
}

func (e *emitter) entryPoints() {
	e.banner("Schema Entry Points")
	e.buf.WriteString("\n")
	fmt.Fprintf(&e.buf, "var _ = %s.Query(%s)\n", e.schemaVar, e.rootRef(e.doc.QueryType))
	fmt.Fprintf(&e.buf, "var _ = %s.Mutation(%s)\n", e.schemaVar, e.rootRef(e.doc.MutationType))
	fmt.Fprintf(&e.buf, "var _ = %s.Subscription(%s)\n", e.schemaVar, e.rootRef(e.doc.SubscriptionType))
}

func (e *emitter) rootRef(name string) string {
	if name == "" {
		return "nil"
	}
	return e.ident(name)
}
