package codegen

import (
	"fmt"

	"github.com/gqlforge/gqlforge/internal/schema"
)

// RefKind says how a concrete reference renders.
type RefKind int

const (
	// RefResolved renders as the declared Go identifier.
	RefResolved RefKind = iota
	// RefForward renders as the quoted schema name; the runtime
	// resolves it lazily on first use.
	RefForward
)

// WrapKind is one wrapper level of a reference.
type WrapKind int

const (
	WrapNone WrapKind = iota
	WrapNonNull
	WrapList
)

// Ref is a render-ready type reference: either a wrapper around an
// inner Ref, or a concrete schema name tagged resolved or forward.
type Ref struct {
	Wrap WrapKind
	Of   *Ref

	Kind RefKind
	Name string
}

// resolveRef turns an introspection TypeRef into a Ref. Wrappers recurse
// to the inner reference. A concrete name resolves when it has already
// been emitted and does not collide with a sibling field name of the
// declaration under emission; anything else stays forward. The sibling
// check compares raw schema names on both sides, and besides shadowing
// it keeps self-references out of Go initialization cycles.
func resolveRef(state *EmissionState, ref *schema.TypeRef, siblings map[string]bool) (*Ref, error) {
	if ref == nil {
		return nil, fmt.Errorf("%w: missing type reference", ErrConsistency)
	}
	switch ref.Kind {
	case schema.KindNonNull:
		inner, err := resolveRef(state, ref.OfType, siblings)
		if err != nil {
			return nil, err
		}
		return &Ref{Wrap: WrapNonNull, Of: inner}, nil
	case schema.KindList:
		inner, err := resolveRef(state, ref.OfType, siblings)
		if err != nil {
			return nil, err
		}
		return &Ref{Wrap: WrapList, Of: inner}, nil
	default:
		if ref.Name == nil || *ref.Name == "" {
			return nil, fmt.Errorf("%w: unnamed %s reference", ErrConsistency, ref.Kind)
		}
		name := *ref.Name
		if state.Written(name) && !siblings[name] {
			return &Ref{Kind: RefResolved, Name: name}, nil
		}
		return &Ref{Kind: RefForward, Name: name}, nil
	}
}
