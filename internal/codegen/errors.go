package codegen

import "errors"

// Sentinel errors of the generation pipeline. Both are fatal: the run
// stops at the first occurrence and nothing is written to the sink.
var (
	// ErrLiteralParse reports a default-value literal that does not
	// parse under the GraphQL value grammar.
	ErrLiteralParse = errors.New("invalid value literal")

	// ErrConsistency reports a broken schema invariant: a type no
	// emission phase claims, an implemented interface that has not been
	// emitted, colliding identifiers, a dependency cycle, or a
	// malformed type reference.
	ErrConsistency = errors.New("schema consistency error")
)
