package merger

import (
	"fmt"
	"strconv"
	"strings"
)

// Conflict records one disagreement between merge inputs.
type Conflict struct {
	// Kind is "type", "root", or "directive".
	Kind string

	// Name is the type or directive name, or the entry-point slot
	// (query, mutation, subscription).
	Name string

	// Detail explains the disagreement where the name alone does
	// not, such as the two competing root type names.
	Detail string

	// Sources are the zero-based input indexes that disagree.
	Sources []int
}

func (c Conflict) String() string {
	srcs := make([]string, len(c.Sources))
	for i, s := range c.Sources {
		srcs[i] = strconv.Itoa(s)
	}
	s := fmt.Sprintf("%s %s (inputs %s)", c.Kind, c.Name, strings.Join(srcs, ", "))
	if c.Detail != "" {
		s += ": " + c.Detail
	}
	return s
}

// ConflictError aggregates every conflict found in one merge run, so a
// single report covers them all instead of surfacing one per run.
type ConflictError struct {
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	parts := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		parts[i] = c.String()
	}
	return fmt.Sprintf("schema merge: %d conflicting definitions: %s", len(e.Conflicts), strings.Join(parts, "; "))
}
