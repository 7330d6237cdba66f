package codegen

import (
	"fmt"
	"strings"

	"github.com/gqlforge/gqlforge/internal/schema"
)

// buckets is the classified emission plan, consumed as four sequential
// phases. Scalars and enums go first, then input objects, then output
// objects and interfaces in dependency order, then unions.
type buckets struct {
	scalars []*schema.Type
	inputs  []*schema.Type
	outputs []*schema.Type
	unions  []*schema.Type
}

// classify partitions the document's types into the four phases.
// Builtin introspection enums and meta objects are claimed but skipped.
// A type no phase claims is an ErrConsistency.
func classify(doc *schema.Document) (*buckets, error) {
	b := &buckets{}
	var outputs []*schema.Type
	var unclaimed []string
	for _, t := range doc.Types {
		switch t.Kind {
		case schema.KindScalar:
			b.scalars = append(b.scalars, t)
		case schema.KindEnum:
			if schema.BuiltinEnums[t.Name] {
				continue
			}
			b.scalars = append(b.scalars, t)
		case schema.KindInputObject:
			b.inputs = append(b.inputs, t)
		case schema.KindObject, schema.KindInterface:
			if schema.BuiltinObjects[t.Name] {
				continue
			}
			outputs = append(outputs, t)
		case schema.KindUnion:
			b.unions = append(b.unions, t)
		default:
			unclaimed = append(unclaimed, t.Name)
		}
	}
	if len(unclaimed) > 0 {
		return nil, fmt.Errorf("%w: no emission phase claims: %s", ErrConsistency, strings.Join(unclaimed, ", "))
	}

	ordered, err := orderOutputs(outputs)
	if err != nil {
		return nil, err
	}
	b.outputs = ordered
	return b, nil
}

// orderOutputs computes the output phase's total order: a stable
// topological sort over the direct implements edges, so every interface
// strictly precedes its implementors through chains of any depth. Among
// ready candidates, interface-free types win, then the lowest original
// (name-sorted) position. A cycle is an ErrConsistency.
func orderOutputs(types []*schema.Type) ([]*schema.Type, error) {
	position := make(map[string]int, len(types))
	for i, t := range types {
		position[t.Name] = i
	}

	// Interfaces outside this phase cannot gate emission.
	indegree := make([]int, len(types))
	dependents := make(map[string][]int)
	for i, t := range types {
		for j := range t.Interfaces {
			name := t.Interfaces[j].TypeName()
			if _, ok := position[name]; !ok {
				continue
			}
			indegree[i]++
			dependents[name] = append(dependents[name], i)
		}
	}

	ordered := make([]*schema.Type, 0, len(types))
	done := make([]bool, len(types))
	for len(ordered) < len(types) {
		pick := -1
		for i, t := range types {
			if done[i] || indegree[i] != 0 {
				continue
			}
			if pick == -1 {
				pick = i
				continue
			}
			if len(t.Interfaces) == 0 && len(types[pick].Interfaces) > 0 {
				pick = i
			}
		}
		if pick == -1 {
			var stuck []string
			for i, t := range types {
				if !done[i] {
					stuck = append(stuck, t.Name)
				}
			}
			return nil, fmt.Errorf("%w: interface cycle among: %s", ErrConsistency, strings.Join(stuck, ", "))
		}
		done[pick] = true
		ordered = append(ordered, types[pick])
		for _, dep := range dependents[types[pick].Name] {
			indegree[dep]--
		}
	}
	return ordered, nil
}
