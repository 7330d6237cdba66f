// Package merger combines multiple introspection documents into one
// schema, keeping the first declaration of every type and reporting
// disagreements instead of silently picking a winner.
package merger

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gqlforge/gqlforge/internal/schema"
)

// Options holds merge options.
type Options struct {
	// Name labels the merged schema. Empty means "merged_schema".
	Name string
}

// Result is a successful merge.
type Result struct {
	// Name is the output schema name after defaulting.
	Name string

	// JSON is the merged document in query-result envelope form,
	// indented, ready to write to a file.
	JSON []byte

	// Doc is the merged document loaded back through the schema
	// model, re-sorted with feature flags re-analyzed.
	Doc *schema.Document
}

// rawSchema mirrors the introspection payload with type and directive
// bodies kept as raw JSON, so fields the model does not track survive
// the merge untouched.
type rawSchema struct {
	QueryType        json.RawMessage   `json:"queryType,omitempty"`
	MutationType     json.RawMessage   `json:"mutationType,omitempty"`
	SubscriptionType json.RawMessage   `json:"subscriptionType,omitempty"`
	Types            []json.RawMessage `json:"types"`
	Directives       []json.RawMessage `json:"directives,omitempty"`
}

// claim records the first definition seen under a name.
type claim struct {
	body   json.RawMessage
	norm   string
	source int
}

// rootClaim records the first entry-point name seen for a slot.
type rootClaim struct {
	name   string
	body   json.RawMessage
	source int
}

// Merger merges introspection documents.
type Merger struct{}

// New creates a new Merger.
func New() *Merger {
	return &Merger{}
}

// Merge combines the inputs into a single schema. Each input may use
// any of the accepted document shapes. Types and directives are
// claimed first-input-first; a re-declaration is dropped when its
// normalized JSON matches the claim and recorded as a conflict
// otherwise. Entry-point names must agree wherever two inputs both
// declare them. All conflicts come back together in one
// *ConflictError rather than stopping at the first.
func (m *Merger) Merge(inputs [][]byte, opts *Options) (*Result, error) {
	if len(inputs) == 0 {
		return nil, errors.New("nothing to merge")
	}

	var (
		typeOrder []string
		types     = make(map[string]*claim)
		dirOrder  []string
		dirs      = make(map[string]*claim)
		roots     [3]*rootClaim
		conflicts []Conflict
	)

	for i, input := range inputs {
		payload, err := schema.Envelope(input)
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		var raw rawSchema
		if err := json.Unmarshal(payload, &raw); err != nil {
			return nil, fmt.Errorf("input %d: %w: %v", i, schema.ErrSchemaFormat, err)
		}

		for _, body := range raw.Types {
			name, err := probeName(body, "type")
			if err != nil {
				return nil, fmt.Errorf("input %d: %w", i, err)
			}
			c, ok := types[name]
			if !ok {
				types[name] = &claim{body: body, norm: normalizeJSON(body), source: i}
				typeOrder = append(typeOrder, name)
				continue
			}
			if normalizeJSON(body) == c.norm {
				continue
			}
			conflicts = addConflict(conflicts, "type", name, "", c.source, i)
		}

		slots := []struct {
			label string
			body  json.RawMessage
		}{
			{"query", raw.QueryType},
			{"mutation", raw.MutationType},
			{"subscription", raw.SubscriptionType},
		}
		for si, slot := range slots {
			name := rootName(slot.body)
			if name == "" {
				continue
			}
			cur := roots[si]
			if cur == nil {
				roots[si] = &rootClaim{name: name, body: slot.body, source: i}
				continue
			}
			if cur.name == name {
				continue
			}
			detail := fmt.Sprintf("%s vs %s", cur.name, name)
			conflicts = addConflict(conflicts, "root", slot.label, detail, cur.source, i)
		}

		for _, body := range raw.Directives {
			name, err := probeName(body, "directive")
			if err != nil {
				return nil, fmt.Errorf("input %d: %w", i, err)
			}
			c, ok := dirs[name]
			if !ok {
				dirs[name] = &claim{body: body, norm: normalizeJSON(body), source: i}
				dirOrder = append(dirOrder, name)
				continue
			}
			if normalizeJSON(body) == c.norm {
				continue
			}
			conflicts = addConflict(conflicts, "directive", name, "", c.source, i)
		}
	}

	if len(conflicts) > 0 {
		return nil, &ConflictError{Conflicts: conflicts}
	}

	merged := rawSchema{Types: make([]json.RawMessage, 0, len(typeOrder))}
	if roots[0] != nil {
		merged.QueryType = roots[0].body
	}
	if roots[1] != nil {
		merged.MutationType = roots[1].body
	}
	if roots[2] != nil {
		merged.SubscriptionType = roots[2].body
	}
	for _, name := range typeOrder {
		merged.Types = append(merged.Types, types[name].body)
	}
	for _, name := range dirOrder {
		merged.Directives = append(merged.Directives, dirs[name].body)
	}

	inner, err := json.Marshal(&merged)
	if err != nil {
		return nil, fmt.Errorf("failed to encode merged schema: %w", err)
	}
	var envelope struct {
		Data struct {
			Schema json.RawMessage `json:"__schema"`
		} `json:"data"`
	}
	envelope.Data.Schema = inner
	out, err := json.MarshalIndent(&envelope, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode merged schema: %w", err)
	}

	doc, err := schema.LoadBytes(out)
	if err != nil {
		return nil, fmt.Errorf("merged schema failed to load back: %w", err)
	}

	name := "merged_schema"
	if opts != nil && opts.Name != "" {
		name = opts.Name
	}
	return &Result{Name: name, JSON: out, Doc: doc}, nil
}

// addConflict records a disagreement, folding repeat offenders for the
// same name into one entry.
func addConflict(list []Conflict, kind, name, detail string, sources ...int) []Conflict {
	for idx := range list {
		if list[idx].Kind != kind || list[idx].Name != name {
			continue
		}
		for _, s := range sources {
			if !containsInt(list[idx].Sources, s) {
				list[idx].Sources = append(list[idx].Sources, s)
			}
		}
		return list
	}
	return append(list, Conflict{Kind: kind, Name: name, Detail: detail, Sources: sources})
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func probeName(body json.RawMessage, label string) (string, error) {
	var p struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body, &p); err != nil || p.Name == "" {
		return "", fmt.Errorf("%w: %s entry without a name", schema.ErrSchemaFormat, label)
	}
	return p.Name, nil
}

func rootName(body json.RawMessage) string {
	if len(body) == 0 {
		return ""
	}
	var ref schema.RootRef
	if err := json.Unmarshal(body, &ref); err != nil {
		return ""
	}
	return ref.Name
}

// normalizeJSON reparses a value and re-encodes it, giving a canonical
// byte form (sorted object keys, uniform spacing) so that structural
// equality becomes a string compare.
func normalizeJSON(body json.RawMessage) string {
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return string(body)
	}
	out, err := json.Marshal(v)
	if err != nil {
		return string(body)
	}
	return string(out)
}
