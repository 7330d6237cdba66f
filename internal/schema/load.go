package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
)

// ErrSchemaFormat reports input that is not an introspection document in
// any accepted shape.
var ErrSchemaFormat = errors.New("invalid schema document")

// Load reads and builds a Document from r. See LoadBytes for the
// accepted document shapes.
func Load(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema document: %w", err)
	}
	return LoadBytes(data)
}

// LoadBytes builds a Document from raw JSON. Three shapes are accepted,
// probed in order: an introspection schema itself (object with a
// non-empty "types" array), a query-result envelope ("data.__schema"),
// and a bare envelope ("__schema"). Anything else fails with
// ErrSchemaFormat.
func LoadBytes(data []byte) (*Document, error) {
	payload, err := Envelope(data)
	if err != nil {
		return nil, err
	}
	var raw Schema
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: failed to decode schema payload: %v", ErrSchemaFormat, err)
	}
	return build(&raw)
}

// FromSchema builds a Document from an already decoded schema payload.
// The payload is not copied; callers hand over ownership.
func FromSchema(raw *Schema) (*Document, error) {
	return build(raw)
}

// Envelope locates the schema object inside data and returns its raw
// bytes, applying the three-shape probe described on LoadBytes. Callers
// that need the payload without the model (the merger) use this
// directly.
func Envelope(data []byte) (json.RawMessage, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: document is not a JSON object: %v", ErrSchemaFormat, err)
	}
	// Shape 1: the document itself is the schema. An empty or null
	// "types" does not qualify and falls through to the envelope probes.
	if raw, ok := probe["types"]; ok && nonEmptyArray(raw) {
		return json.RawMessage(data), nil
	}
	// Shape 2: query-result envelope.
	if raw, ok := probe["data"]; ok {
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(raw, &inner); err == nil {
			if s, ok := inner["__schema"]; ok && notNull(s) {
				return s, nil
			}
		}
	}
	// Shape 3: bare envelope.
	if s, ok := probe["__schema"]; ok && notNull(s) {
		return s, nil
	}
	return nil, fmt.Errorf("%w: expected an introspection schema, a query-result envelope, or a __schema wrapper", ErrSchemaFormat)
}

func nonEmptyArray(raw json.RawMessage) bool {
	var arr []json.RawMessage
	return json.Unmarshal(raw, &arr) == nil && len(arr) > 0
}

func notNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

func build(raw *Schema) (*Document, error) {
	doc := &Document{
		Directives: raw.Directives,
		byName:     make(map[string]*Type, len(raw.Types)),
	}
	for _, t := range raw.Types {
		if t == nil || t.Name == "" {
			return nil, fmt.Errorf("%w: type entry without a name", ErrSchemaFormat)
		}
		doc.Types = append(doc.Types, t)
		doc.byName[t.Name] = t
	}
	sort.SliceStable(doc.Types, func(i, j int) bool {
		return doc.Types[i].Name < doc.Types[j].Name
	})
	if raw.QueryType != nil {
		doc.QueryType = raw.QueryType.Name
	}
	if raw.MutationType != nil {
		doc.MutationType = raw.MutationType.Name
	}
	if raw.SubscriptionType != nil {
		doc.SubscriptionType = raw.SubscriptionType.Name
	}
	analyze(doc)
	return doc, nil
}

// analyze derives the feature flags from declared type names, stopping
// as soon as both are known. Date and time names only count as scalars;
// an object that happens to be called Date must not pull in the
// datetime support import.
func analyze(doc *Document) {
	for _, t := range doc.Types {
		if t.Kind == KindScalar && TimeScalars[t.Name] {
			doc.UsesDateTime = true
		}
		if PaginationNames[t.Name] {
			doc.UsesPagination = true
		}
		if doc.UsesDateTime && doc.UsesPagination {
			return
		}
	}
}
