package schema

import (
	"errors"
	"strings"
	"testing"
)

const minimalSchema = `{
  "queryType": {"name": "Query"},
  "mutationType": null,
  "subscriptionType": null,
  "types": [
    {"kind": "OBJECT", "name": "Query", "fields": [
      {"name": "hero", "args": [], "type": {"kind": "OBJECT", "name": "Droid", "ofType": null}}
    ], "interfaces": []},
    {"kind": "OBJECT", "name": "Droid", "fields": [
      {"name": "name", "args": [], "type": {"kind": "NON_NULL", "name": null, "ofType": {"kind": "SCALAR", "name": "String", "ofType": null}}}
    ], "interfaces": []},
    {"kind": "SCALAR", "name": "String"}
  ],
  "directives": []
}`

func TestLoadBytes_DirectShape(t *testing.T) {
	doc, err := LoadBytes([]byte(minimalSchema))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Len() != 3 {
		t.Errorf("expected 3 types, got %d", doc.Len())
	}
	if doc.QueryType != "Query" {
		t.Errorf("expected query root Query, got %q", doc.QueryType)
	}
	if doc.MutationType != "" {
		t.Errorf("expected empty mutation root, got %q", doc.MutationType)
	}
}

func TestLoadBytes_EnvelopeShapes(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"query result", `{"data": {"__schema": ` + minimalSchema + `}}`},
		{"bare envelope", `{"__schema": ` + minimalSchema + `}`},
	}

	for _, c := range cases {
		doc, err := LoadBytes([]byte(c.doc))
		if err != nil {
			t.Errorf("%s: unexpected error: %v", c.name, err)
			continue
		}
		if doc.Len() != 3 {
			t.Errorf("%s: expected 3 types, got %d", c.name, doc.Len())
		}
		if doc.QueryType != "Query" {
			t.Errorf("%s: expected query root Query, got %q", c.name, doc.QueryType)
		}
	}
}

func TestLoadBytes_EmptyTypesFallsThrough(t *testing.T) {
	// An empty "types" array does not satisfy the direct shape; with an
	// envelope alongside, the envelope wins.
	doc, err := LoadBytes([]byte(`{"types": [], "__schema": ` + minimalSchema + `}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Len() != 3 {
		t.Errorf("expected envelope schema to be loaded, got %d types", doc.Len())
	}

	// With nothing else present it is a format error.
	_, err = LoadBytes([]byte(`{"types": []}`))
	if !errors.Is(err, ErrSchemaFormat) {
		t.Errorf("expected ErrSchemaFormat for bare empty types, got %v", err)
	}
}

func TestLoadBytes_Malformed(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"array", `[1, 2, 3]`},
		{"scalar", `42`},
		{"not json", `{{{`},
		{"unrelated object", `{"hello": "world"}`},
		{"null schema", `{"__schema": null}`},
		{"null data", `{"data": null}`},
	}

	for _, c := range cases {
		_, err := LoadBytes([]byte(c.doc))
		if !errors.Is(err, ErrSchemaFormat) {
			t.Errorf("%s: expected ErrSchemaFormat, got %v", c.name, err)
		}
	}
}

func TestLoadBytes_TypesSortedByName(t *testing.T) {
	doc, err := LoadBytes([]byte(minimalSchema))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var names []string
	for _, typ := range doc.Types {
		names = append(names, typ.Name)
	}
	want := []string{"Droid", "Query", "String"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("expected sorted names %v, got %v", want, names)
	}
}

func TestLoadBytes_TypeLookup(t *testing.T) {
	doc, err := LoadBytes([]byte(minimalSchema))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	droid := doc.Type("Droid")
	if droid == nil {
		t.Fatal("expected Droid lookup to succeed")
	}
	if droid.Kind != KindObject {
		t.Errorf("expected OBJECT kind, got %s", droid.Kind)
	}
	if doc.Type("Nope") != nil {
		t.Error("expected nil for unknown type")
	}
}

func TestLoadBytes_UnnamedType(t *testing.T) {
	_, err := LoadBytes([]byte(`{"types": [{"kind": "SCALAR"}]}`))
	if !errors.Is(err, ErrSchemaFormat) {
		t.Errorf("expected ErrSchemaFormat for unnamed type, got %v", err)
	}
}

func TestAnalyze_FeatureFlags(t *testing.T) {
	cases := []struct {
		name           string
		types          string
		wantDateTime   bool
		wantPagination bool
	}{
		{
			"plain",
			`[{"kind": "SCALAR", "name": "String"}]`,
			false, false,
		},
		{
			"datetime",
			`[{"kind": "SCALAR", "name": "DateTime"}]`,
			true, false,
		},
		{
			"pagination",
			`[{"kind": "INTERFACE", "name": "Node"}, {"kind": "OBJECT", "name": "PageInfo"}]`,
			false, true,
		},
		{
			"both",
			`[{"kind": "SCALAR", "name": "Date"}, {"kind": "OBJECT", "name": "PageInfo"}]`,
			true, true,
		},
		{
			"object named Date is not a time scalar",
			`[{"kind": "OBJECT", "name": "Date"}]`,
			false, false,
		},
	}

	for _, c := range cases {
		doc, err := LoadBytes([]byte(`{"types": ` + c.types + `}`))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", c.name, err)
		}
		if doc.UsesDateTime != c.wantDateTime {
			t.Errorf("%s: expected UsesDateTime=%v, got %v", c.name, c.wantDateTime, doc.UsesDateTime)
		}
		if doc.UsesPagination != c.wantPagination {
			t.Errorf("%s: expected UsesPagination=%v, got %v", c.name, c.wantPagination, doc.UsesPagination)
		}
	}
}

func TestTypeRef_Unwrap(t *testing.T) {
	name := "String"
	ref := &TypeRef{
		Kind: KindNonNull,
		OfType: &TypeRef{
			Kind: KindList,
			OfType: &TypeRef{
				Kind: KindNonNull,
				OfType: &TypeRef{Kind: KindScalar, Name: &name},
			},
		},
	}

	inner := ref.Unwrap()
	if inner.Kind != KindScalar {
		t.Errorf("expected innermost SCALAR, got %s", inner.Kind)
	}
	if ref.TypeName() != "String" {
		t.Errorf("expected type name String, got %q", ref.TypeName())
	}

	flat := &TypeRef{Kind: KindScalar, Name: &name}
	if flat.Unwrap() != flat {
		t.Error("expected unwrapping a flat ref to return itself")
	}
}
