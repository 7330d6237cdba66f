package sdl

import (
	"strings"
	"testing"

	"github.com/gqlforge/gqlforge/internal/schema"
)

const fixture = `{
  "queryType": {"name": "Query"},
  "types": [
    {"kind": "SCALAR", "name": "String"},
    {"kind": "SCALAR", "name": "ID"},
    {"kind": "SCALAR", "name": "Int"},
    {"kind": "SCALAR", "name": "Float"},
    {"kind": "SCALAR", "name": "URI"},
    {"kind": "ENUM", "name": "Episode", "description": "The saga episodes", "enumValues": [
      {"name": "NEWHOPE"},
      {"name": "EMPIRE", "isDeprecated": true, "deprecationReason": "renamed"},
      {"name": "JEDI"}
    ]},
    {"kind": "ENUM", "name": "LengthUnit", "enumValues": [{"name": "METER"}, {"name": "FOOT"}]},
    {"kind": "INTERFACE", "name": "Character", "interfaces": [], "fields": [
      {"name": "id", "args": [], "type": {"kind": "NON_NULL", "name": null, "ofType": {"kind": "SCALAR", "name": "ID"}}},
      {"name": "name", "args": [], "type": {"kind": "SCALAR", "name": "String"}}
    ]},
    {"kind": "OBJECT", "name": "Human", "interfaces": [{"kind": "INTERFACE", "name": "Character"}], "fields": [
      {"name": "id", "args": [], "type": {"kind": "NON_NULL", "name": null, "ofType": {"kind": "SCALAR", "name": "ID"}}},
      {"name": "name", "args": [], "type": {"kind": "SCALAR", "name": "String"}},
      {"name": "height", "args": [
        {"name": "unit", "type": {"kind": "ENUM", "name": "LengthUnit"}, "defaultValue": "METER"}
      ], "type": {"kind": "SCALAR", "name": "Float"}}
    ]},
    {"kind": "OBJECT", "name": "Droid", "interfaces": [{"kind": "INTERFACE", "name": "Character"}], "fields": [
      {"name": "id", "args": [], "type": {"kind": "NON_NULL", "name": null, "ofType": {"kind": "SCALAR", "name": "ID"}}},
      {"name": "name", "args": [], "type": {"kind": "SCALAR", "name": "String"}}
    ]},
    {"kind": "UNION", "name": "SearchResult", "possibleTypes": [
      {"kind": "OBJECT", "name": "Human"}, {"kind": "OBJECT", "name": "Droid"}
    ]},
    {"kind": "INPUT_OBJECT", "name": "ReviewInput", "inputFields": [
      {"name": "stars", "type": {"kind": "NON_NULL", "name": null, "ofType": {"kind": "SCALAR", "name": "Int"}}},
      {"name": "commentary", "type": {"kind": "SCALAR", "name": "String"}, "defaultValue": "\"\""}
    ]},
    {"kind": "OBJECT", "name": "Query", "interfaces": [], "fields": [
      {"name": "hero", "args": [
        {"name": "episode", "type": {"kind": "ENUM", "name": "Episode"}, "defaultValue": "JEDI"}
      ], "type": {"kind": "INTERFACE", "name": "Character"}},
      {"name": "search", "args": [
        {"name": "text", "type": {"kind": "SCALAR", "name": "String"}}
      ], "type": {"kind": "LIST", "name": null, "ofType": {"kind": "UNION", "name": "SearchResult"}}}
    ]},
    {"kind": "OBJECT", "name": "__Schema", "interfaces": [], "fields": [
      {"name": "types", "args": [], "type": {"kind": "SCALAR", "name": "String"}}
    ]}
  ],
  "directives": [
    {"name": "skip", "locations": ["FIELD"], "args": []},
    {"name": "cached", "locations": ["FIELD_DEFINITION", "OBJECT"], "args": [
      {"name": "ttl", "type": {"kind": "SCALAR", "name": "Int"}}
    ]}
  ]
}`

func loadDoc(t *testing.T, raw string) *schema.Document {
	t.Helper()
	doc, err := schema.LoadBytes([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	return doc
}

func TestFromDocument_Declarations(t *testing.T) {
	out := FromDocument(loadDoc(t, fixture))

	for _, want := range []string{
		"scalar URI",
		"enum LengthUnit {\n  METER\n  FOOT\n}",
		"interface Character {\n  id: ID!\n  name: String\n}",
		"type Human implements Character {",
		"height(unit: LengthUnit = METER): Float",
		"hero(episode: Episode = JEDI): Character",
		"search(text: String): [SearchResult]",
		"union SearchResult = Human | Droid",
		"input ReviewInput {\n  stars: Int!\n  commentary: String = \"\"\n}",
		"schema {\n  query: Query\n}",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q\n--- output ---\n%s", want, out)
		}
	}
}

func TestFromDocument_SkipsBuiltins(t *testing.T) {
	out := FromDocument(loadDoc(t, fixture))

	for _, banned := range []string{
		"scalar String",
		"scalar Int",
		"scalar ID",
		"scalar Float",
		"__Schema",
		"directive @skip",
	} {
		if strings.Contains(out, banned) {
			t.Errorf("expected output not to contain %q", banned)
		}
	}
}

func TestFromDocument_Descriptions(t *testing.T) {
	out := FromDocument(loadDoc(t, fixture))

	want := "\"\"\"\nThe saga episodes\n\"\"\"\nenum Episode {"
	if !strings.Contains(out, want) {
		t.Errorf("expected description block before enum, got:\n%s", out)
	}
}

func TestFromDocument_Deprecation(t *testing.T) {
	out := FromDocument(loadDoc(t, fixture))

	if !strings.Contains(out, `EMPIRE @deprecated(reason: "renamed")`) {
		t.Errorf("expected deprecated enum value, got:\n%s", out)
	}
}

func TestFromDocument_CustomDirective(t *testing.T) {
	out := FromDocument(loadDoc(t, fixture))

	if !strings.Contains(out, "directive @cached(ttl: Int) on FIELD_DEFINITION | OBJECT") {
		t.Errorf("expected custom directive, got:\n%s", out)
	}
}

func TestFromDocument_NoRootsOmitsSchemaBlock(t *testing.T) {
	out := FromDocument(loadDoc(t, `{"types": [{"kind": "SCALAR", "name": "URI"}]}`))

	if strings.Contains(out, "schema {") {
		t.Errorf("expected no schema block, got:\n%s", out)
	}
}

func TestValidate_OK(t *testing.T) {
	if err := Validate(loadDoc(t, fixture)); err != nil {
		t.Errorf("expected valid schema, got %v", err)
	}
}

func TestValidate_UndefinedType(t *testing.T) {
	doc := loadDoc(t, `{
	  "queryType": {"name": "Query"},
	  "types": [
	    {"kind": "OBJECT", "name": "Query", "interfaces": [], "fields": [
	      {"name": "pet", "args": [], "type": {"kind": "OBJECT", "name": "Animal"}}
	    ]}
	  ]
	}`)

	err := Validate(doc)
	if err == nil {
		t.Fatal("expected validation error for undefined type")
	}
	if !strings.Contains(err.Error(), "Animal") {
		t.Errorf("expected offending type name in error, got %v", err)
	}
}

func TestValidate_MissingInterfaceField(t *testing.T) {
	doc := loadDoc(t, `{
	  "types": [
	    {"kind": "SCALAR", "name": "String"},
	    {"kind": "INTERFACE", "name": "Named", "interfaces": [], "fields": [
	      {"name": "name", "args": [], "type": {"kind": "SCALAR", "name": "String"}}
	    ]},
	    {"kind": "OBJECT", "name": "Ghost", "interfaces": [{"kind": "INTERFACE", "name": "Named"}], "fields": [
	      {"name": "ectoplasm", "args": [], "type": {"kind": "SCALAR", "name": "String"}}
	    ]}
	  ]
	}`)

	if err := Validate(doc); err == nil {
		t.Fatal("expected validation error for missing interface field")
	}
}
