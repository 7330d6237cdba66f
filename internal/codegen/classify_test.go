package codegen

import (
	"errors"
	"strings"
	"testing"

	"github.com/gqlforge/gqlforge/internal/schema"
)

func mustLoad(t *testing.T, doc string) *schema.Document {
	t.Helper()
	d, err := schema.LoadBytes([]byte(doc))
	if err != nil {
		t.Fatalf("failed to load fixture: %v", err)
	}
	return d
}

func outputNames(b *buckets) []string {
	names := make([]string, len(b.outputs))
	for i, t := range b.outputs {
		names[i] = t.Name
	}
	return names
}

func TestClassify_Partition(t *testing.T) {
	doc := mustLoad(t, `{"types": [
		{"kind": "OBJECT", "name": "Query", "fields": [], "interfaces": []},
		{"kind": "SCALAR", "name": "String"},
		{"kind": "ENUM", "name": "Episode", "enumValues": [{"name": "JEDI"}]},
		{"kind": "INPUT_OBJECT", "name": "Filter", "inputFields": []},
		{"kind": "INTERFACE", "name": "Character", "fields": []},
		{"kind": "UNION", "name": "SearchResult", "possibleTypes": []}
	]}`)

	b, err := classify(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b.scalars) != 2 {
		t.Errorf("expected 2 scalar-phase types, got %d", len(b.scalars))
	}
	if len(b.inputs) != 1 || b.inputs[0].Name != "Filter" {
		t.Errorf("expected input phase [Filter], got %v", b.inputs)
	}
	if got := outputNames(b); len(got) != 2 {
		t.Errorf("expected 2 output-phase types, got %v", got)
	}
	if len(b.unions) != 1 || b.unions[0].Name != "SearchResult" {
		t.Errorf("expected union phase [SearchResult], got %v", b.unions)
	}
}

func TestClassify_SkipsBuiltins(t *testing.T) {
	doc := mustLoad(t, `{"types": [
		{"kind": "ENUM", "name": "__TypeKind", "enumValues": []},
		{"kind": "ENUM", "name": "__DirectiveLocation", "enumValues": []},
		{"kind": "OBJECT", "name": "__Schema", "fields": [], "interfaces": []},
		{"kind": "OBJECT", "name": "__Type", "fields": [], "interfaces": []},
		{"kind": "OBJECT", "name": "Query", "fields": [], "interfaces": []}
	]}`)

	b, err := classify(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b.scalars) != 0 {
		t.Errorf("expected builtin enums to be skipped, got %v", b.scalars)
	}
	if got := outputNames(b); len(got) != 1 || got[0] != "Query" {
		t.Errorf("expected meta objects to be skipped, got %v", got)
	}
}

func TestClassify_UnclaimedKind(t *testing.T) {
	doc := mustLoad(t, `{"types": [
		{"kind": "MYSTERY", "name": "What"}
	]}`)

	_, err := classify(doc)
	if !errors.Is(err, ErrConsistency) {
		t.Fatalf("expected ErrConsistency, got %v", err)
	}
	if !strings.Contains(err.Error(), "What") {
		t.Errorf("expected unclaimed type to be named, got %v", err)
	}
}

func TestOrderOutputs_InterfaceBeforeImplementor(t *testing.T) {
	doc := mustLoad(t, `{"types": [
		{"kind": "OBJECT", "name": "Aardvark", "fields": [],
		 "interfaces": [{"kind": "INTERFACE", "name": "Zoo"}]},
		{"kind": "INTERFACE", "name": "Zoo", "fields": [], "interfaces": []}
	]}`)

	b, err := classify(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := outputNames(b)
	if got[0] != "Zoo" || got[1] != "Aardvark" {
		t.Errorf("expected interface before implementor, got %v", got)
	}
}

func TestOrderOutputs_DeepChain(t *testing.T) {
	// An interface extending an interface, implemented by an object:
	// every link must come strictly before its dependents.
	doc := mustLoad(t, `{"types": [
		{"kind": "OBJECT", "name": "Admin", "fields": [],
		 "interfaces": [{"kind": "INTERFACE", "name": "User"}]},
		{"kind": "INTERFACE", "name": "User", "fields": [],
		 "interfaces": [{"kind": "INTERFACE", "name": "Entity"}]},
		{"kind": "INTERFACE", "name": "Entity", "fields": [], "interfaces": []}
	]}`)

	b, err := classify(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := outputNames(b)
	pos := make(map[string]int)
	for i, name := range got {
		pos[name] = i
	}
	if !(pos["Entity"] < pos["User"] && pos["User"] < pos["Admin"]) {
		t.Errorf("expected Entity < User < Admin, got %v", got)
	}
}

func TestOrderOutputs_InterfaceFreeFirst(t *testing.T) {
	doc := mustLoad(t, `{"types": [
		{"kind": "OBJECT", "name": "Apple", "fields": [],
		 "interfaces": [{"kind": "INTERFACE", "name": "Fruit"}]},
		{"kind": "INTERFACE", "name": "Fruit", "fields": [], "interfaces": []},
		{"kind": "OBJECT", "name": "Zebra", "fields": [], "interfaces": []}
	]}`)

	b, err := classify(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := outputNames(b)
	pos := make(map[string]int)
	for i, name := range got {
		pos[name] = i
	}
	// Zebra has no interfaces, so it comes before Apple even though
	// Apple sorts first by name once Fruit is out.
	if !(pos["Fruit"] < pos["Apple"] && pos["Zebra"] < pos["Apple"]) {
		t.Errorf("expected interface-free types before implementors, got %v", got)
	}
}

func TestOrderOutputs_Deterministic(t *testing.T) {
	fixture := `{"types": [
		{"kind": "INTERFACE", "name": "A", "fields": [], "interfaces": []},
		{"kind": "INTERFACE", "name": "B", "fields": [], "interfaces": []},
		{"kind": "OBJECT", "name": "X", "fields": [],
		 "interfaces": [{"kind": "INTERFACE", "name": "A"}]},
		{"kind": "OBJECT", "name": "Y", "fields": [],
		 "interfaces": [{"kind": "INTERFACE", "name": "A"}, {"kind": "INTERFACE", "name": "B"}]}
	]}`

	first := outputNames(mustClassify(t, fixture))
	for i := 0; i < 10; i++ {
		got := outputNames(mustClassify(t, fixture))
		if strings.Join(got, ",") != strings.Join(first, ",") {
			t.Fatalf("order changed between runs: %v vs %v", first, got)
		}
	}
}

func mustClassify(t *testing.T, fixture string) *buckets {
	t.Helper()
	b, err := classify(mustLoad(t, fixture))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return b
}

func TestOrderOutputs_Cycle(t *testing.T) {
	doc := mustLoad(t, `{"types": [
		{"kind": "INTERFACE", "name": "Chicken", "fields": [],
		 "interfaces": [{"kind": "INTERFACE", "name": "Egg"}]},
		{"kind": "INTERFACE", "name": "Egg", "fields": [],
		 "interfaces": [{"kind": "INTERFACE", "name": "Chicken"}]}
	]}`)

	_, err := classify(doc)
	if !errors.Is(err, ErrConsistency) {
		t.Fatalf("expected ErrConsistency for cycle, got %v", err)
	}
	if !strings.Contains(err.Error(), "cycle") {
		t.Errorf("expected cycle in message, got %v", err)
	}
}

func TestOrderOutputs_ExternalInterfaceDoesNotGate(t *testing.T) {
	// An implements edge pointing at a skipped or undeclared interface
	// must not block emission.
	doc := mustLoad(t, `{"types": [
		{"kind": "OBJECT", "name": "Thing", "fields": [],
		 "interfaces": [{"kind": "INTERFACE", "name": "Elsewhere"}]}
	]}`)

	b, err := classify(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := outputNames(b); len(got) != 1 || got[0] != "Thing" {
		t.Errorf("expected Thing to be ordered, got %v", got)
	}
}
