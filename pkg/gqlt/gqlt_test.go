package gqlt

import (
	"strings"
	"testing"
)

func TestSchema_DeclareAndLookup(t *testing.T) {
	s := NewSchema()
	ep := s.Enum("Episode", "NEWHOPE", "EMPIRE", "JEDI")
	uri := s.Scalar("URI")

	if got := s.Type("Episode"); got != ep {
		t.Errorf("expected Episode lookup to return declaration, got %v", got)
	}
	if got := s.Type("URI"); got != uri {
		t.Errorf("expected URI lookup to return declaration, got %v", got)
	}
	if s.Len() != 2 {
		t.Errorf("expected 2 declared types, got %d", s.Len())
	}
	if len(ep.EnumValues) != 3 || ep.EnumValues[0] != "NEWHOPE" {
		t.Errorf("expected enum values in declaration order, got %v", ep.EnumValues)
	}
}

func TestSchema_BaseFallback(t *testing.T) {
	s := NewSchema()

	if got := s.Type("Int"); got != Int {
		t.Errorf("expected base Int, got %v", got)
	}
	if got := s.Type("Nope"); got != nil {
		t.Errorf("expected nil for unknown type, got %v", got)
	}
}

func TestSchema_OwnShadowsBase(t *testing.T) {
	s := NewSchema()
	own := s.Scalar("ID")

	if got := s.Type("ID"); got != own {
		t.Error("expected own ID declaration to shadow the base scalar")
	}
}

func TestSchema_Unexport(t *testing.T) {
	s := NewSchema()
	s.Unexport(Int)

	if got := s.Type("Int"); got != nil {
		t.Errorf("expected masked base name to be invisible, got %v", got)
	}
	// Other base names stay visible.
	if got := s.Type("String"); got != String {
		t.Errorf("expected base String, got %v", got)
	}
}

func TestSchema_DuplicatePanics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on duplicate declaration")
		}
		if !strings.Contains(r.(string), "Episode") {
			t.Errorf("expected panic message to name the type, got %v", r)
		}
	}()

	s := NewSchema()
	s.Enum("Episode", "NEWHOPE")
	s.Scalar("Episode")
}

func TestSchema_Types_DeclarationOrder(t *testing.T) {
	s := NewSchema()
	s.Scalar("B")
	s.Scalar("A")
	s.Scalar("C")

	types := s.Types()
	if len(types) != 3 {
		t.Fatalf("expected 3 types, got %d", len(types))
	}
	got := []string{types[0].Name, types[1].Name, types[2].Name}
	want := []string{"B", "A", "C"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestSchema_Resolve_ForwardReference(t *testing.T) {
	s := NewSchema()
	human := s.Object("Human",
		&Field{Name: "friend", Type: "Droid"},
	)
	droid := s.Object("Droid",
		&Field{Name: "primaryFunction", Type: String},
	)

	if err := s.Resolve(); err != nil {
		t.Fatalf("unexpected resolve error: %v", err)
	}
	if human.Fields[0].Type != droid {
		t.Errorf("expected forward reference to resolve to declaration, got %v", human.Fields[0].Type)
	}
}

func TestSchema_Resolve_Wrappers(t *testing.T) {
	s := NewSchema()
	obj := s.Object("Query",
		&Field{Name: "all", Type: NonNull(ListOf(NonNull("Droid")))},
	)
	s.Object("Droid", &Field{Name: "name", Type: String})

	if err := s.Resolve(); err != nil {
		t.Fatalf("unexpected resolve error: %v", err)
	}
	if got := FormatRef(obj.Fields[0].Type); got != "[Droid!]!" {
		t.Errorf("expected [Droid!]!, got %s", got)
	}
	if got := RefName(obj.Fields[0].Type); got != "Droid" {
		t.Errorf("expected inner name Droid, got %s", got)
	}
}

func TestSchema_Resolve_ArgumentTypes(t *testing.T) {
	s := NewSchema()
	obj := s.Object("Query",
		&Field{
			Name: "hero",
			Type: "Character",
			Args: Args{{Name: "episode", Type: "Episode", Default: "JEDI"}},
		},
	)
	s.Interface("Character", &Field{Name: "name", Type: String})
	ep := s.Enum("Episode", "NEWHOPE", "EMPIRE", "JEDI")

	if err := s.Resolve(); err != nil {
		t.Fatalf("unexpected resolve error: %v", err)
	}
	if obj.Fields[0].Args[0].Type != ep {
		t.Errorf("expected argument type to resolve, got %v", obj.Fields[0].Args[0].Type)
	}
}

func TestSchema_Resolve_Undefined(t *testing.T) {
	s := NewSchema()
	s.Object("Query", &Field{Name: "hero", Type: "Character"})

	err := s.Resolve()
	if err == nil {
		t.Fatal("expected error for dangling reference")
	}
	if !strings.Contains(err.Error(), "Character") {
		t.Errorf("expected error to name the missing type, got %v", err)
	}
}

func TestSchema_Resolve_BadImplements(t *testing.T) {
	s := NewSchema()
	s.Object("Human", Implements(String), &Field{Name: "name", Type: String})

	err := s.Resolve()
	if err == nil {
		t.Fatal("expected error for implementing a non-interface")
	}
	if !strings.Contains(err.Error(), "not an interface") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSchema_Resolve_UnionMembers(t *testing.T) {
	s := NewSchema()
	u := s.Union("SearchResult", "Droid", "Human")
	droid := s.Object("Droid", &Field{Name: "name", Type: String})
	human := s.Object("Human", &Field{Name: "name", Type: String})

	if err := s.Resolve(); err != nil {
		t.Fatalf("unexpected resolve error: %v", err)
	}
	if u.Members[0] != droid || u.Members[1] != human {
		t.Errorf("expected union members to resolve in order, got %v", u.Members)
	}
}

func TestSchema_Resolve_UnionNonObject(t *testing.T) {
	s := NewSchema()
	s.Union("Bad", "Episode")
	s.Enum("Episode", "NEWHOPE")

	err := s.Resolve()
	if err == nil {
		t.Fatal("expected error for non-object union member")
	}
	if !strings.Contains(err.Error(), "not an object") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestObject_PartsCollected(t *testing.T) {
	s := NewSchema()
	char := s.Interface("Character", &Field{Name: "name", Type: String})
	human := s.Object("Human",
		Implements(char),
		&Field{Name: "name", Type: String},
		&Field{Name: "homePlanet", Type: String},
	)

	if len(human.Interfaces) != 1 {
		t.Fatalf("expected 1 interface, got %d", len(human.Interfaces))
	}
	if len(human.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(human.Fields))
	}
	if human.Fields[1].Name != "homePlanet" {
		t.Errorf("expected fields in declaration order, got %v", human.Fields[1].Name)
	}
}

func TestSchema_EntryPoints(t *testing.T) {
	s := NewSchema()
	root := s.Object("Root", &Field{Name: "ok", Type: Boolean})
	s.Query(root).Mutation(nil).Subscription(nil)

	if s.QueryType() != root {
		t.Errorf("expected query entry point, got %v", s.QueryType())
	}
	if s.MutationType() != nil {
		t.Errorf("expected nil mutation, got %v", s.MutationType())
	}
	if s.SubscriptionType() != nil {
		t.Errorf("expected nil subscription, got %v", s.SubscriptionType())
	}
}

func TestType_FieldLookup(t *testing.T) {
	s := NewSchema()
	droid := s.Object("Droid",
		&Field{Name: "name", Type: String},
		&Field{Name: "primaryFunction", Type: String},
	)

	if f := droid.Field("primaryFunction"); f == nil || f.Name != "primaryFunction" {
		t.Errorf("expected field lookup to succeed, got %v", f)
	}
	if f := droid.Field("nope"); f != nil {
		t.Errorf("expected nil for unknown field, got %v", f)
	}
}

func TestNull_DistinctFromAbsent(t *testing.T) {
	withNull := Arg{Name: "a", Type: String, Default: Null}
	without := Arg{Name: "b", Type: String}

	if withNull.Default != Null {
		t.Error("expected explicit null default to compare equal to Null")
	}
	if without.Default == Null {
		t.Error("expected absent default to differ from Null")
	}
	if without.Default != nil {
		t.Error("expected absent default to be nil")
	}
}

func TestFormatRef(t *testing.T) {
	s := NewSchema()
	droid := s.Object("Droid", &Field{Name: "name", Type: String})

	cases := []struct {
		ref  TypeRef
		want string
	}{
		{droid, "Droid"},
		{"Human", "Human"},
		{NonNull(droid), "Droid!"},
		{ListOf(droid), "[Droid]"},
		{NonNull(ListOf(NonNull("Human"))), "[Human!]!"},
		{nil, ""},
	}
	for _, c := range cases {
		if got := FormatRef(c.ref); got != c.want {
			t.Errorf("FormatRef(%v): expected %q, got %q", c.ref, c.want, got)
		}
	}
}

func TestVar(t *testing.T) {
	v := Var("episode")
	if v.Name != "episode" {
		t.Errorf("expected variable name episode, got %q", v.Name)
	}
}
