package ir

import "testing"

func TestSchema_AddType(t *testing.T) {
	var s Schema
	user := Poco("IUser", nil, SettableProperty("Name", Ref(String())))
	s.AddType(Record("Point", Field("X", Ref(Int()))))
	s.AddType(user)
	s.AddType(Enum("Color", "Red", "Green"))

	if len(s.Types) != 3 {
		t.Fatalf("len(Types) = %d, want 3", len(s.Types))
	}
	if len(s.Pocos) != 1 || s.Pocos[0] != user {
		t.Errorf("Pocos = %v, want [IUser]", s.Pocos)
	}
	if got := s.FindType(Name("Color")); got == nil || got.Kind() != KindEnum {
		t.Errorf("FindType(Color) = %v, want enum", got)
	}
	if got := s.FindType(Name("Missing")); got != nil {
		t.Errorf("FindType(Missing) = %v, want nil", got)
	}
	if got := s.FindPoco("IUser"); got != user {
		t.Errorf("FindPoco(IUser) = %v, want %v", got, user)
	}
}

func TestSchema_Validate(t *testing.T) {
	var s Schema
	shared := Record("Shared", Field("A", Ref(Int())), Field("A", Ref(Int())))
	s.AddType(shared)
	s.AddType(Record("Holder", Field("S", Ref(shared))))
	s.AddType(Record("Holder"))

	errs := s.Validate()
	codes := make(map[string]int)
	for _, err := range errs {
		codes[err.(*ValidationError).Code]++
	}
	if codes["duplicate_type"] != 1 {
		t.Errorf("duplicate_type count = %d, want 1 (errors: %v)", codes["duplicate_type"], errs)
	}
	// Shared is reachable twice but reported once.
	if codes["duplicate_field"] != 1 {
		t.Errorf("duplicate_field count = %d, want 1 (errors: %v)", codes["duplicate_field"], errs)
	}
}
