package ir

import (
	"strings"
	"testing"
)

func TestValidate_Valid(t *testing.T) {
	node := Record("Node")
	node.Fields = []FieldDescriptor{
		Field("Value", Ref(Int())),
		Field("Next", NullableRef(node)),
	}
	if errs := Validate(node); len(errs) != 0 {
		t.Errorf("Validate() returned %d errors, want 0: %v", len(errs), errs)
	}

	base := Poco("IBase", nil, SettableProperty("Name", Ref(String())))
	ext := Poco("IExt", []*InterfaceDescriptor{base, IPoco()}, Property("Items", Ref(ListOf(Ref(base)))))
	if errs := Validate(ext); len(errs) != 0 {
		t.Errorf("Validate() returned %d errors, want 0: %v", len(errs), errs)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		desc TypeDescriptor
		code string
	}{
		{"nil", nil, "missing_type"},
		{"unnamed record", Record(""), "missing_name"},
		{"duplicate field", Record("R", Field("A", Ref(Int())), Field("A", Ref(Int()))), "duplicate_field"},
		{"nil field type", Record("R", Field("A", TypeRef{})), "missing_type"},
		{"arity", &CollectionDescriptor{Collection: CollectionMap, Args: []TypeRef{Ref(Int())}}, "invalid_arity"},
		{"abstract array", &CollectionDescriptor{Collection: CollectionArray, Abstract: true, Args: []TypeRef{Ref(Int())}}, "invalid_collection"},
		{"enum underlying", &EnumDescriptor{Name: Name("E"), Underlying: BasicString}, "invalid_enum"},
		{"enum value", &EnumDescriptor{Name: Name("E"), Underlying: BasicInt32, Members: []EnumMember{{Name: "A", Value: 1}}}, "invalid_enum"},
		{"enum duplicate", &EnumDescriptor{Name: Name("E"), Underlying: BasicInt32, Members: []EnumMember{{Name: "A", Value: int64(0)}, {Name: "A", Value: int64(1)}}}, "duplicate_member"},
		{"generic", TypeParam(""), "missing_name"},
		{"empty union", Poco("I", nil, PropertyDescriptor{MemberDescriptor: MemberDescriptor{Name: "U", Type: Any(), Union: Union()}}), "invalid_union"},
		{"unknown basic", Basic(BasicKind(42)), "invalid_basic"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(tt.desc)
			if len(errs) == 0 {
				t.Fatal("Validate() returned no errors")
			}
			found := false
			for _, err := range errs {
				if ve, ok := err.(*ValidationError); ok && ve.Code == tt.code {
					found = true
				}
			}
			if !found {
				t.Errorf("Validate() errors = %v, want code %q", errs, tt.code)
			}
		})
	}
}

func TestValidate_CollectsAll(t *testing.T) {
	r := Record("R", Field("", Ref(Int())), Field("B", TypeRef{}))
	errs := Validate(r)
	if len(errs) != 2 {
		t.Fatalf("Validate() returned %d errors, want 2: %v", len(errs), errs)
	}
	if !strings.Contains(errs[1].Error(), "R.B") {
		t.Errorf("error = %q, want mention of R.B", errs[1].Error())
	}
}
