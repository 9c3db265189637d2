package ir

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestMarshalJSON_Kinds(t *testing.T) {
	tests := []struct {
		name string
		desc TypeDescriptor
		want string
	}{
		{"basic", Int(), `"kind":"basic"`},
		{"any", Any(), `"kind":"any"`},
		{"enum", Enum("Color", "Red"), `"kind":"enum"`},
		{"record", Record("Point"), `"kind":"record"`},
		{"collection", ListOf(Ref(Int())), `"collection":"List"`},
		{"interface", Poco("IUser", nil), `"role":"Concrete"`},
		{"generic", TypeParam("T"), `"paramName":"T"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.desc)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if !strings.Contains(string(data), tt.want) {
				t.Errorf("Marshal() = %s, want substring %s", data, tt.want)
			}
		})
	}
}

func TestMarshalJSON_Cycle(t *testing.T) {
	node := Record("Node")
	node.Fields = []FieldDescriptor{Field("Next", NullableRef(node))}

	data, err := json.Marshal(node)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"ref":"Node"`) {
		t.Errorf("Marshal() = %s, want self reference", data)
	}
	if !strings.Contains(string(data), `"nullability":"Nullable"`) {
		t.Errorf("Marshal() = %s, want nullable field", data)
	}
}
