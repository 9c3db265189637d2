package provider

import (
	"testing"
	"time"

	"github.com/broady/pocotype/internal/errors"
	"github.com/broady/pocotype/ir"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		tag  string
		want func(TagOptions) bool
	}{
		{"", func(o TagOptions) bool { return !o.Skip && !o.Nullable && !o.HasDefault && o.Union == nil }},
		{"-", func(o TagOptions) bool { return o.Skip }},
		{"nullable", func(o TagOptions) bool { return o.Nullable && !o.NotNull }},
		{"notnull, readonly", func(o TagOptions) bool { return o.NotNull && o.ReadOnly }},
		{"allownull,byref", func(o TagOptions) bool { return o.AllowNull && o.ByRef }},
		{"name=Title", func(o TagOptions) bool { return o.Name == "Title" }},
		{"default=42", func(o TagOptions) bool { return o.HasDefault && o.Default == "42" }},
		{"default=", func(o TagOptions) bool { return o.HasDefault && o.Default == "" }},
		{"union=int|string,extendable", func(o TagOptions) bool {
			return len(o.Union) == 2 && o.Union[0] == "int" && o.Union[1] == "string" && o.Extendable
		}},
		{"abstract,oblivious", func(o TagOptions) bool { return o.Abstract && o.Oblivious }},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, err := ParseTag(tt.tag)
			if err != nil {
				t.Fatalf("ParseTag(%q) error: %v", tt.tag, err)
			}
			if !tt.want(got) {
				t.Errorf("ParseTag(%q) = %+v", tt.tag, got)
			}
		})
	}
}

func TestParseTag_Errors(t *testing.T) {
	tests := []string{
		"bogus",
		"nullable,notnull",
		"allownull,disallownull",
		"extendable",
		"readonly=maybe",
	}
	for _, tag := range tests {
		t.Run(tag, func(t *testing.T) {
			_, err := ParseTag(tag)
			if !errors.Is(err, errors.ErrInvalidTag) {
				t.Errorf("ParseTag(%q) error = %v, want ErrInvalidTag", tag, err)
			}
		})
	}
}

func TestTagOptions_Member(t *testing.T) {
	opts, err := ParseTag("disallownull,byref")
	if err != nil {
		t.Fatal(err)
	}
	m, err := opts.member("Tags", ir.NullableRef(ir.ListOf(ir.Ref(ir.String()))), nil)
	if err != nil {
		t.Fatal(err)
	}
	if m.Read != ir.Nullable || m.Write != ir.NotNull || m.Access != ir.ByRef {
		t.Errorf("member = %+v, want nullable read, not null write, by ref", m)
	}

	opts, _ = ParseTag("abstract,oblivious")
	m, err = opts.member("Names", ir.Ref(ir.ListOf(ir.Ref(ir.ListOf(ir.NullableRef(ir.String()))))), nil)
	if err != nil {
		t.Fatal(err)
	}
	cd := m.Type.(*ir.CollectionDescriptor)
	if !cd.Abstract || cd.Args[0].Nullability != ir.Oblivious {
		t.Errorf("collection = %+v, want abstract with oblivious argument", cd)
	}
	if inner := cd.Args[0].Type.(*ir.CollectionDescriptor); inner.Abstract || inner.Args[0].Nullability != ir.Oblivious {
		t.Errorf("inner collection = %+v, want concrete with oblivious argument", inner)
	}

	opts, _ = ParseTag("abstract")
	if _, err := opts.member("Grid", ir.Ref(ir.ArrayOf(ir.Ref(ir.Int()))), nil); !errors.Is(err, errors.ErrInvalidTag) {
		t.Errorf("abstract array error = %v, want ErrInvalidTag", err)
	}
	if _, err := opts.member("Count", ir.Ref(ir.Int()), nil); !errors.Is(err, errors.ErrInvalidTag) {
		t.Errorf("abstract basic error = %v, want ErrInvalidTag", err)
	}

	point := ir.Record("Point")
	resolve := func(name string) ir.TypeDescriptor {
		if name == "Point" {
			return point
		}
		return nil
	}
	opts, _ = ParseTag("union=int|Point?|[]string,default=7")
	m, err = opts.member("Value", ir.Ref(ir.Any()), resolve)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Union.Variants) != 3 {
		t.Fatalf("variants = %v", m.Union.Variants)
	}
	if v := m.Union.Variants[1]; v.Type != ir.TypeDescriptor(point) || v.Nullability != ir.Nullable {
		t.Errorf("variant 1 = %+v, want nullable Point", v)
	}
	if v := m.Union.Variants[2].Type.(*ir.CollectionDescriptor); v.Collection != ir.CollectionList {
		t.Errorf("variant 2 = %+v, want list", v)
	}
	if m.Default != int64(7) {
		t.Errorf("default = %#v, want int64(7)", m.Default)
	}

	opts, _ = ParseTag("union=Missing")
	if _, err := opts.member("Value", ir.Ref(ir.Any()), resolve); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("unknown variant error = %v, want ErrNotFound", err)
	}
}

func TestConvertDefault(t *testing.T) {
	color := ir.Enum("Color", "Red", "Green")
	tests := []struct {
		name string
		td   ir.TypeDescriptor
		raw  string
		want any
	}{
		{"bool", ir.Bool(), "true", true},
		{"int", ir.Int(), "-12", int64(-12)},
		{"hex", ir.Long(), "0x10", int64(16)},
		{"uint", ir.Basic(ir.BasicUint8), "200", uint64(200)},
		{"float", ir.Double(), "1.5", 1.5},
		{"string", ir.String(), "hello", "hello"},
		{"duration", ir.Duration(), "1m30s", 90 * time.Second},
		{"datetime", ir.DateTime(), "2024-01-02T03:04:05Z", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"enum name", color, "Green", "Green"},
		{"enum value", color, "1", int64(1)},
		{"invalid int", ir.Int(), "many", "many"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := convertDefault(tt.td, nil, tt.raw)
			if tm, ok := tt.want.(time.Time); ok {
				if g, ok := got.(time.Time); !ok || !g.Equal(tm) {
					t.Errorf("convertDefault = %v, want %v", got, tt.want)
				}
				return
			}
			if got != tt.want {
				t.Errorf("convertDefault = %#v, want %#v", got, tt.want)
			}
		})
	}

	bytes, ok := convertDefault(ir.Bytes(), nil, "0xcafe").([]byte)
	if !ok || len(bytes) != 2 || bytes[0] != 0xca || bytes[1] != 0xfe {
		t.Errorf("bytes default = %v, want [ca fe]", bytes)
	}

	union := ir.Union(ir.Ref(ir.Int()), ir.Ref(ir.Bool()), ir.Ref(ir.String()))
	for raw, want := range map[string]any{"3": int64(3), "true": true, "2.5": 2.5, "text": "text"} {
		if got := convertDefault(ir.Any(), union, raw); got != want {
			t.Errorf("union default %q = %#v, want %#v", raw, got, want)
		}
	}
}
