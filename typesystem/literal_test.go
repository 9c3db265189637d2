package typesystem

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/pocotype/ir"
)

func TestConvertBasic(t *testing.T) {
	tests := []struct {
		name    string
		kind    ir.BasicKind
		value   any
		want    any
		wantErr bool
	}{
		{"bool", ir.BasicBool, true, true, false},
		{"bool from int", ir.BasicBool, 1, nil, true},
		{"int", ir.BasicInt32, 42, int64(42), false},
		{"int overflow", ir.BasicInt32, int64(math.MaxInt32) + 1, nil, true},
		{"sbyte negative", ir.BasicInt8, -128, int64(-128), false},
		{"byte negative", ir.BasicUint8, -1, nil, true},
		{"ulong", ir.BasicUint64, uint64(math.MaxUint64), uint64(math.MaxUint64), false},
		{"ushort from int", ir.BasicUint16, 65535, uint64(65535), false},
		{"double", ir.BasicFloat64, 1.5, 1.5, false},
		{"double from int", ir.BasicFloat64, 3, float64(3), false},
		{"float overflow", ir.BasicFloat32, math.MaxFloat64, nil, true},
		{"decimal string", ir.BasicDecimal, "12.50", "12.50", false},
		{"decimal invalid", ir.BasicDecimal, "twelve", nil, true},
		{"decimal int", ir.BasicDecimal, 7, "7", false},
		{"char", ir.BasicChar, "x", 'x', false},
		{"char too long", ir.BasicChar, "xy", nil, true},
		{"string", ir.BasicString, "hello", "hello", false},
		{"string from int", ir.BasicString, 1, nil, true},
		{"bytes", ir.BasicBytes, []byte{1, 2}, []byte{1, 2}, false},
		{"duration", ir.BasicDuration, time.Second, time.Second, false},
		{"guid", ir.BasicGuid, "6BA7B810-9DAD-11D1-80B4-00C04FD430C8", "6ba7b810-9dad-11d1-80b4-00c04fd430c8", false},
		{"guid invalid", ir.BasicGuid, "not-a-guid", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := convertBasic(tt.kind, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLiteralString(t *testing.T) {
	b := newBuilder(t)
	color := mustType(t, b, ir.Ref(ir.Enum("Color", "Red")))
	list := mustType(t, b, ir.Ref(ir.ListOf(ir.Ref(ir.Int()))))
	str := mustType(t, b, ir.Ref(ir.String()))

	tests := []struct {
		name string
		lit  *Literal
		want string
	}{
		{"nil", nil, "<none>"},
		{"null", &Literal{Kind: LiteralNull}, "null"},
		{"string", &Literal{Kind: LiteralBasic, Value: "a\"b"}, `"a\"b"`},
		{"char", &Literal{Kind: LiteralBasic, Value: 'c'}, "'c'"},
		{"bytes", &Literal{Kind: LiteralBasic, Value: []byte{0xca, 0xfe}}, "0xcafe"},
		{"duration", &Literal{Kind: LiteralBasic, Value: 90 * time.Second}, "1m30s"},
		{"time", &Literal{Kind: LiteralBasic, Value: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}, "2024-01-02T03:04:05Z"},
		{"enum", &Literal{Kind: LiteralEnum, Type: color.Nullable(), Member: "Red"}, "Color.Red"},
		{"collection", &Literal{Kind: LiteralEmptyCollection, Type: list}, "List<int>{}"},
		{"variant", &Literal{Kind: LiteralVariant, Type: str, Inner: &Literal{Kind: LiteralBasic, Value: ""}}, `string:""`},
		{"record", &Literal{Kind: LiteralRecord, Fields: []FieldLiteral{
			{Name: "A", Value: &Literal{Kind: LiteralBasic, Value: int64(1)}},
			{Name: "B", Value: &Literal{Kind: LiteralNull}},
		}}, "{A=1, B=null}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.lit.String())
		})
	}
}

func TestCheckEnum(t *testing.T) {
	b := newBuilder(t)

	notInteger := &ir.EnumDescriptor{Name: ir.Name("E1"), Underlying: ir.BasicString}
	_, err := b.RegisterType(ir.Ref(notInteger))
	requireCode(t, err, CodeInvalidEnum)

	dup := &ir.EnumDescriptor{Name: ir.Name("E2"), Underlying: ir.BasicInt32,
		Members: []ir.EnumMember{{Name: "A", Value: int64(0)}, {Name: "A", Value: int64(1)}}}
	_, err = b.RegisterType(ir.Ref(dup))
	requireCode(t, err, CodeInvalidEnum)

	overflow := &ir.EnumDescriptor{Name: ir.Name("E3"), Underlying: ir.BasicUint8,
		Members: []ir.EnumMember{{Name: "A", Value: int64(-1)}}}
	_, err = b.RegisterType(ir.Ref(overflow))
	requireCode(t, err, CodeInvalidEnum)

	n := mustType(t, b, ir.Ref(&ir.EnumDescriptor{Name: ir.Name("E4"), Underlying: ir.BasicUint8,
		Members: []ir.EnumMember{{Name: "A", Value: int64(255)}}}))
	assert.True(t, n.IsValueType())
	assert.Equal(t, ir.BasicUint8, n.Basic())
	assert.Equal(t, uint64(255), n.DefaultValue().Literal.Value)
}
