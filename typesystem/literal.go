package typesystem

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"fortio.org/safecast"
	"github.com/go-playground/validator/v10"

	"github.com/broady/pocotype/ir"
)

// DefaultValueInfo describes the default value of a type.
type DefaultValueInfo struct {
	// HasDefault is false when no default can be synthesized.
	HasDefault bool

	// RequiresInit is true when the zero value of the physical
	// representation is not the default and an initializer must run.
	RequiresInit bool

	// Literal is the default value. Nil when HasDefault is false.
	Literal *Literal
}

// LiteralKind identifies the structure of a Literal.
type LiteralKind int

const (
	LiteralNull LiteralKind = iota
	LiteralBasic
	LiteralEnum
	LiteralEmptyCollection
	LiteralNewPoco
	LiteralRecord
	LiteralVariant
)

func (k LiteralKind) String() string {
	switch k {
	case LiteralNull:
		return "Null"
	case LiteralBasic:
		return "Basic"
	case LiteralEnum:
		return "Enum"
	case LiteralEmptyCollection:
		return "EmptyCollection"
	case LiteralNewPoco:
		return "NewPoco"
	case LiteralRecord:
		return "Record"
	case LiteralVariant:
		return "Variant"
	default:
		return "Unknown"
	}
}

// Literal is a language-neutral description of a value.
//
// Basic values are carried as bool, int64, uint64, float64, rune, string,
// []byte, time.Time or time.Duration. Decimals and guids are strings.
type Literal struct {
	Kind LiteralKind

	// Type is the node of the value. For NewPoco literals it is the
	// primary Poco to instantiate.
	Type *Node

	// Value is the basic value, or the numeric value of an enum member.
	Value any

	// Member is the enum member name.
	Member string

	// Fields are the field values of a record literal.
	Fields []FieldLiteral

	// Inner is the value of a union variant literal.
	Inner *Literal
}

// FieldLiteral is a named field value of a record literal.
type FieldLiteral struct {
	Name  string
	Value *Literal
}

// String renders the literal in a neutral notation.
func (l *Literal) String() string {
	if l == nil {
		return "<none>"
	}
	var sb strings.Builder
	l.write(&sb)
	return sb.String()
}

func (l *Literal) write(sb *strings.Builder) {
	switch l.Kind {
	case LiteralNull:
		sb.WriteString("null")
	case LiteralBasic:
		sb.WriteString(formatBasic(l.Value))
	case LiteralEnum:
		fmt.Fprintf(sb, "%s.%s", l.Type.NonNullable().Signature(), l.Member)
	case LiteralEmptyCollection:
		sb.WriteString(l.Type.NonNullable().Signature())
		sb.WriteString("{}")
	case LiteralNewPoco:
		fmt.Fprintf(sb, "new %s()", l.Type.NonNullable().Signature())
	case LiteralRecord:
		sb.WriteByte('{')
		for i, f := range l.Fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(f.Name)
			sb.WriteByte('=')
			f.Value.write(sb)
		}
		sb.WriteByte('}')
	case LiteralVariant:
		sb.WriteString(l.Type.NonNullable().Signature())
		sb.WriteByte(':')
		l.Inner.write(sb)
	}
}

func formatBasic(v any) string {
	switch x := v.(type) {
	case string:
		return strconv.Quote(x)
	case rune:
		return strconv.QuoteRune(x)
	case []byte:
		return "0x" + hex.EncodeToString(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case time.Duration:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// emptyGuid is the zero 128-bit identifier.
const emptyGuid = "00000000-0000-0000-0000-000000000000"

// zeroValue returns the natural default of a basic kind and whether the
// physical zero value differs from it.
func zeroValue(k ir.BasicKind) (any, bool) {
	switch k {
	case ir.BasicBool:
		return false, false
	case ir.BasicInt8, ir.BasicInt16, ir.BasicInt32, ir.BasicInt64:
		return int64(0), false
	case ir.BasicUint8, ir.BasicUint16, ir.BasicUint32, ir.BasicUint64:
		return uint64(0), false
	case ir.BasicFloat32, ir.BasicFloat64:
		return float64(0), false
	case ir.BasicDecimal:
		return "0", false
	case ir.BasicChar:
		return rune(0), false
	case ir.BasicString:
		return "", true
	case ir.BasicBytes:
		return []byte{}, true
	case ir.BasicDateTime:
		return time.Time{}, false
	case ir.BasicDuration:
		return time.Duration(0), false
	case ir.BasicGuid:
		return emptyGuid, false
	}
	return nil, false
}

// toInteger normalizes any Go integer to int64 or uint64.
func toInteger(v any) (any, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return uint64(x), true
	case uint8:
		return uint64(x), true
	case uint16:
		return uint64(x), true
	case uint32:
		return uint64(x), true
	case uint64:
		return x, true
	}
	return nil, false
}

// fitInteger checks that v (int64 or uint64) is representable by the
// integer kind k and returns it in the kind's signedness.
func fitInteger(k ir.BasicKind, v any) (any, error) {
	switch x := v.(type) {
	case int64:
		return fitFrom(k, x)
	case uint64:
		return fitFrom(k, x)
	}
	return nil, fmt.Errorf("%v is not an integer", v)
}

func fitFrom[T int64 | uint64](k ir.BasicKind, v T) (any, error) {
	var err error
	switch k {
	case ir.BasicInt8:
		_, err = safecast.Conv[int8](v)
	case ir.BasicInt16:
		_, err = safecast.Conv[int16](v)
	case ir.BasicInt32:
		_, err = safecast.Conv[int32](v)
	case ir.BasicInt64:
		_, err = safecast.Conv[int64](v)
	case ir.BasicUint8:
		_, err = safecast.Conv[uint8](v)
	case ir.BasicUint16:
		_, err = safecast.Conv[uint16](v)
	case ir.BasicUint32:
		_, err = safecast.Conv[uint32](v)
	case ir.BasicUint64:
		_, err = safecast.Conv[uint64](v)
	default:
		return nil, fmt.Errorf("%s is not an integer type", k)
	}
	if err != nil {
		return nil, fmt.Errorf("%v overflows %s", v, k)
	}
	if k.IsUnsigned() {
		u, _ := safecast.Conv[uint64](v)
		return u, nil
	}
	i, _ := safecast.Conv[int64](v)
	return i, nil
}

var validate = validator.New()

// convertBasic validates a declared default against a basic kind and
// returns its literal value.
func convertBasic(k ir.BasicKind, v any) (any, error) {
	switch k {
	case ir.BasicBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case ir.BasicFloat32, ir.BasicFloat64:
		switch x := v.(type) {
		case float32:
			return float64(x), nil
		case float64:
			if k == ir.BasicFloat32 && math.Abs(x) > math.MaxFloat32 {
				return nil, fmt.Errorf("%v overflows %s", x, k)
			}
			return x, nil
		}
		switch i, _ := toInteger(v); x := i.(type) {
		case int64:
			return float64(x), nil
		case uint64:
			return float64(x), nil
		}
	case ir.BasicDecimal:
		switch x := v.(type) {
		case string:
			if err := validate.Var(x, "numeric"); err != nil {
				return nil, fmt.Errorf("%q is not a decimal number", x)
			}
			return x, nil
		case float32, float64:
			return fmt.Sprint(x), nil
		}
		if i, ok := toInteger(v); ok {
			return fmt.Sprint(i), nil
		}
	case ir.BasicChar:
		switch x := v.(type) {
		case rune:
			return x, nil
		case string:
			if r := []rune(x); len(r) == 1 {
				return r[0], nil
			}
		}
	case ir.BasicString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case ir.BasicBytes:
		if b, ok := v.([]byte); ok {
			return b, nil
		}
	case ir.BasicDateTime:
		if t, ok := v.(time.Time); ok {
			return t, nil
		}
	case ir.BasicDuration:
		if d, ok := v.(time.Duration); ok {
			return d, nil
		}
	case ir.BasicGuid:
		if s, ok := v.(string); ok {
			s = strings.ToLower(s)
			if err := validate.Var(s, "uuid"); err != nil {
				return nil, fmt.Errorf("%q is not a guid", v)
			}
			return s, nil
		}
	default:
		if k.IsInteger() {
			i, ok := toInteger(v)
			if !ok {
				break
			}
			return fitInteger(k, i)
		}
	}
	return nil, fmt.Errorf("%v (%T) is not a valid %s", v, v, k)
}
