package provider

import (
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/broady/pocotype/internal/errors"
	"github.com/broady/pocotype/ir"
)

// resolver finds a declared type by its Go name. It returns nil when the
// name is unknown.
type resolver func(name string) ir.TypeDescriptor

// goBasics maps Go spellings of builtin types to basic kinds.
var goBasics = map[string]ir.BasicKind{
	"bool":          ir.BasicBool,
	"int8":          ir.BasicInt8,
	"int16":         ir.BasicInt16,
	"int32":         ir.BasicInt32,
	"int64":         ir.BasicInt64,
	"int":           ir.BasicInt64,
	"uint8":         ir.BasicUint8,
	"byte":          ir.BasicUint8,
	"uint16":        ir.BasicUint16,
	"uint32":        ir.BasicUint32,
	"uint64":        ir.BasicUint64,
	"uint":          ir.BasicUint64,
	"float32":       ir.BasicFloat32,
	"float64":       ir.BasicFloat64,
	"rune":          ir.BasicChar,
	"string":        ir.BasicString,
	"[]byte":        ir.BasicBytes,
	"time.Time":     ir.BasicDateTime,
	"time.Duration": ir.BasicDuration,
}

// parseVariant resolves the spelling of a union variant: a Go builtin, a
// basic kind name (long, Guid), any, a declared type name, []T for a list
// or any of these followed by ? for a nullable variant.
func parseVariant(spelling string, resolve resolver) (ir.TypeRef, error) {
	s := strings.TrimSpace(spelling)
	nullability := ir.NotNull
	if strings.HasSuffix(s, "?") {
		nullability = ir.Nullable
		s = strings.TrimSuffix(s, "?")
	}
	td, err := parseVariantType(s, resolve)
	if err != nil {
		return ir.TypeRef{}, err
	}
	return ir.TypeRef{Type: td, Nullability: nullability}, nil
}

func parseVariantType(s string, resolve resolver) (ir.TypeDescriptor, error) {
	if k, ok := goBasics[s]; ok {
		return ir.Basic(k), nil
	}
	if k, ok := ir.ParseBasicKind(s); ok {
		return ir.Basic(k), nil
	}
	switch s {
	case "any", "object":
		return ir.Any(), nil
	}
	if elem, ok := strings.CutPrefix(s, "[]"); ok {
		ref, err := parseVariant(elem, resolve)
		if err != nil {
			return nil, err
		}
		return ir.ListOf(ref), nil
	}
	if resolve != nil {
		if td := resolve(s); td != nil {
			return td, nil
		}
	}
	return nil, errors.Wrapf(errors.ErrNotFound, "union variant %q", s)
}

// convertDefault converts the raw default of a tag to the value expected
// by the type system for td. Values that cannot be converted are passed
// through as strings and rejected by the builder.
func convertDefault(td ir.TypeDescriptor, u *ir.UnionSpec, raw string) any {
	if u != nil {
		return guessValue(raw)
	}
	switch d := td.(type) {
	case *ir.BasicDescriptor:
		if v, ok := basicValue(d.Basic, raw); ok {
			return v
		}
	case *ir.EnumDescriptor:
		if i, err := strconv.ParseInt(raw, 0, 64); err == nil {
			return i
		}
		if n, err := strconv.ParseUint(raw, 0, 64); err == nil {
			return n
		}
	}
	return raw
}

func basicValue(k ir.BasicKind, raw string) (any, bool) {
	switch {
	case k == ir.BasicBool:
		b, err := strconv.ParseBool(raw)
		return b, err == nil
	case k.IsUnsigned():
		u, err := strconv.ParseUint(raw, 0, 64)
		return u, err == nil
	case k.IsInteger():
		i, err := strconv.ParseInt(raw, 0, 64)
		return i, err == nil
	case k == ir.BasicFloat32 || k == ir.BasicFloat64:
		f, err := strconv.ParseFloat(raw, 64)
		return f, err == nil
	case k == ir.BasicBytes:
		b, err := hex.DecodeString(strings.TrimPrefix(raw, "0x"))
		return b, err == nil
	case k == ir.BasicDateTime:
		t, err := time.Parse(time.RFC3339, raw)
		return t, err == nil
	case k == ir.BasicDuration:
		d, err := time.ParseDuration(raw)
		return d, err == nil
	}
	return raw, true
}

// guessValue picks the most specific Go value spelled by raw.
func guessValue(raw string) any {
	if i, err := strconv.ParseInt(raw, 0, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}
