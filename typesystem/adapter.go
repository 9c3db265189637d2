package typesystem

import (
	"github.com/broady/pocotype/ir"
)

// Descriptor is the normalized form of a reflected member or bare type.
type Descriptor struct {
	// Name is the member name; empty for bare types.
	Name string

	// Type is the underlying declared type.
	Type ir.TypeDescriptor

	// IsNullable reports whether null may be assigned. The write state wins
	// when read and write states differ.
	IsNullable bool

	// IsHomogeneousNullability is true when ReadNullable == WriteNullable.
	IsHomogeneousNullability bool

	ReadNullable  bool
	WriteNullable bool

	// Oblivious is true when the nullability was not declared and was
	// derived from the type being a reference or a value type.
	Oblivious bool

	// GenericArguments are the normalized collection arguments.
	GenericArguments []Descriptor

	// AccessMode is ByRef for bare types and mutation-in-place accessors.
	AccessMode ir.AccessMode

	ReadOnly bool
	Default  any
	Union    *ir.UnionSpec
}

// Describe normalizes a reflected member.
func Describe(m ir.MemberDescriptor) (Descriptor, error) {
	if m.Type == nil {
		return Descriptor{}, Errorf(CodeUnsupportedType, "Member '%s' has no type.", m.Name)
	}
	if p := openParameter(m.Type); p != nil {
		return Descriptor{}, Errorf(CodeUnsupportedGenericDefinition,
			"Member '%s' uses the open generic parameter '%s': generic type definitions are not supported.",
			memberLabel(m.Name), p.ParamName).WithPath(m.Name)
	}

	ref := isReferenceType(m.Type)
	write := m.Write
	if m.Access == ir.ByRef {
		write = m.Read
	}
	d := Descriptor{
		Name:          m.Name,
		Type:          m.Type,
		ReadNullable:  resolveNullability(m.Read, ref),
		WriteNullable: resolveNullability(write, ref),
		Oblivious:     write == ir.Oblivious,
		AccessMode:    m.Access,
		ReadOnly:      m.ReadOnly,
		Default:       m.Default,
		Union:         m.Union,
	}
	d.IsNullable = d.WriteNullable
	d.IsHomogeneousNullability = d.ReadNullable == d.WriteNullable

	if c, ok := m.Type.(*ir.CollectionDescriptor); ok {
		for _, a := range c.Args {
			ad, err := DescribeType(a)
			if err != nil {
				return Descriptor{}, err
			}
			d.GenericArguments = append(d.GenericArguments, ad)
		}
	}
	return d, nil
}

// DescribeType normalizes a bare type reference. Bare types have
// homogeneous nullability and are accessed by reference.
func DescribeType(ref ir.TypeRef) (Descriptor, error) {
	return Describe(ir.MemberDescriptor{
		Type:   ref.Type,
		Read:   ref.Nullability,
		Write:  ref.Nullability,
		Access: ir.ByRef,
	})
}

// resolveNullability maps a declared null state to a boolean. Oblivious
// reference types are nullable; value types are never oblivious-nullable.
func resolveNullability(n ir.Nullability, reference bool) bool {
	switch n {
	case ir.Nullable:
		return true
	case ir.NotNull:
		return false
	default:
		return reference
	}
}

func isReferenceType(td ir.TypeDescriptor) bool {
	switch t := td.(type) {
	case *ir.BasicDescriptor:
		return t.Basic.IsReferenceType()
	case *ir.EnumDescriptor, *ir.RecordDescriptor:
		return false
	default:
		return true
	}
}

// openParameter returns the first unresolved generic parameter of td,
// searching collection arguments.
func openParameter(td ir.TypeDescriptor) *ir.GenericParameterDescriptor {
	switch t := td.(type) {
	case *ir.GenericParameterDescriptor:
		return t
	case *ir.CollectionDescriptor:
		for _, a := range t.Args {
			if p := openParameter(a.Type); p != nil {
				return p
			}
		}
	}
	return nil
}

func memberLabel(name string) string {
	if name == "" {
		return "<type>"
	}
	return name
}
