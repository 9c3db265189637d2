package ir

// Nullability is the declared null state of a type reference.
type Nullability int

const (
	// Oblivious means the provider could not derive a null state, e.g. a
	// generic argument read from a bare type. The builder treats oblivious
	// reference types as nullable and oblivious value types as not null.
	Oblivious Nullability = iota
	NotNull
	Nullable
)

// String returns the string representation of the nullability.
func (n Nullability) String() string {
	switch n {
	case Oblivious:
		return "Oblivious"
	case NotNull:
		return "NotNull"
	case Nullable:
		return "Nullable"
	default:
		return "Unknown"
	}
}

// TypeRef is a use of a type together with its declared null state.
type TypeRef struct {
	Type        TypeDescriptor
	Nullability Nullability
}

// Ref returns a not-null reference to t.
func Ref(t TypeDescriptor) TypeRef {
	return TypeRef{Type: t, Nullability: NotNull}
}

// NullableRef returns a nullable reference to t.
func NullableRef(t TypeDescriptor) TypeRef {
	return TypeRef{Type: t, Nullability: Nullable}
}

// ObliviousRef returns a reference to t with no declared null state.
func ObliviousRef(t TypeDescriptor) TypeRef {
	return TypeRef{Type: t, Nullability: Oblivious}
}

// AccessMode describes how a member exposes its value.
type AccessMode int

const (
	// ByValue members are copy-assigned: reading returns a copy.
	ByValue AccessMode = iota
	// ByRef members are mutated in place through the accessor.
	ByRef
)

// String returns the string representation of the access mode.
func (m AccessMode) String() string {
	if m == ByRef {
		return "ByRef"
	}
	return "ByValue"
}

// MemberDescriptor describes a reflected member (field, property) or, when
// Name is empty, a bare type registration.
type MemberDescriptor struct {
	// Name is the member name. Empty for bare types.
	Name string

	// Type is the member's declared type.
	Type TypeDescriptor

	// Read is the null state observed when reading the member.
	Read Nullability

	// Write is the null state accepted when assigning the member.
	// Ignored for ByRef members whose write state is their read state.
	Write Nullability

	// Access is the accessor kind.
	Access AccessMode

	// ReadOnly is true when the member has no setter.
	ReadOnly bool

	// Default is an attribute-declared default value, or nil.
	// Supported values are bool, signed and unsigned integers, floats,
	// strings, time.Time, time.Duration and []byte.
	Default any

	// Union lists the allowed variants when the member is a union.
	Union *UnionSpec
}

// Member returns a by-value member of type ref.
func Member(name string, ref TypeRef) MemberDescriptor {
	return MemberDescriptor{Name: name, Type: ref.Type, Read: ref.Nullability, Write: ref.Nullability}
}

// UnionSpec lists the alternative types a union member may hold.
type UnionSpec struct {
	// Variants are the allowed types in declaration order.
	Variants []TypeRef

	// CanBeExtended allows specializing Poco interfaces to add variants.
	CanBeExtended bool
}

// Union returns a non-extendable UnionSpec.
func Union(variants ...TypeRef) *UnionSpec {
	return &UnionSpec{Variants: variants}
}
