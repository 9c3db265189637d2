package ir

// EnumDescriptor represents an enumeration.
// NOTE: Reflection provider cannot produce EnumDescriptor (cannot enumerate const values).
// This descriptor is only available from the source provider or hand-built descriptors.
type EnumDescriptor struct {
	// Name is the type identifier.
	Name Identifier

	// Underlying is the integer kind backing the enum.
	Underlying BasicKind

	// Members contains all enum values in declaration order.
	Members []EnumMember

	// Source location in Go code.
	Source Source
}

// Kind returns KindEnum.
func (d *EnumDescriptor) Kind() DescriptorKind { return KindEnum }

// TypeName returns the enum's name.
func (d *EnumDescriptor) TypeName() Identifier { return d.Name }

func (*EnumDescriptor) sealed() {}

// EnumMember represents a single enum value.
type EnumMember struct {
	// Name is the constant name.
	Name string

	// Value is the constant value. Providers convert constant values
	// to one of exactly two types: int64 or uint64.
	Value any
}

// Enum returns an EnumDescriptor with int32 underlying type and the given
// members, valued in declaration order from zero.
func Enum(name string, members ...string) *EnumDescriptor {
	d := &EnumDescriptor{Name: Name(name), Underlying: BasicInt32}
	for i, m := range members {
		d.Members = append(d.Members, EnumMember{Name: m, Value: int64(i)})
	}
	return d
}
