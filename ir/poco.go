package ir

// InterfaceRole classifies a Poco interface.
type InterfaceRole int

const (
	// RoleConcrete interfaces define exchange shapes. A concrete interface
	// with no concrete base is the primary interface of its family; the
	// others are secondary interfaces of the family they extend.
	RoleConcrete InterfaceRole = iota

	// RoleAbstract interfaces are polymorphic abstractions implemented by
	// one or more families.
	RoleAbstract

	// RoleDefiner interfaces share a contract: they contribute their
	// properties to the families that extend them but are never exchanged.
	RoleDefiner

	// RoleSuperDefiner interfaces make their direct extensions definers.
	RoleSuperDefiner
)

// String returns the string representation of the role.
func (r InterfaceRole) String() string {
	switch r {
	case RoleConcrete:
		return "Concrete"
	case RoleAbstract:
		return "Abstract"
	case RoleDefiner:
		return "Definer"
	case RoleSuperDefiner:
		return "SuperDefiner"
	default:
		return "Unknown"
	}
}

// InterfaceDescriptor represents a Poco interface.
// All Poco interfaces implicitly extend the root abstraction IPoco.
type InterfaceDescriptor struct {
	// Name is the type identifier.
	Name Identifier

	// Role classifies the interface.
	Role InterfaceRole

	// Extends lists the directly extended Poco interfaces.
	Extends []*InterfaceDescriptor

	// Properties are the properties declared by this interface only.
	Properties []PropertyDescriptor

	// Source location in Go code.
	Source Source
}

// Kind returns KindInterface.
func (d *InterfaceDescriptor) Kind() DescriptorKind { return KindInterface }

// TypeName returns the interface's name.
func (d *InterfaceDescriptor) TypeName() Identifier { return d.Name }

func (*InterfaceDescriptor) sealed() {}

// PropertyDescriptor represents a property declared by a Poco interface.
type PropertyDescriptor struct {
	MemberDescriptor

	// HasSetter is true when the property can be assigned.
	// Getter-only properties of composite types are exposed by reference.
	HasSetter bool
}

// Property returns a getter-only PropertyDescriptor.
func Property(name string, ref TypeRef) PropertyDescriptor {
	return PropertyDescriptor{MemberDescriptor: Member(name, ref)}
}

// SettableProperty returns a PropertyDescriptor with a setter.
func SettableProperty(name string, ref TypeRef) PropertyDescriptor {
	return PropertyDescriptor{MemberDescriptor: Member(name, ref), HasSetter: true}
}

// Poco returns a concrete InterfaceDescriptor.
func Poco(name string, extends []*InterfaceDescriptor, props ...PropertyDescriptor) *InterfaceDescriptor {
	return &InterfaceDescriptor{Name: Name(name), Role: RoleConcrete, Extends: extends, Properties: props}
}

// IPocoName is the identifier of the root Poco abstraction.
var IPocoName = Identifier{Name: "IPoco"}

// IPoco returns the descriptor of the root Poco abstraction.
func IPoco() *InterfaceDescriptor {
	return ipoco
}

var ipoco = &InterfaceDescriptor{Name: IPocoName, Role: RoleAbstract}
