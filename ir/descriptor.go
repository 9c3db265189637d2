package ir

// DescriptorKind identifies the category of a type descriptor.
type DescriptorKind int

const (
	// Leaf descriptors
	KindBasic DescriptorKind = iota // Built-in value or string-like type
	KindAny                         // The unconstrained top type (object)
	KindEnum                        // Enumeration of integer constants

	// Composite descriptors
	KindRecord           // Fixed-shape value aggregate (named or anonymous)
	KindCollection       // Array, list, set or map
	KindInterface        // Poco interface
	KindGenericParameter // Unresolved generic parameter (always rejected)
)

// String returns the string representation of the descriptor kind.
func (k DescriptorKind) String() string {
	switch k {
	case KindBasic:
		return "Basic"
	case KindAny:
		return "Any"
	case KindEnum:
		return "Enum"
	case KindRecord:
		return "Record"
	case KindCollection:
		return "Collection"
	case KindInterface:
		return "Interface"
	case KindGenericParameter:
		return "GenericParameter"
	default:
		return "Unknown"
	}
}

// TypeDescriptor is the base interface for all type descriptors.
//
// Descriptors are produced by a provider (reflection or source) and are
// consumed read-only by the type system builder. Composite descriptors may
// reference each other cyclically: providers share one descriptor pointer per
// declared type.
type TypeDescriptor interface {
	// Kind returns the descriptor kind for type switching.
	Kind() DescriptorKind

	// TypeName returns the declared name of this type.
	// Returns zero value for structural types (collections, anonymous records).
	TypeName() Identifier

	// Ensure only types in this package can implement TypeDescriptor.
	sealed()
}

// exprBase provides zero-value implementations of TypeDescriptor methods
// for structural descriptors that don't have a declared name.
type exprBase struct{}

func (exprBase) TypeName() Identifier { return Identifier{} }
func (exprBase) sealed()              {}

// AnyDescriptor represents the unconstrained top type.
// It never has a default value and is never exchangeable.
type AnyDescriptor struct {
	exprBase
}

// Kind returns KindAny.
func (d *AnyDescriptor) Kind() DescriptorKind { return KindAny }

// Any returns an AnyDescriptor.
func Any() *AnyDescriptor {
	return &AnyDescriptor{}
}

// GenericParameterDescriptor represents a generic type parameter that has not
// been resolved to a concrete argument. Providers keep it visible so that the
// builder can reject the enclosing member with a precise diagnostic.
type GenericParameterDescriptor struct {
	exprBase

	// ParamName is the type parameter name (e.g., "T").
	ParamName string
}

// Kind returns KindGenericParameter.
func (d *GenericParameterDescriptor) Kind() DescriptorKind { return KindGenericParameter }

// TypeParam returns a GenericParameterDescriptor.
func TypeParam(name string) *GenericParameterDescriptor {
	return &GenericParameterDescriptor{ParamName: name}
}
