package ir

// BasicKind identifies a built-in type.
type BasicKind int

const (
	BasicBool BasicKind = iota
	BasicInt8
	BasicInt16
	BasicInt32
	BasicInt64
	BasicUint8
	BasicUint16
	BasicUint32
	BasicUint64
	BasicFloat32
	BasicFloat64
	BasicDecimal  // Arbitrary precision decimal, carried as a string literal
	BasicChar     // Single unicode code point
	BasicString   // Reference type: may be null
	BasicBytes    // Reference type: may be null
	BasicDateTime // Instant in time
	BasicDuration // Elapsed time
	BasicGuid     // 128-bit identifier
)

var basicNames = [...]string{
	BasicBool:     "bool",
	BasicInt8:     "sbyte",
	BasicInt16:    "short",
	BasicInt32:    "int",
	BasicInt64:    "long",
	BasicUint8:    "byte",
	BasicUint16:   "ushort",
	BasicUint32:   "uint",
	BasicUint64:   "ulong",
	BasicFloat32:  "float",
	BasicFloat64:  "double",
	BasicDecimal:  "decimal",
	BasicChar:     "char",
	BasicString:   "string",
	BasicBytes:    "byte[]",
	BasicDateTime: "DateTime",
	BasicDuration: "TimeSpan",
	BasicGuid:     "Guid",
}

// String returns the canonical spelling of the basic kind.
// These spellings are the signatures of the corresponding type nodes.
func (k BasicKind) String() string {
	if k >= 0 && int(k) < len(basicNames) {
		return basicNames[k]
	}
	return "Unknown"
}

// ParseBasicKind returns the BasicKind spelled name.
func ParseBasicKind(name string) (BasicKind, bool) {
	for i, n := range basicNames {
		if n == name {
			return BasicKind(i), true
		}
	}
	return 0, false
}

// IsInteger reports whether k is a signed or unsigned integer kind.
func (k BasicKind) IsInteger() bool {
	return k >= BasicInt8 && k <= BasicUint64
}

// IsUnsigned reports whether k is an unsigned integer kind.
func (k BasicKind) IsUnsigned() bool {
	return k >= BasicUint8 && k <= BasicUint64
}

// IsReferenceType reports whether values of k are references that can be null
// without a nullable wrapper.
func (k BasicKind) IsReferenceType() bool {
	return k == BasicString || k == BasicBytes
}

// BasicDescriptor represents a built-in type.
type BasicDescriptor struct {
	exprBase
	Basic BasicKind
}

// Kind returns KindBasic.
func (d *BasicDescriptor) Kind() DescriptorKind { return KindBasic }

// Basic returns a BasicDescriptor for k.
func Basic(k BasicKind) *BasicDescriptor {
	return &BasicDescriptor{Basic: k}
}

// Convenience constructors for common basics.

// Bool returns a BasicDescriptor for bool.
func Bool() *BasicDescriptor { return Basic(BasicBool) }

// Int returns a BasicDescriptor for a 32-bit signed integer.
func Int() *BasicDescriptor { return Basic(BasicInt32) }

// Long returns a BasicDescriptor for a 64-bit signed integer.
func Long() *BasicDescriptor { return Basic(BasicInt64) }

// Double returns a BasicDescriptor for a 64-bit float.
func Double() *BasicDescriptor { return Basic(BasicFloat64) }

// String returns a BasicDescriptor for string.
func String() *BasicDescriptor { return Basic(BasicString) }

// Bytes returns a BasicDescriptor for a byte buffer.
func Bytes() *BasicDescriptor { return Basic(BasicBytes) }

// DateTime returns a BasicDescriptor for an instant.
func DateTime() *BasicDescriptor { return Basic(BasicDateTime) }

// Duration returns a BasicDescriptor for an elapsed time.
func Duration() *BasicDescriptor { return Basic(BasicDuration) }

// Guid returns a BasicDescriptor for a 128-bit identifier.
func Guid() *BasicDescriptor { return Basic(BasicGuid) }
