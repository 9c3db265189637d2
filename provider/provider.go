// Package provider implements input providers that extract type information
// from Go code and convert it to the descriptors consumed by the type
// system builder.
//
// The mapping from Go is:
//
//	*T                nullable T
//	[]T, [N]T         List<T>, T[]
//	map[K]V           Dictionary<K,V>
//	map[K]struct{}    HashSet<K>
//	any               object
//	struct{...}       anonymous record (tuple)
//	named struct      named record
//	Poco interface    Poco (see package poco)
//	int, uint         long, ulong
//	[]byte            byte[]
//	time.Time         DateTime
//	time.Duration     TimeSpan
//
// Named integer types with declared constants are enums for the source
// provider. The reflection provider cannot enumerate constants and maps
// them to their underlying kind.
package provider

import (
	"github.com/broady/pocotype/ir"
)

// wellKnown maps qualified Go type names to the basic kinds they represent.
var wellKnown = map[string]ir.BasicKind{
	"time.Time":                             ir.BasicDateTime,
	"time.Duration":                         ir.BasicDuration,
	"github.com/google/uuid.UUID":           ir.BasicGuid,
	"github.com/shopspring/decimal.Decimal": ir.BasicDecimal,
}

// Warning codes.
const (
	WarnEnumUnresolved      = "ENUM_UNRESOLVED"
	WarnUnsupportedType     = "UNSUPPORTED_TYPE"
	WarnMethodIgnored       = "METHOD_IGNORED"
	WarnSetterWithoutGetter = "SETTER_WITHOUT_GETTER"
	WarnRecordFieldOption   = "RECORD_FIELD_OPTION"
	WarnAmbiguousExtension  = "AMBIGUOUS_EXTENSION"
)
