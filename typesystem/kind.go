package typesystem

// Kind is the semantic category of a type node.
type Kind int

const (
	KindAny Kind = iota
	KindBasic
	KindEnum
	KindNamedRecord
	KindAnonymousRecord
	KindList // Lists and arrays; see Node.Collection
	KindSet
	KindMap
	KindAbstractPoco
	KindPrimaryPoco
	KindSecondaryPoco
	KindUnion
)

var kindNames = [...]string{
	KindAny:             "Any",
	KindBasic:           "Basic",
	KindEnum:            "Enum",
	KindNamedRecord:     "NamedRecord",
	KindAnonymousRecord: "AnonymousRecord",
	KindList:            "List",
	KindSet:             "Set",
	KindMap:             "Map",
	KindAbstractPoco:    "AbstractPoco",
	KindPrimaryPoco:     "PrimaryPoco",
	KindSecondaryPoco:   "SecondaryPoco",
	KindUnion:           "Union",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// IsRecord reports whether k is a named or anonymous record.
func (k Kind) IsRecord() bool {
	return k == KindNamedRecord || k == KindAnonymousRecord
}

// IsCollection reports whether k is a list, set or map.
func (k Kind) IsCollection() bool {
	return k == KindList || k == KindSet || k == KindMap
}

// IsPoco reports whether k is an abstract, primary or secondary Poco.
func (k Kind) IsPoco() bool {
	return k == KindAbstractPoco || k == KindPrimaryPoco || k == KindSecondaryPoco
}

// isMutableReference reports whether a record field of kind k is a mutable
// reference that is shared, not copied, when the record is copied.
func (k Kind) isMutableReference() bool {
	return k.IsCollection() || k.IsPoco()
}
