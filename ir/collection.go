package ir

// CollectionKind identifies the shape of a collection.
type CollectionKind int

const (
	CollectionArray CollectionKind = iota // Fixed allocation, T[]
	CollectionList                        // Ordered, List<T> or IList<T>
	CollectionSet                         // Unordered unique, HashSet<T> or ISet<T>
	CollectionMap                         // Key-value, Dictionary<K,V> or IDictionary<K,V>
)

// String returns the string representation of the collection kind.
func (k CollectionKind) String() string {
	switch k {
	case CollectionArray:
		return "Array"
	case CollectionList:
		return "List"
	case CollectionSet:
		return "Set"
	case CollectionMap:
		return "Map"
	default:
		return "Unknown"
	}
}

// Arity returns the number of generic arguments of the collection kind.
func (k CollectionKind) Arity() int {
	if k == CollectionMap {
		return 2
	}
	return 1
}

// CollectionDescriptor represents an array, list, set or map.
//
// Nullability of the arguments is carried by each TypeRef. Arguments read
// from a bare type (no containing member) should be Oblivious.
type CollectionDescriptor struct {
	exprBase

	// Collection is the collection shape.
	Collection CollectionKind

	// Abstract marks the interface spelling (IList, ISet, IDictionary).
	// Arrays are never abstract.
	Abstract bool

	// Args are the element type, or the key and value types for maps.
	Args []TypeRef
}

// Kind returns KindCollection.
func (d *CollectionDescriptor) Kind() DescriptorKind { return KindCollection }

// ArrayOf returns a CollectionDescriptor for T[].
func ArrayOf(elem TypeRef) *CollectionDescriptor {
	return &CollectionDescriptor{Collection: CollectionArray, Args: []TypeRef{elem}}
}

// ListOf returns a CollectionDescriptor for List<T>.
func ListOf(elem TypeRef) *CollectionDescriptor {
	return &CollectionDescriptor{Collection: CollectionList, Args: []TypeRef{elem}}
}

// IListOf returns a CollectionDescriptor for IList<T>.
func IListOf(elem TypeRef) *CollectionDescriptor {
	return &CollectionDescriptor{Collection: CollectionList, Abstract: true, Args: []TypeRef{elem}}
}

// SetOf returns a CollectionDescriptor for HashSet<T>.
func SetOf(elem TypeRef) *CollectionDescriptor {
	return &CollectionDescriptor{Collection: CollectionSet, Args: []TypeRef{elem}}
}

// ISetOf returns a CollectionDescriptor for ISet<T>.
func ISetOf(elem TypeRef) *CollectionDescriptor {
	return &CollectionDescriptor{Collection: CollectionSet, Abstract: true, Args: []TypeRef{elem}}
}

// MapOf returns a CollectionDescriptor for Dictionary<K,V>.
func MapOf(key, value TypeRef) *CollectionDescriptor {
	return &CollectionDescriptor{Collection: CollectionMap, Args: []TypeRef{key, value}}
}

// IMapOf returns a CollectionDescriptor for IDictionary<K,V>.
func IMapOf(key, value TypeRef) *CollectionDescriptor {
	return &CollectionDescriptor{Collection: CollectionMap, Abstract: true, Args: []TypeRef{key, value}}
}
