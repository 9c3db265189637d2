// Package poco declares the marker interfaces that turn Go interfaces into
// Poco interfaces.
//
// A Go interface is a Poco interface when it embeds Poco, directly or
// through another Poco interface. Its exported methods declare properties:
// a getter N() T declares property N, and a setter SetN(T) makes it
// assignable.
//
//	type IUser interface {
//	    poco.Poco
//	    Name() string
//	    SetName(string)
//	    Tags() []string
//	}
//
// Embedding one of the role markers instead of Poco selects the role:
//
//	type IAnimal interface { poco.Abstract } // polymorphic abstraction
//	type IHasID interface { poco.Definer; ID() int64 } // shared contract
//	type IVersioned interface { poco.SuperDefiner; Version() int }
//
// The markers have unexported methods. They exist for the providers to
// read and are never implemented.
package poco

// Poco marks a concrete Poco interface.
type Poco interface {
	isPoco()
}

// Abstract marks a polymorphic Poco abstraction.
type Abstract interface {
	Poco
	isAbstract()
}

// Definer marks an interface that contributes its properties to the
// interfaces that extend it without being exchanged itself.
type Definer interface {
	Poco
	isDefiner()
}

// SuperDefiner marks an interface whose direct extensions are definers.
type SuperDefiner interface {
	Poco
	isSuperDefiner()
}

// PackagePath is the import path of this package as seen by providers.
const PackagePath = "github.com/broady/pocotype/poco"
