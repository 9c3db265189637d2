// Package testdata declares the types extracted by the source provider
// tests.
package testdata

import (
	"time"

	"github.com/broady/pocotype/poco"
)

// Color is an enum.
type Color int32

const (
	Red Color = iota + 1
	Green
	Blue
)

// Level members are declared out of value order.
type Level int8

const (
	High Level = 10
	Low  Level = -3
)

type Flags uint16

const (
	FlagRead  Flags = 4
	FlagWrite Flags = 8
)

// Status has string constants and is not an enum.
type Status string

const StatusActive Status = "active"

// Point is a record.
type Point struct {
	X, Y    int32
	Label   string `poco:"nullable,default=origin"`
	hidden  int
	Skipped string `poco:"-"`
}

type Base struct {
	ID int64
}

type Shape struct {
	Origin  Point
	Corners [4]Point
	Tags    map[string]struct{}
	Color   Color `poco:"default=Blue"`
	Next    *Shape
	Meta    struct {
		Count int
		Note  *string
	}
	Created time.Time
	TTL     time.Duration
	Data    []byte
	Handler func()
	Base
}

type IUser interface {
	poco.Poco
	Name() string
	SetName(string)
	Tags() []string
}

type IUserWithEmail interface {
	IUser
	//poco:nullable
	Email() string
	SetEmail(string)
	SetTags([]string)
}

type IAnimal interface {
	poco.Abstract
	Legs() int
}

type IDog interface {
	IAnimal
	Bark() string
}

type IVersioned interface {
	poco.SuperDefiner
	Version() int
}

type IEntity interface {
	IVersioned
	ID() int64
}

type IProduct interface {
	IEntity
	Price() float64
	SetPrice(float64)
}

type IHasLabel interface {
	poco.Definer
	Label() string
}

type IOrder interface {
	poco.Poco
	//poco:union=int|string|Point,extendable
	Ref() any
	SetRef(any)
	//poco:default=3
	Count() int
	SetCount(int)
	Items() []Point
	Lookup(key string) string
}

// Box is generic: only its instantiations can be registered.
type Box[T any] struct {
	Value T
}

type Crate struct {
	Ints  Box[int]
	Names Box[string]
}
