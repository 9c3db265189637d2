// Package shop is a small order model loaded by the pipeline tests.
package shop

import (
	"time"

	"github.com/broady/pocotype/poco"
)

type Currency int32

const (
	USD Currency = iota
	EUR
	GBP
)

type Money struct {
	Amount   int64
	Currency Currency
}

type Audit struct {
	By string
	At time.Time
}

type IHasNotes interface {
	poco.Definer
	Notes() string
	SetNotes(string)
}

type ILineItem interface {
	poco.Poco
	Sku() string
	SetSku(string)
	Quantity() int32
	SetQuantity(int32)
	Price() Money
	SetPrice(Money)
}

type IOrder interface {
	poco.Poco
	IHasNotes
	Number() string
	SetNumber(string)
	Lines() []ILineItem
	Total() Money
	SetTotal(Money)
	Audit() *Audit
	SetAudit(*Audit)
}
