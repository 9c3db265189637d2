package typesystem

import (
	"github.com/broady/pocotype/ir"
)

// NodeID is a stable handle of a node in its builder's arena.
// The zero NodeID is reserved and never designates a node.
type NodeID uint32

type buildState int

const (
	stateNotStarted buildState = iota
	stateInProgress
	stateDone
	stateFailed
)

// shape holds the structural content shared by a node and its nullable
// mirror.
type shape struct {
	id         NodeID // non-nullable node
	nullID     NodeID // nullable mirror
	kind       Kind
	name       string // signature without nullable marker
	desc       ir.TypeDescriptor
	basic      ir.BasicKind
	collection ir.CollectionKind
	abstract   bool
	valueType  bool

	fields        []Field
	overrides     []any // declared field defaults, parallel to fields
	args          []NodeID
	variants      []NodeID
	canBeExtended bool
	enumMembers   []ir.EnumMember

	family          *family
	primary         NodeID
	secondaries     []NodeID
	implementations []NodeID
	abstracts       []NodeID

	state buildState
	err   *Error

	serializable bool
	exchangeable bool
	compliant    bool
	excluded     bool
	reason       string

	referrers   []NodeID
	referrerSet map[NodeID]struct{}

	def       DefaultValueInfo
	defState  buildState
	noDefault *missingDefault
	defErr    *Error
}

func (s *shape) failed() bool { return s.state == stateFailed }

func (s *shape) addReferrer(id NodeID) {
	if id == s.id {
		return
	}
	if s.referrerSet == nil {
		s.referrerSet = make(map[NodeID]struct{})
	}
	if _, ok := s.referrerSet[id]; ok {
		return
	}
	s.referrerSet[id] = struct{}{}
	s.referrers = append(s.referrers, id)
}

// Field is a member of a record or Poco node.
type Field struct {
	// Name is unique within the node. Anonymous record fields without a
	// declared name are named Item1, Item2...
	Name string

	// Type is the field's type node, nullable when the field accepts null.
	Type *Node

	// IsReadOnly is true for init-only record fields and getter-only Poco
	// properties.
	IsReadOnly bool

	// Access is how the field exposes its value.
	Access ir.AccessMode

	// Default is the field's default: the declared default when one is
	// present, otherwise the default of Type.
	Default DefaultValueInfo

	// Index is the position of the field in its node.
	Index int

	// Origin names the interface that declared a Poco field.
	Origin string
}

// Node is a semantic type node. Nodes are created by a Builder and are
// only mutated by it before Lock.
type Node struct {
	b         *Builder
	id        NodeID
	nullable  bool
	s         *shape
	oblivious NodeID
}

// ID returns the node handle.
func (n *Node) ID() NodeID { return n.id }

// Kind returns the semantic kind.
func (n *Node) Kind() Kind { return n.s.kind }

// Signature returns the identity key of the node. Nullable nodes end with '?'.
func (n *Node) Signature() string {
	if n.nullable {
		return n.s.name + "?"
	}
	return n.s.name
}

func (n *Node) String() string { return n.Signature() }

// Descriptor returns the declaration the node was built from, if any.
// Structural nodes created internally have none.
func (n *Node) Descriptor() ir.TypeDescriptor { return n.s.desc }

// IsNullable reports whether null is a value of this node.
func (n *Node) IsNullable() bool { return n.nullable }

// Nullable returns the nullable mirror (n itself when n is nullable).
func (n *Node) Nullable() *Node { return n.b.nodes[n.s.nullID] }

// NonNullable returns the non-nullable mirror (n itself when n is not nullable).
func (n *Node) NonNullable() *Node { return n.b.nodes[n.s.id] }

// IsOblivious reports whether n is the canonical representative of its
// equivalence family.
func (n *Node) IsOblivious() bool { return n.oblivious == n.id }

// ObliviousType returns the canonical representative of n's family.
func (n *Node) ObliviousType() *Node { return n.b.nodes[n.oblivious] }

// DefaultValue returns the default value information of the node.
func (n *Node) DefaultValue() DefaultValueInfo {
	if n.nullable {
		return DefaultValueInfo{HasDefault: true, Literal: &Literal{Kind: LiteralNull, Type: n}}
	}
	return n.s.def
}

// IsExchangeable reports whether values of this type can be exchanged.
func (n *Node) IsExchangeable() bool { return n.s.exchangeable }

// IsSerializable reports whether values of this type can be represented on
// the wire, regardless of explicit exclusions.
func (n *Node) IsSerializable() bool { return n.s.serializable }

// NotExchangeableReason returns the reason given to SetNotExchangeable.
func (n *Node) NotExchangeableReason() string { return n.s.reason }

// IsReadOnlyCompliant reports whether a record contains no mutable
// reference, directly or through nested records. Always true for other kinds.
func (n *Node) IsReadOnlyCompliant() bool { return n.s.compliant }

// IsValueType reports whether values of this type are copied on assignment.
func (n *Node) IsValueType() bool { return n.s.valueType }

// IsAbstract reports whether n is an abstract collection or an abstract Poco.
func (n *Node) IsAbstract() bool { return n.s.abstract }

// IsValid reports whether the node was built without error.
func (n *Node) IsValid() bool { return !n.s.failed() }

// Err returns the error that invalidated the node, or nil.
func (n *Node) Err() error {
	if n.s.err == nil {
		return nil
	}
	return n.s.err
}

// Basic returns the basic kind of a Basic node.
func (n *Node) Basic() ir.BasicKind { return n.s.basic }

// Collection returns the collection kind of a List, Set or Map node.
// Arrays are List nodes with CollectionArray.
func (n *Node) Collection() ir.CollectionKind { return n.s.collection }

// Fields returns the fields of a record or Poco node. Secondary Pocos
// return the fields of their family.
func (n *Node) Fields() []Field {
	if n.s.kind == KindSecondaryPoco {
		return n.b.nodes[n.s.primary].s.fields
	}
	return n.s.fields
}

// Field returns the field named name.
func (n *Node) Field(name string) (Field, bool) {
	for _, f := range n.Fields() {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Args returns the element type of a list or set, or the key and value
// types of a map.
func (n *Node) Args() []*Node { return n.b.resolveIDs(n.s.args) }

// Variants returns the allowed types of a union, in declaration order.
func (n *Node) Variants() []*Node { return n.b.resolveIDs(n.s.variants) }

// CanBeExtended reports whether Poco family extensions may add variants to
// a union.
func (n *Node) CanBeExtended() bool { return n.s.canBeExtended }

// EnumMembers returns the declared members of an enum.
func (n *Node) EnumMembers() []ir.EnumMember { return n.s.enumMembers }

// Primary returns the primary Poco of a primary or secondary Poco node.
func (n *Node) Primary() *Node {
	switch n.s.kind {
	case KindPrimaryPoco:
		return n.NonNullable()
	case KindSecondaryPoco:
		return n.b.nodes[n.s.primary]
	}
	return nil
}

// Secondaries returns the secondary Pocos of n's family.
func (n *Node) Secondaries() []*Node {
	p := n.Primary()
	if p == nil {
		return nil
	}
	return n.b.resolveIDs(p.s.secondaries)
}

// Implementations returns the primary Pocos implementing an abstract Poco.
func (n *Node) Implementations() []*Node { return n.b.resolveIDs(n.s.implementations) }

// AbstractTypes returns the registered abstract Pocos implemented by n's family.
func (n *Node) AbstractTypes() []*Node {
	p := n.Primary()
	if p == nil {
		return nil
	}
	return n.b.resolveIDs(p.s.abstracts)
}

// Referrers returns the nodes that reference n structurally.
func (n *Node) Referrers() []*Node { return n.b.resolveIDs(n.s.referrers) }
