// Package typesystem builds the canonical graph of semantic type nodes used
// by the exchange layer.
//
// A Builder ingests normalized descriptors (see Describe) and resolves each
// to a node. Structurally identical types resolve to the same node. Every
// node has a nullable mirror, an oblivious canonical representative, a
// default value description and an exchangeability status that stays
// consistent whatever the registration order.
//
// The builder is single-writer. After Lock the graph is immutable and may
// be read concurrently.
package typesystem

import (
	"errors"
	"fmt"
	"log/slog"

	"fortio.org/safecast"

	"github.com/broady/pocotype/ir"
)

// Config configures a Builder.
type Config struct {
	// Pocos is the Poco interface directory. Interfaces reachable through
	// Extends are added implicitly.
	Pocos []*ir.InterfaceDescriptor `validate:"-"`

	// MaxErrors is the number of diagnostics after which every
	// registration fails with CodeTooManyErrors. Zero means no limit.
	MaxErrors int `validate:"gte=0"`

	// Logger receives registration events. Nil means slog.Default().
	Logger *slog.Logger `validate:"-"`
}

type classifier func(b *Builder, d Descriptor, st *stack) (*Node, error)

// Builder builds a type system.
type Builder struct {
	log         *slog.Logger
	maxErrors   int
	classifiers map[ir.DescriptorKind]classifier

	nodes []*Node // arena; index 0 is reserved
	index map[string]NodeID
	dir   *directory

	pending   []*shape
	exposures []exposure

	diags    []*Error
	reported map[*Error]bool
	fatal    bool
	locked   bool
}

// NewBuilder creates a Builder and computes the Poco directory.
// Directory errors (family conflicts, field collisions) are recorded as
// diagnostics and returned by registrations of the offending interfaces.
func NewBuilder(cfg Config) (*Builder, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid type system config: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	b := &Builder{
		log:       logger,
		maxErrors: cfg.MaxErrors,
		nodes:     []*Node{nil},
		index:     make(map[string]NodeID),
		reported:  make(map[*Error]bool),
	}
	b.classifiers = map[ir.DescriptorKind]classifier{
		ir.KindBasic:            (*Builder).classifyBasic,
		ir.KindAny:              (*Builder).classifyAny,
		ir.KindEnum:             (*Builder).classifyEnum,
		ir.KindRecord:           (*Builder).classifyRecord,
		ir.KindCollection:       (*Builder).classifyCollection,
		ir.KindInterface:        (*Builder).classifyInterface,
		ir.KindGenericParameter: (*Builder).classifyGenericParameter,
	}
	b.dir = newDirectory(cfg.Pocos)
	for _, err := range b.dir.errors {
		b.report(err)
	}
	return b, nil
}

// RegisterMember normalizes a reflected member and registers its type.
func (b *Builder) RegisterMember(m ir.MemberDescriptor) (*Node, error) {
	if err := b.guard(); err != nil {
		return nil, err
	}
	d, err := Describe(m)
	if err != nil {
		return nil, b.fail(err)
	}
	return b.Register(d)
}

// RegisterType registers a bare type.
func (b *Builder) RegisterType(ref ir.TypeRef) (*Node, error) {
	if err := b.guard(); err != nil {
		return nil, err
	}
	d, err := DescribeType(ref)
	if err != nil {
		return nil, b.fail(err)
	}
	return b.Register(d)
}

// Register resolves the node of a normalized descriptor, creating it and
// the nodes it depends on when needed. Registering structurally identical
// descriptors returns the same node.
func (b *Builder) Register(d Descriptor) (*Node, error) {
	if err := b.guard(); err != nil {
		return nil, err
	}
	if d.Type == nil {
		return nil, b.fail(Errorf(CodeUnsupportedType, "Member '%s' has no type.", memberLabel(d.Name)))
	}
	n, err := b.resolve(d, &stack{})
	b.finalize()
	if err == nil && n.s.failed() {
		err = n.s.err
	}
	if err == nil && d.AccessMode == ir.ByValue {
		err = b.exposureError(n, memberLabel(d.Name))
	}
	if err == nil && d.Default != nil {
		if _, derr := b.literalFor(n.NonNullable(), d.Default); derr != nil {
			err = Errorf(CodeInvalidDefaultValue, "Invalid default value for '%s': %v.", memberLabel(d.Name), derr).
				WithType(n.Signature())
		}
	}
	if err != nil {
		return nil, b.fail(err)
	}
	return n, nil
}

// FindByType returns the valid node with the given signature, or nil.
func (b *Builder) FindByType(signature string) *Node {
	id, ok := b.index[signature]
	if !ok {
		return nil
	}
	n := b.nodes[id]
	if n.s.failed() {
		return nil
	}
	return n
}

// Node returns the node with the given handle, or nil.
func (b *Builder) Node(id NodeID) *Node {
	if id == 0 || int(id) >= len(b.nodes) {
		return nil
	}
	return b.nodes[id]
}

// Len returns the number of nodes, mirrors included.
func (b *Builder) Len() int { return len(b.nodes) - 1 }

// Diagnostics returns every recorded registration error in order.
func (b *Builder) Diagnostics() []*Error { return b.diags }

// Lock freezes the graph. Later registrations and exchangeability changes
// fail with CodeLocked.
func (b *Builder) Lock() {
	if b.locked {
		return
	}
	b.locked = true
	b.log.Info("type system locked",
		"nodes", b.Len(),
		"exchangeable", b.AllExchangeable().Len(),
		"diagnostics", len(b.diags))
}

// IsLocked reports whether Lock was called.
func (b *Builder) IsLocked() bool { return b.locked }

func (b *Builder) guard() error {
	if b.locked {
		return NewError(CodeLocked, "The type system is locked.")
	}
	if b.fatal {
		return Errorf(CodeTooManyErrors, "Registration stopped after %d errors.", len(b.diags))
	}
	return nil
}

// fail records err and returns it.
func (b *Builder) fail(err error) error {
	var e *Error
	if !errors.As(err, &e) {
		e = NewError(CodeUnsupportedType, err.Error())
	}
	b.report(e)
	return e
}

func (b *Builder) report(e *Error) {
	if e == nil || b.reported[e] {
		return
	}
	b.reported[e] = true
	b.diags = append(b.diags, e)
	b.log.Warn("type registration failed", "code", e.Code, "type", e.Type, "message", e.Message)
	if b.maxErrors > 0 && len(b.diags) >= b.maxErrors && !b.fatal {
		b.fatal = true
		tm := Errorf(CodeTooManyErrors, "Too many errors (%d): registration stopped.", len(b.diags))
		b.reported[tm] = true
		b.diags = append(b.diags, tm)
		b.log.Error("type registration stopped", "errors", len(b.diags)-1)
	}
}

func (b *Builder) resolve(d Descriptor, st *stack) (*Node, error) {
	if d.Union != nil {
		return b.classifyUnion(d, st)
	}
	c, ok := b.classifiers[d.Type.Kind()]
	if !ok {
		return nil, Errorf(CodeUnsupportedType, "Type kind %s of '%s' is not supported.", d.Type.Kind(), memberLabel(d.Name))
	}
	return c(b, d, st)
}

// newShape allocates a node pair and indexes it under name and name+"?".
func (b *Builder) newShape(kind Kind, name string, desc ir.TypeDescriptor) (*shape, error) {
	id, err := safecast.Conv[uint32](len(b.nodes))
	if err != nil || id == ^uint32(0) {
		return nil, Errorf(CodeUnsupportedType, "Too many type nodes to register '%s'.", name)
	}
	s := &shape{
		id:           NodeID(id),
		nullID:       NodeID(id + 1),
		kind:         kind,
		name:         name,
		desc:         desc,
		state:        stateInProgress,
		serializable: true,
		exchangeable: true,
		compliant:    true,
	}
	b.nodes = append(b.nodes,
		&Node{b: b, id: s.id, s: s, oblivious: s.id},
		&Node{b: b, id: s.nullID, s: s, nullable: true, oblivious: s.nullID})
	b.index[name] = s.id
	b.index[name+"?"] = s.nullID
	b.pending = append(b.pending, s)
	b.log.Debug("type node created", "kind", kind, "signature", name, "id", s.id)
	return s, nil
}

// lookup returns the shape indexed under name. A shape of another kind
// sharing the name is an error.
func (b *Builder) lookup(name string, kinds ...Kind) (*shape, error) {
	id, ok := b.index[name]
	if !ok {
		return nil, nil
	}
	s := b.nodes[id].s
	for _, k := range kinds {
		if s.kind == k {
			return s, nil
		}
	}
	return nil, Errorf(CodeUnsupportedType, "Type name '%s' is already registered as a %s.", name, s.kind).WithType(name)
}

// existing returns the node of an already known shape, checking for
// instantiation cycles when the shape is being built.
func (b *Builder) existing(s *shape, nullable bool, st *stack) (*Node, error) {
	switch s.state {
	case stateFailed:
		return nil, s.err
	case stateInProgress:
		if err := b.reenter(s, st); err != nil {
			return nil, err
		}
	}
	return b.pick(s, nullable), nil
}

func (b *Builder) pick(s *shape, nullable bool) *Node {
	if nullable {
		return b.nodes[s.nullID]
	}
	return b.nodes[s.id]
}

func (b *Builder) shapeOf(id NodeID) *shape { return b.nodes[id].s }

func (b *Builder) resolveIDs(ids []NodeID) []*Node {
	if len(ids) == 0 {
		return nil
	}
	out := make([]*Node, len(ids))
	for i, id := range ids {
		out[i] = b.nodes[id]
	}
	return out
}

// complete marks a shape built: it registers reverse edges, computes its
// flags and elects its oblivious representative.
func (b *Builder) complete(s *shape) error {
	s.state = stateDone
	for _, id := range b.deps(s) {
		b.shapeOf(id).addReferrer(s.id)
	}
	b.refresh(s)
	return b.elect(s)
}

// markFailed invalidates s and every shape that references it.
func (b *Builder) markFailed(s *shape, err *Error) {
	if s.failed() {
		return
	}
	s.state = stateFailed
	s.err = err
	b.degrade(s, flagSerializable)
	for _, id := range s.referrers {
		b.markFailed(b.shapeOf(id), err)
	}
}

// asError converts err to a diagnostic.
func asError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return NewError(CodeUnsupportedType, err.Error())
}

// finalize runs the checks that need complete shapes: default synthesis and
// by-value exposure of records.
func (b *Builder) finalize() {
	pending := b.pending
	b.pending = nil
	for _, s := range pending {
		if !s.failed() {
			b.ensureDefault(s)
		}
	}
	for _, s := range pending {
		if s.failed() {
			continue
		}
		switch {
		case s.defErr != nil:
			b.markFailed(s, s.defErr)
			b.report(s.defErr)
		case s.noDefault != nil && s.noDefault.path != "":
			err := b.missingDefaultError(s)
			b.markFailed(s, err)
			b.report(err)
		}
	}
	exposures := b.exposures
	b.exposures = nil
	for _, e := range exposures {
		if e.via.failed() {
			continue
		}
		if err := b.exposureError(e.target, e.path); err != nil {
			ee := asError(err)
			b.markFailed(e.via, ee)
			b.report(ee)
		}
	}
}
