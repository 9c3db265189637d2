package typesystem

// flag is a monotonic per-shape property: it starts true and, once
// cleared, is never set again.
type flag int

const (
	flagSerializable flag = iota
	flagExchangeable
	flagCompliant
)

func (s *shape) get(f flag) bool {
	switch f {
	case flagSerializable:
		return s.serializable
	case flagExchangeable:
		return s.exchangeable
	default:
		return s.compliant
	}
}

func (s *shape) clear(f flag) {
	switch f {
	case flagSerializable:
		s.serializable = false
	case flagExchangeable:
		s.exchangeable = false
	default:
		s.compliant = false
	}
}

// deps returns the shapes s references structurally.
func (b *Builder) deps(s *shape) []NodeID {
	var out []NodeID
	for _, f := range s.fields {
		out = append(out, f.Type.s.id)
	}
	for _, id := range s.args {
		out = append(out, b.shapeOf(id).id)
	}
	for _, id := range s.variants {
		out = append(out, b.shapeOf(id).id)
	}
	if s.kind == KindSecondaryPoco {
		out = append(out, s.primary)
	}
	return out
}

// dependents returns the shapes whose value of f may depend on s.
// Abstract Pocos depend on their implementations without referencing them.
func (b *Builder) dependents(s *shape, f flag) []NodeID {
	if f == flagCompliant {
		var out []NodeID
		for _, id := range s.referrers {
			if b.shapeOf(id).kind.IsRecord() {
				out = append(out, id)
			}
		}
		return out
	}
	if len(s.abstracts) == 0 {
		return s.referrers
	}
	out := make([]NodeID, 0, len(s.referrers)+len(s.abstracts))
	out = append(out, s.referrers...)
	return append(out, s.abstracts...)
}

// compute evaluates f for s from the current values of its dependencies.
func (b *Builder) compute(s *shape, f flag) bool {
	if f == flagCompliant {
		if !s.kind.IsRecord() {
			return true
		}
		for _, field := range s.fields {
			fs := field.Type.s
			if fs.kind.isMutableReference() || (fs.kind.IsRecord() && !fs.compliant) {
				return false
			}
		}
		return true
	}
	if s.failed() {
		return false
	}
	if f == flagExchangeable && (s.excluded || !s.serializable) {
		return false
	}
	switch s.kind {
	case KindAny:
		return false
	case KindAbstractPoco:
		for _, id := range s.implementations {
			if b.shapeOf(id).get(f) {
				return true
			}
		}
		return false
	}
	for _, id := range b.deps(s) {
		if !b.shapeOf(id).get(f) {
			return false
		}
	}
	return true
}

// refresh evaluates every flag of a newly completed shape.
func (b *Builder) refresh(s *shape) {
	for _, f := range []flag{flagSerializable, flagExchangeable, flagCompliant} {
		if s.get(f) && !b.compute(s, f) {
			b.degrade(s, f)
		}
	}
}

// degrade clears f on s and propagates to dependents through reverse edges.
// Only shapes whose value actually changes are visited, so the cost is
// proportional to the affected subgraph.
func (b *Builder) degrade(s *shape, f flag) {
	if !s.get(f) {
		return
	}
	s.clear(f)
	if f == flagSerializable {
		b.degrade(s, flagExchangeable)
	}
	queue := []*shape{s}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, id := range b.dependents(cur, f) {
			r := b.shapeOf(id)
			if !r.get(f) || r.state == stateInProgress || b.compute(r, f) {
				continue
			}
			r.clear(f)
			if f == flagSerializable {
				b.degrade(r, flagExchangeable)
			}
			queue = append(queue, r)
		}
	}
}

// SetNotExchangeable excludes n's type from exchange. Every node that
// references it, transitively, becomes non-exchangeable.
func (b *Builder) SetNotExchangeable(n *Node, reason string) error {
	if b.locked {
		return NewError(CodeLocked, "The type system is locked.")
	}
	if n == nil || n.b != b {
		return NewError(CodeUnsupportedType, "SetNotExchangeable requires a node of this type system.")
	}
	s := n.s
	if !s.excluded {
		s.excluded = true
		s.reason = reason
	}
	if s.exchangeable {
		b.log.Debug("type excluded from exchange", "signature", s.name, "reason", reason)
		b.degrade(s, flagExchangeable)
	}
	return nil
}
