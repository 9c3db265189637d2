package typesystem

import (
	"github.com/broady/pocotype/ir"
)

func (b *Builder) classifyInterface(d Descriptor, st *stack) (*Node, error) {
	id := d.Type.(*ir.InterfaceDescriptor)
	info := b.dir.lookup(id)
	if info == nil {
		name := id.Name.String()
		return nil, Errorf(CodeUnknownPoco, "Interface '%s' used by '%s' is not a known Poco interface.",
			name, memberLabel(d.Name)).WithType(name)
	}
	if info.err != nil {
		return nil, info.err
	}
	var (
		n   *Node
		err error
	)
	switch info.role {
	case ir.RoleDefiner, ir.RoleSuperDefiner:
		return nil, Errorf(CodeUnsupportedType, "Interface '%s' is a %s: it shares a contract and cannot be used as a type ('%s').",
			info.name, info.role, memberLabel(d.Name)).WithType(info.name)
	case ir.RoleAbstract:
		n, err = b.resolveAbstract(info, st)
	default:
		n, err = b.resolvePoco(info, st)
	}
	if err != nil {
		return nil, err
	}
	return b.pick(n.s, d.IsNullable), nil
}

func (b *Builder) resolvePoco(info *pocoInfo, st *stack) (*Node, error) {
	f := info.family
	if f.err != nil {
		return nil, f.err
	}
	p, err := b.resolveFamily(f, st)
	if err != nil {
		return nil, err
	}
	if info == f.primary {
		return p, nil
	}
	s, err := b.secondary(info, p.s)
	if err != nil {
		return nil, err
	}
	return b.nodes[s.id], nil
}

// resolveFamily builds the primary Poco of a family. Secondary nodes are
// created with it.
func (b *Builder) resolveFamily(f *family, st *stack) (*Node, error) {
	if f.err != nil {
		return nil, f.err
	}
	name := f.primary.name
	s, err := b.lookup(name, KindPrimaryPoco)
	if err != nil {
		return nil, err
	}
	if s != nil {
		return b.existing(s, false, st)
	}
	if s, err = b.newShape(KindPrimaryPoco, name, f.primary.desc); err != nil {
		return nil, err
	}
	s.family = f
	s.primary = s.id
	for i, fp := range f.props {
		field, err := b.pocoField(s, i, fp, st)
		if err != nil {
			b.markFailed(s, asError(err))
			return nil, err
		}
		s.fields = append(s.fields, field)
		s.overrides = append(s.overrides, fp.prop.Default)
	}
	if err := b.complete(s); err != nil {
		return nil, err
	}
	for _, m := range f.members[1:] {
		if _, err := b.secondary(m, s); err != nil {
			return nil, err
		}
	}
	return b.nodes[s.id], nil
}

func (b *Builder) pocoField(s *shape, i int, fp *familyProp, st *stack) (Field, error) {
	m := fp.prop.MemberDescriptor
	m.Name = fp.origin + "." + fp.name
	m.Union = fp.union
	if !fp.settable && isComposite(m.Type) {
		m.Access = ir.ByRef
	}
	d, err := Describe(m)
	if err != nil {
		return Field{}, err
	}
	st.push(frame{s: s, owner: fp.origin, member: fp.name, edge: edgeOf(d)})
	n, err := b.resolve(d, st)
	st.pop()
	if err != nil {
		return Field{}, err
	}
	if d.AccessMode == ir.ByValue {
		b.expose(n, s, m.Name)
	}
	return Field{
		Name:       fp.name,
		Type:       n,
		IsReadOnly: !fp.settable,
		Access:     d.AccessMode,
		Index:      i,
		Origin:     fp.origin,
	}, nil
}

// isComposite reports whether a getter-only property of type td is
// mutated in place.
func isComposite(td ir.TypeDescriptor) bool {
	switch td.(type) {
	case *ir.CollectionDescriptor, *ir.RecordDescriptor, *ir.InterfaceDescriptor:
		return true
	}
	return false
}

func (b *Builder) secondary(info *pocoInfo, p *shape) (*shape, error) {
	s, err := b.lookup(info.name, KindSecondaryPoco)
	if err != nil || s != nil {
		return s, err
	}
	if s, err = b.newShape(KindSecondaryPoco, info.name, info.desc); err != nil {
		return nil, err
	}
	s.family = p.family
	s.primary = p.id
	p.secondaries = append(p.secondaries, s.id)
	if err := b.complete(s); err != nil {
		return nil, err
	}
	return s, nil
}

// resolveAbstract builds an abstract Poco and eagerly registers the
// families implementing it. Failing implementations are reported and
// skipped.
func (b *Builder) resolveAbstract(info *pocoInfo, st *stack) (*Node, error) {
	s, err := b.lookup(info.name, KindAbstractPoco)
	if err != nil {
		return nil, err
	}
	if s != nil {
		if s.failed() {
			return nil, s.err
		}
		return b.nodes[s.id], nil
	}
	if s, err = b.newShape(KindAbstractPoco, info.name, info.desc); err != nil {
		return nil, err
	}
	s.abstract = true
	st.push(frame{edge: edgeCollection})
	for _, f := range info.implementations {
		p, err := b.resolveFamily(f, st)
		if err != nil {
			b.report(asError(err))
			continue
		}
		s.implementations = append(s.implementations, p.id)
		p.s.abstracts = append(p.s.abstracts, s.id)
	}
	st.pop()
	if err := b.complete(s); err != nil {
		return nil, err
	}
	return b.nodes[s.id], nil
}
