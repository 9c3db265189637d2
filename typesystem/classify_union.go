package typesystem

import (
	"github.com/broady/pocotype/ir"
)

// classifyUnion resolves a member whose value is one of a closed set of
// variant types. The declared member type must accept every variant. The
// union accepts null when a variant or the declared type is nullable.
func (b *Builder) classifyUnion(d Descriptor, st *stack) (*Node, error) {
	u := d.Union
	label := memberLabel(d.Name)
	if len(u.Variants) == 0 {
		return nil, Errorf(CodeUnionVariantMismatch, "Union '%s' declares no variants.", label).WithPath(label)
	}

	dd := d
	dd.Union = nil
	dd.IsNullable, dd.ReadNullable, dd.WriteNullable = false, false, false
	declared, err := b.resolve(dd, st)
	if err != nil {
		return nil, err
	}

	nullable := d.IsNullable
	for _, v := range u.Variants {
		if v.Nullability == ir.Nullable {
			nullable = true
		}
	}
	e := edgeDirect
	if nullable {
		e = edgeNullable
	}

	variants := make([]*Node, 0, len(u.Variants))
	seen := make(map[*shape]bool, len(u.Variants))
	for _, v := range u.Variants {
		vd, err := DescribeType(ir.TypeRef{Type: v.Type, Nullability: ir.NotNull})
		if err != nil {
			return nil, err
		}
		vd.Name = label
		st.push(frame{edge: e})
		n, err := b.resolve(vd, st)
		st.pop()
		if err != nil {
			return nil, err
		}
		if n.s.kind == KindUnion {
			return nil, Errorf(CodeUnionVariantMismatch, "Union '%s' cannot have the union '%s' as a variant.", label, n).WithPath(label)
		}
		if seen[n.s] {
			return nil, Errorf(CodeUnionVariantMismatch, "Union '%s' declares the variant '%s' more than once.", label, n).WithPath(label)
		}
		seen[n.s] = true
		if !b.assignable(declared, n) {
			return nil, Errorf(CodeUnionVariantMismatch, "Union variant '%s' is not assignable to '%s' declared by '%s'.", n, declared, label).
				WithType(declared.Signature()).WithPath(label)
		}
		variants = append(variants, n)
	}

	s, err := b.internUnion(variants, u.CanBeExtended)
	if err != nil {
		return nil, err
	}
	for _, v := range variants {
		b.expose(v, s, label)
	}
	return b.pick(s, nullable), nil
}

// assignable reports whether a value of type v can be held by a member
// declared as t. Both nodes are non-nullable.
func (b *Builder) assignable(t, v *Node) bool {
	if t.s == v.s {
		return true
	}
	switch t.s.kind {
	case KindAny:
		return true
	case KindList, KindSet, KindMap:
		if !t.s.abstract || v.s.abstract || t.s.kind != v.s.kind {
			return false
		}
		return sameIDs(t.s.args, v.s.args)
	case KindAbstractPoco:
		p := v.Primary()
		if p == nil {
			return false
		}
		if t.s.name == ir.IPocoName.String() {
			return true
		}
		for _, id := range t.s.implementations {
			if id == p.id {
				return true
			}
		}
	case KindPrimaryPoco:
		return v.Primary() == t
	}
	return false
}

func sameIDs(a, b []NodeID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// internUnion returns the union shape of resolved non-nullable variants.
// Extendable and closed unions of the same variants are distinct shapes.
func (b *Builder) internUnion(variants []*Node, extendable bool) (*shape, error) {
	sigs := make([]string, len(variants))
	for i, v := range variants {
		sigs[i] = v.Signature()
	}
	name := unionSignature(sigs, extendable)
	s, err := b.lookup(name, KindUnion)
	if err != nil || s != nil {
		return s, err
	}
	if s, err = b.newShape(KindUnion, name, nil); err != nil {
		return nil, err
	}
	s.canBeExtended = extendable
	s.variants = make([]NodeID, len(variants))
	for i, v := range variants {
		s.variants[i] = v.id
	}
	if err := b.complete(s); err != nil {
		return nil, err
	}
	return s, nil
}
