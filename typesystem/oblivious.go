package typesystem

// elect links a structural shape to the canonical representative of its
// equivalence family. Concrete collections win over abstract ones,
// non-nullable reference elements over nullable ones, unnamed anonymous
// record fields over named ones and closed unions over extendable ones.
// Declared types represent themselves; secondary Pocos defer to their
// primary.
//
// The canonical shape of a canonical shape is itself, which bounds the
// recursion through intern calls to one level.
func (b *Builder) elect(s *shape) error {
	var canon *shape
	switch s.kind {
	case KindList, KindSet, KindMap:
		args := make([]*Node, len(s.args))
		for i, id := range s.args {
			args[i] = b.obliviousArg(b.nodes[id], s.kind == KindMap && i == 0)
		}
		c, err := b.internCollection(s.collection, false, args, nil)
		if err != nil {
			return err
		}
		canon = c
	case KindAnonymousRecord:
		fields := make([]Field, len(s.fields))
		for i, f := range s.fields {
			fields[i] = Field{Type: b.obliviousArg(f.Type, false), Access: f.Access}
		}
		c, err := b.internTuple(fields, nil, nil)
		if err != nil {
			return err
		}
		canon = c
	case KindUnion:
		seen := make(map[*shape]bool, len(s.variants))
		var variants []*Node
		for _, id := range s.variants {
			o := b.nodes[id].ObliviousType()
			if !seen[o.s] {
				seen[o.s] = true
				variants = append(variants, o)
			}
		}
		c, err := b.internUnion(variants, false)
		if err != nil {
			return err
		}
		canon = c
	case KindSecondaryPoco:
		canon = b.shapeOf(s.primary)
	default:
		return nil
	}
	b.nodes[s.id].oblivious = canon.id
	b.nodes[s.nullID].oblivious = canon.nullID
	if canon != s {
		b.log.Debug("oblivious type elected", "signature", s.name, "oblivious", canon.name)
	}
	return nil
}

// obliviousArg maps a collection argument or anonymous record field to its
// canonical spelling. Nullability of reference types is not kept: it does
// not change the physical representation.
func (b *Builder) obliviousArg(a *Node, key bool) *Node {
	o := a.NonNullable().ObliviousType()
	if a.nullable && a.s.valueType && !key {
		return o.Nullable()
	}
	return o
}
