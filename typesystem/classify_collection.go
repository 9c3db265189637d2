package typesystem

import (
	"github.com/broady/pocotype/ir"
)

func (b *Builder) classifyCollection(d Descriptor, st *stack) (*Node, error) {
	cd := d.Type.(*ir.CollectionDescriptor)
	sig := signatureOf(d)
	if len(d.GenericArguments) != cd.Collection.Arity() {
		return nil, Errorf(CodeUnsupportedType, "Collection '%s' of '%s' requires %d type arguments.",
			sig, memberLabel(d.Name), cd.Collection.Arity()).WithType(sig)
	}
	if cd.Abstract && cd.Collection == ir.CollectionArray {
		return nil, Errorf(CodeUnsupportedType, "Arrays cannot be abstract ('%s').", sig).WithType(sig)
	}

	args := make([]*Node, len(d.GenericArguments))
	for i, a := range d.GenericArguments {
		if ac, ok := a.Type.(*ir.CollectionDescriptor); ok && ac.Abstract {
			return nil, Errorf(CodeAbstractCollectionNesting,
				"Abstract collection '%s' cannot be a type argument of '%s' in '%s': abstract collections must not nest.",
				signatureOf(a), sig, memberLabel(d.Name)).WithType(sig)
		}
		if cd.Collection == ir.CollectionMap && i == 0 && a.IsNullable {
			if !a.Oblivious {
				return nil, Errorf(CodeInvalidMapKey,
					"Map key of '%s' in '%s' must not be nullable.", sig, memberLabel(d.Name)).WithType(sig)
			}
			a.IsNullable, a.ReadNullable, a.WriteNullable = false, false, false
		}
		e := edgeCollection
		if a.IsNullable {
			e = edgeNullable
		}
		st.push(frame{edge: e})
		n, err := b.resolve(a, st)
		st.pop()
		if err != nil {
			return nil, err
		}
		args[i] = n
	}

	s, err := b.internCollection(cd.Collection, cd.Abstract, args, cd)
	if err != nil {
		return nil, err
	}
	for _, a := range args {
		b.expose(a, s, s.name)
	}
	return b.pick(s, d.IsNullable), nil
}

var collectionKinds = map[ir.CollectionKind]Kind{
	ir.CollectionArray: KindList,
	ir.CollectionList:  KindList,
	ir.CollectionSet:   KindSet,
	ir.CollectionMap:   KindMap,
}

// internCollection returns the collection shape of resolved arguments,
// creating it when needed.
func (b *Builder) internCollection(ck ir.CollectionKind, abstract bool, args []*Node, desc ir.TypeDescriptor) (*shape, error) {
	sigs := make([]string, len(args))
	for i, a := range args {
		sigs[i] = a.Signature()
	}
	name := collectionSignature(ck, abstract, sigs)
	kind := collectionKinds[ck]
	s, err := b.lookup(name, kind)
	if err != nil || s != nil {
		return s, err
	}
	if s, err = b.newShape(kind, name, desc); err != nil {
		return nil, err
	}
	s.collection = ck
	s.abstract = abstract
	s.args = make([]NodeID, len(args))
	for i, a := range args {
		s.args[i] = a.id
	}
	if err := b.complete(s); err != nil {
		return nil, err
	}
	return s, nil
}
