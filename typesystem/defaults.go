package typesystem

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
)

// missingDefault records why a shape has no default: the first field
// without default and its type, or nothing for unsynthesizable leaves.
type missingDefault struct {
	path  string
	cause *shape
}

// ensureDefault computes the default of s once. A shape reached again
// while its default is being computed gets none.
func (b *Builder) ensureDefault(s *shape) {
	if s.defState != stateNotStarted {
		return
	}
	s.defState = stateInProgress
	defer func() { s.defState = stateDone }()

	self := b.nodes[s.id]
	switch s.kind {
	case KindAny:
		s.noDefault = &missingDefault{}
	case KindAbstractPoco:
		// Only a single implementing family resolves the abstraction.
		if len(s.implementations) != 1 {
			s.noDefault = &missingDefault{}
			return
		}
		p := b.shapeOf(s.implementations[0])
		b.ensureDefault(p)
		if !p.def.HasDefault {
			s.noDefault = &missingDefault{cause: p}
			return
		}
		s.def = p.def
	case KindBasic:
		v, init := zeroValue(s.basic)
		s.def = DefaultValueInfo{HasDefault: true, RequiresInit: init, Literal: &Literal{Kind: LiteralBasic, Type: self, Value: v}}
	case KindEnum:
		b.enumDefault(s)
	case KindList, KindSet, KindMap:
		s.def = DefaultValueInfo{HasDefault: true, RequiresInit: true, Literal: &Literal{Kind: LiteralEmptyCollection, Type: self}}
	case KindUnion:
		first := b.nodes[s.variants[0]]
		b.ensureDefault(first.s)
		if !first.s.def.HasDefault {
			s.noDefault = &missingDefault{cause: first.s}
			return
		}
		s.def = DefaultValueInfo{HasDefault: true, RequiresInit: true,
			Literal: &Literal{Kind: LiteralVariant, Type: first, Inner: first.s.def.Literal}}
	case KindSecondaryPoco:
		p := b.shapeOf(s.primary)
		b.ensureDefault(p)
		if !p.def.HasDefault {
			s.noDefault = &missingDefault{cause: p}
			return
		}
		s.def = p.def
	case KindPrimaryPoco:
		if _, ok := b.fieldDefaults(s); ok {
			s.def = DefaultValueInfo{HasDefault: true, RequiresInit: true, Literal: &Literal{Kind: LiteralNewPoco, Type: self}}
		}
	case KindNamedRecord, KindAnonymousRecord:
		if lits, ok := b.fieldDefaults(s); ok {
			init := false
			for _, f := range s.fields {
				init = init || f.Default.RequiresInit
			}
			s.def = DefaultValueInfo{HasDefault: true, RequiresInit: init, Literal: &Literal{Kind: LiteralRecord, Type: self, Fields: lits}}
		}
	}
}

// fieldDefaults resolves the default of every field: the declared value
// when present, the default of the field type otherwise. It reports false
// when a non-nullable field has none.
func (b *Builder) fieldDefaults(s *shape) ([]FieldLiteral, bool) {
	lits := make([]FieldLiteral, 0, len(s.fields))
	for i := range s.fields {
		f := &s.fields[i]
		path := fieldPath(s, f)
		var declared any
		if i < len(s.overrides) {
			declared = s.overrides[i]
		}
		if declared != nil {
			lit, err := b.literalFor(f.Type.NonNullable(), declared)
			if err != nil {
				s.defErr = Errorf(CodeInvalidDefaultValue, "Invalid default value for '%s': %v.", path, err).
					WithType(s.name).WithPath(path)
				return nil, false
			}
			f.Default = DefaultValueInfo{HasDefault: true, RequiresInit: true, Literal: lit}
		} else {
			if !f.Type.nullable {
				b.ensureDefault(f.Type.s)
			}
			f.Default = f.Type.DefaultValue()
		}
		if !f.Default.HasDefault {
			if s.noDefault == nil {
				s.noDefault = &missingDefault{path: path, cause: f.Type.s}
			}
			continue
		}
		lits = append(lits, FieldLiteral{Name: f.Name, Value: f.Default.Literal})
	}
	return lits, s.noDefault == nil
}

func fieldPath(s *shape, f *Field) string {
	if f.Origin != "" {
		return f.Origin + "." + f.Name
	}
	return s.name + "." + f.Name
}

// enumDefault elects the smallest declared value, compared in the
// signedness of the underlying type. Ties keep the first declared member.
func (b *Builder) enumDefault(s *shape) {
	if len(s.enumMembers) == 0 {
		s.noDefault = &missingDefault{}
		return
	}
	best := 0
	var bestValue any
	for i, m := range s.enumMembers {
		v, err := fitInteger(s.basic, m.Value)
		if err != nil {
			continue
		}
		if bestValue == nil || lessInteger(v, bestValue) {
			best, bestValue = i, v
		}
	}
	m := s.enumMembers[best]
	init := bestValue != int64(0) && bestValue != uint64(0)
	s.def = DefaultValueInfo{HasDefault: true, RequiresInit: init,
		Literal: &Literal{Kind: LiteralEnum, Type: b.nodes[s.id], Value: bestValue, Member: m.Name}}
}

// lessInteger compares two values of the same signedness.
func lessInteger(a, b any) bool {
	switch x := a.(type) {
	case int64:
		return x < b.(int64)
	case uint64:
		return x < b.(uint64)
	}
	return false
}

func equalInteger(a, b any) bool {
	switch x := a.(type) {
	case int64:
		switch y := b.(type) {
		case int64:
			return x == y
		case uint64:
			u, err := safecast.Conv[uint64](x)
			return err == nil && u == y
		}
	case uint64:
		return equalInteger(b, x)
	}
	return false
}

// literalFor validates a declared default against a non-nullable node.
func (b *Builder) literalFor(n *Node, v any) (*Literal, error) {
	switch n.s.kind {
	case KindBasic:
		val, err := convertBasic(n.s.basic, v)
		if err != nil {
			return nil, err
		}
		return &Literal{Kind: LiteralBasic, Type: n, Value: val}, nil
	case KindEnum:
		for _, m := range n.s.enumMembers {
			if name, ok := v.(string); ok && name == m.Name {
				return b.enumLiteral(n, m.Name, m.Value)
			}
		}
		if i, ok := toInteger(v); ok {
			for _, m := range n.s.enumMembers {
				if equalInteger(i, m.Value) {
					return b.enumLiteral(n, m.Name, m.Value)
				}
			}
		}
		return nil, fmt.Errorf("%v is not a member of '%s'", v, n)
	case KindUnion:
		var tried []string
		for _, variant := range n.Variants() {
			inner, err := b.literalFor(variant, v)
			if err == nil {
				return &Literal{Kind: LiteralVariant, Type: variant, Inner: inner}, nil
			}
			tried = append(tried, variant.Signature())
		}
		return nil, fmt.Errorf("%v (%T) matches no variant of (%s)", v, v, strings.Join(tried, "|"))
	}
	return nil, fmt.Errorf("declared defaults are not supported for '%s'", n)
}

func (b *Builder) enumLiteral(n *Node, member string, value any) (*Literal, error) {
	v, err := fitInteger(n.s.basic, value)
	if err != nil {
		return nil, err
	}
	return &Literal{Kind: LiteralEnum, Type: n, Value: v, Member: member}, nil
}

// missingDefaultError renders the causal chain from s to the first type
// for which no default can be synthesized.
func (b *Builder) missingDefaultError(s *shape) *Error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Required computable default value is missing in '%s': field '%s' has no default value.", s.name, s.noDefault.path)
	leaf := s.noDefault.cause
	seen := map[*shape]bool{s: true}
	for leaf.noDefault != nil && !seen[leaf] {
		seen[leaf] = true
		md := leaf.noDefault
		if md.path != "" {
			fmt.Fprintf(&sb, " Because '%s', field: '%s' has no default value.", leaf.name, md.path)
		}
		if md.cause == nil {
			break
		}
		leaf = md.cause
	}
	fmt.Fprintf(&sb, " No default can be synthesized for non nullable '%s'.", leaf.name)
	return NewError(CodeNoComputableDefaultValue, sb.String()).
		WithType(s.name).
		WithPath(s.noDefault.path).
		WithDetail("leaf", leaf.name)
}
