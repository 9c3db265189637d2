package typesystem

import (
	"github.com/broady/pocotype/ir"
)

func (b *Builder) classifyBasic(d Descriptor, st *stack) (*Node, error) {
	bd := d.Type.(*ir.BasicDescriptor)
	name := bd.Basic.String()
	if name == "Unknown" {
		return nil, Errorf(CodeUnsupportedType, "Basic kind %d of '%s' is not supported.", bd.Basic, memberLabel(d.Name))
	}
	s, err := b.lookup(name, KindBasic)
	if err != nil {
		return nil, err
	}
	if s == nil {
		if s, err = b.newShape(KindBasic, name, bd); err != nil {
			return nil, err
		}
		s.basic = bd.Basic
		s.valueType = !bd.Basic.IsReferenceType()
		if err := b.complete(s); err != nil {
			return nil, err
		}
	}
	return b.pick(s, d.IsNullable), nil
}

// classifyAny registers the unconstrained top type. It has no default and
// is never serializable.
func (b *Builder) classifyAny(d Descriptor, st *stack) (*Node, error) {
	s, err := b.lookup(anySignature, KindAny)
	if err != nil {
		return nil, err
	}
	if s == nil {
		if s, err = b.newShape(KindAny, anySignature, d.Type); err != nil {
			return nil, err
		}
		if err := b.complete(s); err != nil {
			return nil, err
		}
	}
	return b.pick(s, d.IsNullable), nil
}

func (b *Builder) classifyGenericParameter(d Descriptor, st *stack) (*Node, error) {
	p := d.Type.(*ir.GenericParameterDescriptor)
	return nil, Errorf(CodeUnsupportedGenericDefinition,
		"Member '%s' uses the open generic parameter '%s': generic type definitions are not supported.",
		memberLabel(d.Name), p.ParamName)
}

func (b *Builder) classifyEnum(d Descriptor, st *stack) (*Node, error) {
	ed := d.Type.(*ir.EnumDescriptor)
	name := ed.Name.String()
	s, err := b.lookup(name, KindEnum)
	if err != nil {
		return nil, err
	}
	if s != nil {
		return b.existing(s, d.IsNullable, st)
	}
	if err := checkEnum(ed); err != nil {
		return nil, err
	}
	if s, err = b.newShape(KindEnum, name, ed); err != nil {
		return nil, err
	}
	s.basic = ed.Underlying
	s.valueType = true
	s.enumMembers = ed.Members
	if err := b.complete(s); err != nil {
		return nil, err
	}
	return b.pick(s, d.IsNullable), nil
}

// checkEnum verifies the underlying type and that every member value is
// representable by it.
func checkEnum(ed *ir.EnumDescriptor) error {
	name := ed.Name.String()
	if !ed.Underlying.IsInteger() {
		return Errorf(CodeInvalidEnum, "Enum '%s' must have an integer underlying type, not '%s'.", name, ed.Underlying).WithType(name)
	}
	seen := make(map[string]bool, len(ed.Members))
	for _, m := range ed.Members {
		if seen[m.Name] {
			return Errorf(CodeInvalidEnum, "Enum '%s' declares member '%s' more than once.", name, m.Name).WithType(name)
		}
		seen[m.Name] = true
		if _, err := fitInteger(ed.Underlying, m.Value); err != nil {
			return Errorf(CodeInvalidEnum, "Enum '%s' member '%s': %v.", name, m.Name, err).WithType(name)
		}
	}
	return nil
}
