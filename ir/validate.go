package ir

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError represents a descriptor validation error.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks the descriptor graph reachable from td for structural
// issues. Returns all validation errors found (not just the first).
// Cyclic descriptor graphs are walked once per descriptor.
func Validate(td TypeDescriptor) []error {
	v := &validation{seen: make(map[TypeDescriptor]bool)}
	v.walk(td, "")
	var result []error
	for _, e := range v.errors {
		result = append(result, e)
	}
	return result
}

type validation struct {
	seen   map[TypeDescriptor]bool
	errors []*ValidationError
}

func (v *validation) add(code, format string, args ...any) {
	v.errors = append(v.errors, &ValidationError{Code: code, Message: fmt.Sprintf(format, args...)})
}

// check runs a validator tag against a single value.
func (v *validation) check(value any, tag, code, context string) bool {
	if err := validate.Var(value, tag); err != nil {
		v.add(code, "%s: %s", context, tag)
		return false
	}
	return true
}

func (v *validation) walkRef(ref TypeRef, context string) {
	if ref.Type == nil {
		v.add("missing_type", "%s: type is nil", context)
		return
	}
	v.walk(ref.Type, context)
}

func (v *validation) walk(td TypeDescriptor, context string) {
	if td == nil {
		v.add("missing_type", "%s: type is nil", context)
		return
	}
	if v.seen[td] {
		return
	}
	v.seen[td] = true

	switch d := td.(type) {
	case *BasicDescriptor:
		if d.Basic.String() == "Unknown" {
			v.add("invalid_basic", "%s: unknown basic kind %d", context, d.Basic)
		}
	case *AnyDescriptor:
	case *GenericParameterDescriptor:
		v.check(d.ParamName, "required", "missing_name", context+" generic parameter")
	case *EnumDescriptor:
		name := d.Name.String()
		v.check(d.Name.Name, "required", "missing_name", "enum")
		if !d.Underlying.IsInteger() {
			v.add("invalid_enum", "enum %s: underlying type %s is not an integer", name, d.Underlying)
		}
		members := make(map[string]bool)
		for _, m := range d.Members {
			v.check(m.Name, "required", "missing_name", "enum "+name+" member")
			if members[m.Name] {
				v.add("duplicate_member", "enum %s: duplicate member %s", name, m.Name)
			}
			members[m.Name] = true
			switch m.Value.(type) {
			case int64, uint64:
			default:
				v.add("invalid_enum", "enum %s: member %s value must be int64 or uint64, got %T", name, m.Name, m.Value)
			}
		}
	case *RecordDescriptor:
		name := d.Name.String()
		if !d.Anonymous {
			v.check(d.Name.Name, "required", "missing_name", "record")
		} else {
			name = "anonymous record"
		}
		fields := make(map[string]bool)
		for i, f := range d.Fields {
			if !d.Anonymous {
				v.check(f.Name, "required", "missing_name", fmt.Sprintf("%s field #%d", name, i))
			}
			if f.Name != "" {
				if fields[f.Name] {
					v.add("duplicate_field", "%s: duplicate field %s", name, f.Name)
				}
				fields[f.Name] = true
			}
			v.walkRef(f.Type, name+"."+f.Name)
		}
	case *CollectionDescriptor:
		want := d.Collection.Arity()
		v.check(len(d.Args), fmt.Sprintf("eq=%d", want), "invalid_arity", context+" "+d.Collection.String()+" arguments")
		if d.Abstract && d.Collection == CollectionArray {
			v.add("invalid_collection", "%s: arrays cannot be abstract", context)
		}
		for _, a := range d.Args {
			v.walkRef(a, context)
		}
	case *InterfaceDescriptor:
		name := d.Name.String()
		v.check(d.Name.Name, "required", "missing_name", "interface")
		for _, base := range d.Extends {
			if base == nil {
				v.add("missing_type", "interface %s: nil base interface", name)
				continue
			}
			v.walk(base, name)
		}
		for i, p := range d.Properties {
			v.check(p.Name, "required", "missing_name", fmt.Sprintf("interface %s property #%d", name, i))
			if p.Type == nil {
				v.add("missing_type", "%s.%s: type is nil", name, p.Name)
				continue
			}
			v.walk(p.Type, name+"."+p.Name)
			if p.Union != nil {
				v.check(len(p.Union.Variants), "min=1", "invalid_union", name+"."+p.Name+" union variants")
				for _, vr := range p.Union.Variants {
					v.walkRef(vr, name+"."+p.Name)
				}
			}
		}
	default:
		v.add("unknown_descriptor", "%s: unknown descriptor %T", context, td)
	}
}
