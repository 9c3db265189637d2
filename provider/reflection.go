package provider

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/broady/pocotype/internal/errors"
	"github.com/broady/pocotype/ir"
	"github.com/broady/pocotype/poco"
)

// ReflectionProvider extracts types using runtime reflection.
//
// Reflection does not see constants, so named integer types are mapped to
// their underlying kind, and it does not see interface embedding, so the
// extension graph of Poco interfaces is inferred from method sets among the
// interfaces it is given.
type ReflectionProvider struct{}

// ReflectionInputOptions configures reflection-based type extraction.
type ReflectionInputOptions struct {
	// RootTypes are the types to extract: structs, Poco interfaces and
	// pointers to them.
	RootTypes []reflect.Type

	// Pocos lists additional Poco interfaces of the directory. Every base
	// interface of a root Poco must be listed here or in RootTypes.
	Pocos []reflect.Type
}

var (
	pocoType         = reflect.TypeFor[poco.Poco]()
	abstractType     = reflect.TypeFor[poco.Abstract]()
	definerType      = reflect.TypeFor[poco.Definer]()
	superDefinerType = reflect.TypeFor[poco.SuperDefiner]()
	bytesType        = reflect.TypeFor[[]byte]()
)

// BuildSchema extracts types and returns a Schema.
func (p *ReflectionProvider) BuildSchema(ctx context.Context, opts ReflectionInputOptions) (*ir.Schema, error) {
	if len(opts.RootTypes) == 0 {
		return nil, errors.New("no root types provided")
	}

	b := &reflectionSchemaBuilder{
		schema: &ir.Schema{},
		named:  make(map[reflect.Type]ir.TypeDescriptor),
	}
	for _, t := range append(append([]reflect.Type(nil), opts.RootTypes...), opts.Pocos...) {
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		if t.Kind() == reflect.Interface && isPocoInterface(t) {
			b.candidates = append(b.candidates, t)
		}
	}

	for _, t := range opts.RootTypes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := b.descriptor(t); err != nil {
			return nil, errors.Wrapf(err, "root type %s", t)
		}
	}
	for _, t := range opts.Pocos {
		if _, err := b.descriptor(t); err != nil {
			return nil, errors.Wrapf(err, "poco %s", t)
		}
	}
	return b.schema, nil
}

// reflectionSchemaBuilder maintains state during schema construction.
type reflectionSchemaBuilder struct {
	schema     *ir.Schema
	named      map[reflect.Type]ir.TypeDescriptor // declared types and tuples
	candidates []reflect.Type                     // known Poco interfaces
}

type unsupportedTypeError struct {
	t reflect.Type
}

func (e *unsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type %s", e.t)
}

func (b *reflectionSchemaBuilder) addWarning(code, message, typeName string) {
	b.schema.AddWarning(ir.Warning{Code: code, Message: message, TypeName: typeName})
}

func identifier(t reflect.Type) ir.Identifier {
	return ir.Identifier{Name: t.Name(), Package: t.PkgPath()}
}

// isPocoInterface reports whether t embeds poco.Poco. The markers
// themselves are not Poco interfaces.
func isPocoInterface(t reflect.Type) bool {
	return t.Implements(pocoType) && t.PkgPath() != poco.PackagePath
}

// descriptor converts t to a type reference. Pointers are nullable.
func (b *reflectionSchemaBuilder) descriptor(t reflect.Type) (ir.TypeRef, error) {
	if t.Kind() == reflect.Pointer {
		elem, err := b.descriptor(t.Elem())
		if err != nil {
			return ir.TypeRef{}, err
		}
		if elem.Nullability == ir.Nullable {
			b.addWarning(WarnUnsupportedType, fmt.Sprintf("pointer to pointer %s collapsed to a single nullable", t), t.Name())
		}
		return ir.NullableRef(elem.Type), nil
	}
	td, err := b.typeDescriptor(t)
	if err != nil {
		return ir.TypeRef{}, err
	}
	return ir.Ref(td), nil
}

func (b *reflectionSchemaBuilder) typeDescriptor(t reflect.Type) (ir.TypeDescriptor, error) {
	if td, ok := b.named[t]; ok {
		return td, nil
	}
	if k, ok := wellKnown[t.PkgPath()+"."+t.Name()]; ok && t.Name() != "" {
		return ir.Basic(k), nil
	}
	if t == bytesType || (t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 && t.Elem().PkgPath() == "") {
		return ir.Bytes(), nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return b.basic(t, ir.BasicBool), nil
	case reflect.Int8:
		return b.basic(t, ir.BasicInt8), nil
	case reflect.Int16:
		return b.basic(t, ir.BasicInt16), nil
	case reflect.Int32:
		return b.basic(t, ir.BasicInt32), nil
	case reflect.Int, reflect.Int64:
		return b.basic(t, ir.BasicInt64), nil
	case reflect.Uint8:
		return b.basic(t, ir.BasicUint8), nil
	case reflect.Uint16:
		return b.basic(t, ir.BasicUint16), nil
	case reflect.Uint32:
		return b.basic(t, ir.BasicUint32), nil
	case reflect.Uint, reflect.Uint64:
		return b.basic(t, ir.BasicUint64), nil
	case reflect.Float32:
		return b.basic(t, ir.BasicFloat32), nil
	case reflect.Float64:
		return b.basic(t, ir.BasicFloat64), nil
	case reflect.String:
		return b.basic(t, ir.BasicString), nil

	case reflect.Slice:
		elem, err := b.descriptor(t.Elem())
		if err != nil {
			return nil, err
		}
		return ir.ListOf(elem), nil

	case reflect.Array:
		elem, err := b.descriptor(t.Elem())
		if err != nil {
			return nil, err
		}
		return ir.ArrayOf(elem), nil

	case reflect.Map:
		key, err := b.descriptor(t.Key())
		if err != nil {
			return nil, err
		}
		if v := t.Elem(); v.Kind() == reflect.Struct && v.NumField() == 0 {
			return ir.SetOf(key), nil
		}
		value, err := b.descriptor(t.Elem())
		if err != nil {
			return nil, err
		}
		return ir.MapOf(key, value), nil

	case reflect.Interface:
		if t == pocoType {
			return ir.IPoco(), nil
		}
		if isPocoInterface(t) {
			return b.extractPoco(t)
		}
		if t.NumMethod() == 0 {
			return ir.Any(), nil
		}

	case reflect.Struct:
		if t.Name() == "" {
			return b.extractTuple(t)
		}
		return b.extractStruct(t)
	}
	return nil, &unsupportedTypeError{t: t}
}

// basic returns the descriptor of a basic kind. Named integer types are
// enums whose members reflection cannot see.
func (b *reflectionSchemaBuilder) basic(t reflect.Type, k ir.BasicKind) ir.TypeDescriptor {
	if t.Name() != "" && t.PkgPath() != "" && k.IsInteger() {
		b.addWarning(WarnEnumUnresolved,
			fmt.Sprintf("named type %s mapped to %s: constants are not visible to reflection", t, k), t.Name())
	}
	return ir.Basic(k)
}

// extractStruct extracts a named struct as a record. The descriptor is
// cached before its fields so that recursive types share it.
func (b *reflectionSchemaBuilder) extractStruct(t reflect.Type) (ir.TypeDescriptor, error) {
	rd := &ir.RecordDescriptor{Name: identifier(t)}
	b.named[t] = rd
	b.schema.AddType(rd)

	fields, err := b.fields(t, t.Name())
	if err != nil {
		return nil, err
	}
	rd.Fields = fields
	return rd, nil
}

func (b *reflectionSchemaBuilder) extractTuple(t reflect.Type) (ir.TypeDescriptor, error) {
	rd := &ir.RecordDescriptor{Anonymous: true}
	b.named[t] = rd
	fields, err := b.fields(t, "anonymous record")
	if err != nil {
		return nil, err
	}
	rd.Fields = fields
	return rd, nil
}

// fields returns the exported fields of t in declaration order. Fields of
// embedded structs are promoted.
func (b *reflectionSchemaBuilder) fields(t reflect.Type, owner string) ([]ir.FieldDescriptor, error) {
	var out []ir.FieldDescriptor
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		opts, err := ParseTag(f.Tag.Get(TagKey))
		if err != nil {
			return nil, errors.Wrapf(err, "%s.%s", owner, f.Name)
		}
		if opts.Skip {
			continue
		}
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			promoted, err := b.fields(f.Type, owner)
			if err != nil {
				return nil, err
			}
			out = append(out, promoted...)
			continue
		}

		ref, err := b.descriptor(f.Type)
		var unsupported *unsupportedTypeError
		if errors.As(err, &unsupported) {
			b.addWarning(WarnUnsupportedType, fmt.Sprintf("field %s.%s skipped: %v", owner, f.Name, err), owner)
			continue
		}
		if err != nil {
			return nil, err
		}
		fd, err := opts.field(f.Name, ref, func(code, msg string) { b.addWarning(code, owner+": "+msg, owner) })
		if err != nil {
			return nil, errors.Wrap(err, owner)
		}
		out = append(out, fd)
	}
	return out, nil
}

// extractPoco extracts a Poco interface. Its direct bases are the minimal
// known Poco interfaces whose method sets it strictly contains.
func (b *reflectionSchemaBuilder) extractPoco(t reflect.Type) (ir.TypeDescriptor, error) {
	id := &ir.InterfaceDescriptor{Name: identifier(t)}
	b.named[t] = id
	b.schema.AddType(id)

	bases := b.bases(t)
	for _, base := range bases {
		bd, err := b.typeDescriptor(base)
		if err != nil {
			return nil, err
		}
		id.Extends = append(id.Extends, bd.(*ir.InterfaceDescriptor))
	}
	id.Role = pocoRole(t, bases, id.Extends)

	props, err := b.properties(t, bases)
	if err != nil {
		return nil, err
	}
	id.Properties = props
	return id, nil
}

func (b *reflectionSchemaBuilder) bases(t reflect.Type) []reflect.Type {
	var supers []reflect.Type
	for _, c := range b.candidates {
		if c == t || !t.Implements(c) {
			continue
		}
		if c.NumMethod() == t.NumMethod() {
			b.addWarning(WarnAmbiguousExtension,
				fmt.Sprintf("%s and %s have the same method set", t, c), t.Name())
			continue
		}
		supers = append(supers, c)
	}
	var direct []reflect.Type
	for _, s := range supers {
		covered := false
		for _, other := range supers {
			if other != s && other.Implements(s) {
				covered = true
				break
			}
		}
		if !covered {
			direct = append(direct, s)
		}
	}
	return direct
}

// pocoRole returns the role selected by a marker that t embeds and none
// of its bases does.
func pocoRole(t reflect.Type, bases []reflect.Type, extends []*ir.InterfaceDescriptor) ir.InterfaceRole {
	markers := []struct {
		t    reflect.Type
		role ir.InterfaceRole
	}{
		{superDefinerType, ir.RoleSuperDefiner},
		{definerType, ir.RoleDefiner},
		{abstractType, ir.RoleAbstract},
	}
	for _, m := range markers {
		if !t.Implements(m.t) {
			continue
		}
		inherited := false
		for _, base := range bases {
			if base.Implements(m.t) {
				inherited = true
				break
			}
		}
		if !inherited {
			return m.role
		}
	}
	for _, e := range extends {
		if e.Role == ir.RoleSuperDefiner {
			return ir.RoleDefiner
		}
	}
	return ir.RoleConcrete
}

// properties returns the properties t declares. A getter inherited from a
// base is redeclared when t adds its setter.
func (b *reflectionSchemaBuilder) properties(t reflect.Type, bases []reflect.Type) ([]ir.PropertyDescriptor, error) {
	inBase := func(name string) bool {
		for _, base := range bases {
			if _, ok := base.MethodByName(name); ok {
				return true
			}
		}
		return false
	}

	getters := make(map[string]reflect.Type)
	setters := make(map[string]reflect.Type)
	var order []string
	for i := range t.NumMethod() {
		m := t.Method(i)
		if !m.IsExported() {
			continue
		}
		switch {
		case m.Type.NumIn() == 0 && m.Type.NumOut() == 1:
			getters[m.Name] = m.Type.Out(0)
			order = append(order, m.Name)
		case strings.HasPrefix(m.Name, "Set") && m.Type.NumIn() == 1 && m.Type.NumOut() == 0:
			setters[strings.TrimPrefix(m.Name, "Set")] = m.Type.In(0)
		default:
			b.addWarning(WarnMethodIgnored, fmt.Sprintf("method %s.%s is not a property accessor", t.Name(), m.Name), t.Name())
		}
	}
	for name := range setters {
		if _, ok := getters[name]; !ok {
			b.addWarning(WarnSetterWithoutGetter, fmt.Sprintf("setter %s.Set%s has no getter", t.Name(), name), t.Name())
		}
	}

	var props []ir.PropertyDescriptor
	for _, name := range order {
		gt := getters[name]
		st, hasSetter := setters[name]
		if hasSetter && st != gt {
			b.addWarning(WarnSetterWithoutGetter,
				fmt.Sprintf("setter %s.Set%s takes %s, getter returns %s", t.Name(), name, st, gt), t.Name())
			hasSetter = false
		}
		if inBase(name) && !(hasSetter && !inBase("Set"+name)) {
			continue
		}
		ref, err := b.descriptor(gt)
		var unsupported *unsupportedTypeError
		if errors.As(err, &unsupported) {
			b.addWarning(WarnUnsupportedType, fmt.Sprintf("property %s.%s skipped: %v", t.Name(), name, err), t.Name())
			continue
		}
		if err != nil {
			return nil, err
		}
		m, err := TagOptions{}.member(name, ref, b.resolve)
		if err != nil {
			return nil, err
		}
		props = append(props, ir.PropertyDescriptor{MemberDescriptor: m, HasSetter: hasSetter})
	}
	return props, nil
}

func (b *reflectionSchemaBuilder) resolve(name string) ir.TypeDescriptor {
	for t, td := range b.named {
		if t.Name() == name {
			return td
		}
	}
	return nil
}
