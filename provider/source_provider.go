package provider

import (
	"cmp"
	"context"
	"fmt"
	"go/constant"
	"go/token"
	"go/types"
	"slices"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/broady/pocotype/internal/errors"
	"github.com/broady/pocotype/ir"
	"github.com/broady/pocotype/poco"
)

// SourceProvider extracts types by analyzing Go source code.
type SourceProvider struct{}

// SourceInputOptions configures source-based type extraction.
type SourceInputOptions struct {
	// Packages are the Go package patterns to analyze.
	Packages []string

	// RootTypes are the type names to extract (e.g., "IUser", "Point").
	// If empty, all exported non-generic types in the packages are
	// extracted.
	RootTypes []string

	// Dir is the directory in which packages are resolved. Empty means
	// the current directory.
	Dir string
}

// BuildSchema analyzes source code and returns a Schema.
// The provider recursively extracts all types reachable from RootTypes.
func (p *SourceProvider) BuildSchema(ctx context.Context, opts SourceInputOptions) (*ir.Schema, error) {
	if len(opts.Packages) == 0 {
		return nil, errors.WithHint(errors.New("no packages specified"), "list package patterns such as ./models")
	}

	cfg := &packages.Config{
		Context: ctx,
		Dir:     opts.Dir,
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedCompiledGoFiles |
			packages.NeedImports |
			packages.NeedTypes |
			packages.NeedSyntax |
			packages.NeedTypesInfo,
	}
	pkgs, err := packages.Load(cfg, opts.Packages...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrLoad, "%v", err)
	}
	if len(pkgs) == 0 {
		return nil, errors.Wrapf(errors.ErrLoad, "no packages found matching %s", strings.Join(opts.Packages, " "))
	}
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, errors.WithHint(
				errors.Wrapf(errors.ErrLoad, "package %s: %v", pkg.PkgPath, pkg.Errors[0]),
				"the package must type-check: run go build on it")
		}
	}

	b := &schemaBuilder{
		pkgs:   pkgs,
		schema: &ir.Schema{},
		named:  make(map[string]ir.TypeDescriptor),
		pocos:  make(map[*types.Named]bool),
	}
	b.directives = make(map[token.Pos]directive)
	for _, pkg := range pkgs {
		ds, err := parseDirectives(pkg.Fset, pkg.Syntax)
		if err != nil {
			return nil, err
		}
		for pos, d := range ds {
			b.directives[pos] = d
		}
	}

	if len(opts.RootTypes) > 0 {
		for _, name := range opts.RootTypes {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := b.extractRootType(name); err != nil {
				return nil, errors.Wrapf(err, "root type %s", name)
			}
		}
		return b.schema, nil
	}
	if err := b.extractAllExportedTypes(ctx); err != nil {
		return nil, errors.Wrap(err, "extracting exported types")
	}
	return b.schema, nil
}

// schemaBuilder accumulates types and manages the extraction process.
type schemaBuilder struct {
	pkgs       []*packages.Package
	schema     *ir.Schema
	named      map[string]ir.TypeDescriptor // key: typeKey
	pocos      map[*types.Named]bool        // memoized isPoco
	directives map[token.Pos]directive
}

// extractRootType finds and extracts a named type by name.
func (b *schemaBuilder) extractRootType(name string) error {
	for _, pkg := range b.pkgs {
		tn, ok := pkg.Types.Scope().Lookup(name).(*types.TypeName)
		if !ok {
			continue
		}
		_, err := b.extractNamed(tn, nil)
		return err
	}
	return errors.WithHintf(errors.Wrapf(errors.ErrNotFound, "%s", name),
		"%s is not declared at package scope of %s", name, b.pkgPaths())
}

func (b *schemaBuilder) pkgPaths() string {
	paths := make([]string, len(b.pkgs))
	for i, pkg := range b.pkgs {
		paths[i] = pkg.PkgPath
	}
	return strings.Join(paths, ", ")
}

// extractAllExportedTypes extracts the exported records, enums and Poco
// interfaces of all packages. Generic declarations are skipped.
func (b *schemaBuilder) extractAllExportedTypes(ctx context.Context) error {
	for _, pkg := range b.pkgs {
		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			if err := ctx.Err(); err != nil {
				return err
			}
			tn, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || !tn.Exported() || tn.IsAlias() {
				continue
			}
			named, ok := tn.Type().(*types.Named)
			if !ok || named.TypeParams().Len() > 0 {
				continue
			}
			switch u := named.Underlying().(type) {
			case *types.Struct:
			case *types.Interface:
				if !b.isPoco(named) {
					continue
				}
			case *types.Basic:
				if u.Info()&types.IsInteger == 0 || len(b.enumConstants(tn)) == 0 {
					continue
				}
			default:
				continue
			}
			if _, err := b.extractNamed(tn, nil); err != nil {
				return errors.Wrapf(err, "type %s", name)
			}
		}
	}
	return nil
}

// typeKey generates a unique key for a named type, including type
// arguments of instantiated generics.
func (b *schemaBuilder) typeKey(named *types.Named) string {
	obj := named.Obj()
	if obj.Pkg() == nil {
		return named.String()
	}
	return obj.Pkg().Path() + "." + b.typeName(named)
}

// typeName returns the declared name with its type arguments, qualified
// relative to the declaring package.
func (b *schemaBuilder) typeName(named *types.Named) string {
	args := named.TypeArgs()
	if args.Len() == 0 {
		return named.Obj().Name()
	}
	qual := types.RelativeTo(named.Obj().Pkg())
	parts := make([]string, args.Len())
	for i := range args.Len() {
		parts[i] = types.TypeString(args.At(i), qual)
	}
	return named.Obj().Name() + "[" + strings.Join(parts, ",") + "]"
}

func (b *schemaBuilder) identifier(named *types.Named) ir.Identifier {
	id := ir.Identifier{Name: b.typeName(named)}
	if pkg := named.Obj().Pkg(); pkg != nil {
		id.Package = pkg.Path()
	}
	return id
}

// extractNamed extracts a declared type. Instantiated generic types pass
// their *types.Named; declarations pass nil and use tn's type.
func (b *schemaBuilder) extractNamed(tn *types.TypeName, inst *types.Named) (ir.TypeDescriptor, error) {
	named := inst
	if named == nil {
		var ok bool
		if named, ok = types.Unalias(tn.Type()).(*types.Named); !ok {
			ref, err := b.convertType(tn.Type())
			return ref.Type, err
		}
	}
	key := b.typeKey(named)
	if td, ok := b.named[key]; ok {
		return td, nil
	}
	src := b.extractSource(tn)

	switch u := named.Underlying().(type) {
	case *types.Struct:
		rd := &ir.RecordDescriptor{Name: b.identifier(named), Source: src}
		b.named[key] = rd
		b.schema.AddType(rd)
		fields, err := b.structFields(u, rd.Name.Name)
		if err != nil {
			return nil, err
		}
		rd.Fields = fields
		return rd, nil

	case *types.Interface:
		if named.Obj().Pkg() != nil && named.Obj().Pkg().Path() == poco.PackagePath && named.Obj().Name() == "Poco" {
			return ir.IPoco(), nil
		}
		if !b.isPoco(named) {
			if u.Empty() {
				return ir.Any(), nil
			}
			return nil, errors.Newf("interface %s does not embed poco.Poco", named.Obj().Name())
		}
		return b.extractPoco(named, key, src)

	case *types.Basic:
		if u.Info()&types.IsInteger != 0 {
			if consts := b.enumConstants(named.Obj()); len(consts) > 0 {
				ed := b.buildEnumDescriptor(named, u, consts, src)
				b.named[key] = ed
				b.schema.AddType(ed)
				return ed, nil
			}
		}
	}

	ref, err := b.convertType(named.Underlying())
	if err != nil {
		return nil, err
	}
	return ref.Type, nil
}

// convertType converts a Go type to a type reference. Pointers are
// nullable.
func (b *schemaBuilder) convertType(t types.Type) (ir.TypeRef, error) {
	t = types.Unalias(t)
	if td := b.handleSpecialType(t); td != nil {
		return ir.Ref(td), nil
	}

	switch typ := t.(type) {
	case *types.Pointer:
		elem, err := b.convertType(typ.Elem())
		if err != nil {
			return ir.TypeRef{}, err
		}
		return ir.NullableRef(elem.Type), nil

	case *types.Basic:
		k, ok := convertBasicType(typ)
		if !ok {
			return ir.TypeRef{}, errors.Newf("unsupported basic type %s", typ)
		}
		return ir.Ref(ir.Basic(k)), nil

	case *types.Named:
		var td ir.TypeDescriptor
		var err error
		if typ.TypeArgs().Len() > 0 {
			td, err = b.extractNamed(typ.Obj(), typ)
		} else {
			td, err = b.extractNamed(typ.Obj(), nil)
		}
		if err != nil {
			return ir.TypeRef{}, err
		}
		return ir.Ref(td), nil

	case *types.Slice:
		elem, err := b.convertType(typ.Elem())
		if err != nil {
			return ir.TypeRef{}, err
		}
		return ir.Ref(ir.ListOf(elem)), nil

	case *types.Array:
		elem, err := b.convertType(typ.Elem())
		if err != nil {
			return ir.TypeRef{}, err
		}
		return ir.Ref(ir.ArrayOf(elem)), nil

	case *types.Map:
		key, err := b.convertType(typ.Key())
		if err != nil {
			return ir.TypeRef{}, err
		}
		if st, ok := typ.Elem().Underlying().(*types.Struct); ok && st.NumFields() == 0 {
			return ir.Ref(ir.SetOf(key)), nil
		}
		value, err := b.convertType(typ.Elem())
		if err != nil {
			return ir.TypeRef{}, err
		}
		return ir.Ref(ir.MapOf(key, value)), nil

	case *types.Interface:
		if typ.Empty() {
			return ir.Ref(ir.Any()), nil
		}
		return ir.TypeRef{}, errors.Newf("unsupported anonymous interface %s", typ)

	case *types.Struct:
		fields, err := b.structFields(typ, "anonymous record")
		if err != nil {
			return ir.TypeRef{}, err
		}
		return ir.Ref(ir.Tuple(fields...)), nil

	case *types.TypeParam:
		return ir.Ref(ir.TypeParam(typ.Obj().Name())), nil

	default:
		return ir.TypeRef{}, errors.Newf("unsupported type %s", t)
	}
}

// handleSpecialType handles []byte and the well-known named types.
func (b *schemaBuilder) handleSpecialType(t types.Type) ir.TypeDescriptor {
	switch typ := t.(type) {
	case *types.Slice:
		if basic, ok := typ.Elem().(*types.Basic); ok && basic.Kind() == types.Uint8 {
			return ir.Bytes()
		}
	case *types.Named:
		obj := typ.Obj()
		if obj.Pkg() == nil {
			return nil
		}
		if k, ok := wellKnown[obj.Pkg().Path()+"."+obj.Name()]; ok {
			return ir.Basic(k)
		}
	}
	return nil
}

// convertBasicType maps a Go basic type to a basic kind.
func convertBasicType(basic *types.Basic) (ir.BasicKind, bool) {
	if basic.Name() == "rune" {
		return ir.BasicChar, true
	}
	switch basic.Kind() {
	case types.Bool:
		return ir.BasicBool, true
	case types.String:
		return ir.BasicString, true
	case types.Int8:
		return ir.BasicInt8, true
	case types.Int16:
		return ir.BasicInt16, true
	case types.Int32:
		return ir.BasicInt32, true
	case types.Int, types.Int64:
		return ir.BasicInt64, true
	case types.Uint8: // types.Byte is an alias for Uint8
		return ir.BasicUint8, true
	case types.Uint16:
		return ir.BasicUint16, true
	case types.Uint32:
		return ir.BasicUint32, true
	case types.Uint, types.Uint64:
		return ir.BasicUint64, true
	case types.Float32:
		return ir.BasicFloat32, true
	case types.Float64:
		return ir.BasicFloat64, true
	}
	return 0, false
}

// extractSource extracts source location information.
func (b *schemaBuilder) extractSource(obj types.Object) ir.Source {
	if !obj.Pos().IsValid() || len(b.pkgs) == 0 {
		return ir.Source{}
	}
	position := b.pkgs[0].Fset.Position(obj.Pos())
	return ir.Source{File: position.Filename, Line: position.Line, Column: position.Column}
}

// enumConstants returns the package-level constants of type tn in
// declaration order.
func (b *schemaBuilder) enumConstants(tn *types.TypeName) []*types.Const {
	pkg := tn.Pkg()
	if pkg == nil {
		return nil
	}
	var consts []*types.Const
	scope := pkg.Scope()
	for _, name := range scope.Names() {
		if c, ok := scope.Lookup(name).(*types.Const); ok && types.Identical(c.Type(), tn.Type()) {
			consts = append(consts, c)
		}
	}
	slices.SortFunc(consts, func(a, b *types.Const) int { return cmp.Compare(a.Pos(), b.Pos()) })
	return consts
}

// buildEnumDescriptor creates an EnumDescriptor from constants. Values of
// unsigned enums are uint64, others int64.
func (b *schemaBuilder) buildEnumDescriptor(named *types.Named, u *types.Basic, consts []*types.Const, src ir.Source) *ir.EnumDescriptor {
	k, _ := convertBasicType(u)
	ed := &ir.EnumDescriptor{Name: b.identifier(named), Underlying: k, Source: src}
	for _, c := range consts {
		var value any
		if k.IsUnsigned() {
			value, _ = constant.Uint64Val(c.Val())
		} else {
			value, _ = constant.Int64Val(c.Val())
		}
		ed.Members = append(ed.Members, ir.EnumMember{Name: c.Name(), Value: value})
	}
	return ed
}

// structFields returns the exported fields of st in declaration order.
// Fields of embedded structs are promoted.
func (b *schemaBuilder) structFields(st *types.Struct, owner string) ([]ir.FieldDescriptor, error) {
	var out []ir.FieldDescriptor
	for i := range st.NumFields() {
		f := st.Field(i)
		if !f.Exported() {
			continue
		}
		opts, err := ParseTag(tagValue(st.Tag(i)))
		if err != nil {
			return nil, errors.Wrapf(err, "%s.%s", owner, f.Name())
		}
		if opts.Skip {
			continue
		}
		if inner, ok := f.Type().Underlying().(*types.Struct); ok && f.Embedded() {
			promoted, err := b.structFields(inner, owner)
			if err != nil {
				return nil, err
			}
			out = append(out, promoted...)
			continue
		}
		ref, err := b.convertType(f.Type())
		if err != nil {
			b.schema.AddWarning(ir.Warning{
				Code:     WarnUnsupportedType,
				Message:  fmt.Sprintf("field %s.%s skipped: %v", owner, f.Name(), err),
				TypeName: owner,
			})
			continue
		}
		fd, err := opts.field(f.Name(), ref, func(code, msg string) {
			b.schema.AddWarning(ir.Warning{Code: code, Message: owner + ": " + msg, TypeName: owner})
		})
		if err != nil {
			return nil, errors.Wrap(err, owner)
		}
		out = append(out, fd)
	}
	return out, nil
}

// isPoco reports whether named is an interface that embeds poco.Poco,
// directly or through other interfaces.
func (b *schemaBuilder) isPoco(named *types.Named) bool {
	if v, ok := b.pocos[named]; ok {
		return v
	}
	b.pocos[named] = false
	iface, ok := named.Underlying().(*types.Interface)
	if !ok {
		return false
	}
	for i := range iface.NumEmbeddeds() {
		e, ok := types.Unalias(iface.EmbeddedType(i)).(*types.Named)
		if !ok {
			continue
		}
		if _, marker := markerRole(e); marker || b.isPoco(e) {
			b.pocos[named] = true
			return true
		}
	}
	return false
}

// markerRole returns the role selected by embedding e when e is one of
// the poco markers.
func markerRole(e *types.Named) (ir.InterfaceRole, bool) {
	obj := e.Obj()
	if obj.Pkg() == nil || obj.Pkg().Path() != poco.PackagePath {
		return 0, false
	}
	switch obj.Name() {
	case "Poco":
		return ir.RoleConcrete, true
	case "Abstract":
		return ir.RoleAbstract, true
	case "Definer":
		return ir.RoleDefiner, true
	case "SuperDefiner":
		return ir.RoleSuperDefiner, true
	}
	return 0, false
}

// extractPoco extracts a Poco interface. Its bases are the Poco interfaces
// it embeds; its role is selected by the marker it embeds.
func (b *schemaBuilder) extractPoco(named *types.Named, key string, src ir.Source) (ir.TypeDescriptor, error) {
	id := &ir.InterfaceDescriptor{Name: b.identifier(named), Role: ir.RoleConcrete, Source: src}
	b.named[key] = id
	b.schema.AddType(id)

	iface := named.Underlying().(*types.Interface)
	for i := range iface.NumEmbeddeds() {
		e, ok := types.Unalias(iface.EmbeddedType(i)).(*types.Named)
		if !ok {
			continue
		}
		if role, marker := markerRole(e); marker {
			if role != ir.RoleConcrete {
				id.Role = role
			}
			continue
		}
		if !b.isPoco(e) {
			continue
		}
		td, err := b.extractNamed(e.Obj(), e)
		if err != nil {
			return nil, err
		}
		base := td.(*ir.InterfaceDescriptor)
		id.Extends = append(id.Extends, base)
		if base.Role == ir.RoleSuperDefiner && id.Role == ir.RoleConcrete {
			id.Role = ir.RoleDefiner
		}
	}

	props, err := b.properties(named, iface)
	if err != nil {
		return nil, err
	}
	id.Properties = props
	return id, nil
}

// properties returns the properties declared by the explicit methods of
// iface, in declaration order. An explicit setter of an inherited getter
// redeclares the property as settable.
func (b *schemaBuilder) properties(named *types.Named, iface *types.Interface) ([]ir.PropertyDescriptor, error) {
	owner := named.Obj().Name()
	methods := make([]*types.Func, iface.NumExplicitMethods())
	for i := range methods {
		methods[i] = iface.ExplicitMethod(i)
	}
	slices.SortFunc(methods, func(a, b *types.Func) int { return cmp.Compare(a.Pos(), b.Pos()) })

	lookup := func(name string) *types.Signature {
		for i := range iface.NumMethods() {
			if m := iface.Method(i); m.Name() == name {
				return m.Type().(*types.Signature)
			}
		}
		return nil
	}
	explicit := make(map[string]bool)
	for _, m := range methods {
		explicit[m.Name()] = true
	}

	var props []ir.PropertyDescriptor
	for _, m := range methods {
		if !m.Exported() {
			continue
		}
		sig := m.Type().(*types.Signature)
		var name string
		var typ types.Type
		switch {
		case sig.Params().Len() == 0 && sig.Results().Len() == 1:
			name, typ = m.Name(), sig.Results().At(0).Type()
		case strings.HasPrefix(m.Name(), "Set") && sig.Params().Len() == 1 && sig.Results().Len() == 0:
			getter := strings.TrimPrefix(m.Name(), "Set")
			if explicit[getter] {
				continue
			}
			if lookup(getter) == nil {
				b.schema.AddWarning(ir.Warning{
					Code:     WarnSetterWithoutGetter,
					Message:  fmt.Sprintf("setter %s.%s has no getter", owner, m.Name()),
					TypeName: owner,
				})
				continue
			}
			name, typ = getter, sig.Params().At(0).Type()
		default:
			b.schema.AddWarning(ir.Warning{
				Code:     WarnMethodIgnored,
				Message:  fmt.Sprintf("method %s.%s is not a property accessor", owner, m.Name()),
				TypeName: owner,
			})
			continue
		}

		hasSetter := false
		if set := lookup("Set" + name); set != nil && set.Params().Len() == 1 && set.Results().Len() == 0 {
			hasSetter = types.Identical(set.Params().At(0).Type(), typ)
		}

		ref, err := b.convertType(typ)
		if err != nil {
			b.schema.AddWarning(ir.Warning{
				Code:     WarnUnsupportedType,
				Message:  fmt.Sprintf("property %s.%s skipped: %v", owner, name, err),
				TypeName: owner,
			})
			continue
		}
		var opts TagOptions
		if d, ok := b.directives[m.Pos()]; ok {
			if opts, err = ParseTag(d.options); err != nil {
				return nil, errors.Wrapf(err, "%s: %s.%s", d.pos, owner, m.Name())
			}
		}
		if opts.Skip {
			continue
		}
		md, err := opts.member(name, ref, func(n string) ir.TypeDescriptor { return b.resolve(named, n) })
		if err != nil {
			return nil, errors.Wrap(err, owner)
		}
		props = append(props, ir.PropertyDescriptor{MemberDescriptor: md, HasSetter: hasSetter})
	}
	return props, nil
}

// resolve finds a union variant type declared in the package of named.
func (b *schemaBuilder) resolve(named *types.Named, name string) ir.TypeDescriptor {
	pkg := named.Obj().Pkg()
	if pkg == nil {
		return nil
	}
	tn, ok := pkg.Scope().Lookup(name).(*types.TypeName)
	if !ok {
		return nil
	}
	td, err := b.extractNamed(tn, nil)
	if err != nil {
		return nil
	}
	return td
}
