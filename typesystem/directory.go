package typesystem

import (
	"strings"

	"github.com/broady/pocotype/ir"
)

// pocoInfo is the directory entry of one Poco interface.
type pocoInfo struct {
	desc *ir.InterfaceDescriptor
	name string
	role ir.InterfaceRole // effective role
	err  *Error

	family *family // concrete interfaces

	ancestors       []*pocoInfo // every extended interface, transitively
	implementations []*family   // abstract interfaces
}

// family is a primary interface and its secondary interfaces merged into
// one exchange shape.
type family struct {
	primary   *pocoInfo
	members   []*pocoInfo // primary first
	props     []*familyProp
	byName    map[string]*familyProp
	abstracts []*pocoInfo
	err       *Error
}

// familyProp is a property merged across a family.
type familyProp struct {
	name     string
	origin   string
	prop     ir.PropertyDescriptor
	sig      string
	union    *ir.UnionSpec
	settable bool
}

// directory is the Poco interface directory computed once per builder.
type directory struct {
	byName   map[string]*pocoInfo
	order    []*pocoInfo // bases before extensions
	families []*family
	errors   []*Error
}

func newDirectory(pocos []*ir.InterfaceDescriptor) *directory {
	dir := &directory{byName: make(map[string]*pocoInfo)}
	root := &pocoInfo{desc: ir.IPoco(), name: ir.IPocoName.String(), role: ir.RoleAbstract}
	dir.byName[root.name] = root

	var visit func(d *ir.InterfaceDescriptor)
	visit = func(d *ir.InterfaceDescriptor) {
		if d == nil {
			return
		}
		name := d.Name.String()
		if _, ok := dir.byName[name]; ok {
			return
		}
		info := &pocoInfo{desc: d, name: name, role: d.Role}
		dir.byName[name] = info
		for _, base := range d.Extends {
			visit(base)
		}
		dir.order = append(dir.order, info)
	}
	for _, d := range pocos {
		visit(d)
	}

	for _, info := range dir.order {
		dir.resolveRole(info)
	}
	for _, info := range dir.order {
		info.ancestors = dir.ancestors(info)
	}
	for _, info := range dir.order {
		if info.role == ir.RoleConcrete {
			dir.assignFamily(info)
		}
	}
	for _, f := range dir.families {
		dir.linkAbstracts(f, root)
		dir.merge(f)
	}
	return dir
}

func (dir *directory) lookup(d *ir.InterfaceDescriptor) *pocoInfo {
	return dir.byName[d.Name.String()]
}

func (dir *directory) bases(info *pocoInfo) []*pocoInfo {
	out := make([]*pocoInfo, 0, len(info.desc.Extends))
	for _, base := range info.desc.Extends {
		if base == nil {
			continue
		}
		if bi := dir.byName[base.Name.String()]; bi != nil && bi.desc != ir.IPoco() {
			out = append(out, bi)
		}
	}
	return out
}

// resolveRole makes the direct extensions of a super-definer definers.
func (dir *directory) resolveRole(info *pocoInfo) {
	if info.role == ir.RoleAbstract {
		return
	}
	for _, base := range dir.bases(info) {
		if base.desc.Role == ir.RoleSuperDefiner {
			info.role = ir.RoleDefiner
			return
		}
	}
}

func (dir *directory) ancestors(info *pocoInfo) []*pocoInfo {
	var out []*pocoInfo
	seen := map[*pocoInfo]bool{info: true}
	var walk func(i *pocoInfo)
	walk = func(i *pocoInfo) {
		for _, base := range dir.bases(i) {
			if seen[base] {
				continue
			}
			seen[base] = true
			walk(base)
			out = append(out, base)
		}
	}
	walk(info)
	return out
}

// assignFamily makes info the primary of a new family when it has no
// concrete base, or a secondary of the single family its concrete bases
// belong to.
func (dir *directory) assignFamily(info *pocoInfo) {
	var fams []*family
	for _, base := range dir.bases(info) {
		if base.role != ir.RoleConcrete {
			continue
		}
		if base.err != nil {
			info.err = base.err
			return
		}
		if base.family != nil && !containsFamily(fams, base.family) {
			fams = append(fams, base.family)
		}
	}
	switch len(fams) {
	case 0:
		f := &family{primary: info, members: []*pocoInfo{info}, byName: make(map[string]*familyProp)}
		info.family = f
		dir.families = append(dir.families, f)
	case 1:
		info.family = fams[0]
		fams[0].members = append(fams[0].members, info)
	default:
		names := make([]string, len(fams))
		for i, f := range fams {
			names[i] = "'" + f.primary.name + "'"
		}
		info.err = Errorf(CodeFamilyConflict, "Interface '%s' extends interfaces of distinct Poco families: %s.",
			info.name, strings.Join(names, ", ")).WithType(info.name)
		dir.errors = append(dir.errors, info.err)
	}
}

func containsFamily(fams []*family, f *family) bool {
	for _, x := range fams {
		if x == f {
			return true
		}
	}
	return false
}

// linkAbstracts records the abstract interfaces a family implements, the
// root abstraction last.
func (dir *directory) linkAbstracts(f *family, root *pocoInfo) {
	seen := map[*pocoInfo]bool{}
	for _, m := range f.members {
		for _, a := range m.ancestors {
			if a.role == ir.RoleAbstract && !seen[a] {
				seen[a] = true
				f.abstracts = append(f.abstracts, a)
			}
		}
	}
	f.abstracts = append(f.abstracts, root)
	for _, a := range f.abstracts {
		a.implementations = append(a.implementations, f)
	}
}

// merge collects the properties of the family members and of their
// non-concrete ancestors, in declaration order.
func (dir *directory) merge(f *family) {
	seen := map[*pocoInfo]bool{}
	var visit func(i *pocoInfo)
	visit = func(i *pocoInfo) {
		if seen[i] {
			return
		}
		seen[i] = true
		for _, base := range dir.bases(i) {
			if base.role != ir.RoleConcrete {
				visit(base)
			}
		}
		if err := f.add(i); err != nil && f.err == nil {
			f.err = err
			dir.errors = append(dir.errors, err)
		}
	}
	for _, m := range f.members {
		visit(m)
	}
}

func (f *family) add(i *pocoInfo) *Error {
	declared := make(map[string]bool, len(i.desc.Properties))
	for _, p := range i.desc.Properties {
		if declared[p.Name] {
			return Errorf(CodeDuplicateFieldDeclaration, "Property '%s' is declared more than once in '%s'.", p.Name, i.name).
				WithType(i.name).WithPath(i.name + "." + p.Name)
		}
		declared[p.Name] = true

		sig := propertySignature(p)
		existing, ok := f.byName[p.Name]
		if !ok {
			fp := &familyProp{name: p.Name, origin: i.name, prop: p, sig: sig, union: p.Union, settable: p.HasSetter}
			f.byName[p.Name] = fp
			f.props = append(f.props, fp)
			continue
		}
		if existing.sig != sig {
			return Errorf(CodeFieldNameCollision,
				"Property '%s.%s' of type '%s' collides with '%s.%s' of type '%s' in Poco family '%s'.",
				i.name, p.Name, sig, existing.origin, p.Name, existing.sig, f.primary.name).
				WithType(f.primary.name).WithPath(i.name + "." + p.Name)
		}
		union, err := mergeUnion(existing, p, i.name)
		if err != nil {
			return err
		}
		existing.union = union
		existing.settable = existing.settable || p.HasSetter
		if existing.prop.Default == nil {
			existing.prop.Default = p.Default
		}
	}
	return nil
}

func propertySignature(p ir.PropertyDescriptor) string {
	m := p.MemberDescriptor
	m.Union = nil
	m.Write = m.Read
	d, err := Describe(m)
	if err != nil {
		return "?"
	}
	return signatureOf(d)
}

func variantSignatures(u *ir.UnionSpec) []string {
	out := make([]string, len(u.Variants))
	for i, v := range u.Variants {
		if v.Nullability != ir.Nullable {
			v.Nullability = ir.NotNull
		}
		d, err := DescribeType(v)
		if err != nil {
			out[i] = "?"
			continue
		}
		out[i] = signatureOf(d)
	}
	return out
}

// mergeUnion applies the union declared by an extension to an inherited
// property. An extendable union may gain variants; a non extendable union
// must be redeclared identically.
func mergeUnion(existing *familyProp, p ir.PropertyDescriptor, owner string) (*ir.UnionSpec, *Error) {
	path := owner + "." + p.Name
	switch {
	case existing.union == nil && p.Union == nil:
		return nil, nil
	case existing.union == nil || p.Union == nil:
		return nil, Errorf(CodeUnionVariantMismatch, "Property '%s' must be declared as a union by every interface or by none ('%s.%s').",
			path, existing.origin, p.Name).WithPath(path)
	}
	have := variantSignatures(existing.union)
	got := variantSignatures(p.Union)
	gotSet := make(map[string]bool, len(got))
	for _, g := range got {
		gotSet[g] = true
	}
	for _, h := range have {
		if !gotSet[h] {
			return nil, Errorf(CodeUnionVariantMismatch, "Union '%s' removes or redefines inherited variant '%s' of '%s.%s'.",
				path, h, existing.origin, p.Name).WithPath(path).WithDetail("variants", have)
		}
	}
	if !existing.union.CanBeExtended {
		if len(got) != len(have) {
			return nil, Errorf(CodeUnionVariantMismatch, "Union '%s.%s' cannot be extended: '%s' declares (%s) instead of (%s).",
				existing.origin, p.Name, owner, strings.Join(got, "|"), strings.Join(have, "|")).WithPath(path)
		}
		return existing.union, nil
	}
	merged := &ir.UnionSpec{CanBeExtended: true, Variants: append([]ir.TypeRef(nil), existing.union.Variants...)}
	haveSet := make(map[string]bool, len(have))
	for _, h := range have {
		haveSet[h] = true
	}
	for i, g := range got {
		if !haveSet[g] {
			merged.Variants = append(merged.Variants, p.Union.Variants[i])
			haveSet[g] = true
		}
	}
	return merged, nil
}
