package typesystem

import (
	"fmt"
	"strings"

	"github.com/broady/pocotype/ir"
)

func (b *Builder) classifyRecord(d Descriptor, st *stack) (*Node, error) {
	rd := d.Type.(*ir.RecordDescriptor)
	if rd.Anonymous {
		return b.classifyTuple(d, rd, st)
	}
	name := rd.Name.String()
	s, err := b.lookup(name, KindNamedRecord)
	if err != nil {
		return nil, err
	}
	if s != nil {
		return b.existing(s, d.IsNullable, st)
	}
	if err := checkFieldNames(name, rd); err != nil {
		return nil, err
	}
	if s, err = b.newShape(KindNamedRecord, name, rd); err != nil {
		return nil, err
	}
	s.valueType = true
	for i, fd := range rd.Fields {
		f, err := b.recordField(s, name, i, fd, st)
		if err != nil {
			b.markFailed(s, asError(err))
			return nil, err
		}
		s.fields = append(s.fields, f)
		s.overrides = append(s.overrides, fd.Default)
	}
	if err := b.complete(s); err != nil {
		return nil, err
	}
	return b.pick(s, d.IsNullable), nil
}

// classifyTuple resolves the fields of an anonymous record first: a
// structural type cannot refer to itself.
func (b *Builder) classifyTuple(d Descriptor, rd *ir.RecordDescriptor, st *stack) (*Node, error) {
	label := signatureOf(d)
	if err := checkFieldNames(label, rd); err != nil {
		return nil, err
	}
	fields := make([]Field, 0, len(rd.Fields))
	overrides := make([]any, 0, len(rd.Fields))
	for i, fd := range rd.Fields {
		f, err := b.recordField(nil, label, i, fd, st)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
		overrides = append(overrides, fd.Default)
	}
	s, err := b.internTuple(fields, overrides, rd)
	if err != nil {
		return nil, err
	}
	return b.pick(s, d.IsNullable), nil
}

func checkFieldNames(owner string, rd *ir.RecordDescriptor) error {
	seen := make(map[string]bool, len(rd.Fields))
	for i, f := range rd.Fields {
		name := f.Name
		if name == "" && rd.Anonymous {
			name = tupleItemName(i)
		}
		if name == "" {
			return Errorf(CodeUnsupportedType, "Field #%d of record '%s' has no name.", i, owner).WithType(owner)
		}
		if seen[name] {
			return Errorf(CodeDuplicateFieldDeclaration, "Field '%s' is declared more than once in '%s'.", name, owner).
				WithType(owner).WithPath(owner + "." + name)
		}
		seen[name] = true
	}
	return nil
}

func (b *Builder) recordField(s *shape, owner string, i int, fd ir.FieldDescriptor, st *stack) (Field, error) {
	name := fd.Name
	if name == "" {
		name = tupleItemName(i)
	}
	d, err := DescribeType(fd.Type)
	if err != nil {
		return Field{}, err
	}
	d.Name = owner + "." + name
	d.AccessMode = ir.ByValue
	st.push(frame{s: s, owner: owner, member: name, edge: edgeOf(d)})
	n, err := b.resolve(d, st)
	st.pop()
	if err != nil {
		return Field{}, err
	}
	return Field{Name: name, Type: n, IsReadOnly: fd.ReadOnly, Access: ir.ByValue, Index: i}, nil
}

// internTuple returns the anonymous record shape of resolved fields.
func (b *Builder) internTuple(fields []Field, overrides []any, desc ir.TypeDescriptor) (*shape, error) {
	names := make([]string, len(fields))
	types := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
		types[i] = f.Type.Signature()
	}
	name := tupleSignature(names, types)
	s, err := b.lookup(name, KindAnonymousRecord)
	if err != nil || s != nil {
		return s, err
	}
	if s, err = b.newShape(KindAnonymousRecord, name, desc); err != nil {
		return nil, err
	}
	s.valueType = true
	s.fields = make([]Field, len(fields))
	for i, f := range fields {
		f.Index = i
		if f.Name == "" {
			f.Name = tupleItemName(i)
		}
		s.fields[i] = f
	}
	s.overrides = overrides
	if err := b.complete(s); err != nil {
		return nil, err
	}
	return s, nil
}

// exposure is a by-value use of a type checked once shapes are complete.
type exposure struct {
	target *Node
	via    *shape
	path   string
}

func (b *Builder) expose(target *Node, via *shape, path string) {
	if target.s.kind.IsRecord() {
		b.exposures = append(b.exposures, exposure{target: target, via: via, path: path})
	}
}

// exposureError reports a record exposed by value while it contains
// mutable references.
func (b *Builder) exposureError(n *Node, path string) error {
	s := n.s
	if !s.kind.IsRecord() || s.compliant {
		return nil
	}
	paths := b.mutablePaths(s)
	quoted := make([]string, len(paths))
	for i, p := range paths {
		quoted[i] = "'" + p + "'"
	}
	return NewError(CodeInvalidMutableReferenceInRecord,
		fmt.Sprintf("Record '%s' is exposed by value through '%s' but contains mutable reference types: %s. Expose it by reference or make it read-only compliant.",
			s.name, path, strings.Join(quoted, ", "))).
		WithType(s.name).
		WithPath(path).
		WithDetail("fields", paths)
}

// mutablePaths lists the field paths of s that hold mutable references,
// through nested records.
func (b *Builder) mutablePaths(s *shape) []string {
	var out []string
	seen := map[*shape]bool{}
	var walk func(s *shape, prefix string)
	walk = func(s *shape, prefix string) {
		if seen[s] {
			return
		}
		seen[s] = true
		for _, f := range s.fields {
			fs := f.Type.s
			switch {
			case fs.kind.isMutableReference():
				out = append(out, prefix+"."+f.Name)
			case fs.kind.IsRecord() && !fs.compliant:
				walk(fs, prefix+"."+f.Name)
			}
		}
	}
	walk(s, s.name)
	return out
}
