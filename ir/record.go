package ir

// RecordDescriptor represents a fixed-shape value aggregate.
// Named records are declared types (Go structs); anonymous records are
// structural tuples identified by their field layout.
type RecordDescriptor struct {
	// Name is the type identifier. Zero for anonymous records.
	Name Identifier

	// Anonymous marks a structural tuple.
	Anonymous bool

	// Fields contains all record fields in declaration order.
	Fields []FieldDescriptor

	// Source location in Go code.
	Source Source
}

// Kind returns KindRecord.
func (d *RecordDescriptor) Kind() DescriptorKind { return KindRecord }

// TypeName returns the record's name.
func (d *RecordDescriptor) TypeName() Identifier { return d.Name }

func (*RecordDescriptor) sealed() {}

// FieldDescriptor represents a single field within a record.
type FieldDescriptor struct {
	// Name is the field name. Anonymous record fields may be unnamed; the
	// builder then names them Item1, Item2...
	Name string

	// Type is the field's type and null state.
	Type TypeRef

	// Default is an attribute-declared default value, or nil.
	Default any

	// ReadOnly marks an init-only field.
	ReadOnly bool
}

// Record returns a named RecordDescriptor.
func Record(name string, fields ...FieldDescriptor) *RecordDescriptor {
	return &RecordDescriptor{Name: Name(name), Fields: fields}
}

// Tuple returns an anonymous RecordDescriptor.
func Tuple(fields ...FieldDescriptor) *RecordDescriptor {
	return &RecordDescriptor{Anonymous: true, Fields: fields}
}

// Field returns a FieldDescriptor.
func Field(name string, ref TypeRef) FieldDescriptor {
	return FieldDescriptor{Name: name, Type: ref}
}

// WithDefault returns a copy of f carrying a declared default value.
func (f FieldDescriptor) WithDefault(v any) FieldDescriptor {
	f.Default = v
	return f
}
