package ir

// Schema is the set of descriptors a provider extracted from Go code.
type Schema struct {
	// Types contains the top-level declared descriptors in extraction
	// order: records, enums and Poco interfaces. Structural descriptors
	// (collections, tuples) appear nested inside them.
	Types []TypeDescriptor

	// Pocos is the Poco interface directory handed to the type system
	// builder. Every InterfaceDescriptor in Types also appears here.
	Pocos []*InterfaceDescriptor

	// Warnings contains non-fatal issues encountered during extraction.
	Warnings []Warning
}

// AddType adds a declared type descriptor to the schema.
// Interface descriptors are added to the Poco directory too.
func (s *Schema) AddType(t TypeDescriptor) {
	s.Types = append(s.Types, t)
	if d, ok := t.(*InterfaceDescriptor); ok {
		s.Pocos = append(s.Pocos, d)
	}
}

// AddWarning adds a warning to the schema.
func (s *Schema) AddWarning(w Warning) {
	s.Warnings = append(s.Warnings, w)
}

// FindType looks up a type by name. Returns nil if not found.
func (s *Schema) FindType(name Identifier) TypeDescriptor {
	for _, t := range s.Types {
		if t.TypeName() == name {
			return t
		}
	}
	return nil
}

// FindPoco looks up a Poco interface by its unqualified name.
func (s *Schema) FindPoco(name string) *InterfaceDescriptor {
	for _, p := range s.Pocos {
		if p.Name.Name == name {
			return p
		}
	}
	return nil
}

// Validate checks every descriptor of the schema and rejects duplicate
// declared names. Returns all validation errors found.
func (s *Schema) Validate() []error {
	var result []error
	names := make(map[Identifier]bool)
	for _, t := range s.Types {
		name := t.TypeName()
		if name.IsZero() {
			continue
		}
		if names[name] {
			result = append(result, &ValidationError{
				Code:    "duplicate_type",
				Message: "duplicate type name: " + name.String(),
			})
		}
		names[name] = true
	}
	v := &validation{seen: make(map[TypeDescriptor]bool)}
	for _, t := range s.Types {
		v.walk(t, "")
	}
	for _, e := range v.errors {
		result = append(result, e)
	}
	return result
}
