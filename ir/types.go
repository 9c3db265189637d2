// Package ir defines the normalized representation of reflected types that
// providers hand to the type system builder. These descriptors are
// language-agnostic: they describe what a member or a type declares, never
// how it is implemented.
package ir

// Identifier represents a declared type name with package context.
type Identifier struct {
	// Name is the declared identifier.
	Name string

	// Package is the fully qualified package path.
	// Empty for builtin and test-local types.
	Package string
}

// IsZero returns true if the identifier is empty.
func (id Identifier) IsZero() bool {
	return id.Name == "" && id.Package == ""
}

// String returns "Package.Name", or Name alone when Package is empty.
func (id Identifier) String() string {
	if id.Package == "" {
		return id.Name
	}
	return id.Package + "." + id.Name
}

// Name returns an Identifier without package.
func Name(name string) Identifier {
	return Identifier{Name: name}
}

// Source represents source code location information.
type Source struct {
	File   string
	Line   int
	Column int
}

// IsZero returns true if the source location is empty.
func (s Source) IsZero() bool {
	return s.File == "" && s.Line == 0 && s.Column == 0
}

// Warning represents a non-fatal issue encountered by a provider.
type Warning struct {
	// Code is a machine-readable warning identifier.
	Code string

	// Message is a human-readable description.
	Message string

	// TypeName is the type that triggered the warning, if applicable.
	TypeName string
}
