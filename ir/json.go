package ir

import "encoding/json"

// JSON serialization support for IR types.
// All descriptors include a "kind" field for type discrimination. Nested
// declared types are written as references ({"ref": name}) so that cyclic
// descriptor graphs serialize finitely.

// MarshalJSON implements json.Marshaler for BasicDescriptor.
func (d *BasicDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind  string `json:"kind"`
		Basic string `json:"basic"`
	}{
		Kind:  "basic",
		Basic: d.Basic.String(),
	})
}

// MarshalJSON implements json.Marshaler for AnyDescriptor.
func (d *AnyDescriptor) MarshalJSON() ([]byte, error) {
	return []byte(`{"kind":"any"}`), nil
}

// MarshalJSON implements json.Marshaler for GenericParameterDescriptor.
func (d *GenericParameterDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind      string `json:"kind"`
		ParamName string `json:"paramName"`
	}{
		Kind:      "genericParameter",
		ParamName: d.ParamName,
	})
}

// MarshalJSON implements json.Marshaler for EnumDescriptor.
func (d *EnumDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind       string       `json:"kind"`
		Name       Identifier   `json:"name"`
		Underlying string       `json:"underlying"`
		Members    []EnumMember `json:"members"`
	}{
		Kind:       "enum",
		Name:       d.Name,
		Underlying: d.Underlying.String(),
		Members:    d.Members,
	})
}

// MarshalJSON implements json.Marshaler for RecordDescriptor.
func (d *RecordDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind      string            `json:"kind"`
		Name      *Identifier       `json:"name,omitempty"`
		Anonymous bool              `json:"anonymous,omitempty"`
		Fields    []FieldDescriptor `json:"fields"`
	}{
		Kind:      "record",
		Name:      identifierOrNil(d.Name),
		Anonymous: d.Anonymous,
		Fields:    d.Fields,
	})
}

// MarshalJSON implements json.Marshaler for CollectionDescriptor.
func (d *CollectionDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind       string    `json:"kind"`
		Collection string    `json:"collection"`
		Abstract   bool      `json:"abstract,omitempty"`
		Args       []TypeRef `json:"args"`
	}{
		Kind:       "collection",
		Collection: d.Collection.String(),
		Abstract:   d.Abstract,
		Args:       d.Args,
	})
}

// MarshalJSON implements json.Marshaler for InterfaceDescriptor.
func (d *InterfaceDescriptor) MarshalJSON() ([]byte, error) {
	extends := make([]Identifier, 0, len(d.Extends))
	for _, e := range d.Extends {
		extends = append(extends, e.Name)
	}
	return json.Marshal(&struct {
		Kind       string               `json:"kind"`
		Name       Identifier           `json:"name"`
		Role       string               `json:"role"`
		Extends    []Identifier         `json:"extends,omitempty"`
		Properties []PropertyDescriptor `json:"properties"`
	}{
		Kind:       "interface",
		Name:       d.Name,
		Role:       d.Role.String(),
		Extends:    extends,
		Properties: d.Properties,
	})
}

// MarshalJSON implements json.Marshaler for TypeRef.
// Declared types are written by reference.
func (r TypeRef) MarshalJSON() ([]byte, error) {
	var typ any = r.Type
	if r.Type != nil && !r.Type.TypeName().IsZero() {
		typ = &struct {
			Ref string `json:"ref"`
		}{Ref: r.Type.TypeName().String()}
	}
	return json.Marshal(&struct {
		Type        any    `json:"type"`
		Nullability string `json:"nullability"`
	}{
		Type:        typ,
		Nullability: r.Nullability.String(),
	})
}

// MarshalJSON implements json.Marshaler for Identifier.
func (id Identifier) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name    string `json:"name"`
		Package string `json:"package,omitempty"`
	}{
		Name:    id.Name,
		Package: id.Package,
	})
}

// MarshalJSON implements json.Marshaler for FieldDescriptor.
func (f FieldDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name     string  `json:"name,omitempty"`
		Type     TypeRef `json:"type"`
		Default  any     `json:"default,omitempty"`
		ReadOnly bool    `json:"readOnly,omitempty"`
	}{
		Name:     f.Name,
		Type:     f.Type,
		Default:  f.Default,
		ReadOnly: f.ReadOnly,
	})
}

// MarshalJSON implements json.Marshaler for PropertyDescriptor.
func (p PropertyDescriptor) MarshalJSON() ([]byte, error) {
	var union *UnionSpec
	if p.Union != nil {
		union = p.Union
	}
	return json.Marshal(&struct {
		Name      string     `json:"name"`
		Type      TypeRef    `json:"type"`
		Write     string     `json:"write"`
		Access    string     `json:"access"`
		HasSetter bool       `json:"hasSetter,omitempty"`
		Default   any        `json:"default,omitempty"`
		Union     *UnionSpec `json:"union,omitempty"`
	}{
		Name:      p.Name,
		Type:      TypeRef{Type: p.Type, Nullability: p.Read},
		Write:     p.Write.String(),
		Access:    p.Access.String(),
		HasSetter: p.HasSetter,
		Default:   p.Default,
		Union:     union,
	})
}

// MarshalJSON implements json.Marshaler for UnionSpec.
func (u *UnionSpec) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Variants      []TypeRef `json:"variants"`
		CanBeExtended bool      `json:"canBeExtended,omitempty"`
	}{
		Variants:      u.Variants,
		CanBeExtended: u.CanBeExtended,
	})
}

// MarshalJSON implements json.Marshaler for EnumMember.
func (m EnumMember) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name  string `json:"name"`
		Value any    `json:"value"`
	}{
		Name:  m.Name,
		Value: m.Value,
	})
}

func identifierOrNil(id Identifier) *Identifier {
	if id.IsZero() {
		return nil
	}
	return &id
}
