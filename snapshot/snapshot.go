// Package snapshot captures a locked type system as plain data and encodes
// it for tooling that cannot link against the builder.
//
// A snapshot lists the nodes of a view, non-nullable forms only, with every
// cross reference expressed as a type signature:
//
//	b.Lock()
//	s, err := snapshot.Take(b, b.AllExchangeable())
//	data, err := snapshot.Encode(s, snapshot.FormatMsgpack)
package snapshot

import (
	"bytes"
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/broady/pocotype/internal/errors"
	"github.com/broady/pocotype/ir"
	"github.com/broady/pocotype/typesystem"
)

// Version is the snapshot layout version.
const Version = 1

// Snapshot is an encodable description of a set of type nodes.
type Snapshot struct {
	Version     int                 `json:"version"`
	Nodes       []NodeInfo          `json:"nodes"`
	Diagnostics []*typesystem.Error `json:"diagnostics,omitempty"`
}

// NodeInfo describes one non-nullable node.
type NodeInfo struct {
	ID        typesystem.NodeID `json:"id"`
	Kind      string            `json:"kind"`
	Signature string            `json:"signature"`

	// Oblivious is the signature of the oblivious form when it differs
	// from Signature.
	Oblivious string `json:"oblivious,omitempty"`

	Basic      string `json:"basic,omitempty"`
	Collection string `json:"collection,omitempty"`

	Exchangeable      bool   `json:"exchangeable"`
	Serializable      bool   `json:"serializable"`
	Reason            string `json:"reason,omitempty"`
	ReadOnlyCompliant bool   `json:"readOnlyCompliant"`
	ValueType         bool   `json:"valueType"`
	Abstract          bool   `json:"abstract,omitempty"`
	CanBeExtended     bool   `json:"canBeExtended,omitempty"`

	Default *DefaultInfo `json:"default,omitempty"`

	Fields          []FieldInfo  `json:"fields,omitempty"`
	Args            []string     `json:"args,omitempty"`
	Variants        []string     `json:"variants,omitempty"`
	EnumMembers     []EnumMember `json:"enumMembers,omitempty"`
	Primary         string       `json:"primary,omitempty"`
	Secondaries     []string     `json:"secondaries,omitempty"`
	Implementations []string     `json:"implementations,omitempty"`
	AbstractTypes   []string     `json:"abstractTypes,omitempty"`
}

// DefaultInfo is a rendered default value.
type DefaultInfo struct {
	Literal      string `json:"literal"`
	RequiresInit bool   `json:"requiresInit,omitempty"`
}

// FieldInfo describes a record field or Poco property.
type FieldInfo struct {
	Name     string       `json:"name"`
	Type     string       `json:"type"`
	ReadOnly bool         `json:"readOnly,omitempty"`
	ByRef    bool         `json:"byRef,omitempty"`
	Origin   string       `json:"origin,omitempty"`
	Default  *DefaultInfo `json:"default,omitempty"`
}

// EnumMember is a named enum constant.
type EnumMember struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// Format is an encoding of a snapshot.
type Format string

const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// Ext returns the file extension of f, including the dot.
func (f Format) Ext() string {
	if f == FormatMsgpack {
		return ".msgpack"
	}
	return ".json"
}

// Take builds a snapshot of the nodes of view, or of every valid node
// when view is nil. The builder must be locked.
func Take(b *typesystem.Builder, view *typesystem.TypeSetView) (*Snapshot, error) {
	if !b.IsLocked() {
		return nil, errors.WithHint(errors.New("snapshot of an unlocked builder"), "call Lock after the last registration")
	}
	if view == nil {
		view = b.All()
	}
	s := &Snapshot{Version: Version}
	if diags := b.Diagnostics(); len(diags) > 0 {
		s.Diagnostics = diags
	}
	for _, n := range view.Nodes() {
		s.Nodes = append(s.Nodes, describe(n))
	}
	return s, nil
}

func describe(n *typesystem.Node) NodeInfo {
	info := NodeInfo{
		ID:                n.ID(),
		Kind:              n.Kind().String(),
		Signature:         n.Signature(),
		Exchangeable:      n.IsExchangeable(),
		Serializable:      n.IsSerializable(),
		Reason:            n.NotExchangeableReason(),
		ReadOnlyCompliant: n.IsReadOnlyCompliant(),
		ValueType:         n.IsValueType(),
		Abstract:          n.IsAbstract(),
		CanBeExtended:     n.CanBeExtended(),
		Default:           defaultInfo(n.DefaultValue()),
		Args:              signatures(n.Args()),
		Variants:          signatures(n.Variants()),
		Secondaries:       signatures(n.Secondaries()),
		Implementations:   signatures(n.Implementations()),
		AbstractTypes:     signatures(n.AbstractTypes()),
	}
	if o := n.ObliviousType(); o != nil && o != n {
		info.Oblivious = o.Signature()
	}
	switch n.Kind() {
	case typesystem.KindBasic:
		info.Basic = n.Basic().String()
	case typesystem.KindList, typesystem.KindSet, typesystem.KindMap:
		info.Collection = n.Collection().String()
	case typesystem.KindSecondaryPoco:
		info.Primary = n.Primary().Signature()
	}
	for _, f := range n.Fields() {
		info.Fields = append(info.Fields, FieldInfo{
			Name:     f.Name,
			Type:     f.Type.Signature(),
			ReadOnly: f.IsReadOnly,
			ByRef:    f.Access == ir.ByRef,
			Origin:   f.Origin,
			Default:  defaultInfo(f.Default),
		})
	}
	for _, m := range n.EnumMembers() {
		info.EnumMembers = append(info.EnumMembers, EnumMember{Name: m.Name, Value: m.Value})
	}
	return info
}

func defaultInfo(d typesystem.DefaultValueInfo) *DefaultInfo {
	if !d.HasDefault {
		return nil
	}
	return &DefaultInfo{Literal: d.Literal.String(), RequiresInit: d.RequiresInit}
}

func signatures(nodes []*typesystem.Node) []string {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Signature()
	}
	return out
}

// Find returns the node with the given signature, or nil.
func (s *Snapshot) Find(signature string) *NodeInfo {
	for i := range s.Nodes {
		if s.Nodes[i].Signature == signature {
			return &s.Nodes[i]
		}
	}
	return nil
}

// Encode serializes s. Both formats share the json field names.
func Encode(s *Snapshot, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "encode json snapshot")
		}
		return append(data, '\n'), nil
	case FormatMsgpack:
		var buf bytes.Buffer
		enc := msgpack.NewEncoder(&buf)
		enc.SetCustomStructTag("json")
		if err := enc.Encode(s); err != nil {
			return nil, errors.Wrap(err, "encode msgpack snapshot")
		}
		return buf.Bytes(), nil
	}
	return nil, errors.Newf("unknown snapshot format %q", format)
}

// Decode parses data written by Encode.
func Decode(data []byte, format Format) (*Snapshot, error) {
	s := new(Snapshot)
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, s); err != nil {
			return nil, errors.Wrap(err, "decode json snapshot")
		}
	case FormatMsgpack:
		dec := msgpack.NewDecoder(bytes.NewReader(data))
		dec.SetCustomStructTag("json")
		if err := dec.Decode(s); err != nil {
			return nil, errors.Wrap(err, "decode msgpack snapshot")
		}
	default:
		return nil, errors.Newf("unknown snapshot format %q", format)
	}
	if s.Version != Version {
		return nil, errors.WithHintf(errors.Newf("snapshot version %d", s.Version), "this build reads version %d", Version)
	}
	return s, nil
}
