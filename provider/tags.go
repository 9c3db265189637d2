package provider

import (
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"

	"github.com/broady/pocotype/internal/errors"
	"github.com/broady/pocotype/ir"
)

// TagKey is the struct tag key read by the providers.
const TagKey = "poco"

var (
	validate   = validator.New()
	tagDecoder = schema.NewDecoder()
)

func init() {
	tagDecoder.IgnoreUnknownKeys(false)
}

// TagOptions are the options of a poco struct tag or of a //poco: method
// directive. Options are comma separated; valued options use key=value and
// union variants are separated by '|':
//
//	`poco:"nullable,default=42"`
//	`poco:"union=int|string|bool,extendable"`
//
// Values cannot contain commas.
type TagOptions struct {
	// Skip is set by the tag "-". The member is ignored.
	Skip bool `schema:"-"`

	// Name renames the member.
	Name string `schema:"name"`

	Nullable     bool `schema:"nullable" validate:"excluded_with=NotNull"`
	NotNull      bool `schema:"notnull"`
	AllowNull    bool `schema:"allownull" validate:"excluded_with=DisallowNull"`
	DisallowNull bool `schema:"disallownull"`

	// Oblivious drops the null state of the generic arguments.
	Oblivious bool `schema:"oblivious"`

	ReadOnly bool `schema:"readonly"`
	ByRef    bool `schema:"byref"`

	// Abstract selects the interface spelling of a collection.
	Abstract bool `schema:"abstract"`

	Default    string `schema:"default"`
	HasDefault bool   `schema:"-"`

	Union      []string `schema:"union" validate:"omitempty,dive,required"`
	Extendable bool     `schema:"extendable" validate:"excluded_without=Union"`
}

// ParseTag parses the value of a poco tag.
func ParseTag(tag string) (TagOptions, error) {
	var opts TagOptions
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return opts, nil
	}
	if tag == "-" {
		opts.Skip = true
		return opts, nil
	}

	values := url.Values{}
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, valued := strings.Cut(part, "=")
		if !valued {
			value = "true"
		}
		switch key {
		case "union":
			for _, v := range strings.Split(value, "|") {
				values.Add(key, strings.TrimSpace(v))
			}
		case "default":
			opts.HasDefault = true
			values.Set(key, value)
		default:
			values.Set(key, value)
		}
	}

	if err := tagDecoder.Decode(&opts, values); err != nil {
		return TagOptions{}, errors.Wrapf(errors.ErrInvalidTag, "%q: %v", tag, err)
	}
	if err := validate.Struct(opts); err != nil {
		return TagOptions{}, errors.WithHint(
			errors.Wrapf(errors.ErrInvalidTag, "%q: %v", tag, err),
			"nullable/notnull, allownull/disallownull are exclusive and extendable requires union")
	}
	return opts, nil
}

// tagValue returns the poco tag of a raw struct tag.
func tagValue(raw string) string {
	return reflect.StructTag(raw).Get(TagKey)
}

// nullability returns the read and write null states of a member whose
// type reference reads as read.
func (o TagOptions) nullability(read ir.Nullability) (ir.Nullability, ir.Nullability) {
	switch {
	case o.Nullable:
		read = ir.Nullable
	case o.NotNull:
		read = ir.NotNull
	}
	write := read
	switch {
	case o.AllowNull:
		write = ir.Nullable
	case o.DisallowNull:
		write = ir.NotNull
	}
	return read, write
}

// shape applies the collection options to td.
func (o TagOptions) shape(td ir.TypeDescriptor) (ir.TypeDescriptor, error) {
	cd, ok := td.(*ir.CollectionDescriptor)
	if !ok {
		if o.Abstract || o.Oblivious {
			return nil, errors.Wrap(errors.ErrInvalidTag, "abstract and oblivious apply to collections only")
		}
		return td, nil
	}
	if o.Abstract && cd.Collection == ir.CollectionArray {
		return nil, errors.Wrap(errors.ErrInvalidTag, "arrays have no abstract spelling")
	}
	if !o.Abstract && !o.Oblivious {
		return td, nil
	}
	out := *cd
	out.Abstract = cd.Abstract || o.Abstract
	if o.Oblivious {
		out.Args = obliviousArgs(cd.Args)
	}
	return &out, nil
}

// obliviousArgs drops the null state of args and of their own collection
// arguments.
func obliviousArgs(args []ir.TypeRef) []ir.TypeRef {
	out := make([]ir.TypeRef, len(args))
	for i, a := range args {
		td := a.Type
		if cd, ok := td.(*ir.CollectionDescriptor); ok {
			inner := *cd
			inner.Args = obliviousArgs(cd.Args)
			td = &inner
		}
		out[i] = ir.ObliviousRef(td)
	}
	return out
}

// member builds the member descriptor of a tagged property or root member.
func (o TagOptions) member(name string, ref ir.TypeRef, resolve resolver) (ir.MemberDescriptor, error) {
	if o.Name != "" {
		name = o.Name
	}
	td, err := o.shape(ref.Type)
	if err != nil {
		return ir.MemberDescriptor{}, errors.Wrapf(err, "member %s", name)
	}
	read, write := o.nullability(ref.Nullability)
	m := ir.MemberDescriptor{
		Name:     name,
		Type:     td,
		Read:     read,
		Write:    write,
		ReadOnly: o.ReadOnly,
	}
	if o.ByRef {
		m.Access = ir.ByRef
	}
	if len(o.Union) > 0 {
		u := &ir.UnionSpec{CanBeExtended: o.Extendable}
		for _, spelling := range o.Union {
			v, err := parseVariant(spelling, resolve)
			if err != nil {
				return ir.MemberDescriptor{}, errors.Wrapf(err, "member %s", name)
			}
			u.Variants = append(u.Variants, v)
		}
		m.Union = u
	}
	if o.HasDefault {
		m.Default = convertDefault(td, m.Union, o.Default)
	}
	return m, nil
}

// field builds the descriptor of a tagged record field. Member-only options
// are reported through warn.
func (o TagOptions) field(name string, ref ir.TypeRef, warn func(code, msg string)) (ir.FieldDescriptor, error) {
	if o.Name != "" {
		name = o.Name
	}
	if o.ByRef || o.AllowNull || o.DisallowNull || len(o.Union) > 0 {
		warn(WarnRecordFieldOption, "field "+name+": byref, allownull, disallownull and union are ignored on record fields")
	}
	td, err := o.shape(ref.Type)
	if err != nil {
		return ir.FieldDescriptor{}, errors.Wrapf(err, "field %s", name)
	}
	read := ref.Nullability
	switch {
	case o.Nullable:
		read = ir.Nullable
	case o.NotNull:
		read = ir.NotNull
	}
	f := ir.FieldDescriptor{
		Name:     name,
		Type:     ir.TypeRef{Type: td, Nullability: read},
		ReadOnly: o.ReadOnly,
	}
	if o.HasDefault {
		f.Default = convertDefault(td, nil, o.Default)
	}
	return f, nil
}
