package typesystem

import (
	"strconv"
	"strings"

	"github.com/broady/pocotype/ir"
)

// Signature spellings:
//
//	int, string, object          basic and top types
//	pkg.Name                     enums, records, Pocos
//	T[]                          arrays
//	List<T>, IList<T>            lists
//	HashSet<T>, ISet<T>          sets
//	Dictionary<K,V>, IDictionary<K,V>  maps
//	(T1,T2), (T1 A,T2 B)         anonymous records
//	(T1|T2), (T1|T2)+            unions, closed and extendable
//
// A trailing '?' marks the nullable mirror.

const anySignature = "object"

func collectionSignature(kind ir.CollectionKind, abstract bool, args []string) string {
	if kind == ir.CollectionArray {
		return args[0] + "[]"
	}
	var name string
	switch kind {
	case ir.CollectionList:
		name = "List"
	case ir.CollectionSet:
		name = "HashSet"
		if abstract {
			name = "Set"
		}
	case ir.CollectionMap:
		name = "Dictionary"
	}
	if abstract {
		name = "I" + name
	}
	return name + "<" + strings.Join(args, ",") + ">"
}

// tupleItemName is the positional name of an unnamed anonymous record field.
func tupleItemName(i int) string {
	return "Item" + strconv.Itoa(i+1)
}

// tupleSignature lists field types, with their names when they are not
// positional.
func tupleSignature(names, types []string) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, t := range types {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(t)
		if names[i] != "" && names[i] != tupleItemName(i) {
			sb.WriteByte(' ')
			sb.WriteString(names[i])
		}
	}
	sb.WriteByte(')')
	return sb.String()
}

func unionSignature(variants []string, extendable bool) string {
	sig := "(" + strings.Join(variants, "|") + ")"
	if extendable {
		sig += "+"
	}
	return sig
}

func nullableSuffix(sig string, nullable bool) string {
	if nullable {
		return sig + "?"
	}
	return sig
}

// signatureOf computes the signature a descriptor resolves to, without
// registering anything.
func signatureOf(d Descriptor) string {
	if d.Union != nil {
		vs := make([]string, 0, len(d.Union.Variants))
		nullable := d.IsNullable
		for _, v := range d.Union.Variants {
			vd, err := DescribeType(ir.TypeRef{Type: v.Type, Nullability: ir.NotNull})
			if err != nil {
				return "?"
			}
			vs = append(vs, signatureOf(vd))
			nullable = nullable || v.Nullability == ir.Nullable
		}
		return nullableSuffix(unionSignature(vs, d.Union.CanBeExtended), nullable)
	}
	return nullableSuffix(baseSignatureOf(d), d.IsNullable)
}

func baseSignatureOf(d Descriptor) string {
	switch t := d.Type.(type) {
	case *ir.BasicDescriptor:
		return t.Basic.String()
	case *ir.AnyDescriptor:
		return anySignature
	case *ir.GenericParameterDescriptor:
		return t.ParamName
	case *ir.CollectionDescriptor:
		args := make([]string, len(d.GenericArguments))
		for i, a := range d.GenericArguments {
			if t.Collection == ir.CollectionMap && i == 0 && a.Oblivious {
				a.IsNullable = false
			}
			args[i] = signatureOf(a)
		}
		if len(args) != t.Collection.Arity() {
			return t.Collection.String() + "<?>"
		}
		return collectionSignature(t.Collection, t.Abstract, args)
	case *ir.RecordDescriptor:
		if !t.Anonymous {
			return t.Name.String()
		}
		names := make([]string, len(t.Fields))
		types := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			names[i] = f.Name
			fd, err := DescribeType(f.Type)
			if err != nil {
				types[i] = "?"
				continue
			}
			types[i] = signatureOf(fd)
		}
		return tupleSignature(names, types)
	case nil:
		return "?"
	default:
		return d.Type.TypeName().String()
	}
}
