package typesystem

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/broady/pocotype/ir"
)

func TestNewBuilder_InvalidConfig(t *testing.T) {
	_, err := NewBuilder(Config{MaxErrors: -1})
	require.Error(t, err)
}

func TestRegister_Identity(t *testing.T) {
	b := newBuilder(t)
	point := ir.Record("Point", ir.Field("X", ir.Ref(ir.Int())), ir.Field("Y", ir.Ref(ir.Int())))

	n1 := mustType(t, b, ir.Ref(point))
	n2, err := b.RegisterMember(ir.Member("Location", ir.Ref(point)))
	require.NoError(t, err)
	assert.Same(t, n1, n2)

	l1 := mustType(t, b, ir.Ref(ir.ListOf(ir.Ref(ir.Int()))))
	l2 := mustType(t, b, ir.Ref(ir.ListOf(ir.Ref(ir.Int()))))
	assert.Same(t, l1, l2)
	assert.Equal(t, "List<int>", l1.Signature())
	assert.Same(t, l1, b.FindByType("List<int>"))

	nl := mustType(t, b, ir.NullableRef(ir.ListOf(ir.Ref(ir.Int()))))
	assert.Same(t, l1.Nullable(), nl)
	assert.Equal(t, "List<int>?", nl.Signature())

	tup1 := mustType(t, b, ir.Ref(ir.Tuple(ir.Field("", ir.Ref(ir.Int())), ir.Field("", ir.Ref(ir.String())))))
	tup2 := mustType(t, b, ir.Ref(ir.Tuple(ir.Field("", ir.Ref(ir.Int())), ir.Field("", ir.Ref(ir.String())))))
	assert.Same(t, tup1, tup2)
	assert.Equal(t, "(int,string)", tup1.Signature())
}

func TestFindByType(t *testing.T) {
	b := newBuilder(t)
	assert.Nil(t, b.FindByType("int"))

	n := mustType(t, b, ir.Ref(ir.Int()))
	assert.Same(t, n, b.FindByType("int"))
	assert.Same(t, n.Nullable(), b.FindByType("int?"))
	assert.Equal(t, 2, b.Len())
	assert.Same(t, n, b.Node(n.ID()))
	assert.Nil(t, b.Node(0))
	assert.Nil(t, b.Node(NodeID(b.Len()+1)))
}

func TestFindByType_SkipsFailedNodes(t *testing.T) {
	b := newBuilder(t)
	_, err := b.RegisterType(ir.Ref(ir.Record("R", ir.Field("B", ir.Ref(ir.Any())))))
	requireCode(t, err, CodeNoComputableDefaultValue)
	assert.Nil(t, b.FindByType("R"))
}

func TestMirrorsAndOblivious(t *testing.T) {
	b := newBuilder(t)
	node := ir.Record("Node")
	node.Fields = []ir.FieldDescriptor{ir.Field("Next", ir.NullableRef(node))}
	refs := []ir.TypeRef{
		ir.Ref(ir.Int()),
		ir.ObliviousRef(ir.String()),
		ir.Ref(ir.IListOf(ir.ObliviousRef(ir.String()))),
		ir.Ref(ir.ArrayOf(ir.NullableRef(ir.Int()))),
		ir.Ref(ir.IMapOf(ir.Ref(ir.String()), ir.NullableRef(ir.ListOf(ir.NullableRef(ir.String()))))),
		ir.Ref(ir.ISetOf(ir.Ref(ir.Guid()))),
		ir.Ref(ir.Tuple(ir.Field("A", ir.NullableRef(ir.String())), ir.Field("B", ir.NullableRef(ir.Int())))),
		ir.Ref(node),
	}
	for _, r := range refs {
		mustType(t, b, r)
	}

	for id := NodeID(1); int(id) <= b.Len(); id++ {
		n := b.Node(id)
		require.NotNil(t, n)
		assert.Same(t, n.NonNullable(), n.Nullable().NonNullable(), n.Signature())
		assert.Same(t, n.Nullable(), n.NonNullable().Nullable(), n.Signature())
		assert.NotSame(t, n.Nullable(), n.NonNullable(), n.Signature())
		assert.Equal(t, n.NonNullable().Signature()+"?", n.Nullable().Signature())

		o := n.ObliviousType()
		assert.Same(t, o, o.ObliviousType(), "oblivious of %s is not idempotent", n)
		assert.True(t, o.IsOblivious())
		assert.Same(t, n.NonNullable().ObliviousType().Nullable(), n.Nullable().ObliviousType(), n.Signature())
		assert.Equal(t, n.IsNullable(), o.IsNullable(), n.Signature())
	}
}

func TestLock(t *testing.T) {
	b := newBuilder(t)
	n := mustType(t, b, ir.Ref(ir.Int()))
	b.Lock()
	assert.True(t, b.IsLocked())

	_, err := b.RegisterType(ir.Ref(ir.String()))
	requireCode(t, err, CodeLocked)
	requireCode(t, b.SetNotExchangeable(n, "late"), CodeLocked)
	assert.True(t, n.IsExchangeable())

	// Post-lock queries are pure and safe to run concurrently.
	var g errgroup.Group
	for range 8 {
		g.Go(func() error {
			if b.FindByType("int") != n || b.All().Len() != 1 {
				return errors.New("unexpected view")
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func TestMaxErrors(t *testing.T) {
	b, err := NewBuilder(Config{MaxErrors: 2, Logger: quietLogger()})
	require.NoError(t, err)

	for range 2 {
		_, err := b.RegisterType(ir.Ref(ir.TypeParam("T")))
		requireCode(t, err, CodeUnsupportedGenericDefinition)
	}
	_, err = b.RegisterType(ir.Ref(ir.Int()))
	requireCode(t, err, CodeTooManyErrors)

	diags := b.Diagnostics()
	require.Len(t, diags, 3)
	assert.Equal(t, CodeTooManyErrors, diags[2].Code)
}

func TestDiagnostics_Continue(t *testing.T) {
	b := newBuilder(t)
	_, err := b.RegisterType(ir.Ref(ir.Record("Bad", ir.Field("O", ir.Ref(ir.Any())))))
	requireCode(t, err, CodeNoComputableDefaultValue)

	good := mustType(t, b, ir.Ref(ir.Record("Good", ir.Field("N", ir.Ref(ir.Int())))))
	assert.True(t, good.IsValid())

	// Registering the failed type again returns the stored error once.
	_, again := b.RegisterType(ir.Ref(ir.Record("Bad")))
	assert.Same(t, err, again)
	assert.Len(t, b.Diagnostics(), 1)
}

func TestRegister_DeclaredMemberDefault(t *testing.T) {
	b := newBuilder(t)
	m := ir.Member("Count", ir.Ref(ir.Int()))
	m.Default = "many"
	_, err := b.RegisterMember(m)
	requireCode(t, err, CodeInvalidDefaultValue)

	m.Default = 12
	n, err := b.RegisterMember(m)
	require.NoError(t, err)
	assert.Equal(t, "int", n.Signature())
}

func TestRegister_NameKindConflict(t *testing.T) {
	b := newBuilder(t)
	mustType(t, b, ir.Ref(ir.Record("Thing")))
	_, err := b.RegisterType(ir.Ref(ir.Enum("Thing", "A")))
	requireCode(t, err, CodeUnsupportedType)
}
