package typesystem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/pocotype/ir"
)

func exchangeFixture() (*ir.InterfaceDescriptor, *ir.RecordDescriptor, *ir.RecordDescriptor) {
	address := ir.Record("Address", ir.Field("City", ir.Ref(ir.String())))
	user := ir.Poco("IUser", nil,
		ir.Property("Home", ir.Ref(address)),
		ir.SettableProperty("Age", ir.Ref(ir.Int())))
	point := ir.Record("Point", ir.Field("X", ir.Ref(ir.Int())))
	return user, address, point
}

func TestExchange_Propagation(t *testing.T) {
	user, address, point := exchangeFixture()
	b := newBuilder(t, user)
	u := mustType(t, b, ir.Ref(user))
	p := mustType(t, b, ir.Ref(point))
	str := b.FindByType("string")
	require.NotNil(t, str)

	for _, n := range []*Node{u, p, str} {
		assert.True(t, n.IsExchangeable(), n.Signature())
	}

	require.NoError(t, b.SetNotExchangeable(str, "strings are banned"))
	assert.False(t, str.IsExchangeable())
	assert.False(t, str.Nullable().IsExchangeable())
	assert.Equal(t, "strings are banned", str.NotExchangeableReason())
	assert.True(t, str.IsSerializable())

	assert.False(t, b.FindByType(address.Name.String()).IsExchangeable())
	assert.False(t, u.IsExchangeable())
	assert.True(t, u.IsSerializable())
	assert.True(t, p.IsExchangeable())
	assert.True(t, b.FindByType("int").IsExchangeable())
}

func TestExchange_OrderIndependent(t *testing.T) {
	user, _, point := exchangeFixture()
	b := newBuilder(t, user)
	str := mustType(t, b, ir.Ref(ir.String()))
	require.NoError(t, b.SetNotExchangeable(str, "excluded first"))

	u := mustType(t, b, ir.Ref(user))
	p := mustType(t, b, ir.Ref(point))
	assert.False(t, u.IsExchangeable())
	assert.False(t, b.FindByType("Address").IsExchangeable())
	assert.True(t, p.IsExchangeable())
}

func TestExchange_SecondaryFollowsPrimary(t *testing.T) {
	user, _, _ := exchangeFixture()
	ext := ir.Poco("IUserExt", extends(user), ir.SettableProperty("Nick", ir.NullableRef(ir.String())))
	b := newBuilder(t, ext)

	sec := mustType(t, b, ir.Ref(ext))
	require.NoError(t, b.SetNotExchangeable(b.FindByType("IUser"), "hidden"))
	assert.False(t, sec.IsExchangeable())
}

func TestExchange_AbstractAnyImplementation(t *testing.T) {
	animal := &ir.InterfaceDescriptor{Name: ir.Name("IAnimal"), Role: ir.RoleAbstract}
	dog := ir.Poco("IDog", extends(animal))
	cat := ir.Poco("ICat", extends(animal))
	b := newBuilder(t, dog, cat)

	a := mustType(t, b, ir.Ref(animal))
	impls := a.Implementations()
	require.Len(t, impls, 2)

	require.NoError(t, b.SetNotExchangeable(impls[0], "no dogs"))
	assert.True(t, a.IsExchangeable())
	require.NoError(t, b.SetNotExchangeable(impls[1], "no cats"))
	assert.False(t, a.IsExchangeable())
	assert.True(t, a.IsSerializable())
}

func TestExchange_AbstractWithoutImplementation(t *testing.T) {
	lonely := &ir.InterfaceDescriptor{Name: ir.Name("ILonely"), Role: ir.RoleAbstract}
	b := newBuilder(t, lonely)

	n := mustType(t, b, ir.Ref(lonely))
	assert.False(t, n.IsSerializable())
	assert.False(t, n.IsExchangeable())
}

func TestExchange_AnyIsNotSerializable(t *testing.T) {
	b := newBuilder(t)
	r := mustType(t, b, ir.Ref(ir.Record("Box", ir.Field("Content", ir.NullableRef(ir.Any())))))
	assert.False(t, r.IsSerializable())
	assert.False(t, r.IsExchangeable())

	list := mustType(t, b, ir.Ref(ir.ListOf(ir.Ref(r.Descriptor()))))
	assert.False(t, list.IsExchangeable())
}

func TestExchange_ForeignNode(t *testing.T) {
	b1 := newBuilder(t)
	b2 := newBuilder(t)
	n := mustType(t, b1, ir.Ref(ir.Int()))
	requireCode(t, b2.SetNotExchangeable(n, "foreign"), CodeUnsupportedType)
	requireCode(t, b2.SetNotExchangeable(nil, "nil"), CodeUnsupportedType)
}
