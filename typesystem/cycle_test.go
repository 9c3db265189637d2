package typesystem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/pocotype/ir"
)

func TestCycle_PocoSelfReference(t *testing.T) {
	self := &ir.InterfaceDescriptor{Name: ir.Name("I"), Role: ir.RoleConcrete}
	self.Properties = []ir.PropertyDescriptor{ir.Property("Self", ir.Ref(self))}
	b := newBuilder(t, self)

	_, err := b.RegisterType(ir.Ref(self))
	e := requireCode(t, err, CodeInstantiationCycle)
	assert.Equal(t, "Instantiation cycle detected: I.Self -> I (I -> I).", e.Message)
	assert.Equal(t, "I -> I", e.Details["types"])
	assert.Nil(t, b.FindByType("I"))
}

func TestCycle_Symmetric(t *testing.T) {
	pocos := func() (*ir.InterfaceDescriptor, *ir.InterfaceDescriptor) {
		one := &ir.InterfaceDescriptor{Name: ir.Name("ICommandOne")}
		two := &ir.InterfaceDescriptor{Name: ir.Name("ICommandTwo")}
		one.Properties = []ir.PropertyDescriptor{ir.Property("Friend", ir.Ref(two))}
		two.Properties = []ir.PropertyDescriptor{ir.Property("AnotherFriend", ir.Ref(one))}
		return one, two
	}

	one, two := pocos()
	b1 := newBuilder(t, one, two)
	_, err1 := b1.RegisterType(ir.Ref(one))
	e1 := requireCode(t, err1, CodeInstantiationCycle)

	one, two = pocos()
	b2 := newBuilder(t, two, one)
	_, err2 := b2.RegisterType(ir.Ref(two))
	e2 := requireCode(t, err2, CodeInstantiationCycle)

	assert.Equal(t, e1.Message, e2.Message)
	assert.Equal(t,
		"Instantiation cycle detected: ICommandOne.Friend -> ICommandTwo.AnotherFriend -> ICommandOne "+
			"(ICommandOne -> ICommandTwo -> ICommandOne).",
		e1.Message)

	// The second interface was invalidated by the same cycle.
	_, err := b1.RegisterType(ir.Ref(two))
	assert.Same(t, e1, err)
}

func TestCycle_RecordThroughCollection(t *testing.T) {
	r := ir.Record("R")
	r.Fields = []ir.FieldDescriptor{ir.Field("Items", ir.Ref(ir.ListOf(ir.Ref(r))))}
	b := newBuilder(t)

	_, err := b.RegisterType(ir.Ref(r))
	e := requireCode(t, err, CodeInstantiationCycle)
	assert.Equal(t, "Instantiation cycle detected: R.Items -> R (R -> R).", e.Message)
}

func TestCycle_BrokenByNullable(t *testing.T) {
	node := ir.Record("Node", ir.Field("Value", ir.Ref(ir.Int())))
	node.Fields = append(node.Fields, ir.Field("Next", ir.NullableRef(node)))
	b := newBuilder(t)

	n := mustType(t, b, ir.Ref(node))
	f, ok := n.Field("Next")
	require.True(t, ok)
	assert.Same(t, n.Nullable(), f.Type)
	assert.Equal(t, "{Value=0, Next=null}", n.DefaultValue().Literal.String())
}

func TestCycle_MutualRecordsBrokenByNullable(t *testing.T) {
	a := ir.Record("A")
	bb := ir.Record("B", ir.Field("Back", ir.NullableRef(a)))
	a.Fields = []ir.FieldDescriptor{ir.Field("B", ir.Ref(bb)), ir.Field("L", ir.Ref(ir.ListOf(ir.Ref(ir.Int()))))}
	b := newBuilder(t)

	n := mustType(t, b, ir.Ref(a))
	assert.False(t, n.IsReadOnlyCompliant())

	// B reaches A through a nullable reference: it is not compliant either,
	// although A was still being built when B completed.
	back := b.FindByType("B")
	require.NotNil(t, back)
	assert.False(t, back.IsReadOnlyCompliant())
}

func TestCycle_PocoThroughCollection(t *testing.T) {
	tree := &ir.InterfaceDescriptor{Name: ir.Name("ITree")}
	tree.Properties = []ir.PropertyDescriptor{
		ir.Property("Children", ir.Ref(ir.IListOf(ir.Ref(tree)))),
		ir.SettableProperty("Label", ir.Ref(ir.String())),
	}
	b := newBuilder(t, tree)

	n := mustType(t, b, ir.Ref(tree))
	assert.Equal(t, KindPrimaryPoco, n.Kind())
	children, ok := n.Field("Children")
	require.True(t, ok)
	assert.Equal(t, ir.ByRef, children.Access)
	assert.Same(t, n, children.Type.Args()[0])
	assert.True(t, n.DefaultValue().HasDefault)
}

func TestCycle_RecordThroughPocoCollection(t *testing.T) {
	holder := &ir.InterfaceDescriptor{Name: ir.Name("IHolder")}
	rec := ir.Record("Rec", ir.Field("Holders", ir.Ref(ir.ListOf(ir.Ref(holder)))))
	holder.Properties = []ir.PropertyDescriptor{ir.Property("Rec", ir.Ref(rec))}
	b := newBuilder(t, holder)

	n := mustType(t, b, ir.Ref(rec))
	assert.Equal(t, KindNamedRecord, n.Kind())
	assert.NotNil(t, b.FindByType("IHolder"))
}
