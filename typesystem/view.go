package typesystem

// TypeSetView is a lazy, read-only projection of the non-nullable valid
// nodes of a builder. Views share the builder's nodes: filtering composes
// predicates and never copies the graph.
type TypeSetView struct {
	b        *Builder
	contains func(*Node) bool
}

// All returns a view of every valid non-nullable node.
func (b *Builder) All() *TypeSetView {
	return &TypeSetView{b: b, contains: func(*Node) bool { return true }}
}

// AllExchangeable returns a view of the exchangeable nodes.
func (b *Builder) AllExchangeable() *TypeSetView {
	return b.All().Where((*Node).IsExchangeable)
}

// AllSerializable returns a view of the serializable nodes.
func (b *Builder) AllSerializable() *TypeSetView {
	return b.All().Where((*Node).IsSerializable)
}

// Where returns the nodes of v satisfying pred.
func (v *TypeSetView) Where(pred func(*Node) bool) *TypeSetView {
	parent := v.contains
	return &TypeSetView{b: v.b, contains: func(n *Node) bool { return parent(n) && pred(n) }}
}

// Exclude returns v without the given types. Nullable nodes designate
// their non-nullable mirror.
func (v *TypeSetView) Exclude(nodes ...*Node) *TypeSetView {
	set := shapeSet(nodes)
	return v.Where(func(n *Node) bool { return !set[n.s] })
}

// Include returns v with the given types added.
func (v *TypeSetView) Include(nodes ...*Node) *TypeSetView {
	set := shapeSet(nodes)
	parent := v.contains
	return &TypeSetView{b: v.b, contains: func(n *Node) bool { return set[n.s] || parent(n) }}
}

// ExcludeEmptyRecords returns v without records that have no field.
func (v *TypeSetView) ExcludeEmptyRecords() *TypeSetView {
	return v.Where(func(n *Node) bool { return !n.Kind().IsRecord() || len(n.Fields()) > 0 })
}

// ExcludeEmptyPocos returns v without primary and secondary Pocos whose
// family has no field.
func (v *TypeSetView) ExcludeEmptyPocos() *TypeSetView {
	return v.Where(func(n *Node) bool {
		k := n.Kind()
		return (k != KindPrimaryPoco && k != KindSecondaryPoco) || len(n.Fields()) > 0
	})
}

// Contains reports whether n's type is in the view.
func (v *TypeSetView) Contains(n *Node) bool {
	if n == nil || n.b != v.b || n.s.failed() {
		return false
	}
	return v.contains(n.NonNullable())
}

// Nodes returns the nodes of the view in registration order.
func (v *TypeSetView) Nodes() []*Node {
	var out []*Node
	v.each(func(n *Node) { out = append(out, n) })
	return out
}

// Len returns the number of nodes in the view.
func (v *TypeSetView) Len() int {
	count := 0
	v.each(func(*Node) { count++ })
	return count
}

func (v *TypeSetView) each(fn func(*Node)) {
	for _, n := range v.b.nodes[1:] {
		if n.nullable || n.s.failed() {
			continue
		}
		if v.contains(n) {
			fn(n)
		}
	}
}

func shapeSet(nodes []*Node) map[*shape]bool {
	set := make(map[*shape]bool, len(nodes))
	for _, n := range nodes {
		if n != nil {
			set[n.s] = true
		}
	}
	return set
}
