package typesystem

import (
	"fmt"
	"strings"

	"github.com/broady/pocotype/ir"
)

// edge classifies how a field reaches its type.
type edge int

const (
	edgeDirect     edge = iota // inline value or non-null reference
	edgeCollection             // element of a dynamically allocated collection
	edgeNullable               // nullable reference
)

// frame is one step of the registration path. Frames without a shape are
// collection arguments, union variants and abstract implementation scans.
type frame struct {
	s      *shape
	owner  string
	member string
	edge   edge
}

type stack struct {
	frames []frame
}

func (st *stack) push(f frame) { st.frames = append(st.frames, f) }
func (st *stack) pop()         { st.frames = st.frames[:len(st.frames)-1] }

func edgeOf(d Descriptor) edge {
	if d.IsNullable {
		return edgeNullable
	}
	if _, ok := d.Type.(*ir.CollectionDescriptor); ok && d.Union == nil {
		return edgeCollection
	}
	return edgeDirect
}

// reenter decides whether reaching target while it is being built closes an
// unresolvable instantiation cycle. A nullable edge always breaks the cycle.
// A collection edge breaks it only when the cycle goes through a Poco: an
// object reference is acceptable, an inline record expansion is not.
func (b *Builder) reenter(target *shape, st *stack) error {
	start := -1
	for i := len(st.frames) - 1; i >= 0; i-- {
		if st.frames[i].s == target {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}
	cycle := st.frames[start:]
	var indirect, poco bool
	for _, f := range cycle {
		switch f.edge {
		case edgeNullable:
			return nil
		case edgeCollection:
			indirect = true
		}
		if f.s != nil && f.s.kind.IsPoco() {
			poco = true
		}
	}
	if indirect && poco {
		return nil
	}
	return b.cycleError(cycle)
}

// cycleError reports the cycle starting at its smallest type name so that
// every registration order yields the same error.
func (b *Builder) cycleError(cycle []frame) error {
	var steps []frame
	for _, f := range cycle {
		if f.s != nil {
			steps = append(steps, f)
		}
	}
	first := 0
	for i, f := range steps {
		if f.owner < steps[first].owner {
			first = i
		}
	}
	steps = append(append([]frame{}, steps[first:]...), steps[:first]...)

	fields := make([]string, 0, len(steps)+1)
	types := make([]string, 0, len(steps)+1)
	for _, f := range steps {
		fields = append(fields, f.owner+"."+f.member)
		types = append(types, f.owner)
	}
	fields = append(fields, steps[0].owner)
	types = append(types, steps[0].owner)

	fieldTrace := strings.Join(fields, " -> ")
	typeTrace := strings.Join(types, " -> ")
	return NewError(CodeInstantiationCycle,
		fmt.Sprintf("Instantiation cycle detected: %s (%s).", fieldTrace, typeTrace)).
		WithType(steps[0].owner).
		WithPath(fieldTrace).
		WithDetail("types", typeTrace)
}
