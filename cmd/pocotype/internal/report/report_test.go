package report

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/pocotype/internal/errors"
	"github.com/broady/pocotype/ir"
	"github.com/broady/pocotype/typesystem"
)

func TestPrinter_Diagnostics(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, true)

	n := p.Diagnostics([]*typesystem.Error{
		typesystem.NewError(typesystem.CodeInstantiationCycle, "Node is recursive.").WithType("Node").WithPath("Node.Next"),
		typesystem.NewError(typesystem.CodeInvalidEnum, "Enum has no members."),
	})
	assert.Equal(t, 2, n)
	assert.Equal(t,
		"error instantiation_cycle in Node: Node is recursive.\n"+
			"    at Node.Next\n"+
			"error invalid_enum: Enum has no members.\n",
		buf.String())
}

func TestPrinter_Warnings(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, true).Warnings([]ir.Warning{
		{Code: "UNSUPPORTED_TYPE", Message: "field Shape.Handler skipped"},
		{Code: "ENUM_UNRESOLVED", Message: "Kind has no constants"},
	})
	assert.Equal(t,
		"warning enum_unresolved: Kind has no constants\n"+
			"warning unsupported_type: field Shape.Handler skipped\n",
		buf.String())
}

func TestPrinter_Summary(t *testing.T) {
	b, err := typesystem.NewBuilder(typesystem.Config{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	require.NoError(t, err)
	point, err := b.RegisterType(ir.Ref(ir.Record("Point", ir.Field("X", ir.Ref(ir.Int())))))
	require.NoError(t, err)
	require.NoError(t, b.SetNotExchangeable(point, "internal"))
	b.Lock()

	var buf bytes.Buffer
	New(&buf, true).Summary(b)
	assert.Equal(t, "✓ 2 types, 1 exchangeable, 0 errors\n    Point: internal\n", buf.String())
}

func TestPrinter_Error(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, true).Error(errors.WithHint(errors.New("no packages"), "pass a pattern"))
	assert.Equal(t, "error: no packages\n  hint: pass a pattern\n", buf.String())
}
