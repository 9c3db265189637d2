package typesystem

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/broady/pocotype/ir"
)

func newBuilder(t *testing.T, pocos ...*ir.InterfaceDescriptor) *Builder {
	t.Helper()
	b, err := NewBuilder(Config{
		Pocos:  pocos,
		Logger: quietLogger(),
	})
	require.NoError(t, err)
	return b
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustType(t *testing.T, b *Builder, ref ir.TypeRef) *Node {
	t.Helper()
	n, err := b.RegisterType(ref)
	require.NoError(t, err)
	require.NotNil(t, n)
	return n
}

func requireCode(t *testing.T, err error, code ErrorCode) *Error {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, &Error{Code: code})
	e, ok := err.(*Error)
	require.True(t, ok, "error %T is not *Error", err)
	return e
}

func withUnion(p ir.PropertyDescriptor, u *ir.UnionSpec) ir.PropertyDescriptor {
	p.Union = u
	return p
}

func extends(bases ...*ir.InterfaceDescriptor) []*ir.InterfaceDescriptor {
	return bases
}
