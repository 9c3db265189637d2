package pipeline

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/pocotype/cmd/pocotype/internal/config"
	"github.com/broady/pocotype/internal/errors"
	"github.com/broady/pocotype/typesystem"
)

const shopPkg = "github.com/broady/pocotype/cmd/pocotype/internal/pipeline/testdata/shop"

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func run(t *testing.T, cfg config.Config) *Result {
	t.Helper()
	cfg.Packages = []string{"./testdata/shop"}
	res, err := Run(context.Background(), &cfg, quiet())
	require.NoError(t, err)
	return res
}

func TestRun(t *testing.T) {
	res := run(t, config.Config{})

	require.True(t, res.Builder.IsLocked())
	assert.Empty(t, res.Builder.Diagnostics())
	assert.Equal(t, 1, res.Skipped)
	for _, name := range []string{"Currency", "Money", "Audit", "ILineItem", "IOrder"} {
		assert.Contains(t, res.Registered, shopPkg+"."+name)
	}
	assert.NotContains(t, res.Registered, shopPkg+".IHasNotes")

	order := res.lookup("IOrder")
	require.NotNil(t, order)
	assert.Equal(t, typesystem.KindPrimaryPoco, order.Kind())
	assert.True(t, order.IsExchangeable())
	_, ok := order.Field("Notes")
	assert.True(t, ok, "definer properties are merged into IOrder")
}

func TestRun_Roots(t *testing.T) {
	res := run(t, config.Config{Roots: []string{"Money"}})
	assert.Contains(t, res.Registered, shopPkg+".Money")
	assert.Contains(t, res.Registered, shopPkg+".Currency")
	assert.NotContains(t, res.Registered, shopPkg+".IOrder")
}

func TestRun_Exclude(t *testing.T) {
	res := run(t, config.Config{Exclude: []string{"Audit"}})

	audit := res.lookup("Audit")
	require.NotNil(t, audit)
	assert.False(t, audit.IsExchangeable())
	assert.Equal(t, "excluded by configuration", audit.NotExchangeableReason())
	assert.False(t, res.lookup("IOrder").IsExchangeable())
	assert.True(t, res.lookup("ILineItem").IsExchangeable())
	assert.True(t, res.lookup(shopPkg+".Money").IsExchangeable())
}

func TestRun_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := Run(ctx, &config.Config{Packages: []string{"./testdata/shop"}, Exclude: []string{"Nope"}}, quiet())
	assert.ErrorIs(t, err, errors.ErrNotFound)

	_, err = Run(ctx, &config.Config{Packages: []string{"./testdata/shop"}, Roots: []string{"Missing"}}, quiet())
	assert.ErrorIs(t, err, errors.ErrNotFound)

	_, err = Run(ctx, &config.Config{Packages: []string{"./testdata/nothing"}}, quiet())
	assert.ErrorIs(t, err, errors.ErrLoad)
}
