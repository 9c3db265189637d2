package check

import (
	"context"
	"os"

	"github.com/broady/pocotype/cmd/pocotype/internal/config"
	"github.com/broady/pocotype/cmd/pocotype/internal/pipeline"
	"github.com/broady/pocotype/cmd/pocotype/internal/report"
	"github.com/broady/pocotype/internal/errors"
)

// ErrDiagnostics is returned when registration recorded errors.
var ErrDiagnostics = errors.New("type system has errors")

type Cmd struct {
	config.Overrides `embed:""`

	Warnings bool `help:"Print provider warnings." short:"W"`
}

func (c *Cmd) Run(ctx context.Context, flags *config.Flags) error {
	cfg, err := config.Load(flags.Config)
	if err != nil {
		return err
	}
	cfg.Apply(c.Overrides)
	if err := cfg.Validate(); err != nil {
		return err
	}

	res, err := pipeline.Run(ctx, cfg, flags.Logger(os.Stderr))
	if err != nil {
		return err
	}

	p := report.New(os.Stdout, flags.NoColor)
	if c.Warnings {
		p.Warnings(res.Schema.Warnings)
	}
	n := p.Diagnostics(res.Builder.Diagnostics())
	p.Summary(res.Builder)
	if n > 0 {
		return errors.Wrapf(ErrDiagnostics, "%d errors", n)
	}
	return nil
}
