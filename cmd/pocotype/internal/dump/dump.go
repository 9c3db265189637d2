package dump

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/broady/pocotype/cmd/pocotype/internal/config"
	"github.com/broady/pocotype/cmd/pocotype/internal/pipeline"
	"github.com/broady/pocotype/cmd/pocotype/internal/report"
	"github.com/broady/pocotype/snapshot"
)

type Cmd struct {
	config.Overrides `embed:""`

	Out          string   `help:"Output path without extension (default: out in the config file, else ./pocotype)." short:"o"`
	Format       []string `help:"Snapshot formats to write." sep:"," short:"f"`
	Exchangeable bool     `help:"Only dump exchangeable types." short:"e"`
	NoClobber    bool     `help:"Fail instead of replacing existing files." name:"no-clobber"`
}

func (c *Cmd) Run(ctx context.Context, flags *config.Flags) error {
	cfg, err := config.Load(flags.Config)
	if err != nil {
		return err
	}
	cfg.Apply(c.Overrides)
	if c.Out != "" {
		cfg.Out = c.Out
	}
	if len(c.Format) > 0 {
		cfg.Formats = c.Format
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := flags.Logger(os.Stderr)
	res, err := pipeline.Run(ctx, cfg, logger)
	if err != nil {
		return err
	}

	out := cfg.Out
	if out == "" {
		out = "pocotype"
	}
	out, err = filepath.Abs(out)
	if err != nil {
		return err
	}
	formats := []snapshot.Format{snapshot.FormatJSON}
	if len(cfg.Formats) > 0 {
		formats = formats[:0]
		for _, f := range cfg.Formats {
			formats = append(formats, snapshot.Format(f))
		}
	}

	opts := snapshot.ExportOptions{
		Basename: filepath.Base(out),
		Formats:  formats,
		Logger:   logger,
	}
	if c.Exchangeable {
		opts.View = res.Builder.AllExchangeable()
	}
	sink := snapshot.NewDirSink(filepath.Dir(out))
	sink.NoClobber = c.NoClobber

	s, err := snapshot.Export(ctx, res.Builder, sink, opts)
	if err != nil {
		return err
	}

	p := report.New(os.Stdout, flags.NoColor)
	p.Diagnostics(s.Diagnostics)
	p.Summary(res.Builder)
	for _, f := range formats {
		fmt.Println(out + f.Ext())
	}
	return nil
}
