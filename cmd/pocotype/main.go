package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"

	"github.com/broady/pocotype/cmd/pocotype/internal/check"
	"github.com/broady/pocotype/cmd/pocotype/internal/config"
	"github.com/broady/pocotype/cmd/pocotype/internal/dump"
	"github.com/broady/pocotype/cmd/pocotype/internal/report"
	"github.com/broady/pocotype/internal/errors"
)

type CLI struct {
	config.Flags `embed:""`

	Version VersionCmd `cmd:"" help:"Print version information."`
	Check   check.Cmd  `cmd:"" help:"Build the type system and report diagnostics."`
	Dump    dump.Cmd   `cmd:"" help:"Build the type system and write a snapshot."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(Version())
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cli := &CLI{}
	kctx := kong.Parse(cli,
		kong.Name("pocotype"),
		kong.Description("Build and inspect the structural type system of Go Poco declarations."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.Bind(&cli.Flags),
	)
	if err := kctx.Run(); err != nil {
		if !errors.Is(err, check.ErrDiagnostics) {
			report.New(os.Stderr, cli.NoColor).Error(err)
		}
		stop()
		os.Exit(1)
	}
}
