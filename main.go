package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/mot/cli"
)

var (
	// Version contains the application version number. It's set via ldflags
	// when building.
	Version = ""

	// CommitSHA contains the SHA of the commit that this application was built
	// against. It's set via ldflags when building.
	CommitSHA = ""

	app struct {
		Version kong.VersionFlag `help:"Show version information"`
		cli.Commands
	}
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.Version, cli.CommitSHA = Version, CommitSHA

	kctx := kong.Parse(&app,
		kong.Vars{
			"version": buildVersion(),
		},
		kong.Name("mot"),
		kong.Description("A parser, checker and formatter for mot property files."),
		kong.UsageOnError(),
		kong.Bind(&app.Globals),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	err := kctx.Run()

	var cmdErr *cli.CommandError
	if errors.As(err, &cmdErr) {
		stop()
		os.Exit(cmdErr.ExitCode())
	}
	kctx.FatalIfErrorf(err)
}

func buildVersion() string {
	if Version == "" {
		Version = "dev"
	}
	if CommitSHA == "" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, CommitSHA)
}
