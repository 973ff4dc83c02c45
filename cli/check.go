package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	moterrors "github.com/robinvdvleuten/mot/errors"
	"github.com/robinvdvleuten/mot/loader"
)

// errorContextLines is how many source lines precede the caret in
// rendered errors.
const errorContextLines = 2

type CheckCmd struct {
	Files  []string `arg:"" optional:"" type:"path" help:"Mot files to check, or - for stdin."`
	Output string   `short:"o" enum:"text,json" default:"text" help:"Error output format (text, json)."`
}

func (cmd *CheckCmd) Run(kctx *kong.Context, ctx context.Context, globals *Globals) error {
	s, err := globals.newSession(ctx, kctx, "check")
	if err != nil {
		return err
	}
	defer s.close()

	return s.check(cmd.Files, cmd.Output, os.Stdin)
}

// check loads files, or stdin when files is empty or "-", and reports
// every failure. It returns a CommandError when any file failed.
func (s *session) check(files []string, format string, stdin io.Reader) error {
	var (
		results []*loader.Result
		errs    []error
	)

	if len(files) == 0 || len(files) == 1 && files[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("failed to read from stdin: %w", err)
		}
		result, err := s.loader.LoadBytes(s.ctx, stdinName, data)
		results, errs = []*loader.Result{result}, []error{err}
	} else {
		results, errs = s.loader.LoadAll(s.ctx, files)
	}

	var failed []error
	for _, err := range errs {
		if err != nil {
			failed = append(failed, err)
		}
	}

	if format == "json" {
		_, _ = fmt.Fprintln(s.stdout, moterrors.NewJSONFormatter().FormatAll(failed))
	} else if len(failed) > 0 {
		_, _ = fmt.Fprintln(s.stderr, NewErrorRenderer(errorContextLines).RenderAll(failed))
		_, _ = fmt.Fprintln(s.stderr)
	}

	if len(failed) > 0 {
		if format != "json" {
			printError(s.stderr, fmt.Sprintf("%d of %d %s failed", len(failed), len(results), plural(len(results), "file", "files")))
		}
		return NewCommandError(1)
	}

	if format != "json" {
		printSuccess(s.stdout, fmt.Sprintf("Check passed: %d %s", len(results), plural(len(results), "file", "files")))
	}

	s.logger.Debug().Int("files", len(results)).Msg("check finished")

	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
