package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/mot/formatter"
)

type FormatCmd struct {
	File  FileOrStdin `arg:"" optional:"" help:"Mot file to format, or - for stdin."`
	Write bool        `short:"w" help:"Write the result back to the file instead of printing it."`
	Yes   bool        `short:"y" help:"Overwrite the file without asking."`
	Check bool        `help:"Fail when the file is not already formatted."`
}

func (cmd *FormatCmd) Run(kctx *kong.Context, ctx context.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	s, err := globals.newSession(ctx, kctx, "format")
	if err != nil {
		return err
	}
	defer s.close()

	return cmd.run(s)
}

func (cmd *FormatCmd) run(s *session) error {
	if cmd.Write && cmd.File.IsStdin() {
		return fmt.Errorf("cannot use --write with stdin")
	}

	result, err := cmd.File.Load(s.ctx, s.loader)
	if err != nil {
		_, _ = fmt.Fprintln(s.stderr, NewErrorRenderer(errorContextLines).Render(err))
		return NewCommandError(1)
	}

	var buf bytes.Buffer
	if err := formatter.New(s.cfg.FormatterOptions()...).Format(s.ctx, result.File, &buf); err != nil {
		return fmt.Errorf("failed to format %s: %w", cmd.File.Filename, err)
	}

	unchanged := bytes.Equal(buf.Bytes(), result.Buffer.Bytes())
	name := pathStyle.Render(cmd.File.Filename)

	switch {
	case cmd.Check:
		if !unchanged {
			printError(s.stderr, fmt.Sprintf("%s is not formatted", cmd.File.Filename))
			return NewCommandError(1)
		}
		printSuccess(s.stdout, fmt.Sprintf("%s is formatted", name))
		return nil

	case cmd.Write:
		if unchanged {
			printInfof(s.stdout, "%s is already formatted", name)
			return nil
		}
		if !cmd.Yes {
			ok, err := confirm(fmt.Sprintf("Overwrite %s?", cmd.File.Filename))
			if err != nil {
				return err
			}
			if !ok {
				printInfof(s.stdout, "Left %s unchanged", name)
				return nil
			}
		}
		if err := writeFormatted(cmd.File.Filename, buf.Bytes()); err != nil {
			return err
		}
		printSuccess(s.stdout, fmt.Sprintf("Formatted %s", name))
		return nil

	default:
		_, err := s.stdout.Write(buf.Bytes())
		return err
	}
}

// writeFormatted replaces the contents of filename, keeping its mode.
func writeFormatted(filename string, data []byte) error {
	info, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", filename, err)
	}
	if err := os.WriteFile(filename, data, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}
