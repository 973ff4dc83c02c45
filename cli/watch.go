package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

type WatchCmd struct {
	Files    []string      `arg:"" type:"existingfile" help:"Mot files to watch."`
	Debounce time.Duration `default:"100ms" help:"How long to wait for further changes before checking again."`
}

func (cmd *WatchCmd) Run(kctx *kong.Context, ctx context.Context, globals *Globals) error {
	s, err := globals.newSession(ctx, kctx, "watch")
	if err != nil {
		return err
	}
	defer s.close()

	targets := make(map[string]bool, len(cmd.Files))
	dirs := make(map[string]bool)
	for _, file := range cmd.Files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", file, err)
		}
		targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Editors often save by renaming a new file over the old one, which
	// drops a watch on the file itself, so watch the directories instead.
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	recheck := func() {
		if err := s.check(cmd.Files, "text", nil); err != nil {
			var cmdErr *CommandError
			if !errors.As(err, &cmdErr) {
				s.logger.Error().Err(err).Msg("check failed")
			}
		}
	}

	recheck()
	printInfof(s.stdout, "Watching %d %s, press Ctrl+C to stop", len(targets), plural(len(targets), "file", "files"))

	return watchLoop(s.ctx, watcher.Events, watcher.Errors, targets, cmd.Debounce, s.logger, recheck)
}

// watchLoop calls onChange once a change to any of targets has been
// followed by debounce of quiet. It returns when ctx is done or the event
// channel closes.
func watchLoop(
	ctx context.Context,
	events <-chan fsnotify.Event,
	errs <-chan error,
	targets map[string]bool,
	debounce time.Duration,
	logger zerolog.Logger,
	onChange func(),
) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !targets[filepath.Clean(event.Name)] {
				continue
			}
			logger.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("file changed")

			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			onChange()

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn().Err(err).Msg("file watcher error")
		}
	}
}
