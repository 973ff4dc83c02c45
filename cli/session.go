package cli

import (
	"context"
	"io"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/robinvdvleuten/mot/config"
	"github.com/robinvdvleuten/mot/loader"
	"github.com/robinvdvleuten/mot/output"
	"github.com/robinvdvleuten/mot/telemetry"
)

// session holds what a command needs once global flags and the settings
// file have been resolved.
type session struct {
	ctx    context.Context
	cfg    config.Config
	loader *loader.Loader
	styles *output.Styles
	logger zerolog.Logger
	stdout io.Writer
	stderr io.Writer

	collector telemetry.Collector
	timer     telemetry.Timer
}

// newSession resolves settings for the named command. Flags take precedence
// over the settings file.
func (g *Globals) newSession(ctx context.Context, kctx *kong.Context, name string) (*session, error) {
	var (
		cfg config.Config
		err error
	)
	if g.Config != "" {
		cfg, err = config.Load(g.Config)
	} else {
		cfg, err = config.Discover(".")
	}
	if err != nil {
		return nil, err
	}

	colorSetting := cfg.Color
	if g.Color != "" {
		colorSetting = g.Color
	}
	mode, err := output.ParseColorMode(colorSetting)
	if err != nil {
		return nil, err
	}
	styles := output.NewStyles(kctx.Stderr, mode)
	if mode != output.ColorAuto {
		lipgloss.SetColorProfile(styles.Output().Profile)
	}

	level := zerolog.InfoLevel
	if g.Verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        kctx.Stderr,
		NoColor:    !styles.Enabled(),
		TimeFormat: time.Kitchen,
	}).Level(level).With().Timestamp().Str("command", name).Logger()

	if cfg.Path != "" {
		logger.Debug().Str("path", cfg.Path).Msg("using settings file")
	}

	s := &session{
		cfg:    cfg,
		styles: styles,
		logger: logger,
		stdout: kctx.Stdout,
		stderr: kctx.Stderr,
	}

	if g.Telemetry || cfg.Telemetry {
		s.collector = telemetry.NewTimingCollector()
		ctx = telemetry.WithCollector(ctx, s.collector)
		ctx, s.timer = telemetry.StartTimer(ctx, name)
	}
	s.ctx = logger.WithContext(ctx)

	opts := append(cfg.LoaderOptions(), loader.WithLogger(logger))
	if g.Jobs > 0 {
		opts = append(opts, loader.WithJobs(g.Jobs))
	}
	s.loader = loader.New(opts...)

	return s, nil
}

// close ends the command's timer and prints the timing report, if enabled.
func (s *session) close() {
	if s.collector == nil {
		return
	}
	s.timer.End()
	s.collector.Report(s.stderr, s.styles)
}
