// Package config loads optional mot.toml settings files.
//
// A settings file is looked up from the working directory upwards, so a
// project can pin limits and formatting once for every file below it:
//
//	max_file_size = 1048576
//	jobs = 4
//	color = "auto"
//	telemetry = false
//
//	[format]
//	escape_style = "original"
//	block_indent = 4
//	preserve_comments = true
//	preserve_blanks = true
//
// Command line flags take precedence over values from the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/robinvdvleuten/mot/formatter"
	"github.com/robinvdvleuten/mot/loader"
	"github.com/robinvdvleuten/mot/output"
)

// FileName is the name of the settings file looked up by Find.
const FileName = "mot.toml"

// Config holds the settings read from a mot.toml file.
type Config struct {
	// Path is the file the settings were read from, empty for defaults.
	Path string `toml:"-"`

	MaxFileSize int64  `toml:"max_file_size"`
	Jobs        int    `toml:"jobs"`
	Color       string `toml:"color"`
	Telemetry   bool   `toml:"telemetry"`

	Format FormatConfig `toml:"format"`
}

// FormatConfig holds the [format] table.
type FormatConfig struct {
	EscapeStyle      string `toml:"escape_style"`
	BlockIndent      int    `toml:"block_indent"`
	PreserveComments *bool  `toml:"preserve_comments"`
	PreserveBlanks   *bool  `toml:"preserve_blanks"`
}

// Default returns the settings used when no file is found.
func Default() Config {
	return Config{
		MaxFileSize: loader.DefaultMaxFileSize,
		Color:       string(output.ColorAuto),
		Format: FormatConfig{
			EscapeStyle: "cstyle",
			BlockIndent: formatter.DefaultBlockIndent,
		},
	}
}

// Find looks for a settings file in startDir and its parents.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load reads a settings file. Unset keys keep their default values;
// unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover finds and loads the settings file for startDir. Without a file
// the defaults are returned.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("max_file_size must be positive, got %d", c.MaxFileSize)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	if _, err := output.ParseColorMode(c.Color); err != nil {
		return fmt.Errorf("color: %w", err)
	}
	if _, ok := formatter.ParseStringEscapeStyle(c.Format.EscapeStyle); !ok {
		return fmt.Errorf("format.escape_style must be cstyle or original, got %q", c.Format.EscapeStyle)
	}
	if c.Format.BlockIndent < 1 {
		return fmt.Errorf("format.block_indent must be at least 1, got %d", c.Format.BlockIndent)
	}
	return nil
}

// LoaderOptions returns the loader options for these settings.
func (c Config) LoaderOptions() []loader.Option {
	return []loader.Option{
		loader.WithMaxFileSize(c.MaxFileSize),
		loader.WithJobs(c.Jobs),
	}
}

// FormatterOptions returns the formatter options for these settings.
func (c Config) FormatterOptions() []formatter.Option {
	style, _ := formatter.ParseStringEscapeStyle(c.Format.EscapeStyle)
	opts := []formatter.Option{
		formatter.WithStringEscapeStyle(style),
		formatter.WithBlockIndent(c.Format.BlockIndent),
	}
	if c.Format.PreserveComments != nil {
		opts = append(opts, formatter.WithPreserveComments(*c.Format.PreserveComments))
	}
	if c.Format.PreserveBlanks != nil {
		opts = append(opts, formatter.WithPreserveBlanks(*c.Format.PreserveBlanks))
	}
	return opts
}
