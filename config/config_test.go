package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/mot/formatter"
	"github.com/robinvdvleuten/mot/loader"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, int64(loader.DefaultMaxFileSize), cfg.MaxFileSize)
	assert.Equal(t, "auto", cfg.Color)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
max_file_size = 1024
jobs = 3
color = "never"
telemetry = true

[format]
escape_style = "original"
block_indent = 2
preserve_comments = false
`)

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, int64(1024), cfg.MaxFileSize)
	assert.Equal(t, 3, cfg.Jobs)
	assert.Equal(t, "never", cfg.Color)
	assert.True(t, cfg.Telemetry)
	assert.Equal(t, "original", cfg.Format.EscapeStyle)
	assert.Equal(t, 2, cfg.Format.BlockIndent)
	assert.Equal(t, false, *cfg.Format.PreserveComments)
	assert.Zero(t, cfg.Format.PreserveBlanks)

	f := formatter.New(cfg.FormatterOptions()...)
	assert.Equal(t, formatter.EscapeStyleOriginal, f.StringEscapeStyle)
	assert.Equal(t, 2, f.BlockIndent)
	assert.False(t, f.PreserveComments)
	assert.True(t, f.PreserveBlanks)

	l := loader.New(cfg.LoaderOptions()...)
	assert.Equal(t, int64(1024), l.MaxFileSize)
	assert.Equal(t, 3, l.Jobs)
}

func TestLoadKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, t.TempDir(), "jobs = 2\n"))
	assert.NoError(t, err)
	assert.Equal(t, int64(loader.DefaultMaxFileSize), cfg.MaxFileSize)
	assert.Equal(t, formatter.DefaultBlockIndent, cfg.Format.BlockIndent)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
	}{
		{name: "syntax", content: "jobs = \n", message: "failed to parse TOML"},
		{name: "unknown key", content: "jobs = 1\nthreads = 2\n[format]\nwidth = 80\n", message: "unknown keys: format.width, threads"},
		{name: "color", content: "color = \"purple\"\n", message: "invalid color mode"},
		{name: "escape style", content: "[format]\nescape_style = \"none\"\n", message: "format.escape_style"},
		{name: "block indent", content: "[format]\nblock_indent = 0\n", message: "format.block_indent"},
		{name: "max file size", content: "max_file_size = -1\n", message: "max_file_size must be positive"},
		{name: "jobs", content: "jobs = -1\n", message: "jobs must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, t.TempDir(), tt.content))
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, "jobs = 1\n")

	nested := filepath.Join(root, "a", "b")
	assert.NoError(t, os.MkdirAll(nested, 0o755))

	found, ok, err := Find(nested)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, path, found)

	cfg, err := Discover(nested)
	assert.NoError(t, err)
	assert.Equal(t, 1, cfg.Jobs)
}
