package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/robinvdvleuten/mot/config"
	moterrors "github.com/robinvdvleuten/mot/errors"
	"github.com/robinvdvleuten/mot/loader"
)

// run executes the command line in a fresh temporary directory, so no
// settings file from the surrounding tree is picked up.
func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var cmds Commands
	var out, errOut bytes.Buffer
	parser, err := kong.New(&cmds,
		kong.Name("mot"),
		kong.Writers(&out, &errOut),
		kong.Exit(func(code int) { t.Fatalf("unexpected exit with code %d", code) }),
		kong.Bind(&cmds.Globals),
		kong.BindTo(context.Background(), (*context.Context)(nil)),
	)
	assert.NoError(t, err)

	kctx, err := parser.Parse(append([]string{"--color", "never"}, args...))
	assert.NoError(t, err)

	err = kctx.Run()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var cmdErr *CommandError
	assert.True(t, errors.As(err, &cmdErr), "expected a CommandError, got %v", err)
	return cmdErr.ExitCode()
}

func TestCheckCmd(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	t.Run("Valid", func(t *testing.T) {
		a := writeFile(t, dir, "a.mot", "service web\n    image: nginx\n")
		b := writeFile(t, dir, "b.mot", "service db\n")

		stdout, _, err := run(t, "check", a, b)
		assert.NoError(t, err)
		assert.Contains(t, stdout, "Check passed: 2 files")
	})

	t.Run("Invalid", func(t *testing.T) {
		good := writeFile(t, dir, "good.mot", "a\n")
		bad := writeFile(t, dir, "bad.mot", "a\n    port \"8080\" x\n")

		_, stderr, err := run(t, "check", good, bad)
		assert.Equal(t, 1, exitCode(t, err))
		assert.Contains(t, stderr, "bad.mot:2:17: expected end of line, found word \"x\"")
		assert.Contains(t, stderr, "port \"8080\" x")
		assert.Contains(t, stderr, "1 of 2 files failed")
	})

	t.Run("JSON", func(t *testing.T) {
		bad := writeFile(t, dir, "open.mot", "a: \"open\n")

		stdout, _, err := run(t, "check", "--output", "json", bad)
		assert.Equal(t, 1, exitCode(t, err))

		var got []moterrors.ErrorJSON
		assert.NoError(t, json.Unmarshal([]byte(stdout), &got))
		assert.Equal(t, 1, len(got))
		assert.Equal(t, "parse", got[0].Type)
		assert.Equal(t, "Error_UnterminatedString", got[0].Kind)
	})

	t.Run("Missing", func(t *testing.T) {
		_, stderr, err := run(t, "check", filepath.Join(dir, "missing.mot"))
		assert.Equal(t, 1, exitCode(t, err))
		assert.Contains(t, stderr, "failed to read")
	})
}

func TestCheckStdin(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	var stdout, stderr bytes.Buffer
	s := &session{
		ctx:    context.Background(),
		cfg:    config.Default(),
		loader: loader.New(),
		logger: zerolog.Nop(),
		stdout: &stdout,
		stderr: &stderr,
	}

	err := s.check(nil, "text", bytes.NewBufferString("a\n  b\n"))
	assert.Equal(t, 1, exitCode(t, err))
	assert.Contains(t, stderr.String(), "<stdin>")

	stdout.Reset()
	assert.NoError(t, s.check([]string{"-"}, "text", bytes.NewBufferString("a\n    b\n")))
	assert.Contains(t, stdout.String(), "Check passed: 1 file")
}

func TestFormatCmd(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	const messy = "service   web  # main\n    image:   nginx\n"
	const canonical = "service web # main\n    image: nginx\n"

	t.Run("Print", func(t *testing.T) {
		path := writeFile(t, dir, "print.mot", messy)

		stdout, _, err := run(t, "format", path)
		assert.NoError(t, err)
		assert.Equal(t, canonical, stdout)
	})

	t.Run("Check", func(t *testing.T) {
		path := writeFile(t, dir, "check.mot", messy)

		_, stderr, err := run(t, "format", "--check", path)
		assert.Equal(t, 1, exitCode(t, err))
		assert.Contains(t, stderr, "is not formatted")

		path = writeFile(t, dir, "checked.mot", canonical)
		_, _, err = run(t, "format", "--check", path)
		assert.NoError(t, err)
	})

	t.Run("WriteWithoutPrompt", func(t *testing.T) {
		path := writeFile(t, dir, "write.mot", messy)

		stdout, _, err := run(t, "format", "--write", "--yes", path)
		assert.NoError(t, err)
		assert.Contains(t, stdout, "Formatted")

		data, err := os.ReadFile(path)
		assert.NoError(t, err)
		assert.Equal(t, canonical, string(data))

		info, err := os.Stat(path)
		assert.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("WriteDeclined", func(t *testing.T) {
		path := writeFile(t, dir, "declined.mot", messy)

		original := confirm
		t.Cleanup(func() { confirm = original })
		var asked string
		confirm = func(question string) (bool, error) {
			asked = question
			return false, nil
		}

		stdout, _, err := run(t, "format", "--write", path)
		assert.NoError(t, err)
		assert.Contains(t, asked, "declined.mot")
		assert.Contains(t, stdout, "unchanged")

		data, err := os.ReadFile(path)
		assert.NoError(t, err)
		assert.Equal(t, messy, string(data))
	})

	t.Run("ParseError", func(t *testing.T) {
		path := writeFile(t, dir, "broken.mot", "a\n\tb\n")

		_, stderr, err := run(t, "format", path)
		assert.Equal(t, 1, exitCode(t, err))
		assert.Contains(t, stderr, "broken.mot:2:1")
	})
}

func TestFormatCmdSettingsFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	writeFile(t, dir, "mot.toml", "[format]\nescape_style = \"original\"\npreserve_comments = false\n")
	path := writeFile(t, dir, "app.mot", "# gone\na \"x\\qy\"\n")

	stdout, _, err := run(t, "format", path)
	assert.NoError(t, err)
	assert.Equal(t, "a \"x\\qy\"\n", stdout)
}

func TestBadSettingsFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	settings := writeFile(t, dir, "custom.toml", "unknown = 1\n")
	path := writeFile(t, dir, "app.mot", "a\n")

	_, _, err := run(t, "--config", settings, "check", path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown")
}

func TestTelemetryFlag(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := writeFile(t, dir, "app.mot", "a\n")

	_, stderr, err := run(t, "--telemetry", "check", path)
	assert.NoError(t, err)
	assert.Contains(t, stderr, "check: ")
	assert.Contains(t, stderr, "load")
	assert.Contains(t, stderr, "parse app.mot")
}

func TestVerboseFlag(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := writeFile(t, dir, "app.mot", "a\n")

	_, stderr, err := run(t, "-v", "check", path)
	assert.NoError(t, err)
	assert.Contains(t, stderr, "loaded file")
}

func TestDoctorLex(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := writeFile(t, dir, "app.mot", "a: b\n")

	stdout, _, err := run(t, "doctor", "lex", "--positions", path)
	assert.NoError(t, err)
	assert.Contains(t, stdout, "Word 1:1 a\n")
	assert.Contains(t, stdout, "LineText 1:4 b\n")
	assert.Contains(t, stdout, "EndOfInput")
}

func TestDoctorLexShowsErrorTokens(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, lexTokens(&buf, "x.mot", []byte("a @\n"), false, false))
	assert.Contains(t, buf.String(), "Error_UnexpectedCharacter")
}

func TestDoctorTree(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := writeFile(t, dir, "app.mot", "service web\n    image: nginx\n")

	stdout, _, err := run(t, "doctor", "tree", path)
	assert.NoError(t, err)
	assert.Contains(t, stdout, `Type: "service"`)
	assert.Contains(t, stdout, `Name: "web"`)
	assert.Contains(t, stdout, `Value: "nginx"`)
	assert.Contains(t, stdout, "Line: 2")
}
