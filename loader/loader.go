// Package loader reads mot files from disk and parses them.
//
// Files are read in full, checked against a size cap before any lexing
// happens, and decoded to UTF-8: a byte order mark is stripped, and files
// starting with a UTF-16 byte order mark are transcoded. Several files can
// be loaded concurrently; each gets its own buffer, lexer and parser.
//
// Example usage:
//
//	ldr := loader.New(loader.WithMaxFileSize(1 << 20))
//	result, err := ldr.Load(ctx, "app.mot")
//
//	results, errs := ldr.LoadAll(ctx, []string{"app.mot", "db.mot"})
package loader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/robinvdvleuten/mot/ast"
	"github.com/robinvdvleuten/mot/parser"
	"github.com/robinvdvleuten/mot/source"
	"github.com/robinvdvleuten/mot/telemetry"
)

const (
	// MaxFilenameSize is the longest accepted file name, in bytes.
	MaxFilenameSize = 600

	// DefaultMaxFileSize is the default cap on file size, in bytes.
	DefaultMaxFileSize = 16 << 20
)

// Loader reads and parses files.
//
// Configure the loader using functional options passed to New:
//
//	loader := New(WithJobs(4))
type Loader struct {
	// MaxFileSize is the largest file, in bytes, that will be parsed.
	MaxFileSize int64

	// Jobs is the number of files LoadAll parses at once.
	Jobs int

	logger *zerolog.Logger
}

// Option configures how files are loaded.
type Option func(*Loader)

// WithMaxFileSize caps the size of files that will be parsed. Values
// below one are ignored.
func WithMaxFileSize(n int64) Option {
	return func(l *Loader) {
		if n > 0 {
			l.MaxFileSize = n
		}
	}
}

// WithJobs sets how many files LoadAll parses concurrently. Values below
// one are ignored.
func WithJobs(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.Jobs = n
		}
	}
}

// WithLogger sets the logger used for debug output. Without it the logger
// carried by the context is used.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Loader) {
		l.logger = &logger
	}
}

// New creates a new Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{
		MaxFileSize: DefaultMaxFileSize,
		Jobs:        runtime.GOMAXPROCS(0),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Result is a successfully parsed file.
type Result struct {
	// Root is the absolute path of the file, or the name given to LoadBytes.
	Root   string
	Buffer *source.Buffer
	File   *ast.FileNode
}

// Load reads and parses a single file.
func (l *Loader) Load(ctx context.Context, filename string) (*Result, error) {
	if len(filename) > MaxFilenameSize {
		return nil, &ReadError{
			Filename: filename[:32] + "...",
			Err:      fmt.Errorf("file name is longer than %d bytes", MaxFilenameSize),
		}
	}

	absPath, err := filepath.Abs(filename)
	if err != nil {
		return nil, &ReadError{Filename: filename, Err: err}
	}

	data, err := l.read(filename)
	if err != nil {
		return nil, err
	}

	result, err := l.parse(ctx, filename, data)
	if err != nil {
		return nil, err
	}
	result.Root = absPath
	return result, nil
}

// LoadBytes parses data as the contents of name. The size cap and
// decoding rules of Load apply.
func (l *Loader) LoadBytes(ctx context.Context, name string, data []byte) (*Result, error) {
	if int64(len(data)) > l.MaxFileSize {
		return nil, &SizeError{Filename: name, Size: int64(len(data)), Limit: l.MaxFileSize}
	}

	result, err := l.parse(ctx, name, data)
	if err != nil {
		return nil, err
	}
	result.Root = name
	return result, nil
}

// LoadAll loads every file concurrently. Results and errors are aligned
// with filenames: for each index exactly one of them is set.
func (l *Loader) LoadAll(ctx context.Context, filenames []string) ([]*Result, []error) {
	ctx, timer := telemetry.StartTimer(ctx, "load")
	defer timer.End()

	results := make([]*Result, len(filenames))
	errs := make([]error, len(filenames))

	var g errgroup.Group
	g.SetLimit(l.Jobs)

	for i, filename := range filenames {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			results[i], errs[i] = l.Load(ctx, filename)
			return nil
		})
	}

	// Per-file failures are recorded in errs, so Wait never fails.
	_ = g.Wait()

	return results, errs
}

// read loads the raw contents of filename, refusing files over the cap.
func (l *Loader) read(filename string) ([]byte, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, &ReadError{Filename: filename, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &ReadError{Filename: filename, Err: err}
	}
	if info.IsDir() {
		return nil, &ReadError{Filename: filename, Err: fmt.Errorf("is a directory")}
	}
	if info.Size() > l.MaxFileSize {
		return nil, &SizeError{Filename: filename, Size: info.Size(), Limit: l.MaxFileSize}
	}

	// The file may grow between Stat and the read.
	data, err := io.ReadAll(io.LimitReader(f, l.MaxFileSize+1))
	if err != nil {
		return nil, &ReadError{Filename: filename, Err: err}
	}
	if int64(len(data)) > l.MaxFileSize {
		return nil, &SizeError{Filename: filename, Size: int64(len(data)), Limit: l.MaxFileSize}
	}

	return data, nil
}

// parse decodes data and runs the parser over it.
func (l *Loader) parse(ctx context.Context, filename string, data []byte) (*Result, error) {
	logger := l.log(ctx)

	decoded, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), data)
	if err != nil {
		return nil, &ReadError{Filename: filename, Err: fmt.Errorf("decode: %w", err)}
	}

	buf, err := source.NewBuffer(filename, decoded)
	if err != nil {
		return nil, &SizeError{Filename: filename, Size: int64(len(decoded)), Limit: l.MaxFileSize}
	}

	logger.Debug().
		Str("file", filename).
		Int("bytes", len(data)).
		Bool("bom", len(decoded) != len(data)).
		Msg("loaded file")

	file, err := parser.Parse(logger.WithContext(ctx), buf)
	if err != nil {
		return nil, err
	}

	return &Result{Buffer: buf, File: file}, nil
}

func (l *Loader) log(ctx context.Context) *zerolog.Logger {
	if l.logger != nil {
		return l.logger
	}
	return zerolog.Ctx(ctx)
}
