// Package errors provides error formatting infrastructure for mot errors.
// It separates error formatting from the packages that produce errors,
// allowing errors to be rendered in multiple formats (text, JSON) for
// different consumers (terminal, editor integrations, CI annotations).
//
// The package defines a Formatter interface and provides two implementations:
//   - TextFormatter: message followed by the offending source lines and a caret
//   - JSONFormatter: structured JSON for tools
package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/robinvdvleuten/mot/loader"
	"github.com/robinvdvleuten/mot/parser"
	"github.com/robinvdvleuten/mot/source"
)

// Formatter formats errors for output in different formats.
type Formatter interface {
	// Format formats a single error.
	Format(err error) string

	// FormatAll formats multiple errors.
	FormatAll(errs []error) string
}

// positioned is implemented by errors that point at a source location.
type positioned interface {
	error
	GetPosition() source.Position
}

// sourced is implemented by errors that carry the buffer they occurred in.
type sourced interface {
	positioned
	GetSource() *source.Buffer
}

// TextFormatter formats errors for command-line output.
type TextFormatter struct {
	contextLines int
}

// TextFormatterOption is an option for configuring TextFormatter.
type TextFormatterOption func(*TextFormatter)

// WithContextLines sets how many lines before the error line are shown.
func WithContextLines(n int) TextFormatterOption {
	return func(tf *TextFormatter) {
		if n >= 0 {
			tf.contextLines = n
		}
	}
}

// NewTextFormatter creates a new text formatter.
func NewTextFormatter(opts ...TextFormatterOption) *TextFormatter {
	tf := &TextFormatter{contextLines: 2}
	for _, opt := range opts {
		opt(tf)
	}
	return tf
}

// Format formats a single error. Errors that carry their source are shown
// with the surrounding lines and a caret under the offending column.
func (tf *TextFormatter) Format(err error) string {
	var withSource sourced
	if stderrors.As(err, &withSource) && withSource.GetSource() != nil {
		return tf.formatWithSourceContext(withSource.GetPosition(), err.Error(), withSource.GetSource())
	}

	return err.Error()
}

// FormatAll formats multiple errors, separating them with blank lines.
func (tf *TextFormatter) FormatAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	var buf bytes.Buffer
	for i, err := range errs {
		buf.WriteString(strings.TrimSuffix(tf.Format(err), "\n"))

		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}

	return buf.String()
}

// formatWithSourceContext writes the message, a few source lines ending at
// the error line and a caret pointing at the error column.
func (tf *TextFormatter) formatWithSourceContext(pos source.Position, message string, buf *source.Buffer) string {
	var out bytes.Buffer

	out.WriteString(message)
	out.WriteString("\n\n")

	startLine := max(pos.Line-tf.contextLines, 1)
	endLine := min(pos.Line, buf.LineCount())

	for n := startLine; n <= endLine; n++ {
		line := buf.Line(n)
		out.WriteString("   ")
		out.Write(line)
		out.WriteByte('\n')

		if n == pos.Line && pos.Column > 0 {
			out.WriteString("   ")
			out.WriteString(caretPadding(line, pos.Column-1))
			out.WriteString("^\n")
		}
	}

	return out.String()
}

// caretPadding returns the whitespace that lines a caret up with the given
// byte column of line. Tabs are kept so the terminal expands them the same
// way on both lines; wide characters take two cells.
func caretPadding(line []byte, column int) string {
	if column > len(line) {
		column = len(line)
	}

	var pad strings.Builder
	for _, r := range string(line[:column]) {
		if r == '\t' {
			pad.WriteByte('\t')
			continue
		}
		pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return pad.String()
}

// JSONFormatter formats errors as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// ErrorJSON represents an error in JSON format.
type ErrorJSON struct {
	Type     string         `json:"type"`
	Kind     string         `json:"kind,omitempty"`
	Message  string         `json:"message"`
	Position *PositionJSON  `json:"position,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
}

// PositionJSON represents a file position in JSON format.
type PositionJSON struct {
	Filename string `json:"filename"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

// Format formats a single error as JSON.
func (jf *JSONFormatter) Format(err error) string {
	data, _ := json.Marshal(jf.toJSON(err))
	return string(data)
}

// FormatAll formats multiple errors as a JSON array.
func (jf *JSONFormatter) FormatAll(errs []error) string {
	data, _ := json.MarshalIndent(jf.FormatAllToSlice(errs), "", "  ")
	return string(data)
}

// FormatAllToSlice returns errors as a slice of ErrorJSON structs.
func (jf *JSONFormatter) FormatAllToSlice(errs []error) []ErrorJSON {
	result := make([]ErrorJSON, 0, len(errs))
	for _, err := range errs {
		result = append(result, jf.toJSON(err))
	}
	return result
}

// toJSON converts an error to ErrorJSON.
func (jf *JSONFormatter) toJSON(err error) ErrorJSON {
	errJSON := ErrorJSON{
		Type:    fmt.Sprintf("%T", err),
		Message: err.Error(),
	}

	var withPosition positioned
	if stderrors.As(err, &withPosition) {
		pos := withPosition.GetPosition()
		errJSON.Position = &PositionJSON{
			Filename: pos.Filename,
			Line:     pos.Line,
			Column:   pos.Column,
		}
	}

	var (
		parseErr *parser.ParseError
		sizeErr  *loader.SizeError
		readErr  *loader.ReadError
	)
	switch {
	case stderrors.As(err, &parseErr):
		errJSON.Type = "parse"
		errJSON.Kind = parseErr.Found.String()
		errJSON.Details = map[string]any{
			"expected": parseErr.Expected,
			"lexical":  parseErr.IsLexical(),
		}
	case stderrors.As(err, &sizeErr):
		errJSON.Type = "size"
		errJSON.Details = map[string]any{
			"filename": sizeErr.Filename,
			"size":     sizeErr.Size,
			"limit":    sizeErr.Limit,
		}
	case stderrors.As(err, &readErr):
		errJSON.Type = "read"
		errJSON.Details = map[string]any{
			"filename": readErr.Filename,
		}
	}

	return errJSON
}
