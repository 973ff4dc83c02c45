package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	moterrors "github.com/robinvdvleuten/mot/errors"
)

var (
	errCaretStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	errContextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"}).
			TabWidth(lipgloss.NoTabConversion)
)

// contextIndent prefixes source lines in formatted errors.
const contextIndent = "   "

// ErrorRenderer renders errors with terminal styling and source context.
type ErrorRenderer struct {
	formatter *moterrors.TextFormatter
}

// NewErrorRenderer creates a renderer showing the given number of source
// lines before each error.
func NewErrorRenderer(contextLines int) *ErrorRenderer {
	return &ErrorRenderer{
		formatter: moterrors.NewTextFormatter(moterrors.WithContextLines(contextLines)),
	}
}

// Render formats a single error with styling and context.
func (r *ErrorRenderer) Render(err error) string {
	text := r.formatter.Format(err)

	message, body, found := strings.Cut(text, "\n\n")
	if !found {
		return errorStyle.Render(text)
	}

	var buf strings.Builder
	buf.WriteString(errorStyle.Render(message))
	buf.WriteString("\n\n")

	lines := strings.Split(strings.TrimSuffix(body, "\n"), "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "^" && i == len(lines)-1 {
			buf.WriteString(strings.TrimSuffix(line, "^"))
			buf.WriteString(errCaretStyle.Render("^"))
		} else {
			buf.WriteString(contextIndent)
			buf.WriteString(errContextStyle.Render(strings.TrimPrefix(line, contextIndent)))
		}
		buf.WriteByte('\n')
	}

	return buf.String()
}

// RenderAll formats multiple errors, separating them with blank lines.
func (r *ErrorRenderer) RenderAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	var buf strings.Builder
	for i, err := range errs {
		buf.WriteString(strings.TrimSuffix(r.Render(err), "\n"))

		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}

	return buf.String()
}
