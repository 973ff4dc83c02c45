package token

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	errorColor   = []color.Attribute{color.FgRed, color.Bold}
	lineColor    = []color.Attribute{color.FgBlue, color.Bold}
	defaultColor = []color.Attribute{color.FgGreen, color.Bold}
	valueColor   = []color.Attribute{color.FgYellow}
)

// DebugPrint writes a one-line description of tok to w: its type, its
// line:column when positions is set, and its value. Colors are only emitted
// when useColor is set.
func DebugPrint(w io.Writer, tok *Token, positions, useColor bool) error {
	name := tok.Type.String()
	if useColor {
		c := defaultColor
		switch {
		case tok.Type.IsError():
			c = errorColor
		case tok.Type == EndOfLine:
			c = lineColor
		}
		name = colorize(c, name)
	}

	if _, err := fmt.Fprint(w, name, " "); err != nil {
		return err
	}

	if positions {
		pos := tok.Position()
		if _, err := fmt.Fprintf(w, "%d:%d ", pos.Line, pos.Column); err != nil {
			return err
		}
	}

	if tok.Value != nil {
		if tok.Type == BlockText {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		value := tok.Value.String()
		if useColor {
			value = colorize(valueColor, value)
		}
		if _, err := io.WriteString(w, value); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w)
	return err
}

// colorize renders s with attrs regardless of whether stdout is a
// terminal; the caller has already decided that color is wanted.
func colorize(attrs []color.Attribute, s string) string {
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(s)
}
