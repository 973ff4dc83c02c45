package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		input   string
		want    ColorMode
		wantErr bool
	}{
		{input: "", want: ColorAuto},
		{input: "auto", want: ColorAuto},
		{input: "always", want: ColorAlways},
		{input: "never", want: ColorNever},
		{input: "sometimes", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseColorMode(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStylesNeverIsPlain(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStyles(&buf, ColorNever)

	assert.False(t, styles.Enabled())
	assert.Equal(t, "ok", styles.Success("ok"))
	assert.Equal(t, "boom", styles.Error("boom"))
	assert.Equal(t, "/etc/app.mot", styles.FilePath("/etc/app.mot"))
	assert.Equal(t, "service", styles.PropertyType("service"))
	assert.Equal(t, "nginx", styles.Value("nginx"))
	assert.Equal(t, "total", styles.Keyword("total"))
	assert.Equal(t, "12ms", styles.Dim("12ms"))
	assert.Equal(t, "slow", styles.Warning("slow"))
}

func TestStylesAlwaysEmitsEscapes(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStyles(&buf, ColorAlways)

	assert.True(t, styles.Enabled())

	for _, styled := range []string{
		styles.Success("ok"),
		styles.Error("boom"),
		styles.FilePath("/etc/app.mot"),
		styles.Warning("slow"),
	} {
		assert.True(t, strings.Contains(styled, "\x1b["), "expected escape sequence in %q", styled)
	}
	assert.Contains(t, styles.Error("boom"), "boom")
}

func TestStylesOutput(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStyles(&buf, ColorNever)
	assert.NotZero(t, styles.Output())
}
