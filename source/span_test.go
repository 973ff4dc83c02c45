package source

import (
	"bytes"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestSpan(t *testing.T) {
	buf := FromString("test", "hello world")

	t.Run("Length and string", func(t *testing.T) {
		span := buf.Span(6, 11)
		assert.Equal(t, uint32(5), span.Len())
		assert.Equal(t, "world", span.String())
		assert.Equal(t, []byte("world"), span.Bytes())
	})

	t.Run("Empty span", func(t *testing.T) {
		span := buf.Span(3, 3)
		assert.True(t, span.IsEmpty())
		assert.Equal(t, "", span.String())
		assert.Equal(t, 0, span.CopyTo(nil), "copying an empty span is a no-op")
	})

	t.Run("Span at end of buffer", func(t *testing.T) {
		span := buf.Span(11, 11)
		assert.True(t, span.IsEmpty())
		assert.Equal(t, 12, span.Position().Column)
	})

	t.Run("CopyTo", func(t *testing.T) {
		dst := make([]byte, 5)
		n := buf.Span(0, 5).CopyTo(dst)
		assert.Equal(t, 5, n)
		assert.Equal(t, "hello", string(dst))
	})

	t.Run("WriteTo", func(t *testing.T) {
		var out bytes.Buffer
		n, err := buf.Span(0, 11).WriteTo(&out)
		assert.NoError(t, err)
		assert.Equal(t, int64(11), n)
		assert.Equal(t, "hello world", out.String())
	})

	t.Run("String does not alias the buffer", func(t *testing.T) {
		data := []byte("abc")
		b, err := NewBuffer("alias", data)
		assert.NoError(t, err)
		s := b.Span(0, 3).String()
		data[0] = 'x'
		assert.Equal(t, "abc", s)
	})

	t.Run("Cover", func(t *testing.T) {
		span := buf.Span(2, 4).Cover(buf.Span(6, 8))
		assert.Equal(t, uint32(2), span.Start)
		assert.Equal(t, uint32(8), span.End)

		other := FromString("other", "hello world")
		unchanged := buf.Span(2, 4).Cover(other.Span(0, 11))
		assert.Equal(t, uint32(4), unchanged.End, "spans from different buffers are not merged")
	})

	t.Run("Zero value", func(t *testing.T) {
		var span Span
		assert.True(t, span.IsEmpty())
		assert.Equal(t, "", span.String())
		assert.Equal(t, Position{}, span.Position())
	})
}

func TestSpanInvariants(t *testing.T) {
	buf := FromString("test", "abc")

	assert.Panics(t, func() { buf.Span(2, 1) }, "inverted span")
	assert.Panics(t, func() { buf.Span(0, 4) }, "span past end of buffer")
}
