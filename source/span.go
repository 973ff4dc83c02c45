package source

import (
	"io"
)

// Span is an immutable byte range [Start, End) within a Buffer. The zero
// Span refers to no buffer and is empty.
type Span struct {
	buf   *Buffer
	Start uint32
	End   uint32
}

// Buffer returns the buffer the span points into.
func (s Span) Buffer() *Buffer {
	return s.buf
}

// Len returns the length of the span in bytes.
func (s Span) Len() uint32 {
	return s.End - s.Start
}

// IsEmpty reports whether the span covers no bytes.
func (s Span) IsEmpty() bool {
	return s.Start == s.End
}

// Bytes returns a zero-copy view of the span's bytes.
func (s Span) Bytes() []byte {
	if s.buf == nil || s.IsEmpty() {
		return nil
	}
	return s.buf.data[s.Start:s.End]
}

// CopyTo copies the span's bytes into dst and returns the number of bytes
// copied. dst must hold at least Len() bytes.
func (s Span) CopyTo(dst []byte) int {
	if s.IsEmpty() {
		return 0
	}
	return copy(dst, s.buf.data[s.Start:s.End])
}

// WriteTo writes the span's bytes directly to w.
func (s Span) WriteTo(w io.Writer) (int64, error) {
	if s.IsEmpty() {
		return 0, nil
	}
	n, err := w.Write(s.buf.data[s.Start:s.End])
	return int64(n), err
}

// String materializes the span into a newly allocated string.
func (s Span) String() string {
	if s.IsEmpty() {
		return ""
	}
	return string(s.buf.data[s.Start:s.End])
}

// Position returns the position of the first byte of the span.
func (s Span) Position() Position {
	if s.buf == nil {
		return Position{}
	}
	return s.buf.Position(s.Start)
}

// Cover returns the smallest span containing both s and other. Spans from
// different buffers are not merged; s is returned unchanged.
func (s Span) Cover(other Span) Span {
	if s.buf != other.buf {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}
