// Package source holds the bytes of a single configuration file and the
// zero-copy spans that lexer tokens and AST nodes use to refer to them.
//
// A Buffer is immutable once constructed. Spans are (buffer, start, end)
// triples of byte offsets; they never copy file bytes until a caller asks
// for a materialized string. Because a Span holds a pointer to its Buffer,
// the buffer's bytes stay reachable for as long as any span does.
package source

import (
	"fmt"
	"sort"
	"sync"

	"fortio.org/safecast"
)

// Buffer is the full byte content of one file plus its name.
type Buffer struct {
	Filename string

	data []byte
	size uint32

	linesOnce sync.Once
	lines     []uint32 // byte offset of the first byte of every line
}

// NewBuffer wraps data without copying it. The caller must not modify data
// afterwards. Inputs larger than 4 GiB cannot be addressed by uint32
// offsets and are rejected.
func NewBuffer(filename string, data []byte) (*Buffer, error) {
	size, err := safecast.Conv[uint32](len(data))
	if err != nil {
		return nil, fmt.Errorf("%s: file too large to address: %w", filename, err)
	}
	return &Buffer{Filename: filename, data: data, size: size}, nil
}

// FromString creates a buffer from an in-memory string. It is meant for
// tests and small generated inputs and panics on inputs NewBuffer rejects.
func FromString(filename, s string) *Buffer {
	buf, err := NewBuffer(filename, []byte(s))
	if err != nil {
		panic(err)
	}
	return buf
}

// Len returns the number of bytes in the buffer.
func (b *Buffer) Len() uint32 {
	return b.size
}

// Bytes returns the underlying bytes. The slice must be treated as read-only.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// At returns the byte at offset i.
func (b *Buffer) At(i uint32) byte {
	return b.data[i]
}

// Span returns the span [start, end) of this buffer. It panics if the range
// is inverted or extends past the end of the buffer.
func (b *Buffer) Span(start, end uint32) Span {
	if end < start || end > b.size {
		panic(fmt.Sprintf("source: invalid span [%d, %d) for buffer of %d bytes", start, end, b.size))
	}
	return Span{buf: b, Start: start, End: end}
}

// Position resolves a byte offset into a 1-indexed line and column. The
// column counts bytes, not characters.
func (b *Buffer) Position(offset uint32) Position {
	if offset > b.size {
		offset = b.size
	}
	lines := b.lineStarts()

	// Index of the last line starting at or before offset.
	i := sort.Search(len(lines), func(i int) bool { return lines[i] > offset }) - 1

	return Position{
		Filename: b.Filename,
		Offset:   int(offset),
		Line:     i + 1,
		Column:   int(offset-lines[i]) + 1,
	}
}

// LineCount returns the number of lines in the buffer. A trailing line
// terminator starts a final, empty line.
func (b *Buffer) LineCount() int {
	return len(b.lineStarts())
}

// Line returns the content of the given 1-indexed line without its line
// terminator. Out of range lines yield nil.
func (b *Buffer) Line(line int) []byte {
	lines := b.lineStarts()
	if line < 1 || line > len(lines) {
		return nil
	}
	start := lines[line-1]
	end := b.size
	if line < len(lines) {
		end = lines[line] - 1 // drop '\n'
	}
	if end > start && b.data[end-1] == '\r' {
		end--
	}
	return b.data[start:end]
}

func (b *Buffer) lineStarts() []uint32 {
	b.linesOnce.Do(func() {
		lines := make([]uint32, 1, len(b.data)/32+1)
		for i, c := range b.data {
			if c == '\n' {
				// i+1 fits: size was checked in NewBuffer.
				lines = append(lines, uint32(i)+1)
			}
		}
		b.lines = lines
	})
	return b.lines
}
