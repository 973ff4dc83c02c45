// Package text provides the String value used for every literal that the
// lexer extracts from a source file: words, names, and text values.
//
// A String is immutable. Its code point count and its case-insensitive hash
// are computed lazily on first use and cached; both are pure functions of
// the bytes, so concurrent first access is safe.
package text

import (
	"io"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// String is an immutable UTF-8 string with cached metadata. Use *String;
// the value must not be copied after first use.
type String struct {
	data string

	countOnce sync.Once
	count     int

	hashOnce sync.Once
	hash     uint32
}

var empty = New("")

// Empty returns the shared empty string. Use it instead of allocating a
// new String for absent names and values.
func Empty() *String {
	return empty
}

// New creates a String holding s.
func New(s string) *String {
	return &String{data: s}
}

// FromBytes creates a String holding a copy of b.
func FromBytes(b []byte) *String {
	if len(b) == 0 {
		return empty
	}
	return &String{data: string(b)}
}

// String returns the Go string value.
func (s *String) String() string {
	if s == nil {
		return ""
	}
	return s.data
}

// ByteLength returns the number of bytes in the string.
func (s *String) ByteLength() int {
	if s == nil {
		return 0
	}
	return len(s.data)
}

// CharacterCount returns the number of Unicode code points in the string.
// Each byte of a malformed sequence counts as one code point.
func (s *String) CharacterCount() int {
	if s == nil {
		return 0
	}
	s.countOnce.Do(func() {
		s.count = utf8.RuneCountInString(s.data)
	})
	return s.count
}

// FNV-1a, 32 bit.
const (
	hashOffset = 2166136261
	hashPrime  = 16777619
)

// HashCode returns a case-insensitive hash of the string: strings that are
// equal under CompareCaseInsensitive have equal hash codes.
func (s *String) HashCode() uint32 {
	if s == nil {
		return hashOffset
	}
	s.hashOnce.Do(func() {
		var enc [utf8.UTFMax]byte
		h := uint32(hashOffset)
		for _, r := range s.data {
			n := utf8.EncodeRune(enc[:], unicode.ToUpper(r))
			for _, b := range enc[:n] {
				h ^= uint32(b)
				h *= hashPrime
			}
		}
		s.hash = h
	})
	return s.hash
}

// WriteTo writes the string's bytes to w.
func (s *String) WriteTo(w io.Writer) (int64, error) {
	if s.ByteLength() == 0 {
		return 0, nil
	}
	n, err := io.WriteString(w, s.data)
	return int64(n), err
}

// IsEqualTo reports whether s and other hold identical bytes.
func (s *String) IsEqualTo(other *String) bool {
	return AreEqual(s, other)
}

// IsCaseInsensitiveEqualTo reports whether s and other are equal ignoring case.
func (s *String) IsCaseInsensitiveEqualTo(other *String) bool {
	return AreCaseInsensitiveEqual(s, other)
}

// Compare returns zero if a and b hold identical bytes, a negative value if
// a sorts before b and a positive value otherwise. A nil String compares
// equal to the empty string.
func Compare(a, b *String) int {
	return strings.Compare(a.String(), b.String())
}

// CompareCaseInsensitive compares a and b by the upper-case form of each of
// their code points.
func CompareCaseInsensitive(a, b *String) int {
	as, bs := a.String(), b.String()
	for len(as) > 0 && len(bs) > 0 {
		ra, na := utf8.DecodeRuneInString(as)
		rb, nb := utf8.DecodeRuneInString(bs)
		as, bs = as[na:], bs[nb:]

		if ra == rb {
			continue
		}
		ua, ub := unicode.ToUpper(ra), unicode.ToUpper(rb)
		if ua != ub {
			if ua < ub {
				return -1
			}
			return 1
		}
	}

	switch {
	case len(as) == len(bs):
		return 0
	case len(as) == 0:
		return -1
	default:
		return 1
	}
}

// AreEqual reports whether a and b hold identical bytes.
func AreEqual(a, b *String) bool {
	if a == b {
		return true
	}
	return a.String() == b.String()
}

// AreCaseInsensitiveEqual reports whether a and b are equal ignoring case.
func AreCaseInsensitiveEqual(a, b *String) bool {
	if a == b {
		return true
	}
	if a.HashCode() != b.HashCode() {
		return false
	}
	return CompareCaseInsensitive(a, b) == 0
}
