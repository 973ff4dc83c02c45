package text

import (
	"bytes"
	"sync"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestCharacterCount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty", "", 0},
		{"ascii", "service", 7},
		{"two byte", "héllo", 5},
		{"three byte", "日本語", 3},
		{"four byte", "a😀b", 3},
		{"lone continuation bytes", "\x80\x80\x80", 3},
		{"truncated sequence", "ab\xe6\x97", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.input)
			assert.Equal(t, tt.want, s.CharacterCount())
			assert.Equal(t, tt.want, s.CharacterCount(), "cached value must be stable")
			assert.Equal(t, len(tt.input), s.ByteLength())
		})
	}
}

func TestCompare(t *testing.T) {
	assert.Equal(t, 0, Compare(New("abc"), New("abc")))
	assert.True(t, Compare(New("abc"), New("abd")) < 0)
	assert.True(t, Compare(New("b"), New("abc")) > 0)
	assert.True(t, Compare(New("ABC"), New("abc")) < 0, "binary comparison is case-sensitive")
	assert.Equal(t, 0, Compare(nil, Empty()))
}

func TestCompareCaseInsensitive(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"Service", "SERVICE", 0},
		{"straße", "STRAßE", 0},
		{"émile", "ÉMILE", 0},
		{"abc", "ABD", -1},
		{"abcd", "ABC", 1},
		{"ab", "ABC", -1},
		{"", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			got := CompareCaseInsensitive(New(tt.a), New(tt.b))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, -tt.want, CompareCaseInsensitive(New(tt.b), New(tt.a)), "comparison must be antisymmetric")
		})
	}
}

func TestCaseInsensitiveEqualityImpliesEqualHash(t *testing.T) {
	pairs := [][2]string{
		{"Port", "port"},
		{"PORT", "pOrT"},
		{"ñandú", "ÑANDÚ"},
		{"Σίσυφος", "ΣΊΣΥΦΟΣ"},
		{"\xff", "\xfe"},
	}

	for _, pair := range pairs {
		a, b := New(pair[0]), New(pair[1])
		assert.True(t, AreCaseInsensitiveEqual(a, a), "reflexive")
		if AreCaseInsensitiveEqual(a, b) {
			assert.True(t, AreCaseInsensitiveEqual(b, a), "symmetric")
			assert.Equal(t, a.HashCode(), b.HashCode(), "%q and %q", pair[0], pair[1])
		}
	}

	assert.True(t, New("Port").IsCaseInsensitiveEqualTo(New("PORT")))
	assert.False(t, New("Port").IsEqualTo(New("PORT")))
	assert.False(t, AreCaseInsensitiveEqual(New("port"), New("ports")))
}

func TestEmpty(t *testing.T) {
	assert.True(t, Empty() == Empty(), "empty string is a singleton")
	assert.True(t, FromBytes(nil) == Empty())
	assert.Equal(t, "", Empty().String())
	assert.Equal(t, 0, Empty().CharacterCount())
	assert.True(t, AreEqual(Empty(), New("")))
}

func TestFromBytesCopies(t *testing.T) {
	data := []byte("name")
	s := FromBytes(data)
	data[0] = 'g'
	assert.Equal(t, "name", s.String())
}

func TestWriteTo(t *testing.T) {
	var buf bytes.Buffer
	n, err := New("hello").WriteTo(&buf)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.Equal(t, "hello", buf.String())
}

func TestConcurrentHash(t *testing.T) {
	s := New("Concurrent Access")
	want := New("CONCURRENT ACCESS").HashCode()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, s.HashCode())
			assert.Equal(t, 17, s.CharacterCount())
		}()
	}
	wg.Wait()
}
