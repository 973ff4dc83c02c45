package parser

import "github.com/robinvdvleuten/mot/text"

// Interner implements string interning for word values.
//
// Declaration types repeat throughout a file (every "service", every
// "port"), so the lexer hands out one shared *text.String per distinct
// word instead of allocating a new one for every occurrence. Sharing also
// means the cached hash and character count are computed only once.
type Interner struct {
	pool map[string]*text.String
}

// NewInterner creates a new string interner with the given initial capacity.
func NewInterner(capacity int) *Interner {
	return &Interner{
		pool: make(map[string]*text.String, capacity),
	}
}

// InternBytes returns the canonical string for b. The map lookup does not
// allocate; a copy of b is only made the first time it is seen.
func (i *Interner) InternBytes(b []byte) *text.String {
	if interned, ok := i.pool[string(b)]; ok {
		return interned
	}
	interned := text.FromBytes(b)
	i.pool[interned.String()] = interned
	return interned
}

// Size returns the number of unique strings in the intern pool.
func (i *Interner) Size() int {
	return len(i.pool)
}
