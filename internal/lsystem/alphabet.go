package lsystem

import (
	"cmp"
	"slices"
)

// Alphabet is the finite set of symbols a system may reference.
type Alphabet[S comparable] map[S]struct{}

// NewAlphabet returns an alphabet holding the given symbols. Duplicates collapse.
func NewAlphabet[S comparable](symbols ...S) Alphabet[S] {
	a := make(Alphabet[S], len(symbols))
	for _, s := range symbols {
		a[s] = struct{}{}
	}
	return a
}

// Contains reports whether s is a member of the alphabet.
func (a Alphabet[S]) Contains(s S) bool {
	_, ok := a[s]
	return ok
}

// Add inserts s into the alphabet.
func (a Alphabet[S]) Add(s S) {
	a[s] = struct{}{}
}

// Len returns the number of distinct symbols.
func (a Alphabet[S]) Len() int {
	return len(a)
}

// Clone returns an independent copy of the alphabet.
func (a Alphabet[S]) Clone() Alphabet[S] {
	c := make(Alphabet[S], len(a))
	for s := range a {
		c[s] = struct{}{}
	}
	return c
}

// SortedSymbols returns the alphabet's symbols in ascending order.
// Map iteration order is random; anything user-visible goes through here.
func SortedSymbols[S cmp.Ordered](a Alphabet[S]) []S {
	out := make([]S, 0, len(a))
	for s := range a {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}
