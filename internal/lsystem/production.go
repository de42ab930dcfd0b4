package lsystem

import "slices"

// Production is an immutable rewrite rule: one predecessor symbol replaced by an
// ordered successor sequence.
//
// Two productions with the same predecessor are the same rule for rule-set
// purposes, whatever their successors. Engine construction rejects such pairs.
type Production[S comparable] struct {
	predecessor S
	successor   []S
}

// NewProduction creates a production. The successor is copied.
// An empty successor is allowed and erases the predecessor on every step.
func NewProduction[S comparable](predecessor S, successor ...S) Production[S] {
	return Production[S]{
		predecessor: predecessor,
		successor:   slices.Clone(successor),
	}
}

// identity returns the production s -> s.
func identity[S comparable](s S) Production[S] {
	return Production[S]{predecessor: s, successor: []S{s}}
}

// Predecessor returns the symbol this production replaces.
func (p Production[S]) Predecessor() S {
	return p.predecessor
}

// Successor returns a copy of the replacement sequence.
func (p Production[S]) Successor() []S {
	return slices.Clone(p.successor)
}

// IsIdentity reports whether the production maps its predecessor to itself.
func (p Production[S]) IsIdentity() bool {
	return len(p.successor) == 1 && p.successor[0] == p.predecessor
}

// IsValid reports whether the predecessor and every successor symbol are members
// of alphabet. One membership test per symbol; no side effects.
func IsValid[S comparable](p Production[S], alphabet Alphabet[S]) bool {
	_, _, ok := firstForeign(p, alphabet)
	return !ok
}

// firstForeign returns the first symbol of p (predecessor first) that is not in
// alphabet, its successor position (-1 for the predecessor), and whether one was found.
func firstForeign[S comparable](p Production[S], alphabet Alphabet[S]) (S, int, bool) {
	if !alphabet.Contains(p.predecessor) {
		return p.predecessor, -1, true
	}
	for i, s := range p.successor {
		if !alphabet.Contains(s) {
			return s, i, true
		}
	}
	var zero S
	return zero, 0, false
}
