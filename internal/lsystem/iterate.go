package lsystem

import "iter"

// Derive calls Step n times and returns every generation produced, in order.
// The result has length n (empty when n <= 0).
func Derive[S comparable](e *Engine[S], n int) [][]S {
	if n <= 0 {
		return [][]S{}
	}
	out := make([][]S, 0, n)
	for range n {
		out = append(out, e.Step())
	}
	return out
}

// Last calls Step n times and returns only the final generation.
// With n <= 0 the engine is not stepped and the current generation is returned.
func Last[S comparable](e *Engine[S], n int) []S {
	if n <= 0 {
		return e.Current()
	}
	var gen []S
	for range n {
		gen = e.Step()
	}
	return gen
}

// Generations returns a lazy sequence of (generation number, symbols) pairs
// starting from the engine's current state. Each element is derived only when
// the consumer asks for it; the sequence never ends on its own, so consumers
// must stop ranging.
//
// The numbering is relative: the first yielded pair is 1 regardless of how
// many steps were taken before. Restarting from the axiom requires Reset.
func Generations[S comparable](e *Engine[S]) iter.Seq2[int, []S] {
	return func(yield func(int, []S) bool) {
		for i := 1; ; i++ {
			if !yield(i, e.Step()) {
				return
			}
		}
	}
}

// Symbols returns a lazy sequence over a generation's symbols.
func Symbols[S any](gen []S) iter.Seq[S] {
	return func(yield func(S) bool) {
		for _, s := range gen {
			if !yield(s) {
				return
			}
		}
	}
}
