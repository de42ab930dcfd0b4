package lsystem

import (
	"log/slog"
	"slices"

	"github.com/roach88/lsys/internal/logging"
)

// Engine derives successive generations of an L-system.
//
// INVARIANTS:
//   - rules holds exactly one production per predecessor
//   - every alphabet symbol has a rule (explicit or implicit identity)
//   - axiom is never mutated after construction
//   - state is replaced wholesale by Step, never edited in place
//
// Engine is not safe for concurrent use.
type Engine[S comparable] struct {
	alphabet Alphabet[S]
	rules    map[S]Production[S]
	explicit int // number of productions supplied by the caller
	axiom    []S
	state    []S
}

// Option configures engine construction.
type Option func(*options)

type options struct {
	strictAxiom bool
	logger      *slog.Logger
}

// WithStrictAxiom rejects axiom symbols outside the alphabet at construction.
//
// Off by default: without it, such symbols are carried through every
// generation unchanged.
func WithStrictAxiom() Option {
	return func(o *options) {
		o.strictAxiom = true
	}
}

// WithLogger sets the logger used for construction diagnostics.
// Default: logs are discarded.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// New validates the configuration and returns an engine whose current
// generation is a copy of axiom.
//
// Checks run in this order and stop at the first failure:
//  1. each production is valid against alphabet (*InvalidProductionError)
//  2. predecessors are unique (*DuplicatePredecessorError)
//  3. with WithStrictAxiom, axiom symbols are in alphabet (*UnknownSymbolError)
//
// Alphabet symbols without a production get an implicit identity production.
// The axiom, productions, and alphabet are copied; later changes by the caller
// do not affect the engine.
func New[S comparable](axiom []S, productions []Production[S], alphabet Alphabet[S], opts ...Option) (*Engine[S], error) {
	o := options{logger: logging.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	for i, p := range productions {
		if sym, pos, bad := firstForeign(p, alphabet); bad {
			return nil, &InvalidProductionError{
				Predecessor: p.predecessor,
				Symbol:      sym,
				Position:    pos,
				Index:       i,
			}
		}
	}

	rules := make(map[S]Production[S], alphabet.Len())
	seen := make(map[S]int, len(productions))
	for i, p := range productions {
		if first, dup := seen[p.predecessor]; dup {
			return nil, &DuplicatePredecessorError{
				Predecessor: p.predecessor,
				First:       first,
				Second:      i,
			}
		}
		seen[p.predecessor] = i
		rules[p.predecessor] = NewProduction(p.predecessor, p.successor...)
	}

	if o.strictAxiom {
		for i, s := range axiom {
			if !alphabet.Contains(s) {
				return nil, &UnknownSymbolError{Symbol: s, Position: i}
			}
		}
	}

	implicit := 0
	for s := range alphabet {
		if _, ok := rules[s]; !ok {
			rules[s] = identity(s)
			implicit++
		}
	}

	o.logger.Debug("engine constructed",
		"alphabet", alphabet.Len(),
		"productions", len(productions),
		"implicit_identities", implicit,
		"axiom_length", len(axiom),
		"strict_axiom", o.strictAxiom,
	)

	return &Engine[S]{
		alphabet: alphabet.Clone(),
		rules:    rules,
		explicit: len(productions),
		axiom:    slices.Clone(axiom),
		state:    slices.Clone(axiom),
	}, nil
}

// Step derives the next generation, makes it current, and returns it.
//
// Every symbol of the pre-step generation is replaced exactly once by the
// successor of its production, or by itself when no production matches.
// The returned slice is owned by the caller.
//
// Runs in time linear in the output length. Output length can grow
// exponentially across generations; bounding iteration is the caller's job.
func (e *Engine[S]) Step() []S {
	next := make([]S, 0, len(e.state))
	for _, s := range e.state {
		if p, ok := e.rules[s]; ok {
			next = append(next, p.successor...)
			continue
		}
		next = append(next, s)
	}
	e.state = next
	return slices.Clone(next)
}

// NextLen returns the length the next Step would produce without deriving it.
func (e *Engine[S]) NextLen() int {
	n := 0
	for _, s := range e.state {
		if p, ok := e.rules[s]; ok {
			n += len(p.successor)
			continue
		}
		n++
	}
	return n
}

// Reset discards the derivation so the next Step starts again from the axiom.
// Idempotent.
func (e *Engine[S]) Reset() {
	e.state = slices.Clone(e.axiom)
}

// Current returns a copy of the current generation.
func (e *Engine[S]) Current() []S {
	return slices.Clone(e.state)
}

// Axiom returns a copy of the axiom.
func (e *Engine[S]) Axiom() []S {
	return slices.Clone(e.axiom)
}

// Alphabet returns a copy of the alphabet.
func (e *Engine[S]) Alphabet() Alphabet[S] {
	return e.alphabet.Clone()
}

// Rule returns the production for predecessor s, including implicit identities.
func (e *Engine[S]) Rule(s S) (Production[S], bool) {
	p, ok := e.rules[s]
	return p, ok
}

// ExplicitRules returns the number of productions supplied at construction.
func (e *Engine[S]) ExplicitRules() int {
	return e.explicit
}
