// Package lsystem implements a deterministic, context-free L-system rewriting engine.
//
// An Engine owns an alphabet, a rule set keyed by predecessor, an axiom, and the
// current generation. Each call to Step derives the next generation by replacing
// every symbol of the current generation at the same time.
//
// ARCHITECTURE:
//
// Parallel Rewriting:
// Step scans a snapshot of the pre-step generation exactly once, left to right.
// Output already appended is never re-scanned within the same call. Given
// A -> AB, B -> A and the generation "ABA", the next generation is "ABAAB",
// never the order-dependent "AAAAA" that in-place substitution would produce.
//
// Identity Fallback:
// Alphabet symbols without an explicit production receive an implicit identity
// production at construction. A symbol that matches no rule at all (for example
// an axiom symbol outside the alphabet) is copied unchanged. Step is therefore
// total and has no error return.
//
// Construction Checks (in order):
//  1. Every production references only alphabet symbols (InvalidProductionError)
//  2. No two productions share a predecessor (DuplicatePredecessorError)
//  3. Optionally, with WithStrictAxiom, every axiom symbol is in the alphabet
//     (UnknownSymbolError)
//
// CONCURRENCY:
//
// An Engine is not safe for concurrent use. Step and Reset mutate the current
// generation. Use one Engine per goroutine, or serialize access externally
// (internal/session wraps an Engine behind a mutex).
//
// The package knows nothing about rendering. Generations are plain []S slices;
// consumers such as internal/turtle interpret them.
package lsystem
