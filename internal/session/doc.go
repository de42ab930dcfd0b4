// Package session drives an L-system engine on behalf of interactive and
// batch callers.
//
// A Session owns one engine and keeps the history of every generation
// derived since the axiom, so callers can step back and forward without
// re-deriving. Growth is bounded by a quota on generation count and
// sequence length, checked before the engine is stepped.
//
// When a store is configured, each derivation is recorded as a run:
// the run record is written with the next logical seq on the first
// persisted generation, and every generation is appended with its
// content hash. Replay re-derives a stored run from a fresh engine and
// compares hashes generation by generation.
//
// Unlike the engine it wraps, a Session is safe for concurrent use.
package session
