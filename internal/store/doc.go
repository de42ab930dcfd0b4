// Package store provides SQLite-backed durable storage for lsys derivations.
//
// The store is an append-only log with:
//   - Runs: one derivation of a system from its axiom, tagged with the
//     system's SpecHash and the engine/IR versions that produced it
//   - Generations: the symbol sequence of each generation of a run
//
// # Critical Patterns
//
// Idempotent Writes:
//   - Runs keyed by id, generations by (run_id, idx)
//   - Rewriting an existing record is a silent no-op (ON CONFLICT DO NOTHING)
//
// Logical Ordering:
//   - Runs are ordered by seq INTEGER (logical clock), NEVER timestamps
//   - Generations are ordered by idx
//   - Every list query ends with a deterministic tiebreak (id COLLATE BINARY)
//
// # Connections
//
// Pragmas travel in the go-sqlite3 DSN (WAL, synchronous=NORMAL, a 5s busy
// timeout, foreign keys on) so every pooled connection gets them. The schema
// version lives in user_version; Open refuses files from a newer schema.
//
// Generation hashes are computed by ir.SequenceHash; replay compares them to
// detect non-deterministic derivation.
package store
