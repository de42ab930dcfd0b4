// Package ir provides the canonical intermediate representation for lsys.
//
// A SystemSpec is the compiled, language-neutral form of an L-system
// definition. Runs and Generations are the records persisted by the store.
//
// This package contains type definitions, canonical JSON, and content hashes
// only. It imports nothing internal, so every other package can depend on it.
//
// Key design constraints:
//   - Hashed content never contains floats (draw rules are excluded from SpecHash)
//   - All JSON tags use snake_case
//   - Runs are ordered by a logical sequence number, never by wall-clock time
package ir
