package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
)

// Domain prefixes for content hashes.
// Version suffix enables future algorithm migration.
const (
	DomainSpec     = "lsys/spec/v1"
	DomainSequence = "lsys/sequence/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// SpecHash computes the content hash of a system definition.
//
// Only fields that influence derivation are hashed: alphabet (sorted, as a
// set), axiom, productions (sorted by predecessor, since lookup is by key and
// declaration order cannot change the result), and the strict flag. The name
// and draw rules are excluded, so renaming a system or retuning its rendering
// keeps stored runs replayable.
func SpecHash(spec SystemSpec) (string, error) {
	alphabet := sortedUnique(spec.Alphabet)

	productions := make(map[string]any, len(spec.Productions))
	for _, p := range spec.Productions {
		if _, dup := productions[p.Predecessor]; dup {
			return "", fmt.Errorf("SpecHash: duplicate predecessor %q", p.Predecessor)
		}
		productions[p.Predecessor] = nonNil(p.Successor)
	}

	obj := map[string]any{
		"alphabet":    alphabet,
		"axiom":       nonNil(spec.Axiom),
		"productions": productions,
		"strict":      spec.Strict,
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("SpecHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSpec, canonical), nil
}

// SequenceHash computes the content hash of one generation.
func SequenceHash(symbols []string) (string, error) {
	canonical, err := MarshalCanonical(nonNil(symbols))
	if err != nil {
		return "", fmt.Errorf("SequenceHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSequence, canonical), nil
}

// MustSpecHash is like SpecHash but panics on error.
// Use only in tests or when the definition is known to be valid.
func MustSpecHash(spec SystemSpec) string {
	h, err := SpecHash(spec)
	if err != nil {
		panic(err)
	}
	return h
}

// MustSequenceHash is like SequenceHash but panics on error.
func MustSequenceHash(symbols []string) string {
	h, err := SequenceHash(symbols)
	if err != nil {
		panic(err)
	}
	return h
}

// NewGeneration builds a Generation record with its length and hash filled in.
func NewGeneration(runID string, index int, symbols []string) (Generation, error) {
	h, err := SequenceHash(symbols)
	if err != nil {
		return Generation{}, err
	}
	return Generation{
		RunID:   runID,
		Index:   index,
		Symbols: nonNil(symbols),
		Length:  len(symbols),
		Hash:    h,
	}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func sortedUnique(s []string) []string {
	seen := make(map[string]struct{}, len(s))
	out := make([]string, 0, len(s))
	for _, v := range s {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	slices.SortFunc(out, compareKeysUTF16)
	return out
}
