// Package testutil holds deterministic helpers shared by tests and the
// scenario harness.
package testutil

import "strings"

// Symbols splits a space-separated list into symbols: "F + F" is
// []string{"F", "+", "F"}. Runs of spaces count as one separator and an
// empty or blank string gives an empty, non-nil slice.
func Symbols(s string) []string {
	fields := strings.Fields(s)
	if fields == nil {
		return []string{}
	}
	return fields
}

// Chars splits s into one symbol per rune.
func Chars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
