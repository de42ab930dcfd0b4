package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/lsys/internal/ir"
)

// marshalSymbols converts a symbol sequence to canonical JSON TEXT.
func marshalSymbols(symbols []string) (string, error) {
	if symbols == nil {
		symbols = []string{}
	}
	data, err := ir.MarshalCanonical(symbols)
	if err != nil {
		return "", fmt.Errorf("marshal symbols: %w", err)
	}
	return string(data), nil
}

// unmarshalSymbols parses a stored JSON array back to a symbol sequence.
// Always returns a non-nil slice.
func unmarshalSymbols(data string) ([]string, error) {
	symbols := []string{}
	if data == "" || data == "[]" {
		return symbols, nil
	}
	if err := json.Unmarshal([]byte(data), &symbols); err != nil {
		return nil, fmt.Errorf("unmarshal symbols: %w", err)
	}
	return symbols, nil
}
