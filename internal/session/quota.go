package session

import (
	"errors"
	"fmt"
)

// Default derivation limits.
const (
	DefaultMaxGenerations = 12
	DefaultMaxSymbols     = 1_000_000
)

// Quota bounds a derivation.
//
// Generation counts the steps taken from the axiom; Symbols bounds the
// length of any single generation. A zero field means no limit.
type Quota struct {
	MaxGenerations int
	MaxSymbols     int
}

// DefaultQuota returns the default derivation limits.
func DefaultQuota() Quota {
	return Quota{
		MaxGenerations: DefaultMaxGenerations,
		MaxSymbols:     DefaultMaxSymbols,
	}
}

// check validates the step from generation index to index+1 whose output
// would have nextLen symbols.
func (q Quota) check(system string, index, nextLen int) error {
	if q.MaxGenerations > 0 && index+1 > q.MaxGenerations {
		return &QuotaExceededError{
			System: system,
			Kind:   QuotaGenerations,
			Value:  index + 1,
			Limit:  q.MaxGenerations,
		}
	}
	if q.MaxSymbols > 0 && nextLen > q.MaxSymbols {
		return &QuotaExceededError{
			System: system,
			Kind:   QuotaSymbols,
			Value:  nextLen,
			Limit:  q.MaxSymbols,
		}
	}
	return nil
}

// QuotaKind names the limit a derivation ran into.
type QuotaKind string

const (
	QuotaGenerations QuotaKind = "generations"
	QuotaSymbols     QuotaKind = "symbols"
)

// QuotaExceededError is returned when stepping would exceed a Quota.
// The engine is left at the last generation within the quota.
type QuotaExceededError struct {
	System string
	Kind   QuotaKind
	Value  int // What the next generation would have reached
	Limit  int
}

// Error implements the error interface.
func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("system %s exceeded %s quota: %d > %d limit",
		e.System, e.Kind, e.Value, e.Limit)
}

// IsQuotaExceeded returns true if err is or wraps a QuotaExceededError.
func IsQuotaExceeded(err error) bool {
	var qe *QuotaExceededError
	return errors.As(err, &qe)
}
