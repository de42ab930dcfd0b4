package testutil

import (
	"fmt"
	"sync"
)

// DefaultRunID is used when a scenario does not name its run.
const DefaultRunID = "test-run-default"

// FixedRunIDGenerator hands out predictable run IDs derived from one base:
// the base itself first, then base-2, base-3, and so on. A session that is
// reset mid-scenario therefore records its second run under a stable name.
//
// Safe for concurrent use.
type FixedRunIDGenerator struct {
	mu    sync.Mutex
	base  string
	calls int
}

// NewFixedRunIDGenerator creates a generator for base.
// An empty base means DefaultRunID.
func NewFixedRunIDGenerator(base string) *FixedRunIDGenerator {
	if base == "" {
		base = DefaultRunID
	}
	return &FixedRunIDGenerator{base: base}
}

// Generate returns the next ID.
func (g *FixedRunIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls++
	if g.calls == 1 {
		return g.base
	}
	return fmt.Sprintf("%s-%d", g.base, g.calls)
}
