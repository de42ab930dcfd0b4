package harness

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/lsys/internal/compiler"
	"github.com/roach88/lsys/internal/session"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// evaluateAssertions runs every assertion and returns failure messages.
// An empty slice means all assertions passed.
func (h *Harness) evaluateAssertions(ctx context.Context, result *Result) []string {
	var errs []string
	for i, a := range h.scenario.Assertions {
		var err error
		switch a.Type {
		case AssertLength:
			err = assertLength(result, a)
		case AssertContains:
			err = assertContains(result, a)
		case AssertCount:
			err = assertCount(result, a)
		case AssertResetReproduces:
			err = h.assertResetReproduces(ctx)
		case AssertDeterministic:
			err = h.assertDeterministic(ctx, result)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d (%s): %v", i, a.Type, err))
		}
	}
	return errs
}

func assertLength(result *Result, a Assertion) error {
	gen, ok := result.Generation(a.Generation)
	if !ok {
		return fmt.Errorf("generation %d not recorded", a.Generation)
	}
	if gen.Length != a.Length {
		return &AssertionError{
			Type:     AssertLength,
			Expected: fmt.Sprintf("generation %d has %d symbols", a.Generation, a.Length),
			Actual:   fmt.Sprintf("%d symbols", gen.Length),
		}
	}
	return nil
}

func assertContains(result *Result, a Assertion) error {
	gen, ok := result.Generation(a.Generation)
	if !ok {
		return fmt.Errorf("generation %d not recorded", a.Generation)
	}
	if !slices.Contains(gen.Symbols, a.Symbol) {
		return &AssertionError{
			Type:     AssertContains,
			Expected: fmt.Sprintf("generation %d contains %q", a.Generation, a.Symbol),
			Actual:   formatSymbols(gen.Symbols),
		}
	}
	return nil
}

func assertCount(result *Result, a Assertion) error {
	gen, ok := result.Generation(a.Generation)
	if !ok {
		return fmt.Errorf("generation %d not recorded", a.Generation)
	}
	n := 0
	for _, s := range gen.Symbols {
		if s == a.Symbol {
			n++
		}
	}
	if n != a.Count {
		return &AssertionError{
			Type:     AssertCount,
			Expected: fmt.Sprintf("generation %d contains %q %d times", a.Generation, a.Symbol, a.Count),
			Actual:   fmt.Sprintf("%d times", n),
		}
	}
	return nil
}

// assertResetReproduces resets the session and derives again. The second
// history must equal the first.
func (h *Harness) assertResetReproduces(ctx context.Context) error {
	before := h.session.History()

	if err := h.session.Reset(ctx); err != nil {
		return err
	}
	if _, err := h.session.Run(ctx, len(before)-1); err != nil {
		return err
	}
	after := h.session.History()

	for i := range before {
		if i >= len(after) || !slices.Equal(before[i], after[i]) {
			got := "missing"
			if i < len(after) {
				got = formatSymbols(after[i])
			}
			return &AssertionError{
				Type:     AssertResetReproduces,
				Expected: fmt.Sprintf("generation %d = %s after reset", i, formatSymbols(before[i])),
				Actual:   got,
			}
		}
	}
	return nil
}

// assertDeterministic replays the recorded run on a freshly built engine.
func (h *Harness) assertDeterministic(ctx context.Context, result *Result) error {
	eng, err := compiler.Build(h.spec)
	if err != nil {
		return err
	}
	report, err := session.Replay(ctx, h.store, result.RunID, eng)
	if err != nil {
		return err
	}
	if report.Run.SpecHash != result.SpecHash {
		return &AssertionError{
			Type:     AssertDeterministic,
			Expected: "spec hash " + result.SpecHash,
			Actual:   "spec hash " + report.Run.SpecHash,
		}
	}
	if !report.Deterministic() {
		m := report.Mismatches[0]
		return &AssertionError{
			Type:     AssertDeterministic,
			Expected: fmt.Sprintf("generation %d hash %s", m.Index, m.StoredHash),
			Actual:   fmt.Sprintf("%s (%d mismatched generations)", m.DerivedHash, len(report.Mismatches)),
		}
	}
	return nil
}
