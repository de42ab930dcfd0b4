package harness

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/roach88/lsys/internal/compiler"
	"github.com/roach88/lsys/internal/ir"
	"github.com/roach88/lsys/internal/logging"
	"github.com/roach88/lsys/internal/session"
	"github.com/roach88/lsys/internal/store"
	"github.com/roach88/lsys/internal/testutil"
)

// Harness holds the per-scenario execution state.
type Harness struct {
	scenario *Scenario
	spec     *ir.SystemSpec
	store    *store.Store
	session  *session.Session
	clock    *testutil.DeterministicClock
	logger   *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation, with a
// fixed run ID and deterministic clock.
//
// Execution flow:
//  1. Compile, validate, and build the named system
//  2. Derive the requested generations through a store-backed session
//  3. Read the run back from the store
//  4. Check expectations, then assertions
//
// Failed checks are reported in Result.Errors. An error is returned only
// when the scenario cannot be executed at all.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, logging.Discard())
}

// RunWithLogger is Run with session diagnostics sent to logger.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	ctx := context.Background()

	spec, err := compiler.LoadFile(scenario.Spec, scenario.System)
	if err != nil {
		return nil, fmt.Errorf("failed to load system: %w", err)
	}
	if verrs := compiler.Validate(spec); len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			msgs[i] = ve.Error()
		}
		return nil, fmt.Errorf("system %s is invalid:\n  %s", spec.Name, strings.Join(msgs, "\n  "))
	}
	eng, err := compiler.Build(spec)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		scenario: scenario,
		spec:     spec,
		store:    st,
		clock:    testutil.NewDeterministicClock(),
		logger:   logger,
	}
	h.session, err = session.New(*spec, eng,
		session.WithStore(st),
		session.WithRunIDGenerator(testutil.NewFixedRunIDGenerator(scenario.RunID)),
		session.WithClock(h.clock),
		session.WithQuota(scenario.Generations, 0),
		session.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	result.RunID = h.session.RunID()
	result.SpecHash, err = ir.SpecHash(*spec)
	if err != nil {
		return nil, err
	}

	if err := h.session.Save(ctx); err != nil {
		return nil, fmt.Errorf("failed to record axiom: %w", err)
	}
	if _, err := h.session.Run(ctx, scenario.Generations); err != nil {
		return nil, fmt.Errorf("failed to derive: %w", err)
	}

	result.Generations, err = st.ReadGenerations(ctx, result.RunID)
	if err != nil {
		return nil, fmt.Errorf("failed to read run: %w", err)
	}

	for _, e := range scenario.Expect {
		if err := checkExpectation(result, e); err != nil {
			result.AddError(err.Error())
		}
	}

	for _, msg := range h.evaluateAssertions(ctx, result) {
		result.AddError(msg)
	}
	return result, nil
}

func checkExpectation(result *Result, e Expectation) error {
	gen, ok := result.Generation(e.Generation)
	if !ok {
		return &AssertionError{
			Type:     "expect",
			Expected: fmt.Sprintf("generation %d to be recorded", e.Generation),
			Actual:   "missing",
		}
	}
	if !slices.Equal(gen.Symbols, []string(e.Symbols)) {
		return &AssertionError{
			Type:     "expect",
			Expected: fmt.Sprintf("generation %d = %s", e.Generation, formatSymbols(e.Symbols)),
			Actual:   formatSymbols(gen.Symbols),
		}
	}
	return nil
}

// formatSymbols joins single-rune symbols directly and longer ones with spaces.
func formatSymbols(symbols []string) string {
	for _, s := range symbols {
		if len([]rune(s)) != 1 {
			return fmt.Sprintf("%q", symbols)
		}
	}
	return strings.Join(symbols, "")
}
