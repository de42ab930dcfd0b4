package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/lsys/internal/ir"
)

// TraceSnapshot captures a scenario's recorded derivation.
// It is serialized with ir.MarshalCanonical for byte-stable comparison.
type TraceSnapshot struct {
	ScenarioName string
	System       string
	RunID        string
	SpecHash     string
	Generations  []ir.Generation
}

// toCanonicalMap converts the snapshot for ir.MarshalCanonical, which only
// handles maps, slices, and scalars.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	gens := make([]any, len(s.Generations))
	for i, g := range s.Generations {
		gens[i] = map[string]any{
			"index":   g.Index,
			"length":  g.Length,
			"hash":    g.Hash,
			"symbols": g.Symbols,
		}
	}
	return map[string]any{
		"scenario_name": s.ScenarioName,
		"system":        s.System,
		"run_id":        s.RunID,
		"spec_hash":     s.SpecHash,
		"generations":   gens,
	}
}

// Canonical returns the snapshot as canonical JSON.
func (s *TraceSnapshot) Canonical() ([]byte, error) {
	return ir.MarshalCanonical(s.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares its trace against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can also check Pass; returns an error if
// the scenario could not execute. A trace mismatch fails t via goldie.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against the scenario's golden file.
func AssertGolden(t *testing.T, scenario *Scenario, result *Result) error {
	t.Helper()

	snapshot := TraceSnapshot{
		ScenarioName: scenario.Name,
		System:       scenario.System,
		RunID:        result.RunID,
		SpecHash:     result.SpecHash,
		Generations:  result.Generations,
	}
	traceJSON, err := snapshot.Canonical()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, traceJSON)
	return nil
}
