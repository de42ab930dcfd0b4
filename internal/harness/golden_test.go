package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_Scenarios(t *testing.T) {
	for _, name := range []string{"algae_growth", "binary_tree"} {
		t.Run(name, func(t *testing.T) {
			result, err := RunWithGolden(t, loadScenario(t, name))
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestTraceSnapshot_Deterministic(t *testing.T) {
	s := loadScenario(t, "algae_growth")

	r1, err := Run(s)
	require.NoError(t, err)
	r2, err := Run(s)
	require.NoError(t, err)

	snap := func(r *Result) []byte {
		b, err := (&TraceSnapshot{
			ScenarioName: s.Name,
			System:       s.System,
			RunID:        r.RunID,
			SpecHash:     r.SpecHash,
			Generations:  r.Generations,
		}).Canonical()
		require.NoError(t, err)
		return b
	}
	assert.Equal(t, string(snap(r1)), string(snap(r2)))
}
