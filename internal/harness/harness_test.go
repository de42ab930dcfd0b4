package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lsys/internal/ir"
	"github.com/roach88/lsys/internal/testutil"
)

func loadScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	s, err := LoadScenario("testdata/scenarios/" + name + ".yaml")
	require.NoError(t, err)
	return s
}

func TestRun_AlgaeGrowth(t *testing.T) {
	result, err := Run(loadScenario(t, "algae_growth"))
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
	assert.Equal(t, "algae-run", result.RunID)
	require.Len(t, result.Generations, 5)

	lengths := make([]int, len(result.Generations))
	for i, g := range result.Generations {
		lengths[i] = g.Length
		assert.Equal(t, ir.MustSequenceHash(g.Symbols), g.Hash)
	}
	assert.Equal(t, []int{1, 2, 3, 5, 8}, lengths)
}

func TestRun_DefaultRunID(t *testing.T) {
	result, err := Run(loadScenario(t, "binary_tree"))
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "test-run-default", result.RunID)
}

func TestRun_FailedChecksReported(t *testing.T) {
	s := loadScenario(t, "algae_growth")
	s.Expect = []Expectation{{Generation: 2, Symbols: Symbols{"a", "a", "b"}}}
	s.Assertions = []Assertion{
		{Type: AssertLength, Generation: 3, Length: 4},
		{Type: AssertContains, Generation: 0, Symbol: "b"},
		{Type: AssertCount, Generation: 4, Symbol: "a", Count: 1},
	}

	result, err := Run(s)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 4)
	assert.Contains(t, result.Errors[0], "Expected: generation 2 = aab")
	assert.Contains(t, result.Errors[0], "Actual: aba")
	assert.Contains(t, result.Errors[1], "Actual: 5 symbols")
	assert.Contains(t, result.Errors[2], `contains "b"`)
	assert.Contains(t, result.Errors[3], "Actual: 5 times")
}

func TestRun_ZeroGenerations(t *testing.T) {
	s := loadScenario(t, "algae_growth")
	s.Generations = 0
	s.Expect = []Expectation{{Generation: 0, Symbols: Symbols{"a"}}}
	s.Assertions = []Assertion{{Type: AssertDeterministic}, {Type: AssertResetReproduces}}

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Len(t, result.Generations, 1)
}

func TestRun_UnknownSystem(t *testing.T) {
	s := loadScenario(t, "algae_growth")
	s.System = "dragon"

	_, err := Run(s)
	assert.ErrorContains(t, err, `system "dragon" not found`)
}

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{Type: AssertLength, Expected: "5", Actual: "3"}
	assert.Equal(t, "Assertion failed: length\n  Expected: 5\n  Actual: 3", err.Error())
}

func TestFormatSymbols(t *testing.T) {
	assert.Equal(t, "ab[", formatSymbols([]string{"a", "b", "["}))
	assert.Equal(t, `["F1" "+"]`, formatSymbols(testutil.Symbols("F1 +")))
}
