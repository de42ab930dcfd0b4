package compiler

import (
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lsys/internal/ir"
)

func compileSystem(t *testing.T, src, path string) (*ir.SystemSpec, error) {
	t.Helper()
	v := cuecontext.New().CompileString(src)
	require.NoError(t, v.Err())
	return CompileSystem(v.LookupPath(cue.ParsePath(path)))
}

func TestCompileSystemBasic(t *testing.T) {
	spec, err := compileSystem(t, `
		lsystem: algae: {
			alphabet: ["a", "b"]
			axiom: ["a"]
			productions: [
				{from: "a", to: ["a", "b"]},
				{from: "b", to: ["a"]},
			]
		}
	`, "lsystem.algae")
	require.NoError(t, err)

	assert.Equal(t, "algae", spec.Name)
	assert.Equal(t, []string{"a", "b"}, spec.Alphabet)
	assert.Equal(t, []string{"a"}, spec.Axiom)
	assert.Equal(t, []ir.ProductionSpec{
		{Predecessor: "a", Successor: []string{"a", "b"}},
		{Predecessor: "b", Successor: []string{"a"}},
	}, spec.Productions)
	assert.False(t, spec.Strict)
	assert.Empty(t, spec.Draw)
}

func TestCompileSystemStringShorthand(t *testing.T) {
	spec, err := compileSystem(t, `
		lsystem: tree: {
			alphabet: ["0", "1", "[", "]"]
			axiom: "0"
			productions: [
				{from: "1", to: "11"},
				{from: "0", to: "1[0]0"},
			]
		}
	`, "lsystem.tree")
	require.NoError(t, err)

	assert.Equal(t, []string{"0"}, spec.Axiom)
	assert.Equal(t, []string{"1", "1"}, spec.Productions[0].Successor)
	assert.Equal(t, []string{"1", "[", "0", "]", "0"}, spec.Productions[1].Successor)
}

func TestCompileSystemErasingProduction(t *testing.T) {
	spec, err := compileSystem(t, `
		lsystem: eraser: {
			alphabet: ["a", "b"]
			axiom: "ab"
			productions: [{from: "b"}]
		}
	`, "lsystem.eraser")
	require.NoError(t, err)

	require.Len(t, spec.Productions, 1)
	assert.NotNil(t, spec.Productions[0].Successor)
	assert.Empty(t, spec.Productions[0].Successor)
}

func TestCompileSystemDrawAndStrict(t *testing.T) {
	spec, err := compileSystem(t, `
		lsystem: koch: {
			alphabet: ["F", "+", "-"]
			axiom: "F"
			strict: true
			productions: [{from: "F", to: "F+F-F-F+F"}]
			draw: [
				{symbol: "F", length: 10},
				{symbol: "+", turn: -90},
				{symbol: "-", turn: 90.5},
				{symbol: "F", push: true, pop: true, end: true},
			]
		}
	`, "lsystem.koch")
	require.NoError(t, err)

	assert.True(t, spec.Strict)
	require.Len(t, spec.Draw, 4)
	assert.Equal(t, ir.DrawRule{Symbol: "F", Length: 10}, spec.Draw[0])
	assert.Equal(t, ir.DrawRule{Symbol: "+", Turn: -90}, spec.Draw[1])
	assert.Equal(t, ir.DrawRule{Symbol: "-", Turn: 90.5}, spec.Draw[2])
	assert.Equal(t, ir.DrawRule{Symbol: "F", Push: true, Pop: true, EndBranch: true}, spec.Draw[3])
}

func TestCompileSystemMissingAlphabet(t *testing.T) {
	_, err := compileSystem(t, `
		lsystem: bad: {
			axiom: "a"
		}
	`, "lsystem.bad")

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "alphabet", ce.Field)
	assert.Contains(t, err.Error(), "required")
}

func TestCompileSystemMissingAxiom(t *testing.T) {
	_, err := compileSystem(t, `
		lsystem: bad: {
			alphabet: ["a"]
		}
	`, "lsystem.bad")

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "axiom", ce.Field)
}

func TestCompileSystemMissingFrom(t *testing.T) {
	_, err := compileSystem(t, `
		lsystem: bad: {
			alphabet: ["a"]
			axiom: "a"
			productions: [{to: "aa"}]
		}
	`, "lsystem.bad")

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "productions[0].from", ce.Field)
}

func TestCompileSystemWrongType(t *testing.T) {
	_, err := compileSystem(t, `
		lsystem: bad: {
			alphabet: [1, 2]
			axiom: "a"
		}
	`, "lsystem.bad")
	require.Error(t, err)
}

func TestCompileErrorFormat(t *testing.T) {
	err := &CompileError{Field: "axiom", Message: "axiom is required"}
	assert.Equal(t, "axiom: axiom is required", err.Error())
}
