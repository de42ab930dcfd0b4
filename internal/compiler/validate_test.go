package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lsys/internal/ir"
)

func validSpec() *ir.SystemSpec {
	return &ir.SystemSpec{
		Name:     "algae",
		Alphabet: []string{"a", "b"},
		Axiom:    []string{"a"},
		Productions: []ir.ProductionSpec{
			{Predecessor: "a", Successor: []string{"a", "b"}},
			{Predecessor: "b", Successor: []string{"a"}},
		},
		Draw: []ir.DrawRule{{Symbol: "a", Length: 1}},
	}
}

func codes(errs []ValidationError) []string {
	var out []string
	for _, e := range errs {
		out = append(out, e.Code)
	}
	return out
}

func TestValidate_Valid(t *testing.T) {
	assert.Empty(t, Validate(validSpec()))
}

func TestValidate_Codes(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ir.SystemSpec)
		code   string
		field  string
	}{
		{
			name:   "empty alphabet",
			mutate: func(s *ir.SystemSpec) { s.Alphabet = nil; s.Productions = nil; s.Draw = nil },
			code:   ErrAlphabetEmpty,
			field:  "alphabet",
		},
		{
			name:   "empty axiom",
			mutate: func(s *ir.SystemSpec) { s.Axiom = []string{} },
			code:   ErrAxiomEmpty,
			field:  "axiom",
		},
		{
			name: "foreign successor symbol",
			mutate: func(s *ir.SystemSpec) {
				s.Productions[1].Successor = []string{"a", "c"}
			},
			code:  ErrForeignSymbol,
			field: "productions[1].to[1]",
		},
		{
			name: "foreign predecessor",
			mutate: func(s *ir.SystemSpec) {
				s.Productions[0].Predecessor = "n"
			},
			code:  ErrForeignSymbol,
			field: "productions[0].from",
		},
		{
			name: "duplicate predecessor",
			mutate: func(s *ir.SystemSpec) {
				s.Productions = append(s.Productions, ir.ProductionSpec{Predecessor: "a", Successor: []string{"b"}})
			},
			code:  ErrDuplicatePredecessor,
			field: "productions[2].from",
		},
		{
			name: "strict unknown axiom symbol",
			mutate: func(s *ir.SystemSpec) {
				s.Strict = true
				s.Axiom = []string{"a", "x"}
			},
			code:  ErrUnknownAxiomSymbol,
			field: "axiom[1]",
		},
		{
			name: "draw rule for unknown symbol",
			mutate: func(s *ir.SystemSpec) {
				s.Draw = append(s.Draw, ir.DrawRule{Symbol: "F"})
			},
			code:  ErrUnknownDrawSymbol,
			field: "draw[1].symbol",
		},
		{
			name: "duplicate draw rule",
			mutate: func(s *ir.SystemSpec) {
				s.Draw = append(s.Draw, ir.DrawRule{Symbol: "a", Turn: 90})
			},
			code:  ErrUnknownDrawSymbol,
			field: "draw[1].symbol",
		},
		{
			name: "empty symbol text",
			mutate: func(s *ir.SystemSpec) {
				s.Alphabet = append(s.Alphabet, "")
			},
			code:  ErrInvalidSymbolText,
			field: "alphabet[2]",
		},
		{
			name: "non-NFC symbol text",
			mutate: func(s *ir.SystemSpec) {
				s.Alphabet = append(s.Alphabet, "e\u0301")
			},
			code:  ErrInvalidSymbolText,
			field: "alphabet[2]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := validSpec()
			tt.mutate(spec)

			errs := Validate(spec)
			require.Len(t, errs, 1, "got %v", errs)
			assert.Equal(t, tt.code, errs[0].Code)
			assert.Equal(t, tt.field, errs[0].Field)
		})
	}
}

func TestValidate_UnknownAxiomSymbolAllowedWithoutStrict(t *testing.T) {
	spec := validSpec()
	spec.Axiom = []string{"a", "x"}
	assert.Empty(t, Validate(spec))
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	spec := &ir.SystemSpec{
		Alphabet: []string{"a"},
		Axiom:    []string{},
		Productions: []ir.ProductionSpec{
			{Predecessor: "a", Successor: []string{"z"}},
			{Predecessor: "a", Successor: []string{"a"}},
		},
	}

	assert.Equal(t, []string{ErrAxiomEmpty, ErrForeignSymbol, ErrDuplicatePredecessor}, codes(Validate(spec)))
}

func TestValidationError_Format(t *testing.T) {
	err := ValidationError{Field: "axiom", Message: "axiom must contain at least one symbol", Code: ErrAxiomEmpty}
	assert.Equal(t, "[E102] axiom: axiom must contain at least one symbol", err.Error())

	err.Line = 7
	assert.Equal(t, "[E102] line 7: axiom: axiom must contain at least one symbol", err.Error())
}
