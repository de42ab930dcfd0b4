package compiler

import (
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/lsys/internal/ir"
)

// Validation error codes (E100-E199)
const (
	ErrAlphabetEmpty        = "E101" // alphabet must declare at least one symbol
	ErrAxiomEmpty           = "E102" // axiom must contain at least one symbol
	ErrForeignSymbol        = "E103" // production symbol outside the alphabet
	ErrDuplicatePredecessor = "E104" // two productions share a predecessor
	ErrUnknownAxiomSymbol   = "E105" // axiom symbol outside the alphabet (strict only)
	ErrUnknownDrawSymbol    = "E106" // draw rule for a symbol outside the alphabet, or declared twice
	ErrInvalidSymbolText    = "E107" // symbol is empty or not NFC-normalized
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a compiled system against the rules the engine enforces
// at construction, plus definition-level rules (non-empty alphabet and axiom,
// well-formed symbol text, draw table coverage).
// Returns all errors found (does not fail-fast).
func Validate(spec *ir.SystemSpec) []ValidationError {
	var errs []ValidationError

	alphabet := make(map[string]bool, len(spec.Alphabet))
	for i, s := range spec.Alphabet {
		errs = append(errs, validateSymbolText(s, fmt.Sprintf("alphabet[%d]", i))...)
		alphabet[s] = true
	}

	// E101
	if len(spec.Alphabet) == 0 {
		errs = append(errs, ValidationError{
			Field:   "alphabet",
			Message: "alphabet must declare at least one symbol",
			Code:    ErrAlphabetEmpty,
		})
	}

	// E102
	if len(spec.Axiom) == 0 {
		errs = append(errs, ValidationError{
			Field:   "axiom",
			Message: "axiom must contain at least one symbol",
			Code:    ErrAxiomEmpty,
		})
	}

	for i, s := range spec.Axiom {
		field := fmt.Sprintf("axiom[%d]", i)
		errs = append(errs, validateSymbolText(s, field)...)

		// E105: only an error when the engine would reject it
		if spec.Strict && !alphabet[s] {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("axiom symbol %q is not in the alphabet", s),
				Code:    ErrUnknownAxiomSymbol,
			})
		}
	}

	firstDecl := make(map[string]int)
	for i, p := range spec.Productions {
		// E104
		if first, dup := firstDecl[p.Predecessor]; dup {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("productions[%d].from", i),
				Message: fmt.Sprintf("predecessor %q already declared by productions[%d]", p.Predecessor, first),
				Code:    ErrDuplicatePredecessor,
			})
		} else {
			firstDecl[p.Predecessor] = i
		}

		// E103
		if !alphabet[p.Predecessor] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("productions[%d].from", i),
				Message: fmt.Sprintf("predecessor %q is not in the alphabet", p.Predecessor),
				Code:    ErrForeignSymbol,
			})
		}
		for j, s := range p.Successor {
			if !alphabet[s] {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("productions[%d].to[%d]", i, j),
					Message: fmt.Sprintf("successor symbol %q is not in the alphabet", s),
					Code:    ErrForeignSymbol,
				})
			}
		}
	}

	drawn := make(map[string]bool, len(spec.Draw))
	for i, d := range spec.Draw {
		field := fmt.Sprintf("draw[%d].symbol", i)
		switch {
		case !alphabet[d.Symbol]:
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("draw rule for %q, which is not in the alphabet", d.Symbol),
				Code:    ErrUnknownDrawSymbol,
			})
		case drawn[d.Symbol]:
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("duplicate draw rule for %q", d.Symbol),
				Code:    ErrUnknownDrawSymbol,
			})
		}
		drawn[d.Symbol] = true
	}

	return errs
}

// validateSymbolText rejects symbols that could not round-trip through
// canonical JSON unchanged.
func validateSymbolText(s, field string) []ValidationError {
	if s == "" {
		return []ValidationError{{
			Field:   field,
			Message: "symbol must be non-empty",
			Code:    ErrInvalidSymbolText,
		}}
	}
	if !norm.NFC.IsNormalString(s) {
		return []ValidationError{{
			Field:   field,
			Message: fmt.Sprintf("symbol %q is not NFC-normalized (want %q)", s, norm.NFC.String(s)),
			Code:    ErrInvalidSymbolText,
		}}
	}
	return nil
}
