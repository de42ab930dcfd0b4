package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/lsys/internal/ir"
)

// CompileSystem parses a CUE value into a SystemSpec.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the system struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`lsystem: algae: { ... }`)
//	spec, err := CompileSystem(v.LookupPath(cue.ParsePath("lsystem.algae")))
//
// CompileSystem checks shape only. Semantic checks (duplicate predecessors,
// symbols outside the alphabet) are the job of Validate.
func CompileSystem(v cue.Value) (*ir.SystemSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	spec := &ir.SystemSpec{}

	labels := v.Path().Selectors()
	if len(labels) > 0 {
		spec.Name = labels[len(labels)-1].String()
	}

	alphabetVal := v.LookupPath(cue.ParsePath("alphabet"))
	if !alphabetVal.Exists() {
		return nil, &CompileError{
			Field:   "alphabet",
			Message: "alphabet is required",
			Pos:     v.Pos(),
		}
	}
	alphabet, err := parseStringList(alphabetVal)
	if err != nil {
		return nil, err
	}
	spec.Alphabet = alphabet

	axiomVal := v.LookupPath(cue.ParsePath("axiom"))
	if !axiomVal.Exists() {
		return nil, &CompileError{
			Field:   "axiom",
			Message: "axiom is required",
			Pos:     v.Pos(),
		}
	}
	spec.Axiom, err = parseSymbols(axiomVal)
	if err != nil {
		return nil, err
	}

	spec.Productions, err = parseProductions(v)
	if err != nil {
		return nil, err
	}

	spec.Draw, err = parseDrawRules(v)
	if err != nil {
		return nil, err
	}

	if strictVal := v.LookupPath(cue.ParsePath("strict")); strictVal.Exists() {
		strict, err := strictVal.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		spec.Strict = strict
	}

	return spec, nil
}

// parseSymbols accepts either a list of symbol strings or a single string,
// which is split into one symbol per rune.
func parseSymbols(v cue.Value) ([]string, error) {
	if s, err := v.String(); err == nil {
		symbols := make([]string, 0, len(s))
		for _, r := range s {
			symbols = append(symbols, string(r))
		}
		return symbols, nil
	}
	return parseStringList(v)
}

func parseStringList(v cue.Value) ([]string, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	out := []string{}
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, s)
	}
	return out, nil
}

// parseProductions extracts productions in declaration order.
// Order matters: duplicate detection reports indices.
func parseProductions(v cue.Value) ([]ir.ProductionSpec, error) {
	prodVal := v.LookupPath(cue.ParsePath("productions"))
	if !prodVal.Exists() {
		return []ir.ProductionSpec{}, nil
	}

	iter, err := prodVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	productions := []ir.ProductionSpec{}
	for iter.Next() {
		pv := iter.Value()

		fromVal := pv.LookupPath(cue.ParsePath("from"))
		if !fromVal.Exists() {
			return nil, &CompileError{
				Field:   fmt.Sprintf("productions[%d].from", len(productions)),
				Message: "predecessor is required",
				Pos:     pv.Pos(),
			}
		}
		from, err := fromVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}

		// A missing "to" is an erasing production.
		to := []string{}
		if toVal := pv.LookupPath(cue.ParsePath("to")); toVal.Exists() {
			to, err = parseSymbols(toVal)
			if err != nil {
				return nil, err
			}
		}

		productions = append(productions, ir.ProductionSpec{
			Predecessor: from,
			Successor:   to,
		})
	}
	return productions, nil
}

// parseDrawRules extracts the optional turtle table.
func parseDrawRules(v cue.Value) ([]ir.DrawRule, error) {
	drawVal := v.LookupPath(cue.ParsePath("draw"))
	if !drawVal.Exists() {
		return nil, nil
	}

	iter, err := drawVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var rules []ir.DrawRule
	for iter.Next() {
		dv := iter.Value()
		var rule ir.DrawRule

		symVal := dv.LookupPath(cue.ParsePath("symbol"))
		if !symVal.Exists() {
			return nil, &CompileError{
				Field:   fmt.Sprintf("draw[%d].symbol", len(rules)),
				Message: "symbol is required",
				Pos:     dv.Pos(),
			}
		}
		if rule.Symbol, err = symVal.String(); err != nil {
			return nil, formatCUEError(err)
		}

		if rule.Length, err = optionalFloat(dv, "length"); err != nil {
			return nil, err
		}
		if rule.Turn, err = optionalFloat(dv, "turn"); err != nil {
			return nil, err
		}
		if rule.Push, err = optionalBool(dv, "push"); err != nil {
			return nil, err
		}
		if rule.Pop, err = optionalBool(dv, "pop"); err != nil {
			return nil, err
		}
		if rule.EndBranch, err = optionalBool(dv, "end"); err != nil {
			return nil, err
		}

		rules = append(rules, rule)
	}
	return rules, nil
}

func optionalFloat(v cue.Value, field string) (float64, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return 0, nil
	}
	f, err := fv.Float64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	return f, nil
}

func optionalBool(v cue.Value, field string) (bool, error) {
	bv := v.LookupPath(cue.ParsePath(field))
	if !bv.Exists() {
		return false, nil
	}
	b, err := bv.Bool()
	if err != nil {
		return false, formatCUEError(err)
	}
	return b, nil
}

// CompileError reports a structural problem in a CUE system definition.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
