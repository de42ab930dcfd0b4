package compiler

import (
	"fmt"

	"github.com/roach88/lsys/internal/ir"
	"github.com/roach88/lsys/internal/lsystem"
)

// Build constructs an engine from a compiled system.
//
// spec.Strict adds lsystem.WithStrictAxiom. Construction failures are the
// engine's typed errors wrapped with the system name; use lsystem.CodeOf or
// the lsystem.Is* helpers to classify them.
func Build(spec *ir.SystemSpec, opts ...lsystem.Option) (*lsystem.Engine[string], error) {
	productions := make([]lsystem.Production[string], 0, len(spec.Productions))
	for _, p := range spec.Productions {
		productions = append(productions, lsystem.NewProduction(p.Predecessor, p.Successor...))
	}

	if spec.Strict {
		opts = append(opts[:len(opts):len(opts)], lsystem.WithStrictAxiom())
	}

	eng, err := lsystem.New(spec.Axiom, productions, lsystem.NewAlphabet(spec.Alphabet...), opts...)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", spec.Name, err)
	}
	return eng, nil
}
