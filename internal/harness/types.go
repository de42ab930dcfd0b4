package harness

import "github.com/roach88/lsys/internal/ir"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expectation and assertion held.
	Pass bool `json:"pass"`

	// RunID is the ID the derivation was recorded under.
	RunID string `json:"run_id"`

	// SpecHash identifies the system definition that was derived.
	SpecHash string `json:"spec_hash"`

	// Generations holds the recorded derivation, axiom first, as read back
	// from the store.
	Generations []ir.Generation `json:"generations"`

	// Errors contains one message per failed check. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:        true,
		Generations: []ir.Generation{},
		Errors:      []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Generation returns the recorded generation at index, if any.
func (r *Result) Generation(index int) (ir.Generation, bool) {
	for _, g := range r.Generations {
		if g.Index == index {
			return g, true
		}
	}
	return ir.Generation{}, false
}
