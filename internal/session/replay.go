package session

import (
	"context"
	"fmt"

	"github.com/roach88/lsys/internal/ir"
	"github.com/roach88/lsys/internal/lsystem"
	"github.com/roach88/lsys/internal/store"
)

// Mismatch is one stored generation whose hash differs from re-derivation.
type Mismatch struct {
	Index       int    `json:"index"`
	StoredHash  string `json:"stored_hash"`
	DerivedHash string `json:"derived_hash"`
}

// ReplayReport is the outcome of re-deriving a stored run.
type ReplayReport struct {
	Run         ir.Run     `json:"run"`
	Generations int        `json:"generations"` // Stored generations compared
	Mismatches  []Mismatch `json:"mismatches"`
}

// Deterministic reports whether every stored generation was reproduced.
func (r *ReplayReport) Deterministic() bool {
	return len(r.Mismatches) == 0
}

// Replay re-derives run runID with eng and compares each stored
// generation's hash with the hash of the re-derived sequence.
//
// eng is reset first and left at the last compared generation. Stored
// generations need not be contiguous; the engine steps through any gaps.
// Whether eng was built from the same definition is the caller's concern:
// compare Report.Run.SpecHash with ir.SpecHash of the definition in use.
func Replay(ctx context.Context, st *store.Store, runID string, eng *lsystem.Engine[string]) (*ReplayReport, error) {
	run, err := st.ReadRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	gens, err := st.ReadGenerations(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("replay run %s: %w", runID, err)
	}

	report := &ReplayReport{
		Run:        run,
		Mismatches: []Mismatch{},
	}

	eng.Reset()
	current := eng.Current()
	at := 0
	for _, gen := range gens {
		for at < gen.Index {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			current = eng.Step()
			at++
		}

		derived, err := ir.SequenceHash(current)
		if err != nil {
			return nil, fmt.Errorf("replay run %s generation %d: %w", runID, gen.Index, err)
		}
		if derived != gen.Hash {
			report.Mismatches = append(report.Mismatches, Mismatch{
				Index:       gen.Index,
				StoredHash:  gen.Hash,
				DerivedHash: derived,
			})
		}
		report.Generations++
	}
	return report, nil
}
