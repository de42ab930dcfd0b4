package store

import (
	"context"
	"fmt"

	"github.com/roach88/lsys/internal/ir"
)

// WriteRun inserts a run record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency; other constraint
// violations (e.g. NOT NULL) still return errors.
func (s *Store) WriteRun(ctx context.Context, run ir.Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, system, spec_hash, seq, engine_version, ir_version)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.System,
		run.SpecHash,
		run.Seq,
		run.EngineVersion,
		run.IRVersion,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// WriteGeneration inserts one generation of a run.
// Returns inserted=false when (run_id, idx) was already recorded; the
// existing row is left untouched.
//
// The referenced run must exist (foreign key constraint).
func (s *Store) WriteGeneration(ctx context.Context, gen ir.Generation) (inserted bool, err error) {
	symbolsJSON, err := marshalSymbols(gen.Symbols)
	if err != nil {
		return false, fmt.Errorf("write generation: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO generations
		(run_id, idx, symbols, length, hash)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(run_id, idx) DO NOTHING
	`,
		gen.RunID,
		gen.Index,
		symbolsJSON,
		gen.Length,
		gen.Hash,
	)
	if err != nil {
		return false, fmt.Errorf("write generation: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write generation: rows affected: %w", err)
	}
	return n > 0, nil
}
