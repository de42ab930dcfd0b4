package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/lsys/internal/ir"
)

// ReadRun returns the run with the given ID.
// Returns an error wrapping ErrNotFound if no such run exists.
func (s *Store) ReadRun(ctx context.Context, id string) (ir.Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, system, spec_hash, seq, engine_version, ir_version
		FROM runs
		WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.Run{}, fmt.Errorf("read run %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return ir.Run{}, fmt.Errorf("read run %q: %w", id, err)
	}
	return run, nil
}

// ReadGenerations returns every stored generation of a run ordered by index.
// Returns an empty slice (not nil) if none exist.
func (s *Store) ReadGenerations(ctx context.Context, runID string) ([]ir.Generation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, idx, symbols, length, hash
		FROM generations
		WHERE run_id = ?
		ORDER BY idx ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query generations: %w", err)
	}
	defer rows.Close()

	gens := []ir.Generation{}
	for rows.Next() {
		var (
			gen         ir.Generation
			symbolsJSON string
		)
		if err := rows.Scan(&gen.RunID, &gen.Index, &symbolsJSON, &gen.Length, &gen.Hash); err != nil {
			return nil, fmt.Errorf("scan generation: %w", err)
		}
		gen.Symbols, err = unmarshalSymbols(symbolsJSON)
		if err != nil {
			return nil, fmt.Errorf("generation %d of run %q: %w", gen.Index, runID, err)
		}
		gens = append(gens, gen)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate generations: %w", err)
	}
	return gens, nil
}

// ListRuns returns runs ordered by seq ASC, id ASC COLLATE BINARY.
// An empty system name lists runs of every system.
func (s *Store) ListRuns(ctx context.Context, system string) ([]ir.Run, error) {
	var q RunQuery
	if system != "" {
		q.Filter = Equals{Column: ColumnSystem, Value: system}
	}
	return s.FindRuns(ctx, q)
}

// MaxSeq returns the highest run seq in the store, or 0 when empty.
func (s *Store) MaxSeq(ctx context.Context) (int64, error) {
	var seq sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM runs`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("max seq: %w", err)
	}
	return seq.Int64, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (ir.Run, error) {
	var run ir.Run
	err := row.Scan(&run.ID, &run.System, &run.SpecHash, &run.Seq, &run.EngineVersion, &run.IRVersion)
	return run, err
}
