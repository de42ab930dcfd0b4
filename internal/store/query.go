package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/lsys/internal/ir"
)

// Predicate is a filter over the runs table.
//
// This is a sealed interface: only types in this package implement it,
// so compilePredicate can switch over every case.
type Predicate interface {
	predicateNode()
}

// Equals matches runs whose column equals Value.
type Equals struct {
	Column RunColumn
	Value  any // string or int64
}

func (Equals) predicateNode() {}

// AtLeast matches runs whose column is >= Value.
type AtLeast struct {
	Column RunColumn
	Value  int64
}

func (AtLeast) predicateNode() {}

// And matches runs satisfying every predicate. An empty And matches all.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// RunColumn names a filterable column of the runs table.
type RunColumn string

const (
	ColumnID            RunColumn = "id"
	ColumnSystem        RunColumn = "system"
	ColumnSpecHash      RunColumn = "spec_hash"
	ColumnSeq           RunColumn = "seq"
	ColumnEngineVersion RunColumn = "engine_version"
)

var runColumns = map[RunColumn]bool{
	ColumnID:            true,
	ColumnSystem:        true,
	ColumnSpecHash:      true,
	ColumnSeq:           true,
	ColumnEngineVersion: true,
}

// RunQuery selects runs. A nil Filter selects every run.
type RunQuery struct {
	Filter Predicate
}

// compileRunQuery converts q to parameterized SQL.
//
// Every query is ordered by seq, then id with binary collation, so results
// are deterministic. Column names come from a fixed set and values are
// always bound as parameters.
func compileRunQuery(q RunQuery) (string, []any, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT id, system, spec_hash, seq, engine_version, ir_version FROM runs`)

	var params []any
	if q.Filter != nil {
		where, p, err := compilePredicate(q.Filter)
		if err != nil {
			return "", nil, fmt.Errorf("compile filter: %w", err)
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
		params = p
	}

	sb.WriteString(" ORDER BY seq ASC, id COLLATE BINARY ASC")
	return sb.String(), params, nil
}

func compilePredicate(p Predicate) (string, []any, error) {
	switch pred := p.(type) {
	case Equals:
		if err := checkColumn(pred.Column); err != nil {
			return "", nil, err
		}
		switch pred.Value.(type) {
		case string, int64:
		default:
			return "", nil, fmt.Errorf("unsupported value type %T for %s", pred.Value, pred.Column)
		}
		return string(pred.Column) + " = ?", []any{pred.Value}, nil

	case AtLeast:
		if err := checkColumn(pred.Column); err != nil {
			return "", nil, err
		}
		return string(pred.Column) + " >= ?", []any{pred.Value}, nil

	case And:
		if len(pred.Predicates) == 0 {
			return "1 = 1", nil, nil
		}
		parts := make([]string, 0, len(pred.Predicates))
		var params []any
		for _, sub := range pred.Predicates {
			sql, p, err := compilePredicate(sub)
			if err != nil {
				return "", nil, err
			}
			parts = append(parts, sql)
			params = append(params, p...)
		}
		return "(" + strings.Join(parts, " AND ") + ")", params, nil

	case nil:
		return "1 = 1", nil, nil

	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func checkColumn(c RunColumn) error {
	if !runColumns[c] {
		return fmt.Errorf("unknown run column %q", c)
	}
	return nil
}

// FindRuns returns the runs matching q, ordered by seq ASC, id ASC
// COLLATE BINARY.
func (s *Store) FindRuns(ctx context.Context, q RunQuery) ([]ir.Run, error) {
	query, args, err := compileRunQuery(q)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []ir.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}
