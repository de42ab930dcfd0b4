package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileRunQuery(t *testing.T) {
	tests := []struct {
		name   string
		query  RunQuery
		sql    string
		params []any
	}{
		{
			name:  "no filter",
			query: RunQuery{},
			sql:   "SELECT id, system, spec_hash, seq, engine_version, ir_version FROM runs ORDER BY seq ASC, id COLLATE BINARY ASC",
		},
		{
			name:   "equals",
			query:  RunQuery{Filter: Equals{Column: ColumnSystem, Value: "algae"}},
			sql:    "SELECT id, system, spec_hash, seq, engine_version, ir_version FROM runs WHERE system = ? ORDER BY seq ASC, id COLLATE BINARY ASC",
			params: []any{"algae"},
		},
		{
			name: "and",
			query: RunQuery{Filter: And{Predicates: []Predicate{
				Equals{Column: ColumnSpecHash, Value: "abc"},
				AtLeast{Column: ColumnSeq, Value: 3},
			}}},
			sql:    "SELECT id, system, spec_hash, seq, engine_version, ir_version FROM runs WHERE (spec_hash = ? AND seq >= ?) ORDER BY seq ASC, id COLLATE BINARY ASC",
			params: []any{"abc", int64(3)},
		},
		{
			name:  "empty and",
			query: RunQuery{Filter: And{}},
			sql:   "SELECT id, system, spec_hash, seq, engine_version, ir_version FROM runs WHERE 1 = 1 ORDER BY seq ASC, id COLLATE BINARY ASC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, params, err := compileRunQuery(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.sql, sql)
			assert.Equal(t, tt.params, params)
		})
	}
}

func TestCompileRunQuery_Rejects(t *testing.T) {
	_, _, err := compileRunQuery(RunQuery{Filter: Equals{Column: "system; DROP TABLE runs", Value: "x"}})
	assert.ErrorContains(t, err, "unknown run column")

	_, _, err = compileRunQuery(RunQuery{Filter: Equals{Column: ColumnSeq, Value: 1.5}})
	assert.ErrorContains(t, err, "unsupported value type float64")

	_, _, err = compileRunQuery(RunQuery{Filter: And{Predicates: []Predicate{AtLeast{Column: "nope"}}}})
	assert.ErrorContains(t, err, "unknown run column")
}

func TestFindRuns(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, run := range []struct {
		id, system, hash string
		seq              int64
	}{
		{"r1", "algae", "h1", 1},
		{"r2", "koch", "h2", 2},
		{"r3", "algae", "h3", 3},
		{"r4", "algae", "h1", 4},
	} {
		r := createTestRun(run.id, run.system, run.seq)
		r.SpecHash = run.hash
		require.NoError(t, s.WriteRun(ctx, r))
	}

	ids := func(q RunQuery) []string {
		runs, err := s.FindRuns(ctx, q)
		require.NoError(t, err)
		out := []string{}
		for _, r := range runs {
			out = append(out, r.ID)
		}
		return out
	}

	assert.Equal(t, []string{"r1", "r2", "r3", "r4"}, ids(RunQuery{}))
	assert.Equal(t, []string{"r1", "r4"}, ids(RunQuery{Filter: Equals{Column: ColumnSpecHash, Value: "h1"}}))
	assert.Equal(t, []string{"r3", "r4"}, ids(RunQuery{Filter: And{Predicates: []Predicate{
		Equals{Column: ColumnSystem, Value: "algae"},
		AtLeast{Column: ColumnSeq, Value: 2},
	}}}))
	assert.Equal(t, []string{"r2"}, ids(RunQuery{Filter: Equals{Column: ColumnSeq, Value: int64(2)}}))
	assert.Equal(t, []string{}, ids(RunQuery{Filter: Equals{Column: ColumnSystem, Value: "dragon"}}))

	_, err := s.FindRuns(ctx, RunQuery{Filter: Equals{Column: "bogus", Value: "x"}})
	assert.Error(t, err)
}
