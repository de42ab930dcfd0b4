package store

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lsys/internal/ir"
)

func TestReadRun_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadRun(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReadGenerations_OrderedByIndex(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteRun(ctx, createTestRun("run-1", "algae", 1)))

	// Written out of order on purpose.
	want := []ir.Generation{
		createTestGeneration(t, "run-1", 0, "a"),
		createTestGeneration(t, "run-1", 1, "a", "b"),
		createTestGeneration(t, "run-1", 2, "a", "b", "a"),
	}
	for _, i := range []int{2, 0, 1} {
		_, err := s.WriteGeneration(ctx, want[i])
		require.NoError(t, err)
	}

	got, err := s.ReadGenerations(ctx, "run-1")
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReadGenerations() mismatch (-want +got):\n%s", diff)
	}
}

func TestReadGenerations_EmptyNotNil(t *testing.T) {
	s := createTestStore(t)

	got, err := s.ReadGenerations(context.Background(), "unknown")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestReadGenerations_PreservesUnicode(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteRun(ctx, createTestRun("run-1", "glyphs", 1)))
	gen := createTestGeneration(t, "run-1", 0, "<", "&", "\u00e9", "[")
	_, err := s.WriteGeneration(ctx, gen)
	require.NoError(t, err)

	got, err := s.ReadGenerations(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, gen.Symbols, got[0].Symbols)
	assert.Equal(t, ir.MustSequenceHash(got[0].Symbols), got[0].Hash)
}

func TestListRuns_DeterministicOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	// Same seq forces the id tiebreak; uppercase sorts first under BINARY.
	for _, run := range []ir.Run{
		createTestRun("run-b", "algae", 2),
		createTestRun("run-a", "algae", 2),
		createTestRun("Run-c", "algae", 2),
		createTestRun("run-z", "algae", 1),
		createTestRun("run-k", "koch", 3),
	} {
		require.NoError(t, s.WriteRun(ctx, run))
	}

	algae, err := s.ListRuns(ctx, "algae")
	require.NoError(t, err)
	var ids []string
	for _, r := range algae {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"run-z", "Run-c", "run-a", "run-b"}, ids)

	all, err := s.ListRuns(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 5)
	assert.Equal(t, "run-k", all[4].ID)

	none, err := s.ListRuns(ctx, "dragon")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestMaxSeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	seq, err := s.MaxSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), seq)

	require.NoError(t, s.WriteRun(ctx, createTestRun("run-1", "algae", 4)))
	require.NoError(t, s.WriteRun(ctx, createTestRun("run-2", "algae", 9)))

	seq, err = s.MaxSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(9), seq)
}

func TestUnmarshalSymbols_Invalid(t *testing.T) {
	_, err := unmarshalSymbols("{not json")
	assert.Error(t, err)
}
