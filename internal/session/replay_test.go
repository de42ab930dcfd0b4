package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lsys/internal/ir"
	"github.com/roach88/lsys/internal/store"
	"github.com/roach88/lsys/internal/testutil"
)

func TestReplay_Deterministic(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	s := newTestSession(t, WithStore(st))

	_, err := s.Run(ctx, 6)
	require.NoError(t, err)

	report, err := Replay(ctx, st, "run", buildEngine(t, algaeSpec()))
	require.NoError(t, err)

	assert.True(t, report.Deterministic())
	assert.Equal(t, 7, report.Generations)
	assert.Equal(t, "run", report.Run.ID)
	assert.Equal(t, ir.MustSpecHash(algaeSpec()), report.Run.SpecHash)
}

func TestReplay_DetectsDivergence(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	s := newTestSession(t, WithStore(st))

	_, err := s.Run(ctx, 3)
	require.NoError(t, err)

	changed := algaeSpec()
	changed.Productions[1].Successor = []string{"b"}

	report, err := Replay(ctx, st, "run", buildEngine(t, changed))
	require.NoError(t, err)

	assert.False(t, report.Deterministic())
	require.Len(t, report.Mismatches, 2, "b->b first diverges at generation 2")
	assert.Equal(t, 2, report.Mismatches[0].Index)
	assert.Equal(t, ir.MustSequenceHash(testutil.Chars("abb")), report.Mismatches[0].DerivedHash)
	assert.Equal(t, ir.MustSequenceHash(testutil.Chars("aba")), report.Mismatches[0].StoredHash)
	assert.Equal(t, 3, report.Mismatches[1].Index)
}

func TestReplay_SkipsGaps(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	require.NoError(t, st.WriteRun(ctx, ir.Run{
		ID: "sparse", System: "algae", SpecHash: ir.MustSpecHash(algaeSpec()), Seq: 1,
		EngineVersion: ir.EngineVersion, IRVersion: ir.IRVersion,
	}))
	for idx, syms := range map[int][]string{0: {"a"}, 4: {"a", "b", "a", "a", "b", "a", "b", "a"}} {
		gen, err := ir.NewGeneration("sparse", idx, syms)
		require.NoError(t, err)
		_, err = st.WriteGeneration(ctx, gen)
		require.NoError(t, err)
	}

	report, err := Replay(ctx, st, "sparse", buildEngine(t, algaeSpec()))
	require.NoError(t, err)
	assert.True(t, report.Deterministic())
	assert.Equal(t, 2, report.Generations)
}

func TestReplay_UnknownRun(t *testing.T) {
	st := openStore(t)

	_, err := Replay(context.Background(), st, "missing", buildEngine(t, algaeSpec()))
	assert.ErrorIs(t, err, store.ErrNotFound)
}
