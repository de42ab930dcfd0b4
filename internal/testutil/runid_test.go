package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/lsys/internal/session"
)

var _ session.RunIDGenerator = (*FixedRunIDGenerator)(nil)

func TestFixedRunIDGenerator_Sequence(t *testing.T) {
	g := NewFixedRunIDGenerator("algae-run")

	assert.Equal(t, "algae-run", g.Generate())
	assert.Equal(t, "algae-run-2", g.Generate())
	assert.Equal(t, "algae-run-3", g.Generate())
}

func TestFixedRunIDGenerator_Default(t *testing.T) {
	assert.Equal(t, DefaultRunID, NewFixedRunIDGenerator("").Generate())
}

func TestFixedRunIDGenerator_Reproducible(t *testing.T) {
	a, b := NewFixedRunIDGenerator("x"), NewFixedRunIDGenerator("x")
	for range 5 {
		assert.Equal(t, a.Generate(), b.Generate())
	}
}
