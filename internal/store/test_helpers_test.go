package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/lsys/internal/ir"
)

// createTestStore creates a new store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a run with minimal required fields.
func createTestRun(id, system string, seq int64) ir.Run {
	return ir.Run{
		ID:            id,
		System:        system,
		SpecHash:      "test-hash",
		Seq:           seq,
		EngineVersion: ir.EngineVersion,
		IRVersion:     ir.IRVersion,
	}
}

func createTestGeneration(t *testing.T, runID string, index int, symbols ...string) ir.Generation {
	t.Helper()
	gen, err := ir.NewGeneration(runID, index, symbols)
	if err != nil {
		t.Fatalf("NewGeneration() failed: %v", err)
	}
	return gen
}
