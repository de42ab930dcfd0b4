package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/lsys/internal/ir"
	"github.com/roach88/lsys/internal/session"
	"github.com/roach88/lsys/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
}

// ReplayResult holds the outcome of a determinism check.
type ReplayResult struct {
	RunID         string             `json:"run_id"`
	System        string             `json:"system"`
	Generations   int                `json:"generations"`
	SpecChanged   bool               `json:"spec_changed"`
	Deterministic bool               `json:"deterministic"`
	Mismatches    []session.Mismatch `json:"mismatches"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <specs-dir> <run-id>",
		Short: "Re-derive a recorded run and verify determinism",
		Long: `Re-derive a recorded run from the current definition of its system and
compare every stored generation hash with the re-derived one.

Exit codes:
  0 - Every stored generation was reproduced
  1 - Determinism verification failed (differences detected)
  2 - Command error (database or run not found, etc.)

Examples:
  lsys replay ./specs 0192f1c4-... --db ./lsys.db
  lsys replay ./specs algae-run --db ./lsys.db --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context(), opts, args[0], args[1], opts.formatter(cmd))
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runReplay(ctx context.Context, opts *ReplayOptions, specsDir, runID string, formatter *OutputFormatter) error {
	st, err := openExistingStore(opts.Database)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error())
	}
	defer st.Close()

	run, err := st.ReadRun(ctx, runID)
	if errors.Is(err, store.ErrNotFound) {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("run %q not found", runID))
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error())
	}

	spec, eng, err := prepareSystem(specsDir, run.System, formatter)
	if err != nil {
		return err
	}

	report, err := session.Replay(ctx, st, runID, eng)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error())
	}

	result := ReplayResult{
		RunID:         runID,
		System:        run.System,
		Generations:   report.Generations,
		SpecChanged:   ir.MustSpecHash(*spec) != run.SpecHash,
		Deterministic: report.Deterministic(),
		Mismatches:    report.Mismatches,
	}
	if result.SpecChanged {
		formatter.VerboseLog("Definition of %s changed since run %s was recorded", run.System, runID)
	}

	if formatter.JSON() {
		return outputReplayJSON(formatter, result)
	}
	return outputReplayText(formatter, result)
}

func outputReplayJSON(formatter *OutputFormatter, result ReplayResult) error {
	response := CLIResponse{Status: "ok", Data: result}
	if !result.Deterministic {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    ErrCodeDeterminism,
			Message: "determinism verification failed",
		}
	}
	if err := formatter.Encode(response); err != nil {
		return err
	}
	if !result.Deterministic {
		return NewExitError(ExitFailure, "determinism verification failed")
	}
	return nil
}

func outputReplayText(formatter *OutputFormatter, result ReplayResult) error {
	w := formatter.Writer

	fmt.Fprintf(w, "Replay: run %s (%s), %d generation(s)\n", result.RunID, result.System, result.Generations)
	if result.SpecChanged {
		fmt.Fprintln(w, "  Warning: definition changed since the run was recorded")
	}
	for _, m := range result.Mismatches {
		fmt.Fprintf(w, "  ✗ generation %d: stored %s, derived %s\n", m.Index, shortHash(m.StoredHash), shortHash(m.DerivedHash))
	}

	if result.Deterministic {
		fmt.Fprintln(w, "✓ Run verified deterministic")
		return nil
	}

	fmt.Fprintln(w, "✗ Determinism verification failed")
	return NewExitError(ExitFailure, "determinism verification failed")
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
