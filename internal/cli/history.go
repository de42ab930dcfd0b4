package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/lsys/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	SpecHash string
	Since    int64
}

// RunSummary describes one stored run.
type RunSummary struct {
	ID            string `json:"id"`
	System        string `json:"system"`
	Seq           int64  `json:"seq"`
	SpecHash      string `json:"spec_hash"`
	EngineVersion string `json:"engine_version"`
	Generations   int    `json:"generations"`
	LastLength    int    `json:"last_length"`
}

// HistoryResult lists stored runs in recording order.
type HistoryResult struct {
	System string       `json:"system,omitempty"`
	Runs   []RunSummary `json:"runs"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [system]",
		Short: "List recorded derivation runs",
		Long: `List the runs recorded in a database, oldest first.

Without a system name every run is listed. --spec-hash keeps only runs
derived from one exact definition; --since keeps runs recorded at or after
a sequence number.

Examples:
  lsys history --db ./lsys.db
  lsys history algae --db ./lsys.db --format json
  lsys history --db ./lsys.db --spec-hash b14e5dda... --since 10`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			system := ""
			if len(args) == 1 {
				system = args[0]
			}
			return runHistory(cmd.Context(), opts, system, opts.formatter(cmd))
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.SpecHash, "spec-hash", "", "only runs of this definition")
	cmd.Flags().Int64Var(&opts.Since, "since", 0, "only runs with seq >= since")

	return cmd
}

func runHistory(ctx context.Context, opts *HistoryOptions, system string, formatter *OutputFormatter) error {
	st, err := openExistingStore(opts.Database)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error())
	}
	defer st.Close()

	runs, err := st.FindRuns(ctx, historyQuery(system, opts))
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error())
	}

	result := HistoryResult{System: system, Runs: make([]RunSummary, 0, len(runs))}
	for _, run := range runs {
		gens, err := st.ReadGenerations(ctx, run.ID)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error())
		}
		summary := RunSummary{
			ID:            run.ID,
			System:        run.System,
			Seq:           run.Seq,
			SpecHash:      run.SpecHash,
			EngineVersion: run.EngineVersion,
			Generations:   len(gens),
		}
		if len(gens) > 0 {
			summary.LastLength = gens[len(gens)-1].Length
		}
		result.Runs = append(result.Runs, summary)
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}

	w := formatter.Writer
	if len(result.Runs) == 0 {
		fmt.Fprintln(w, "No runs found in database.")
		return nil
	}

	fmt.Fprintf(w, "%d run(s)\n\n", len(result.Runs))
	for _, r := range result.Runs {
		fmt.Fprintf(w, "%4d  %s  %s  %d generation(s), last %d symbol(s)\n",
			r.Seq, r.ID, r.System, r.Generations, r.LastLength)
		if formatter.Verbose {
			fmt.Fprintf(w, "      spec %s engine %s\n", r.SpecHash, r.EngineVersion)
		}
	}
	return nil
}

// historyQuery builds the run filter for the given flags.
func historyQuery(system string, opts *HistoryOptions) store.RunQuery {
	var preds []store.Predicate
	if system != "" {
		preds = append(preds, store.Equals{Column: store.ColumnSystem, Value: system})
	}
	if opts.SpecHash != "" {
		preds = append(preds, store.Equals{Column: store.ColumnSpecHash, Value: opts.SpecHash})
	}
	if opts.Since > 0 {
		preds = append(preds, store.AtLeast{Column: store.ColumnSeq, Value: opts.Since})
	}
	if len(preds) == 0 {
		return store.RunQuery{}
	}
	return store.RunQuery{Filter: store.And{Predicates: preds}}
}

// openExistingStore opens a database that must already exist, so a typo
// in --db does not silently create an empty one.
func openExistingStore(path string) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("database not found: %s", path)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return st, nil
}
