package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/lsys/internal/compiler"
	"github.com/roach88/lsys/internal/ir"
	"github.com/roach88/lsys/internal/logging"
	"github.com/roach88/lsys/internal/lsystem"
	"github.com/roach88/lsys/internal/session"
	"github.com/roach88/lsys/internal/store"
)

// DeriveOptions holds flags for the derive command.
type DeriveOptions struct {
	*RootOptions
	Generations int
	Database    string
	All         bool
}

// GenerationView is one generation in command output.
type GenerationView struct {
	Index   int      `json:"index"`
	Length  int      `json:"length"`
	Hash    string   `json:"hash"`
	Symbols []string `json:"symbols"`
}

// DeriveResult holds the outcome of a derivation.
type DeriveResult struct {
	System      string           `json:"system"`
	RunID       string           `json:"run_id"`
	SpecHash    string           `json:"spec_hash"`
	Persisted   bool             `json:"persisted"`
	Generations []GenerationView `json:"generations"`
}

// NewDeriveCommand creates the derive command.
func NewDeriveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DeriveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "derive <specs-dir> <system>",
		Short: "Derive generations of a system",
		Long: `Derive N generations of a system from its axiom and print the last one,
or every generation with --all.

With --db (or store.path in the config file) the run and each generation
are recorded for later replay. Derivation stops with an error when it would
exceed derive.max_generations or derive.max_symbols.

Examples:
  lsys derive ./specs algae -n 5
  lsys derive ./specs koch -n 3 --all --format json
  lsys derive ./specs tree -n 6 --db ./lsys.db`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDerive(cmd.Context(), opts, args[0], args[1], opts.formatter(cmd))
		},
	}

	cmd.Flags().IntVarP(&opts.Generations, "generations", "n", 1, "number of generations to derive")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (records the run)")
	cmd.Flags().BoolVar(&opts.All, "all", false, "print every generation, not just the last")

	return cmd
}

func runDerive(ctx context.Context, opts *DeriveOptions, specsDir, system string, formatter *OutputFormatter) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Generations < 0 {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("generations must be non-negative, got %d", opts.Generations))
	}

	spec, eng, err := prepareSystem(specsDir, system, formatter)
	if err != nil {
		return err
	}

	cfg := opts.settings()
	sessOpts := []session.Option{
		session.WithQuota(cfg.Derive.MaxGenerations, cfg.Derive.MaxSymbols),
		session.WithLogger(logging.New("session")),
	}

	dbPath := opts.Database
	if dbPath == "" {
		dbPath = cfg.Store.Path
	}
	if dbPath != "" {
		st, err := store.Open(dbPath)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("failed to open database: %v", err))
		}
		defer st.Close()
		sessOpts = append(sessOpts, session.WithStore(st))
	}

	sess, err := session.New(*spec, eng, sessOpts...)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error())
	}
	if err := sess.Save(ctx); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error())
	}

	formatter.VerboseLog("Deriving %d generation(s) of %s (run %s)", opts.Generations, spec.Name, sess.RunID())

	if _, err := sess.Run(ctx, opts.Generations); err != nil {
		if session.IsQuotaExceeded(err) {
			return formatter.Fail(ExitCommandError, ErrCodeQuota, err.Error())
		}
		return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error())
	}

	history := sess.History()
	first := len(history) - 1
	if opts.All {
		first = 0
	}

	result := DeriveResult{
		System:      spec.Name,
		RunID:       sess.RunID(),
		SpecHash:    ir.MustSpecHash(*spec),
		Persisted:   dbPath != "",
		Generations: make([]GenerationView, 0, len(history)-first),
	}
	for i := first; i < len(history); i++ {
		gen, err := ir.NewGeneration(result.RunID, i, history[i])
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error())
		}
		result.Generations = append(result.Generations, GenerationView{
			Index:   gen.Index,
			Length:  gen.Length,
			Hash:    gen.Hash,
			Symbols: gen.Symbols,
		})
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}

	w := formatter.Writer
	for _, g := range result.Generations {
		if opts.All {
			fmt.Fprintf(w, "%d (%d): %s\n", g.Index, g.Length, symbolsText(g.Symbols))
		} else {
			fmt.Fprintln(w, symbolsText(g.Symbols))
		}
	}
	if result.Persisted {
		formatter.VerboseLog("Recorded run %s in %s", result.RunID, dbPath)
	}
	return nil
}

// prepareSystem loads the named system from specsDir, validates it, and
// builds its engine. Failures are reported through formatter.
func prepareSystem(specsDir, system string, formatter *OutputFormatter) (*ir.SystemSpec, *lsystem.Engine[string], error) {
	loadResult, loadErrors := LoadSystems(specsDir, LoadModeCollectAll)
	if loadResult == nil {
		return nil, nil, outputLoadFailure(formatter, loadErrors[0])
	}

	spec, ok := loadResult.System(system)
	if !ok {
		// The system may be the one that failed to compile.
		for _, err := range loadErrors {
			if strings.Contains(err.Error(), compiler.SystemsPath+"."+system+":") {
				return nil, nil, outputLoadFailure(formatter, err)
			}
		}
		return nil, nil, formatter.Fail(ExitCommandError, ErrCodeNotFound,
			fmt.Sprintf("system %q not found in %s (have %s)", system, specsDir, strings.Join(loadResult.Names(), ", ")))
	}

	if verrs := compiler.Validate(spec); len(verrs) > 0 {
		for _, ve := range verrs[1:] {
			formatter.VerboseLog("%s", ve.Error())
		}
		return nil, nil, formatter.Fail(ExitFailure, verrs[0].Code,
			fmt.Sprintf("system %s is invalid: %s: %s", spec.Name, verrs[0].Field, verrs[0].Message))
	}

	eng, err := compiler.Build(spec)
	if err != nil {
		return nil, nil, formatter.Fail(ExitFailure, ErrCodeGeneric, err.Error())
	}
	return spec, eng, nil
}
