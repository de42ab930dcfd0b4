package cli

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/lsys/internal/logging"
	"github.com/roach88/lsys/internal/session"
	"github.com/roach88/lsys/internal/turtle"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Generations int
	Output      string
}

// RenderResult summarizes a written SVG file.
type RenderResult struct {
	System     string  `json:"system"`
	Generation int     `json:"generation"`
	Symbols    int     `json:"symbols"`
	Segments   int     `json:"segments"`
	Scale      float64 `json:"scale"`
	Output     string  `json:"output"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render <specs-dir> <system>",
		Short: "Draw a generation as SVG",
		Long: `Derive N generations of a system and interpret the last one with a turtle
using the system's draw rules. Line lengths shrink by render.scale_decay per
generation so successive generations stay a similar size.

Without -o the SVG is written to standard output.

Examples:
  lsys render ./specs tree -n 6 -o tree.svg
  lsys render ./specs koch -n 3 > koch.svg`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), opts, args[0], args[1], opts.formatter(cmd))
		},
	}

	cmd.Flags().IntVarP(&opts.Generations, "generations", "n", 4, "number of generations to derive")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output SVG file (default stdout)")

	return cmd
}

func runRender(ctx context.Context, opts *RenderOptions, specsDir, system string, formatter *OutputFormatter) error {
	if opts.Generations < 0 {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("generations must be non-negative, got %d", opts.Generations))
	}

	spec, eng, err := prepareSystem(specsDir, system, formatter)
	if err != nil {
		return err
	}
	if len(spec.Draw) == 0 {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("system %s has no draw rules", spec.Name))
	}

	cfg := opts.settings()
	sess, err := session.New(*spec, eng,
		session.WithQuota(cfg.Derive.MaxGenerations, cfg.Derive.MaxSymbols),
		session.WithLogger(logging.New("session")),
	)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error())
	}
	if _, err := sess.Run(ctx, opts.Generations); err != nil {
		if session.IsQuotaExceeded(err) {
			return formatter.Fail(ExitCommandError, ErrCodeQuota, err.Error())
		}
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error())
	}

	symbols := sess.Current()
	scale := math.Pow(cfg.Render.ScaleDecay, float64(opts.Generations))
	segs := turtle.Interpret(slices.Values(symbols), turtle.RulesFromSpec(spec.Draw), scale)
	formatter.VerboseLog("Generation %d of %s: %d symbol(s), %d segment(s), scale %g",
		opts.Generations, spec.Name, len(symbols), len(segs), scale)

	canvas := turtle.Canvas{
		Width:     cfg.Render.Width,
		Height:    cfg.Render.Height,
		LineWidth: cfg.Render.LineWidth,
	}

	if opts.Output == "" {
		return turtle.WriteSVG(formatter.Writer, segs, canvas)
	}

	var buf bytes.Buffer
	if err := turtle.WriteSVG(&buf, segs, canvas); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error())
	}
	if err := os.WriteFile(opts.Output, buf.Bytes(), 0o644); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err))
	}

	result := RenderResult{
		System:     spec.Name,
		Generation: opts.Generations,
		Symbols:    len(symbols),
		Segments:   len(segs),
		Scale:      scale,
		Output:     opts.Output,
	}
	if formatter.JSON() {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ Rendered %s generation %d (%d segment(s)) to %s\n",
		result.System, result.Generation, result.Segments, result.Output)
	return nil
}
