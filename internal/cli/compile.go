package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/lsys/internal/ir"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// CompiledSystem is one system in the compile output.
type CompiledSystem struct {
	SpecHash string        `json:"spec_hash"`
	Spec     ir.SystemSpec `json:"spec"`
}

// CompilationResult holds the compiled systems.
type CompilationResult struct {
	IRVersion string           `json:"ir_version"`
	Systems   []CompiledSystem `json:"systems"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <specs-dir>",
		Short: "Compile CUE system definitions to IR",
		Long: `Compile the L-system definitions in a CUE package to IR.

Each system is reported with its spec hash, the identity stored with every
derivation run. Rendering rules are carried along but do not affect the hash.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], opts.formatter(cmd))
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, specsDir string, formatter *OutputFormatter) error {
	loadResult, loadErrors := LoadSystems(specsDir, LoadModeCollectAll)
	if loadResult == nil {
		return outputLoadFailure(formatter, loadErrors[0])
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, specsDir)
	for _, name := range loadResult.Names() {
		formatter.VerboseLog("Compiled system: %s", name)
	}

	if len(loadErrors) > 0 {
		return outputCompileErrors(formatter, loadErrors)
	}

	result := &CompilationResult{
		IRVersion: ir.IRVersion,
		Systems:   make([]CompiledSystem, 0, len(loadResult.Systems)),
	}
	for _, spec := range loadResult.Systems {
		hash, err := ir.SpecHash(spec)
		if err != nil {
			// Duplicate predecessors compile but cannot be hashed.
			return outputCompileErrors(formatter, []error{&LoadError{
				Code:    ErrCodeGeneric,
				Message: fmt.Sprintf("%s: %v", spec.Name, err),
			}})
		}
		result.Systems = append(result.Systems, CompiledSystem{SpecHash: hash, Spec: spec})
	}

	if opts.Output != "" {
		if err := writeIRToFile(result, opts.Output); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err))
		}
	}

	return outputCompileSuccess(formatter, result, opts.Output)
}

func outputCompileSuccess(formatter *OutputFormatter, result *CompilationResult, outputFile string) error {
	if formatter.JSON() {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ Compiled %d system(s)\n\n", len(result.Systems))
	for _, s := range result.Systems {
		fmt.Fprintf(w, "  %s: %d symbol(s), %d production(s), axiom %s\n",
			s.Spec.Name, len(s.Spec.Alphabet), len(s.Spec.Productions), symbolsText(s.Spec.Axiom))
		if formatter.Verbose {
			fmt.Fprintf(w, "    spec hash %s\n", s.SpecHash)
		}
	}
	fmt.Fprintln(w)

	if outputFile != "" {
		fmt.Fprintf(w, "Wrote IR to %s\n", outputFile)
	}
	return nil
}

// outputLoadFailure reports an error that prevented loading entirely.
func outputLoadFailure(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return formatter.Fail(ExitCommandError, loadErr.Code, loadErr.Message)
	}
	return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error())
}

// outputCompileErrors reports every error from a collect-all load.
func outputCompileErrors(formatter *OutputFormatter, errs []error) error {
	if formatter.JSON() {
		cliErrors := make([]CLIError, len(errs))
		for i, err := range errs {
			code, message := parseCompileError(err)
			cliErrors[i] = CLIError{Code: code, Message: message}
		}
		if err := formatter.Encode(CLIResponse{
			Status: "error",
			Error:  &cliErrors[0],
			Data:   cliErrors,
		}); err != nil {
			return err
		}
		return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
	}

	w := formatter.Writer
	fmt.Fprintln(w, "✗ Compilation failed")
	fmt.Fprintln(w)
	for _, err := range errs {
		code, message := parseCompileError(err)
		var loadErr *LoadError
		if errors.As(err, &loadErr) && loadErr.Pos.IsValid() {
			fmt.Fprintf(w, "%s:%d:%d\n", loadErr.Pos.Filename(), loadErr.Pos.Line(), loadErr.Pos.Column())
		}
		fmt.Fprintf(w, "  %s: %s\n\n", code, message)
	}

	return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
}

// parseCompileError extracts error code and message from an error.
func parseCompileError(err error) (string, string) {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	return ErrCodeGeneric, err.Error()
}

// writeIRToFile writes the compilation result as indented JSON.
// Canonical JSON is only used for hashing.
func writeIRToFile(result *CompilationResult, filename string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling IR: %w", err)
	}
	if err := os.WriteFile(filename, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}
