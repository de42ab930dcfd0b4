package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/lsys/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool                       `json:"valid"`
	Systems []string                   `json:"systems"`
	Errors  []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <specs-dir>",
		Short: "Validate system definitions",
		Long: `Validate the L-system definitions in a CUE package.

Reports every problem found: empty alphabet or axiom, production or draw
symbols outside the alphabet, duplicate predecessors, and symbol text that
is empty or not NFC-normalized. Systems marked strict also reject axiom
symbols outside the alphabet.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], rootOpts.formatter(cmd))
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, specsDir string, formatter *OutputFormatter) error {
	loadResult, loadErrors := LoadSystems(specsDir, LoadModeCollectAll)
	if loadResult == nil {
		return outputLoadFailure(formatter, loadErrors[0])
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, specsDir)

	var validationErrors []compiler.ValidationError
	for _, err := range loadErrors {
		validationErrors = append(validationErrors, loadErrorToValidation(err))
	}
	validationErrors = append(validationErrors, validateSystems(loadResult, formatter)...)

	if len(validationErrors) > 0 {
		return outputValidationErrors(formatter, loadResult.Names(), validationErrors)
	}

	if formatter.JSON() {
		return formatter.Success(ValidationResult{Valid: true, Systems: loadResult.Names()})
	}
	fmt.Fprintf(formatter.Writer, "✓ All definitions valid (%d system(s))\n", len(loadResult.Systems))
	return nil
}

// validateSystems runs compiler.Validate on every loaded system and
// qualifies each field with the system's path.
func validateSystems(loadResult *LoadResult, formatter *OutputFormatter) []compiler.ValidationError {
	var errs []compiler.ValidationError
	for i := range loadResult.Systems {
		spec := &loadResult.Systems[i]
		formatter.VerboseLog("Validating system: %s", spec.Name)

		for _, ve := range compiler.Validate(spec) {
			ve.Field = fmt.Sprintf("%s.%s.%s", compiler.SystemsPath, spec.Name, ve.Field)
			errs = append(errs, ve)
		}
	}
	return errs
}

func loadErrorToValidation(err error) compiler.ValidationError {
	ve := compiler.ValidationError{
		Field:   "load",
		Message: err.Error(),
		Code:    ErrCodeGeneric,
	}
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		ve.Message = loadErr.Message
		ve.Code = loadErr.Code
		if loadErr.Pos.IsValid() {
			ve.Line = loadErr.Pos.Line()
		}
	}
	return ve
}

func outputValidationErrors(formatter *OutputFormatter, systems []string, errs []compiler.ValidationError) error {
	failure := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))

	if formatter.JSON() {
		if err := formatter.Encode(CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Systems: systems, Errors: errs},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}); err != nil {
			return err
		}
		return failure
	}

	w := formatter.Writer
	fmt.Fprintln(w, "✗ Validation failed")
	fmt.Fprintln(w)
	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(w, "line %d\n", err.Line)
		}
		fmt.Fprintf(w, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}
	return failure
}
