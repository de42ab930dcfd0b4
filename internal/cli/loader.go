package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/lsys/internal/compiler"
	"github.com/roach88/lsys/internal/ir"
)

// LoadMode controls how errors are handled during loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the systems loaded from a directory.
type LoadResult struct {
	Systems   []ir.SystemSpec // In declaration order
	CUEValue  cue.Value       // The raw CUE value for additional processing
	FileCount int             // Number of CUE files found
}

// System returns the system with the given name.
func (r *LoadResult) System(name string) (*ir.SystemSpec, bool) {
	for i := range r.Systems {
		if r.Systems[i].Name == name {
			return &r.Systems[i], true
		}
	}
	return nil, false
}

// Names lists the loaded system names in declaration order.
func (r *LoadResult) Names() []string {
	names := make([]string, len(r.Systems))
	for i, s := range r.Systems {
		names[i] = s.Name
	}
	return names
}

// LoadError represents an error that occurred during loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadSystems loads the CUE package in dir and compiles every system
// declared under lsystem:.
//
// A nil result means nothing could be compiled (missing directory, no
// files, CUE load or build failure). Otherwise the result holds the
// systems that compiled and errs the ones that did not; with
// LoadModeFailFast errs holds at most one error.
func LoadSystems(dir string, mode LoadMode) (*LoadResult, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("specs directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("accessing directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := cuecontext.New().BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	result := &LoadResult{
		CUEValue:  value,
		FileCount: len(cueFiles),
	}

	specs, compileErrs := compiler.CompileAll(value, mode == LoadModeFailFast)
	result.Systems = specs

	var errs []error
	for _, err := range compileErrs {
		errs = append(errs, convertCompileError(err))
	}

	if len(result.Systems) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: "no systems found under " + compiler.SystemsPath})
	}
	return result, errs
}

// FindCUEFiles returns the .cue files directly in dir. Subdirectories
// are separate CUE packages and are not loaded.
func FindCUEFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".cue" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

// convertCompileError converts a compiler error to a LoadError with
// position info. The message keeps the "lsystem.<name>:" prefix added by
// compiler.CompileAll.
func convertCompileError(err error) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: err.Error(),
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
}

// Error code constants, unified across all CLI commands. Definition
// errors reuse the compiler's E1xx validation codes.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path, system, or run not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeShape       = "E008" // Definition field missing or of the wrong type

	ErrCodeQuota       = "E_QUOTA"       // Derivation limit reached
	ErrCodeStore       = "E_STORE"       // Database error
	ErrCodeDeterminism = "E_DETERMINISM" // Replay diverged
	ErrCodeTestFailed  = "E_TEST_FAILED" // Scenario failed
)

// MapFieldToErrorCode maps a compiler error field to an error code.
// Compile errors are structural; the E1xx codes are reserved for Validate,
// which only runs on definitions that compiled.
func MapFieldToErrorCode(field string) string {
	switch {
	case field == "alphabet", field == "axiom", field == "cue":
		return ErrCodeShape
	case strings.HasPrefix(field, "productions"), strings.HasPrefix(field, "draw"):
		return ErrCodeShape
	default:
		return ErrCodeGeneric
	}
}
