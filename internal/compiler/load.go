package compiler

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/lsys/internal/ir"
)

// SystemsPath is the CUE path under which systems are declared.
const SystemsPath = "lsystem"

// CompileAll compiles every system declared under lsystem: in v, in
// declaration order. With failFast the first error stops compilation;
// otherwise all errors are collected and the systems that did compile are
// still returned.
func CompileAll(v cue.Value, failFast bool) ([]ir.SystemSpec, []error) {
	systemsVal := v.LookupPath(cue.ParsePath(SystemsPath))
	if !systemsVal.Exists() {
		return nil, nil
	}

	iter, err := systemsVal.Fields()
	if err != nil {
		return nil, []error{formatCUEError(err)}
	}

	var (
		specs []ir.SystemSpec
		errs  []error
	)
	for iter.Next() {
		spec, err := CompileSystem(iter.Value())
		if err != nil {
			errs = append(errs, fmt.Errorf("%s.%s: %w", SystemsPath, iter.Label(), err))
			if failFast {
				return specs, errs
			}
			continue
		}
		specs = append(specs, *spec)
	}
	return specs, errs
}

// LoadFile compiles the single CUE file at path and returns the named system.
func LoadFile(path, system string) (*ir.SystemSpec, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	v := cuecontext.New().CompileBytes(src, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	sysVal := v.LookupPath(cue.MakePath(cue.Str(SystemsPath), cue.Str(system)))
	if !sysVal.Exists() {
		return nil, &CompileError{
			Field:   SystemsPath,
			Message: fmt.Sprintf("system %q not found in %s", system, path),
		}
	}
	return CompileSystem(sysVal)
}
