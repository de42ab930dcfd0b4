// Command lsys derives, records, replays, and renders L-systems declared
// in CUE.
//
// Usage:
//
//	lsys compile  <specs-dir> [-o ir.json]
//	lsys validate <specs-dir>
//	lsys derive   <specs-dir> <system> [-n N] [--all] [--db lsys.db]
//	lsys history  [system] --db lsys.db
//	lsys replay   <specs-dir> <run-id> --db lsys.db
//	lsys render   <specs-dir> <system> [-n N] [-o out.svg]
//	lsys test     <specs-dir> <scenarios-dir> [--update] [--filter glob]
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/lsys/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands report their own failures as ExitErrors; usage
		// errors from cobra are printed here.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
