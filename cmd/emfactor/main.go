// Command emfactor is the diagnostic CLI over the emission calculation
// engine: factor resolution, single-record calculation and dataset
// inspection.
package main

import (
	"fmt"
	"os"

	"github.com/emfactor/emfactor/internal/cli"
	"github.com/emfactor/emfactor/pkg/version"
)

func main() {
	os.Exit(run())
}

// run executes the root command and maps errors to exit codes.
func run() int {
	root := cli.NewRootCmd(version.GetVersion())
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
