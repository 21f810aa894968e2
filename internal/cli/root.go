// Package cli implements the emfactor diagnostic command line: factor
// resolution debugging, single-record calculations and dataset inspection
// over the calculation engine.
package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/emfactor/emfactor/internal/config"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the emfactor CLI.
// It wires up logging and the resolve, calculate and datasets subcommands.
func NewRootCmd(ver string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "emfactor",
		Short:   "Emission factor resolution and CO2e calculation",
		Long:    "emfactor: resolve emission factors and calculate uncertainty-aware CO2e estimates from activity data",
		Version: ver,
		Example: `  # Resolve a factor, showing any GLOBAL fallback
  emfactor resolve --data factors.yaml --scope 2 --category electricity --activity-type grid_average --country FR --year 2024

  # Calculate emissions for one activity row
  emfactor calculate --data factors.yaml --value 1000 --unit kWh --scope 2 --category electricity --activity-type grid_average

  # Run a whole activity batch file, NDJSON when piped
  emfactor batch --data factors.yaml --file activities.json

  # Inspect dataset metadata
  emfactor datasets --data factors.yaml`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupLogging(cmd)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", config.DefaultPath(), "config file path")
	cmd.PersistentFlags().StringSlice("data", nil, "dataset file(s), overrides config datasets")
	cmd.PersistentFlags().String("tenant", "default", "tenant id for cache scoping")

	cmd.AddCommand(newResolveCmd())
	cmd.AddCommand(newCalculateCmd())
	cmd.AddCommand(newBatchCmd())
	cmd.AddCommand(newDatasetsCmd())

	return cmd
}

// loadConfig reads the config file selected by the --config flag.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// datasetPaths returns the dataset files to load: the --data flag when set,
// otherwise the config file's dataset list.
func datasetPaths(cmd *cobra.Command, cfg config.Config) []string {
	if paths, _ := cmd.Flags().GetStringSlice("data"); len(paths) > 0 {
		return paths
	}
	return cfg.Datasets
}
