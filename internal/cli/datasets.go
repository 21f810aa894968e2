package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emfactor/emfactor/internal/dataset"
)

// newDatasetsCmd creates the datasets command: lists metadata and factor
// counts for the configured dataset files.
func newDatasetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "datasets",
		Short: "Inspect loaded factor datasets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			paths := datasetPaths(cmd, cfg)
			if len(paths) == 0 {
				return fmt.Errorf("no datasets configured: pass --data or set datasets in the config file")
			}

			for _, path := range paths {
				set, loadErr := dataset.Load(path)
				if loadErr != nil {
					return fmt.Errorf("%s: %w", path, loadErr)
				}
				cmd.Printf("%s\n", path)
				cmd.Printf("  name:      %s\n", set.Metadata.Name)
				cmd.Printf("  publisher: %s\n", set.Metadata.Publisher)
				cmd.Printf("  schema:    %s\n", set.Metadata.SchemaVersion)
				cmd.Printf("  factors:   %s\n", printer.Sprintf("%d", len(set.Factors)))
			}
			return nil
		},
	}
}
