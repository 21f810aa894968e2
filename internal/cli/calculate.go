package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/emfactor/emfactor/internal/engine"
)

// newCalculateCmd creates the calculate command: one activity row through
// the full pipeline, printing the point estimate and confidence interval.
func newCalculateCmd() *cobra.Command {
	var record engine.ActivityRecord

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate CO2e for one activity record",
		Long: `Runs a single activity record through unit normalization, factor
resolution, point calculation and Monte Carlo uncertainty simulation.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, _, err := buildEngine(cmd)
			if err != nil {
				return err
			}

			tenant, _ := cmd.Flags().GetString("tenant")
			result, err := eng.Calculate(cmd.Context(), tenant, record)
			if err != nil {
				return err
			}

			cmd.Printf("emission:      %s\n", formatKg(result.EmissionKgCO2e))
			if result.ConfidenceInterval95.Lower != result.ConfidenceInterval95.Upper {
				cmd.Printf("95%% interval:  [%s, %s]\n",
					formatKg(result.ConfidenceInterval95.Lower),
					formatKg(result.ConfidenceInterval95.Upper))
			} else {
				cmd.Printf("95%% interval:  exact (no declared uncertainty)\n")
			}
			cmd.Printf("factor used:   %s\n", result.FactorUsed)

			if isTerminal(os.Stdout) {
				stats := eng.CacheStats()
				cmd.Printf("cache:         %d hits, %d misses\n", stats.Hits, stats.Misses)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&record.Value, "value", 0, "activity quantity")
	cmd.Flags().StringVar(&record.Unit, "unit", "", "activity unit (e.g. kWh, kg, tonne-km)")
	cmd.Flags().IntVar(&record.Scope, "scope", 0, "GHG scope (1, 2 or 3)")
	cmd.Flags().StringVar(&record.Category, "category", "", "emission category")
	cmd.Flags().StringVar(&record.ActivityType, "activity-type", "", "activity type")
	cmd.Flags().StringVar(&record.CountryCode, "country", "", "ISO country code (defaults to GLOBAL)")
	cmd.Flags().IntVar(&record.Year, "year", 0, "reporting year (defaults to configured year)")
	cmd.Flags().StringVar(&record.Dataset, "dataset", "", "preferred dataset")
	_ = cmd.MarkFlagRequired("value")
	_ = cmd.MarkFlagRequired("unit")
	_ = cmd.MarkFlagRequired("scope")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("activity-type")

	return cmd
}
