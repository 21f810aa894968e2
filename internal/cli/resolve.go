package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/emfactor/emfactor/internal/config"
	"github.com/emfactor/emfactor/internal/dataset"
	"github.com/emfactor/emfactor/internal/engine"
	"github.com/emfactor/emfactor/internal/factors"
)

// newResolveCmd creates the resolve command: a lookup diagnostic that shows
// which factor the resolver picks for a key and whether the GLOBAL fallback
// or a dataset tie-break applied.
func newResolveCmd() *cobra.Command {
	var (
		scope        int
		category     string
		activityType string
		country      string
		year         int
		datasetName  string
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve an emission factor for a lookup key",
		Long: `Resolves one emission factor against the loaded datasets and reports
the match, including whether the GLOBAL country fallback was applied and
which dataset won when several carried the same factor.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, cfg, err := buildEngine(cmd)
			if err != nil {
				return err
			}

			if year == 0 {
				year = cfg.Engine.ReportingYear
			}
			if year == 0 {
				year = time.Now().Year()
			}
			if datasetName == "" {
				datasetName = cfg.Engine.PreferredDataset
			}

			key := factors.Key{
				Scope:        scope,
				Category:     category,
				ActivityType: activityType,
				CountryCode:  country,
				Year:         year,
				Dataset:      datasetName,
			}

			tenant, _ := cmd.Flags().GetString("tenant")
			factor, err := eng.ResolveFactor(cmd.Context(), tenant, key)
			if err != nil {
				return err
			}

			cmd.Printf("dataset:       %s\n", factor.Dataset)
			cmd.Printf("country:       %s", factor.CountryCode)
			if factor.CountryCode != key.CountryCode {
				cmd.Printf("  (fallback from %s)", key.CountryCode)
			}
			cmd.Println()
			cmd.Printf("year:          %d\n", factor.Year)
			cmd.Printf("scope:         %d\n", factor.Scope)
			cmd.Printf("category:      %s/%s\n", factor.Category, factor.ActivityType)
			cmd.Printf("factor:        %s\n", formatFactor(factor.Value, factor.Unit))
			cmd.Printf("uncertainty:   %g%%\n", factor.UncertaintyPercent)
			return nil
		},
	}

	cmd.Flags().IntVar(&scope, "scope", 0, "GHG scope (1, 2 or 3)")
	cmd.Flags().StringVar(&category, "category", "", "emission category")
	cmd.Flags().StringVar(&activityType, "activity-type", "", "activity type")
	cmd.Flags().StringVar(&country, "country", factors.GlobalCountryCode, "ISO country code")
	cmd.Flags().IntVar(&year, "year", 0, "reporting year (defaults to configured year)")
	cmd.Flags().StringVar(&datasetName, "dataset", "", "preferred dataset")
	_ = cmd.MarkFlagRequired("scope")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("activity-type")

	return cmd
}

// buildEngine loads the configured datasets and constructs an engine for one
// CLI invocation, returning the loaded config for flag defaulting.
func buildEngine(cmd *cobra.Command) (*engine.Engine, config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, config.Config{}, err
	}

	paths := datasetPaths(cmd, cfg)
	if len(paths) == 0 {
		return nil, config.Config{}, fmt.Errorf("no datasets configured: pass --data or set datasets in the config file")
	}

	table, err := dataset.LoadTable(paths...)
	if err != nil {
		return nil, config.Config{}, err
	}

	logger.Debug().Int("factors", table.Len()).Strs("datasets", paths).Msg("factor table loaded")

	eng, err := engine.New(table, engine.Config{
		PreferredDataset: cfg.Engine.PreferredDataset,
		ReportingYear:    cfg.Engine.ReportingYear,
		Iterations:       cfg.Engine.Iterations,
		Seed:             cfg.Engine.Seed,
		CacheTTL:         cfg.Engine.CacheTTL,
		MaxConcurrency:   cfg.Engine.MaxConcurrency,
	})
	return eng, cfg, err
}
