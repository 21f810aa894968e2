// Package engine composes unit normalization, factor resolution, point
// calculation and uncertainty simulation into the calculation entry points
// consumed by ingestion, reporting and diagnostic collaborators.
//
// The engine is stateless per call except for the factor cache, so rows are
// embarrassingly parallel. It performs no I/O: the factor table is supplied
// in memory by a collaborator and every error is row-scoped and returned as
// a value.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/emfactor/emfactor/internal/engine/batch"
	"github.com/emfactor/emfactor/internal/factors"
	factorcache "github.com/emfactor/emfactor/internal/factors/cache"
	"github.com/emfactor/emfactor/internal/logging"
	"github.com/emfactor/emfactor/internal/uncertainty"
	"github.com/emfactor/emfactor/internal/units"
)

// Config tunes one engine instance. Zero values select defaults.
type Config struct {
	// PreferredDataset fills in records that carry no dataset. Empty means
	// no preference: the resolver tie-break picks the dataset.
	PreferredDataset string

	// ReportingYear fills in records that carry no year. Zero selects the
	// current calendar year.
	ReportingYear int

	// Iterations is the Monte Carlo sample count. Zero selects
	// uncertainty.DefaultIterations.
	Iterations int

	// Seed feeds the simulation PRNG. Fixed per engine so identical inputs
	// reproduce identical intervals across batches and processes.
	Seed uint64

	// CacheTTL bounds factor cache entries. Zero selects cache.DefaultTTL.
	CacheTTL time.Duration

	// MaxConcurrency bounds the batch worker pool. Zero selects NumCPU.
	MaxConcurrency int
}

// Engine is the uncertainty-aware emission calculation engine.
type Engine struct {
	cache  *factorcache.FactorCache
	sim    *uncertainty.Engine
	runner *batch.Runner[tenantRecord, CalculationResult]
	cfg    Config
}

// tenantRecord pairs a record with its tenant for the batch runner.
type tenantRecord struct {
	tenantID string
	record   ActivityRecord
}

// New creates an Engine over the given factor table.
func New(table factors.Table, cfg Config) (*Engine, error) {
	if table == nil {
		return nil, fmt.Errorf("%w: factor table cannot be nil", ErrInvalidInput)
	}
	if cfg.ReportingYear == 0 {
		cfg.ReportingYear = time.Now().Year()
	}

	cache, err := factorcache.New(factors.NewResolver(table), cfg.CacheTTL)
	if err != nil {
		return nil, fmt.Errorf("building factor cache: %w", err)
	}

	sim, err := uncertainty.NewEngine(cfg.Iterations)
	if err != nil {
		return nil, fmt.Errorf("building uncertainty engine: %w", err)
	}

	runner, err := batch.NewRunner[tenantRecord, CalculationResult](cfg.MaxConcurrency)
	if err != nil {
		return nil, fmt.Errorf("building batch runner: %w", err)
	}

	return &Engine{cache: cache, sim: sim, runner: runner, cfg: cfg}, nil
}

// ResolveFactor resolves one lookup key through the per-tenant cache.
// Consumed by calculation callers and by diagnostic tooling.
func (e *Engine) ResolveFactor(ctx context.Context, tenantID string, key factors.Key) (factors.Factor, error) {
	log := logging.FromContext(ctx)

	if tenantID == "" {
		return factors.Factor{}, fmt.Errorf("%w: tenant id is required", ErrInvalidInput)
	}
	if err := key.Validate(); err != nil {
		return factors.Factor{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	factor, err := e.cache.GetOrResolve(tenantID, key)
	if err != nil {
		return factors.Factor{}, classifyError(err)
	}

	if factor.CountryCode != key.CountryCode {
		log.Debug().
			Str("component", "engine").
			Str("requested_country", key.CountryCode).
			Str("resolved_country", factor.CountryCode).
			Str("dataset", factor.Dataset).
			Msg("country fallback applied")
	}

	return factor, nil
}

// Calculate runs one activity record through the full pipeline and returns
// its point estimate and 95% confidence interval.
func (e *Engine) Calculate(ctx context.Context, tenantID string, record ActivityRecord) (CalculationResult, error) {
	if tenantID == "" {
		return CalculationResult{}, fmt.Errorf("%w: tenant id is required", ErrInvalidInput)
	}
	if err := record.validate(); err != nil {
		return CalculationResult{}, classifyError(err)
	}

	key := e.lookupKey(record)

	factor, err := e.ResolveFactor(ctx, tenantID, key)
	if err != nil {
		return CalculationResult{}, err
	}

	normalized, err := units.Convert(record.Value, record.Unit, factor.Unit)
	if err != nil {
		return CalculationResult{}, classifyError(err)
	}

	point, err := Compute(normalized, factor)
	if err != nil {
		return CalculationResult{}, classifyError(err)
	}

	interval, err := e.sim.Simulate(point, factor.UncertaintyPercent, e.cfg.Seed)
	if err != nil {
		if errors.Is(err, uncertainty.ErrSimulationInstability) {
			logging.FromContext(ctx).Warn().
				Str("component", "engine").
				Float64("point_estimate", point).
				Float64("uncertainty_percent", factor.UncertaintyPercent).
				Msg("simulation unstable after reseeded retry")
		}
		return CalculationResult{}, classifyError(err)
	}

	return CalculationResult{
		TenantID:             tenantID,
		EmissionKgCO2e:       point,
		FactorUsed:           factor.Key(),
		ConfidenceInterval95: interval,
	}, nil
}

// CalculateBatch calculates a sequence of records in parallel, preserving
// the 1:1 correspondence between input index and output index. Errors are
// per-row; the batch never aborts on a row failure.
func (e *Engine) CalculateBatch(ctx context.Context, tenantID string, records []ActivityRecord) ([]RowResult, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenant id is required", ErrInvalidInput)
	}

	log := logging.FromContext(ctx)
	runID := logging.GetOrGenerateTraceID(ctx)
	start := time.Now()

	log.Debug().
		Str("component", "engine").
		Str("batch_run_id", runID).
		Int("rows", len(records)).
		Msg("starting batch calculation")

	items := make([]tenantRecord, len(records))
	for i, r := range records {
		items[i] = tenantRecord{tenantID: tenantID, record: r}
	}

	rows, err := e.runner.Run(ctx, items, func(ctx context.Context, item tenantRecord) (CalculationResult, error) {
		return e.Calculate(ctx, item.tenantID, item.record)
	})
	if err != nil {
		return nil, fmt.Errorf("batch run %s: %w", runID, err)
	}

	results := make([]RowResult, len(rows))
	failed := 0
	for i, row := range rows {
		results[i] = RowResult{Index: i, Result: row.Value, Err: row.Err}
		if row.Err != nil {
			failed++
		}
	}

	log.Info().
		Str("component", "engine").
		Str("batch_run_id", runID).
		Int("rows", len(records)).
		Int("failed_rows", failed).
		Dur("elapsed", time.Since(start)).
		Msg("batch calculation finished")

	return results, nil
}

// CacheStats exposes factor cache counters for diagnostic tooling.
func (e *Engine) CacheStats() factorcache.Stats {
	return e.cache.Stats()
}

// InvalidateTenant drops every cached factor for one tenant, forcing fresh
// resolution on the next lookup.
func (e *Engine) InvalidateTenant(tenantID string) {
	e.cache.InvalidateTenant(tenantID)
}

// lookupKey builds the resolution key, applying the configured defaults for
// optional record fields. A missing country selects the GLOBAL sentinel
// directly, which makes the exact-match step hit global records.
func (e *Engine) lookupKey(record ActivityRecord) factors.Key {
	country := record.CountryCode
	if country == "" {
		country = factors.GlobalCountryCode
	}
	year := record.Year
	if year == 0 {
		year = e.cfg.ReportingYear
	}
	dataset := record.Dataset
	if dataset == "" {
		dataset = e.cfg.PreferredDataset
	}

	return factors.Key{
		Scope:        record.Scope,
		Category:     record.Category,
		ActivityType: record.ActivityType,
		CountryCode:  country,
		Year:         year,
		Dataset:      dataset,
	}
}
