package engine

import (
	"fmt"
	"math"

	"github.com/emfactor/emfactor/internal/factors"
	"github.com/emfactor/emfactor/internal/uncertainty"
)

// ActivityRecord is one sanitized input row. Numeric parsing and row-level
// sanitization happen upstream in the ingestion collaborator; the engine
// only re-checks the contract it depends on.
type ActivityRecord struct {
	// Value is the activity quantity in Unit.
	Value float64 `json:"activity_value"`

	// Unit is the raw unit string as supplied by the caller.
	Unit string `json:"unit"`

	// Scope is the GHG Protocol scope (1, 2 or 3).
	Scope int `json:"scope"`

	// Category is the emission category.
	Category string `json:"category"`

	// ActivityType narrows the category.
	ActivityType string `json:"activity_type"`

	// CountryCode is optional; empty selects the GLOBAL sentinel directly.
	CountryCode string `json:"country_code,omitempty"`

	// Year is optional; zero selects the configured reporting year.
	Year int `json:"year,omitempty"`

	// Dataset is optional; empty selects the configured preferred dataset.
	Dataset string `json:"dataset,omitempty"`
}

// validate rejects records that violate the upstream sanitization contract.
func (r ActivityRecord) validate() error {
	switch {
	case r.Category == "":
		return fmt.Errorf("%w: category is required", ErrInvalidInput)
	case r.ActivityType == "":
		return fmt.Errorf("%w: activity_type is required", ErrInvalidInput)
	case r.Unit == "":
		return fmt.Errorf("%w: unit is required", ErrInvalidInput)
	}
	if r.Scope < factors.MinScope || r.Scope > factors.MaxScope {
		return fmt.Errorf("%w: scope must be 1, 2 or 3, got %d", ErrInvalidInput, r.Scope)
	}
	if math.IsInf(r.Value, 0) || math.IsNaN(r.Value) {
		return fmt.Errorf("%w: activity_value must be finite", ErrInvalidActivityValue)
	}
	return nil
}

// CalculationResult is the output for one row. FactorUsed is a read-only
// link to the resolved record by its own key; the result does not own the
// factor.
type CalculationResult struct {
	// TenantID is carried through unchanged for downstream authorization
	// checks by collaborators.
	TenantID string `json:"tenant_id"`

	// EmissionKgCO2e is the point estimate.
	EmissionKgCO2e float64 `json:"emission_kgco2e"`

	// FactorUsed identifies the resolved factor. After a GLOBAL fallback its
	// CountryCode reads "GLOBAL" even when the record requested a country.
	FactorUsed factors.Key `json:"factor_used"`

	// ConfidenceInterval95 bounds the estimate at 95% confidence. Equal
	// bounds mean the factor declared no uncertainty.
	ConfidenceInterval95 uncertainty.Interval `json:"confidence_interval_95"`
}

// RowResult pairs one batch row's outcome with its input index. Exactly one
// of Result/Err is meaningful.
type RowResult struct {
	// Index is the position of the input record in the batch.
	Index int `json:"index"`

	// Result is the calculation output when Err is nil.
	Result CalculationResult `json:"result,omitempty"`

	// Err is the row-scoped failure, usually a *RowError.
	Err error `json:"-"`
}
