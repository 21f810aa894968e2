// Package factors defines the emission-factor data model and the
// deterministic match-and-fallback resolution over an indexed in-memory
// factor table.
//
// Factor records are loaded once per process by a collaborator (see
// internal/dataset) and are immutable for the engine's lifetime. Resolution
// holds scope, category, activity type and year fixed, relaxes only the
// country code to the GLOBAL sentinel, and applies a total tie-break order
// across datasets so repeated lookups always return the same record.
package factors

import (
	"errors"
	"fmt"
)

// GlobalCountryCode is the sentinel country code for records that apply when
// no country-specific factor exists.
const GlobalCountryCode = "GLOBAL"

// Scope bounds per the GHG Protocol.
const (
	MinScope = 1
	MaxScope = 3
)

// Validation errors for factor records and lookup keys.
var (
	ErrNegativeFactorValue = errors.New("factor value must be non-negative")
	ErrNegativeUncertainty = errors.New("uncertainty percent must be non-negative")
	ErrInvalidScope        = errors.New("scope must be 1, 2 or 3")
	ErrMissingField        = errors.New("missing required field")
	ErrDuplicateKey        = errors.New("duplicate factor key")
)

// Factor is one immutable emission-factor record. Value is expressed in
// kgCO2e per one Unit of activity.
type Factor struct {
	// Dataset identifies the source/publisher (e.g. "DEFRA", "EPA_eGRID").
	Dataset string `json:"dataset" yaml:"dataset"`

	// CountryCode is an ISO country code or GlobalCountryCode.
	CountryCode string `json:"country_code" yaml:"country_code"`

	// Year is the reporting year the factor applies to.
	Year int `json:"year" yaml:"year"`

	// Scope is the GHG Protocol scope (1, 2 or 3).
	Scope int `json:"scope" yaml:"scope"`

	// Category is the emission category (e.g. "electricity", "freight").
	Category string `json:"category" yaml:"category"`

	// ActivityType narrows the category (e.g. "grid_average").
	ActivityType string `json:"activity_type" yaml:"activity_type"`

	// Unit is the canonical unit the factor is declared per.
	Unit string `json:"unit" yaml:"unit"`

	// Value is kgCO2e per Unit. Never negative.
	Value float64 `json:"factor_value" yaml:"factor_value"`

	// UncertaintyPercent is the relative spread of the factor. Zero means
	// the source declared no uncertainty.
	UncertaintyPercent float64 `json:"uncertainty_percent" yaml:"uncertainty_percent"`
}

// Validate checks the record's invariants. It is called once at table build
// time so lookups never observe an invalid factor.
func (f Factor) Validate() error {
	switch {
	case f.Dataset == "":
		return fmt.Errorf("%w: dataset", ErrMissingField)
	case f.CountryCode == "":
		return fmt.Errorf("%w: country_code", ErrMissingField)
	case f.Category == "":
		return fmt.Errorf("%w: category", ErrMissingField)
	case f.ActivityType == "":
		return fmt.Errorf("%w: activity_type", ErrMissingField)
	case f.Unit == "":
		return fmt.Errorf("%w: unit", ErrMissingField)
	case f.Year == 0:
		return fmt.Errorf("%w: year", ErrMissingField)
	}
	if f.Scope < MinScope || f.Scope > MaxScope {
		return fmt.Errorf("%w: got %d", ErrInvalidScope, f.Scope)
	}
	if f.Value < 0 {
		return fmt.Errorf("%w: got %g", ErrNegativeFactorValue, f.Value)
	}
	if f.UncertaintyPercent < 0 {
		return fmt.Errorf("%w: got %g", ErrNegativeUncertainty, f.UncertaintyPercent)
	}
	return nil
}

// Key returns the lookup key under which this record is indexed.
func (f Factor) Key() Key {
	return Key{
		Scope:        f.Scope,
		Category:     f.Category,
		ActivityType: f.ActivityType,
		CountryCode:  f.CountryCode,
		Year:         f.Year,
		Dataset:      f.Dataset,
	}
}
