package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/emfactor/emfactor/internal/factors"
)

// ErrInvalidActivityValue indicates a non-finite or negative normalized
// value reaching the calculator. Ingestion should have rejected it upstream,
// so this is a contract violation: fatal for the row, never silently
// clamped.
var ErrInvalidActivityValue = errors.New("invalid activity value")

// Compute multiplies a normalized activity quantity by the factor value to
// produce the point CO2e estimate in kilograms.
//
// Pure function, no rounding: presentation-level rounding belongs to a
// downstream collaborator.
func Compute(normalizedValue float64, factor factors.Factor) (float64, error) {
	if math.IsInf(normalizedValue, 0) || math.IsNaN(normalizedValue) {
		return 0, fmt.Errorf("%w: value is not finite", ErrInvalidActivityValue)
	}
	if normalizedValue < 0 {
		return 0, fmt.Errorf("%w: got %g", ErrInvalidActivityValue, normalizedValue)
	}
	return normalizedValue * factor.Value, nil
}
