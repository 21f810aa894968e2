package units

import "fmt"

// constError is an immutable error type for sentinel errors.
// It implements the error interface and provides compile-time safety.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors for unit validation. Callers compare with errors.Is; the
// structured error types below carry the offending unit strings.
var (
	// ErrUnknownUnit indicates a unit string absent from the recognized table.
	ErrUnknownUnit = constError("unknown unit")

	// ErrDimensionMismatch indicates two units whose dimensions are not
	// convertible (for example mass vs energy).
	ErrDimensionMismatch = constError("unit dimension mismatch")

	// ErrNonFiniteValue indicates an input or result that is Inf or NaN.
	ErrNonFiniteValue = constError("non-finite value")
)

// UnknownUnitError reports an unrecognized unit string. It carries the raw
// string so the ingestion layer can render a field-level suggestion.
type UnknownUnitError struct {
	Unit string
}

func (e *UnknownUnitError) Error() string {
	return fmt.Sprintf("unknown unit %q", e.Unit)
}

// Is makes errors.Is(err, ErrUnknownUnit) succeed.
func (e *UnknownUnitError) Is(target error) bool {
	return target == ErrUnknownUnit
}

// DimensionMismatchError reports an attempted conversion between units of
// incompatible dimensions, or between distinct opaque/spend units.
type DimensionMismatchError struct {
	From          string
	To            string
	FromDimension Dimension
	ToDimension   Dimension
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("cannot convert %q (%s) to %q (%s)",
		e.From, e.FromDimension, e.To, e.ToDimension)
}

// Is makes errors.Is(err, ErrDimensionMismatch) succeed.
func (e *DimensionMismatchError) Is(target error) bool {
	return target == ErrDimensionMismatch
}
