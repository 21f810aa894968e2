package engine

import (
	"errors"
	"fmt"

	"github.com/emfactor/emfactor/internal/factors"
	"github.com/emfactor/emfactor/internal/uncertainty"
	"github.com/emfactor/emfactor/internal/units"
)

// ErrInvalidInput is returned for programming-contract violations at the API
// boundary (empty tenant id, malformed record or key). It is distinct from
// the row-level data-quality kinds below and should never appear for
// well-formed caller input.
var ErrInvalidInput = errors.New("invalid engine input")

// ErrorKind categorizes row-level calculation failures. Every kind is
// row-scoped: a batch call returns one result-or-error per input row and is
// never aborted by any of these.
type ErrorKind int

const (
	// KindUnknownUnit: the raw unit string is not in the recognized table.
	KindUnknownUnit ErrorKind = iota

	// KindDimensionMismatch: activity and factor units are dimensionally
	// incompatible.
	KindDimensionMismatch

	// KindFactorNotFound: no exact match and no GLOBAL fallback match.
	KindFactorNotFound

	// KindInvalidActivityValue: a non-finite or negative value reached the
	// calculator. Upstream-contract violation, fatal for the row.
	KindInvalidActivityValue

	// KindSimulationInstability: the Monte Carlo draw set produced
	// non-finite percentiles twice. Fatal for the row.
	KindSimulationInstability
)

// String returns the machine-readable label for an ErrorKind.
func (k ErrorKind) String() string {
	switch k {
	case KindUnknownUnit:
		return "unknown_unit"
	case KindDimensionMismatch:
		return "dimension_mismatch"
	case KindFactorNotFound:
		return "factor_not_found"
	case KindInvalidActivityValue:
		return "invalid_activity_value"
	case KindSimulationInstability:
		return "simulation_instability"
	default:
		return fmt.Sprintf("error_kind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k ErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// RowError is a row-scoped calculation failure. It carries the error kind,
// the input field the failure is attributed to, and a human message, which
// is the field-tagged contract the ingestion and report layers render.
type RowError struct {
	// Kind is the taxonomy bucket.
	Kind ErrorKind

	// Field names the ActivityRecord field the error is attributed to.
	Field string

	// Message is the human-readable description.
	Message string

	// err is the underlying cause, preserved for errors.Is/As.
	err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Field, e.Message)
}

// Unwrap exposes the underlying cause so errors.Is works against the
// component sentinels (units.ErrUnknownUnit, factors.ErrFactorNotFound, ...).
func (e *RowError) Unwrap() error {
	return e.err
}

// newRowError wraps err with taxonomy metadata.
func newRowError(kind ErrorKind, field string, err error) *RowError {
	return &RowError{
		Kind:    kind,
		Field:   field,
		Message: err.Error(),
		err:     err,
	}
}

// classifyError maps component errors onto the row-error taxonomy. Unmapped
// errors pass through unchanged; those are contract violations the caller
// should surface loudly rather than tag onto a row field.
func classifyError(err error) error {
	switch {
	case errors.Is(err, units.ErrUnknownUnit):
		return newRowError(KindUnknownUnit, "unit", err)
	case errors.Is(err, units.ErrDimensionMismatch):
		return newRowError(KindDimensionMismatch, "unit", err)
	case errors.Is(err, factors.ErrFactorNotFound):
		return newRowError(KindFactorNotFound, "activity_type", err)
	case errors.Is(err, ErrInvalidActivityValue):
		return newRowError(KindInvalidActivityValue, "activity_value", err)
	case errors.Is(err, uncertainty.ErrSimulationInstability):
		return newRowError(KindSimulationInstability, "activity_value", err)
	default:
		return err
	}
}
