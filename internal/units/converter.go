package units

import "math"

// Convert normalizes value from one unit to another.
//
// Both units must be recognized and share a dimension. Units of scalable
// dimensions are converted through the dimension's base unit with a linear
// factor. Spend and opaque units pass the value through unchanged provided
// the unit strings match exactly (after canonicalization); distinct opaque
// units are reported as a dimension mismatch.
//
// Convert is a pure function. It returns ErrNonFiniteValue if the input or
// the scaled result is Inf or NaN, an UnknownUnitError for unrecognized unit
// strings, and a DimensionMismatchError for incompatible pairs.
func Convert(value float64, from, to string) (float64, error) {
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, ErrNonFiniteValue
	}

	fromSpec, ok := lookupUnit(from)
	if !ok {
		return 0, &UnknownUnitError{Unit: from}
	}
	toSpec, ok := lookupUnit(to)
	if !ok {
		return 0, &UnknownUnitError{Unit: to}
	}

	if fromSpec.dimension != toSpec.dimension {
		return 0, &DimensionMismatchError{
			From:          from,
			To:            to,
			FromDimension: fromSpec.dimension,
			ToDimension:   toSpec.dimension,
		}
	}

	if !fromSpec.dimension.scalable() {
		// Spend and opaque units have no scale relation; only an exact
		// string match passes through.
		if canonical(from) != canonical(to) {
			return 0, &DimensionMismatchError{
				From:          from,
				To:            to,
				FromDimension: fromSpec.dimension,
				ToDimension:   toSpec.dimension,
			}
		}
		return value, nil
	}

	result := value * fromSpec.toBase / toSpec.toBase
	if math.IsInf(result, 0) || math.IsNaN(result) {
		return 0, ErrNonFiniteValue
	}
	return result, nil
}
