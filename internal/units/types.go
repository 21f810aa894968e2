// Package units provides dimensional unit validation and normalization for
// activity quantities.
//
// It classifies unit strings into a closed set of dimensions (mass, energy,
// distance, ...) and converts values between units of the same dimension
// using linear scale factors. Units of different dimensions are never
// convertible; spend and other opaque units only match themselves. The closed
// table keeps unknown-unit and dimension-mismatch behavior explicit and
// testable instead of depending on a general dimensional-analysis library.
package units

import "fmt"

// Dimension is the physical category a unit belongs to. Conversions are only
// defined between units of the same dimension.
type Dimension int

const (
	// DimensionUnknown is the zero value; no recognized unit carries it.
	DimensionUnknown Dimension = iota

	// DimensionMass covers weight-based activity data (kg of fuel, t of waste).
	DimensionMass

	// DimensionVolume covers liquid quantities (L of diesel, m3 of gas).
	DimensionVolume

	// DimensionEnergy covers energy consumption (kWh of electricity, GJ of heat).
	DimensionEnergy

	// DimensionDistance covers travel and freight distances.
	DimensionDistance

	// DimensionMassDistance covers freight work (tonne-km).
	DimensionMassDistance

	// DimensionPassengerDistance covers passenger travel work (passenger-km).
	DimensionPassengerDistance

	// DimensionAreaTime covers leased-asset style factors (m2-year).
	DimensionAreaTime

	// DimensionCount covers per-item factors (unit, item).
	DimensionCount

	// DimensionSpend covers currency-denominated factors. Each currency is
	// only convertible to itself; cross-currency conversion is a collaborator
	// concern (exchange rates change daily, factors do not).
	DimensionSpend

	// DimensionOpaque covers unit strings with no conversion defined, such as
	// "unit-year". Opaque units only match themselves exactly.
	DimensionOpaque
)

// String returns the human-readable label for a Dimension.
func (d Dimension) String() string {
	switch d {
	case DimensionMass:
		return "mass"
	case DimensionVolume:
		return "volume"
	case DimensionEnergy:
		return "energy"
	case DimensionDistance:
		return "distance"
	case DimensionMassDistance:
		return "mass-distance"
	case DimensionPassengerDistance:
		return "passenger-distance"
	case DimensionAreaTime:
		return "area-time"
	case DimensionCount:
		return "count"
	case DimensionSpend:
		return "spend"
	case DimensionOpaque:
		return "opaque"
	default:
		return fmt.Sprintf("dimension(%d)", int(d))
	}
}

// scalable reports whether values can be rescaled between distinct units of
// this dimension. Spend and opaque units pass through unchanged and only
// match themselves.
func (d Dimension) scalable() bool {
	return d != DimensionSpend && d != DimensionOpaque
}
