package units

import "strings"

// Conversion constants to each dimension's base unit.
const (
	// GramsToKg converts grams to kilograms.
	GramsToKg = 0.001

	// TonnesToKg converts metric tonnes to kilograms.
	TonnesToKg = 1000.0

	// PoundsToKg converts pounds to kilograms.
	PoundsToKg = 0.453592

	// MillilitresToLitres converts millilitres to litres.
	MillilitresToLitres = 0.001

	// CubicMetresToLitres converts cubic metres to litres.
	CubicMetresToLitres = 1000.0

	// USGallonsToLitres converts US gallons to litres.
	USGallonsToLitres = 3.785411784

	// WhToKWh converts watt-hours to kilowatt-hours.
	WhToKWh = 0.001

	// MWhToKWh converts megawatt-hours to kilowatt-hours.
	MWhToKWh = 1000.0

	// GWhToKWh converts gigawatt-hours to kilowatt-hours.
	GWhToKWh = 1_000_000.0

	// MJToKWh converts megajoules to kilowatt-hours.
	MJToKWh = 1.0 / 3.6

	// GJToKWh converts gigajoules to kilowatt-hours.
	GJToKWh = 1000.0 / 3.6

	// ThermsToKWh converts US therms to kilowatt-hours.
	ThermsToKWh = 29.3001

	// MetresToKm converts metres to kilometres.
	MetresToKm = 0.001

	// MilesToKm converts statute miles to kilometres.
	MilesToKm = 1.609344

	// KgKmToTonneKm converts kilogram-kilometres to tonne-kilometres.
	KgKmToTonneKm = 0.001

	// ShortTonMilesToTonneKm converts US short-ton-miles to tonne-kilometres.
	ShortTonMilesToTonneKm = 0.90718474 * MilesToKm

	// SqFtYearToSqMYear converts square-foot-years to square-metre-years.
	SqFtYearToSqMYear = 0.09290304
)

// unitSpec describes one recognized unit: its dimension and the linear factor
// to that dimension's base unit. Spend and opaque units carry factor 1 and
// are never rescaled.
type unitSpec struct {
	dimension Dimension
	toBase    float64
}

// unitTable is the closed set of recognized units, keyed by the canonical
// lowercase spelling. Extending the ontology means adding a row here and a
// case to the round-trip test.
//
//nolint:gochecknoglobals // Immutable lookup table shared by all converters.
var unitTable = map[string]unitSpec{
	// Mass (base: kg)
	"g":  {DimensionMass, GramsToKg},
	"kg": {DimensionMass, 1},
	"t":  {DimensionMass, TonnesToKg},
	"lb": {DimensionMass, PoundsToKg},

	// Volume (base: L)
	"ml":  {DimensionVolume, MillilitresToLitres},
	"l":   {DimensionVolume, 1},
	"m3":  {DimensionVolume, CubicMetresToLitres},
	"gal": {DimensionVolume, USGallonsToLitres},

	// Energy (base: kWh)
	"wh":    {DimensionEnergy, WhToKWh},
	"kwh":   {DimensionEnergy, 1},
	"mwh":   {DimensionEnergy, MWhToKWh},
	"gwh":   {DimensionEnergy, GWhToKWh},
	"mj":    {DimensionEnergy, MJToKWh},
	"gj":    {DimensionEnergy, GJToKWh},
	"therm": {DimensionEnergy, ThermsToKWh},

	// Distance (base: km)
	"m":  {DimensionDistance, MetresToKm},
	"km": {DimensionDistance, 1},
	"mi": {DimensionDistance, MilesToKm},

	// Freight work (base: tonne-km)
	"tonne-km": {DimensionMassDistance, 1},
	"kg-km":    {DimensionMassDistance, KgKmToTonneKm},
	"ton-mi":   {DimensionMassDistance, ShortTonMilesToTonneKm},

	// Passenger travel work (base: passenger-km)
	"passenger-km": {DimensionPassengerDistance, 1},
	"passenger-mi": {DimensionPassengerDistance, MilesToKm},

	// Leased assets (base: m2-year)
	"m2-year":  {DimensionAreaTime, 1},
	"ft2-year": {DimensionAreaTime, SqFtYearToSqMYear},

	// Per-item factors
	"unit": {DimensionCount, 1},
	"item": {DimensionCount, 1},

	// Spend-based factors: one entry per currency, no cross-currency scaling.
	"usd": {DimensionSpend, 1},
	"eur": {DimensionSpend, 1},
	"gbp": {DimensionSpend, 1},

	// Opaque composites with no conversion defined.
	"unit-year":  {DimensionOpaque, 1},
	"room-night": {DimensionOpaque, 1},
}

// canonical normalizes a raw unit string to its table key. Matching is
// case-insensitive with surrounding whitespace ignored.
func canonical(unit string) string {
	return strings.ToLower(strings.TrimSpace(unit))
}

// lookupUnit returns the table entry for a unit string and whether it is
// recognized.
func lookupUnit(unit string) (unitSpec, bool) {
	spec, ok := unitTable[canonical(unit)]
	return spec, ok
}

// IsRecognized reports whether the unit string appears in the recognized
// unit table.
func IsRecognized(unit string) bool {
	_, ok := lookupUnit(unit)
	return ok
}

// Classify returns the dimension of a unit string. It returns an
// UnknownUnitError for strings absent from the table.
func Classify(unit string) (Dimension, error) {
	spec, ok := lookupUnit(unit)
	if !ok {
		return DimensionUnknown, &UnknownUnitError{Unit: unit}
	}
	return spec.dimension, nil
}

// Recognized returns the canonical spellings of all recognized units, in no
// particular order. Used by diagnostic tooling.
func Recognized() []string {
	names := make([]string, 0, len(unitTable))
	for name := range unitTable {
		names = append(names, name)
	}
	return names
}
