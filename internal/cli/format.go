package cli

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer is the locale-aware message printer for number formatting.
// Uses English locale for consistent thousand separators.
//
//nolint:gochecknoglobals // Shared printer, construction is not cheap.
var printer = message.NewPrinter(language.English)

// emissionPrecision is the number of decimal places shown for kgCO2e values.
// Display-only; the engine itself never rounds.
const emissionPrecision = 3

// formatKg renders a kgCO2e value with thousand separators.
// Example: formatKg(1234.5678) returns "1,234.568 kgCO2e".
func formatKg(v float64) string {
	return printer.Sprintf("%.*f kgCO2e", emissionPrecision, v)
}

// formatFactor renders a factor value with its declared unit.
func formatFactor(value float64, unit string) string {
	return fmt.Sprintf("%g kgCO2e/%s", value, unit)
}
