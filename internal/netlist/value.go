package netlist

import (
	"math"
	"strconv"
)

// suffix scales in descending order. SPICE treats "M" as milli, so the
// mega suffix is spelled "Meg".
var suffixes = []struct {
	scale  float64
	letter string
}{
	{1e12, "T"},
	{1e9, "G"},
	{1e6, "Meg"},
	{1e3, "k"},
	{1, ""},
	{1e-3, "m"},
	{1e-6, "u"},
	{1e-9, "n"},
	{1e-12, "p"},
	{1e-15, "f"},
}

// FormatValue renders a numeric value with an engineering magnitude
// suffix and the declared base unit, so 1500 with unit ohm becomes
// "1.5k" and 9 with unit V becomes "9V". The ohm unit is dropped since a
// resistance card needs no unit letter.
func FormatValue(v float64, unit string) string {
	if unit == "ohm" {
		unit = ""
	}
	return formatNumber(v) + unit
}

func formatNumber(v float64) string {
	if v == 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	abs := math.Abs(v)
	for _, s := range suffixes {
		if abs < s.scale {
			continue
		}
		scaled := v / s.scale
		// Skip suffixes that leave an awkward mantissa, like 0.0015
		// for 1.5e-15 under "p".
		if math.Abs(scaled) >= 1000 {
			break
		}
		// Dividing by a power of ten leaves binary noise (1e-5/1e-6 is
		// 10.000000000000002), so cap the mantissa at ten significant
		// digits.
		return strconv.FormatFloat(scaled, 'g', 10, 64) + s.letter
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
