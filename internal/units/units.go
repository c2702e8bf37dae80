// Package units provides the SI prefix and unit tables plus the literal
// normalization pass.
package units

// SI prefix multipliers, powers of ten from 1e-15 to 1e12.
var prefixes = map[byte]float64{
	'f': 1e-15,
	'p': 1e-12,
	'n': 1e-9,
	'u': 1e-6,
	'm': 1e-3,
	'k': 1e3,
	'M': 1e6,
	'G': 1e9,
	'T': 1e12,
}

// Class groups base units by the physical quantity they measure.
type Class string

const (
	ClassResistance  Class = "resistance"
	ClassCapacitance Class = "capacitance"
	ClassInductance  Class = "inductance"
	ClassVoltage     Class = "voltage"
	ClassCurrent     Class = "current"
	ClassFrequency   Class = "frequency"
	ClassTime        Class = "time"
	ClassPower       Class = "power"
)

var baseUnits = map[string]Class{
	"ohm": ClassResistance,
	"F":   ClassCapacitance,
	"H":   ClassInductance,
	"V":   ClassVoltage,
	"A":   ClassCurrent,
	"Hz":  ClassFrequency,
	"s":   ClassTime,
	"W":   ClassPower,
}

// PrefixMultiplier returns the multiplier for an SI prefix letter.
func PrefixMultiplier(b byte) (float64, bool) {
	m, ok := prefixes[b]
	return m, ok
}

// IsBase returns true if name is a base unit (case-sensitive).
func IsBase(name string) bool {
	_, ok := baseUnits[name]
	return ok
}

// Split interprets a word as a unit spelling: either a base unit or a
// single SI prefix letter followed by a base unit. Returns the magnitude
// multiplier and the base unit name. Base units win over prefix readings,
// so "F" is farad, not femto.
func Split(word string) (mag float64, base string, ok bool) {
	if IsBase(word) {
		return 1, word, true
	}
	if len(word) > 1 {
		if m, ok := prefixes[word[0]]; ok && IsBase(word[1:]) {
			return m, word[1:], true
		}
	}
	return 0, "", false
}

// SplitSuffix is Split extended to accept a lone prefix letter, used for
// magnitudes attached directly to numbers ("10k", "10u").
func SplitSuffix(word string) (mag float64, base string, ok bool) {
	if m, b, ok := Split(word); ok {
		return m, b, true
	}
	if len(word) == 1 {
		if m, ok := prefixes[word[0]]; ok {
			return m, "", true
		}
	}
	return 0, "", false
}

// ClassOf returns the unit class of a unit spelling ("kohm" -> resistance).
func ClassOf(word string) (Class, bool) {
	_, base, ok := Split(word)
	if !ok {
		return "", false
	}
	return baseUnits[base], true
}
