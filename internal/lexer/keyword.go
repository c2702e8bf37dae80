package lexer

// Keyword and component-type tables. Word lookup order matters: keywords
// and component types are tried before units, and units before the generic
// identifier, so none of them are swallowed by it.
//
// The loop word "in" is deliberately not a keyword: it is a popular port
// and node name, so the parser matches it contextually.

var keywords = map[string]TokenKind{
	"Connect":    TokKwConnect,
	"Subcircuit": TokKwSubcircuit,
	"Simulate":   TokKwSimulate,
	"analysis":   TokKwSimulate,
	"Macro":      TokKwMacro,
	"For":        TokKwFor,
	"Import":     TokKwImport,

	"dc":         TokKwDc,
	"ac":         TokKwAc,
	"transient":  TokKwTransient,
	"noise":      TokKwNoise,
	"paramSweep": TokKwParamSweep,
	"monteCarlo": TokKwMonteCarlo,
	"plot":       TokKwPlot,
}

// componentTypes is the fixed component vocabulary.
var componentTypes = map[string]bool{
	"Resistor":      true,
	"Capacitor":     true,
	"Inductor":      true,
	"VoltageSource": true,
	"CurrentSource": true,
	"Diode":         true,
	"BJT":           true,
	"MOSFET":        true,
	"OpAmp":         true,
}

// LookupWord classifies a scanned word as a keyword or component type.
func LookupWord(text string) (TokenKind, bool) {
	if kind, ok := keywords[text]; ok {
		return kind, true
	}
	if componentTypes[text] {
		return TokComponent, true
	}
	return TokIdent, false
}

// IsComponentType returns true if name is a component-type keyword.
func IsComponentType(name string) bool {
	return componentTypes[name]
}
