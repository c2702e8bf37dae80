package types

// Diagnostic codes emitted by the validator, evaluator, expander, flattener,
// resolver, and formatter phases. Centralizing these prevents silent
// breakage from typos in string literals.

// Validator diagnostic codes.
const (
	DiagDuplicateDefinition = "duplicate-definition"
	DiagUndefinedReference  = "undefined-reference"
	DiagMissingParameter    = "missing-parameter"
	DiagUnitMismatch        = "unit-mismatch"
	DiagUnknownComponent    = "unknown-component-type"
	DiagConnectionArity     = "connection-arity"
	DiagUnknownPort         = "unknown-port"
	DiagDuplicateParameter  = "duplicate-parameter"
	DiagNoAnalysis          = "no-analysis"
)

// Evaluator diagnostic codes.
const (
	DiagDivisionByZero    = "division-by-zero"
	DiagUnknownIdentifier = "unknown-identifier"
	DiagUnknownFunction   = "unknown-function"
	DiagUnknownOperator   = "unknown-operator"
	DiagBadArgument       = "bad-argument"
)

// Expander diagnostic codes.
const (
	DiagUnknownMacro    = "unknown-macro"
	DiagBadIterable     = "bad-iterable"
	DiagExpansionDepth  = "expansion-depth"
	DiagMacroArgUnbound = "macro-argument-unbound"
)

// Flattener diagnostic codes.
const (
	DiagUnknownSubcircuit = "unknown-subcircuit"
	DiagFlattenDepth      = "flatten-depth"
	DiagUnboundPort       = "unbound-port"
)

// Formatter diagnostic codes.
const (
	DiagFormatFailure = "format-failure"
)

// DiagCodeInfo describes a diagnostic code and the phase that emits it.
type DiagCodeInfo struct {
	Code  string
	Phase string
}

// AllDiagnosticCodes returns all known diagnostic codes grouped by phase.
func AllDiagnosticCodes() []DiagCodeInfo {
	return []DiagCodeInfo{
		// Validator
		{Code: DiagDuplicateDefinition, Phase: "validate"},
		{Code: DiagUndefinedReference, Phase: "validate"},
		{Code: DiagMissingParameter, Phase: "validate"},
		{Code: DiagUnitMismatch, Phase: "validate"},
		{Code: DiagUnknownComponent, Phase: "validate"},
		{Code: DiagConnectionArity, Phase: "validate"},
		{Code: DiagUnknownPort, Phase: "validate"},
		{Code: DiagDuplicateParameter, Phase: "validate"},
		{Code: DiagNoAnalysis, Phase: "validate"},
		// Evaluator
		{Code: DiagDivisionByZero, Phase: "eval"},
		{Code: DiagUnknownIdentifier, Phase: "eval"},
		{Code: DiagUnknownFunction, Phase: "eval"},
		{Code: DiagUnknownOperator, Phase: "eval"},
		{Code: DiagBadArgument, Phase: "eval"},
		// Expander
		{Code: DiagUnknownMacro, Phase: "expand"},
		{Code: DiagBadIterable, Phase: "expand"},
		{Code: DiagExpansionDepth, Phase: "expand"},
		{Code: DiagMacroArgUnbound, Phase: "expand"},
		// Flattener
		{Code: DiagUnknownSubcircuit, Phase: "flatten"},
		{Code: DiagFlattenDepth, Phase: "flatten"},
		{Code: DiagUnboundPort, Phase: "flatten"},
		// Formatter
		{Code: DiagFormatFailure, Phase: "netlist"},
	}
}
