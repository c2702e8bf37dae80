// Package netlist renders a flat, resolved circuit as SPICE text lines.
//
// Each component emits one line in its type family's form. Terminal slots
// resolve by trying the component's declared terminal names, then the
// positional names "1","2",…, then the family's semantic aliases; a
// terminal nothing connected to defaults to ground. A failure on one
// component records a diagnostic and the remaining components still emit.
package netlist

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/voltlang/voltc/ast"
	"github.com/voltlang/voltc/internal/eval"
	"github.com/voltlang/voltc/internal/flatten"
	"github.com/voltlang/voltc/internal/resolve"
	"github.com/voltlang/voltc/internal/types"
	"github.com/voltlang/voltc/internal/units"
)

// slotAliases lists, per component type, the accepted names for each
// terminal slot in emission order. The leading entries of optional slots
// (BJT substrate, MOSFET bulk, OpAmp rails) emit only when bound.
var slotAliases = map[string][][]string{
	"Resistor":      {{"positive", "p", "plus"}, {"negative", "n", "minus"}},
	"Capacitor":     {{"positive", "p", "plus"}, {"negative", "n", "minus"}},
	"Inductor":      {{"positive", "p", "plus"}, {"negative", "n", "minus"}},
	"VoltageSource": {{"positive", "p", "plus"}, {"negative", "n", "minus"}},
	"CurrentSource": {{"positive", "p", "plus"}, {"negative", "n", "minus"}},
	"Diode":         {{"anode", "positive"}, {"cathode", "negative"}},
	"BJT":           {{"collector"}, {"base"}, {"emitter"}, {"substrate"}},
	"MOSFET":        {{"drain"}, {"gate"}, {"source"}, {"bulk", "body"}},
	"OpAmp":         {{"non_inverting", "plus"}, {"inverting", "minus"}, {"output", "out"}, {"vcc", "vdd"}, {"vee", "vss"}},
}

// requiredSlots is how many leading slots always emit; later slots are
// optional and emit only when something is bound to them.
var requiredSlots = map[string]int{
	"BJT":    3,
	"MOSFET": 3,
	"OpAmp":  3,
}

// Formatter renders one circuit. Directive arguments evaluate against the
// global environment carried over from expansion.
type Formatter struct {
	sink *types.Sink
	ev   *eval.Evaluator
	env  *eval.Env
	types.Logger
}

// New returns a Formatter writing diagnostics to sink.
func New(sink *types.Sink, ev *eval.Evaluator, env *eval.Env, logger *slog.Logger) *Formatter {
	return &Formatter{
		sink:   sink,
		ev:     ev,
		env:    env,
		Logger: types.Logger{L: logger},
	}
}

// Format emits component lines in declaration order, then analysis
// directives and plots.
func (f *Formatter) Format(c *flatten.Circuit, t *resolve.Table) []string {
	var lines []string
	for _, comp := range c.Components {
		line, err := f.component(comp, t)
		if err != nil {
			f.sink.Error(types.DiagFormatFailure, comp.Pos,
				"cannot format component %q: %v", comp.Name, err)
			continue
		}
		lines = append(lines, line)
	}
	for _, block := range c.Analyses {
		lines = append(lines, f.analysis(block, c, t)...)
	}
	f.Log(slog.LevelDebug, "netlist formatted", slog.Int("lines", len(lines)))
	return lines
}

func (f *Formatter) component(comp *ast.Component, t *resolve.Table) (string, error) {
	aliases, known := slotAliases[comp.Type]
	if !known {
		return f.genericLine(comp, t), nil
	}

	nets := make([]int, len(aliases))
	bound := make([]bool, len(aliases))
	for i := range aliases {
		nets[i], bound[i] = f.slotNet(comp, i, aliases[i], t)
	}
	required := len(aliases)
	if n, ok := requiredSlots[comp.Type]; ok {
		required = n
	}
	var fields []string
	fields = append(fields, comp.Name)
	for i := range aliases {
		if i >= required && !bound[i] {
			continue
		}
		fields = append(fields, fmt.Sprintf("%d", nets[i]))
	}

	switch comp.Type {
	case "Resistor", "Capacitor", "Inductor":
		value, unit, err := f.valueOf(comp)
		if err != nil {
			return "", err
		}
		fields = append(fields, FormatValue(value, unit))
		fields = append(fields, f.extraParams(comp)...)
	case "VoltageSource", "CurrentSource":
		values, unit, err := f.sourceValues(comp)
		if err != nil {
			return "", err
		}
		fields = append(fields, "DC", FormatValue(values[0], unit))
		if len(values) > 1 {
			fields = append(fields, "AC", FormatValue(values[1], unit))
		}
		fields = append(fields, f.extraParams(comp)...)
	case "Diode", "BJT", "MOSFET", "OpAmp":
		model, err := f.modelOf(comp)
		if err != nil {
			return "", err
		}
		fields = append(fields, model)
		fields = append(fields, f.extraParams(comp)...)
	}
	return strings.Join(fields, " "), nil
}

// slotNet resolves one terminal slot: the declared terminal name for that
// position wins, then the positional name, then the semantic aliases.
// An unbound slot is ground.
func (f *Formatter) slotNet(comp *ast.Component, slot int, aliases []string, t *resolve.Table) (int, bool) {
	if slot < len(comp.Terminals) {
		if id, ok := t.NetOf(comp.Name, comp.Terminals[slot]); ok {
			return id, true
		}
	}
	if id, ok := t.NetOf(comp.Name, fmt.Sprintf("%d", slot+1)); ok {
		return id, true
	}
	for _, alias := range aliases {
		if id, ok := t.NetOf(comp.Name, alias); ok {
			return id, true
		}
	}
	return resolve.Ground, false
}

// valueOf extracts a passive's value and declared base unit. The value is
// the named `value` parameter or the first non-unit positional.
func (f *Formatter) valueOf(comp *ast.Component) (float64, string, error) {
	unit, scale := declaredUnit(comp)
	if arg := comp.NamedValue("value"); arg != nil {
		return f.number(arg) * scale, unit, nil
	}
	for _, e := range comp.Positional {
		if isBareUnit(e) {
			continue
		}
		return f.number(e) * scale, unit, nil
	}
	return 0, "", fmt.Errorf("no value parameter")
}

// sourceValues gathers a source's numeric parameters: one means DC only,
// two or more mean DC plus AC magnitude.
func (f *Formatter) sourceValues(comp *ast.Component) ([]float64, string, error) {
	unit, scale := declaredUnit(comp)
	var values []float64
	for _, e := range comp.Positional {
		if isBareUnit(e) {
			continue
		}
		values = append(values, f.number(e)*scale)
	}
	if arg := comp.NamedValue("value"); arg != nil {
		values = append([]float64{f.number(arg) * scale}, values...)
	}
	if len(values) == 0 {
		return nil, "", fmt.Errorf("no value parameter")
	}
	return values, unit, nil
}

// modelOf extracts an active device's model name from the named `model`
// parameter or the first string positional.
func (f *Formatter) modelOf(comp *ast.Component) (string, error) {
	if arg := comp.NamedValue("model"); arg != nil {
		if lit, ok := arg.(*ast.Literal); ok && lit.IsStr {
			return lit.Str, nil
		}
		if id, ok := arg.(*ast.Identifier); ok {
			return id.Name, nil
		}
		return "", fmt.Errorf("model parameter is not a name")
	}
	for _, e := range comp.Positional {
		if lit, ok := e.(*ast.Literal); ok && lit.IsStr && !isBareUnit(e) {
			return lit.Str, nil
		}
		if id, ok := e.(*ast.Identifier); ok {
			return id.Name, nil
		}
	}
	return "", fmt.Errorf("no model parameter")
}

// extraParams renders remaining named parameters as key=value pairs, in
// declaration order, skipping the ones already consumed by the line form.
func (f *Formatter) extraParams(comp *ast.Component) []string {
	var out []string
	for _, arg := range comp.Named {
		switch arg.Name {
		case "value", "unit", "model":
			continue
		}
		out = append(out, fmt.Sprintf("%s=%s", arg.Name, f.text(arg.Value)))
	}
	return out
}

// genericLine is the fallback for an unrecognized type: name, the nets of
// every bound terminal in first-bound order, and the value when present.
func (f *Formatter) genericLine(comp *ast.Component, t *resolve.Table) string {
	fields := []string{comp.Name}
	for _, term := range t.Order[comp.Name] {
		if id, ok := t.NetOf(comp.Name, term); ok {
			fields = append(fields, fmt.Sprintf("%d", id))
		}
	}
	if value, unit, err := f.valueOf(comp); err == nil {
		fields = append(fields, FormatValue(value, unit))
	}
	return strings.Join(fields, " ")
}

func (f *Formatter) analysis(block *ast.AnalysisBlock, c *flatten.Circuit, t *resolve.Table) []string {
	var lines []string
	for _, dir := range block.Directives {
		switch d := dir.(type) {
		case *ast.DCDirective:
			lines = append(lines, ".OP")
			if comment, ok := f.operatingPoint(c); ok {
				lines = append(lines, comment)
			}
		case *ast.TransientDirective:
			// Directive order in source is start, stop, step; SPICE
			// wants step first.
			lines = append(lines, fmt.Sprintf(".TRAN %s %s %s",
				f.text(d.Step), f.text(d.Stop), f.text(d.Start)))
		case *ast.ACDirective:
			lines = append(lines, ".AC"+f.argList(d.Args))
		case *ast.NoiseDirective:
			lines = append(lines, ".NOISE"+f.signalList(d.Args))
		case *ast.ParamSweepDirective:
			lines = append(lines, fmt.Sprintf(".STEP PARAM %s %s %s %s",
				d.Param, f.text(d.Start), f.text(d.Stop), f.text(d.Step)))
		case *ast.MonteCarloDirective:
			lines = append(lines, fmt.Sprintf(".MC %s", f.text(d.Runs)))
		}
	}
	for _, plot := range block.Plots {
		lines = append(lines, ".PLOT"+f.signalList(plot.Args))
	}
	return lines
}

// operatingPoint emits a computed DC current comment for the single-source
// single-resistor circuit, matching the interactive tooling's quick check.
func (f *Formatter) operatingPoint(c *flatten.Circuit) (string, bool) {
	if len(c.Components) != 2 {
		return "", false
	}
	var source, res *ast.Component
	for _, comp := range c.Components {
		switch comp.Type {
		case "VoltageSource":
			source = comp
		case "Resistor":
			res = comp
		}
	}
	if source == nil || res == nil {
		return "", false
	}
	v, _, err := f.valueOf(source)
	if err != nil {
		return "", false
	}
	r, _, err := f.valueOf(res)
	if err != nil || r == 0 {
		return "", false
	}
	return fmt.Sprintf("* OP: I(%s) = %sA", source.Name, FormatValue(v/r, "")), true
}

func (f *Formatter) argList(args []ast.Expr) string {
	var sb strings.Builder
	for _, arg := range args {
		sb.WriteByte(' ')
		sb.WriteString(f.text(arg))
	}
	return sb.String()
}

// signalList renders noise and plot arguments. Identifiers name nets or
// sources, so they pass through as names instead of evaluating.
func (f *Formatter) signalList(args []ast.Expr) string {
	var sb strings.Builder
	for _, arg := range args {
		sb.WriteByte(' ')
		if id, ok := arg.(*ast.Identifier); ok {
			sb.WriteString(id.Name)
			continue
		}
		sb.WriteString(f.text(arg))
	}
	return sb.String()
}

// number evaluates an expression to its numeric value against the global
// environment. Post-expansion these are almost always folded literals.
func (f *Formatter) number(e ast.Expr) float64 {
	return f.ev.Number(e, f.env)
}

// text renders an expression value as a netlist field.
func (f *Formatter) text(e ast.Expr) string {
	switch v := f.ev.Eval(e, f.env).(type) {
	case float64:
		return formatNumber(v)
	case string:
		return v
	}
	return "0"
}

// declaredUnit finds the base unit a component's value was declared in,
// along with the multiplier a detached unit spelling applies to the value:
// the `mA` in `CurrentSource I1(2, mA)` scales it by 1e-3. A unit attached
// to the number itself is folded in during normalization, so its scale
// here is 1.
func declaredUnit(comp *ast.Component) (string, float64) {
	if arg := comp.NamedValue("unit"); arg != nil {
		if lit, ok := arg.(*ast.Literal); ok {
			if lit.Unit != "" {
				return baseUnit(lit.Unit), unitScale(lit.Unit)
			}
			if lit.IsStr {
				return baseUnit(lit.Str), unitScale(lit.Str)
			}
		}
	}
	if arg := comp.NamedValue("value"); arg != nil {
		if lit, ok := arg.(*ast.Literal); ok && lit.Unit != "" {
			return baseUnit(lit.Unit), 1
		}
	}
	for _, e := range comp.Positional {
		if lit, ok := e.(*ast.Literal); ok && lit.Unit != "" {
			if lit.IsStr {
				return baseUnit(lit.Unit), unitScale(lit.Unit)
			}
			return baseUnit(lit.Unit), 1
		}
	}
	return "", 1
}

// unitScale returns the magnitude a unit spelling carries on its own,
// like 1e-3 for "mA" or 1e3 for "kohm".
func unitScale(word string) float64 {
	if mag, _, ok := units.Split(word); ok {
		return mag
	}
	return 1
}

func baseUnit(word string) string {
	if _, base, ok := units.Split(word); ok {
		return base
	}
	return ""
}

// isBareUnit reports whether an expression is a lone unit word used as a
// positional parameter, like the `ohm` in `Resistor R1(1000, ohm)`.
func isBareUnit(e ast.Expr) bool {
	lit, ok := e.(*ast.Literal)
	return ok && lit.IsStr && lit.Unit != ""
}
