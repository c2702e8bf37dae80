// Package validate provides two-pass semantic validation of a parsed
// program: definition uniqueness, reference resolution, required
// parameters, and unit classes.
package validate

import (
	"log/slog"

	"github.com/voltlang/voltc/ast"
	"github.com/voltlang/voltc/internal/types"
	"github.com/voltlang/voltc/internal/units"
)

// requiredParam names the parameter every declaration of a type must carry,
// either as the first positional expression or as a named pair.
var requiredParam = map[string]string{
	"Resistor":      "value",
	"Capacitor":     "value",
	"Inductor":      "value",
	"VoltageSource": "value",
	"CurrentSource": "value",
	"Diode":         "model",
	"BJT":           "model",
	"MOSFET":        "model",
	"OpAmp":         "model",
}

// permittedClass is the unit class each component type accepts. Types
// absent from the table take no unit at all.
var permittedClass = map[string]units.Class{
	"Resistor":      units.ClassResistance,
	"Capacitor":     units.ClassCapacitance,
	"Inductor":      units.ClassInductance,
	"VoltageSource": units.ClassVoltage,
	"CurrentSource": units.ClassCurrent,
}

// Validator checks a program and accumulates errors and warnings in the
// sink. Any error blocks interpretation.
type Validator struct {
	sink *types.Sink
	types.Logger
}

// New returns a Validator appending to sink.
func New(sink *types.Sink, logger *slog.Logger) *Validator {
	return &Validator{
		sink:   sink,
		Logger: types.Logger{L: logger},
	}
}

// scope tracks the names defined in one lexical scope. Lookups walk the
// parent chain; uniqueness is checked against the direct scope only, so a
// body-local name may shadow an unrelated top-level one and never leaks
// outward.
type scope struct {
	parent *scope
	names  map[string]types.Pos
}

func newScope() *scope {
	return &scope{names: make(map[string]types.Pos)}
}

func (s *scope) child() *scope {
	return &scope{parent: s, names: make(map[string]types.Pos)}
}

func (s *scope) define(v *Validator, name string, pos types.Pos) {
	if _, dup := s.names[name]; dup {
		v.sink.Error(types.DiagDuplicateDefinition, pos, "%q is already defined in this scope", name)
		return
	}
	s.names[name] = pos
}

func (s *scope) has(name string) bool {
	for sc := s; sc != nil; sc = sc.parent {
		if _, ok := sc.names[name]; ok {
			return true
		}
	}
	return false
}

// Check runs both validation passes over the program.
func (v *Validator) Check(p *ast.Program) {
	top := newScope()

	// Pass 1: collect top-level definitions, flagging duplicates.
	for _, item := range p.Items {
		switch n := item.(type) {
		case *ast.VariableDecl:
			top.define(v, n.Name, n.Pos)
		case *ast.MacroDef:
			top.define(v, n.Name, n.Pos)
		case *ast.Subcircuit:
			top.define(v, n.Name, n.Pos)
		case *ast.Component:
			top.define(v, n.Name, n.Pos)
		case *ast.Instance:
			top.define(v, n.Name, n.Pos)
		}
	}

	// Pass 2: references, required parameters, unit classes.
	for _, item := range p.Items {
		switch n := item.(type) {
		case *ast.Component:
			v.component(n, top)
		case *ast.Connection:
			v.connection(n, top)
		case *ast.Instance:
			v.instance(n, p, top)
		case *ast.VariableDecl:
			v.expr(n.Value, top)
		case *ast.Subcircuit:
			v.subcircuitBody(n, p, top)
		case *ast.MacroDef:
			v.macroBody(n, p, top)
		case *ast.MacroCall:
			for _, a := range n.Args {
				v.expr(a, top)
			}
		case *ast.ForLoop:
			v.forLoop(n, p, top)
		}
	}

	if len(p.Analyses) == 0 {
		v.sink.Warn(types.DiagNoAnalysis, types.Pos{}, "program has no analysis block")
	}

	v.Log(slog.LevelDebug, "validation complete",
		slog.Int("diagnostics", len(v.sink.Diagnostics)))
}

func (v *Validator) component(c *ast.Component, sc *scope) {
	required, known := requiredParam[c.Type]
	if !known {
		v.sink.Error(types.DiagUnknownComponent, c.Pos, "unknown component type %q", c.Type)
		return
	}

	seen := make(map[string]bool)
	for _, a := range c.Named {
		if seen[a.Name] {
			v.sink.Error(types.DiagDuplicateParameter, a.Pos,
				"duplicate parameter %q on %s", a.Name, c.Name)
		}
		seen[a.Name] = true
		v.expr(a.Value, sc)
	}
	for _, e := range c.Positional {
		v.expr(e, sc)
	}

	if len(c.Positional) == 0 && c.NamedValue(required) == nil {
		v.sink.Error(types.DiagMissingParameter, c.Pos,
			"%s %s is missing required parameter %q", c.Type, c.Name, required)
	}

	v.checkUnit(c)
}

// checkUnit validates the declared unit, when one is present, against the
// component type's permitted unit class.
func (v *Validator) checkUnit(c *ast.Component) {
	unit, pos := declaredUnit(c)
	if unit == "" {
		return
	}

	class, ok := units.ClassOf(unit)
	if !ok {
		// A lone SI prefix ("k") carries magnitude but no unit class.
		return
	}

	want, expects := permittedClass[c.Type]
	if !expects {
		v.sink.Error(types.DiagUnitMismatch, pos,
			"%s %s takes no unit, have %q", c.Type, c.Name, unit)
		return
	}
	if class != want {
		v.sink.Error(types.DiagUnitMismatch, pos,
			"unit %q is %s, but %s expects %s", unit, class, c.Type, want)
	}
}

// declaredUnit finds the unit a component declaration carries: attached to
// its value literal, as a bare unit parameter, or as a `unit=` named pair.
func declaredUnit(c *ast.Component) (string, types.Pos) {
	exprs := make([]ast.Expr, 0, len(c.Positional)+1)
	exprs = append(exprs, c.Positional...)
	if e := c.NamedValue("value"); e != nil {
		exprs = append(exprs, e)
	}
	if e := c.NamedValue("unit"); e != nil {
		exprs = append(exprs, e)
	}
	for _, e := range exprs {
		if lit, ok := e.(*ast.Literal); ok && lit.Unit != "" {
			return lit.Unit, lit.Pos
		}
	}
	return "", types.Pos{}
}

func (v *Validator) connection(c *ast.Connection, sc *scope) {
	if len(c.Endpoints) < 2 {
		v.sink.Error(types.DiagConnectionArity, c.Pos,
			"connection requires at least 2 endpoints, have %d", len(c.Endpoints))
	}
	for _, ep := range c.Endpoints {
		if t, ok := ep.(*ast.TerminalRef); ok {
			if !sc.has(t.Component) {
				v.sink.Error(types.DiagUndefinedReference, t.Pos,
					"undefined component %q", t.Component)
			}
		}
	}
}

func (v *Validator) instance(inst *ast.Instance, p *ast.Program, sc *scope) {
	tmpl := p.Subcircuit(inst.Template)
	if tmpl == nil {
		v.sink.Error(types.DiagUnknownSubcircuit, inst.Pos,
			"unknown subcircuit %q", inst.Template)
		return
	}
	for _, b := range inst.Bindings {
		if !tmpl.HasPort(b.Name) && !tmpl.HasParam(b.Name) {
			v.sink.Error(types.DiagUnknownPort, b.Pos,
				"subcircuit %q has no port or parameter %q", inst.Template, b.Name)
		}
		// Port binding targets name nets, not variables; only parameter
		// overrides are expressions to resolve.
		if tmpl.HasParam(b.Name) {
			v.expr(b.Value, sc)
		}
	}
}

// subcircuitBody validates a template body in a child scope seeded with
// the ports and parameters. Body names are unique within the body alone.
func (v *Validator) subcircuitBody(sub *ast.Subcircuit, p *ast.Program, outer *scope) {
	sc := outer.child()
	for _, port := range sub.Ports {
		sc.names[port.Name] = port.Pos
	}
	for _, prm := range sub.Params {
		if prm.Default != nil {
			v.expr(prm.Default, outer)
		}
		sc.names[prm.Name] = prm.Pos
	}
	for _, c := range sub.Components {
		sc.define(v, c.Name, c.Pos)
	}
	for _, inst := range sub.Instances {
		sc.define(v, inst.Name, inst.Pos)
	}
	for _, c := range sub.Components {
		v.component(c, sc)
	}
	for _, inst := range sub.Instances {
		v.instance(inst, p, sc)
	}
	for _, conn := range sub.Connections {
		v.connection(conn, sc)
	}
}

// macroBody validates a macro body in a child scope holding the macro's
// parameters.
func (v *Validator) macroBody(m *ast.MacroDef, p *ast.Program, outer *scope) {
	sc := outer.child()
	for _, prm := range m.Params {
		sc.names[prm] = m.Pos
	}
	v.body(m.Body, p, sc)
}

func (v *Validator) forLoop(loop *ast.ForLoop, p *ast.Program, outer *scope) {
	v.expr(loop.Iterable, outer)
	sc := outer.child()
	sc.names[loop.Var] = loop.Pos
	v.body(loop.Body, p, sc)
}

func (v *Validator) body(body []ast.Stmt, p *ast.Program, sc *scope) {
	for _, stmt := range body {
		switch n := stmt.(type) {
		case *ast.Component:
			sc.define(v, n.Name, n.Pos)
		case *ast.Instance:
			sc.define(v, n.Name, n.Pos)
		case *ast.VariableDecl:
			sc.define(v, n.Name, n.Pos)
		}
	}
	for _, stmt := range body {
		switch n := stmt.(type) {
		case *ast.Component:
			v.component(n, sc)
		case *ast.Connection:
			v.connection(n, sc)
		case *ast.Instance:
			v.instance(n, p, sc)
		case *ast.VariableDecl:
			v.expr(n.Value, sc)
		case *ast.MacroCall:
			for _, a := range n.Args {
				v.expr(a, sc)
			}
		case *ast.ForLoop:
			v.forLoop(n, p, sc)
		}
	}
}

// expr flags identifiers that resolve to nothing in scope. Function names
// are checked by the evaluator's builtin table, not here.
func (v *Validator) expr(e ast.Expr, sc *scope) {
	switch n := e.(type) {
	case *ast.Literal:
	case *ast.Identifier:
		if !sc.has(n.Name) {
			v.sink.Error(types.DiagUndefinedReference, n.Pos, "undefined reference %q", n.Name)
		}
	case *ast.BinaryExpr:
		v.expr(n.Left, sc)
		v.expr(n.Right, sc)
	case *ast.UnaryExpr:
		v.expr(n.Operand, sc)
	case *ast.Call:
		for _, a := range n.Args {
			v.expr(a, sc)
		}
	case *ast.ArrayLit:
		for _, el := range n.Elements {
			v.expr(el, sc)
		}
	}
}
