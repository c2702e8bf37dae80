// Package flatten inlines subcircuit instances into a single flat circuit.
//
// Every component and connection inside a template is copied per instance
// with a dotted prefix (instance name plus "."), so `R1` inside instance
// `d1` becomes `d1.R1`. Plain endpoint names matching a template port are
// substituted with the instance's connection target; all other local names
// are prefixed for locality. Nested instances flatten recursively,
// inner-first, with their prefixes composed. A circuit without instances
// passes through unchanged.
package flatten

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/voltlang/voltc/ast"
	"github.com/voltlang/voltc/internal/eval"
	"github.com/voltlang/voltc/internal/expand"
	"github.com/voltlang/voltc/internal/types"
)

// DefaultMaxDepth bounds instance nesting. Cyclic templates hit the bound
// and report a diagnostic instead of recursing unbounded.
const DefaultMaxDepth = 64

// Circuit is the flat result: concrete components and connections with no
// remaining hierarchy.
type Circuit struct {
	Components  []*ast.Component
	Connections []*ast.Connection
	Analyses    []*ast.AnalysisBlock
}

// Flattener inlines instances from one expanded program. Templates come
// from the program and are never mutated.
type Flattener struct {
	prog        *ast.Program
	sink        *types.Sink
	ev          *eval.Evaluator
	maxDepth    int
	unconnected int
	types.Logger
}

// New returns a Flattener for prog. maxDepth <= 0 selects DefaultMaxDepth.
func New(prog *ast.Program, sink *types.Sink, ev *eval.Evaluator, maxDepth int, logger *slog.Logger) *Flattener {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Flattener{
		prog:     prog,
		sink:     sink,
		ev:       ev,
		maxDepth: maxDepth,
		Logger:   types.Logger{L: logger},
	}
}

// Flatten inlines every instance in res. Top-level components and
// connections carry over as-is ahead of the inlined copies.
func (f *Flattener) Flatten(res *expand.Result) *Circuit {
	out := &Circuit{
		Components:  res.Components,
		Connections: res.Connections,
		Analyses:    res.Analyses,
	}
	for _, inst := range res.Instances {
		f.instantiate(inst, nil, "", res.Env, 0, out)
	}
	if len(res.Instances) > 0 {
		f.Log(slog.LevelDebug, "flattening complete",
			slog.Int("instances", len(res.Instances)),
			slog.Int("components", len(out.Components)))
	}
	return out
}

// instantiate inlines one instance. enclosing holds the port targets of
// the template the instance appears in, nil for a top-level instance;
// prefix is the flat-name prefix accumulated from enclosing instances.
func (f *Flattener) instantiate(inst *ast.Instance, enclosing map[string]ast.Endpoint, prefix string, parentEnv *eval.Env, depth int, out *Circuit) {
	if depth >= f.maxDepth {
		f.sink.Error(types.DiagFlattenDepth, inst.Pos,
			"subcircuit nesting exceeds depth limit %d", f.maxDepth)
		return
	}
	name := prefix + inst.Name
	tmpl := f.prog.Subcircuit(inst.Template)
	if tmpl == nil {
		f.sink.Error(types.DiagUnknownSubcircuit, inst.Pos,
			"unknown subcircuit %q for instance %q", inst.Template, name)
		return
	}

	selfPrefix := name + "."
	targets := f.portTargets(inst, tmpl, name, enclosing, prefix)

	env := eval.NewEnv(parentEnv)
	for _, param := range tmpl.Params {
		if b := inst.Binding(param.Name); b != nil {
			env.Define(param.Name, f.ev.Eval(b, parentEnv))
		} else if param.Default != nil {
			env.Define(param.Name, f.ev.Eval(param.Default, parentEnv))
		} else {
			env.Define(param.Name, float64(0))
		}
	}

	// Inner instances first, mirroring flat emission of the deepest
	// hierarchy level before the enclosing one.
	for _, nested := range tmpl.Instances {
		f.instantiate(nested, targets, selfPrefix, env, depth+1, out)
	}
	for _, comp := range tmpl.Components {
		out.Components = append(out.Components, f.localComponent(comp, selfPrefix, env))
	}
	for _, conn := range tmpl.Connections {
		out.Connections = append(out.Connections, f.localConnection(conn, selfPrefix, targets))
	}

	if f.TraceEnabled() {
		f.Trace("instance flattened",
			slog.String("instance", name),
			slog.String("template", inst.Template),
			slog.Int("depth", depth))
	}
}

// portTargets resolves each template port to the endpoint it connects to
// in the parent scope. An unbound port gets a synthesized UNCONNECTED_n
// net and a warning rather than a hard failure.
func (f *Flattener) portTargets(inst *ast.Instance, tmpl *ast.Subcircuit, name string, enclosing map[string]ast.Endpoint, prefix string) map[string]ast.Endpoint {
	targets := make(map[string]ast.Endpoint, len(tmpl.Ports))
	for _, port := range tmpl.Ports {
		b := inst.Binding(port.Name)
		if b == nil {
			f.unconnected++
			targets[port.Name] = &ast.NodeRef{
				Pos:  inst.Pos,
				Name: fmt.Sprintf("UNCONNECTED_%d", f.unconnected),
			}
			f.sink.Warn(types.DiagUnboundPort, inst.Pos,
				"instance %q leaves port %q unconnected", name, port.Name)
			continue
		}
		targets[port.Name] = f.resolveTarget(b, enclosing, prefix)
	}
	return targets
}

// resolveTarget maps a port binding value to a concrete endpoint in the
// flat circuit. At top level a dotted name is a terminal reference and a
// plain name a net. Inside a template, names rooted at an enclosing port
// follow that port's target, and all other local names are prefixed; a
// prefixed plain name is known to be a net even though the prefix makes
// it dotted.
func (f *Flattener) resolveTarget(e ast.Expr, enclosing map[string]ast.Endpoint, prefix string) ast.Endpoint {
	target := bindingTarget(e)
	pos := e.Position()
	if ast.IsGroundAlias(target) {
		return &ast.NodeRef{Pos: pos, Name: target, Ground: true}
	}

	seg := firstSegment(target)
	rest := target[len(seg):]

	if enclosing != nil {
		if t, ok := enclosing[seg]; ok {
			if rest == "" {
				return t
			}
			if node, isNode := t.(*ast.NodeRef); isNode {
				return terminalEndpoint(node.Name+rest, pos)
			}
			return t
		}
		if rest != "" {
			return terminalEndpoint(prefix+target, pos)
		}
		return &ast.NodeRef{Pos: pos, Name: prefix + target}
	}

	if rest != "" {
		return terminalEndpoint(target, pos)
	}
	return &ast.NodeRef{Pos: pos, Name: target}
}

func (f *Flattener) localComponent(c *ast.Component, prefix string, env *eval.Env) *ast.Component {
	out := &ast.Component{
		Pos:       c.Pos,
		Type:      c.Type,
		Name:      prefix + c.Name,
		Terminals: c.Terminals,
	}
	for _, e := range c.Positional {
		out.Positional = append(out.Positional, f.foldExpr(e, env))
	}
	for _, a := range c.Named {
		out.Named = append(out.Named, ast.NamedArg{
			Pos:   a.Pos,
			Name:  a.Name,
			Value: f.foldExpr(a.Value, env),
		})
	}
	return out
}

func (f *Flattener) localConnection(conn *ast.Connection, prefix string, targets map[string]ast.Endpoint) *ast.Connection {
	out := &ast.Connection{Pos: conn.Pos}
	if conn.Net != "" {
		out.Net = prefix + conn.Net
	}
	for _, ep := range conn.Endpoints {
		out.Endpoints = append(out.Endpoints, f.localEndpoint(ep, prefix, targets))
	}
	return out
}

func (f *Flattener) localEndpoint(ep ast.Endpoint, prefix string, targets map[string]ast.Endpoint) ast.Endpoint {
	switch e := ep.(type) {
	case *ast.TerminalRef:
		return &ast.TerminalRef{
			Pos:       e.Pos,
			Component: prefix + e.Component,
			Terminal:  e.Terminal,
		}
	case *ast.NodeRef:
		if e.Ground {
			return e
		}
		if target, ok := targets[e.Name]; ok {
			return target
		}
		return &ast.NodeRef{Pos: e.Pos, Name: prefix + e.Name}
	}
	return ep
}

// terminalEndpoint splits a dotted path at its last dot into a component
// and a terminal.
func terminalEndpoint(target string, pos types.Pos) ast.Endpoint {
	i := strings.LastIndexByte(target, '.')
	return &ast.TerminalRef{Pos: pos, Component: target[:i], Terminal: target[i+1:]}
}

// foldExpr folds parameter expressions to literals so downstream stages
// never need the template environment. Fully normalized literals pass
// through untouched.
func (f *Flattener) foldExpr(e ast.Expr, env *eval.Env) ast.Expr {
	if lit, ok := e.(*ast.Literal); ok {
		return lit
	}
	return foldValue(f.ev.Eval(e, env), e.Position())
}

func foldValue(v eval.Value, pos types.Pos) ast.Expr {
	switch val := v.(type) {
	case float64:
		return &ast.Literal{Pos: pos, Num: val, SI: val, Normalized: true}
	case string:
		return &ast.Literal{Pos: pos, Str: val, IsStr: true}
	}
	return &ast.Literal{Pos: pos, Num: 0, SI: 0, Normalized: true}
}

func bindingTarget(e ast.Expr) string {
	switch v := e.(type) {
	case *ast.Identifier:
		return v.Name
	case *ast.Literal:
		if v.IsStr {
			return v.Str
		}
		return fmt.Sprintf("%g", v.Num)
	}
	return ""
}

func firstSegment(name string) string {
	if i := strings.IndexByte(name, '.'); i > 0 {
		return name[:i]
	}
	return name
}
