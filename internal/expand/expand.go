// Package expand inlines macro invocations and For loops into concrete
// declarations and connections.
//
// Expansion preserves statement order exactly as if each body had been
// written out literally in place. Component and instance names declared
// inside a body are suffixed per expansion so repeated expansions never
// collide; references to those names inside the same body are rewritten to
// match. Problems (unknown macro, non-sequence iterable, excessive depth)
// append a diagnostic and leave sibling statements unaffected.
package expand

import (
	"fmt"
	"log/slog"

	"github.com/voltlang/voltc/ast"
	"github.com/voltlang/voltc/internal/eval"
	"github.com/voltlang/voltc/internal/types"
)

// DefaultMaxDepth bounds recursive macro and loop nesting. A
// self-referential macro hits the bound and reports a diagnostic instead
// of recursing unbounded.
const DefaultMaxDepth = 64

// Result is the expanded, concrete program content. All nodes are copies;
// the source Program is never mutated. Parameter expressions are folded to
// literals while their defining scope is still alive.
type Result struct {
	Components  []*ast.Component
	Instances   []*ast.Instance
	Connections []*ast.Connection
	Analyses    []*ast.AnalysisBlock

	// Env is the global variable environment, kept for directive
	// argument evaluation during formatting.
	Env *eval.Env
}

// Expander expands one program. All counters are owned by the instance,
// so independent compilations never share state.
type Expander struct {
	prog     *ast.Program
	sink     *types.Sink
	ev       *eval.Evaluator
	maxDepth int
	callSeq  int
	types.Logger
}

// New returns an Expander for prog. maxDepth <= 0 selects DefaultMaxDepth.
func New(prog *ast.Program, sink *types.Sink, ev *eval.Evaluator, maxDepth int, logger *slog.Logger) *Expander {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Expander{
		prog:     prog,
		sink:     sink,
		ev:       ev,
		maxDepth: maxDepth,
		Logger:   types.Logger{L: logger},
	}
}

// Expand processes all top-level statements in source order.
func (x *Expander) Expand() *Result {
	env := eval.NewEnv(nil)
	res := &Result{Env: env}
	for _, item := range x.prog.Items {
		x.stmt(item, env, nil, 0, res)
	}
	x.Log(slog.LevelDebug, "expansion complete",
		slog.Int("components", len(res.Components)),
		slog.Int("connections", len(res.Connections)))
	return res
}

// stmt expands one statement. rename maps body-declared names to their
// suffixed forms; it is nil outside macro and loop bodies.
func (x *Expander) stmt(s ast.Stmt, env *eval.Env, rename map[string]string, depth int, res *Result) {
	switch n := s.(type) {
	case *ast.VariableDecl:
		env.Define(n.Name, x.ev.Eval(n.Value, env))
	case *ast.Component:
		res.Components = append(res.Components, x.component(n, env, rename))
	case *ast.Instance:
		res.Instances = append(res.Instances, x.instance(n, env, rename))
	case *ast.Connection:
		res.Connections = append(res.Connections, x.connection(n, rename))
	case *ast.AnalysisBlock:
		res.Analyses = append(res.Analyses, n)
	case *ast.MacroCall:
		x.macroCall(n, env, depth, res)
	case *ast.ForLoop:
		x.forLoop(n, env, depth, res)
	}
}

func (x *Expander) macroCall(call *ast.MacroCall, env *eval.Env, depth int, res *Result) {
	if depth >= x.maxDepth {
		x.sink.Error(types.DiagExpansionDepth, call.Pos,
			"macro expansion exceeds depth limit %d", x.maxDepth)
		return
	}
	macro := x.prog.Macro(call.Name)
	if macro == nil {
		x.sink.Error(types.DiagUnknownMacro, call.Pos, "unknown macro %q", call.Name)
		return
	}

	child := eval.NewEnv(env)
	for i, param := range macro.Params {
		if i < len(call.Args) {
			child.Define(param, x.ev.Eval(call.Args[i], env))
		} else {
			x.sink.Error(types.DiagMacroArgUnbound, call.Pos,
				"macro %q parameter %q has no argument", call.Name, param)
			child.Define(param, float64(0))
		}
	}

	x.callSeq++
	suffix := fmt.Sprintf("_%s%d", macro.Name, x.callSeq)
	x.body(macro.Body, child, suffix, depth+1, res)

	if x.TraceEnabled() {
		x.Trace("macro expanded",
			slog.String("macro", macro.Name),
			slog.Int("depth", depth))
	}
}

func (x *Expander) forLoop(loop *ast.ForLoop, env *eval.Env, depth int, res *Result) {
	if depth >= x.maxDepth {
		x.sink.Error(types.DiagExpansionDepth, loop.Pos,
			"loop expansion exceeds depth limit %d", x.maxDepth)
		return
	}

	iterable := x.ev.Eval(loop.Iterable, env)
	seq, ok := iterable.([]eval.Value)
	if !ok {
		x.sink.Error(types.DiagBadIterable, loop.Pos,
			"loop iterable is not a sequence")
		return
	}

	x.callSeq++
	seq0 := x.callSeq
	for i, element := range seq {
		child := eval.NewEnv(env)
		child.Define(loop.Var, element)
		suffix := fmt.Sprintf("_%d", i)
		if seq0 > 1 {
			suffix = fmt.Sprintf("_%d_%d", seq0, i)
		}
		x.body(loop.Body, child, suffix, depth+1, res)
	}
}

// body expands a macro or loop body in its own environment. Declared names
// get the suffix appended; the environment is discarded when this call
// returns, so scopes are restored even when a nested expansion bails out.
func (x *Expander) body(body []ast.Stmt, env *eval.Env, suffix string, depth int, res *Result) {
	rename := make(map[string]string)
	for _, stmt := range body {
		switch n := stmt.(type) {
		case *ast.Component:
			rename[n.Name] = n.Name + suffix
		case *ast.Instance:
			rename[n.Name] = n.Name + suffix
		}
	}
	for _, stmt := range body {
		x.stmt(stmt, env, rename, depth, res)
	}
}

// component clones a declaration with its parameter expressions folded to
// literals in the current environment.
func (x *Expander) component(c *ast.Component, env *eval.Env, rename map[string]string) *ast.Component {
	out := &ast.Component{
		Pos:       c.Pos,
		Type:      c.Type,
		Name:      renamed(rename, c.Name),
		Terminals: c.Terminals,
	}
	for _, e := range c.Positional {
		out.Positional = append(out.Positional, x.fold(e, env))
	}
	for _, a := range c.Named {
		out.Named = append(out.Named, ast.NamedArg{
			Pos:   a.Pos,
			Name:  a.Name,
			Value: x.fold(a.Value, env),
		})
	}
	return out
}

func (x *Expander) instance(inst *ast.Instance, env *eval.Env, rename map[string]string) *ast.Instance {
	tmpl := x.prog.Subcircuit(inst.Template)
	out := &ast.Instance{
		Pos:      inst.Pos,
		Template: inst.Template,
		Name:     renamed(rename, inst.Name),
	}
	for _, b := range inst.Bindings {
		value := b.Value
		if tmpl != nil && tmpl.HasParam(b.Name) {
			value = x.fold(b.Value, env)
		} else if id, ok := b.Value.(*ast.Identifier); ok {
			// Port targets naming body-declared components follow the
			// rename; net names pass through. With no template to
			// consult, identifiers are treated as targets too, never
			// evaluated.
			value = &ast.Identifier{Pos: id.Pos, Name: renameDotted(rename, id.Name)}
		}
		out.Bindings = append(out.Bindings, ast.NamedArg{Pos: b.Pos, Name: b.Name, Value: value})
	}
	return out
}

func (x *Expander) connection(conn *ast.Connection, rename map[string]string) *ast.Connection {
	out := &ast.Connection{Pos: conn.Pos, Net: conn.Net}
	for _, ep := range conn.Endpoints {
		switch e := ep.(type) {
		case *ast.TerminalRef:
			out.Endpoints = append(out.Endpoints, &ast.TerminalRef{
				Pos:       e.Pos,
				Component: renameDotted(rename, e.Component),
				Terminal:  e.Terminal,
			})
		case *ast.NodeRef:
			out.Endpoints = append(out.Endpoints, &ast.NodeRef{
				Pos:    e.Pos,
				Name:   e.Name,
				Ground: e.Ground,
			})
		}
	}
	return out
}

// fold evaluates non-literal expressions to synthetic literal nodes so the
// defining environment is no longer needed downstream. Literals are
// already concrete and pass through untouched.
func (x *Expander) fold(e ast.Expr, env *eval.Env) ast.Expr {
	if lit, ok := e.(*ast.Literal); ok {
		return lit
	}
	return valueExpr(x.ev.Eval(e, env), e.Position())
}

func valueExpr(v eval.Value, pos types.Pos) ast.Expr {
	switch val := v.(type) {
	case float64:
		return &ast.Literal{Pos: pos, Num: val, SI: val, Normalized: true}
	case string:
		return &ast.Literal{Pos: pos, Str: val, IsStr: true}
	case []eval.Value:
		arr := &ast.ArrayLit{Pos: pos}
		for _, el := range val {
			arr.Elements = append(arr.Elements, valueExpr(el, pos))
		}
		return arr
	}
	return &ast.Literal{Pos: pos, Num: 0, SI: 0, Normalized: true}
}

func renamed(rename map[string]string, name string) string {
	if rename == nil {
		return name
	}
	if to, ok := rename[name]; ok {
		return to
	}
	return name
}

// renameDotted applies the rename map to the first segment of a dotted
// name, so `inst.R1` follows `inst` when the instance is renamed.
func renameDotted(rename map[string]string, name string) string {
	if rename == nil {
		return name
	}
	if to, ok := rename[name]; ok {
		return to
	}
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			if to, ok := rename[name[:i]]; ok {
				return to + name[i:]
			}
			return name
		}
	}
	return name
}
