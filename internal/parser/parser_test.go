package parser

import (
	"testing"

	"github.com/voltlang/voltc/ast"
	"github.com/voltlang/voltc/internal/lexer"
	"github.com/voltlang/voltc/internal/testutil"
	"github.com/voltlang/voltc/internal/types"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	tokens, err := lexer.New([]byte(src), nil).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	prog, err := New(tokens, "test.ckt", nil).Parse()
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return prog
}

func parseErr(t *testing.T, src string) *types.SourceError {
	t.Helper()
	tokens, err := lexer.New([]byte(src), nil).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	_, err = New(tokens, "test.ckt", nil).Parse()
	if err == nil {
		t.Fatalf("Parse(%q): expected error", src)
	}
	srcErr, ok := err.(*types.SourceError)
	testutil.True(t, ok, "error type is *types.SourceError")
	testutil.Equal(t, "parse", srcErr.Phase, "phase")
	return srcErr
}

func parseExpr(t *testing.T, src string) ast.Expr {
	t.Helper()
	prog := parse(t, "x = "+src+";")
	testutil.Len(t, prog.Variables, 1, "variable count")
	return prog.Variables[0].Value
}

func TestComponentDecl(t *testing.T) {
	prog := parse(t, `Resistor R1(1000, ohm);`)
	testutil.Len(t, prog.Components, 1, "components")

	comp := prog.Components[0]
	testutil.Equal(t, "Resistor", comp.Type, "type")
	testutil.Equal(t, "R1", comp.Name, "name")
	testutil.Len(t, comp.Positional, 2, "positional params")

	value, ok := comp.Positional[0].(*ast.Literal)
	testutil.True(t, ok, "value is a literal")
	testutil.Equal(t, 1000.0, value.Num, "value")

	unit, ok := comp.Positional[1].(*ast.Literal)
	testutil.True(t, ok, "unit is a literal")
	testutil.Equal(t, "ohm", unit.Unit, "unit")
}

func TestComponentNamedParams(t *testing.T) {
	prog := parse(t, `VoltageSource V1(value=9, unit=V);`)
	comp := prog.Components[0]
	testutil.Len(t, comp.Positional, 0, "positional params")
	testutil.Len(t, comp.Named, 2, "named params")
	testutil.Equal(t, "value", comp.Named[0].Name, "first key")
	testutil.True(t, comp.NamedValue("unit") != nil, "unit lookup")
	testutil.True(t, comp.NamedValue("nope") == nil, "missing lookup")
}

func TestComponentUnitSuffixLiteral(t *testing.T) {
	prog := parse(t, `Capacitor C1(10uF);`)
	lit, ok := prog.Components[0].Positional[0].(*ast.Literal)
	testutil.True(t, ok, "literal")
	testutil.Equal(t, 10.0, lit.Num, "number part")
	testutil.Equal(t, "uF", lit.Unit, "unit part")
	testutil.Equal(t, 1e-6, lit.Mag, "magnitude")
}

func TestComponentTerminalList(t *testing.T) {
	prog := parse(t, `BJT Q1(model="2N2222") [c, b, e];`)
	comp := prog.Components[0]
	testutil.Len(t, comp.Terminals, 3, "terminals")
	testutil.Equal(t, "c", comp.Terminals[0], "first terminal")
}

func TestPositionalAfterNamedIsError(t *testing.T) {
	err := parseErr(t, `Resistor R1(value=5, 1000);`)
	testutil.Contains(t, err.Message, "positional parameter", "message")
}

func TestConnectionEndpoints(t *testing.T) {
	prog := parse(t, `Connect(V1.positive, vin, div1.inner.R1.negative, ground, 0);`)
	conn := prog.Connections[0]
	testutil.Len(t, conn.Endpoints, 5, "endpoints")

	term, ok := conn.Endpoints[0].(*ast.TerminalRef)
	testutil.True(t, ok, "first endpoint is a terminal ref")
	testutil.Equal(t, "V1", term.Component, "component")
	testutil.Equal(t, "positive", term.Terminal, "terminal")

	node, ok := conn.Endpoints[1].(*ast.NodeRef)
	testutil.True(t, ok, "second endpoint is a node ref")
	testutil.Equal(t, "vin", node.Name, "node name")
	testutil.False(t, node.Ground, "vin is not ground")

	deep, ok := conn.Endpoints[2].(*ast.TerminalRef)
	testutil.True(t, ok, "dotted path is a terminal ref")
	testutil.Equal(t, "div1.inner.R1", deep.Component, "all but last segment")
	testutil.Equal(t, "negative", deep.Terminal, "last segment")

	gnd, ok := conn.Endpoints[3].(*ast.NodeRef)
	testutil.True(t, ok, "ground endpoint")
	testutil.True(t, gnd.Ground, "ground flag")

	zero, ok := conn.Endpoints[4].(*ast.NodeRef)
	testutil.True(t, ok, "numeric endpoint")
	testutil.True(t, zero.Ground, "0 is ground")
}

func TestConnectionExplicitNet(t *testing.T) {
	prog := parse(t, `Connect(net=vdd, R1.positive, R2.positive);`)
	conn := prog.Connections[0]
	testutil.Equal(t, "vdd", conn.Net, "net name")
	testutil.Len(t, conn.Endpoints, 2, "endpoints")
}

func TestSubcircuitDef(t *testing.T) {
	prog := parse(t, `
Subcircuit Div(in, out:out, gain=0.5) {
	Resistor R1(1000, ohm);
	Resistor R2(1000, ohm);
	Connect(in, R1.positive);
	Connect(R1.negative, out, R2.positive);
	Connect(R2.negative, ground);
};`)
	testutil.Len(t, prog.Subcircuits, 1, "subcircuits")

	sub := prog.Subcircuits[0]
	testutil.Equal(t, "Div", sub.Name, "name")
	testutil.Len(t, sub.Ports, 2, "ports")
	testutil.Equal(t, "in", sub.Ports[0].Name, "first port")
	testutil.Equal(t, ast.PortInOut, sub.Ports[0].Dir, "default direction")
	testutil.Equal(t, ast.PortOut, sub.Ports[1].Dir, "explicit direction")
	testutil.Len(t, sub.Params, 1, "params")
	testutil.Equal(t, "gain", sub.Params[0].Name, "param name")
	testutil.True(t, sub.Params[0].Default != nil, "param default")
	testutil.Len(t, sub.Components, 2, "body components")
	testutil.Len(t, sub.Connections, 3, "body connections")
	testutil.True(t, sub.HasPort("in"), "HasPort")
	testutil.True(t, sub.HasParam("gain"), "HasParam")
}

func TestInstance(t *testing.T) {
	prog := parse(t, `Div d1(in=vin, out=vout, gain=0.25);`)
	testutil.Len(t, prog.Instances, 1, "instances")

	inst := prog.Instances[0]
	testutil.Equal(t, "Div", inst.Template, "template")
	testutil.Equal(t, "d1", inst.Name, "name")
	testutil.Len(t, inst.Bindings, 3, "bindings")
	testutil.True(t, inst.Binding("gain") != nil, "binding lookup")
}

func TestInstanceDottedBinding(t *testing.T) {
	prog := parse(t, `Amp a1(out=R1.positive);`)
	id, ok := prog.Instances[0].Bindings[0].Value.(*ast.Identifier)
	testutil.True(t, ok, "dotted binding folds to identifier")
	testutil.Equal(t, "R1.positive", id.Name, "dotted name")
}

func TestMacroDefAndCall(t *testing.T) {
	prog := parse(t, `
Macro ladder(r) {
	Resistor R1(r, ohm);
	Connect(R1.positive, rail);
};
ladder(470);`)
	testutil.Len(t, prog.Macros, 1, "macros")
	testutil.Len(t, prog.Calls, 1, "calls")

	macro := prog.Macros[0]
	testutil.Equal(t, "ladder", macro.Name, "macro name")
	testutil.Len(t, macro.Params, 1, "macro params")
	testutil.Len(t, macro.Body, 2, "macro body")

	call := prog.Calls[0]
	testutil.Equal(t, "ladder", call.Name, "call name")
	testutil.Len(t, call.Args, 1, "call args")
}

func TestForLoop(t *testing.T) {
	prog := parse(t, `
For i in range(3) {
	Resistor R(100, ohm);
};`)
	testutil.Len(t, prog.Loops, 1, "loops")

	loop := prog.Loops[0]
	testutil.Equal(t, "i", loop.Var, "loop var")
	call, ok := loop.Iterable.(*ast.Call)
	testutil.True(t, ok, "iterable is a call")
	testutil.Equal(t, "range", call.Name, "iterable function")
	testutil.Len(t, loop.Body, 1, "body")
}

func TestAnalysisBlock(t *testing.T) {
	prog := parse(t, `
Simulate tran1 {
	dc;
	transient(0, 10, 0.1);
	ac(10, 100k);
	paramSweep(rload, 1k, 10k, 1k);
	monteCarlo(100);
	plot(vout);
};`)
	testutil.Len(t, prog.Analyses, 1, "analyses")

	block := prog.Analyses[0]
	testutil.Equal(t, "tran1", block.Name, "block name")
	testutil.Len(t, block.Directives, 5, "directives")
	testutil.Len(t, block.Plots, 1, "plots")

	_, ok := block.Directives[0].(*ast.DCDirective)
	testutil.True(t, ok, "first directive is DC")

	tran, ok := block.Directives[1].(*ast.TransientDirective)
	testutil.True(t, ok, "second directive is transient")
	testutil.True(t, tran.Step != nil, "transient step")

	sweep, ok := block.Directives[3].(*ast.ParamSweepDirective)
	testutil.True(t, ok, "fourth directive is a parameter sweep")
	testutil.Equal(t, "rload", sweep.Param, "sweep parameter")
}

func TestAnalysisSynonym(t *testing.T) {
	prog := parse(t, `analysis { dc; }`)
	testutil.Len(t, prog.Analyses, 1, "analysis keyword form")
}

func TestTransientArity(t *testing.T) {
	err := parseErr(t, `Simulate { transient(0, 10); };`)
	testutil.Contains(t, err.Message, "directive arguments", "message")
}

func TestCommentsAreSkipped(t *testing.T) {
	prog := parse(t, `
// front matter
Resistor R1(1000, ohm); // trailing
/* block */ Resistor R2(2000, ohm);`)
	testutil.Len(t, prog.Components, 2, "components")
}

func TestItemsPreserveOrder(t *testing.T) {
	prog := parse(t, `
Resistor R1(1, ohm);
Connect(R1.positive, vin);
Resistor R2(2, ohm);`)
	testutil.Len(t, prog.Items, 3, "items")
	_, ok := prog.Items[1].(*ast.Connection)
	testutil.True(t, ok, "middle item is the connection")
}

func TestExprPrecedence(t *testing.T) {
	e := parseExpr(t, "1 + 2 * 3")
	add, ok := e.(*ast.BinaryExpr)
	testutil.True(t, ok, "top is binary")
	testutil.Equal(t, "+", add.Op, "top operator")
	mul, ok := add.Right.(*ast.BinaryExpr)
	testutil.True(t, ok, "right is binary")
	testutil.Equal(t, "*", mul.Op, "nested operator")
}

func TestParallelOperatorPrecedence(t *testing.T) {
	// '|' binds like '*': a + b|c parses as a + (b|c).
	e := parseExpr(t, "a + b | c")
	add, ok := e.(*ast.BinaryExpr)
	testutil.True(t, ok, "top is binary")
	testutil.Equal(t, "+", add.Op, "top operator")
	par, ok := add.Right.(*ast.BinaryExpr)
	testutil.True(t, ok, "right is binary")
	testutil.Equal(t, "|", par.Op, "parallel operator")
}

func TestPowerRightAssociative(t *testing.T) {
	e := parseExpr(t, "2 ^ 3 ^ 2")
	outer, ok := e.(*ast.BinaryExpr)
	testutil.True(t, ok, "top is binary")
	testutil.Equal(t, "^", outer.Op, "top operator")
	_, ok = outer.Left.(*ast.Literal)
	testutil.True(t, ok, "left is the base literal")
	inner, ok := outer.Right.(*ast.BinaryExpr)
	testutil.True(t, ok, "right is the nested power")
	testutil.Equal(t, "^", inner.Op, "nested operator")
}

func TestUnaryAndCall(t *testing.T) {
	e := parseExpr(t, "-sqrt(2) + !x")
	add, ok := e.(*ast.BinaryExpr)
	testutil.True(t, ok, "top is binary")
	neg, ok := add.Left.(*ast.UnaryExpr)
	testutil.True(t, ok, "left is unary")
	testutil.Equal(t, "-", neg.Op, "negation")
	call, ok := neg.Operand.(*ast.Call)
	testutil.True(t, ok, "operand is a call")
	testutil.Equal(t, "sqrt", call.Name, "call name")
}

func TestArrayLiteral(t *testing.T) {
	e := parseExpr(t, "[1, 2, 3]")
	arr, ok := e.(*ast.ArrayLit)
	testutil.True(t, ok, "array literal")
	testutil.Len(t, arr.Elements, 3, "elements")
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"missing semicolon", `Resistor R1(1000, ohm)`},
		{"missing paren", `Resistor R1(1000;`},
		{"stray token", `Resistor R1(1000, ohm); )`},
		{"bad directive", `Simulate { flux; };`},
		{"instance in nothing", `d1;`},
		{"analysis in subcircuit", `Subcircuit S(a) { Simulate{dc;}; };`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseErr(t, tt.src)
			testutil.True(t, err.Line >= 1, "error location set")
		})
	}
}

func TestParseErrorMentionsExpectation(t *testing.T) {
	err := parseErr(t, `Resistor (1000);`)
	testutil.Contains(t, err.Message, "expected", "expectation message")
	testutil.Equal(t, "test.ckt", err.File, "filename attached")
}
