package units

import (
	"strconv"

	"github.com/voltlang/voltc/ast"
)

// Normalize annotates every literal reachable from the program with its
// SI-normalized magnitude. It visits each expression exactly once per call
// and is idempotent: already-annotated literals are left untouched. Must
// run before evaluation.
func Normalize(p *ast.Program) {
	for _, item := range p.Items {
		normalizeStmt(item)
	}
}

func normalizeStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.VariableDecl:
		normalizeExpr(n.Value)
	case *ast.Component:
		for _, e := range n.Positional {
			normalizeExpr(e)
		}
		for _, a := range n.Named {
			normalizeExpr(a.Value)
		}
	case *ast.Instance:
		for _, b := range n.Bindings {
			normalizeExpr(b.Value)
		}
	case *ast.Subcircuit:
		for _, prm := range n.Params {
			normalizeExpr(prm.Default)
		}
		for _, c := range n.Components {
			normalizeStmt(c)
		}
		for _, inst := range n.Instances {
			normalizeStmt(inst)
		}
	case *ast.MacroDef:
		for _, body := range n.Body {
			normalizeStmt(body)
		}
	case *ast.MacroCall:
		for _, e := range n.Args {
			normalizeExpr(e)
		}
	case *ast.ForLoop:
		normalizeExpr(n.Iterable)
		for _, body := range n.Body {
			normalizeStmt(body)
		}
	case *ast.AnalysisBlock:
		for _, d := range n.Directives {
			normalizeDirective(d)
		}
		for _, pl := range n.Plots {
			for _, e := range pl.Args {
				normalizeExpr(e)
			}
		}
	}
}

func normalizeDirective(d ast.Directive) {
	switch n := d.(type) {
	case *ast.DCDirective:
	case *ast.TransientDirective:
		normalizeExpr(n.Start)
		normalizeExpr(n.Stop)
		normalizeExpr(n.Step)
	case *ast.ACDirective:
		for _, e := range n.Args {
			normalizeExpr(e)
		}
	case *ast.NoiseDirective:
		for _, e := range n.Args {
			normalizeExpr(e)
		}
	case *ast.ParamSweepDirective:
		normalizeExpr(n.Start)
		normalizeExpr(n.Stop)
		normalizeExpr(n.Step)
	case *ast.MonteCarloDirective:
		normalizeExpr(n.Runs)
	}
}

func normalizeExpr(e ast.Expr) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *ast.Literal:
		normalizeLiteral(n)
	case *ast.Identifier:
	case *ast.BinaryExpr:
		normalizeExpr(n.Left)
		normalizeExpr(n.Right)
	case *ast.UnaryExpr:
		normalizeExpr(n.Operand)
	case *ast.Call:
		for _, a := range n.Args {
			normalizeExpr(a)
		}
	case *ast.ArrayLit:
		for _, el := range n.Elements {
			normalizeExpr(el)
		}
	}
}

func normalizeLiteral(lit *ast.Literal) {
	if lit.Normalized {
		return
	}
	if !lit.IsStr {
		mag := lit.Mag
		if mag == 0 {
			mag = 1
		}
		lit.SI = lit.Num * mag
		lit.Normalized = true
		return
	}
	if si, ok := ParseMagnitude(lit.Str); ok {
		lit.SI = si
		lit.Normalized = true
	}
	// Non-matching strings stay opaque: Normalized remains false and the
	// literal evaluates as a plain string.
}

// ParseMagnitude parses a magnitude-suffixed literal such as "1.5k",
// "10uF", or "1e-6" into its base-unit value. Returns false when the
// string is not of that shape.
func ParseMagnitude(s string) (float64, bool) {
	numEnd := numericPrefixLen(s)
	if numEnd == 0 {
		return 0, false
	}
	num, err := strconv.ParseFloat(s[:numEnd], 64)
	if err != nil {
		return 0, false
	}
	tail := s[numEnd:]
	if tail == "" {
		return num, true
	}
	mag, _, ok := SplitSuffix(tail)
	if !ok {
		return 0, false
	}
	return num * mag, true
}

// numericPrefixLen returns the length of the leading number in s,
// including an optional fraction and exponent.
func numericPrefixLen(s string) int {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && s[k] >= '0' && s[k] <= '9' {
			k++
		}
		if k > j {
			i = k
		}
	}
	return i
}
