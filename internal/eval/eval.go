package eval

import (
	"log/slog"
	"math"

	"github.com/voltlang/voltc/ast"
	"github.com/voltlang/voltc/internal/types"
)

// Evaluator tree-walks expressions against a chained environment.
//
// Evaluation never fails: problems (division by zero, unknown identifiers,
// operators, or functions) append a diagnostic to the sink and substitute a
// safe default, so sibling evaluation always proceeds.
type Evaluator struct {
	sink *types.Sink
	types.Logger
}

// New returns an Evaluator appending diagnostics to sink.
func New(sink *types.Sink, logger *slog.Logger) *Evaluator {
	return &Evaluator{
		sink:   sink,
		Logger: types.Logger{L: logger},
	}
}

// Eval evaluates e against env and returns a best-effort value.
func (ev *Evaluator) Eval(e ast.Expr, env *Env) Value {
	switch n := e.(type) {
	case *ast.Literal:
		return ev.literal(n)
	case *ast.Identifier:
		if v, ok := env.Lookup(n.Name); ok {
			return v
		}
		ev.sink.Error(types.DiagUnknownIdentifier, n.Pos, "unknown identifier %q", n.Name)
		return float64(0)
	case *ast.BinaryExpr:
		return ev.binary(n, env)
	case *ast.UnaryExpr:
		return ev.unary(n, env)
	case *ast.Call:
		return ev.call(n, env)
	case *ast.ArrayLit:
		out := make([]Value, len(n.Elements))
		for i, el := range n.Elements {
			out[i] = ev.Eval(el, env)
		}
		return out
	}
	return float64(0)
}

// Number evaluates e and coerces the result to a float64, reporting a
// diagnostic at pos when the value is not numeric.
func (ev *Evaluator) Number(e ast.Expr, env *Env) float64 {
	return ev.toNumber(ev.Eval(e, env), e.Position())
}

func (ev *Evaluator) literal(n *ast.Literal) Value {
	if n.Normalized {
		return n.SI
	}
	if n.IsStr {
		return n.Str
	}
	return n.Num
}

func (ev *Evaluator) toNumber(v Value, pos types.Pos) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case string:
		ev.sink.Error(types.DiagBadArgument, pos, "expected a number, have string %q", x)
	case []Value:
		ev.sink.Error(types.DiagBadArgument, pos, "expected a number, have array")
	}
	return 0
}

func (ev *Evaluator) unary(n *ast.UnaryExpr, env *Env) Value {
	operand := ev.Eval(n.Operand, env)
	switch n.Op {
	case "-":
		return -ev.toNumber(operand, n.Pos)
	case "+":
		return ev.toNumber(operand, n.Pos)
	case "!":
		if truthy(operand) {
			return float64(0)
		}
		return float64(1)
	case "sqrt":
		return math.Sqrt(ev.toNumber(operand, n.Pos))
	case "abs":
		return math.Abs(ev.toNumber(operand, n.Pos))
	}
	ev.sink.Error(types.DiagUnknownOperator, n.Pos, "unknown unary operator %q", n.Op)
	return float64(0)
}

func (ev *Evaluator) binary(n *ast.BinaryExpr, env *Env) Value {
	switch n.Op {
	case "&&":
		if truthy(ev.Eval(n.Left, env)) && truthy(ev.Eval(n.Right, env)) {
			return float64(1)
		}
		return float64(0)
	case "||":
		if truthy(ev.Eval(n.Left, env)) || truthy(ev.Eval(n.Right, env)) {
			return float64(1)
		}
		return float64(0)
	}

	left := ev.Eval(n.Left, env)
	right := ev.Eval(n.Right, env)

	switch n.Op {
	case "==":
		return boolValue(equal(left, right))
	case "!=":
		return boolValue(!equal(left, right))
	}

	a := ev.toNumber(left, n.Left.Position())
	b := ev.toNumber(right, n.Right.Position())

	switch n.Op {
	case "+":
		return a + b
	case "-":
		return a - b
	case "*":
		return a * b
	case "/":
		if b == 0 {
			ev.sink.Error(types.DiagDivisionByZero, n.Pos, "division by zero")
			return math.Inf(1)
		}
		return a / b
	case "%":
		if b == 0 {
			ev.sink.Error(types.DiagDivisionByZero, n.Pos, "modulo by zero")
			return math.Inf(1)
		}
		return math.Mod(a, b)
	case "|":
		// Parallel combination, two-resistors convention: a zero on
		// either side shorts the pair.
		if a == 0 || b == 0 {
			return float64(0)
		}
		return (a * b) / (a + b)
	case "^":
		return math.Pow(a, b)
	case "<":
		return boolValue(a < b)
	case "<=":
		return boolValue(a <= b)
	case ">":
		return boolValue(a > b)
	case ">=":
		return boolValue(a >= b)
	}

	ev.sink.Error(types.DiagUnknownOperator, n.Pos, "unknown operator %q", n.Op)
	return float64(0)
}

func (ev *Evaluator) call(n *ast.Call, env *Env) Value {
	args := make([]Value, len(n.Args))
	for i, a := range n.Args {
		args[i] = ev.Eval(a, env)
	}

	num := func(i int) float64 {
		return ev.toNumber(args[i], n.Args[i].Position())
	}

	oneArg := func(f func(float64) float64) Value {
		if len(args) != 1 {
			ev.sink.Error(types.DiagBadArgument, n.Pos, "%s expects 1 argument, have %d", n.Name, len(args))
			return float64(0)
		}
		return f(num(0))
	}

	switch n.Name {
	case "sin":
		return oneArg(math.Sin)
	case "cos":
		return oneArg(math.Cos)
	case "tan":
		return oneArg(math.Tan)
	case "log":
		return oneArg(math.Log)
	case "log10":
		return oneArg(math.Log10)
	case "exp":
		return oneArg(math.Exp)
	case "sqrt":
		return oneArg(math.Sqrt)
	case "abs":
		return oneArg(math.Abs)
	case "min", "max":
		if len(args) == 0 {
			ev.sink.Error(types.DiagBadArgument, n.Pos, "%s expects at least 1 argument", n.Name)
			return float64(0)
		}
		best := num(0)
		for i := 1; i < len(args); i++ {
			v := num(i)
			if (n.Name == "min" && v < best) || (n.Name == "max" && v > best) {
				best = v
			}
		}
		return best
	case "range":
		return ev.rangeCall(n, args)
	}

	ev.sink.Error(types.DiagUnknownFunction, n.Pos, "unknown function %q", n.Name)
	return float64(0)
}

// rangeCall materializes a finite integer sequence: range(stop),
// range(start, stop), or range(start, stop, step). The stop bound is
// exclusive.
func (ev *Evaluator) rangeCall(n *ast.Call, args []Value) Value {
	num := func(i int) float64 {
		return ev.toNumber(args[i], n.Args[i].Position())
	}

	var start, stop, step float64
	switch len(args) {
	case 1:
		start, stop, step = 0, num(0), 1
	case 2:
		start, stop, step = num(0), num(1), 1
	case 3:
		start, stop, step = num(0), num(1), num(2)
	default:
		ev.sink.Error(types.DiagBadArgument, n.Pos, "range expects 1 to 3 arguments, have %d", len(args))
		return []Value{}
	}

	if step == 0 {
		ev.sink.Error(types.DiagBadArgument, n.Pos, "range step must not be zero")
		return []Value{}
	}

	var out []Value
	if step > 0 {
		for v := start; v < stop; v += step {
			out = append(out, v)
		}
	} else {
		for v := start; v > stop; v += step {
			out = append(out, v)
		}
	}
	if out == nil {
		out = []Value{}
	}
	return out
}

func truthy(v Value) bool {
	switch x := v.(type) {
	case float64:
		return x != 0
	case string:
		return x != ""
	case []Value:
		return len(x) > 0
	}
	return false
}

func equal(a, b Value) bool {
	switch x := a.(type) {
	case float64:
		y, ok := b.(float64)
		return ok && x == y
	case string:
		y, ok := b.(string)
		return ok && x == y
	}
	return false
}

func boolValue(b bool) Value {
	if b {
		return float64(1)
	}
	return float64(0)
}
