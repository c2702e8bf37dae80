package ast

// AnalysisBlock is a `Simulate name? { ... };` block. Directives and plot
// commands keep their source order.
type AnalysisBlock struct {
	Pos        Pos
	Name       string
	Directives []Directive
	Plots      []*Plot
}

// Directive is one simulation directive inside an analysis block. The set
// of implementations is closed; the formatter switches exhaustively.
type Directive interface {
	Node
	directive()
}

// DCDirective is `dc;`, a DC operating point request.
type DCDirective struct {
	Pos Pos
}

// TransientDirective is `transient(start, stop, step);`.
type TransientDirective struct {
	Pos   Pos
	Start Expr
	Stop  Expr
	Step  Expr
}

// ACDirective is `ac(...);` with one to four positional arguments.
type ACDirective struct {
	Pos  Pos
	Args []Expr
}

// NoiseDirective is `noise(...);` with up to three positional arguments.
type NoiseDirective struct {
	Pos  Pos
	Args []Expr
}

// ParamSweepDirective is `paramSweep(name, start, stop, step);`.
type ParamSweepDirective struct {
	Pos   Pos
	Param string
	Start Expr
	Stop  Expr
	Step  Expr
}

// MonteCarloDirective is `monteCarlo(runs);`.
type MonteCarloDirective struct {
	Pos  Pos
	Runs Expr
}

// Plot is a `plot(args);` command inside an analysis block.
type Plot struct {
	Pos  Pos
	Args []Expr
}

func (n *AnalysisBlock) Position() Pos       { return n.Pos }
func (n *DCDirective) Position() Pos         { return n.Pos }
func (n *TransientDirective) Position() Pos  { return n.Pos }
func (n *ACDirective) Position() Pos         { return n.Pos }
func (n *NoiseDirective) Position() Pos      { return n.Pos }
func (n *ParamSweepDirective) Position() Pos { return n.Pos }
func (n *MonteCarloDirective) Position() Pos { return n.Pos }
func (n *Plot) Position() Pos                { return n.Pos }

func (*AnalysisBlock) stmt() {}

func (*DCDirective) directive()         {}
func (*TransientDirective) directive()  {}
func (*ACDirective) directive()         {}
func (*NoiseDirective) directive()      {}
func (*ParamSweepDirective) directive() {}
func (*MonteCarloDirective) directive() {}
