package ast

// Expr is an expression node. The set of implementations is closed;
// evaluation and formatting switch exhaustively over it.
type Expr interface {
	Node
	expr()
}

// Literal is a numeric or string literal, optionally carrying a unit.
// The unit normalizer fills SI exactly once; Normalized guards the pass so
// re-running it is a no-op.
type Literal struct {
	Pos   Pos
	Num   float64 // numeric value when IsStr is false
	Str   string  // string value when IsStr is true
	IsStr bool
	Unit  string  // unit spelling as written ("kohm"), "" if none
	Mag   float64 // magnitude multiplier from the unit's SI prefix, 0 if none

	SI         float64 // SI-normalized magnitude, set by the normalizer
	Normalized bool
}

// Identifier is a bare name resolved against the environment.
type Identifier struct {
	Pos  Pos
	Name string
}

// BinaryExpr applies an infix operator. Op is the source spelling
// ("+", "*", "|", "^", "&&", ...).
type BinaryExpr struct {
	Pos   Pos
	Op    string
	Left  Expr
	Right Expr
}

// UnaryExpr applies a prefix operator ("-", "+", "!").
type UnaryExpr struct {
	Pos     Pos
	Op      string
	Operand Expr
}

// Call invokes a builtin function, e.g. `range(1, 5)`.
type Call struct {
	Pos  Pos
	Name string
	Args []Expr
}

// ArrayLit is an `[a, b, c]` array literal.
type ArrayLit struct {
	Pos      Pos
	Elements []Expr
}

func (n *Literal) Position() Pos    { return n.Pos }
func (n *Identifier) Position() Pos { return n.Pos }
func (n *BinaryExpr) Position() Pos { return n.Pos }
func (n *UnaryExpr) Position() Pos  { return n.Pos }
func (n *Call) Position() Pos       { return n.Pos }
func (n *ArrayLit) Position() Pos   { return n.Pos }

func (*Literal) expr()    {}
func (*Identifier) expr() {}
func (*BinaryExpr) expr() {}
func (*UnaryExpr) expr()  {}
func (*Call) expr()       {}
func (*ArrayLit) expr()   {}
