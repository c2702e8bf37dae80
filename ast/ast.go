// Package ast defines the abstract syntax tree for circuit DSL programs.
//
// A Program and everything reachable from it is read-only after parsing,
// with one exception: the unit normalizer annotates each Literal with its
// SI-normalized magnitude in a single pass. Later pipeline stages work on
// copies, never on the tree itself.
package ast

import (
	"strings"

	"github.com/voltlang/voltc/internal/types"
)

// Pos is a 1-based line/column source position.
type Pos = types.Pos

// Node is implemented by every syntax tree node.
type Node interface {
	Position() Pos
}

// Stmt is a top-level or body statement.
type Stmt interface {
	Node
	stmt()
}

// Program is the root of a parsed source file. The per-category slices hold
// the same nodes as Items, in source order.
type Program struct {
	Filename string
	Items    []Stmt

	Imports     []*Import
	Variables   []*VariableDecl
	Macros      []*MacroDef
	Subcircuits []*Subcircuit
	Components  []*Component
	Instances   []*Instance
	Connections []*Connection
	Analyses    []*AnalysisBlock
	Calls       []*MacroCall
	Loops       []*ForLoop
}

// Add appends a statement to Items and to its category slice.
func (p *Program) Add(s Stmt) {
	p.Items = append(p.Items, s)
	switch n := s.(type) {
	case *Import:
		p.Imports = append(p.Imports, n)
	case *VariableDecl:
		p.Variables = append(p.Variables, n)
	case *MacroDef:
		p.Macros = append(p.Macros, n)
	case *Subcircuit:
		p.Subcircuits = append(p.Subcircuits, n)
	case *Component:
		p.Components = append(p.Components, n)
	case *Instance:
		p.Instances = append(p.Instances, n)
	case *Connection:
		p.Connections = append(p.Connections, n)
	case *AnalysisBlock:
		p.Analyses = append(p.Analyses, n)
	case *MacroCall:
		p.Calls = append(p.Calls, n)
	case *ForLoop:
		p.Loops = append(p.Loops, n)
	}
}

// Subcircuit returns the template with the given name, or nil.
func (p *Program) Subcircuit(name string) *Subcircuit {
	for _, s := range p.Subcircuits {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Macro returns the macro definition with the given name, or nil.
func (p *Program) Macro(name string) *MacroDef {
	for _, m := range p.Macros {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Import is an `Import "path";` statement.
type Import struct {
	Pos  Pos
	Path string
}

// VariableDecl is a `name = expr;` statement.
type VariableDecl struct {
	Pos   Pos
	Name  string
	Value Expr
}

// NamedArg is a `key=expr` pair in a parameter list.
type NamedArg struct {
	Pos   Pos
	Name  string
	Value Expr
}

// Component is a component declaration such as `Resistor R1(1000, ohm);`.
// Positional parameters always precede named ones. Terminals, when present,
// override the per-type default terminal names.
type Component struct {
	Pos        Pos
	Type       string
	Name       string
	Positional []Expr
	Named      []NamedArg
	Terminals  []string
}

// NamedValue returns the named parameter expression for key, or nil.
func (c *Component) NamedValue(key string) Expr {
	for _, a := range c.Named {
		if a.Name == key {
			return a.Value
		}
	}
	return nil
}

// Instance is one concrete use of a subcircuit template, e.g.
// `Divider d1(in=vin, out=vout, ratio=3);`. Bindings whose key matches a
// template port bind that port; the rest override template parameters.
type Instance struct {
	Pos      Pos
	Template string
	Name     string
	Bindings []NamedArg
}

// Binding returns the binding expression for key, or nil.
func (i *Instance) Binding(key string) Expr {
	for _, b := range i.Bindings {
		if b.Name == key {
			return b.Value
		}
	}
	return nil
}

// Connection joins two or more endpoints into one electrical net.
// Net carries the explicit net name, "" if none was given.
type Connection struct {
	Pos       Pos
	Net       string
	Endpoints []Endpoint
}

// Endpoint is one point of a connection: either a component terminal or a
// plain named node.
type Endpoint interface {
	Node
	endpoint()
}

// TerminalRef is a dotted endpoint `a.b.c`: all but the last segment form
// the component (instance) name, the last segment is the terminal.
type TerminalRef struct {
	Pos       Pos
	Component string
	Terminal  string
}

// NodeRef is a bare endpoint naming a net directly. Ground is set when the
// name is a ground alias ("ground", "gnd", "0", any case).
type NodeRef struct {
	Pos    Pos
	Name   string
	Ground bool
}

// IsGroundAlias reports whether name denotes ground ("ground", "gnd", or
// "0", any case).
func IsGroundAlias(name string) bool {
	switch strings.ToLower(name) {
	case "ground", "gnd", "0":
		return true
	}
	return false
}

// PortDir is the declared direction of a subcircuit port.
type PortDir int

const (
	PortInOut PortDir = iota
	PortIn
	PortOut
)

// String returns the source spelling of the direction.
func (d PortDir) String() string {
	switch d {
	case PortIn:
		return "in"
	case PortOut:
		return "out"
	default:
		return "inout"
	}
}

// Port is a named connection point of a subcircuit template.
type Port struct {
	Pos  Pos
	Name string
	Dir  PortDir
}

// Param is a subcircuit template parameter with an optional default.
type Param struct {
	Pos     Pos
	Name    string
	Default Expr
}

// Subcircuit is a reusable template. It is never mutated after parsing;
// each instantiation works on copies.
type Subcircuit struct {
	Pos    Pos
	Name   string
	Ports  []Port
	Params []Param

	Components  []*Component
	Instances   []*Instance
	Connections []*Connection
}

// HasPort returns true if the template declares a port with the given name.
func (s *Subcircuit) HasPort(name string) bool {
	for _, p := range s.Ports {
		if p.Name == name {
			return true
		}
	}
	return false
}

// HasParam returns true if the template declares a parameter with the
// given name.
func (s *Subcircuit) HasParam(name string) bool {
	for _, p := range s.Params {
		if p.Name == name {
			return true
		}
	}
	return false
}

// MacroDef is a `Macro name(params) { body };` definition.
type MacroDef struct {
	Pos    Pos
	Name   string
	Params []string
	Body   []Stmt
}

// MacroCall is a `name(args);` statement invoking a macro.
type MacroCall struct {
	Pos  Pos
	Name string
	Args []Expr
}

// ForLoop is a `For v in expr { body };` statement.
type ForLoop struct {
	Pos      Pos
	Var      string
	Iterable Expr
	Body     []Stmt
}

func (n *Import) Position() Pos       { return n.Pos }
func (n *VariableDecl) Position() Pos { return n.Pos }
func (n *Component) Position() Pos    { return n.Pos }
func (n *Instance) Position() Pos     { return n.Pos }
func (n *Connection) Position() Pos   { return n.Pos }
func (n *TerminalRef) Position() Pos  { return n.Pos }
func (n *NodeRef) Position() Pos      { return n.Pos }
func (n *Subcircuit) Position() Pos   { return n.Pos }
func (n *MacroDef) Position() Pos     { return n.Pos }
func (n *MacroCall) Position() Pos    { return n.Pos }
func (n *ForLoop) Position() Pos      { return n.Pos }

func (*Import) stmt()       {}
func (*VariableDecl) stmt() {}
func (*Component) stmt()    {}
func (*Instance) stmt()     {}
func (*Connection) stmt()   {}
func (*Subcircuit) stmt()   {}
func (*MacroDef) stmt()     {}
func (*MacroCall) stmt()    {}
func (*ForLoop) stmt()      {}

func (*TerminalRef) endpoint() {}
func (*NodeRef) endpoint()     {}
