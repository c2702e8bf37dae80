// Package parser provides recursive-descent parsing of circuit DSL token
// streams into a typed AST.
//
// Any grammar violation is fatal: parsing aborts immediately with a
// *types.SourceError carrying the offending token's location and an
// expectation message. There is no error recovery.
package parser

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/voltlang/voltc/ast"
	"github.com/voltlang/voltc/internal/lexer"
	"github.com/voltlang/voltc/internal/types"
)

// Parser converts a token stream into an *ast.Program.
type Parser struct {
	filename string
	tokens   []lexer.Token
	index    int
	eofToken lexer.Token
	types.Logger
}

// New returns a Parser over the given tokens. Comment tokens are filtered
// out up front; the remaining stream always ends with the EOF sentinel.
// Pass nil for logger to disable logging.
func New(tokens []lexer.Token, filename string, logger *slog.Logger) *Parser {
	filtered := make([]lexer.Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Kind != lexer.TokComment {
			filtered = append(filtered, t)
		}
	}
	eof := lexer.Token{Kind: lexer.TokEOF}
	if len(filtered) > 0 {
		eof = filtered[len(filtered)-1]
	}
	p := &Parser{
		filename: filename,
		tokens:   filtered,
		eofToken: eof,
		Logger:   types.Logger{L: logger},
	}
	p.Log(slog.LevelDebug, "parser initialized", slog.Int("tokens", len(filtered)))
	return p
}

// Parse parses a complete program.
func (p *Parser) Parse() (*ast.Program, error) {
	prog := &ast.Program{Filename: p.filename}
	for !p.isEOF() {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		prog.Add(stmt)
	}
	p.Log(slog.LevelDebug, "parsing complete",
		slog.Int("components", len(prog.Components)),
		slog.Int("connections", len(prog.Connections)),
		slog.Int("subcircuits", len(prog.Subcircuits)))
	return prog, nil
}

func (p *Parser) isEOF() bool {
	return p.peek().Kind == lexer.TokEOF
}

func (p *Parser) peek() lexer.Token {
	return p.peekNth(0)
}

func (p *Parser) peekNth(n int) lexer.Token {
	if p.index+n < len(p.tokens) {
		return p.tokens[p.index+n]
	}
	return p.eofToken
}

func (p *Parser) advance() lexer.Token {
	tok := p.peek()
	if p.index < len(p.tokens) {
		p.index++
	}
	return tok
}

func (p *Parser) check(kind lexer.TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) expect(kind lexer.TokenKind) (lexer.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return lexer.Token{}, p.errorf("expected %s", kind)
}

// errorf builds a fatal parse error at the current token.
func (p *Parser) errorf(format string, args ...any) error {
	tok := p.peek()
	msg := fmt.Sprintf(format, args...)
	if tok.Kind == lexer.TokEOF {
		msg += ", got end of input"
	} else {
		msg += fmt.Sprintf(", got %q", tok.Text)
	}
	return &types.SourceError{
		Phase:   "parse",
		Message: msg,
		File:    p.filename,
		Line:    tok.Line,
		Column:  tok.Column,
	}
}

func (p *Parser) pos() ast.Pos {
	return p.peek().Pos()
}

func (p *Parser) statement() (ast.Stmt, error) {
	switch tok := p.peek(); tok.Kind {
	case lexer.TokKwImport:
		return p.importStmt()
	case lexer.TokComponent:
		return p.componentDecl()
	case lexer.TokKwConnect:
		return p.connection()
	case lexer.TokKwSubcircuit:
		return p.subcircuitDef()
	case lexer.TokKwSimulate:
		return p.analysisBlock()
	case lexer.TokKwMacro:
		return p.macroDef()
	case lexer.TokKwFor:
		return p.forLoop()
	case lexer.TokIdent:
		// Disambiguate with one extra token of lookahead:
		// `name = expr;` is a variable, `Tmpl name ...;` an instance,
		// `name(args);` a macro invocation.
		switch p.peekNth(1).Kind {
		case lexer.TokAssign:
			return p.variableDecl()
		case lexer.TokIdent:
			return p.instance()
		case lexer.TokLParen:
			return p.macroCall()
		}
		return nil, p.errorf("expected declaration after identifier %q", tok.Text)
	}
	return nil, p.errorf("expected statement")
}

// bodyStmt parses a statement allowed inside macro and loop bodies.
func (p *Parser) bodyStmt() (ast.Stmt, error) {
	switch tok := p.peek(); tok.Kind {
	case lexer.TokComponent:
		return p.componentDecl()
	case lexer.TokKwConnect:
		return p.connection()
	case lexer.TokKwFor:
		return p.forLoop()
	case lexer.TokIdent:
		switch p.peekNth(1).Kind {
		case lexer.TokAssign:
			return p.variableDecl()
		case lexer.TokIdent:
			return p.instance()
		case lexer.TokLParen:
			return p.macroCall()
		}
		return nil, p.errorf("expected declaration after identifier %q", tok.Text)
	}
	return nil, p.errorf("expected component, connection, instance, loop, or invocation")
}

func (p *Parser) importStmt() (ast.Stmt, error) {
	pos := p.pos()
	p.advance() // Import
	path, err := p.expect(lexer.TokString)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokSemicolon); err != nil {
		return nil, err
	}
	return &ast.Import{Pos: pos, Path: path.Text}, nil
}

func (p *Parser) variableDecl() (ast.Stmt, error) {
	pos := p.pos()
	name := p.advance() // identifier
	p.advance()         // =
	value, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokSemicolon); err != nil {
		return nil, err
	}
	return &ast.VariableDecl{Pos: pos, Name: name.Text, Value: value}, nil
}

func (p *Parser) componentDecl() (ast.Stmt, error) {
	pos := p.pos()
	typ := p.advance() // component keyword
	name, err := p.expect(lexer.TokIdent)
	if err != nil {
		return nil, err
	}

	comp := &ast.Component{Pos: pos, Type: typ.Text, Name: name.Text}

	if _, err := p.expect(lexer.TokLParen); err != nil {
		return nil, err
	}
	if err := p.parameterList(comp); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokRParen); err != nil {
		return nil, err
	}

	if p.check(lexer.TokLBracket) {
		terms, err := p.terminalList()
		if err != nil {
			return nil, err
		}
		comp.Terminals = terms
	}

	if _, err := p.expect(lexer.TokSemicolon); err != nil {
		return nil, err
	}
	return comp, nil
}

// parameterList parses positional expressions followed by named key=expr
// pairs. A positional parameter after any named parameter is a parse error.
func (p *Parser) parameterList(comp *ast.Component) error {
	for !p.check(lexer.TokRParen) && !p.isEOF() {
		if p.check(lexer.TokIdent) && p.peekNth(1).Kind == lexer.TokAssign {
			argPos := p.pos()
			key := p.advance()
			p.advance() // =
			value, err := p.expr()
			if err != nil {
				return err
			}
			comp.Named = append(comp.Named, ast.NamedArg{Pos: argPos, Name: key.Text, Value: value})
		} else {
			if len(comp.Named) > 0 {
				return p.errorf("positional parameter not allowed after named parameter")
			}
			value, err := p.expr()
			if err != nil {
				return err
			}
			comp.Positional = append(comp.Positional, value)
		}
		if !p.check(lexer.TokComma) {
			break
		}
		p.advance()
	}
	return nil
}

func (p *Parser) terminalList() ([]string, error) {
	p.advance() // [
	var terms []string
	for !p.check(lexer.TokRBracket) && !p.isEOF() {
		name, err := p.expect(lexer.TokIdent)
		if err != nil {
			return nil, err
		}
		terms = append(terms, name.Text)
		if !p.check(lexer.TokComma) {
			break
		}
		p.advance()
	}
	if _, err := p.expect(lexer.TokRBracket); err != nil {
		return nil, err
	}
	return terms, nil
}

func (p *Parser) connection() (ast.Stmt, error) {
	pos := p.pos()
	p.advance() // Connect
	if _, err := p.expect(lexer.TokLParen); err != nil {
		return nil, err
	}

	conn := &ast.Connection{Pos: pos}

	// Optional explicit net name: Connect(net=vdd, ...).
	if p.check(lexer.TokIdent) && p.peek().Text == "net" && p.peekNth(1).Kind == lexer.TokAssign {
		p.advance()
		p.advance()
		name, err := p.expect(lexer.TokIdent)
		if err != nil {
			return nil, err
		}
		conn.Net = name.Text
		if p.check(lexer.TokComma) {
			p.advance()
		}
	}

	for !p.check(lexer.TokRParen) && !p.isEOF() {
		ep, err := p.endpoint()
		if err != nil {
			return nil, err
		}
		conn.Endpoints = append(conn.Endpoints, ep)
		if !p.check(lexer.TokComma) {
			break
		}
		p.advance()
	}

	if _, err := p.expect(lexer.TokRParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokSemicolon); err != nil {
		return nil, err
	}
	return conn, nil
}

// endpoint parses one connection endpoint: a bare identifier or number
// names a node, a dotted path `a.b.c` references terminal c on instance
// a.b (arbitrary hierarchy depth).
func (p *Parser) endpoint() (ast.Endpoint, error) {
	pos := p.pos()

	if p.check(lexer.TokNumber) {
		tok := p.advance()
		return &ast.NodeRef{Pos: pos, Name: tok.Text, Ground: tok.Text == "0"}, nil
	}

	first, err := p.expect(lexer.TokIdent)
	if err != nil {
		return nil, err
	}

	segments := []string{first.Text}
	for p.check(lexer.TokDot) {
		p.advance()
		seg, err := p.expect(lexer.TokIdent)
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg.Text)
	}

	if len(segments) == 1 {
		name := segments[0]
		return &ast.NodeRef{Pos: pos, Name: name, Ground: ast.IsGroundAlias(name)}, nil
	}
	return &ast.TerminalRef{
		Pos:       pos,
		Component: strings.Join(segments[:len(segments)-1], "."),
		Terminal:  segments[len(segments)-1],
	}, nil
}

func (p *Parser) subcircuitDef() (ast.Stmt, error) {
	pos := p.pos()
	p.advance() // Subcircuit
	name, err := p.expect(lexer.TokIdent)
	if err != nil {
		return nil, err
	}

	sub := &ast.Subcircuit{Pos: pos, Name: name.Text}

	if p.check(lexer.TokLParen) {
		if err := p.portList(sub); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(lexer.TokLBrace); err != nil {
		return nil, err
	}
	for !p.check(lexer.TokRBrace) && !p.isEOF() {
		switch p.peek().Kind {
		case lexer.TokComponent:
			stmt, err := p.componentDecl()
			if err != nil {
				return nil, err
			}
			sub.Components = append(sub.Components, stmt.(*ast.Component))
		case lexer.TokKwConnect:
			stmt, err := p.connection()
			if err != nil {
				return nil, err
			}
			sub.Connections = append(sub.Connections, stmt.(*ast.Connection))
		case lexer.TokIdent:
			if p.peekNth(1).Kind != lexer.TokIdent {
				return nil, p.errorf("expected nested instance")
			}
			stmt, err := p.instance()
			if err != nil {
				return nil, err
			}
			sub.Instances = append(sub.Instances, stmt.(*ast.Instance))
		default:
			return nil, p.errorf("expected component, connection, or instance in subcircuit body")
		}
	}
	if _, err := p.expect(lexer.TokRBrace); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokSemicolon); err != nil {
		return nil, err
	}
	return sub, nil
}

// portList parses subcircuit header entries: `name` or `name:dir` declares
// a port, `name = expr` declares a parameter with a default.
func (p *Parser) portList(sub *ast.Subcircuit) error {
	p.advance() // (
	for !p.check(lexer.TokRParen) && !p.isEOF() {
		entryPos := p.pos()
		name, err := p.expect(lexer.TokIdent)
		if err != nil {
			return err
		}
		switch p.peek().Kind {
		case lexer.TokAssign:
			p.advance()
			def, err := p.expr()
			if err != nil {
				return err
			}
			sub.Params = append(sub.Params, ast.Param{Pos: entryPos, Name: name.Text, Default: def})
		case lexer.TokColon:
			p.advance()
			dir, err := p.portDir()
			if err != nil {
				return err
			}
			sub.Ports = append(sub.Ports, ast.Port{Pos: entryPos, Name: name.Text, Dir: dir})
		default:
			sub.Ports = append(sub.Ports, ast.Port{Pos: entryPos, Name: name.Text, Dir: ast.PortInOut})
		}
		if !p.check(lexer.TokComma) {
			break
		}
		p.advance()
	}
	_, err := p.expect(lexer.TokRParen)
	return err
}

func (p *Parser) portDir() (ast.PortDir, error) {
	tok := p.advance()
	switch {
	case tok.Kind == lexer.TokIdent && tok.Text == "in":
		return ast.PortIn, nil
	case tok.Kind == lexer.TokIdent && tok.Text == "out":
		return ast.PortOut, nil
	case tok.Kind == lexer.TokIdent && tok.Text == "inout":
		return ast.PortInOut, nil
	}
	p.index-- // report at the bad token
	return 0, p.errorf("expected port direction in, out, or inout")
}

func (p *Parser) instance() (ast.Stmt, error) {
	pos := p.pos()
	tmpl := p.advance() // template name
	name := p.advance() // instance name

	inst := &ast.Instance{Pos: pos, Template: tmpl.Text, Name: name.Text}

	if p.check(lexer.TokLParen) {
		p.advance()
		for !p.check(lexer.TokRParen) && !p.isEOF() {
			argPos := p.pos()
			key, err := p.expect(lexer.TokIdent)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.TokAssign); err != nil {
				return nil, err
			}
			value, err := p.bindingValue()
			if err != nil {
				return nil, err
			}
			inst.Bindings = append(inst.Bindings, ast.NamedArg{Pos: argPos, Name: key.Text, Value: value})
			if !p.check(lexer.TokComma) {
				break
			}
			p.advance()
		}
		if _, err := p.expect(lexer.TokRParen); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(lexer.TokSemicolon); err != nil {
		return nil, err
	}
	return inst, nil
}

// bindingValue parses an instance binding value. A dotted path is folded
// into a single identifier ("a.b.c") so port bindings can target hierarchical
// terminals; anything else is an ordinary expression.
func (p *Parser) bindingValue() (ast.Expr, error) {
	if p.check(lexer.TokIdent) && p.peekNth(1).Kind == lexer.TokDot {
		pos := p.pos()
		segments := []string{p.advance().Text}
		for p.check(lexer.TokDot) {
			p.advance()
			seg, err := p.expect(lexer.TokIdent)
			if err != nil {
				return nil, err
			}
			segments = append(segments, seg.Text)
		}
		return &ast.Identifier{Pos: pos, Name: strings.Join(segments, ".")}, nil
	}
	return p.expr()
}

func (p *Parser) macroDef() (ast.Stmt, error) {
	pos := p.pos()
	p.advance() // Macro
	name, err := p.expect(lexer.TokIdent)
	if err != nil {
		return nil, err
	}

	macro := &ast.MacroDef{Pos: pos, Name: name.Text}

	if _, err := p.expect(lexer.TokLParen); err != nil {
		return nil, err
	}
	for !p.check(lexer.TokRParen) && !p.isEOF() {
		param, err := p.expect(lexer.TokIdent)
		if err != nil {
			return nil, err
		}
		macro.Params = append(macro.Params, param.Text)
		if !p.check(lexer.TokComma) {
			break
		}
		p.advance()
	}
	if _, err := p.expect(lexer.TokRParen); err != nil {
		return nil, err
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}
	macro.Body = body

	if _, err := p.expect(lexer.TokSemicolon); err != nil {
		return nil, err
	}
	return macro, nil
}

func (p *Parser) macroCall() (ast.Stmt, error) {
	pos := p.pos()
	name := p.advance()
	p.advance() // (
	var args []ast.Expr
	for !p.check(lexer.TokRParen) && !p.isEOF() {
		arg, err := p.expr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.check(lexer.TokComma) {
			break
		}
		p.advance()
	}
	if _, err := p.expect(lexer.TokRParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokSemicolon); err != nil {
		return nil, err
	}
	return &ast.MacroCall{Pos: pos, Name: name.Text, Args: args}, nil
}

func (p *Parser) forLoop() (ast.Stmt, error) {
	pos := p.pos()
	p.advance() // For
	loopVar, err := p.expect(lexer.TokIdent)
	if err != nil {
		return nil, err
	}
	// "in" is matched contextually so it stays usable as a port or node
	// name elsewhere.
	if !p.check(lexer.TokIdent) || p.peek().Text != "in" {
		return nil, p.errorf("expected 'in'")
	}
	p.advance()
	iterable, err := p.expr()
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokSemicolon); err != nil {
		return nil, err
	}
	return &ast.ForLoop{Pos: pos, Var: loopVar.Text, Iterable: iterable, Body: body}, nil
}

// block parses a `{ bodyStmt* }` sequence for macro and loop bodies.
func (p *Parser) block() ([]ast.Stmt, error) {
	if _, err := p.expect(lexer.TokLBrace); err != nil {
		return nil, err
	}
	var body []ast.Stmt
	for !p.check(lexer.TokRBrace) && !p.isEOF() {
		stmt, err := p.bodyStmt()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	if _, err := p.expect(lexer.TokRBrace); err != nil {
		return nil, err
	}
	return body, nil
}

func (p *Parser) analysisBlock() (ast.Stmt, error) {
	pos := p.pos()
	p.advance() // Simulate / analysis

	block := &ast.AnalysisBlock{Pos: pos}
	if p.check(lexer.TokIdent) {
		block.Name = p.advance().Text
	}

	if _, err := p.expect(lexer.TokLBrace); err != nil {
		return nil, err
	}
	for !p.check(lexer.TokRBrace) && !p.isEOF() {
		if p.check(lexer.TokKwPlot) {
			plot, err := p.plotCommand()
			if err != nil {
				return nil, err
			}
			block.Plots = append(block.Plots, plot)
			continue
		}
		dir, err := p.directive()
		if err != nil {
			return nil, err
		}
		block.Directives = append(block.Directives, dir)
	}
	if _, err := p.expect(lexer.TokRBrace); err != nil {
		return nil, err
	}
	// Trailing semicolon after the block is optional.
	if p.check(lexer.TokSemicolon) {
		p.advance()
	}
	return block, nil
}

// directive parses one keyword-tagged simulation directive. Each keyword
// has its own fixed positional-argument sub-grammar.
func (p *Parser) directive() (ast.Directive, error) {
	pos := p.pos()
	tok := p.peek()
	switch tok.Kind {
	case lexer.TokKwDc:
		p.advance()
		if err := p.directiveEnd(); err != nil {
			return nil, err
		}
		return &ast.DCDirective{Pos: pos}, nil

	case lexer.TokKwTransient:
		p.advance()
		args, err := p.directiveArgs(3, 3)
		if err != nil {
			return nil, err
		}
		return &ast.TransientDirective{Pos: pos, Start: args[0], Stop: args[1], Step: args[2]}, nil

	case lexer.TokKwAc:
		p.advance()
		args, err := p.directiveArgs(1, 4)
		if err != nil {
			return nil, err
		}
		return &ast.ACDirective{Pos: pos, Args: args}, nil

	case lexer.TokKwNoise:
		p.advance()
		args, err := p.directiveArgs(0, 3)
		if err != nil {
			return nil, err
		}
		return &ast.NoiseDirective{Pos: pos, Args: args}, nil

	case lexer.TokKwParamSweep:
		p.advance()
		if _, err := p.expect(lexer.TokLParen); err != nil {
			return nil, err
		}
		param, err := p.expect(lexer.TokIdent)
		if err != nil {
			return nil, err
		}
		var bounds []ast.Expr
		for i := 0; i < 3; i++ {
			if _, err := p.expect(lexer.TokComma); err != nil {
				return nil, err
			}
			e, err := p.expr()
			if err != nil {
				return nil, err
			}
			bounds = append(bounds, e)
		}
		if _, err := p.expect(lexer.TokRParen); err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokSemicolon); err != nil {
			return nil, err
		}
		return &ast.ParamSweepDirective{
			Pos: pos, Param: param.Text,
			Start: bounds[0], Stop: bounds[1], Step: bounds[2],
		}, nil

	case lexer.TokKwMonteCarlo:
		p.advance()
		args, err := p.directiveArgs(1, 1)
		if err != nil {
			return nil, err
		}
		return &ast.MonteCarloDirective{Pos: pos, Runs: args[0]}, nil
	}
	return nil, p.errorf("expected simulation directive")
}

// directiveEnd consumes an optional empty argument list and the
// terminating semicolon.
func (p *Parser) directiveEnd() error {
	if p.check(lexer.TokLParen) {
		p.advance()
		if _, err := p.expect(lexer.TokRParen); err != nil {
			return err
		}
	}
	_, err := p.expect(lexer.TokSemicolon)
	return err
}

// directiveArgs parses `(expr, ...);` with an argument count in [minArgs,
// maxArgs]. When minArgs is zero the argument list itself is optional.
func (p *Parser) directiveArgs(minArgs, maxArgs int) ([]ast.Expr, error) {
	var args []ast.Expr
	if !p.check(lexer.TokLParen) {
		if minArgs > 0 {
			return nil, p.errorf("expected '('")
		}
		_, err := p.expect(lexer.TokSemicolon)
		return nil, err
	}
	p.advance()
	for !p.check(lexer.TokRParen) && !p.isEOF() {
		arg, err := p.expr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.check(lexer.TokComma) {
			break
		}
		p.advance()
	}
	if _, err := p.expect(lexer.TokRParen); err != nil {
		return nil, err
	}
	if len(args) < minArgs || len(args) > maxArgs {
		if minArgs == maxArgs {
			return nil, p.errorf("expected %d directive arguments, have %d", minArgs, len(args))
		}
		return nil, p.errorf("expected %d to %d directive arguments, have %d", minArgs, maxArgs, len(args))
	}
	if _, err := p.expect(lexer.TokSemicolon); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) plotCommand() (*ast.Plot, error) {
	pos := p.pos()
	p.advance() // plot
	args, err := p.directiveArgs(1, 8)
	if err != nil {
		return nil, err
	}
	return &ast.Plot{Pos: pos, Args: args}, nil
}

// === Expressions ===
//
// Precedence, lowest to highest: logical-or, logical-and, equality,
// relational, additive, multiplicative (including the parallel operator
// '|'), power (right-associative), unary, primary.

func (p *Parser) expr() (ast.Expr, error) {
	return p.orExpr()
}

func (p *Parser) binaryLevel(next func() (ast.Expr, error), kinds ...lexer.TokenKind) (ast.Expr, error) {
	lhs, err := next()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		matched := false
		for _, k := range kinds {
			if tok.Kind == k {
				matched = true
				break
			}
		}
		if !matched {
			return lhs, nil
		}
		p.advance()
		rhs, err := next()
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinaryExpr{Pos: tok.Pos(), Op: tok.Text, Left: lhs, Right: rhs}
	}
}

func (p *Parser) orExpr() (ast.Expr, error) {
	return p.binaryLevel(p.andExpr, lexer.TokOrOr)
}

func (p *Parser) andExpr() (ast.Expr, error) {
	return p.binaryLevel(p.equalityExpr, lexer.TokAndAnd)
}

func (p *Parser) equalityExpr() (ast.Expr, error) {
	return p.binaryLevel(p.relationalExpr, lexer.TokEq, lexer.TokNeq)
}

func (p *Parser) relationalExpr() (ast.Expr, error) {
	return p.binaryLevel(p.additiveExpr, lexer.TokLt, lexer.TokLe, lexer.TokGt, lexer.TokGe)
}

func (p *Parser) additiveExpr() (ast.Expr, error) {
	return p.binaryLevel(p.multiplicativeExpr, lexer.TokPlus, lexer.TokMinus)
}

func (p *Parser) multiplicativeExpr() (ast.Expr, error) {
	return p.binaryLevel(p.powerExpr,
		lexer.TokStar, lexer.TokSlash, lexer.TokPercent, lexer.TokPipe)
}

// powerExpr is right-associative: 2^3^2 is 2^(3^2).
func (p *Parser) powerExpr() (ast.Expr, error) {
	base, err := p.unaryExpr()
	if err != nil {
		return nil, err
	}
	if !p.check(lexer.TokCaret) {
		return base, nil
	}
	tok := p.advance()
	exp, err := p.powerExpr()
	if err != nil {
		return nil, err
	}
	return &ast.BinaryExpr{Pos: tok.Pos(), Op: tok.Text, Left: base, Right: exp}, nil
}

func (p *Parser) unaryExpr() (ast.Expr, error) {
	switch tok := p.peek(); tok.Kind {
	case lexer.TokMinus, lexer.TokPlus, lexer.TokBang:
		p.advance()
		operand, err := p.unaryExpr()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Pos: tok.Pos(), Op: tok.Text, Operand: operand}, nil
	}
	return p.primary()
}

func (p *Parser) primary() (ast.Expr, error) {
	switch tok := p.peek(); tok.Kind {
	case lexer.TokNumber:
		return p.numberLiteral()

	case lexer.TokString:
		p.advance()
		return &ast.Literal{Pos: tok.Pos(), Str: tok.Text, IsStr: true}, nil

	case lexer.TokUnit:
		// A bare unit in expression position denotes the unit itself,
		// e.g. the second positional parameter in `Resistor R1(1000, ohm)`.
		p.advance()
		return &ast.Literal{Pos: tok.Pos(), Str: tok.Text, IsStr: true, Unit: tok.Text, Mag: tok.Mag}, nil

	case lexer.TokIdent:
		p.advance()
		if p.check(lexer.TokLParen) {
			return p.callArgs(tok)
		}
		return &ast.Identifier{Pos: tok.Pos(), Name: tok.Text}, nil

	case lexer.TokLParen:
		p.advance()
		inner, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokRParen); err != nil {
			return nil, err
		}
		return inner, nil

	case lexer.TokLBracket:
		return p.arrayLiteral()
	}
	return nil, p.errorf("expected expression")
}

func (p *Parser) numberLiteral() (ast.Expr, error) {
	tok := p.advance()
	num, err := strconv.ParseFloat(tok.Text, 64)
	if err != nil {
		p.index--
		return nil, p.errorf("invalid number %q", tok.Text)
	}
	lit := &ast.Literal{Pos: tok.Pos(), Num: num}
	if p.check(lexer.TokUnit) {
		unit := p.advance()
		lit.Unit = unit.Text
		lit.Mag = unit.Mag
	}
	return lit, nil
}

func (p *Parser) callArgs(name lexer.Token) (ast.Expr, error) {
	p.advance() // (
	var args []ast.Expr
	for !p.check(lexer.TokRParen) && !p.isEOF() {
		arg, err := p.expr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.check(lexer.TokComma) {
			break
		}
		p.advance()
	}
	if _, err := p.expect(lexer.TokRParen); err != nil {
		return nil, err
	}
	return &ast.Call{Pos: name.Pos(), Name: name.Text, Args: args}, nil
}

func (p *Parser) arrayLiteral() (ast.Expr, error) {
	tok := p.advance() // [
	var elements []ast.Expr
	for !p.check(lexer.TokRBracket) && !p.isEOF() {
		el, err := p.expr()
		if err != nil {
			return nil, err
		}
		elements = append(elements, el)
		if !p.check(lexer.TokComma) {
			break
		}
		p.advance()
	}
	if _, err := p.expect(lexer.TokRBracket); err != nil {
		return nil, err
	}
	return &ast.ArrayLit{Pos: tok.Pos(), Elements: elements}, nil
}
