// Package lexer provides tokenization for circuit DSL source text.
package lexer

import (
	"github.com/voltlang/voltc/internal/types"
)

// Token is a token with kind, source text, and 1-based location.
// Tokens are immutable once produced.
type Token struct {
	Kind   TokenKind
	Text   string
	Line   int
	Column int

	// Mag is the SI magnitude multiplier of a unit token ("kohm" -> 1e3).
	// Zero for every other kind.
	Mag float64
}

// Pos returns the token's source position.
func (t Token) Pos() types.Pos {
	return types.Pos{Line: t.Line, Column: t.Column}
}

// TokenKind identifies a token type.
type TokenKind int

const (
	// TokEOF is the end-of-input sentinel.
	TokEOF TokenKind = iota

	// TokIdent is an identifier.
	TokIdent
	// TokNumber is a numeric literal (integer, decimal, or exponent form).
	TokNumber
	// TokString is a double-quoted string literal.
	TokString
	// TokUnit is a unit spelling, optionally SI-prefixed ("ohm", "kohm", "uF").
	TokUnit
	// TokComment is a line or block comment. The parser skips these.
	TokComment

	// TokComponent is a component-type keyword (Resistor, OpAmp, ...).
	TokComponent

	// === Structural keywords ===

	// TokKwConnect is 'Connect'.
	TokKwConnect
	// TokKwSubcircuit is 'Subcircuit'.
	TokKwSubcircuit
	// TokKwSimulate is 'Simulate' or its synonym 'analysis'.
	TokKwSimulate
	// TokKwMacro is 'Macro'.
	TokKwMacro
	// TokKwFor is 'For'.
	TokKwFor
	// TokKwImport is 'Import'.
	TokKwImport

	// === Directive keywords ===

	// TokKwDc is 'dc'.
	TokKwDc
	// TokKwAc is 'ac'.
	TokKwAc
	// TokKwTransient is 'transient'.
	TokKwTransient
	// TokKwNoise is 'noise'.
	TokKwNoise
	// TokKwParamSweep is 'paramSweep'.
	TokKwParamSweep
	// TokKwMonteCarlo is 'monteCarlo'.
	TokKwMonteCarlo
	// TokKwPlot is 'plot'.
	TokKwPlot

	// === Operators ===

	// TokAssign is '='.
	TokAssign
	// TokPlus is '+'.
	TokPlus
	// TokMinus is '-'.
	TokMinus
	// TokStar is '*'.
	TokStar
	// TokSlash is '/'.
	TokSlash
	// TokPercent is '%'.
	TokPercent
	// TokPipe is '|', the parallel-combination operator.
	TokPipe
	// TokCaret is '^', right-associative power.
	TokCaret
	// TokBang is '!'.
	TokBang
	// TokAndAnd is '&&'.
	TokAndAnd
	// TokOrOr is '||'.
	TokOrOr
	// TokEq is '=='.
	TokEq
	// TokNeq is '!='.
	TokNeq
	// TokLt is '<'.
	TokLt
	// TokLe is '<='.
	TokLe
	// TokGt is '>'.
	TokGt
	// TokGe is '>='.
	TokGe

	// === Punctuation ===

	// TokLParen is '('.
	TokLParen
	// TokRParen is ')'.
	TokRParen
	// TokLBrace is '{'.
	TokLBrace
	// TokRBrace is '}'.
	TokRBrace
	// TokLBracket is '['.
	TokLBracket
	// TokRBracket is ']'.
	TokRBracket
	// TokSemicolon is ';'.
	TokSemicolon
	// TokComma is ','.
	TokComma
	// TokDot is '.'.
	TokDot
	// TokColon is ':'.
	TokColon
)

var kindNames = map[TokenKind]string{
	TokEOF:          "end of input",
	TokIdent:        "identifier",
	TokNumber:       "number",
	TokString:       "string",
	TokUnit:         "unit",
	TokComment:      "comment",
	TokComponent:    "component type",
	TokKwConnect:    "'Connect'",
	TokKwSubcircuit: "'Subcircuit'",
	TokKwSimulate:   "'Simulate'",
	TokKwMacro:      "'Macro'",
	TokKwFor:        "'For'",
	TokKwImport:     "'Import'",
	TokKwDc:         "'dc'",
	TokKwAc:         "'ac'",
	TokKwTransient:  "'transient'",
	TokKwNoise:      "'noise'",
	TokKwParamSweep: "'paramSweep'",
	TokKwMonteCarlo: "'monteCarlo'",
	TokKwPlot:       "'plot'",
	TokAssign:       "'='",
	TokPlus:         "'+'",
	TokMinus:        "'-'",
	TokStar:         "'*'",
	TokSlash:        "'/'",
	TokPercent:      "'%'",
	TokPipe:         "'|'",
	TokCaret:        "'^'",
	TokBang:         "'!'",
	TokAndAnd:       "'&&'",
	TokOrOr:         "'||'",
	TokEq:           "'=='",
	TokNeq:          "'!='",
	TokLt:           "'<'",
	TokLe:           "'<='",
	TokGt:           "'>'",
	TokGe:           "'>='",
	TokLParen:       "'('",
	TokRParen:       "')'",
	TokLBrace:       "'{'",
	TokRBrace:       "'}'",
	TokLBracket:     "'['",
	TokRBracket:     "']'",
	TokSemicolon:    "';'",
	TokComma:        "','",
	TokDot:          "'.'",
	TokColon:        "':'",
}

// String returns a human-readable name for error messages.
func (k TokenKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown token"
}
