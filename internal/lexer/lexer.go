package lexer

import (
	"fmt"
	"log/slog"

	"github.com/voltlang/voltc/internal/types"
	"github.com/voltlang/voltc/internal/units"
)

// Lexer tokenizes circuit DSL source text. A lexical failure is fatal:
// tokenization stops immediately with a *types.SourceError carrying the
// offending location.
type Lexer struct {
	source []byte
	pos    int
	line   int
	col    int

	// pending holds a token produced while classifying the word attached
	// to a number ("10kohm" splits into NUMBER and UNIT).
	pending *Token

	types.Logger
}

// New returns a Lexer over the given source bytes.
// Pass nil for logger to disable logging.
func New(source []byte, logger *slog.Logger) *Lexer {
	l := &Lexer{
		source: source,
		line:   1,
		col:    1,
		Logger: types.Logger{L: logger},
	}
	l.Log(slog.LevelDebug, "lexer initialized", slog.Int("bytes", len(source)))
	return l
}

// Tokenize consumes all source text and returns the token stream, always
// ending with an EOF sentinel. Comment tokens are included; the parser
// skips them.
func (l *Lexer) Tokenize() ([]Token, error) {
	estimatedTokens := max(len(l.source)/4, 16)
	tokens := make([]Token, 0, estimatedTokens)
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		if l.TraceEnabled() {
			l.Trace("token",
				slog.Int("kind", int(tok.Kind)),
				slog.String("text", tok.Text),
				slog.Int("line", tok.Line))
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokEOF {
			break
		}
	}
	l.Log(slog.LevelDebug, "tokenization complete", slog.Int("tokens", len(tokens)))
	return tokens, nil
}

func (l *Lexer) peek() (byte, bool) {
	if l.pos >= len(l.source) {
		return 0, false
	}
	return l.source[l.pos], true
}

func (l *Lexer) peekAt(offset int) (byte, bool) {
	idx := l.pos + offset
	if idx >= len(l.source) {
		return 0, false
	}
	return l.source[idx], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.pos >= len(l.source) {
		return 0, false
	}
	b := l.source[l.pos]
	l.pos++
	if b == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return b, true
}

func (l *Lexer) skipWhitespace() {
	for {
		b, ok := l.peek()
		if !ok || (b != ' ' && b != '\t' && b != '\r' && b != '\n') {
			return
		}
		l.advance()
	}
}

func (l *Lexer) errorf(line, col int, format string, args ...any) error {
	return &types.SourceError{
		Phase:   "lex",
		Message: fmt.Sprintf(format, args...),
		Line:    line,
		Column:  col,
	}
}

func (l *Lexer) token(kind TokenKind, text string, line, col int) Token {
	return Token{Kind: kind, Text: text, Line: line, Column: col}
}

func (l *Lexer) next() (Token, error) {
	if l.pending != nil {
		tok := *l.pending
		l.pending = nil
		return tok, nil
	}

	l.skipWhitespace()

	line, col := l.line, l.col
	b, ok := l.peek()
	if !ok {
		return l.token(TokEOF, "", line, col), nil
	}

	switch {
	case b >= '0' && b <= '9':
		return l.scanNumber()
	case b == '"':
		return l.scanString()
	case isAlpha(b) || b == '_':
		return l.scanWord(), nil
	}

	if b == '/' {
		if next, ok := l.peekAt(1); ok && (next == '/' || next == '*') {
			return l.scanComment()
		}
	}

	return l.scanOperator()
}

func (l *Lexer) scanOperator() (Token, error) {
	line, col := l.line, l.col
	b, _ := l.advance()

	two := func(second byte, twoKind, oneKind TokenKind) Token {
		if next, ok := l.peek(); ok && next == second {
			l.advance()
			return l.token(twoKind, string([]byte{b, second}), line, col)
		}
		return l.token(oneKind, string(b), line, col)
	}

	switch b {
	case '(':
		return l.token(TokLParen, "(", line, col), nil
	case ')':
		return l.token(TokRParen, ")", line, col), nil
	case '{':
		return l.token(TokLBrace, "{", line, col), nil
	case '}':
		return l.token(TokRBrace, "}", line, col), nil
	case '[':
		return l.token(TokLBracket, "[", line, col), nil
	case ']':
		return l.token(TokRBracket, "]", line, col), nil
	case ';':
		return l.token(TokSemicolon, ";", line, col), nil
	case ',':
		return l.token(TokComma, ",", line, col), nil
	case '.':
		return l.token(TokDot, ".", line, col), nil
	case ':':
		return l.token(TokColon, ":", line, col), nil
	case '+':
		return l.token(TokPlus, "+", line, col), nil
	case '-':
		return l.token(TokMinus, "-", line, col), nil
	case '*':
		return l.token(TokStar, "*", line, col), nil
	case '/':
		return l.token(TokSlash, "/", line, col), nil
	case '%':
		return l.token(TokPercent, "%", line, col), nil
	case '^':
		return l.token(TokCaret, "^", line, col), nil
	case '=':
		return two('=', TokEq, TokAssign), nil
	case '!':
		return two('=', TokNeq, TokBang), nil
	case '<':
		return two('=', TokLe, TokLt), nil
	case '>':
		return two('=', TokGe, TokGt), nil
	case '&':
		if next, ok := l.peek(); ok && next == '&' {
			l.advance()
			return l.token(TokAndAnd, "&&", line, col), nil
		}
		return Token{}, l.errorf(line, col, "unexpected character '&'")
	case '|':
		return two('|', TokOrOr, TokPipe), nil
	}

	return Token{}, l.errorf(line, col, "unexpected character %q", string(b))
}

// scanNumber scans an integer, decimal, or exponent-form number. A unit
// word attached directly to the number (no whitespace) is split off into a
// separate unit token carrying its SI magnitude multiplier.
func (l *Lexer) scanNumber() (Token, error) {
	line, col := l.line, l.col
	start := l.pos

	l.digits()
	if b, ok := l.peek(); ok && b == '.' {
		if next, ok := l.peekAt(1); ok && next >= '0' && next <= '9' {
			l.advance()
			l.digits()
		}
	}
	if b, ok := l.peek(); ok && (b == 'e' || b == 'E') {
		offset := 1
		if sign, ok := l.peekAt(1); ok && (sign == '+' || sign == '-') {
			offset = 2
		}
		if d, ok := l.peekAt(offset); ok && d >= '0' && d <= '9' {
			for i := 0; i < offset+1; i++ {
				l.advance()
			}
			l.digits()
		}
	}

	num := l.token(TokNumber, string(l.source[start:l.pos]), line, col)

	// Attached unit suffix: "10uF", "1.5kohm", "10k".
	if b, ok := l.peek(); ok && (isAlpha(b) || b == '_') {
		wline, wcol := l.line, l.col
		wstart := l.pos
		l.word()
		text := string(l.source[wstart:l.pos])
		if mag, _, ok := units.SplitSuffix(text); ok {
			unit := l.token(TokUnit, text, wline, wcol)
			unit.Mag = mag
			l.pending = &unit
		} else {
			tok := l.classifyWord(text, wline, wcol)
			l.pending = &tok
		}
	}

	return num, nil
}

func (l *Lexer) digits() {
	for {
		b, ok := l.peek()
		if !ok || b < '0' || b > '9' {
			return
		}
		l.advance()
	}
}

func (l *Lexer) scanString() (Token, error) {
	line, col := l.line, l.col
	l.advance() // consume opening quote

	start := l.pos
	for {
		b, ok := l.peek()
		if !ok || b == '\n' {
			return Token{}, l.errorf(line, col, "unterminated string literal")
		}
		if b == '"' {
			text := string(l.source[start:l.pos])
			l.advance()
			return l.token(TokString, text, line, col), nil
		}
		l.advance()
	}
}

func (l *Lexer) scanWord() Token {
	line, col := l.line, l.col
	start := l.pos
	l.word()
	return l.classifyWord(string(l.source[start:l.pos]), line, col)
}

func (l *Lexer) word() {
	for {
		b, ok := l.peek()
		if !ok || (!isAlphanumeric(b) && b != '_') {
			return
		}
		l.advance()
	}
}

// classifyWord applies the fixed lookup order: keywords and component
// types, then units, then the generic identifier.
func (l *Lexer) classifyWord(text string, line, col int) Token {
	if kind, ok := LookupWord(text); ok {
		return l.token(kind, text, line, col)
	}
	if mag, _, ok := units.Split(text); ok {
		tok := l.token(TokUnit, text, line, col)
		tok.Mag = mag
		return tok
	}
	return l.token(TokIdent, text, line, col)
}

func (l *Lexer) scanComment() (Token, error) {
	line, col := l.line, l.col
	l.advance() // '/'
	b, _ := l.advance()

	start := l.pos
	if b == '/' {
		for {
			c, ok := l.peek()
			if !ok || c == '\n' {
				break
			}
			l.advance()
		}
		return l.token(TokComment, string(l.source[start:l.pos]), line, col), nil
	}

	// Block comment, non-nested.
	for {
		c, ok := l.peek()
		if !ok {
			return Token{}, l.errorf(line, col, "unterminated block comment")
		}
		if c == '*' {
			if next, ok := l.peekAt(1); ok && next == '/' {
				text := string(l.source[start:l.pos])
				l.advance()
				l.advance()
				return l.token(TokComment, text, line, col), nil
			}
		}
		l.advance()
	}
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isAlphanumeric(b byte) bool {
	return isAlpha(b) || (b >= '0' && b <= '9')
}
