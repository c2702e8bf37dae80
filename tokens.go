package voltc

import (
	"bytes"

	"github.com/voltlang/voltc/internal/lexer"
)

// TokenInfo describes one scanned token, for tooling that inspects the
// lexer's view of a source file.
type TokenInfo struct {
	Kind   string
	Text   string
	Line   int
	Column int
}

// Tokens scans source and returns the full token sequence, ending with
// the EOF sentinel. A lexical failure is returned as a *SourceError.
func Tokens(source []byte, opts ...Option) ([]TokenInfo, error) {
	var cfg compileConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if len(bytes.TrimSpace(source)) == 0 {
		return nil, ErrEmptySource
	}
	tokens, err := lexer.New(source, componentLogger(cfg.logger, "lexer")).Tokenize()
	if err != nil {
		return nil, publicError(err, cfg.filename)
	}
	out := make([]TokenInfo, len(tokens))
	for i, tok := range tokens {
		out[i] = TokenInfo{
			Kind:   tok.Kind.String(),
			Text:   tok.Text,
			Line:   tok.Line,
			Column: tok.Column,
		}
	}
	return out, nil
}
