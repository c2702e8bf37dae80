package types

import "fmt"

// SourceError is a fatal lexical or parse failure. It aborts compilation
// immediately, unlike Diagnostics which are collected.
type SourceError struct {
	Phase   string // "lex" or "parse"
	Message string
	File    string
	Line    int
	Column  int
}

func (e *SourceError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// Pos returns the error location.
func (e *SourceError) Pos() Pos {
	return Pos{Line: e.Line, Column: e.Column}
}
