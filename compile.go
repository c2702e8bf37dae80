package voltc

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/voltlang/voltc/ast"
	"github.com/voltlang/voltc/internal/eval"
	"github.com/voltlang/voltc/internal/expand"
	"github.com/voltlang/voltc/internal/flatten"
	"github.com/voltlang/voltc/internal/lexer"
	"github.com/voltlang/voltc/internal/netlist"
	"github.com/voltlang/voltc/internal/parser"
	"github.com/voltlang/voltc/internal/resolve"
	"github.com/voltlang/voltc/internal/types"
	"github.com/voltlang/voltc/internal/units"
	"github.com/voltlang/voltc/internal/validate"
)

// Result is a completed compilation: the parsed program, the netlist
// lines, and the accumulated diagnostics. When Errors is non-empty the
// netlist is withheld; Program and Warnings are still populated.
type Result struct {
	Program  *ast.Program
	Netlist  []string
	Errors   []Diagnostic
	Warnings []Diagnostic
}

// Ok reports whether the compilation produced no error diagnostics.
func (r *Result) Ok() bool {
	return len(r.Errors) == 0
}

// Compile runs the full pipeline on source. A fatal lexical or parse
// failure is returned as a *SourceError and no Result is produced; every
// later-stage problem is collected into the Result instead.
func Compile(source []byte, opts ...Option) (*Result, error) {
	var cfg compileConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if len(bytes.TrimSpace(source)) == 0 {
		return nil, ErrEmptySource
	}

	logger := cfg.logger
	if logEnabled(logger, slog.LevelInfo) {
		logger.Info("compiling",
			slog.String("file", cfg.filename),
			slog.Int("bytes", len(source)))
	}

	tokens, err := lexer.New(source, componentLogger(logger, "lexer")).Tokenize()
	if err != nil {
		return nil, publicError(err, cfg.filename)
	}
	prog, err := parser.New(tokens, cfg.filename, componentLogger(logger, "parser")).Parse()
	if err != nil {
		return nil, publicError(err, cfg.filename)
	}

	sink := &types.Sink{File: cfg.filename}
	validate.New(sink, componentLogger(logger, "validate")).Check(prog)
	units.Normalize(prog)

	result := &Result{Program: prog}
	if sink.HasErrors() {
		result.Errors = publicDiagnostics(sink.Errors())
		result.Warnings = publicDiagnostics(sink.Warnings())
		return result, nil
	}

	ev := eval.New(sink, componentLogger(logger, "eval"))
	expanded := expand.New(prog, sink, ev, cfg.maxDepth, componentLogger(logger, "expand")).Expand()
	flat := flatten.New(prog, sink, ev, cfg.maxDepth, componentLogger(logger, "flatten")).Flatten(expanded)
	table := resolve.New(componentLogger(logger, "resolve")).Resolve(flat.Connections)
	lines := netlist.New(sink, ev, expanded.Env, componentLogger(logger, "netlist")).Format(flat, table)

	result.Errors = publicDiagnostics(sink.Errors())
	result.Warnings = publicDiagnostics(sink.Warnings())
	if result.Ok() {
		result.Netlist = lines
	}
	if logEnabled(logger, slog.LevelInfo) {
		logger.Info("compilation finished",
			slog.Int("lines", len(result.Netlist)),
			slog.Int("errors", len(result.Errors)),
			slog.Int("warnings", len(result.Warnings)))
	}
	return result, nil
}

// logEnabled returns true if logging is enabled at the given level.
func logEnabled(logger *slog.Logger, level slog.Level) bool {
	return logger != nil && logger.Enabled(context.Background(), level)
}
