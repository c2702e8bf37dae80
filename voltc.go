// Package voltc compiles circuit DSL source text into a SPICE netlist.
//
// A compilation runs lex, parse, validate, normalize, expand, flatten,
// resolve, and format in order, on one goroutine, against state owned by
// that call alone, so independent compilations may run concurrently.
//
// Example:
//
//	result, err := voltc.Compile(source, voltc.WithFilename("amp.ckt"))
//	if err != nil {
//	    log.Fatal(err) // fatal lexical or parse failure
//	}
//	for _, d := range result.Errors {
//	    fmt.Println(d)
//	}
//	for _, line := range result.Netlist {
//	    fmt.Println(line)
//	}
package voltc

import (
	"errors"
	"log/slog"
)

// ErrEmptySource is returned when Compile is called with no source text.
var ErrEmptySource = errors.New("no source text provided")

// LevelTrace is a custom log level more verbose than Debug.
// Use for per-item iteration logging (tokens, expansions, nets).
// Enable with: &slog.HandlerOptions{Level: slog.Level(-8)}
const LevelTrace = slog.Level(-8)

// Option configures Compile.
type Option func(*compileConfig)

type compileConfig struct {
	filename string
	logger   *slog.Logger
	maxDepth int
}

// WithFilename sets the filename attached to diagnostics and fatal
// errors. If not set, locations carry only line and column.
func WithFilename(name string) Option {
	return func(c *compileConfig) { c.filename = name }
}

// WithLogger sets the logger for debug/trace output.
// If not set, no logging occurs (zero overhead).
func WithLogger(logger *slog.Logger) Option {
	return func(c *compileConfig) { c.logger = logger }
}

// WithMaxDepth overrides the recursion bound shared by macro expansion
// and subcircuit flattening. Values below 1 keep the default of 64.
func WithMaxDepth(depth int) Option {
	return func(c *compileConfig) { c.maxDepth = depth }
}

func componentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("component", component))
}
