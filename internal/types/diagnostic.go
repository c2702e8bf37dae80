package types

import (
	"fmt"
	"strings"
)

// Severity classifies a diagnostic.
type Severity int

const (
	// SeverityError blocks netlist generation.
	SeverityError Severity = iota
	// SeverityWarning is reported but does not block.
	SeverityWarning
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Diagnostic is an issue found during validation, evaluation, expansion,
// flattening, resolution, or formatting. Fatal lexical and parse failures
// are not diagnostics; they abort compilation as errors.
type Diagnostic struct {
	Severity Severity
	Code     string // e.g. "duplicate-definition", "division-by-zero"
	Message  string
	File     string // source filename, "" if not applicable
	Line     int    // 1-based, 0 if not applicable
	Column   int    // 1-based, 0 if not applicable
}

// String returns a human-readable representation of the diagnostic.
// Format: "[severity] file:line:col: message" with location parts omitted
// when zero.
func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(d.Severity.String())
	b.WriteByte(']')
	b.WriteByte(' ')
	if d.File != "" || d.Line > 0 {
		b.WriteString(d.File)
		if d.Line > 0 {
			fmt.Fprintf(&b, ":%d", d.Line)
			if d.Column > 0 {
				fmt.Fprintf(&b, ":%d", d.Column)
			}
		}
		b.WriteString(": ")
	}
	b.WriteString(d.Message)
	return b.String()
}

// Sink collects diagnostics produced by one compilation. All pipeline
// stages past the parser append to a single shared sink so the caller sees
// every problem in one run.
type Sink struct {
	File        string
	Diagnostics []Diagnostic
}

// Error appends an error diagnostic at the given position.
func (s *Sink) Error(code string, pos Pos, format string, args ...any) {
	s.add(SeverityError, code, pos, format, args...)
}

// Warn appends a warning diagnostic at the given position.
func (s *Sink) Warn(code string, pos Pos, format string, args ...any) {
	s.add(SeverityWarning, code, pos, format, args...)
}

func (s *Sink) add(sev Severity, code string, pos Pos, format string, args ...any) {
	s.Diagnostics = append(s.Diagnostics, Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		File:     s.File,
		Line:     pos.Line,
		Column:   pos.Column,
	})
}

// Errors returns the collected error diagnostics in order.
func (s *Sink) Errors() []Diagnostic {
	return s.bySeverity(SeverityError)
}

// Warnings returns the collected warning diagnostics in order.
func (s *Sink) Warnings() []Diagnostic {
	return s.bySeverity(SeverityWarning)
}

// HasErrors returns true if any error diagnostic was collected.
func (s *Sink) HasErrors() bool {
	for _, d := range s.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

func (s *Sink) bySeverity(sev Severity) []Diagnostic {
	var out []Diagnostic
	for _, d := range s.Diagnostics {
		if d.Severity == sev {
			out = append(out, d)
		}
	}
	return out
}
