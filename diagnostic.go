package voltc

import (
	"errors"

	"github.com/voltlang/voltc/internal/types"
)

// Diagnostic is one problem found after parsing: a semantic error, an
// evaluation issue, or a formatting failure. Severity is "error" or
// "warning"; Code is a stable machine-readable identifier like
// "duplicate-definition" or "division-by-zero".
type Diagnostic struct {
	Severity string
	Code     string
	Message  string
	File     string // "" when no filename was supplied
	Line     int    // 1-based, 0 when not applicable
	Column   int    // 1-based, 0 when not applicable
}

// String returns "[severity] file:line:col: message" with location parts
// omitted when unknown.
func (d Diagnostic) String() string {
	return types.Diagnostic{
		Severity: internalSeverity(d.Severity),
		Code:     d.Code,
		Message:  d.Message,
		File:     d.File,
		Line:     d.Line,
		Column:   d.Column,
	}.String()
}

// SourceError is a fatal lexical or parse failure. Compile returns it as
// the error; no Result is produced.
type SourceError struct {
	Phase   string // "lex" or "parse"
	Message string
	File    string
	Line    int
	Column  int
}

func (e *SourceError) Error() string {
	return (&types.SourceError{
		Phase:   e.Phase,
		Message: e.Message,
		File:    e.File,
		Line:    e.Line,
		Column:  e.Column,
	}).Error()
}

// AsSourceError unwraps a SourceError from err, if it carries one.
func AsSourceError(err error) (*SourceError, bool) {
	var se *SourceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

func publicError(err error, file string) error {
	var se *types.SourceError
	if !errors.As(err, &se) {
		return err
	}
	return &SourceError{
		Phase:   se.Phase,
		Message: se.Message,
		File:    file,
		Line:    se.Line,
		Column:  se.Column,
	}
}

func publicDiagnostics(in []types.Diagnostic) []Diagnostic {
	if len(in) == 0 {
		return nil
	}
	out := make([]Diagnostic, len(in))
	for i, d := range in {
		out[i] = Diagnostic{
			Severity: d.Severity.String(),
			Code:     d.Code,
			Message:  d.Message,
			File:     d.File,
			Line:     d.Line,
			Column:   d.Column,
		}
	}
	return out
}

func internalSeverity(s string) types.Severity {
	if s == "warning" {
		return types.SeverityWarning
	}
	return types.SeverityError
}
