// Package diag collects diagnostics emitted during lexical analysis and recognition.
package diag

import (
	"log/slog"

	"github.com/ava12/sublex"
	"github.com/ava12/sublex/source"
)

// Severity of a diagnostic.
type Severity byte

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Diagnostic is a single reported problem.
type Diagnostic struct {
	Err      *sublex.Error
	Severity Severity
	Range    source.Range
	// Number is the value of the running counter of the same severity after this diagnostic.
	Number int
}

func (d Diagnostic) Error() string {
	return d.Severity.String() + ": " + d.Err.Message
}

// Reporter records diagnostics and keeps running error and warning counters.
// Every diagnostic is also sent to the logger. A positive limit caps the number of stored diagnostics,
// counters are updated anyway.
type Reporter struct {
	items            []Diagnostic
	errors, warnings int
	limit            int
	logger           *slog.Logger
}

// NewReporter creates reporter. Nil logger means slog.Default().
func NewReporter(logger *slog.Logger, limit int) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{logger: logger, limit: limit}
}

// Report records a diagnostic at given source range.
func (r *Reporter) Report(sev Severity, rng source.Range, code int, msg string, params ...any) Diagnostic {
	var e *sublex.Error
	if rng.Begin.Line() != 0 {
		e = sublex.FormatErrorPos(rng.Begin, code, msg, params...)
	} else {
		e = sublex.FormatError(code, msg, params...)
	}

	d := Diagnostic{Err: e, Severity: sev, Range: rng}
	if sev == Warning {
		r.warnings++
		d.Number = r.warnings
		r.logger.Warn(e.Message, "code", code)
	} else {
		r.errors++
		d.Number = r.errors
		r.logger.Error(e.Message, "code", code)
	}

	if r.limit <= 0 || len(r.items) < r.limit {
		r.items = append(r.items, d)
	}
	return d
}

// Errorf records an error.
func (r *Reporter) Errorf(rng source.Range, code int, msg string, params ...any) Diagnostic {
	return r.Report(Error, rng, code, msg, params...)
}

// Warnf records a warning.
func (r *Reporter) Warnf(rng source.Range, code int, msg string, params ...any) Diagnostic {
	return r.Report(Warning, rng, code, msg, params...)
}

func (r *Reporter) Errors() int {
	return r.errors
}

func (r *Reporter) Warnings() int {
	return r.warnings
}

// Diagnostics returns stored diagnostics in reporting order.
func (r *Reporter) Diagnostics() []Diagnostic {
	return r.items
}

// Count returns the number of stored diagnostics with given code.
func (r *Reporter) Count(code int) int {
	res := 0
	for _, d := range r.items {
		if d.Err.Code == code {
			res++
		}
	}
	return res
}

// Reset drops stored diagnostics and zeroes counters.
func (r *Reporter) Reset() {
	r.items = nil
	r.errors = 0
	r.warnings = 0
}
