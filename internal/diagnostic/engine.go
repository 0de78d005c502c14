package diagnostic

import (
	"fmt"
	"sort"
)

// DiagnosticConfig controls diagnostic behavior.
type DiagnosticConfig struct {
	// MaxErrors stops collection after this many errors; 0 means no limit.
	MaxErrors int
	// WarningsAsErrors promotes warnings, as `check` does in strict mode.
	WarningsAsErrors bool
}

// DiagnosticEngine manages the collection of diagnostics for one run.
type DiagnosticEngine struct {
	diagnostics []*Diagnostic
	config      DiagnosticConfig
	truncated   bool
}

// NewDiagnosticEngine creates a new diagnostic engine.
func NewDiagnosticEngine(config DiagnosticConfig) *DiagnosticEngine {
	return &DiagnosticEngine{config: config}
}

// AddDiagnostic adds a diagnostic to the engine.
func (de *DiagnosticEngine) AddDiagnostic(d *Diagnostic) {
	if de.truncated {
		return
	}
	if de.config.WarningsAsErrors && d.Level == DiagnosticWarning {
		d.Level = DiagnosticError
	}
	de.diagnostics = append(de.diagnostics, d)

	if de.config.MaxErrors > 0 && de.ErrorCount() >= de.config.MaxErrors {
		de.truncated = true
		de.diagnostics = append(de.diagnostics, NewDiagnostic().
			Error().
			Code(CodeTooManyErrors).
			Message("stopping after %d errors", de.config.MaxErrors).
			At(d.Pos).
			Build())
	}
}

// AddError converts err with Collect and adds the results. Errors that are
// neither lexical nor parse faults are returned.
func (de *DiagnosticEngine) AddError(err error) []error {
	diags, rest := Collect(err)
	for _, d := range diags {
		de.AddDiagnostic(d)
	}
	return rest
}

// GetDiagnostics returns all diagnostics in insertion order.
func (de *DiagnosticEngine) GetDiagnostics() []*Diagnostic {
	return de.diagnostics
}

func (de *DiagnosticEngine) ErrorCount() int   { return de.count(DiagnosticError) }
func (de *DiagnosticEngine) WarningCount() int { return de.count(DiagnosticWarning) }
func (de *DiagnosticEngine) HasErrors() bool   { return de.ErrorCount() > 0 }

func (de *DiagnosticEngine) count(level DiagnosticLevel) int {
	n := 0
	for _, d := range de.diagnostics {
		if d.Level == level {
			n++
		}
	}
	return n
}

// SortDiagnostics sorts diagnostics by position and severity.
func (de *DiagnosticEngine) SortDiagnostics() {
	sort.SliceStable(de.diagnostics, func(i, j int) bool {
		a, b := de.diagnostics[i].Pos, de.diagnostics[j].Pos

		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return de.diagnostics[i].Level < de.diagnostics[j].Level
	})
}

// Summary reports the error and warning counts, or "" when there are none.
func (de *DiagnosticEngine) Summary() string {
	errs, warns := de.ErrorCount(), de.WarningCount()
	switch {
	case errs > 0 && warns > 0:
		return fmt.Sprintf("%d error(s), %d warning(s)", errs, warns)
	case errs > 0:
		return fmt.Sprintf("%d error(s)", errs)
	case warns > 0:
		return fmt.Sprintf("%d warning(s)", warns)
	}
	return ""
}
