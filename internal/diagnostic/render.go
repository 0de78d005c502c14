package diagnostic

import (
	"fmt"
	"io"
	"strings"

	"github.com/spark-lang/spark/internal/position"
)

const colorReset = "\033[0m"

// Renderer writes diagnostics in the form
//
//	main.spark:3:1: error[E2001]: expected '}' after block at 'func'
//	   3 | func b() {}
//	     | ^^^^
//
// The snippet is printed only for files registered with AddSource.
type Renderer struct {
	w        io.Writer
	color    bool
	tabWidth int
	sources  map[string]*position.SourceFile
}

func NewRenderer(w io.Writer, color bool) *Renderer {
	return &Renderer{w: w, color: color, sources: make(map[string]*position.SourceFile)}
}

// SetTabWidth sets the tab width the positions were produced with. It
// applies to sources added afterwards.
func (r *Renderer) SetTabWidth(width int) { r.tabWidth = width }

// AddSource registers the text of a file so its lines can be quoted.
func (r *Renderer) AddSource(filename, content string) {
	sf := position.NewSourceFile(filename, content)
	sf.TabWidth = r.tabWidth
	r.sources[filename] = sf
}

// Render writes a single diagnostic.
func (r *Renderer) Render(d *Diagnostic) error {
	_, err := io.WriteString(r.w, r.Format(d))
	return err
}

// RenderAll writes every diagnostic of the engine in position order,
// followed by the summary line.
func (r *Renderer) RenderAll(de *DiagnosticEngine) error {
	de.SortDiagnostics()
	for _, d := range de.GetDiagnostics() {
		if err := r.Render(d); err != nil {
			return err
		}
	}
	if summary := de.Summary(); summary != "" {
		if _, err := fmt.Fprintln(r.w, summary); err != nil {
			return err
		}
	}
	return nil
}

// Format returns the rendered text of d.
func (r *Renderer) Format(d *Diagnostic) string {
	var b strings.Builder

	if d.Pos.IsValid() {
		b.WriteString(locationOf(d.Pos))
		b.WriteString(": ")
	}
	if r.color {
		b.WriteString(colorizeLevel(d.Level))
	}
	b.WriteString(d.Level.String())
	if d.Code != "" {
		b.WriteString("[" + d.Code + "]")
	}
	if r.color {
		b.WriteString(colorReset)
	}
	b.WriteString(": " + d.Message + "\n")

	if src, ok := r.sources[d.Pos.Filename]; ok {
		b.WriteString(src.Highlight(d.Pos, d.Width))
	}
	return b.String()
}

// locationOf keeps the full file path, unlike Position.String, so the
// location can be opened from the terminal.
func locationOf(pos position.Position) string {
	if pos.Filename == "" {
		return fmt.Sprintf("%d:%d", pos.Line, pos.Column)
	}
	return fmt.Sprintf("%s:%d:%d", pos.Filename, pos.Line, pos.Column)
}

func colorizeLevel(level DiagnosticLevel) string {
	switch level {
	case DiagnosticError:
		return "\033[31m" // Red
	case DiagnosticWarning:
		return "\033[33m" // Yellow
	case DiagnosticInfo:
		return "\033[34m" // Blue
	case DiagnosticHint:
		return "\033[90m" // Gray
	default:
		return ""
	}
}
