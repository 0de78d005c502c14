// Package diagnostic turns lexical faults, parse faults and parser warnings
// into uniform diagnostics and renders them for the terminal.
package diagnostic

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/spark-lang/spark/internal/lexer"
	"github.com/spark-lang/spark/internal/parser"
	"github.com/spark-lang/spark/internal/position"
)

// DiagnosticLevel represents the severity level of a diagnostic message.
type DiagnosticLevel int

const (
	DiagnosticError DiagnosticLevel = iota
	DiagnosticWarning
	DiagnosticInfo
	DiagnosticHint
)

func (dl DiagnosticLevel) String() string {
	switch dl {
	case DiagnosticError:
		return "error"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticInfo:
		return "info"
	case DiagnosticHint:
		return "hint"
	default:
		return "unknown"
	}
}

// DiagnosticCategory represents the front-end stage that produced a diagnostic.
type DiagnosticCategory int

const (
	DiagnosticLexical DiagnosticCategory = iota
	DiagnosticSyntax
	DiagnosticDeclaration
)

func (dc DiagnosticCategory) String() string {
	switch dc {
	case DiagnosticLexical:
		return "lexical"
	case DiagnosticSyntax:
		return "syntax"
	case DiagnosticDeclaration:
		return "declaration"
	default:
		return "unknown"
	}
}

// Diagnostic codes. Lexical codes follow lexer.ErrorKind order.
const (
	CodeTooManyErrors      = "E0001"
	CodeInvalidNumber      = "E1001"
	CodeMalformedNumber    = "E1002"
	CodeUnterminatedString = "E1003"
	CodeUnterminatedChar   = "E1004"
	CodeSyntax             = "E2001"
	CodeRedeclared         = "W3001"
)

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	Code     string
	Message  string
	Pos      position.Position
	Width    int // caret run under Pos; 0 means one column
	Level    DiagnosticLevel
	Category DiagnosticCategory
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s[%s]: %s", d.Pos, d.Level, d.Code, d.Message)
}

// DiagnosticBuilder helps construct diagnostic messages with fluent API.
type DiagnosticBuilder struct {
	diagnostic *Diagnostic
}

// NewDiagnostic creates a new diagnostic builder. The level defaults to error.
func NewDiagnostic() *DiagnosticBuilder {
	return &DiagnosticBuilder{diagnostic: &Diagnostic{}}
}

func (db *DiagnosticBuilder) Error() *DiagnosticBuilder {
	db.diagnostic.Level = DiagnosticError
	return db
}

func (db *DiagnosticBuilder) Warning() *DiagnosticBuilder {
	db.diagnostic.Level = DiagnosticWarning
	return db
}

func (db *DiagnosticBuilder) Lexical() *DiagnosticBuilder {
	db.diagnostic.Category = DiagnosticLexical
	return db
}

func (db *DiagnosticBuilder) Syntax() *DiagnosticBuilder {
	db.diagnostic.Category = DiagnosticSyntax
	return db
}

func (db *DiagnosticBuilder) Declaration() *DiagnosticBuilder {
	db.diagnostic.Category = DiagnosticDeclaration
	return db
}

func (db *DiagnosticBuilder) Code(code string) *DiagnosticBuilder {
	db.diagnostic.Code = code
	return db
}

func (db *DiagnosticBuilder) Message(format string, args ...any) *DiagnosticBuilder {
	if len(args) > 0 {
		format = fmt.Sprintf(format, args...)
	}
	db.diagnostic.Message = format
	return db
}

func (db *DiagnosticBuilder) At(pos position.Position) *DiagnosticBuilder {
	db.diagnostic.Pos = pos
	return db
}

func (db *DiagnosticBuilder) Width(width int) *DiagnosticBuilder {
	db.diagnostic.Width = width
	return db
}

func (db *DiagnosticBuilder) Build() *Diagnostic {
	return db.diagnostic
}

var lexicalCodes = map[lexer.ErrorKind]string{
	lexer.ErrInvalidNumber:      CodeInvalidNumber,
	lexer.ErrMalformedNumber:    CodeMalformedNumber,
	lexer.ErrUnterminatedString: CodeUnterminatedString,
	lexer.ErrUnterminatedChar:   CodeUnterminatedChar,
}

// FromLexical converts a lexer fault.
func FromLexical(err *lexer.LexicalError) *Diagnostic {
	return NewDiagnostic().
		Error().
		Lexical().
		Code(lexicalCodes[err.Kind]).
		Message("%s: %q", err.Message, err.Lexeme).
		At(position.Position{Filename: err.Filename, Line: err.Line, Column: err.Column}).
		Width(utf8.RuneCountInString(err.Lexeme)).
		Build()
}

// FromParse converts a recovered parser fault.
func FromParse(err *parser.ParseError) *Diagnostic {
	msg := err.Message + " at end"
	if err.Lexeme != "" {
		msg = fmt.Sprintf("%s at '%s'", err.Message, err.Lexeme)
	}
	return NewDiagnostic().
		Error().
		Syntax().
		Code(CodeSyntax).
		Message(msg).
		At(position.Position{Filename: err.Filename, Line: err.Line, Column: err.Column}).
		Width(utf8.RuneCountInString(err.Lexeme)).
		Build()
}

// FromWarning converts a first-pass redeclaration warning.
func FromWarning(w parser.Warning) *Diagnostic {
	return NewDiagnostic().
		Warning().
		Declaration().
		Code(CodeRedeclared).
		Message(w.Message).
		At(w.Pos).
		Build()
}

// Collect converts every lexical or parse fault found in err, including
// faults joined with errors.Join. Other errors are returned unconverted in
// rest.
func Collect(err error) (diags []*Diagnostic, rest []error) {
	if err == nil {
		return nil, nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			d, r := Collect(e)
			diags = append(diags, d...)
			rest = append(rest, r...)
		}
		return diags, rest
	}

	var lexErr *lexer.LexicalError
	var parseErr *parser.ParseError
	switch {
	case errors.As(err, &lexErr):
		return []*Diagnostic{FromLexical(lexErr)}, nil
	case errors.As(err, &parseErr):
		return []*Diagnostic{FromParse(parseErr)}, nil
	}
	return nil, []error{err}
}
