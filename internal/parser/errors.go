package parser

import (
	"errors"
	"fmt"
)

// ErrMissingEOF is returned by New for a token buffer that does not end in
// exactly one end-of-input token.
var ErrMissingEOF = errors.New("token buffer must end with END_OF_FILE")

// ErrSealed is returned when declaring into a sealed symbol table.
var ErrSealed = errors.New("symbol table is sealed")

// ParseError represents a parsing error with the offending token
type ParseError struct {
	Message  string
	Lexeme   string
	Filename string
	Line     int
	Column   int
}

func (e *ParseError) Error() string {
	at := "at end"
	if e.Lexeme != "" {
		at = fmt.Sprintf("at '%s'", e.Lexeme)
	}
	if e.Filename != "" {
		return fmt.Sprintf("%s:%d:%d: %s %s", e.Filename, e.Line, e.Column, e.Message, at)
	}
	return fmt.Sprintf("%d:%d: %s %s", e.Line, e.Column, e.Message, at)
}

// Errors unpacks the faults joined into an error returned by ParseProgram.
func Errors(err error) []*ParseError {
	if err == nil {
		return nil
	}
	var out []*ParseError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, Errors(e)...)
		}
		return out
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		out = append(out, pe)
	}
	return out
}
