package lexer

import "fmt"

// ErrorKind classifies a lexical fault.
type ErrorKind int

const (
	ErrInvalidNumber ErrorKind = iota
	ErrMalformedNumber
	ErrUnterminatedString
	ErrUnterminatedChar
)

func (k ErrorKind) String() string {
	switch k {
	case ErrInvalidNumber:
		return "invalid number"
	case ErrMalformedNumber:
		return "malformed number"
	case ErrUnterminatedString:
		return "unterminated string"
	case ErrUnterminatedChar:
		return "unterminated char"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// LexicalError reports text that cannot form a token. Line and Column are
// the start of the offending lexeme.
type LexicalError struct {
	Kind     ErrorKind
	Message  string
	Lexeme   string
	Filename string
	Line     int
	Column   int
}

func (e *LexicalError) Error() string {
	if e.Filename != "" {
		return fmt.Sprintf("%s:%d:%d: %s: %q", e.Filename, e.Line, e.Column, e.Message, e.Lexeme)
	}
	return fmt.Sprintf("%d:%d: %s: %q", e.Line, e.Column, e.Message, e.Lexeme)
}

// Is matches a target LexicalError by kind, so callers can test with a
// zero-valued sentinel such as &LexicalError{Kind: ErrUnterminatedString}.
func (e *LexicalError) Is(target error) bool {
	t, ok := target.(*LexicalError)
	return ok && t.Kind == e.Kind
}
