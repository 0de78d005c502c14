package lexer

import (
	"fmt"
	"strconv"
)

// LiteralKind tags the value held by a Literal.
type LiteralKind int

const (
	LiteralNone LiteralKind = iota
	LiteralInt
	LiteralFloat32
	LiteralFloat64
	LiteralBool
	LiteralChar
	LiteralString
)

func (k LiteralKind) String() string {
	switch k {
	case LiteralInt:
		return "int"
	case LiteralFloat32:
		return "float32"
	case LiteralFloat64:
		return "float64"
	case LiteralBool:
		return "bool"
	case LiteralChar:
		return "char"
	case LiteralString:
		return "string"
	default:
		return "none"
	}
}

// Literal is the parsed value a token may carry. Exactly one field is
// meaningful, selected by Kind; the zero Literal is absent.
type Literal struct {
	Kind LiteralKind
	i    int64
	f    float64
	s    string
}

func IntLiteral(v int64) Literal       { return Literal{Kind: LiteralInt, i: v} }
func Float32Literal(v float32) Literal { return Literal{Kind: LiteralFloat32, f: float64(v)} }
func Float64Literal(v float64) Literal { return Literal{Kind: LiteralFloat64, f: v} }
func CharLiteral(c rune) Literal       { return Literal{Kind: LiteralChar, i: int64(c)} }
func StringLiteral(s string) Literal   { return Literal{Kind: LiteralString, s: s} }

func BoolLiteral(v bool) Literal {
	if v {
		return Literal{Kind: LiteralBool, i: 1}
	}
	return Literal{Kind: LiteralBool}
}

// IsNone reports whether the literal is absent.
func (l Literal) IsNone() bool { return l.Kind == LiteralNone }

// Int returns the integer value; ok is false for any other kind.
func (l Literal) Int() (int64, bool) { return l.i, l.Kind == LiteralInt }

// Float32 returns the single-precision value; ok is false for any other kind.
func (l Literal) Float32() (float32, bool) { return float32(l.f), l.Kind == LiteralFloat32 }

// Float64 returns the double-precision value; ok is false for any other kind.
func (l Literal) Float64() (float64, bool) { return l.f, l.Kind == LiteralFloat64 }

// Bool returns the boolean value; ok is false for any other kind.
func (l Literal) Bool() (bool, bool) { return l.i != 0, l.Kind == LiteralBool }

// Char returns the character value; ok is false for any other kind.
func (l Literal) Char() (rune, bool) { return rune(l.i), l.Kind == LiteralChar }

// Str returns the string value; ok is false for any other kind.
func (l Literal) Str() (string, bool) { return l.s, l.Kind == LiteralString }

// String renders the value the way the token dump prints it: booleans as
// true/false, strings double-quoted, characters single-quoted.
func (l Literal) String() string {
	switch l.Kind {
	case LiteralInt:
		return strconv.FormatInt(l.i, 10)
	case LiteralFloat32:
		return strconv.FormatFloat(l.f, 'g', -1, 32)
	case LiteralFloat64:
		return strconv.FormatFloat(l.f, 'g', -1, 64)
	case LiteralBool:
		return strconv.FormatBool(l.i != 0)
	case LiteralChar:
		return fmt.Sprintf("'%c'", rune(l.i))
	case LiteralString:
		return `"` + l.s + `"`
	default:
		return ""
	}
}
