// Package lexer implements the Spark lexical analyzer: the token model, the
// keyword table, the token classifier, and the scanner that turns a source
// buffer into tokens.
package lexer

import "fmt"

// TokenType represents the type of a token
type TokenType int

// Token types. The order is stable; append new kinds before TokenEOF.
const (
	// Identifiers & literals
	TokenIdentifier TokenType = iota

	TokenInt8Literal
	TokenInt16Literal
	TokenInt32Literal
	TokenInt64Literal

	TokenUint8Literal
	TokenUint16Literal
	TokenUint32Literal
	TokenUint64Literal

	TokenFloat8Literal
	TokenFloat16Literal
	TokenFloat32Literal
	TokenFloat64Literal

	TokenDoubleLiteral
	TokenStringLiteral
	TokenCharLiteral
	TokenBooleanLiteral
	TokenNullLiteral

	// Structural & punctuation
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenComma
	TokenDot
	TokenColon
	TokenDoubleColon
	TokenSemicolon
	TokenArrow
	TokenFatArrow
	TokenEllipsis
	TokenRange
	TokenRangeInclusive
	TokenQuote
	TokenApostrophe

	// Arithmetic
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenModulo

	// Bitwise
	TokenBitAnd
	TokenBitOr
	TokenBitXor
	TokenShiftLeft
	TokenShiftRight

	// Assignment
	TokenAssign
	TokenPlusAssign
	TokenMinusAssign
	TokenStarAssign
	TokenSlashAssign
	TokenModuloAssign
	TokenAndAssign
	TokenOrAssign
	TokenXorAssign
	TokenShlAssign
	TokenShrAssign

	// Comparison
	TokenEq
	TokenNe
	TokenLt
	TokenLe
	TokenGt
	TokenGe

	// Logical
	TokenAnd
	TokenOr
	TokenNot

	// Misc symbols
	TokenQuestion
	TokenTilde
	TokenBackslash
	TokenAt
	TokenHash
	TokenDollar

	// Control flow
	TokenIf
	TokenElse
	TokenSwitch
	TokenMatch
	TokenCase
	TokenDefault
	TokenFor
	TokenWhile
	TokenDo
	TokenBreak
	TokenContinue
	TokenReturn
	TokenYield
	TokenGoto

	// Declarations
	TokenFunc
	TokenVar
	TokenLet
	TokenConst
	TokenTypeKeyword
	TokenStruct
	TokenClass
	TokenInter
	TokenImpl
	TokenEnum
	TokenUnion
	TokenModule
	TokenImport
	TokenUse
	TokenAtomic

	// Access control & modifiers
	TokenPublic
	TokenPrivate
	TokenInternal
	TokenStatic
	TokenAbstract
	TokenFinal
	TokenOverride
	TokenVirtual
	TokenInline

	// Concurrency
	TokenAsync
	TokenAwait
	TokenSpawn
	TokenThread

	// Type system & memory
	TokenAs
	TokenIs
	TokenTypeof
	TokenSizeof
	TokenNew
	TokenThis
	TokenSuper

	// Literal keywords
	TokenTrue
	TokenFalse
	TokenNull
	TokenOk
	TokenFail

	// Primitive type keywords
	TokenInt8
	TokenInt16
	TokenInt32
	TokenInt64
	TokenUint8
	TokenUint16
	TokenUint32
	TokenUint64
	TokenFloat8
	TokenFloat16
	TokenFloat32
	TokenFloat64
	TokenDouble
	TokenString
	TokenBoolean
	TokenChar

	// Special
	TokenBundle
	TokenEOF
	TokenUnknown

	tokenTypeCount
)

var tokenNames = [...]string{
	TokenIdentifier: "IDENTIFIER",

	TokenInt8Literal:  "INT8_LITERAL",
	TokenInt16Literal: "INT16_LITERAL",
	TokenInt32Literal: "INT32_LITERAL",
	TokenInt64Literal: "INT64_LITERAL",

	TokenUint8Literal:  "UINT8_LITERAL",
	TokenUint16Literal: "UINT16_LITERAL",
	TokenUint32Literal: "UINT32_LITERAL",
	TokenUint64Literal: "UINT64_LITERAL",

	TokenFloat8Literal:  "FLOAT8_LITERAL",
	TokenFloat16Literal: "FLOAT16_LITERAL",
	TokenFloat32Literal: "FLOAT32_LITERAL",
	TokenFloat64Literal: "FLOAT64_LITERAL",

	TokenDoubleLiteral:  "DOUBLE_LITERAL",
	TokenStringLiteral:  "STRING_LITERAL",
	TokenCharLiteral:    "CHAR_LITERAL",
	TokenBooleanLiteral: "BOOLEAN_LITERAL",
	TokenNullLiteral:    "NULL_LITERAL",

	TokenLParen:         "LEFT_PAREN",
	TokenRParen:         "RIGHT_PAREN",
	TokenLBrace:         "LEFT_BRACE",
	TokenRBrace:         "RIGHT_BRACE",
	TokenLBracket:       "LEFT_BRACKET",
	TokenRBracket:       "RIGHT_BRACKET",
	TokenComma:          "COMMA",
	TokenDot:            "DOT",
	TokenColon:          "COLON",
	TokenDoubleColon:    "DOUBLE_COLON",
	TokenSemicolon:      "SEMICOLON",
	TokenArrow:          "ARROW",
	TokenFatArrow:       "FAT_ARROW",
	TokenEllipsis:       "ELLIPSIS",
	TokenRange:          "RANGE",
	TokenRangeInclusive: "RANGE_INCLUSIVE",
	TokenQuote:          "QUOTE",
	TokenApostrophe:     "APOSTROPHE",

	TokenPlus:   "PLUS",
	TokenMinus:  "MINUS",
	TokenStar:   "STAR",
	TokenSlash:  "SLASH",
	TokenModulo: "MODULO",

	TokenBitAnd:     "BIT_AND",
	TokenBitOr:      "BIT_OR",
	TokenBitXor:     "BIT_XOR",
	TokenShiftLeft:  "SHIFT_LEFT",
	TokenShiftRight: "SHIFT_RIGHT",

	TokenAssign:       "EQUAL",
	TokenPlusAssign:   "PLUS_EQUAL",
	TokenMinusAssign:  "MINUS_EQUAL",
	TokenStarAssign:   "STAR_EQUAL",
	TokenSlashAssign:  "SLASH_EQUAL",
	TokenModuloAssign: "MODULO_EQUAL",
	TokenAndAssign:    "AND_EQUAL",
	TokenOrAssign:     "OR_EQUAL",
	TokenXorAssign:    "XOR_EQUAL",
	TokenShlAssign:    "SHL_EQUAL",
	TokenShrAssign:    "SHR_EQUAL",

	TokenEq: "EQUAL_EQUAL",
	TokenNe: "NOT_EQUAL",
	TokenLt: "LESS",
	TokenLe: "LESS_EQUAL",
	TokenGt: "GREATER",
	TokenGe: "GREATER_EQUAL",

	TokenAnd: "AND",
	TokenOr:  "OR",
	TokenNot: "NOT",

	TokenQuestion:  "QUESTION",
	TokenTilde:     "TILDE",
	TokenBackslash: "BACKSLASH",
	TokenAt:        "AT",
	TokenHash:      "HASH",
	TokenDollar:    "DOLLAR",

	TokenIf:       "IF",
	TokenElse:     "ELSE",
	TokenSwitch:   "SWITCH",
	TokenMatch:    "MATCH",
	TokenCase:     "CASE",
	TokenDefault:  "DEFAULT",
	TokenFor:      "FOR",
	TokenWhile:    "WHILE",
	TokenDo:       "DO",
	TokenBreak:    "BREAK",
	TokenContinue: "CONTINUE",
	TokenReturn:   "RETURN",
	TokenYield:    "YIELD",
	TokenGoto:     "GOTO",

	TokenFunc:        "FUNC",
	TokenVar:         "VAR",
	TokenLet:         "LET",
	TokenConst:       "CONST",
	TokenTypeKeyword: "TYPE",
	TokenStruct:      "STRUCT",
	TokenClass:       "CLASS",
	TokenInter:       "INTER",
	TokenImpl:        "IMPL",
	TokenEnum:        "ENUM",
	TokenUnion:       "UNION",
	TokenModule:      "MODULE",
	TokenImport:      "IMPORT",
	TokenUse:         "USE",
	TokenAtomic:      "ATOMIC",

	TokenPublic:   "PUBLIC",
	TokenPrivate:  "PRIVATE",
	TokenInternal: "INTERNAL",
	TokenStatic:   "STATIC",
	TokenAbstract: "ABSTRACT",
	TokenFinal:    "FINAL",
	TokenOverride: "OVERRIDE",
	TokenVirtual:  "VIRTUAL",
	TokenInline:   "INLINE",

	TokenAsync:  "ASYNC",
	TokenAwait:  "AWAIT",
	TokenSpawn:  "SPAWN",
	TokenThread: "THREAD",

	TokenAs:     "AS",
	TokenIs:     "IS",
	TokenTypeof: "TYPEOF",
	TokenSizeof: "SIZEOF",
	TokenNew:    "NEW",
	TokenThis:   "THIS",
	TokenSuper:  "SUPER",

	TokenTrue:  "TRUE_VALUE",
	TokenFalse: "FALSE_VALUE",
	TokenNull:  "NULL_VALUE",
	TokenOk:    "OK",
	TokenFail:  "FAIL",

	TokenInt8:    "INT8",
	TokenInt16:   "INT16",
	TokenInt32:   "INT32",
	TokenInt64:   "INT64",
	TokenUint8:   "UINT8",
	TokenUint16:  "UINT16",
	TokenUint32:  "UINT32",
	TokenUint64:  "UINT64",
	TokenFloat8:  "FLOAT8",
	TokenFloat16: "FLOAT16",
	TokenFloat32: "FLOAT32",
	TokenFloat64: "FLOAT64",
	TokenDouble:  "DOUBLE",
	TokenString:  "STRING",
	TokenBoolean: "BOOLEAN",
	TokenChar:    "CHAR",

	TokenBundle:  "BUNDLE",
	TokenEOF:     "END_OF_FILE",
	TokenUnknown: "UNKNOWN",
}

// String returns the upper-snake name of the token type
func (tt TokenType) String() string {
	if tt >= 0 && tt < tokenTypeCount {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// TokenTypes returns every token type in declaration order.
func TokenTypes() []TokenType {
	types := make([]TokenType, 0, tokenTypeCount)
	for tt := TokenType(0); tt < tokenTypeCount; tt++ {
		types = append(types, tt)
	}
	return types
}

// IsNumericLiteral reports whether tt is one of the width-specific numeric
// literal kinds.
func (tt TokenType) IsNumericLiteral() bool {
	return tt >= TokenInt8Literal && tt <= TokenDoubleLiteral
}

// BitWidth returns the width implied by a numeric literal or primitive type
// kind, or 0 for every other kind.
func (tt TokenType) BitWidth() int {
	switch tt {
	case TokenInt8Literal, TokenUint8Literal, TokenFloat8Literal,
		TokenInt8, TokenUint8, TokenFloat8:
		return 8
	case TokenInt16Literal, TokenUint16Literal, TokenFloat16Literal,
		TokenInt16, TokenUint16, TokenFloat16:
		return 16
	case TokenInt32Literal, TokenUint32Literal, TokenFloat32Literal,
		TokenInt32, TokenUint32, TokenFloat32:
		return 32
	case TokenInt64Literal, TokenUint64Literal, TokenFloat64Literal, TokenDoubleLiteral,
		TokenInt64, TokenUint64, TokenFloat64, TokenDouble:
		return 64
	}
	return 0
}

// IsDeclarationStart reports whether tt opens a top-level declaration the
// parser recognizes.
func (tt TokenType) IsDeclarationStart() bool {
	switch tt {
	case TokenFunc, TokenTypeKeyword, TokenInter, TokenModule:
		return true
	}
	return false
}

// Visibility is the access level attached to a token or declaration.
type Visibility int

const (
	Private Visibility = iota
	Public
	Internal
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Internal:
		return "internal"
	default:
		return "private"
	}
}

// Token represents a lexical token with position information. Tokens are
// values and are never mutated after the lexer produces them.
type Token struct {
	Type       TokenType
	Lexeme     string
	Literal    Literal
	Line       int // 1-based line of the first character
	Column     int // 1-based column of the first character
	Offset     int // 0-based byte offset of the first character
	Visibility Visibility
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Lexeme: %q, Line: %d, Column: %d}",
		t.Type, t.Lexeme, t.Line, t.Column)
}

// End returns the byte offset just past the token's lexeme.
func (t Token) End() int {
	return t.Offset + len(t.Lexeme)
}
