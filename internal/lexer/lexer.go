package lexer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spark-lang/spark/internal/position"
)

// Lexer represents the lexical analyzer. A Lexer owns its cursor and is not
// safe for concurrent use.
type Lexer struct {
	input    string
	filename string
	tabWidth int // 0 counts a tab as one column

	start   int // offset of the first byte of the current token
	current int // offset of the next unread byte

	tracker   *position.Tracker
	startLine int
	startCol  int
}

// Option configures a Lexer.
type Option func(*Lexer)

// WithFilename records the file name used in positions and errors.
func WithFilename(name string) Option {
	return func(l *Lexer) { l.filename = name }
}

// WithTabWidth makes a tab advance the column by width instead of one.
func WithTabWidth(width int) Option {
	return func(l *Lexer) {
		if width > 0 {
			l.tabWidth = width
		}
	}
}

// New creates a lexer over input.
func New(input string, opts ...Option) *Lexer {
	l := &Lexer{input: input}
	for _, opt := range opts {
		opt(l)
	}
	l.tracker = position.NewTracker(l.filename)
	l.tracker.SetTabWidth(l.tabWidth)
	l.startLine, l.startCol = 1, 1
	return l
}

func (l *Lexer) Source() string   { return l.input }
func (l *Lexer) Filename() string { return l.filename }

// HasMoreTokens reports whether the cursor is still inside the source.
func (l *Lexer) HasMoreTokens() bool {
	return l.current < len(l.input)
}

// Tokenize drains the lexer. On success the result ends in exactly one
// TokenEOF. On failure the tokens read so far are returned with the error.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

// NextToken scans and returns the next token. Once the input is exhausted
// every call returns TokenEOF at the same position.
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()

	l.start = l.current
	l.startLine, l.startCol = l.tracker.Line(), l.tracker.Column()

	if l.isAtEnd() {
		return l.makeToken(TokenEOF, Literal{}), nil
	}

	c := l.advance()
	switch {
	case isLetter(c):
		return l.identifier(), nil
	case isDigit(c):
		return l.number()
	}

	switch c {
	case '"':
		return l.string()
	case '\'':
		return l.char()
	case '(':
		return l.makeToken(TokenLParen, Literal{}), nil
	case ')':
		return l.makeToken(TokenRParen, Literal{}), nil
	case '{':
		return l.makeToken(TokenLBrace, Literal{}), nil
	case '}':
		return l.makeToken(TokenRBrace, Literal{}), nil
	case '[':
		return l.makeToken(TokenLBracket, Literal{}), nil
	case ']':
		return l.makeToken(TokenRBracket, Literal{}), nil
	case ',':
		return l.makeToken(TokenComma, Literal{}), nil
	case ';':
		return l.makeToken(TokenSemicolon, Literal{}), nil
	case '?':
		return l.makeToken(TokenQuestion, Literal{}), nil
	case '~':
		return l.makeToken(TokenTilde, Literal{}), nil
	case '\\':
		return l.makeToken(TokenBackslash, Literal{}), nil
	case '@':
		return l.makeToken(TokenAt, Literal{}), nil
	case '#':
		return l.makeToken(TokenHash, Literal{}), nil
	case '$':
		return l.makeToken(TokenDollar, Literal{}), nil
	case ':':
		return l.either(':', TokenDoubleColon, TokenColon), nil
	case '+':
		return l.either('=', TokenPlusAssign, TokenPlus), nil
	case '*':
		return l.either('=', TokenStarAssign, TokenStar), nil
	case '/':
		return l.either('=', TokenSlashAssign, TokenSlash), nil
	case '%':
		return l.either('=', TokenModuloAssign, TokenModulo), nil
	case '^':
		return l.either('=', TokenXorAssign, TokenBitXor), nil
	case '!':
		return l.either('=', TokenNe, TokenNot), nil
	case '-':
		switch {
		case l.match('='):
			return l.makeToken(TokenMinusAssign, Literal{}), nil
		case l.match('>'):
			return l.makeToken(TokenArrow, Literal{}), nil
		}
		return l.makeToken(TokenMinus, Literal{}), nil
	case '=':
		switch {
		case l.match('='):
			return l.makeToken(TokenEq, Literal{}), nil
		case l.match('>'):
			return l.makeToken(TokenFatArrow, Literal{}), nil
		}
		return l.makeToken(TokenAssign, Literal{}), nil
	case '&':
		switch {
		case l.match('&'):
			return l.makeToken(TokenAnd, Literal{}), nil
		case l.match('='):
			return l.makeToken(TokenAndAssign, Literal{}), nil
		}
		return l.makeToken(TokenBitAnd, Literal{}), nil
	case '|':
		switch {
		case l.match('|'):
			return l.makeToken(TokenOr, Literal{}), nil
		case l.match('='):
			return l.makeToken(TokenOrAssign, Literal{}), nil
		}
		return l.makeToken(TokenBitOr, Literal{}), nil
	case '<':
		switch {
		case l.match('='):
			return l.makeToken(TokenLe, Literal{}), nil
		case l.match('<'):
			return l.either('=', TokenShlAssign, TokenShiftLeft), nil
		}
		return l.makeToken(TokenLt, Literal{}), nil
	case '>':
		switch {
		case l.match('='):
			return l.makeToken(TokenGe, Literal{}), nil
		case l.match('>'):
			return l.either('=', TokenShrAssign, TokenShiftRight), nil
		}
		return l.makeToken(TokenGt, Literal{}), nil
	case '.':
		if l.match('.') {
			switch {
			case l.match('='):
				return l.makeToken(TokenRangeInclusive, Literal{}), nil
			case l.match('.'):
				return l.makeToken(TokenEllipsis, Literal{}), nil
			}
			return l.makeToken(TokenRange, Literal{}), nil
		}
		return l.makeToken(TokenDot, Literal{}), nil
	}

	// An unrecognized character becomes one token, however many bytes it
	// takes.
	for c >= utf8.RuneSelf && !l.isAtEnd() && !utf8.RuneStart(l.peek()) {
		l.advance()
	}
	return l.makeToken(TokenUnknown, Literal{}), nil
}

// skipWhitespace skips blanks, line comments, and block comments. An
// unterminated block comment runs to the end of input.
func (l *Lexer) skipWhitespace() {
	for !l.isAtEnd() {
		switch l.peek() {
		case ' ', '\t', '\r', '\n':
			l.advance()
		case '/':
			switch l.peekNext() {
			case '/':
				for !l.isAtEnd() && l.peek() != '\n' {
					l.advance()
				}
			case '*':
				l.advance()
				l.advance()
				for !l.isAtEnd() && !(l.peek() == '*' && l.peekNext() == '/') {
					l.advance()
				}
				if !l.isAtEnd() {
					l.advance()
					l.advance()
				}
			default:
				return
			}
		default:
			return
		}
	}
}

func (l *Lexer) identifier() Token {
	for isAlphaNumeric(l.peek()) || l.peek() == '_' {
		l.advance()
	}
	tt := LookupIdent(l.input[l.start:l.current])
	tok := l.makeToken(tt, Literal{})
	switch tt {
	case TokenTrue:
		tok.Literal = BoolLiteral(true)
	case TokenFalse:
		tok.Literal = BoolLiteral(false)
	case TokenPublic:
		tok.Visibility = Public
	case TokenInternal:
		tok.Visibility = Internal
	}
	return tok
}

// numberKind describes how a suffixed numeric literal is typed and stored.
type numberKind struct {
	tt       TokenType
	bits     int
	float    bool
	unsigned bool
}

var suffixes = map[string]numberKind{
	"f":   {tt: TokenFloat64Literal, bits: 64, float: true},
	"f8":  {tt: TokenFloat8Literal, bits: 32, float: true},
	"f16": {tt: TokenFloat16Literal, bits: 32, float: true},
	"f32": {tt: TokenFloat32Literal, bits: 32, float: true},
	"f64": {tt: TokenFloat64Literal, bits: 64, float: true},
	"d":   {tt: TokenDoubleLiteral, bits: 64, float: true},
	"i8":  {tt: TokenInt8Literal, bits: 8},
	"i16": {tt: TokenInt16Literal, bits: 16},
	"i32": {tt: TokenInt32Literal, bits: 32},
	"i64": {tt: TokenInt64Literal, bits: 64},
	"u8":  {tt: TokenUint8Literal, bits: 8, unsigned: true},
	"u16": {tt: TokenUint16Literal, bits: 16, unsigned: true},
	"u32": {tt: TokenUint32Literal, bits: 32, unsigned: true},
	"u64": {tt: TokenUint64Literal, bits: 64, unsigned: true},
}

// number scans digits and underscores with at most one fractional dot, then
// an alphanumeric suffix that selects the literal kind.
func (l *Lexer) number() (Token, error) {
	hasDot := false
scan:
	for {
		c := l.peek()
		switch {
		case isDigit(c) || c == '_':
			l.advance()
		case c == '.' && !hasDot && isDigit(l.peekNext()):
			hasDot = true
			l.advance()
		default:
			break scan
		}
	}
	numericEnd := l.current

	for isAlphaNumeric(l.peek()) {
		l.advance()
	}

	raw := l.input[l.start:numericEnd]
	if strings.HasSuffix(raw, "_") {
		return Token{}, l.errorf(ErrMalformedNumber, "numeric literal ends with '_'")
	}
	digits := strings.ReplaceAll(raw, "_", "")
	suffix := strings.ToLower(l.input[numericEnd:l.current])

	kind, ok := suffixes[suffix]
	if !ok {
		kind = numberKind{tt: TokenInt64Literal, bits: 64}
		if hasDot {
			kind = numberKind{tt: TokenDoubleLiteral, bits: 64, float: true}
		}
	}

	lit, err := parseNumber(digits, kind, hasDot)
	if err != nil {
		return Token{}, l.errorf(ErrInvalidNumber, "%s: %v", kind.tt, err)
	}
	return l.makeToken(kind.tt, lit), nil
}

func parseNumber(digits string, kind numberKind, hasDot bool) (Literal, error) {
	if kind.float {
		v, err := strconv.ParseFloat(digits, kind.bits)
		if err != nil {
			return Literal{}, numError(err)
		}
		if kind.bits == 32 {
			return Float32Literal(float32(v)), nil
		}
		return Float64Literal(v), nil
	}

	if hasDot {
		return Literal{}, errors.New("fractional value for integer suffix")
	}
	if kind.unsigned {
		v, err := strconv.ParseUint(digits, 10, kind.bits)
		if err != nil {
			return Literal{}, numError(err)
		}
		if v > 1<<63-1 {
			return Literal{}, errors.New("value out of range")
		}
		return IntLiteral(int64(v)), nil
	}
	v, err := strconv.ParseInt(digits, 10, kind.bits)
	if err != nil {
		return Literal{}, numError(err)
	}
	return IntLiteral(v), nil
}

func numError(err error) error {
	if errors.Is(err, strconv.ErrRange) {
		return errors.New("value out of range")
	}
	return errors.New("invalid syntax")
}

// string scans a double-quoted literal. The lexeme keeps the quotes, the
// literal value drops them. Escapes are not processed.
func (l *Lexer) string() (Token, error) {
	for !l.isAtEnd() && l.peek() != '"' {
		l.advance()
	}
	if l.isAtEnd() {
		return Token{}, l.errorf(ErrUnterminatedString, "unterminated string literal")
	}
	l.advance()
	value := l.input[l.start+1 : l.current-1]
	return l.makeToken(TokenStringLiteral, StringLiteral(value)), nil
}

// char scans exactly one character between single quotes.
func (l *Lexer) char() (Token, error) {
	if l.isAtEnd() {
		return Token{}, l.errorf(ErrUnterminatedChar, "unterminated char literal")
	}
	c := l.advanceRune()
	if !l.match('\'') {
		return Token{}, l.errorf(ErrUnterminatedChar, "unterminated char literal")
	}
	return l.makeToken(TokenCharLiteral, CharLiteral(c)), nil
}

func (l *Lexer) either(next byte, matched, single TokenType) Token {
	if l.match(next) {
		return l.makeToken(matched, Literal{})
	}
	return l.makeToken(single, Literal{})
}

func (l *Lexer) makeToken(tt TokenType, lit Literal) Token {
	return Token{
		Type:    tt,
		Lexeme:  l.input[l.start:l.current],
		Literal: lit,
		Line:    l.startLine,
		Column:  l.startCol,
		Offset:  l.start,
	}
}

func (l *Lexer) errorf(kind ErrorKind, format string, args ...any) *LexicalError {
	return &LexicalError{
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Lexeme:   l.input[l.start:l.current],
		Filename: l.filename,
		Line:     l.startLine,
		Column:   l.startCol,
	}
}

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.input)
}

func (l *Lexer) advance() byte {
	c := l.input[l.current]
	l.current++
	l.tracker.Advance(c)
	return c
}

// advanceRune consumes the UTF-8 sequence at the cursor. Invalid bytes are
// consumed one at a time as utf8.RuneError.
func (l *Lexer) advanceRune() rune {
	r, size := utf8.DecodeRuneInString(l.input[l.current:])
	for range size {
		l.advance()
	}
	return r
}

func (l *Lexer) match(expected byte) bool {
	if l.isAtEnd() || l.input[l.current] != expected {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.input[l.current]
}

func (l *Lexer) peekNext() byte {
	if l.current+1 >= len(l.input) {
		return 0
	}
	return l.input[l.current+1]
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isAlphaNumeric(ch byte) bool {
	return isLetter(ch) && ch != '_' || isDigit(ch)
}
