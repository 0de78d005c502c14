package diagnostic

import (
	"fmt"
	"strings"

	"github.com/spark-lang/spark/internal/lexer"
)

// FormatToken renders one line of the `spark lex` dump:
//
//	[1:5] Type: IDENTIFIER | Lexeme: "add"
//	[1:9] Type: INT32_LITERAL | Lexeme: "3i32" | Literal: 3
func FormatToken(tok lexer.Token) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%d:%d] Type: %s | Lexeme: \"%s\"", tok.Line, tok.Column, tok.Type, tok.Lexeme)
	if !tok.Literal.IsNone() {
		b.WriteString(" | Literal: ")
		b.WriteString(tok.Literal.String())
	}
	return b.String()
}

// FormatTokenVerbose appends the token category to FormatToken.
func FormatTokenVerbose(tok lexer.Token) string {
	return FormatToken(tok) + " | Category: " + lexer.Categorize(tok.Type).String()
}
