package lexer

// Category groups token types for display and coarse dispatch.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryIdentifier
	CategoryLiteral
	CategoryOperator
	CategoryAssignment
	CategoryComparison
	CategoryLogical
	CategoryBitwise
	CategoryGrouping
	CategoryPunctuation
	CategoryControlFlow
	CategoryDeclaration
	CategoryModifier
	CategoryConcurrency
	CategoryTypeSystem
	CategorySpecial
)

var categoryNames = [...]string{
	CategoryUnknown:     "Unknown",
	CategoryIdentifier:  "Identifier",
	CategoryLiteral:     "Literal",
	CategoryOperator:    "Operator",
	CategoryAssignment:  "Assignment",
	CategoryComparison:  "Comparison",
	CategoryLogical:     "Logical",
	CategoryBitwise:     "Bitwise",
	CategoryGrouping:    "Grouping",
	CategoryPunctuation: "Punctuation",
	CategoryControlFlow: "ControlFlow",
	CategoryDeclaration: "Declaration",
	CategoryModifier:    "Modifier",
	CategoryConcurrency: "Concurrency",
	CategoryTypeSystem:  "TypeSystem",
	CategorySpecial:     "Special",
}

func (c Category) String() string {
	if c >= 0 && int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "Invalid"
}

// Categorize maps every token type to its category. Types without a group
// fall back to CategoryUnknown.
func Categorize(tt TokenType) Category {
	switch {
	case tt == TokenIdentifier:
		return CategoryIdentifier
	case tt >= TokenInt8Literal && tt <= TokenNullLiteral,
		tt >= TokenTrue && tt <= TokenFail:
		return CategoryLiteral
	case tt >= TokenPlus && tt <= TokenModulo:
		return CategoryOperator
	case tt >= TokenAssign && tt <= TokenShrAssign:
		return CategoryAssignment
	case tt >= TokenEq && tt <= TokenGe:
		return CategoryComparison
	case tt >= TokenAnd && tt <= TokenNot:
		return CategoryLogical
	case tt >= TokenBitAnd && tt <= TokenShiftRight:
		return CategoryBitwise
	case tt >= TokenLParen && tt <= TokenRBracket:
		return CategoryGrouping
	case tt >= TokenComma && tt <= TokenApostrophe,
		tt >= TokenQuestion && tt <= TokenDollar:
		return CategoryPunctuation
	case tt >= TokenIf && tt <= TokenGoto:
		return CategoryControlFlow
	// Primitive type keywords are declarations too.
	case tt >= TokenFunc && tt <= TokenAtomic,
		tt >= TokenInt8 && tt <= TokenChar:
		return CategoryDeclaration
	case tt >= TokenPublic && tt <= TokenInline:
		return CategoryModifier
	case tt >= TokenAsync && tt <= TokenThread:
		return CategoryConcurrency
	case tt >= TokenAs && tt <= TokenSuper:
		return CategoryTypeSystem
	case tt == TokenBundle, tt == TokenEOF:
		return CategorySpecial
	}
	return CategoryUnknown
}
