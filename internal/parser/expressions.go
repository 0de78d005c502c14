package parser

import (
	"github.com/spark-lang/spark/internal/ast"
	"github.com/spark-lang/spark/internal/lexer"
)

// ====== Expression Parsing (Pratt Parser) ======

// Precedence levels for operators, lowest binding first
type Precedence int

const (
	_ Precedence = iota
	LOWEST
	ASSIGN      // = += -= *= /= %= &= |= ^= <<= >>=
	LOGICAL_OR  // ||
	LOGICAL_AND // &&
	BITWISE_OR  // |
	BITWISE_XOR // ^
	BITWISE_AND // &
	EQUALS      // == !=
	LESSGREATER // < <= > >=
	SHIFT       // << >>
	SUM         // + -
	PRODUCT     // * / %
	PREFIX      // -X !X ~X
	CALL        // f(X)
)

// Associativity of a precedence level
type Associativity int

const (
	LeftAssociative Associativity = iota
	RightAssociative
)

// precedences maps infix token types to their precedence levels
var precedences = map[lexer.TokenType]Precedence{
	lexer.TokenAssign:       ASSIGN,
	lexer.TokenPlusAssign:   ASSIGN,
	lexer.TokenMinusAssign:  ASSIGN,
	lexer.TokenStarAssign:   ASSIGN,
	lexer.TokenSlashAssign:  ASSIGN,
	lexer.TokenModuloAssign: ASSIGN,
	lexer.TokenAndAssign:    ASSIGN,
	lexer.TokenOrAssign:     ASSIGN,
	lexer.TokenXorAssign:    ASSIGN,
	lexer.TokenShlAssign:    ASSIGN,
	lexer.TokenShrAssign:    ASSIGN,

	lexer.TokenOr:  LOGICAL_OR,
	lexer.TokenAnd: LOGICAL_AND,

	lexer.TokenBitOr:  BITWISE_OR,
	lexer.TokenBitXor: BITWISE_XOR,
	lexer.TokenBitAnd: BITWISE_AND,

	lexer.TokenEq: EQUALS,
	lexer.TokenNe: EQUALS,
	lexer.TokenLt: LESSGREATER,
	lexer.TokenLe: LESSGREATER,
	lexer.TokenGt: LESSGREATER,
	lexer.TokenGe: LESSGREATER,

	lexer.TokenShiftLeft:  SHIFT,
	lexer.TokenShiftRight: SHIFT,

	lexer.TokenPlus:  SUM,
	lexer.TokenMinus: SUM,

	lexer.TokenStar:   PRODUCT,
	lexer.TokenSlash:  PRODUCT,
	lexer.TokenModulo: PRODUCT,

	lexer.TokenLParen: CALL,
}

// operatorAssociativity lists the right-associative levels; every other
// level is left-associative.
var operatorAssociativity = map[Precedence]Associativity{
	ASSIGN: RightAssociative,
}

func precedenceOf(tt lexer.TokenType) Precedence {
	if prec, ok := precedences[tt]; ok {
		return prec
	}
	return LOWEST
}

// expression parses an expression whose operators all bind tighter than
// precedence, or equally for right-associative levels.
func (p *Parser) expression(precedence Precedence) (ast.Expression, error) {
	left, err := p.prefixExpression()
	if err != nil {
		return nil, err
	}

	for p.shouldContinueParsing(precedence) {
		op := p.advance()
		if left, err = p.infixExpression(left, op); err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) shouldContinueParsing(precedence Precedence) bool {
	next := precedenceOf(p.peek().Type)
	if next == precedence {
		return operatorAssociativity[next] == RightAssociative
	}
	return next > precedence
}

func (p *Parser) prefixExpression() (ast.Expression, error) {
	tok := p.peek()

	switch tok.Type {
	case lexer.TokenStringLiteral, lexer.TokenCharLiteral,
		lexer.TokenBooleanLiteral, lexer.TokenNullLiteral,
		lexer.TokenTrue, lexer.TokenFalse, lexer.TokenNull,
		lexer.TokenOk, lexer.TokenFail:
		p.advance()
		return p.literal(tok), nil

	case lexer.TokenIdentifier, lexer.TokenThis, lexer.TokenSuper:
		p.advance()
		return &ast.VariableExpression{Pos: p.pos(tok), Name: tok.Lexeme}, nil

	case lexer.TokenLParen:
		p.advance()
		inner, err := p.expression(LOWEST)
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(lexer.TokenRParen, "expected ')' after expression"); err != nil {
			return nil, err
		}
		return &ast.GroupingExpression{Pos: p.pos(tok), Expr: inner}, nil

	case lexer.TokenMinus, lexer.TokenNot, lexer.TokenTilde:
		p.advance()
		operand, err := p.expression(PREFIX)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpression{Pos: p.pos(tok), Operator: tok, Operand: operand}, nil
	}

	if tok.Type.IsNumericLiteral() {
		p.advance()
		return p.literal(tok), nil
	}
	return nil, p.errorAt(tok, "expected expression")
}

func (p *Parser) literal(tok lexer.Token) *ast.LiteralExpression {
	return &ast.LiteralExpression{
		Pos:     p.pos(tok),
		Literal: tok.Literal,
		Kind:    tok.Type,
		Text:    tok.Lexeme,
	}
}

func (p *Parser) infixExpression(left ast.Expression, op lexer.Token) (ast.Expression, error) {
	prec := precedenceOf(op.Type)

	switch prec {
	case CALL:
		return p.callExpression(left)
	case ASSIGN:
		if _, ok := left.(*ast.VariableExpression); !ok {
			return nil, p.errorAt(op, "invalid assignment target")
		}
	}

	right, err := p.expression(prec)
	if err != nil {
		return nil, err
	}
	return &ast.BinaryExpression{Pos: left.GetPos(), Left: left, Operator: op, Right: right}, nil
}

// callExpression parses the argument list after '('. Chained calls such as
// f(1)(2) nest through the callee.
func (p *Parser) callExpression(callee ast.Expression) (ast.Expression, error) {
	call := &ast.CallExpression{Pos: callee.GetPos(), Callee: callee}

	if !p.check(lexer.TokenRParen) {
		for {
			arg, err := p.expression(LOWEST)
			if err != nil {
				return nil, err
			}
			call.Arguments = append(call.Arguments, arg)
			if !p.match(lexer.TokenComma) {
				break
			}
		}
	}
	if _, err := p.consume(lexer.TokenRParen, "expected ')' after arguments"); err != nil {
		return nil, err
	}
	return call, nil
}
