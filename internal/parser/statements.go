package parser

import (
	"github.com/spark-lang/spark/internal/ast"
	"github.com/spark-lang/spark/internal/lexer"
)

// block parses a brace-delimited statement list. A declaration keyword
// inside a block means its '}' is missing.
func (p *Parser) block() (*ast.BlockStatement, error) {
	open, err := p.consume(lexer.TokenLBrace, "expected '{' before block")
	if err != nil {
		return nil, err
	}

	blk := &ast.BlockStatement{Pos: p.pos(open)}
	for !p.check(lexer.TokenRBrace) && !p.isAtEnd() && !p.peek().Type.IsDeclarationStart() {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		blk.Statements = append(blk.Statements, stmt)
	}

	if _, err := p.consume(lexer.TokenRBrace, "expected '}' after block"); err != nil {
		return nil, err
	}
	return blk, nil
}

func (p *Parser) statement() (ast.Statement, error) {
	switch {
	case p.match(lexer.TokenIf):
		return p.ifStatement()
	case p.match(lexer.TokenWhile):
		return p.whileStatement()
	case p.match(lexer.TokenReturn):
		return p.returnStatement()
	case p.match(lexer.TokenLet, lexer.TokenVar, lexer.TokenConst):
		return p.variableStatement()
	case p.check(lexer.TokenLBrace):
		blk, err := p.block()
		if err != nil {
			return nil, err
		}
		return blk, nil
	}
	return p.expressionStatement()
}

// condition parses the parenthesized condition of if and while.
func (p *Parser) condition(keyword string) (ast.Expression, error) {
	if _, err := p.consume(lexer.TokenLParen, "expected '(' after '"+keyword+"'"); err != nil {
		return nil, err
	}
	cond, err := p.expression(LOWEST)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.TokenRParen, "expected ')' after condition"); err != nil {
		return nil, err
	}
	return cond, nil
}

func (p *Parser) ifStatement() (ast.Statement, error) {
	kw := p.previous()

	cond, err := p.condition("if")
	if err != nil {
		return nil, err
	}
	then, err := p.block()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStatement{Pos: p.pos(kw), Cond: cond, Then: then}

	if p.match(lexer.TokenElse) {
		if p.match(lexer.TokenIf) {
			elseIf, err := p.ifStatement()
			if err != nil {
				return nil, err
			}
			stmt.Else = elseIf
		} else {
			elseBlock, err := p.block()
			if err != nil {
				return nil, err
			}
			stmt.Else = elseBlock
		}
	}
	return stmt, nil
}

func (p *Parser) whileStatement() (ast.Statement, error) {
	kw := p.previous()

	cond, err := p.condition("while")
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStatement{Pos: p.pos(kw), Cond: cond, Body: body}, nil
}

func (p *Parser) returnStatement() (ast.Statement, error) {
	kw := p.previous()
	stmt := &ast.ReturnStatement{Pos: p.pos(kw)}

	if !p.check(lexer.TokenSemicolon) {
		value, err := p.expression(LOWEST)
		if err != nil {
			return nil, err
		}
		stmt.Expr = value
	}
	if _, err := p.consume(lexer.TokenSemicolon, "expected ';' after return value"); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) variableStatement() (ast.Statement, error) {
	kw := p.previous()

	name, err := p.consume(lexer.TokenIdentifier, "expected variable name")
	if err != nil {
		return nil, err
	}
	stmt := &ast.VariableStatement{Pos: p.pos(kw), Keyword: kw.Lexeme, Name: name.Lexeme}

	if p.match(lexer.TokenColon) {
		if stmt.Type, err = p.parseType(); err != nil {
			return nil, err
		}
	}
	if p.match(lexer.TokenAssign) {
		if stmt.Value, err = p.expression(LOWEST); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(lexer.TokenSemicolon, "expected ';' after variable declaration"); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) expressionStatement() (ast.Statement, error) {
	start := p.peek()
	expr, err := p.expression(LOWEST)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.TokenSemicolon, "expected ';' after expression"); err != nil {
		return nil, err
	}
	return &ast.ExpressionStatement{Pos: p.pos(start), Expr: expr}, nil
}
