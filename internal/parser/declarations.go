package parser

import (
	"github.com/spark-lang/spark/internal/ast"
	"github.com/spark-lang/spark/internal/lexer"
)

var modifierTokens = []lexer.TokenType{
	lexer.TokenStatic,
	lexer.TokenAbstract,
	lexer.TokenFinal,
	lexer.TokenOverride,
	lexer.TokenVirtual,
	lexer.TokenInline,
}

// primitiveTypes maps type keywords to their canonical names.
var primitiveTypes = map[lexer.TokenType]string{
	lexer.TokenInt8:    "int8",
	lexer.TokenInt16:   "int16",
	lexer.TokenInt32:   "int32",
	lexer.TokenInt64:   "int64",
	lexer.TokenUint8:   "uint8",
	lexer.TokenUint16:  "uint16",
	lexer.TokenUint32:  "uint32",
	lexer.TokenUint64:  "uint64",
	lexer.TokenFloat8:  "float8",
	lexer.TokenFloat16: "float16",
	lexer.TokenFloat32: "float32",
	lexer.TokenFloat64: "float64",
	lexer.TokenDouble:  "double",
	lexer.TokenString:  "string",
	lexer.TokenBoolean: "bool",
	lexer.TokenChar:    "char",
}

// prefix holds the visibility and modifiers written around a declaration
// keyword. Both `public func f` and `func public f` are accepted.
type prefix struct {
	visibility lexer.Visibility
	modifiers  []string
}

func (p *Parser) prefix(pre prefix) prefix {
	for {
		switch {
		case p.match(lexer.TokenPublic):
			pre.visibility = lexer.Public
		case p.match(lexer.TokenPrivate):
			pre.visibility = lexer.Private
		case p.match(lexer.TokenInternal):
			pre.visibility = lexer.Internal
		case p.match(modifierTokens...):
			pre.modifiers = append(pre.modifiers, p.previous().Lexeme)
		default:
			return pre
		}
	}
}

func isPrefixToken(tt lexer.TokenType) bool {
	switch tt {
	case lexer.TokenPublic, lexer.TokenPrivate, lexer.TokenInternal:
		return true
	}
	for _, m := range modifierTokens {
		if tt == m {
			return true
		}
	}
	return false
}

// atDeclaration reports whether the cursor, after any visibility and
// modifier keywords, sits on a declaration keyword.
func (p *Parser) atDeclaration() bool {
	for i := p.current; i < len(p.tokens); i++ {
		tt := p.tokens[i].Type
		if tt.IsDeclarationStart() {
			return true
		}
		if !isPrefixToken(tt) {
			return false
		}
	}
	return false
}

// declaration parses one top-level declaration. Any other token is skipped
// and yields a nil declaration.
func (p *Parser) declaration() (ast.Declaration, error) {
	p.clearAngles()
	if !p.atDeclaration() {
		p.advance()
		return nil, nil
	}
	pre := p.prefix(prefix{})

	switch {
	case p.match(lexer.TokenFunc):
		return orNil(p.function(pre))
	case p.match(lexer.TokenTypeKeyword):
		return orNil(p.typeDeclaration(pre))
	case p.match(lexer.TokenInter):
		return orNil(p.interfaceDeclaration())
	case p.match(lexer.TokenModule):
		return orNil(p.moduleDeclaration())
	}
	return nil, p.errorAt(p.peek(), "expected declaration")
}

// orNil converts a concrete declaration result to the interface without
// letting a nil pointer become a non-nil interface.
func orNil[D ast.Declaration](d D, err error) (ast.Declaration, error) {
	if err != nil {
		return nil, err
	}
	return d, nil
}

// function parses a function after its `func` keyword. During the first
// pass the body is skipped rather than built.
func (p *Parser) function(pre prefix) (*ast.FunctionDeclaration, error) {
	kw := p.previous()
	pre = p.prefix(pre)

	name, err := p.consume(lexer.TokenIdentifier, "expected function name")
	if err != nil {
		return nil, err
	}

	fn := &ast.FunctionDeclaration{
		Pos:        p.pos(kw),
		Name:       name.Lexeme,
		Modifiers:  pre.modifiers,
		IsPublic:   pre.visibility == lexer.Public,
		IsInternal: pre.visibility == lexer.Internal,
		ReturnType: ast.Void(),
	}

	if fn.TypeParameters, err = p.typeParameterNames(); err != nil {
		return nil, err
	}

	if p.match(lexer.TokenLParen) {
		if !p.check(lexer.TokenRParen) {
			for {
				param, err := p.consume(lexer.TokenIdentifier, "expected parameter name")
				if err != nil {
					return nil, err
				}
				if _, err := p.consume(lexer.TokenColon, "expected ':' after parameter name"); err != nil {
					return nil, err
				}
				typ, err := p.parseType()
				if err != nil {
					return nil, err
				}
				fn.Parameters = append(fn.Parameters, param.Lexeme)
				fn.ParameterTypes = append(fn.ParameterTypes, typ)
				if !p.match(lexer.TokenComma) {
					break
				}
			}
		}
		if _, err := p.consume(lexer.TokenRParen, "expected ')' after parameters"); err != nil {
			return nil, err
		}
	}

	if p.match(lexer.TokenArrow) {
		if fn.ReturnType, err = p.parseType(); err != nil {
			return nil, err
		}
	}

	if p.check(lexer.TokenLBrace) {
		if p.collecting {
			err = p.skipBlock()
		} else {
			fn.Body, err = p.block()
		}
		if err != nil {
			return nil, err
		}
	}
	return fn, nil
}

// method parses a member of a type or interface body: optional prefix
// keywords, then a function.
func (p *Parser) method(context string) (*ast.FunctionDeclaration, error) {
	pre := p.prefix(prefix{})
	if !p.match(lexer.TokenFunc) {
		return nil, p.errorAt(p.peek(), "expected function declaration in "+context)
	}
	return p.function(pre)
}

func (p *Parser) typeDeclaration(pre prefix) (*ast.TypeDeclaration, error) {
	kw := p.previous()
	pre = p.prefix(pre)

	name, err := p.consume(lexer.TokenIdentifier, "expected type name")
	if err != nil {
		return nil, err
	}

	decl := &ast.TypeDeclaration{
		Pos:        p.pos(kw),
		Name:       name.Lexeme,
		Modifiers:  pre.modifiers,
		IsPublic:   pre.visibility == lexer.Public,
		IsInternal: pre.visibility == lexer.Internal,
	}

	if decl.TypeParameters, err = p.typeParameterNames(); err != nil {
		return nil, err
	}

	if p.match(lexer.TokenImpl) {
		if decl.Implements, err = p.nameList("expected interface name"); err != nil {
			return nil, err
		}
	}

	if p.match(lexer.TokenLBrace) {
		for !p.check(lexer.TokenRBrace) && !p.isAtEnd() {
			m, err := p.method("type body")
			if err != nil {
				return nil, err
			}
			p.match(lexer.TokenSemicolon)
			decl.Methods = append(decl.Methods, m)
		}
		if _, err := p.consume(lexer.TokenRBrace, "expected '}' after type body"); err != nil {
			return nil, err
		}
	}
	return decl, nil
}

func (p *Parser) interfaceDeclaration() (*ast.InterfaceDeclaration, error) {
	kw := p.previous()

	name, err := p.consume(lexer.TokenIdentifier, "expected interface name")
	if err != nil {
		return nil, err
	}
	decl := &ast.InterfaceDeclaration{Pos: p.pos(kw), Name: name.Lexeme}

	if p.match(lexer.TokenInter) {
		if decl.Extends, err = p.nameList("expected interface name"); err != nil {
			return nil, err
		}
	}

	if _, err := p.consume(lexer.TokenLBrace, "expected '{' after interface name"); err != nil {
		return nil, err
	}
	for !p.check(lexer.TokenRBrace) && !p.isAtEnd() {
		m, err := p.method("interface body")
		if err != nil {
			return nil, err
		}
		p.match(lexer.TokenSemicolon)
		decl.Methods = append(decl.Methods, m)
	}
	if _, err := p.consume(lexer.TokenRBrace, "expected '}' after interface body"); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *Parser) moduleDeclaration() (*ast.ModuleDeclaration, error) {
	kw := p.previous()

	name, err := p.consume(lexer.TokenIdentifier, "expected module name")
	if err != nil {
		return nil, err
	}
	decl := &ast.ModuleDeclaration{Pos: p.pos(kw), Name: name.Lexeme}

	for p.match(lexer.TokenImport) {
		imp, err := p.consume(lexer.TokenIdentifier, "expected module name")
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(lexer.TokenSemicolon, "expected ';' after import"); err != nil {
			return nil, err
		}
		decl.Imports = append(decl.Imports, imp.Lexeme)
	}

	if _, err := p.consume(lexer.TokenLBrace, "expected '{' after module name"); err != nil {
		return nil, err
	}
	for !p.check(lexer.TokenRBrace) && !p.isAtEnd() {
		pre := p.prefix(prefix{})

		var inner ast.Declaration
		switch {
		case p.match(lexer.TokenFunc):
			inner, err = orNil(p.function(pre))
		case p.match(lexer.TokenTypeKeyword):
			inner, err = orNil(p.typeDeclaration(pre))
		case p.match(lexer.TokenInter):
			inner, err = orNil(p.interfaceDeclaration())
		default:
			err = p.errorAt(p.peek(), "expected declaration in module body")
		}
		if err != nil {
			return nil, err
		}
		decl.Declarations = append(decl.Declarations, inner)
	}
	if _, err := p.consume(lexer.TokenRBrace, "expected '}' after module body"); err != nil {
		return nil, err
	}
	return decl, nil
}

// typeParameterNames parses an optional `<T, U>` list of names.
func (p *Parser) typeParameterNames() ([]string, error) {
	if !p.openAngle() {
		return nil, nil
	}
	names, err := p.nameList("expected type parameter name")
	if err != nil {
		return nil, err
	}
	if err := p.closeAngle("expected '>' after type parameters"); err != nil {
		return nil, err
	}
	return names, nil
}

// nameList parses one or more comma-separated identifiers.
func (p *Parser) nameList(msg string) ([]string, error) {
	var names []string
	for {
		tok, err := p.consume(lexer.TokenIdentifier, msg)
		if err != nil {
			return nil, err
		}
		names = append(names, tok.Lexeme)
		if !p.match(lexer.TokenComma) {
			return names, nil
		}
	}
}

// parseType parses a type reference. A bare name becomes a UserDefinedType
// when the first pass collected a type declaration by that name, and a
// BasicType otherwise.
func (p *Parser) parseType() (ast.Type, error) {
	if name, ok := primitiveTypes[p.peek().Type]; ok {
		p.advance()
		return &ast.BasicType{Name: name}, nil
	}

	tok, err := p.consume(lexer.TokenIdentifier, "expected type")
	if err != nil {
		return nil, err
	}

	if p.openAngle() {
		var params []ast.Type
		for {
			param, err := p.parseType()
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.match(lexer.TokenComma) {
				break
			}
		}
		if err := p.closeAngle("expected '>' after type arguments"); err != nil {
			return nil, err
		}
		return &ast.GenericType{BaseName: tok.Lexeme, TypeParameters: params}, nil
	}

	if p.symbols.IsType(tok.Lexeme) {
		return &ast.UserDefinedType{Name: tok.Lexeme}, nil
	}
	return &ast.BasicType{Name: tok.Lexeme}, nil
}

func (p *Parser) openAngle() bool {
	if !p.match(lexer.TokenLt) {
		return false
	}
	p.angles++
	return true
}

// closeAngle consumes the '>' ending a type list. A '>>' token closes two
// nested lists: the inner call leaves it in place and the outer one
// consumes it. A '>>' with only one list open is a fault.
func (p *Parser) closeAngle(msg string) error {
	if p.halfShift {
		if !p.check(lexer.TokenShiftRight) {
			return p.errorAt(p.peek(), msg)
		}
		p.halfShift = false
		p.angles--
		p.advance()
		return nil
	}
	switch {
	case p.check(lexer.TokenGt):
		p.angles--
		p.advance()
		return nil
	case p.check(lexer.TokenShiftRight) && p.angles >= 2:
		p.halfShift = true
		p.angles--
		return nil
	}
	return p.errorAt(p.peek(), msg)
}

// skipBlock steps over a brace-delimited body without building it. Meeting
// a declaration keyword before the matching '}' means the brace is missing.
func (p *Parser) skipBlock() error {
	depth := 0
	for !p.isAtEnd() {
		switch tt := p.peek().Type; {
		case tt == lexer.TokenLBrace:
			depth++
		case tt == lexer.TokenRBrace:
			depth--
			if depth == 0 {
				p.advance()
				return nil
			}
		case tt.IsDeclarationStart():
			return p.errorAt(p.peek(), "expected '}' after block")
		}
		p.advance()
	}
	return p.errorAt(p.peek(), "expected '}' after block")
}
