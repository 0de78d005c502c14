// Package parser implements the Spark two-pass recursive descent parser.
//
// The first pass walks the whole token buffer collecting declaration
// signatures into a SymbolTable, which is then sealed. The second pass
// rewinds and builds the full AST, resolving bare type names against the
// table so that a declaration may refer to types declared later in the file.
package parser

import (
	"errors"
	"fmt"

	"github.com/spark-lang/spark/internal/ast"
	"github.com/spark-lang/spark/internal/lexer"
	"github.com/spark-lang/spark/internal/position"
)

// Parser represents the recursive descent parser. A Parser owns its cursor
// and is not safe for concurrent use; the token buffer is only read.
type Parser struct {
	tokens  []lexer.Token
	current int

	filename string
	handler  func(*ParseError)

	symbols  *SymbolTable
	errors   []error
	warnings []Warning

	// collecting is set during the first pass: bodies are skipped and
	// signatures go to the symbol table.
	collecting bool
	// angles counts the generic lists open at the cursor. halfShift is set
	// when a '>>' token has closed one of two nested lists and still owes
	// a '>' to the enclosing one.
	angles    int
	halfShift bool
}

// Option configures a Parser.
type Option func(*Parser)

// WithErrorHandler observes every recovered second-pass fault in order.
func WithErrorHandler(fn func(*ParseError)) Option {
	return func(p *Parser) { p.handler = fn }
}

// WithFilename records the file name attached to node positions and faults.
func WithFilename(name string) Option {
	return func(p *Parser) { p.filename = name }
}

// New creates a parser over a complete token buffer, as produced by
// lexer.Tokenize.
func New(tokens []lexer.Token, opts ...Option) (*Parser, error) {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != lexer.TokenEOF {
		return nil, ErrMissingEOF
	}
	for _, tok := range tokens[:len(tokens)-1] {
		if tok.Type == lexer.TokenEOF {
			return nil, ErrMissingEOF
		}
	}

	p := &Parser{tokens: tokens, symbols: NewSymbolTable()}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// ParseProgram runs both passes. The returned program is never nil; the
// error joins every second-pass fault and is nil for a clean parse.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	p.collectDeclarations()
	p.symbols.Seal()
	program := p.parseImplementations()
	return program, errors.Join(p.errors...)
}

// ParseExpression parses a single expression that must span the whole
// buffer. Bare type names resolve as basic types since no declarations are
// collected.
func (p *Parser) ParseExpression() (ast.Expression, error) {
	p.reset()
	p.symbols.Seal()

	expr, err := p.expression(LOWEST)
	if err == nil && !p.isAtEnd() {
		err = p.errorAt(p.peek(), "expected end of expression")
	}
	if err != nil {
		p.report(err)
		return nil, err
	}
	return expr, nil
}

// Symbols returns the table built by the first pass.
func (p *Parser) Symbols() *SymbolTable { return p.symbols }

// Warnings returns redeclarations observed by the first pass.
func (p *Parser) Warnings() []Warning { return p.warnings }

// collectDeclarations is the first pass. Faults are dropped here because
// the second pass meets the same faults and reports them.
func (p *Parser) collectDeclarations() {
	p.reset()
	p.collecting = true
	defer func() { p.collecting = false }()

	for !p.isAtEnd() {
		decl, err := p.declaration()
		if err != nil {
			p.synchronize()
			continue
		}
		if decl == nil {
			continue
		}
		p.register(decl)
		if mod, ok := decl.(*ast.ModuleDeclaration); ok {
			for _, inner := range mod.Declarations {
				switch inner.(type) {
				case *ast.TypeDeclaration, *ast.InterfaceDeclaration:
					p.register(inner)
				}
			}
		}
	}
}

func (p *Parser) register(decl ast.Declaration) {
	replaced, err := p.symbols.Declare(decl)
	if err != nil {
		return
	}
	if replaced {
		p.warnings = append(p.warnings, Warning{
			Pos:     decl.GetPos(),
			Message: fmt.Sprintf("%s redeclared; the later declaration wins", declName(decl)),
		})
	}
}

// parseImplementations is the second pass.
func (p *Parser) parseImplementations() *ast.Program {
	p.reset()
	program := &ast.Program{Pos: p.pos(p.peek())}

	for !p.isAtEnd() {
		decl, err := p.declaration()
		if err != nil {
			p.report(err)
			p.synchronize()
			continue
		}
		if decl != nil {
			program.Declarations = append(program.Declarations, decl)
		}
	}
	return program
}

func (p *Parser) report(err error) {
	var pe *ParseError
	if errors.As(err, &pe) && p.handler != nil {
		p.handler(pe)
	}
	p.errors = append(p.errors, err)
}

// synchronize discards tokens until just after a ';' or at the start of a
// declaration keyword.
func (p *Parser) synchronize() {
	p.clearAngles()
	for !p.isAtEnd() {
		if p.current > 0 && p.previous().Type == lexer.TokenSemicolon {
			return
		}
		if p.peek().Type.IsDeclarationStart() {
			return
		}
		p.advance()
	}
}

// ===== token cursor =====

func (p *Parser) reset() {
	p.current = 0
	p.clearAngles()
}

func (p *Parser) clearAngles() {
	p.angles = 0
	p.halfShift = false
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == lexer.TokenEOF
}

func (p *Parser) peek() lexer.Token {
	return p.tokens[p.current]
}

func (p *Parser) peekNext() lexer.Token {
	if p.current+1 < len(p.tokens) {
		return p.tokens[p.current+1]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) previous() lexer.Token {
	return p.tokens[p.current-1]
}

func (p *Parser) advance() lexer.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(tt lexer.TokenType) bool {
	return !p.isAtEnd() && p.peek().Type == tt
}

func (p *Parser) match(types ...lexer.TokenType) bool {
	for _, tt := range types {
		if p.check(tt) {
			p.advance()
			return true
		}
	}
	return false
}

// consume advances past a token of kind tt or faults with msg.
func (p *Parser) consume(tt lexer.TokenType, msg string) (lexer.Token, error) {
	if p.check(tt) {
		return p.advance(), nil
	}
	return lexer.Token{}, p.errorAt(p.peek(), msg)
}

func (p *Parser) errorAt(tok lexer.Token, msg string) *ParseError {
	return &ParseError{
		Message:  msg,
		Lexeme:   tok.Lexeme,
		Filename: p.filename,
		Line:     tok.Line,
		Column:   tok.Column,
	}
}

func (p *Parser) pos(tok lexer.Token) position.Position {
	return position.Position{
		Filename: p.filename,
		Line:     tok.Line,
		Column:   tok.Column,
		Offset:   tok.Offset,
	}
}

func declName(decl ast.Declaration) string {
	switch d := decl.(type) {
	case *ast.FunctionDeclaration:
		return "function " + d.Name
	case *ast.TypeDeclaration:
		return "type " + d.Name
	case *ast.InterfaceDeclaration:
		return "interface " + d.Name
	case *ast.ModuleDeclaration:
		return "module " + d.Name
	}
	return fmt.Sprintf("%T", decl)
}
