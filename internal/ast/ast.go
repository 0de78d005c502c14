// Package ast defines the Abstract Syntax Tree (AST) nodes for the Spark
// programming language.
//
// The tree is strictly owned: every node has exactly one parent and no node
// is shared or cyclic. All nodes record the source position of their first
// token and support the visitor pattern for traversal.
package ast

import (
	"fmt"
	"strings"

	"github.com/spark-lang/spark/internal/lexer"
	"github.com/spark-lang/spark/internal/position"
)

// Node is the base interface for all AST nodes
type Node interface {
	// GetPos returns the position of the node's first token
	GetPos() position.Position
	// String returns a human-readable representation of the node
	String() string
	// Accept implements the visitor pattern for AST traversal
	Accept(visitor Visitor) any
}

// Declaration represents all top-level and member declaration nodes
type Declaration interface {
	Node
	declarationNode()
}

// Statement represents all statement nodes in the AST
type Statement interface {
	Node
	statementNode()
}

// Expression represents all expression nodes in the AST
type Expression interface {
	Node
	expressionNode()
}

// ===== Program Structure =====

// Program represents the root of the AST - a complete Spark source file
type Program struct {
	Pos          position.Position
	Declarations []Declaration
}

func (p *Program) GetPos() position.Position { return p.Pos }
func (p *Program) String() string {
	parts := make([]string, 0, len(p.Declarations))
	for _, decl := range p.Declarations {
		parts = append(parts, decl.String())
	}
	return strings.Join(parts, "\n")
}
func (p *Program) Accept(visitor Visitor) any { return visitor.VisitProgram(p) }

// ===== Declarations =====

// FunctionDeclaration represents a function or method. ParameterTypes is
// parallel to Parameters. Body is nil for signature-only declarations.
type FunctionDeclaration struct {
	Pos            position.Position
	Name           string
	TypeParameters []string
	Parameters     []string
	ParameterTypes []Type
	ReturnType     Type
	Body           *BlockStatement
	Modifiers      []string
	IsPublic       bool
	IsInternal     bool
}

func (f *FunctionDeclaration) GetPos() position.Position { return f.Pos }
func (f *FunctionDeclaration) String() string {
	params := make([]string, len(f.Parameters))
	for i, name := range f.Parameters {
		params[i] = fmt.Sprintf("%s: %s", name, typeString(f.paramType(i)))
	}
	s := fmt.Sprintf("func %s%s(%s) -> %s",
		f.Name, typeParamString(f.TypeParameters), strings.Join(params, ", "), typeString(f.ReturnType))
	if f.Body != nil {
		s += " " + f.Body.String()
	}
	return s
}
func (f *FunctionDeclaration) Accept(visitor Visitor) any {
	return visitor.VisitFunctionDeclaration(f)
}
func (f *FunctionDeclaration) declarationNode() {}

func (f *FunctionDeclaration) paramType(i int) Type {
	if i < len(f.ParameterTypes) {
		return f.ParameterTypes[i]
	}
	return nil
}

// Visibility derives the access level from the flags.
func (f *FunctionDeclaration) Visibility() lexer.Visibility {
	return visibilityOf(f.IsPublic, f.IsInternal)
}

// TypeDeclaration represents a nominal type with methods and the interfaces
// it claims to implement.
type TypeDeclaration struct {
	Pos            position.Position
	Name           string
	TypeParameters []string
	Methods        []*FunctionDeclaration
	Implements     []string
	Modifiers      []string
	IsPublic       bool
	IsInternal     bool
}

func (t *TypeDeclaration) GetPos() position.Position { return t.Pos }
func (t *TypeDeclaration) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "type %s%s", t.Name, typeParamString(t.TypeParameters))
	if len(t.Implements) > 0 {
		fmt.Fprintf(&b, " impl %s", strings.Join(t.Implements, ", "))
	}
	writeMembers(&b, t.Methods)
	return b.String()
}
func (t *TypeDeclaration) Accept(visitor Visitor) any { return visitor.VisitTypeDeclaration(t) }
func (t *TypeDeclaration) declarationNode()           {}

// Visibility derives the access level from the flags.
func (t *TypeDeclaration) Visibility() lexer.Visibility {
	return visibilityOf(t.IsPublic, t.IsInternal)
}

// InterfaceDeclaration represents a set of method signatures.
type InterfaceDeclaration struct {
	Pos     position.Position
	Name    string
	Methods []*FunctionDeclaration
	Extends []string
}

func (i *InterfaceDeclaration) GetPos() position.Position { return i.Pos }
func (i *InterfaceDeclaration) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "inter %s", i.Name)
	if len(i.Extends) > 0 {
		fmt.Fprintf(&b, " inter %s", strings.Join(i.Extends, ", "))
	}
	writeMembers(&b, i.Methods)
	return b.String()
}
func (i *InterfaceDeclaration) Accept(visitor Visitor) any {
	return visitor.VisitInterfaceDeclaration(i)
}
func (i *InterfaceDeclaration) declarationNode() {}

// ModuleDeclaration groups imports and nested func/type/inter declarations.
type ModuleDeclaration struct {
	Pos          position.Position
	Name         string
	Imports      []string
	Declarations []Declaration
}

func (m *ModuleDeclaration) GetPos() position.Position { return m.Pos }
func (m *ModuleDeclaration) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "module %s", m.Name)
	for _, imp := range m.Imports {
		fmt.Fprintf(&b, " import %s;", imp)
	}
	b.WriteString(" {")
	for _, decl := range m.Declarations {
		b.WriteString(" ")
		b.WriteString(decl.String())
	}
	b.WriteString(" }")
	return b.String()
}
func (m *ModuleDeclaration) Accept(visitor Visitor) any { return visitor.VisitModuleDeclaration(m) }
func (m *ModuleDeclaration) declarationNode()           {}

// ===== Statements =====

// BlockStatement represents a brace-delimited statement list
type BlockStatement struct {
	Pos        position.Position
	Statements []Statement
}

func (b *BlockStatement) GetPos() position.Position { return b.Pos }
func (b *BlockStatement) String() string {
	if len(b.Statements) == 0 {
		return "{}"
	}
	parts := make([]string, len(b.Statements))
	for i, stmt := range b.Statements {
		parts[i] = stmt.String()
	}
	return "{ " + strings.Join(parts, " ") + " }"
}
func (b *BlockStatement) Accept(visitor Visitor) any { return visitor.VisitBlockStatement(b) }
func (b *BlockStatement) statementNode()             {}

// ExpressionStatement represents an expression evaluated for its effect
type ExpressionStatement struct {
	Pos  position.Position
	Expr Expression
}

func (e *ExpressionStatement) GetPos() position.Position { return e.Pos }
func (e *ExpressionStatement) String() string            { return e.Expr.String() + ";" }
func (e *ExpressionStatement) Accept(visitor Visitor) any {
	return visitor.VisitExpressionStatement(e)
}
func (e *ExpressionStatement) statementNode() {}

// ReturnStatement represents `ret [expr];`. Expr is nil for a bare return.
type ReturnStatement struct {
	Pos  position.Position
	Expr Expression
}

func (r *ReturnStatement) GetPos() position.Position { return r.Pos }
func (r *ReturnStatement) String() string {
	if r.Expr == nil {
		return "ret;"
	}
	return "ret " + r.Expr.String() + ";"
}
func (r *ReturnStatement) Accept(visitor Visitor) any { return visitor.VisitReturnStatement(r) }
func (r *ReturnStatement) statementNode()             {}

// IfStatement represents a conditional. Else is nil, a *BlockStatement, or a
// nested *IfStatement.
type IfStatement struct {
	Pos  position.Position
	Cond Expression
	Then *BlockStatement
	Else Statement
}

func (i *IfStatement) GetPos() position.Position { return i.Pos }
func (i *IfStatement) String() string {
	s := fmt.Sprintf("if (%s) %s", i.Cond, i.Then)
	if i.Else != nil {
		s += " else " + i.Else.String()
	}
	return s
}
func (i *IfStatement) Accept(visitor Visitor) any { return visitor.VisitIfStatement(i) }
func (i *IfStatement) statementNode()             {}

// WhileStatement represents a pre-tested loop
type WhileStatement struct {
	Pos  position.Position
	Cond Expression
	Body *BlockStatement
}

func (w *WhileStatement) GetPos() position.Position { return w.Pos }
func (w *WhileStatement) String() string {
	return fmt.Sprintf("while (%s) %s", w.Cond, w.Body)
}
func (w *WhileStatement) Accept(visitor Visitor) any { return visitor.VisitWhileStatement(w) }
func (w *WhileStatement) statementNode()             {}

// VariableStatement represents a let/var/const binding. Type and Value are
// each optional.
type VariableStatement struct {
	Pos     position.Position
	Keyword string
	Name    string
	Type    Type
	Value   Expression
}

func (v *VariableStatement) GetPos() position.Position { return v.Pos }
func (v *VariableStatement) String() string {
	s := v.Keyword + " " + v.Name
	if v.Type != nil {
		s += ": " + v.Type.String()
	}
	if v.Value != nil {
		s += " = " + v.Value.String()
	}
	return s + ";"
}
func (v *VariableStatement) Accept(visitor Visitor) any { return visitor.VisitVariableStatement(v) }
func (v *VariableStatement) statementNode()             {}

// ===== Expressions =====

// LiteralExpression represents a literal value. Kind is the token type the
// literal was lexed as; Text is its source spelling.
type LiteralExpression struct {
	Pos     position.Position
	Literal lexer.Literal
	Kind    lexer.TokenType
	Text    string
}

func (l *LiteralExpression) GetPos() position.Position { return l.Pos }
func (l *LiteralExpression) String() string            { return l.Text }
func (l *LiteralExpression) Accept(visitor Visitor) any {
	return visitor.VisitLiteralExpression(l)
}
func (l *LiteralExpression) expressionNode() {}

// VariableExpression represents a reference to a name, including this and super
type VariableExpression struct {
	Pos  position.Position
	Name string
}

func (v *VariableExpression) GetPos() position.Position { return v.Pos }
func (v *VariableExpression) String() string            { return v.Name }
func (v *VariableExpression) Accept(visitor Visitor) any {
	return visitor.VisitVariableExpression(v)
}
func (v *VariableExpression) expressionNode() {}

// BinaryExpression represents an infix operation, assignments included
type BinaryExpression struct {
	Pos      position.Position
	Left     Expression
	Operator lexer.Token
	Right    Expression
}

func (b *BinaryExpression) GetPos() position.Position { return b.Pos }
func (b *BinaryExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Operator.Lexeme, b.Right)
}
func (b *BinaryExpression) Accept(visitor Visitor) any { return visitor.VisitBinaryExpression(b) }
func (b *BinaryExpression) expressionNode()            {}

// UnaryExpression represents a prefix operation
type UnaryExpression struct {
	Pos      position.Position
	Operator lexer.Token
	Operand  Expression
}

func (u *UnaryExpression) GetPos() position.Position { return u.Pos }
func (u *UnaryExpression) String() string {
	return fmt.Sprintf("(%s%s)", u.Operator.Lexeme, u.Operand)
}
func (u *UnaryExpression) Accept(visitor Visitor) any { return visitor.VisitUnaryExpression(u) }
func (u *UnaryExpression) expressionNode()            {}

// CallExpression represents a call. Chained calls nest through Callee.
type CallExpression struct {
	Pos       position.Position
	Callee    Expression
	Arguments []Expression
}

func (c *CallExpression) GetPos() position.Position { return c.Pos }
func (c *CallExpression) String() string {
	args := make([]string, len(c.Arguments))
	for i, arg := range c.Arguments {
		args[i] = arg.String()
	}
	return fmt.Sprintf("%s(%s)", c.Callee, strings.Join(args, ", "))
}
func (c *CallExpression) Accept(visitor Visitor) any { return visitor.VisitCallExpression(c) }
func (c *CallExpression) expressionNode()            {}

// GroupingExpression represents a parenthesized expression
type GroupingExpression struct {
	Pos  position.Position
	Expr Expression
}

func (g *GroupingExpression) GetPos() position.Position { return g.Pos }
func (g *GroupingExpression) String() string            { return "(" + g.Expr.String() + ")" }
func (g *GroupingExpression) Accept(visitor Visitor) any {
	return visitor.VisitGroupingExpression(g)
}
func (g *GroupingExpression) expressionNode() {}

// ===== helpers =====

func visibilityOf(public, internal bool) lexer.Visibility {
	switch {
	case public:
		return lexer.Public
	case internal:
		return lexer.Internal
	}
	return lexer.Private
}

func typeString(t Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

func typeParamString(params []string) string {
	if len(params) == 0 {
		return ""
	}
	return "<" + strings.Join(params, ", ") + ">"
}

func writeMembers(b *strings.Builder, methods []*FunctionDeclaration) {
	if len(methods) == 0 {
		b.WriteString(" {}")
		return
	}
	b.WriteString(" {")
	for _, m := range methods {
		b.WriteString(" ")
		b.WriteString(m.String())
	}
	b.WriteString(" }")
}
