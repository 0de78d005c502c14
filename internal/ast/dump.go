package ast

import (
	"strconv"
	"strings"

	"github.com/spark-lang/spark/internal/lexer"
)

// Dump renders node as a single-line s-expression. The format is stable and
// is what golden tests and `spark parse` compare against.
//
//	(func add (params (a int32) (b int32)) (returns int32)
//	  (block (return (+ a b))))
func Dump(node Node) string {
	d := &dumper{}
	d.node(node)
	return d.b.String()
}

// DumpType renders a type reference in the Dump format.
func DumpType(t Type) string {
	d := &dumper{}
	d.typ(t)
	return d.b.String()
}

type dumper struct {
	b strings.Builder
}

func (d *dumper) open(head string) {
	d.b.WriteByte('(')
	d.b.WriteString(head)
}

func (d *dumper) close() { d.b.WriteByte(')') }

func (d *dumper) atom(s string) {
	d.b.WriteByte(' ')
	d.b.WriteString(s)
}

func (d *dumper) list(head string, items []string) {
	if len(items) == 0 {
		return
	}
	d.b.WriteByte(' ')
	d.open(head)
	for _, it := range items {
		d.atom(it)
	}
	d.close()
}

func (d *dumper) node(n Node) {
	if isNil(n) {
		d.b.WriteString("nil")
		return
	}
	n.Accept(d)
}

func (d *dumper) child(n Node) {
	d.b.WriteByte(' ')
	d.node(n)
}

func (d *dumper) typ(t Type) {
	switch t := t.(type) {
	case *BasicType:
		d.b.WriteString(t.Name)
	case *UserDefinedType:
		d.open("user")
		d.atom(t.Name)
		d.close()
	case *GenericType:
		d.open("generic")
		d.atom(t.BaseName)
		for _, p := range t.TypeParameters {
			d.b.WriteByte(' ')
			d.typ(p)
		}
		d.close()
	default:
		d.b.WriteString("nil")
	}
}

func (d *dumper) visibility(v lexer.Visibility) {
	if v != lexer.Private {
		d.b.WriteString(" (vis ")
		d.b.WriteString(v.String())
		d.b.WriteByte(')')
	}
}

func (d *dumper) VisitProgram(n *Program) any {
	d.open("program")
	for _, decl := range n.Declarations {
		d.child(decl)
	}
	d.close()
	return nil
}

func (d *dumper) VisitFunctionDeclaration(n *FunctionDeclaration) any {
	d.open("func")
	d.atom(n.Name)
	d.visibility(n.Visibility())
	d.list("modifiers", n.Modifiers)
	d.list("type-params", n.TypeParameters)
	d.b.WriteString(" (params")
	for i, name := range n.Parameters {
		d.b.WriteString(" (")
		d.b.WriteString(name)
		d.b.WriteByte(' ')
		d.typ(n.paramType(i))
		d.close()
	}
	d.close()
	d.b.WriteString(" (returns ")
	d.typ(n.ReturnType)
	d.close()
	if n.Body != nil {
		d.child(n.Body)
	}
	d.close()
	return nil
}

func (d *dumper) VisitTypeDeclaration(n *TypeDeclaration) any {
	d.open("type")
	d.atom(n.Name)
	d.visibility(n.Visibility())
	d.list("modifiers", n.Modifiers)
	d.list("type-params", n.TypeParameters)
	d.list("impl", n.Implements)
	for _, m := range n.Methods {
		d.child(m)
	}
	d.close()
	return nil
}

func (d *dumper) VisitInterfaceDeclaration(n *InterfaceDeclaration) any {
	d.open("inter")
	d.atom(n.Name)
	d.list("extends", n.Extends)
	for _, m := range n.Methods {
		d.child(m)
	}
	d.close()
	return nil
}

func (d *dumper) VisitModuleDeclaration(n *ModuleDeclaration) any {
	d.open("module")
	d.atom(n.Name)
	d.list("imports", n.Imports)
	for _, decl := range n.Declarations {
		d.child(decl)
	}
	d.close()
	return nil
}

func (d *dumper) VisitBlockStatement(n *BlockStatement) any {
	d.open("block")
	for _, s := range n.Statements {
		d.child(s)
	}
	d.close()
	return nil
}

func (d *dumper) VisitExpressionStatement(n *ExpressionStatement) any {
	d.open("expr")
	d.child(n.Expr)
	d.close()
	return nil
}

func (d *dumper) VisitReturnStatement(n *ReturnStatement) any {
	d.open("return")
	if n.Expr != nil {
		d.child(n.Expr)
	}
	d.close()
	return nil
}

func (d *dumper) VisitIfStatement(n *IfStatement) any {
	d.open("if")
	d.child(n.Cond)
	d.child(n.Then)
	if n.Else != nil {
		d.child(n.Else)
	}
	d.close()
	return nil
}

func (d *dumper) VisitWhileStatement(n *WhileStatement) any {
	d.open("while")
	d.child(n.Cond)
	d.child(n.Body)
	d.close()
	return nil
}

func (d *dumper) VisitVariableStatement(n *VariableStatement) any {
	d.open(n.Keyword)
	d.atom(n.Name)
	if n.Type != nil {
		d.b.WriteString(" (type ")
		d.typ(n.Type)
		d.close()
	}
	if n.Value != nil {
		d.child(n.Value)
	}
	d.close()
	return nil
}

func (d *dumper) VisitLiteralExpression(n *LiteralExpression) any {
	if s, ok := n.Literal.Str(); ok {
		d.b.WriteString(strconv.Quote(s))
		return nil
	}
	d.b.WriteString(n.Text)
	return nil
}

func (d *dumper) VisitVariableExpression(n *VariableExpression) any {
	d.b.WriteString(n.Name)
	return nil
}

func (d *dumper) VisitBinaryExpression(n *BinaryExpression) any {
	d.open(n.Operator.Lexeme)
	d.child(n.Left)
	d.child(n.Right)
	d.close()
	return nil
}

func (d *dumper) VisitUnaryExpression(n *UnaryExpression) any {
	d.open(n.Operator.Lexeme)
	d.child(n.Operand)
	d.close()
	return nil
}

func (d *dumper) VisitCallExpression(n *CallExpression) any {
	d.open("call")
	d.child(n.Callee)
	for _, a := range n.Arguments {
		d.child(a)
	}
	d.close()
	return nil
}

func (d *dumper) VisitGroupingExpression(n *GroupingExpression) any {
	d.open("group")
	d.child(n.Expr)
	d.close()
	return nil
}
