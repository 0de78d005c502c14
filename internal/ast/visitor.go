package ast

// Visitor is implemented by passes that need per-node dispatch without a
// type switch.
type Visitor interface {
	VisitProgram(node *Program) any

	VisitFunctionDeclaration(node *FunctionDeclaration) any
	VisitTypeDeclaration(node *TypeDeclaration) any
	VisitInterfaceDeclaration(node *InterfaceDeclaration) any
	VisitModuleDeclaration(node *ModuleDeclaration) any

	VisitBlockStatement(node *BlockStatement) any
	VisitExpressionStatement(node *ExpressionStatement) any
	VisitReturnStatement(node *ReturnStatement) any
	VisitIfStatement(node *IfStatement) any
	VisitWhileStatement(node *WhileStatement) any
	VisitVariableStatement(node *VariableStatement) any

	VisitLiteralExpression(node *LiteralExpression) any
	VisitVariableExpression(node *VariableExpression) any
	VisitBinaryExpression(node *BinaryExpression) any
	VisitUnaryExpression(node *UnaryExpression) any
	VisitCallExpression(node *CallExpression) any
	VisitGroupingExpression(node *GroupingExpression) any
}

// Inspect traverses the tree rooted at node in depth-first order, calling f
// for each node. If f returns false the children of that node are skipped.
func Inspect(node Node, f func(Node) bool) {
	if isNil(node) || !f(node) {
		return
	}

	switch n := node.(type) {
	case *Program:
		for _, d := range n.Declarations {
			Inspect(d, f)
		}
	case *FunctionDeclaration:
		if n.Body != nil {
			Inspect(n.Body, f)
		}
	case *TypeDeclaration:
		for _, m := range n.Methods {
			Inspect(m, f)
		}
	case *InterfaceDeclaration:
		for _, m := range n.Methods {
			Inspect(m, f)
		}
	case *ModuleDeclaration:
		for _, d := range n.Declarations {
			Inspect(d, f)
		}
	case *BlockStatement:
		for _, s := range n.Statements {
			Inspect(s, f)
		}
	case *ExpressionStatement:
		Inspect(n.Expr, f)
	case *ReturnStatement:
		Inspect(n.Expr, f)
	case *IfStatement:
		Inspect(n.Cond, f)
		Inspect(n.Then, f)
		Inspect(n.Else, f)
	case *WhileStatement:
		Inspect(n.Cond, f)
		Inspect(n.Body, f)
	case *VariableStatement:
		Inspect(n.Value, f)
	case *BinaryExpression:
		Inspect(n.Left, f)
		Inspect(n.Right, f)
	case *UnaryExpression:
		Inspect(n.Operand, f)
	case *CallExpression:
		Inspect(n.Callee, f)
		for _, a := range n.Arguments {
			Inspect(a, f)
		}
	case *GroupingExpression:
		Inspect(n.Expr, f)
	}
}

// isNil catches both untyped nil and typed nil pointers stored in an
// interface, e.g. a nil *BlockStatement passed as a Node.
func isNil(node Node) bool {
	switch n := node.(type) {
	case nil:
		return true
	case *BlockStatement:
		return n == nil
	case *IfStatement:
		return n == nil
	case *FunctionDeclaration:
		return n == nil
	}
	return false
}
