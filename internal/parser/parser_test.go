package parser

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/spark-lang/spark/internal/ast"
	"github.com/spark-lang/spark/internal/lexer"
)

func tokenize(t *testing.T, src string) []lexer.Token {
	t.Helper()
	tokens, err := lexer.New(src).Tokenize()
	be.Err(t, err, nil)
	return tokens
}

func parseProgram(t *testing.T, src string, opts ...Option) (*Parser, *ast.Program, error) {
	t.Helper()
	p, err := New(tokenize(t, src), opts...)
	be.Err(t, err, nil)
	program, err := p.ParseProgram()
	be.True(t, program != nil)
	return p, program, err
}

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	_, program, err := parseProgram(t, src)
	be.Err(t, err, nil)
	return program
}

func messages(err error) []string {
	var out []string
	for _, pe := range Errors(err) {
		out = append(out, pe.Message)
	}
	return out
}

func TestAddFunction(t *testing.T) {
	program := mustParse(t, "func add(a: int32, b: int32) -> int32 { ret a + b; }")
	be.Equal(t, len(program.Declarations), 1)

	fn, ok := program.Declarations[0].(*ast.FunctionDeclaration)
	be.True(t, ok)
	be.Equal(t, fn.Name, "add")
	be.Equal(t, strings.Join(fn.Parameters, ","), "a,b")
	be.Equal(t, fn.ParameterTypes[0].String(), "int32")
	be.Equal(t, fn.ReturnType.String(), "int32")
	be.Equal(t, len(fn.Body.Statements), 1)

	ret, ok := fn.Body.Statements[0].(*ast.ReturnStatement)
	be.True(t, ok)
	bin, ok := ret.Expr.(*ast.BinaryExpression)
	be.True(t, ok)
	be.Equal(t, bin.Operator.Type, lexer.TokenPlus)

	be.Equal(t, ast.Dump(program),
		"(program (func add (params (a int32) (b int32)) (returns int32) (block (return (+ a b)))))")
}

func TestTypeImplementsInterface(t *testing.T) {
	p, program, err := parseProgram(t, `
inter Drawable { func draw(); }
type Point impl Drawable { func draw() {} }
`)
	be.Err(t, err, nil)
	be.Equal(t, len(program.Declarations), 2)

	point, ok := program.Declarations[1].(*ast.TypeDeclaration)
	be.True(t, ok)
	be.Equal(t, point.Name, "Point")
	be.Equal(t, strings.Join(point.Implements, ","), "Drawable")
	be.Equal(t, len(point.Methods), 1)
	be.Equal(t, point.Methods[0].Name, "draw")
	be.True(t, point.Methods[0].Body != nil)

	inter := program.Declarations[0].(*ast.InterfaceDeclaration)
	be.True(t, inter.Methods[0].Body == nil)

	be.True(t, p.Symbols().IsType("Point"))
	be.True(t, !p.Symbols().IsType("Drawable"))
	_, found := p.Symbols().Interfaces["Drawable"]
	be.True(t, found)
}

func TestInterfaceReferenceIsBasic(t *testing.T) {
	program := mustParse(t, "inter Drawable { func draw(); } func f(d: Drawable) {}")
	fn := program.Declarations[1].(*ast.FunctionDeclaration)
	basic, ok := fn.ParameterTypes[0].(*ast.BasicType)
	be.True(t, ok)
	be.Equal(t, basic.Name, "Drawable")
	be.True(t, !ast.IsAssignable(basic, &ast.UserDefinedType{Name: "Drawable"}))
}

func TestForwardReference(t *testing.T) {
	program := mustParse(t, "type A { func f() -> B {} } type B { } func g() -> C {}")

	a := program.Declarations[0].(*ast.TypeDeclaration)
	ret, ok := a.Methods[0].ReturnType.(*ast.UserDefinedType)
	be.True(t, ok)
	be.Equal(t, ret.Name, "B")

	g := program.Declarations[2].(*ast.FunctionDeclaration)
	basic, ok := g.ReturnType.(*ast.BasicType)
	be.True(t, ok)
	be.Equal(t, basic.Name, "C")
}

func TestMissingBraceRecovery(t *testing.T) {
	p, program, err := parseProgram(t, "func a() { ret 1; func b() {}")

	be.Equal(t, len(program.Declarations), 1)
	be.Equal(t, program.Declarations[0].(*ast.FunctionDeclaration).Name, "b")

	errs := Errors(err)
	be.Equal(t, len(errs), 1)
	be.Equal(t, errs[0].Message, "expected '}' after block")
	be.Equal(t, errs[0].Lexeme, "func")
	be.Equal(t, errs[0].Line, 1)
	be.Equal(t, errs[0].Column, 19)

	_, declared := p.Symbols().Functions["b"]
	be.True(t, declared)
	_, declared = p.Symbols().Functions["a"]
	be.True(t, !declared)
}

func TestRecoveryReportsInOrder(t *testing.T) {
	var seen []string
	handler := func(pe *ParseError) { seen = append(seen, pe.Message) }

	_, program, err := parseProgram(t,
		"func (x) {} func f( {} type T { ret; } func ok() {}",
		WithErrorHandler(handler))

	want := []string{
		"expected function name",
		"expected parameter name",
		"expected function declaration in type body",
	}
	be.Equal(t, strings.Join(seen, "|"), strings.Join(want, "|"))
	be.Equal(t, strings.Join(messages(err), "|"), strings.Join(want, "|"))

	be.Equal(t, len(program.Declarations), 1)
	be.Equal(t, program.Declarations[0].(*ast.FunctionDeclaration).Name, "ok")
}

func TestErrorLocation(t *testing.T) {
	_, _, err := parseProgram(t, "\nfunc f(a int32) {}", WithFilename("main.spark"))
	errs := Errors(err)
	be.Equal(t, len(errs), 1)
	be.Equal(t, errs[0].Filename, "main.spark")
	be.Equal(t, errs[0].Error(), "main.spark:2:10: expected ':' after parameter name at 'int32'")
}

func TestErrorAtEnd(t *testing.T) {
	_, _, err := parseProgram(t, "func f(")
	be.Err(t, err, "expected parameter name at end")
}

func TestLenientTopLevel(t *testing.T) {
	program := mustParse(t, "1 + 2; ; func f() {} )")
	be.Equal(t, len(program.Declarations), 1)
}

func TestEmptyProgram(t *testing.T) {
	program := mustParse(t, "")
	be.Equal(t, len(program.Declarations), 0)
	be.Equal(t, ast.Dump(program), "(program)")
}

func TestNewRequiresEOF(t *testing.T) {
	_, err := New(nil)
	be.Err(t, err, ErrMissingEOF)

	_, err = New([]lexer.Token{{Type: lexer.TokenIdentifier, Lexeme: "x"}})
	be.Err(t, err, ErrMissingEOF)

	eof := lexer.Token{Type: lexer.TokenEOF}
	_, err = New([]lexer.Token{eof, eof})
	be.Err(t, err, ErrMissingEOF)

	_, err = New([]lexer.Token{eof})
	be.Err(t, err, nil)
}

func TestSymbolTableSealed(t *testing.T) {
	p, _, err := parseProgram(t, "func f() {}")
	be.Err(t, err, nil)
	be.True(t, p.Symbols().IsSealed())
	be.Equal(t, p.Symbols().Len(), 1)

	_, err = p.Symbols().Declare(&ast.FunctionDeclaration{Name: "g"})
	be.Err(t, err, ErrSealed)
}

func TestRedeclarationWarns(t *testing.T) {
	p, program, err := parseProgram(t, "func f() {}\nfunc f() -> int32 {}")
	be.Err(t, err, nil)
	be.Equal(t, len(program.Declarations), 2)

	be.Equal(t, p.Symbols().Functions["f"].ReturnType.String(), "int32")

	warnings := p.Warnings()
	be.Equal(t, len(warnings), 1)
	be.Equal(t, warnings[0].Pos.Line, 2)
	be.Equal(t, warnings[0].Message, "function f redeclared; the later declaration wins")
}

func TestDeclarationPosition(t *testing.T) {
	_, program, err := parseProgram(t, "\n\n  type T {}", WithFilename("t.spark"))
	be.Err(t, err, nil)
	pos := program.Declarations[0].GetPos()
	be.Equal(t, pos.Filename, "t.spark")
	be.Equal(t, pos.Line, 3)
	be.Equal(t, pos.Column, 3)
}

func TestPrefixes(t *testing.T) {
	program := mustParse(t, `
public static func f() {}
func internal g() {}
private type T {}
final type public U {}
`)
	got := make([]string, len(program.Declarations))
	for i, decl := range program.Declarations {
		got[i] = ast.Dump(decl)
	}
	be.Equal(t, got[0], "(func f (vis public) (modifiers static) (params) (returns void) (block))")
	be.Equal(t, got[1], "(func g (vis internal) (params) (returns void) (block))")
	be.Equal(t, got[2], "(type T)")
	be.Equal(t, got[3], "(type U (vis public) (modifiers final))")
}

func TestGenericTypes(t *testing.T) {
	program := mustParse(t, `
type Pair<K, V> {}
func f(m: Map<string, List<int32>>, b: Box<Box<Pair>>) -> List<Pair> {}
`)
	be.Equal(t, ast.Dump(program.Declarations[0]), "(type Pair (type-params K V))")

	fn := program.Declarations[1].(*ast.FunctionDeclaration)
	be.Equal(t, ast.DumpType(fn.ParameterTypes[0]), "(generic Map string (generic List int32))")
	be.Equal(t, ast.DumpType(fn.ParameterTypes[1]), "(generic Box (generic Box (user Pair)))")
	be.Equal(t, ast.DumpType(fn.ReturnType), "(generic List (user Pair))")
}

func TestShiftClosingTypeList(t *testing.T) {
	tests := []struct {
		src    string
		msg    string
		lexeme string
	}{
		{"func f<T>> (x: int32) {}", "expected '>' after type parameters", ">>"},
		{"func f(x: List<int32>>) {}", "expected '>' after type arguments", ">>"},
		{"func f(x: List<int32 y) {}", "expected '>' after type arguments", "y"},
	}
	for _, tt := range tests {
		_, program, err := parseProgram(t, tt.src)
		be.Equal(t, len(program.Declarations), 0)
		errs := Errors(err)
		be.Equal(t, len(errs), 1)
		be.Equal(t, errs[0].Message, tt.msg)
		be.Equal(t, errs[0].Lexeme, tt.lexeme)
	}

	// A fault inside one declaration leaves no open list behind.
	_, program, err := parseProgram(t, "type A<T>> { } func g(x: List<int32 y) {} func h(x: Box<Box<int8>>) {}")
	be.Equal(t, strings.Join(messages(err), "|"),
		"expected '>' after type parameters|expected '>' after type arguments")
	be.Equal(t, len(program.Declarations), 1)
	h := program.Declarations[0].(*ast.FunctionDeclaration)
	be.Equal(t, ast.DumpType(h.ParameterTypes[0]), "(generic Box (generic Box int8))")
}

func TestModule(t *testing.T) {
	p, program, err := parseProgram(t, `
module geo import math; import io; {
	type Point {}
	inter Shape { func area() -> float64; }
	func origin() -> Point {}
}
func make() -> Shape {}
`)
	be.Err(t, err, nil)
	be.Equal(t, ast.Dump(program.Declarations[0]),
		"(module geo (imports math io) (type Point) (inter Shape (func area (params) (returns float64)))"+
			" (func origin (params) (returns (user Point)) (block)))")
	be.Equal(t, ast.DumpType(program.Declarations[1].(*ast.FunctionDeclaration).ReturnType), "Shape")

	be.True(t, p.Symbols().IsType("Point"))
	_, ok := p.Symbols().Modules["geo"]
	be.True(t, ok)
}

func TestStatements(t *testing.T) {
	program := mustParse(t, `
func main() {
	let x: int32 = 1;
	var y = x;
	const z: string;
	if (x < 2) { ret; } else if (y) { x = 2; } else { y(); }
	while (true) { x += 1; }
	{ }
}
`)
	fn := program.Declarations[0].(*ast.FunctionDeclaration)
	be.Equal(t, ast.Dump(fn.Body),
		"(block (let x (type int32) 1) (var y x) (const z (type string))"+
			" (if (< x 2) (block (return)) (if y (block (expr (= x 2))) (block (expr (call y)))))"+
			" (while true (block (expr (+= x 1)))) (block))")
}

func parseExpr(t *testing.T, src string) (ast.Expression, error) {
	t.Helper()
	p, err := New(tokenize(t, src))
	be.Err(t, err, nil)
	return p.ParseExpression()
}

func TestExpressionPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3", "(+ 1 (* 2 3))"},
		{"(1 + 2) * 3", "(* (group (+ 1 2)) 3)"},
		{"a - b - c", "(- (- a b) c)"},
		{"a / b % c", "(% (/ a b) c)"},
		{"a = b = c", "(= a (= b c))"},
		{"x += y -= 1", "(+= x (-= y 1))"},
		{"a || b && c", "(|| a (&& b c))"},
		{"a && b || c", "(|| (&& a b) c)"},
		{"a | b ^ c & d", "(| a (^ b (& c d)))"},
		{"a == b < c", "(== a (< b c))"},
		{"a < b << c + d", "(< a (<< b (+ c d)))"},
		{"a >> 1 != 0", "(!= (>> a 1) 0)"},
		{"-a * b", "(* (- a) b)"},
		{"!f(x)", "(! (call f x))"},
		{"~~a", "(~ (~ a))"},
		{"f(1)(2)", "(call (call f 1) 2)"},
		{"f()", "(call f)"},
		{"f(a, b + 1, g(c))", "(call f a (+ b 1) (call g c))"},
		{"this", "this"},
		{`"hi"`, `"hi"`},
		{"'c'", "'c'"},
		{"true", "true"},
		{"null", "null"},
		{"2.5f32", "2.5f32"},
		{"3i8 + 4", "(+ 3i8 4)"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr, err := parseExpr(t, tt.input)
			be.Err(t, err, nil)
			be.Equal(t, ast.Dump(expr), tt.want)
		})
	}
}

func TestExpressionErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "expected expression at end"},
		{"1 +", "expected expression"},
		{"f(1", "expected ')' after arguments"},
		{"(1", "expected ')' after expression"},
		{"1 = 2", "invalid assignment target at '='"},
		{"f() = 2", "invalid assignment target"},
		{"1 2", "expected end of expression at '2'"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := parseExpr(t, tt.input)
			be.Err(t, err, tt.want)
		})
	}
}

func TestBinaryPositionIsLeftOperand(t *testing.T) {
	expr, err := parseExpr(t, "  a +\n b")
	be.Err(t, err, nil)
	pos := expr.GetPos()
	be.Equal(t, pos.Line, 1)
	be.Equal(t, pos.Column, 3)
}
