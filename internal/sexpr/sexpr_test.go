package sexpr

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestParseSymbol(t *testing.T) {
	for _, input := range []string{"x", "add", "+", "<=", "3i8", "2.5f32", "'c'", "int32"} {
		node, err := Parse(input)
		be.Err(t, err, nil)
		be.Equal(t, node.Type, NodeSymbol)
		be.Equal(t, node.Text, input)
		be.Equal(t, node.String(), input)
	}
}

func TestParseString(t *testing.T) {
	tests := []struct {
		input string
		value string
	}{
		{`"hello"`, "hello"},
		{`""`, ""},
		{`"a\"b"`, `a"b`},
		{`"tab\there"`, "tab\there"},
		{`"back\\slash"`, `back\slash`},
	}
	for _, tt := range tests {
		node, err := Parse(tt.input)
		be.Err(t, err, nil)
		be.Equal(t, node.Type, NodeString)
		be.Equal(t, node.Text, tt.value)
		be.Equal(t, node.String(), tt.input)
	}
}

func TestParseList(t *testing.T) {
	node, err := Parse(`(func add
	    (params (a int32) (b int32)) ; trailing comment
	    (returns int32))`)
	be.Err(t, err, nil)
	be.Equal(t, node.Type, NodeList)
	be.Equal(t, len(node.Items), 4)
	be.Equal(t, node.String(), "(func add (params (a int32) (b int32)) (returns int32))")

	empty, err := Parse("()")
	be.Err(t, err, nil)
	be.Equal(t, len(empty.Items), 0)
	be.Equal(t, empty.String(), "()")
}

func TestParseEllipsis(t *testing.T) {
	node, err := Parse("(a ...)")
	be.Err(t, err, nil)
	be.Equal(t, node.Items[1].Type, NodeEllipsis)
	be.Equal(t, node.String(), "(a ...)")
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "unexpected end of input"},
		{"(a b", "unterminated list"},
		{")", "unexpected ')'"},
		{`"abc`, "unterminated string"},
		{"a b", "expected end of input"},
		{"(a) (b)", "expected end of input"},
	}
	for _, tt := range tests {
		_, err := Parse(tt.input)
		be.Err(t, err, tt.want)
	}
}

func TestCanonical(t *testing.T) {
	got, err := Canonical("(program\n  (func main\n    (params)))")
	be.Err(t, err, nil)
	be.Equal(t, got, "(program (func main (params)))")
}

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern string
		actual  string
		ok      bool
	}{
		{"(+ 1 2)", "(+ 1 2)", true},
		{"(+ 1 _)", "(+ 1 (* 2 3))", true},
		{"(program (func main ...))", "(program (func main (params) (returns void)))", true},
		{"(a ...)", "(a)", true},
		{"(+ 1 2)", "(+ 1 3)", false},
		{"(+ 1)", "(+ 1 2)", false},
		{"(+ 1 2 3)", "(+ 1 2)", false},
		{`"x"`, "x", false},
		{"(a ... b)", "(a c b)", false},
	}
	for _, tt := range tests {
		pattern, err := Parse(tt.pattern)
		be.Err(t, err, nil)
		actual, err := Parse(tt.actual)
		be.Err(t, err, nil)

		err = Match(pattern, actual)
		be.Equal(t, err == nil, tt.ok)
	}
}

func TestMatchReportsPath(t *testing.T) {
	pattern, _ := Parse("(program (func main (params) (returns int32)))")
	actual, _ := Parse("(program (func main (params) (returns void)))")
	be.Err(t, Match(pattern, actual), "at root[1][3][1]")
}
