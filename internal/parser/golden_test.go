package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/spark-lang/spark/internal/ast"
	"github.com/spark-lang/spark/internal/lexer"
	"github.com/spark-lang/spark/internal/sexpr"
)

// TestGolden runs every "Test:" section of the Markdown files in testdata.
func TestGolden(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.md"))
	be.Err(t, err, nil)
	be.True(t, len(files) > 0)

	for _, file := range files {
		content, err := os.ReadFile(file)
		be.Err(t, err, nil)

		cases, err := sexpr.ExtractTestCases(string(content))
		if err != nil {
			t.Fatalf("%s: %v", file, err)
		}

		base := strings.TrimSuffix(filepath.Base(file), ".md")
		for _, tc := range cases {
			t.Run(base+"/"+tc.Name, func(t *testing.T) {
				runGoldenCase(t, tc)
			})
		}
	}
}

func runGoldenCase(t *testing.T, tc sexpr.TestCase) {
	tokens, err := lexer.New(tc.Input).Tokenize()
	if err != nil {
		t.Fatalf("lex: %v", err)
	}
	p, err := New(tokens)
	be.Err(t, err, nil)

	var tree ast.Node
	var parseErr error
	switch tc.InputType {
	case sexpr.InputProgram:
		tree, parseErr = p.ParseProgram()
	case sexpr.InputExpression:
		var expr ast.Expression
		if expr, parseErr = p.ParseExpression(); expr != nil {
			tree = expr
		}
	}

	expectErrors := false
	for _, a := range tc.Assertions {
		switch a.Type {
		case sexpr.AssertAST:
			if tree == nil {
				t.Fatalf("line %d: no tree to match: %v", a.Line, parseErr)
			}
			actual, err := sexpr.Parse(ast.Dump(tree))
			if err != nil {
				t.Fatalf("dump is not an s-expression: %v\n%s", err, ast.Dump(tree))
			}
			if err := sexpr.Match(a.Pattern, actual); err != nil {
				t.Errorf("line %d: %v\nactual: %s", a.Line, err, actual)
			}

		case sexpr.AssertErrors:
			expectErrors = true
			want := a.Lines()
			got := Errors(parseErr)
			if len(got) != len(want) {
				t.Fatalf("line %d: got %d errors, want %d: %v", a.Line, len(got), len(want), parseErr)
			}
			for i := range want {
				if !strings.Contains(got[i].Error(), want[i]) {
					t.Errorf("line %d: error %d = %q, want it to contain %q", a.Line, i, got[i].Error(), want[i])
				}
			}
		}
	}
	if !expectErrors && parseErr != nil {
		t.Errorf("unexpected errors: %v", parseErr)
	}
}
