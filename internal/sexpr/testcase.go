package sexpr

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// InputType is the language tag of a test's source fence.
type InputType string

const (
	InputProgram    InputType = "spark"
	InputExpression InputType = "spark-expr"
)

// AssertionType is the language tag of a fence checked against the input.
type AssertionType string

const (
	// AssertAST holds a pattern matched against the dumped tree.
	AssertAST AssertionType = "ast"
	// AssertErrors holds one expected error message per line. Each line must
	// be a substring of the error reported at the same index.
	AssertErrors AssertionType = "errors"
)

type Assertion struct {
	Type    AssertionType
	Content string
	Pattern *Node // AssertAST only
	Line    int
}

// Lines returns the non-blank lines of an errors assertion.
func (a Assertion) Lines() []string {
	var lines []string
	for _, line := range strings.Split(a.Content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// TestCase is one "Test: NAME" section of a golden document.
type TestCase struct {
	Name       string
	Input      string
	InputType  InputType
	Assertions []Assertion
	Line       int
}

// ExtractTestCases walks a Markdown document and collects every test case.
// A test starts at a heading of the form "Test: NAME" and owns the fenced
// code blocks up to the next such heading. Fences without a language tag are
// ignored; any other unknown tag is an error.
func ExtractTestCases(markdown string) ([]TestCase, error) {
	source := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var cases []TestCase
	var current *TestCase

	flush := func() error {
		if current == nil {
			return nil
		}
		if err := current.validate(); err != nil {
			return err
		}
		cases = append(cases, *current)
		return nil
	}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			heading := headingText(n, source)
			if !strings.HasPrefix(heading, "Test: ") {
				return ast.WalkContinue, nil
			}
			if err := flush(); err != nil {
				return ast.WalkStop, err
			}
			current = &TestCase{
				Name: strings.TrimSpace(strings.TrimPrefix(heading, "Test: ")),
				Line: lineOf(n, source),
			}
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock:
			lang := string(n.Language(source))
			line := lineOf(n, source)
			if lang == "" {
				return ast.WalkContinue, nil
			}
			if current == nil {
				return ast.WalkStop, fmt.Errorf("line %d: %s fence found outside of test case", line, lang)
			}
			content := strings.TrimRight(fenceContent(n, source), "\n")

			switch {
			case lang == string(InputProgram) || lang == string(InputExpression):
				if current.InputType != "" {
					return ast.WalkStop, fmt.Errorf("line %d: multiple input fences in test '%s'", line, current.Name)
				}
				current.Input = content
				current.InputType = InputType(lang)

			case lang == string(AssertAST):
				pattern, err := Parse(content)
				if err != nil {
					return ast.WalkStop, fmt.Errorf("line %d: bad ast pattern in test '%s': %w", line, current.Name, err)
				}
				current.Assertions = append(current.Assertions, Assertion{Type: AssertAST, Content: content, Pattern: pattern, Line: line})

			case lang == string(AssertErrors):
				current.Assertions = append(current.Assertions, Assertion{Type: AssertErrors, Content: content, Line: line})

			default:
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence language '%s' in test '%s'", line, lang, current.Name)
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return cases, nil
}

func (tc *TestCase) validate() error {
	if tc.InputType == "" {
		return fmt.Errorf("line %d: test '%s' has no input fence", tc.Line, tc.Name)
	}
	if len(tc.Assertions) == 0 {
		return fmt.Errorf("line %d: test '%s' has no assertion fences", tc.Line, tc.Name)
	}
	return nil
}

func headingText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func fenceContent(block *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.String()
}

// lineOf reports the 1-based line of the node's first content line.
func lineOf(node ast.Node, source []byte) int {
	if node.Lines().Len() == 0 {
		return 0
	}
	return bytes.Count(source[:node.Lines().At(0).Start], []byte("\n")) + 1
}
