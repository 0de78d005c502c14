package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/spark-lang/spark/internal/ast"
	"github.com/spark-lang/spark/internal/cli"
	"github.com/spark-lang/spark/internal/diagnostic"
	"github.com/spark-lang/spark/internal/lexer"
	"github.com/spark-lang/spark/internal/parser"
)

const (
	historyFile = ".spark_history"
	prompt      = "spark> "
)

var replCommands = []string{":help", ":quit", ":tokens"}

var replHelp = `REPL commands:
  :tokens   Toggle printing of tokens
  :help     Show this help
  :quit     Exit the REPL
Enter a declaration (func, type, inter, module) or an expression.`

func (a *app) repl(_ []string) error {
	fmt.Fprintf(a.stdout, "Spark %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :help for commands.\n", cli.Version)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(complete)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}
	defer func() {
		if histPath == "" {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		line, err := ln.Prompt(prompt)
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			continue
		case errors.Is(err, io.EOF):
			fmt.Fprintln(a.stdout)
			return nil
		case err != nil:
			return err
		}

		switch strings.TrimSpace(line) {
		case "":
			continue
		case ":quit", ":q":
			return nil
		case ":help", ":h":
			fmt.Fprintln(a.stdout, replHelp)
			continue
		case ":tokens":
			a.tokens = !a.tokens
			state := "off"
			if a.tokens {
				state = "on"
			}
			fmt.Fprintf(a.stdout, "tokens %s\n", state)
			continue
		}

		ln.AppendHistory(line)
		a.evalLine(line)
	}
}

// evalLine lexes and parses one line of input. A line starting with a
// declaration is parsed as a program, anything else as an expression with
// an optional trailing ';'.
func (a *app) evalLine(line string) {
	tokens, err := lexLine(line)
	if a.tokens {
		for _, tok := range tokens {
			fmt.Fprintln(a.stdout, diagnostic.FormatToken(tok))
		}
	}
	if err != nil {
		a.printFaults(line, err)
		return
	}

	if n := len(tokens); n >= 2 && tokens[n-2].Type == lexer.TokenSemicolon && !startsDeclaration(tokens) {
		tokens = append(tokens[:n-2], tokens[n-1])
	}
	p, err := parser.New(tokens, parser.WithFilename("<repl>"))
	if err != nil {
		a.printFaults(line, err)
		return
	}

	var tree ast.Node
	if startsDeclaration(tokens) {
		var program *ast.Program
		program, err = p.ParseProgram()
		tree = program
	} else {
		var expr ast.Expression
		if expr, err = p.ParseExpression(); expr != nil {
			tree = expr
		}
	}
	if tree != nil {
		fmt.Fprintln(a.stdout, ast.Dump(tree))
	}
	if err != nil {
		a.printFaults(line, err)
	}
}

// complete offers keywords, or REPL commands at the start of the line, that
// extend the word before the cursor.
func complete(line string) []string {
	i := strings.LastIndexAny(line, " \t(){}[],;:<>") + 1
	if i == 1 && line[0] == ':' {
		i = 0
	}
	head, word := line[:i], line[i:]
	if word == "" {
		return nil
	}

	candidates := lexer.Keywords()
	if head == "" && strings.HasPrefix(word, ":") {
		candidates = replCommands
	}
	var out []string
	for _, c := range candidates {
		if strings.HasPrefix(c, word) {
			out = append(out, head+c)
		}
	}
	return out
}

func startsDeclaration(tokens []lexer.Token) bool {
	for _, tok := range tokens {
		switch {
		case tok.Type.IsDeclarationStart():
			return true
		case lexer.Categorize(tok.Type) != lexer.CategoryModifier:
			return false
		}
	}
	return false
}

func (a *app) printFaults(line string, err error) {
	engine := diagnostic.NewDiagnosticEngine(diagnostic.DiagnosticConfig{})
	for _, other := range engine.AddError(err) {
		fmt.Fprintf(a.stderr, "Error: %v\n", other)
	}
	r := diagnostic.NewRenderer(a.stderr, a.color)
	r.AddSource("<repl>", line)
	_ = r.RenderAll(engine)
}
