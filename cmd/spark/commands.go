package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spark-lang/spark/internal/ast"
	"github.com/spark-lang/spark/internal/diagnostic"
	"github.com/spark-lang/spark/internal/driver"
	"github.com/spark-lang/spark/internal/lexer"
)

// lex prints every token of each file. A lexical fault stops that file
// after the tokens read so far.
func (a *app) lex(files []string) error {
	if err := requireFiles("lex", files); err != nil {
		return err
	}
	units, err := a.driver().CompileAll(context.Background(), files, driver.StageLex)
	if err != nil {
		return err
	}

	format := diagnostic.FormatToken
	if a.cfg.Verbose {
		format = diagnostic.FormatTokenVerbose
	}

	failed := false
	for _, u := range units {
		if len(units) > 1 {
			fmt.Fprintf(a.stdout, "== %s ==\n", u.Path)
		}
		for _, tok := range u.Tokens {
			fmt.Fprintln(a.stdout, format(tok))
		}
		if u.Failed() {
			failed = true
			a.report(u)
		}
		a.log.Info("%s: %d tokens", u.Path, len(u.Tokens))
	}
	if failed {
		return errFailed
	}
	return nil
}

// parse prints the tree of each file, as an s-expression or as source text.
func (a *app) parse(files []string) error {
	if err := requireFiles("parse", files); err != nil {
		return err
	}
	units, err := a.driver().CompileAll(context.Background(), files, driver.StageParse)
	if err != nil {
		return err
	}

	failed := false
	for _, u := range units {
		if u.Program != nil {
			if a.source {
				fmt.Fprintln(a.stdout, u.Program.String())
			} else {
				fmt.Fprintln(a.stdout, ast.Dump(u.Program))
			}
		}
		if u.Failed() {
			failed = true
			a.report(u)
		}
	}
	if failed {
		return errFailed
	}
	return nil
}

// check reports faults and warnings without printing trees.
func (a *app) check(files []string) error {
	if err := requireFiles("check", files); err != nil {
		return err
	}
	return a.checkFiles(a.driver(), files)
}

func (a *app) checkFiles(d *driver.Driver, files []string) error {
	units, err := d.CompileAll(context.Background(), files, driver.StageParse)
	if err != nil {
		return err
	}

	engine := diagnostic.NewDiagnosticEngine(diagnostic.DiagnosticConfig{
		MaxErrors:        a.cfg.MaxErrors,
		WarningsAsErrors: a.cfg.Strict,
	})
	for _, u := range units {
		a.collect(engine, u)
		if !u.Failed() {
			a.log.Info("%s: %d declarations", u.Path, countDeclarations(u.Program))
		}
	}

	if err := a.renderer(units...).RenderAll(engine); err != nil {
		return err
	}
	if engine.HasErrors() {
		return errFailed
	}
	fmt.Fprintf(a.stdout, "%d file(s) ok\n", len(units))
	return nil
}

// countDeclarations counts every declaration in the tree, methods and
// module members included.
func countDeclarations(program *ast.Program) int {
	n := 0
	ast.Inspect(program, func(node ast.Node) bool {
		if _, ok := node.(ast.Declaration); ok {
			n++
		}
		return true
	})
	return n
}

// collect adds the faults and warnings of u to engine.
func (a *app) collect(engine *diagnostic.DiagnosticEngine, u *driver.Unit) {
	for _, err := range engine.AddError(u.Err) {
		a.log.Error("%s: %v", u.Path, err)
	}
	for _, w := range u.Warnings {
		engine.AddDiagnostic(diagnostic.FromWarning(w))
	}
}

// report renders the faults of a single unit.
func (a *app) report(u *driver.Unit) {
	engine := diagnostic.NewDiagnosticEngine(diagnostic.DiagnosticConfig{})
	for _, err := range engine.AddError(u.Err) {
		a.log.Error("%s: %v", u.Path, err)
	}
	if err := a.renderer(u).RenderAll(engine); err != nil {
		a.log.Error("%v", err)
	}
}

// watch checks the files once, then again each time one of them changes,
// until interrupted.
func (a *app) watch(files []string) error {
	if err := requireFiles("watch", files); err != nil {
		return err
	}

	// The watcher reports absolute paths; map them back to the names the
	// user gave, which are the loader's cache keys.
	names := make(map[string]string, len(files))
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		names[abs] = f
	}

	d := a.driver()
	if err := a.checkFiles(d, files); err != nil && !errors.Is(err, errFailed) {
		return err
	}

	w, err := driver.NewWatcher(files)
	if err != nil {
		return err
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.log.Info("watching %d file(s)", len(files))
	err = w.Run(ctx, func(changed []string) {
		paths := make([]string, 0, len(changed))
		for _, abs := range changed {
			path := names[abs]
			d.Loader.Invalidate(path)
			paths = append(paths, path)
		}
		a.log.Info("changed: %v", paths)
		if err := a.checkFiles(d, paths); err != nil && !errors.Is(err, errFailed) {
			a.log.Error("%v", err)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// lexLine tokenizes one REPL input. Tokens read before a fault are kept.
func lexLine(line string) ([]lexer.Token, error) {
	return lexer.New(line, lexer.WithFilename("<repl>")).Tokenize()
}
