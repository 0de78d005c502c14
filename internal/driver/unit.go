// Package driver runs the lexer and parser over source files. Each file gets
// its own lexer and parser; several files may be processed in parallel.
package driver

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/spark-lang/spark/internal/ast"
	"github.com/spark-lang/spark/internal/lexer"
	"github.com/spark-lang/spark/internal/parser"
)

// Stage selects how far a unit is processed.
type Stage int

const (
	StageLex Stage = iota
	StageParse
)

// Unit is one source file and everything derived from it.
type Unit struct {
	Path   string
	Source string
	Tokens []lexer.Token

	Program  *ast.Program
	Symbols  *parser.SymbolTable
	Warnings []parser.Warning

	// Err holds the lexical fault, or the joined parse faults. It is nil
	// for a clean file.
	Err error
}

// Failed reports whether the unit has lexical or parse faults.
func (u *Unit) Failed() bool { return u.Err != nil }

// Options configure lexing and parsing.
type Options struct {
	TabWidth int
	// OnParseError observes each recovered parse fault as it happens.
	OnParseError func(*parser.ParseError)
}

// Lex tokenizes the unit's source. A lexical fault stops the unit: it is
// stored in u.Err and returned.
func Lex(u *Unit, opts Options) error {
	lexOpts := []lexer.Option{lexer.WithFilename(u.Path)}
	if opts.TabWidth > 0 {
		lexOpts = append(lexOpts, lexer.WithTabWidth(opts.TabWidth))
	}
	u.Tokens, u.Err = lexer.New(u.Source, lexOpts...).Tokenize()
	return u.Err
}

// Parse runs both parser passes over the unit's tokens.
func Parse(u *Unit, opts Options) error {
	parserOpts := []parser.Option{parser.WithFilename(u.Path)}
	if opts.OnParseError != nil {
		parserOpts = append(parserOpts, parser.WithErrorHandler(opts.OnParseError))
	}
	p, err := parser.New(u.Tokens, parserOpts...)
	if err != nil {
		u.Err = err
		return err
	}
	u.Program, u.Err = p.ParseProgram()
	u.Symbols = p.Symbols()
	u.Warnings = p.Warnings()
	return u.Err
}

// Driver loads files and runs them to a stage.
type Driver struct {
	Loader  *Loader
	Options Options
	Workers int
}

func New(opts Options, workers int) *Driver {
	if workers < 1 {
		workers = 1
	}
	return &Driver{Loader: NewLoader(), Options: opts, Workers: workers}
}

// Compile loads path and processes it up to stage. The returned error is
// reserved for I/O failures; lexical and parse faults are kept in Unit.Err.
func (d *Driver) Compile(ctx context.Context, path string, stage Stage) (*Unit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src, err := d.Loader.Load(path)
	if err != nil {
		return nil, err
	}

	u := &Unit{Path: path, Source: src}
	if Lex(u, d.Options) != nil || stage == StageLex {
		return u, nil
	}
	_ = Parse(u, d.Options)
	return u, nil
}

// CompileAll compiles every path with at most d.Workers files in flight.
func (d *Driver) CompileAll(ctx context.Context, paths []string, stage Stage) ([]*Unit, error) {
	return Run(ctx, paths, d.Workers, func(ctx context.Context, path string) (*Unit, error) {
		return d.Compile(ctx, path, stage)
	})
}

// Run calls fn for each path on a bounded errgroup and returns the units in
// input order. The first error cancels the remaining calls.
func Run(ctx context.Context, paths []string, workers int, fn func(context.Context, string) (*Unit, error)) ([]*Unit, error) {
	if workers < 1 {
		return nil, errors.New("driver: workers must be at least 1")
	}

	units := make([]*Unit, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		g.Go(func() error {
			u, err := fn(gctx, path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			units[i] = u
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return units, nil
}
