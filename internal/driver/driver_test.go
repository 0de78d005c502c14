package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nalgeon/be"
	"github.com/spark-lang/spark/internal/lexer"
	"github.com/spark-lang/spark/internal/parser"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	be.Err(t, os.WriteFile(path, []byte(content), 0644), nil)
	return path
}

func TestLoaderCaches(t *testing.T) {
	var reads atomic.Int32
	l := NewLoader()
	l.readFile = func(path string) ([]byte, error) {
		reads.Add(1)
		time.Sleep(10 * time.Millisecond)
		return []byte("func " + path + "() {}"), nil
	}

	srcs := make([]string, 8)
	var wg sync.WaitGroup
	for i := range srcs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			srcs[i], _ = l.Load("f")
		}()
	}
	wg.Wait()
	for _, src := range srcs {
		be.Equal(t, src, "func f() {}")
	}
	be.Equal(t, reads.Load(), int32(1))

	l.Invalidate("f")
	_, err := l.Load("f")
	be.Err(t, err, nil)
	be.Equal(t, reads.Load(), int32(2))
}

func TestLoaderMissingFile(t *testing.T) {
	_, err := NewLoader().Load(filepath.Join(t.TempDir(), "nope.spark"))
	be.Err(t, err, os.ErrNotExist)
	be.Err(t, err, "could not open file")
}

func TestLexAndParse(t *testing.T) {
	u := &Unit{Path: "a.spark", Source: "func f() { ret 1 }"}
	be.Err(t, Lex(u, Options{}), nil)
	be.Equal(t, u.Tokens[len(u.Tokens)-1].Type, lexer.TokenEOF)

	var seen []string
	err := Parse(u, Options{OnParseError: func(pe *parser.ParseError) { seen = append(seen, pe.Message) }})
	be.Err(t, err, "expected ';' after return value")
	be.True(t, u.Failed())
	be.Equal(t, len(seen), 1)
	be.True(t, u.Program != nil)
	be.True(t, u.Symbols.IsSealed())
}

func TestLexFault(t *testing.T) {
	u := &Unit{Path: "bad.spark", Source: `let s = "open`}
	err := Lex(u, Options{})
	be.Err(t, err, &lexer.LexicalError{Kind: lexer.ErrUnterminatedString})
	be.Err(t, u.Err, err)
}

func TestTabWidth(t *testing.T) {
	u := &Unit{Source: "\tx"}
	be.Err(t, Lex(u, Options{TabWidth: 4}), nil)
	be.Equal(t, u.Tokens[0].Column, 5)
}

func TestCompileAllKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "a.spark", "func a() {}"),
		writeFile(t, dir, "b.spark", "func b( {}"),
		writeFile(t, dir, "c.spark", `let s = "open`),
		writeFile(t, dir, "d.spark", "type D {} func d() -> D {}"),
	}

	d := New(Options{}, 2)
	units, err := d.CompileAll(context.Background(), paths, StageParse)
	be.Err(t, err, nil)
	be.Equal(t, len(units), 4)
	for i, u := range units {
		be.Equal(t, u.Path, paths[i])
	}

	be.Err(t, units[0].Err, nil)
	be.Err(t, units[1].Err, "expected parameter name")
	be.Err(t, units[2].Err, &lexer.LexicalError{Kind: lexer.ErrUnterminatedString})
	be.True(t, units[2].Program == nil)
	be.Equal(t, len(units[3].Program.Declarations), 2)
}

func TestCompileLexStage(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.spark", "func a() {")
	u, err := New(Options{}, 1).Compile(context.Background(), path, StageLex)
	be.Err(t, err, nil)
	be.Err(t, u.Err, nil)
	be.True(t, u.Program == nil)
	be.Equal(t, len(u.Tokens), 6)
}

func TestCompileAllIOError(t *testing.T) {
	dir := t.TempDir()
	paths := []string{writeFile(t, dir, "a.spark", ""), filepath.Join(dir, "missing.spark")}
	_, err := New(Options{}, 4).CompileAll(context.Background(), paths, StageParse)
	be.Err(t, err, os.ErrNotExist)
	be.Err(t, err, "missing.spark")
}

func TestRunLimitsConcurrency(t *testing.T) {
	var running, peak atomic.Int32
	paths := make([]string, 10)
	for i := range paths {
		paths[i] = string(rune('a' + i))
	}

	units, err := Run(context.Background(), paths, 3, func(ctx context.Context, path string) (*Unit, error) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		running.Add(-1)
		return &Unit{Path: path}, nil
	})
	be.Err(t, err, nil)
	be.True(t, peak.Load() <= 3)
	be.Equal(t, units[9].Path, "j")
}

func TestRunRejectsZeroWorkers(t *testing.T) {
	_, err := Run(context.Background(), nil, 0, nil)
	be.Err(t, err, "workers must be at least 1")
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(Options{}, 1).CompileAll(ctx, []string{"x.spark"}, StageLex)
	be.Err(t, err, context.Canceled)
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	watched := writeFile(t, dir, "a.spark", "func a() {}")
	writeFile(t, dir, "other.txt", "")

	w, err := NewWatcher([]string{watched})
	be.Err(t, err, nil)
	defer w.Close()
	w.Debounce = 20 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	changes := make(chan []string, 1)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(paths []string) {
			changes <- paths
			cancel()
		})
	}()

	// Give the watcher a moment before writing.
	time.Sleep(50 * time.Millisecond)
	writeFile(t, dir, "other.txt", "ignored")
	writeFile(t, dir, "a.spark", "func a() { ret; }")

	select {
	case paths := <-changes:
		abs, _ := filepath.Abs(watched)
		be.Equal(t, len(paths), 1)
		be.Equal(t, paths[0], abs)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
	be.True(t, errors.Is(<-done, context.Canceled))
}
