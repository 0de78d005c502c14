package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/spark-lang/spark/internal/cli"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func spark(t *testing.T, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	// Keep a stray spark.json in the working directory out of the tests.
	if len(args) > 0 && fileCommands[args[0]].run != nil && !hasFlag(args, "-config") {
		args = append([]string{args[0], "-config", filepath.Join(t.TempDir(), "none.json")}, args[1:]...)
	}
	code := run(args, &stdout, &stderr)
	return result{code, stdout.String(), stderr.String()}
}

func hasFlag(args []string, name string) bool {
	for _, a := range args {
		if a == name {
			return true
		}
	}
	return false
}

func source(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	be.Err(t, os.WriteFile(path, []byte(content), 0644), nil)
	return path
}

func TestUsage(t *testing.T) {
	r := spark(t)
	be.Equal(t, r.code, exitUsage)
	be.True(t, strings.Contains(r.stderr, "COMMANDS:"))

	r = spark(t, "frobnicate")
	be.Equal(t, r.code, exitUsage)
	be.True(t, strings.Contains(r.stderr, `unknown command "frobnicate"`))
}

func TestHelp(t *testing.T) {
	r := spark(t, "help")
	be.Equal(t, r.code, exitOK)
	be.True(t, strings.Contains(r.stdout, "check"))
	be.True(t, strings.Contains(r.stdout, "--tab-width"))

	r = spark(t, "help", "check")
	be.Equal(t, r.code, exitOK)
	be.True(t, strings.Contains(r.stdout, "--strict"))

	r = spark(t, "help", "nope")
	be.Equal(t, r.code, exitUsage)
}

func TestVersion(t *testing.T) {
	r := spark(t, "version")
	be.Equal(t, r.code, exitOK)
	be.True(t, strings.HasPrefix(r.stdout, "Spark Language Toolchain v"+cli.Version))

	r = spark(t, "version", "--json")
	be.Equal(t, r.code, exitOK)
	var out map[string]any
	be.Err(t, json.Unmarshal([]byte(r.stdout), &out), nil)
	be.Equal(t, out["tool"], any("spark"))
}

func TestNotImplemented(t *testing.T) {
	for _, cmd := range []string{"run", "format"} {
		r := spark(t, cmd, "main.spark")
		be.Equal(t, r.code, exitFailure)
		be.True(t, strings.Contains(r.stderr, "not implemented"))
	}
}

func TestMissingFiles(t *testing.T) {
	for _, cmd := range []string{"lex", "parse", "check", "watch"} {
		r := spark(t, cmd)
		be.Equal(t, r.code, exitUsage)
		be.True(t, strings.Contains(r.stderr, "insufficient arguments"))
		be.True(t, strings.Contains(r.stderr, "Usage: spark "+cmd+" [OPTIONS] <files>"))
	}
}

func TestBadFlags(t *testing.T) {
	path := source(t, "a.spark", "")
	be.Equal(t, spark(t, "lex", "-nope", path).code, exitUsage)
	be.Equal(t, spark(t, "lex", "-color", "purple", path).code, exitUsage)
	be.Equal(t, spark(t, "lex", "-workers", "0", path).code, exitUsage)
	be.Equal(t, spark(t, "lex", "-h").code, exitOK)
}

func TestLex(t *testing.T) {
	path := source(t, "a.spark", "x = 3i8;")
	r := spark(t, "lex", path)
	be.Equal(t, r.code, exitOK)
	be.Equal(t, r.stdout, strings.Join([]string{
		`[1:1] Type: IDENTIFIER | Lexeme: "x"`,
		`[1:3] Type: EQUAL | Lexeme: "="`,
		`[1:5] Type: INT8_LITERAL | Lexeme: "3i8" | Literal: 3`,
		`[1:8] Type: SEMICOLON | Lexeme: ";"`,
		`[1:9] Type: END_OF_FILE | Lexeme: ""`,
		"",
	}, "\n"))
}

func TestLexFault(t *testing.T) {
	path := source(t, "a.spark", "x \"open")
	r := spark(t, "lex", "-color", "never", path)
	be.Equal(t, r.code, exitFailure)
	be.True(t, strings.Contains(r.stdout, `Lexeme: "x"`))
	be.True(t, strings.Contains(r.stderr, "error[E1003]: unterminated string literal"))
	be.True(t, strings.Contains(r.stderr, "   1 | x \"open"))
}

func TestLexSeveralFiles(t *testing.T) {
	a := source(t, "a.spark", "a")
	b := source(t, "b.spark", "b")
	r := spark(t, "lex", a, b)
	be.Equal(t, r.code, exitOK)
	be.True(t, strings.Index(r.stdout, "== "+a+" ==") < strings.Index(r.stdout, "== "+b+" =="))
}

func TestParse(t *testing.T) {
	path := source(t, "a.spark", "func add(a: int32, b: int32) -> int32 { ret a + b; }")
	r := spark(t, "parse", path)
	be.Equal(t, r.code, exitOK)
	be.Equal(t, r.stdout,
		"(program (func add (params (a int32) (b int32)) (returns int32) (block (return (+ a b)))))\n")

	r = spark(t, "parse", "-source", path)
	be.Equal(t, r.code, exitOK)
	be.Equal(t, r.stdout, "func add(a: int32, b: int32) -> int32 { ret (a + b); }\n")
}

func TestParseFault(t *testing.T) {
	path := source(t, "a.spark", "func a() {\n    ret 1;\nfunc b() {}\n")
	r := spark(t, "parse", path)
	be.Equal(t, r.code, exitFailure)
	be.True(t, strings.Contains(r.stdout, "(program (func b"))
	be.True(t, strings.Contains(r.stderr, path+":3:1: error[E2001]: expected '}' after block at 'func'"))
	be.True(t, strings.Contains(r.stderr, "1 error(s)"))
}

func TestCheck(t *testing.T) {
	ok := source(t, "ok.spark", "type A { func f() -> B {} } type B {}")
	r := spark(t, "check", ok)
	be.Equal(t, r.code, exitOK)
	be.Equal(t, r.stdout, "1 file(s) ok\n")

	bad := source(t, "bad.spark", "func (x) {}")
	r = spark(t, "check", ok, bad)
	be.Equal(t, r.code, exitFailure)
	be.True(t, strings.Contains(r.stderr, "expected function name at '('"))
}

func TestCheckIOError(t *testing.T) {
	r := spark(t, "check", filepath.Join(t.TempDir(), "missing.spark"))
	be.Equal(t, r.code, exitFailure)
	be.True(t, strings.Contains(r.stderr, "Error: "))
	be.True(t, strings.Contains(r.stderr, "could not open file"))
}

func TestCheckStrict(t *testing.T) {
	dup := source(t, "dup.spark", "func f() {}\nfunc f() {}")

	r := spark(t, "check", dup)
	be.Equal(t, r.code, exitOK)
	be.True(t, strings.Contains(r.stderr, "warning[W3001]: function f redeclared"))

	r = spark(t, "check", "-strict", dup)
	be.Equal(t, r.code, exitFailure)
	be.True(t, strings.Contains(r.stderr, "error[W3001]"))

	cfg := source(t, "spark.json", `{"strict": true}`)
	r = spark(t, "check", "-config", cfg, dup)
	be.Equal(t, r.code, exitFailure)

	r = spark(t, "check", "-config", cfg, "-strict=false", dup)
	be.Equal(t, r.code, exitOK)
}

func TestCheckMaxErrors(t *testing.T) {
	bad := source(t, "bad.spark", "func (a) {}\nfunc (b) {}\nfunc (c) {}\n")

	r := spark(t, "check", "-color", "never", bad)
	be.Equal(t, r.code, exitFailure)
	be.True(t, strings.Contains(r.stderr, "3 error(s)"))

	r = spark(t, "check", "-color", "never", "-max-errors", "2", bad)
	be.Equal(t, r.code, exitFailure)
	be.True(t, strings.Contains(r.stderr, "error[E0001]: stopping after 2 errors"))
	be.True(t, !strings.Contains(r.stderr, bad+":3:"))

	be.Equal(t, spark(t, "check", "-max-errors", "-1", bad).code, exitUsage)
}

func TestCheckTabWidth(t *testing.T) {
	path := source(t, "tabs.spark", "func f() {\n\tret (;\n}\n")
	r := spark(t, "check", "-color", "never", "-tab-width", "4", path)
	be.Equal(t, r.code, exitFailure)
	be.True(t, strings.Contains(r.stderr, path+":2:10: error[E2001]: expected expression at ';'"))
	be.True(t, strings.Contains(r.stderr, "     | \t     ^\n"))
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spark.json")
	r := spark(t, "init", "-config", path)
	be.Equal(t, r.code, exitOK)
	be.Equal(t, r.stdout, "wrote "+path+"\n")

	cfg, err := cli.LoadConfig(path)
	be.Err(t, err, nil)
	be.Equal(t, cfg.Toolchain, "^"+cli.Version)
	be.Equal(t, cfg.Workers, cli.DefaultConfig().Workers)

	r = spark(t, "init", "-config", path)
	be.Equal(t, r.code, exitFailure)
	be.True(t, strings.Contains(r.stderr, "already exists"))

	be.Equal(t, spark(t, "init", "-config", path, "-force").code, exitOK)
}

func TestConfigToolchainMismatch(t *testing.T) {
	cfg := source(t, "spark.json", `{"toolchain": ">= 9"}`)
	path := source(t, "a.spark", "")
	r := spark(t, "check", "-config", cfg, path)
	be.Equal(t, r.code, exitFailure)
	be.True(t, strings.Contains(r.stderr, "does not satisfy"))
}

func TestVerboseLogging(t *testing.T) {
	path := source(t, "a.spark", "module m { type T { func f() {} } } func g() {}")
	r := spark(t, "check", "-v", path)
	be.Equal(t, r.code, exitOK)
	be.True(t, strings.Contains(r.stderr, "[INFO] "))
	be.True(t, strings.Contains(r.stderr, path+": 4 declarations"))
}

func replApp() (*app, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &app{stdout: &stdout, stderr: &stderr, cfg: cli.DefaultConfig()}, &stdout, &stderr
}

func TestEvalLine(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"1 + 2 * 3", "(+ 1 (* 2 3))\n"},
		{"x = f(1);", "(= x (call f 1))\n"},
		{"func f() {}", "(program (func f (params) (returns void) (block)))\n"},
		{"public type T {}", "(program (type T (vis public)))\n"},
	}
	for _, tt := range tests {
		a, stdout, stderr := replApp()
		a.evalLine(tt.line)
		be.Equal(t, stdout.String(), tt.want)
		be.Equal(t, stderr.String(), "")
	}
}

func TestEvalLineFaults(t *testing.T) {
	a, stdout, stderr := replApp()
	a.evalLine("f(")
	be.Equal(t, stdout.String(), "")
	be.True(t, strings.Contains(stderr.String(), "<repl>:1:3: error[E2001]: expected expression at end"))

	a, _, stderr = replApp()
	a.evalLine(`"open`)
	be.True(t, strings.Contains(stderr.String(), "error[E1003]"))
}

func TestComplete(t *testing.T) {
	be.Equal(t, strings.Join(complete("re"), ","), "ret")
	be.Equal(t, strings.Join(complete("x: i3"), ","), "x: i32")
	be.Equal(t, strings.Join(complete(":to"), ","), ":tokens")
	be.Equal(t, len(complete("func ")), 0)
	be.Equal(t, len(complete("zzz")), 0)
}

func TestEvalLineTokens(t *testing.T) {
	a, stdout, _ := replApp()
	a.tokens = true
	a.evalLine("x")
	be.Equal(t, stdout.String(), strings.Join([]string{
		`[1:1] Type: IDENTIFIER | Lexeme: "x"`,
		`[1:2] Type: END_OF_FILE | Lexeme: ""`,
		"x",
		"",
	}, "\n"))
}
