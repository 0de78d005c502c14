// Command spark is the Spark language toolchain front end.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/spark-lang/spark/internal/cli"
	"github.com/spark-lang/spark/internal/diagnostic"
	"github.com/spark-lang/spark/internal/driver"
)

const toolName = "spark"

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

var commands = []cli.CommandInfo{
	{
		Name:        "lex",
		Usage:       "spark lex [OPTIONS] <files>",
		Description: "Tokenize files and print the tokens",
		Examples:    []string{"spark lex main.spark", "spark lex -v a.spark b.spark"},
	},
	{
		Name:        "parse",
		Usage:       "spark parse [OPTIONS] <files>",
		Description: "Parse files and print the syntax tree",
		Flags:       []cli.FlagInfo{{Name: "source", Usage: "print the tree as source text instead of an s-expression"}},
	},
	{
		Name:        "check",
		Usage:       "spark check [OPTIONS] <files>",
		Description: "Report lexical and syntax errors",
		Flags: []cli.FlagInfo{
			{Name: "strict", Usage: "treat redeclaration warnings as errors", Default: "false"},
			{Name: "max-errors", Usage: "stop reporting after this many errors (0: no limit)", Default: "0"},
		},
	},
	{Name: "run", Usage: "spark run <file>", Description: "Run a source file (not implemented)"},
	{Name: "format", Usage: "spark format <files>", Description: "Format source files (not implemented)"},
	{
		Name:        "watch",
		Usage:       "spark watch [OPTIONS] <files>",
		Description: "Check files again whenever they change",
		Flags: []cli.FlagInfo{
			{Name: "strict", Usage: "treat redeclaration warnings as errors", Default: "false"},
			{Name: "max-errors", Usage: "stop reporting after this many errors (0: no limit)", Default: "0"},
		},
	},
	{
		Name:        "init",
		Usage:       "spark init [--config path] [--force]",
		Description: "Write a spark.json with the default settings",
		Flags: []cli.FlagInfo{
			{Name: "config", Usage: "file to write", Default: cli.ConfigFile},
			{Name: "force", Usage: "overwrite an existing file"},
		},
	},
	{Name: "repl", Usage: "spark repl [--tokens]", Description: "Read lines and print their tokens and syntax tree"},
	{
		Name:        "version",
		Usage:       "spark version [--json]",
		Description: "Show version information",
		Flags:       []cli.FlagInfo{{Name: "json", Usage: "output version in JSON format"}},
	},
	{Name: "help", Usage: "spark help [command]", Description: "Show help information"},
}

var commonFlags = []cli.FlagInfo{
	{Name: "config", Usage: "configuration file", Default: cli.ConfigFile},
	{Name: "v", Usage: "verbose output"},
	{Name: "debug", Usage: "debug output"},
	{Name: "color", Usage: "diagnostic color: auto, always or never", Default: cli.ColorAuto},
	{Name: "tab-width", Usage: "columns per tab in reported positions", Default: "1"},
	{Name: "workers", Usage: "files processed in parallel", Default: "4"},
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// app carries the resolved settings and output streams of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer
	cfg    *cli.Config
	log    *cli.Logger
	color  bool

	source bool // parse: print source text
	tokens bool // repl: print tokens too
}

// command is a subcommand working on files. flags registers its own
// options next to the common ones.
type command struct {
	run   func(a *app, files []string) error
	flags func(fs *flag.FlagSet, a *app)
}

func checkFlags(fs *flag.FlagSet, _ *app) {
	fs.Bool("strict", false, "treat redeclaration warnings as errors")
	fs.Int("max-errors", 0, "stop reporting after this many errors")
}

var fileCommands = map[string]command{
	"lex": {
		run: (*app).lex,
	},
	"parse": {
		run: (*app).parse,
		flags: func(fs *flag.FlagSet, a *app) {
			fs.BoolVar(&a.source, "source", false, "print the tree as source text")
		},
	},
	"check": {
		run:   (*app).check,
		flags: checkFlags,
	},
	"watch": {
		run:   (*app).watch,
		flags: checkFlags,
	},
	"repl": {
		run: (*app).repl,
		flags: func(fs *flag.FlagSet, a *app) {
			fs.BoolVar(&a.tokens, "tokens", false, "print tokens before the tree")
		},
	},
}

// errUsage marks a bad command line; it maps to exit code 2.
var errUsage = errors.New("usage error")

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		cli.PrintUsage(stderr, toolName, commands)
		return exitUsage
	}

	name, rest := args[0], args[1:]
	switch name {
	case "help", "-h", "--help":
		return runHelp(rest, stdout, stderr)
	case "version", "--version":
		return runVersion(rest, stdout, stderr)
	case "init":
		return runInit(rest, stdout, stderr)
	case "run", "format":
		fmt.Fprintf(stderr, "%s %s: not implemented\n", toolName, name)
		return exitFailure
	}

	cmd, ok := fileCommands[name]
	if !ok {
		fmt.Fprintf(stderr, "%s: unknown command %q\n", toolName, name)
		cli.PrintUsage(stderr, toolName, commands)
		return exitUsage
	}

	a := &app{stdout: stdout, stderr: stderr}
	fs := flag.NewFlagSet(toolName+" "+name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	if cmd.flags != nil {
		cmd.flags(fs, a)
	}
	if err := a.setup(fs, rest); err != nil {
		return exitCode(err, stderr)
	}
	return exitCode(cmd.run(a, fs.Args()), stderr)
}

// errFailed reports that diagnostics were already printed.
var errFailed = errors.New("failed")

func exitCode(err error, stderr io.Writer) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, flag.ErrHelp):
		return exitOK
	case errors.Is(err, errUsage):
		fmt.Fprintln(stderr, err)
		return exitUsage
	case errors.Is(err, errFailed):
		return exitFailure
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return exitFailure
}

// setup registers the common flags, parses args and resolves the
// configuration. Flags given on the command line override spark.json.
func (a *app) setup(fs *flag.FlagSet, args []string) error {
	configPath := fs.String("config", cli.ConfigFile, "configuration file")
	verbose := fs.Bool("v", false, "verbose output")
	debug := fs.Bool("debug", false, "debug output")
	color := fs.String("color", "", "diagnostic color: auto, always or never")
	tabWidth := fs.Int("tab-width", 0, "columns per tab in reported positions")
	workers := fs.Int("workers", 0, "files processed in parallel")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	cfg, err := cli.LoadConfig(*configPath)
	if err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "v":
			cfg.Verbose = *verbose
		case "debug":
			cfg.Debug = *debug
		case "color":
			cfg.Color = *color
		case "tab-width":
			cfg.TabWidth = *tabWidth
		case "workers":
			cfg.Workers = *workers
		case "strict":
			cfg.Strict = f.Value.(flag.Getter).Get().(bool)
		case "max-errors":
			cfg.MaxErrors = f.Value.(flag.Getter).Get().(int)
		}
	})
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	a.cfg = cfg
	a.log = cli.NewLogger(a.stderr, cfg.Verbose, cfg.Debug)
	if f, ok := a.stderr.(interface{ Fd() uintptr }); ok {
		a.color = cfg.UseColor(f.Fd())
	} else {
		a.color = cfg.Color == cli.ColorAlways
	}
	a.log.Debug("config: %+v", *cfg)
	return nil
}

func (a *app) driver() *driver.Driver {
	return driver.New(driver.Options{TabWidth: a.cfg.TabWidth}, a.cfg.Workers)
}

func (a *app) renderer(units ...*driver.Unit) *diagnostic.Renderer {
	r := diagnostic.NewRenderer(a.stderr, a.color)
	r.SetTabWidth(a.cfg.TabWidth)
	for _, u := range units {
		r.AddSource(u.Path, u.Source)
	}
	return r
}

func requireFiles(cmd string, files []string) error {
	if err := cli.ValidateArgs(files, 1, usageOf(cmd)); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

func usageOf(name string) string {
	for _, cmd := range commands {
		if cmd.Name == name {
			return cmd.Usage
		}
	}
	return toolName + " " + name
}

func runHelp(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		cli.PrintUsage(stdout, toolName, commands)
		fmt.Fprintln(stdout)
		printCommonFlags(stdout)
		return exitOK
	}
	for _, cmd := range commands {
		if cmd.Name == args[0] {
			cli.PrintCommandUsage(stdout, toolName, cmd)
			return exitOK
		}
	}
	fmt.Fprintf(stderr, "%s help: unknown command %q\n", toolName, args[0])
	return exitUsage
}

func printCommonFlags(w io.Writer) {
	cli.PrintCommandUsage(w, toolName, cli.CommandInfo{
		Name:        "<command>",
		Usage:       "spark <command> [OPTIONS] <files>",
		Description: "options shared by lex, parse, check, watch and repl",
		Flags:       commonFlags,
	})
}

// runInit writes the default configuration, pinning the toolchain to the
// running minor version.
func runInit(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(toolName+" init", flag.ContinueOnError)
	fs.SetOutput(stderr)
	path := fs.String("config", cli.ConfigFile, "file to write")
	force := fs.Bool("force", false, "overwrite an existing file")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if _, err := os.Stat(*path); err == nil && !*force {
		fmt.Fprintf(stderr, "Error: %s already exists (use --force to overwrite)\n", *path)
		return exitFailure
	}
	cfg := cli.DefaultConfig()
	cfg.Toolchain = "^" + cli.Version
	if err := cfg.SaveConfig(*path); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	fmt.Fprintf(stdout, "wrote %s\n", *path)
	return exitOK
}

func runVersion(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(toolName+" version", flag.ContinueOnError)
	fs.SetOutput(stderr)
	jsonOutput := fs.Bool("json", false, "output version in JSON format")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if err := cli.PrintVersion(stdout, toolName, *jsonOutput); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	return exitOK
}
