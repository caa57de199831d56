package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/skuldlang/skuld/internal/ast"
	"github.com/skuldlang/skuld/internal/config"
	"github.com/skuldlang/skuld/internal/engine"
	"github.com/skuldlang/skuld/internal/evaluator"
	"github.com/skuldlang/skuld/internal/parser"
	"github.com/skuldlang/skuld/internal/prettyprinter"
)

const (
	colorRed   = "\033[31m"
	colorReset = "\033[0m"
)

func main() {
	// Catch panics and show user-friendly error
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r) // Re-panic to get stack trace
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	cfg := loadConfig()

	switch args[0] {
	case "run":
		requireFile(args)
		os.Exit(runFile(args[1], cfg))
	case "check":
		requireFile(args)
		os.Exit(checkFile(args[1], cfg))
	case "dump":
		requireFile(args)
		os.Exit(dumpFile(args[1], cfg))
	case "help", "-h", "--help":
		printUsage()
	default:
		// Bare file path is shorthand for run.
		if strings.HasSuffix(args[0], config.SourceFileExt) {
			os.Exit(runFile(args[0], cfg))
		}
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: skuld <command> <file" + config.SourceFileExt + ">")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  run    <file>   Execute a script")
	fmt.Println("  check  <file>   Verify every function definition can be rewritten")
	fmt.Println("  dump   <file>   Print function definitions in rewritten form")
}

func requireFile(args []string) {
	if len(args) < 2 {
		fmt.Fprintf(os.Stderr, "%s requires a file argument\n", args[0])
		os.Exit(1)
	}
}

func loadConfig() *config.Config {
	wd, err := os.Getwd()
	if err != nil {
		return config.Default()
	}
	path, err := config.Find(wd)
	if err != nil || path == "" {
		return config.Default()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", err)
		return config.Default()
	}
	return cfg
}

func useColor(cfg *config.Config) bool {
	switch cfg.Color {
	case "always":
		return true
	case "never":
		return false
	default:
		return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	}
}

func reportError(cfg *config.Config, format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	if useColor(cfg) {
		msg = colorRed + msg + colorReset
	}
	fmt.Fprintln(os.Stderr, msg)
}

func parseFile(path string, cfg *config.Config) (*ast.Program, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		reportError(cfg, "Error: %s", err)
		return nil, false
	}

	p := parser.New(string(data))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		for _, e := range errs {
			reportError(cfg, "%s: %s", path, e.Error())
		}
		return nil, false
	}
	return program, true
}

func runFile(path string, cfg *config.Config) int {
	program, ok := parseFile(path, cfg)
	if !ok {
		return 1
	}

	engine.RegisterBuiltins()
	eval := evaluator.New()
	eval.MaxDepth = cfg.MaxCallDepth
	if cfg.GuardLog {
		eval.GuardLog = os.Stderr
	}
	env := evaluator.NewEnvironment()

	result := eval.Eval(program, env)
	if err, isErr := result.(*evaluator.Error); isErr {
		reportError(cfg, "%s: %s", path, err.Inspect())
		return 1
	}
	return 0
}

// checkFile runs the definition-time transform on every top-level function
// without executing anything.
func checkFile(path string, cfg *config.Config) int {
	program, ok := parseFile(path, cfg)
	if !ok {
		return 1
	}

	failed := 0
	for _, stmt := range program.Statements {
		fn, isFn := stmt.(*ast.FunctionStatement)
		if !isFn {
			continue
		}
		if err := engine.Rewrite(fn); err != nil {
			reportError(cfg, "%s: %s", path, err)
			failed++
		}
	}
	if failed > 0 {
		return 1
	}
	return 0
}

func dumpFile(path string, cfg *config.Config) int {
	program, ok := parseFile(path, cfg)
	if !ok {
		return 1
	}

	code := 0
	for _, stmt := range program.Statements {
		fn, isFn := stmt.(*ast.FunctionStatement)
		if !isFn {
			continue
		}
		if err := engine.Rewrite(fn); err != nil {
			reportError(cfg, "%s: %s", path, err)
			code = 1
			continue
		}
		fmt.Println(prettyprinter.Print(fn))
	}
	return code
}
