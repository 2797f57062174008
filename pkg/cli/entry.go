// Package cli is the command surface: run a script, check it without
// running, or start a REPL session.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"github.com/matrixlang/matrixlang/internal/analyzer"
	"github.com/matrixlang/matrixlang/internal/ast"
	"github.com/matrixlang/matrixlang/internal/config"
	"github.com/matrixlang/matrixlang/internal/evaluator"
	"github.com/matrixlang/matrixlang/internal/lexer"
	"github.com/matrixlang/matrixlang/internal/object"
	"github.com/matrixlang/matrixlang/internal/parser"
	"github.com/matrixlang/matrixlang/internal/pipeline"
	"github.com/matrixlang/matrixlang/internal/registry"
	"github.com/matrixlang/matrixlang/internal/stdlib"
)

const (
	colorRed   = "\033[31m"
	colorReset = "\033[0m"
)

func isSourceFile(path string) bool {
	for _, ext := range config.SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// Run dispatches the command line. Exit codes: 0 success, 1 diagnostics,
// 2 usage or I/O problems.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		return runRepl(stdout, stderr)
	}

	switch args[0] {
	case "run":
		if len(args) != 2 {
			fmt.Fprintln(stderr, "usage: matrixlang run <file"+config.SourceFileExt+">")
			return 2
		}
		return runFile(args[1], stdout, stderr)
	case "check":
		if len(args) != 2 {
			fmt.Fprintln(stderr, "usage: matrixlang check <file"+config.SourceFileExt+">")
			return 2
		}
		return checkFile(args[1], stdout, stderr)
	case "repl":
		return runRepl(stdout, stderr)
	default:
		if isSourceFile(args[0]) {
			return runFile(args[0], stdout, stderr)
		}
		fmt.Fprintf(stderr, "unknown command %q\nusage: matrixlang [run|check|repl] ...\n", args[0])
		return 2
	}
}

func loadConfig(scriptPath string, stderr io.Writer) *config.RuntimeConfig {
	dirs := []string{"."}
	if scriptPath != "" {
		dirs = append(dirs, filepath.Dir(scriptPath))
	}
	cfg, err := config.LoadRuntimeConfig(dirs...)
	if err != nil {
		fmt.Fprintf(stderr, "warning: %s: %v\n", config.ConfigFileName, err)
		return config.DefaultRuntimeConfig()
	}
	return cfg
}

// compile runs source through the static stages. A non-nil program means
// zero diagnostics. Contexts built under the same session id belong to one
// user session; the REPL reuses its id for every entry.
func compile(source, path string, session uuid.UUID, reg *registry.Registry, typeEnv *analyzer.TypeEnv) (*ast.Program, *pipeline.Context) {
	ctx := pipeline.NewSessionContext(session, source, path)
	p := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&analyzer.AnalyzerProcessor{Registry: reg, Env: typeEnv},
	)
	ctx = p.Run(ctx)
	if len(ctx.Errors) > 0 {
		return nil, ctx
	}
	program, _ := ctx.AstRoot.(*ast.Program)
	return program, ctx
}

func reportErrors(ctx *pipeline.Context, stderr io.Writer, color bool) {
	for _, err := range ctx.Errors {
		if color {
			fmt.Fprintf(stderr, "%s%s%s\n", colorRed, err.Error(), colorReset)
		} else {
			fmt.Fprintln(stderr, err.Error())
		}
	}
}

// traceSession logs a passed static check under its session id when jit
// debugging is on; every entry of one REPL session reports the same id.
func traceSession(cfg *config.RuntimeConfig, ctx *pipeline.Context, stderr io.Writer) {
	if cfg.JITDebug {
		fmt.Fprintf(stderr, "session %s: checked %s\n", ctx.SessionID, ctx.FilePath)
	}
}

func newEvaluator(cfg *config.RuntimeConfig, stdout, stderr io.Writer) (*evaluator.Evaluator, *registry.Registry) {
	reg := stdlib.NewRegistry(stdout)
	eval := evaluator.New(stdout, reg)
	eval.JIT = cfg.JIT
	if cfg.JITDebug {
		eval.Debug = stderr
	}
	return eval, reg
}

func runFile(path string, stdout, stderr io.Writer) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "cannot read %s: %v\n", path, err)
		return 2
	}
	cfg := loadConfig(path, stderr)
	eval, reg := newEvaluator(cfg, stdout, stderr)

	program, ctx := compile(string(source), path, uuid.New(), reg, nil)
	if program == nil {
		reportErrors(ctx, stderr, useColor(cfg, stderr))
		return 1
	}
	traceSession(cfg, ctx, stderr)

	result := eval.EvalProgram(program, object.NewEnvironment())
	if runtimeErr, ok := result.(*object.Error); ok {
		diag := evaluator.Diagnostic(runtimeErr)
		diag.File = path
		fmt.Fprintln(stderr, diag.Error())
		return 1
	}
	return 0
}

func checkFile(path string, stdout, stderr io.Writer) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "cannot read %s: %v\n", path, err)
		return 2
	}
	cfg := loadConfig(path, stderr)
	_, reg := newEvaluator(cfg, io.Discard, stderr)

	program, ctx := compile(string(source), path, uuid.New(), reg, nil)
	if program == nil {
		reportErrors(ctx, stderr, useColor(cfg, stderr))
		return 1
	}
	traceSession(cfg, ctx, stderr)
	fmt.Fprintf(stdout, "%s: ok\n", path)
	return 0
}

func useColor(cfg *config.RuntimeConfig, w io.Writer) bool {
	if cfg.Color != nil {
		return *cfg.Color
	}
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// runRepl keeps one session alive across entries: type environment,
// value environment, registry state and spawn handles all persist. A
// runtime error aborts only the entry that raised it.
func runRepl(stdout, stderr io.Writer) int {
	cfg := loadConfig("", stderr)
	eval, reg := newEvaluator(cfg, stdout, stderr)
	typeEnv := analyzer.NewTypeEnv()
	env := object.NewEnvironment()
	color := useColor(cfg, stderr)
	session := uuid.New()

	fmt.Fprintln(stdout, "matrixlang repl; Ctrl-D to exit")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(stdout, cfg.Prompt)
		if !scanner.Scan() {
			fmt.Fprintln(stdout)
			return 0
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		program, ctx := compile(line, "<repl>", session, reg, typeEnv)
		if program == nil {
			reportErrors(ctx, stderr, color)
			continue
		}
		traceSession(cfg, ctx, stderr)

		result := eval.EvalProgram(program, env)
		if runtimeErr, ok := result.(*object.Error); ok {
			diag := evaluator.Diagnostic(runtimeErr)
			if color {
				fmt.Fprintf(stderr, "%s%s%s\n", colorRed, diag.Error(), colorReset)
			} else {
				fmt.Fprintln(stderr, diag.Error())
			}
			continue
		}
		if _, isUnit := result.(*object.Unit); !isUnit {
			fmt.Fprintln(stdout, result.Inspect())
		}
	}
}
