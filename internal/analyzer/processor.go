package analyzer

import (
	"github.com/matrixlang/matrixlang/internal/ast"
	"github.com/matrixlang/matrixlang/internal/pipeline"
	"github.com/matrixlang/matrixlang/internal/registry"
)

// AnalyzerProcessor runs type inference as a pipeline stage. Env is optional:
// a REPL sets it once so bindings survive across entries; batch runs leave it
// nil and get a fresh environment per program.
type AnalyzerProcessor struct {
	Registry *registry.Registry
	Env      *TypeEnv
}

func (ap *AnalyzerProcessor) Process(ctx *pipeline.Context) *pipeline.Context {
	program, ok := ctx.AstRoot.(*ast.Program)
	if !ok {
		return ctx
	}
	env := ap.Env
	if env == nil {
		env = NewTypeEnv()
	}
	a := New(ctx, ap.Registry)
	a.Analyze(program, env)
	if len(ctx.Errors) == 0 {
		ctx.TypeMap = a.TypeMap()
	}
	return ctx
}
