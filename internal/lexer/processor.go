package lexer

import (
	"github.com/matrixlang/matrixlang/internal/pipeline"
)

type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.Context) *pipeline.Context {
	l := New(ctx.SourceCode)
	ctx.TokenStream = l.Tokenize()
	if err := l.Err(); err != nil {
		ctx.AddError(err)
	}
	return ctx
}
