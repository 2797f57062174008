package pipeline

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

// Processor is a single compilation stage (lexer, parser, analyzer).
type Processor interface {
	Process(ctx *Context) *Context
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline. Stages after the first failing one are skipped:
// an ill-typed or unparseable program must never reach evaluation.
func (p *Pipeline) Run(initialCtx *Context) *Context {
	ctx := initialCtx
	for _, processor := range p.processors {
		if len(ctx.Errors) > 0 {
			break
		}
		ctx = processor.Process(ctx)
	}
	return ctx
}
