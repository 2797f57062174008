package pipeline

import (
	"github.com/google/uuid"

	"github.com/matrixlang/matrixlang/internal/diagnostics"
	"github.com/matrixlang/matrixlang/internal/token"
)

// Context carries one compile/execute session through the stages:
// text -> tokens -> AST -> type-annotated AST. The AST root and type map are
// stored as opaque values here to keep this package free of upward imports;
// the parser and analyzer stages own their concrete types.
type Context struct {
	// SessionID distinguishes independent sessions; contexts built with
	// NewSessionContext (one REPL session's entries) share one.
	SessionID uuid.UUID

	SourceCode string
	FilePath   string

	TokenStream *token.Stream

	// AstRoot is *ast.Program once the parser stage has run.
	AstRoot interface{}

	// TypeMap is map[ast.Node]typesystem.Type once the analyzer has run.
	TypeMap interface{}

	Errors []*diagnostics.Error
}

func NewContext(source, filePath string) *Context {
	return NewSessionContext(uuid.New(), source, filePath)
}

// NewSessionContext builds a context inside an existing session, so several
// compiles (REPL entries) can be correlated under one id.
func NewSessionContext(session uuid.UUID, source, filePath string) *Context {
	return &Context{
		SessionID:  session,
		SourceCode: source,
		FilePath:   filePath,
	}
}

// AddError appends a diagnostic, stamping the session's file path.
func (c *Context) AddError(err *diagnostics.Error) {
	if err.File == "" {
		err.File = c.FilePath
	}
	c.Errors = append(c.Errors, err)
}
