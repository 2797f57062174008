// Package evaluator walks the type-checked AST and produces runtime values.
// It never sees a program with static errors: the pipeline stops before
// evaluation when any stage reports one.
package evaluator

import (
	"fmt"
	"io"

	"github.com/matrixlang/matrixlang/internal/ast"
	"github.com/matrixlang/matrixlang/internal/config"
	"github.com/matrixlang/matrixlang/internal/diagnostics"
	"github.com/matrixlang/matrixlang/internal/jit"
	"github.com/matrixlang/matrixlang/internal/object"
	"github.com/matrixlang/matrixlang/internal/registry"
	"github.com/matrixlang/matrixlang/internal/token"
	"github.com/matrixlang/matrixlang/internal/typesystem"
)

type jitEntry struct {
	fn     jit.Fn
	failed bool
}

// Evaluator carries the per-session evaluation state: the builtin registry,
// the spawn handle table, typeclass instance methods and the JIT cache.
type Evaluator struct {
	Out      io.Writer
	Registry *registry.Registry

	// JIT controls whether eligible Int functions run compiled; Debug, when
	// non-nil, receives one line per compile attempt.
	JIT   bool
	Debug io.Writer

	depth      int
	handles    map[int]object.Object
	nextHandle int

	// instances: method name -> runtime type name -> implementation.
	instances map[string]map[string]*object.Function

	jitCache map[ast.Expression]*jitEntry
}

func New(out io.Writer, reg *registry.Registry) *Evaluator {
	return &Evaluator{
		Out:       out,
		Registry:  reg,
		handles:   make(map[int]object.Object),
		instances: make(map[string]map[string]*object.Function),
		jitCache:  make(map[ast.Expression]*jitEntry),
	}
}

func newError(code string, tok token.Token, format string, args ...interface{}) *object.Error {
	return &object.Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Line:    tok.Line,
		Column:  tok.Column,
	}
}

func isError(obj object.Object) bool {
	_, ok := obj.(*object.Error)
	return ok
}

// Diagnostic converts a runtime Error object into a positioned diagnostic.
func Diagnostic(err *object.Error) *diagnostics.Error {
	return diagnostics.NewErrorAt(err.Code, err.Line, err.Column, "%s", err.Message)
}

// EvalProgram evaluates top-level statements in order and returns the value
// of the last one. The first runtime error aborts the program.
func (e *Evaluator) EvalProgram(program *ast.Program, env *object.Environment) object.Object {
	var result object.Object = &object.Unit{}
	for _, stmt := range program.Statements {
		result = e.evalStatement(stmt, env)
		if isError(result) {
			return result
		}
	}
	return result
}

func (e *Evaluator) evalExpression(expr ast.Expression, env *object.Environment) object.Object {
	e.depth++
	defer func() { e.depth-- }()
	if e.depth > config.MaxRecursionDepth {
		return newError(diagnostics.ErrR005, expr.GetToken(),
			"recursion limit of %d frames exceeded", config.MaxRecursionDepth)
	}

	switch node := expr.(type) {
	case *ast.IntegerLiteral:
		return &object.Integer{Value: node.Value}
	case *ast.FloatLiteral:
		return &object.Float{Value: node.Value}
	case *ast.BooleanLiteral:
		return &object.Boolean{Value: node.Value}
	case *ast.StringLiteral:
		return &object.String{Value: node.Value}
	case *ast.UnitLiteral:
		return &object.Unit{}

	case *ast.Identifier:
		return e.evalIdentifier(node, env)

	case *ast.UnaryExpression:
		return e.evalUnary(node, env)
	case *ast.BinaryExpression:
		return e.evalBinary(node, env)
	case *ast.RangeExpression:
		return e.evalRange(node, env)

	case *ast.LambdaExpression:
		return &object.Function{Params: node.Params, Body: node.Body, Env: env, Gpu: node.Gpu}

	case *ast.CallExpression:
		return e.evalCall(node, env)

	case *ast.IfExpression:
		return e.evalIf(node, env)
	case *ast.BlockExpression:
		return e.evalBlock(node, env)
	case *ast.MatchExpression:
		return e.evalMatch(node, env)

	case *ast.ArrayLiteral:
		return e.evalArray(node, env)
	case *ast.MatrixLiteral:
		return e.evalMatrix(node, env)
	case *ast.ComprehensionExpression:
		return e.evalComprehension(node, env)
	case *ast.StructLiteral:
		return e.evalStructLiteral(node, env)
	case *ast.FieldAccessExpression:
		return e.evalFieldAccess(node, env)
	case *ast.IndexExpression:
		return e.evalIndex(node, env)

	case *ast.ParallelExpression:
		// Strict program order in the block; the syntax reserves room for a
		// concurrent backend without changing observable behavior.
		return e.evalBlock(node.Body, env)
	case *ast.SpawnExpression:
		return e.evalSpawn(node, env)
	case *ast.WaitExpression:
		return e.evalWait(node, env)

	default:
		return newError(diagnostics.ErrR003, expr.GetToken(),
			"cannot evaluate expression %q", expr.TokenLiteral())
	}
}

func (e *Evaluator) evalIdentifier(node *ast.Identifier, env *object.Environment) object.Object {
	if obj, ok := env.Get(node.Value); ok {
		return obj
	}

	if impls, ok := e.instances[node.Value]; ok {
		return e.dispatchBuiltin(node.Value, impls)
	}

	if scheme, ok := e.Registry.Scheme(node.Value); ok {
		impl, _ := e.Registry.Impl(node.Value)
		if _, isFn := scheme.Body.(typesystem.TFunc); isFn {
			return &object.Builtin{Name: node.Value, Fn: impl}
		}
		// Registered constants (pi, e, tau) evaluate at lookup.
		return impl()
	}

	return newError(diagnostics.ErrR002, node.Token, "undefined variable %q", node.Value)
}

// dispatchBuiltin wraps a typeclass method as a builtin that picks the
// instance by the first argument's runtime type.
func (e *Evaluator) dispatchBuiltin(name string, impls map[string]*object.Function) *object.Builtin {
	return &object.Builtin{
		Name: name,
		Fn: func(args ...object.Object) object.Object {
			if len(args) == 0 {
				return &object.Error{
					Code:    diagnostics.ErrR003,
					Message: fmt.Sprintf("method %s needs at least one argument", name),
				}
			}
			typeName := object.RuntimeTypeName(args[0])
			impl, ok := impls[typeName]
			if !ok {
				return &object.Error{
					Code:    diagnostics.ErrR003,
					Message: fmt.Sprintf("no instance of %s for %s", name, typeName),
				}
			}
			return e.applyFunction(impl, args, token.Token{})
		},
	}
}
