package evaluator

import (
	"fmt"

	"github.com/matrixlang/matrixlang/internal/ast"
	"github.com/matrixlang/matrixlang/internal/config"
	"github.com/matrixlang/matrixlang/internal/diagnostics"
	"github.com/matrixlang/matrixlang/internal/jit"
	"github.com/matrixlang/matrixlang/internal/object"
	"github.com/matrixlang/matrixlang/internal/token"
)

func (e *Evaluator) evalCall(node *ast.CallExpression, env *object.Environment) object.Object {
	fn := e.evalExpression(node.Function, env)
	if isError(fn) {
		return fn
	}

	args := make([]object.Object, len(node.Arguments))
	for i, arg := range node.Arguments {
		value := e.evalExpression(arg, env)
		if isError(value) {
			return value
		}
		args[i] = value
	}
	return e.applyFunction(fn, args, node.Token)
}

func (e *Evaluator) applyFunction(fn object.Object, args []object.Object, tok token.Token) object.Object {
	switch f := fn.(type) {
	case *object.Builtin:
		result := f.Fn(args...)
		if err, ok := result.(*object.Error); ok && err.Line == 0 {
			err.Line = tok.Line
			err.Column = tok.Column
		}
		return result

	case *object.Function:
		if len(args) != len(f.Params) {
			return newError(diagnostics.ErrR003, tok,
				"function expects %d argument(s), got %d", len(f.Params), len(args))
		}
		if result, handled := e.tryJIT(f, args, tok); handled {
			return result
		}

		child := object.NewEnclosedEnvironment(f.Env)
		for i, param := range f.Params {
			child.Set(param.Name.Value, args[i])
		}
		return e.evalExpression(f.Body, child)

	default:
		return newError(diagnostics.ErrR003, tok,
			"%s is not callable", object.RuntimeTypeName(fn))
	}
}

// tryJIT runs a named function through the compiled path when it is
// eligible and all arguments are unboxed Ints. Compilation happens once per
// function body; any failure pins the interpreter path.
func (e *Evaluator) tryJIT(f *object.Function, args []object.Object, tok token.Token) (object.Object, bool) {
	if !e.JIT || f.Name == "" {
		return nil, false
	}

	unboxed := make([]int64, len(args))
	for i, arg := range args {
		n, ok := arg.(*object.Integer)
		if !ok {
			return nil, false
		}
		unboxed[i] = n.Value
	}

	entry := e.jitCache[f.Body]
	if entry == nil {
		entry = &jitEntry{}
		e.jitCache[f.Body] = entry

		params := make([]string, len(f.Params))
		for i, p := range f.Params {
			params[i] = p.Name.Value
		}
		if jit.Eligible(f.Name, params, f.Body) {
			compiled, err := jit.Compile(f.Name, params, f.Body)
			if err == nil {
				entry.fn = compiled
				if e.Debug != nil {
					fmt.Fprintf(e.Debug, "jit: compiled %s\n", f.Name)
				}
			} else {
				entry.failed = true
				if e.Debug != nil {
					fmt.Fprintf(e.Debug, "jit: fallback for %s: %v\n", f.Name, err)
				}
			}
		} else {
			entry.failed = true
			if e.Debug != nil {
				fmt.Fprintf(e.Debug, "jit: %s not eligible\n", f.Name)
			}
		}
	}

	if entry.fn == nil {
		return nil, false
	}
	result, err := entry.fn(unboxed)
	if err != nil {
		if err == jit.ErrDivisionByZero {
			return newError(diagnostics.ErrR001, tok, "division by zero"), true
		}
		if err == jit.ErrRecursionLimit {
			return newError(diagnostics.ErrR005, tok,
				"recursion limit of %d frames exceeded", config.MaxRecursionDepth), true
		}
		return newError(diagnostics.ErrR003, tok, "%v", err), true
	}
	return &object.Integer{Value: result}, true
}
