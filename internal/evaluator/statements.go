package evaluator

import (
	"github.com/matrixlang/matrixlang/internal/ast"
	"github.com/matrixlang/matrixlang/internal/diagnostics"
	"github.com/matrixlang/matrixlang/internal/object"
)

func (e *Evaluator) evalStatement(stmt ast.Statement, env *object.Environment) object.Object {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		return e.evalLetStatement(s, env)
	case *ast.AssignStatement:
		return e.evalAssignStatement(s, env)
	case *ast.StructDefinition:
		// Field layout is the checker's concern; nothing to do at runtime.
		return &object.Unit{}
	case *ast.TypeclassDeclaration:
		return &object.Unit{}
	case *ast.InstanceDeclaration:
		return e.evalInstanceDeclaration(s, env)
	case *ast.ExpressionStatement:
		return e.evalExpression(s.Expression, env)
	default:
		return newError(diagnostics.ErrR003, stmt.GetToken(),
			"cannot evaluate statement %q", stmt.TokenLiteral())
	}
}

func (e *Evaluator) evalLetStatement(stmt *ast.LetStatement, env *object.Environment) object.Object {
	value := e.evalExpression(stmt.Value, env)
	if isError(value) {
		return value
	}

	// A let-bound closure captures the frame it is being bound into, so
	// binding after evaluation is enough for recursion: the body resolves
	// the name at call time.
	if fn, ok := value.(*object.Function); ok && fn.Name == "" {
		fn.Name = stmt.Name.Value
	}

	if stmt.Mutable {
		env.SetMutable(stmt.Name.Value, value)
	} else {
		env.Set(stmt.Name.Value, value)
	}
	return &object.Unit{}
}

func (e *Evaluator) evalAssignStatement(stmt *ast.AssignStatement, env *object.Environment) object.Object {
	value := e.evalExpression(stmt.Value, env)
	if isError(value) {
		return value
	}

	found, mutable := env.Assign(stmt.Name.Value, value)
	if !found {
		return newError(diagnostics.ErrR002, stmt.Name.Token,
			"undefined variable %q", stmt.Name.Value)
	}
	if !mutable {
		return newError(diagnostics.ErrR003, stmt.Name.Token,
			"cannot assign to immutable binding %q", stmt.Name.Value)
	}
	return &object.Unit{}
}

func (e *Evaluator) evalInstanceDeclaration(stmt *ast.InstanceDeclaration, env *object.Environment) object.Object {
	for _, method := range stmt.Methods {
		value := e.evalExpression(method.Value, env)
		if isError(value) {
			return value
		}
		fn, ok := value.(*object.Function)
		if !ok {
			return newError(diagnostics.ErrR003, method.Name.Token,
				"instance method %q must be a function", method.Name.Value)
		}
		if e.instances[method.Name.Value] == nil {
			e.instances[method.Name.Value] = make(map[string]*object.Function)
		}
		e.instances[method.Name.Value][stmt.TypeName.Value] = fn
	}
	return &object.Unit{}
}
