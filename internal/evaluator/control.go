package evaluator

import (
	"github.com/matrixlang/matrixlang/internal/ast"
	"github.com/matrixlang/matrixlang/internal/diagnostics"
	"github.com/matrixlang/matrixlang/internal/object"
)

func (e *Evaluator) evalIf(node *ast.IfExpression, env *object.Environment) object.Object {
	cond := e.evalExpression(node.Condition, env)
	if isError(cond) {
		return cond
	}
	b, ok := cond.(*object.Boolean)
	if !ok {
		return newError(diagnostics.ErrR003, node.Token,
			"if condition must be Bool, got %s", object.RuntimeTypeName(cond))
	}

	if b.Value {
		return e.evalExpression(node.Consequence, env)
	}
	if node.Alternative != nil {
		return e.evalExpression(node.Alternative, env)
	}
	return &object.Unit{}
}

// evalBlock runs statements in a child frame and yields the value of the
// trailing expression statement, or Unit.
func (e *Evaluator) evalBlock(node *ast.BlockExpression, env *object.Environment) object.Object {
	child := object.NewEnclosedEnvironment(env)
	var result object.Object = &object.Unit{}
	for i, stmt := range node.Statements {
		value := e.evalStatement(stmt, child)
		if isError(value) {
			return value
		}
		if i == len(node.Statements)-1 {
			if _, isExpr := stmt.(*ast.ExpressionStatement); isExpr {
				result = value
			}
		}
	}
	return result
}

func (e *Evaluator) evalMatch(node *ast.MatchExpression, env *object.Environment) object.Object {
	scrutinee := e.evalExpression(node.Expression, env)
	if isError(scrutinee) {
		return scrutinee
	}

	for _, arm := range node.Arms {
		armEnv := object.NewEnclosedEnvironment(env)
		if !e.matchPattern(arm.Pattern, scrutinee, armEnv) {
			continue
		}
		if arm.Guard != nil {
			guard := e.evalExpression(arm.Guard, armEnv)
			if isError(guard) {
				return guard
			}
			b, ok := guard.(*object.Boolean)
			if !ok {
				return newError(diagnostics.ErrR003, arm.Guard.GetToken(),
					"match guard must be Bool, got %s", object.RuntimeTypeName(guard))
			}
			if !b.Value {
				continue
			}
		}
		return e.evalExpression(arm.Body, armEnv)
	}

	return newError(diagnostics.ErrR003, node.Token,
		"no match arm matched %s", scrutinee.Inspect())
}

func (e *Evaluator) matchPattern(pattern ast.Pattern, value object.Object, env *object.Environment) bool {
	switch p := pattern.(type) {
	case *ast.WildcardPattern:
		return true

	case *ast.IdentifierPattern:
		env.Set(p.Name.Value, value)
		return true

	case *ast.LiteralPattern:
		lit := e.evalExpression(p.Value, env)
		return equals(lit, value)

	case *ast.ArrayPattern:
		arr, ok := value.(*object.Array)
		if !ok || len(arr.Elements) != len(p.Elements) {
			return false
		}
		for i, el := range p.Elements {
			if !e.matchPattern(el, arr.Elements[i], env) {
				return false
			}
		}
		return true

	case *ast.StructPattern:
		instance, ok := value.(*object.StructInstance)
		if !ok || instance.Name != p.Name.Value {
			return false
		}
		for _, field := range p.Fields {
			fieldValue, ok := instance.Fields[field.Name.Value]
			if !ok {
				return false
			}
			if !e.matchPattern(field.Pattern, fieldValue, env) {
				return false
			}
		}
		return true

	default:
		return false
	}
}

// evalSpawn computes the body immediately, parks the result in the handle
// table and returns an opaque Handle. No task is created.
func (e *Evaluator) evalSpawn(node *ast.SpawnExpression, env *object.Environment) object.Object {
	value := e.evalExpression(node.Body, env)
	if isError(value) {
		return value
	}
	id := e.nextHandle
	e.nextHandle++
	e.handles[id] = value
	return &object.Handle{Kind: object.HandleSpawn, ID: id}
}

func (e *Evaluator) evalWait(node *ast.WaitExpression, env *object.Environment) object.Object {
	results := make([]object.Object, len(node.Handles))
	for i, handleExpr := range node.Handles {
		value := e.evalExpression(handleExpr, env)
		if isError(value) {
			return value
		}
		handle, ok := value.(*object.Handle)
		if !ok || handle.Kind != object.HandleSpawn {
			return newError(diagnostics.ErrR003, handleExpr.GetToken(),
				"wait expects a spawn handle, got %s", object.RuntimeTypeName(value))
		}
		result, ok := e.handles[handle.ID]
		if !ok {
			return newError(diagnostics.ErrR003, handleExpr.GetToken(),
				"handle %d has no pending result", handle.ID)
		}
		results[i] = result
	}

	if node.Bracketed {
		return &object.Array{Elements: results}
	}
	return results[0]
}
