// Package jit compiles a narrow class of functions to unboxed closures over
// int64: integer arithmetic, comparisons, if expressions and self-recursion.
// Anything outside that set stays on the tree-walking interpreter; callers
// fall back silently.
package jit

import (
	"github.com/matrixlang/matrixlang/internal/ast"
)

// Eligible reports whether a named function can be compiled. selfName is the
// let-bound name; params are the parameter names in order.
func Eligible(selfName string, params []string, body ast.Expression) bool {
	if selfName == "" {
		return false
	}
	c := &checker{self: selfName, params: make(map[string]bool, len(params))}
	for _, p := range params {
		c.params[p] = true
	}
	return c.intExpr(body)
}

type checker struct {
	self   string
	params map[string]bool
}

// intExpr reports whether expr is an Int-valued expression in the closed set.
func (c *checker) intExpr(expr ast.Expression) bool {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return true

	case *ast.Identifier:
		return c.params[e.Value]

	case *ast.UnaryExpression:
		return e.Operator == "-" && c.intExpr(e.Operand)

	case *ast.BinaryExpression:
		switch e.Operator {
		case "+", "-", "*", "/", "%":
			return c.intExpr(e.Left) && c.intExpr(e.Right)
		}
		return false

	case *ast.IfExpression:
		if e.Alternative == nil {
			return false
		}
		return c.boolExpr(e.Condition) && c.intExpr(e.Consequence) && c.intExpr(e.Alternative)

	case *ast.CallExpression:
		// Only self-recursion; calls into the environment need the
		// interpreter.
		callee, ok := e.Function.(*ast.Identifier)
		if !ok || callee.Value != c.self {
			return false
		}
		if len(e.Arguments) != len(c.params) {
			return false
		}
		for _, arg := range e.Arguments {
			if !c.intExpr(arg) {
				return false
			}
		}
		return true

	case *ast.BlockExpression:
		// A block qualifies when it is a thin wrapper: expression statements
		// only, with the last one producing the value.
		if len(e.Statements) == 0 {
			return false
		}
		for i, stmt := range e.Statements {
			es, ok := stmt.(*ast.ExpressionStatement)
			if !ok {
				return false
			}
			if i == len(e.Statements)-1 {
				return c.intExpr(es.Expression)
			}
			if !c.intExpr(es.Expression) && !c.boolExpr(es.Expression) {
				return false
			}
		}
		return false

	default:
		return false
	}
}

// boolExpr reports whether expr is a Bool-valued expression in the closed set.
func (c *checker) boolExpr(expr ast.Expression) bool {
	switch e := expr.(type) {
	case *ast.BooleanLiteral:
		return true

	case *ast.UnaryExpression:
		return e.Operator == "!" && c.boolExpr(e.Operand)

	case *ast.BinaryExpression:
		switch e.Operator {
		case "==", "!=", "<", "<=", ">", ">=":
			return c.intExpr(e.Left) && c.intExpr(e.Right)
		case "&&", "||":
			return c.boolExpr(e.Left) && c.boolExpr(e.Right)
		}
		return false

	case *ast.IfExpression:
		if e.Alternative == nil {
			return false
		}
		return c.boolExpr(e.Condition) && c.boolExpr(e.Consequence) && c.boolExpr(e.Alternative)

	default:
		return false
	}
}
