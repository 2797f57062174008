package jit

import (
	"errors"
	"fmt"

	"github.com/matrixlang/matrixlang/internal/ast"
	"github.com/matrixlang/matrixlang/internal/config"
)

// ErrDivisionByZero is returned by a compiled function when it divides by
// zero; the caller translates it into the usual runtime diagnostic.
var ErrDivisionByZero = errors.New("division by zero")

// ErrRecursionLimit is returned when a compiled function self-recurses past
// the same frame limit the interpreter enforces. Without it a runaway
// recursive function would overflow the Go stack instead of reporting a
// diagnostic.
var ErrRecursionLimit = errors.New("recursion limit exceeded")

// Fn is a compiled function over unboxed arguments.
type Fn func(args []int64) (int64, error)

type intThunk func(args []int64) (int64, error)
type boolThunk func(args []int64) (bool, error)

type compiler struct {
	self     string
	paramIdx map[string]int
	// selfFn is filled after compilation so recursive calls can reach the
	// finished function.
	selfFn Fn
	// depth counts live self-calls; the compiled tree shares one compiler.
	depth int
}

// Compile translates an eligible function body into a closure tree. Call
// Eligible first; Compile returns an error on anything outside the set.
func Compile(selfName string, params []string, body ast.Expression) (Fn, error) {
	c := &compiler{self: selfName, paramIdx: make(map[string]int, len(params))}
	for i, p := range params {
		c.paramIdx[p] = i
	}

	thunk, err := c.intExpr(body)
	if err != nil {
		return nil, err
	}
	c.selfFn = func(args []int64) (int64, error) {
		return thunk(args)
	}
	return c.selfFn, nil
}

func (c *compiler) intExpr(expr ast.Expression) (intThunk, error) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		v := e.Value
		return func([]int64) (int64, error) { return v, nil }, nil

	case *ast.Identifier:
		idx, ok := c.paramIdx[e.Value]
		if !ok {
			return nil, fmt.Errorf("unknown name %q", e.Value)
		}
		return func(args []int64) (int64, error) { return args[idx], nil }, nil

	case *ast.UnaryExpression:
		operand, err := c.intExpr(e.Operand)
		if err != nil {
			return nil, err
		}
		return func(args []int64) (int64, error) {
			v, err := operand(args)
			return -v, err
		}, nil

	case *ast.BinaryExpression:
		return c.intBinary(e)

	case *ast.IfExpression:
		return c.intIf(e)

	case *ast.CallExpression:
		return c.selfCall(e)

	case *ast.BlockExpression:
		return c.block(e)

	default:
		return nil, fmt.Errorf("expression %T is not compilable", expr)
	}
}

func (c *compiler) intBinary(e *ast.BinaryExpression) (intThunk, error) {
	left, err := c.intExpr(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := c.intExpr(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator {
	case "+":
		return func(args []int64) (int64, error) {
			l, err := left(args)
			if err != nil {
				return 0, err
			}
			r, err := right(args)
			return l + r, err
		}, nil
	case "-":
		return func(args []int64) (int64, error) {
			l, err := left(args)
			if err != nil {
				return 0, err
			}
			r, err := right(args)
			return l - r, err
		}, nil
	case "*":
		return func(args []int64) (int64, error) {
			l, err := left(args)
			if err != nil {
				return 0, err
			}
			r, err := right(args)
			return l * r, err
		}, nil
	case "/":
		return func(args []int64) (int64, error) {
			l, err := left(args)
			if err != nil {
				return 0, err
			}
			r, err := right(args)
			if err != nil {
				return 0, err
			}
			if r == 0 {
				return 0, ErrDivisionByZero
			}
			return l / r, nil
		}, nil
	case "%":
		return func(args []int64) (int64, error) {
			l, err := left(args)
			if err != nil {
				return 0, err
			}
			r, err := right(args)
			if err != nil {
				return 0, err
			}
			if r == 0 {
				return 0, ErrDivisionByZero
			}
			return l % r, nil
		}, nil
	}
	return nil, fmt.Errorf("operator %s is not compilable", e.Operator)
}

func (c *compiler) intIf(e *ast.IfExpression) (intThunk, error) {
	cond, err := c.boolExpr(e.Condition)
	if err != nil {
		return nil, err
	}
	consequence, err := c.intExpr(e.Consequence)
	if err != nil {
		return nil, err
	}
	alternative, err := c.intExpr(e.Alternative)
	if err != nil {
		return nil, err
	}
	return func(args []int64) (int64, error) {
		b, err := cond(args)
		if err != nil {
			return 0, err
		}
		if b {
			return consequence(args)
		}
		return alternative(args)
	}, nil
}

func (c *compiler) selfCall(e *ast.CallExpression) (intThunk, error) {
	callee, ok := e.Function.(*ast.Identifier)
	if !ok || callee.Value != c.self {
		return nil, fmt.Errorf("only self-recursive calls are compilable")
	}
	argThunks := make([]intThunk, len(e.Arguments))
	for i, arg := range e.Arguments {
		thunk, err := c.intExpr(arg)
		if err != nil {
			return nil, err
		}
		argThunks[i] = thunk
	}
	return func(args []int64) (int64, error) {
		next := make([]int64, len(argThunks))
		for i, thunk := range argThunks {
			v, err := thunk(args)
			if err != nil {
				return 0, err
			}
			next[i] = v
		}
		if c.depth >= config.MaxRecursionDepth {
			return 0, ErrRecursionLimit
		}
		c.depth++
		v, err := c.selfFn(next)
		c.depth--
		return v, err
	}, nil
}

func (c *compiler) block(e *ast.BlockExpression) (intThunk, error) {
	if len(e.Statements) == 0 {
		return nil, fmt.Errorf("empty block is not compilable")
	}
	last, ok := e.Statements[len(e.Statements)-1].(*ast.ExpressionStatement)
	if !ok {
		return nil, fmt.Errorf("block tail is not an expression")
	}
	// Leading statements in an eligible block are pure, so only the tail
	// expression is compiled.
	return c.intExpr(last.Expression)
}

func (c *compiler) boolExpr(expr ast.Expression) (boolThunk, error) {
	switch e := expr.(type) {
	case *ast.BooleanLiteral:
		v := e.Value
		return func([]int64) (bool, error) { return v, nil }, nil

	case *ast.UnaryExpression:
		operand, err := c.boolExpr(e.Operand)
		if err != nil {
			return nil, err
		}
		return func(args []int64) (bool, error) {
			b, err := operand(args)
			return !b, err
		}, nil

	case *ast.BinaryExpression:
		switch e.Operator {
		case "&&", "||":
			left, err := c.boolExpr(e.Left)
			if err != nil {
				return nil, err
			}
			right, err := c.boolExpr(e.Right)
			if err != nil {
				return nil, err
			}
			and := e.Operator == "&&"
			return func(args []int64) (bool, error) {
				l, err := left(args)
				if err != nil {
					return false, err
				}
				if and && !l {
					return false, nil
				}
				if !and && l {
					return true, nil
				}
				return right(args)
			}, nil
		}
		return c.comparison(e)

	case *ast.IfExpression:
		cond, err := c.boolExpr(e.Condition)
		if err != nil {
			return nil, err
		}
		consequence, err := c.boolExpr(e.Consequence)
		if err != nil {
			return nil, err
		}
		alternative, err := c.boolExpr(e.Alternative)
		if err != nil {
			return nil, err
		}
		return func(args []int64) (bool, error) {
			b, err := cond(args)
			if err != nil {
				return false, err
			}
			if b {
				return consequence(args)
			}
			return alternative(args)
		}, nil

	default:
		return nil, fmt.Errorf("expression %T is not a compilable condition", expr)
	}
}

func (c *compiler) comparison(e *ast.BinaryExpression) (boolThunk, error) {
	left, err := c.intExpr(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := c.intExpr(e.Right)
	if err != nil {
		return nil, err
	}

	var cmp func(l, r int64) bool
	switch e.Operator {
	case "==":
		cmp = func(l, r int64) bool { return l == r }
	case "!=":
		cmp = func(l, r int64) bool { return l != r }
	case "<":
		cmp = func(l, r int64) bool { return l < r }
	case "<=":
		cmp = func(l, r int64) bool { return l <= r }
	case ">":
		cmp = func(l, r int64) bool { return l > r }
	case ">=":
		cmp = func(l, r int64) bool { return l >= r }
	default:
		return nil, fmt.Errorf("operator %s is not a compilable comparison", e.Operator)
	}

	return func(args []int64) (bool, error) {
		l, err := left(args)
		if err != nil {
			return false, err
		}
		r, err := right(args)
		if err != nil {
			return false, err
		}
		return cmp(l, r), nil
	}, nil
}
