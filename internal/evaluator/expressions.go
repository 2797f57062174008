package evaluator

import (
	"math"

	"github.com/matrixlang/matrixlang/internal/ast"
	"github.com/matrixlang/matrixlang/internal/diagnostics"
	"github.com/matrixlang/matrixlang/internal/object"
	"github.com/matrixlang/matrixlang/internal/token"
)

func (e *Evaluator) evalUnary(node *ast.UnaryExpression, env *object.Environment) object.Object {
	operand := e.evalExpression(node.Operand, env)
	if isError(operand) {
		return operand
	}

	switch node.Operator {
	case "!":
		b, ok := operand.(*object.Boolean)
		if !ok {
			return newError(diagnostics.ErrR003, node.Token,
				"operator ! expects Bool, got %s", object.RuntimeTypeName(operand))
		}
		return &object.Boolean{Value: !b.Value}
	case "-":
		switch o := operand.(type) {
		case *object.Integer:
			return &object.Integer{Value: -o.Value}
		case *object.Float:
			return &object.Float{Value: -o.Value}
		case *object.Matrix:
			rows := make([][]object.Object, len(o.Rows))
			for i, row := range o.Rows {
				rows[i] = make([]object.Object, len(row))
				for j, cell := range row {
					negated := e.evalUnaryCell(cell, node.Token)
					if isError(negated) {
						return negated
					}
					rows[i][j] = negated
				}
			}
			return &object.Matrix{Rows: rows}
		}
		return newError(diagnostics.ErrR003, node.Token,
			"operator - is not defined for %s", object.RuntimeTypeName(operand))
	}
	return newError(diagnostics.ErrR003, node.Token, "unknown operator %s", node.Operator)
}

func (e *Evaluator) evalUnaryCell(cell object.Object, tok token.Token) object.Object {
	switch c := cell.(type) {
	case *object.Integer:
		return &object.Integer{Value: -c.Value}
	case *object.Float:
		return &object.Float{Value: -c.Value}
	}
	return newError(diagnostics.ErrR003, tok,
		"matrix cell is not numeric: %s", object.RuntimeTypeName(cell))
}

func (e *Evaluator) evalBinary(node *ast.BinaryExpression, env *object.Environment) object.Object {
	left := e.evalExpression(node.Left, env)
	if isError(left) {
		return left
	}

	// && and || short-circuit: the right operand only runs when needed.
	if node.Operator == "&&" || node.Operator == "||" {
		return e.evalLogical(node, left, env)
	}

	right := e.evalExpression(node.Right, env)
	if isError(right) {
		return right
	}

	switch node.Operator {
	case "==":
		return &object.Boolean{Value: equals(left, right)}
	case "!=":
		return &object.Boolean{Value: !equals(left, right)}
	}

	switch l := left.(type) {
	case *object.Integer:
		if r, ok := right.(*object.Integer); ok {
			return intBinary(node.Operator, l.Value, r.Value, node.Token)
		}
	case *object.Float:
		if r, ok := right.(*object.Float); ok {
			return floatBinary(node.Operator, l.Value, r.Value, node.Token)
		}
	case *object.String:
		if r, ok := right.(*object.String); ok {
			return stringBinary(node.Operator, l.Value, r.Value, node.Token)
		}
	case *object.Matrix:
		if r, ok := right.(*object.Matrix); ok {
			return e.matrixBinary(node.Operator, l, r, node.Token)
		}
	}

	return newError(diagnostics.ErrR003, node.Token,
		"operator %s is not defined for %s and %s",
		node.Operator, object.RuntimeTypeName(left), object.RuntimeTypeName(right))
}

func (e *Evaluator) evalLogical(node *ast.BinaryExpression, left object.Object, env *object.Environment) object.Object {
	lb, ok := left.(*object.Boolean)
	if !ok {
		return newError(diagnostics.ErrR003, node.Token,
			"operator %s expects Bool, got %s", node.Operator, object.RuntimeTypeName(left))
	}
	if node.Operator == "&&" && !lb.Value {
		return &object.Boolean{Value: false}
	}
	if node.Operator == "||" && lb.Value {
		return &object.Boolean{Value: true}
	}

	right := e.evalExpression(node.Right, env)
	if isError(right) {
		return right
	}
	rb, ok := right.(*object.Boolean)
	if !ok {
		return newError(diagnostics.ErrR003, node.Token,
			"operator %s expects Bool, got %s", node.Operator, object.RuntimeTypeName(right))
	}
	return &object.Boolean{Value: rb.Value}
}

func intBinary(op string, l, r int64, tok token.Token) object.Object {
	switch op {
	case "+":
		return &object.Integer{Value: l + r}
	case "-":
		return &object.Integer{Value: l - r}
	case "*":
		return &object.Integer{Value: l * r}
	case "/":
		if r == 0 {
			return newError(diagnostics.ErrR001, tok, "division by zero")
		}
		return &object.Integer{Value: l / r}
	case "%":
		if r == 0 {
			return newError(diagnostics.ErrR001, tok, "modulo by zero")
		}
		return &object.Integer{Value: l % r}
	case "^":
		return intPow(l, r, tok)
	case "<":
		return &object.Boolean{Value: l < r}
	case "<=":
		return &object.Boolean{Value: l <= r}
	case ">":
		return &object.Boolean{Value: l > r}
	case ">=":
		return &object.Boolean{Value: l >= r}
	}
	return newError(diagnostics.ErrR003, tok, "operator %s is not defined for Int", op)
}

func intPow(base, exp int64, tok token.Token) object.Object {
	if exp < 0 {
		return newError(diagnostics.ErrR003, tok,
			"negative exponent %d in Int power; use Float operands", exp)
	}
	result := int64(1)
	for ; exp > 0; exp-- {
		result *= base
	}
	return &object.Integer{Value: result}
}

func floatBinary(op string, l, r float64, tok token.Token) object.Object {
	switch op {
	case "+":
		return &object.Float{Value: l + r}
	case "-":
		return &object.Float{Value: l - r}
	case "*":
		return &object.Float{Value: l * r}
	case "/":
		if r == 0 {
			return newError(diagnostics.ErrR001, tok, "division by zero")
		}
		return &object.Float{Value: l / r}
	case "^":
		return &object.Float{Value: math.Pow(l, r)}
	case "<":
		return &object.Boolean{Value: l < r}
	case "<=":
		return &object.Boolean{Value: l <= r}
	case ">":
		return &object.Boolean{Value: l > r}
	case ">=":
		return &object.Boolean{Value: l >= r}
	}
	return newError(diagnostics.ErrR003, tok, "operator %s is not defined for Float", op)
}

func stringBinary(op string, l, r string, tok token.Token) object.Object {
	switch op {
	case "+":
		return &object.String{Value: l + r}
	case "<":
		return &object.Boolean{Value: l < r}
	case "<=":
		return &object.Boolean{Value: l <= r}
	case ">":
		return &object.Boolean{Value: l > r}
	case ">=":
		return &object.Boolean{Value: l >= r}
	}
	return newError(diagnostics.ErrR003, tok, "operator %s is not defined for String", op)
}

// matrixBinary: + and - are elementwise over equal shapes, * is matrix
// multiplication. Division and power are not defined for matrices.
func (e *Evaluator) matrixBinary(op string, l, r *object.Matrix, tok token.Token) object.Object {
	switch op {
	case "+", "-":
		return matrixElementwise(op, l, r, tok)
	case "*":
		return matrixMultiply(l, r, tok)
	}
	return newError(diagnostics.ErrR003, tok, "operator %s is not defined for Matrix", op)
}

func matrixElementwise(op string, l, r *object.Matrix, tok token.Token) object.Object {
	if len(l.Rows) != len(r.Rows) {
		return newError(diagnostics.ErrR003, tok,
			"matrix shapes differ: %d and %d rows", len(l.Rows), len(r.Rows))
	}
	rows := make([][]object.Object, len(l.Rows))
	for i := range l.Rows {
		if len(l.Rows[i]) != len(r.Rows[i]) {
			return newError(diagnostics.ErrR003, tok,
				"matrix shapes differ in row %d: %d and %d columns", i, len(l.Rows[i]), len(r.Rows[i]))
		}
		rows[i] = make([]object.Object, len(l.Rows[i]))
		for j := range l.Rows[i] {
			cell := numericCell(op, l.Rows[i][j], r.Rows[i][j], tok)
			if isError(cell) {
				return cell
			}
			rows[i][j] = cell
		}
	}
	return &object.Matrix{Rows: rows}
}

func matrixMultiply(l, r *object.Matrix, tok token.Token) object.Object {
	if len(l.Rows) == 0 || len(r.Rows) == 0 {
		return &object.Matrix{}
	}
	rowsA, colsA := len(l.Rows), len(l.Rows[0])
	rowsB, colsB := len(r.Rows), len(r.Rows[0])
	if colsA != rowsB {
		return newError(diagnostics.ErrR003, tok,
			"matrix dimensions incompatible: %dx%d and %dx%d", rowsA, colsA, rowsB, colsB)
	}

	rows := make([][]object.Object, rowsA)
	for i := 0; i < rowsA; i++ {
		rows[i] = make([]object.Object, colsB)
		for j := 0; j < colsB; j++ {
			var sum object.Object
			for k := 0; k < colsA; k++ {
				product := numericCell("*", l.Rows[i][k], r.Rows[k][j], tok)
				if isError(product) {
					return product
				}
				if sum == nil {
					sum = product
					continue
				}
				sum = numericCell("+", sum, product, tok)
				if isError(sum) {
					return sum
				}
			}
			rows[i][j] = sum
		}
	}
	return &object.Matrix{Rows: rows}
}

func numericCell(op string, a, b object.Object, tok token.Token) object.Object {
	if ai, ok := a.(*object.Integer); ok {
		if bi, ok := b.(*object.Integer); ok {
			return intBinary(op, ai.Value, bi.Value, tok)
		}
	}
	if af, ok := a.(*object.Float); ok {
		if bf, ok := b.(*object.Float); ok {
			return floatBinary(op, af.Value, bf.Value, tok)
		}
	}
	return newError(diagnostics.ErrR003, tok,
		"matrix cells must share one numeric type, got %s and %s",
		object.RuntimeTypeName(a), object.RuntimeTypeName(b))
}

// equals is deep structural equality; struct values compare field by field.
func equals(a, b object.Object) bool {
	switch av := a.(type) {
	case *object.Integer:
		bv, ok := b.(*object.Integer)
		return ok && av.Value == bv.Value
	case *object.Float:
		bv, ok := b.(*object.Float)
		return ok && av.Value == bv.Value
	case *object.Boolean:
		bv, ok := b.(*object.Boolean)
		return ok && av.Value == bv.Value
	case *object.String:
		bv, ok := b.(*object.String)
		return ok && av.Value == bv.Value
	case *object.Unit:
		_, ok := b.(*object.Unit)
		return ok
	case *object.Array:
		bv, ok := b.(*object.Array)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !equals(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *object.Matrix:
		bv, ok := b.(*object.Matrix)
		if !ok || len(av.Rows) != len(bv.Rows) {
			return false
		}
		for i := range av.Rows {
			if len(av.Rows[i]) != len(bv.Rows[i]) {
				return false
			}
			for j := range av.Rows[i] {
				if !equals(av.Rows[i][j], bv.Rows[i][j]) {
					return false
				}
			}
		}
		return true
	case *object.StructInstance:
		bv, ok := b.(*object.StructInstance)
		if !ok || av.Name != bv.Name {
			return false
		}
		for name, field := range av.Fields {
			if !equals(field, bv.Fields[name]) {
				return false
			}
		}
		return true
	case *object.Range:
		bv, ok := b.(*object.Range)
		return ok && av.Start == bv.Start && av.End == bv.End && av.Inclusive == bv.Inclusive
	case *object.Handle:
		bv, ok := b.(*object.Handle)
		return ok && av.Kind == bv.Kind && av.ID == bv.ID
	}
	return a == b
}

func (e *Evaluator) evalRange(node *ast.RangeExpression, env *object.Environment) object.Object {
	start := e.evalExpression(node.Start, env)
	if isError(start) {
		return start
	}
	end := e.evalExpression(node.End, env)
	if isError(end) {
		return end
	}
	si, ok1 := start.(*object.Integer)
	ei, ok2 := end.(*object.Integer)
	if !ok1 || !ok2 {
		return newError(diagnostics.ErrR003, node.Token, "range bounds must be Int")
	}
	return &object.Range{Start: si.Value, End: ei.Value, Inclusive: node.Inclusive}
}

func (e *Evaluator) evalArray(node *ast.ArrayLiteral, env *object.Environment) object.Object {
	elements := make([]object.Object, len(node.Elements))
	for i, el := range node.Elements {
		value := e.evalExpression(el, env)
		if isError(value) {
			return value
		}
		elements[i] = value
	}
	return &object.Array{Elements: elements}
}

// evalMatrix mirrors the checker's rule: numeric cells form a Matrix, any
// other element type falls back to an array of arrays.
func (e *Evaluator) evalMatrix(node *ast.MatrixLiteral, env *object.Environment) object.Object {
	rows := make([][]object.Object, len(node.Rows))
	numeric := true
	for i, row := range node.Rows {
		rows[i] = make([]object.Object, len(row))
		for j, cell := range row {
			value := e.evalExpression(cell, env)
			if isError(value) {
				return value
			}
			switch value.(type) {
			case *object.Integer, *object.Float:
			default:
				numeric = false
			}
			rows[i][j] = value
		}
	}

	if numeric {
		return &object.Matrix{Rows: rows}
	}
	outer := make([]object.Object, len(rows))
	for i, row := range rows {
		outer[i] = &object.Array{Elements: row}
	}
	return &object.Array{Elements: outer}
}

func (e *Evaluator) evalComprehension(node *ast.ComprehensionExpression, env *object.Environment) object.Object {
	var out []object.Object
	if err := e.runGenerators(node, 0, env, &out); err != nil {
		return err
	}
	return &object.Array{Elements: out}
}

func (e *Evaluator) runGenerators(node *ast.ComprehensionExpression, idx int, env *object.Environment, out *[]object.Object) *object.Error {
	if idx == len(node.Generators) {
		value := e.evalExpression(node.Element, env)
		if err, ok := value.(*object.Error); ok {
			return err
		}
		*out = append(*out, value)
		return nil
	}

	gen := node.Generators[idx]
	iterable := e.evalExpression(gen.Iterable, env)
	if err, ok := iterable.(*object.Error); ok {
		return err
	}

	iterate := func(item object.Object) *object.Error {
		child := object.NewEnclosedEnvironment(env)
		child.Set(gen.Variable.Value, item)
		if gen.Filter != nil {
			keep := e.evalExpression(gen.Filter, child)
			if err, ok := keep.(*object.Error); ok {
				return err
			}
			b, ok := keep.(*object.Boolean)
			if !ok {
				return newError(diagnostics.ErrR003, gen.Filter.GetToken(),
					"comprehension filter must be Bool, got %s", object.RuntimeTypeName(keep))
			}
			if !b.Value {
				return nil
			}
		}
		return e.runGenerators(node, idx+1, child, out)
	}

	switch it := iterable.(type) {
	case *object.Range:
		end := it.End
		if it.Inclusive {
			end++
		}
		for v := it.Start; v < end; v++ {
			if err := iterate(&object.Integer{Value: v}); err != nil {
				return err
			}
		}
		return nil
	case *object.Array:
		for _, item := range it.Elements {
			if err := iterate(item); err != nil {
				return err
			}
		}
		return nil
	default:
		return newError(diagnostics.ErrR003, gen.Iterable.GetToken(),
			"comprehension generator expects an array or range, got %s", object.RuntimeTypeName(iterable))
	}
}

func (e *Evaluator) evalStructLiteral(node *ast.StructLiteral, env *object.Environment) object.Object {
	instance := &object.StructInstance{
		Name:   node.Name.Value,
		Fields: make(map[string]object.Object, len(node.Fields)),
	}
	for _, field := range node.Fields {
		value := e.evalExpression(field.Value, env)
		if isError(value) {
			return value
		}
		instance.FieldOrder = append(instance.FieldOrder, field.Name.Value)
		instance.Fields[field.Name.Value] = value
	}
	return instance
}

func (e *Evaluator) evalFieldAccess(node *ast.FieldAccessExpression, env *object.Environment) object.Object {
	obj := e.evalExpression(node.Object, env)
	if isError(obj) {
		return obj
	}
	instance, ok := obj.(*object.StructInstance)
	if !ok {
		return newError(diagnostics.ErrR003, node.Token,
			"field access expects a struct, got %s", object.RuntimeTypeName(obj))
	}
	value, ok := instance.Fields[node.Field.Value]
	if !ok {
		return newError(diagnostics.ErrR003, node.Field.Token,
			"struct %s has no field %q", instance.Name, node.Field.Value)
	}
	return value
}

func (e *Evaluator) evalIndex(node *ast.IndexExpression, env *object.Environment) object.Object {
	left := e.evalExpression(node.Left, env)
	if isError(left) {
		return left
	}
	index := e.evalExpression(node.Index, env)
	if isError(index) {
		return index
	}
	idx, ok := index.(*object.Integer)
	if !ok {
		return newError(diagnostics.ErrR003, node.Token,
			"index must be Int, got %s", object.RuntimeTypeName(index))
	}

	switch container := left.(type) {
	case *object.Array:
		if idx.Value < 0 || idx.Value >= int64(len(container.Elements)) {
			return newError(diagnostics.ErrR004, node.Token,
				"index %d out of bounds for array of length %d", idx.Value, len(container.Elements))
		}
		return container.Elements[idx.Value]
	case *object.Matrix:
		if idx.Value < 0 || idx.Value >= int64(len(container.Rows)) {
			return newError(diagnostics.ErrR004, node.Token,
				"row %d out of bounds for matrix with %d rows", idx.Value, len(container.Rows))
		}
		return &object.Array{Elements: container.Rows[idx.Value]}
	default:
		return newError(diagnostics.ErrR003, node.Token,
			"cannot index into %s", object.RuntimeTypeName(left))
	}
}
