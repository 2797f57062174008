package analyzer

import (
	"github.com/matrixlang/matrixlang/internal/ast"
	"github.com/matrixlang/matrixlang/internal/diagnostics"
	"github.com/matrixlang/matrixlang/internal/typesystem"
)

func (a *Analyzer) inferExpression(expr ast.Expression, env *TypeEnv) (typesystem.Type, *diagnostics.Error) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return a.record(e, typesystem.IntType), nil
	case *ast.FloatLiteral:
		return a.record(e, typesystem.FloatType), nil
	case *ast.BooleanLiteral:
		return a.record(e, typesystem.BoolType), nil
	case *ast.StringLiteral:
		return a.record(e, typesystem.StringType), nil
	case *ast.UnitLiteral:
		return a.record(e, typesystem.UnitType), nil

	case *ast.Identifier:
		t, ok := a.lookupName(e.Value, env)
		if !ok {
			return nil, diagnostics.NewError(diagnostics.ErrT003, e.Token,
				"unknown identifier %q", e.Value)
		}
		return a.record(e, t), nil

	case *ast.UnaryExpression:
		return a.inferUnary(e, env)
	case *ast.BinaryExpression:
		return a.inferBinary(e, env)
	case *ast.RangeExpression:
		return a.inferRange(e, env)
	case *ast.LambdaExpression:
		return a.inferLambda(e, env)
	case *ast.CallExpression:
		return a.inferCall(e, env)
	case *ast.IfExpression:
		return a.inferIf(e, env)
	case *ast.BlockExpression:
		return a.inferBlock(e, env)
	case *ast.MatchExpression:
		return a.inferMatch(e, env)
	case *ast.ArrayLiteral:
		return a.inferArray(e, env)
	case *ast.MatrixLiteral:
		return a.inferMatrix(e, env)
	case *ast.ComprehensionExpression:
		return a.inferComprehension(e, env)
	case *ast.StructLiteral:
		return a.inferStructLiteral(e, env)
	case *ast.FieldAccessExpression:
		return a.inferFieldAccess(e, env)
	case *ast.IndexExpression:
		return a.inferIndex(e, env)

	case *ast.ParallelExpression:
		t, err := a.inferBlock(e.Body, env)
		if err != nil {
			return nil, err
		}
		return a.record(e, t), nil

	case *ast.SpawnExpression:
		t, err := a.inferExpression(e.Body, env)
		if err != nil {
			return nil, err
		}
		return a.record(e, typesystem.THandle{Elem: t}), nil

	case *ast.WaitExpression:
		return a.inferWait(e, env)

	default:
		return nil, diagnostics.NewError(diagnostics.ErrT001, expr.GetToken(),
			"cannot type-check expression %q", expr.TokenLiteral())
	}
}

func (a *Analyzer) inferUnary(e *ast.UnaryExpression, env *TypeEnv) (typesystem.Type, *diagnostics.Error) {
	operand, err := a.inferExpression(e.Operand, env)
	if err != nil {
		return nil, err
	}

	switch e.Operator {
	case "!":
		if err := a.unify(operand, typesystem.BoolType, e.Token); err != nil {
			return nil, err
		}
		return a.record(e, typesystem.BoolType), nil
	case "-":
		t := a.apply(operand)
		if _, isVar := t.(typesystem.TVar); isVar {
			// Unconstrained negation defaults to Int.
			if err := a.unify(t, typesystem.IntType, e.Token); err != nil {
				return nil, err
			}
			t = typesystem.IntType
		}
		if !typesystem.IsNumeric(t) {
			if _, isMatrix := t.(typesystem.TMatrix); !isMatrix {
				return nil, diagnostics.NewError(diagnostics.ErrT001, e.Token,
					"operator - is not defined for %s", t)
			}
		}
		return a.record(e, t), nil
	default:
		return nil, diagnostics.NewError(diagnostics.ErrT001, e.Token,
			"unknown unary operator %s", e.Operator)
	}
}

func (a *Analyzer) inferBinary(e *ast.BinaryExpression, env *TypeEnv) (typesystem.Type, *diagnostics.Error) {
	left, err := a.inferExpression(e.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := a.inferExpression(e.Right, env)
	if err != nil {
		return nil, err
	}

	switch e.Operator {
	case "&&", "||":
		if err := a.unify(left, typesystem.BoolType, e.Left.GetToken()); err != nil {
			return nil, err
		}
		if err := a.unify(right, typesystem.BoolType, e.Right.GetToken()); err != nil {
			return nil, err
		}
		return a.record(e, typesystem.BoolType), nil

	case "==", "!=":
		if err := a.unify(left, right, e.Token); err != nil {
			return nil, err
		}
		return a.record(e, typesystem.BoolType), nil

	case "<", "<=", ">", ">=":
		if err := a.unify(left, right, e.Token); err != nil {
			return nil, err
		}
		t, derr := a.defaultedOperand(left, e)
		if derr != nil {
			return nil, derr
		}
		if !typesystem.IsNumeric(t) && t != typesystem.Type(typesystem.StringType) {
			return nil, diagnostics.NewError(diagnostics.ErrT001, e.Token,
				"operator %s is not defined for %s", e.Operator, t)
		}
		return a.record(e, typesystem.BoolType), nil

	case "%":
		if err := a.unify(left, typesystem.IntType, e.Left.GetToken()); err != nil {
			return nil, err
		}
		if err := a.unify(right, typesystem.IntType, e.Right.GetToken()); err != nil {
			return nil, err
		}
		return a.record(e, typesystem.IntType), nil

	case "+", "-", "*", "/", "^":
		if err := a.unify(left, right, e.Token); err != nil {
			return nil, err
		}
		t, derr := a.defaultedOperand(left, e)
		if derr != nil {
			return nil, derr
		}
		if typesystem.IsNumeric(t) {
			return a.record(e, t), nil
		}
		if t == typesystem.Type(typesystem.StringType) && e.Operator == "+" {
			return a.record(e, t), nil
		}
		if _, isMatrix := t.(typesystem.TMatrix); isMatrix && e.Operator != "/" && e.Operator != "^" {
			return a.record(e, t), nil
		}
		return nil, diagnostics.NewError(diagnostics.ErrT001, e.Token,
			"operator %s is not defined for %s", e.Operator, t)

	default:
		return nil, diagnostics.NewError(diagnostics.ErrT001, e.Token,
			"unknown operator %s", e.Operator)
	}
}

// defaultedOperand resolves an operand type, binding a still-free variable
// to Int. Arithmetic over an unconstrained parameter means Int arithmetic.
func (a *Analyzer) defaultedOperand(t typesystem.Type, e *ast.BinaryExpression) (typesystem.Type, *diagnostics.Error) {
	applied := a.apply(t)
	if _, isVar := applied.(typesystem.TVar); isVar {
		if err := a.unify(applied, typesystem.IntType, e.Token); err != nil {
			return nil, err
		}
		return typesystem.IntType, nil
	}
	return applied, nil
}

func (a *Analyzer) inferRange(e *ast.RangeExpression, env *TypeEnv) (typesystem.Type, *diagnostics.Error) {
	start, err := a.inferExpression(e.Start, env)
	if err != nil {
		return nil, err
	}
	end, err := a.inferExpression(e.End, env)
	if err != nil {
		return nil, err
	}
	if err := a.unify(start, typesystem.IntType, e.Start.GetToken()); err != nil {
		return nil, err
	}
	if err := a.unify(end, typesystem.IntType, e.End.GetToken()); err != nil {
		return nil, err
	}
	return a.record(e, typesystem.RangeType), nil
}

func (a *Analyzer) inferLambda(e *ast.LambdaExpression, env *TypeEnv) (typesystem.Type, *diagnostics.Error) {
	child := env.Extend()
	params := make([]typesystem.Type, len(e.Params))
	for i, param := range e.Params {
		var pt typesystem.Type
		if param.Type != nil {
			converted, err := a.convertType(param.Type, env, nil)
			if err != nil {
				return nil, err
			}
			pt = converted
		} else {
			pt = a.fresh()
		}
		params[i] = pt
		// Parameters are monomorphic inside the body.
		child.Set(param.Name.Value, typesystem.MonoScheme(pt), false)
	}

	body, err := a.inferExpression(e.Body, child)
	if err != nil {
		return nil, err
	}

	fn := typesystem.TFunc{Params: params, Return: body}
	return a.record(e, a.apply(fn)), nil
}

func (a *Analyzer) inferCall(e *ast.CallExpression, env *TypeEnv) (typesystem.Type, *diagnostics.Error) {
	fnType, err := a.inferExpression(e.Function, env)
	if err != nil {
		return nil, err
	}

	args := make([]typesystem.Type, len(e.Arguments))
	for i, arg := range e.Arguments {
		argType, err := a.inferExpression(arg, env)
		if err != nil {
			return nil, err
		}
		args[i] = argType
	}

	ret := a.fresh()
	if err := a.unify(fnType, typesystem.TFunc{Params: args, Return: ret}, e.Token); err != nil {
		return nil, err
	}
	return a.record(e, a.apply(ret)), nil
}

func (a *Analyzer) inferIf(e *ast.IfExpression, env *TypeEnv) (typesystem.Type, *diagnostics.Error) {
	cond, err := a.inferExpression(e.Condition, env)
	if err != nil {
		return nil, err
	}
	if err := a.unify(cond, typesystem.BoolType, e.Condition.GetToken()); err != nil {
		return nil, err
	}

	consequence, err := a.inferExpression(e.Consequence, env)
	if err != nil {
		return nil, err
	}

	if e.Alternative == nil {
		// Without an else branch the whole expression is Unit, so the then
		// branch must be Unit too.
		if err := a.unify(consequence, typesystem.UnitType, e.Token); err != nil {
			return nil, err
		}
		return a.record(e, typesystem.UnitType), nil
	}

	alternative, err := a.inferExpression(e.Alternative, env)
	if err != nil {
		return nil, err
	}
	if err := a.unify(consequence, alternative, e.Token); err != nil {
		return nil, err
	}
	return a.record(e, a.apply(consequence)), nil
}

func (a *Analyzer) inferBlock(e *ast.BlockExpression, env *TypeEnv) (typesystem.Type, *diagnostics.Error) {
	child := env.Extend()
	var result typesystem.Type = typesystem.UnitType
	for i, stmt := range e.Statements {
		if err := a.inferStatement(stmt, child); err != nil {
			return nil, err
		}
		if i == len(e.Statements)-1 {
			if es, ok := stmt.(*ast.ExpressionStatement); ok {
				result = a.typeMap[es.Expression]
			}
		}
	}
	if result == nil {
		result = typesystem.UnitType
	}
	return a.record(e, a.apply(result)), nil
}

func (a *Analyzer) inferMatch(e *ast.MatchExpression, env *TypeEnv) (typesystem.Type, *diagnostics.Error) {
	scrutinee, err := a.inferExpression(e.Expression, env)
	if err != nil {
		return nil, err
	}

	result := a.fresh()
	for _, arm := range e.Arms {
		armEnv := env.Extend()
		if err := a.inferPattern(arm.Pattern, scrutinee, armEnv); err != nil {
			return nil, err
		}
		if arm.Guard != nil {
			guard, err := a.inferExpression(arm.Guard, armEnv)
			if err != nil {
				return nil, err
			}
			if err := a.unify(guard, typesystem.BoolType, arm.Guard.GetToken()); err != nil {
				return nil, err
			}
		}
		body, err := a.inferExpression(arm.Body, armEnv)
		if err != nil {
			return nil, err
		}
		if err := a.unify(result, body, arm.Token); err != nil {
			return nil, err
		}
	}
	return a.record(e, a.apply(result)), nil
}

func (a *Analyzer) inferArray(e *ast.ArrayLiteral, env *TypeEnv) (typesystem.Type, *diagnostics.Error) {
	elem := typesystem.Type(a.fresh())
	for _, el := range e.Elements {
		t, err := a.inferExpression(el, env)
		if err != nil {
			return nil, err
		}
		if err := a.unify(elem, t, el.GetToken()); err != nil {
			return nil, err
		}
	}
	return a.record(e, typesystem.TArray{Elem: a.apply(elem)}), nil
}

// inferMatrix finalizes the parser's matrix shape: numeric elements make a
// Matrix<T>, anything else degrades to an array of arrays.
func (a *Analyzer) inferMatrix(e *ast.MatrixLiteral, env *TypeEnv) (typesystem.Type, *diagnostics.Error) {
	elem := typesystem.Type(a.fresh())
	for _, row := range e.Rows {
		for _, cell := range row {
			t, err := a.inferExpression(cell, env)
			if err != nil {
				return nil, err
			}
			if err := a.unify(elem, t, cell.GetToken()); err != nil {
				return nil, err
			}
		}
	}
	final := a.apply(elem)
	if typesystem.IsNumeric(final) {
		return a.record(e, typesystem.TMatrix{Elem: final}), nil
	}
	return a.record(e, typesystem.TArray{Elem: typesystem.TArray{Elem: final}}), nil
}

func (a *Analyzer) inferComprehension(e *ast.ComprehensionExpression, env *TypeEnv) (typesystem.Type, *diagnostics.Error) {
	child := env.Extend()
	for _, gen := range e.Generators {
		iterable, err := a.inferExpression(gen.Iterable, child)
		if err != nil {
			return nil, err
		}

		var elemType typesystem.Type
		applied := a.apply(iterable)
		if applied == typesystem.Type(typesystem.RangeType) {
			elemType = typesystem.IntType
		} else {
			elem := a.fresh()
			if err := a.unify(iterable, typesystem.TArray{Elem: elem}, gen.Iterable.GetToken()); err != nil {
				return nil, err
			}
			elemType = a.apply(elem)
		}
		child.Set(gen.Variable.Value, typesystem.MonoScheme(elemType), false)

		if gen.Filter != nil {
			filter, err := a.inferExpression(gen.Filter, child)
			if err != nil {
				return nil, err
			}
			if err := a.unify(filter, typesystem.BoolType, gen.Filter.GetToken()); err != nil {
				return nil, err
			}
		}
	}

	element, err := a.inferExpression(e.Element, child)
	if err != nil {
		return nil, err
	}
	return a.record(e, typesystem.TArray{Elem: a.apply(element)}), nil
}

func (a *Analyzer) inferStructLiteral(e *ast.StructLiteral, env *TypeEnv) (typesystem.Type, *diagnostics.Error) {
	st, ok := env.Struct(e.Name.Value)
	if !ok {
		return nil, diagnostics.NewError(diagnostics.ErrT003, e.Name.Token,
			"unknown struct %q", e.Name.Value)
	}

	seen := make(map[string]bool, len(e.Fields))
	for _, field := range e.Fields {
		expected, declared := st.Fields[field.Name.Value]
		if !declared {
			return nil, diagnostics.NewError(diagnostics.ErrT001, field.Name.Token,
				"struct %q has no field %q", st.Name, field.Name.Value)
		}
		if seen[field.Name.Value] {
			return nil, diagnostics.NewError(diagnostics.ErrT001, field.Name.Token,
				"duplicate field %q in struct literal", field.Name.Value)
		}
		seen[field.Name.Value] = true

		actual, err := a.inferExpression(field.Value, env)
		if err != nil {
			return nil, err
		}
		if err := a.unify(expected, actual, field.Name.Token); err != nil {
			return nil, err
		}
	}

	for _, name := range st.FieldOrder {
		if !seen[name] {
			return nil, diagnostics.NewError(diagnostics.ErrT001, e.Token,
				"struct literal %q is missing field %q", st.Name, name)
		}
	}
	return a.record(e, st), nil
}

func (a *Analyzer) inferFieldAccess(e *ast.FieldAccessExpression, env *TypeEnv) (typesystem.Type, *diagnostics.Error) {
	objType, err := a.inferExpression(e.Object, env)
	if err != nil {
		return nil, err
	}

	st, ok := a.apply(objType).(typesystem.TStruct)
	if !ok {
		return nil, diagnostics.NewError(diagnostics.ErrT001, e.Token,
			"field access requires a struct, found %s", a.apply(objType))
	}
	fieldType, ok := st.Fields[e.Field.Value]
	if !ok {
		return nil, diagnostics.NewError(diagnostics.ErrT001, e.Field.Token,
			"struct %q has no field %q", st.Name, e.Field.Value)
	}
	return a.record(e, fieldType), nil
}

func (a *Analyzer) inferIndex(e *ast.IndexExpression, env *TypeEnv) (typesystem.Type, *diagnostics.Error) {
	left, err := a.inferExpression(e.Left, env)
	if err != nil {
		return nil, err
	}
	index, err := a.inferExpression(e.Index, env)
	if err != nil {
		return nil, err
	}
	if err := a.unify(index, typesystem.IntType, e.Index.GetToken()); err != nil {
		return nil, err
	}

	switch t := a.apply(left).(type) {
	case typesystem.TArray:
		return a.record(e, t.Elem), nil
	case typesystem.TMatrix:
		// Indexing a matrix yields a row.
		return a.record(e, typesystem.TArray{Elem: t.Elem}), nil
	case typesystem.TVar:
		elem := a.fresh()
		if err := a.unify(left, typesystem.TArray{Elem: elem}, e.Token); err != nil {
			return nil, err
		}
		return a.record(e, a.apply(elem)), nil
	default:
		return nil, diagnostics.NewError(diagnostics.ErrT001, e.Token,
			"cannot index into %s", t)
	}
}

func (a *Analyzer) inferWait(e *ast.WaitExpression, env *TypeEnv) (typesystem.Type, *diagnostics.Error) {
	elem := typesystem.Type(a.fresh())
	for _, handle := range e.Handles {
		t, err := a.inferExpression(handle, env)
		if err != nil {
			return nil, err
		}
		if err := a.unify(t, typesystem.THandle{Elem: elem}, handle.GetToken()); err != nil {
			return nil, err
		}
	}

	if e.Bracketed {
		return a.record(e, typesystem.TArray{Elem: a.apply(elem)}), nil
	}
	return a.record(e, a.apply(elem)), nil
}
