package analyzer

import (
	"github.com/matrixlang/matrixlang/internal/ast"
	"github.com/matrixlang/matrixlang/internal/diagnostics"
	"github.com/matrixlang/matrixlang/internal/typesystem"
)

func (a *Analyzer) inferStatement(stmt ast.Statement, env *TypeEnv) *diagnostics.Error {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		return a.inferLetStatement(s, env)
	case *ast.AssignStatement:
		return a.inferAssignStatement(s, env)
	case *ast.StructDefinition:
		return a.inferStructDefinition(s, env)
	case *ast.TypeclassDeclaration:
		return a.inferTypeclassDeclaration(s, env)
	case *ast.InstanceDeclaration:
		return a.inferInstanceDeclaration(s, env)
	case *ast.ExpressionStatement:
		_, err := a.inferExpression(s.Expression, env)
		return err
	default:
		return diagnostics.NewError(diagnostics.ErrT001, stmt.GetToken(),
			"cannot type-check statement %q", stmt.TokenLiteral())
	}
}

func (a *Analyzer) inferLetStatement(stmt *ast.LetStatement, env *TypeEnv) *diagnostics.Error {
	// Pre-bind lambda values to a fresh variable so the body can refer to
	// the name recursively.
	_, isLambda := stmt.Value.(*ast.LambdaExpression)
	var recVar typesystem.TVar
	if isLambda {
		recVar = a.fresh()
		env.Set(stmt.Name.Value, typesystem.MonoScheme(recVar), false)
	}

	valueType, err := a.inferExpression(stmt.Value, env)
	if err != nil {
		return err
	}

	if isLambda {
		if err := a.unify(recVar, valueType, stmt.Name.Token); err != nil {
			return err
		}
	}

	if stmt.TypeAnnotation != nil {
		annotated, err := a.convertType(stmt.TypeAnnotation, env, nil)
		if err != nil {
			return err
		}
		if err := a.unify(annotated, valueType, stmt.Name.Token); err != nil {
			return err
		}
	}

	final := a.apply(valueType)
	if isLambda {
		// Retract the recursive pre-binding before generalizing: while it is
		// in scope the lambda's own variables count as free in the
		// environment and the binding stays monomorphic.
		env.Remove(stmt.Name.Value)
	}
	if stmt.Mutable {
		// Mutable bindings stay monomorphic: generalizing a cell that can be
		// reassigned would let two uses disagree about its contents.
		env.Set(stmt.Name.Value, typesystem.MonoScheme(final), true)
	} else {
		env.Set(stmt.Name.Value, a.generalize(env, final), false)
	}
	a.record(stmt, final)
	return nil
}

func (a *Analyzer) inferAssignStatement(stmt *ast.AssignStatement, env *TypeEnv) *diagnostics.Error {
	scheme, ok := env.Get(stmt.Name.Value)
	if !ok {
		return diagnostics.NewError(diagnostics.ErrT003, stmt.Name.Token,
			"unknown identifier %q", stmt.Name.Value)
	}
	if !env.Mutable(stmt.Name.Value) {
		return diagnostics.NewError(diagnostics.ErrT001, stmt.Name.Token,
			"cannot assign to immutable binding %q; declare it with let mut", stmt.Name.Value)
	}

	valueType, err := a.inferExpression(stmt.Value, env)
	if err != nil {
		return err
	}
	if err := a.unify(a.instantiate(scheme), valueType, stmt.Name.Token); err != nil {
		return err
	}
	a.record(stmt, typesystem.UnitType)
	return nil
}

func (a *Analyzer) inferStructDefinition(stmt *ast.StructDefinition, env *TypeEnv) *diagnostics.Error {
	if _, exists := env.Struct(stmt.Name.Value); exists {
		return diagnostics.NewError(diagnostics.ErrT001, stmt.Name.Token,
			"struct %q is already defined", stmt.Name.Value)
	}

	st := typesystem.TStruct{
		Name:   stmt.Name.Value,
		Fields: make(map[string]typesystem.Type, len(stmt.Fields)),
	}
	for _, field := range stmt.Fields {
		if _, dup := st.Fields[field.Name.Value]; dup {
			return diagnostics.NewError(diagnostics.ErrT001, field.Name.Token,
				"duplicate field %q in struct %q", field.Name.Value, st.Name)
		}
		fieldType, err := a.convertType(field.Type, env, nil)
		if err != nil {
			return err
		}
		st.FieldOrder = append(st.FieldOrder, field.Name.Value)
		st.Fields[field.Name.Value] = fieldType
	}
	env.SetStruct(st)
	a.record(stmt, st)
	return nil
}

func (a *Analyzer) inferTypeclassDeclaration(stmt *ast.TypeclassDeclaration, env *TypeEnv) *diagnostics.Error {
	if _, exists := a.classes[stmt.Name.Value]; exists {
		return diagnostics.NewError(diagnostics.ErrT001, stmt.Name.Token,
			"typeclass %q is already declared", stmt.Name.Value)
	}

	param := a.fresh()
	info := &typeclassInfo{
		param:   param,
		methods: make(map[string]typesystem.Scheme, len(stmt.Methods)),
	}
	scope := map[string]typesystem.TVar{stmt.TypeParam.Value: param}

	for _, method := range stmt.Methods {
		sig, err := a.convertType(method.Signature, env, scope)
		if err != nil {
			return err
		}
		scheme := typesystem.Scheme{Vars: []typesystem.TVar{param}, Body: sig}
		info.methods[method.Name.Value] = scheme
		// Method names enter the value namespace as polymorphic bindings;
		// the evaluator dispatches on the first argument's runtime type.
		env.Set(method.Name.Value, scheme, false)
	}
	a.classes[stmt.Name.Value] = info
	a.record(stmt, typesystem.UnitType)
	return nil
}

func (a *Analyzer) inferInstanceDeclaration(stmt *ast.InstanceDeclaration, env *TypeEnv) *diagnostics.Error {
	info, ok := a.classes[stmt.ClassName.Value]
	if !ok {
		return diagnostics.NewError(diagnostics.ErrT003, stmt.ClassName.Token,
			"unknown typeclass %q", stmt.ClassName.Value)
	}

	var concrete typesystem.Type
	if con, isPrim := primitiveTypes[stmt.TypeName.Value]; isPrim {
		concrete = con
	} else if st, isStruct := env.Struct(stmt.TypeName.Value); isStruct {
		concrete = st
	} else {
		return diagnostics.NewError(diagnostics.ErrT003, stmt.TypeName.Token,
			"unknown type %q", stmt.TypeName.Value)
	}

	implemented := make(map[string]bool, len(stmt.Methods))
	for _, method := range stmt.Methods {
		scheme, declared := info.methods[method.Name.Value]
		if !declared {
			return diagnostics.NewError(diagnostics.ErrT003, method.Name.Token,
				"method %q is not declared by typeclass %q", method.Name.Value, stmt.ClassName.Value)
		}
		expected := scheme.Body.Apply(typesystem.Subst{info.param.Name: concrete})

		actual, err := a.inferExpression(method.Value, env)
		if err != nil {
			return err
		}
		if err := a.unify(expected, actual, method.Name.Token); err != nil {
			return err
		}
		implemented[method.Name.Value] = true
	}

	for name := range info.methods {
		if !implemented[name] {
			return diagnostics.NewError(diagnostics.ErrT001, stmt.Token,
				"instance %s %s is missing method %q", stmt.ClassName.Value, stmt.TypeName.Value, name)
		}
	}
	a.record(stmt, typesystem.UnitType)
	return nil
}
