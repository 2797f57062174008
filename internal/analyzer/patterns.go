package analyzer

import (
	"github.com/matrixlang/matrixlang/internal/ast"
	"github.com/matrixlang/matrixlang/internal/diagnostics"
	"github.com/matrixlang/matrixlang/internal/typesystem"
)

// inferPattern checks a match pattern against the scrutinee type and binds
// the names it introduces into the arm's environment.
func (a *Analyzer) inferPattern(pattern ast.Pattern, scrutinee typesystem.Type, env *TypeEnv) *diagnostics.Error {
	switch p := pattern.(type) {
	case *ast.WildcardPattern:
		return nil

	case *ast.IdentifierPattern:
		env.Set(p.Name.Value, typesystem.MonoScheme(a.apply(scrutinee)), false)
		return nil

	case *ast.LiteralPattern:
		var litType typesystem.Type
		switch p.Value.(type) {
		case *ast.IntegerLiteral:
			litType = typesystem.IntType
		case *ast.FloatLiteral:
			litType = typesystem.FloatType
		case *ast.BooleanLiteral:
			litType = typesystem.BoolType
		case *ast.StringLiteral:
			litType = typesystem.StringType
		default:
			return diagnostics.NewError(diagnostics.ErrT001, p.Token,
				"unsupported literal pattern")
		}
		return a.unify(scrutinee, litType, p.Token)

	case *ast.ArrayPattern:
		elem := a.fresh()
		if err := a.unify(scrutinee, typesystem.TArray{Elem: elem}, p.Token); err != nil {
			return err
		}
		for _, el := range p.Elements {
			if err := a.inferPattern(el, elem, env); err != nil {
				return err
			}
		}
		return nil

	case *ast.StructPattern:
		st, ok := env.Struct(p.Name.Value)
		if !ok {
			return diagnostics.NewError(diagnostics.ErrT003, p.Name.Token,
				"unknown struct %q", p.Name.Value)
		}
		if err := a.unify(scrutinee, st, p.Token); err != nil {
			return err
		}
		for _, field := range p.Fields {
			fieldType, declared := st.Fields[field.Name.Value]
			if !declared {
				return diagnostics.NewError(diagnostics.ErrT001, field.Name.Token,
					"struct %q has no field %q", st.Name, field.Name.Value)
			}
			if err := a.inferPattern(field.Pattern, fieldType, env); err != nil {
				return err
			}
		}
		return nil

	default:
		return diagnostics.NewError(diagnostics.ErrT001, pattern.GetToken(),
			"unsupported pattern")
	}
}
