package analyzer

import (
	"github.com/matrixlang/matrixlang/internal/ast"
	"github.com/matrixlang/matrixlang/internal/diagnostics"
	"github.com/matrixlang/matrixlang/internal/typesystem"
)

var primitiveTypes = map[string]typesystem.TCon{
	"Int":    typesystem.IntType,
	"Float":  typesystem.FloatType,
	"Bool":   typesystem.BoolType,
	"String": typesystem.StringType,
	"Unit":   typesystem.UnitType,
}

// convertType turns a syntactic annotation into a typesystem type. Lowercase
// names are type variables scoped to the enclosing declaration (typeclass
// signatures); scope collects them so repeated occurrences agree.
func (a *Analyzer) convertType(t ast.Type, env *TypeEnv, scope map[string]typesystem.TVar) (typesystem.Type, *diagnostics.Error) {
	switch ty := t.(type) {
	case *ast.NamedType:
		name := ty.Name.Value
		if con, ok := primitiveTypes[name]; ok {
			return con, nil
		}
		if st, ok := env.Struct(name); ok {
			return st, nil
		}
		if isLowerName(name) {
			if scope != nil {
				if tv, ok := scope[name]; ok {
					return tv, nil
				}
				tv := a.fresh()
				scope[name] = tv
				return tv, nil
			}
			return nil, diagnostics.NewError(diagnostics.ErrT003, ty.Token,
				"type variable %q is not in scope here", name)
		}
		return nil, diagnostics.NewError(diagnostics.ErrT003, ty.Token,
			"unknown type %q", name)

	case *ast.ArrayType:
		elem, err := a.convertType(ty.Element, env, scope)
		if err != nil {
			return nil, err
		}
		return typesystem.TArray{Elem: elem}, nil

	case *ast.MatrixType:
		elem, err := a.convertType(ty.Element, env, scope)
		if err != nil {
			return nil, err
		}
		if !typesystem.IsNumeric(elem) {
			if _, isVar := elem.(typesystem.TVar); !isVar {
				return nil, diagnostics.NewError(diagnostics.ErrT001, ty.Token,
					"matrix element type must be Int or Float, found %s", elem)
			}
		}
		return typesystem.TMatrix{Elem: elem}, nil

	case *ast.FunctionType:
		params := make([]typesystem.Type, len(ty.Parameters))
		for i, p := range ty.Parameters {
			converted, err := a.convertType(p, env, scope)
			if err != nil {
				return nil, err
			}
			params[i] = converted
		}
		ret, err := a.convertType(ty.ReturnType, env, scope)
		if err != nil {
			return nil, err
		}
		return typesystem.TFunc{Params: params, Return: ret}, nil

	default:
		return nil, diagnostics.NewError(diagnostics.ErrT001, t.GetToken(),
			"unsupported type annotation")
	}
}

func isLowerName(name string) bool {
	return len(name) > 0 && name[0] >= 'a' && name[0] <= 'z'
}
