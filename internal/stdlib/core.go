// Package stdlib registers the builtin functions: the core printing and
// collection helpers, the math module, and the physics and quantum
// collaborators. Everything goes through the registry so the type checker
// and the interpreter always agree on what is callable.
package stdlib

import (
	"fmt"
	"io"

	"github.com/matrixlang/matrixlang/internal/config"
	"github.com/matrixlang/matrixlang/internal/diagnostics"
	"github.com/matrixlang/matrixlang/internal/object"
	"github.com/matrixlang/matrixlang/internal/registry"
	"github.com/matrixlang/matrixlang/internal/typesystem"
)

// NewRegistry builds a fully populated registry for one session. Builtins
// that produce output capture out at registration time.
func NewRegistry(out io.Writer) *registry.Registry {
	reg := registry.New()
	registerCore(reg, out)
	registerMath(reg)
	NewPhysics().Register(reg)
	NewQuantum().Register(reg)
	return reg
}

func mono(params []typesystem.Type, ret typesystem.Type) typesystem.Scheme {
	return typesystem.MonoScheme(typesystem.TFunc{Params: params, Return: ret})
}

// poly1 builds forall a. (a) -> ret schemes (print, str and friends).
func poly1(ret func(a typesystem.TVar) typesystem.Type) typesystem.Scheme {
	a := typesystem.TVar{Name: "a"}
	return typesystem.Scheme{
		Vars: []typesystem.TVar{a},
		Body: typesystem.TFunc{Params: []typesystem.Type{a}, Return: ret(a)},
	}
}

// poly2 builds forall a. (a, a) -> a schemes (min, max).
func poly2() typesystem.Scheme {
	a := typesystem.TVar{Name: "a"}
	return typesystem.Scheme{
		Vars: []typesystem.TVar{a},
		Body: typesystem.TFunc{Params: []typesystem.Type{a, a}, Return: a},
	}
}

func argCountError(name string, want, got int) *object.Error {
	return &object.Error{
		Code:    diagnostics.ErrR003,
		Message: fmt.Sprintf("%s expects %d argument(s), got %d", name, want, got),
	}
}

func argTypeError(name, want string, got object.Object) *object.Error {
	return &object.Error{
		Code:    diagnostics.ErrR003,
		Message: fmt.Sprintf("%s expects %s, got %s", name, want, object.RuntimeTypeName(got)),
	}
}

func registerCore(reg *registry.Registry, out io.Writer) {
	unit := &object.Unit{}

	reg.MustRegister(config.PrintFuncName,
		poly1(func(typesystem.TVar) typesystem.Type { return typesystem.UnitType }),
		func(args ...object.Object) object.Object {
			if len(args) != 1 {
				return argCountError(config.PrintFuncName, 1, len(args))
			}
			fmt.Fprint(out, args[0].Inspect())
			return unit
		})

	reg.MustRegister(config.PrintlnFuncName,
		poly1(func(typesystem.TVar) typesystem.Type { return typesystem.UnitType }),
		func(args ...object.Object) object.Object {
			if len(args) != 1 {
				return argCountError(config.PrintlnFuncName, 1, len(args))
			}
			fmt.Fprintln(out, args[0].Inspect())
			return unit
		})

	reg.MustRegister(config.StrFuncName,
		poly1(func(typesystem.TVar) typesystem.Type { return typesystem.StringType }),
		func(args ...object.Object) object.Object {
			if len(args) != 1 {
				return argCountError(config.StrFuncName, 1, len(args))
			}
			return &object.String{Value: args[0].Inspect()}
		})

	reg.MustRegister(config.LenFuncName,
		poly1(func(typesystem.TVar) typesystem.Type { return typesystem.IntType }),
		func(args ...object.Object) object.Object {
			if len(args) != 1 {
				return argCountError(config.LenFuncName, 1, len(args))
			}
			switch arg := args[0].(type) {
			case *object.Array:
				return &object.Integer{Value: int64(len(arg.Elements))}
			case *object.Matrix:
				return &object.Integer{Value: int64(len(arg.Rows))}
			case *object.String:
				return &object.Integer{Value: int64(len(arg.Value))}
			case *object.Range:
				return &object.Integer{Value: arg.Len()}
			default:
				return argTypeError(config.LenFuncName, "an array, matrix, string or range", args[0])
			}
		})
}
