package stdlib

import (
	"math"

	"github.com/matrixlang/matrixlang/internal/object"
	"github.com/matrixlang/matrixlang/internal/registry"
	"github.com/matrixlang/matrixlang/internal/typesystem"
)

var (
	floatT = typesystem.Type(typesystem.FloatType)
	intT   = typesystem.Type(typesystem.IntType)
)

// registerFloatFn wires a (Float) -> Float builtin. Int arguments are
// widened so sqrt(16) and sqrt(16.0) both work at runtime.
func registerFloatFn(reg *registry.Registry, name string, fn func(float64) float64) {
	reg.MustRegister(name, mono([]typesystem.Type{floatT}, floatT),
		func(args ...object.Object) object.Object {
			if len(args) != 1 {
				return argCountError(name, 1, len(args))
			}
			x, ok := toFloat(args[0])
			if !ok {
				return argTypeError(name, "Float", args[0])
			}
			return &object.Float{Value: fn(x)}
		})
}

func registerFloatToIntFn(reg *registry.Registry, name string, fn func(float64) float64) {
	reg.MustRegister(name, mono([]typesystem.Type{floatT}, intT),
		func(args ...object.Object) object.Object {
			if len(args) != 1 {
				return argCountError(name, 1, len(args))
			}
			x, ok := toFloat(args[0])
			if !ok {
				return argTypeError(name, "Float", args[0])
			}
			return &object.Integer{Value: int64(fn(x))}
		})
}

func registerConstant(reg *registry.Registry, name string, value float64) {
	reg.MustRegister(name, typesystem.MonoScheme(typesystem.FloatType),
		func(args ...object.Object) object.Object {
			return &object.Float{Value: value}
		})
}

func toFloat(obj object.Object) (float64, bool) {
	switch o := obj.(type) {
	case *object.Float:
		return o.Value, true
	case *object.Integer:
		return float64(o.Value), true
	default:
		return 0, false
	}
}

func registerMath(reg *registry.Registry) {
	registerFloatFn(reg, "sqrt", math.Sqrt)
	registerFloatFn(reg, "sin", math.Sin)
	registerFloatFn(reg, "cos", math.Cos)
	registerFloatFn(reg, "tan", math.Tan)
	registerFloatFn(reg, "exp", math.Exp)
	registerFloatFn(reg, "log", math.Log)

	registerFloatToIntFn(reg, "floor", math.Floor)
	registerFloatToIntFn(reg, "ceil", math.Ceil)
	registerFloatToIntFn(reg, "round", math.Round)

	registerConstant(reg, "pi", math.Pi)
	registerConstant(reg, "e", math.E)
	registerConstant(reg, "tau", 2*math.Pi)

	reg.MustRegister("pow", mono([]typesystem.Type{floatT, floatT}, floatT),
		func(args ...object.Object) object.Object {
			if len(args) != 2 {
				return argCountError("pow", 2, len(args))
			}
			base, ok1 := toFloat(args[0])
			exp, ok2 := toFloat(args[1])
			if !ok1 {
				return argTypeError("pow", "Float", args[0])
			}
			if !ok2 {
				return argTypeError("pow", "Float", args[1])
			}
			return &object.Float{Value: math.Pow(base, exp)}
		})

	// abs keeps the argument's type: abs(-15) is Int 15, abs(-1.5) is 1.5.
	reg.MustRegister("abs", poly1(func(a typesystem.TVar) typesystem.Type { return a }),
		func(args ...object.Object) object.Object {
			if len(args) != 1 {
				return argCountError("abs", 1, len(args))
			}
			switch arg := args[0].(type) {
			case *object.Integer:
				if arg.Value < 0 {
					return &object.Integer{Value: -arg.Value}
				}
				return arg
			case *object.Float:
				return &object.Float{Value: math.Abs(arg.Value)}
			default:
				return argTypeError("abs", "Int or Float", args[0])
			}
		})

	reg.MustRegister("min", poly2(), minMaxImpl("min", func(a, b float64) bool { return a <= b }))
	reg.MustRegister("max", poly2(), minMaxImpl("max", func(a, b float64) bool { return a >= b }))
}

func minMaxImpl(name string, pick func(a, b float64) bool) object.BuiltinFunc {
	return func(args ...object.Object) object.Object {
		if len(args) != 2 {
			return argCountError(name, 2, len(args))
		}
		a, ok1 := toFloat(args[0])
		b, ok2 := toFloat(args[1])
		if !ok1 {
			return argTypeError(name, "Int or Float", args[0])
		}
		if !ok2 {
			return argTypeError(name, "Int or Float", args[1])
		}
		if pick(a, b) {
			return args[0]
		}
		return args[1]
	}
}
