package object

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matrixlang/matrixlang/internal/ast"
	"github.com/matrixlang/matrixlang/internal/typesystem"
)

type ObjectType string

const (
	INTEGER_OBJ  = "INTEGER"
	FLOAT_OBJ    = "FLOAT"
	BOOLEAN_OBJ  = "BOOLEAN"
	STRING_OBJ   = "STRING"
	UNIT_OBJ     = "UNIT"
	ARRAY_OBJ    = "ARRAY"
	MATRIX_OBJ   = "MATRIX"
	STRUCT_OBJ   = "STRUCT"
	FUNCTION_OBJ = "FUNCTION"
	BUILTIN_OBJ  = "BUILTIN"
	HANDLE_OBJ   = "HANDLE"
	RANGE_OBJ    = "RANGE"
	ERROR_OBJ    = "ERROR"
)

// Object is the interface all runtime values implement.
type Object interface {
	Type() ObjectType
	Inspect() string
}

// BuiltinFunc is the implementation half of a registry entry.
type BuiltinFunc func(args ...Object) Object

type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return strconv.FormatInt(i.Value, 10) }

type Float struct {
	Value float64
}

func (f *Float) Type() ObjectType { return FLOAT_OBJ }
func (f *Float) Inspect() string {
	s := strconv.FormatFloat(f.Value, 'g', -1, 64)
	// Keep a trailing ".0" so Float(4) prints as 4.0, not 4.
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

type Unit struct{}

func (u *Unit) Type() ObjectType { return UNIT_OBJ }
func (u *Unit) Inspect() string  { return "()" }

type Array struct {
	Elements []Object
}

func (a *Array) Type() ObjectType { return ARRAY_OBJ }
func (a *Array) Inspect() string {
	elements := make([]string, len(a.Elements))
	for i, el := range a.Elements {
		elements[i] = el.Inspect()
	}
	return "[" + strings.Join(elements, ", ") + "]"
}

// Matrix is a rectangular 2D value with numeric elements. Rows are
// guaranteed equal length by the literal rule shared with the checker.
type Matrix struct {
	Rows [][]Object
}

func (m *Matrix) Type() ObjectType { return MATRIX_OBJ }
func (m *Matrix) Inspect() string {
	rows := make([]string, len(m.Rows))
	for i, row := range m.Rows {
		elements := make([]string, len(row))
		for j, el := range row {
			elements[j] = el.Inspect()
		}
		rows[i] = "[" + strings.Join(elements, ", ") + "]"
	}
	return "[" + strings.Join(rows, ", ") + "]"
}

// StructInstance is a value of a declared struct type.
type StructInstance struct {
	Name       string
	FieldOrder []string
	Fields     map[string]Object
}

func (s *StructInstance) Type() ObjectType { return STRUCT_OBJ }
func (s *StructInstance) Inspect() string {
	fields := make([]string, len(s.FieldOrder))
	for i, name := range s.FieldOrder {
		fields[i] = fmt.Sprintf("%s: %s", name, s.Fields[name].Inspect())
	}
	return fmt.Sprintf("%s { %s }", s.Name, strings.Join(fields, ", "))
}

// Function is a closure: parameters, body, and the frame in effect at its
// definition site. The captured frame is shared with the defining scope;
// Go's runtime provides the joint ownership the data model requires.
type Function struct {
	Name   string // non-empty for let-bound lambdas; used by the JIT pass
	Params []*ast.Parameter
	Body   ast.Expression
	Env    *Environment
	Gpu    bool
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Name.Value
	}
	return fmt.Sprintf("(%s) => <body>", strings.Join(params, ", "))
}

// Builtin is a reference to a registered builtin implementation.
type Builtin struct {
	Name string
	Fn   BuiltinFunc
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return fmt.Sprintf("<builtin: %s>", b.Name) }

// HandleKind names the collaborator that owns the referenced state.
type HandleKind string

const (
	HandleSpawn   HandleKind = "spawn"
	HandlePhysics HandleKind = "physics"
	HandleQuantum HandleKind = "quantum"
)

// Handle is an opaque reference to state owned by an external collaborator
// (or to an already-computed spawn result). The interpreter never reads or
// mutates the referenced state directly.
type Handle struct {
	Kind HandleKind
	ID   int
}

func (h *Handle) Type() ObjectType { return HANDLE_OBJ }
func (h *Handle) Inspect() string  { return fmt.Sprintf("<handle %s:%d>", h.Kind, h.ID) }

// Range is an integer range value produced by a..b or a..=b, consumed by
// comprehension generators.
type Range struct {
	Start     int64
	End       int64
	Inclusive bool
}

func (r *Range) Type() ObjectType { return RANGE_OBJ }
func (r *Range) Inspect() string {
	op := ".."
	if r.Inclusive {
		op = "..="
	}
	return fmt.Sprintf("%d%s%d", r.Start, op, r.End)
}

// Len returns the number of integers the range yields.
func (r *Range) Len() int64 {
	n := r.End - r.Start
	if r.Inclusive {
		n++
	}
	if n < 0 {
		return 0
	}
	return n
}

// Error aborts the current top-level evaluation when it propagates to the
// root. Code is a diagnostics code (R001..R004).
type Error struct {
	Code    string
	Message string
	Line    int
	Column  int
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string  { return "RuntimeError: " + e.Message }

// RuntimeTypeName maps a value to the type-system name used in argument
// mismatch messages.
func RuntimeTypeName(obj Object) string {
	switch o := obj.(type) {
	case *Integer:
		return typesystem.IntType.Name
	case *Float:
		return typesystem.FloatType.Name
	case *Boolean:
		return typesystem.BoolType.Name
	case *String:
		return typesystem.StringType.Name
	case *Unit:
		return typesystem.UnitType.Name
	case *Array:
		return "Array"
	case *Matrix:
		return "Matrix"
	case *StructInstance:
		return o.Name
	case *Function, *Builtin:
		return "Function"
	case *Handle:
		return "Handle"
	case *Range:
		return "Range"
	default:
		return string(obj.Type())
	}
}
