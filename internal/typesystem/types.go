package typesystem

import (
	"fmt"
	"strings"
)

// Type is the interface for all types in our system.
type Type interface {
	String() string
	Apply(Subst) Type
	FreeTypeVariables() []TVar
}

// TVar represents a type variable (e.g. t1, t2).
type TVar struct {
	Name string
}

func (t TVar) String() string { return t.Name }

func (t TVar) Apply(s Subst) Type {
	return applyWithCycleCheck(t, s, make(map[string]bool))
}

func (t TVar) FreeTypeVariables() []TVar {
	return []TVar{t}
}

// TCon represents a type constant: Int, Float, Bool, String, Unit.
type TCon struct {
	Name string
}

func (t TCon) String() string { return t.Name }

func (t TCon) Apply(s Subst) Type { return t }

func (t TCon) FreeTypeVariables() []TVar { return []TVar{} }

// Primitive type constants.
var (
	IntType    = TCon{Name: "Int"}
	FloatType  = TCon{Name: "Float"}
	BoolType   = TCon{Name: "Bool"}
	StringType = TCon{Name: "String"}
	UnitType   = TCon{Name: "Unit"}

	// RangeType is the type of a..b and a..=b. Ranges always yield Int.
	RangeType = TCon{Name: "Range"}
)

// IsNumeric reports whether t is Int or Float. The matrix literal rule
// depends on it: only numeric element types form a Matrix.
func IsNumeric(t Type) bool {
	con, ok := t.(TCon)
	return ok && (con.Name == "Int" || con.Name == "Float")
}

// TArray represents a homogeneous array type: [Int].
type TArray struct {
	Elem Type
}

func (t TArray) String() string { return fmt.Sprintf("[%s]", t.Elem.String()) }

func (t TArray) Apply(s Subst) Type {
	return applyWithCycleCheck(t, s, make(map[string]bool))
}

func (t TArray) FreeTypeVariables() []TVar { return t.Elem.FreeTypeVariables() }

// TMatrix represents a 2D matrix with a numeric element type: Matrix<Float>.
type TMatrix struct {
	Elem Type
}

func (t TMatrix) String() string { return fmt.Sprintf("Matrix<%s>", t.Elem.String()) }

func (t TMatrix) Apply(s Subst) Type {
	return applyWithCycleCheck(t, s, make(map[string]bool))
}

func (t TMatrix) FreeTypeVariables() []TVar { return t.Elem.FreeTypeVariables() }

// TFunc represents a function type: (Int, Int) -> Bool.
type TFunc struct {
	Params []Type
	Return Type
}

func (t TFunc) String() string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(params, ", "), t.Return.String())
}

func (t TFunc) Apply(s Subst) Type {
	return applyWithCycleCheck(t, s, make(map[string]bool))
}

func (t TFunc) FreeTypeVariables() []TVar {
	vars := []TVar{}
	for _, p := range t.Params {
		vars = append(vars, p.FreeTypeVariables()...)
	}
	vars = append(vars, t.Return.FreeTypeVariables()...)
	return uniqueTVars(vars)
}

// THandle represents the result of a spawn expression: Handle<T> carries
// the type of the value wait will produce.
type THandle struct {
	Elem Type
}

func (t THandle) String() string { return fmt.Sprintf("Handle<%s>", t.Elem.String()) }

func (t THandle) Apply(s Subst) Type {
	return applyWithCycleCheck(t, s, make(map[string]bool))
}

func (t THandle) FreeTypeVariables() []TVar { return t.Elem.FreeTypeVariables() }

// TStruct represents a declared record type with ordered fields.
type TStruct struct {
	Name       string
	FieldOrder []string
	Fields     map[string]Type
}

func (t TStruct) String() string { return t.Name }

func (t TStruct) Apply(s Subst) Type {
	return applyWithCycleCheck(t, s, make(map[string]bool))
}

func (t TStruct) FreeTypeVariables() []TVar {
	vars := []TVar{}
	for _, name := range t.FieldOrder {
		vars = append(vars, t.Fields[name].FreeTypeVariables()...)
	}
	return uniqueTVars(vars)
}

// Scheme is a type together with the variables universally quantified over
// it. Every use site must instantiate the quantified variables fresh.
type Scheme struct {
	Vars []TVar
	Body Type
}

func (t Scheme) String() string {
	if len(t.Vars) == 0 {
		return t.Body.String()
	}
	vars := make([]string, len(t.Vars))
	for i, v := range t.Vars {
		vars[i] = v.Name
	}
	return fmt.Sprintf("forall %s. %s", strings.Join(vars, " "), t.Body.String())
}

// Apply substitutes into the scheme body, excluding the quantified
// variables.
func (t Scheme) Apply(s Subst) Type {
	filtered := make(Subst)
	bound := make(map[string]bool, len(t.Vars))
	for _, v := range t.Vars {
		bound[v.Name] = true
	}
	for k, v := range s {
		if !bound[k] {
			filtered[k] = v
		}
	}
	return Scheme{Vars: t.Vars, Body: t.Body.Apply(filtered)}
}

func (t Scheme) FreeTypeVariables() []TVar {
	bound := make(map[string]bool, len(t.Vars))
	for _, v := range t.Vars {
		bound[v.Name] = true
	}
	result := []TVar{}
	for _, v := range t.Body.FreeTypeVariables() {
		if !bound[v.Name] {
			result = append(result, v)
		}
	}
	return uniqueTVars(result)
}

// MonoScheme wraps a monomorphic type as a scheme with no quantified
// variables.
func MonoScheme(t Type) Scheme {
	return Scheme{Body: t}
}

// Subst is a mapping from type variable names to types. It is extended
// monotonically during one type-check pass and discarded afterwards.
type Subst map[string]Type

// Compose combines two substitutions: applying the result is equivalent to
// applying s2 first, then s1.
func (s1 Subst) Compose(s2 Subst) Subst {
	subst := Subst{}
	for k, v := range s2 {
		subst[k] = v
	}
	for k, v := range s1 {
		subst[k] = v.Apply(s2)
	}
	return subst
}

// applyWithCycleCheck applies a substitution with cycle detection so that a
// malformed substitution can never send Apply into an infinite loop.
func applyWithCycleCheck(t Type, s Subst, visited map[string]bool) Type {
	switch typ := t.(type) {
	case TVar:
		if visited[typ.Name] {
			return typ
		}
		if replacement, ok := s[typ.Name]; ok {
			if tv, ok := replacement.(TVar); ok && tv.Name == typ.Name {
				return typ
			}
			newVisited := copyVisited(visited)
			newVisited[typ.Name] = true
			return applyWithCycleCheck(replacement, s, newVisited)
		}
		return typ

	case TCon:
		return typ

	case TArray:
		return TArray{Elem: applyWithCycleCheck(typ.Elem, s, visited)}

	case TMatrix:
		return TMatrix{Elem: applyWithCycleCheck(typ.Elem, s, visited)}

	case THandle:
		return THandle{Elem: applyWithCycleCheck(typ.Elem, s, visited)}

	case TFunc:
		newParams := make([]Type, len(typ.Params))
		for i, p := range typ.Params {
			newParams[i] = applyWithCycleCheck(p, s, visited)
		}
		return TFunc{Params: newParams, Return: applyWithCycleCheck(typ.Return, s, visited)}

	case TStruct:
		newFields := make(map[string]Type, len(typ.Fields))
		for name, ft := range typ.Fields {
			newFields[name] = applyWithCycleCheck(ft, s, visited)
		}
		return TStruct{Name: typ.Name, FieldOrder: typ.FieldOrder, Fields: newFields}

	default:
		return t.Apply(s)
	}
}

func copyVisited(m map[string]bool) map[string]bool {
	newMap := make(map[string]bool, len(m))
	for k, v := range m {
		newMap[k] = v
	}
	return newMap
}

func uniqueTVars(vars []TVar) []TVar {
	unique := []TVar{}
	seen := map[string]bool{}
	for _, v := range vars {
		if !seen[v.Name] {
			seen[v.Name] = true
			unique = append(unique, v)
		}
	}
	return unique
}
