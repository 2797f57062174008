package analyzer

import (
	"github.com/matrixlang/matrixlang/internal/typesystem"
)

// TypeEnv maps names to type schemes, mirroring the evaluator's frame chain.
// A REPL session keeps one TypeEnv alive across entries.
type TypeEnv struct {
	vars    map[string]typesystem.Scheme
	mutable map[string]bool
	structs map[string]typesystem.TStruct
	outer   *TypeEnv
}

func NewTypeEnv() *TypeEnv {
	return &TypeEnv{
		vars:    make(map[string]typesystem.Scheme),
		mutable: make(map[string]bool),
		structs: make(map[string]typesystem.TStruct),
	}
}

func (e *TypeEnv) Extend() *TypeEnv {
	child := NewTypeEnv()
	child.outer = e
	return child
}

func (e *TypeEnv) Get(name string) (typesystem.Scheme, bool) {
	if scheme, ok := e.vars[name]; ok {
		return scheme, true
	}
	if e.outer != nil {
		return e.outer.Get(name)
	}
	return typesystem.Scheme{}, false
}

func (e *TypeEnv) Set(name string, scheme typesystem.Scheme, mutable bool) {
	e.vars[name] = scheme
	if mutable {
		e.mutable[name] = true
	}
}

// Mutable reports whether name refers to a `let mut` binding, consulting the
// frame that owns the binding.
func (e *TypeEnv) Mutable(name string) bool {
	if _, ok := e.vars[name]; ok {
		return e.mutable[name]
	}
	if e.outer != nil {
		return e.outer.Mutable(name)
	}
	return false
}

// Remove drops a binding from this frame; outer frames are untouched.
func (e *TypeEnv) Remove(name string) {
	delete(e.vars, name)
	delete(e.mutable, name)
}

func (e *TypeEnv) Struct(name string) (typesystem.TStruct, bool) {
	if st, ok := e.structs[name]; ok {
		return st, true
	}
	if e.outer != nil {
		return e.outer.Struct(name)
	}
	return typesystem.TStruct{}, false
}

func (e *TypeEnv) SetStruct(st typesystem.TStruct) {
	e.structs[st.Name] = st
}

// FreeTypeVariables collects the free variables of every scheme in scope,
// after applying the given substitution. Generalization must not quantify
// over them.
func (e *TypeEnv) FreeTypeVariables(subst typesystem.Subst) map[string]bool {
	free := make(map[string]bool)
	for env := e; env != nil; env = env.outer {
		for _, scheme := range env.vars {
			applied := scheme.Apply(subst)
			for _, v := range applied.FreeTypeVariables() {
				free[v.Name] = true
			}
		}
	}
	return free
}
