// Package analyzer implements Hindley-Milner type inference over the AST:
// unification with the occurs check, generalization at let bindings, and
// fresh instantiation at every use site.
package analyzer

import (
	"fmt"
	"strings"

	"github.com/matrixlang/matrixlang/internal/ast"
	"github.com/matrixlang/matrixlang/internal/config"
	"github.com/matrixlang/matrixlang/internal/diagnostics"
	"github.com/matrixlang/matrixlang/internal/pipeline"
	"github.com/matrixlang/matrixlang/internal/registry"
	"github.com/matrixlang/matrixlang/internal/token"
	"github.com/matrixlang/matrixlang/internal/typesystem"
)

// typeclassInfo remembers a typeclass declaration for instance checking.
type typeclassInfo struct {
	param   typesystem.TVar
	methods map[string]typesystem.Scheme // quantified over param
}

// Analyzer runs one inference pass. The fresh-variable counter lives here,
// not in a package global, so concurrent sessions cannot interfere.
type Analyzer struct {
	ctx *pipeline.Context
	reg *registry.Registry

	counter int
	subst   typesystem.Subst
	typeMap map[ast.Node]typesystem.Type
	classes map[string]*typeclassInfo
}

func New(ctx *pipeline.Context, reg *registry.Registry) *Analyzer {
	return &Analyzer{
		ctx:     ctx,
		reg:     reg,
		subst:   typesystem.Subst{},
		typeMap: make(map[ast.Node]typesystem.Type),
		classes: make(map[string]*typeclassInfo),
	}
}

// TypeMap returns the node-to-type mapping with the final substitution
// applied. Valid after Analyze.
func (a *Analyzer) TypeMap() map[ast.Node]typesystem.Type {
	resolved := make(map[ast.Node]typesystem.Type, len(a.typeMap))
	for node, t := range a.typeMap {
		resolved[node] = t.Apply(a.subst)
	}
	return resolved
}

// Analyze type-checks the program in env. The first error stops the pass and
// lands in the pipeline context; evaluation must not start after that.
func (a *Analyzer) Analyze(program *ast.Program, env *TypeEnv) {
	for _, imp := range program.Imports {
		if !config.IsBuiltinModule(imp.Path.Value) {
			a.ctx.AddError(diagnostics.NewError(diagnostics.ErrT003, imp.Path.Token,
				"unknown module %q", imp.Path.Value))
			return
		}
	}

	for _, stmt := range program.Statements {
		if err := a.inferStatement(stmt, env); err != nil {
			a.ctx.AddError(err)
			return
		}
	}
}

func (a *Analyzer) fresh() typesystem.TVar {
	a.counter++
	return typesystem.TVar{Name: fmt.Sprintf("t%d", a.counter)}
}

func (a *Analyzer) apply(t typesystem.Type) typesystem.Type {
	return t.Apply(a.subst)
}

func (a *Analyzer) record(node ast.Node, t typesystem.Type) typesystem.Type {
	a.typeMap[node] = t
	return t
}

// unify folds a new constraint into the global substitution, translating
// unification failures into positioned diagnostics.
func (a *Analyzer) unify(t1, t2 typesystem.Type, tok token.Token) *diagnostics.Error {
	s, err := typesystem.Unify(a.apply(t1), a.apply(t2))
	if err != nil {
		return unifyDiagnostic(err, tok)
	}
	a.subst = a.subst.Compose(s)
	return nil
}

func unifyDiagnostic(err error, tok token.Token) *diagnostics.Error {
	if ue, ok := err.(*typesystem.UnifyError); ok {
		switch {
		case ue.Kind == typesystem.KindInfiniteType:
			return diagnostics.NewError(diagnostics.ErrT002, tok, "%s", ue.Message)
		case strings.Contains(ue.Message, "parameters"):
			return diagnostics.NewError(diagnostics.ErrT004, tok, "%s", ue.Message)
		}
	}
	return diagnostics.NewError(diagnostics.ErrT001, tok, "%s", err.Error())
}

// instantiate replaces a scheme's quantified variables with fresh ones.
// Sharing variables between use sites would let one call site's concrete
// type leak into the next, so every lookup goes through here.
func (a *Analyzer) instantiate(scheme typesystem.Scheme) typesystem.Type {
	if len(scheme.Vars) == 0 {
		return scheme.Body
	}
	mapping := typesystem.Subst{}
	for _, v := range scheme.Vars {
		mapping[v.Name] = a.fresh()
	}
	return scheme.Body.Apply(mapping)
}

// generalize quantifies the variables of t that are not free in env,
// producing the polymorphic scheme bound at a let.
func (a *Analyzer) generalize(env *TypeEnv, t typesystem.Type) typesystem.Scheme {
	envFree := env.FreeTypeVariables(a.subst)
	var vars []typesystem.TVar
	for _, v := range t.FreeTypeVariables() {
		if !envFree[v.Name] {
			vars = append(vars, v)
		}
	}
	return typesystem.Scheme{Vars: vars, Body: t}
}

// lookupName resolves an identifier to an instantiated type: scoped bindings
// first, then registered builtins.
func (a *Analyzer) lookupName(name string, env *TypeEnv) (typesystem.Type, bool) {
	if scheme, ok := env.Get(name); ok {
		return a.instantiate(scheme), true
	}
	if scheme, ok := a.reg.Scheme(name); ok {
		return a.instantiate(scheme), true
	}
	return nil, false
}
