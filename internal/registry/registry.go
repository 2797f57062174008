// Package registry holds the builtin-function registry: the seam between
// the language core and its external collaborators (math, physics, quantum).
//
// One entry carries both the type scheme the checker consults and the
// implementation the interpreter dispatches to. Register is the single
// insertion point, so the two views can never drift apart: a name is either
// fully callable (checked and implemented) or absent.
package registry

import (
	"fmt"
	"sort"

	"github.com/matrixlang/matrixlang/internal/object"
	"github.com/matrixlang/matrixlang/internal/typesystem"
)

// Entry pairs a builtin's type scheme with its implementation.
type Entry struct {
	Name   string
	Scheme typesystem.Scheme
	Impl   object.BuiltinFunc
}

// Registry is scoped to one compile/execute session; it is not a process
// singleton and needs no locking (the core is single-threaded).
type Registry struct {
	entries map[string]Entry
}

func New() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register inserts a builtin atomically: scheme and implementation land in
// the same entry or not at all. A nil implementation or duplicate name is
// rejected so a half-registered builtin cannot exist.
func (r *Registry) Register(name string, scheme typesystem.Scheme, impl object.BuiltinFunc) error {
	if impl == nil {
		return fmt.Errorf("builtin %q has no implementation", name)
	}
	if scheme.Body == nil {
		return fmt.Errorf("builtin %q has no type scheme", name)
	}
	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("builtin %q already registered", name)
	}
	r.entries[name] = Entry{Name: name, Scheme: scheme, Impl: impl}
	return nil
}

// MustRegister panics on registration failure. Builtin tables are wired at
// startup where a failure is a programming error.
func (r *Registry) MustRegister(name string, scheme typesystem.Scheme, impl object.BuiltinFunc) {
	if err := r.Register(name, scheme, impl); err != nil {
		panic(err)
	}
}

// Scheme returns the type scheme consulted by the type checker.
func (r *Registry) Scheme(name string) (typesystem.Scheme, bool) {
	entry, ok := r.entries[name]
	return entry.Scheme, ok
}

// Impl returns the implementation consulted by the interpreter.
func (r *Registry) Impl(name string) (object.BuiltinFunc, bool) {
	entry, ok := r.entries[name]
	return entry.Impl, ok
}

// Names returns all registered names, sorted for determinism.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
