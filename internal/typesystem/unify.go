package typesystem

import (
	"fmt"
	"reflect"
)

// ErrorKind distinguishes unification failures for the diagnostics layer.
type ErrorKind int

const (
	KindMismatch ErrorKind = iota
	KindInfiniteType
)

// UnifyError is returned when two types cannot be made equal.
type UnifyError struct {
	Kind    ErrorKind
	Message string
}

func (e *UnifyError) Error() string { return e.Message }

func errMismatch(format string, args ...interface{}) *UnifyError {
	return &UnifyError{Kind: KindMismatch, Message: fmt.Sprintf(format, args...)}
}

// Unify attempts to find a substitution that makes t1 and t2 equal.
// It enforces strict equality (invariant).
func Unify(t1, t2 Type) (Subst, error) {
	if reflect.DeepEqual(t1, t2) {
		return Subst{}, nil
	}

	switch a := t1.(type) {
	case TVar:
		return Bind(a, t2)

	case TCon:
		if b, ok := t2.(TVar); ok {
			return Bind(b, t1)
		}
		if b, ok := t2.(TCon); ok && a.Name == b.Name {
			return Subst{}, nil
		}
		return nil, errMismatch("expected %s, found %s", a, t2)

	case TArray:
		switch b := t2.(type) {
		case TVar:
			return Bind(b, t1)
		case TArray:
			return Unify(a.Elem, b.Elem)
		}
		return nil, errMismatch("expected %s, found %s", a, t2)

	case TMatrix:
		switch b := t2.(type) {
		case TVar:
			return Bind(b, t1)
		case TMatrix:
			return Unify(a.Elem, b.Elem)
		}
		return nil, errMismatch("expected %s, found %s", a, t2)

	case THandle:
		switch b := t2.(type) {
		case TVar:
			return Bind(b, t1)
		case THandle:
			return Unify(a.Elem, b.Elem)
		}
		return nil, errMismatch("expected %s, found %s", a, t2)

	case TFunc:
		switch b := t2.(type) {
		case TVar:
			return Bind(b, t1)
		case TFunc:
			if len(a.Params) != len(b.Params) {
				return nil, errMismatch("expected function with %d parameters, found %d", len(a.Params), len(b.Params))
			}
			subst := Subst{}
			for i := range a.Params {
				s, err := Unify(a.Params[i].Apply(subst), b.Params[i].Apply(subst))
				if err != nil {
					return nil, err
				}
				subst = subst.Compose(s)
			}
			s, err := Unify(a.Return.Apply(subst), b.Return.Apply(subst))
			if err != nil {
				return nil, err
			}
			return subst.Compose(s), nil
		}
		return nil, errMismatch("expected %s, found %s", a, t2)

	case TStruct:
		switch b := t2.(type) {
		case TVar:
			return Bind(b, t1)
		case TStruct:
			// Structs are nominal: same name means same declaration.
			if a.Name == b.Name {
				return Subst{}, nil
			}
		}
		return nil, errMismatch("expected %s, found %s", a, t2)

	case Scheme:
		return nil, errMismatch("cannot unify unapplied scheme %s; instantiate first", a)
	}

	return nil, errMismatch("expected %s, found %s", t1, t2)
}

// Bind binds a type variable to a type, performing the occurs check.
func Bind(tv TVar, t Type) (Subst, error) {
	if other, ok := t.(TVar); ok && other.Name == tv.Name {
		return Subst{}, nil
	}
	// Occurs check: ensure tv does not appear in t (to avoid infinite types
	// like a = [a]).
	if occursIn(tv, t) {
		return nil, &UnifyError{
			Kind:    KindInfiniteType,
			Message: fmt.Sprintf("infinite type detected: %s occurs in %s", tv, t),
		}
	}
	return Subst{tv.Name: t}, nil
}

func occursIn(tv TVar, t Type) bool {
	for _, v := range t.FreeTypeVariables() {
		if v.Name == tv.Name {
			return true
		}
	}
	return false
}
