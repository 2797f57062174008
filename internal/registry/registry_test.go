package registry

import (
	"testing"

	"github.com/matrixlang/matrixlang/internal/object"
	"github.com/matrixlang/matrixlang/internal/typesystem"
)

func dummyImpl(args ...object.Object) object.Object {
	return &object.Unit{}
}

func dummyScheme() typesystem.Scheme {
	return typesystem.MonoScheme(typesystem.TFunc{Return: typesystem.UnitType})
}

// A registered name must be visible to both the type checker and the
// interpreter; a rejected registration must be visible to neither.
func TestRegisterIsAtomic(t *testing.T) {
	r := New()
	if err := r.Register("f", dummyScheme(), dummyImpl); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, ok := r.Scheme("f"); !ok {
		t.Error("scheme missing after registration")
	}
	if _, ok := r.Impl("f"); !ok {
		t.Error("implementation missing after registration")
	}

	if err := r.Register("g", dummyScheme(), nil); err == nil {
		t.Error("nil implementation accepted")
	}
	if _, ok := r.Scheme("g"); ok {
		t.Error("scheme present for rejected registration")
	}

	if err := r.Register("h", typesystem.Scheme{}, dummyImpl); err == nil {
		t.Error("empty scheme accepted")
	}
	if _, ok := r.Impl("h"); ok {
		t.Error("implementation present for rejected registration")
	}
}

func TestDuplicateNameIsRejected(t *testing.T) {
	r := New()
	if err := r.Register("f", dummyScheme(), dummyImpl); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := r.Register("f", dummyScheme(), dummyImpl); err == nil {
		t.Error("duplicate registration accepted")
	}
}

func TestNamesAreSorted(t *testing.T) {
	r := New()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := r.Register(name, dummyScheme(), dummyImpl); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}
	names := r.Names()
	want := []string{"alpha", "mid", "zeta"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}
}

func TestMustRegisterPanicsOnFailure(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	r := New()
	r.MustRegister("f", dummyScheme(), nil)
}
