package stdlib

import (
	"bytes"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matrixlang/matrixlang/internal/object"
	"github.com/matrixlang/matrixlang/internal/registry"
)

func call(t *testing.T, reg *registry.Registry, name string, args ...object.Object) object.Object {
	t.Helper()
	impl, ok := reg.Impl(name)
	if !ok {
		t.Fatalf("builtin %q not registered", name)
	}
	return impl(args...)
}

func intArg(v int64) *object.Integer   { return &object.Integer{Value: v} }
func floatArg(v float64) *object.Float { return &object.Float{Value: v} }

func floatValue(t *testing.T, obj object.Object) float64 {
	t.Helper()
	f, ok := obj.(*object.Float)
	if !ok {
		t.Fatalf("expected Float, got %s (%s)", obj.Type(), obj.Inspect())
	}
	return f.Value
}

func floatSlice(t *testing.T, obj object.Object) []float64 {
	t.Helper()
	arr, ok := obj.(*object.Array)
	if !ok {
		t.Fatalf("expected Array, got %s (%s)", obj.Type(), obj.Inspect())
	}
	out := make([]float64, len(arr.Elements))
	for i, el := range arr.Elements {
		out[i] = floatValue(t, el)
	}
	return out
}

func TestNewRegistryCoversAllCollaborators(t *testing.T) {
	reg := NewRegistry(bytes.NewBuffer(nil))
	for _, name := range []string{
		"print", "println", "str", "len",
		"sqrt", "pow", "abs", "min", "max", "pi",
		"create_physics_world", "add_rigid_body", "physics_step",
		"quantum_circuit", "bell_state", "h", "cnot", "simulate_circuit",
	} {
		if _, ok := reg.Scheme(name); !ok {
			t.Errorf("builtin %q has no scheme", name)
		}
		if _, ok := reg.Impl(name); !ok {
			t.Errorf("builtin %q has no implementation", name)
		}
	}
}

func TestPrintWritesToSessionWriter(t *testing.T) {
	var out bytes.Buffer
	reg := NewRegistry(&out)
	call(t, reg, "println", &object.String{Value: "hi"})
	call(t, reg, "print", intArg(7))
	if out.String() != "hi\n7" {
		t.Errorf("output = %q, want %q", out.String(), "hi\n7")
	}
}

func TestLen(t *testing.T) {
	reg := NewRegistry(bytes.NewBuffer(nil))
	tests := []struct {
		arg  object.Object
		want int64
	}{
		{&object.Array{Elements: []object.Object{intArg(1), intArg(2)}}, 2},
		{&object.String{Value: "abcd"}, 4},
		{&object.Range{Start: 1, End: 10}, 9},
		{&object.Range{Start: 1, End: 10, Inclusive: true}, 10},
		{&object.Matrix{Rows: [][]object.Object{{intArg(1)}, {intArg(2)}, {intArg(3)}}}, 3},
	}
	for _, tt := range tests {
		got := call(t, reg, "len", tt.arg)
		n, ok := got.(*object.Integer)
		if !ok || n.Value != tt.want {
			t.Errorf("len(%s) = %s, want %d", tt.arg.Inspect(), got.Inspect(), tt.want)
		}
	}
}

func TestMathWidensIntArguments(t *testing.T) {
	reg := NewRegistry(bytes.NewBuffer(nil))
	if got := floatValue(t, call(t, reg, "sqrt", intArg(16))); got != 4.0 {
		t.Errorf("sqrt(16) = %v, want 4", got)
	}
	if got := floatValue(t, call(t, reg, "pow", intArg(2), intArg(10))); got != 1024.0 {
		t.Errorf("pow(2, 10) = %v, want 1024", got)
	}
}

func TestFloorCeilRoundReturnInt(t *testing.T) {
	reg := NewRegistry(bytes.NewBuffer(nil))
	tests := []struct {
		name string
		arg  float64
		want int64
	}{
		{"floor", 3.7, 3},
		{"ceil", 3.2, 4},
		{"round", 2.5, 3},
		{"round", -2.5, -3},
	}
	for _, tt := range tests {
		got, ok := call(t, reg, tt.name, floatArg(tt.arg)).(*object.Integer)
		if !ok || got.Value != tt.want {
			t.Errorf("%s(%v) = %v, want %d", tt.name, tt.arg, got, tt.want)
		}
	}
}

func TestAbsKeepsArgumentType(t *testing.T) {
	reg := NewRegistry(bytes.NewBuffer(nil))
	if got, ok := call(t, reg, "abs", intArg(-15)).(*object.Integer); !ok || got.Value != 15 {
		t.Errorf("abs(-15) = %v, want Int 15", got)
	}
	if got := floatValue(t, call(t, reg, "abs", floatArg(-1.5))); got != 1.5 {
		t.Errorf("abs(-1.5) = %v, want 1.5", got)
	}
}

func TestMinMaxReturnOriginalValues(t *testing.T) {
	reg := NewRegistry(bytes.NewBuffer(nil))
	a, b := intArg(3), intArg(9)
	if got := call(t, reg, "min", a, b); got != object.Object(a) {
		t.Errorf("min(3, 9) = %s, want the first argument back", got.Inspect())
	}
	if got := call(t, reg, "max", a, b); got != object.Object(b) {
		t.Errorf("max(3, 9) = %s, want the second argument back", got.Inspect())
	}
}

func TestArgumentValidation(t *testing.T) {
	reg := NewRegistry(bytes.NewBuffer(nil))
	tests := []struct {
		name string
		args []object.Object
	}{
		{"sqrt", nil},
		{"sqrt", []object.Object{&object.String{Value: "x"}}},
		{"len", []object.Object{intArg(1)}},
		{"pow", []object.Object{floatArg(1)}},
	}
	for _, tt := range tests {
		got := call(t, reg, tt.name, tt.args...)
		err, ok := got.(*object.Error)
		if !ok {
			t.Errorf("%s with bad args = %s, want error", tt.name, got.Inspect())
			continue
		}
		if err.Code != "R003" {
			t.Errorf("%s: code = %s, want R003", tt.name, err.Code)
		}
	}
}

func physicsRegistry() *registry.Registry {
	reg := registry.New()
	NewPhysics().Register(reg)
	return reg
}

func TestPhysicsGravityPullsBodiesDown(t *testing.T) {
	reg := physicsRegistry()
	world := call(t, reg, "create_physics_world")
	id := call(t, reg, "add_rigid_body", world, &object.String{Value: "sphere"}, floatArg(1.0),
		&object.Array{Elements: []object.Object{floatArg(0), floatArg(10), floatArg(0)}})

	for i := 0; i < 60; i++ {
		call(t, reg, "physics_step", world)
	}

	pos := floatSlice(t, call(t, reg, "get_object_position", world, id))
	if pos[1] >= 10 {
		t.Errorf("y = %v after 1s of gravity, want below 10", pos[1])
	}
	vel := floatSlice(t, call(t, reg, "get_object_velocity", world, id))
	if vel[1] >= 0 {
		t.Errorf("vy = %v after falling, want negative", vel[1])
	}
}

func TestPhysicsGroundBounceDampsVelocity(t *testing.T) {
	reg := physicsRegistry()
	world := call(t, reg, "create_physics_world")
	id := call(t, reg, "add_rigid_body", world, &object.String{Value: "sphere"}, floatArg(1.0),
		&object.Array{Elements: []object.Object{floatArg(0), floatArg(0), floatArg(0)}})

	// One step from ground level drives the body below y=0; the bounce
	// clamps it back and flips the velocity with damping.
	call(t, reg, "physics_step", world)

	pos := floatSlice(t, call(t, reg, "get_object_position", world, id))
	if pos[1] != 0 {
		t.Errorf("y = %v after bounce, want 0", pos[1])
	}
	vel := floatSlice(t, call(t, reg, "get_object_velocity", world, id))
	if vel[1] <= 0 {
		t.Errorf("vy = %v after bounce, want positive", vel[1])
	}
	want := 9.81 / 60.0 * 0.8
	if math.Abs(vel[1]-want) > 1e-9 {
		t.Errorf("vy = %v, want %v (damped reflection)", vel[1], want)
	}
}

func TestPhysicsStaticBodiesIgnoreGravity(t *testing.T) {
	reg := physicsRegistry()
	world := call(t, reg, "create_physics_world")
	id := call(t, reg, "add_rigid_body", world, &object.String{Value: "box"}, floatArg(0),
		&object.Array{Elements: []object.Object{floatArg(1), floatArg(5), floatArg(2)}})

	for i := 0; i < 10; i++ {
		call(t, reg, "physics_step", world)
	}

	pos := floatSlice(t, call(t, reg, "get_object_position", world, id))
	if diff := cmp.Diff([]float64{1, 5, 2}, pos); diff != "" {
		t.Errorf("static body moved (-want +got):\n%s", diff)
	}
}

func TestPhysicsObjectAccessors(t *testing.T) {
	reg := physicsRegistry()
	world := call(t, reg, "create_physics_world")
	id := call(t, reg, "add_rigid_body", world, &object.String{Value: "capsule"}, floatArg(2.5),
		&object.Array{Elements: []object.Object{floatArg(0), floatArg(1), floatArg(0)}})

	if got := floatValue(t, call(t, reg, "get_object_mass", world, id)); got != 2.5 {
		t.Errorf("mass = %v, want 2.5", got)
	}
	shape, ok := call(t, reg, "get_object_shape", world, id).(*object.String)
	if !ok || shape.Value != "capsule" {
		t.Errorf("shape = %v, want capsule", shape)
	}

	call(t, reg, "set_object_mass", world, id, floatArg(0))
	if got := floatValue(t, call(t, reg, "get_object_mass", world, id)); got != 0 {
		t.Errorf("mass after set = %v, want 0", got)
	}

	list, ok := call(t, reg, "list_objects", world).(*object.Array)
	if !ok || len(list.Elements) != 1 {
		t.Fatalf("list_objects = %v, want one id", list)
	}
}

func TestPhysicsRejectsForeignHandles(t *testing.T) {
	reg := physicsRegistry()
	got := call(t, reg, "physics_step", &object.Handle{Kind: object.HandleSpawn, ID: 0})
	if err, ok := got.(*object.Error); !ok || err.Code != "R003" {
		t.Errorf("physics_step on spawn handle = %s, want R003", got.Inspect())
	}
}

func quantumRegistry(seed int64) *registry.Registry {
	reg := registry.New()
	NewQuantumSeeded(seed).Register(reg)
	return reg
}

func TestBellStateProbabilities(t *testing.T) {
	reg := quantumRegistry(1)
	c := call(t, reg, "bell_state")

	probs := floatSlice(t, call(t, reg, "simulate_circuit", c))
	want := []float64{0.5, 0, 0, 0.5}
	if diff := cmp.Diff(want, probs, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("bell state probabilities (-want +got):\n%s", diff)
	}

	if n, ok := call(t, reg, "num_qubits", c).(*object.Integer); !ok || n.Value != 2 {
		t.Errorf("num_qubits = %v, want 2", n)
	}
	if n, ok := call(t, reg, "operations_count", c).(*object.Integer); !ok || n.Value != 2 {
		t.Errorf("operations_count = %v, want 2", n)
	}
}

func TestPauliXFlipsQubit(t *testing.T) {
	reg := quantumRegistry(1)
	c := call(t, reg, "quantum_circuit", intArg(1))
	call(t, reg, "x", c, intArg(0))

	probs := floatSlice(t, call(t, reg, "simulate_circuit", c))
	if diff := cmp.Diff([]float64{0, 1}, probs, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("|1> probabilities (-want +got):\n%s", diff)
	}

	// Measurement of a certain outcome is deterministic regardless of seed.
	if got, ok := call(t, reg, "measure", c, intArg(0)).(*object.Integer); !ok || got.Value != 1 {
		t.Errorf("measure = %v, want 1", got)
	}
}

func TestHadamardSplitsAmplitude(t *testing.T) {
	reg := quantumRegistry(1)
	c := call(t, reg, "quantum_circuit", intArg(1))
	call(t, reg, "h", c, intArg(0))

	probs := floatSlice(t, call(t, reg, "simulate_circuit", c))
	if diff := cmp.Diff([]float64{0.5, 0.5}, probs, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("superposition probabilities (-want +got):\n%s", diff)
	}
}

func TestCnotEntanglesPreparedControl(t *testing.T) {
	reg := quantumRegistry(1)
	c := call(t, reg, "quantum_circuit", intArg(2))
	call(t, reg, "x", c, intArg(0))
	call(t, reg, "cnot", c, intArg(0), intArg(1))

	// |11> is basis index 3 with qubit 0 as the least significant bit.
	probs := floatSlice(t, call(t, reg, "simulate_circuit", c))
	if diff := cmp.Diff([]float64{0, 0, 0, 1}, probs, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("|11> probabilities (-want +got):\n%s", diff)
	}

	bits, ok := call(t, reg, "measure_all", c).(*object.Array)
	if !ok {
		t.Fatal("measure_all did not return an array")
	}
	got := []int64{
		bits.Elements[0].(*object.Integer).Value,
		bits.Elements[1].(*object.Integer).Value,
	}
	if got[0] != 1 || got[1] != 1 {
		t.Errorf("measure_all = %v, want [1, 1]", got)
	}
}

func TestRotationGate(t *testing.T) {
	reg := quantumRegistry(1)
	c := call(t, reg, "quantum_circuit", intArg(1))
	// rx(pi) flips the qubit up to global phase.
	call(t, reg, "rx", c, intArg(0), floatArg(math.Pi))

	probs := floatSlice(t, call(t, reg, "simulate_circuit", c))
	if diff := cmp.Diff([]float64{0, 1}, probs, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("rx(pi) probabilities (-want +got):\n%s", diff)
	}
}

func TestQuantumValidation(t *testing.T) {
	reg := quantumRegistry(1)
	for _, tt := range []struct {
		name string
		args []object.Object
	}{
		{"quantum_circuit", []object.Object{intArg(0)}},
		{"quantum_circuit", []object.Object{intArg(maxQubits + 1)}},
	} {
		got := call(t, reg, tt.name, tt.args...)
		if err, ok := got.(*object.Error); !ok || err.Code != "R003" {
			t.Errorf("%s(%v) = %s, want R003", tt.name, tt.args, got.Inspect())
		}
	}

	c := call(t, reg, "quantum_circuit", intArg(2))
	got := call(t, reg, "h", c, intArg(5))
	if err, ok := got.(*object.Error); !ok || err.Code != "R003" {
		t.Errorf("h on out-of-range qubit = %s, want R003", got.Inspect())
	}
}
