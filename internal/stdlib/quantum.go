package stdlib

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"
	"time"

	"github.com/matrixlang/matrixlang/internal/diagnostics"
	"github.com/matrixlang/matrixlang/internal/object"
	"github.com/matrixlang/matrixlang/internal/registry"
	"github.com/matrixlang/matrixlang/internal/typesystem"
)

// CircuitType is the opaque type of a quantum circuit handle.
var CircuitType = typesystem.TCon{Name: "Circuit"}

const maxQubits = 20

type gate struct {
	name    string
	qubits  []int
	param   float64
	unitary [2][2]complex128 // single-qubit gates only
}

type circuit struct {
	numQubits int
	gates     []gate
}

// Quantum owns the circuits of one session and a private RNG for
// measurement sampling.
type Quantum struct {
	circuits map[int]*circuit
	nextID   int
	rng      *rand.Rand
}

func NewQuantum() *Quantum {
	return NewQuantumSeeded(time.Now().UnixNano())
}

// NewQuantumSeeded fixes the measurement RNG, which tests rely on.
func NewQuantumSeeded(seed int64) *Quantum {
	return &Quantum{
		circuits: make(map[int]*circuit),
		rng:      rand.New(rand.NewSource(seed)),
	}
}

func (q *Quantum) circuit(obj object.Object) (*circuit, *object.Error) {
	handle, ok := obj.(*object.Handle)
	if !ok || handle.Kind != object.HandleQuantum {
		return nil, argTypeError("quantum builtin", "Circuit", obj)
	}
	c, ok := q.circuits[handle.ID]
	if !ok {
		return nil, &object.Error{
			Code:    diagnostics.ErrR003,
			Message: fmt.Sprintf("quantum circuit %d not found", handle.ID),
		}
	}
	return c, nil
}

func (q *Quantum) newCircuit(numQubits int) *object.Handle {
	id := q.nextID
	q.nextID++
	q.circuits[id] = &circuit{numQubits: numQubits}
	return &object.Handle{Kind: object.HandleQuantum, ID: id}
}

func qubitIndex(c *circuit, arg object.Object) (int, *object.Error) {
	idx, ok := arg.(*object.Integer)
	if !ok {
		return 0, argTypeError("quantum builtin", "a qubit index (Int)", arg)
	}
	if idx.Value < 0 || idx.Value >= int64(c.numQubits) {
		return 0, &object.Error{
			Code:    diagnostics.ErrR003,
			Message: fmt.Sprintf("qubit %d out of range for %d-qubit circuit", idx.Value, c.numQubits),
		}
	}
	return int(idx.Value), nil
}

// statevector runs the gate list against |0...0>. Qubit 0 is the least
// significant bit of the basis index.
func (c *circuit) statevector() []complex128 {
	state := make([]complex128, 1<<c.numQubits)
	state[0] = 1
	for _, g := range c.gates {
		switch len(g.qubits) {
		case 1:
			applySingle(state, g.qubits[0], g.unitary)
		case 2:
			applyCNOT(state, g.qubits[0], g.qubits[1])
		case 3:
			applyToffoli(state, g.qubits[0], g.qubits[1], g.qubits[2])
		}
	}
	return state
}

func applySingle(state []complex128, qubit int, u [2][2]complex128) {
	mask := 1 << qubit
	for i := range state {
		if i&mask != 0 {
			continue
		}
		j := i | mask
		a, b := state[i], state[j]
		state[i] = u[0][0]*a + u[0][1]*b
		state[j] = u[1][0]*a + u[1][1]*b
	}
}

func applyCNOT(state []complex128, control, target int) {
	cMask := 1 << control
	tMask := 1 << target
	for i := range state {
		if i&cMask != 0 && i&tMask == 0 {
			j := i | tMask
			state[i], state[j] = state[j], state[i]
		}
	}
}

func applyToffoli(state []complex128, c1, c2, target int) {
	m1 := 1 << c1
	m2 := 1 << c2
	tMask := 1 << target
	for i := range state {
		if i&m1 != 0 && i&m2 != 0 && i&tMask == 0 {
			j := i | tMask
			state[i], state[j] = state[j], state[i]
		}
	}
}

func (c *circuit) probabilities() []float64 {
	state := c.statevector()
	probs := make([]float64, len(state))
	for i, amp := range state {
		probs[i] = cmplx.Abs(amp) * cmplx.Abs(amp)
	}
	return probs
}

var (
	invSqrt2 = complex(1/math.Sqrt2, 0)

	hadamard = [2][2]complex128{{invSqrt2, invSqrt2}, {invSqrt2, -invSqrt2}}
	pauliX   = [2][2]complex128{{0, 1}, {1, 0}}
	pauliY   = [2][2]complex128{{0, complex(0, -1)}, {complex(0, 1), 0}}
	pauliZ   = [2][2]complex128{{1, 0}, {0, -1}}
	sGate    = [2][2]complex128{{1, 0}, {0, complex(0, 1)}}
	tGate    = [2][2]complex128{{1, 0}, {0, cmplx.Exp(complex(0, math.Pi/4))}}
)

func rotation(axis string, theta float64) [2][2]complex128 {
	cos := complex(math.Cos(theta/2), 0)
	sin := math.Sin(theta / 2)
	switch axis {
	case "x":
		return [2][2]complex128{{cos, complex(0, -sin)}, {complex(0, -sin), cos}}
	case "y":
		return [2][2]complex128{{cos, complex(-sin, 0)}, {complex(sin, 0), cos}}
	default: // z
		return [2][2]complex128{
			{cmplx.Exp(complex(0, -theta/2)), 0},
			{0, cmplx.Exp(complex(0, theta/2))},
		}
	}
}

// Register wires the quantum builtins into the registry.
func (q *Quantum) Register(reg *registry.Registry) {
	circuitT := typesystem.Type(CircuitType)
	unitT := typesystem.Type(typesystem.UnitType)
	floatArr := typesystem.Type(typesystem.TArray{Elem: typesystem.FloatType})
	intArr := typesystem.Type(typesystem.TArray{Elem: typesystem.IntType})
	unit := &object.Unit{}

	reg.MustRegister("quantum_circuit", mono([]typesystem.Type{intT}, circuitT),
		func(args ...object.Object) object.Object {
			if len(args) != 1 {
				return argCountError("quantum_circuit", 1, len(args))
			}
			n, ok := args[0].(*object.Integer)
			if !ok {
				return argTypeError("quantum_circuit", "a qubit count (Int)", args[0])
			}
			if n.Value < 1 || n.Value > maxQubits {
				return &object.Error{
					Code:    diagnostics.ErrR003,
					Message: fmt.Sprintf("qubit count must be between 1 and %d, got %d", maxQubits, n.Value),
				}
			}
			return q.newCircuit(int(n.Value))
		})

	// bell_state() builds the standard 2-qubit entangled pair.
	reg.MustRegister("bell_state", mono(nil, circuitT),
		func(args ...object.Object) object.Object {
			if len(args) != 0 {
				return argCountError("bell_state", 0, len(args))
			}
			handle := q.newCircuit(2)
			c := q.circuits[handle.ID]
			c.gates = append(c.gates,
				gate{name: "h", qubits: []int{0}, unitary: hadamard},
				gate{name: "cnot", qubits: []int{0, 1}},
			)
			return handle
		})

	singleGates := map[string][2][2]complex128{
		"h": hadamard,
		"x": pauliX,
		"y": pauliY,
		"z": pauliZ,
		"s": sGate,
		"t": tGate,
	}
	for name, unitary := range singleGates {
		name, unitary := name, unitary
		reg.MustRegister(name, mono([]typesystem.Type{circuitT, intT}, unitT),
			func(args ...object.Object) object.Object {
				if len(args) != 2 {
					return argCountError(name, 2, len(args))
				}
				c, err := q.circuit(args[0])
				if err != nil {
					return err
				}
				qubit, err := qubitIndex(c, args[1])
				if err != nil {
					return err
				}
				c.gates = append(c.gates, gate{name: name, qubits: []int{qubit}, unitary: unitary})
				return unit
			})
	}

	for _, axis := range []string{"x", "y", "z"} {
		axis := axis
		name := "r" + axis
		reg.MustRegister(name, mono([]typesystem.Type{circuitT, intT, floatT}, unitT),
			func(args ...object.Object) object.Object {
				if len(args) != 3 {
					return argCountError(name, 3, len(args))
				}
				c, err := q.circuit(args[0])
				if err != nil {
					return err
				}
				qubit, err := qubitIndex(c, args[1])
				if err != nil {
					return err
				}
				theta, ok := toFloat(args[2])
				if !ok {
					return argTypeError(name, "an angle (Float)", args[2])
				}
				c.gates = append(c.gates, gate{
					name: name, qubits: []int{qubit}, param: theta,
					unitary: rotation(axis, theta),
				})
				return unit
			})
	}

	reg.MustRegister("cnot", mono([]typesystem.Type{circuitT, intT, intT}, unitT),
		func(args ...object.Object) object.Object {
			if len(args) != 3 {
				return argCountError("cnot", 3, len(args))
			}
			c, err := q.circuit(args[0])
			if err != nil {
				return err
			}
			control, err := qubitIndex(c, args[1])
			if err != nil {
				return err
			}
			target, err := qubitIndex(c, args[2])
			if err != nil {
				return err
			}
			c.gates = append(c.gates, gate{name: "cnot", qubits: []int{control, target}})
			return unit
		})

	reg.MustRegister("toffoli", mono([]typesystem.Type{circuitT, intT, intT, intT}, unitT),
		func(args ...object.Object) object.Object {
			if len(args) != 4 {
				return argCountError("toffoli", 4, len(args))
			}
			c, err := q.circuit(args[0])
			if err != nil {
				return err
			}
			qubits := make([]int, 3)
			for i := 0; i < 3; i++ {
				idx, err := qubitIndex(c, args[i+1])
				if err != nil {
					return err
				}
				qubits[i] = idx
			}
			c.gates = append(c.gates, gate{name: "toffoli", qubits: qubits})
			return unit
		})

	reg.MustRegister("num_qubits", mono([]typesystem.Type{circuitT}, intT),
		func(args ...object.Object) object.Object {
			if len(args) != 1 {
				return argCountError("num_qubits", 1, len(args))
			}
			c, err := q.circuit(args[0])
			if err != nil {
				return err
			}
			return &object.Integer{Value: int64(c.numQubits)}
		})

	reg.MustRegister("operations_count", mono([]typesystem.Type{circuitT}, intT),
		func(args ...object.Object) object.Object {
			if len(args) != 1 {
				return argCountError("operations_count", 1, len(args))
			}
			c, err := q.circuit(args[0])
			if err != nil {
				return err
			}
			return &object.Integer{Value: int64(len(c.gates))}
		})

	// simulate_circuit returns the basis-state probability distribution.
	reg.MustRegister("simulate_circuit", mono([]typesystem.Type{circuitT}, floatArr),
		func(args ...object.Object) object.Object {
			if len(args) != 1 {
				return argCountError("simulate_circuit", 1, len(args))
			}
			c, err := q.circuit(args[0])
			if err != nil {
				return err
			}
			probs := c.probabilities()
			out := make([]object.Object, len(probs))
			for i, prob := range probs {
				out[i] = &object.Float{Value: prob}
			}
			return &object.Array{Elements: out}
		})

	reg.MustRegister("measure", mono([]typesystem.Type{circuitT, intT}, intT),
		func(args ...object.Object) object.Object {
			if len(args) != 2 {
				return argCountError("measure", 2, len(args))
			}
			c, err := q.circuit(args[0])
			if err != nil {
				return err
			}
			qubit, err := qubitIndex(c, args[1])
			if err != nil {
				return err
			}
			probs := c.probabilities()
			pOne := 0.0
			for i, prob := range probs {
				if i&(1<<qubit) != 0 {
					pOne += prob
				}
			}
			if q.rng.Float64() < pOne {
				return &object.Integer{Value: 1}
			}
			return &object.Integer{Value: 0}
		})

	reg.MustRegister("measure_all", mono([]typesystem.Type{circuitT}, intArr),
		func(args ...object.Object) object.Object {
			if len(args) != 1 {
				return argCountError("measure_all", 1, len(args))
			}
			c, err := q.circuit(args[0])
			if err != nil {
				return err
			}
			probs := c.probabilities()
			sample := q.rng.Float64()
			basis := 0
			acc := 0.0
			for i, prob := range probs {
				acc += prob
				if sample < acc {
					basis = i
					break
				}
			}
			bits := make([]object.Object, c.numQubits)
			for i := 0; i < c.numQubits; i++ {
				bits[i] = &object.Integer{Value: int64((basis >> i) & 1)}
			}
			return &object.Array{Elements: bits}
		})
}
