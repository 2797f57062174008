package object

// Environment is a frame in the evaluation environment chain. Lookup walks
// frames outward; each call/block gets a fresh child frame. Frames are never
// cyclic: a closure and its defining scope share the same frame through
// ordinary references.
type Environment struct {
	store   map[string]Object
	mutable map[string]bool
	outer   *Environment
}

func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]Object), mutable: make(map[string]bool)}
}

func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

func (e *Environment) Get(name string) (Object, bool) {
	obj, ok := e.store[name]
	if !ok && e.outer != nil {
		return e.outer.Get(name)
	}
	return obj, ok
}

// Set defines (or redefines) a binding in this frame. Two-phase binding for
// recursive closures relies on this: the name is bound in the frame the
// lambda captures, then overwritten with the finished closure value.
func (e *Environment) Set(name string, val Object) Object {
	e.store[name] = val
	return val
}

// SetMutable defines a reassignable binding (let mut).
func (e *Environment) SetMutable(name string, val Object) Object {
	e.store[name] = val
	e.mutable[name] = true
	return val
}

// Assign updates an existing binding, walking outward to the frame that owns
// it. It reports whether the name was found and whether it was mutable.
func (e *Environment) Assign(name string, val Object) (found, mutable bool) {
	if _, ok := e.store[name]; ok {
		if !e.mutable[name] {
			return true, false
		}
		e.store[name] = val
		return true, true
	}
	if e.outer != nil {
		return e.outer.Assign(name, val)
	}
	return false, false
}
