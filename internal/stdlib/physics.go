package stdlib

import (
	"fmt"

	"github.com/matrixlang/matrixlang/internal/diagnostics"
	"github.com/matrixlang/matrixlang/internal/object"
	"github.com/matrixlang/matrixlang/internal/registry"
	"github.com/matrixlang/matrixlang/internal/typesystem"
)

// WorldType is the opaque type of a physics world handle.
var WorldType = typesystem.TCon{Name: "World"}

type vec3 struct {
	x, y, z float64
}

type physicsObject struct {
	shape    string
	mass     float64
	position vec3
	velocity vec3
	isStatic bool
}

// physicsWorld integrates objects under gravity with a fixed 60 FPS step
// and a damped ground bounce at y = 0.
type physicsWorld struct {
	objects []*physicsObject
	gravity vec3
	time    float64
	dt      float64
}

func newPhysicsWorld() *physicsWorld {
	return &physicsWorld{
		gravity: vec3{y: -9.81},
		dt:      1.0 / 60.0,
	}
}

func (w *physicsWorld) addObject(shape string, mass float64, position vec3) int {
	w.objects = append(w.objects, &physicsObject{
		shape:    shape,
		mass:     mass,
		position: position,
		isStatic: mass == 0,
	})
	return len(w.objects) - 1
}

func (w *physicsWorld) step() {
	for _, obj := range w.objects {
		if obj.isStatic {
			continue
		}
		obj.velocity.y += w.gravity.y * w.dt
		obj.position.x += obj.velocity.x * w.dt
		obj.position.y += obj.velocity.y * w.dt
		obj.position.z += obj.velocity.z * w.dt

		if obj.position.y < 0 {
			obj.position.y = 0
			obj.velocity.y = -obj.velocity.y * 0.8
		}
	}
	w.time += w.dt
}

// Physics owns every world created in one session, keyed by handle ID. The
// interpreter only ever sees the Handle values.
type Physics struct {
	worlds map[int]*physicsWorld
	nextID int
}

func NewPhysics() *Physics {
	return &Physics{worlds: make(map[int]*physicsWorld)}
}

func (p *Physics) world(obj object.Object) (*physicsWorld, *object.Error) {
	handle, ok := obj.(*object.Handle)
	if !ok || handle.Kind != object.HandlePhysics {
		return nil, argTypeError("physics builtin", "World", obj)
	}
	w, ok := p.worlds[handle.ID]
	if !ok {
		return nil, &object.Error{
			Code:    diagnostics.ErrR003,
			Message: fmt.Sprintf("physics world %d not found", handle.ID),
		}
	}
	return w, nil
}

func objectIn(w *physicsWorld, arg object.Object) (*physicsObject, *object.Error) {
	idx, ok := arg.(*object.Integer)
	if !ok {
		return nil, argTypeError("physics builtin", "an object id (Int)", arg)
	}
	if idx.Value < 0 || idx.Value >= int64(len(w.objects)) {
		return nil, &object.Error{
			Code:    diagnostics.ErrR003,
			Message: fmt.Sprintf("physics object %d not found", idx.Value),
		}
	}
	return w.objects[idx.Value], nil
}

func vec3FromArray(arg object.Object) (vec3, *object.Error) {
	arr, ok := arg.(*object.Array)
	if !ok || len(arr.Elements) != 3 {
		return vec3{}, &object.Error{
			Code:    diagnostics.ErrR003,
			Message: "position must be an [x, y, z] array",
		}
	}
	var out [3]float64
	for i, el := range arr.Elements {
		v, ok := toFloat(el)
		if !ok {
			return vec3{}, argTypeError("physics builtin", "numeric vector components", el)
		}
		out[i] = v
	}
	return vec3{x: out[0], y: out[1], z: out[2]}, nil
}

func vec3ToArray(v vec3) *object.Array {
	return &object.Array{Elements: []object.Object{
		&object.Float{Value: v.x},
		&object.Float{Value: v.y},
		&object.Float{Value: v.z},
	}}
}

// Register wires the physics builtins into the registry.
func (p *Physics) Register(reg *registry.Registry) {
	worldT := typesystem.Type(WorldType)
	floatArr := typesystem.Type(typesystem.TArray{Elem: typesystem.FloatType})
	stringT := typesystem.Type(typesystem.StringType)
	unitT := typesystem.Type(typesystem.UnitType)
	unit := &object.Unit{}

	reg.MustRegister("create_physics_world", mono(nil, worldT),
		func(args ...object.Object) object.Object {
			if len(args) != 0 {
				return argCountError("create_physics_world", 0, len(args))
			}
			id := p.nextID
			p.nextID++
			p.worlds[id] = newPhysicsWorld()
			return &object.Handle{Kind: object.HandlePhysics, ID: id}
		})

	reg.MustRegister("add_rigid_body", mono([]typesystem.Type{worldT, stringT, floatT, floatArr}, intT),
		func(args ...object.Object) object.Object {
			if len(args) != 4 {
				return argCountError("add_rigid_body", 4, len(args))
			}
			w, err := p.world(args[0])
			if err != nil {
				return err
			}
			shape, ok := args[1].(*object.String)
			if !ok {
				return argTypeError("add_rigid_body", "a shape name (String)", args[1])
			}
			mass, ok := toFloat(args[2])
			if !ok {
				return argTypeError("add_rigid_body", "a mass (Float)", args[2])
			}
			position, err := vec3FromArray(args[3])
			if err != nil {
				return err
			}
			return &object.Integer{Value: int64(w.addObject(shape.Value, mass, position))}
		})

	reg.MustRegister("physics_step", mono([]typesystem.Type{worldT}, unitT),
		func(args ...object.Object) object.Object {
			if len(args) != 1 {
				return argCountError("physics_step", 1, len(args))
			}
			w, err := p.world(args[0])
			if err != nil {
				return err
			}
			w.step()
			return unit
		})

	reg.MustRegister("get_object_position", mono([]typesystem.Type{worldT, intT}, floatArr),
		func(args ...object.Object) object.Object {
			if len(args) != 2 {
				return argCountError("get_object_position", 2, len(args))
			}
			w, err := p.world(args[0])
			if err != nil {
				return err
			}
			obj, err := objectIn(w, args[1])
			if err != nil {
				return err
			}
			return vec3ToArray(obj.position)
		})

	reg.MustRegister("get_object_velocity", mono([]typesystem.Type{worldT, intT}, floatArr),
		func(args ...object.Object) object.Object {
			if len(args) != 2 {
				return argCountError("get_object_velocity", 2, len(args))
			}
			w, err := p.world(args[0])
			if err != nil {
				return err
			}
			obj, err := objectIn(w, args[1])
			if err != nil {
				return err
			}
			return vec3ToArray(obj.velocity)
		})

	reg.MustRegister("get_object_mass", mono([]typesystem.Type{worldT, intT}, floatT),
		func(args ...object.Object) object.Object {
			if len(args) != 2 {
				return argCountError("get_object_mass", 2, len(args))
			}
			w, err := p.world(args[0])
			if err != nil {
				return err
			}
			obj, err := objectIn(w, args[1])
			if err != nil {
				return err
			}
			return &object.Float{Value: obj.mass}
		})

	reg.MustRegister("get_object_shape", mono([]typesystem.Type{worldT, intT}, stringT),
		func(args ...object.Object) object.Object {
			if len(args) != 2 {
				return argCountError("get_object_shape", 2, len(args))
			}
			w, err := p.world(args[0])
			if err != nil {
				return err
			}
			obj, err := objectIn(w, args[1])
			if err != nil {
				return err
			}
			return &object.String{Value: obj.shape}
		})

	reg.MustRegister("set_object_mass", mono([]typesystem.Type{worldT, intT, floatT}, unitT),
		func(args ...object.Object) object.Object {
			if len(args) != 3 {
				return argCountError("set_object_mass", 3, len(args))
			}
			w, err := p.world(args[0])
			if err != nil {
				return err
			}
			obj, err := objectIn(w, args[1])
			if err != nil {
				return err
			}
			mass, ok := toFloat(args[2])
			if !ok {
				return argTypeError("set_object_mass", "a mass (Float)", args[2])
			}
			obj.mass = mass
			obj.isStatic = mass == 0
			return unit
		})

	reg.MustRegister("list_objects", mono([]typesystem.Type{worldT}, typesystem.TArray{Elem: typesystem.IntType}),
		func(args ...object.Object) object.Object {
			if len(args) != 1 {
				return argCountError("list_objects", 1, len(args))
			}
			w, err := p.world(args[0])
			if err != nil {
				return err
			}
			ids := make([]object.Object, len(w.objects))
			for i := range w.objects {
				ids[i] = &object.Integer{Value: int64(i)}
			}
			return &object.Array{Elements: ids}
		})
}
