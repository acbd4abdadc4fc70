package object

import "mox/value"

// Environment is one frame of variables. Frames are shared by pointer: a
// closure or bound method keeps its defining frame alive after the block
// which created it has exited.
type Environment struct {
	enclosing *Environment
	values    map[string]value.Value
}

const initialEnvSize int = 4

func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{
		values:    make(map[string]value.Value, initialEnvSize),
		enclosing: enclosing,
	}
}

// Defines a variable in this frame, redefinition replaces the old value.
func (e *Environment) Define(name string, v value.Value) {
	e.values[name] = v
}

// Looks the name up in this frame and then in the enclosing ones.
func (e *Environment) Get(name string) (value.Value, bool) {
	for env := e; env != nil; env = env.enclosing {
		if v, ok := env.values[name]; ok {
			return v, true
		}
	}

	return nil, false
}

// Assigns to the nearest frame defining the name.
// Returns false if the name is not defined anywhere in the chain.
func (e *Environment) Assign(name string, v value.Value) bool {
	for env := e; env != nil; env = env.enclosing {
		if _, ok := env.values[name]; ok {
			env.values[name] = v
			return true
		}
	}

	return false
}

// Return the value stored in the distance number of enclosing scopes away.
// The variable being accessed must exist in that scope.
func (e *Environment) GetAt(distance int, name string) value.Value {
	return ancestor(e, distance).values[name]
}

// Assign to the variable stored in the distance number of enclosing scopes
// away. The variable being accessed must exist in that scope.
func (e *Environment) AssignAt(distance int, name string, v value.Value) {
	ancestor(e, distance).values[name] = v
}

func (e *Environment) Enclosing() *Environment {
	return e.enclosing
}

func ancestor(env *Environment, distance int) *Environment {
	ret := env

	for i := 0; i < distance; i++ {
		ret = ret.enclosing
	}

	return ret
}
