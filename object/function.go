package object

import (
	"fmt"
	"mox/ast"
	"mox/value"
)

// Callable is implemented by every value which can be called:
// *Function, *NativeFunction and *Class.
type Callable interface {
	value.Value
	Arity() int
}

type Function struct {
	Declaration *ast.Function
	Closure     *Environment
	IsInit      bool // Is class constructor?
}

// Implement the value.Value interface
// --------------------------------------------------------
func (*Function) MoxValueMarkerFunc() {}

func (f *Function) String() string {
	return fmt.Sprintf("<fn %v>", f.Declaration.Name.Lexeme)
}

// --------------------------------------------------------

func NewFunction(decl *ast.Function, closure *Environment, is_init bool) *Function {
	return &Function{
		Declaration: decl,
		Closure:     closure,
		IsInit:      is_init,
	}
}

func (f *Function) Arity() int {
	return len(f.Declaration.Params)
}

// Creates a new function bound to the instance.
func (f *Function) Bind(instance *Instance) *Function {
	// Put the instance in a new scope enclosed by the scope which
	// previously enclosed the function's scope.
	// This way 'this' inside the method always refers to the instance.
	env := NewEnvironment(f.Closure)
	env.Define("this", instance)

	return NewFunction(f.Declaration, env, f.IsInit)
}
