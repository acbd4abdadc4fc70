package object

import (
	"mox/value"
)

type Instance struct {
	Fields map[string]value.Value
	Class  *Class
}

// Implement the value.Value interface
// --------------------------------------------------------
func (*Instance) MoxValueMarkerFunc() {}

func (i *Instance) String() string {
	return i.Class.Name + " instance"
}

// --------------------------------------------------------

func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: map[string]value.Value{}}
}

func (i *Instance) Get(name string) (value.Value, bool) {
	// Fields take precedence over methods
	if v, ok := i.Fields[name]; ok {
		return v, true
	} else if method := i.Class.FindMethod(name); method != nil {
		// Puts 'this' so that the method can access it.
		return method.Bind(i), true
	} else {
		return nil, false
	}
}

func (i *Instance) Set(name string, v value.Value) {
	i.Fields[name] = v
}
