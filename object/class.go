package object

type Class struct {
	Name       string
	Methods    map[string]*Function
	Superclass *Class // Can be nil
}

// Implement the value.Value interface
// --------------------------------------------------------
func (*Class) MoxValueMarkerFunc() {}

func (c *Class) String() string {
	return c.Name
}

// --------------------------------------------------------

func NewClass(name string, methods map[string]*Function, superclass *Class) *Class {
	return &Class{
		Name:       name,
		Methods:    methods,
		Superclass: superclass,
	}
}

// Arity of the initializer, a class without one takes no arguments.
func (c *Class) Arity() int {
	if method := c.FindMethod("init"); method != nil {
		return method.Arity()
	} else {
		return 0
	}
}

// Looks up a method in the class and then its superclasses.
func (c *Class) FindMethod(name string) *Function {
	for class := c; class != nil; class = class.Superclass {
		if fun, ok := class.Methods[name]; ok {
			return fun
		}
	}

	return nil
}
