package interpreter

import (
	"fmt"
	"io"
	"mox/ast"
	"mox/diag"
	"mox/object"
	"mox/resolver"
	"mox/token"
	"mox/value"
)

// Calls nested deeper than this are reported as a stack overflow. Only
// runaway recursion should reach it.
const DefaultMaxCallDepth = 1 << 14

type Interpreter struct {
	// Global variables
	globals *object.Environment
	// Current scope, globals at the top level.
	env *object.Environment
	// Scope distances of local variable references, see package resolver.
	locals resolver.Locals
	// Where 'print' writes to.
	out io.Writer

	callDepth    int
	maxCallDepth int
}

type Option func(*Interpreter)

// Sets the call depth limit, non-positive values keep the default.
func WithMaxCallDepth(depth int) Option {
	return func(i *Interpreter) {
		if depth > 0 {
			i.maxCallDepth = depth
		}
	}
}

func New(out io.Writer, opts ...Option) *Interpreter {
	globals := object.NewEnvironment(nil)
	for _, native := range object.NativeFunctionsList {
		globals.Define(native.Name, native)
	}

	i := &Interpreter{
		globals:      globals,
		env:          globals,
		locals:       resolver.Locals{},
		out:          out,
		maxCallDepth: DefaultMaxCallDepth,
	}
	for _, opt := range opts {
		opt(i)
	}

	return i
}

// Executes a resolved program. Global state is kept between calls so a
// session can feed the program piece by piece. Returns a *diag.RuntimeError
// if execution was aborted.
func (i *Interpreter) Interpret(statements []ast.Stmt, locals resolver.Locals) error {
	for expr, distance := range locals {
		i.locals[expr] = distance
	}

	// Discard environments (if any) left due to an error in an earlier run.
	i.env = i.globals
	i.callDepth = 0

	for _, stmt := range statements {
		if _, err := i.execute(stmt); err != nil {
			return err
		}
	}

	return nil
}

// Statement evaluators
// --------------------------------------------------------
func (i *Interpreter) execute(stmt ast.Stmt) (control, error) {
	switch s := stmt.(type) {
	case *ast.Block:
		return i.executeBlock(s.Statements, object.NewEnvironment(i.env))

	case *ast.Expression:
		_, err := i.evaluate(s.Expression)
		return linear, err

	case *ast.Print:
		v, err := i.evaluate(s.Expression)
		if err != nil {
			return linear, err
		}
		fmt.Fprintln(i.out, v.String())
		return linear, nil

	case *ast.Var:
		val := value.Value(value.Nil{})
		if s.Initializer != nil {
			v, err := i.evaluate(s.Initializer)
			if err != nil {
				return linear, err
			}
			val = v
		}
		i.env.Define(s.Name.Lexeme, val)
		return linear, nil

	case *ast.If:
		cond, err := i.evaluate(s.Condition)
		if err != nil {
			return linear, err
		}

		if value.Truthiness(cond) {
			return i.execute(s.ThenBranch)
		} else if s.ElseBranch != nil {
			return i.execute(s.ElseBranch)
		}
		return linear, nil

	case *ast.While:
		return i.executeWhile(s)

	case *ast.Function:
		fun := object.NewFunction(s, i.env, false)
		i.env.Define(s.Name.Lexeme, fun)
		return linear, nil

	case *ast.Return:
		val := value.Value(value.Nil{})
		if s.Value != nil {
			v, err := i.evaluate(s.Value)
			if err != nil {
				return linear, err
			}
			val = v
		}
		return control{kind: controlReturn, value: val}, nil

	case *ast.Class:
		return linear, i.executeClass(s)

	default:
		panic(fmt.Sprintf("interpreter: unknown statement %T", stmt))
	}
}

func (i *Interpreter) executeWhile(s *ast.While) (control, error) {
	for {
		cond, err := i.evaluate(s.Condition)
		if err != nil {
			return linear, err
		}
		if !value.Truthiness(cond) {
			return linear, nil
		}

		ctl, err := i.execute(s.Body)
		if err != nil || ctl.kind == controlReturn {
			return ctl, err
		}
	}
}

func (i *Interpreter) executeClass(s *ast.Class) error {
	superclass := (*object.Class)(nil)
	if s.Superclass != nil {
		v, err := i.evaluate(s.Superclass)
		if err != nil {
			return err
		}

		class, ok := v.(*object.Class)
		if !ok {
			return diag.NewRuntimeError(s.Superclass.Name, "Superclass must be a class.")
		}
		superclass = class
	}

	// Bind the name first, so that methods can refer to the class.
	i.env.Define(s.Name.Lexeme, value.Nil{})

	// Methods of a subclass capture a scope holding 'super'.
	closure := i.env
	if superclass != nil {
		closure = object.NewEnvironment(i.env)
		closure.Define("super", superclass)
	}

	methods := make(map[string]*object.Function, len(s.Methods))
	for _, method := range s.Methods {
		// If multiple methods have the same name then the last one is taken.
		methods[method.Name.Lexeme] = object.NewFunction(
			method, closure, method.Name.Lexeme == "init",
		)
	}

	i.env.Define(s.Name.Lexeme, object.NewClass(s.Name.Lexeme, methods, superclass))
	return nil
}

// Expression evaluators
// --------------------------------------------------------
func (i *Interpreter) evaluate(expr ast.Expr) (value.Value, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return e.Value, nil

	case *ast.Grouping:
		return i.evaluate(e.Expr)

	case *ast.Variable:
		return i.lookUpVariable(e.Name, e)

	case *ast.This:
		return i.lookUpVariable(e.Keyword, e)

	case *ast.Assign:
		return i.evaluateAssign(e)

	case *ast.Ternary:
		cond, err := i.evaluate(e.Condition)
		if err != nil {
			return nil, err
		}

		if value.Truthiness(cond) {
			return i.evaluate(e.TrueExpr)
		} else {
			return i.evaluate(e.FalseExpr)
		}

	case *ast.Logical:
		return i.evaluateLogical(e)

	case *ast.Binary:
		return i.evaluateBinary(e)

	case *ast.Unary:
		return i.evaluateUnary(e)

	case *ast.Call:
		return i.evaluateCall(e)

	case *ast.Get:
		obj, err := i.evaluate(e.Object)
		if err != nil {
			return nil, err
		}

		instance, ok := obj.(*object.Instance)
		if !ok {
			return nil, diag.NewRuntimeError(e.Name, "Only instances have properties.")
		}

		if v, ok := instance.Get(e.Name.Lexeme); ok {
			return v, nil
		}
		return nil, diag.NewRuntimeError(e.Name, "Undefined property '%v'.", e.Name.Lexeme)

	case *ast.Set:
		obj, err := i.evaluate(e.Object)
		if err != nil {
			return nil, err
		}

		instance, ok := obj.(*object.Instance)
		if !ok {
			return nil, diag.NewRuntimeError(e.Name, "Only instances have fields.")
		}

		val, err := i.evaluate(e.Value)
		if err != nil {
			return nil, err
		}
		instance.Set(e.Name.Lexeme, val)
		return val, nil

	case *ast.Super:
		return i.evaluateSuper(e)

	default:
		panic(fmt.Sprintf("interpreter: unknown expression %T", expr))
	}
}

func (i *Interpreter) evaluateAssign(e *ast.Assign) (value.Value, error) {
	val, err := i.evaluate(e.Value)
	if err != nil {
		return nil, err
	}

	name := e.Name.Lexeme
	if distance, ok := i.locals[e]; ok {
		i.env.AssignAt(distance, name, val)
	} else if !i.globals.Assign(name, val) {
		return nil, diag.NewRuntimeError(e.Name, "Undefined variable '%v'.", name)
	}

	return val, nil
}

func (i *Interpreter) evaluateLogical(e *ast.Logical) (value.Value, error) {
	left, err := i.evaluate(e.Left)
	if err != nil {
		return nil, err
	}

	// Return the value of the operand which determines the truth value of
	// the logical expression and not a boolean.
	switch e.Operator.Kind {
	case token.OR:
		if value.Truthiness(left) {
			return left, nil
		}

	case token.AND:
		if !value.Truthiness(left) {
			return left, nil
		}

	default:
		panic("Invalid operator in logical expression.")
	}

	return i.evaluate(e.Right)
}

func (i *Interpreter) evaluateBinary(e *ast.Binary) (value.Value, error) {
	left, err := i.evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	var result value.Value

	switch e.Operator.Kind {
	case token.PLUS:
		result, err = value.Add(left, right)
	case token.MINUS:
		result, err = value.Sub(left, right)
	case token.STAR:
		result, err = value.Mul(left, right)
	case token.SLASH:
		result, err = value.Div(left, right)

	case token.GREATER:
		result, err = value.GreaterThan(left, right)
	case token.GREATER_EQUAL:
		result, err = value.GreaterEqual(left, right)
	case token.LESS:
		result, err = value.LessThan(left, right)
	case token.LESS_EQUAL:
		result, err = value.LessEqual(left, right)

	case token.EQUAL_EQUAL:
		result = value.EqualTo(left, right)
	case token.BANG_EQUAL:
		result = !value.EqualTo(left, right)

	default:
		panic("Invalid operator token in binary expression.")
	}

	if err != nil {
		return nil, operatorError(e.Operator, err)
	}
	return result, nil
}

func (i *Interpreter) evaluateUnary(e *ast.Unary) (value.Value, error) {
	right, err := i.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator.Kind {
	case token.BANG:
		return !value.Truthiness(right), nil

	case token.MINUS:
		result, err := value.Neg(right)
		if err != nil {
			return nil, operatorError(e.Operator, err)
		}
		return result, nil

	default:
		panic("Invalid operator token in unary expression.")
	}
}

func (i *Interpreter) evaluateCall(e *ast.Call) (value.Value, error) {
	callee, err := i.evaluate(e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]value.Value, 0, len(e.Arguments))
	for _, arg := range e.Arguments {
		v, err := i.evaluate(arg)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	fun, ok := callee.(object.Callable)
	if !ok {
		return nil, diag.NewRuntimeError(e.Paren, "Can only call functions and classes.")
	}

	if fun.Arity() != len(args) {
		return nil, diag.NewRuntimeError(
			e.Paren, "Expected %v arguments but got %v.",
			fun.Arity(), len(args),
		)
	}

	return i.call(fun, args, e.Paren)
}

func (i *Interpreter) evaluateSuper(e *ast.Super) (value.Value, error) {
	distance, ok := i.locals[e]
	if !ok {
		panic("Unresolved 'super' expression.")
	}

	// 'this' is always in the scope right inside the one holding 'super'.
	superclass := i.env.GetAt(distance, "super").(*object.Class)
	instance := i.env.GetAt(distance-1, "this").(*object.Instance)

	method := superclass.FindMethod(e.Method.Lexeme)
	if method == nil {
		return nil, diag.NewRuntimeError(
			e.Method, "Undefined property '%v'.", e.Method.Lexeme,
		)
	}

	return method.Bind(instance), nil
}

// Function calls
// --------------------------------------------------------
func (i *Interpreter) call(callee object.Callable, args []value.Value, paren token.Token) (value.Value, error) {
	switch fun := callee.(type) {
	case *object.NativeFunction:
		return fun.Call(args), nil

	case *object.Function:
		return i.callFunction(fun, args, paren)

	case *object.Class:
		instance := object.NewInstance(fun)
		// Constructors always yield the instance.
		if init := fun.FindMethod("init"); init != nil {
			if _, err := i.callFunction(init.Bind(instance), args, paren); err != nil {
				return nil, err
			}
		}
		return instance, nil

	default:
		panic(fmt.Sprintf("interpreter: unknown callable %T", callee))
	}
}

func (i *Interpreter) callFunction(fun *object.Function, args []value.Value, paren token.Token) (value.Value, error) {
	if i.callDepth >= i.maxCallDepth {
		return nil, diag.NewRuntimeError(paren, "Stack overflow.")
	}
	i.callDepth++
	defer func() { i.callDepth-- }()

	// Parameters reside in a new scope enclosed by the function's closure.
	env := object.NewEnvironment(fun.Closure)
	for idx, param := range fun.Declaration.Params {
		env.Define(param.Lexeme, args[idx])
	}

	ctl, err := i.executeBlock(fun.Declaration.Body, env)
	if err != nil {
		return nil, err
	}

	switch {
	case fun.IsInit:
		// The closure of a bound initializer holds 'this'.
		return fun.Closure.GetAt(0, "this"), nil
	case ctl.kind == controlReturn:
		return ctl.value, nil
	default:
		return value.Nil{}, nil
	}
}

// Utility methods
// --------------------------------------------------------
func (i *Interpreter) executeBlock(statements []ast.Stmt, environ *object.Environment) (control, error) {
	// Use supplied environment to execute code and later restore the old one.
	old_env := i.env
	i.env = environ
	defer func() {
		i.env = old_env
	}()

	for _, stmt := range statements {
		ctl, err := i.execute(stmt)
		if err != nil || ctl.kind != controlLinear {
			return ctl, err
		}
	}

	return linear, nil
}

func (i *Interpreter) lookUpVariable(name token.Token, expr ast.Expr) (value.Value, error) {
	if distance, ok := i.locals[expr]; ok {
		return i.env.GetAt(distance, name.Lexeme), nil
	}

	if v, ok := i.globals.Get(name.Lexeme); ok {
		return v, nil
	}

	return nil, diag.NewRuntimeError(name, "Undefined variable '%v'.", name.Lexeme)
}

// Attaches the operator location to a type error from package value.
func operatorError(operator token.Token, err error) error {
	return &diag.RuntimeError{Token: operator, Message: err.Error()}
}
