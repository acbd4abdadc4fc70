// Package resolver computes the lexical address of every local variable
// reference before the program runs and reports static scoping errors.
package resolver

import (
	"fmt"
	"mox/ast"
	"mox/diag"
	"mox/token"
	"mox/util"
)

// Locals maps a variable reference (Variable, Assign, This or Super node) to
// the number of scopes between it and its declaration. References missing
// from the map are globals.
type Locals map[ast.Expr]int

type Resolver struct {
	// Current scope information, innermost last. Empty at the top level.
	scopes []localScope
	// Current class type
	currentClass classKind
	// Current function type
	currentFunction functionKind

	// Name of the global variable whose initializer is being resolved.
	initializingGlobal string

	locals Locals
	diags  *diag.Collector
}

// Resolves a whole program, errors are reported to diags.
func Resolve(stmts []ast.Stmt, diags *diag.Collector) Locals {
	r := Resolver{
		scopes:          make([]localScope, 0, 8),
		currentClass:    kindNoClass,
		currentFunction: kindNoFunction,
		locals:          Locals{},
		diags:           diags,
	}

	r.resolveStmts(stmts)
	return r.locals
}

// Statement resolvers
// --------------------------------------------------------
func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		r.resolveStmt(stmt)
	}
}

func (r *Resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Block:
		r.pushScope()
		r.resolveStmts(s.Statements)
		r.popScope()

	case *ast.Expression:
		r.resolveExpr(s.Expression)

	case *ast.Print:
		r.resolveExpr(s.Expression)

	case *ast.Var:
		r.declareVariable(s.Name)
		if s.Initializer != nil {
			if len(r.scopes) == 0 {
				r.initializingGlobal = s.Name.Lexeme
			}
			r.resolveExpr(s.Initializer)
			r.initializingGlobal = ""
		}
		// A variable is defined only after its initialization is complete.
		r.defineVariable(s.Name)

	case *ast.If:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.ThenBranch)
		if s.ElseBranch != nil {
			r.resolveStmt(s.ElseBranch)
		}

	case *ast.While:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Body)

	case *ast.Function:
		r.declareVariable(s.Name)
		r.defineVariable(s.Name) // A function can refer to itself inside it.
		r.resolveFunction(s, kindFunction)

	case *ast.Return:
		r.resolveReturn(s)

	case *ast.Class:
		r.resolveClass(s)

	default:
		panic(fmt.Sprintf("resolver: unknown statement %T", stmt))
	}
}

func (r *Resolver) resolveReturn(s *ast.Return) {
	if r.currentFunction == kindNoFunction {
		r.diags.ReportAt(s.Keyword, "Can't return from top-level code.")
	}

	if s.Value == nil {
		return
	}

	if r.currentFunction == kindInitializer {
		r.diags.ReportAt(s.Keyword, "Can't return a value from an initializer.")
	}
	r.resolveExpr(s.Value)
}

func (r *Resolver) resolveClass(s *ast.Class) {
	// Track if inside a class.
	old_class := r.currentClass
	r.currentClass = kindClass
	defer func() { r.currentClass = old_class }()

	r.declareVariable(s.Name)
	r.defineVariable(s.Name) // A class can refer to itself.

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.diags.ReportAt(s.Superclass.Name, "A class can't inherit from itself.")
			// Continue after the error as the syntax is well formed.
		}

		r.currentClass = kindSubclass
		r.resolveExpr(s.Superclass)

		// 'super' is put in a scope which encloses all the methods' scopes.
		// It is shared among all instances of the class.
		r.pushScope()
		r.putDefined("super")
		defer r.popScope()
	}

	// 'this' is put in a scope enclosed by the one for 'super' (if any) and
	// enclosing each method, the interpreter creates it when binding.
	r.pushScope()
	r.putDefined("this")
	defer r.popScope()

	for _, method := range s.Methods {
		kind := kindMethod
		// Class constructor is named 'init'.
		if method.Name.Lexeme == "init" {
			kind = kindInitializer
		}

		r.resolveFunction(method, kind)
	}
}

// For functions, methods and initializers, manages its own scope.
func (r *Resolver) resolveFunction(fun *ast.Function, kind functionKind) {
	// Track if inside a function.
	old_func := r.currentFunction
	r.currentFunction = kind
	defer func() { r.currentFunction = old_func }()

	// Begin function scope, function parameters reside in it.
	r.pushScope()
	defer r.popScope()

	for _, param := range fun.Params {
		r.declareVariable(param)
		r.defineVariable(param)
	}

	r.resolveStmts(fun.Body)
}

// Expression resolvers
// --------------------------------------------------------
func (r *Resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name)

	case *ast.Ternary:
		r.resolveExpr(e.Condition)
		r.resolveExpr(e.TrueExpr)
		r.resolveExpr(e.FalseExpr)

	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Unary:
		r.resolveExpr(e.Right)

	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Arguments {
			r.resolveExpr(arg)
		}

	case *ast.Get:
		// Properties are looked up dynamically, only the object is resolved.
		r.resolveExpr(e.Object)

	case *ast.Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)

	case *ast.Super:
		switch r.currentClass {
		case kindNoClass:
			r.diags.ReportAt(e.Keyword, "Can't use 'super' outside of a class.")
		case kindClass:
			r.diags.ReportAt(e.Keyword, "Can't use 'super' in a class with no superclass.")
		}
		// Continue after the error as the syntax is well formed.
		r.resolveLocal(e, e.Keyword)

	case *ast.This:
		if r.currentClass == kindNoClass {
			r.diags.ReportAt(e.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e, e.Keyword)

	case *ast.Grouping:
		r.resolveExpr(e.Expr)

	case *ast.Literal:
		// Nothing to resolve.

	case *ast.Variable:
		if r.isUninitialized(e.Name.Lexeme) {
			r.diags.ReportAt(e.Name, "Can't read local variable in its own initializer.")
			// Continue after the error as the syntax is well formed.
		}
		r.resolveLocal(e, e.Name)

	default:
		panic(fmt.Sprintf("resolver: unknown expression %T", expr))
	}
}

// Variable and scope management
// --------------------------------------------------------
func (r *Resolver) pushScope() {
	util.Push(&r.scopes, makeLocalScope())
}

func (r *Resolver) popScope() {
	util.Pop(&r.scopes)
}

// Declares the variable in the current scope.
// Reports an error if the variable was already declared in the scope.
func (r *Resolver) declareVariable(name token.Token) {
	// If global then do nothing, globals may be redeclared.
	if len(r.scopes) == 0 {
		return
	}

	scope := util.Last(r.scopes)
	if slot, _ := scope.getVariable(name.Lexeme); slot >= 0 {
		r.diags.ReportAt(name, "Already a variable with this name in this scope.")
		return
	}

	scope.putVariable(name.Lexeme)
}

// Marks the declared variable defined.
func (r *Resolver) defineVariable(name token.Token) {
	// If global then do nothing
	if len(r.scopes) == 0 {
		return
	}

	util.Last(r.scopes).markDefined(name.Lexeme)
}

// Reports if name is declared in the current scope but its initializer
// has not completed yet. At the top level only the global being
// initialized is tracked.
func (r *Resolver) isUninitialized(name string) bool {
	if len(r.scopes) == 0 {
		return name == r.initializingGlobal
	}

	slot, defined := util.Last(r.scopes).getVariable(name)
	return slot >= 0 && !defined
}

// Puts a variable in the current scope which is defined right away.
func (r *Resolver) putDefined(name string) {
	scope := util.Last(r.scopes)
	scope.putVariable(name)
	scope.markDefined(name)
}

// Records the distance of the scope declaring the referenced name, if any.
func (r *Resolver) resolveLocal(expr ast.Expr, name token.Token) {
	// Reversed, inside out traversal.
	for i := range r.scopes {
		at := len(r.scopes) - i - 1

		if slot, _ := r.scopes[at].getVariable(name.Lexeme); slot >= 0 {
			r.locals[expr] = i
			return
		}
	}

	// Not found, assume it is global.
}
