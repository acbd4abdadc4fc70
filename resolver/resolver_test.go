package resolver

import (
	"mox/ast"
	"mox/diag"
	"mox/parser"
	"reflect"
	"testing"
)

func resolve(t *testing.T, source string) ([]ast.Stmt, Locals, []string) {
	t.Helper()

	diags := diag.NewCollector()
	stmts := parser.ParseSource(source, diags)
	if diags.HasErrors() {
		t.Fatalf("syntax errors: %v", diags.Errors())
	}

	locals := Resolve(stmts, diags)

	msgs := make([]string, 0)
	for _, e := range diags.Errors() {
		msgs = append(msgs, e.Error())
	}
	return stmts, locals, msgs
}

func TestResolveDistances(t *testing.T) {
	tests := []struct {
		name   string
		source string
		// Picks the reference to check from the parsed program.
		pick func(stmts []ast.Stmt) ast.Expr
		want int
	}{
		{
			name:   "enclosing block",
			source: "{ var a = 1; { print a; } }",
			pick: func(stmts []ast.Stmt) ast.Expr {
				inner := stmts[0].(*ast.Block).Statements[1].(*ast.Block)
				return inner.Statements[0].(*ast.Print).Expression
			},
			want: 1,
		},
		{
			name:   "parameter",
			source: "fun f(x) { return x; }",
			pick: func(stmts []ast.Stmt) ast.Expr {
				return stmts[0].(*ast.Function).Body[0].(*ast.Return).Value
			},
			want: 0,
		},
		{
			name:   "captured by closure",
			source: "fun outer() { var c = 0; fun inner() { c = c + 1; } }",
			pick: func(stmts []ast.Stmt) ast.Expr {
				inner := stmts[0].(*ast.Function).Body[1].(*ast.Function)
				return inner.Body[0].(*ast.Expression).Expression
			},
			want: 1,
		},
		{
			name:   "this in method",
			source: "class A { m() { return this; } }",
			pick: func(stmts []ast.Stmt) ast.Expr {
				return stmts[0].(*ast.Class).Methods[0].Body[0].(*ast.Return).Value
			},
			want: 1,
		},
		{
			name:   "super in method",
			source: "class A {} class B < A { m() { return super.m; } }",
			pick: func(stmts []ast.Stmt) ast.Expr {
				return stmts[1].(*ast.Class).Methods[0].Body[0].(*ast.Return).Value
			},
			want: 2,
		},
		{
			name:   "shadowing picks innermost",
			source: "{ var a = 1; { var a = 2; print a; } }",
			pick: func(stmts []ast.Stmt) ast.Expr {
				inner := stmts[0].(*ast.Block).Statements[1].(*ast.Block)
				return inner.Statements[1].(*ast.Print).Expression
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts, locals, errs := resolve(t, tt.source)
			if len(errs) != 0 {
				t.Fatalf("unexpected errors: %q", errs)
			}

			expr := tt.pick(stmts)
			got, ok := locals[expr]
			if !ok {
				t.Fatalf("%v not resolved as local", ast.Sprint(expr))
			}
			if got != tt.want {
				t.Fatalf("distance = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestResolveGlobalsAreNotRecorded(t *testing.T) {
	stmts, locals, errs := resolve(t, "var a = 1; fun f() { print a; }")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %q", errs)
	}

	ref := stmts[1].(*ast.Function).Body[0].(*ast.Print).Expression
	if d, ok := locals[ref]; ok {
		t.Fatalf("global reference recorded with distance %d", d)
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		errors []string
	}{
		{
			name:   "local self reference",
			source: "{ var a = a; }",
			errors: []string{"[line 1] Error at 'a': Can't read local variable in its own initializer."},
		},
		{
			name:   "global self reference",
			source: "var a = a;",
			errors: []string{"[line 1] Error at 'a': Can't read local variable in its own initializer."},
		},
		{
			name:   "duplicate in block",
			source: "{ var a; var a; }",
			errors: []string{"[line 1] Error at 'a': Already a variable with this name in this scope."},
		},
		{
			name:   "duplicate parameter",
			source: "fun f(a, a) {}",
			errors: []string{"[line 1] Error at 'a': Already a variable with this name in this scope."},
		},
		{
			name:   "top level return",
			source: "return 1;",
			errors: []string{"[line 1] Error at 'return': Can't return from top-level code."},
		},
		{
			name:   "value returned from initializer",
			source: "class A {\n init() { return 1; } }",
			errors: []string{"[line 2] Error at 'return': Can't return a value from an initializer."},
		},
		{
			name:   "this outside class",
			source: "fun f() { print this; }",
			errors: []string{"[line 1] Error at 'this': Can't use 'this' outside of a class."},
		},
		{
			name:   "super outside class",
			source: "super.m();",
			errors: []string{"[line 1] Error at 'super': Can't use 'super' outside of a class."},
		},
		{
			name:   "super without superclass",
			source: "class A { m() { super.m(); } }",
			errors: []string{"[line 1] Error at 'super': Can't use 'super' in a class with no superclass."},
		},
		{
			name:   "inherits from itself",
			source: "class A < A {}",
			errors: []string{"[line 1] Error at 'A': A class can't inherit from itself."},
		},
		{
			name:   "several independent errors",
			source: "return;\nprint this;",
			errors: []string{
				"[line 1] Error at 'return': Can't return from top-level code.",
				"[line 2] Error at 'this': Can't use 'this' outside of a class.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, errs := resolve(t, tt.source)
			if !reflect.DeepEqual(errs, tt.errors) {
				t.Fatalf("errors = %q, want %q", errs, tt.errors)
			}
		})
	}
}

func TestResolveValidPrograms(t *testing.T) {
	sources := []string{
		"var a = 1; var a = 2;",
		"class A { init() { return; } }",
		"class A { m() { fun g() { return this; } return g; } }",
		"fun f() { return f; }",
		"class A { m() { return A; } }",
		"{ var a = 1; { var a = a; } }",
	}

	for _, source := range sources {
		t.Run(source, func(t *testing.T) {
			if _, _, errs := resolve(t, source); len(errs) != 0 {
				t.Fatalf("unexpected errors: %q", errs)
			}
		})
	}
}
