package parser

import (
	"mox/ast"
	"mox/diag"
	"reflect"
	"strings"
	"testing"
)

func parse(t *testing.T, source string) ([]ast.Stmt, []string) {
	t.Helper()

	diags := diag.NewCollector()
	stmts := ParseSource(source, diags)

	msgs := make([]string, 0)
	for _, e := range diags.Errors() {
		msgs = append(msgs, e.Error())
	}
	return stmts, msgs
}

func TestParseExpressions(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"1 + 2 * 3;", "(; (+ 1 (* 2 3)))"},
		{"1 - 2 - 3;", "(; (- (- 1 2) 3))"},
		{"(1 + 2) * 3;", "(; (* (group (+ 1 2)) 3))"},
		{"a = b = 1;", "(; (= a (= b 1)))"},
		{"a or b and c;", "(; (or a (and b c)))"},
		{"!-x == y;", "(; (== (! (- x)) y))"},
		{"a < b != c >= d;", "(; (!= (< a b) (>= c d)))"},
		{"a ? b : c ? d : e;", "(; (?: a b (?: c d e)))"},
		{"f(1)(2).g.h = 3;", "(; (set (get (call (call f 1) 2) g) h 3))"},
		{"f(a, b, c);", "(; (call f a b c))"},
		{"print \"hi\";", "(print \"hi\")"},
		{"print nil == false;", "(print (== nil false))"},
		{"this.x;", "(; (get this x))"},
		{"super.m();", "(; (call super.m))"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			stmts, errs := parse(t, tt.source)
			if len(errs) != 0 {
				t.Fatalf("unexpected errors: %q", errs)
			}
			if got := ast.Sprint(stmts); got != tt.want {
				t.Fatalf("Sprint = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseStatements(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"var", "var a; var b = nil;", "(var a)\n(var b nil)"},
		{"block", "{ var a = 1; print a; }", "(block (var a 1) (print a))"},
		{"if else", "if (a) print 1; else print 2;", "(if a (print 1) (print 2))"},
		{"dangling else", "if (a) if (b) x; else y;", "(if a (if b (; x) (; y)))"},
		{"while", "while (a) a = a - 1;", "(while a (; (= a (- a 1))))"},
		{
			"for desugars",
			"for (var i = 0; i < 3; i = i + 1) print i;",
			"(block (var i 0) (while (< i 3) (block (print i) (; (= i (+ i 1))))))",
		},
		{"for without clauses", "for (;;) x;", "(while true (; x))"},
		{"for with expression init", "for (i = 0; i < 1;) x;", "(block (; (= i 0)) (while (< i 1) (; x)))"},
		{"function", "fun f(a, b) { return; }", "(fun f (a b) (return))"},
		{"return value", "fun f() { return 1; }", "(fun f () (return 1))"},
		{
			"class",
			"class B < A { init(x) { this.x = x; } m() { return super.m(); } }",
			"(class B < A (method init (x) (; (set this x x))) (method m () (return (call super.m))))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts, errs := parse(t, tt.source)
			if len(errs) != 0 {
				t.Fatalf("unexpected errors: %q", errs)
			}
			if got := ast.Sprint(stmts); got != tt.want {
				t.Fatalf("Sprint = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		errors []string
		stmts  int
	}{
		{
			name:   "invalid assignment target",
			source: "1 = 2;",
			errors: []string{"[line 1] Error at '=': Invalid assignment target."},
			stmts:  1,
		},
		{
			name:   "missing expression at end",
			source: "foo(",
			errors: []string{"[line 1] Error at end: Expect expression."},
		},
		{
			name:   "synchronizes at statement boundary",
			source: "print 1 print 2;\nvar x = ;\nprint 3;",
			errors: []string{
				"[line 1] Error at 'print': Expect ';' after value.",
				"[line 2] Error at ';': Expect expression.",
			},
			stmts: 1,
		},
		{
			name:   "errors inside a block",
			source: "{ var = 1; print 2; }",
			errors: []string{"[line 1] Error at '=': Expect variable name."},
			stmts:  1,
		},
		{
			name:   "missing class body",
			source: "class A print 1;",
			errors: []string{"[line 1] Error at 'print': Expect '{' before class body."},
		},
		{
			name:   "super without method",
			source: "super;",
			errors: []string{"[line 1] Error at ';': Expect '.' after 'super'."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts, errs := parse(t, tt.source)
			if !reflect.DeepEqual(errs, tt.errors) {
				t.Fatalf("errors = %q, want %q", errs, tt.errors)
			}
			if len(stmts) != tt.stmts {
				t.Fatalf("got %d statements, want %d: %v", len(stmts), tt.stmts, ast.Sprint(stmts))
			}
		})
	}
}

func TestParseTooManyArguments(t *testing.T) {
	args := strings.Repeat("0, ", 255) + "0"
	stmts, errs := parse(t, "f("+args+");")

	want := []string{"[line 1] Error at '0': Can't have more than 255 arguments."}
	if !reflect.DeepEqual(errs, want) {
		t.Fatalf("errors = %q, want %q", errs, want)
	}
	// The call is still parsed.
	if len(stmts) != 1 {
		t.Fatalf("got %d statements, want 1", len(stmts))
	}

	params := make([]string, 256)
	for i := range params {
		params[i] = "p" + strings.Repeat("x", i)
	}
	_, errs = parse(t, "fun f("+strings.Join(params, ", ")+") {}")
	if len(errs) != 1 || !strings.HasSuffix(errs[0], "Can't have more than 255 parameters.") {
		t.Fatalf("errors = %q, want a single parameter limit error", errs)
	}
}

func TestNodesAreDistinct(t *testing.T) {
	stmts, _ := parse(t, "a; a;")

	first := stmts[0].(*ast.Expression).Expression
	second := stmts[1].(*ast.Expression).Expression
	if first == second {
		t.Fatal("identical expressions at different positions must be distinct nodes")
	}
}
