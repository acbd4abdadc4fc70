package ast

import (
	"fmt"
	"strings"

	"mox/value"
)

// Sprint renders a node as an S-expression, for debugging and tests.
// Accepts an Expr, a Stmt or a []Stmt (printed one statement per line).
func Sprint(node any) string {
	switch n := node.(type) {
	case Expr:
		return printExpr(n)
	case Stmt:
		return printStmt(n)
	case []Stmt:
		lines := make([]string, len(n))
		for i, s := range n {
			lines[i] = printStmt(s)
		}
		return strings.Join(lines, "\n")
	default:
		panic(fmt.Sprintf("ast.Sprint: unknown node type %T", node))
	}
}

func printExpr(e Expr) string {
	switch e := e.(type) {
	case *Assign:
		return parens("=", e.Name.Lexeme, printExpr(e.Value))
	case *Ternary:
		return parens("?:",
			printExpr(e.Condition), printExpr(e.TrueExpr), printExpr(e.FalseExpr))
	case *Logical:
		return parens(e.Operator.Lexeme, printExpr(e.Left), printExpr(e.Right))
	case *Binary:
		return parens(e.Operator.Lexeme, printExpr(e.Left), printExpr(e.Right))
	case *Unary:
		return parens(e.Operator.Lexeme, printExpr(e.Right))
	case *Call:
		// Put the callee before args.
		frags := []string{"call", printExpr(e.Callee)}
		for _, arg := range e.Arguments {
			frags = append(frags, printExpr(arg))
		}
		return parens(frags...)
	case *Get:
		return parens("get", printExpr(e.Object), e.Name.Lexeme)
	case *Set:
		return parens("set", printExpr(e.Object), e.Name.Lexeme, printExpr(e.Value))
	case *Super:
		return "super." + e.Method.Lexeme
	case *This:
		return "this"
	case *Grouping:
		return parens("group", printExpr(e.Expr))
	case *Literal:
		if s, ok := e.Value.(value.String); ok {
			return fmt.Sprintf("%q", string(s))
		}
		if e.Value == nil {
			return "nil"
		}
		return e.Value.String()
	case *Variable:
		return e.Name.Lexeme
	default:
		panic(fmt.Sprintf("ast: unknown expression %T", e))
	}
}

func printStmt(s Stmt) string {
	switch s := s.(type) {
	case *Expression:
		return parens(";", printExpr(s.Expression))
	case *Print:
		return parens("print", printExpr(s.Expression))
	case *Var:
		if s.Initializer == nil {
			return parens("var", s.Name.Lexeme)
		}
		return parens("var", s.Name.Lexeme, printExpr(s.Initializer))
	case *Block:
		frags := []string{"block"}
		for _, stmt := range s.Statements {
			frags = append(frags, printStmt(stmt))
		}
		return parens(frags...)
	case *If:
		if s.ElseBranch == nil {
			return parens("if", printExpr(s.Condition), printStmt(s.ThenBranch))
		}
		return parens("if", printExpr(s.Condition),
			printStmt(s.ThenBranch), printStmt(s.ElseBranch))
	case *While:
		return parens("while", printExpr(s.Condition), printStmt(s.Body))
	case *Return:
		if s.Value == nil {
			return parens("return")
		}
		return parens("return", printExpr(s.Value))
	case *Function:
		return printFunction("fun", s)
	case *Class:
		frags := []string{"class", s.Name.Lexeme}
		if s.Superclass != nil {
			frags = append(frags, "<", s.Superclass.Name.Lexeme)
		}
		for _, m := range s.Methods {
			frags = append(frags, printFunction("method", m))
		}
		return parens(frags...)
	default:
		panic(fmt.Sprintf("ast: unknown statement %T", s))
	}
}

func printFunction(kind string, f *Function) string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Lexeme
	}

	frags := []string{kind, f.Name.Lexeme, "(" + strings.Join(params, " ") + ")"}
	for _, stmt := range f.Body {
		frags = append(frags, printStmt(stmt))
	}
	return parens(frags...)
}

func parens(frags ...string) string {
	return "(" + strings.Join(frags, " ") + ")"
}
