package ast

import (
	"mox/token"
	"mox/value"
)

// Expr is implemented only by the expression nodes below. Nodes are always
// handled through pointers: passes key their side tables by node identity.
type Expr interface {
	exprNode()
}

type Assign struct {
	Name  token.Token
	Value Expr
}

type Ternary struct {
	Condition           Expr
	TrueExpr, FalseExpr Expr
}

type Logical struct {
	Operator    token.Token
	Left, Right Expr
}

type Binary struct {
	Operator    token.Token
	Left, Right Expr
}

type Unary struct {
	Operator token.Token
	Right    Expr
}

type Call struct {
	Callee    Expr
	Paren     token.Token // Closing paren, for error location.
	Arguments []Expr
}

type Get struct {
	Object Expr
	Name   token.Token
}

type Set struct {
	Object Expr
	Name   token.Token
	Value  Expr
}

// super, this, grouping, variable and literal are primary expressions.

type Super struct {
	Keyword token.Token
	Method  token.Token
}

type This struct {
	Keyword token.Token
}

type Grouping struct {
	Expr Expr
}

type Variable struct {
	Name token.Token
}

type Literal struct {
	Value value.Value
}

func (*Assign) exprNode()   {}
func (*Ternary) exprNode()  {}
func (*Logical) exprNode()  {}
func (*Binary) exprNode()   {}
func (*Unary) exprNode()    {}
func (*Call) exprNode()     {}
func (*Get) exprNode()      {}
func (*Set) exprNode()      {}
func (*Super) exprNode()    {}
func (*This) exprNode()     {}
func (*Grouping) exprNode() {}
func (*Literal) exprNode()  {}
func (*Variable) exprNode() {}
