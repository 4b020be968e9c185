package ast

import "fmt"

// A Visitor's Visit method is invoked for each node encountered by Walk.
// If the result visitor w is not nil, Walk visits each of the children
// of node with w, followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses a tree in depth-first order, children in source order.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	switch n := node.(type) {
	case *Program:
		for _, c := range n.Classes {
			Walk(v, c)
		}
	case *Class:
		for _, m := range n.Members {
			Walk(v, m)
		}
	case *Field:
		walkExpr(v, n.Init)
	case *Method:
		for _, f := range n.Formals {
			Walk(v, f)
		}
		walkStmts(v, n.Body)
	case *Formal:
		// leaf

	case *DeclStmt:
		walkExpr(v, n.Init)
	case *ExprStmt:
		walkExpr(v, n.Expr)
	case *IfStmt:
		walkExpr(v, n.Pred)
		walkStmt(v, n.Then)
		walkStmt(v, n.Else)
	case *WhileStmt:
		walkExpr(v, n.Pred)
		walkStmt(v, n.Body)
	case *ForStmt:
		walkExpr(v, n.Init)
		walkExpr(v, n.Pred)
		walkExpr(v, n.Update)
		walkStmt(v, n.Body)
	case *BlockStmt:
		walkStmts(v, n.Stmts)
	case *BreakStmt:
		// leaf
	case *ReturnStmt:
		walkExpr(v, n.Expr)

	case *DispatchExpr:
		walkExpr(v, n.Ref)
		for _, a := range n.Actuals {
			walkExpr(v, a)
		}
	case *NewExpr:
		// leaf
	case *NewArrayExpr:
		walkExpr(v, n.Size)
	case *InstanceofExpr:
		walkExpr(v, n.Expr)
	case *CastExpr:
		walkExpr(v, n.Expr)
	case *AssignExpr:
		walkExpr(v, n.Expr)
	case *ArrayAssignExpr:
		walkExpr(v, n.Index)
		walkExpr(v, n.Expr)
	case *BinaryExpr:
		walkExpr(v, n.Left)
		walkExpr(v, n.Right)
	case *UnaryExpr:
		walkExpr(v, n.Operand)
	case *VarExpr:
		walkExpr(v, n.Ref)
	case *ArrayExpr:
		walkExpr(v, n.Ref)
		walkExpr(v, n.Index)
	case *ConstIntExpr, *ConstBooleanExpr, *ConstStringExpr:
		// leaves

	default:
		panic(fmt.Sprintf("ast.Walk: unexpected node type %T", n))
	}

	v.Visit(nil)
}

func walkExpr(v Visitor, e Expr) {
	if e != nil {
		Walk(v, e)
	}
}

func walkStmt(v Visitor, s Stmt) {
	if s != nil {
		Walk(v, s)
	}
}

func walkStmts(v Visitor, list []Stmt) {
	for _, s := range list {
		Walk(v, s)
	}
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect traverses a tree in depth-first order: It starts by calling
// f(node); node must not be nil. If f returns true, Inspect invokes f
// recursively for each of the non-nil children of node, followed by a
// call of f(nil).
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}
