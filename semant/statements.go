package semant

import (
	"fmt"

	"bantam-compiler/ast"
)

func (tc *TypeChecker) checkStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		tc.checkStmt(s)
	}
}

func (tc *TypeChecker) checkStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.DeclStmt:
		tc.checkDeclStmt(s)
	case *ast.ExprStmt:
		tc.checkExprStmt(s)
	case *ast.IfStmt:
		tc.checkIfStmt(s)
	case *ast.WhileStmt:
		tc.checkWhileStmt(s)
	case *ast.ForStmt:
		tc.checkForStmt(s)
	case *ast.BlockStmt:
		tc.withScope(func() { tc.checkStmts(s.Stmts) })
	case *ast.BreakStmt:
		if tc.loopDepth == 0 {
			tc.errorf(s, "break statement outside of a loop")
		}
	case *ast.ReturnStmt:
		tc.checkReturnStmt(s)
	default:
		panic(fmt.Sprintf("semant: unexpected statement %T", s))
	}
}

// checkDeclStmt checks the initializer against the declared type and then
// binds the name in the innermost scope. A name already bound in that same
// scope is a redeclaration; a binding in an enclosing scope is shadowed.
func (tc *TypeChecker) checkDeclStmt(s *ast.DeclStmt) {
	if s.Init != nil {
		initType := tc.checkExpr(s.Init)
		if !tc.isSubType(initType, s.Type) {
			tc.errorf(s, "variable %s of type %s cannot be initialized with a value of type %s",
				s.Name, s.Type, initType)
		}
	}

	if _, dup := tc.vars.Peek(s.Name); dup {
		tc.errorf(s, "variable %s is already defined in this scope", s.Name)
	}
	tc.vars.Add(s.Name, s.Type)
}

func (tc *TypeChecker) checkExprStmt(s *ast.ExprStmt) {
	tc.checkExpr(s.Expr)

	switch e := s.Expr.(type) {
	case *ast.AssignExpr, *ast.ArrayAssignExpr, *ast.DispatchExpr, *ast.NewExpr:
	case *ast.UnaryExpr:
		if e.Operator != ast.OpIncr && e.Operator != ast.OpDecr {
			tc.errorf(s, "the result of the %s operator is not used", e.Operator)
		}
	default:
		tc.errorf(s, "expression statement has no effect")
	}
}

// checkPredicate checks a control-flow condition, which must be boolean.
func (tc *TypeChecker) checkPredicate(construct string, pred ast.Expr) {
	if typ := tc.checkExpr(pred); typ != ast.BooleanType {
		tc.errorf(pred, "the predicate of the %s statement has type %s, expected boolean", construct, typ)
	}
}

func (tc *TypeChecker) checkIfStmt(s *ast.IfStmt) {
	tc.checkPredicate("if", s.Pred)
	tc.withScope(func() { tc.checkStmt(s.Then) })
	if s.Else != nil {
		tc.withScope(func() { tc.checkStmt(s.Else) })
	}
}

func (tc *TypeChecker) checkWhileStmt(s *ast.WhileStmt) {
	tc.checkPredicate("while", s.Pred)
	tc.checkLoopBody(s.Body)
}

func (tc *TypeChecker) checkForStmt(s *ast.ForStmt) {
	if s.Init != nil {
		if typ := tc.checkExpr(s.Init); typ != ast.IntType {
			tc.errorf(s.Init, "the initializer of the for statement has type %s, expected int", typ)
		}
	}
	if s.Pred != nil {
		tc.checkPredicate("for", s.Pred)
	}
	if s.Update != nil {
		if typ := tc.checkExpr(s.Update); typ != ast.IntType {
			tc.errorf(s.Update, "the update of the for statement has type %s, expected int", typ)
		}
	}
	tc.checkLoopBody(s.Body)
}

func (tc *TypeChecker) checkLoopBody(body ast.Stmt) {
	tc.loopDepth++
	defer func() { tc.loopDepth-- }()
	tc.withScope(func() { tc.checkStmt(body) })
}

func (tc *TypeChecker) checkReturnStmt(s *ast.ReturnStmt) {
	var want string
	if tc.currentMethod != nil {
		want = tc.currentMethod.ReturnType
	}

	if s.Expr == nil {
		if want != "" && want != ast.VoidType {
			tc.errorf(s, "method %s must return a value of type %s", tc.currentMethod.Name, want)
		}
		return
	}

	typ := tc.checkExpr(s.Expr)
	switch {
	case want == ast.VoidType:
		tc.errorf(s, "method %s is void and cannot return a value", tc.currentMethod.Name)
	case want != "" && !tc.isSubType(typ, want):
		tc.errorf(s, "method %s returns %s, which is not compatible with the declared return type %s",
			tc.currentMethod.Name, typ, want)
	}
}
