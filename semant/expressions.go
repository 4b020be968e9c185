package semant

import (
	"fmt"

	"bantam-compiler/ast"
)

// checkExpr checks expr and its children, records the resolved type on
// expr and returns it.
func (tc *TypeChecker) checkExpr(expr ast.Expr) string {
	var typ string
	switch e := expr.(type) {
	case *ast.ConstIntExpr:
		typ = ast.IntType
	case *ast.ConstBooleanExpr:
		typ = ast.BooleanType
	case *ast.ConstStringExpr:
		typ = ast.StringType
	case *ast.BinaryExpr:
		typ = tc.checkBinaryExpr(e)
	case *ast.UnaryExpr:
		typ = tc.checkUnaryExpr(e)
	case *ast.AssignExpr:
		typ = tc.checkAssignExpr(e)
	case *ast.ArrayAssignExpr:
		typ = tc.checkArrayAssignExpr(e)
	case *ast.ArrayExpr:
		typ = tc.checkArrayExpr(e)
	case *ast.NewArrayExpr:
		typ = tc.checkNewArrayExpr(e)
	case *ast.NewExpr:
		typ = tc.checkNewExpr(e)
	case *ast.CastExpr:
		typ = tc.checkCastExpr(e)
	case *ast.InstanceofExpr:
		typ = tc.checkInstanceofExpr(e)
	case *ast.DispatchExpr:
		typ = tc.checkDispatchExpr(e)
	case *ast.VarExpr:
		typ = tc.checkVarExpr(e)
	default:
		panic(fmt.Sprintf("semant: unexpected expression %T", e))
	}
	expr.SetExprType(typ)
	return typ
}

func isArithmeticOp(op string) bool {
	switch op {
	case ast.OpPlus, ast.OpMinus, ast.OpTimes, ast.OpDivide, ast.OpModulo:
		return true
	}
	return false
}

func isRelationalOp(op string) bool {
	switch op {
	case ast.OpLT, ast.OpGT, ast.OpLEQ, ast.OpGEQ:
		return true
	}
	return false
}

func (tc *TypeChecker) checkBinaryExpr(e *ast.BinaryExpr) string {
	left := tc.checkExpr(e.Left)
	right := tc.checkExpr(e.Right)

	switch {
	case isArithmeticOp(e.Operator):
		if left != ast.IntType || right != ast.IntType {
			tc.errorf(e, "the operands of %s have types %s and %s, both should be int", e.Operator, left, right)
		}
		return ast.IntType
	case isRelationalOp(e.Operator):
		if left != ast.IntType || right != ast.IntType {
			tc.errorf(e, "the operands of %s have types %s and %s, both should be int", e.Operator, left, right)
		}
		return ast.BooleanType
	case e.Operator == ast.OpEQ || e.Operator == ast.OpNE:
		if !tc.isSubType(left, right) || !tc.isSubType(right, left) {
			tc.errorf(e, "the operands of %s have incompatible types %s and %s", e.Operator, left, right)
		}
		return ast.BooleanType
	case e.Operator == ast.OpAnd || e.Operator == ast.OpOr:
		if left != ast.BooleanType || right != ast.BooleanType {
			tc.errorf(e, "the operands of %s have types %s and %s, both should be boolean", e.Operator, left, right)
		}
		return ast.BooleanType
	default:
		tc.errorf(e, "unknown binary operator %s", e.Operator)
		return ast.ObjectType
	}
}

func (tc *TypeChecker) checkUnaryExpr(e *ast.UnaryExpr) string {
	operand := tc.checkExpr(e.Operand)

	switch e.Operator {
	case ast.OpIncr, ast.OpDecr, ast.OpMinus:
		if operand != ast.IntType {
			tc.errorf(e, "the %s operator applies only to int, not %s", e.Operator, operand)
		}
		return ast.IntType
	case ast.OpNot:
		if operand != ast.BooleanType {
			tc.errorf(e, "the ! operator applies only to boolean, not %s", operand)
		}
		return ast.BooleanType
	default:
		tc.errorf(e, "unknown unary operator %s", e.Operator)
		return ast.ObjectType
	}
}

func (tc *TypeChecker) checkAssignExpr(e *ast.AssignExpr) string {
	exprType := tc.checkExpr(e.Expr)

	varType, ok := tc.lookupVar(e.RefName, e.Name)
	if !ok {
		tc.errorf(e, "variable %s has not been defined", e.Name)
		return exprType
	}
	if !tc.isSubType(exprType, varType) {
		tc.errorf(e, "cannot assign a value of type %s to variable %s of type %s", exprType, e.Name, varType)
	}
	return varType
}

// checkIndex checks an array index, which must be int.
func (tc *TypeChecker) checkIndex(index ast.Expr) {
	if typ := tc.checkExpr(index); typ != ast.IntType {
		tc.errorf(index, "the array index has type %s, expected int", typ)
	}
}

// arrayVar resolves an array variable addressed by a plain name or a
// RefName and returns its element type. Failures are reported.
func (tc *TypeChecker) arrayVar(node ast.Node, ref, name string) (string, bool) {
	arrType, ok := tc.lookupVar(ref, name)
	if !ok {
		tc.errorf(node, "array %s has not been defined", name)
		return "", false
	}
	return tc.elementType(node, name, arrType)
}

// elementType returns the element type of arrType, the type of name,
// reporting when it is not an array.
func (tc *TypeChecker) elementType(node ast.Node, name, arrType string) (string, bool) {
	if !ast.IsArrayType(arrType) {
		tc.errorf(node, "variable %s of type %s is not an array", name, arrType)
		return "", false
	}
	return ast.ElementType(arrType), true
}

func (tc *TypeChecker) checkArrayAssignExpr(e *ast.ArrayAssignExpr) string {
	exprType := tc.checkExpr(e.Expr)
	tc.checkIndex(e.Index)

	elemType, ok := tc.arrayVar(e, e.RefName, e.Name)
	if !ok {
		return exprType
	}
	if !tc.isSubType(exprType, elemType) {
		tc.errorf(e, "cannot store a value of type %s into array %s of %s", exprType, e.Name, elemType)
	}
	return elemType
}

// checkArrayExpr resolves a[i] in the current scope and ref.a[i] among the
// fields of ref's static class.
func (tc *TypeChecker) checkArrayExpr(e *ast.ArrayExpr) string {
	var (
		elemType string
		ok       bool
	)
	if e.Ref != nil {
		var arrType string
		if arrType, ok = tc.fieldOf(e, e.Ref, e.Name); ok {
			elemType, ok = tc.elementType(e, e.Name, arrType)
		}
	} else {
		elemType, ok = tc.arrayVar(e, "", e.Name)
	}
	tc.checkIndex(e.Index)

	if !ok {
		return ast.ObjectType
	}
	return elemType
}

func (tc *TypeChecker) checkNewArrayExpr(e *ast.NewArrayExpr) string {
	if typ := tc.checkExpr(e.Size); typ != ast.IntType {
		tc.errorf(e, "the size of the array has type %s, expected int", typ)
	}
	if !tc.isDefinedType(e.Type) {
		tc.errorf(e, "the type %s does not exist", e.Type)
		return ast.ObjectType
	}
	return ast.ArrayOf(e.Type)
}

func (tc *TypeChecker) checkNewExpr(e *ast.NewExpr) string {
	if _, ok := tc.currentClass.ClassMap()[e.Type]; !ok {
		tc.errorf(e, "the type %s does not exist", e.Type)
		return ast.ObjectType
	}
	return e.Type
}

// checkCastExpr accepts casts along the class tree in either direction.
// The cast always resolves to its target type.
func (tc *TypeChecker) checkCastExpr(e *ast.CastExpr) string {
	exprType := tc.checkExpr(e.Expr)

	if tc.isSubType(exprType, e.Type) {
		e.UpCast = true
	} else if !tc.isSubType(e.Type, exprType) {
		tc.errorf(e, "illegal cast of an expression of type %s to type %s", exprType, e.Type)
	}
	return e.Type
}

func (tc *TypeChecker) checkInstanceofExpr(e *ast.InstanceofExpr) string {
	exprType := tc.checkExpr(e.Expr)

	if !tc.isSubType(e.Type, exprType) {
		tc.errorf(e, "an expression of type %s can never be an instance of %s", exprType, e.Type)
	}
	e.UpCheck = tc.isSubType(exprType, e.Type)
	return ast.BooleanType
}

func (tc *TypeChecker) checkDispatchExpr(e *ast.DispatchExpr) string {
	receiver := tc.currentClass.Name
	if e.Ref != nil {
		receiver = tc.checkExpr(e.Ref)
	}

	actualTypes := make([]string, len(e.Actuals))
	for i, actual := range e.Actuals {
		actualTypes[i] = tc.checkExpr(actual)
	}

	var method *ast.Method
	if class, ok := tc.currentClass.ClassMap()[receiver]; ok {
		method, _ = class.LookupMethod(e.MethodName)
	}
	if method == nil {
		tc.errorf(e, "method %s was not found in type %s", e.MethodName, receiver)
		return ast.ObjectType
	}

	tc.compareParamTypes(e, actualTypes, method.Formals)
	return method.ReturnType
}

// compareParamTypes matches actual argument types against the declared
// formals position by position. A length mismatch is reported once and
// ends the comparison; type mismatches are reported for every position.
func (tc *TypeChecker) compareParamTypes(e *ast.DispatchExpr, actualTypes []string, formals []*ast.Formal) {
	n := max(len(actualTypes), len(formals))

	for i := 0; i < n; i++ {
		if i >= len(actualTypes) || i >= len(formals) {
			tc.errorf(e, "method %s takes %d arguments but %d were provided",
				e.MethodName, len(formals), len(actualTypes))
			return
		}

		actual, declared := actualTypes[i], formals[i].Type
		if actual == declared {
			continue
		}
		if ast.IsScalarType(actual) || ast.IsScalarType(declared) {
			tc.errorf(e, "argument %d to method %s has type %s, which does not match the expected type %s",
				i, e.MethodName, actual, declared)
		} else if !tc.isSubType(actual, declared) {
			tc.errorf(e, "argument %d to method %s has type %s, which is not a subtype of %s",
				i, e.MethodName, actual, declared)
		}
	}
}

func (tc *TypeChecker) checkVarExpr(e *ast.VarExpr) string {
	if e.Ref != nil {
		return tc.checkFieldAccess(e)
	}

	switch e.Name {
	case ast.ThisName:
		return tc.currentClass.Name
	case ast.SuperName:
		if parent := tc.currentClass.Parent(); parent != nil {
			return parent.Name
		}
		tc.errorf(e, "class %s has no superclass", tc.currentClass.Name)
		return ast.ObjectType
	}

	typ, ok := tc.vars.Lookup(e.Name)
	if !ok {
		tc.errorf(e, "variable %s has not been defined", e.Name)
		return ast.ObjectType
	}
	return typ
}

// checkFieldAccess resolves ref.name against the fields of ref's class.
func (tc *TypeChecker) checkFieldAccess(e *ast.VarExpr) string {
	if typ, ok := tc.fieldOf(e, e.Ref, e.Name); ok {
		return typ
	}
	return ast.ObjectType
}

// fieldOf checks ref and looks name up among the fields of its static
// class. Failures are reported.
func (tc *TypeChecker) fieldOf(node ast.Node, ref ast.Expr, name string) (string, bool) {
	refType := tc.checkExpr(ref)

	class, ok := tc.currentClass.ClassMap()[refType]
	if !ok {
		tc.errorf(node, "cannot access field %s of a value of type %s", name, refType)
		return "", false
	}
	typ, ok := class.LookupField(name)
	if !ok {
		tc.errorf(node, "field %s is not defined in class %s", name, refType)
		return "", false
	}
	return typ, true
}
