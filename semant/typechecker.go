package semant

import (
	"fmt"

	"bantam-compiler/ast"
	"bantam-compiler/diagnostics"
	"bantam-compiler/hierarchy"
	"bantam-compiler/symtab"
)

// TypeChecker annotates one class at a time with resolved expression types.
// Every rule that fails reports a diagnostic and still assigns a type to the
// offending node, so enclosing expressions keep being checked.
type TypeChecker struct {
	sink diagnostics.Sink

	currentClass  *hierarchy.Node
	currentMethod *ast.Method
	vars          *symtab.Table
	loopDepth     int
}

func NewTypeChecker(sink diagnostics.Sink) *TypeChecker {
	return &TypeChecker{sink: sink}
}

// Check type checks the class held by node. Scopes entered during the
// traversal are all exited again before Check returns.
func (tc *TypeChecker) Check(node *hierarchy.Node) {
	tc.currentClass = node
	tc.vars = node.Vars
	tc.currentMethod = nil
	tc.loopDepth = 0

	for _, member := range node.AST.Members {
		switch m := member.(type) {
		case *ast.Field:
			tc.checkField(m)
		case *ast.Method:
			tc.checkMethod(m)
		default:
			panic(fmt.Sprintf("semant: unexpected class member %T", m))
		}
	}
}

func (tc *TypeChecker) errorf(node ast.Node, format string, args ...any) {
	tc.sink.Register(diagnostics.SemantError, tc.currentClass.Filename(), node.LineNum(), fmt.Sprintf(format, args...))
}

// withScope runs fn inside a fresh innermost scope.
func (tc *TypeChecker) withScope(fn func()) {
	tc.vars.EnterScope()
	defer tc.vars.ExitScope()
	fn()
}

// isDefinedType reports whether typ names a builtin scalar or a declared
// class. An array type is defined when its element type is.
func (tc *TypeChecker) isDefinedType(typ string) bool {
	if ast.IsArrayType(typ) {
		typ = ast.ElementType(typ)
	}
	if ast.IsScalarType(typ) {
		return true
	}
	_, ok := tc.currentClass.ClassMap()[typ]
	return ok
}

// isSubType reports whether nodeType equals targetType or is a descendant
// of it in the class tree.
func (tc *TypeChecker) isSubType(nodeType, targetType string) bool {
	if nodeType == targetType {
		return true
	}
	cur, ok := tc.currentClass.ClassMap()[nodeType]
	if !ok {
		return false
	}
	for ; cur != nil; cur = cur.Parent() {
		if cur.Name == targetType {
			return true
		}
	}
	return false
}

func (tc *TypeChecker) checkField(f *ast.Field) {
	if !tc.isDefinedType(f.Type) {
		tc.errorf(f, "the declared type %s of field %s is undefined", f.Type, f.Name)
	}
	if f.Init == nil {
		return
	}
	initType := tc.checkExpr(f.Init)
	if !tc.isSubType(initType, f.Type) {
		tc.errorf(f, "the initializer of field %s has type %s, which is not compatible with the declared type %s",
			f.Name, initType, f.Type)
	}
}

func (tc *TypeChecker) checkMethod(m *ast.Method) {
	if !tc.isDefinedType(m.ReturnType) && m.ReturnType != ast.VoidType {
		tc.errorf(m, "the return type %s of method %s is undefined", m.ReturnType, m.Name)
	}

	tc.currentMethod = m
	defer func() { tc.currentMethod = nil }()

	tc.withScope(func() {
		for _, f := range m.Formals {
			tc.checkFormal(f)
		}
		tc.checkStmts(m.Body)
	})
}

func (tc *TypeChecker) checkFormal(f *ast.Formal) {
	if !tc.isDefinedType(f.Type) {
		tc.errorf(f, "the declared type %s of formal parameter %s is undefined", f.Type, f.Name)
	}
	if _, dup := tc.vars.Peek(f.Name); dup {
		tc.errorf(f, "formal parameter %s is already defined", f.Name)
	}
	tc.vars.Add(f.Name, f.Type)
}

// lookupVar resolves an assignment target. ref is empty for a plain name,
// "this" or "super" to address a field directly, or the name of a variable
// whose static class holds the field.
func (tc *TypeChecker) lookupVar(ref, name string) (string, bool) {
	switch ref {
	case "":
		return tc.vars.Lookup(name)
	case ast.ThisName:
		return tc.currentClass.LookupField(name)
	case ast.SuperName:
		if parent := tc.currentClass.Parent(); parent != nil {
			return parent.LookupField(name)
		}
		return "", false
	}

	refType, ok := tc.vars.Lookup(ref)
	if !ok {
		return "", false
	}
	class, ok := tc.currentClass.ClassMap()[refType]
	if !ok {
		return "", false
	}
	return class.LookupField(name)
}
