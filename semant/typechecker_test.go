package semant

import (
	"strings"
	"testing"

	"bantam-compiler/ast"
	"bantam-compiler/diagnostics"
	"bantam-compiler/hierarchy"
)

func intc(v int) ast.Expr      { return &ast.ConstIntExpr{Value: v} }
func boolc(v bool) ast.Expr    { return &ast.ConstBooleanExpr{Value: v} }
func strc(v string) ast.Expr   { return &ast.ConstStringExpr{Value: v} }
func ref(name string) ast.Expr { return &ast.VarExpr{Name: name} }

func bin(op string, l, r ast.Expr) ast.Expr {
	return &ast.BinaryExpr{Operator: op, Left: l, Right: r}
}

func unary(op string, operand ast.Expr) ast.Expr {
	return &ast.UnaryExpr{Operator: op, Operand: operand}
}

func call(receiver ast.Expr, name string, args ...ast.Expr) ast.Expr {
	return &ast.DispatchExpr{Ref: receiver, MethodName: name, Actuals: args}
}

func decl(typ, name string, init ast.Expr) ast.Stmt {
	return &ast.DeclStmt{Type: typ, Name: name, Init: init}
}

func exprStmt(e ast.Expr) ast.Stmt { return &ast.ExprStmt{Expr: e} }

func block(stmts ...ast.Stmt) ast.Stmt { return &ast.BlockStmt{Stmts: stmts} }

// shapesProgram declares a small hierarchy: Square and Circle extend Shape,
// Color and Box are unrelated, and Main is the class under test.
func shapesProgram() *ast.Program {
	return &ast.Program{Classes: []*ast.Class{
		{Filename: "Main.btm", Name: "Main", Members: []ast.Member{
			&ast.Field{Type: ast.IntType, Name: "count"},
			&ast.Method{ReturnType: ast.VoidType, Name: "run"},
		}},
		{Filename: "Shape.btm", Name: "Shape", Members: []ast.Member{
			&ast.Method{ReturnType: ast.IntType, Name: "resize", Formals: []*ast.Formal{
				{Type: ast.IntType, Name: "factor"},
				{Type: "Shape", Name: "other"},
			}},
		}},
		{Filename: "Square.btm", Name: "Square", Parent: "Shape", Members: []ast.Member{
			&ast.Field{Type: ast.IntType, Name: "side"},
		}},
		{Filename: "Circle.btm", Name: "Circle", Parent: "Shape"},
		{Filename: "Color.btm", Name: "Color"},
		{Filename: "Box.btm", Name: "Box", Members: []ast.Member{
			&ast.Field{Type: "boolean[]", Name: "arr"},
			&ast.Field{Type: ast.IntType, Name: "size"},
		}},
	}}
}

func setupTypeChecker(t *testing.T) (*TypeChecker, *diagnostics.Collector) {
	t.Helper()
	sink := diagnostics.NewCollector()
	tree := hierarchy.Build(shapesProgram(), sink)
	if sink.HasErrors() {
		t.Fatalf("unexpected hierarchy errors: %v", sink.Diagnostics())
	}
	main, _ := tree.Lookup("Main")

	tc := NewTypeChecker(sink)
	tc.currentClass = main
	tc.vars = main.Vars
	return tc, sink
}

// locals are bound in a method scope around every expression test.
var locals = map[string]string{
	"x":      ast.IntType,
	"b":      ast.BooleanType,
	"s":      ast.StringType,
	"arr":    "int[]",
	"shapes": "Shape[]",
	"shape":  "Shape",
	"square": "Square",
	"circle": "Circle",
	"color":  "Color",
	"box":    "Box",
}

func errorsContaining(sink *diagnostics.Collector, fragment string) bool {
	for _, d := range sink.Diagnostics() {
		if strings.Contains(d.Message, fragment) {
			return true
		}
	}
	return false
}

func TestIsSubType(t *testing.T) {
	tests := []struct {
		name     string
		sub      string
		super    string
		expected bool
	}{
		{"int reflexive", ast.IntType, ast.IntType, true},
		{"boolean reflexive", ast.BooleanType, ast.BooleanType, true},
		{"String reflexive", ast.StringType, ast.StringType, true},
		{"Object reflexive", ast.ObjectType, ast.ObjectType, true},
		{"class reflexive", "Shape", "Shape", true},
		{"array reflexive", "Shape[]", "Shape[]", true},
		{"direct parent", "Square", "Shape", true},
		{"transitive to root", "Square", ast.ObjectType, true},
		{"builtin to root", ast.StringType, ast.ObjectType, true},
		{"parent is not a subtype", "Shape", "Square", false},
		{"siblings", "Square", "Circle", false},
		{"siblings reversed", "Circle", "Square", false},
		{"unrelated", "Color", "Shape", false},
		{"unrelated reversed", "Shape", "Color", false},
		{"scalar to root", ast.IntType, ast.ObjectType, false},
		{"unknown type", "Missing", ast.ObjectType, false},
		{"arrays are invariant", "Square[]", "Shape[]", false},
	}

	tc, _ := setupTypeChecker(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tc.isSubType(tt.sub, tt.super)
			if result != tt.expected {
				t.Errorf("isSubType(%s, %s) = %v; want %v", tt.sub, tt.super, result, tt.expected)
			}
		})
	}
}

func TestCheckExpr(t *testing.T) {
	tests := []struct {
		name          string
		expr          ast.Expr
		expectedType  string
		expectedCount int
		expectedError string
	}{
		{name: "int literal", expr: intc(5), expectedType: ast.IntType},
		{name: "boolean literal", expr: boolc(true), expectedType: ast.BooleanType},
		{name: "string literal", expr: strc("hi"), expectedType: ast.StringType},

		{name: "arithmetic", expr: bin(ast.OpPlus, intc(1), ref("x")), expectedType: ast.IntType},
		{
			name:          "arithmetic on a class",
			expr:          bin(ast.OpTimes, intc(1), ref("shape")),
			expectedType:  ast.IntType,
			expectedCount: 1,
			expectedError: "both should be int",
		},
		{name: "relational", expr: bin(ast.OpLT, ref("x"), intc(3)), expectedType: ast.BooleanType},
		{
			name:          "relational on boolean",
			expr:          bin(ast.OpGEQ, ref("x"), ref("b")),
			expectedType:  ast.BooleanType,
			expectedCount: 1,
		},
		{name: "equality of related classes", expr: bin(ast.OpEQ, ref("shape"), ref("square")), expectedType: ast.BooleanType},
		{
			name:          "equality of siblings",
			expr:          bin(ast.OpNE, ref("square"), ref("circle")),
			expectedType:  ast.BooleanType,
			expectedCount: 1,
			expectedError: "incompatible types",
		},
		{
			name:          "equality of scalars",
			expr:          bin(ast.OpEQ, ref("x"), ref("b")),
			expectedType:  ast.BooleanType,
			expectedCount: 1,
		},
		{name: "logical", expr: bin(ast.OpAnd, ref("b"), boolc(false)), expectedType: ast.BooleanType},
		{
			name:          "logical on int",
			expr:          bin(ast.OpOr, ref("b"), intc(0)),
			expectedType:  ast.BooleanType,
			expectedCount: 1,
			expectedError: "both should be boolean",
		},
		{
			name:          "unknown binary operator",
			expr:          bin("^", intc(1), intc(2)),
			expectedType:  ast.ObjectType,
			expectedCount: 1,
			expectedError: "unknown binary operator",
		},

		{name: "negation", expr: unary(ast.OpMinus, ref("x")), expectedType: ast.IntType},
		{name: "not", expr: unary(ast.OpNot, ref("b")), expectedType: ast.BooleanType},
		{
			name:          "increment of boolean",
			expr:          unary(ast.OpIncr, ref("b")),
			expectedType:  ast.IntType,
			expectedCount: 1,
		},
		{
			name:          "not of int",
			expr:          unary(ast.OpNot, intc(1)),
			expectedType:  ast.BooleanType,
			expectedCount: 1,
		},

		{name: "assign", expr: &ast.AssignExpr{Name: "x", Expr: intc(1)}, expectedType: ast.IntType},
		{name: "assign subtype", expr: &ast.AssignExpr{Name: "shape", Expr: &ast.NewExpr{Type: "Square"}}, expectedType: "Shape"},
		{
			name:          "assign supertype",
			expr:          &ast.AssignExpr{Name: "square", Expr: &ast.NewExpr{Type: "Shape"}},
			expectedType:  "Square",
			expectedCount: 1,
			expectedError: "cannot assign",
		},
		{
			name:          "assign to undefined variable",
			expr:          &ast.AssignExpr{Name: "y", Expr: boolc(true)},
			expectedType:  ast.BooleanType,
			expectedCount: 1,
			expectedError: "variable y has not been defined",
		},
		{name: "assign field through this", expr: &ast.AssignExpr{RefName: ast.ThisName, Name: "count", Expr: intc(3)}, expectedType: ast.IntType},
		{
			name:          "assign missing field through super",
			expr:          &ast.AssignExpr{RefName: ast.SuperName, Name: "count", Expr: intc(3)},
			expectedType:  ast.IntType,
			expectedCount: 1,
		},

		{name: "array assign", expr: &ast.ArrayAssignExpr{Name: "arr", Index: intc(0), Expr: intc(5)}, expectedType: ast.IntType},
		{name: "array assign subtype", expr: &ast.ArrayAssignExpr{Name: "shapes", Index: ref("x"), Expr: ref("square")}, expectedType: "Shape"},
		{
			name:          "array assign boolean index",
			expr:          &ast.ArrayAssignExpr{Name: "arr", Index: boolc(true), Expr: intc(5)},
			expectedType:  ast.IntType,
			expectedCount: 1,
			expectedError: "array index",
		},
		{
			name:          "array assign wrong element",
			expr:          &ast.ArrayAssignExpr{Name: "arr", Index: intc(0), Expr: ref("b")},
			expectedType:  ast.IntType,
			expectedCount: 1,
		},
		{
			name:          "array assign into scalar",
			expr:          &ast.ArrayAssignExpr{Name: "x", Index: intc(0), Expr: ref("b")},
			expectedType:  ast.BooleanType,
			expectedCount: 1,
			expectedError: "is not an array",
		},

		{name: "array access", expr: &ast.ArrayExpr{Name: "arr", Index: intc(1)}, expectedType: ast.IntType},
		{
			name:          "undefined array access",
			expr:          &ast.ArrayExpr{Name: "nums", Index: intc(1)},
			expectedType:  ast.ObjectType,
			expectedCount: 1,
		},

		{
			name:         "array field of a variable",
			expr:         &ast.ArrayExpr{Ref: ref("box"), Name: "arr", Index: intc(0)},
			expectedType: ast.BooleanType,
		},
		{
			name:         "array field of an expression",
			expr:         &ast.ArrayExpr{Ref: &ast.NewExpr{Type: "Box"}, Name: "arr", Index: ref("x")},
			expectedType: ast.BooleanType,
		},
		{
			name:          "array field missing from this",
			expr:          &ast.ArrayExpr{Ref: ref(ast.ThisName), Name: "arr", Index: intc(0)},
			expectedType:  ast.ObjectType,
			expectedCount: 1,
			expectedError: "field arr is not defined in class Main",
		},
		{
			name:          "array field of a scalar",
			expr:          &ast.ArrayExpr{Ref: ref("x"), Name: "arr", Index: intc(0)},
			expectedType:  ast.ObjectType,
			expectedCount: 1,
			expectedError: "cannot access field arr of a value of type int",
		},
		{
			name:          "non-array field indexed",
			expr:          &ast.ArrayExpr{Ref: ref("box"), Name: "size", Index: intc(0)},
			expectedType:  ast.ObjectType,
			expectedCount: 1,
			expectedError: "is not an array",
		},
		{
			name:         "array assign through a variable",
			expr:         &ast.ArrayAssignExpr{RefName: "box", Name: "arr", Index: intc(0), Expr: boolc(true)},
			expectedType: ast.BooleanType,
		},
		{
			name:          "array assign through a variable with wrong element",
			expr:          &ast.ArrayAssignExpr{RefName: "box", Name: "arr", Index: intc(0), Expr: intc(1)},
			expectedType:  ast.BooleanType,
			expectedCount: 1,
			expectedError: "cannot store a value of type int",
		},
		{
			name:          "array assign through an undefined variable",
			expr:          &ast.ArrayAssignExpr{RefName: "crate", Name: "arr", Index: intc(0), Expr: intc(1)},
			expectedType:  ast.IntType,
			expectedCount: 1,
			expectedError: "array arr has not been defined",
		},
		{name: "assign field through a variable", expr: &ast.AssignExpr{RefName: "box", Name: "size", Expr: intc(4)}, expectedType: ast.IntType},

		{name: "new array", expr: &ast.NewArrayExpr{Type: ast.IntType, Size: intc(3)}, expectedType: "int[]"},
		{name: "new array of class", expr: &ast.NewArrayExpr{Type: "Shape", Size: ref("x")}, expectedType: "Shape[]"},
		{
			name:          "new array of undefined type",
			expr:          &ast.NewArrayExpr{Type: "Missing", Size: intc(3)},
			expectedType:  ast.ObjectType,
			expectedCount: 1,
			expectedError: "Missing does not exist",
		},
		{
			name:          "new array with boolean size",
			expr:          &ast.NewArrayExpr{Type: ast.IntType, Size: boolc(true)},
			expectedType:  "int[]",
			expectedCount: 1,
		},

		{name: "new", expr: &ast.NewExpr{Type: "Square"}, expectedType: "Square"},
		{name: "new builtin", expr: &ast.NewExpr{Type: "TextIO"}, expectedType: "TextIO"},
		{
			name:          "new undefined class",
			expr:          &ast.NewExpr{Type: "Missing"},
			expectedType:  ast.ObjectType,
			expectedCount: 1,
		},

		{name: "upcast", expr: &ast.CastExpr{Type: "Shape", Expr: ref("square")}, expectedType: "Shape"},
		{name: "downcast", expr: &ast.CastExpr{Type: "Square", Expr: ref("shape")}, expectedType: "Square"},
		{
			name:          "unrelated cast",
			expr:          &ast.CastExpr{Type: "Color", Expr: ref("shape")},
			expectedType:  "Color",
			expectedCount: 1,
			expectedError: "illegal cast",
		},

		{name: "instanceof narrowing", expr: &ast.InstanceofExpr{Expr: ref("shape"), Type: "Square"}, expectedType: ast.BooleanType},
		{
			name:          "instanceof unrelated",
			expr:          &ast.InstanceofExpr{Expr: ref("shape"), Type: "Color"},
			expectedType:  ast.BooleanType,
			expectedCount: 1,
		},

		{name: "dispatch", expr: call(ref("shape"), "resize", intc(1), ref("square")), expectedType: ast.IntType},
		{name: "inherited dispatch", expr: call(ref("square"), "resize", intc(1), ref("circle")), expectedType: ast.IntType},
		{name: "dispatch on current class", expr: call(nil, "run"), expectedType: ast.VoidType},
		{name: "dispatch on this", expr: call(ref(ast.ThisName), "run"), expectedType: ast.VoidType},
		{name: "dispatch on super", expr: call(ref(ast.SuperName), "hashCode"), expectedType: ast.IntType},
		{name: "dispatch on String", expr: call(ref("s"), "substring", intc(0), intc(2)), expectedType: ast.StringType},
		{name: "dispatch on literal", expr: call(strc("abc"), "length"), expectedType: ast.IntType},
		{
			name:          "scalar passed for class",
			expr:          call(ref("shape"), "resize", intc(1), intc(2)),
			expectedType:  ast.IntType,
			expectedCount: 1,
			expectedError: "argument 1 to method resize",
		},
		{
			name:          "every mismatched argument is reported",
			expr:          call(ref("shape"), "resize", boolc(true), intc(2)),
			expectedType:  ast.IntType,
			expectedCount: 2,
		},
		{
			name:          "unrelated class argument",
			expr:          call(ref("shape"), "resize", intc(1), ref("color")),
			expectedType:  ast.IntType,
			expectedCount: 1,
			expectedError: "is not a subtype of Shape",
		},
		{
			name:          "too many arguments",
			expr:          call(ref("shape"), "resize", intc(1), ref("square"), intc(3)),
			expectedType:  ast.IntType,
			expectedCount: 1,
			expectedError: "takes 2 arguments but 3 were provided",
		},
		{
			name:          "too few arguments after a mismatch",
			expr:          call(ref("shape"), "resize", ref("b")),
			expectedType:  ast.IntType,
			expectedCount: 2,
			expectedError: "takes 2 arguments but 1 were provided",
		},
		{
			name:          "unknown method",
			expr:          call(ref("shape"), "spin"),
			expectedType:  ast.ObjectType,
			expectedCount: 1,
			expectedError: "method spin was not found in type Shape",
		},
		{
			name:          "dispatch on scalar",
			expr:          call(ref("x"), "length"),
			expectedType:  ast.ObjectType,
			expectedCount: 1,
		},

		{name: "local variable", expr: ref("square"), expectedType: "Square"},
		{name: "field through scope", expr: ref("count"), expectedType: ast.IntType},
		{name: "this", expr: ref(ast.ThisName), expectedType: "Main"},
		{name: "super", expr: ref(ast.SuperName), expectedType: ast.ObjectType},
		{name: "field of this", expr: &ast.VarExpr{Ref: ref(ast.ThisName), Name: "count"}, expectedType: ast.IntType},
		{name: "field of a variable", expr: &ast.VarExpr{Ref: ref("square"), Name: "side"}, expectedType: ast.IntType},
		{
			name:          "field missing from static type",
			expr:          &ast.VarExpr{Ref: ref("shape"), Name: "side"},
			expectedType:  ast.ObjectType,
			expectedCount: 1,
			expectedError: "field side is not defined in class Shape",
		},
		{
			name:          "undefined variable",
			expr:          ref("y"),
			expectedType:  ast.ObjectType,
			expectedCount: 1,
			expectedError: "variable y has not been defined",
		},
		{
			name:          "errors do not cascade",
			expr:          bin(ast.OpPlus, bin(ast.OpPlus, ref("b"), intc(1)), intc(2)),
			expectedType:  ast.IntType,
			expectedCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc, sink := setupTypeChecker(t)
			tc.withScope(func() {
				for name, typ := range locals {
					tc.vars.Add(name, typ)
				}

				actualType := tc.checkExpr(tt.expr)
				if actualType != tt.expectedType {
					t.Errorf("expected type %s, got %s", tt.expectedType, actualType)
				}
				if tt.expr.ExprType() != actualType {
					t.Errorf("resolved type %q was not recorded on the node", actualType)
				}
			})

			if sink.Count() != tt.expectedCount {
				t.Errorf("expected %d errors, got %v", tt.expectedCount, sink.Diagnostics())
			}
			if tt.expectedError != "" && !errorsContaining(sink, tt.expectedError) {
				t.Errorf("expected error containing %q, got %v", tt.expectedError, sink.Diagnostics())
			}

			ast.Inspect(tt.expr, func(n ast.Node) bool {
				if e, ok := n.(ast.Expr); ok && e.ExprType() == "" {
					t.Errorf("%T has no resolved type", e)
				}
				return true
			})
		})
	}
}

func TestCastAndInstanceofFlags(t *testing.T) {
	tests := []struct {
		name     string
		expr     ast.Expr
		expected bool
	}{
		{"upcast", &ast.CastExpr{Type: "Shape", Expr: ref("square")}, true},
		{"identity cast", &ast.CastExpr{Type: "Shape", Expr: ref("shape")}, true},
		{"downcast", &ast.CastExpr{Type: "Square", Expr: ref("shape")}, false},
		{"narrowing check", &ast.InstanceofExpr{Expr: ref("shape"), Type: "Square"}, false},
		{"widening check", &ast.InstanceofExpr{Expr: ref("square"), Type: "Shape"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc, _ := setupTypeChecker(t)
			tc.withScope(func() {
				for name, typ := range locals {
					tc.vars.Add(name, typ)
				}
				tc.checkExpr(tt.expr)
			})

			var flag bool
			switch e := tt.expr.(type) {
			case *ast.CastExpr:
				flag = e.UpCast
			case *ast.InstanceofExpr:
				flag = e.UpCheck
			}
			if flag != tt.expected {
				t.Errorf("expected flag %v, got %v", tt.expected, flag)
			}
		})
	}
}

func TestCheckMethodBody(t *testing.T) {
	loop := func(body ast.Stmt) ast.Stmt {
		return &ast.WhileStmt{Pred: boolc(true), Body: body}
	}

	tests := []struct {
		name          string
		returnType    string
		formals       []*ast.Formal
		body          []ast.Stmt
		expectedCount int
		expectedError string
	}{
		{
			name:       "declarations and uses",
			returnType: ast.IntType,
			formals:    []*ast.Formal{{Type: ast.IntType, Name: "n"}},
			body: []ast.Stmt{
				decl(ast.IntType, "total", intc(0)),
				exprStmt(&ast.AssignExpr{Name: "total", Expr: bin(ast.OpPlus, ref("total"), ref("n"))}),
				&ast.ReturnStmt{Expr: ref("total")},
			},
		},
		{
			name:       "redeclaration in the same block",
			returnType: ast.VoidType,
			body: []ast.Stmt{
				decl(ast.IntType, "x", nil),
				decl(ast.BooleanType, "x", nil),
			},
			expectedCount: 1,
			expectedError: "variable x is already defined in this scope",
		},
		{
			name:       "shadowing in a nested block",
			returnType: ast.VoidType,
			body: []ast.Stmt{
				decl(ast.IntType, "x", nil),
				block(decl(ast.IntType, "x", nil)),
			},
		},
		{
			name:       "shadowing a field",
			returnType: ast.VoidType,
			body:       []ast.Stmt{decl(ast.BooleanType, "count", nil)},
		},
		{
			name:          "redeclaring a formal",
			returnType:    ast.VoidType,
			formals:       []*ast.Formal{{Type: ast.IntType, Name: "n"}},
			body:          []ast.Stmt{decl(ast.IntType, "n", nil)},
			expectedCount: 1,
		},
		{
			name:          "duplicate formal",
			returnType:    ast.VoidType,
			formals:       []*ast.Formal{{Type: ast.IntType, Name: "n"}, {Type: ast.BooleanType, Name: "n"}},
			expectedCount: 1,
			expectedError: "formal parameter n is already defined",
		},
		{
			name:          "undefined formal type",
			returnType:    ast.VoidType,
			formals:       []*ast.Formal{{Type: "Missing", Name: "m"}},
			expectedCount: 1,
		},
		{
			name:          "undefined return type",
			returnType:    "Missing",
			expectedCount: 1,
			expectedError: "return type Missing",
		},
		{
			name:       "block variables leave scope",
			returnType: ast.VoidType,
			body: []ast.Stmt{
				block(decl(ast.IntType, "inner", nil)),
				exprStmt(&ast.AssignExpr{Name: "inner", Expr: intc(1)}),
			},
			expectedCount: 1,
			expectedError: "variable inner has not been defined",
		},
		{
			name:          "bad initializer",
			returnType:    ast.VoidType,
			body:          []ast.Stmt{decl(ast.IntType, "x", boolc(true))},
			expectedCount: 1,
		},
		{
			name:       "subtype initializer",
			returnType: ast.VoidType,
			body:       []ast.Stmt{decl("Shape", "sh", &ast.NewExpr{Type: "Circle"})},
		},
		{
			name:       "array declaration",
			returnType: ast.VoidType,
			body:       []ast.Stmt{decl("Shape[]", "all", &ast.NewArrayExpr{Type: "Shape", Size: intc(4)})},
		},
		{
			name:          "non-boolean if predicate",
			returnType:    ast.VoidType,
			body:          []ast.Stmt{&ast.IfStmt{Pred: intc(1), Then: block()}},
			expectedCount: 1,
			expectedError: "predicate of the if statement",
		},
		{
			name:       "if branches have their own scopes",
			returnType: ast.VoidType,
			body: []ast.Stmt{&ast.IfStmt{
				Pred: boolc(true),
				Then: decl(ast.IntType, "x", nil),
				Else: decl(ast.IntType, "x", nil),
			}},
		},
		{
			name:          "non-boolean while predicate",
			returnType:    ast.VoidType,
			body:          []ast.Stmt{&ast.WhileStmt{Pred: strc("yes"), Body: block()}},
			expectedCount: 1,
		},
		{
			name:       "for loop",
			returnType: ast.VoidType,
			body: []ast.Stmt{
				decl(ast.IntType, "i", nil),
				&ast.ForStmt{
					Init:   &ast.AssignExpr{Name: "i", Expr: intc(0)},
					Pred:   bin(ast.OpLT, ref("i"), intc(10)),
					Update: unary(ast.OpIncr, ref("i")),
					Body:   &ast.BreakStmt{},
				},
			},
		},
		{
			name:       "empty for loop",
			returnType: ast.VoidType,
			body:       []ast.Stmt{&ast.ForStmt{Body: block()}},
		},
		{
			name:       "boolean for initializer",
			returnType: ast.VoidType,
			body: []ast.Stmt{
				decl(ast.BooleanType, "done", nil),
				&ast.ForStmt{Init: &ast.AssignExpr{Name: "done", Expr: boolc(false)}, Body: block()},
			},
			expectedCount: 1,
			expectedError: "initializer of the for statement",
		},
		{
			name:       "boolean for update",
			returnType: ast.VoidType,
			body: []ast.Stmt{
				decl(ast.BooleanType, "done", nil),
				&ast.ForStmt{Update: &ast.AssignExpr{Name: "done", Expr: boolc(true)}, Body: block()},
			},
			expectedCount: 1,
			expectedError: "update of the for statement",
		},
		{
			name:          "break outside of a loop",
			returnType:    ast.VoidType,
			body:          []ast.Stmt{&ast.BreakStmt{}},
			expectedCount: 1,
			expectedError: "break statement outside of a loop",
		},
		{
			name:       "break in a nested block of a loop",
			returnType: ast.VoidType,
			body:       []ast.Stmt{loop(block(&ast.IfStmt{Pred: boolc(true), Then: &ast.BreakStmt{}}))},
		},
		{
			name:          "value returned from void method",
			returnType:    ast.VoidType,
			body:          []ast.Stmt{&ast.ReturnStmt{Expr: intc(1)}},
			expectedCount: 1,
			expectedError: "is void",
		},
		{
			name:          "bare return from int method",
			returnType:    ast.IntType,
			body:          []ast.Stmt{&ast.ReturnStmt{}},
			expectedCount: 1,
		},
		{
			name:          "wrong return type",
			returnType:    ast.IntType,
			body:          []ast.Stmt{&ast.ReturnStmt{Expr: boolc(true)}},
			expectedCount: 1,
		},
		{
			name:       "subtype returned",
			returnType: "Shape",
			body:       []ast.Stmt{&ast.ReturnStmt{Expr: &ast.NewExpr{Type: "Square"}}},
		},
		{
			name:       "legal expression statements",
			returnType: ast.VoidType,
			body: []ast.Stmt{
				decl(ast.IntType, "i", nil),
				exprStmt(unary(ast.OpDecr, ref("i"))),
				exprStmt(call(nil, "run")),
				exprStmt(&ast.NewExpr{Type: "Square"}),
			},
		},
		{
			name:          "expression statement without effect",
			returnType:    ast.VoidType,
			body:          []ast.Stmt{exprStmt(bin(ast.OpPlus, intc(1), intc(2)))},
			expectedCount: 1,
			expectedError: "has no effect",
		},
		{
			name:          "unused negation",
			returnType:    ast.VoidType,
			body:          []ast.Stmt{exprStmt(unary(ast.OpMinus, intc(2)))},
			expectedCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc, sink := setupTypeChecker(t)
			level := tc.vars.ScopeLevel()

			tc.checkMethod(&ast.Method{ReturnType: tt.returnType, Name: "test", Formals: tt.formals, Body: tt.body})

			if got := tc.vars.ScopeLevel(); got != level {
				t.Errorf("scope level is %d after the method, want %d", got, level)
			}
			if sink.Count() != tt.expectedCount {
				t.Errorf("expected %d errors, got %v", tt.expectedCount, sink.Diagnostics())
			}
			if tt.expectedError != "" && !errorsContaining(sink, tt.expectedError) {
				t.Errorf("expected error containing %q, got %v", tt.expectedError, sink.Diagnostics())
			}
		})
	}
}

func TestCheckReportsClassFile(t *testing.T) {
	sink := diagnostics.NewCollector()
	program := &ast.Program{Classes: []*ast.Class{{
		Position: ast.Position{Line: 1},
		Filename: "Counter.btm",
		Name:     "Counter",
		Members: []ast.Member{
			&ast.Field{Position: ast.Position{Line: 2}, Type: ast.IntType, Name: "n", Init: boolc(true)},
			&ast.Field{Position: ast.Position{Line: 3}, Type: "Missing", Name: "m"},
		},
	}}}
	tree := hierarchy.Build(program, sink)
	counter, _ := tree.Lookup("Counter")

	NewTypeChecker(sink).Check(counter)

	diags := sink.Diagnostics()
	if len(diags) != 2 {
		t.Fatalf("expected 2 errors, got %v", diags)
	}
	for i, line := range []int{2, 3} {
		if diags[i].File != "Counter.btm" || diags[i].Line != line {
			t.Errorf("diagnostic %d at %s:%d, want Counter.btm:%d", i, diags[i].File, diags[i].Line, line)
		}
		if diags[i].Kind != diagnostics.SemantError {
			t.Errorf("diagnostic %d has kind %v", i, diags[i].Kind)
		}
	}
	if counter.Vars.ScopeLevel() != 1+counter.Parent().Vars.ScopeLevel() {
		t.Errorf("class scope was not restored")
	}
}
