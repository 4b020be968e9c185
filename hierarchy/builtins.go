package hierarchy

import "bantam-compiler/ast"

// BuiltinFile is the file name attached to diagnostics about built-in classes.
const BuiltinFile = "<builtin>"

func formal(typ, name string) *ast.Formal {
	return &ast.Formal{Type: typ, Name: name}
}

func method(ret, name string, formals ...*ast.Formal) *ast.Method {
	return &ast.Method{ReturnType: ret, Name: name, Formals: formals}
}

func builtinClass(name, parent string, methods ...*ast.Method) *ast.Class {
	members := make([]ast.Member, 0, len(methods))
	for _, m := range methods {
		members = append(members, m)
	}
	return &ast.Class{Filename: BuiltinFile, Name: name, Parent: parent, Members: members}
}

// builtinClasses returns fresh declarations of the classes every program can
// use without declaring them. Object comes first.
func builtinClasses() []*ast.Class {
	return []*ast.Class{
		builtinClass(ast.ObjectType, "",
			method(ast.IntType, "hashCode"),
			method(ast.BooleanType, "equals", formal(ast.ObjectType, "o")),
			method(ast.StringType, "toString"),
		),
		builtinClass(ast.StringType, ast.ObjectType,
			method(ast.IntType, "length"),
			method(ast.BooleanType, "equals", formal(ast.ObjectType, "str")),
			method(ast.StringType, "toString"),
			method(ast.StringType, "substring", formal(ast.IntType, "beginIndex"), formal(ast.IntType, "endIndex")),
			method(ast.StringType, "concat", formal(ast.StringType, "str")),
		),
		builtinClass("TextIO", ast.ObjectType,
			method(ast.VoidType, "readStdin"),
			method(ast.VoidType, "readFile", formal(ast.StringType, "readFile")),
			method(ast.VoidType, "writeStdout"),
			method(ast.VoidType, "writeStderr"),
			method(ast.VoidType, "writeFile", formal(ast.StringType, "writeFile")),
			method(ast.StringType, "getString"),
			method(ast.IntType, "getInt"),
			method("TextIO", "putString", formal(ast.StringType, "s")),
			method("TextIO", "putInt", formal(ast.IntType, "i")),
		),
		builtinClass("Sys", ast.ObjectType,
			method(ast.VoidType, "exit", formal(ast.IntType, "status")),
			method(ast.IntType, "time"),
			method(ast.IntType, "random"),
		),
	}
}

// finalClasses cannot be extended by user classes.
var finalClasses = map[string]bool{
	ast.StringType: true,
	"Sys":          true,
}
