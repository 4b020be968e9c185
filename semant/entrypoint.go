package semant

import "bantam-compiler/ast"

// Default names of the entry point a runnable program must declare.
const (
	DefaultEntryClass  = "Main"
	DefaultEntryMethod = "main"
)

type entryPointFinder struct {
	class, method string
	found         bool
}

func (f *entryPointFinder) Visit(node ast.Node) ast.Visitor {
	if f.found {
		return nil
	}
	switch n := node.(type) {
	case *ast.Program:
		return f
	case *ast.Class:
		if n.Name == f.class {
			return f
		}
	case *ast.Method:
		if n.Name == f.method && len(n.Formals) == 0 && n.ReturnType == ast.VoidType {
			f.found = true
		}
	}
	return nil
}

// HasMain reports whether program declares a class named entryClass with a
// void method entryMethod that takes no arguments. Classes after the first
// match are not visited.
func HasMain(program *ast.Program, entryClass, entryMethod string) bool {
	f := &entryPointFinder{class: entryClass, method: entryMethod}
	ast.Walk(f, program)
	return f.found
}
