// Package semant performs the semantic analysis of a Bantam Java program:
// type checking every class, detecting the entry point and counting the
// local variable slots of every method.
package semant

import (
	"fmt"

	"bantam-compiler/ast"
	"bantam-compiler/diagnostics"
	"bantam-compiler/hierarchy"
)

type Analyzer struct {
	sink diagnostics.Sink

	EntryClass  string
	EntryMethod string
}

func NewAnalyzer(sink diagnostics.Sink) *Analyzer {
	return &Analyzer{
		sink:        sink,
		EntryClass:  DefaultEntryClass,
		EntryMethod: DefaultEntryMethod,
	}
}

type Result struct {
	Tree      *hierarchy.Tree
	HasMain   bool
	LocalVars map[string]int
}

// Analyze runs every semantic pass over program. Problems are registered on
// the sink; the passes never stop early, so Result is always complete.
func (a *Analyzer) Analyze(program *ast.Program) *Result {
	tree := hierarchy.Build(program, a.sink)
	accepted := acceptedClasses(program, tree)

	hasMain := HasMain(accepted, a.EntryClass, a.EntryMethod)
	if !hasMain {
		a.sink.Register(diagnostics.SemantError, "", 0,
			fmt.Sprintf("Program does not contain a %s class with a %s() method", a.EntryClass, a.EntryMethod))
	}

	tc := NewTypeChecker(a.sink)
	for _, class := range tree.UserClasses() {
		tc.Check(class)
	}

	return &Result{
		Tree:      tree,
		HasMain:   hasMain,
		LocalVars: NumLocalVars(accepted),
	}
}

// acceptedClasses keeps the classes that made it into tree, in source
// order. Duplicate declarations dropped by the builder are left out.
func acceptedClasses(program *ast.Program, tree *hierarchy.Tree) *ast.Program {
	out := &ast.Program{}
	for _, c := range program.Classes {
		if n, ok := tree.Lookup(c.Name); ok && n.AST == c {
			out.Classes = append(out.Classes, c)
		}
	}
	return out
}
