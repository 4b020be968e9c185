// Package hierarchy builds the class tree the type checker works against:
// one Node per class, linked to its parent, with the class's method table
// and a field table that already holds every inherited field.
package hierarchy

import (
	"fmt"

	"bantam-compiler/ast"
	"bantam-compiler/diagnostics"
	"bantam-compiler/symtab"
)

type Node struct {
	Name    string
	AST     *ast.Class
	BuiltIn bool

	// Methods holds the methods declared by this class only.
	Methods map[string]*ast.Method
	// Vars is seeded with inherited fields in outer frames and this class's
	// own fields in the innermost frame.
	Vars *symtab.Table

	parent   *Node
	children []*Node
	fields   map[string]string
	classMap map[string]*Node
}

func (n *Node) Parent() *Node { return n.parent }

func (n *Node) Children() []*Node { return n.children }

// ClassMap maps every class name in the program to its node. The map is
// shared by all nodes of a tree and must not be modified.
func (n *Node) ClassMap() map[string]*Node { return n.classMap }

// LookupMethod finds name in this class or the nearest ancestor declaring it.
func (n *Node) LookupMethod(name string) (*ast.Method, bool) {
	for cur := n; cur != nil; cur = cur.parent {
		if m, ok := cur.Methods[name]; ok {
			return m, true
		}
	}
	return nil, false
}

// LookupField finds the declared type of a field of this class or an
// ancestor, ignoring any local variables in scope.
func (n *Node) LookupField(name string) (string, bool) {
	for cur := n; cur != nil; cur = cur.parent {
		if typ, ok := cur.fields[name]; ok {
			return typ, true
		}
	}
	return "", false
}

// Filename is the source file of the class, for diagnostics.
func (n *Node) Filename() string {
	if n.AST == nil {
		return ""
	}
	return n.AST.Filename
}

type Tree struct {
	Root    *Node
	Classes map[string]*Node
}

func (t *Tree) Lookup(name string) (*Node, bool) {
	n, ok := t.Classes[name]
	return n, ok
}

// Ordered lists every class with parents before their children; siblings
// keep declaration order.
func (t *Tree) Ordered() []*Node {
	out := []*Node{}
	queue := []*Node{t.Root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		out = append(out, n)
		queue = append(queue, n.children...)
	}
	return out
}

// UserClasses is Ordered without the built-in classes.
func (t *Tree) UserClasses() []*Node {
	out := []*Node{}
	for _, n := range t.Ordered() {
		if !n.BuiltIn {
			out = append(out, n)
		}
	}
	return out
}

type builder struct {
	sink    diagnostics.Sink
	classes map[string]*Node
	order   []*Node
}

// Build creates the class tree for program. Problems with the declarations
// are reported to sink and repaired so that a usable tree is always returned:
// duplicates are dropped, and classes with an unknown, final or cyclic parent
// are attached directly under Object.
func Build(program *ast.Program, sink diagnostics.Sink) *Tree {
	b := &builder{sink: sink, classes: make(map[string]*Node)}

	for _, c := range builtinClasses() {
		b.register(c, true)
	}
	for _, c := range program.Classes {
		b.register(c, false)
	}

	b.linkParents()
	b.breakCycles()

	root := b.classes[ast.ObjectType]
	for _, n := range b.order {
		if n.parent != nil {
			n.parent.children = append(n.parent.children, n)
		}
	}

	tree := &Tree{Root: root, Classes: b.classes}
	for _, n := range tree.Ordered() {
		b.buildTables(n)
	}
	return tree
}

func (b *builder) errorf(class *ast.Class, line int, format string, args ...any) {
	b.sink.Register(diagnostics.SemantError, class.Filename, line, fmt.Sprintf(format, args...))
}

func (b *builder) register(c *ast.Class, builtIn bool) {
	if _, exists := b.classes[c.Name]; exists {
		b.errorf(c, c.Line, "class %s is already defined", c.Name)
		return
	}
	n := &Node{
		Name:     c.Name,
		AST:      c,
		BuiltIn:  builtIn,
		Methods:  make(map[string]*ast.Method),
		fields:   make(map[string]string),
		classMap: b.classes,
	}
	b.classes[c.Name] = n
	b.order = append(b.order, n)
}

func (b *builder) linkParents() {
	root := b.classes[ast.ObjectType]
	for _, n := range b.order {
		if n == root {
			continue
		}
		parentName := n.AST.Parent
		if parentName == "" {
			parentName = ast.ObjectType
		}

		parent, ok := b.classes[parentName]
		switch {
		case !ok:
			b.errorf(n.AST, n.AST.Line, "class %s inherits from undefined class %s", n.Name, parentName)
			parent = root
		case finalClasses[parentName]:
			b.errorf(n.AST, n.AST.Line, "class %s cannot inherit from %s", n.Name, parentName)
			parent = root
		}
		n.parent = parent
	}
}

// breakCycles detaches one class of every inheritance cycle and moves it
// under Object, reporting each cycle once.
func (b *builder) breakCycles() {
	root := b.classes[ast.ObjectType]
	for _, n := range b.order {
		visited := make(map[*Node]bool)
		for cur := n; cur != nil && cur != root; cur = cur.parent {
			if visited[cur] {
				b.errorf(cur.AST, cur.AST.Line, "inheritance cycle detected for class %s", cur.Name)
				cur.parent = root
				break
			}
			visited[cur] = true
		}
	}
}

func (b *builder) buildTables(n *Node) {
	if n.parent == nil {
		n.Vars = symtab.New()
	} else {
		n.Vars = symtab.NewChild(n.parent.Vars)
	}

	for _, member := range n.AST.Members {
		switch m := member.(type) {
		case *ast.Field:
			if _, dup := n.fields[m.Name]; dup {
				b.errorf(n.AST, m.Line, "field %s is already defined in class %s", m.Name, n.Name)
				continue
			}
			n.fields[m.Name] = m.Type
			n.Vars.Add(m.Name, m.Type)
		case *ast.Method:
			if _, dup := n.Methods[m.Name]; dup {
				b.errorf(n.AST, m.Line, "method %s is already defined in class %s", m.Name, n.Name)
				continue
			}
			n.Methods[m.Name] = m
		}
	}
}
