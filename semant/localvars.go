package semant

import "bantam-compiler/ast"

// methodSlotCounter counts the local declarations of one method body.
type methodSlotCounter struct {
	count int
}

func (c *methodSlotCounter) Visit(node ast.Node) ast.Visitor {
	if _, ok := node.(*ast.DeclStmt); ok {
		c.count++
	}
	return c
}

// slotCounter collects the per-method counts of the class being walked and
// merges them into slots once the class is left.
type slotCounter struct {
	slots map[string]int

	className  string
	classSlots map[string]int
}

func (c *slotCounter) Visit(node ast.Node) ast.Visitor {
	switch n := node.(type) {
	case nil:
		// leaving a class or the program
		for k, v := range c.classSlots {
			c.slots[k] = v
		}
		c.classSlots = map[string]int{}
	case *ast.Program:
		return c
	case *ast.Class:
		c.className = n.Name
		return c
	case *ast.Method:
		mc := &methodSlotCounter{}
		for _, s := range n.Body {
			ast.Walk(mc, s)
		}
		c.classSlots[c.className+"."+n.Name] = len(n.Formals) + mc.count
	}
	return nil
}

// NumLocalVars maps "Class.method" to the number of variable slots the
// method needs: its formals plus every local declaration in its body,
// including those in nested blocks.
func NumLocalVars(program *ast.Program) map[string]int {
	c := &slotCounter{slots: map[string]int{}, classSlots: map[string]int{}}
	ast.Walk(c, program)
	return c.slots
}
