// Package printer renders Bantam Java syntax trees back to source form.
package printer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"bantam-compiler/ast"
)

// A Mode value is a set of flags (or 0). They control printing.
type Mode uint

const (
	// ResolvedTypes appends ":type" to every expression that has been
	// annotated by the type checker.
	ResolvedTypes Mode = 1 << iota
)

type Config struct {
	Mode   Mode
	Indent string // per nesting level; defaults to four spaces
}

// SerializeExpression converts an expression into its source form.
func SerializeExpression(expr ast.Expr) string {
	p := &printer{}
	return p.expr(expr)
}

// Fprint writes the source form of node to w using default settings.
func Fprint(w io.Writer, node ast.Node) error {
	return (&Config{}).Fprint(w, node)
}

// Fprint writes the source form of node to w. node may be a program, a
// class, a class member, a statement or an expression.
func (cfg *Config) Fprint(w io.Writer, node ast.Node) error {
	p := &printer{Config: *cfg}
	if p.Indent == "" {
		p.Indent = "    "
	}

	switch n := node.(type) {
	case *ast.Program:
		for i, c := range n.Classes {
			if i > 0 {
				p.out.WriteString("\n")
			}
			p.class(c)
		}
	case *ast.Class:
		p.class(n)
	case ast.Member:
		p.member(n)
	case ast.Stmt:
		p.stmt(n)
	case ast.Expr:
		p.line(p.expr(n))
	default:
		return fmt.Errorf("printer: unsupported node type %T", node)
	}

	_, err := io.WriteString(w, p.out.String())
	return err
}

type printer struct {
	Config
	out   strings.Builder
	level int
}

func (p *printer) line(s string) {
	p.out.WriteString(strings.Repeat(p.Indent, p.level))
	p.out.WriteString(s)
	p.out.WriteString("\n")
}

func (p *printer) class(c *ast.Class) {
	header := "class " + c.Name
	if c.Parent != "" {
		header += " extends " + c.Parent
	}
	p.line(header + " {")
	p.level++
	for _, m := range c.Members {
		p.member(m)
	}
	p.level--
	p.line("}")
}

func (p *printer) member(m ast.Member) {
	switch m := m.(type) {
	case *ast.Field:
		p.line(p.declaration(m.Type, m.Name, m.Init))
	case *ast.Method:
		formals := make([]string, len(m.Formals))
		for i, f := range m.Formals {
			formals[i] = f.Type + " " + f.Name
		}
		p.line(fmt.Sprintf("%s %s(%s) {", m.ReturnType, m.Name, strings.Join(formals, ", ")))
		p.body(m.Body)
		p.line("}")
	}
}

func (p *printer) declaration(typ, name string, init ast.Expr) string {
	if init == nil {
		return typ + " " + name + ";"
	}
	return typ + " " + name + " = " + p.expr(init) + ";"
}

func (p *printer) body(stmts []ast.Stmt) {
	p.level++
	for _, s := range stmts {
		p.stmt(s)
	}
	p.level--
}

// braced returns the statements of a block, or s alone, so that every
// nested body is printed between braces.
func braced(s ast.Stmt) []ast.Stmt {
	if b, ok := s.(*ast.BlockStmt); ok {
		return b.Stmts
	}
	return []ast.Stmt{s}
}

func (p *printer) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.DeclStmt:
		p.line(p.declaration(s.Type, s.Name, s.Init))
	case *ast.ExprStmt:
		p.line(p.expr(s.Expr) + ";")
	case *ast.IfStmt:
		p.line("if (" + p.expr(s.Pred) + ") {")
		p.body(braced(s.Then))
		if s.Else != nil {
			p.line("} else {")
			p.body(braced(s.Else))
		}
		p.line("}")
	case *ast.WhileStmt:
		p.line("while (" + p.expr(s.Pred) + ") {")
		p.body(braced(s.Body))
		p.line("}")
	case *ast.ForStmt:
		p.line(fmt.Sprintf("for (%s; %s; %s) {", p.expr(s.Init), p.expr(s.Pred), p.expr(s.Update)))
		p.body(braced(s.Body))
		p.line("}")
	case *ast.BlockStmt:
		p.line("{")
		p.body(s.Stmts)
		p.line("}")
	case *ast.BreakStmt:
		p.line("break;")
	case *ast.ReturnStmt:
		if s.Expr == nil {
			p.line("return;")
		} else {
			p.line("return " + p.expr(s.Expr) + ";")
		}
	}
}

func (p *printer) args(actuals []ast.Expr) string {
	out := make([]string, len(actuals))
	for i, a := range actuals {
		out[i] = p.expr(a)
	}
	return strings.Join(out, ", ")
}

func qualified(ref, name string) string {
	if ref == "" {
		return name
	}
	return ref + "." + name
}

func (p *printer) expr(expr ast.Expr) string {
	if expr == nil {
		return ""
	}

	var s string
	switch e := expr.(type) {
	case *ast.ConstIntExpr:
		s = strconv.Itoa(e.Value)
	case *ast.ConstBooleanExpr:
		s = strconv.FormatBool(e.Value)
	case *ast.ConstStringExpr:
		s = strconv.Quote(e.Value)
	case *ast.VarExpr:
		s = e.Name
		if e.Ref != nil {
			s = p.expr(e.Ref) + "." + e.Name
		}
	case *ast.ArrayExpr:
		s = e.Name + "[" + p.expr(e.Index) + "]"
		if e.Ref != nil {
			s = p.expr(e.Ref) + "." + s
		}
	case *ast.AssignExpr:
		s = qualified(e.RefName, e.Name) + " = " + p.expr(e.Expr)
	case *ast.ArrayAssignExpr:
		s = qualified(e.RefName, e.Name) + "[" + p.expr(e.Index) + "] = " + p.expr(e.Expr)
	case *ast.BinaryExpr:
		s = "(" + p.expr(e.Left) + " " + e.Operator + " " + p.expr(e.Right) + ")"
	case *ast.UnaryExpr:
		if e.Postfix {
			s = "(" + p.expr(e.Operand) + e.Operator + ")"
		} else {
			s = "(" + e.Operator + p.expr(e.Operand) + ")"
		}
	case *ast.NewExpr:
		s = "new " + e.Type + "()"
	case *ast.NewArrayExpr:
		s = "new " + e.Type + "[" + p.expr(e.Size) + "]"
	case *ast.CastExpr:
		s = "cast(" + e.Type + ", " + p.expr(e.Expr) + ")"
	case *ast.InstanceofExpr:
		s = "(" + p.expr(e.Expr) + " instanceof " + e.Type + ")"
	case *ast.DispatchExpr:
		s = e.MethodName + "(" + p.args(e.Actuals) + ")"
		if e.Ref != nil {
			s = p.expr(e.Ref) + "." + s
		}
	default:
		s = "unknown expression"
	}

	if p.Mode&ResolvedTypes != 0 && expr.ExprType() != "" {
		s += ":" + expr.ExprType()
	}
	return s
}
