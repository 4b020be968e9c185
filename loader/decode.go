package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"bantam-compiler/ast"
)

// A program document is a YAML mapping:
//
//	module: shapes            # optional, defaults to the file name
//	imports: [shape, color]   # files next to this one, ".yaml" implied
//	classes:
//	  - class: Square
//	    extends: Shape
//	    members:
//	      - field: {type: int, name: side}
//	      - method:
//	          type: int
//	          name: area
//	          formals: [{type: int, name: scale}]
//	          body:
//	            - return: {binary: {op: "*", left: {var: side}, right: {var: scale}}}
//
// Every member, statement and expression is a single-key mapping whose key
// names the node kind. break and return without a value may be written as
// bare scalars. Line numbers are taken from the YAML source.

type decoder struct {
	filename string
}

func (d *decoder) errorf(n *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("%s:%d: %s: %w", d.filename, n.Line, fmt.Sprintf(format, args...), ErrMalformed)
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null")
}

func pos(n *yaml.Node) ast.Position {
	return ast.Position{Line: n.Line}
}

func (d *decoder) mapping(n *yaml.Node) (map[string]*yaml.Node, error) {
	if n.Kind != yaml.MappingNode {
		return nil, d.errorf(n, "expected a mapping")
	}
	m := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		m[n.Content[i].Value] = n.Content[i+1]
	}
	return m, nil
}

func (d *decoder) sequence(n *yaml.Node) ([]*yaml.Node, error) {
	if isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, d.errorf(n, "expected a sequence")
	}
	return n.Content, nil
}

// tagged splits a {kind: value} node. A bare scalar is a kind without value.
func (d *decoder) tagged(n *yaml.Node) (string, *yaml.Node, error) {
	switch {
	case n.Kind == yaml.ScalarNode:
		return n.Value, nil, nil
	case n.Kind == yaml.MappingNode && len(n.Content) == 2:
		return n.Content[0].Value, n.Content[1], nil
	}
	return "", nil, d.errorf(n, "expected a single-key mapping naming the node kind")
}

func (d *decoder) str(n *yaml.Node, m map[string]*yaml.Node, key string) (string, error) {
	v, ok := m[key]
	if !ok || isNull(v) {
		return "", d.errorf(n, "missing %q", key)
	}
	if v.Kind != yaml.ScalarNode {
		return "", d.errorf(v, "%q must be a scalar", key)
	}
	return v.Value, nil
}

func optStr(m map[string]*yaml.Node, key string) string {
	if v, ok := m[key]; ok && v.Kind == yaml.ScalarNode && !isNull(v) {
		return v.Value
	}
	return ""
}

func (d *decoder) file(root *yaml.Node) (*File, error) {
	f := &File{}
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return f, nil
		}
		root = root.Content[0]
	}
	if isNull(root) {
		return f, nil
	}

	m, err := d.mapping(root)
	if err != nil {
		return nil, err
	}
	f.Name = optStr(m, "module")

	imports, err := d.sequence(m["imports"])
	if err != nil {
		return nil, err
	}
	for _, imp := range imports {
		if imp.Kind != yaml.ScalarNode {
			return nil, d.errorf(imp, "import must be a file name")
		}
		f.Imports = append(f.Imports, imp.Value)
	}

	classes, err := d.sequence(m["classes"])
	if err != nil {
		return nil, err
	}
	for _, c := range classes {
		class, err := d.class(c)
		if err != nil {
			return nil, err
		}
		f.Classes = append(f.Classes, class)
	}
	return f, nil
}

func (d *decoder) class(n *yaml.Node) (*ast.Class, error) {
	m, err := d.mapping(n)
	if err != nil {
		return nil, err
	}
	name, err := d.str(n, m, "class")
	if err != nil {
		return nil, err
	}
	class := &ast.Class{Position: pos(n), Filename: d.filename, Name: name, Parent: optStr(m, "extends")}

	members, err := d.sequence(m["members"])
	if err != nil {
		return nil, err
	}
	for _, mn := range members {
		member, err := d.member(mn)
		if err != nil {
			return nil, err
		}
		class.Members = append(class.Members, member)
	}
	return class, nil
}

func (d *decoder) member(n *yaml.Node) (ast.Member, error) {
	kind, v, err := d.tagged(n)
	if err != nil {
		return nil, err
	}
	if isNull(v) {
		return nil, d.errorf(n, "%s has no body", kind)
	}
	m, err := d.mapping(v)
	if err != nil {
		return nil, err
	}
	typ, err := d.str(v, m, "type")
	if err != nil {
		return nil, err
	}
	name, err := d.str(v, m, "name")
	if err != nil {
		return nil, err
	}

	switch kind {
	case "field":
		initExpr, err := d.optExpr(m, "init")
		if err != nil {
			return nil, err
		}
		return &ast.Field{Position: pos(n), Type: typ, Name: name, Init: initExpr}, nil
	case "method":
		method := &ast.Method{Position: pos(n), ReturnType: typ, Name: name}
		formals, err := d.sequence(m["formals"])
		if err != nil {
			return nil, err
		}
		for _, fn := range formals {
			fm, err := d.mapping(fn)
			if err != nil {
				return nil, err
			}
			ftyp, err := d.str(fn, fm, "type")
			if err != nil {
				return nil, err
			}
			fname, err := d.str(fn, fm, "name")
			if err != nil {
				return nil, err
			}
			method.Formals = append(method.Formals, &ast.Formal{Position: pos(fn), Type: ftyp, Name: fname})
		}
		method.Body, err = d.stmts(m["body"])
		if err != nil {
			return nil, err
		}
		return method, nil
	default:
		return nil, d.errorf(n, "unknown member kind %q", kind)
	}
}

func (d *decoder) stmts(n *yaml.Node) ([]ast.Stmt, error) {
	items, err := d.sequence(n)
	if err != nil {
		return nil, err
	}
	out := make([]ast.Stmt, 0, len(items))
	for _, item := range items {
		s, err := d.stmt(item)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (d *decoder) stmt(n *yaml.Node) (ast.Stmt, error) {
	kind, v, err := d.tagged(n)
	if err != nil {
		return nil, err
	}

	switch kind {
	case "break":
		return &ast.BreakStmt{Position: pos(n)}, nil
	case "return":
		var expr ast.Expr
		if !isNull(v) {
			if expr, err = d.expr(v); err != nil {
				return nil, err
			}
		}
		return &ast.ReturnStmt{Position: pos(n), Expr: expr}, nil
	case "block":
		stmts, err := d.stmts(v)
		if err != nil {
			return nil, err
		}
		return &ast.BlockStmt{Position: pos(n), Stmts: stmts}, nil
	case "expr":
		if isNull(v) {
			return nil, d.errorf(n, "expr statement has no expression")
		}
		expr, err := d.expr(v)
		if err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Position: pos(n), Expr: expr}, nil
	}

	if isNull(v) {
		return nil, d.errorf(n, "%s has no body", kind)
	}
	m, err := d.mapping(v)
	if err != nil {
		return nil, err
	}

	switch kind {
	case "decl":
		s := &ast.DeclStmt{Position: pos(n)}
		if s.Type, err = d.str(v, m, "type"); err != nil {
			return nil, err
		}
		if s.Name, err = d.str(v, m, "name"); err != nil {
			return nil, err
		}
		if s.Init, err = d.optExpr(m, "init"); err != nil {
			return nil, err
		}
		return s, nil
	case "if":
		s := &ast.IfStmt{Position: pos(n)}
		if s.Pred, err = d.reqExpr(v, m, "pred"); err != nil {
			return nil, err
		}
		if s.Then, err = d.reqStmt(v, m, "then"); err != nil {
			return nil, err
		}
		if els, ok := m["else"]; ok && !isNull(els) {
			if s.Else, err = d.stmt(els); err != nil {
				return nil, err
			}
		}
		return s, nil
	case "while":
		s := &ast.WhileStmt{Position: pos(n)}
		if s.Pred, err = d.reqExpr(v, m, "pred"); err != nil {
			return nil, err
		}
		if s.Body, err = d.reqStmt(v, m, "body"); err != nil {
			return nil, err
		}
		return s, nil
	case "for":
		s := &ast.ForStmt{Position: pos(n)}
		if s.Init, err = d.optExpr(m, "init"); err != nil {
			return nil, err
		}
		if s.Pred, err = d.optExpr(m, "pred"); err != nil {
			return nil, err
		}
		if s.Update, err = d.optExpr(m, "update"); err != nil {
			return nil, err
		}
		if s.Body, err = d.reqStmt(v, m, "body"); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, d.errorf(n, "unknown statement kind %q", kind)
	}
}

func (d *decoder) reqStmt(n *yaml.Node, m map[string]*yaml.Node, key string) (ast.Stmt, error) {
	v, ok := m[key]
	if !ok || isNull(v) {
		return nil, d.errorf(n, "missing %q", key)
	}
	return d.stmt(v)
}

func (d *decoder) reqExpr(n *yaml.Node, m map[string]*yaml.Node, key string) (ast.Expr, error) {
	v, ok := m[key]
	if !ok || isNull(v) {
		return nil, d.errorf(n, "missing %q", key)
	}
	return d.expr(v)
}

func (d *decoder) optExpr(m map[string]*yaml.Node, key string) (ast.Expr, error) {
	v, ok := m[key]
	if !ok || isNull(v) {
		return nil, nil
	}
	return d.expr(v)
}

func (d *decoder) exprs(n *yaml.Node) ([]ast.Expr, error) {
	items, err := d.sequence(n)
	if err != nil {
		return nil, err
	}
	out := make([]ast.Expr, 0, len(items))
	for _, item := range items {
		e, err := d.expr(item)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (d *decoder) expr(n *yaml.Node) (ast.Expr, error) {
	kind, v, err := d.tagged(n)
	if err != nil {
		return nil, err
	}
	if isNull(v) {
		return nil, d.errorf(n, "%s has no value", kind)
	}

	// scalar forms
	switch kind {
	case "int":
		e := &ast.ConstIntExpr{Position: pos(n)}
		if err := v.Decode(&e.Value); err != nil {
			return nil, d.errorf(v, "invalid int constant %q", v.Value)
		}
		return e, nil
	case "bool":
		e := &ast.ConstBooleanExpr{Position: pos(n)}
		if err := v.Decode(&e.Value); err != nil {
			return nil, d.errorf(v, "invalid boolean constant %q", v.Value)
		}
		return e, nil
	case "string":
		return &ast.ConstStringExpr{Position: pos(n), Value: v.Value}, nil
	case "new":
		if v.Kind != yaml.ScalarNode {
			return nil, d.errorf(v, "new takes a class name")
		}
		return &ast.NewExpr{Position: pos(n), Type: v.Value}, nil
	case "var":
		if v.Kind == yaml.ScalarNode {
			return &ast.VarExpr{Position: pos(n), Name: v.Value}, nil
		}
	}

	m, err := d.mapping(v)
	if err != nil {
		return nil, err
	}

	switch kind {
	case "var":
		e := &ast.VarExpr{Position: pos(n)}
		if e.Ref, err = d.optExpr(m, "ref"); err != nil {
			return nil, err
		}
		if e.Name, err = d.str(v, m, "name"); err != nil {
			return nil, err
		}
		return e, nil
	case "assign":
		e := &ast.AssignExpr{Position: pos(n), RefName: optStr(m, "ref")}
		if e.Name, err = d.str(v, m, "name"); err != nil {
			return nil, err
		}
		if e.Expr, err = d.reqExpr(v, m, "value"); err != nil {
			return nil, err
		}
		return e, nil
	case "array_assign":
		e := &ast.ArrayAssignExpr{Position: pos(n), RefName: optStr(m, "ref")}
		if e.Name, err = d.str(v, m, "name"); err != nil {
			return nil, err
		}
		if e.Index, err = d.reqExpr(v, m, "index"); err != nil {
			return nil, err
		}
		if e.Expr, err = d.reqExpr(v, m, "value"); err != nil {
			return nil, err
		}
		return e, nil
	case "index":
		e := &ast.ArrayExpr{Position: pos(n)}
		if e.Ref, err = d.optExpr(m, "ref"); err != nil {
			return nil, err
		}
		if e.Name, err = d.str(v, m, "name"); err != nil {
			return nil, err
		}
		if e.Index, err = d.reqExpr(v, m, "index"); err != nil {
			return nil, err
		}
		return e, nil
	case "binary":
		e := &ast.BinaryExpr{Position: pos(n)}
		if e.Operator, err = d.str(v, m, "op"); err != nil {
			return nil, err
		}
		if e.Left, err = d.reqExpr(v, m, "left"); err != nil {
			return nil, err
		}
		if e.Right, err = d.reqExpr(v, m, "right"); err != nil {
			return nil, err
		}
		return e, nil
	case "unary":
		e := &ast.UnaryExpr{Position: pos(n)}
		if e.Operator, err = d.str(v, m, "op"); err != nil {
			return nil, err
		}
		if e.Operand, err = d.reqExpr(v, m, "operand"); err != nil {
			return nil, err
		}
		if postfix, ok := m["postfix"]; ok {
			if err := postfix.Decode(&e.Postfix); err != nil {
				return nil, d.errorf(postfix, "postfix must be a boolean")
			}
		}
		return e, nil
	case "new_array":
		e := &ast.NewArrayExpr{Position: pos(n)}
		if e.Type, err = d.str(v, m, "type"); err != nil {
			return nil, err
		}
		if e.Size, err = d.reqExpr(v, m, "size"); err != nil {
			return nil, err
		}
		return e, nil
	case "cast":
		e := &ast.CastExpr{Position: pos(n)}
		if e.Type, err = d.str(v, m, "type"); err != nil {
			return nil, err
		}
		if e.Expr, err = d.reqExpr(v, m, "expr"); err != nil {
			return nil, err
		}
		return e, nil
	case "instanceof":
		e := &ast.InstanceofExpr{Position: pos(n)}
		if e.Type, err = d.str(v, m, "type"); err != nil {
			return nil, err
		}
		if e.Expr, err = d.reqExpr(v, m, "expr"); err != nil {
			return nil, err
		}
		return e, nil
	case "call":
		e := &ast.DispatchExpr{Position: pos(n)}
		if e.Ref, err = d.optExpr(m, "ref"); err != nil {
			return nil, err
		}
		if e.MethodName, err = d.str(v, m, "name"); err != nil {
			return nil, err
		}
		if e.Actuals, err = d.exprs(m["args"]); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, d.errorf(n, "unknown expression kind %q", kind)
	}
}
