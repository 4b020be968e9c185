package ast

// Node is implemented by every element of a Bantam Java syntax tree.
type Node interface {
	LineNum() int
	node()
}

// Member is a class body entry: a field or a method.
type Member interface {
	Node
	memberNode()
}

type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node. The resolved type is empty until the type
// checker has visited the node.
type Expr interface {
	Node
	ExprType() string
	SetExprType(typ string)
	exprNode()
}

// Position records where a node starts in its source file.
type Position struct {
	Line int
}

func (p Position) LineNum() int { return p.Line }
func (p Position) node()        {}

// Typed holds the resolved type written onto an expression by the checker.
type Typed struct {
	Resolved string
}

func (t *Typed) ExprType() string       { return t.Resolved }
func (t *Typed) SetExprType(typ string) { t.Resolved = typ }
func (t *Typed) exprNode()              {}

type Program struct {
	Classes []*Class
}

func (p *Program) LineNum() int { return 0 }
func (p *Program) node()        {}

type Class struct {
	Position
	Filename string
	Name     string
	Parent   string // empty means Object
	Members  []Member
}

type Field struct {
	Position
	Type string
	Name string
	Init Expr // optional
}

func (f *Field) memberNode() {}

type Method struct {
	Position
	ReturnType string
	Name       string
	Formals    []*Formal
	Body       []Stmt
}

func (m *Method) memberNode() {}

type Formal struct {
	Position
	Type string
	Name string
}

// Statements

type DeclStmt struct {
	Position
	Type string
	Name string
	Init Expr
}

func (s *DeclStmt) stmtNode() {}

type ExprStmt struct {
	Position
	Expr Expr
}

func (s *ExprStmt) stmtNode() {}

type IfStmt struct {
	Position
	Pred Expr
	Then Stmt
	Else Stmt // optional
}

func (s *IfStmt) stmtNode() {}

type WhileStmt struct {
	Position
	Pred Expr
	Body Stmt
}

func (s *WhileStmt) stmtNode() {}

// ForStmt is a C-style loop; Init, Pred and Update are all optional.
type ForStmt struct {
	Position
	Init   Expr
	Pred   Expr
	Update Expr
	Body   Stmt
}

func (s *ForStmt) stmtNode() {}

type BlockStmt struct {
	Position
	Stmts []Stmt
}

func (s *BlockStmt) stmtNode() {}

type BreakStmt struct {
	Position
}

func (s *BreakStmt) stmtNode() {}

type ReturnStmt struct {
	Position
	Expr Expr // nil for a bare return
}

func (s *ReturnStmt) stmtNode() {}

// Expressions

// DispatchExpr is a method call. A nil Ref dispatches on the current object.
type DispatchExpr struct {
	Position
	Typed
	Ref        Expr
	MethodName string
	Actuals    []Expr
}

type NewExpr struct {
	Position
	Typed
	Type string
}

// NewArrayExpr allocates an array; Type is the element type.
type NewArrayExpr struct {
	Position
	Typed
	Type string
	Size Expr
}

type InstanceofExpr struct {
	Position
	Typed
	Expr    Expr
	Type    string
	UpCheck bool // set when the check is statically known to succeed
}

type CastExpr struct {
	Position
	Typed
	Type   string
	Expr   Expr
	UpCast bool
}

// AssignExpr stores into a variable. RefName is empty, "this", "super" or
// the name of a variable whose field is assigned.
type AssignExpr struct {
	Position
	Typed
	RefName string
	Name    string
	Expr    Expr
}

type ArrayAssignExpr struct {
	Position
	Typed
	RefName string
	Name    string
	Index   Expr
	Expr    Expr
}

// BinaryExpr covers arithmetic, comparison and logical operators.
type BinaryExpr struct {
	Position
	Typed
	Operator string
	Left     Expr
	Right    Expr
}

type UnaryExpr struct {
	Position
	Typed
	Operator string
	Operand  Expr
	Postfix  bool
}

// VarExpr references a variable, optionally through a receiver such as
// "this" or "super".
type VarExpr struct {
	Position
	Typed
	Ref  Expr
	Name string
}

type ArrayExpr struct {
	Position
	Typed
	Ref   Expr
	Name  string
	Index Expr
}

type ConstIntExpr struct {
	Position
	Typed
	Value int
}

type ConstBooleanExpr struct {
	Position
	Typed
	Value bool
}

type ConstStringExpr struct {
	Position
	Typed
	Value string
}
