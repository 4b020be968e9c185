package ast

import "strings"

// Built-in type names.
const (
	IntType     = "int"
	BooleanType = "boolean"
	StringType  = "String"
	VoidType    = "void"
	ObjectType  = "Object"

	ArraySuffix = "[]"
)

// Receiver names with special meaning inside a method body.
const (
	ThisName  = "this"
	SuperName = "super"
)

// Operators.
const (
	OpPlus   = "+"
	OpMinus  = "-"
	OpTimes  = "*"
	OpDivide = "/"
	OpModulo = "%"

	OpLT  = "<"
	OpGT  = ">"
	OpLEQ = "<="
	OpGEQ = ">="
	OpEQ  = "=="
	OpNE  = "!="

	OpAnd = "&&"
	OpOr  = "||"

	OpIncr = "++"
	OpDecr = "--"
	OpNot  = "!"
)

// IsScalarType reports whether typ is one of the builtin types that cannot
// be subclassed.
func IsScalarType(typ string) bool {
	return typ == IntType || typ == BooleanType || typ == StringType
}

func IsArrayType(typ string) bool {
	return strings.HasSuffix(typ, ArraySuffix)
}

// ElementType strips the array marker from typ.
func ElementType(typ string) string {
	return strings.TrimSuffix(typ, ArraySuffix)
}

func ArrayOf(typ string) string {
	return typ + ArraySuffix
}
