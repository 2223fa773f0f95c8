package ast

// Helper constructors used by tests to assemble nodes tersely (the
// parser builds its nodes directly), in the style of this corpus's AST builder helpers
// (Var, Cmd, Id, Str, Num and friends).

// Id creates an unresolved identifier reference.
func Id(name string) IdentifierExpr {
	return IdentifierExpr{Id: Identifier{Name: name}}
}

// IdAt creates an identifier reference already resolved to offset.
func IdAt(name string, offset int) IdentifierExpr {
	o := offset
	return IdentifierExpr{Id: Identifier{Name: name, Offset: &o}}
}

// NumLit creates a number literal expression.
func NumLit(n float64) BasicExpr { return BasicExpr{Value: Num(n)} }

// StrLit creates a string literal expression.
func StrLit(s string) BasicExpr { return BasicExpr{Value: Str(s)} }

// BoolLit creates a boolean literal expression.
func BoolLit(b bool) BasicExpr { return BasicExpr{Value: Bool(b)} }

// NilLit creates the nil literal expression.
func NilLit() BasicExpr { return BasicExpr{Value: Nil()} }

// Bin creates a binary expression.
func Bin(op BinOp, left, right Expr) BinaryExpr {
	return BinaryExpr{Op: op, Left: left, Right: right}
}

// Un creates a unary expression.
func Un(op UnOp, operand Expr) UnaryExpr {
	return UnaryExpr{Op: op, Operand: operand}
}

// Block creates a block statement.
func Block(stmts ...Stmt) BlockStmt { return BlockStmt{Stmts: stmts} }
