package typed

// BinOp identifies a binary operator of the source language, including plain
// and compound assignment and null coalescing. Compound assignment and
// coalescing never survive normalization in value position.
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpBoolAnd
	OpBoolOr
	OpAnd  // bitwise
	OpOr   // bitwise
	OpXor  // bitwise
	OpShl  // shift left
	OpShr  // signed shift right
	OpUShr // unsigned shift right
	OpAssign
	OpAssignAdd
	OpAssignSub
	OpAssignMul
	OpAssignDiv
	OpAssignMod
	OpAssignAnd
	OpAssignOr
	OpAssignXor
	OpAssignShl
	OpAssignShr
	OpAssignUShr
	OpCoalesce
)

func (op BinOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpBoolAnd:
		return "&&"
	case OpBoolOr:
		return "||"
	case OpAnd:
		return "&"
	case OpOr:
		return "|"
	case OpXor:
		return "^"
	case OpShl:
		return "<<"
	case OpShr:
		return ">>"
	case OpUShr:
		return ">>>"
	case OpAssign:
		return "="
	case OpAssignAdd:
		return "+="
	case OpAssignSub:
		return "-="
	case OpAssignMul:
		return "*="
	case OpAssignDiv:
		return "/="
	case OpAssignMod:
		return "%="
	case OpAssignAnd:
		return "&="
	case OpAssignOr:
		return "|="
	case OpAssignXor:
		return "^="
	case OpAssignShl:
		return "<<="
	case OpAssignShr:
		return ">>="
	case OpAssignUShr:
		return ">>>="
	case OpCoalesce:
		return "??"
	default:
		return "?"
	}
}

// IsAssign reports whether op writes to its left operand.
func (op BinOp) IsAssign() bool {
	return op >= OpAssign && op <= OpAssignUShr
}

// IsCompound reports whether op is a compound assignment (a <op>= b).
func (op BinOp) IsCompound() bool {
	return op > OpAssign && op <= OpAssignUShr
}

// Underlying returns the value operator a compound assignment applies.
// For any other operator it returns op unchanged.
func (op BinOp) Underlying() BinOp {
	switch op {
	case OpAssignAdd:
		return OpAdd
	case OpAssignSub:
		return OpSub
	case OpAssignMul:
		return OpMul
	case OpAssignDiv:
		return OpDiv
	case OpAssignMod:
		return OpMod
	case OpAssignAnd:
		return OpAnd
	case OpAssignOr:
		return OpOr
	case OpAssignXor:
		return OpXor
	case OpAssignShl:
		return OpShl
	case OpAssignShr:
		return OpShr
	case OpAssignUShr:
		return OpUShr
	default:
		return op
	}
}

// UnOp identifies a unary operator.
type UnOp int

const (
	OpNeg UnOp = iota
	OpNot
	OpBitNot
	OpIncrement
	OpDecrement
)

func (op UnOp) String() string {
	switch op {
	case OpNeg:
		return "-"
	case OpNot:
		return "!"
	case OpBitNot:
		return "~"
	case OpIncrement:
		return "++"
	case OpDecrement:
		return "--"
	default:
		return "?"
	}
}

// IsMutating reports whether op writes to its operand.
func (op UnOp) IsMutating() bool {
	return op == OpIncrement || op == OpDecrement
}
