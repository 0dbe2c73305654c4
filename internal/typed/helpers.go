package typed

// IsBlockLike reports whether n is a node that can only render as statements
// on the target: a block, conditional, switch, or try. Such nodes must never
// survive normalization in value position.
func IsBlockLike(n Node) bool {
	switch n.(type) {
	case *Block, *If, *Switch, *Try:
		return true
	default:
		return false
	}
}

// IsNullConst reports whether n is statically the null constant, looking
// through parentheses and metadata wrappers.
func IsNullConst(n Node) bool {
	switch e := n.(type) {
	case *Const:
		return e.Kind == ConstNull
	case *Paren:
		return IsNullConst(e.X)
	case *Meta:
		return IsNullConst(e.X)
	default:
		return false
	}
}

// Skip unwraps parentheses and metadata wrappers around a node.
func Skip(n Node) Node {
	for {
		switch e := n.(type) {
		case *Paren:
			n = e.X
		case *Meta:
			n = e.X
		default:
			return n
		}
	}
}
