package normalize

import (
	"github.com/neimanpinchas/haxego/internal/source"
	"github.com/neimanpinchas/haxego/internal/typed"
	"github.com/neimanpinchas/haxego/internal/types"
)

// needsHoist reports whether normalizing n in value position can produce
// prelude statements. Function literal bodies do not count: their hoists stay
// inside the literal.
func needsHoist(n typed.Node) bool {
	if n == nil {
		return false
	}

	switch e := n.(type) {
	case *typed.Block, *typed.If, *typed.Switch, *typed.Try:
		return true
	case *typed.Binary:
		if e.Op.IsAssign() || e.Op == typed.OpCoalesce {
			return true
		}
		return needsHoist(e.X) || needsHoist(e.Y)
	case *typed.Unary:
		return e.Op.IsMutating() || needsHoist(e.X)
	case *typed.Paren:
		return needsHoist(e.X)
	case *typed.Meta:
		return needsHoist(e.X)
	case *typed.Field:
		// A native member used as a value is rewritten into a shim that
		// captures its receiver.
		if e.Native && e.Kind != typed.FieldEnumCtor && !isTrivial(e.X) {
			if _, ok := types.Unwrap(e.Type).(*types.Function); ok {
				return true
			}
		}
		return needsHoist(e.X)
	case *typed.Index:
		return needsHoist(e.X) || needsHoist(e.I)
	case *typed.Call:
		if needsHoist(e.Fun) {
			return true
		}
		return anyNeedsHoist(e.Args)
	case *typed.New:
		return anyNeedsHoist(e.Args)
	case *typed.ObjectLit:
		for _, f := range e.Fields {
			if needsHoist(f.Value) {
				return true
			}
		}
		return false
	case *typed.ArrayLit:
		return anyNeedsHoist(e.Elems)
	case *typed.Cast:
		return needsHoist(e.X)
	case *typed.EnumParam:
		return needsHoist(e.X)
	case *typed.EnumIndex:
		return needsHoist(e.X)
	default:
		return false
	}
}

func anyNeedsHoist(list []typed.Node) bool {
	for _, n := range list {
		if needsHoist(n) {
			return true
		}
	}
	return false
}

// isTrivial reports whether re-evaluating n is free of effects and immune to
// interleaved writes: constants, type references, and temp-namespace locals.
// User locals do not qualify because a hoisted sibling may assign them.
func isTrivial(n typed.Node) bool {
	switch e := n.(type) {
	case nil:
		return true
	case *typed.Const, *typed.TypeExpr:
		return true
	case *typed.Local:
		return e.ID >= typed.TempIDBase
	default:
		return false
	}
}

func assign(lhs, rhs typed.Node, loc source.Location) typed.Node {
	return &typed.Binary{Op: typed.OpAssign, X: lhs, Y: rhs, Type: types.TypeVoid, Location: loc}
}

// mutation builds the compound assignment equivalent of an increment or
// decrement of lv.
func mutation(op typed.UnOp, lv typed.Node, loc source.Location) typed.Node {
	binOp := typed.OpAssignAdd
	if op == typed.OpDecrement {
		binOp = typed.OpAssignSub
	}
	return &typed.Binary{Op: binOp, X: lv, Y: intConst("1", loc), Type: types.TypeVoid, Location: loc}
}

func notOf(n typed.Node) typed.Node {
	wrapped := &typed.Paren{X: n, Type: types.TypeBool, Location: n.Loc()}
	return &typed.Unary{Op: typed.OpNot, X: wrapped, Type: types.TypeBool, Location: n.Loc()}
}

func trueConst(loc source.Location) typed.Node {
	return &typed.Const{Kind: typed.ConstBool, Value: "true", Type: types.TypeBool, Location: loc}
}

func nullConst(loc source.Location) typed.Node {
	return &typed.Const{Kind: typed.ConstNull, Value: "null", Type: types.TypeDynamic, Location: loc}
}

func intConst(value string, loc source.Location) typed.Node {
	return &typed.Const{Kind: typed.ConstInt, Value: value, Type: types.TypeInt, Location: loc}
}
