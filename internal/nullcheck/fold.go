package nullcheck

import (
	"github.com/neimanpinchas/haxego/internal/typed"
	"github.com/neimanpinchas/haxego/internal/types"
)

// Fold simplifies null comparisons whose outcome is statically known,
// producing a new tree. It runs before normalization so later passes see the
// simplified form. Folding is idempotent: boolean constants produced by one
// run are fixed points of the next.
func Fold(n typed.Node) typed.Node {
	if n == nil {
		return nil
	}

	switch e := n.(type) {
	case *typed.Const, *typed.Local, *typed.TypeExpr, *typed.Break, *typed.Continue:
		return n
	case *typed.Field:
		return &typed.Field{X: Fold(e.X), Name: e.Name, Kind: e.Kind, Owner: e.Owner, Native: e.Native, Type: e.Type, Location: e.Location}
	case *typed.Index:
		return &typed.Index{X: Fold(e.X), I: Fold(e.I), Type: e.Type, Location: e.Location}
	case *typed.Paren:
		return &typed.Paren{X: Fold(e.X), Type: e.Type, Location: e.Location}
	case *typed.Meta:
		return &typed.Meta{Name: e.Name, X: Fold(e.X), Location: e.Location}
	case *typed.ObjectLit:
		fields := make([]typed.ObjectField, 0, len(e.Fields))
		for _, f := range e.Fields {
			fields = append(fields, typed.ObjectField{Name: f.Name, Value: Fold(f.Value)})
		}
		return &typed.ObjectLit{Fields: fields, Type: e.Type, Location: e.Location}
	case *typed.ArrayLit:
		return &typed.ArrayLit{Elems: foldList(e.Elems), Type: e.Type, Location: e.Location}
	case *typed.Call:
		return &typed.Call{Fun: Fold(e.Fun), Args: foldList(e.Args), Type: e.Type, Location: e.Location}
	case *typed.New:
		return &typed.New{Class: e.Class, Args: foldList(e.Args), Type: e.Type, Location: e.Location}
	case *typed.Binary:
		return foldBinary(e)
	case *typed.Unary:
		return &typed.Unary{Op: e.Op, Postfix: e.Postfix, X: Fold(e.X), Type: e.Type, Location: e.Location}
	case *typed.FuncLit:
		return &typed.FuncLit{Params: e.Params, Body: foldBlock(e.Body), Type: e.Type, Location: e.Location}
	case *typed.VarDecl:
		return &typed.VarDecl{Name: e.Name, ID: e.ID, Init: Fold(e.Init), Type: e.Type, Location: e.Location}
	case *typed.Block:
		return foldBlock(e)
	case *typed.For:
		return &typed.For{VarName: e.VarName, VarID: e.VarID, VarType: e.VarType, Iter: Fold(e.Iter), Body: Fold(e.Body), Location: e.Location}
	case *typed.If:
		return &typed.If{Cond: Fold(e.Cond), Then: Fold(e.Then), Else: Fold(e.Else), Type: e.Type, Location: e.Location}
	case *typed.While:
		return &typed.While{Cond: Fold(e.Cond), Body: Fold(e.Body), TestFirst: e.TestFirst, TailGuard: e.TailGuard, Location: e.Location}
	case *typed.Switch:
		cases := make([]typed.Case, 0, len(e.Cases))
		for _, arm := range e.Cases {
			cases = append(cases, typed.Case{Values: foldList(arm.Values), Body: Fold(arm.Body)})
		}
		return &typed.Switch{Subject: Fold(e.Subject), Cases: cases, Default: Fold(e.Default), Type: e.Type, Location: e.Location}
	case *typed.Return:
		return &typed.Return{Value: Fold(e.Value), Location: e.Location}
	case *typed.Throw:
		return &typed.Throw{Value: Fold(e.Value), Location: e.Location}
	case *typed.Cast:
		return &typed.Cast{X: Fold(e.X), To: e.To, Location: e.Location}
	case *typed.Try:
		catches := make([]typed.Catch, 0, len(e.Catches))
		for _, cc := range e.Catches {
			catches = append(catches, typed.Catch{VarName: cc.VarName, VarID: cc.VarID, VarType: cc.VarType, Body: Fold(cc.Body)})
		}
		return &typed.Try{Body: Fold(e.Body), Catches: catches, Type: e.Type, Location: e.Location}
	case *typed.EnumParam:
		return &typed.EnumParam{X: Fold(e.X), Ctor: e.Ctor, Index: e.Index, Type: e.Type, Location: e.Location}
	case *typed.EnumIndex:
		return &typed.EnumIndex{X: Fold(e.X), Type: e.Type, Location: e.Location}
	default:
		return n
	}
}

func foldList(list []typed.Node) []typed.Node {
	if list == nil {
		return nil
	}
	out := make([]typed.Node, 0, len(list))
	for _, n := range list {
		out = append(out, Fold(n))
	}
	return out
}

func foldBlock(b *typed.Block) *typed.Block {
	if b == nil {
		return nil
	}
	return &typed.Block{Stmts: foldList(b.Stmts), Type: b.Type, Location: b.Location}
}

func foldBinary(b *typed.Binary) typed.Node {
	x := Fold(b.X)
	y := Fold(b.Y)

	if b.Op == typed.OpEq || b.Op == typed.OpNe {
		xNull := typed.IsNullConst(x)
		yNull := typed.IsNullConst(y)

		switch {
		case xNull && yNull:
			// null == null is true, null != null is false.
			return boolConst(b, b.Op == typed.OpEq)
		case xNull || yNull:
			other := x
			if xNull {
				other = y
			}
			otherType := other.NodeType()
			if otherType != nil && !otherType.Nullable() {
				// A non-nullable value can never be null.
				return boolConst(b, b.Op == typed.OpNe)
			}
		}
	}

	return &typed.Binary{Op: b.Op, X: x, Y: y, Type: b.Type, Location: b.Location}
}

func boolConst(from *typed.Binary, value bool) *typed.Const {
	text := "false"
	if value {
		text = "true"
	}
	return &typed.Const{
		Kind:     typed.ConstBool,
		Value:    text,
		Type:     types.TypeBool,
		Location: from.Location,
	}
}
