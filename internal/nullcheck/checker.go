// Package nullcheck validates and simplifies null-related expressions against
// the static nullability information carried by the typed tree.
//
// It runs over the original typed tree, before normalization. The validation
// pass only reports; the folding pass builds replacement nodes and never
// mutates its input.
package nullcheck

import (
	"fmt"

	"github.com/neimanpinchas/haxego/internal/diagnostics"
	"github.com/neimanpinchas/haxego/internal/typed"
	"github.com/neimanpinchas/haxego/internal/types"
)

// Checker walks a typed tree and reports null constants flowing into
// non-nullable targets. All findings are accumulated in the bag; the pass
// never stops early and never rewrites the tree.
type Checker struct {
	bag        *diagnostics.DiagnosticBag
	returnType types.Type
}

// NewChecker creates a checker reporting into bag.
func NewChecker(bag *diagnostics.DiagnosticBag) *Checker {
	return &Checker{bag: bag}
}

// Check validates a function body. returnType is the enclosing function's
// declared return type, used for return-expression checks.
func (c *Checker) Check(body typed.Node, returnType types.Type) {
	prev := c.returnType
	c.returnType = returnType
	c.node(body)
	c.returnType = prev
}

// CheckExpr validates a single expression with no enclosing function.
func (c *Checker) CheckExpr(expr typed.Node) {
	c.node(expr)
}

func (c *Checker) node(n typed.Node) {
	if n == nil {
		return
	}

	switch e := n.(type) {
	case *typed.Const, *typed.Local, *typed.TypeExpr, *typed.Break, *typed.Continue:
		// leaves
	case *typed.Field:
		c.node(e.X)
	case *typed.Index:
		c.node(e.X)
		c.node(e.I)
	case *typed.Paren:
		c.node(e.X)
	case *typed.Meta:
		c.node(e.X)
	case *typed.ObjectLit:
		for _, f := range e.Fields {
			c.node(f.Value)
		}
	case *typed.ArrayLit:
		for _, el := range e.Elems {
			c.node(el)
		}
	case *typed.Call:
		c.checkCall(e)
	case *typed.New:
		for _, arg := range e.Args {
			c.node(arg)
		}
	case *typed.Binary:
		c.checkBinary(e)
	case *typed.Unary:
		c.node(e.X)
	case *typed.FuncLit:
		ret := types.Type(types.TypeVoid)
		if fn, ok := types.Unwrap(e.Type).(*types.Function); ok && fn.Return != nil {
			ret = fn.Return
		}
		c.Check(e.Body, ret)
	case *typed.VarDecl:
		if e.Init != nil {
			if typed.IsNullConst(e.Init) && e.Type != nil && !e.Type.Nullable() {
				c.report(diagnostics.ErrNullToNonNullable, e.Init,
					fmt.Sprintf("cannot initialize '%s' of non-nullable type %s with null", e.Name, e.Type))
			}
			c.node(e.Init)
		}
	case *typed.Block:
		for _, s := range e.Stmts {
			c.node(s)
		}
	case *typed.For:
		c.node(e.Iter)
		c.node(e.Body)
	case *typed.If:
		c.node(e.Cond)
		c.node(e.Then)
		c.node(e.Else)
	case *typed.While:
		c.node(e.Cond)
		c.node(e.Body)
	case *typed.Switch:
		c.node(e.Subject)
		for _, arm := range e.Cases {
			for _, v := range arm.Values {
				c.node(v)
			}
			c.node(arm.Body)
		}
		c.node(e.Default)
	case *typed.Return:
		if e.Value != nil {
			if typed.IsNullConst(e.Value) && c.returnType != nil && !c.returnType.Nullable() {
				c.report(diagnostics.ErrNullReturn, e.Value,
					fmt.Sprintf("cannot return null from a function declared to return %s", c.returnType))
			}
			c.node(e.Value)
		}
	case *typed.Throw:
		c.node(e.Value)
	case *typed.Cast:
		c.node(e.X)
	case *typed.Try:
		c.node(e.Body)
		for _, cc := range e.Catches {
			c.node(cc.Body)
		}
	case *typed.EnumParam:
		c.node(e.X)
	case *typed.EnumIndex:
		c.node(e.X)
	}
}

func (c *Checker) checkBinary(b *typed.Binary) {
	if b.Op == typed.OpAssign || b.Op.IsCompound() {
		if typed.IsNullConst(b.Y) {
			lhsType := b.X.NodeType()
			if lhsType != nil && !lhsType.Nullable() {
				c.report(diagnostics.ErrNullToNonNullable, b.Y,
					fmt.Sprintf("cannot assign null to a target of non-nullable type %s", lhsType))
			}
		}
	}
	c.node(b.X)
	c.node(b.Y)
}

func (c *Checker) checkCall(call *typed.Call) {
	c.node(call.Fun)

	fn, _ := types.Unwrap(call.Fun.NodeType()).(*types.Function)
	for i, arg := range call.Args {
		if fn != nil && i < len(fn.Params) {
			param := fn.Params[i]
			if typed.IsNullConst(arg) && !param.Optional && param.Type != nil && !param.Type.Nullable() {
				c.report(diagnostics.ErrNullArgument, arg,
					fmt.Sprintf("cannot pass null for parameter '%s' of non-nullable type %s", param.Name, param.Type))
			}
		}
		c.node(arg)
	}
}

func (c *Checker) report(code string, at typed.Node, message string) {
	c.bag.Add(diagnostics.NewError(message).
		WithCode(code).
		WithLocation(at.Loc()))
}
