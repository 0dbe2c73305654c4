package luagen

import (
	"fmt"
	"strings"

	"github.com/neimanpinchas/haxego/internal/typed"
	"github.com/neimanpinchas/haxego/internal/types"
)

// expr renders a normalized value-position node as a Lua expression.
func (g *Generator) expr(n typed.Node) string {
	if n == nil || g.err != nil {
		return "nil"
	}

	switch e := n.(type) {
	case *typed.Const:
		return g.constant(e)
	case *typed.Local:
		return ident(e.Name)
	case *typed.Field:
		return g.field(e)
	case *typed.Index:
		return fmt.Sprintf("%s[%s]", g.expr(e.X), g.expr(e.I))
	case *typed.Paren:
		return "(" + g.expr(e.X) + ")"
	case *typed.Meta:
		return g.expr(e.X)
	case *typed.ObjectLit:
		return g.objectLit(e)
	case *typed.ArrayLit:
		return g.arrayLit(e)
	case *typed.TypeExpr:
		return pathIdent(e.Ref.Path)
	case *typed.Call:
		return g.call(e)
	case *typed.New:
		return fmt.Sprintf("%s.new(%s)", pathIdent(e.Class.Path), g.args(e.Args))
	case *typed.Binary:
		return g.binary(e)
	case *typed.Unary:
		return g.unary(e)
	case *typed.Cast:
		// Static casts carry no runtime behavior on this target.
		return g.expr(e.X)
	case *typed.FuncLit:
		return g.funcLit(e)
	case *typed.EnumParam:
		// Constructor arguments live in the value's array part, 1-based.
		return fmt.Sprintf("%s[%d]", g.expr(e.X), e.Index+1)
	case *typed.EnumIndex:
		return g.expr(e.X) + "._hx_index"
	default:
		g.internalErr(n.Loc(), "%T survived normalization in value position", n)
		return "nil"
	}
}

func (g *Generator) constant(c *typed.Const) string {
	switch c.Kind {
	case typed.ConstInt, typed.ConstFloat:
		return c.Value
	case typed.ConstString:
		return quote(c.Value)
	case typed.ConstBool:
		return c.Value
	case typed.ConstNull:
		return "nil"
	case typed.ConstThis:
		return "self"
	case typed.ConstSuper:
		g.unsupported("a bare super reference", c.Location)
		return "nil"
	default:
		g.internalErr(c.Location, "unknown constant kind %d", c.Kind)
		return "nil"
	}
}

func (g *Generator) field(f *typed.Field) string {
	switch f.Kind {
	case typed.FieldStatic, typed.FieldEnumCtor:
		return pathIdent(f.Owner.Path) + fieldSuffix(f.Name)
	case typed.FieldClosure:
		// Bind the method to its receiver; the receiver is simple after
		// normalization, so rendering it twice is safe.
		recv := g.expr(f.X)
		return fmt.Sprintf("_hx_bind(%s, %s%s)", recv, recv, fieldSuffix(f.Name))
	case typed.FieldDynamic:
		// Resolved by name at runtime, so the name stays a string key.
		return fmt.Sprintf("%s[%s]", g.expr(f.X), quote(f.Name))
	default:
		if isSuper(f.X) {
			if f.Owner == nil {
				g.internalErr(f.Location, "super member access without an owner")
				return "nil"
			}
			return pathIdent(f.Owner.Path) + ".prototype" + fieldSuffix(f.Name)
		}
		return g.expr(f.X) + fieldSuffix(f.Name)
	}
}

func (g *Generator) objectLit(o *typed.ObjectLit) string {
	entries := make([]string, 0, len(o.Fields))
	for _, f := range o.Fields {
		if luaReserved[f.Name] || !plainIdent(f.Name) {
			entries = append(entries, fmt.Sprintf("[%s] = %s", quote(f.Name), g.expr(f.Value)))
		} else {
			entries = append(entries, fmt.Sprintf("%s = %s", f.Name, g.expr(f.Value)))
		}
	}
	return fmt.Sprintf("_hx_tab_obj({%s})", strings.Join(entries, ", "))
}

func (g *Generator) arrayLit(a *typed.ArrayLit) string {
	if len(a.Elems) == 0 {
		return "_hx_tab_array({}, 0)"
	}
	// Element zero goes into an explicit slot so the array stays 0-based.
	parts := make([]string, 0, len(a.Elems))
	parts = append(parts, "[0] = "+g.expr(a.Elems[0]))
	for _, el := range a.Elems[1:] {
		parts = append(parts, g.expr(el))
	}
	return fmt.Sprintf("_hx_tab_array({%s}, %d)", strings.Join(parts, ", "), len(a.Elems))
}

func (g *Generator) args(list []typed.Node) string {
	parts := make([]string, 0, len(list))
	for _, a := range list {
		parts = append(parts, g.expr(a))
	}
	return strings.Join(parts, ", ")
}

func (g *Generator) funcLit(f *typed.FuncLit) string {
	params := make([]string, 0, len(f.Params))
	for _, p := range f.Params {
		params = append(params, ident(p.Name))
	}

	sub := New()
	sub.indent = g.indent + 1
	sub.counter = g.counter
	sub.stmts(f.Body)
	g.counter = sub.counter
	if sub.err != nil && g.err == nil {
		g.err = sub.err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "function(%s)\n", strings.Join(params, ", "))
	sb.WriteString(sub.buf.String())
	for i := 0; i < g.indent; i++ {
		sb.WriteString(g.indentStr)
	}
	sb.WriteString("end")
	return sb.String()
}

var bitCalls = map[typed.BinOp]string{
	typed.OpAnd:  "_hx_bit.band",
	typed.OpOr:   "_hx_bit.bor",
	typed.OpXor:  "_hx_bit.bxor",
	typed.OpShl:  "_hx_bit.shl",
	typed.OpShr:  "_hx_bit.shr",
	typed.OpUShr: "_hx_bit.ushr",
}

var plainBinOps = map[typed.BinOp]string{
	typed.OpSub:     "-",
	typed.OpMul:     "*",
	typed.OpDiv:     "/",
	typed.OpEq:      "==",
	typed.OpNe:      "~=",
	typed.OpLt:      "<",
	typed.OpLe:      "<=",
	typed.OpGt:      ">",
	typed.OpGe:      ">=",
	typed.OpBoolAnd: "and",
	typed.OpBoolOr:  "or",
}

func (g *Generator) binary(b *typed.Binary) string {
	if b.Op.IsAssign() || b.Op == typed.OpCoalesce {
		g.internalErr(b.Location, "%s survived normalization in value position", b.Op)
		return "nil"
	}

	if call, ok := bitCalls[b.Op]; ok {
		return fmt.Sprintf("%s(%s, %s)", call, g.expr(b.X), g.expr(b.Y))
	}

	switch b.Op {
	case typed.OpAdd:
		if types.IsString(b.Type) {
			return fmt.Sprintf("%s .. %s", g.concatOperand(b.X), g.concatOperand(b.Y))
		}
		return fmt.Sprintf("%s + %s", g.operand(b.X), g.operand(b.Y))
	case typed.OpMod:
		// Lua's % floors, the source language truncates; the runtime helper
		// keeps the sign of the dividend.
		return fmt.Sprintf("_hx_mod(%s, %s)", g.expr(b.X), g.expr(b.Y))
	default:
		op, ok := plainBinOps[b.Op]
		if !ok {
			g.internalErr(b.Location, "unknown binary operator %v", b.Op)
			return "nil"
		}
		return fmt.Sprintf("%s %s %s", g.operand(b.X), op, g.operand(b.Y))
	}
}

// concatOperand renders one side of a string concatenation. Lua's .. accepts
// strings and numbers natively; everything else goes through the runtime's
// string conversion.
func (g *Generator) concatOperand(n typed.Node) string {
	t := types.Unwrap(n.NodeType())
	if b, ok := t.(*types.Basic); ok {
		switch b.Kind {
		case types.String, types.Int, types.Float:
			return g.operand(n)
		}
	}
	return fmt.Sprintf("_hx_str(%s)", g.expr(n))
}

// operand parenthesizes nested operator applications instead of reproducing
// the source precedence table.
func (g *Generator) operand(n typed.Node) string {
	switch typed.Skip(n).(type) {
	case *typed.Binary, *typed.Unary:
		return "(" + g.expr(n) + ")"
	default:
		return g.expr(n)
	}
}

func (g *Generator) unary(u *typed.Unary) string {
	switch u.Op {
	case typed.OpNeg:
		return "-" + g.operand(u.X)
	case typed.OpNot:
		return "not " + g.operand(u.X)
	case typed.OpBitNot:
		return fmt.Sprintf("_hx_bit.bnot(%s)", g.expr(u.X))
	default:
		g.internalErr(u.Location, "%s survived normalization in value position", u.Op)
		return "nil"
	}
}

func isSuper(n typed.Node) bool {
	c, ok := typed.Skip(n).(*typed.Const)
	return ok && c.Kind == typed.ConstSuper
}

// intrinsicName extracts the compiler-intrinsic name of a call target, if it
// is one.
func intrinsicName(fun typed.Node) string {
	var name string
	switch f := typed.Skip(fun).(type) {
	case *typed.Local:
		name = f.Name
	case *typed.Field:
		name = f.Name
	default:
		return ""
	}
	switch name {
	case "__lua__", "__global__", "__call__", "__hash__":
		return name
	}
	return ""
}

func (g *Generator) call(c *typed.Call) string {
	if name := intrinsicName(c.Fun); name != "" {
		return g.intrinsic(name, c)
	}

	if isSuper(c.Fun) {
		// Constructor chain call. The super reference is typed as the
		// superclass.
		named, ok := types.Unwrap(c.Fun.NodeType()).(*types.Named)
		if !ok {
			g.internalErr(c.Location, "super call without a resolved superclass")
			return "nil"
		}
		return fmt.Sprintf("%s.super(%s)", pathIdent(named.Path), g.selfArgs(c.Args))
	}

	if f, ok := typed.Skip(c.Fun).(*typed.Field); ok {
		return g.methodCall(f, c)
	}

	fun := g.expr(c.Fun)
	if _, ok := typed.Skip(c.Fun).(*typed.FuncLit); ok {
		fun = "(" + fun + ")"
	}
	return fmt.Sprintf("%s(%s)", fun, g.args(c.Args))
}

func (g *Generator) methodCall(f *typed.Field, c *typed.Call) string {
	switch f.Kind {
	case typed.FieldStatic, typed.FieldEnumCtor:
		return fmt.Sprintf("%s%s(%s)", pathIdent(f.Owner.Path), fieldSuffix(f.Name), g.args(c.Args))
	case typed.FieldInstance, typed.FieldClosure:
		if isSuper(f.X) {
			// Explicit superclass method dispatch.
			return fmt.Sprintf("%s.prototype%s(%s)", pathIdent(f.Owner.Path), fieldSuffix(f.Name), g.selfArgs(c.Args))
		}
		recv := g.expr(f.X)
		if plainIdent(f.Name) && !luaReserved[f.Name] {
			return fmt.Sprintf("%s:%s(%s)", recv, f.Name, g.args(c.Args))
		}
		// Colon syntax needs a plain name; fall back to passing the
		// receiver explicitly. The receiver is simple after normalization.
		joined := g.args(c.Args)
		if joined != "" {
			joined = ", " + joined
		}
		return fmt.Sprintf("%s%s(%s%s)", recv, fieldSuffix(f.Name), recv, joined)
	case typed.FieldDynamic:
		return fmt.Sprintf("%s[%s](%s)", g.expr(f.X), quote(f.Name), g.args(c.Args))
	default:
		return fmt.Sprintf("%s%s(%s)", g.expr(f.X), fieldSuffix(f.Name), g.args(c.Args))
	}
}

func (g *Generator) selfArgs(list []typed.Node) string {
	joined := g.args(list)
	if joined == "" {
		return "self"
	}
	return "self, " + joined
}

func (g *Generator) intrinsic(name string, c *typed.Call) string {
	switch name {
	case "__lua__":
		if len(c.Args) == 0 {
			g.unsupported("__lua__ without code", c.Location)
			return "nil"
		}
		lit, ok := typed.Skip(c.Args[0]).(*typed.Const)
		if !ok || lit.Kind != typed.ConstString {
			g.unsupported("__lua__ with non-constant code", c.Location)
			return "nil"
		}
		return lit.Value
	case "__global__":
		if len(c.Args) == 0 {
			g.unsupported("__global__ without a name", c.Location)
			return "nil"
		}
		lit, ok := typed.Skip(c.Args[0]).(*typed.Const)
		if !ok || lit.Kind != typed.ConstString {
			g.unsupported("__global__ with a non-constant name", c.Location)
			return "nil"
		}
		return fmt.Sprintf("%s(%s)", lit.Value, g.args(c.Args[1:]))
	case "__call__":
		if len(c.Args) == 0 {
			g.unsupported("__call__ without a callee", c.Location)
			return "nil"
		}
		return fmt.Sprintf("%s(%s)", g.operandCallee(c.Args[0]), g.args(c.Args[1:]))
	case "__hash__":
		if len(c.Args) == 0 {
			g.unsupported("__hash__ without an operand", c.Location)
			return "nil"
		}
		return fmt.Sprintf("_hx_hash(%s)", g.expr(c.Args[0]))
	default:
		g.internalErr(c.Location, "unknown intrinsic %s", name)
		return "nil"
	}
}

func (g *Generator) operandCallee(n typed.Node) string {
	switch typed.Skip(n).(type) {
	case *typed.Local, *typed.Field, *typed.Index, *typed.Call, *typed.Paren:
		return g.expr(n)
	default:
		return "(" + g.expr(n) + ")"
	}
}
