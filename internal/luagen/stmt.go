package luagen

import (
	"fmt"
	"strings"

	"github.com/neimanpinchas/haxego/internal/typed"
	"github.com/neimanpinchas/haxego/internal/types"
)

// stmts renders every statement of a normalized block at the current indent.
func (g *Generator) stmts(b *typed.Block) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		g.stmt(s)
	}
}

// branch renders a statement-position node, flattening a block wrapper into
// plain statements. If and loop bodies are already scopes of their own.
func (g *Generator) branch(n typed.Node) {
	if b, ok := n.(*typed.Block); ok {
		g.stmts(b)
		return
	}
	g.stmt(n)
}

func (g *Generator) stmt(n typed.Node) {
	if n == nil || g.err != nil {
		return
	}

	switch e := n.(type) {
	case *typed.Block:
		g.line("do")
		g.indent++
		g.stmts(e)
		g.indent--
		g.line("end")
	case *typed.VarDecl:
		if e.Init == nil {
			g.line("local %s", ident(e.Name))
		} else {
			g.line("local %s = %s", ident(e.Name), g.expr(e.Init))
		}
	case *typed.Binary:
		g.assignStmt(e)
	case *typed.If:
		g.ifStmt(e)
	case *typed.While:
		g.whileStmt(e)
	case *typed.For:
		g.forStmt(e)
	case *typed.Switch:
		g.switchStmt(e)
	case *typed.Try:
		g.tryStmt(e)
	case *typed.Return:
		if e.Value == nil {
			g.line("return")
		} else {
			g.line("return %s", g.expr(e.Value))
		}
	case *typed.Break:
		g.breakStmt()
	case *typed.Continue:
		g.continueStmt()
	case *typed.Throw:
		g.line("error(%s)", g.expr(e.Value))
	case *typed.Unary:
		g.internalErr(e.Location, "%s survived normalization in statement position", e.Op)
	case *typed.Meta:
		g.stmt(e.X)
	default:
		g.exprStmt(e)
	}
}

// exprStmt renders an expression statement. Lua only allows calls there, so
// any leftover pure value is parked in a throwaway local.
func (g *Generator) exprStmt(n typed.Node) {
	switch typed.Skip(n).(type) {
	case *typed.Call, *typed.New:
		g.line("%s", g.expr(n))
	default:
		g.line("local _ = %s", g.expr(n))
	}
}

func (g *Generator) assignStmt(b *typed.Binary) {
	if !b.Op.IsAssign() {
		g.exprStmt(b)
		return
	}

	lhs := g.expr(b.X)
	if b.Op == typed.OpAssign {
		g.line("%s = %s", lhs, g.expr(b.Y))
		return
	}

	// Compound assignment reads the (normalized, effect-free) target once
	// more on the right.
	op := b.Op.Underlying()
	if call, ok := bitCalls[op]; ok {
		g.line("%s = %s(%s, %s)", lhs, call, lhs, g.expr(b.Y))
		return
	}
	switch op {
	case typed.OpAdd:
		if types.IsString(b.X.NodeType()) {
			g.line("%s = %s .. %s", lhs, lhs, g.concatOperand(b.Y))
			return
		}
		g.line("%s = %s + %s", lhs, lhs, g.operand(b.Y))
	case typed.OpMod:
		g.line("%s = _hx_mod(%s, %s)", lhs, lhs, g.expr(b.Y))
	default:
		sym, ok := plainBinOps[op]
		if !ok {
			g.internalErr(b.Location, "unknown compound operator %v", b.Op)
			return
		}
		g.line("%s = %s %s %s", lhs, lhs, sym, g.operand(b.Y))
	}
}

// breakStmt and continueStmt route loop exits around a pcall boundary: the
// protected closure cannot break the enclosing loop directly, so inside one
// the exit becomes a sentinel return dispatched after the pcall.
func (g *Generator) breakStmt() {
	if g.protected > 0 {
		g.line("return _hx_break")
		return
	}
	g.line("break")
}

func (g *Generator) continueStmt() {
	if g.protected > 0 {
		g.line("return _hx_cont")
		return
	}
	g.line("goto _hx_continue")
}

func (g *Generator) ifStmt(e *typed.If) {
	// An else-only conditional renders on the negated condition.
	if emptyBranch(e.Then) && e.Else != nil {
		g.line("if not (%s) then", g.expr(e.Cond))
		g.indent++
		g.branch(e.Else)
		g.indent--
		g.line("end")
		return
	}

	g.line("if %s then", g.expr(e.Cond))
	g.indent++
	g.branch(e.Then)
	g.indent--

	els := e.Else
	for els != nil {
		next := elseIf(els)
		if next == nil {
			g.line("else")
			g.indent++
			g.branch(els)
			g.indent--
			break
		}
		g.line("elseif %s then", g.expr(next.Cond))
		g.indent++
		g.branch(next.Then)
		g.indent--
		els = next.Else
	}
	g.line("end")
}

func emptyBranch(n typed.Node) bool {
	if n == nil {
		return true
	}
	b, ok := n.(*typed.Block)
	return ok && len(b.Stmts) == 0
}

// elseIf returns the conditional to fold into an elseif clause, or nil when
// the else branch must stay a plain else. A block wrapper with a lone
// conditional still folds; anything with prelude statements does not.
func elseIf(n typed.Node) *typed.If {
	switch e := n.(type) {
	case *typed.If:
		return e
	case *typed.Block:
		if len(e.Stmts) == 1 {
			if inner, ok := e.Stmts[0].(*typed.If); ok {
				return inner
			}
		}
	}
	return nil
}

func (g *Generator) whileStmt(e *typed.While) {
	label := containsContinue(e.Body)
	saved := g.protected
	g.protected = 0
	if e.TestFirst {
		g.line("while %s do", g.expr(e.Cond))
		g.indent++
		g.loopTail(e, label)
		g.indent--
		g.line("end")
	} else {
		g.line("repeat")
		g.indent++
		g.loopTail(e, label)
		g.indent--
		g.line("until not (%s)", g.expr(e.Cond))
	}
	g.protected = saved
}

// loopTail renders the loop body and the continue label. A rewritten loop
// carries its condition re-test as the last body statement; a continue must
// still reach that guard, so the label goes in front of it.
func (g *Generator) loopTail(e *typed.While, label bool) {
	if label && e.TailGuard {
		if b, ok := e.Body.(*typed.Block); ok && len(b.Stmts) > 0 {
			for _, s := range b.Stmts[:len(b.Stmts)-1] {
				g.stmt(s)
			}
			g.line("::_hx_continue::")
			g.stmt(b.Stmts[len(b.Stmts)-1])
			return
		}
	}
	g.branch(e.Body)
	if label {
		g.line("::_hx_continue::")
	}
}

func (g *Generator) forStmt(e *typed.For) {
	it := g.fresh("it")
	g.line("local %s = %s", it, g.expr(e.Iter))
	g.line("while %s:hasNext() do", it)
	g.indent++
	saved := g.protected
	g.protected = 0
	g.line("local %s = %s:next()", ident(e.VarName), it)
	g.branch(e.Body)
	if containsContinue(e.Body) {
		g.line("::_hx_continue::")
	}
	g.protected = saved
	g.indent--
	g.line("end")
}

// switchStmt renders a switch as an if/elseif comparison chain. The subject
// is simple after normalization, so repeating it per case value is safe.
func (g *Generator) switchStmt(e *typed.Switch) {
	subject := g.expr(e.Subject)

	if len(e.Cases) == 0 {
		if e.Default != nil {
			g.branch(e.Default)
		}
		return
	}

	for i, arm := range e.Cases {
		tests := make([]string, 0, len(arm.Values))
		for _, v := range arm.Values {
			tests = append(tests, fmt.Sprintf("%s == %s", subject, g.operand(v)))
		}
		keyword := "if"
		if i > 0 {
			keyword = "elseif"
		}
		g.line("%s %s then", keyword, strings.Join(tests, " or "))
		g.indent++
		g.branch(arm.Body)
		g.indent--
	}
	if e.Default != nil {
		g.line("else")
		g.indent++
		g.branch(e.Default)
		g.indent--
	}
	g.line("end")
}

// tryStmt renders a try as a protected call. The body runs inside a closure;
// _hx_undefined marks "fell off the end" so a real return value (including
// nil, wrapped by the runtime) can be forwarded to the enclosing function.
// Break and continue in the body come back as the _hx_break/_hx_cont
// sentinels and are replayed after the pcall, where the loop is in scope.
func (g *Generator) tryStmt(e *typed.Try) {
	ok := g.fresh("ok")
	res := g.fresh("res")

	g.line("local %s, %s = pcall(function()", ok, res)
	g.indent++
	g.protected++
	g.branch(e.Body)
	g.line("return _hx_undefined")
	g.protected--
	g.indent--
	g.line("end)")

	g.line("if not %s then", ok)
	g.indent++
	g.catchChain(res, e.Catches)
	g.indent--
	if containsBreak(e.Body) {
		g.line("elseif %s == _hx_break then", res)
		g.indent++
		g.breakStmt()
		g.indent--
	}
	if containsContinue(e.Body) {
		g.line("elseif %s == _hx_cont then", res)
		g.indent++
		g.continueStmt()
		g.indent--
	}
	g.line("elseif %s ~= _hx_undefined then", res)
	g.indent++
	g.line("return %s", res)
	g.indent--
	g.line("end")
}

func (g *Generator) catchChain(errVar string, catches []typed.Catch) {
	if len(catches) == 0 {
		g.line("error(%s)", errVar)
		return
	}

	// A single catch-all needs no dispatch.
	if len(catches) == 1 && catchAll(catches[0]) {
		g.line("local %s = %s", ident(catches[0].VarName), errVar)
		g.branch(catches[0].Body)
		return
	}

	terminated := false
	for i, c := range catches {
		if catchAll(c) {
			g.line("else")
			g.indent++
			g.line("local %s = %s", ident(c.VarName), errVar)
			g.branch(c.Body)
			g.indent--
			terminated = true
			break
		}
		keyword := "if"
		if i > 0 {
			keyword = "elseif"
		}
		g.line("%s _hx_instance_of(%s, %s) then", keyword, errVar, g.typeToken(c.VarType))
		g.indent++
		g.line("local %s = %s", ident(c.VarName), errVar)
		g.branch(c.Body)
		g.indent--
	}
	if !terminated {
		// No clause matched: the error keeps propagating.
		g.line("else")
		g.indent++
		g.line("error(%s)", errVar)
		g.indent--
	}
	g.line("end")
}

func catchAll(c typed.Catch) bool {
	if c.VarType == nil {
		return true
	}
	b, ok := types.Unwrap(c.VarType).(*types.Basic)
	return ok && b.Kind == types.Dynamic
}

// typeToken renders the runtime tag _hx_instance_of dispatches on.
func (g *Generator) typeToken(t types.Type) string {
	switch u := types.Unwrap(t).(type) {
	case *types.Named:
		return pathIdent(u.Path)
	case *types.Basic:
		return quote(u.String())
	case *types.Array:
		return quote("Array")
	default:
		return quote(u.String())
	}
}
