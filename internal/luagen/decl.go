package luagen

import (
	"strings"

	"github.com/neimanpinchas/haxego/internal/typed"
	"github.com/neimanpinchas/haxego/internal/types"
)

// Statements renders a normalized statement block. Used for standalone
// expression compilation and by the declaration renderers.
func (g *Generator) Statements(b *typed.Block) (string, error) {
	g.stmts(b)
	return g.result()
}

// Class renders a class declaration. Method bodies and field initializers
// must already be normalized; initializers that needed statement hoisting
// arrive as blocks with the target assignment threaded in.
func (g *Generator) Class(c *typed.Class) (string, error) {
	p := pathIdent(c.Path())

	superRef := "nil"
	if c.Super != nil {
		superRef = pathIdent(c.Super.Path)
	}
	g.line("%s = _hx_class(%s, %s)", p, quote(c.Path()), superRef)

	if len(c.Interfaces) > 0 {
		refs := make([]string, 0, len(c.Interfaces))
		for _, i := range c.Interfaces {
			refs = append(refs, pathIdent(i.Path))
		}
		g.line("%s.__interfaces__ = {%s}", p, strings.Join(refs, ", "))
	}

	g.classConstructor(c, p)

	for _, m := range c.Methods {
		g.method(c, p, m)
	}

	for _, f := range c.Fields {
		if !f.Static || f.Init == nil {
			continue
		}
		if block, ok := f.Init.(*typed.Block); ok {
			g.stmts(block)
			continue
		}
		g.line("%s%s = %s", p, fieldSuffix(f.Name), g.expr(f.Init))
	}

	return g.result()
}

// classConstructor emits the chainable constructor function under the fixed
// name "super" (super calls in subclasses resolve to it) plus the public
// factory. A class without an explicit constructor still gets one; the
// factory chains through cls.super unconditionally.
func (g *Generator) classConstructor(c *typed.Class, p string) {
	inits := instanceInits(c)

	if c.Constructor == nil {
		g.line("function %s.super(self)", p)
		g.indent++
		if c.Super != nil {
			g.line("%s.super(self)", pathIdent(c.Super.Path))
		}
		g.fieldInits(inits)
		g.indent--
		g.line("end")
		g.line("%s.new = _hx_new(%s)", p, p)
		return
	}

	ctor := c.Constructor
	g.line("function %s.super(%s)", p, selfParams(ctor.Params))
	g.indent++
	// Field initializers run before the constructor body; the body's own
	// super call chains the parent initializers.
	g.fieldInits(inits)
	g.stmts(ctor.Body)
	g.indent--
	g.line("end")
	g.line("%s.new = _hx_new(%s)", p, p)
}

func instanceInits(c *typed.Class) []typed.ClassField {
	var out []typed.ClassField
	for _, f := range c.Fields {
		if !f.Static && f.Init != nil {
			out = append(out, f)
		}
	}
	return out
}

func (g *Generator) fieldInits(fields []typed.ClassField) {
	for _, f := range fields {
		if block, ok := f.Init.(*typed.Block); ok {
			g.stmts(block)
			continue
		}
		g.line("self%s = %s", fieldSuffix(f.Name), g.expr(f.Init))
	}
}

func (g *Generator) method(c *typed.Class, p string, m typed.Method) {
	if m.Body == nil {
		// Extern and interface members have no rendering.
		return
	}

	target := p
	params := joinParams(m.Params)
	if !m.Static {
		target = p + ".prototype"
		params = selfParams(m.Params)
	}

	if plainIdent(m.Name) && !luaReserved[m.Name] {
		g.line("function %s.%s(%s)", target, m.Name, params)
	} else {
		g.line("%s[%s] = function(%s)", target, quote(m.Name), params)
	}
	g.indent++
	g.stmts(m.Body)
	g.indent--
	g.line("end")
}

func joinParams(params []typed.FuncParam) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, ident(p.Name))
	}
	return strings.Join(parts, ", ")
}

func selfParams(params []typed.FuncParam) string {
	joined := joinParams(params)
	if joined == "" {
		return "self"
	}
	return "self, " + joined
}

// Enum renders an enum declaration. Constructor position is the runtime
// index; parameterless constructors become shared value tables, the rest
// become factory functions whose arguments land in the value's array part.
func (g *Generator) Enum(e *typed.Enum) (string, error) {
	p := pathIdent(e.Path())

	names := make([]string, 0, len(e.Ctors))
	for _, c := range e.Ctors {
		names = append(names, quote(c.Name))
	}
	g.line("%s = _hx_enum(%s, {%s})", p, quote(e.Path()), strings.Join(names, ", "))

	for i, c := range e.Ctors {
		if len(c.Params) == 0 {
			g.line("%s%s = {_hx_enum = %s, _hx_index = %d}", p, fieldSuffix(c.Name), p, i)
			continue
		}
		params := make([]string, 0, len(c.Params))
		for _, cp := range c.Params {
			params = append(params, ident(cp.Name))
		}
		joined := strings.Join(params, ", ")
		if plainIdent(c.Name) && !luaReserved[c.Name] {
			g.line("function %s.%s(%s)", p, c.Name, joined)
		} else {
			g.line("%s[%s] = function(%s)", p, quote(c.Name), joined)
		}
		g.indent++
		g.line("return {_hx_enum = %s, _hx_index = %d, %s}", p, i, joined)
		g.indent--
		g.line("end")
	}

	return g.result()
}

// Typedef renders a type alias. Only aliases of named types exist at
// runtime; structural aliases are erased.
func (g *Generator) Typedef(t *typed.Typedef) (string, error) {
	if named, ok := types.Unwrap(t.Underlying).(*types.Named); ok {
		g.line("%s = %s", pathIdent(t.Path()), pathIdent(named.Path))
	}
	return g.result()
}

// Abstract renders an abstract type declaration. Abstracts are erased to
// their underlying type at runtime, so nothing is emitted.
func (g *Generator) Abstract(a *typed.Abstract) (string, error) {
	_ = a
	return g.result()
}

// Expression renders a single normalized expression, for hook consumers that
// splice values into larger templates.
func (g *Generator) Expression(n typed.Node) (string, error) {
	text := g.expr(n)
	if g.err != nil {
		return "", g.err
	}
	return text, nil
}
