// Package luagen renders normalized typed trees as Lua 5.1 source text.
//
// Input trees must already be normalized: no block-like construct, assignment,
// increment or coalescing in value position. The generator trusts that
// contract and renders expressions as plain Lua expressions.
package luagen

import (
	"fmt"
	"strings"

	"github.com/neimanpinchas/haxego/internal/source"
	"github.com/neimanpinchas/haxego/internal/typed"
)

// Generator renders one declaration. State is instance-scoped; create a new
// generator per declaration.
type Generator struct {
	buf       strings.Builder
	indent    int
	indentStr string
	counter   int // unique suffixes for generated loop/pcall locals
	protected int // pcall closure depth; loop exits inside it need sentinels
	err       error
}

// New creates a new Lua code generator.
func New() *Generator {
	return &Generator{indentStr: "  "}
}

// UnsupportedError reports a construct the target cannot express. The
// position points at the offending node so the failure is attributable to a
// single declaration.
type UnsupportedError struct {
	Construct string
	Location  source.Location
}

func (e *UnsupportedError) Error() string {
	if e.Location.IsZero() {
		return fmt.Sprintf("cannot generate lua for %s", e.Construct)
	}
	return fmt.Sprintf("%s: cannot generate lua for %s", e.Location, e.Construct)
}

// unsupported records the first unsupported construct. Rendering continues so
// later calls stay cheap no-ops, but the output is discarded by the caller.
func (g *Generator) unsupported(construct string, loc source.Location) {
	if g.err == nil {
		g.err = &UnsupportedError{Construct: construct, Location: loc}
	}
}

func (g *Generator) internalErr(loc source.Location, format string, args ...any) {
	if g.err == nil {
		g.err = fmt.Errorf("internal error: %s: %s", loc, fmt.Sprintf(format, args...))
	}
}

func (g *Generator) write(format string, args ...any) {
	fmt.Fprintf(&g.buf, format, args...)
}

// line writes one indented line.
func (g *Generator) line(format string, args ...any) {
	for i := 0; i < g.indent; i++ {
		g.buf.WriteString(g.indentStr)
	}
	fmt.Fprintf(&g.buf, format, args...)
	g.buf.WriteByte('\n')
}

// fresh returns a generator-scoped helper name. These live alongside the
// normalizer's _hx_tmpN temps and share their reserved prefix.
func (g *Generator) fresh(kind string) string {
	g.counter++
	return fmt.Sprintf("_hx_%s%d", kind, g.counter)
}

func (g *Generator) result() (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.buf.String(), nil
}

// luaReserved is the Lua keyword set (goto included: the emitted code targets
// LuaJIT, which accepts it).
var luaReserved = map[string]bool{
	"and": true, "break": true, "do": true, "else": true, "elseif": true,
	"end": true, "false": true, "for": true, "function": true, "goto": true,
	"if": true, "in": true, "local": true, "nil": true, "not": true,
	"or": true, "repeat": true, "return": true, "then": true, "true": true,
	"until": true, "while": true,
}

// ident renders a source identifier as a legal Lua name.
func ident(name string) string {
	if luaReserved[name] {
		return name + "_"
	}
	return name
}

// pathIdent flattens a dot-separated type path into the single global the
// declaration scaffolding registers: foo.bar.Baz becomes foo_bar_Baz.
func pathIdent(path string) string {
	return ident(strings.ReplaceAll(path, ".", "_"))
}

// fieldSuffix renders a member access for name on the already-rendered
// receiver text. Names a Lua identifier cannot carry go through bracket
// syntax instead.
func fieldSuffix(name string) string {
	if luaReserved[name] || !plainIdent(name) {
		return fmt.Sprintf("[%s]", quote(name))
	}
	return "." + name
}

func plainIdent(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// quote renders a Lua string literal.
func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if c < 0x20 || c == 0x7f {
				fmt.Fprintf(&sb, `\%d`, c)
			} else {
				sb.WriteByte(c)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// containsBreak reports whether a loop body has a break belonging to this
// loop (nested loops own their breaks).
func containsBreak(n typed.Node) bool {
	switch e := n.(type) {
	case nil:
		return false
	case *typed.Break:
		return true
	case *typed.Block:
		for _, s := range e.Stmts {
			if containsBreak(s) {
				return true
			}
		}
		return false
	case *typed.If:
		return containsBreak(e.Then) || containsBreak(e.Else)
	case *typed.Switch:
		for _, arm := range e.Cases {
			if containsBreak(arm.Body) {
				return true
			}
		}
		return containsBreak(e.Default)
	case *typed.Try:
		if containsBreak(e.Body) {
			return true
		}
		for _, c := range e.Catches {
			if containsBreak(c.Body) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// containsContinue reports whether a loop body has a continue belonging to
// this loop (nested loops own their continues).
func containsContinue(n typed.Node) bool {
	switch e := n.(type) {
	case nil:
		return false
	case *typed.Continue:
		return true
	case *typed.Block:
		for _, s := range e.Stmts {
			if containsContinue(s) {
				return true
			}
		}
		return false
	case *typed.If:
		return containsContinue(e.Then) || containsContinue(e.Else)
	case *typed.Switch:
		for _, arm := range e.Cases {
			if containsContinue(arm.Body) {
				return true
			}
		}
		return containsContinue(e.Default)
	case *typed.Try:
		if containsContinue(e.Body) {
			return true
		}
		for _, c := range e.Catches {
			if containsContinue(c.Body) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
