// Package backend drives the lowering pipeline: null folding and validation,
// normalization, Lua rendering, and the per-declaration hook chain.
package backend

import (
	"errors"
	"fmt"
	"strings"

	"github.com/neimanpinchas/haxego/internal/diagnostics"
	"github.com/neimanpinchas/haxego/internal/hooks"
	"github.com/neimanpinchas/haxego/internal/luagen"
	"github.com/neimanpinchas/haxego/internal/normalize"
	"github.com/neimanpinchas/haxego/internal/nullcheck"
	"github.com/neimanpinchas/haxego/internal/typed"
	"github.com/neimanpinchas/haxego/internal/types"
)

// Backend compiles typed declarations to Lua source text. All mutable state
// lives in the diagnostic bag; a Backend may compile declarations from
// multiple goroutines.
type Backend struct {
	bag   *diagnostics.DiagnosticBag
	chain *hooks.Chain
}

// New creates a backend reporting into bag. chain may be nil when no hooks
// are registered.
func New(bag *diagnostics.DiagnosticBag, chain *hooks.Chain) *Backend {
	if chain == nil {
		chain = hooks.NewChain()
	}
	return &Backend{bag: bag, chain: chain}
}

// Bag returns the backend's diagnostic bag.
func (b *Backend) Bag() *diagnostics.DiagnosticBag { return b.bag }

// Prelude returns the Lua runtime support generated programs assume. Callers
// prepend it once per output file.
func Prelude() string { return luagen.Prelude }

// Hooks returns the backend's hook chain for registration.
func (b *Backend) Hooks() *hooks.Chain { return b.chain }

// Compile renders every declaration in order. A declaration that fails is
// reported and skipped; its siblings still compile. The boolean reports
// whether the output is usable (no errors, including nullability findings).
func (b *Backend) Compile(decls []typed.Decl) (string, bool) {
	var out strings.Builder
	for _, d := range decls {
		text, err := b.Declaration(d)
		if err != nil {
			b.reportFailure(d, err)
			continue
		}
		if text == "" {
			continue
		}
		out.WriteString(text)
		if !strings.HasSuffix(text, "\n") {
			out.WriteByte('\n')
		}
	}
	return out.String(), !b.bag.HasErrors()
}

// Declaration compiles a single declaration.
func (b *Backend) Declaration(d typed.Decl) (string, error) {
	switch decl := d.(type) {
	case *typed.Class:
		return b.class(decl)
	case *typed.Enum:
		text, err := luagen.New().Enum(decl)
		if err != nil {
			return "", err
		}
		return b.chain.Run(hooks.KindEnum, b, d, text)
	case *typed.Typedef:
		text, err := luagen.New().Typedef(decl)
		if err != nil {
			return "", err
		}
		return b.chain.Run(hooks.KindTypedef, b, d, text)
	case *typed.Abstract:
		text, err := luagen.New().Abstract(decl)
		if err != nil {
			return "", err
		}
		return b.chain.Run(hooks.KindAbstract, b, d, text)
	default:
		return "", fmt.Errorf("unknown declaration %T", d)
	}
}

// CompileExpression compiles a standalone expression into a statement
// sequence, for REPL-style embedding.
func (b *Backend) CompileExpression(n typed.Node) (string, error) {
	checker := nullcheck.NewChecker(b.bag)
	folded := nullcheck.Fold(n)
	checker.CheckExpr(folded)

	block, err := normalize.New(typed.NewTempGen()).Run(folded, nil)
	if err != nil {
		return "", err
	}
	text, err := luagen.New().Statements(block)
	if err != nil {
		return "", err
	}
	return b.chain.Run(hooks.KindExpression, b, nil, text)
}

// Expression renders a typed expression as Lua value text. Part of the
// hooks.Backend surface; an expression whose normalization needs prelude
// statements cannot be spliced and is rejected.
func (b *Backend) Expression(n typed.Node) (string, error) {
	folded := nullcheck.Fold(n)
	block, err := normalize.New(typed.NewTempGen()).Run(folded, nil)
	if err != nil {
		return "", err
	}
	if len(block.Stmts) != 1 {
		return "", fmt.Errorf("expression needs %d supporting statements and cannot be spliced", len(block.Stmts)-1)
	}
	return luagen.New().Expression(block.Stmts[0])
}

func (b *Backend) class(c *typed.Class) (string, error) {
	checker := nullcheck.NewChecker(b.bag)
	owner := types.NewNamed(c.Path(), types.DeclClass)

	prepared := *c

	if c.Constructor != nil {
		ctor, err := b.prepareMethod(checker, *c.Constructor)
		if err != nil {
			return "", err
		}
		prepared.Constructor = &ctor
	}

	prepared.Methods = make([]typed.Method, len(c.Methods))
	for i, m := range c.Methods {
		pm, err := b.prepareMethod(checker, m)
		if err != nil {
			return "", err
		}
		prepared.Methods[i] = pm
	}

	prepared.Fields = make([]typed.ClassField, len(c.Fields))
	for i, f := range c.Fields {
		pf, err := b.prepareField(checker, owner, f)
		if err != nil {
			return "", err
		}
		prepared.Fields[i] = pf
	}

	text, err := luagen.New().Class(&prepared)
	if err != nil {
		return "", err
	}
	return b.chain.Run(hooks.KindClass, b, c, text)
}

func (b *Backend) prepareMethod(checker *nullcheck.Checker, m typed.Method) (typed.Method, error) {
	if m.Body == nil {
		return m, nil
	}

	folded, ok := nullcheck.Fold(m.Body).(*typed.Block)
	if !ok {
		return m, fmt.Errorf("method %s: folding changed the body shape", m.Name)
	}
	checker.Check(folded, m.Return)

	body, err := normalize.New(typed.NewTempGen()).Run(folded, nil)
	if err != nil {
		return m, err
	}
	m.Body = body
	return m, nil
}

// prepareField folds, validates, and normalizes a field initializer. An
// initializer that hoists statements becomes a block with the assignment to
// the field threaded in; a plain one stays an expression.
func (b *Backend) prepareField(checker *nullcheck.Checker, owner *types.Named, f typed.ClassField) (typed.ClassField, error) {
	if f.Init == nil {
		return f, nil
	}

	folded := nullcheck.Fold(f.Init)
	if typed.IsNullConst(folded) && f.Type != nil && !f.Type.Nullable() {
		b.bag.Add(diagnostics.NewError(
			fmt.Sprintf("cannot initialize '%s' of non-nullable type %s with null", f.Name, f.Type)).
			WithCode(diagnostics.ErrNullToNonNullable).
			WithLocation(folded.Loc()))
	}
	checker.CheckExpr(folded)

	target := b.fieldTarget(owner, f)
	block, err := normalize.New(typed.NewTempGen()).Run(&typed.Block{Stmts: []typed.Node{folded}}, target)
	if err != nil {
		return f, err
	}

	// The common case normalizes to a single assignment; unwrap it so the
	// renderer can emit a plain initializer.
	if len(block.Stmts) == 1 {
		if set, ok := block.Stmts[0].(*typed.Binary); ok && set.Op == typed.OpAssign {
			if dst, ok := set.X.(*typed.Field); ok && dst.Name == f.Name {
				f.Init = set.Y
				return f, nil
			}
		}
	}
	f.Init = block
	return f, nil
}

func (b *Backend) fieldTarget(owner *types.Named, f typed.ClassField) *typed.Field {
	target := &typed.Field{
		Name:   f.Name,
		Kind:   typed.FieldStatic,
		Owner:  owner,
		Native: f.Native,
		Type:   f.Type,
	}
	if !f.Static {
		target.Kind = typed.FieldInstance
		target.X = &typed.Const{Kind: typed.ConstThis, Type: owner}
	}
	return target
}

func (b *Backend) reportFailure(d typed.Decl, err error) {
	var unsupported *luagen.UnsupportedError
	if errors.As(err, &unsupported) {
		b.bag.Add(diagnostics.NewError(
			fmt.Sprintf("%s: cannot generate lua for %s", d.Path(), unsupported.Construct)).
			WithCode(diagnostics.ErrUnsupportedConstruct).
			WithLocation(unsupported.Location).
			WithHelp("rewrite the construct or move it behind a __lua__ escape"))
		return
	}
	b.bag.Add(diagnostics.NewError(
		fmt.Sprintf("%s: %v", d.Path(), err)).
		WithCode(diagnostics.ErrInternalInvariant).
		WithLocation(d.Loc()))
}
