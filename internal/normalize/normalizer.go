// Package normalize rewrites typed trees so that no block-like construct and
// no assignment or increment expression remains in value position. The result
// has identical observable behavior, with side effects kept in their original
// left-to-right, depth-first order, but nests only constructs the target's
// statement syntax can host.
package normalize

import (
	"fmt"

	"github.com/neimanpinchas/haxego/internal/source"
	"github.com/neimanpinchas/haxego/internal/typed"
	"github.com/neimanpinchas/haxego/internal/types"
)

// Normalizer drives one normalization run. All mutable run state (the temp
// allocator) is instance-scoped, so independent runs never interfere.
type Normalizer struct {
	temps *typed.TempGen
	err   error
}

// New creates a normalizer drawing temporaries from temps.
func New(temps *typed.TempGen) *Normalizer {
	return &Normalizer{temps: temps}
}

// Run normalizes a function body or statement sequence. If assignee is
// non-nil, the sequence's final value is written to it.
func (n *Normalizer) Run(body typed.Node, assignee typed.Node) (*typed.Block, error) {
	block := n.branch(body, assignee)
	if n.err != nil {
		return nil, n.err
	}
	return block, nil
}

func (n *Normalizer) fail(loc source.Location, format string, args ...any) {
	if n.err == nil {
		n.err = fmt.Errorf("internal error: %s: %s", loc, fmt.Sprintf(format, args...))
	}
}

// branch normalizes a statement-position node into a block, threading the
// assignee to the sequence's last value-producing statement.
func (n *Normalizer) branch(node typed.Node, assignee typed.Node) *typed.Block {
	if node == nil {
		return nil
	}

	s := &seq{n: n}
	stmts := toStmtList(node)
	for i, stmt := range stmts {
		var target typed.Node
		if assignee != nil && i == len(stmts)-1 {
			target = assignee
		}
		s.stmt(stmt, target)
	}

	return &typed.Block{
		Stmts:    s.out,
		Type:     types.TypeVoid,
		Location: locOf(node),
	}
}

func toStmtList(node typed.Node) []typed.Node {
	if b, ok := node.(*typed.Block); ok {
		return b.Stmts
	}
	return []typed.Node{node}
}

func locOf(node typed.Node) source.Location {
	if node == nil {
		return source.Location{}
	}
	return node.Loc()
}

// seq accumulates the normalized statements of one block. Hoists append
// prelude statements before the statement that consumes their value, which
// keeps effect order identical to the source without index bookkeeping.
type seq struct {
	n   *Normalizer
	out []typed.Node
}

func (s *seq) push(stmt typed.Node) {
	s.out = append(s.out, stmt)
}

// stmt normalizes one statement-position node. If assignee is non-nil this is
// the last statement of a value-producing sequence and its value must land in
// the assignee.
func (s *seq) stmt(node typed.Node, assignee typed.Node) {
	if node == nil || s.n.err != nil {
		return
	}

	switch e := node.(type) {
	case *typed.Block:
		s.push(s.n.branch(e, assignee))
	case *typed.If:
		// Absent branches stay absent: a typed-nil block stored in the
		// interface field would read as a present else downstream.
		out := &typed.If{
			Cond:     s.value(e.Cond),
			Type:     types.TypeVoid,
			Location: e.Location,
		}
		if e.Then != nil {
			out.Then = s.n.branch(e.Then, assignee)
		}
		if e.Else != nil {
			out.Else = s.n.branch(e.Else, assignee)
		}
		s.push(out)
	case *typed.Switch:
		s.pushSwitch(e, assignee)
	case *typed.Try:
		catches := make([]typed.Catch, 0, len(e.Catches))
		for _, c := range e.Catches {
			catches = append(catches, typed.Catch{
				VarName: c.VarName,
				VarID:   c.VarID,
				VarType: c.VarType,
				Body:    s.n.branch(c.Body, assignee),
			})
		}
		s.push(&typed.Try{
			Body:     s.n.branch(e.Body, assignee),
			Catches:  catches,
			Type:     types.TypeVoid,
			Location: e.Location,
		})
	case *typed.While:
		s.pushWhile(e)
	case *typed.For:
		iter := s.value(e.Iter)
		s.push(&typed.For{
			VarName:  e.VarName,
			VarID:    e.VarID,
			VarType:  e.VarType,
			Iter:     iter,
			Body:     s.n.branch(e.Body, nil),
			Location: e.Location,
		})
	case *typed.VarDecl:
		s.push(&typed.VarDecl{
			Name:     e.Name,
			ID:       e.ID,
			Init:     s.value(e.Init),
			Type:     e.Type,
			Location: e.Location,
		})
	case *typed.Return:
		s.push(&typed.Return{Value: s.value(e.Value), Location: e.Location})
	case *typed.Throw:
		s.push(&typed.Throw{Value: s.value(e.Value), Location: e.Location})
	case *typed.Break, *typed.Continue:
		s.push(e)
	case *typed.Binary:
		if e.Op.IsAssign() {
			lv := s.pushAssign(e, assignee != nil)
			if assignee != nil {
				s.push(assign(assignee, lv, e.Location))
			}
			return
		}
		s.pushExpr(e, assignee)
	case *typed.Unary:
		if e.Op.IsMutating() {
			// Statement-position increment/decrement needs no value capture.
			lv := s.lvalue(e.X, false)
			s.push(mutation(e.Op, lv, e.Location))
			return
		}
		s.pushExpr(e, assignee)
	case *typed.Meta:
		s.stmt(e.X, assignee)
	default:
		s.pushExpr(e, assignee)
	}
}

// pushExpr normalizes an expression statement, rewriting it into an
// assignment when it is the value-producing tail of the sequence.
func (s *seq) pushExpr(e typed.Node, assignee typed.Node) {
	v := s.value(e)
	if v == nil {
		return
	}
	if assignee != nil {
		s.push(assign(assignee, v, locOf(e)))
		return
	}
	s.push(v)
}

func (s *seq) pushSwitch(e *typed.Switch, assignee typed.Node) {
	subject := s.value(e.Subject)
	// The emitted comparison chain references the subject once per case
	// value, so anything that is not trivially re-evaluable is hoisted.
	if !isTrivial(subject) {
		decl, ref := s.n.temps.FreshVar(subject.NodeType(), subject)
		s.push(decl)
		subject = ref
	}

	cases := make([]typed.Case, 0, len(e.Cases))
	for _, arm := range e.Cases {
		values := make([]typed.Node, 0, len(arm.Values))
		for _, v := range arm.Values {
			values = append(values, s.value(v))
		}
		cases = append(cases, typed.Case{
			Values: values,
			Body:   s.n.branch(arm.Body, assignee),
		})
	}

	var def typed.Node
	if e.Default != nil {
		def = s.n.branch(e.Default, assignee)
	}

	s.push(&typed.Switch{
		Subject:  subject,
		Cases:    cases,
		Default:  def,
		Type:     types.TypeVoid,
		Location: e.Location,
	})
}

// pushWhile rewrites loops whose condition the target's loop header cannot
// host into while(true) with a leading (or trailing, for test-after loops)
// negated-break guard, then normalizes the result. The guard lives in the
// body so the condition is re-evaluated every iteration.
func (s *seq) pushWhile(e *typed.While) {
	if needsHoist(e.Cond) {
		guard := &typed.If{
			Cond:     notOf(e.Cond),
			Then:     &typed.Block{Stmts: []typed.Node{&typed.Break{Location: e.Location}}, Location: e.Location},
			Type:     types.TypeVoid,
			Location: e.Location,
		}

		var stmts []typed.Node
		if e.TestFirst {
			stmts = append([]typed.Node{guard}, toStmtList(e.Body)...)
		} else {
			stmts = append(toStmtList(e.Body), guard)
		}

		rewritten := &typed.While{
			Cond:      trueConst(e.Location),
			Body:      &typed.Block{Stmts: stmts, Location: e.Location},
			TestFirst: true,
			TailGuard: !e.TestFirst,
			Location:  e.Location,
		}
		s.pushWhile(rewritten)
		return
	}

	before := len(s.out)
	cond := s.value(e.Cond)
	if len(s.out) != before {
		// A hoist out of a loop condition would evaluate it once instead of
		// once per iteration.
		s.n.fail(e.Location, "loop condition hoisted despite preprocessing")
		return
	}

	s.push(&typed.While{
		Cond:      cond,
		Body:      s.n.branch(e.Body, nil),
		TestFirst: e.TestFirst,
		TailGuard: e.TailGuard,
		Location:  e.Location,
	})
}

// pushAssign normalizes an assignment, emitting it as a statement and
// returning the normalized target. With needValue set the target will be read
// back after the write, so its non-trivial parts are hoisted once; compound
// assignments always hoist because the emitted form reads the target itself.
func (s *seq) pushAssign(e *typed.Binary, needValue bool) typed.Node {
	lv := s.lvalue(e.X, e.Op.IsCompound() || needValue)
	rhs := s.value(e.Y)
	s.push(&typed.Binary{Op: e.Op, X: lv, Y: rhs, Type: e.Type, Location: e.Location})
	return lv
}
