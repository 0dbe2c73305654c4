package normalize

import (
	"github.com/neimanpinchas/haxego/internal/typed"
	"github.com/neimanpinchas/haxego/internal/types"
)

// value normalizes a node in value position. It may push prelude statements
// onto the current sequence; the returned node is then free of block-like
// constructs, assignments, increments and coalescing.
func (s *seq) value(e typed.Node) typed.Node {
	if e == nil || s.n.err != nil {
		return e
	}

	switch v := e.(type) {
	case *typed.Const, *typed.Local, *typed.TypeExpr:
		return e
	case *typed.Paren:
		return &typed.Paren{X: s.value(v.X), Type: v.Type, Location: v.Location}
	case *typed.Meta:
		return &typed.Meta{Name: v.Name, X: s.value(v.X), Location: v.Location}
	case *typed.Field:
		return s.fieldValue(v)
	case *typed.Index:
		parts := s.spill([]typed.Node{v.X, v.I})
		return &typed.Index{X: parts[0], I: parts[1], Type: v.Type, Location: v.Location}
	case *typed.ObjectLit:
		raw := make([]typed.Node, 0, len(v.Fields))
		for _, f := range v.Fields {
			raw = append(raw, f.Value)
		}
		vals := s.spill(raw)
		fields := make([]typed.ObjectField, 0, len(v.Fields))
		for i, f := range v.Fields {
			fields = append(fields, typed.ObjectField{Name: f.Name, Value: vals[i]})
		}
		return &typed.ObjectLit{Fields: fields, Type: v.Type, Location: v.Location}
	case *typed.ArrayLit:
		return &typed.ArrayLit{Elems: s.spill(v.Elems), Type: v.Type, Location: v.Location}
	case *typed.Call:
		return s.callValue(v)
	case *typed.New:
		return &typed.New{Class: v.Class, Args: s.spill(v.Args), Type: v.Type, Location: v.Location}
	case *typed.Binary:
		return s.binaryValue(v)
	case *typed.Unary:
		if v.Op.IsMutating() {
			return s.incDecValue(v)
		}
		return &typed.Unary{Op: v.Op, Postfix: v.Postfix, X: s.value(v.X), Type: v.Type, Location: v.Location}
	case *typed.Cast:
		return &typed.Cast{X: s.value(v.X), To: v.To, Location: v.Location}
	case *typed.FuncLit:
		// Function bodies are their own statement context; hoists inside
		// stay inside.
		return &typed.FuncLit{Params: v.Params, Body: s.n.branch(v.Body, nil), Type: v.Type, Location: v.Location}
	case *typed.EnumParam:
		return &typed.EnumParam{X: s.value(v.X), Ctor: v.Ctor, Index: v.Index, Type: v.Type, Location: v.Location}
	case *typed.EnumIndex:
		return &typed.EnumIndex{X: s.value(v.X), Type: v.Type, Location: v.Location}
	case *typed.Block, *typed.If, *typed.Switch, *typed.Try:
		// Block-like node used for its value: declare a temp, run the node
		// as a statement with the temp as assignee, and read the temp.
		decl, ref := s.n.temps.FreshVar(e.NodeType(), nil)
		s.push(decl)
		s.stmt(e, ref)
		return ref
	case *typed.Return, *typed.Throw, *typed.Break, *typed.Continue:
		// Divergent expression: control never reaches the surrounding use,
		// so any placeholder value will do.
		s.stmt(e, nil)
		return nullConst(v.Loc())
	default:
		s.stmt(e, nil)
		return nullConst(e.Loc())
	}
}

func (s *seq) fieldValue(f *typed.Field) typed.Node {
	out := &typed.Field{X: s.value(f.X), Name: f.Name, Kind: f.Kind, Owner: f.Owner, Native: f.Native, Type: f.Type, Location: f.Location}
	if f.Native && f.Kind != typed.FieldEnumCtor {
		if _, ok := types.Unwrap(f.Type).(*types.Function); ok {
			return s.shim(out)
		}
	}
	return out
}

// shim wraps a native member used as a first-class value in a forwarding
// function literal. The member's runtime name must stay fixed for interop, so
// the reference cannot be rebound directly; the wrapper evaluates the
// receiver once and forwards every argument.
func (s *seq) shim(f *typed.Field) typed.Node {
	fn, ok := types.Unwrap(f.Type).(*types.Function)
	if !ok {
		return f
	}

	target := &typed.Field{X: s.capture(f.X), Name: f.Name, Kind: f.Kind, Owner: f.Owner, Native: true, Type: f.Type, Location: f.Location}

	params := make([]typed.FuncParam, 0, len(fn.Params))
	args := make([]typed.Node, 0, len(fn.Params))
	for _, p := range fn.Params {
		ref := s.n.temps.Fresh(p.Type)
		params = append(params, typed.FuncParam{Name: ref.Name, ID: ref.ID, Type: p.Type, Optional: p.Optional})
		args = append(args, ref)
	}

	call := &typed.Call{Fun: target, Args: args, Type: fn.Return, Location: f.Location}
	var inner typed.Node = &typed.Return{Value: call, Location: f.Location}
	if fn.Return == nil || fn.Return.Equals(types.TypeVoid) {
		inner = call
	}

	return &typed.FuncLit{
		Params:   params,
		Body:     &typed.Block{Stmts: []typed.Node{inner}, Type: types.TypeVoid, Location: f.Location},
		Type:     f.Type,
		Location: f.Location,
	}
}

func (s *seq) callValue(c *typed.Call) typed.Node {
	// A method target is not captured whole: detaching the member from its
	// receiver would break the call. The receiver joins the argument list
	// for ordering instead.
	if f, ok := typed.Skip(c.Fun).(*typed.Field); ok {
		parts := s.spill(append([]typed.Node{f.X}, c.Args...))
		fun := &typed.Field{X: parts[0], Name: f.Name, Kind: f.Kind, Owner: f.Owner, Native: f.Native, Type: f.Type, Location: f.Location}
		return &typed.Call{Fun: fun, Args: parts[1:], Type: c.Type, Location: c.Location}
	}

	parts := s.spill(append([]typed.Node{c.Fun}, c.Args...))
	return &typed.Call{Fun: parts[0], Args: parts[1:], Type: c.Type, Location: c.Location}
}

func (s *seq) binaryValue(b *typed.Binary) typed.Node {
	switch {
	case b.Op == typed.OpCoalesce:
		return s.coalesceValue(b)
	case b.Op.IsAssign():
		// Assignment used for its value: run it as a statement, then read
		// the (hoisted, effect-free) location back.
		return s.pushAssign(b, true)
	case b.Op == typed.OpBoolAnd || b.Op == typed.OpBoolOr:
		if needsHoist(b.Y) {
			return s.shortCircuitValue(b)
		}
		// The right operand hoists nothing, so normalizing it inline keeps
		// it conditional.
		return &typed.Binary{Op: b.Op, X: s.value(b.X), Y: s.value(b.Y), Type: b.Type, Location: b.Location}
	default:
		parts := s.spill([]typed.Node{b.X, b.Y})
		return &typed.Binary{Op: b.Op, X: parts[0], Y: parts[1], Type: b.Type, Location: b.Location}
	}
}

// coalesceValue lowers a ?? b into
//
//	var t = a
//	if (t == null) t = b
//
// evaluating a once and b only when a was null.
func (s *seq) coalesceValue(b *typed.Binary) typed.Node {
	decl, ref := s.n.temps.FreshVar(b.Type, s.value(b.X))
	s.push(decl)

	isNull := &typed.Binary{Op: typed.OpEq, X: ref, Y: nullConst(b.Location), Type: types.TypeBool, Location: b.Location}
	set := &typed.Binary{Op: typed.OpAssign, X: ref, Y: b.Y, Type: types.TypeVoid, Location: b.Location}
	s.stmt(&typed.If{
		Cond:     isNull,
		Then:     &typed.Block{Stmts: []typed.Node{set}, Type: types.TypeVoid, Location: b.Location},
		Type:     types.TypeVoid,
		Location: b.Location,
	}, nil)

	return ref
}

// shortCircuitValue lowers a && b (or a || b) whose right operand needs
// hoisting into a temp plus a guarded assignment, so b's hoisted statements
// run only when a did not already decide the result.
func (s *seq) shortCircuitValue(b *typed.Binary) typed.Node {
	decl, ref := s.n.temps.FreshVar(b.Type, s.value(b.X))
	s.push(decl)

	cond := typed.Node(ref)
	if b.Op == typed.OpBoolOr {
		cond = notOf(ref)
	}
	set := &typed.Binary{Op: typed.OpAssign, X: ref, Y: b.Y, Type: types.TypeVoid, Location: b.Location}
	s.stmt(&typed.If{
		Cond:     cond,
		Then:     &typed.Block{Stmts: []typed.Node{set}, Type: types.TypeVoid, Location: b.Location},
		Type:     types.TypeVoid,
		Location: b.Location,
	}, nil)

	return ref
}

// incDecValue rewrites value-position increment/decrement into an explicit
// compound assignment. The addressed location is hoisted so that reading it
// back (prefix) or capturing it first (postfix) does not re-run its effects.
func (s *seq) incDecValue(u *typed.Unary) typed.Node {
	lv := s.lvalue(u.X, true)
	if u.Postfix {
		decl, ref := s.n.temps.FreshVar(u.X.NodeType(), lv)
		s.push(decl)
		s.push(mutation(u.Op, lv, u.Location))
		return ref
	}
	s.push(mutation(u.Op, lv, u.Location))
	return lv
}

// lvalue normalizes an assignment target. With needTwice set the location
// will be evaluated again after the write, so its object and index parts are
// captured into temps once.
func (s *seq) lvalue(e typed.Node, needTwice bool) typed.Node {
	switch lv := typed.Skip(e).(type) {
	case *typed.Local:
		return lv
	case *typed.Field:
		x := s.value(lv.X)
		if needTwice {
			x = s.capture(x)
		}
		return &typed.Field{X: x, Name: lv.Name, Kind: lv.Kind, Owner: lv.Owner, Native: lv.Native, Type: lv.Type, Location: lv.Location}
	case *typed.Index:
		x := s.value(lv.X)
		i := s.value(lv.I)
		if needTwice {
			x = s.capture(x)
			i = s.capture(i)
		}
		return &typed.Index{X: x, I: i, Type: lv.Type, Location: lv.Location}
	default:
		return s.value(e)
	}
}

// spill normalizes an ordered operand list. When any operand forces hoisted
// prelude statements, every non-trivial operand is captured into a temp in
// source order; evaluation order is then carried by the temp declarations
// instead of by the operand positions.
func (s *seq) spill(list []typed.Node) []typed.Node {
	hoisting := false
	for _, e := range list {
		if needsHoist(e) {
			hoisting = true
			break
		}
	}

	out := make([]typed.Node, len(list))
	for i, e := range list {
		v := s.value(e)
		if hoisting {
			v = s.capture(v)
		}
		out[i] = v
	}
	return out
}

// capture pins an already-normalized value into a temp unless re-evaluating
// it is trivially safe.
func (s *seq) capture(v typed.Node) typed.Node {
	if v == nil || isTrivial(v) {
		return v
	}
	decl, ref := s.n.temps.FreshVar(v.NodeType(), v)
	s.push(decl)
	return ref
}
