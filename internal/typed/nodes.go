package typed

import (
	"github.com/neimanpinchas/haxego/internal/source"
	"github.com/neimanpinchas/haxego/internal/types"
)

// Node is the base interface for all typed tree nodes handed over by the
// front end. The tag set is closed: every backend pass dispatches over it
// exhaustively, so a new tag shows up as a visible gap in each pass rather
// than falling into a silent default.
//
// Trees are read-only input. Passes that transform them build new nodes and
// never mutate shared ones.
type Node interface {
	typedNode()
	NodeType() types.Type
	Loc() source.Location
}

// ConstKind identifies the kind of a constant node.
type ConstKind int

const (
	ConstInt ConstKind = iota
	ConstFloat
	ConstString
	ConstBool
	ConstNull
	ConstThis
	ConstSuper
)

// Const represents a literal constant, the receiver reference, or the
// superclass reference inside a constructor.
type Const struct {
	Kind     ConstKind
	Value    string
	Type     types.Type
	Location source.Location
}

func (c *Const) typedNode()           {}
func (c *Const) NodeType() types.Type { return c.Type }
func (c *Const) Loc() source.Location { return c.Location }

// Local represents a reference to a local variable. ID comes from the front
// end's identifier allocator; normalizer temporaries use a disjoint reserved
// id namespace (see TempGen).
type Local struct {
	Name     string
	ID       int
	Type     types.Type
	Location source.Location
}

func (l *Local) typedNode()           {}
func (l *Local) NodeType() types.Type { return l.Type }
func (l *Local) Loc() source.Location { return l.Location }

// FieldKind is the resolved access kind of a member access.
type FieldKind int

const (
	FieldInstance FieldKind = iota // receiver-qualified field or method
	FieldStatic                    // qualified by the owning type's path
	FieldAnon                      // anonymous structural access
	FieldDynamic                   // resolved by name at runtime
	FieldClosure                   // method value detached from its receiver
	FieldEnumCtor                  // enum constructor projection
)

func (k FieldKind) String() string {
	switch k {
	case FieldInstance:
		return "instance"
	case FieldStatic:
		return "static"
	case FieldAnon:
		return "anon"
	case FieldDynamic:
		return "dynamic"
	case FieldClosure:
		return "closure"
	case FieldEnumCtor:
		return "enum-ctor"
	default:
		return "unknown"
	}
}

// Field represents a member access. For static and enum-constructor accesses
// Owner carries the owning type's resolved path and X may be nil. Native
// marks members whose emitted name must stay stable for interop; the
// normalizer shims such members when they are used as first-class values.
type Field struct {
	X        Node
	Name     string
	Kind     FieldKind
	Owner    *types.Named
	Native   bool
	Type     types.Type
	Location source.Location
}

func (f *Field) typedNode()           {}
func (f *Field) NodeType() types.Type { return f.Type }
func (f *Field) Loc() source.Location { return f.Location }

// Index represents an index operation (arr[i]).
type Index struct {
	X        Node
	I        Node
	Type     types.Type
	Location source.Location
}

func (i *Index) typedNode()           {}
func (i *Index) NodeType() types.Type { return i.Type }
func (i *Index) Loc() source.Location { return i.Location }

// Paren represents a parenthesized expression.
type Paren struct {
	X        Node
	Type     types.Type
	Location source.Location
}

func (p *Paren) typedNode()           {}
func (p *Paren) NodeType() types.Type { return p.Type }
func (p *Paren) Loc() source.Location { return p.Location }

// ObjectField is one entry of an object literal. Order is preserved.
type ObjectField struct {
	Name  string
	Value Node
}

// ObjectLit represents an anonymous object literal.
type ObjectLit struct {
	Fields   []ObjectField
	Type     types.Type
	Location source.Location
}

func (o *ObjectLit) typedNode()           {}
func (o *ObjectLit) NodeType() types.Type { return o.Type }
func (o *ObjectLit) Loc() source.Location { return o.Location }

// ArrayLit represents an array literal.
type ArrayLit struct {
	Elems    []Node
	Type     types.Type
	Location source.Location
}

func (a *ArrayLit) typedNode()           {}
func (a *ArrayLit) NodeType() types.Type { return a.Type }
func (a *ArrayLit) Loc() source.Location { return a.Location }

// TypeExpr represents a type reference used as a value.
type TypeExpr struct {
	Ref      *types.Named
	Type     types.Type
	Location source.Location
}

func (t *TypeExpr) typedNode()           {}
func (t *TypeExpr) NodeType() types.Type { return t.Type }
func (t *TypeExpr) Loc() source.Location { return t.Location }

// Call represents a function or method call.
type Call struct {
	Fun      Node
	Args     []Node
	Type     types.Type
	Location source.Location
}

func (c *Call) typedNode()           {}
func (c *Call) NodeType() types.Type { return c.Type }
func (c *Call) Loc() source.Location { return c.Location }

// New represents a constructor call.
type New struct {
	Class    *types.Named
	Args     []Node
	Type     types.Type
	Location source.Location
}

func (n *New) typedNode()           {}
func (n *New) NodeType() types.Type { return n.Type }
func (n *New) Loc() source.Location { return n.Location }

// Binary represents a binary operation, including plain and compound
// assignment (see BinOp).
type Binary struct {
	Op       BinOp
	X        Node
	Y        Node
	Type     types.Type
	Location source.Location
}

func (b *Binary) typedNode()           {}
func (b *Binary) NodeType() types.Type { return b.Type }
func (b *Binary) Loc() source.Location { return b.Location }

// Unary represents a prefix or postfix unary operation.
type Unary struct {
	Op       UnOp
	Postfix  bool
	X        Node
	Type     types.Type
	Location source.Location
}

func (u *Unary) typedNode()           {}
func (u *Unary) NodeType() types.Type { return u.Type }
func (u *Unary) Loc() source.Location { return u.Location }

// FuncParam is one declared parameter of a function literal or method.
type FuncParam struct {
	Name     string
	ID       int
	Type     types.Type
	Optional bool
}

// FuncLit represents a function literal.
type FuncLit struct {
	Params   []FuncParam
	Body     *Block
	Type     types.Type
	Location source.Location
}

func (f *FuncLit) typedNode()           {}
func (f *FuncLit) NodeType() types.Type { return f.Type }
func (f *FuncLit) Loc() source.Location { return f.Location }

// VarDecl represents a local variable declaration statement.
type VarDecl struct {
	Name     string
	ID       int
	Init     Node // nil for a bare declaration
	Type     types.Type
	Location source.Location
}

func (v *VarDecl) typedNode()           {}
func (v *VarDecl) NodeType() types.Type { return types.TypeVoid }
func (v *VarDecl) Loc() source.Location { return v.Location }

// Block represents an ordered statement sequence. In the source language a
// block is itself an expression whose value is its last statement's value.
type Block struct {
	Stmts    []Node
	Type     types.Type
	Location source.Location
}

func (b *Block) typedNode()           {}
func (b *Block) NodeType() types.Type { return b.Type }
func (b *Block) Loc() source.Location { return b.Location }

// For represents an iterator loop: for (v in iter) body.
type For struct {
	VarName  string
	VarID    int
	VarType  types.Type
	Iter     Node
	Body     Node
	Location source.Location
}

func (f *For) typedNode()           {}
func (f *For) NodeType() types.Type { return types.TypeVoid }
func (f *For) Loc() source.Location { return f.Location }

// If represents a conditional. Else may be nil. In value position the
// normalizer hoists the whole node and threads an assignee into the branch
// bodies.
type If struct {
	Cond     Node
	Then     Node
	Else     Node
	Type     types.Type
	Location source.Location
}

func (i *If) typedNode()           {}
func (i *If) NodeType() types.Type { return i.Type }
func (i *If) Loc() source.Location { return i.Location }

// While represents a loop. TestFirst distinguishes while(c) body from
// do body while(c). TailGuard marks a rewritten loop whose last body
// statement re-tests the original condition; a continue must still reach
// that guard.
type While struct {
	Cond      Node
	Body      Node
	TestFirst bool
	TailGuard bool
	Location  source.Location
}

func (w *While) typedNode()           {}
func (w *While) NodeType() types.Type { return types.TypeVoid }
func (w *While) Loc() source.Location { return w.Location }

// Case is one arm of a switch: several alternative match values sharing a
// body. The first matching arm (left to right) wins.
type Case struct {
	Values []Node
	Body   Node
}

// Switch represents a switch over equality of the subject against the case
// values, with an optional default.
type Switch struct {
	Subject  Node
	Cases    []Case
	Default  Node // nil when absent
	Type     types.Type
	Location source.Location
}

func (s *Switch) typedNode()           {}
func (s *Switch) NodeType() types.Type { return s.Type }
func (s *Switch) Loc() source.Location { return s.Location }

// Return represents a return statement. Value may be nil.
type Return struct {
	Value    Node
	Location source.Location
}

func (r *Return) typedNode()           {}
func (r *Return) NodeType() types.Type { return types.TypeVoid }
func (r *Return) Loc() source.Location { return r.Location }

// Break represents a break statement.
type Break struct {
	Location source.Location
}

func (b *Break) typedNode()           {}
func (b *Break) NodeType() types.Type { return types.TypeVoid }
func (b *Break) Loc() source.Location { return b.Location }

// Continue represents a continue statement.
type Continue struct {
	Location source.Location
}

func (c *Continue) typedNode()           {}
func (c *Continue) NodeType() types.Type { return types.TypeVoid }
func (c *Continue) Loc() source.Location { return c.Location }

// Throw represents a throw statement.
type Throw struct {
	Value    Node
	Location source.Location
}

func (t *Throw) typedNode()           {}
func (t *Throw) NodeType() types.Type { return types.TypeVoid }
func (t *Throw) Loc() source.Location { return t.Location }

// Cast represents an explicit cast. Static casts carry no runtime behavior
// on this target; the emitter renders the operand.
type Cast struct {
	X        Node
	To       types.Type
	Location source.Location
}

func (c *Cast) typedNode()           {}
func (c *Cast) NodeType() types.Type { return c.To }
func (c *Cast) Loc() source.Location { return c.Location }

// Meta wraps a node with front-end metadata. The backend renders the inner
// node and ignores the annotation.
type Meta struct {
	Name     string
	X        Node
	Location source.Location
}

func (m *Meta) typedNode()           {}
func (m *Meta) NodeType() types.Type { return m.X.NodeType() }
func (m *Meta) Loc() source.Location { return m.Location }

// Catch is one catch clause: the bound error variable and the handler body.
// The last clause of a Try is conventionally the catch-all.
type Catch struct {
	VarName string
	VarID   int
	VarType types.Type
	Body    Node
}

// Try represents a try with an ordered catch list.
type Try struct {
	Body     Node
	Catches  []Catch
	Type     types.Type
	Location source.Location
}

func (t *Try) typedNode()           {}
func (t *Try) NodeType() types.Type { return t.Type }
func (t *Try) Loc() source.Location { return t.Location }

// EnumParam projects the i-th constructor argument out of an enum value.
type EnumParam struct {
	X        Node
	Ctor     string
	Index    int
	Type     types.Type
	Location source.Location
}

func (e *EnumParam) typedNode()           {}
func (e *EnumParam) NodeType() types.Type { return e.Type }
func (e *EnumParam) Loc() source.Location { return e.Location }

// EnumIndex projects the constructor index out of an enum value.
type EnumIndex struct {
	X        Node
	Type     types.Type
	Location source.Location
}

func (e *EnumIndex) typedNode()           {}
func (e *EnumIndex) NodeType() types.Type { return e.Type }
func (e *EnumIndex) Loc() source.Location { return e.Location }
