package types

import "strings"

// Type is the semantic representation of the front end's resolved types.
//
// Design principles:
// - Types are immutable after creation
// - Equality is structural (deep comparison)
// - Nullable() is the single source of truth for the nullability checker
type Type interface {
	// String returns a human-readable representation of the type
	String() string

	// Equals checks structural equality with another type
	Equals(other Type) bool

	// Nullable reports whether the null constant inhabits this type
	Nullable() bool

	// isType is a marker method to prevent external implementation
	isType()
}

// BasicKind identifies a built-in scalar type.
type BasicKind int

const (
	Unknown BasicKind = iota
	Void
	Bool
	Int
	Float
	String
	Dynamic
)

// Basic represents a built-in scalar type (Int, Float, Bool, String, ...).
type Basic struct {
	Kind BasicKind
}

func NewBasic(kind BasicKind) *Basic { return &Basic{Kind: kind} }

func (b *Basic) String() string {
	switch b.Kind {
	case Void:
		return "Void"
	case Bool:
		return "Bool"
	case Int:
		return "Int"
	case Float:
		return "Float"
	case String:
		return "String"
	case Dynamic:
		return "Dynamic"
	default:
		return "Unknown"
	}
}

func (b *Basic) Equals(other Type) bool {
	o, ok := other.(*Basic)
	return ok && b.Kind == o.Kind
}

// Value scalars never hold null; String is a reference type on this target
// and Dynamic can hold anything.
func (b *Basic) Nullable() bool {
	switch b.Kind {
	case Bool, Int, Float, Void:
		return false
	default:
		return true
	}
}

func (b *Basic) isType() {}

// Null wraps an inner type and makes the null constant a legal inhabitant.
type Null struct {
	Inner Type
}

func NewNull(inner Type) *Null { return &Null{Inner: inner} }

func (n *Null) String() string { return "Null<" + n.Inner.String() + ">" }

func (n *Null) Equals(other Type) bool {
	o, ok := other.(*Null)
	return ok && n.Inner.Equals(o.Inner)
}

func (n *Null) Nullable() bool { return true }
func (n *Null) isType()        {}

// DeclKind identifies what sort of declaration a named type refers to.
type DeclKind int

const (
	DeclClass DeclKind = iota
	DeclEnum
	DeclTypedef
	DeclAbstract
)

// Named is a resolved reference to a declared type. Path is the full
// dot-separated package path including the type name, as resolved by the
// front end; the emitter uses it verbatim.
type Named struct {
	Path string
	Kind DeclKind
}

func NewNamed(path string, kind DeclKind) *Named {
	return &Named{Path: path, Kind: kind}
}

// Name returns the bare type name without its package prefix.
func (n *Named) Name() string {
	if i := strings.LastIndexByte(n.Path, '.'); i >= 0 {
		return n.Path[i+1:]
	}
	return n.Path
}

func (n *Named) String() string { return n.Path }

func (n *Named) Equals(other Type) bool {
	o, ok := other.(*Named)
	return ok && n.Path == o.Path && n.Kind == o.Kind
}

// Class and enum instances are reference values on this target.
func (n *Named) Nullable() bool { return true }
func (n *Named) isType()        {}

// Param is one parameter of a function type.
type Param struct {
	Name     string
	Type     Type
	Optional bool
}

// Function represents a function type.
type Function struct {
	Params []Param
	Return Type
}

func NewFunction(params []Param, ret Type) *Function {
	return &Function{Params: params, Return: ret}
}

func (f *Function) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, p := range f.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Type.String())
	}
	sb.WriteString(") -> ")
	sb.WriteString(f.Return.String())
	return sb.String()
}

func (f *Function) Equals(other Type) bool {
	o, ok := other.(*Function)
	if !ok || len(f.Params) != len(o.Params) {
		return false
	}
	for i := range f.Params {
		if !f.Params[i].Type.Equals(o.Params[i].Type) {
			return false
		}
	}
	return f.Return.Equals(o.Return)
}

func (f *Function) Nullable() bool { return true }
func (f *Function) isType()        {}

// Array represents an ordered container type.
type Array struct {
	Element Type
}

func NewArray(elem Type) *Array { return &Array{Element: elem} }

func (a *Array) String() string { return "Array<" + a.Element.String() + ">" }

func (a *Array) Equals(other Type) bool {
	o, ok := other.(*Array)
	return ok && a.Element.Equals(o.Element)
}

func (a *Array) Nullable() bool { return true }
func (a *Array) isType()        {}

// Anon represents an anonymous structural type (object literals).
type Anon struct {
	Fields []Param
}

func NewAnon(fields []Param) *Anon { return &Anon{Fields: fields} }

func (a *Anon) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, f := range a.Fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.Name)
		sb.WriteString(": ")
		sb.WriteString(f.Type.String())
	}
	sb.WriteByte('}')
	return sb.String()
}

func (a *Anon) Equals(other Type) bool {
	o, ok := other.(*Anon)
	if !ok || len(a.Fields) != len(o.Fields) {
		return false
	}
	for i := range a.Fields {
		if a.Fields[i].Name != o.Fields[i].Name || !a.Fields[i].Type.Equals(o.Fields[i].Type) {
			return false
		}
	}
	return true
}

func (a *Anon) Nullable() bool { return true }
func (a *Anon) isType()        {}

// Shared singletons for the common scalars.
var (
	TypeUnknown = NewBasic(Unknown)
	TypeVoid    = NewBasic(Void)
	TypeBool    = NewBasic(Bool)
	TypeInt     = NewBasic(Int)
	TypeFloat   = NewBasic(Float)
	TypeString  = NewBasic(String)
	TypeDynamic = NewBasic(Dynamic)
)

// Unwrap strips Null wrappers, yielding the underlying value type.
func Unwrap(t Type) Type {
	for {
		n, ok := t.(*Null)
		if !ok {
			return t
		}
		t = n.Inner
	}
}

// IsString reports whether t is statically the String scalar.
func IsString(t Type) bool {
	b, ok := Unwrap(t).(*Basic)
	return ok && b.Kind == String
}
