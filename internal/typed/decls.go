package typed

import (
	"github.com/neimanpinchas/haxego/internal/source"
	"github.com/neimanpinchas/haxego/internal/types"
)

// Decl is a resolved top-level declaration handed over by the front end.
// Declarations are read-only input: the backend renders them and never
// mutates or registers them.
type Decl interface {
	typedDecl()
	DeclName() string
	Path() string
	Loc() source.Location
}

// ClassField is one field of a class. Init may be nil; Native marks fields
// whose emitted name must stay stable for interop.
type ClassField struct {
	Name   string
	Type   types.Type
	Static bool
	Native bool
	Init   Node
}

// Method is one method of a class. Body is nil for extern methods.
type Method struct {
	Name   string
	Params []FuncParam
	Return types.Type
	Static bool
	Native bool
	Body   *Block
}

// Class is a resolved class declaration.
type Class struct {
	Pack        string // dot-separated package path, "" for the root package
	Name        string
	Super       *types.Named
	Interfaces  []*types.Named
	Constructor *Method // nil when the class has no constructor
	Fields      []ClassField
	Methods     []Method
	Location    source.Location
}

func (c *Class) typedDecl()           {}
func (c *Class) DeclName() string     { return c.Name }
func (c *Class) Path() string         { return joinPath(c.Pack, c.Name) }
func (c *Class) Loc() source.Location { return c.Location }

// EnumCtor is one named constructor of an enum, in declaration order.
type EnumCtor struct {
	Name   string
	Params []types.Param // empty for a parameterless constructor
}

// Enum is a resolved enum declaration. Constructor order is significant: a
// constructor's position is its runtime index.
type Enum struct {
	Pack     string
	Name     string
	Ctors    []EnumCtor
	Location source.Location
}

func (e *Enum) typedDecl()           {}
func (e *Enum) DeclName() string     { return e.Name }
func (e *Enum) Path() string         { return joinPath(e.Pack, e.Name) }
func (e *Enum) Loc() source.Location { return e.Location }

// Typedef is a resolved type alias declaration.
type Typedef struct {
	Pack       string
	Name       string
	Underlying types.Type
	Location   source.Location
}

func (t *Typedef) typedDecl()           {}
func (t *Typedef) DeclName() string     { return t.Name }
func (t *Typedef) Path() string         { return joinPath(t.Pack, t.Name) }
func (t *Typedef) Loc() source.Location { return t.Location }

// Abstract is a resolved abstract type declaration.
type Abstract struct {
	Pack       string
	Name       string
	Underlying types.Type
	Location   source.Location
}

func (a *Abstract) typedDecl()           {}
func (a *Abstract) DeclName() string     { return a.Name }
func (a *Abstract) Path() string         { return joinPath(a.Pack, a.Name) }
func (a *Abstract) Loc() source.Location { return a.Location }

func joinPath(pack, name string) string {
	if pack == "" {
		return name
	}
	return pack + "." + name
}
