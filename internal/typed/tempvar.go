package typed

import (
	"fmt"

	"github.com/neimanpinchas/haxego/internal/types"
)

// TempIDBase is the first identifier id of the reserved temporary namespace.
// The front end's own allocator hands out ids well below this constant, so a
// temporary can never collide with a user-visible identifier by construction
// rather than by naming convention.
const TempIDBase = 1 << 30

// TempGen allocates fresh temporary identifiers for one normalization run.
// It is instance-scoped: every run creates its own generator, so concurrent
// per-declaration runs stay independent.
type TempGen struct {
	next int
}

// NewTempGen creates a generator whose ids start at TempIDBase.
func NewTempGen() *TempGen {
	return &TempGen{next: TempIDBase}
}

// Fresh allocates a new temporary and returns a local reference to it typed
// as t. The caller owns declaring it (see FreshVar).
func (g *TempGen) Fresh(t types.Type) *Local {
	id := g.next
	g.next++
	return &Local{
		Name: tempName(id),
		ID:   id,
		Type: t,
	}
}

// FreshVar allocates a new temporary and returns both its declaration
// statement (with the given initializer, which may be nil) and a reference
// to it.
func (g *TempGen) FreshVar(t types.Type, init Node) (*VarDecl, *Local) {
	ref := g.Fresh(t)
	decl := &VarDecl{
		Name: ref.Name,
		ID:   ref.ID,
		Init: init,
		Type: t,
	}
	return decl, ref
}

// Count returns how many temporaries have been allocated so far.
func (g *TempGen) Count() int {
	return g.next - TempIDBase
}

func tempName(id int) string {
	return fmt.Sprintf("_hx_tmp%d", id-TempIDBase+1)
}
