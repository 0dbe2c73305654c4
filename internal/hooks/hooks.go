// Package hooks lets embedders rewrite generated source text per declaration
// before it is committed to the output. Hooks run after rendering, so they
// see final Lua text and can wrap, annotate, or replace it.
package hooks

import (
	"fmt"
	"sync"

	"github.com/neimanpinchas/haxego/internal/typed"
)

// Kind selects which declaration form a hook applies to.
type Kind int

const (
	KindClass Kind = iota
	KindEnum
	KindTypedef
	KindAbstract
	KindExpression
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindEnum:
		return "enum"
	case KindTypedef:
		return "typedef"
	case KindAbstract:
		return "abstract"
	case KindExpression:
		return "expression"
	default:
		return "unknown"
	}
}

// Backend is the surface the driver exposes to hooks. It is declared here so
// hook implementations depend on this package only.
type Backend interface {
	// Expression renders a typed expression as Lua text, for splicing into
	// a hook's own template. The node goes through the same folding and
	// normalization as regular code; an expression that cannot stand alone
	// is an error.
	Expression(n typed.Node) (string, error)
}

// Hook transforms the rendered text of one declaration. decl is nil for
// KindExpression. Returning an error aborts the remaining chain and fails
// the declaration.
type Hook func(b Backend, decl typed.Decl, text string) (string, error)

// Chain holds registered hooks per kind. Registration order is execution
// order: each hook receives the previous hook's output.
type Chain struct {
	mu    sync.RWMutex
	hooks map[Kind][]Hook
}

// NewChain creates an empty hook chain.
func NewChain() *Chain {
	return &Chain{hooks: make(map[Kind][]Hook)}
}

// Register appends a hook to the chain for kind.
func (c *Chain) Register(kind Kind, h Hook) {
	if h == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks[kind] = append(c.hooks[kind], h)
}

// Len returns how many hooks are registered for kind.
func (c *Chain) Len(kind Kind) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.hooks[kind])
}

// Run folds text through every hook registered for kind, left to right. With
// no hooks registered the text passes through unchanged.
func (c *Chain) Run(kind Kind, b Backend, decl typed.Decl, text string) (string, error) {
	c.mu.RLock()
	list := c.hooks[kind]
	c.mu.RUnlock()

	for i, h := range list {
		out, err := h(b, decl, text)
		if err != nil {
			return "", fmt.Errorf("%s hook %d: %w", kind, i, err)
		}
		text = out
	}
	return text, nil
}
