package hooks

import (
	"errors"
	"strings"
	"testing"

	"github.com/neimanpinchas/haxego/internal/typed"
)

type nopBackend struct{}

func (nopBackend) Expression(n typed.Node) (string, error) { return "", nil }

func TestRunWithoutHooksPassesThrough(t *testing.T) {
	c := NewChain()
	out, err := c.Run(KindClass, nopBackend{}, nil, "local x = 1\n")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out != "local x = 1\n" {
		t.Errorf("Expected pass-through, got %q", out)
	}
}

func TestHooksRunInRegistrationOrder(t *testing.T) {
	c := NewChain()
	c.Register(KindEnum, func(b Backend, d typed.Decl, text string) (string, error) {
		return text + "a", nil
	})
	c.Register(KindEnum, func(b Backend, d typed.Decl, text string) (string, error) {
		return text + "b", nil
	})

	out, err := c.Run(KindEnum, nopBackend{}, nil, "-")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out != "-ab" {
		t.Errorf("Expected left-to-right fold '-ab', got %q", out)
	}
}

func TestHookErrorStopsChain(t *testing.T) {
	c := NewChain()
	boom := errors.New("boom")
	ran := false
	c.Register(KindClass, func(b Backend, d typed.Decl, text string) (string, error) {
		return "", boom
	})
	c.Register(KindClass, func(b Backend, d typed.Decl, text string) (string, error) {
		ran = true
		return text, nil
	})

	_, err := c.Run(KindClass, nopBackend{}, nil, "x")
	if !errors.Is(err, boom) {
		t.Fatalf("Expected the hook error, got %v", err)
	}
	if ran {
		t.Error("Later hooks must not run after a failure")
	}
	if !strings.Contains(err.Error(), "class hook 0") {
		t.Errorf("Error should identify the failing hook, got %q", err.Error())
	}
}

func TestKindsAreIndependent(t *testing.T) {
	c := NewChain()
	c.Register(KindClass, func(b Backend, d typed.Decl, text string) (string, error) {
		return "touched", nil
	})

	out, err := c.Run(KindTypedef, nopBackend{}, nil, "original")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out != "original" {
		t.Errorf("Hooks of another kind must not fire, got %q", out)
	}
	if c.Len(KindClass) != 1 || c.Len(KindTypedef) != 0 {
		t.Errorf("Len mismatch: class=%d typedef=%d", c.Len(KindClass), c.Len(KindTypedef))
	}
}
