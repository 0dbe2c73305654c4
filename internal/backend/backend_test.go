package backend

import (
	"strings"
	"testing"

	"github.com/neimanpinchas/haxego/internal/diagnostics"
	"github.com/neimanpinchas/haxego/internal/hooks"
	"github.com/neimanpinchas/haxego/internal/typed"
	"github.com/neimanpinchas/haxego/internal/types"
)

func newBackend() *Backend {
	return New(diagnostics.NewDiagnosticBag(), nil)
}

func simpleClass(name string, body *typed.Block) *typed.Class {
	return &typed.Class{
		Pack: "app",
		Name: name,
		Methods: []typed.Method{
			{Name: "run", Return: types.TypeInt, Body: body},
		},
	}
}

func TestCompileClassEndToEnd(t *testing.T) {
	a := &typed.Local{Name: "a", ID: 1, Type: types.TypeString}
	fallback := &typed.Const{Kind: typed.ConstString, Value: "none", Type: types.TypeString}
	body := &typed.Block{Stmts: []typed.Node{
		&typed.Return{Value: &typed.Binary{Op: typed.OpCoalesce, X: a, Y: fallback, Type: types.TypeString}},
	}}

	b := newBackend()
	out, ok := b.Compile([]typed.Decl{simpleClass("Main", body)})
	if !ok {
		t.Fatalf("Compile reported failure: %s", b.Bag().EmitAllToString())
	}

	checks := []string{
		`app_Main = _hx_class("app.Main", nil)`,
		"function app_Main.prototype.run(self)",
		"local _hx_tmp1 = a",
		"if _hx_tmp1 == nil then",
		`_hx_tmp1 = "none"`,
		"return _hx_tmp1",
	}
	for _, want := range checks {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
}

func TestFailingDeclarationDoesNotPoisonSiblings(t *testing.T) {
	bad := simpleClass("Bad", &typed.Block{Stmts: []typed.Node{
		// A bare super reference has no rendering.
		&typed.Const{Kind: typed.ConstSuper},
	}})
	good := simpleClass("Good", &typed.Block{Stmts: []typed.Node{
		&typed.Return{Value: &typed.Const{Kind: typed.ConstInt, Value: "1", Type: types.TypeInt}},
	}})

	b := newBackend()
	out, ok := b.Compile([]typed.Decl{bad, good})

	if ok {
		t.Error("Compile must report failure when a declaration fails")
	}
	if strings.Contains(out, "app_Bad") {
		t.Error("The failing declaration must not leak partial output")
	}
	if !strings.Contains(out, `app_Good = _hx_class("app.Good", nil)`) {
		t.Errorf("The healthy sibling must still compile:\n%s", out)
	}

	found := false
	for _, d := range b.Bag().Diagnostics() {
		if d.Code == diagnostics.ErrUnsupportedConstruct {
			found = true
		}
	}
	if !found {
		t.Error("The failure must be reported with the unsupported-construct code")
	}
}

func TestNullabilityFindingsFailTheRun(t *testing.T) {
	body := &typed.Block{Stmts: []typed.Node{
		&typed.Return{Value: &typed.Const{Kind: typed.ConstNull, Value: "null", Type: types.TypeDynamic}},
	}}

	b := newBackend()
	_, ok := b.Compile([]typed.Decl{simpleClass("Main", body)})

	if ok {
		t.Error("A null return from an Int method must fail the run")
	}
	found := false
	for _, d := range b.Bag().Diagnostics() {
		if d.Code == diagnostics.ErrNullReturn {
			found = true
		}
	}
	if !found {
		t.Error("Expected a null-return diagnostic")
	}
}

func TestStaticFieldInitializerHoisting(t *testing.T) {
	cond := &typed.Local{Name: "debug", ID: 1, Type: types.TypeBool}
	init := &typed.If{
		Cond: cond,
		Then: &typed.Const{Kind: typed.ConstInt, Value: "10", Type: types.TypeInt},
		Else: &typed.Const{Kind: typed.ConstInt, Value: "100", Type: types.TypeInt},
		Type: types.TypeInt,
	}
	c := &typed.Class{
		Pack:   "app",
		Name:   "Config",
		Fields: []typed.ClassField{{Name: "limit", Type: types.TypeInt, Static: true, Init: init}},
	}

	b := newBackend()
	out, ok := b.Compile([]typed.Decl{c})
	if !ok {
		t.Fatalf("Compile failed: %s", b.Bag().EmitAllToString())
	}
	if !strings.Contains(out, "if debug then") {
		t.Errorf("Initializer conditional must be emitted as statements:\n%s", out)
	}
	if !strings.Contains(out, "app_Config.limit = 10") || !strings.Contains(out, "app_Config.limit = 100") {
		t.Errorf("Each branch must assign the field directly:\n%s", out)
	}
}

func TestPlainFieldInitializerStaysInline(t *testing.T) {
	c := &typed.Class{
		Pack: "app",
		Name: "Config",
		Fields: []typed.ClassField{{
			Name: "limit", Type: types.TypeInt, Static: true,
			Init: &typed.Const{Kind: typed.ConstInt, Value: "100", Type: types.TypeInt},
		}},
	}

	b := newBackend()
	out, ok := b.Compile([]typed.Decl{c})
	if !ok {
		t.Fatalf("Compile failed: %s", b.Bag().EmitAllToString())
	}
	if !strings.Contains(out, "app_Config.limit = 100") {
		t.Errorf("Simple initializer must stay a plain assignment:\n%s", out)
	}
}

func TestClassHookWrapsOutput(t *testing.T) {
	b := newBackend()
	b.Hooks().Register(hooks.KindClass, func(hb hooks.Backend, d typed.Decl, text string) (string, error) {
		return "-- " + d.Path() + "\n" + text, nil
	})

	body := &typed.Block{Stmts: []typed.Node{
		&typed.Return{Value: &typed.Const{Kind: typed.ConstInt, Value: "1", Type: types.TypeInt}},
	}}
	out, ok := b.Compile([]typed.Decl{simpleClass("Main", body)})
	if !ok {
		t.Fatalf("Compile failed: %s", b.Bag().EmitAllToString())
	}
	if !strings.HasPrefix(out, "-- app.Main\n") {
		t.Errorf("Hook output must lead the declaration:\n%s", out)
	}
}

func TestExpressionHookHelper(t *testing.T) {
	b := newBackend()

	n := &typed.Binary{
		Op:   typed.OpAdd,
		X:    &typed.Local{Name: "x", ID: 1, Type: types.TypeInt},
		Y:    &typed.Const{Kind: typed.ConstInt, Value: "1", Type: types.TypeInt},
		Type: types.TypeInt,
	}
	out, err := b.Expression(n)
	if err != nil {
		t.Fatalf("Expression failed: %v", err)
	}
	if out != "x + 1" {
		t.Errorf("Expected 'x + 1', got %q", out)
	}

	// Needs a prelude, so it cannot be spliced as a value.
	blocky := &typed.If{
		Cond: &typed.Local{Name: "c", ID: 2, Type: types.TypeBool},
		Then: &typed.Const{Kind: typed.ConstInt, Value: "1", Type: types.TypeInt},
		Else: &typed.Const{Kind: typed.ConstInt, Value: "2", Type: types.TypeInt},
		Type: types.TypeInt,
	}
	if _, err := b.Expression(blocky); err == nil {
		t.Error("A statement-needing expression must be rejected")
	}
}

func TestCompileExpression(t *testing.T) {
	b := newBackend()

	n := &typed.Call{
		Fun:  &typed.Local{Name: "boot", ID: 1, Type: &types.Function{Return: types.TypeVoid}},
		Type: types.TypeVoid,
	}
	out, err := b.CompileExpression(n)
	if err != nil {
		t.Fatalf("CompileExpression failed: %v", err)
	}
	if out != "boot()\n" {
		t.Errorf("Expected 'boot()', got %q", out)
	}
}

func TestEnumAndTypedefDeclarations(t *testing.T) {
	e := &typed.Enum{Pack: "app", Name: "State", Ctors: []typed.EnumCtor{{Name: "Idle"}, {Name: "Busy"}}}
	td := &typed.Typedef{Pack: "app", Name: "S", Underlying: types.NewNamed("app.State", types.DeclEnum)}

	b := newBackend()
	out, ok := b.Compile([]typed.Decl{e, td})
	if !ok {
		t.Fatalf("Compile failed: %s", b.Bag().EmitAllToString())
	}
	if !strings.Contains(out, `app_State = _hx_enum("app.State", {"Idle", "Busy"})`) {
		t.Errorf("Enum scaffolding missing:\n%s", out)
	}
	if !strings.Contains(out, "app_S = app_State") {
		t.Errorf("Typedef alias missing:\n%s", out)
	}
}
