package normalize

import (
	"testing"

	"github.com/neimanpinchas/haxego/internal/typed"
	"github.com/neimanpinchas/haxego/internal/types"
)

func intLocal(name string, id int) *typed.Local {
	return &typed.Local{Name: name, ID: id, Type: types.TypeInt}
}

func intLit(v string) *typed.Const {
	return &typed.Const{Kind: typed.ConstInt, Value: v, Type: types.TypeInt}
}

func run(t *testing.T, body typed.Node, assignee typed.Node) *typed.Block {
	t.Helper()
	block, err := New(typed.NewTempGen()).Run(body, assignee)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return block
}

func TestValueIfHoistedToTemp(t *testing.T) {
	c := &typed.Local{Name: "c", ID: 1, Type: types.TypeBool}
	ifExpr := &typed.If{Cond: c, Then: intLit("1"), Else: intLit("2"), Type: types.TypeInt}
	decl := &typed.VarDecl{Name: "x", ID: 2, Init: ifExpr, Type: types.TypeInt}

	block := run(t, &typed.Block{Stmts: []typed.Node{decl}}, nil)

	if len(block.Stmts) != 3 {
		t.Fatalf("Expected 3 statements, got %d", len(block.Stmts))
	}

	tmp, ok := block.Stmts[0].(*typed.VarDecl)
	if !ok {
		t.Fatalf("Expected temp declaration first, got %T", block.Stmts[0])
	}
	if tmp.Init != nil {
		t.Error("Temp for a hoisted conditional must start undeclared-initialized")
	}
	if tmp.ID < typed.TempIDBase {
		t.Errorf("Temp id %d outside the reserved namespace", tmp.ID)
	}

	cond, ok := block.Stmts[1].(*typed.If)
	if !ok {
		t.Fatalf("Expected hoisted conditional second, got %T", block.Stmts[1])
	}
	thenBlock := cond.Then.(*typed.Block)
	set, ok := thenBlock.Stmts[len(thenBlock.Stmts)-1].(*typed.Binary)
	if !ok || set.Op != typed.OpAssign {
		t.Fatalf("Expected branch tail to assign the temp, got %T", thenBlock.Stmts[len(thenBlock.Stmts)-1])
	}
	if ref, ok := set.X.(*typed.Local); !ok || ref.ID != tmp.ID {
		t.Error("Branch assignment does not target the hoisted temp")
	}

	out, ok := block.Stmts[2].(*typed.VarDecl)
	if !ok || out.Name != "x" {
		t.Fatalf("Expected original declaration last, got %T", block.Stmts[2])
	}
	if ref, ok := out.Init.(*typed.Local); !ok || ref.ID != tmp.ID {
		t.Error("Original declaration must read the temp")
	}
}

func TestPostfixIncrementCapturesOldValue(t *testing.T) {
	x := intLocal("x", 1)
	inc := &typed.Unary{Op: typed.OpIncrement, Postfix: true, X: x, Type: types.TypeInt}
	decl := &typed.VarDecl{Name: "y", ID: 2, Init: inc, Type: types.TypeInt}

	block := run(t, &typed.Block{Stmts: []typed.Node{decl}}, nil)

	if len(block.Stmts) != 3 {
		t.Fatalf("Expected 3 statements, got %d", len(block.Stmts))
	}

	capture, ok := block.Stmts[0].(*typed.VarDecl)
	if !ok {
		t.Fatalf("Expected capture of the old value first, got %T", block.Stmts[0])
	}
	if ref, ok := capture.Init.(*typed.Local); !ok || ref.ID != x.ID {
		t.Error("Capture must read the operand before the mutation")
	}

	mut, ok := block.Stmts[1].(*typed.Binary)
	if !ok || mut.Op != typed.OpAssignAdd {
		t.Fatalf("Expected x += 1 second, got %T", block.Stmts[1])
	}
	if lit, ok := mut.Y.(*typed.Const); !ok || lit.Value != "1" {
		t.Error("Increment step must be the literal 1")
	}

	out := block.Stmts[2].(*typed.VarDecl)
	if ref, ok := out.Init.(*typed.Local); !ok || ref.ID != capture.ID {
		t.Error("Result must be the captured old value, not the mutated operand")
	}
}

func TestPrefixIncrementReadsNewValue(t *testing.T) {
	x := intLocal("x", 1)
	inc := &typed.Unary{Op: typed.OpIncrement, Postfix: false, X: x, Type: types.TypeInt}
	decl := &typed.VarDecl{Name: "y", ID: 2, Init: inc, Type: types.TypeInt}

	block := run(t, &typed.Block{Stmts: []typed.Node{decl}}, nil)

	if len(block.Stmts) != 2 {
		t.Fatalf("Expected 2 statements, got %d", len(block.Stmts))
	}
	if mut, ok := block.Stmts[0].(*typed.Binary); !ok || mut.Op != typed.OpAssignAdd {
		t.Fatalf("Expected x += 1 first, got %T", block.Stmts[0])
	}
	out := block.Stmts[1].(*typed.VarDecl)
	if ref, ok := out.Init.(*typed.Local); !ok || ref.ID != x.ID {
		t.Error("Prefix increment must yield the operand after mutation")
	}
}

func TestIfWithoutElseStaysElseless(t *testing.T) {
	c := &typed.Local{Name: "c", ID: 1, Type: types.TypeBool}
	cond := &typed.If{
		Cond: c,
		Then: &typed.Block{Stmts: []typed.Node{intLit("1")}},
		Type: types.TypeVoid,
	}

	block := run(t, &typed.Block{Stmts: []typed.Node{cond}}, nil)

	out, ok := block.Stmts[0].(*typed.If)
	if !ok {
		t.Fatalf("Expected a conditional, got %T", block.Stmts[0])
	}
	// The interface field must hold a true nil, not a typed nil block.
	if out.Else != nil {
		t.Errorf("Absent else must stay absent, got %T", out.Else)
	}
}

func TestCoalesceLowering(t *testing.T) {
	a := &typed.Local{Name: "a", ID: 1, Type: types.TypeString}
	b := &typed.Local{Name: "b", ID: 2, Type: types.TypeString}
	co := &typed.Binary{Op: typed.OpCoalesce, X: a, Y: b, Type: types.TypeString}
	decl := &typed.VarDecl{Name: "v", ID: 3, Init: co, Type: types.TypeString}

	block := run(t, &typed.Block{Stmts: []typed.Node{decl}}, nil)

	if len(block.Stmts) != 3 {
		t.Fatalf("Expected 3 statements, got %d", len(block.Stmts))
	}

	tmp, ok := block.Stmts[0].(*typed.VarDecl)
	if !ok {
		t.Fatalf("Expected temp declaration first, got %T", block.Stmts[0])
	}
	if ref, ok := tmp.Init.(*typed.Local); !ok || ref.ID != a.ID {
		t.Error("Temp must be initialized with the left operand")
	}

	guard, ok := block.Stmts[1].(*typed.If)
	if !ok {
		t.Fatalf("Expected null guard second, got %T", block.Stmts[1])
	}
	if guard.Else != nil {
		t.Error("Null guard must not have an else branch")
	}
	check, ok := guard.Cond.(*typed.Binary)
	if !ok || check.Op != typed.OpEq || !typed.IsNullConst(check.Y) {
		t.Error("Guard condition must compare the temp against null")
	}
	set := guard.Then.(*typed.Block).Stmts[0].(*typed.Binary)
	if ref, ok := set.Y.(*typed.Local); !ok || ref.ID != b.ID {
		t.Error("Fallback must assign the right operand inside the guard")
	}
}

func TestShortCircuitRightHoistStaysConditional(t *testing.T) {
	p := &typed.Local{Name: "p", ID: 1, Type: types.TypeBool}
	q := &typed.Local{Name: "q", ID: 2, Type: types.TypeBool}
	setQ := &typed.Binary{Op: typed.OpAssign, X: q, Y: trueConst(q.Location), Type: types.TypeBool}
	and := &typed.Binary{Op: typed.OpBoolAnd, X: p, Y: setQ, Type: types.TypeBool}
	decl := &typed.VarDecl{Name: "b", ID: 3, Init: and, Type: types.TypeBool}

	block := run(t, &typed.Block{Stmts: []typed.Node{decl}}, nil)

	if len(block.Stmts) != 3 {
		t.Fatalf("Expected 3 statements, got %d", len(block.Stmts))
	}
	tmp := block.Stmts[0].(*typed.VarDecl)
	if ref, ok := tmp.Init.(*typed.Local); !ok || ref.ID != p.ID {
		t.Error("Temp must start as the left operand")
	}
	guard, ok := block.Stmts[1].(*typed.If)
	if !ok {
		t.Fatalf("Expected guard second, got %T", block.Stmts[1])
	}
	if ref, ok := guard.Cond.(*typed.Local); !ok || ref.ID != tmp.ID {
		t.Error("&& guard must test the temp itself")
	}
}

func TestSiblingOrderPreserved(t *testing.T) {
	f := &typed.Local{Name: "f", ID: 1, Type: &types.Function{Return: types.TypeVoid}}
	g := &typed.Local{Name: "g", ID: 2, Type: &types.Function{Return: types.TypeInt}}
	c := &typed.Local{Name: "c", ID: 3, Type: types.TypeBool}

	first := &typed.Call{Fun: g, Type: types.TypeInt}
	second := &typed.If{Cond: c, Then: intLit("1"), Else: intLit("2"), Type: types.TypeInt}
	call := &typed.Call{Fun: f, Args: []typed.Node{first, second}, Type: types.TypeVoid}

	block := run(t, &typed.Block{Stmts: []typed.Node{call}}, nil)

	// Spilling captures the target, then g(), then runs the conditional's
	// machinery, then performs the call.
	if len(block.Stmts) != 5 {
		t.Fatalf("Expected 5 statements, got %d", len(block.Stmts))
	}

	target, ok := block.Stmts[0].(*typed.VarDecl)
	if !ok {
		t.Fatalf("Expected call target captured first, got %T", block.Stmts[0])
	}
	if ref, ok := target.Init.(*typed.Local); !ok || ref.ID != f.ID {
		t.Error("First capture must pin the call target")
	}

	// g() must be pinned before anything belonging to the conditional runs.
	capture, ok := block.Stmts[1].(*typed.VarDecl)
	if !ok {
		t.Fatalf("Expected first argument captured second, got %T", block.Stmts[1])
	}
	if _, ok := capture.Init.(*typed.Call); !ok {
		t.Error("Capture must hold the g() call result")
	}
	if _, ok := block.Stmts[2].(*typed.VarDecl); !ok {
		t.Errorf("Expected conditional temp third, got %T", block.Stmts[2])
	}
	if _, ok := block.Stmts[3].(*typed.If); !ok {
		t.Errorf("Expected hoisted conditional fourth, got %T", block.Stmts[3])
	}

	final, ok := block.Stmts[4].(*typed.Call)
	if !ok {
		t.Fatalf("Expected rewritten call last, got %T", block.Stmts[4])
	}
	for i, arg := range final.Args {
		if _, ok := arg.(*typed.Local); !ok {
			t.Errorf("Argument %d should be a plain reference after spilling, got %T", i, arg)
		}
	}
}

func TestWhileConditionRewrittenIntoGuardedLoop(t *testing.T) {
	x := intLocal("x", 1)
	bump := &typed.Binary{Op: typed.OpAssignAdd, X: x, Y: intLit("1"), Type: types.TypeInt}
	cond := &typed.Binary{Op: typed.OpLt, X: bump, Y: intLit("10"), Type: types.TypeBool}
	loop := &typed.While{Cond: cond, Body: &typed.Block{}, TestFirst: true}

	block := run(t, loop, nil)

	out, ok := block.Stmts[0].(*typed.While)
	if !ok {
		t.Fatalf("Expected a loop, got %T", block.Stmts[0])
	}
	if lit, ok := out.Cond.(*typed.Const); !ok || lit.Value != "true" {
		t.Fatalf("Rewritten loop must run on a constant true condition, got %#v", out.Cond)
	}
	if !out.TestFirst {
		t.Error("Rewritten loop must be a test-first loop")
	}

	body := out.Body.(*typed.Block)
	if len(body.Stmts) < 2 {
		t.Fatalf("Expected hoisted condition plus guard in the body, got %d statements", len(body.Stmts))
	}
	if mut, ok := body.Stmts[0].(*typed.Binary); !ok || mut.Op != typed.OpAssignAdd {
		t.Errorf("Condition side effect must re-run each iteration, got %T", body.Stmts[0])
	}

	foundBreak := false
	for _, stmt := range body.Stmts {
		guard, ok := stmt.(*typed.If)
		if !ok {
			continue
		}
		inner := guard.Then.(*typed.Block)
		if len(inner.Stmts) == 1 {
			if _, ok := inner.Stmts[0].(*typed.Break); ok {
				foundBreak = true
			}
		}
	}
	if !foundBreak {
		t.Error("Guard with a break not found in the rewritten body")
	}
}

func TestDoWhileGuardComesLast(t *testing.T) {
	x := intLocal("x", 1)
	dec := &typed.Unary{Op: typed.OpDecrement, Postfix: true, X: x, Type: types.TypeInt}
	cond := &typed.Binary{Op: typed.OpGt, X: dec, Y: intLit("0"), Type: types.TypeBool}
	work := &typed.Call{Fun: &typed.Local{Name: "step", ID: 2, Type: &types.Function{Return: types.TypeVoid}}, Type: types.TypeVoid}
	loop := &typed.While{Cond: cond, Body: &typed.Block{Stmts: []typed.Node{work}}, TestFirst: false}

	block := run(t, loop, nil)

	out := block.Stmts[0].(*typed.While)
	if !out.TailGuard {
		t.Error("Rewritten test-after loop must be marked as tail-guarded")
	}
	body := out.Body.(*typed.Block)

	if _, ok := body.Stmts[0].(*typed.Call); !ok {
		t.Errorf("Original body must run before the guard, got %T first", body.Stmts[0])
	}
	last, ok := body.Stmts[len(body.Stmts)-1].(*typed.If)
	if !ok {
		t.Fatalf("Expected trailing guard, got %T", body.Stmts[len(body.Stmts)-1])
	}
	inner := last.Then.(*typed.Block)
	if _, ok := inner.Stmts[0].(*typed.Break); !ok {
		t.Error("Trailing guard must break out of the loop")
	}
}

func TestSwitchSubjectHoisted(t *testing.T) {
	subject := &typed.Call{Fun: &typed.Local{Name: "pick", ID: 1, Type: &types.Function{Return: types.TypeInt}}, Type: types.TypeInt}
	sw := &typed.Switch{
		Subject: subject,
		Cases: []typed.Case{
			{Values: []typed.Node{intLit("1")}, Body: intLit("10")},
		},
		Default: intLit("20"),
		Type:    types.TypeInt,
	}
	result := &typed.Local{Name: "r", ID: 2, Type: types.TypeInt}

	block := run(t, sw, result)

	tmp, ok := block.Stmts[0].(*typed.VarDecl)
	if !ok {
		t.Fatalf("Expected subject temp first, got %T", block.Stmts[0])
	}
	if _, ok := tmp.Init.(*typed.Call); !ok {
		t.Error("Subject temp must hold the call result")
	}

	out := block.Stmts[1].(*typed.Switch)
	if ref, ok := out.Subject.(*typed.Local); !ok || ref.ID != tmp.ID {
		t.Error("Switch must compare against the temp")
	}

	caseBody := out.Cases[0].Body.(*typed.Block)
	set, ok := caseBody.Stmts[len(caseBody.Stmts)-1].(*typed.Binary)
	if !ok || set.Op != typed.OpAssign {
		t.Fatalf("Case body tail must assign the result, got %T", caseBody.Stmts[len(caseBody.Stmts)-1])
	}
	if ref, ok := set.X.(*typed.Local); !ok || ref.ID != result.ID {
		t.Error("Case body must assign the bound result variable")
	}
	defBody := out.Default.(*typed.Block)
	if set, ok := defBody.Stmts[len(defBody.Stmts)-1].(*typed.Binary); !ok || set.Op != typed.OpAssign {
		t.Error("Default body tail must assign the result as well")
	}
}

func TestAssigneeBindsLastStatementOnly(t *testing.T) {
	effect := &typed.Call{Fun: &typed.Local{Name: "log", ID: 1, Type: &types.Function{Return: types.TypeVoid}}, Type: types.TypeVoid}
	body := &typed.Block{Stmts: []typed.Node{effect, intLit("5")}}
	result := &typed.Local{Name: "r", ID: 2, Type: types.TypeInt}

	block := run(t, body, result)

	if len(block.Stmts) != 2 {
		t.Fatalf("Expected 2 statements, got %d", len(block.Stmts))
	}
	if _, ok := block.Stmts[0].(*typed.Call); !ok {
		t.Errorf("Non-tail statement must stay an expression statement, got %T", block.Stmts[0])
	}
	set, ok := block.Stmts[1].(*typed.Binary)
	if !ok || set.Op != typed.OpAssign {
		t.Fatalf("Tail statement must become an assignment, got %T", block.Stmts[1])
	}
	if ref, ok := set.X.(*typed.Local); !ok || ref.ID != result.ID {
		t.Error("Tail assignment must target the assignee")
	}
	if lit, ok := set.Y.(*typed.Const); !ok || lit.Value != "5" {
		t.Error("Tail assignment must carry the final value")
	}
}

func TestCompoundAssignOnIndexHoistsParts(t *testing.T) {
	arr := &typed.Call{Fun: &typed.Local{Name: "buf", ID: 1, Type: &types.Function{Return: &types.Array{Element: types.TypeInt}}}, Type: &types.Array{Element: types.TypeInt}}
	idx := &typed.Call{Fun: &typed.Local{Name: "next", ID: 2, Type: &types.Function{Return: types.TypeInt}}, Type: types.TypeInt}
	target := &typed.Index{X: arr, I: idx, Type: types.TypeInt}
	add := &typed.Binary{Op: typed.OpAssignAdd, X: target, Y: intLit("1"), Type: types.TypeInt}

	block := run(t, add, nil)

	if len(block.Stmts) != 3 {
		t.Fatalf("Expected 3 statements, got %d", len(block.Stmts))
	}
	for i := 0; i < 2; i++ {
		if _, ok := block.Stmts[i].(*typed.VarDecl); !ok {
			t.Errorf("Statement %d should capture a location part, got %T", i, block.Stmts[i])
		}
	}
	out := block.Stmts[2].(*typed.Binary)
	lv, ok := out.X.(*typed.Index)
	if !ok {
		t.Fatalf("Expected indexed target, got %T", out.X)
	}
	if _, ok := lv.X.(*typed.Local); !ok {
		t.Error("Indexed object must read a captured temp")
	}
	if _, ok := lv.I.(*typed.Local); !ok {
		t.Error("Index expression must read a captured temp")
	}
}

func TestTryBranchesThreadAssignee(t *testing.T) {
	try := &typed.Try{
		Body: intLit("1"),
		Catches: []typed.Catch{
			{VarName: "e", VarID: 5, VarType: types.TypeDynamic, Body: intLit("2")},
		},
		Type: types.TypeInt,
	}
	result := &typed.Local{Name: "r", ID: 1, Type: types.TypeInt}

	block := run(t, try, result)

	out := block.Stmts[0].(*typed.Try)
	bodyTail := out.Body.(*typed.Block).Stmts[0].(*typed.Binary)
	if bodyTail.Op != typed.OpAssign {
		t.Error("Try body tail must assign the result")
	}
	catchTail := out.Catches[0].Body.(*typed.Block).Stmts[0].(*typed.Binary)
	if catchTail.Op != typed.OpAssign {
		t.Error("Catch body tail must assign the result")
	}
	if out.Catches[0].VarName != "e" {
		t.Errorf("Catch variable lost: %q", out.Catches[0].VarName)
	}
}

func TestNormalizedTreeHasNoValuePositionBlocks(t *testing.T) {
	// A second normalization of an already-normalized tree must be a no-op
	// apart from node identity.
	c := &typed.Local{Name: "c", ID: 1, Type: types.TypeBool}
	ifExpr := &typed.If{Cond: c, Then: intLit("1"), Else: intLit("2"), Type: types.TypeInt}
	decl := &typed.VarDecl{Name: "x", ID: 2, Init: ifExpr, Type: types.TypeInt}

	first := run(t, &typed.Block{Stmts: []typed.Node{decl}}, nil)

	again, err := New(typed.NewTempGen()).Run(first, nil)
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	if len(again.Stmts) != len(first.Stmts) {
		t.Errorf("Re-normalizing grew the tree: %d vs %d statements", len(again.Stmts), len(first.Stmts))
	}
}
