package diagnostics

import (
	"strings"
	"sync"
	"testing"

	"github.com/neimanpinchas/haxego/colors"
	"github.com/neimanpinchas/haxego/internal/source"
)

func TestNewDiagnosticBag(t *testing.T) {
	bag := NewDiagnosticBag()

	if bag == nil {
		t.Fatal("NewDiagnosticBag returned nil")
	}

	if bag.ErrorCount() != 0 {
		t.Errorf("Expected 0 errors, got %d", bag.ErrorCount())
	}

	if bag.WarningCount() != 0 {
		t.Errorf("Expected 0 warnings, got %d", bag.WarningCount())
	}

	if bag.HasErrors() {
		t.Error("Expected HasErrors() to be false for empty bag")
	}
}

func TestDiagnosticBag_AddError(t *testing.T) {
	bag := NewDiagnosticBag()

	bag.Add(NewError("test error"))

	if !bag.HasErrors() {
		t.Error("Expected HasErrors() to be true after adding error")
	}

	if bag.ErrorCount() != 1 {
		t.Errorf("Expected 1 error, got %d", bag.ErrorCount())
	}

	if bag.WarningCount() != 0 {
		t.Errorf("Expected 0 warnings, got %d", bag.WarningCount())
	}
}

func TestDiagnosticBag_MultipleDiagnostics(t *testing.T) {
	bag := NewDiagnosticBag()

	bag.Add(NewError("error 1"))
	bag.Add(NewWarning("warning 1"))
	bag.Add(NewError("error 2"))
	bag.Add(NewWarning("warning 2"))
	bag.Add(NewError("error 3"))

	if bag.ErrorCount() != 3 {
		t.Errorf("Expected 3 errors, got %d", bag.ErrorCount())
	}

	if bag.WarningCount() != 2 {
		t.Errorf("Expected 2 warnings, got %d", bag.WarningCount())
	}

	diagnostics := bag.Diagnostics()
	if len(diagnostics) != 5 {
		t.Errorf("Expected 5 diagnostics, got %d", len(diagnostics))
	}
}

func TestDiagnosticBag_DiagnosticsCopy(t *testing.T) {
	bag := NewDiagnosticBag()

	bag.Add(NewError("error 1"))
	bag.Add(NewWarning("warning 1"))

	diags1 := bag.Diagnostics()

	bag.Add(NewError("error 2"))

	diags2 := bag.Diagnostics()

	// First copy should not be affected
	if len(diags1) != 2 {
		t.Errorf("Expected first copy to have 2 diagnostics, got %d", len(diags1))
	}

	if len(diags2) != 3 {
		t.Errorf("Expected second copy to have 3 diagnostics, got %d", len(diags2))
	}
}

func TestDiagnosticBag_ThreadSafety(t *testing.T) {
	bag := NewDiagnosticBag()

	var wg sync.WaitGroup
	numGoroutines := 10
	diagnosticsPerGoroutine := 10

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < diagnosticsPerGoroutine; j++ {
				if j%2 == 0 {
					bag.Add(NewError("concurrent error"))
				} else {
					bag.Add(NewWarning("concurrent warning"))
				}
			}
		}()
	}

	wg.Wait()

	expectedTotal := numGoroutines * diagnosticsPerGoroutine
	expectedErrors := numGoroutines * (diagnosticsPerGoroutine / 2)

	if bag.ErrorCount() != expectedErrors {
		t.Errorf("Expected %d errors, got %d", expectedErrors, bag.ErrorCount())
	}

	diagnostics := bag.Diagnostics()
	if len(diagnostics) != expectedTotal {
		t.Errorf("Expected %d total diagnostics, got %d", expectedTotal, len(diagnostics))
	}
}

func TestDiagnosticBag_EmitAllToString(t *testing.T) {
	bag := NewDiagnosticBag()

	loc := source.NewLocation("main.hx",
		source.Position{Line: 3, Column: 7},
		source.Position{Line: 3, Column: 12},
	)
	bag.Add(NewError("null assigned to non-nullable field").
		WithCode(ErrNullToNonNullable).
		WithLocation(loc).
		WithHelp("declare the field as Null<Int>"))

	out := colors.StripANSI(bag.EmitAllToString())

	if !strings.Contains(out, "main.hx:3:7") {
		t.Errorf("expected location in output, got %q", out)
	}
	if !strings.Contains(out, "error[N0001]") {
		t.Errorf("expected code in output, got %q", out)
	}
	if !strings.Contains(out, "help: declare the field as Null<Int>") {
		t.Errorf("expected help in output, got %q", out)
	}
	if !strings.Contains(out, "failed with 1 error(s)") {
		t.Errorf("expected summary in output, got %q", out)
	}
}

func TestDiagnosticBag_Clear(t *testing.T) {
	bag := NewDiagnosticBag()

	bag.Add(NewError("error"))
	bag.Add(NewWarning("warning"))
	bag.Clear()

	if bag.HasErrors() {
		t.Error("cleared bag should not have errors")
	}
	if len(bag.Diagnostics()) != 0 {
		t.Errorf("cleared bag should be empty, got %d diagnostics", len(bag.Diagnostics()))
	}
}

func TestDiagnosticBag_InfoAndHint(t *testing.T) {
	bag := NewDiagnosticBag()

	bag.Add(NewInfo("informational message"))
	bag.Add(&Diagnostic{Severity: Hint, Message: "hint message"})

	// Info and hints should not count as errors or warnings
	if bag.HasErrors() {
		t.Error("Info and hint diagnostics should not be counted as errors")
	}

	if bag.ErrorCount() != 0 {
		t.Errorf("Expected 0 errors, got %d", bag.ErrorCount())
	}

	diagnostics := bag.Diagnostics()
	if len(diagnostics) != 2 {
		t.Errorf("Expected 2 diagnostics, got %d", len(diagnostics))
	}
}
