package diagnostics

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/neimanpinchas/haxego/colors"
)

const (
	emitFailedMsg       = "\nCode generation failed with %d error(s)"
	andWarningMsg       = " and %d warning(s)"
	emitSuccessWithWarn = "\nCode generation succeeded with %d warning(s)\n"
)

// DiagnosticBag collects diagnostics during a backend run
type DiagnosticBag struct {
	diagnostics []*Diagnostic
	mu          sync.Mutex
	errorCount  int
	warnCount   int
}

// NewDiagnosticBag creates a new diagnostic bag
func NewDiagnosticBag() *DiagnosticBag {
	return &DiagnosticBag{
		diagnostics: make([]*Diagnostic, 0),
	}
}

// Add adds a diagnostic to the bag
func (db *DiagnosticBag) Add(diag *Diagnostic) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.diagnostics = append(db.diagnostics, diag)

	switch diag.Severity {
	case Error:
		db.errorCount++
	case Warning:
		db.warnCount++
	}
}

// HasErrors returns true if there are any errors
func (db *DiagnosticBag) HasErrors() bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.errorCount > 0
}

// ErrorCount returns the number of errors
func (db *DiagnosticBag) ErrorCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.errorCount
}

// WarningCount returns the number of warnings
func (db *DiagnosticBag) WarningCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.warnCount
}

// Diagnostics returns a copy of all diagnostics (thread-safe)
func (db *DiagnosticBag) Diagnostics() []*Diagnostic {
	db.mu.Lock()
	defer db.mu.Unlock()
	// Return a copy to prevent races if caller iterates while other goroutines append
	result := make([]*Diagnostic, len(db.diagnostics))
	copy(result, db.diagnostics)
	return result
}

// EmitAll writes every collected diagnostic plus a summary to stderr.
func (db *DiagnosticBag) EmitAll() {
	db.EmitAllTo(os.Stderr)
}

// EmitAllTo writes every collected diagnostic plus a summary to w.
func (db *DiagnosticBag) EmitAllTo(w io.Writer) {
	db.mu.Lock()
	diagnostics := make([]*Diagnostic, len(db.diagnostics))
	// copy diagnostics to avoid holding lock during emit
	copy(diagnostics, db.diagnostics)
	db.mu.Unlock()

	for _, diag := range diagnostics {
		emit(w, diag)
	}

	db.printSummary(w)
}

// EmitAllToString emits all diagnostics to a string with ANSI codes.
func (db *DiagnosticBag) EmitAllToString() string {
	var buf strings.Builder
	db.EmitAllTo(&buf)
	return buf.String()
}

func emit(w io.Writer, diag *Diagnostic) {
	color := colors.RED
	switch diag.Severity {
	case Warning:
		color = colors.ORANGE
	case Info:
		color = colors.CYAN
	case Hint:
		color = colors.GREY
	}

	if !diag.Location.IsZero() {
		fmt.Fprintf(w, "%s: ", diag.Location)
	}
	if diag.Code != "" {
		color.Fprintf(w, "%s[%s]", diag.Severity, diag.Code)
	} else {
		color.Fprintf(w, "%s", diag.Severity)
	}
	fmt.Fprintf(w, ": %s\n", diag.Message)

	for _, note := range diag.Notes {
		colors.GREY.Fprintf(w, "  note: %s\n", note.Message)
	}
	if diag.Help != "" {
		colors.CYAN.Fprintf(w, "  help: %s\n", diag.Help)
	}
}

func (db *DiagnosticBag) printSummary(w io.Writer) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.errorCount > 0 {
		colors.RED.Fprintf(w, emitFailedMsg, db.errorCount)
		if db.warnCount > 0 {
			colors.RED.Fprintf(w, andWarningMsg, db.warnCount)
		}
		fmt.Fprintln(w)
	} else if db.warnCount > 0 {
		colors.ORANGE.Fprintf(w, emitSuccessWithWarn, db.warnCount)
	}
}

// Clear removes all diagnostics
func (db *DiagnosticBag) Clear() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.diagnostics = make([]*Diagnostic, 0)
	db.errorCount = 0
	db.warnCount = 0
}
