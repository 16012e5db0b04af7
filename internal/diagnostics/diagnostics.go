// Package diagnostics defines the structured output of an analysis
// run and renders it as plain text, colorized text, or JSON.
package diagnostics

import (
	"fmt"

	"github.com/impcheck/impcheck/internal/astree"
)

// Kind classifies a Diagnostic.
type Kind int

const (
	OK Kind = iota
	FAIL
	Unknown
	Warning
	ErrorKind
)

func (k Kind) String() string {
	switch k {
	case OK:
		return "OK"
	case FAIL:
		return "FAIL"
	case Unknown:
		return "UNKNOWN"
	case Warning:
		return "WARNING"
	case ErrorKind:
		return "ERROR"
	default:
		return "?"
	}
}

// Diagnostic is one reportable fact about the analyzed program: an
// assertion verdict, or a non-fatal condition (division by zero,
// overflow saturation, unreachable branch, undeclared read, ill-formed
// precondition clause).
type Diagnostic struct {
	Kind    Kind
	Pos     astree.Pos
	Message string
}

// Line renders d in the wire format: "KIND <line>: message", with the
// message omitted for a bare OK.
func (d Diagnostic) Line() string {
	if d.Kind == OK && d.Message == "" {
		return fmt.Sprintf("OK %d", d.Pos.Line)
	}
	return fmt.Sprintf("%s %d: %s", d.Kind, d.Pos.Line, d.Message)
}

// WorstExitCode maps a diagnostic set to the CLI exit code contract:
// 0 if every assertion is OK, 2 if any assertion is FAIL or UNKNOWN.
// Warnings and errors that are not assertion verdicts do not by
// themselves change the exit code.
func WorstExitCode(diags []Diagnostic) int {
	code := 0
	for _, d := range diags {
		switch d.Kind {
		case FAIL, Unknown:
			code = 2
		}
	}
	return code
}
