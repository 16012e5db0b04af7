package diagnostics

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Renderer writes a diagnostic set to w.
type Renderer interface {
	Render(w io.Writer, path string, src string, diags []Diagnostic) error
}

// PlainRenderer writes the §6 wire format, one diagnostic per line.
type PlainRenderer struct{}

func (PlainRenderer) Render(w io.Writer, _ string, _ string, diags []Diagnostic) error {
	for _, d := range diags {
		if _, err := fmt.Fprintln(w, d.Line()); err != nil {
			return err
		}
	}
	return nil
}

// JSONRenderer writes the diagnostic set as a JSON array.
type JSONRenderer struct{}

type jsonDiagnostic struct {
	Kind    string `json:"kind"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message,omitempty"`
}

func (JSONRenderer) Render(w io.Writer, _ string, _ string, diags []Diagnostic) error {
	out := make([]jsonDiagnostic, len(diags))
	for i, d := range diags {
		out[i] = jsonDiagnostic{Kind: d.Kind.String(), Line: d.Pos.Line, Column: d.Pos.Col, Message: d.Message}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// ColorRenderer writes a colorized report with the offending source
// line inlined beneath each non-OK diagnostic, in the style of the
// snippet-annotated formatter this tool's CLI layer is modeled on.
type ColorRenderer struct {
	NoColor bool
}

func (r ColorRenderer) colorFor(k Kind) *color.Color {
	switch k {
	case OK:
		return color.New(color.FgGreen, color.Bold)
	case FAIL, ErrorKind:
		return color.New(color.FgRed, color.Bold)
	case Unknown, Warning:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgWhite)
	}
}

func (r ColorRenderer) Render(w io.Writer, path string, src string, diags []Diagnostic) error {
	lines := strings.Split(src, "\n")
	for _, d := range diags {
		c := r.colorFor(d.Kind)
		if r.NoColor {
			c.DisableColor()
		}
		label := c.Sprintf("%s", d.Kind)
		fmt.Fprintf(w, "%s:%d: %s", path, d.Pos.Line, label)
		if d.Message != "" {
			fmt.Fprintf(w, ": %s", d.Message)
		}
		fmt.Fprintln(w)
		if d.Kind != OK && d.Pos.Line >= 1 && d.Pos.Line <= len(lines) {
			fmt.Fprintf(w, "    %d | %s\n", d.Pos.Line, lines[d.Pos.Line-1])
			caret := strings.Repeat(" ", d.Pos.Col-1) + "^"
			fmt.Fprintf(w, "    %s | %s\n", strings.Repeat(" ", len(fmt.Sprint(d.Pos.Line))), caret)
		}
	}
	return nil
}
