package diagnostics

import (
	"bytes"
	"strings"
	"testing"

	"github.com/impcheck/impcheck/internal/astree"
)

func sample() []Diagnostic {
	return []Diagnostic{
		{Kind: OK, Pos: astree.Pos{Line: 3}},
		{Kind: FAIL, Pos: astree.Pos{Line: 5}, Message: "[12, 12] <= [0, 10]"},
	}
}

func TestPlainRendererFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := (PlainRenderer{}).Render(&buf, "p.imp", "", sample()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "OK 3") {
		t.Fatalf("expected OK line, got: %s", out)
	}
	if !strings.Contains(out, "FAIL 5: [12, 12] <= [0, 10]") {
		t.Fatalf("expected FAIL line, got: %s", out)
	}
}

func TestJSONRendererFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := (JSONRenderer{}).Render(&buf, "p.imp", "", sample()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"kind": "OK"`) || !strings.Contains(out, `"kind": "FAIL"`) {
		t.Fatalf("expected kind fields in json output, got: %s", out)
	}
}

func TestWorstExitCode(t *testing.T) {
	if WorstExitCode([]Diagnostic{{Kind: OK}}) != 0 {
		t.Fatalf("expected exit 0 for all-OK")
	}
	if WorstExitCode([]Diagnostic{{Kind: OK}, {Kind: FAIL}}) != 2 {
		t.Fatalf("expected exit 2 when any assertion fails")
	}
	if WorstExitCode([]Diagnostic{{Kind: Unknown}}) != 2 {
		t.Fatalf("expected exit 2 for unknown assertion")
	}
	if WorstExitCode([]Diagnostic{{Kind: Warning}}) != 0 {
		t.Fatalf("warnings alone should not change exit code")
	}
}

func TestColorRendererNoColorStillWritesSnippet(t *testing.T) {
	var buf bytes.Buffer
	src := "a := 1;\nb := a / 0;\n"
	diags := []Diagnostic{{Kind: Warning, Pos: astree.Pos{Line: 2, Col: 6}, Message: "possible division by zero"}}
	if err := (ColorRenderer{NoColor: true}).Render(&buf, "p.imp", src, diags); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "b := a / 0;") {
		t.Fatalf("expected offending source line in output, got: %s", out)
	}
}
