package parser

import (
	"testing"

	"github.com/impcheck/impcheck/internal/astree"
)

func TestParseSimpleProgram(t *testing.T) {
	src := `assume 0 <= a && a <= 10;
b := a + 1;
assert b <= 11;`
	seq, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seq.Stmts) != 3 {
		t.Fatalf("expected 3 top-level statements (precon, assign, assert), got %d", len(seq.Stmts))
	}
	pre, ok := seq.Stmts[0].(*astree.PreCon)
	if !ok {
		t.Fatalf("expected leading PreCon, got %T", seq.Stmts[0])
	}
	if len(pre.Conds) != 2 {
		t.Fatalf("expected 2 conjoined preconditions, got %d", len(pre.Conds))
	}
	if _, ok := seq.Stmts[1].(*astree.Assignment); !ok {
		t.Fatalf("expected Assignment, got %T", seq.Stmts[1])
	}
	if _, ok := seq.Stmts[2].(*astree.PostCon); !ok {
		t.Fatalf("expected PostCon, got %T", seq.Stmts[2])
	}
}

func TestParseIfElse(t *testing.T) {
	src := `assume a >= 0;
if (a < 5) { b := 1; } else { b := 2; }
assert b >= 1;`
	seq, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ifNode, ok := seq.Stmts[1].(*astree.IfElse)
	if !ok {
		t.Fatalf("expected IfElse, got %T", seq.Stmts[1])
	}
	if ifNode.Else == nil {
		t.Fatalf("expected an else block")
	}
	if len(ifNode.Then.Stmts) != 1 || len(ifNode.Else.Stmts) != 1 {
		t.Fatalf("expected one statement per branch")
	}
}

func TestParseWhile(t *testing.T) {
	src := `assume a >= 0;
while (a < 100) { a := a + 1; }
assert a >= 100;`
	seq, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w, ok := seq.Stmts[1].(*astree.While)
	if !ok {
		t.Fatalf("expected While, got %T", seq.Stmts[1])
	}
	if len(w.Body.Stmts) != 1 {
		t.Fatalf("expected 1 statement in loop body")
	}
}

func TestParseDivisionByZero(t *testing.T) {
	src := `assume 0 <= a && a <= 10;
b := a / 0;`
	seq, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assign := seq.Stmts[1].(*astree.Assignment)
	arith, ok := assign.Expr.(*astree.ArithExpr)
	if !ok || arith.Op != astree.Div {
		t.Fatalf("expected division expression, got %#v", assign.Expr)
	}
}

func TestParseAssumeMustPrecedeOtherStatements(t *testing.T) {
	src := `b := 1;
assume a >= 0;`
	_, err := Parse(src)
	if err == nil {
		t.Fatalf("expected error when assume follows another statement")
	}
}

func TestParseRejectsUnexpectedToken(t *testing.T) {
	_, err := Parse("if a < 5 { }")
	if err == nil {
		t.Fatalf("expected parse error for missing parens")
	}
}

func TestParseNestedParens(t *testing.T) {
	src := `b := (1 + 2) * 3;`
	seq, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assign := seq.Stmts[0].(*astree.Assignment)
	arith := assign.Expr.(*astree.ArithExpr)
	if arith.Op != astree.Mul {
		t.Fatalf("expected top-level multiply, got %v", arith.Op)
	}
}
