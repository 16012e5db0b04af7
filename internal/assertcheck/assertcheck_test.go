package assertcheck

import (
	"testing"

	"github.com/impcheck/impcheck/internal/astree"
	"github.com/impcheck/impcheck/internal/interval"
)

func TestLeVerified(t *testing.T) {
	if got := Check(astree.Le, interval.New(1, 11), interval.New(11, 11)); got != OK {
		t.Fatalf("expected OK, got %v", got)
	}
}

func TestLeFalsified(t *testing.T) {
	if got := Check(astree.Le, interval.New(12, 12), interval.New(0, 10)); got != Fail {
		t.Fatalf("expected FAIL, got %v", got)
	}
}

func TestLeUnknownOnOverlap(t *testing.T) {
	if got := Check(astree.Le, interval.New(5, 15), interval.New(0, 10)); got != Unknown {
		t.Fatalf("expected UNKNOWN, got %v", got)
	}
}

func TestEqVerifiedOnlyForEqualSingletons(t *testing.T) {
	if got := Check(astree.Eq, interval.Point(1), interval.Point(1)); got != OK {
		t.Fatalf("expected OK, got %v", got)
	}
	if got := Check(astree.Eq, interval.Point(1), interval.Point(2)); got != Fail {
		t.Fatalf("expected FAIL, got %v", got)
	}
	if got := Check(astree.Eq, interval.New(0, 5), interval.New(3, 3)); got != Unknown {
		t.Fatalf("expected UNKNOWN, got %v", got)
	}
}

func TestNeFalsifiedForEqualSingletons(t *testing.T) {
	if got := Check(astree.Ne, interval.Point(4), interval.Point(4)); got != Fail {
		t.Fatalf("expected FAIL, got %v", got)
	}
}

func TestNeVerifiedForDisjoint(t *testing.T) {
	if got := Check(astree.Ne, interval.New(0, 1), interval.New(5, 10)); got != OK {
		t.Fatalf("expected OK, got %v", got)
	}
}

func TestGeGt(t *testing.T) {
	if got := Check(astree.Ge, interval.New(100, 1<<30), interval.New(100, 100)); got != OK {
		t.Fatalf("expected OK for a>=100 over [100,100], got %v", got)
	}
	if got := Check(astree.Gt, interval.New(5, 5), interval.New(5, 5)); got != Fail {
		t.Fatalf("expected FAIL for strict > on equal singletons, got %v", got)
	}
}
