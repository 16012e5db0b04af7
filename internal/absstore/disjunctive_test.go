package absstore

import (
	"testing"

	"github.com/impcheck/impcheck/internal/interval"
)

func TestDisjointExcludePointSplits(t *testing.T) {
	d := NewDisjointStore(4)
	d.Set("x", interval.New(0, 10))
	d.ExcludePoint("x", 5)

	comps := d.Components("x")
	if len(comps) != 2 {
		t.Fatalf("expected split into 2 components, got %d: %v", len(comps), comps)
	}
	if d.Get("x").Contains(5) {
		t.Fatalf("5 should no longer be representable after exclusion")
	}
	if !d.Get("x").Contains(0) || !d.Get("x").Contains(10) {
		t.Fatalf("exclusion should not drop the surrounding range")
	}
}

func TestDisjointIntersectPointIsExact(t *testing.T) {
	d := NewDisjointStore(4)
	d.Set("x", interval.New(0, 10))
	d.IntersectPoint("x", 5)
	n, ok := d.Get("x").IsPoint()
	if !ok || n != 5 {
		t.Fatalf("expected exact singleton {5}, got %v", d.Get("x"))
	}
}

func TestDisjointBoundedComponents(t *testing.T) {
	d := NewDisjointStore(2)
	d.Set("x", interval.New(0, 100))
	d.ExcludePoint("x", 10)
	d.ExcludePoint("x", 20)
	d.ExcludePoint("x", 30)
	if len(d.Components("x")) > 2 {
		t.Fatalf("component count exceeded bound: %v", d.Components("x"))
	}
}

func TestDisjointSetBottomOnEmptyExclusion(t *testing.T) {
	d := NewDisjointStore(4)
	d.Set("x", interval.Point(5))
	d.ExcludePoint("x", 5)
	if !d.IsBottom() {
		t.Fatalf("excluding the only possible value should make the store bottom")
	}
}
