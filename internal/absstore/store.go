// Package absstore implements the abstract store: a persistent
// mapping from variable names to interval.Interval values, plus a
// read-only precondition slot consulted as a fallback on lookup.
package absstore

import (
	"github.com/benbjohnson/immutable"

	"github.com/impcheck/impcheck/internal/interval"
)

// Store maps variable names to intervals. A missing key denotes
// "unconstrained" (observationally interval.Top). Store is an
// immutable value: every mutating operation returns a new Store that
// shares unmodified structure with its parent, so branch evaluation
// can fork a store in O(1) without aliasing the original.
//
// A Store can also be the distinguished bottom store, representing an
// unreachable program point; bottom is sticky, Set on a bottom store
// is a no-op, and Get on a bottom store is undefined by the caller's
// contract (callers must check IsBottom first, mirroring the
// evaluator's own obligation to skip unreachable code).
type Store struct {
	vars    *immutable.Map[string, interval.Interval]
	bottom  bool
	precond *immutable.Map[string, interval.Interval]
}

// New returns the empty store: no variables constrained, reachable.
func New() Store {
	return Store{vars: immutable.NewMap[string, interval.Interval](varHasher)}
}

// Bottom is the unreachable store.
var Bottom = Store{bottom: true}

// IsBottom reports whether s represents an unreachable program point.
func (s Store) IsBottom() bool { return s.bottom }

// WithPrecondition returns a copy of s with its precondition slot set
// to pre. The precondition slot is meant to be written exactly once,
// right after the precondition block is evaluated.
func (s Store) WithPrecondition(pre *immutable.Map[string, interval.Interval]) Store {
	s.precond = pre
	return s
}

// Get returns the interval bound to v, falling back to the
// precondition map, then to interval.Top, per the lookup order
// described for expression evaluation.
func (s Store) Get(v string) interval.Interval {
	if s.bottom {
		return interval.Bottom
	}
	if x, ok := s.vars.Get(v); ok {
		return x
	}
	if s.precond != nil {
		if x, ok := s.precond.Get(v); ok {
			return x
		}
	}
	return interval.Top
}

// Has reports whether v has an entry in the working map (not counting
// the precondition fallback).
func (s Store) Has(v string) bool {
	if s.bottom {
		return false
	}
	_, ok := s.vars.Get(v)
	return ok
}

// HasAny reports whether v has an entry in either the working map or
// the precondition map; used to distinguish a genuinely undeclared
// read from an ordinary top-valued one.
func (s Store) HasAny(v string) bool {
	if s.Has(v) {
		return true
	}
	if s.precond == nil {
		return false
	}
	_, ok := s.precond.Get(v)
	return ok
}

// Set binds v to x. Binding any variable to interval.Bottom collapses
// the whole store to Bottom: an empty interval for one variable means
// the program point is unreachable. Set on an already-bottom store is
// a no-op.
func (s Store) Set(v string, x interval.Interval) Store {
	if s.bottom {
		return s
	}
	if x.IsBottom() {
		return Bottom
	}
	s.vars = s.vars.Set(v, x)
	return s
}

// Equal is extensional equality: identical on every key, with a
// missing key compared as interval.Top.
func Equal(a, b Store) bool {
	if a.bottom != b.bottom {
		return false
	}
	if a.bottom {
		return true
	}
	seen := make(map[string]struct{}, a.vars.Len())
	it := a.vars.Iterator()
	for !it.Done() {
		k, v, _ := it.Next()
		seen[k] = struct{}{}
		if !v.Equal(b.Get(k)) {
			return false
		}
	}
	it = b.vars.Iterator()
	for !it.Done() {
		k, v, _ := it.Next()
		if _, ok := seen[k]; ok {
			continue
		}
		if !v.Equal(a.Get(k)) {
			return false
		}
	}
	return true
}

// Join computes the pointwise least upper bound of a and b. Bottom is
// the join identity, matching the sequence/if-else merge rules.
func Join(a, b Store) Store {
	if a.bottom {
		return b
	}
	if b.bottom {
		return a
	}
	out := New()
	out.precond = a.precond
	if out.precond == nil {
		out.precond = b.precond
	}
	it := a.vars.Iterator()
	for !it.Done() {
		k, v, _ := it.Next()
		out.vars = out.vars.Set(k, interval.Join(v, b.Get(k)))
	}
	it = b.vars.Iterator()
	for !it.Done() {
		k, v, _ := it.Next()
		if a.Has(k) {
			continue
		}
		out.vars = out.vars.Set(k, interval.Join(a.Get(k), v))
	}
	return out
}

// Meet computes the pointwise greatest lower bound of a and b. Any
// variable whose meet collapses to interval.Bottom takes the whole
// store to Bottom.
func Meet(a, b Store) Store {
	if a.bottom || b.bottom {
		return Bottom
	}
	out := New()
	out.precond = a.precond
	if out.precond == nil {
		out.precond = b.precond
	}
	keys := make(map[string]struct{})
	it := a.vars.Iterator()
	for !it.Done() {
		k, _, _ := it.Next()
		keys[k] = struct{}{}
	}
	it = b.vars.Iterator()
	for !it.Done() {
		k, _, _ := it.Next()
		keys[k] = struct{}{}
	}
	for k := range keys {
		m := interval.Meet(a.Get(k), b.Get(k))
		if m.IsBottom() {
			return Bottom
		}
		out.vars = out.vars.Set(k, m)
	}
	return out
}

// Widen applies interval.Widen pointwise across every variable that
// appears in either store, per the loop-back-edge widening discipline.
func Widen(prev, next Store) Store {
	if prev.bottom {
		return next
	}
	if next.bottom {
		return prev
	}
	out := New()
	out.precond = prev.precond
	keys := make(map[string]struct{})
	it := prev.vars.Iterator()
	for !it.Done() {
		k, _, _ := it.Next()
		keys[k] = struct{}{}
	}
	it = next.vars.Iterator()
	for !it.Done() {
		k, _, _ := it.Next()
		keys[k] = struct{}{}
	}
	for k := range keys {
		out.vars = out.vars.Set(k, interval.Widen(prev.Get(k), next.Get(k)))
	}
	return out
}

// Narrow tightens prev's infinite bounds towards next's corresponding
// bounds, applied pointwise over the union of keys. Callers must
// ensure next sqsubseteq prev (a freshly computed post-fixpoint
// estimate); Narrow does not itself verify this, it only rewrites
// infinite bounds, matching interval.Narrow's contract.
func Narrow(prev, next Store) Store {
	if prev.bottom || next.bottom {
		return Bottom
	}
	out := New()
	out.precond = prev.precond
	keys := make(map[string]struct{})
	it := prev.vars.Iterator()
	for !it.Done() {
		k, _, _ := it.Next()
		keys[k] = struct{}{}
	}
	it = next.vars.Iterator()
	for !it.Done() {
		k, _, _ := it.Next()
		keys[k] = struct{}{}
	}
	for k := range keys {
		out.vars = out.vars.Set(k, interval.Narrow(prev.Get(k), next.Get(k)))
	}
	return out
}

// Subset reports whether a sqsubseteq b: every variable's interval in
// a is included in the corresponding interval of b (missing keys on
// either side read as interval.Top). Bottom is included in everything.
func Subset(a, b Store) bool {
	if a.bottom {
		return true
	}
	if b.bottom {
		return false
	}
	it := a.vars.Iterator()
	for !it.Done() {
		k, v, _ := it.Next()
		if !v.Subset(b.Get(k)) {
			return false
		}
	}
	it = b.vars.Iterator()
	for !it.Done() {
		k, v, _ := it.Next()
		if a.Has(k) {
			continue
		}
		if !a.Get(k).Subset(v) {
			return false
		}
	}
	return true
}

// Keys returns the variable names with an entry in the working map,
// in unspecified order; used by diagnostics and by the worklist
// evaluator's edge refinement.
func (s Store) Keys() []string {
	if s.bottom {
		return nil
	}
	out := make([]string, 0, s.vars.Len())
	it := s.vars.Iterator()
	for !it.Done() {
		k, _, _ := it.Next()
		out = append(out, k)
	}
	return out
}
