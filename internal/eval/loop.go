package eval

import (
	"github.com/impcheck/impcheck/internal/absstore"
	"github.com/impcheck/impcheck/internal/astree"
	"github.com/impcheck/impcheck/internal/diagnostics"
)

// evalWhile iterates the loop to a post-fixpoint, applying widening on
// the back-edge once the configured threshold is exceeded, then
// optionally narrows, then re-evaluates the body exactly once more to
// collect the diagnostics that belong to the converged state. The
// intermediate fixpoint iterations are evaluated silently: reporting
// every iteration's diagnostics would repeat (and sometimes
// contradict, pre-convergence) the ones that hold at the fixpoint.
func (e *Evaluator) evalWhile(s absstore.Store, n *astree.While, collect bool) (absstore.Store, []diagnostics.Diagnostic) {
	cur := s
	iterations := 0
	for {
		enter := e.refine(cur, n.Cond, true)
		if enter.IsBottom() {
			break
		}
		sBody, _ := e.evalSeq(enter, n.Body, false)
		next := absstore.Join(cur, sBody)
		if iterations >= e.WideningThreshold {
			next = absstore.Widen(cur, next)
		}
		iterations++
		if absstore.Equal(next, cur) {
			cur = next
			break
		}
		cur = next
	}

	// Narrowing re-evaluates the body from the converged state without
	// widening and tightens cur's infinite bounds towards the fresh
	// result, anchored at the original pre-loop store s rather than the
	// ever-growing cur (joining with cur instead of s would just return
	// cur unchanged whenever the fresh result is already included).
	for i := 0; i < e.NarrowingIterations; i++ {
		enter := e.refine(cur, n.Cond, true)
		if enter.IsBottom() {
			break
		}
		sBody, _ := e.evalSeq(enter, n.Body, false)
		candidate := absstore.Join(s, sBody)
		if !absstore.Subset(candidate, cur) {
			break
		}
		next := absstore.Narrow(cur, candidate)
		if absstore.Equal(next, cur) {
			break
		}
		cur = next
	}

	var diags []diagnostics.Diagnostic
	if collect {
		enter := e.refine(cur, n.Cond, true)
		if enter.IsBottom() {
			diags = vacuousDiags(n.Body)
		} else {
			_, diags = e.evalSeq(enter, n.Body, true)
		}
	}

	exit := e.refine(cur, n.Cond, false)
	return exit, diags
}
