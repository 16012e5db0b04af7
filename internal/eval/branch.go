package eval

import (
	"github.com/impcheck/impcheck/internal/absstore"
	"github.com/impcheck/impcheck/internal/astree"
	"github.com/impcheck/impcheck/internal/diagnostics"
)

// evalIfElse refines s on both arms of cond, evaluates whichever arms
// are reachable, and joins the results. A refined-to-bottom arm is
// never evaluated; when collect is set its nested assertions are
// still reported, as vacuously verified.
func (e *Evaluator) evalIfElse(s absstore.Store, n *astree.IfElse, collect bool) (absstore.Store, []diagnostics.Diagnostic) {
	sThen := e.refine(s, n.Cond, true)
	sElse := e.refine(s, n.Cond, false)

	var diags []diagnostics.Diagnostic

	thenOut := absstore.Bottom
	if sThen.IsBottom() {
		if collect {
			diags = append(diags, vacuousDiags(n.Then)...)
		}
	} else {
		var d []diagnostics.Diagnostic
		thenOut, d = e.evalSeq(sThen, n.Then, collect)
		diags = append(diags, d...)
	}

	elseOut := sElse
	if n.Else != nil {
		if sElse.IsBottom() {
			if collect {
				diags = append(diags, vacuousDiags(n.Else)...)
			}
			elseOut = absstore.Bottom
		} else {
			var d []diagnostics.Diagnostic
			elseOut, d = e.evalSeq(sElse, n.Else, collect)
			diags = append(diags, d...)
		}
	}
	// When Else is absent, the else-side contribution is the unrefined
	// store restricted by the negated condition (sElse as computed
	// above), with no statements to evaluate.

	return absstore.Join(thenOut, elseOut), diags
}
