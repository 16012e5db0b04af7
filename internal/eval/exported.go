package eval

import (
	"github.com/impcheck/impcheck/internal/absstore"
	"github.com/impcheck/impcheck/internal/astree"
	"github.com/impcheck/impcheck/internal/diagnostics"
	"github.com/impcheck/impcheck/internal/interval"
)

// These wrappers expose the leaf-level semantics the structural
// evaluator already implements (expression evaluation, condition
// refinement, precondition narrowing, assertion checking) to the
// alternate CFG/worklist evaluator in internal/worklist, so that the
// two formulations described in spec.md §9 differ only in how they
// traverse and iterate the program, never in what a single statement
// or condition means.

// EvalExpr evaluates expr against s. See evalExpr.
func (e *Evaluator) EvalExpr(s absstore.Store, expr astree.Expr) (interval.Interval, []diagnostics.Diagnostic) {
	return e.evalExpr(s, expr)
}

// Refine narrows s by assuming cond holds (sign true) or its negation
// holds (sign false). See refine.
func (e *Evaluator) Refine(s absstore.Store, cond astree.Cond, sign bool) absstore.Store {
	return e.refine(s, cond, sign)
}

// Step applies one non-branching, non-looping statement's transfer
// function: Declaration or Assignment. It is the per-node transfer
// function a CFG-based evaluator applies at a basic block. A bottom
// (unreachable) store is returned unchanged with no diagnostics,
// matching evalSeq's vacuous handling of dead code.
func (e *Evaluator) Step(s absstore.Store, stmt astree.Stmt) (absstore.Store, []diagnostics.Diagnostic) {
	if s.IsBottom() {
		return s, nil
	}
	switch stmt.(type) {
	case *astree.Declaration, *astree.Assignment:
		return e.evalStmt(s, stmt, true)
	default:
		return s, nil
	}
}

// EvalPreCon processes a precondition block, installing the narrowed
// intervals as both the working store and the read-only precondition
// map. See evalPreCon. A bottom store is returned unchanged with no
// diagnostics, matching evalSeq's vacuous handling of dead code.
func (e *Evaluator) EvalPreCon(s absstore.Store, n *astree.PreCon) (absstore.Store, []diagnostics.Diagnostic) {
	if s.IsBottom() {
		return s, nil
	}
	return e.evalPreCon(s, n, true)
}

// CheckPostCon evaluates an assertion against s and returns its
// verdict diagnostic (plus any diagnostics from evaluating its
// operands). See checkPostCon.
func (e *Evaluator) CheckPostCon(s absstore.Store, n *astree.PostCon) []diagnostics.Diagnostic {
	return e.checkPostCon(s, n)
}
