package eval

import (
	"github.com/impcheck/impcheck/internal/absstore"
	"github.com/impcheck/impcheck/internal/assertcheck"
	"github.com/impcheck/impcheck/internal/astree"
	"github.com/impcheck/impcheck/internal/interval"
)

// refine narrows s by assuming cond holds (sign true) or its negation
// holds (sign false), per the condition-refinement table. Producing
// bottom for any variable collapses the whole store.
func (e *Evaluator) refine(s absstore.Store, cond astree.Cond, sign bool) absstore.Store {
	if s.IsBottom() {
		return s
	}
	cmp, ok := cond.(*astree.Comparison)
	if !ok {
		return s
	}

	leftVar, leftIsVar := cmp.Left.(*astree.VarRef)
	rightVar, rightIsVar := cmp.Right.(*astree.VarRef)

	switch {
	case leftIsVar && rightIsVar:
		rightIv, _ := e.evalExpr(s, cmp.Right)
		leftIv, _ := e.evalExpr(s, cmp.Left)
		s = e.refineVar(s, leftVar.Name, effectiveOp(cmp.Op, sign), rightIv)
		s = e.refineVar(s, rightVar.Name, effectiveOp(cmp.Op.Flip(), sign), leftIv)
		return s

	case leftIsVar:
		rightIv, _ := e.evalExpr(s, cmp.Right)
		return e.refineVar(s, leftVar.Name, effectiveOp(cmp.Op, sign), rightIv)

	case rightIsVar:
		leftIv, _ := e.evalExpr(s, cmp.Left)
		return e.refineVar(s, rightVar.Name, effectiveOp(cmp.Op.Flip(), sign), leftIv)

	default:
		// Neither operand is a variable: evaluate the comparison in the
		// abstract and either leave s unchanged or collapse it to bottom.
		l, _ := e.evalExpr(s, cmp.Left)
		r, _ := e.evalExpr(s, cmp.Right)
		switch assertcheck.Check(effectiveOp(cmp.Op, sign), l, r) {
		case assertcheck.Fail:
			return absstore.Bottom
		default:
			return s
		}
	}
}

// excludePoint removes the singleton {p} from cur, exactly, via
// absstore.DisjointStore bounded by e.DisjunctionBound. The result is
// cur itself when excluding p leaves more than one component (the gap
// is not representable as a single interval), tighter than cur when p
// sat at an edge, and interval.Bottom when cur was exactly {p}.
func (e *Evaluator) excludePoint(cur interval.Interval, p int64) interval.Interval {
	if cur.IsBottom() {
		return cur
	}
	ds := absstore.NewDisjointStore(e.DisjunctionBound)
	ds.Set("v", cur)
	ds.ExcludePoint("v", p)
	if ds.IsBottom() {
		return interval.Bottom
	}
	if len(ds.Components("v")) > 1 {
		return cur
	}
	return ds.Get("v")
}

func effectiveOp(op astree.CmpOp, sign bool) astree.CmpOp {
	if sign {
		return op
	}
	return op.Negate()
}

// refineVar meets v's current interval with the bound implied by
// "v op e" where e has interval eIv, per the refinement table. Eq
// meets with e's interval exactly; Ne excludes it via excludePoint,
// exact when e is a point and the exclusion collapses to one run.
func (e *Evaluator) refineVar(s absstore.Store, name string, op astree.CmpOp, eIv interval.Interval) absstore.Store {
	if eIv.IsBottom() {
		return absstore.Bottom
	}
	el, eu, elFin, euFin := eIv.Bounds()
	cur := s.Get(name)

	var bound interval.Interval
	switch op {
	case astree.Lt:
		if euFin {
			bound = interval.AtMost(eu - 1)
		} else {
			bound = interval.Top
		}
	case astree.Le:
		if euFin {
			bound = interval.AtMost(eu)
		} else {
			bound = interval.Top
		}
	case astree.Gt:
		if elFin {
			bound = interval.AtLeast(el + 1)
		} else {
			bound = interval.Top
		}
	case astree.Ge:
		if elFin {
			bound = interval.AtLeast(el)
		} else {
			bound = interval.Top
		}
	case astree.Eq:
		bound = eIv
	case astree.Ne:
		// Excluding a point from cur is exact whenever the remainder
		// collapses to a single run (the point sits at an edge, or cur
		// was exactly that point); an interior exclusion leaves a gap
		// the single-interval domain can't represent, so it rejoins to
		// cur unchanged. excludePoint computes this via
		// absstore.DisjointStore rather than special-casing the edges
		// here by hand.
		bound = cur
		if p, ok := eIv.IsPoint(); ok {
			bound = e.excludePoint(cur, p)
		}
	default:
		bound = interval.Top
	}

	narrowed := interval.Meet(cur, bound)
	return s.Set(name, narrowed)
}
