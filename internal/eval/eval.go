// Package eval implements the primary structural evaluator: a
// recursive traversal over astree nodes that threads an absstore.Store
// through expression evaluation, condition refinement, branch joins,
// and loop fixpoints with widening.
package eval

import (
	"fmt"

	"github.com/benbjohnson/immutable"
	"go.uber.org/zap"

	"github.com/impcheck/impcheck/internal/absstore"
	"github.com/impcheck/impcheck/internal/assertcheck"
	"github.com/impcheck/impcheck/internal/astree"
	"github.com/impcheck/impcheck/internal/diagnostics"
	"github.com/impcheck/impcheck/internal/interval"
)

// Evaluator carries the knobs that the loop handler's widening
// discipline depends on: the threshold at which widening kicks in and
// the number of narrowing steps attempted afterward.
type Evaluator struct {
	WideningThreshold   int
	NarrowingIterations int
	// DisjunctionBound caps the number of disjoint components refineVar
	// computes when excluding a point from an interval (the `!=`
	// refinement); once exceeded the components are rejoined, trading
	// precision for the same termination bound absstore.DisjointStore
	// enforces internally.
	DisjunctionBound int
	Logger           *zap.Logger
}

// New returns an Evaluator with the defaults described alongside this
// system: widen after 5 join iterations, narrow for 2 steps.
func New() *Evaluator {
	return &Evaluator{WideningThreshold: 5, NarrowingIterations: 2, DisjunctionBound: 4, Logger: zap.NewNop()}
}

// Run evaluates the whole program starting from the empty store and
// returns the store at the final program point together with every
// diagnostic produced along the way.
func (e *Evaluator) Run(program *astree.Sequence) (absstore.Store, []diagnostics.Diagnostic) {
	return e.evalSeq(absstore.New(), program, true)
}

func varHash(k string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(k); i++ {
		h ^= uint32(k[i])
		h *= 16777619
	}
	return h
}

type stringHasher struct{}

func (stringHasher) Hash(s string) uint32      { return varHash(s) }
func (stringHasher) Equal(a, b string) bool    { return a == b }

var precondHasher immutable.Hasher[string] = stringHasher{}

// evalExpr evaluates e against s and returns its interval plus any
// diagnostics produced (undeclared reads, division by zero, overflow
// saturation). Expression evaluation never mutates s.
func (e *Evaluator) evalExpr(s absstore.Store, expr astree.Expr) (interval.Interval, []diagnostics.Diagnostic) {
	switch n := expr.(type) {
	case *astree.IntLit:
		return interval.Point(n.Value), nil
	case *astree.VarRef:
		if s.IsBottom() {
			return interval.Bottom, nil
		}
		if !s.HasAny(n.Name) {
			return interval.Top, []diagnostics.Diagnostic{{
				Kind: diagnostics.Warning, Pos: n.Pos,
				Message: fmt.Sprintf("read of undeclared variable %q", n.Name),
			}}
		}
		return s.Get(n.Name), nil
	case *astree.ArithExpr:
		l, dl := e.evalExpr(s, n.Left)
		r, dr := e.evalExpr(s, n.Right)
		diags := append(dl, dr...)
		switch n.Op {
		case astree.Add:
			v, sat := interval.Add(l, r)
			if sat {
				diags = append(diags, overflowDiag(n.Pos))
			}
			return v, diags
		case astree.Sub:
			v, sat := interval.Sub(l, r)
			if sat {
				diags = append(diags, overflowDiag(n.Pos))
			}
			return v, diags
		case astree.Mul:
			v, sat := interval.Mul(l, r)
			if sat {
				diags = append(diags, overflowDiag(n.Pos))
			}
			return v, diags
		case astree.Div:
			if r.MayBeZero() {
				diags = append(diags, diagnostics.Diagnostic{
					Kind: diagnostics.Warning, Pos: n.Pos, Message: "possible division by zero",
				})
				return interval.Top, diags
			}
			return interval.Div(l, r), diags
		default:
			return interval.Top, diags
		}
	default:
		return interval.Top, nil
	}
}

func overflowDiag(pos astree.Pos) diagnostics.Diagnostic {
	return diagnostics.Diagnostic{Kind: diagnostics.Warning, Pos: pos, Message: "integer overflow saturated to infinity"}
}

// evalSeq threads s through stmts left to right. Once the store
// becomes bottom, remaining statements are skipped (per the Sequence
// evaluation rule) and, when collect is set, their nested assertions
// are reported as vacuously verified instead of silently dropped.
func (e *Evaluator) evalSeq(s absstore.Store, seq *astree.Sequence, collect bool) (absstore.Store, []diagnostics.Diagnostic) {
	var diags []diagnostics.Diagnostic
	for i, stmt := range seq.Stmts {
		if s.IsBottom() {
			if collect {
				for _, rest := range seq.Stmts[i:] {
					diags = append(diags, vacuousDiags(rest)...)
				}
			}
			break
		}
		var d []diagnostics.Diagnostic
		s, d = e.evalStmt(s, stmt, collect)
		if collect {
			diags = append(diags, d...)
		}
	}
	return s, diags
}

// vacuousDiags walks stmt (and its nested sequences/branches) looking
// for PostCon nodes, reporting each as vacuously OK because the
// program point containing it is unreachable.
func vacuousDiags(stmt astree.Stmt) []diagnostics.Diagnostic {
	var out []diagnostics.Diagnostic
	var walk func(astree.Stmt)
	walk = func(s astree.Stmt) {
		switch n := s.(type) {
		case *astree.Sequence:
			for _, c := range n.Stmts {
				walk(c)
			}
		case *astree.PostCon:
			out = append(out, diagnostics.Diagnostic{Kind: diagnostics.OK, Pos: n.Pos, Message: "unreachable"})
		case *astree.IfElse:
			walk(n.Then)
			if n.Else != nil {
				walk(n.Else)
			}
		case *astree.While:
			walk(n.Body)
		}
	}
	walk(stmt)
	return out
}

// evalStmt dispatches on node kind per the statement evaluator's
// semantics. When collect is false the call is part of a silent
// fixpoint iteration: the returned store is exact but no diagnostics
// are produced, so loop convergence does not re-report the same
// condition on every pass.
func (e *Evaluator) evalStmt(s absstore.Store, stmt astree.Stmt, collect bool) (absstore.Store, []diagnostics.Diagnostic) {
	switch n := stmt.(type) {
	case *astree.Declaration:
		if !s.Has(n.Name) {
			s = s.Set(n.Name, interval.Top)
		}
		return s, nil

	case *astree.Assignment:
		v, diags := e.evalExpr(s, n.Expr)
		s = s.Set(n.Name, v)
		if !collect {
			return s, nil
		}
		return s, diags

	case *astree.PreCon:
		return e.evalPreCon(s, n, collect)

	case *astree.PostCon:
		if !collect {
			return s, nil
		}
		return s, e.checkPostCon(s, n)

	case *astree.IfElse:
		return e.evalIfElse(s, n, collect)

	case *astree.While:
		return e.evalWhile(s, n, collect)

	default:
		return s, nil
	}
}

// evalPreCon parses each conjoined comparison as "variable vs integer
// literal" (canonicalizing the reversed form), narrows that variable's
// precondition interval, and installs the result both as the working
// store and as the read-only precondition map.
func (e *Evaluator) evalPreCon(s absstore.Store, n *astree.PreCon, collect bool) (absstore.Store, []diagnostics.Diagnostic) {
	acc := make(map[string]interval.Interval)
	var diags []diagnostics.Diagnostic
	for _, c := range n.Conds {
		cmp, ok := c.(*astree.Comparison)
		if !ok {
			continue
		}
		name, bound, op, ok := literalComparison(cmp)
		if !ok {
			if collect {
				diags = append(diags, diagnostics.Diagnostic{
					Kind: diagnostics.Warning, Pos: cmp.Pos,
					Message: "ill-formed precondition clause (expected variable vs. integer literal); ignored",
				})
			}
			continue
		}
		cur, ok := acc[name]
		if !ok {
			cur = interval.Top
		}
		acc[name] = interval.Meet(cur, boundFromOp(op, bound))
	}

	pre := immutable.NewMap[string, interval.Interval](precondHasher)
	for name, iv := range acc {
		pre = pre.Set(name, iv)
		s = s.Set(name, iv)
	}
	s = s.WithPrecondition(pre)
	return s, diags
}

// literalComparison recognizes a "variable vs integer literal"
// comparison in either operand order, canonicalizing to variable name,
// literal value, and the operator as if the variable were on the left.
func literalComparison(cmp *astree.Comparison) (name string, value int64, op astree.CmpOp, ok bool) {
	if v, isVar := cmp.Left.(*astree.VarRef); isVar {
		if lit, isLit := cmp.Right.(*astree.IntLit); isLit {
			return v.Name, lit.Value, cmp.Op, true
		}
	}
	if lit, isLit := cmp.Left.(*astree.IntLit); isLit {
		if v, isVar := cmp.Right.(*astree.VarRef); isVar {
			return v.Name, lit.Value, cmp.Op.Flip(), true
		}
	}
	return "", 0, 0, false
}

func boundFromOp(op astree.CmpOp, n int64) interval.Interval {
	switch op {
	case astree.Lt:
		return interval.AtMost(n - 1)
	case astree.Le:
		return interval.AtMost(n)
	case astree.Gt:
		return interval.AtLeast(n + 1)
	case astree.Ge:
		return interval.AtLeast(n)
	case astree.Eq:
		return interval.Point(n)
	case astree.Ne:
		return interval.Top // exact disequality needs the disjunctive store; see absstore.DisjointStore
	default:
		return interval.Top
	}
}

// checkPostCon evaluates the assertion's two sides and reports its
// verdict, treating a bottom store as vacuous verification.
func (e *Evaluator) checkPostCon(s absstore.Store, n *astree.PostCon) []diagnostics.Diagnostic {
	if s.IsBottom() {
		return []diagnostics.Diagnostic{{Kind: diagnostics.OK, Pos: n.Pos, Message: "unreachable"}}
	}
	cmp, ok := n.Cond.(*astree.Comparison)
	if !ok {
		return []diagnostics.Diagnostic{{Kind: diagnostics.Warning, Pos: n.Pos, Message: "unsupported assertion form"}}
	}
	l, dl := e.evalExpr(s, cmp.Left)
	r, dr := e.evalExpr(s, cmp.Right)
	verdict := assertcheck.Check(cmp.Op, l, r)
	out := append(dl, dr...)
	var kind diagnostics.Kind
	var msg string
	switch verdict {
	case assertcheck.OK:
		kind = diagnostics.OK
	case assertcheck.Fail:
		kind = diagnostics.FAIL
		msg = fmt.Sprintf("%s %s %s", l, cmp.Op, r)
	case assertcheck.Unknown:
		kind = diagnostics.Unknown
		msg = fmt.Sprintf("%s %s %s", l, cmp.Op, r)
	}
	out = append(out, diagnostics.Diagnostic{Kind: kind, Pos: n.Pos, Message: msg})
	return out
}
