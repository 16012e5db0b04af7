package worklist

import (
	"github.com/impcheck/impcheck/internal/absstore"
	"github.com/impcheck/impcheck/internal/astree"
	"github.com/impcheck/impcheck/internal/diagnostics"
	"github.com/impcheck/impcheck/internal/eval"
)

// Solver runs the global worklist fixpoint over a Graph built by
// FromSequence, sharing its per-statement and per-condition semantics
// with eval.Evaluator. WideningThreshold and NarrowingIterations mirror
// the structural evaluator's loop-handler knobs, applied here at every
// KindCond node marked IsLoop instead of at one recursive call site.
type Solver struct {
	Eval                *eval.Evaluator
	WideningThreshold   int
	NarrowingIterations int
}

// New returns a Solver that shares ev's widening/narrowing knobs.
func New(ev *eval.Evaluator) *Solver {
	return &Solver{Eval: ev, WideningThreshold: ev.WideningThreshold, NarrowingIterations: ev.NarrowingIterations}
}

// Run solves g to a fixpoint starting from Entry bound to init, then
// performs optional narrowing and one diagnostic-collecting pass, and
// returns the store at Exit together with every diagnostic produced.
func (s *Solver) Run(g *Graph, init absstore.Store) (absstore.Store, []diagnostics.Diagnostic) {
	in, out := s.fixpoint(g, init)
	s.narrow(g, in, out)
	diags := s.collect(g, in)
	return in[g.Exit], diags
}

// fixpoint iterates the worklist until every node's incoming state
// stabilizes, widening the in-state of loop-condition nodes after
// WideningThreshold visits.
func (s *Solver) fixpoint(g *Graph, init absstore.Store) (in, out map[*Node]absstore.Store) {
	in = make(map[*Node]absstore.Store, len(g.nodes))
	out = make(map[*Node]absstore.Store, len(g.nodes))
	visits := make(map[*Node]int, len(g.nodes))
	for _, n := range g.nodes {
		in[n] = absstore.Bottom
		out[n] = absstore.Bottom
	}
	in[g.Entry] = init
	out[g.Entry] = init

	queue := []*Node{g.Entry}
	queued := map[*Node]bool{g.Entry: true}
	for _, e := range g.succs[g.Entry] {
		queue = append(queue, e.To)
		queued[e.To] = true
	}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		queued[n] = false
		if n == g.Entry {
			continue // Entry has no predecessors; its state stays init
		}

		newIn := s.joinPreds(g, n, out)
		if n.IsLoop {
			visits[n]++
			if visits[n] > s.WideningThreshold {
				newIn = absstore.Widen(in[n], newIn)
			}
		}
		inChanged := !absstore.Equal(newIn, in[n])
		in[n] = newIn

		newOut := s.transfer(n, newIn)
		outChanged := !absstore.Equal(newOut, out[n])
		out[n] = newOut

		if !inChanged && !outChanged {
			continue
		}
		for _, e := range g.succs[n] {
			if !queued[e.To] {
				queue = append(queue, e.To)
				queued[e.To] = true
			}
		}
	}
	return in, out
}

// joinPreds computes the incoming state of n as the join of every
// predecessor's outgoing state, refined along signed (KindCond) edges.
func (s *Solver) joinPreds(g *Graph, n *Node, out map[*Node]absstore.Store) absstore.Store {
	acc := absstore.Bottom
	for _, e := range g.preds[n] {
		val := out[e.From]
		if e.From.Kind == KindCond {
			val = s.Eval.Refine(val, e.From.Cond, *e.Sign)
		}
		acc = absstore.Join(acc, val)
	}
	return acc
}

// transfer applies n's per-node semantics to produce its outgoing
// store. KindCond's own outgoing store is simply its incoming store:
// all refinement happens on the signed edges leaving it, in joinPreds.
func (s *Solver) transfer(n *Node, in absstore.Store) absstore.Store {
	switch n.Kind {
	case KindEntry, KindExit, KindCond:
		return in
	case KindDecl, KindAssign:
		out, _ := s.Eval.Step(in, n.Stmt)
		return out
	case KindPreCon:
		out, _ := s.Eval.EvalPreCon(in, n.Stmt.(*astree.PreCon))
		return out
	case KindPostCon:
		return in
	default:
		return in
	}
}

// narrow performs up to NarrowingIterations standard (non-widening)
// passes over every node's in-state: it recomputes the join of
// predecessors without widening, accepts the candidate only when it is
// a subset of the current (possibly widened) state, then tightens
// infinite bounds towards it with absstore.Narrow, mirroring the
// structural evaluator's bounded narrowing pass.
func (s *Solver) narrow(g *Graph, in, out map[*Node]absstore.Store) {
	for i := 0; i < s.NarrowingIterations; i++ {
		changed := false
		for _, n := range g.nodes {
			if n == g.Entry {
				continue
			}
			candidate := s.joinPreds(g, n, out)
			if !absstore.Subset(candidate, in[n]) {
				continue // widening-grown bound; narrowing must only tighten
			}
			newIn := absstore.Narrow(in[n], candidate)
			if absstore.Equal(newIn, in[n]) {
				continue
			}
			in[n] = newIn
			out[n] = s.transfer(n, newIn)
			changed = true
		}
		if !changed {
			break
		}
	}
}

// collect performs a final pass producing the diagnostics that belong
// to the converged fixpoint: assignment/declaration/precondition
// diagnostics (division by zero, overflow, undeclared reads, ill-formed
// clauses) and assertion verdicts.
func (s *Solver) collect(g *Graph, in map[*Node]absstore.Store) []diagnostics.Diagnostic {
	var diags []diagnostics.Diagnostic
	for _, n := range g.nodes {
		switch n.Kind {
		case KindDecl, KindAssign:
			_, d := s.Eval.Step(in[n], n.Stmt)
			diags = append(diags, d...)
		case KindPreCon:
			_, d := s.Eval.EvalPreCon(in[n], n.Stmt.(*astree.PreCon))
			diags = append(diags, d...)
		case KindPostCon:
			store := in[n]
			if store.IsBottom() {
				diags = append(diags, diagnostics.Diagnostic{
					Kind: diagnostics.OK, Pos: n.Stmt.Position(), Message: "unreachable",
				})
				continue
			}
			diags = append(diags, s.Eval.CheckPostCon(store, n.Stmt.(*astree.PostCon))...)
		}
	}
	return diags
}
