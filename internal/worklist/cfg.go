// Package worklist implements the "equational / fixpoint formulation"
// alternative evaluator described in spec.md §9: it builds a control-
// flow graph over internal/astree nodes, generalizing the teacher's
// go/ast-based basic-block construction, and solves the resulting
// system of equations with a global forward worklist, instead of the
// structural evaluator's recursive AST traversal. Per-statement and
// per-condition semantics are shared with internal/eval (see
// eval.Evaluator's exported Step/Refine/EvalPreCon/CheckPostCon), so
// the two formulations are guaranteed to agree on what a single
// statement means and can only diverge, if at all, in how they
// iterate — exactly the property spec.md §9 asks an implementation
// choosing both formulations to demonstrate.
package worklist

import (
	"fmt"

	"github.com/impcheck/impcheck/internal/astree"
)

// NodeKind classifies a CFG node.
type NodeKind int

const (
	KindEntry NodeKind = iota
	KindExit
	KindDecl
	KindAssign
	KindPreCon
	KindPostCon
	KindCond // evaluates an IfElse or While condition; has exactly two outgoing edges, signed true/false
)

// Node is one basic block of the CFG. Every node but KindCond carries
// at most one statement and has a single kind of outgoing edge
// (unconditional); KindCond carries the branching condition and two
// signed outgoing edges.
type Node struct {
	ID     int
	Kind   NodeKind
	Stmt   astree.Stmt // set for KindDecl, KindAssign, KindPreCon, KindPostCon
	Cond   astree.Cond // set for KindCond
	IsLoop bool        // true when this KindCond node is a while-condition (a back-edge target)
	Label  string
}

func (n *Node) String() string { return n.Label }

// Edge is one outgoing edge of a Node. Sign is nil on an unconditional
// edge; otherwise it points at the boolean value of the owning
// KindCond node's condition that this edge represents.
type Edge struct {
	To   *Node
	Sign *bool
}

// InEdge is one incoming edge of a Node, paired with the sign of the
// predecessor's condition it represents (nil on an unconditional edge).
type InEdge struct {
	From *Node
	Sign *bool
}

// Graph is the control-flow graph of one analyzed program.
type Graph struct {
	Entry, Exit *Node

	nodes []*Node
	succs map[*Node][]Edge
	preds map[*Node][]InEdge
}

// Blocks returns every node in the graph, in construction order
// (Entry first, Exit last).
func (g *Graph) Blocks() []*Node { return g.nodes }

// Succs returns n's outgoing edges.
func (g *Graph) Succs(n *Node) []Edge { return g.succs[n] }

// Preds returns n's incoming edges, each paired with the sign of the
// predecessor condition it was taken under (nil if unconditional).
func (g *Graph) Preds(n *Node) []InEdge { return g.preds[n] }

func (g *Graph) newNode(kind NodeKind, stmt astree.Stmt, cond astree.Cond, label string) *Node {
	n := &Node{ID: len(g.nodes), Kind: kind, Stmt: stmt, Cond: cond, Label: label}
	g.nodes = append(g.nodes, n)
	return n
}

func (g *Graph) connect(from, to *Node, sign *bool) {
	g.succs[from] = append(g.succs[from], Edge{To: to, Sign: sign})
	g.preds[to] = append(g.preds[to], InEdge{From: from, Sign: sign})
}

// pending is a dangling edge: an already-built node whose successor
// is not yet known, optionally signed (the true/false arm of a
// KindCond predecessor).
type pending struct {
	from *Node
	sign *bool
}

func (g *Graph) connectPending(preds []pending, to *Node) {
	for _, p := range preds {
		g.connect(p.from, to, p.sign)
	}
}

var (
	signTrue  = true
	signFalse = false
)

// FromSequence builds the CFG of a whole program.
func FromSequence(seq *astree.Sequence) *Graph {
	g := &Graph{succs: make(map[*Node][]Edge), preds: make(map[*Node][]InEdge)}
	g.Entry = g.newNode(KindEntry, nil, nil, "ENTRY")
	tails := g.buildSeq(seq, []pending{{from: g.Entry}})
	g.Exit = g.newNode(KindExit, nil, nil, "EXIT")
	g.connectPending(tails, g.Exit)
	return g
}

func (g *Graph) buildSeq(seq *astree.Sequence, preds []pending) []pending {
	cur := preds
	for _, stmt := range seq.Stmts {
		cur = g.buildStmt(stmt, cur)
	}
	return cur
}

func (g *Graph) buildStmt(stmt astree.Stmt, preds []pending) []pending {
	switch n := stmt.(type) {
	case *astree.Sequence:
		return g.buildSeq(n, preds)

	case *astree.Declaration:
		node := g.newNode(KindDecl, n, nil, fmt.Sprintf("declaration - line %d", n.Pos.Line))
		g.connectPending(preds, node)
		return []pending{{from: node}}

	case *astree.Assignment:
		node := g.newNode(KindAssign, n, nil, fmt.Sprintf("assignment - line %d", n.Pos.Line))
		g.connectPending(preds, node)
		return []pending{{from: node}}

	case *astree.PreCon:
		node := g.newNode(KindPreCon, n, nil, fmt.Sprintf("precondition - line %d", n.Pos.Line))
		g.connectPending(preds, node)
		return []pending{{from: node}}

	case *astree.PostCon:
		node := g.newNode(KindPostCon, n, nil, fmt.Sprintf("assertion - line %d", n.Pos.Line))
		g.connectPending(preds, node)
		return []pending{{from: node}}

	case *astree.IfElse:
		cond := g.newNode(KindCond, nil, n.Cond, fmt.Sprintf("if condition - line %d", n.Pos.Line))
		g.connectPending(preds, cond)
		thenTails := g.buildSeq(n.Then, []pending{{from: cond, sign: &signTrue}})
		var elseTails []pending
		if n.Else != nil {
			elseTails = g.buildSeq(n.Else, []pending{{from: cond, sign: &signFalse}})
		} else {
			elseTails = []pending{{from: cond, sign: &signFalse}}
		}
		return append(thenTails, elseTails...)

	case *astree.While:
		cond := g.newNode(KindCond, nil, n.Cond, fmt.Sprintf("while condition - line %d", n.Pos.Line))
		cond.IsLoop = true
		g.connectPending(preds, cond)
		bodyTails := g.buildSeq(n.Body, []pending{{from: cond, sign: &signTrue}})
		g.connectPending(bodyTails, cond) // back edge
		return []pending{{from: cond, sign: &signFalse}}

	default:
		return preds
	}
}
