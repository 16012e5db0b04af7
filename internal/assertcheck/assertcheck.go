// Package assertcheck evaluates assertion conditions against an
// abstract store and classifies the result as verified, falsified, or
// unknown.
package assertcheck

import (
	"github.com/impcheck/impcheck/internal/astree"
	"github.com/impcheck/impcheck/internal/interval"
)

// Verdict is the outcome of checking one assertion.
type Verdict int

const (
	OK Verdict = iota
	Fail
	Unknown
)

func (v Verdict) String() string {
	switch v {
	case OK:
		return "OK"
	case Fail:
		return "FAIL"
	case Unknown:
		return "UNKNOWN"
	default:
		return "?"
	}
}

// Check evaluates op on the two already-computed interval operands L
// and R and returns the verdict, per the per-operator rules: a
// comparison is verified when every concrete pair satisfying L and R
// satisfies the comparison, falsified when no such pair does, and
// unknown otherwise.
func Check(op astree.CmpOp, l, r interval.Interval) Verdict {
	if l.IsBottom() || r.IsBottom() {
		// A bottom operand can only arise from a bottom store, which is
		// handled as vacuous truth by the caller before reaching here;
		// defensively treat it as verified rather than unknown.
		return OK
	}

	lLo, lHi, lLoFin, lHiFin := l.Bounds()
	rLo, rHi, rLoFin, rHiFin := r.Bounds()

	switch op {
	case astree.Eq:
		ln, lok := l.IsPoint()
		rn, rok := r.IsPoint()
		if lok && rok {
			if ln == rn {
				return OK
			}
			return Fail
		}
		if !rangesOverlap(lLo, lHi, lLoFin, lHiFin, rLo, rHi, rLoFin, rHiFin) {
			return Fail
		}
		return Unknown
	case astree.Ne:
		if !rangesOverlap(lLo, lHi, lLoFin, lHiFin, rLo, rHi, rLoFin, rHiFin) {
			return OK
		}
		ln, lok := l.IsPoint()
		rn, rok := r.IsPoint()
		if lok && rok && ln == rn {
			return Fail
		}
		return Unknown
	case astree.Le:
		if lHiFin && rLoFin && lHi <= rLo {
			return OK
		}
		if lLoFin && rHiFin && lLo > rHi {
			return Fail
		}
		return Unknown
	case astree.Lt:
		if lHiFin && rLoFin && lHi < rLo {
			return OK
		}
		if lLoFin && rHiFin && lLo >= rHi {
			return Fail
		}
		return Unknown
	case astree.Ge:
		if lLoFin && rHiFin && lLo >= rHi {
			return OK
		}
		if lHiFin && rLoFin && lHi < rLo {
			return Fail
		}
		return Unknown
	case astree.Gt:
		if lLoFin && rHiFin && lLo > rHi {
			return OK
		}
		if lHiFin && rLoFin && lHi <= rLo {
			return Fail
		}
		return Unknown
	default:
		return Unknown
	}
}

func rangesOverlap(lLo, lHi int64, lLoFin, lHiFin bool, rLo, rHi int64, rLoFin, rHiFin bool) bool {
	if lHiFin && rLoFin && lHi < rLo {
		return false
	}
	if lLoFin && rHiFin && lLo > rHi {
		return false
	}
	return true
}
