// Package interval implements the integer interval abstract domain:
// closed ranges [lo, hi] with a distinguished bottom (no value) and
// top ([-inf, +inf]) element, lattice operations, and sound saturating
// arithmetic.
package interval

import "fmt"

// bound represents one endpoint of an interval, plus the two
// infinities used by Top and by widening.
type bound struct {
	val      int64
	isNegInf bool
	isPosInf bool
}

func finite(v int64) bound { return bound{val: v} }

var negInf = bound{isNegInf: true}
var posInf = bound{isPosInf: true}

func (b bound) less(o bound) bool {
	if b.isNegInf {
		return !o.isNegInf
	}
	if o.isPosInf {
		return !b.isPosInf
	}
	if b.isPosInf || o.isNegInf {
		return false
	}
	return b.val < o.val
}

func (b bound) lessEq(o bound) bool {
	return b == o || b.less(o)
}

func minBound(a, b bound) bound {
	if a.less(b) {
		return a
	}
	return b
}

func maxBound(a, b bound) bound {
	if a.less(b) {
		return b
	}
	return a
}

// Interval is either the bottom element (IsBottom() true) or a closed
// range [Lo, Hi] where Lo and Hi may be +/-infinity. The zero value is
// bottom.
type Interval struct {
	lo, hi bound
	bottom bool
}

// Bottom is the empty interval: no concrete value satisfies it.
var Bottom = Interval{bottom: true}

// Top is the unconstrained interval [-inf, +inf].
var Top = Interval{lo: negInf, hi: posInf}

// New builds a closed interval [lo, hi] with finite bounds. If lo > hi
// the result canonicalizes to Bottom.
func New(lo, hi int64) Interval {
	return canon(finite(lo), finite(hi))
}

// Point builds the singleton interval [n, n].
func Point(n int64) Interval {
	return New(n, n)
}

// AtLeast builds [lo, +inf).
func AtLeast(lo int64) Interval {
	return canon(finite(lo), posInf)
}

// AtMost builds (-inf, hi].
func AtMost(hi int64) Interval {
	return canon(negInf, finite(hi))
}

func canon(lo, hi bound) Interval {
	if hi.less(lo) {
		return Bottom
	}
	return Interval{lo: lo, hi: hi}
}

// IsBottom reports whether x is the empty interval.
func (x Interval) IsBottom() bool { return x.bottom }

// IsTop reports whether x is exactly the unconstrained interval.
func (x Interval) IsTop() bool { return !x.bottom && x.lo == negInf && x.hi == posInf }

// IsPoint reports whether x is a finite singleton, and if so its value.
func (x Interval) IsPoint() (int64, bool) {
	if x.bottom || x.lo.isNegInf || x.lo.isPosInf || x.hi != x.lo {
		return 0, false
	}
	return x.lo.val, true
}

// Bounds returns the finite lower/upper bound of x along with whether
// each side is actually finite. Calling it on Bottom panics; callers
// must check IsBottom first.
func (x Interval) Bounds() (lo, hi int64, loFinite, hiFinite bool) {
	if x.bottom {
		panic("interval: Bounds called on Bottom")
	}
	loFinite = !x.lo.isNegInf
	hiFinite = !x.hi.isPosInf
	if loFinite {
		lo = x.lo.val
	}
	if hiFinite {
		hi = x.hi.val
	}
	return
}

// Contains reports whether n lies within x.
func (x Interval) Contains(n int64) bool {
	if x.bottom {
		return false
	}
	return x.lo.lessEq(finite(n)) && finite(n).lessEq(x.hi)
}

// Equal is structural equality, including the Bottom case.
func (x Interval) Equal(y Interval) bool {
	if x.bottom != y.bottom {
		return false
	}
	if x.bottom {
		return true
	}
	return x.lo == y.lo && x.hi == y.hi
}

// Subset reports whether x is included in y (x sqsubseteq y).
func (x Interval) Subset(y Interval) bool {
	if x.bottom {
		return true
	}
	if y.bottom {
		return false
	}
	return y.lo.lessEq(x.lo) && x.hi.lessEq(y.hi)
}

// Join computes the least upper bound. Non-contiguous intervals are
// collapsed into their enclosing range, over-approximating the union.
func Join(x, y Interval) Interval {
	if x.bottom {
		return y
	}
	if y.bottom {
		return x
	}
	return Interval{lo: minBound(x.lo, y.lo), hi: maxBound(x.hi, y.hi)}
}

// Meet computes the greatest lower bound (exact intersection).
func Meet(x, y Interval) Interval {
	if x.bottom || y.bottom {
		return Bottom
	}
	return canon(maxBound(x.lo, y.lo), minBound(x.hi, y.hi))
}

// Widen accelerates convergence of an ascending chain: given the
// previous element x and the newly computed element y (with x sqsubseteq y
// expected), any bound that grew is pushed straight to infinity.
func Widen(x, y Interval) Interval {
	if x.bottom {
		return y
	}
	if y.bottom {
		return x
	}
	lo := x.lo
	if y.lo.less(x.lo) {
		lo = negInf
	}
	hi := x.hi
	if x.hi.less(y.hi) {
		hi = posInf
	}
	return Interval{lo: lo, hi: hi}
}

// Narrow tightens x using the freshly computed, non-widened estimate
// y: any bound of x that is currently infinite is replaced by the
// corresponding bound of y; finite bounds of x are left untouched.
// Used for the bounded narrowing pass after widening converges.
func Narrow(x, y Interval) Interval {
	if x.bottom || y.bottom {
		return Bottom
	}
	lo := x.lo
	if x.lo.isNegInf {
		lo = y.lo
	}
	hi := x.hi
	if x.hi.isPosInf {
		hi = y.hi
	}
	return canon(lo, hi)
}

const (
	maxInt64 = int64(1<<63 - 1)
	minInt64 = -maxInt64 - 1
)

// addSat adds two bounds with saturation at the infinities; the
// returned bool reports whether saturation occurred.
func addSat(a, b bound) (bound, bool) {
	if a.isNegInf || b.isNegInf {
		if a.isPosInf || b.isPosInf {
			return bound{}, true // -inf + +inf: treat as saturated top contribution
		}
		return negInf, false
	}
	if a.isPosInf || b.isPosInf {
		return posInf, false
	}
	// both finite
	sum := a.val + b.val
	overflow := (b.val > 0 && sum < a.val) || (b.val < 0 && sum > a.val)
	if overflow {
		if b.val > 0 {
			return posInf, true
		}
		return negInf, true
	}
	return finite(sum), false
}

func negBound(a bound) bound {
	if a.isNegInf {
		return posInf
	}
	if a.isPosInf {
		return negInf
	}
	if a.val == minInt64 {
		return posInf
	}
	return finite(-a.val)
}

// Add computes sound, saturating interval addition.
func Add(x, y Interval) (Interval, bool) {
	if x.bottom || y.bottom {
		return Bottom, false
	}
	lo, s1 := addSat(x.lo, y.lo)
	hi, s2 := addSat(x.hi, y.hi)
	return canon(lo, hi), s1 || s2
}

// Sub computes sound, saturating interval subtraction.
func Sub(x, y Interval) (Interval, bool) {
	if x.bottom || y.bottom {
		return Bottom, false
	}
	lo, s1 := addSat(x.lo, negBound(y.hi))
	hi, s2 := addSat(x.hi, negBound(y.lo))
	return canon(lo, hi), s1 || s2
}

func mulSat(a, b bound) (bound, bool) {
	if (a.isNegInf || a.isPosInf) || (b.isNegInf || b.isPosInf) {
		neg := false
		if a.isNegInf || a.isPosInf {
			neg = a.isNegInf
		}
		bNeg := false
		if b.isNegInf || b.isPosInf {
			bNeg = b.isNegInf
		}
		// At least one side is infinite. Zero times infinity collapses to
		// zero; otherwise the sign of the infinite result is determined by
		// the signs of the operands (the finite one's value when present).
		if !(a.isNegInf || a.isPosInf) {
			if a.val == 0 {
				return finite(0), false
			}
			neg = a.val < 0
		}
		if !(b.isNegInf || b.isPosInf) {
			if b.val == 0 {
				return finite(0), false
			}
			bNeg = b.val < 0
		}
		if neg != bNeg {
			return negInf, false
		}
		return posInf, false
	}
	p := a.val * b.val
	if a.val != 0 && p/a.val != b.val {
		if (a.val > 0) == (b.val > 0) {
			return posInf, true
		}
		return negInf, true
	}
	return finite(p), false
}

// Mul computes sound, saturating interval multiplication via the
// four corner products.
func Mul(x, y Interval) (Interval, bool) {
	if x.bottom || y.bottom {
		return Bottom, false
	}
	corners := [4]bound{}
	sats := [4]bool{}
	corners[0], sats[0] = mulSat(x.lo, y.lo)
	corners[1], sats[1] = mulSat(x.lo, y.hi)
	corners[2], sats[2] = mulSat(x.hi, y.lo)
	corners[3], sats[3] = mulSat(x.hi, y.hi)
	lo, hi := corners[0], corners[0]
	sat := sats[0]
	for i := 1; i < 4; i++ {
		lo = minBound(lo, corners[i])
		hi = maxBound(hi, corners[i])
		sat = sat || sats[i]
	}
	return canon(lo, hi), sat
}

func divSat(a, b bound) bound {
	if b.isNegInf || b.isPosInf {
		return finite(0)
	}
	if a.isNegInf {
		if b.val > 0 {
			return negInf
		}
		return posInf
	}
	if a.isPosInf {
		if b.val > 0 {
			return posInf
		}
		return negInf
	}
	return finite(a.val / b.val)
}

// Div computes interval division truncating toward zero. If the
// divisor interval straddles (or is) zero, the caller is expected to
// have already detected that (MayBeZero) and Div is not sound to
// call; it returns Top defensively in that case.
func Div(x, y Interval) Interval {
	if x.bottom || y.bottom {
		return Bottom
	}
	if y.MayBeZero() {
		return Top
	}
	corners := [4]bound{
		divSat(x.lo, y.lo), divSat(x.lo, y.hi),
		divSat(x.hi, y.lo), divSat(x.hi, y.hi),
	}
	lo, hi := corners[0], corners[0]
	for _, c := range corners[1:] {
		lo = minBound(lo, c)
		hi = maxBound(hi, c)
	}
	return canon(lo, hi)
}

// MayBeZero reports whether 0 could be a value of x (including Top
// and Bottom, for which it is conservatively/vacuously false on
// Bottom since no concrete value exists there).
func (x Interval) MayBeZero() bool {
	if x.bottom {
		return false
	}
	return x.Contains(0)
}

// Neg negates an interval: [-hi, -lo].
func Neg(x Interval) Interval {
	if x.bottom {
		return Bottom
	}
	return canon(negBound(x.hi), negBound(x.lo))
}

func (b bound) String() string {
	switch {
	case b.isNegInf:
		return "-inf"
	case b.isPosInf:
		return "+inf"
	default:
		return fmt.Sprintf("%d", b.val)
	}
}

// String renders x as "[lo, hi]" or "bottom".
func (x Interval) String() string {
	if x.bottom {
		return "bottom"
	}
	return fmt.Sprintf("[%s, %s]", x.lo, x.hi)
}
