package absstore

import (
	"sort"

	"github.com/impcheck/impcheck/internal/interval"
)

// DisjointStore is the optional per-variable disjunction extension:
// each variable maps to a bounded, sorted list of pairwise-disjoint
// intervals instead of a single interval. It makes equality and
// disequality refinement exact at the cost of a bounded blow-up in
// representation size, capped by maxComponents.
type DisjointStore struct {
	vars          map[string][]interval.Interval
	bottom        bool
	maxComponents int
}

// NewDisjointStore returns an empty disjunctive store bounding each
// variable to at most m components (m < 1 is treated as 1).
func NewDisjointStore(m int) *DisjointStore {
	if m < 1 {
		m = 1
	}
	return &DisjointStore{vars: make(map[string][]interval.Interval), maxComponents: m}
}

// IsBottom reports whether the store represents an unreachable point.
func (d *DisjointStore) IsBottom() bool { return d.bottom }

// Get returns the join of v's components, or interval.Top if absent.
// This is the same value a caller would see by flattening back to the
// single-interval domain.
func (d *DisjointStore) Get(v string) interval.Interval {
	if d.bottom {
		return interval.Bottom
	}
	comps, ok := d.vars[v]
	if !ok || len(comps) == 0 {
		return interval.Top
	}
	out := interval.Bottom
	for _, c := range comps {
		out = interval.Join(out, c)
	}
	return out
}

// Components returns the disjoint components currently stored for v,
// or a single interval.Top component if v is unconstrained.
func (d *DisjointStore) Components(v string) []interval.Interval {
	if d.bottom {
		return nil
	}
	if comps, ok := d.vars[v]; ok {
		out := make([]interval.Interval, len(comps))
		copy(out, comps)
		return out
	}
	return []interval.Interval{interval.Top}
}

// Set replaces v's components with the single interval x, matching
// the flat store's Set semantics: x = Bottom collapses the store.
func (d *DisjointStore) Set(v string, x interval.Interval) {
	if d.bottom {
		return
	}
	if x.IsBottom() {
		d.bottom = true
		return
	}
	d.vars[v] = []interval.Interval{x}
}

// ExcludePoint removes the singleton {c} from v's components, exactly
// refining a `v != c` constraint. A component straddling c is split
// into the two halves either side of it. If the resulting component
// count would exceed maxComponents, the components are merged back
// down to their join, trading precision for the termination bound.
func (d *DisjointStore) ExcludePoint(v string, c int64) {
	if d.bottom {
		return
	}
	comps := d.Components(v)
	var out []interval.Interval
	for _, comp := range comps {
		if comp.IsBottom() {
			continue
		}
		if !comp.Contains(c) {
			out = append(out, comp)
			continue
		}
		lo, hi, loFinite, hiFinite := comp.Bounds()
		if loFinite && lo == c && hiFinite && hi == c {
			continue // comp was exactly {c}; drop it entirely
		}
		if !loFinite || lo < c {
			left := cappedBelow(comp, c-1)
			if !left.IsBottom() {
				out = append(out, left)
			}
		}
		if !hiFinite || hi > c {
			right := cappedAbove(comp, c+1)
			if !right.IsBottom() {
				out = append(out, right)
			}
		}
	}
	d.setComponents(v, out)
}

// IntersectPoint narrows v's components to the singleton {c}, the
// exact refinement of `v == c`.
func (d *DisjointStore) IntersectPoint(v string, c int64) {
	if d.bottom {
		return
	}
	point := interval.Point(c)
	var out []interval.Interval
	for _, comp := range d.Components(v) {
		m := interval.Meet(comp, point)
		if !m.IsBottom() {
			out = append(out, m)
		}
	}
	d.setComponents(v, out)
}

func (d *DisjointStore) setComponents(v string, comps []interval.Interval) {
	if len(comps) == 0 {
		d.bottom = true
		return
	}
	comps = coalesce(comps)
	if len(comps) > d.maxComponents {
		merged := interval.Bottom
		for _, c := range comps {
			merged = interval.Join(merged, c)
		}
		comps = []interval.Interval{merged}
	}
	d.vars[v] = comps
}

// cappedBelow returns the sub-interval of comp with upper bound
// min(comp.hi, hi).
func cappedBelow(comp interval.Interval, hi int64) interval.Interval {
	return interval.Meet(comp, interval.AtMost(hi))
}

// cappedAbove returns the sub-interval of comp with lower bound
// max(comp.lo, lo).
func cappedAbove(comp interval.Interval, lo int64) interval.Interval {
	return interval.Meet(comp, interval.AtLeast(lo))
}

// coalesce sorts components by lower bound and merges adjacent or
// overlapping ones, keeping the list both disjoint and minimal.
func coalesce(comps []interval.Interval) []interval.Interval {
	if len(comps) <= 1 {
		return comps
	}
	sort.Slice(comps, func(i, j int) bool {
		li, _, _, _ := comps[i].Bounds()
		lj, _, _, _ := comps[j].Bounds()
		return li < lj
	})
	out := []interval.Interval{comps[0]}
	for _, c := range comps[1:] {
		last := out[len(out)-1]
		_, lastHi, _, lastHiFinite := last.Bounds()
		curLo, _, _, _ := c.Bounds()
		adjacent := lastHiFinite && curLo <= lastHi+1
		if adjacent || !interval.Meet(last, c).IsBottom() {
			out[len(out)-1] = interval.Join(last, c)
			continue
		}
		out = append(out, c)
	}
	return out
}
