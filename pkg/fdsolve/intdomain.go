package fdsolve

import "sort"

// bitsetMaxRange bounds how wide an integer range may be before it is
// represented as a bitset; wider ranges that need holes punched fall back
// to intSparse's sorted exclusion list instead of paying for a large
// bitset. Chosen generously above typical small-domain CP models (board
// sizes, digit puzzles, bounded counters) while keeping memory bounded.
const bitsetMaxRange = 4096

// intInterval is a hole-free integer domain [lo, hi]. It is the cheapest
// representation and the one almost every variable starts life as.
type intInterval struct {
	lo, hi int64
}

func newIntInterval(lo, hi int64) *intInterval { return &intInterval{lo: lo, hi: hi} }

func (d *intInterval) Kind() VarKind { return KindInt }
func (d *intInterval) IsEmpty() bool { return d.lo > d.hi }
func (d *intInterval) IsFixed() bool { return d.lo == d.hi }
func (d *intInterval) Size() int {
	if d.hi < d.lo {
		return 0
	}
	return int(d.hi - d.lo + 1)
}
func (d *intInterval) Value() Value { return IntValue(d.lo) }
func (d *intInterval) Clone() Domain {
	c := *d
	return &c
}
func (d *intInterval) Min() int64         { return d.lo }
func (d *intInterval) Max() int64         { return d.hi }
func (d *intInterval) Contains(v int64) bool { return v >= d.lo && v <= d.hi }

func (d *intInterval) RemoveBelow(v int64) (Domain, Outcome) {
	if v <= d.lo {
		return d, Unchanged
	}
	nd := &intInterval{lo: v, hi: d.hi}
	return finishIntNarrow(nd)
}

func (d *intInterval) RemoveAbove(v int64) (Domain, Outcome) {
	if v >= d.hi {
		return d, Unchanged
	}
	nd := &intInterval{lo: d.lo, hi: v}
	return finishIntNarrow(nd)
}

func (d *intInterval) RemoveValue(v int64) (Domain, Outcome) {
	if v < d.lo || v > d.hi {
		return d, Unchanged
	}
	if v == d.lo {
		return d.RemoveBelow(v + 1)
	}
	if v == d.hi {
		return d.RemoveAbove(v - 1)
	}
	// Interior removal: this domain must grow a hole, so it is promoted to
	// a richer representation.
	return promoteAndRemove(d.lo, d.hi, v)
}

func (d *intInterval) Fix(v int64) (Domain, Outcome) {
	if !d.Contains(v) {
		return emptyIntDomain(), Failed
	}
	if d.IsFixed() {
		return d, Unchanged
	}
	return finishIntNarrow(&intInterval{lo: v, hi: v})
}

func (d *intInterval) Intersect(other IntDomain) (Domain, Outcome) {
	lo := maxI64(d.lo, other.Min())
	hi := minI64(d.hi, other.Max())
	if lo > hi {
		return emptyIntDomain(), Failed
	}
	changed := lo != d.lo || hi != d.hi
	if !changed {
		// Bounds match; still need to check whether other punches holes
		// inside this interval.
		if os, ok := other.(*intSparse); ok {
			return intersectIntervalWithSparse(d.lo, d.hi, os)
		}
		if ob, ok := other.(*intBitset); ok {
			return intersectIntervalWithBitset(d.lo, d.hi, ob)
		}
		return d, Unchanged
	}
	var base Domain = &intInterval{lo: lo, hi: hi}
	if os, ok := other.(*intSparse); ok {
		nd, out := intersectIntervalWithSparse(lo, hi, os)
		if out == Failed {
			return nd, Failed
		}
		base = nd
	} else if ob, ok := other.(*intBitset); ok {
		nd, out := intersectIntervalWithBitset(lo, hi, ob)
		if out == Failed {
			return nd, Failed
		}
		base = nd
	}
	return finishIntNarrow(base)
}

func (d *intInterval) ForEach(f func(v int64) bool) {
	for v := d.lo; v <= d.hi; v++ {
		if !f(v) {
			return
		}
	}
}

func intersectIntervalWithSparse(lo, hi int64, s *intSparse) (Domain, Outcome) {
	nd := &intSparse{lo: lo, hi: hi, holes: filterHoles(s.holes, lo, hi)}
	return finishIntNarrow(nd)
}

func intersectIntervalWithBitset(lo, hi int64, b *intBitset) (Domain, Outcome) {
	if hi-lo+1 > bitsetMaxRange {
		holes := bitsetHolesInRange(b, lo, hi)
		return finishIntNarrow(&intSparse{lo: lo, hi: hi, holes: holes})
	}
	nb := newIntBitset(lo, hi)
	nb.IterateRemoveUnlessContained(b)
	return finishIntNarrow(nb)
}

func filterHoles(holes []int64, lo, hi int64) []int64 {
	out := make([]int64, 0, len(holes))
	for _, h := range holes {
		if h >= lo && h <= hi {
			out = append(out, h)
		}
	}
	return out
}

func bitsetHolesInRange(b *intBitset, lo, hi int64) []int64 {
	var holes []int64
	for v := lo; v <= hi; v++ {
		if !b.Contains(v) {
			holes = append(holes, v)
		}
	}
	return holes
}

// finishIntNarrow classifies the result of a narrowing attempt into an
// Outcome: Failed when empty, Assigned when a singleton, BoundChanged
// otherwise (interior removals included). It returns nd as given;
// collapsing a hole-free domain back into an intInterval is done by
// collapseOrNarrow.
func finishIntNarrow(nd Domain) (Domain, Outcome) {
	id := nd.(IntDomain)
	if id.IsEmpty() {
		return nd, Failed
	}
	if id.IsFixed() {
		return nd, Assigned
	}
	return nd, BoundChanged
}

func emptyIntDomain() Domain { return &intInterval{lo: 1, hi: 0} }

// promoteAndRemove builds the right representation for [lo,hi] with a
// single interior value removed: a bitset if the range is small, else a
// sparse exclusion list.
func promoteAndRemove(lo, hi, v int64) (Domain, Outcome) {
	if hi-lo+1 <= bitsetMaxRange {
		b := newIntBitset(lo, hi)
		b.removeValue(v)
		return finishIntNarrow(b)
	}
	return finishIntNarrow(&intSparse{lo: lo, hi: hi, holes: []int64{v}})
}

func maxI64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func minI64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// intSparse is [lo, hi] \ H, with H stored as a sorted slice of excluded
// values. Used once a hole is punched in a range too wide to afford a
// bitset.
type intSparse struct {
	lo, hi int64
	holes  []int64 // sorted ascending, all within (lo, hi)
}

func (d *intSparse) Kind() VarKind { return KindInt }
func (d *intSparse) IsEmpty() bool { return d.effLo() > d.effHi() }

func (d *intSparse) effLo() int64 {
	lo := d.lo
	for d.isHole(lo) {
		lo++
	}
	return lo
}

func (d *intSparse) effHi() int64 {
	hi := d.hi
	for d.isHole(hi) {
		hi--
	}
	return hi
}

func (d *intSparse) isHole(v int64) bool {
	i := sort.Search(len(d.holes), func(i int) bool { return d.holes[i] >= v })
	return i < len(d.holes) && d.holes[i] == v
}

func (d *intSparse) IsFixed() bool { return d.Size() == 1 }

func (d *intSparse) Size() int {
	span := d.hi - d.lo + 1
	if span < 0 {
		return 0
	}
	return int(span) - len(d.holes)
}

func (d *intSparse) Value() Value {
	var found int64
	d.ForEach(func(v int64) bool { found = v; return false })
	return IntValue(found)
}

func (d *intSparse) Clone() Domain {
	holes := make([]int64, len(d.holes))
	copy(holes, d.holes)
	return &intSparse{lo: d.lo, hi: d.hi, holes: holes}
}

func (d *intSparse) Min() int64 { return d.effLo() }
func (d *intSparse) Max() int64 { return d.effHi() }

func (d *intSparse) Contains(v int64) bool {
	return v >= d.lo && v <= d.hi && !d.isHole(v)
}

func (d *intSparse) RemoveBelow(v int64) (Domain, Outcome) {
	if v <= d.lo {
		return d, Unchanged
	}
	nd := &intSparse{lo: v, hi: d.hi, holes: filterHoles(d.holes, v, d.hi)}
	if nd.Size() == d.Size() && nd.lo == d.effLo() {
		// bounds moved but contents identical count-wise only if already
		// equal; fall through to generic comparison below.
	}
	return collapseOrNarrow(d, nd)
}

func (d *intSparse) RemoveAbove(v int64) (Domain, Outcome) {
	if v >= d.hi {
		return d, Unchanged
	}
	nd := &intSparse{lo: d.lo, hi: v, holes: filterHoles(d.holes, d.lo, v)}
	return collapseOrNarrow(d, nd)
}

func (d *intSparse) RemoveValue(v int64) (Domain, Outcome) {
	if !d.Contains(v) {
		return d, Unchanged
	}
	holes := make([]int64, 0, len(d.holes)+1)
	inserted := false
	for _, h := range d.holes {
		if !inserted && h > v {
			holes = append(holes, v)
			inserted = true
		}
		holes = append(holes, h)
	}
	if !inserted {
		holes = append(holes, v)
	}
	nd := &intSparse{lo: d.lo, hi: d.hi, holes: holes}
	return collapseOrNarrow(d, nd)
}

func (d *intSparse) Fix(v int64) (Domain, Outcome) {
	if !d.Contains(v) {
		return emptyIntDomain(), Failed
	}
	if d.IsFixed() {
		return d, Unchanged
	}
	return finishIntNarrow(&intInterval{lo: v, hi: v})
}

func (d *intSparse) Intersect(other IntDomain) (Domain, Outcome) {
	lo := maxI64(d.lo, other.Min())
	hi := minI64(d.hi, other.Max())
	if lo > hi {
		return emptyIntDomain(), Failed
	}
	holes := filterHoles(d.holes, lo, hi)
	for v := lo; v <= hi; v++ {
		if !other.Contains(v) && !containsHole(holes, v) {
			holes = insertHole(holes, v)
		}
	}
	nd := &intSparse{lo: lo, hi: hi, holes: holes}
	return collapseOrNarrow(d, nd)
}

func containsHole(holes []int64, v int64) bool {
	i := sort.Search(len(holes), func(i int) bool { return holes[i] >= v })
	return i < len(holes) && holes[i] == v
}

func insertHole(holes []int64, v int64) []int64 {
	i := sort.Search(len(holes), func(i int) bool { return holes[i] >= v })
	holes = append(holes, 0)
	copy(holes[i+1:], holes[i:])
	holes[i] = v
	return holes
}

func (d *intSparse) ForEach(f func(v int64) bool) {
	for v := d.lo; v <= d.hi; v++ {
		if d.isHole(v) {
			continue
		}
		if !f(v) {
			return
		}
	}
}

// collapseOrNarrow trims dead holes at the new effective bounds and
// collapses back to an intInterval if no holes remain, classifying the
// Outcome relative to the original domain d0.
func collapseOrNarrow(d0 *intSparse, nd *intSparse) (Domain, Outcome) {
	lo, hi := nd.effLo(), nd.effHi()
	if lo > hi {
		return emptyIntDomain(), Failed
	}
	holes := filterHoles(nd.holes, lo, hi)
	if len(holes) == 0 {
		return finishIntNarrow(&intInterval{lo: lo, hi: hi})
	}
	final := &intSparse{lo: lo, hi: hi, holes: holes}
	if final.Size() == 1 {
		var v int64
		final.ForEach(func(x int64) bool { v = x; return false })
		return finishIntNarrow(&intInterval{lo: v, hi: v})
	}
	if lo == d0.lo && hi == d0.hi && len(holes) == len(d0.holes) {
		return d0, Unchanged
	}
	return final, BoundChanged
}
