package fdsolve

import "math/bits"

// intBitset is a bitset-backed integer domain over [base, base+n-1]. It
// generalizes the teacher engine's fixed 1..domainSize BitSet to an
// arbitrary integer range by carrying an explicit base offset, and is used
// automatically whenever a hole must be punched in a range narrow enough
// to afford one word-packed bit per value (see bitsetMaxRange).
type intBitset struct {
	base  int64
	n     int // number of representable values, [base, base+n-1]
	words []uint64
}

func newIntBitset(lo, hi int64) *intBitset {
	n := int(hi - lo + 1)
	w := (n + 63) / 64
	b := &intBitset{base: lo, n: n, words: make([]uint64, w)}
	for i := 0; i < n; i++ {
		b.words[i/64] |= 1 << uint(i%64)
	}
	return b
}

func (b *intBitset) Kind() VarKind { return KindInt }

func (b *intBitset) Clone() Domain {
	words := make([]uint64, len(b.words))
	copy(words, b.words)
	return &intBitset{base: b.base, n: b.n, words: words}
}

func (b *intBitset) index(v int64) (int, uint, bool) {
	off := v - b.base
	if off < 0 || int(off) >= b.n {
		return 0, 0, false
	}
	return int(off) / 64, uint(off % 64), true
}

func (b *intBitset) Contains(v int64) bool {
	i, bit, ok := b.index(v)
	if !ok {
		return false
	}
	return (b.words[i]>>bit)&1 == 1
}

func (b *intBitset) removeValue(v int64) {
	if i, bit, ok := b.index(v); ok {
		b.words[i] &^= 1 << bit
	}
}

func (b *intBitset) Count() int {
	c := 0
	for _, w := range b.words {
		c += bits.OnesCount64(w)
	}
	return c
}

func (b *intBitset) IsEmpty() bool { return b.Count() == 0 }
func (b *intBitset) IsFixed() bool { return b.Count() == 1 }
func (b *intBitset) Size() int     { return b.Count() }

func (b *intBitset) Value() Value { return IntValue(b.firstSet()) }

func (b *intBitset) firstSet() int64 {
	for i, w := range b.words {
		if w == 0 {
			continue
		}
		return b.base + int64(i*64+bits.TrailingZeros64(w))
	}
	return b.base
}

func (b *intBitset) Min() int64 {
	return b.firstSet()
}

func (b *intBitset) Max() int64 {
	for i := len(b.words) - 1; i >= 0; i-- {
		w := b.words[i]
		if w == 0 {
			continue
		}
		return b.base + int64(i*64+63-bits.LeadingZeros64(w))
	}
	return b.base
}

func (b *intBitset) RemoveBelow(v int64) (Domain, Outcome) {
	if v <= b.Min() {
		return b, Unchanged
	}
	nb := b.Clone().(*intBitset)
	for val := nb.Min(); val < v; val = nb.Min() {
		nb.removeValue(val)
		if nb.IsEmpty() {
			break
		}
	}
	return finishIntNarrow(nb)
}

func (b *intBitset) RemoveAbove(v int64) (Domain, Outcome) {
	if v >= b.Max() {
		return b, Unchanged
	}
	nb := b.Clone().(*intBitset)
	for val := nb.Max(); val > v; val = nb.Max() {
		nb.removeValue(val)
		if nb.IsEmpty() {
			break
		}
	}
	return finishIntNarrow(nb)
}

func (b *intBitset) RemoveValue(v int64) (Domain, Outcome) {
	if !b.Contains(v) {
		return b, Unchanged
	}
	nb := b.Clone().(*intBitset)
	nb.removeValue(v)
	return finishIntNarrow(nb)
}

func (b *intBitset) Fix(v int64) (Domain, Outcome) {
	if !b.Contains(v) {
		return emptyIntDomain(), Failed
	}
	if b.IsFixed() {
		return b, Unchanged
	}
	return finishIntNarrow(&intInterval{lo: v, hi: v})
}

func (b *intBitset) Intersect(other IntDomain) (Domain, Outcome) {
	nb := b.Clone().(*intBitset)
	changed := false
	for i := 0; i < nb.n; i++ {
		v := nb.base + int64(i)
		w := i / 64
		bit := uint(i % 64)
		if (nb.words[w]>>bit)&1 == 1 && !other.Contains(v) {
			nb.words[w] &^= 1 << bit
			changed = true
		}
	}
	if !changed {
		return b, Unchanged
	}
	return finishIntNarrow(nb)
}

func (b *intBitset) ForEach(f func(v int64) bool) {
	for i, w := range b.words {
		for w != 0 {
			t := w & -w
			off := bits.TrailingZeros64(w)
			if !f(b.base + int64(i*64+off)) {
				return
			}
			w &^= t
		}
	}
}

// IterateRemoveUnlessContained keeps only values also present in other,
// used when converting a hole-carrying bitset into a re-based one during
// interval intersection.
func (b *intBitset) IterateRemoveUnlessContained(other IntDomain) {
	for v := b.base; v < b.base+int64(b.n); v++ {
		if !other.Contains(v) {
			b.removeValue(v)
		}
	}
}
