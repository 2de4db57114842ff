package fdsolve

// linearInf stands in for "no bound" in a linearProp's [lo, hi] target
// range, chosen well clear of realistic domain magnitudes so arithmetic on
// it never overflows int64.
const linearInf int64 = 1 << 60

// linearProp enforces lo <= sum(coeffs[i] * vars[i]) <= hi via bounds
// consistency over residual bounds: for each term, the slack left by every
// other term (at their own current extrema) bounds how far this term's
// variable may move. This single propagator backs sum(xs) = y (rewritten
// as coeffs [1,...,1,-1] with y appended, bound [0,0]), sum(xs) <= k
// (bound (-inf, k]), sum(xs) >= k (bound [k, +inf)), and arbitrary weighted
// linear constraints.
type linearProp struct {
	coeffs []int64
	vars   []VarID
	lo, hi int64
}

// PostSumEqual posts sum(xs) = y.
func PostSumEqual(s *Store, xs []VarID, y VarID) PropID {
	coeffs := make([]int64, len(xs)+1)
	vars := make([]VarID, len(xs)+1)
	for i, x := range xs {
		coeffs[i] = 1
		vars[i] = x
	}
	coeffs[len(xs)] = -1
	vars[len(xs)] = y
	return s.Post(&linearProp{coeffs: coeffs, vars: vars, lo: 0, hi: 0})
}

// PostSumLE posts sum(xs) <= k.
func PostSumLE(s *Store, xs []VarID, k int64) PropID {
	return PostLinear(s, onesCoeffs(len(xs)), xs, -linearInf, k)
}

// PostSumGE posts sum(xs) >= k.
func PostSumGE(s *Store, xs []VarID, k int64) PropID {
	return PostLinear(s, onesCoeffs(len(xs)), xs, k, linearInf)
}

// PostLinear posts lo <= sum(coeffs[i]*xs[i]) <= hi for arbitrary nonzero
// integer coefficients.
func PostLinear(s *Store, coeffs []int64, xs []VarID, lo, hi int64) PropID {
	cc := make([]int64, len(coeffs))
	copy(cc, coeffs)
	vv := make([]VarID, len(xs))
	copy(vv, xs)
	return s.Post(&linearProp{coeffs: cc, vars: vv, lo: lo, hi: hi})
}

func onesCoeffs(n int) []int64 {
	c := make([]int64, n)
	for i := range c {
		c[i] = 1
	}
	return c
}

func (p *linearProp) Kind() string { return "linear" }

func (p *linearProp) Watches() []Watch {
	w := make([]Watch, len(p.vars))
	for i, v := range p.vars {
		w[i] = Watch{Var: v, Mask: EvAny}
	}
	return w
}

func (p *linearProp) Priority() Priority { return PriorityExpensive }

func (p *linearProp) termBounds(s *Store, i int) (tlo, thi int64) {
	d := s.IntDom(p.vars[i])
	c := p.coeffs[i]
	if c >= 0 {
		return c * d.Min(), c * d.Max()
	}
	return c * d.Max(), c * d.Min()
}

func (p *linearProp) Propagate(s *Store) (PropOutcome, error) {
	n := len(p.vars)
	termLo := make([]int64, n)
	termHi := make([]int64, n)
	var totalLo, totalHi int64
	for i := range p.vars {
		lo, hi := p.termBounds(s, i)
		termLo[i], termHi[i] = lo, hi
		totalLo += lo
		totalHi += hi
	}
	if totalLo > p.hi || totalHi < p.lo {
		return PropFailed, nil
	}

	round := false
	for i := range p.vars {
		residualMin := totalLo - termLo[i]
		residualMax := totalHi - termHi[i]
		tlo, thi := termLo[i], termHi[i]
		if p.lo > -linearInf {
			if v := p.lo - residualMax; v > tlo {
				tlo = v
			}
		}
		if p.hi < linearInf {
			if v := p.hi - residualMin; v < thi {
				thi = v
			}
		}
		if tlo <= termLo[i] && thi >= termHi[i] {
			continue
		}
		c := p.coeffs[i]
		var newLo, newHi int64
		if c > 0 {
			newLo, newHi = ceilDiv(tlo, c), floorDiv(thi, c)
		} else {
			newLo, newHi = ceilDiv(thi, c), floorDiv(tlo, c)
		}
		if err := narrowBound(s, p.vars[i], newLo, newHi, &round); err != nil {
			return Fixpoint, err
		}
	}

	if totalLo >= p.lo && totalHi <= p.hi {
		return Subsumed, nil
	}
	if round {
		return Changed, nil
	}
	return Fixpoint, nil
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func ceilDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) == (b < 0) {
		q++
	}
	return q
}
