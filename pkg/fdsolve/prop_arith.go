package fdsolve

// plusProp enforces x + y = z over integer domains via interval
// arithmetic, bounds-consistent on all three variables.
type plusProp struct {
	x, y, z VarID
}

// PostPlus posts x + y = z.
func PostPlus(s *Store, x, y, z VarID) PropID { return s.Post(&plusProp{x: x, y: y, z: z}) }

func (p *plusProp) Kind() string { return "plus" }
func (p *plusProp) Watches() []Watch {
	return []Watch{{Var: p.x, Mask: EvAny}, {Var: p.y, Mask: EvAny}, {Var: p.z, Mask: EvAny}}
}
func (p *plusProp) Priority() Priority { return PriorityCheap }

func (p *plusProp) Propagate(s *Store) (PropOutcome, error) {
	changed := false
	for {
		xd, yd, zd := s.IntDom(p.x), s.IntDom(p.y), s.IntDom(p.z)
		round := false
		if err := narrowBound(s, p.z, xd.Min()+yd.Min(), xd.Max()+yd.Max(), &round); err != nil {
			return Fixpoint, err
		}
		zd = s.IntDom(p.z)
		if err := narrowBound(s, p.x, zd.Min()-yd.Max(), zd.Max()-yd.Min(), &round); err != nil {
			return Fixpoint, err
		}
		xd = s.IntDom(p.x)
		if err := narrowBound(s, p.y, zd.Min()-xd.Max(), zd.Max()-xd.Min(), &round); err != nil {
			return Fixpoint, err
		}
		if !round {
			break
		}
		changed = true
	}
	if s.IntDom(p.x).IsFixed() && s.IntDom(p.y).IsFixed() && s.IntDom(p.z).IsFixed() {
		return Subsumed, nil
	}
	if changed {
		return Changed, nil
	}
	return Fixpoint, nil
}

// narrowBound intersects vid's domain with [lo, hi], setting *round true if
// anything actually moved.
func narrowBound(s *Store, vid VarID, lo, hi int64, round *bool) error {
	d := s.IntDom(vid)
	if lo <= d.Min() && hi >= d.Max() {
		return nil
	}
	if lo > d.Min() {
		if err := s.RemoveBelowInt(vid, lo); err != nil {
			return err
		}
		*round = true
	}
	d = s.IntDom(vid)
	if hi < d.Max() {
		if err := s.RemoveAboveInt(vid, hi); err != nil {
			return err
		}
		*round = true
	}
	return nil
}

// PostMinus posts x - y = z by delegating to the plus family as x = y + z.
func PostMinus(s *Store, x, y, z VarID) PropID {
	return s.Post(&plusProp{x: y, y: z, z: x})
}

// timesProp enforces x * y = z via interval arithmetic with sign-case
// analysis, bounds-consistent on z; x and y are narrowed only when the
// division is exact on both ends (integer division can otherwise widen).
type timesProp struct {
	x, y, z VarID
}

// PostTimes posts x * y = z.
func PostTimes(s *Store, x, y, z VarID) PropID { return s.Post(&timesProp{x: x, y: y, z: z}) }

func (p *timesProp) Kind() string { return "times" }
func (p *timesProp) Watches() []Watch {
	return []Watch{{Var: p.x, Mask: EvAny}, {Var: p.y, Mask: EvAny}, {Var: p.z, Mask: EvAny}}
}
func (p *timesProp) Priority() Priority { return PriorityExpensive }

func (p *timesProp) Propagate(s *Store) (PropOutcome, error) {
	xd, yd := s.IntDom(p.x), s.IntDom(p.y)
	lo, hi := productBounds(xd.Min(), xd.Max(), yd.Min(), yd.Max())
	round := false
	if err := narrowBound(s, p.z, lo, hi, &round); err != nil {
		return Fixpoint, err
	}
	zd := s.IntDom(p.z)

	// Narrow x from z/y when y's domain is fixed and nonzero: exact.
	if yd.IsFixed() && yd.Min() != 0 {
		lo, hi := divBounds(zd.Min(), zd.Max(), yd.Min())
		if err := narrowBound(s, p.x, lo, hi, &round); err != nil {
			return Fixpoint, err
		}
	}
	xd = s.IntDom(p.x)
	if xd.IsFixed() && xd.Min() != 0 {
		lo, hi := divBounds(zd.Min(), zd.Max(), xd.Min())
		if err := narrowBound(s, p.y, lo, hi, &round); err != nil {
			return Fixpoint, err
		}
	}
	if xd.IsFixed() && yd.IsFixed() && zd.IsFixed() {
		return Subsumed, nil
	}
	if round {
		return Changed, nil
	}
	return Fixpoint, nil
}

// productBounds computes the tight bound on x*y given bounds on x and y,
// considering all four corner products (sign-case analysis).
func productBounds(xlo, xhi, ylo, yhi int64) (int64, int64) {
	c1, c2, c3, c4 := xlo*ylo, xlo*yhi, xhi*ylo, xhi*yhi
	lo := minI64(minI64(c1, c2), minI64(c3, c4))
	hi := maxI64(maxI64(c1, c2), maxI64(c3, c4))
	return lo, hi
}

// divBounds computes bounds on z/d given bounds on z and a fixed nonzero
// divisor d, for the exact case used when narrowing a multiply's operand.
func divBounds(zlo, zhi, d int64) (int64, int64) {
	c1, c2 := zlo/d, zhi/d
	if c1 > c2 {
		c1, c2 = c2, c1
	}
	return c1, c2
}
