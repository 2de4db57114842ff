package fdsolve

import "math"

// narrowBoundFloat intersects vid's float domain with [lo, hi], setting
// *round true if anything actually moved. Mirrors narrowBound for the int
// domains, relying on the domain's own Outcome (not a width comparison) so
// epsilon-closeness is judged consistently with the rest of the engine.
func narrowBoundFloat(s *Store, vid VarID, lo, hi float64, round *bool) error {
	d := s.FloatDom(vid)
	nd, outcome := d.Intersect(lo, hi)
	if outcome == Unchanged {
		return nil
	}
	if err := s.apply(vid, nd, outcome); err != nil {
		return err
	}
	*round = true
	return nil
}

// floatPlusProp enforces x + y = z over float domains via outward-rounded
// interval arithmetic, bounds-consistent on all three variables.
type floatPlusProp struct {
	x, y, z VarID
}

// PostFloatPlus posts x + y = z over floats.
func PostFloatPlus(s *Store, x, y, z VarID) PropID {
	return s.Post(&floatPlusProp{x: x, y: y, z: z})
}

func (p *floatPlusProp) Kind() string { return "float_plus" }
func (p *floatPlusProp) Watches() []Watch {
	return []Watch{{Var: p.x, Mask: EvAny}, {Var: p.y, Mask: EvAny}, {Var: p.z, Mask: EvAny}}
}
func (p *floatPlusProp) Priority() Priority { return PriorityCheap }

func (p *floatPlusProp) Propagate(s *Store) (PropOutcome, error) {
	changed := false
	for {
		xd, yd, zd := s.FloatDom(p.x), s.FloatDom(p.y), s.FloatDom(p.z)
		eps := s.Epsilon()
		round := false
		if err := narrowBoundFloat(s, p.z, xd.Min()+yd.Min()-eps, xd.Max()+yd.Max()+eps, &round); err != nil {
			return Fixpoint, err
		}
		zd = s.FloatDom(p.z)
		if err := narrowBoundFloat(s, p.x, zd.Min()-yd.Max()-eps, zd.Max()-yd.Min()+eps, &round); err != nil {
			return Fixpoint, err
		}
		xd = s.FloatDom(p.x)
		if err := narrowBoundFloat(s, p.y, zd.Min()-xd.Max()-eps, zd.Max()-xd.Min()+eps, &round); err != nil {
			return Fixpoint, err
		}
		if !round {
			break
		}
		changed = true
	}
	if s.FloatDom(p.x).IsFixed() && s.FloatDom(p.y).IsFixed() && s.FloatDom(p.z).IsFixed() {
		return Subsumed, nil
	}
	if changed {
		return Changed, nil
	}
	return Fixpoint, nil
}

// PostFloatMinus posts x - y = z by delegating to the plus family as
// x = y + z, same as the integer family.
func PostFloatMinus(s *Store, x, y, z VarID) PropID {
	return s.Post(&floatPlusProp{x: y, y: z, z: x})
}

// floatTimesProp enforces x * y = z via corner-based interval arithmetic.
// Like its integer counterpart, x and y are only narrowed from z when the
// other operand's domain is already fixed away from zero; division by an
// interval that is not fixed is not attempted.
type floatTimesProp struct {
	x, y, z VarID
}

// PostFloatTimes posts x * y = z over floats.
func PostFloatTimes(s *Store, x, y, z VarID) PropID {
	return s.Post(&floatTimesProp{x: x, y: y, z: z})
}

func (p *floatTimesProp) Kind() string { return "float_times" }
func (p *floatTimesProp) Watches() []Watch {
	return []Watch{{Var: p.x, Mask: EvAny}, {Var: p.y, Mask: EvAny}, {Var: p.z, Mask: EvAny}}
}
func (p *floatTimesProp) Priority() Priority { return PriorityExpensive }

func (p *floatTimesProp) Propagate(s *Store) (PropOutcome, error) {
	xd, yd := s.FloatDom(p.x), s.FloatDom(p.y)
	eps := s.Epsilon()
	lo, hi := floatProductBounds(xd.Min(), xd.Max(), yd.Min(), yd.Max())
	round := false
	if err := narrowBoundFloat(s, p.z, lo-eps, hi+eps, &round); err != nil {
		return Fixpoint, err
	}
	zd := s.FloatDom(p.z)

	if yd.IsFixed() && math.Abs(yd.Min()) > eps {
		lo, hi := floatQuotientBounds(zd.Min(), zd.Max(), yd.Min(), yd.Min())
		if err := narrowBoundFloat(s, p.x, lo-eps, hi+eps, &round); err != nil {
			return Fixpoint, err
		}
	}
	xd = s.FloatDom(p.x)
	if xd.IsFixed() && math.Abs(xd.Min()) > eps {
		lo, hi := floatQuotientBounds(zd.Min(), zd.Max(), xd.Min(), xd.Min())
		if err := narrowBoundFloat(s, p.y, lo-eps, hi+eps, &round); err != nil {
			return Fixpoint, err
		}
	}
	if s.FloatDom(p.x).IsFixed() && s.FloatDom(p.y).IsFixed() && s.FloatDom(p.z).IsFixed() {
		return Subsumed, nil
	}
	if round {
		return Changed, nil
	}
	return Fixpoint, nil
}

func floatProductBounds(xlo, xhi, ylo, yhi float64) (float64, float64) {
	c1, c2, c3, c4 := xlo*ylo, xlo*yhi, xhi*ylo, xhi*yhi
	lo := math.Min(math.Min(c1, c2), math.Min(c3, c4))
	hi := math.Max(math.Max(c1, c2), math.Max(c3, c4))
	return lo, hi
}

func floatQuotientBounds(zlo, zhi, dlo, dhi float64) (float64, float64) {
	c := [4]float64{zlo / dlo, zlo / dhi, zhi / dlo, zhi / dhi}
	lo, hi := c[0], c[0]
	for _, v := range c[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// floatAbsProp enforces |x| = y over floats.
type floatAbsProp struct {
	x, y VarID
}

// PostFloatAbs posts |x| = y over floats.
func PostFloatAbs(s *Store, x, y VarID) PropID { return s.Post(&floatAbsProp{x: x, y: y}) }

func (p *floatAbsProp) Kind() string { return "float_abs" }
func (p *floatAbsProp) Watches() []Watch {
	return []Watch{{Var: p.x, Mask: EvAny}, {Var: p.y, Mask: EvAny}}
}
func (p *floatAbsProp) Priority() Priority { return PriorityCheap }

func (p *floatAbsProp) Propagate(s *Store) (PropOutcome, error) {
	round := false
	xd := s.FloatDom(p.x)
	if err := narrowBoundFloat(s, p.y, 0, math.Max(math.Abs(xd.Min()), math.Abs(xd.Max())), &round); err != nil {
		return Fixpoint, err
	}
	yd := s.FloatDom(p.y)
	if err := narrowBoundFloat(s, p.x, -yd.Max(), yd.Max(), &round); err != nil {
		return Fixpoint, err
	}
	xd = s.FloatDom(p.x)
	if xd.Min() >= 0 {
		if err := narrowBoundFloat(s, p.y, xd.Min(), xd.Max(), &round); err != nil {
			return Fixpoint, err
		}
	} else if xd.Max() <= 0 {
		if err := narrowBoundFloat(s, p.y, -xd.Max(), -xd.Min(), &round); err != nil {
			return Fixpoint, err
		}
	}
	if s.FloatDom(p.x).IsFixed() && s.FloatDom(p.y).IsFixed() {
		return Subsumed, nil
	}
	if round {
		return Changed, nil
	}
	return Fixpoint, nil
}
