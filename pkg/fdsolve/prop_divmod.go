package fdsolve

import "math"

// divProp enforces the truncated-integer relation x / y = z (Go division
// semantics: truncation toward zero). y = 0 is never consistent and is
// proactively excluded from y's domain, turning into Failed if y can only
// be 0.
type divProp struct {
	x, y, z VarID
}

// PostDiv posts x / y = z.
func PostDiv(s *Store, x, y, z VarID) PropID { return s.Post(&divProp{x: x, y: y, z: z}) }

func (p *divProp) Kind() string { return "div" }
func (p *divProp) Watches() []Watch {
	return []Watch{{Var: p.x, Mask: EvAny}, {Var: p.y, Mask: EvAny}, {Var: p.z, Mask: EvAny}}
}
func (p *divProp) Priority() Priority { return PriorityExpensive }

func (p *divProp) Propagate(s *Store) (PropOutcome, error) {
	changed := false
	yd := s.IntDom(p.y)
	if yd.Contains(0) {
		if err := s.RemoveValueInt(p.y, 0); err != nil {
			return Fixpoint, err
		}
		changed = true
	}
	xd, yd := s.IntDom(p.x), s.IntDom(p.y)
	if yd.Min() > 0 || yd.Max() < 0 {
		round := false
		lo, hi := quotientBounds(xd.Min(), xd.Max(), yd.Min(), yd.Max())
		if err := narrowBound(s, p.z, lo, hi, &round); err != nil {
			return Fixpoint, err
		}
		if yd.IsFixed() {
			zd := s.IntDom(p.z)
			d := yd.Min()
			margin := absI64(d) - 1
			plo, phi := productBounds(zd.Min(), zd.Max(), d, d)
			if err := narrowBound(s, p.x, plo-margin, phi+margin, &round); err != nil {
				return Fixpoint, err
			}
		}
		changed = changed || round
	}
	if s.IntDom(p.x).IsFixed() && s.IntDom(p.y).IsFixed() && s.IntDom(p.z).IsFixed() {
		if s.IntDom(p.x).Min()/s.IntDom(p.y).Min() != s.IntDom(p.z).Min() {
			return PropFailed, nil
		}
		return Subsumed, nil
	}
	if changed {
		return Changed, nil
	}
	return Fixpoint, nil
}

// quotientBounds bounds x/y (real-valued corners, widened outward to
// integers) for y of fixed sign and never zero; a sound superset of every
// truncated-division result reachable from the given ranges.
func quotientBounds(xlo, xhi, ylo, yhi int64) (int64, int64) {
	c := [4]float64{
		float64(xlo) / float64(ylo), float64(xlo) / float64(yhi),
		float64(xhi) / float64(ylo), float64(xhi) / float64(yhi),
	}
	lo, hi := c[0], c[0]
	for _, v := range c[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return int64(math.Floor(lo)), int64(math.Ceil(hi))
}

func absI64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// modProp enforces x % y = z with Go's truncated-modulo semantics (result
// takes the sign of the dividend x). y = 0 is excluded the same way as
// divProp.
type modProp struct {
	x, y, z VarID
}

// PostMod posts x % y = z.
func PostMod(s *Store, x, y, z VarID) PropID { return s.Post(&modProp{x: x, y: y, z: z}) }

func (p *modProp) Kind() string { return "mod" }
func (p *modProp) Watches() []Watch {
	return []Watch{{Var: p.x, Mask: EvAny}, {Var: p.y, Mask: EvAny}, {Var: p.z, Mask: EvAny}}
}
func (p *modProp) Priority() Priority { return PriorityExpensive }

func (p *modProp) Propagate(s *Store) (PropOutcome, error) {
	changed := false
	yd := s.IntDom(p.y)
	if yd.Contains(0) {
		if err := s.RemoveValueInt(p.y, 0); err != nil {
			return Fixpoint, err
		}
		changed = true
	}
	xd, yd := s.IntDom(p.x), s.IntDom(p.y)
	if yd.IsFixed() {
		d := yd.Min()
		m := absI64(d) - 1
		lo, hi := -m, m
		if xd.Min() >= 0 {
			lo = 0
		}
		if xd.Max() <= 0 {
			hi = 0
		}
		round := false
		if err := narrowBound(s, p.z, lo, hi, &round); err != nil {
			return Fixpoint, err
		}
		changed = changed || round
	}
	if s.IntDom(p.x).IsFixed() && s.IntDom(p.y).IsFixed() && s.IntDom(p.z).IsFixed() {
		want := s.IntDom(p.x).Min() % s.IntDom(p.y).Min()
		if want != s.IntDom(p.z).Min() {
			return PropFailed, nil
		}
		return Subsumed, nil
	}
	if changed {
		return Changed, nil
	}
	return Fixpoint, nil
}
