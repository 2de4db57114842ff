package fdsolve

// absProp enforces |x| = y: y >= 0, with bounds on y from x's extrema and
// pruning on x's two sign-branches from y's bounds.
type absProp struct {
	x, y VarID
}

// PostAbs posts |x| = y.
func PostAbs(s *Store, x, y VarID) PropID { return s.Post(&absProp{x: x, y: y}) }

func (p *absProp) Kind() string { return "abs" }
func (p *absProp) Watches() []Watch {
	return []Watch{{Var: p.x, Mask: EvAny}, {Var: p.y, Mask: EvAny}}
}
func (p *absProp) Priority() Priority { return PriorityCheap }

func (p *absProp) Propagate(s *Store) (PropOutcome, error) {
	round := false
	if err := narrowBound(s, p.y, 0, math64max(absI64(s.IntDom(p.x).Min()), absI64(s.IntDom(p.x).Max())), &round); err != nil {
		return Fixpoint, err
	}
	xd, yd := s.IntDom(p.x), s.IntDom(p.y)
	// x confined to [-y.Max, y.Max].
	if err := narrowBound(s, p.x, -yd.Max(), yd.Max(), &round); err != nil {
		return Fixpoint, err
	}
	xd = s.IntDom(p.x)
	// If x cannot be negative, y == x's positive branch; if x cannot be
	// positive, y == -x.
	if xd.Min() >= 0 {
		if err := narrowBound(s, p.y, xd.Min(), xd.Max(), &round); err != nil {
			return Fixpoint, err
		}
	} else if xd.Max() <= 0 {
		if err := narrowBound(s, p.y, -xd.Max(), -xd.Min(), &round); err != nil {
			return Fixpoint, err
		}
	}
	if s.IntDom(p.x).IsFixed() && s.IntDom(p.y).IsFixed() {
		return Subsumed, nil
	}
	if round {
		return Changed, nil
	}
	return Fixpoint, nil
}

func math64max(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// minMaxProp enforces y = min(xs) or y = max(xs): bounds on y from the
// extrema of xs, and pruning on each x from y's bounds.
type minMaxProp struct {
	xs     []VarID
	y      VarID
	isMax  bool
}

// PostMin posts y = min(xs).
func PostMin(s *Store, xs []VarID, y VarID) PropID {
	return s.Post(&minMaxProp{xs: xs, y: y, isMax: false})
}

// PostMax posts y = max(xs).
func PostMax(s *Store, xs []VarID, y VarID) PropID {
	return s.Post(&minMaxProp{xs: xs, y: y, isMax: true})
}

func (p *minMaxProp) Kind() string {
	if p.isMax {
		return "max"
	}
	return "min"
}

func (p *minMaxProp) Watches() []Watch {
	w := make([]Watch, 0, len(p.xs)+1)
	for _, x := range p.xs {
		w = append(w, Watch{Var: x, Mask: EvAny})
	}
	w = append(w, Watch{Var: p.y, Mask: EvAny})
	return w
}

func (p *minMaxProp) Priority() Priority { return PriorityExpensive }

func (p *minMaxProp) Propagate(s *Store) (PropOutcome, error) {
	round := false
	extremeLo, extremeHi := s.IntDom(p.xs[0]).Min(), s.IntDom(p.xs[0]).Max()
	for _, x := range p.xs[1:] {
		d := s.IntDom(x)
		if p.isMax {
			extremeLo = maxI64(extremeLo, d.Min())
			extremeHi = maxI64(extremeHi, d.Max())
		} else {
			extremeLo = minI64(extremeLo, d.Min())
			extremeHi = minI64(extremeHi, d.Max())
		}
	}
	if err := narrowBound(s, p.y, extremeLo, extremeHi, &round); err != nil {
		return Fixpoint, err
	}
	yd := s.IntDom(p.y)
	for _, x := range p.xs {
		if p.isMax {
			// each x <= y's max
			if err := narrowBound(s, x, s.IntDom(x).Min(), yd.Max(), &round); err != nil {
				return Fixpoint, err
			}
		} else {
			if err := narrowBound(s, x, yd.Min(), s.IntDom(x).Max(), &round); err != nil {
				return Fixpoint, err
			}
		}
	}
	allFixed := s.IntDom(p.y).IsFixed()
	for _, x := range p.xs {
		allFixed = allFixed && s.IntDom(x).IsFixed()
	}
	if allFixed {
		return Subsumed, nil
	}
	if round {
		return Changed, nil
	}
	return Fixpoint, nil
}
