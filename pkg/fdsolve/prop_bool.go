package fdsolve

// boolAndProp enforces b = and(xs): b is true iff every x is true.
type boolAndProp struct {
	xs []VarID
	b  VarID
}

// PostBoolAnd posts b = and(xs).
func PostBoolAnd(s *Store, xs []VarID, b VarID) PropID {
	cp := make([]VarID, len(xs))
	copy(cp, xs)
	return s.Post(&boolAndProp{xs: cp, b: b})
}

func (p *boolAndProp) Kind() string { return "bool_and" }

func (p *boolAndProp) Watches() []Watch {
	w := make([]Watch, 0, len(p.xs)+1)
	for _, x := range p.xs {
		w = append(w, Watch{Var: x, Mask: EvAny})
	}
	return append(w, Watch{Var: p.b, Mask: EvAny})
}

func (p *boolAndProp) Priority() Priority { return PriorityCheap }

func (p *boolAndProp) Propagate(s *Store) (PropOutcome, error) {
	changed := false
	anyFalse := false
	allTrue := true
	for _, x := range p.xs {
		d := s.BoolDom(x)
		if !d.CanBeTrue() {
			anyFalse = true
		}
		if !d.IsFixed() || !d.CanBeTrue() {
			allTrue = false
		}
	}
	if anyFalse {
		if err := fixBoolFalse(s, p.b, &changed); err != nil {
			return Fixpoint, err
		}
		return Subsumed, nil
	}
	bd := s.BoolDom(p.b)
	if allTrue {
		if err := fixBoolTrue(s, p.b, &changed); err != nil {
			return Fixpoint, err
		}
		return Subsumed, nil
	}
	if bd.IsFixed() {
		if bd.CanBeTrue() {
			// b = true forces every x to true.
			for _, x := range p.xs {
				if err := fixBoolTrue(s, x, &changed); err != nil {
					return Fixpoint, err
				}
			}
		} else {
			// b = false: if exactly one x is still free, it must go false.
			var free VarID = -1
			freeCount := 0
			for _, x := range p.xs {
				d := s.BoolDom(x)
				if !d.IsFixed() {
					freeCount++
					free = x
				} else if !d.CanBeTrue() {
					// already a witness for falsity.
					freeCount = -1000
					break
				}
			}
			if freeCount == 1 {
				if err := fixBoolFalse(s, free, &changed); err != nil {
					return Fixpoint, err
				}
			}
		}
	}
	if changed {
		return Changed, nil
	}
	return Fixpoint, nil
}

// boolOrProp enforces b = or(xs): b is true iff some x is true.
type boolOrProp struct {
	xs []VarID
	b  VarID
}

// PostBoolOr posts b = or(xs).
func PostBoolOr(s *Store, xs []VarID, b VarID) PropID {
	cp := make([]VarID, len(xs))
	copy(cp, xs)
	return s.Post(&boolOrProp{xs: cp, b: b})
}

func (p *boolOrProp) Kind() string { return "bool_or" }

func (p *boolOrProp) Watches() []Watch {
	w := make([]Watch, 0, len(p.xs)+1)
	for _, x := range p.xs {
		w = append(w, Watch{Var: x, Mask: EvAny})
	}
	return append(w, Watch{Var: p.b, Mask: EvAny})
}

func (p *boolOrProp) Priority() Priority { return PriorityCheap }

func (p *boolOrProp) Propagate(s *Store) (PropOutcome, error) {
	changed := false
	anyTrue := false
	allFalse := true
	for _, x := range p.xs {
		d := s.BoolDom(x)
		if d.IsFixed() && d.CanBeTrue() {
			anyTrue = true
		}
		if !d.IsFixed() || d.CanBeTrue() {
			allFalse = false
		}
	}
	if anyTrue {
		if err := fixBoolTrue(s, p.b, &changed); err != nil {
			return Fixpoint, err
		}
		return Subsumed, nil
	}
	bd := s.BoolDom(p.b)
	if allFalse {
		if err := fixBoolFalse(s, p.b, &changed); err != nil {
			return Fixpoint, err
		}
		return Subsumed, nil
	}
	if bd.IsFixed() {
		if !bd.CanBeTrue() {
			for _, x := range p.xs {
				if err := fixBoolFalse(s, x, &changed); err != nil {
					return Fixpoint, err
				}
			}
		} else {
			var free VarID = -1
			freeCount := 0
			for _, x := range p.xs {
				d := s.BoolDom(x)
				if !d.IsFixed() {
					freeCount++
					free = x
				}
			}
			if freeCount == 1 {
				if err := fixBoolTrue(s, free, &changed); err != nil {
					return Fixpoint, err
				}
			}
		}
	}
	if changed {
		return Changed, nil
	}
	return Fixpoint, nil
}

// boolNotProp enforces b = not(x).
type boolNotProp struct {
	x, b VarID
}

// PostBoolNot posts b = not(x).
func PostBoolNot(s *Store, x, b VarID) PropID { return s.Post(&boolNotProp{x: x, b: b}) }

func (p *boolNotProp) Kind() string { return "bool_not" }
func (p *boolNotProp) Watches() []Watch {
	return []Watch{{Var: p.x, Mask: EvAny}, {Var: p.b, Mask: EvAny}}
}
func (p *boolNotProp) Priority() Priority { return PriorityCheap }

func (p *boolNotProp) Propagate(s *Store) (PropOutcome, error) {
	changed := false
	xd := s.BoolDom(p.x)
	if xd.IsFixed() {
		if xd.CanBeTrue() {
			if err := fixBoolFalse(s, p.b, &changed); err != nil {
				return Fixpoint, err
			}
		} else {
			if err := fixBoolTrue(s, p.b, &changed); err != nil {
				return Fixpoint, err
			}
		}
	}
	bd := s.BoolDom(p.b)
	if bd.IsFixed() {
		if bd.CanBeTrue() {
			if err := fixBoolFalse(s, p.x, &changed); err != nil {
				return Fixpoint, err
			}
		} else {
			if err := fixBoolTrue(s, p.x, &changed); err != nil {
				return Fixpoint, err
			}
		}
	}
	if s.BoolDom(p.x).IsFixed() && s.BoolDom(p.b).IsFixed() {
		return Subsumed, nil
	}
	if changed {
		return Changed, nil
	}
	return Fixpoint, nil
}

func fixBoolTrue(s *Store, v VarID, changed *bool) error {
	d := s.BoolDom(v)
	if d.IsFixed() {
		return nil
	}
	if err := s.FixBoolTrue(v); err != nil {
		return err
	}
	*changed = true
	return nil
}

func fixBoolFalse(s *Store, v VarID, changed *bool) error {
	d := s.BoolDom(v)
	if d.IsFixed() {
		return nil
	}
	if err := s.FixBoolFalse(v); err != nil {
		return err
	}
	*changed = true
	return nil
}

// reifyEqualProp links boolean b to the proposition x = y, with full
// bidirectional propagation: domain disjointness or singleton agreement
// drives b, and a fixed b drives x/y, mirroring the teacher's
// EqualityReified contract extended to arbitrary (non-singleton) int
// domains.
type reifyEqualProp struct {
	x, y, b VarID
}

// PostReifyEqual posts b <=> (x = y).
func PostReifyEqual(s *Store, x, y, b VarID) PropID {
	return s.Post(&reifyEqualProp{x: x, y: y, b: b})
}

func (p *reifyEqualProp) Kind() string { return "reify_equal" }
func (p *reifyEqualProp) Watches() []Watch {
	return []Watch{{Var: p.x, Mask: EvAny}, {Var: p.y, Mask: EvAny}, {Var: p.b, Mask: EvAny}}
}
func (p *reifyEqualProp) Priority() Priority { return PriorityExpensive }

func (p *reifyEqualProp) Propagate(s *Store) (PropOutcome, error) {
	changed := false
	xd, yd := s.IntDom(p.x), s.IntDom(p.y)

	disjoint := xd.Max() < yd.Min() || yd.Max() < xd.Min()
	if !disjoint {
		// cheap bound check is not sufficient to prove equality; only a
		// narrower domain-level check can prove disjointness beyond bounds,
		// which the hole-aware domains expose via Contains on shared range.
		disjoint = !domainsOverlap(xd, yd)
	}
	if disjoint {
		if err := fixBoolFalse(s, p.b, &changed); err != nil {
			return Fixpoint, err
		}
	} else if xd.IsFixed() && yd.IsFixed() && xd.Min() == yd.Min() {
		if err := fixBoolTrue(s, p.b, &changed); err != nil {
			return Fixpoint, err
		}
	}

	bd := s.BoolDom(p.b)
	if bd.IsFixed() {
		if bd.CanBeTrue() {
			lo, hi := maxI64(xd.Min(), yd.Min()), minI64(xd.Max(), yd.Max())
			if lo > hi {
				return PropFailed, nil
			}
			round := false
			if err := narrowBound(s, p.x, lo, hi, &round); err != nil {
				return Fixpoint, err
			}
			if err := narrowBound(s, p.y, lo, hi, &round); err != nil {
				return Fixpoint, err
			}
			changed = changed || round
		} else {
			if xd.IsFixed() {
				v := xd.Min()
				if yd.Contains(v) {
					if err := s.RemoveValueInt(p.y, v); err != nil {
						return Fixpoint, err
					}
					changed = true
				}
			}
			if yd.IsFixed() {
				v := yd.Min()
				if xd.Contains(v) {
					if err := s.RemoveValueInt(p.x, v); err != nil {
						return Fixpoint, err
					}
					changed = true
				}
			}
		}
	}

	if s.BoolDom(p.b).IsFixed() && (disjoint || (s.IntDom(p.x).IsFixed() && s.IntDom(p.y).IsFixed())) {
		return Subsumed, nil
	}
	if changed {
		return Changed, nil
	}
	return Fixpoint, nil
}

func domainsOverlap(a, b IntDomain) bool {
	lo, hi := maxI64(a.Min(), b.Min()), minI64(a.Max(), b.Max())
	if lo > hi {
		return false
	}
	for v := lo; v <= hi; v++ {
		if a.Contains(v) && b.Contains(v) {
			return true
		}
		if v-lo > 1<<16 {
			// range too wide to scan value-by-value; fall back to the
			// optimistic bound overlap already established by the caller.
			return true
		}
	}
	return false
}

// reifyCompareProp links boolean b to the proposition (x op y), for op in
// the same comparator family as PostCompare. Half-reification (only
// b=true or only b=false implied) falls out naturally: the unimplied
// direction simply never finds its guard fixed.
type reifyCompareProp struct {
	x, y VarID
	op   CompareOp
	b    VarID
}

// PostReifyCompare posts b <=> (x op y).
func PostReifyCompare(s *Store, x VarID, op CompareOp, y VarID, b VarID) PropID {
	return s.Post(&reifyCompareProp{x: x, y: y, op: op, b: b})
}

func (p *reifyCompareProp) Kind() string { return "reify_compare" }
func (p *reifyCompareProp) Watches() []Watch {
	return []Watch{{Var: p.x, Mask: EvAny}, {Var: p.y, Mask: EvAny}, {Var: p.b, Mask: EvAny}}
}
func (p *reifyCompareProp) Priority() Priority { return PriorityExpensive }

// holds reports whether op necessarily holds, necessarily fails, or is
// undetermined given x's and y's current bounds.
func (p *reifyCompareProp) holds(s *Store) (yes, no bool) {
	xd, yd := s.IntDom(p.x), s.IntDom(p.y)
	switch p.op {
	case OpLT:
		return xd.Max() < yd.Min(), xd.Min() >= yd.Max()
	case OpLE:
		return xd.Max() <= yd.Min(), xd.Min() > yd.Max()
	case OpGT:
		return xd.Min() > yd.Max(), xd.Max() <= yd.Min()
	case OpGE:
		return xd.Min() >= yd.Max(), xd.Max() < yd.Min()
	case OpEQ:
		if xd.IsFixed() && yd.IsFixed() {
			return xd.Min() == yd.Min(), xd.Min() != yd.Min()
		}
		return false, !domainsOverlap(xd, yd)
	case OpNE:
		if xd.IsFixed() && yd.IsFixed() {
			return xd.Min() != yd.Min(), xd.Min() == yd.Min()
		}
		return !domainsOverlap(xd, yd), false
	}
	return false, false
}

func (p *reifyCompareProp) Propagate(s *Store) (PropOutcome, error) {
	changed := false
	yes, no := p.holds(s)
	if yes {
		if err := fixBoolTrue(s, p.b, &changed); err != nil {
			return Fixpoint, err
		}
	} else if no {
		if err := fixBoolFalse(s, p.b, &changed); err != nil {
			return Fixpoint, err
		}
	}

	bd := s.BoolDom(p.b)
	if bd.IsFixed() {
		activeOp := p.op
		if !bd.CanBeTrue() {
			activeOp = negateCompare(p.op)
		}
		tmp := &intCompareProp{x: p.x, op: activeOp, y: p.y}
		outcome, err := tmp.Propagate(s)
		if err != nil {
			return Fixpoint, err
		}
		if outcome == PropFailed {
			return PropFailed, nil
		}
		if outcome == Changed {
			changed = true
		}
	}

	yes, no = p.holds(s)
	if s.BoolDom(p.b).IsFixed() && (yes || no) {
		return Subsumed, nil
	}
	if changed {
		return Changed, nil
	}
	return Fixpoint, nil
}

// negateCompare returns the operator for "not (x op y)".
func negateCompare(op CompareOp) CompareOp {
	switch op {
	case OpLT:
		return OpGE
	case OpLE:
		return OpGT
	case OpGT:
		return OpLE
	case OpGE:
		return OpLT
	case OpEQ:
		return OpNE
	case OpNE:
		return OpEQ
	}
	return op
}
