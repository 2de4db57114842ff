package fdsolve

// CompareOp names a binary comparison relation between two variables of
// the same kind.
type CompareOp uint8

const (
	OpLT CompareOp = iota
	OpLE
	OpGT
	OpGE
	OpEQ
	OpNE
)

func (op CompareOp) String() string {
	switch op {
	case OpLT:
		return "<"
	case OpLE:
		return "<="
	case OpGT:
		return ">"
	case OpGE:
		return ">="
	case OpEQ:
		return "="
	case OpNE:
		return "!="
	default:
		return "?"
	}
}

func (op CompareOp) flip() CompareOp {
	switch op {
	case OpLT:
		return OpGT
	case OpLE:
		return OpGE
	case OpGT:
		return OpLT
	case OpGE:
		return OpLE
	default:
		return op
	}
}

// intCompareProp is bounds consistency for x OP y over integer domains; for
// OpEQ it additionally intersects hole sets, per spec.md §4.4's comparison
// family contract.
type intCompareProp struct {
	x, y VarID
	op   CompareOp
}

// PostCompare posts x OP y between two integer variables.
func PostCompare(s *Store, x, y VarID, op CompareOp) PropID {
	return s.Post(&intCompareProp{x: x, y: y, op: op})
}

func (p *intCompareProp) Kind() string { return "compare(" + p.op.String() + ")" }

func (p *intCompareProp) Watches() []Watch {
	return []Watch{{Var: p.x, Mask: EvAny}, {Var: p.y, Mask: EvAny}}
}

func (p *intCompareProp) Priority() Priority { return PriorityCheap }

func (p *intCompareProp) Propagate(s *Store) (PropOutcome, error) {
	switch p.op {
	case OpLT:
		return p.propagateLess(s, 1)
	case OpLE:
		return p.propagateLess(s, 0)
	case OpGT:
		return (&intCompareProp{x: p.y, y: p.x, op: OpLT}).Propagate(s)
	case OpGE:
		return (&intCompareProp{x: p.y, y: p.x, op: OpLE}).Propagate(s)
	case OpEQ:
		return p.propagateEqual(s)
	case OpNE:
		return p.propagateNotEqual(s)
	}
	return Fixpoint, nil
}

// propagateLess enforces x + strictness <= y, i.e. x < y when strictness=1,
// x <= y when strictness=0.
func (p *intCompareProp) propagateLess(s *Store, strictness int64) (PropOutcome, error) {
	xd, yd := s.IntDom(p.x), s.IntDom(p.y)
	changed := false
	if xd.Max() > yd.Max()-strictness {
		if err := s.RemoveAboveInt(p.x, yd.Max()-strictness); err != nil {
			return Fixpoint, err
		}
		changed = true
	}
	xd = s.IntDom(p.x)
	if yd.Min() < xd.Min()+strictness {
		if err := s.RemoveBelowInt(p.y, xd.Min()+strictness); err != nil {
			return Fixpoint, err
		}
		changed = true
	}
	yd = s.IntDom(p.y)
	if xd.Max() <= yd.Min()-strictness {
		return Subsumed, nil
	}
	if changed {
		return Changed, nil
	}
	return Fixpoint, nil
}

func (p *intCompareProp) propagateEqual(s *Store) (PropOutcome, error) {
	xd, yd := s.IntDom(p.x), s.IntDom(p.y)
	changed := false
	beforeX, beforeY := xd.Size(), yd.Size()
	if err := s.IntersectInt(p.x, yd); err != nil {
		return Fixpoint, err
	}
	xd = s.IntDom(p.x)
	if err := s.IntersectInt(p.y, xd); err != nil {
		return Fixpoint, err
	}
	yd = s.IntDom(p.y)
	changed = xd.Size() != beforeX || yd.Size() != beforeY
	if xd.IsFixed() && yd.IsFixed() {
		return Subsumed, nil
	}
	if changed {
		return Changed, nil
	}
	return Fixpoint, nil
}

func (p *intCompareProp) propagateNotEqual(s *Store) (PropOutcome, error) {
	xd, yd := s.IntDom(p.x), s.IntDom(p.y)
	changed := false
	if yd.IsFixed() {
		v := yd.Min()
		if xd.Contains(v) {
			if err := s.RemoveValueInt(p.x, v); err != nil {
				return Fixpoint, err
			}
			changed = true
		}
	}
	xd = s.IntDom(p.x)
	if xd.IsFixed() {
		v := xd.Min()
		if s.IntDom(p.y).Contains(v) {
			if err := s.RemoveValueInt(p.y, v); err != nil {
				return Fixpoint, err
			}
			changed = true
		}
	}
	xd, yd = s.IntDom(p.x), s.IntDom(p.y)
	if xd.IsFixed() && yd.IsFixed() {
		return Subsumed, nil
	}
	if xd.Max() < yd.Min() || yd.Max() < xd.Min() {
		return Subsumed, nil
	}
	if changed {
		return Changed, nil
	}
	return Fixpoint, nil
}

// floatCompareProp mirrors intCompareProp for float domains, using
// outward-rounded interval arithmetic: a removal only happens when it is
// unambiguous under Epsilon.
type floatCompareProp struct {
	x, y VarID
	op   CompareOp
}

// PostFloatCompare posts x OP y between two float variables.
func PostFloatCompare(s *Store, x, y VarID, op CompareOp) PropID {
	return s.Post(&floatCompareProp{x: x, y: y, op: op})
}

func (p *floatCompareProp) Kind() string { return "floatCompare(" + p.op.String() + ")" }

func (p *floatCompareProp) Watches() []Watch {
	return []Watch{{Var: p.x, Mask: EvAny}, {Var: p.y, Mask: EvAny}}
}

func (p *floatCompareProp) Priority() Priority { return PriorityCheap }

func (p *floatCompareProp) Propagate(s *Store) (PropOutcome, error) {
	switch p.op {
	case OpLT, OpLE:
		return p.propagateLess(s)
	case OpGT:
		return (&floatCompareProp{x: p.y, y: p.x, op: OpLT}).Propagate(s)
	case OpGE:
		return (&floatCompareProp{x: p.y, y: p.x, op: OpLE}).Propagate(s)
	case OpEQ:
		return p.propagateEqual(s)
	default:
		return Fixpoint, nil
	}
}

func (p *floatCompareProp) propagateLess(s *Store) (PropOutcome, error) {
	xd, yd := s.FloatDom(p.x), s.FloatDom(p.y)
	changed := false
	if xd.Max() > yd.Max() {
		if err := s.RemoveAboveFloat(p.x, yd.Max()); err != nil {
			return Fixpoint, err
		}
		changed = true
	}
	xd = s.FloatDom(p.x)
	if yd.Min() < xd.Min() {
		if err := s.RemoveBelowFloat(p.y, xd.Min()); err != nil {
			return Fixpoint, err
		}
		changed = true
	}
	if changed {
		return Changed, nil
	}
	return Fixpoint, nil
}

func (p *floatCompareProp) propagateEqual(s *Store) (PropOutcome, error) {
	xd, yd := s.FloatDom(p.x), s.FloatDom(p.y)
	lo := xd.Min()
	if yd.Min() > lo {
		lo = yd.Min()
	}
	hi := xd.Max()
	if yd.Max() < hi {
		hi = yd.Max()
	}
	nx, outX := xd.Intersect(lo, hi)
	if err := s.apply(p.x, nx, outX); err != nil {
		return Fixpoint, err
	}
	xd = s.FloatDom(p.x)
	ny, outY := yd.Intersect(xd.Min(), xd.Max())
	if err := s.apply(p.y, ny, outY); err != nil {
		return Fixpoint, err
	}
	if outX != Unchanged || outY != Unchanged {
		return Changed, nil
	}
	return Fixpoint, nil
}
