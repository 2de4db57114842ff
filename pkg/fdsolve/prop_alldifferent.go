package fdsolve

// allDifferentProp enforces that every variable in xs takes a distinct
// value. Filtering works by bipartite maximum matching between variables
// and values: a value survives in a variable's domain only if some
// complete matching still assigns it there, which subsumes Hall-interval
// pruning (spec.md §4.4's minimum bar for this family) while also cross
// checking the all-fixed case directly.
type allDifferentProp struct {
	xs []VarID
}

// PostAllDifferent posts alldifferent(xs).
func PostAllDifferent(s *Store, xs []VarID) PropID {
	cp := make([]VarID, len(xs))
	copy(cp, xs)
	return s.Post(&allDifferentProp{xs: cp})
}

func (p *allDifferentProp) Kind() string { return "alldifferent" }

func (p *allDifferentProp) Watches() []Watch {
	w := make([]Watch, len(p.xs))
	for i, x := range p.xs {
		w[i] = Watch{Var: x, Mask: EvAny}
	}
	return w
}

func (p *allDifferentProp) Priority() Priority { return PriorityExpensive }

func (p *allDifferentProp) Propagate(s *Store) (PropOutcome, error) {
	n := len(p.xs)
	if n <= 1 {
		return Subsumed, nil
	}

	// Cheap pass: fixed values must be pairwise distinct, and are removed
	// from every other variable's domain directly.
	fixedVal := make(map[int64]VarID, n)
	for _, x := range p.xs {
		d := s.IntDom(x)
		if !d.IsFixed() {
			continue
		}
		v := d.Min()
		if other, ok := fixedVal[v]; ok && other != x {
			return PropFailed, nil
		}
		fixedVal[v] = x
	}
	changed := false
	for v, owner := range fixedVal {
		for _, x := range p.xs {
			if x == owner {
				continue
			}
			if s.IntDom(x).Contains(v) {
				if err := s.RemoveValueInt(x, v); err != nil {
					return Fixpoint, err
				}
				changed = true
			}
		}
	}

	matchVal, matched := maxMatchingAllDiff(s, p.xs, -1, 0, false)
	if matched < n {
		return PropFailed, nil
	}

	allFixed := true
	for i, x := range p.xs {
		d := s.IntDom(x)
		if d.IsFixed() {
			continue
		}
		allFixed = false
		var toRemove []int64
		d.ForEach(func(v int64) bool {
			if matchVal[v] == i {
				return true
			}
			_, m := maxMatchingAllDiff(s, p.xs, i, v, true)
			if m < n {
				toRemove = append(toRemove, v)
			}
			return true
		})
		for _, v := range toRemove {
			if err := s.RemoveValueInt(x, v); err != nil {
				return Fixpoint, err
			}
			changed = true
		}
	}

	if allFixed {
		return Subsumed, nil
	}
	if changed {
		return Changed, nil
	}
	return Fixpoint, nil
}

// maxMatchingAllDiff computes a maximum bipartite matching between
// variable indices and values, treating variable forceVar (when hasForce)
// as restricted to the single value forceVal regardless of its real
// domain. Returns the value->variable-index assignment and match size.
func maxMatchingAllDiff(s *Store, xs []VarID, forceVar int, forceVal int64, hasForce bool) (map[int64]int, int) {
	n := len(xs)
	matchVal := make(map[int64]int, n)
	seen := make(map[int64]int, n)
	token := 0

	candidates := func(i int) []int64 {
		if hasForce && i == forceVar {
			return []int64{forceVal}
		}
		var vals []int64
		s.IntDom(xs[i]).ForEach(func(v int64) bool {
			vals = append(vals, v)
			return true
		})
		return vals
	}

	var tryAugment func(i int, tok int) bool
	tryAugment = func(i int, tok int) bool {
		for _, v := range candidates(i) {
			if seen[v] == tok {
				continue
			}
			seen[v] = tok
			owner, ok := matchVal[v]
			if !ok {
				matchVal[v] = i
				return true
			}
			if tryAugment(owner, tok) {
				matchVal[v] = i
				return true
			}
		}
		return false
	}

	matched := 0
	for i := 0; i < n; i++ {
		token++
		if tryAugment(i, token) {
			matched++
		}
	}
	return matchVal, matched
}
