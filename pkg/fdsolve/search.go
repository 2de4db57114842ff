package fdsolve

import "context"

// VariableHeuristic selects which undecided variable to branch on next.
type VariableHeuristic uint8

const (
	// VarFirstFail picks the undecided variable with the smallest domain,
	// breaking ties by position in the decision-variable list.
	VarFirstFail VariableHeuristic = iota
	// VarInputOrder picks the first undecided variable in list order.
	VarInputOrder
	// VarSmallestMin picks the undecided variable with the smallest lower
	// bound (int/float) or the one most likely to be forced false first
	// (bool), breaking ties by position.
	VarSmallestMin
)

// ValueHeuristic selects the order in which a chosen variable's domain is
// explored.
type ValueHeuristic uint8

const (
	// ValueMin tries values from the domain's minimum upward.
	ValueMin ValueHeuristic = iota
	// ValueMax tries values from the domain's maximum downward.
	ValueMax
	// ValueSplit bisects the domain, trying the lower half before the
	// upper half, each half explored further by recursive splitting.
	ValueSplit
)

// choice is one alternative explored at a search node: applying it
// narrows the store, consistent with the narrowing-then-propagate
// discipline the rest of the engine uses.
type choice func(s *Store) error

// searchFrame is one level of the iterative DFS stack: a decision level
// snapshot to return to on backtrack, plus the remaining untried
// alternatives at this node.
type searchFrame struct {
	level     DecisionLevel
	choices   []choice
	nextIndex int
}

// SearchEngine drives iterative depth-first search with backtracking over
// a Store, branching only on the given decision variables. It is a direct
// generalization of the teacher's frame-stack DFSSearch to the value-typed
// (int/float/bool) domain model and the Store's reversible trail, trading
// the teacher's own mutex-guarded FDStore for fdsolve's single-goroutine
// contract (see Model).
type SearchEngine struct {
	store  *Store
	vars   []VarID
	varH   VariableHeuristic
	valH   ValueHeuristic
	limits *limitChecker
	stats  *stats

	// BeforeNode, when set, runs at every search node right after the
	// decision level is pushed but before the node's choice is applied.
	// ObjectiveEngine uses this to re-tighten the objective variable past
	// the current incumbent on every node, since a cutoff applied at one
	// level is undone by the backtrack that pops it (see objective.go).
	BeforeNode func(s *Store) error
}

// NewSearchEngine builds a search engine over the given decision variables.
func NewSearchEngine(s *Store, vars []VarID, varH VariableHeuristic, valH ValueHeuristic, limits *limitChecker, st *stats) *SearchEngine {
	cp := make([]VarID, len(vars))
	copy(cp, vars)
	return &SearchEngine{store: s, vars: cp, varH: varH, valH: valH, limits: limits, stats: st}
}

// Run performs DFS, invoking onSolution every time every decision variable
// is assigned (after a full propagation fixpoint). onSolution returns true
// to keep searching for more solutions, false to stop early. Run returns
// when the tree is exhausted, onSolution asks to stop, ctx is canceled, or
// a configured limit is hit.
func (e *SearchEngine) Run(ctx context.Context, onSolution func() bool) error {
	if err := e.store.Propagate(); err != nil {
		if isFailure(err) {
			return nil
		}
		return err
	}
	if e.allDecided() {
		onSolution()
		return nil
	}

	var stack []searchFrame
	frame, ok, err := e.pushFrame()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	stack = append(stack, frame)

	for len(stack) > 0 {
		if e.limits != nil {
			timedOut, oom := e.limits.checkAtNode(e.stats, e.store.NumVars())
			if timedOut {
				return ErrTimeout
			}
			if oom {
				return ErrOutOfMemory
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		top := &stack[len(stack)-1]
		if top.nextIndex >= len(top.choices) {
			e.store.PopLevel()
			stack = stack[:len(stack)-1]
			continue
		}

		c := top.choices[top.nextIndex]
		top.nextIndex++

		e.store.PushLevel()
		if e.stats != nil {
			e.stats.recordNode()
		}
		var err error
		if e.BeforeNode != nil {
			err = e.BeforeNode(e.store)
		}
		if err == nil {
			err = c(e.store)
		}
		if err == nil {
			err = e.store.Propagate()
		}
		if err != nil {
			if isFailure(err) {
				if e.stats != nil {
					e.stats.recordBacktrack()
				}
				e.store.PopLevel()
				continue
			}
			return err
		}

		if e.allDecided() {
			keepGoing := onSolution()
			e.store.PopLevel()
			if !keepGoing {
				return nil
			}
			continue
		}

		next, ok, err := e.pushFrame()
		if err != nil {
			return err
		}
		if !ok {
			e.store.PopLevel()
			continue
		}
		stack = append(stack, next)
	}
	return nil
}

func (e *SearchEngine) allDecided() bool {
	for _, v := range e.vars {
		if !isVarFixed(e.store, v) {
			return false
		}
	}
	return true
}

func isVarFixed(s *Store, v VarID) bool {
	switch s.Kind(v) {
	case KindInt:
		return s.IntDom(v).IsFixed()
	case KindFloat:
		return s.FloatDom(v).IsFixed()
	case KindBool:
		return s.BoolDom(v).IsFixed()
	}
	return true
}

// pushFrame selects the next branching variable and builds its ordered
// alternatives, recording the decision level to return to on backtrack.
// ok is false when every variable is already decided.
func (e *SearchEngine) pushFrame() (searchFrame, bool, error) {
	v, found := e.selectVariable()
	if !found {
		return searchFrame{}, false, nil
	}
	lvl := e.store.Level()
	choices := e.branch(v)
	return searchFrame{level: lvl, choices: choices}, true, nil
}

func (e *SearchEngine) selectVariable() (VarID, bool) {
	best := VarID(-1)
	bestScore := int64(0)
	found := false
	for _, v := range e.vars {
		if isVarFixed(e.store, v) {
			continue
		}
		if e.varH == VarInputOrder {
			return v, true
		}
		score := e.score(v)
		if !found || score < bestScore {
			best, bestScore, found = v, score, true
		}
	}
	return best, found
}

func (e *SearchEngine) score(v VarID) int64 {
	switch e.varH {
	case VarFirstFail:
		switch e.store.Kind(v) {
		case KindInt:
			return int64(e.store.IntDom(v).Size())
		case KindBool:
			return 2
		case KindFloat:
			d := e.store.FloatDom(v)
			return int64((d.Max() - d.Min()) * 1e6)
		}
	case VarSmallestMin:
		switch e.store.Kind(v) {
		case KindInt:
			return e.store.IntDom(v).Min()
		case KindFloat:
			return int64(e.store.FloatDom(v).Min())
		case KindBool:
			if e.store.BoolDom(v).CanBeFalse() {
				return 0
			}
			return 1
		}
	}
	return 0
}

// branch builds the ordered list of alternatives to try for variable v,
// according to the value heuristic and v's kind.
func (e *SearchEngine) branch(v VarID) []choice {
	switch e.store.Kind(v) {
	case KindBool:
		return e.branchBool(v)
	case KindFloat:
		return e.branchFloat(v)
	default:
		return e.branchInt(v)
	}
}

func (e *SearchEngine) branchBool(v VarID) []choice {
	d := e.store.BoolDom(v)
	first := func(s *Store) error { return s.FixBoolTrue(v) }
	second := func(s *Store) error { return s.FixBoolFalse(v) }
	if e.valH == ValueMax {
		if d.CanBeTrue() && d.CanBeFalse() {
			return []choice{first, second}
		}
	}
	if d.CanBeFalse() && !d.CanBeTrue() {
		return []choice{second}
	}
	if d.CanBeTrue() && !d.CanBeFalse() {
		return []choice{first}
	}
	if e.valH == ValueMax {
		return []choice{first, second}
	}
	return []choice{second, first}
}

func (e *SearchEngine) branchInt(v VarID) []choice {
	d := e.store.IntDom(v)
	switch e.valH {
	case ValueMax:
		var cs []choice
		vals := make([]int64, 0, d.Size())
		d.ForEach(func(val int64) bool { vals = append(vals, val); return true })
		for i := len(vals) - 1; i >= 0; i-- {
			val := vals[i]
			cs = append(cs, func(s *Store) error { return s.FixInt(v, val) })
		}
		return cs
	case ValueSplit:
		lo, hi := d.Min(), d.Max()
		mid := lo + (hi-lo)/2
		return []choice{
			func(s *Store) error { return s.RemoveAboveInt(v, mid) },
			func(s *Store) error { return s.RemoveBelowInt(v, mid+1) },
		}
	default:
		var cs []choice
		d.ForEach(func(val int64) bool {
			cs = append(cs, func(s *Store) error { return s.FixInt(v, val) })
			return true
		})
		return cs
	}
}

func (e *SearchEngine) branchFloat(v VarID) []choice {
	d := e.store.FloatDom(v)
	lo, hi := d.Min(), d.Max()
	mid := lo + (hi-lo)/2
	lowHalf := func(s *Store) error { return s.RemoveAboveFloat(v, mid) }
	highHalf := func(s *Store) error { return s.RemoveBelowFloat(v, mid) }
	if e.valH == ValueMax {
		return []choice{highHalf, lowHalf}
	}
	return []choice{lowHalf, highHalf}
}
