package fdsolve

import "context"

// LPBound, when set on an ObjectiveEngine, gives a relaxation bound on the
// objective variable's achievable value at the current node: ok is false
// when the bound could not be computed (infeasible LP, iteration limit) and
// the branch-and-bound driver falls back to domain bounds alone. This is
// the hook the LP subsolver plugs into; it is advisory only; a bad or
// missing bound never costs correctness, only pruning strength.
type LPBound func(s *Store, minimize bool) (bound int64, ok bool)

// ObjectiveEngine runs branch-and-bound over an integer objective variable,
// reusing SearchEngine's node-by-node DFS but adding an incumbent cutoff:
// every time a better solution is found, the objective domain is
// permanently tightened past it so the remaining search only ever explores
// strictly improving nodes, generalizing the teacher's SolveOptimalWithOptions
// incumbent-cutoff technique (obj <= best-1 / obj >= best+1) to fdsolve's
// trail-based Store.
type ObjectiveEngine struct {
	search    *SearchEngine
	store     *Store
	obj       VarID
	minimize  bool
	lpBound   LPBound
}

// NewObjectiveEngine builds a branch-and-bound driver over obj, minimizing
// or maximizing as requested. lpBound may be nil to disable LP-guided
// pruning.
func NewObjectiveEngine(se *SearchEngine, s *Store, obj VarID, minimize bool, lpBound LPBound) *ObjectiveEngine {
	return &ObjectiveEngine{search: se, store: s, obj: obj, minimize: minimize, lpBound: lpBound}
}

// Best runs the full branch-and-bound search and returns the best solution
// found (via a snapshot taken by onImprove) and its objective value, or
// found=false if the model is unsatisfiable. Ties are broken by whichever
// solution is found first, matching spec.md's stated undefined ordering
// among optimal solutions.
func (e *ObjectiveEngine) Best(ctx context.Context, onImprove func(value int64)) (bestValue int64, found bool, err error) {
	haveIncumbent := false
	var best int64

	// Re-tightening the objective inside BeforeNode (rather than once,
	// immediately after finding an incumbent) keeps the cutoff in force:
	// the narrowing is trailed like any other and undone when its level is
	// popped, so it is reapplied fresh at the current decision level on
	// every node, and a backtrack past the node where an incumbent was
	// found never resurrects the looser bound.
	e.search.BeforeNode = func(s *Store) error {
		if haveIncumbent {
			if e.minimize {
				if err := s.RemoveAboveInt(e.obj, best-1); err != nil {
					return err
				}
			} else if err := s.RemoveBelowInt(e.obj, best+1); err != nil {
				return err
			}
		}
		if e.lpBound == nil || !haveIncumbent {
			return nil
		}
		// A relaxation bound worse than (or equal to) the incumbent proves
		// this node can never improve on it; fail it without exploring
		// further, same effect as the domain cutoff above but often
		// triggered many nodes earlier.
		bound, ok := e.lpBound(s, e.minimize)
		if !ok {
			return nil
		}
		if e.minimize && bound >= best {
			return newFailure("LP relaxation bound dominates incumbent")
		}
		if !e.minimize && bound <= best {
			return newFailure("LP relaxation bound dominates incumbent")
		}
		return nil
	}

	onSolution := func() bool {
		v := e.store.IntDom(e.obj).Min()
		if !haveIncumbent || e.better(v, best) {
			best, haveIncumbent = v, true
			if onImprove != nil {
				onImprove(v)
			}
		}
		return true
	}

	if err := e.search.Run(ctx, onSolution); err != nil {
		return 0, haveIncumbent, err
	}
	return best, haveIncumbent, nil
}

func (e *ObjectiveEngine) better(a, b int64) bool {
	if e.minimize {
		return a < b
	}
	return a > b
}
