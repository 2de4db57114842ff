package fdsolve

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/gitrdm/fdsolve/pkg/fdsolve/simplex"
)

// Model is the builder and entry point for one constraint problem: declare
// variables, post constraints, then call one of the solve methods. A Model
// owns exactly one Store for the life of a single top-level solve call,
// matching spec.md §5's single-owner, single-threaded contract; independent
// Models may be driven from independent goroutines with no shared state.
type Model struct {
	cfg     Config
	store   *Store
	limits  *limitChecker
	decVars []VarID
	linCons []*linearConstraint
}

// New builds a Model with the given options applied over the default
// configuration.
func New(opts ...Option) *Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	store := newStore(cfg.FloatPrecision, cfg.Logger)
	return &Model{
		cfg:    cfg,
		store:  store,
		limits: newLimitChecker(cfg.Timeout, cfg.MemoryLimitMB),
	}
}

// Int declares an integer decision variable with domain [lo, hi].
func (m *Model) Int(lo, hi int64) VarID {
	v := m.store.NewIntVar(lo, hi, "")
	m.decVars = append(m.decVars, v)
	return v
}

// Float declares a float decision variable with domain [lo, hi].
func (m *Model) Float(lo, hi float64) VarID {
	v := m.store.NewFloatVar(lo, hi, "")
	m.decVars = append(m.decVars, v)
	return v
}

// Bool declares a boolean decision variable.
func (m *Model) Bool() VarID {
	v := m.store.NewBoolVar("")
	m.decVars = append(m.decVars, v)
	return v
}

// Ints declares n integer decision variables, each with domain [lo, hi].
func (m *Model) Ints(n int, lo, hi int64) []VarID {
	vs := make([]VarID, n)
	for i := range vs {
		vs[i] = m.Int(lo, hi)
	}
	return vs
}

// Binary declares n boolean decision variables.
func (m *Model) Binary(n int) []VarID {
	vs := make([]VarID, n)
	for i := range vs {
		vs[i] = m.Bool()
	}
	return vs
}

// Post installs a constraint against the model, returning a reference to
// the propagator that enforces it. Constraints may be posted any time
// before the first solve call; posting after a solve has started is not
// supported (the Store is not safe for concurrent mutation mid-search).
func (m *Model) Post(c Constraint) (ConstraintRef, error) {
	pid, err := c.post(m.store)
	if err != nil {
		return 0, err
	}
	if lc, ok := c.(*linearConstraint); ok {
		m.linCons = append(m.linCons, lc)
	}
	return ConstraintRef(pid), nil
}

func (m *Model) newSearchEngine() *SearchEngine {
	return NewSearchEngine(m.store, m.decVars, m.cfg.VariableHeuristic, m.cfg.ValueHeuristic, m.limits, m.store.stats)
}

// Solve finds one satisfying assignment, or reports unsatisfiability via a
// nil *Solution with a nil error (spec.md §7: unsatisfiability is not an
// error condition).
func (m *Model) Solve(ctx context.Context) (*Solution, error) {
	if unsat, err := m.tightenRootBounds(); err != nil {
		return nil, err
	} else if unsat {
		return nil, nil
	}
	se := m.newSearchEngine()
	var found *Solution
	err := se.Run(ctx, func() bool {
		found = newSolution(m.store)
		return false
	})
	if err != nil {
		return found, err
	}
	return found, nil
}

// Enumerate returns a pull-based iterator over every satisfying assignment.
func (m *Model) Enumerate(ctx context.Context) SolutionIter {
	return newPushSolutionIter(func(stop <-chan struct{}, emit func(*Solution) bool) error {
		if unsat, err := m.tightenRootBounds(); err != nil {
			return err
		} else if unsat {
			return nil
		}
		innerCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			select {
			case <-stop:
				cancel()
			case <-innerCtx.Done():
			}
		}()
		se := m.newSearchEngine()
		return se.Run(innerCtx, func() bool {
			return emit(newSolution(m.store))
		})
	})
}

// Minimize runs branch-and-bound to find a solution minimizing obj's value,
// returning nil with no error if the model is unsatisfiable.
func (m *Model) Minimize(ctx context.Context, obj VarID) (*Solution, error) {
	return m.optimize(ctx, obj, true)
}

// Maximize runs branch-and-bound to find a solution maximizing obj's value.
func (m *Model) Maximize(ctx context.Context, obj VarID) (*Solution, error) {
	return m.optimize(ctx, obj, false)
}

func (m *Model) optimize(ctx context.Context, obj VarID, minimize bool) (*Solution, error) {
	if unsat, err := m.tightenRootBounds(); err != nil {
		return nil, err
	} else if unsat {
		return nil, nil
	}
	se := m.newSearchEngine()
	oe := NewObjectiveEngine(se, m.store, obj, minimize, m.lpBoundFor(obj))
	var best *Solution
	_, found, err := oe.Best(ctx, func(int64) {
		best = newSolution(m.store)
	})
	if err != nil {
		return best, err
	}
	if !found {
		return nil, nil
	}
	return best, nil
}

// MinimizeAndIterate returns a pull-based iterator yielding each improving
// incumbent as branch-and-bound discovers it, ending with the optimum.
func (m *Model) MinimizeAndIterate(ctx context.Context, obj VarID) SolutionIter {
	return m.optimizeAndIterate(ctx, obj, true)
}

// MaximizeAndIterate is MinimizeAndIterate's maximizing counterpart.
func (m *Model) MaximizeAndIterate(ctx context.Context, obj VarID) SolutionIter {
	return m.optimizeAndIterate(ctx, obj, false)
}

func (m *Model) optimizeAndIterate(ctx context.Context, obj VarID, minimize bool) SolutionIter {
	return newPushSolutionIter(func(stop <-chan struct{}, emit func(*Solution) bool) error {
		if unsat, err := m.tightenRootBounds(); err != nil {
			return err
		} else if unsat {
			return nil
		}
		innerCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			select {
			case <-stop:
				cancel()
			case <-innerCtx.Done():
			}
		}()
		se := m.newSearchEngine()
		oe := NewObjectiveEngine(se, m.store, obj, minimize, m.lpBoundFor(obj))
		keepGoing := true
		_, _, err := oe.Best(innerCtx, func(int64) {
			if keepGoing {
				keepGoing = emit(newSolution(m.store))
			}
		})
		return err
	})
}

// linearRelaxation is the LP-over-current-domains construction shared by
// the root-level tightening pass and the objective driver's relaxation
// bound: one column per integer variable mentioned in a posted
// Linear/SumEqual/SumLE/SumGE constraint (the only constraint family with
// a linear form to hand to the simplex subsolver), one row per constraint
// shifted so every column starts at that variable's current domain
// minimum, plus a per-variable span constraint so the LP's own feasible
// region never exceeds what the store already allows. Any other
// constraint kind (AllDifferent, reification, Cumulative, ...) simply
// contributes nothing, which can only weaken the relaxation, never
// invalidate it.
type linearRelaxation struct {
	prob *simplex.Problem
	vars []VarID
	idx  map[VarID]int
	lows []int64
}

func (m *Model) buildLinearRelaxation(s *Store) (*linearRelaxation, bool) {
	if len(m.linCons) == 0 {
		return nil, false
	}
	idx := make(map[VarID]int)
	var used []VarID
	colOf := func(v VarID) int {
		if i, ok := idx[v]; ok {
			return i
		}
		i := len(used)
		idx[v] = i
		used = append(used, v)
		return i
	}
	for _, lc := range m.linCons {
		for _, v := range lc.xs {
			colOf(v)
		}
	}

	n := len(used)
	lows := make([]int64, n)
	prob := simplex.NewProblem(n)
	for i, v := range used {
		if s.Kind(v) != KindInt {
			return nil, false
		}
		d := s.IntDom(v)
		lows[i] = d.Min()
		span := float64(d.Max() - d.Min())
		row := make([]float64, n)
		row[i] = 1
		if err := prob.AddConstraint(row, simplex.LE, span); err != nil {
			return nil, false
		}
	}
	for _, lc := range m.linCons {
		row := make([]float64, n)
		var shift float64
		for j, v := range lc.xs {
			i := idx[v]
			row[i] += float64(lc.coeffs[j])
			shift += float64(lc.coeffs[j]) * float64(lows[i])
		}
		if lc.lo > -linearInf {
			if err := prob.AddConstraint(row, simplex.GE, float64(lc.lo)-shift); err != nil {
				return nil, false
			}
		}
		if lc.hi < linearInf {
			if err := prob.AddConstraint(row, simplex.LE, float64(lc.hi)-shift); err != nil {
				return nil, false
			}
		}
	}
	return &linearRelaxation{prob: prob, vars: used, idx: idx, lows: lows}, true
}

// tightenRootBounds implements spec.md §4.5 use 1: once at the root,
// before any incumbent and before search starts (and only when LPCadence
// is positive), solve the LP relaxation
// of the linear constraints posted so far and narrow each mentioned
// variable's domain from any bound the LP proves tighter, rounding inward
// for integers (ceil the lower bound, floor the upper). unsat reports
// true when root tightening alone proves the model infeasible.
// RemoveBelowInt/RemoveAboveInt are themselves monotonic narrowing
// operations, so a looser LP-proved bound than the store already has is
// silently discarded rather than applied — the monotonicity spec.md
// requires falls out of reusing those primitives rather than needing a
// separate check here.
func (m *Model) tightenRootBounds() (unsat bool, err error) {
	if m.cfg.LPCadence <= 0 || len(m.linCons) == 0 {
		return false, nil
	}
	lr, ok := m.buildLinearRelaxation(m.store)
	if !ok {
		return false, nil
	}
	updates := simplex.TightenBounds(lr.prob, simplex.Config{
		FeasibilityTol: m.cfg.FloatPrecision,
		OptimalityTol:  m.cfg.FloatPrecision,
		MaxIterations:  m.cfg.LPIterCap,
	})
	for _, u := range updates {
		v := lr.vars[u.VarIndex]
		shift := float64(lr.lows[u.VarIndex])
		if u.HasLo {
			if err := m.store.RemoveBelowInt(v, int64(math.Ceil(u.Lo+shift-1e-9))); err != nil {
				if isFailure(err) {
					return true, nil
				}
				return false, err
			}
		}
		if u.HasHi {
			if err := m.store.RemoveAboveInt(v, int64(math.Floor(u.Hi+shift+1e-9))); err != nil {
				if isFailure(err) {
					return true, nil
				}
				return false, err
			}
		}
	}
	if err := m.store.Propagate(); err != nil {
		if isFailure(err) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

// lpBoundFor builds an LPBound hook for the objective driver: every
// LPCadence nodes, it relaxes the current linear constraints into an LP
// over shifted domain bounds and calls simplex.RelaxObjective for a bound
// on obj. Any simplex failure (infeasible-looking, unbounded, iteration
// cap) degrades to ok=false, never an error, matching simplex.RelaxObjective's
// advisory contract.
func (m *Model) lpBoundFor(obj VarID) LPBound {
	if m.cfg.LPCadence <= 0 || len(m.linCons) == 0 {
		return nil
	}
	calls := 0
	return func(s *Store, minimize bool) (int64, bool) {
		calls++
		if calls%m.cfg.LPCadence != 0 {
			return 0, false
		}

		lr, ok := m.buildLinearRelaxation(s)
		if !ok {
			return 0, false
		}
		i, ok := lr.idx[obj]
		if !ok {
			return 0, false
		}

		objRow := make([]float64, len(lr.vars))
		objRow[i] = 1
		if err := lr.prob.SetObjective(objRow, !minimize); err != nil {
			return 0, false
		}
		value, ok := simplex.RelaxObjective(lr.prob, simplex.Config{
			FeasibilityTol: m.cfg.FloatPrecision,
			OptimalityTol:  m.cfg.FloatPrecision,
			MaxIterations:  m.cfg.LPIterCap,
		})
		if !ok {
			return 0, false
		}
		bound := value + float64(lr.lows[i])
		if minimize {
			return int64(math.Ceil(bound - 1e-9)), true
		}
		return int64(math.Floor(bound + 1e-9)), true
	}
}

// Stats returns the statistics accumulated so far by this model's Store.
func (m *Model) Stats() Statistics {
	return m.store.stats.snapshot(m.store.NumVars())
}

// Logger returns the logger this Model was configured with.
func (m *Model) Logger() *zap.Logger { return m.cfg.Logger }
