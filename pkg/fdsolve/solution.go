package fdsolve

import (
	"fmt"
	"sync"
)

// Solution is an immutable snapshot of every variable's fixed value at the
// moment a search found a full assignment, plus the Statistics for the
// solve that produced it. It outlives the Store (the Store keeps mutating
// and backtracking after a solution is recorded), so it copies values out
// rather than referencing live domains.
type Solution struct {
	values []Value
	kinds  []VarKind
	stats  Statistics
}

func newSolution(s *Store) *Solution {
	n := s.NumVars()
	values := make([]Value, n)
	kinds := make([]VarKind, n)
	for i := 0; i < n; i++ {
		vid := VarID(i)
		kinds[i] = s.Kind(vid)
		switch kinds[i] {
		case KindInt:
			values[i] = IntValue(s.IntDom(vid).Min())
		case KindFloat:
			values[i] = FloatValue(s.FloatDom(vid).Min())
		case KindBool:
			values[i] = BoolValue(s.BoolDom(vid).CanBeTrue())
		}
	}
	return &Solution{values: values, kinds: kinds, stats: s.stats.snapshot(n)}
}

// At returns the value assigned to vid.
func (sol *Solution) At(vid VarID) Value {
	return sol.values[vid]
}

// IntAt returns vid's assigned value as an int64, or ErrTypeMismatch if vid
// is not an integer variable.
func (sol *Solution) IntAt(vid VarID) (int64, error) {
	if int(vid) < 0 || int(vid) >= len(sol.values) {
		return 0, fmt.Errorf("%w: var %d out of range", ErrModelInvalid, vid)
	}
	return sol.values[vid].Int()
}

// FloatAt returns vid's assigned value as a float64, or ErrTypeMismatch if
// vid is not a float variable.
func (sol *Solution) FloatAt(vid VarID) (float64, error) {
	if int(vid) < 0 || int(vid) >= len(sol.values) {
		return 0, fmt.Errorf("%w: var %d out of range", ErrModelInvalid, vid)
	}
	return sol.values[vid].Float()
}

// BoolAt returns vid's assigned value as a bool, or ErrTypeMismatch if vid
// is not a boolean variable.
func (sol *Solution) BoolAt(vid VarID) (bool, error) {
	if int(vid) < 0 || int(vid) >= len(sol.values) {
		return false, fmt.Errorf("%w: var %d out of range", ErrModelInvalid, vid)
	}
	return sol.values[vid].Bool()
}

// Stats returns the solver statistics accumulated up to this solution.
func (sol *Solution) Stats() Statistics { return sol.stats }

// SolutionIter is a pull-based iterator over a sequence of solutions,
// generalizing the teacher's lazy logic-programming Stream to incumbents
// produced by Enumerate/MinimizeAndIterate/MaximizeAndIterate. Next blocks
// until the next solution is ready, the search is exhausted, or ctx is
// canceled; callers that stop early call Close, which signals the
// underlying search to stop producing further solutions.
type SolutionIter interface {
	// Next advances to the next solution, returning false when the search
	// is exhausted or failed. Err reports which, if any, after Next
	// returns false.
	Next() (*Solution, bool)
	// Err returns the terminal error, if any, after Next returns false.
	// A plain exhaustion (no more solutions, no failure) reports nil.
	Err() error
	// Close stops the underlying search if the caller abandons iteration
	// before exhaustion. A no-op once the search has already finished.
	Close()
}

// pushSolutionIter drives SearchEngine.Run on demand from a goroutine,
// handing each solution across a channel to the pulling caller. This
// mirrors the teacher's Stream.Pull contract (consumer-paced production)
// without needing coroutines, since fdsolve's Store is not safe for
// concurrent access by the running search and a concurrently-inspected
// solution: the search goroutine blocks on the channel send until the
// caller has fully consumed (via IntAt/FloatAt/BoolAt) the prior solution
// and asks for the next one. Callers that stop pulling before exhaustion
// must call Close to let the background search goroutine unwind.
type pushSolutionIter struct {
	solutions chan *Solution
	done      chan struct{}
	resume    chan struct{}
	err       error
	errCh     chan error
	started   bool
	closeOnce sync.Once
}

func newPushSolutionIter(run func(stop <-chan struct{}, emit func(*Solution) bool) error) *pushSolutionIter {
	it := &pushSolutionIter{
		solutions: make(chan *Solution),
		done:      make(chan struct{}),
		resume:    make(chan struct{}),
		errCh:     make(chan error, 1),
	}
	go func() {
		emit := func(sol *Solution) bool {
			select {
			case it.solutions <- sol:
			case <-it.done:
				return false
			}
			select {
			case <-it.resume:
				return true
			case <-it.done:
				return false
			}
		}
		err := run(it.done, emit)
		it.errCh <- err
		close(it.solutions)
	}()
	return it
}

func (it *pushSolutionIter) Next() (*Solution, bool) {
	if it.started {
		select {
		case it.resume <- struct{}{}:
		case <-it.done:
		}
	}
	it.started = true
	sol, ok := <-it.solutions
	if !ok {
		select {
		case it.err = <-it.errCh:
		default:
		}
		it.Close()
		return nil, false
	}
	return sol, true
}

func (it *pushSolutionIter) Err() error { return it.err }

// Close signals the background search to stop and releases it if it is
// currently blocked handing off a solution. Safe to call more than once
// and after exhaustion.
func (it *pushSolutionIter) Close() {
	it.closeOnce.Do(func() { close(it.done) })
}
