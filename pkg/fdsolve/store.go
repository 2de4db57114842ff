package fdsolve

import (
	"fmt"

	"go.uber.org/zap"
)

// Store is the indexed collection of domains keyed by VarID, plus the
// reversible trail that restores them on backtracking. It owns all solver
// state exclusively during one solve call (spec.md §5: single-owner,
// single-threaded within one Solve).
type Store struct {
	domains []Domain
	kinds   []VarKind
	names   []string

	reg *registry

	trail      []trailEntry
	levelMarks []int // levelMarks[level] = trail length when that level was pushed
	writtenVarAt  []int // per-var: decision level of its last trail snapshot, -1 = never
	writtenPropAt []int // per-prop: same, for the subsumed bit

	level DecisionLevel

	epsilon float64
	stats   *stats
	logger  *zap.Logger
}

func newStore(epsilon float64, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		reg:        newRegistry(),
		levelMarks: []int{0},
		epsilon:    epsilon,
		stats:      newStats(),
		logger:     logger,
	}
}

// --- variable creation ---

func (s *Store) addVar(kind VarKind, dom Domain, name string) VarID {
	vid := VarID(len(s.domains))
	s.domains = append(s.domains, dom)
	s.kinds = append(s.kinds, kind)
	s.names = append(s.names, name)
	s.writtenVarAt = append(s.writtenVarAt, -1)
	return vid
}

func (s *Store) NewIntVar(lo, hi int64, name string) VarID {
	return s.addVar(KindInt, newIntInterval(lo, hi), name)
}

func (s *Store) NewFloatVar(lo, hi float64, name string) VarID {
	return s.addVar(KindFloat, newFloatInterval(lo, hi, s.epsilon), name)
}

func (s *Store) NewBoolVar(name string) VarID {
	return s.addVar(KindBool, newBoolDomain(), name)
}

func (s *Store) NumVars() int { return len(s.domains) }

// Domain returns the current domain for vid.
func (s *Store) Domain(vid VarID) Domain { return s.domains[vid] }

// Kind returns the declared kind for vid.
func (s *Store) Kind(vid VarID) VarKind { return s.kinds[vid] }

// Name returns the declared (possibly empty) debug name for vid.
func (s *Store) Name(vid VarID) string { return s.names[vid] }

// AllAssigned reports whether every variable's domain is currently fixed.
func (s *Store) AllAssigned() bool {
	for _, d := range s.domains {
		if !d.IsFixed() {
			return false
		}
	}
	return true
}

// Epsilon returns the float tolerance in effect for this store.
func (s *Store) Epsilon() float64 { return s.epsilon }

func (s *Store) IntDom(vid VarID) IntDomain {
	return s.domains[vid].(IntDomain)
}

func (s *Store) FloatDom(vid VarID) FloatDomain {
	return s.domains[vid].(FloatDomain)
}

func (s *Store) BoolDom(vid VarID) BoolDomain {
	return s.domains[vid].(BoolDomain)
}

// --- trail / decision levels ---

// PushLevel begins a new decision level. Must be called with the
// propagation queue empty (i.e. after a fixpoint): see Store.Propagate.
func (s *Store) PushLevel() DecisionLevel {
	s.level++
	s.levelMarks = append(s.levelMarks, len(s.trail))
	return s.level
}

// PopLevel undoes every domain and subsumed-bit change made since the
// matching PushLevel, restoring the store to its pre-push state
// bit-for-bit.
func (s *Store) PopLevel() {
	if s.level == 0 {
		return
	}
	mark := s.levelMarks[s.level]
	for i := len(s.trail) - 1; i >= mark; i-- {
		e := s.trail[i]
		if e.isPropEntry {
			s.reg.subsumed[e.pid] = e.priorSubsumed
			s.writtenPropAt[e.pid] = -1
		} else {
			s.domains[e.vid] = e.priorDomain
			s.writtenVarAt[e.vid] = -1
		}
	}
	s.trail = s.trail[:mark]
	s.levelMarks = s.levelMarks[:s.level]
	s.level--
	s.stats.recordTrailSize(len(s.trail))
}

// Level reports the current decision level.
func (s *Store) Level() DecisionLevel { return s.level }

func (s *Store) snapshotVarIfNeeded(vid VarID) {
	lvl := int(s.level)
	if s.writtenVarAt[vid] == lvl {
		return
	}
	s.trail = append(s.trail, trailEntry{vid: vid, priorDomain: s.domains[vid]})
	s.writtenVarAt[vid] = lvl
	s.stats.recordTrailSize(len(s.trail))
}

func (s *Store) snapshotPropIfNeeded(pid PropID) {
	lvl := int(s.level)
	if s.writtenPropAt[pid] == lvl {
		return
	}
	s.trail = append(s.trail, trailEntry{isPropEntry: true, pid: pid, priorSubsumed: s.reg.subsumed[pid]})
	s.writtenPropAt[pid] = lvl
}

// --- narrowing primitives ---

// apply installs newDom for vid given the Outcome already computed by the
// domain-level operation, pushing a trail entry (once per level) and
// waking any propagators subscribed to the resulting events. Returns the
// domain failure signal (not a Go error in the ordinary sense) when the
// domain became empty.
func (s *Store) apply(vid VarID, newDom Domain, outcome Outcome) error {
	switch outcome {
	case Unchanged:
		return nil
	case Failed:
		s.reg.notify(vid, EvFailed)
		return newFailure(fmt.Sprintf("domain of var %d (%s) emptied", vid, s.names[vid]))
	default:
		s.snapshotVarIfNeeded(vid)
		s.domains[vid] = newDom
		s.reg.notify(vid, outcome.eventMask())
		return nil
	}
}

func (s *Store) RemoveBelowInt(vid VarID, v int64) error {
	nd, out := s.IntDom(vid).RemoveBelow(v)
	return s.apply(vid, nd, out)
}

func (s *Store) RemoveAboveInt(vid VarID, v int64) error {
	nd, out := s.IntDom(vid).RemoveAbove(v)
	return s.apply(vid, nd, out)
}

func (s *Store) RemoveValueInt(vid VarID, v int64) error {
	nd, out := s.IntDom(vid).RemoveValue(v)
	return s.apply(vid, nd, out)
}

func (s *Store) FixInt(vid VarID, v int64) error {
	nd, out := s.IntDom(vid).Fix(v)
	return s.apply(vid, nd, out)
}

func (s *Store) IntersectInt(vid VarID, other IntDomain) error {
	nd, out := s.IntDom(vid).Intersect(other)
	return s.apply(vid, nd, out)
}

func (s *Store) RemoveBelowFloat(vid VarID, v float64) error {
	nd, out := s.FloatDom(vid).RemoveBelow(v)
	return s.apply(vid, nd, out)
}

func (s *Store) RemoveAboveFloat(vid VarID, v float64) error {
	nd, out := s.FloatDom(vid).RemoveAbove(v)
	return s.apply(vid, nd, out)
}

func (s *Store) IntersectFloat(vid VarID, lo, hi float64) error {
	nd, out := s.FloatDom(vid).Intersect(lo, hi)
	return s.apply(vid, nd, out)
}

func (s *Store) FixBoolTrue(vid VarID) error {
	nd, out := s.BoolDom(vid).FixTrue()
	return s.apply(vid, nd, out)
}

func (s *Store) FixBoolFalse(vid VarID) error {
	nd, out := s.BoolDom(vid).FixFalse()
	return s.apply(vid, nd, out)
}

// --- propagator registration & subsumption ---

func (s *Store) Post(p Propagator) PropID {
	pid := s.reg.post(p)
	s.writtenPropAt = append(s.writtenPropAt, -1)
	return pid
}

// SetSubsumed marks pid subsumed (or resurrects it), recording the prior
// bit on the trail so backtracking can undo it.
func (s *Store) SetSubsumed(pid PropID, v bool) {
	s.snapshotPropIfNeeded(pid)
	s.reg.setSubsumed(pid, v)
}

// --- propagation fixpoint loop ---

// Propagate drains the queue until empty or failure, per spec.md §4.3: a
// propagator runs to completion and re-queues itself only via events it
// produces on its own variables.
func (s *Store) Propagate() error {
	for {
		pid, ok := s.reg.pop()
		if !ok {
			return nil
		}
		if s.reg.subsumed[pid] {
			continue
		}
		s.stats.recordQueueSize(s.reg.queueLen())
		outcome, err := s.reg.props[pid].Propagate(s)
		s.stats.recordPropagation()
		if err != nil {
			return err
		}
		switch outcome {
		case Subsumed:
			s.SetSubsumed(pid, true)
		case PropFailed:
			return newFailure(fmt.Sprintf("propagator %s reported failure", s.reg.props[pid].Kind()))
		}
	}
}
