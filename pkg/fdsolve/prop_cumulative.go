package fdsolve

import "fmt"

// cumulativeProp models a single renewable resource with fixed capacity
// consumed by a set of tasks with fixed durations and demands. A task
// scheduled at start s occupies the inclusive range [s, s+dur-1]; at every
// time unit the sum of demands of tasks executing at that time must not
// exceed capacity. This is a supplemented constraint family (not in the
// comparison/arithmetic/alldifferent core) added because resource
// scheduling is a natural extension of a finite-domain engine and the
// algorithm below carries over almost unchanged from timetable filtering
// over compulsory parts.
//
// Propagation strength is time-table filtering, not edge-finding: compute
// each task's compulsory part (the window in which it must execute
// regardless of its exact start, when one exists), sum demands into a
// profile, and forbid any start whose placement would push some covered
// instant's profile above capacity. Sound but not domain-complete.
type cumulativeProp struct {
	starts    []VarID
	durations []int64
	demands   []int64
	capacity  int64
}

// PostCumulative posts a cumulative resource constraint: each task i has a
// start-time variable starts[i], fixed duration durations[i] > 0, and fixed
// demand demands[i] >= 0; at every instant the sum of demands of the tasks
// occupying it must not exceed capacity.
func PostCumulative(s *Store, starts []VarID, durations, demands []int64, capacity int64) (PropID, error) {
	n := len(starts)
	if n == 0 {
		return 0, fmt.Errorf("%w: cumulative requires at least one task", ErrModelInvalid)
	}
	if len(durations) != n || len(demands) != n {
		return 0, fmt.Errorf("%w: cumulative mismatched lengths (starts=%d, durations=%d, demands=%d)",
			ErrModelInvalid, n, len(durations), len(demands))
	}
	if capacity <= 0 {
		return 0, fmt.Errorf("%w: cumulative capacity must be > 0", ErrModelInvalid)
	}
	for i := 0; i < n; i++ {
		if durations[i] <= 0 {
			return 0, fmt.Errorf("%w: cumulative durations[%d] must be > 0", ErrModelInvalid, i)
		}
		if demands[i] < 0 {
			return 0, fmt.Errorf("%w: cumulative demands[%d] must be >= 0", ErrModelInvalid, i)
		}
	}
	st := make([]VarID, n)
	copy(st, starts)
	du := make([]int64, n)
	copy(du, durations)
	de := make([]int64, n)
	copy(de, demands)
	return s.Post(&cumulativeProp{starts: st, durations: du, demands: de, capacity: capacity}), nil
}

func (p *cumulativeProp) Kind() string { return "cumulative" }

func (p *cumulativeProp) Watches() []Watch {
	w := make([]Watch, len(p.starts))
	for i, v := range p.starts {
		w[i] = Watch{Var: v, Mask: EvAny}
	}
	return w
}

func (p *cumulativeProp) Priority() Priority { return PriorityExpensive }

func (p *cumulativeProp) Propagate(s *Store) (PropOutcome, error) {
	n := len(p.starts)
	est := make([]int64, n)
	lst := make([]int64, n)
	var maxEnd int64
	allFixed := true
	for i, v := range p.starts {
		d := s.IntDom(v)
		if !d.IsFixed() {
			allFixed = false
		}
		est[i], lst[i] = d.Min(), d.Max()
		if end := lst[i] + p.durations[i] - 1; end > maxEnd {
			maxEnd = end
		}
	}
	profile := make(map[int64]int64)
	cpStart := make([]int64, n)
	cpEnd := make([]int64, n)
	for i := 0; i < n; i++ {
		cpStart[i] = lst[i]
		cpEnd[i] = est[i] + p.durations[i] - 1
		if cpStart[i] > cpEnd[i] || p.demands[i] == 0 {
			continue
		}
		startT, endT := cpStart[i], cpEnd[i]
		if endT > maxEnd {
			endT = maxEnd
		}
		for t := startT; t <= endT; t++ {
			profile[t] += p.demands[i]
			if profile[t] > p.capacity {
				return PropFailed, nil
			}
		}
	}

	changed := false
	for i, v := range p.starts {
		if p.demands[i] == 0 {
			continue
		}
		d := s.IntDom(v)
		if d.IsFixed() {
			continue
		}
		dur, dem := p.durations[i], p.demands[i]
		var toRemove []int64
		d.ForEach(func(sVal int64) bool {
			startT, endT := sVal, sVal+dur-1
			tStart := startT
			tEnd := endT
			if tEnd > maxEnd {
				tEnd = maxEnd
			}
			for t := tStart; t <= tEnd; t++ {
				load := profile[t]
				if cpStart[i] <= t && t <= cpEnd[i] {
					load -= dem
				}
				if load+dem > p.capacity {
					toRemove = append(toRemove, sVal)
					break
				}
			}
			return true
		})
		for _, v2 := range toRemove {
			if err := s.RemoveValueInt(v, v2); err != nil {
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
