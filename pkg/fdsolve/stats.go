package fdsolve

import (
	"sync/atomic"
	"time"
)

// Statistics accompanies every Solution: propagation count, node count,
// solve time, and a peak-memory estimate. Fields are read with atomic
// loads so a Statistics snapshot taken while a solve is still running
// (e.g. from MinimizeAndIterate's intermediate incumbents) is consistent.
type Statistics struct {
	Propagations     int64
	Nodes            int64
	Backtracks       int64
	SolveTimeMs       int64
	PeakMemoryBytes   int64
	TimedOut         bool
	OutOfMemory      bool
}

// stats is the mutable, atomics-backed counter set a Store carries through
// one solve call, generalized from the teacher engine's lock-free
// SolverMonitor to the vocabulary of spec.md's Statistics record.
type stats struct {
	propagations    atomic.Int64
	nodes           atomic.Int64
	backtracks      atomic.Int64
	peakTrail       atomic.Int64
	peakQueue       atomic.Int64
	start           time.Time
	timedOut        atomic.Bool
	outOfMemory     atomic.Bool
}

func newStats() *stats { return &stats{start: time.Now()} }

func (s *stats) recordPropagation() { s.propagations.Add(1) }
func (s *stats) recordNode()        { s.nodes.Add(1) }
func (s *stats) recordBacktrack()   { s.backtracks.Add(1) }

func (s *stats) recordTrailSize(n int) {
	for {
		cur := s.peakTrail.Load()
		if int64(n) <= cur || s.peakTrail.CompareAndSwap(cur, int64(n)) {
			return
		}
	}
}

func (s *stats) recordQueueSize(n int) {
	for {
		cur := s.peakQueue.Load()
		if int64(n) <= cur || s.peakQueue.CompareAndSwap(cur, int64(n)) {
			return
		}
	}
}

// peakMemoryEstimate approximates residency from trail length and the
// largest queue observed, matching spec.md §4.8's "estimated from trail
// length + domain-store residency".
func (s *stats) peakMemoryEstimate(numVars int) int64 {
	const bytesPerTrailEntry = 64
	const bytesPerVar = 48
	const bytesPerQueueEntry = 8
	return s.peakTrail.Load()*bytesPerTrailEntry +
		int64(numVars)*bytesPerVar +
		s.peakQueue.Load()*bytesPerQueueEntry
}

func (s *stats) snapshot(numVars int) Statistics {
	return Statistics{
		Propagations:    s.propagations.Load(),
		Nodes:           s.nodes.Load(),
		Backtracks:      s.backtracks.Load(),
		SolveTimeMs:     time.Since(s.start).Milliseconds(),
		PeakMemoryBytes: s.peakMemoryEstimate(numVars),
		TimedOut:        s.timedOut.Load(),
		OutOfMemory:     s.outOfMemory.Load(),
	}
}
