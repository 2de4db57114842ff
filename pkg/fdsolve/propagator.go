package fdsolve

// PropID identifies a posted Propagator within a Store's registry.
type PropID int32

// Priority buckets propagators by cost class for queue ordering: cheap
// propagators (equality, bound comparisons) run before expensive ones
// (sum, alldifferent, LP-backed) at the same wake event, matching the
// teacher engine's "cheap first" scheduling intuition generalized from a
// flat FIFO to two priority buckets.
type Priority uint8

const (
	PriorityCheap Priority = iota
	PriorityExpensive
)

// PropOutcome is what a propagator run reports to the registry.
type PropOutcome uint8

const (
	// Fixpoint means no domain changed; the propagator is idempotent at
	// this state.
	Fixpoint PropOutcome = iota
	// Changed means at least one domain narrowed.
	Changed
	// Subsumed means the constraint is now trivially satisfied under
	// current domains; the propagator is removed from future scheduling
	// until backtracking resurrects it.
	Subsumed
	// PropFailed means the propagator detected an inconsistency.
	PropFailed
)

// Watch declares that a Propagator should be woken whenever VarID's domain
// changes in a way matching Mask.
type Watch struct {
	Var  VarID
	Mask EventMask
}

// Propagator removes values inconsistent with one constraint, given
// current domains. A propagator must be idempotent at fixpoint (running it
// again with no domain movement returns Fixpoint and makes no trail
// entries) and correct (every value it removes is provably inconsistent).
// It is not required to be bounds- or domain-complete unless its own
// documentation says so.
type Propagator interface {
	// Kind names the constraint family, used in statistics and errors.
	Kind() string

	// Watches lists the (variable, event) pairs that should re-queue this
	// propagator. Assembled once at post time; immutable thereafter.
	Watches() []Watch

	// Priority reports this propagator's cost class for queue ordering.
	Priority() Priority

	// Propagate runs the propagator to its own local fixpoint against the
	// current Store, narrowing domains via the Store's RemoveBelowInt,
	// RemoveAboveInt, RemoveValueInt, FixInt, Intersect* and FixBool*
	// methods. An emptied domain surfaces as the error those methods
	// return; PropFailed reports an inconsistency the propagator detected
	// itself without emptying a domain.
	Propagate(s *Store) (PropOutcome, error)
}
