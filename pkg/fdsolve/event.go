package fdsolve

// EventMask is a bitset of Event kinds a propagator subscribes to on a
// given variable. Assembled once per (PropID, VarID) pair at post time and
// consulted whenever that variable's domain changes.
type EventMask uint8

const (
	EvBoundChanged EventMask = 1 << iota
	EvHoleAdded
	EvAssigned
	EvFailed

	// EvAny wakes a propagator on any narrowing whatsoever; used by
	// propagators (e.g. alldifferent, sum) that cannot cheaply distinguish
	// which kind of narrowing matters.
	EvAny = EvBoundChanged | EvHoleAdded | EvAssigned | EvFailed
)
