package fdsolve

import "errors"

// Error taxonomy. A sentinel is either returned bare (ErrTimeout,
// ErrOutOfMemory) or wrapped with context via fmt.Errorf at the point of
// detection; callers match with errors.Is.
var (
	// ErrModelInvalid signals a structural problem detected before solving:
	// domain lo > hi, reference to an unknown VarID, constraint argument
	// type/arity mismatch.
	ErrModelInvalid = errors.New("fdsolve: model invalid")

	// ErrUnsatisfiable names the condition of a problem with no solution.
	// No solve method returns it: Solve, Minimize and Maximize report
	// unsatisfiability as a nil *Solution with a nil error, and Enumerate
	// and the *AndIterate iterators as an iteration that yields nothing.
	ErrUnsatisfiable = errors.New("fdsolve: unsatisfiable")

	// ErrTimeout signals the wall-clock budget was exceeded. The best
	// incumbent found so far, if any, is still returned.
	ErrTimeout = errors.New("fdsolve: timeout")

	// ErrOutOfMemory signals the memory guard tripped. The best incumbent
	// found so far, if any, is still returned.
	ErrOutOfMemory = errors.New("fdsolve: out of memory")

	// ErrNumericFailure signals division by zero, modulo by zero, or a
	// float overflow encountered during propagation.
	ErrNumericFailure = errors.New("fdsolve: numeric failure")

	// ErrTypeMismatch signals an attempt to read a Value, or a Solution
	// entry, as the wrong kind.
	ErrTypeMismatch = errors.New("fdsolve: type mismatch")

	// ErrInternalInvariant signals a propagator or the LP subsolver
	// violated a monotonicity or confluence invariant. Should never occur
	// in a correct build; a bug guard, not a user-facing condition.
	ErrInternalInvariant = errors.New("fdsolve: internal invariant violated")
)

// failure is the internal "this branch is inconsistent" signal. Unlike the
// sentinels above it never reaches a caller directly: it triggers
// backtracking (or, at decision level 0, ends the solve with no solution).
type failure struct {
	reason string
}

func (f *failure) Error() string { return "fdsolve: domain failure: " + f.reason }

func newFailure(reason string) error { return &failure{reason: reason} }

func isFailure(err error) bool {
	var f *failure
	return errors.As(err, &f)
}
