// Package fdsolve is a constraint-satisfaction and constrained-optimization
// engine over finite-domain integer, bounded float, and boolean variables.
//
// A Model is built declaratively: variables are declared, constraints are
// posted, and a solve mode is chosen (Solve, Enumerate, Minimize, Maximize).
// Propagation runs to a fixpoint between search decisions; a dense simplex
// subsolver (package simplex) tightens bounds on linear subproblems and
// guides branch-and-bound pruning during optimization.
package fdsolve
