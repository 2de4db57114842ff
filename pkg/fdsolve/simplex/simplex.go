// Package simplex implements a dense two-phase tableau simplex method over
// gonum's mat.Dense, used by fdsolve to tighten variable bounds from
// the LP relaxation of the linear constraints posted so far and to guide
// branch-and-bound with a relaxation bound on the objective.
//
// The implementation favors robustness over raw speed: Dantzig's
// most-negative-reduced-cost rule picks the entering variable in the common
// case, falling back to Bland's smallest-index rule once a pivot has
// repeated a basis already seen, which guarantees termination on degenerate
// problems at the cost of slower convergence.
package simplex

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrInfeasible is returned by Solve when the LP relaxation itself has no
// feasible point, independent of the finite-domain variables' bounds.
var ErrInfeasible = errors.New("simplex: infeasible")

// ErrUnbounded is returned by Solve when the objective is unbounded over
// the feasible region.
var ErrUnbounded = errors.New("simplex: unbounded")

// ErrIterationLimit is returned when the pivot count exceeds Config's cap
// before reaching optimality. Callers treat this the same as "no useful
// bound" rather than as a hard failure.
var ErrIterationLimit = errors.New("simplex: iteration limit reached")

// Relation names a constraint's comparison against its right-hand side.
type Relation uint8

const (
	LE Relation = iota
	GE
	EQ
)

// Config bounds the tableau's numerical and iteration behavior. Zero-value
// fields are replaced with defaults in Solve.
type Config struct {
	FeasibilityTol float64
	OptimalityTol  float64
	MaxIterations  int
}

func (c Config) withDefaults() Config {
	if c.FeasibilityTol <= 0 {
		c.FeasibilityTol = 1e-9
	}
	if c.OptimalityTol <= 0 {
		c.OptimalityTol = 1e-9
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = 2000
	}
	return c
}

// Problem is a linear program in general form: minimize c^T x subject to
// A x {<=,=,>=} b, x >= 0. Structural variable i corresponds to column i;
// callers that need free (unbounded-below) variables must split them into
// a difference of two non-negative variables before adding them here.
type Problem struct {
	nVars   int
	rows    [][]float64
	rel     []Relation
	rhs     []float64
	cost    []float64
	minimize bool
}

// NewProblem creates an empty problem over nVars non-negative structural
// variables.
func NewProblem(nVars int) *Problem {
	return &Problem{nVars: nVars, cost: make([]float64, nVars), minimize: true}
}

// NumVars returns the number of structural variables.
func (p *Problem) NumVars() int { return p.nVars }

// AddConstraint adds sum(coeffs[i]*x_i) rel rhs. len(coeffs) must equal
// NumVars().
func (p *Problem) AddConstraint(coeffs []float64, rel Relation, rhs float64) error {
	if len(coeffs) != p.nVars {
		return fmt.Errorf("simplex: constraint has %d coefficients, want %d", len(coeffs), p.nVars)
	}
	row := make([]float64, p.nVars)
	copy(row, coeffs)
	if rhs < 0 {
		for i := range row {
			row[i] = -row[i]
		}
		rhs = -rhs
		rel = flipRelation(rel)
	}
	p.rows = append(p.rows, row)
	p.rel = append(p.rel, rel)
	p.rhs = append(p.rhs, rhs)
	return nil
}

func flipRelation(r Relation) Relation {
	switch r {
	case LE:
		return GE
	case GE:
		return LE
	default:
		return EQ
	}
}

// SetObjective sets the objective coefficients; Solve minimizes c^T x
// unless maximize is true, in which case it internally negates the
// coefficients and negates the reported value back.
func (p *Problem) SetObjective(coeffs []float64, maximize bool) error {
	if len(coeffs) != p.nVars {
		return fmt.Errorf("simplex: objective has %d coefficients, want %d", len(coeffs), p.nVars)
	}
	copy(p.cost, coeffs)
	p.minimize = !maximize
	return nil
}

// Result is a solved LP's outcome.
type Result struct {
	Value      float64
	X          []float64
	Iterations int
}

// Solve runs two-phase simplex: phase one minimizes the sum of artificial
// variables to find a basic feasible solution (or prove infeasibility),
// phase two then optimizes the real objective from that basis.
func Solve(p *Problem, cfg Config) (Result, error) {
	cfg = cfg.withDefaults()
	m := len(p.rows)
	if m == 0 {
		// No constraints: unconstrained minimize of c^T x over x>=0 (c
		// negated when maximizing) is 0 if c>=0 in every coordinate, else
		// unbounded.
		for _, c := range p.cost {
			if !p.minimize {
				c = -c
			}
			if c < -cfg.OptimalityTol {
				return Result{}, ErrUnbounded
			}
		}
		return Result{Value: 0, X: make([]float64, p.nVars)}, nil
	}

	// Build standard form: structural columns, then one slack/surplus
	// column per row (LE gets +1 slack, GE gets -1 surplus), then one
	// artificial column per row whose basic value starts at rhs (always
	// needed for GE/EQ, and harmless to also add for LE since phase one
	// will drive it to zero immediately when the slack alone suffices).
	nStruct := p.nVars
	nSlack := m
	nArt := m
	total := nStruct + nSlack + nArt

	t := mat.NewDense(m+1, total+1, nil)
	basis := make([]int, m)
	for i := 0; i < m; i++ {
		for j := 0; j < nStruct; j++ {
			t.Set(i, j, p.rows[i][j])
		}
		slackCol := nStruct + i
		switch p.rel[i] {
		case LE:
			t.Set(i, slackCol, 1)
		case GE:
			t.Set(i, slackCol, -1)
		case EQ:
			// no slack contribution
		}
		artCol := nStruct + nSlack + i
		t.Set(i, artCol, 1)
		t.Set(i, total, p.rhs[i])
		basis[i] = artCol
	}

	// Phase one objective: minimize sum of artificials. Reduced costs row
	// is -(sum of each artificial-basic row), since every artificial
	// starts basic with coefficient 1 in the phase-one cost.
	for j := 0; j <= total; j++ {
		sum := 0.0
		for i := 0; i < m; i++ {
			sum += t.At(i, j)
		}
		if j < total {
			t.Set(m, j, -sum)
		} else {
			t.Set(m, j, -sum)
		}
	}

	iters, err := pivotToOptimal(t, basis, total, cfg)
	if err != nil {
		return Result{}, err
	}
	if t.At(m, total) < -cfg.FeasibilityTol {
		return Result{}, ErrInfeasible
	}

	// Drive any artificial left in the basis at value 0 out, if possible,
	// so phase two never reintroduces it.
	for i, b := range basis {
		if b < nStruct+nSlack {
			continue
		}
		for j := 0; j < nStruct+nSlack; j++ {
			if absf(t.At(i, j)) > cfg.FeasibilityTol {
				pivot(t, basis, i, j)
				basis[i] = j
				break
			}
		}
	}

	// Phase two: rebuild the objective row for the real cost (artificials
	// given a large Big-M cost so they do not re-enter), then re-derive the
	// reduced-cost row relative to the current basis.
	bigM := 0.0
	for _, c := range p.cost {
		if absf(c) > bigM {
			bigM = absf(c)
		}
	}
	bigM = bigM*float64(total) + 1
	realCost := make([]float64, total)
	sign := 1.0
	if !p.minimize {
		sign = -1.0
	}
	for j := 0; j < nStruct; j++ {
		realCost[j] = sign * p.cost[j]
	}
	for j := nStruct + nSlack; j < total; j++ {
		realCost[j] = bigM
	}
	for j := 0; j <= total; j++ {
		var v float64
		if j < total {
			v = realCost[j]
		}
		for i := 0; i < m; i++ {
			v -= realCost[basis[i]] * t.At(i, j)
		}
		t.Set(m, j, v)
	}

	iters2, err := pivotToOptimal(t, basis, total, cfg)
	if err != nil {
		return Result{}, err
	}

	x := make([]float64, nStruct)
	for i, b := range basis {
		if b < nStruct {
			x[b] = t.At(i, total)
		}
	}
	value := sign * (-t.At(m, total))
	return Result{Value: value, X: x, Iterations: iters + iters2}, nil
}

// pivotToOptimal repeatedly pivots the tableau (objective in the last row)
// until no column has a negative reduced cost, or cfg.MaxIterations is
// exceeded. Dantzig's rule picks the most-negative column; Bland's rule
// (smallest index among negative columns) takes over once a basis repeats,
// to guarantee termination on degenerate, cycling-prone tableaux.
func pivotToOptimal(t *mat.Dense, basis []int, total int, cfg Config) (int, error) {
	m := len(basis)
	seen := make(map[string]bool)
	useBland := false
	iters := 0
	for iters < cfg.MaxIterations {
		entering := -1
		best := -cfg.OptimalityTol
		for j := 0; j < total; j++ {
			c := t.At(m, j)
			if useBland {
				if c < -cfg.OptimalityTol {
					entering = j
					break
				}
				continue
			}
			if c < best {
				best = c
				entering = j
			}
		}
		if entering == -1 {
			return iters, nil
		}

		leaving := -1
		bestRatio := 0.0
		for i := 0; i < m; i++ {
			a := t.At(i, entering)
			if a <= cfg.FeasibilityTol {
				continue
			}
			ratio := t.At(i, total) / a
			if leaving == -1 || ratio < bestRatio-cfg.FeasibilityTol ||
				(ratio < bestRatio+cfg.FeasibilityTol && basis[i] < basis[leaving]) {
				leaving = i
				bestRatio = ratio
			}
		}
		if leaving == -1 {
			return iters, ErrUnbounded
		}

		pivot(t, basis, leaving, entering)
		basis[leaving] = entering

		key := basisKey(basis)
		if seen[key] {
			useBland = true
		}
		seen[key] = true
		iters++
	}
	return iters, ErrIterationLimit
}

func basisKey(basis []int) string {
	b := make([]byte, 0, len(basis)*4)
	for _, v := range basis {
		b = append(b, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
	}
	return string(b)
}

// pivot performs a Gauss-Jordan elimination step around (row, col): scales
// row so the pivot entry becomes 1, then clears col in every other row
// (including the objective row).
func pivot(t *mat.Dense, basis []int, row, col int) {
	rows, cols := t.Dims()
	piv := t.At(row, col)
	for j := 0; j < cols; j++ {
		t.Set(row, j, t.At(row, j)/piv)
	}
	for i := 0; i < rows; i++ {
		if i == row {
			continue
		}
		factor := t.At(i, col)
		if factor == 0 {
			continue
		}
		for j := 0; j < cols; j++ {
			t.Set(i, j, t.At(i, j)-factor*t.At(row, j))
		}
	}
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// BoundUpdate is a sound, tighter bound TightenBounds proved for one
// structural variable. HasLo/HasHi report which directions actually
// solved; a direction that failed (infeasible-looking, unbounded, or
// iteration-capped) is simply absent rather than reported as a fabricated
// bound, so a caller must check the Has flag before applying either side.
type BoundUpdate struct {
	VarIndex int
	Lo       float64
	HasLo    bool
	Hi       float64
	HasHi    bool
}

// TightenBounds solves, for every structural variable in turn, min and max
// of x_i subject to the problem's constraints, returning one BoundUpdate
// per variable for which at least one direction produced a usable bound.
// A direction that fails to solve degrades to "no bound for that
// direction" rather than propagating an error or fabricating a value,
// matching the advisory role LP relaxation plays in bound tightening: it
// must never be the reason a feasible search space is cut. p's objective
// and sense are overwritten per direction and restored before return.
func TightenBounds(p *Problem, cfg Config) []BoundUpdate {
	saved, savedMin := p.cost, p.minimize
	defer func() { p.cost, p.minimize = saved, savedMin }()

	updates := make([]BoundUpdate, 0, p.nVars)
	for i := 0; i < p.nVars; i++ {
		coeffs := make([]float64, p.nVars)
		coeffs[i] = 1

		p.cost = coeffs
		p.minimize = true
		minRes, minErr := Solve(p, cfg)

		p.cost = coeffs
		p.minimize = false
		maxRes, maxErr := Solve(p, cfg)

		if minErr != nil && maxErr != nil {
			continue
		}
		u := BoundUpdate{VarIndex: i}
		if minErr == nil {
			u.Lo, u.HasLo = minRes.Value, true
		}
		if maxErr == nil {
			u.Hi, u.HasHi = maxRes.Value, true
		}
		updates = append(updates, u)
	}
	return updates
}

// RelaxObjective solves the LP relaxation of problem's posted objective
// (as set by SetObjective) and returns a sound bound on the integer
// optimum: a lower bound when minimizing, an upper bound when maximizing.
// ok is false when the relaxation could not be solved (infeasible-looking,
// unbounded, or iteration-capped), in which case the caller must not prune
// on the returned value.
func RelaxObjective(p *Problem, cfg Config) (bound float64, ok bool) {
	res, err := Solve(p, cfg)
	if err != nil {
		return 0, false
	}
	return res.Value, true
}
