package fdsolve

// ConstraintRef identifies a posted constraint for later reference (e.g.
// diagnostics); it is the PropID of the propagator that enforces it.
type ConstraintRef PropID

// Constraint is a not-yet-posted constraint expression. Model.Post installs
// it against the model's Store, dispatching to the concrete Post* function
// that implements it. Constraint keeps Model's surface declarative (build
// a list of constraints, then post them) while the propagator layer below
// stays purely imperative, mirroring the split the teacher draws between
// its ModelConstraint builders and PropagationConstraint execution.
type Constraint interface {
	post(s *Store) (PropID, error)
}

type constraintFunc func(s *Store) (PropID, error)

func (f constraintFunc) post(s *Store) (PropID, error) { return f(s) }

// Compare posts x OP y between two integer variables.
func Compare(x VarID, op CompareOp, y VarID) Constraint {
	return constraintFunc(func(s *Store) (PropID, error) { return PostCompare(s, x, y, op), nil })
}

// FloatCompare posts x OP y between two float variables.
func FloatCompare(x VarID, op CompareOp, y VarID) Constraint {
	return constraintFunc(func(s *Store) (PropID, error) { return PostFloatCompare(s, x, y, op), nil })
}

// Plus posts x + y = z.
func Plus(x, y, z VarID) Constraint {
	return constraintFunc(func(s *Store) (PropID, error) { return PostPlus(s, x, y, z), nil })
}

// Minus posts x - y = z.
func Minus(x, y, z VarID) Constraint {
	return constraintFunc(func(s *Store) (PropID, error) { return PostMinus(s, x, y, z), nil })
}

// Times posts x * y = z.
func Times(x, y, z VarID) Constraint {
	return constraintFunc(func(s *Store) (PropID, error) { return PostTimes(s, x, y, z), nil })
}

// Div posts x / y = z (truncated toward zero).
func Div(x, y, z VarID) Constraint {
	return constraintFunc(func(s *Store) (PropID, error) { return PostDiv(s, x, y, z), nil })
}

// Mod posts x % y = z.
func Mod(x, y, z VarID) Constraint {
	return constraintFunc(func(s *Store) (PropID, error) { return PostMod(s, x, y, z), nil })
}

// Abs posts |x| = y.
func Abs(x, y VarID) Constraint {
	return constraintFunc(func(s *Store) (PropID, error) { return PostAbs(s, x, y), nil })
}

// Min posts y = min(xs).
func Min(xs []VarID, y VarID) Constraint {
	return constraintFunc(func(s *Store) (PropID, error) { return PostMin(s, xs, y), nil })
}

// Max posts y = max(xs).
func Max(xs []VarID, y VarID) Constraint {
	return constraintFunc(func(s *Store) (PropID, error) { return PostMax(s, xs, y), nil })
}

// linearConstraint captures the same (coeffs, vars, lo, hi) shape
// prop_sum.go's linearProp enforces, for every constraint built from
// SumEqual/SumLE/SumGE/Linear. Posting it reproduces exactly what the
// dedicated Post* helper would install; keeping the coefficients around
// afterward lets Model's LP relaxation (see model.go's buildLinearRelaxation,
// used by both tightenRootBounds and lpBoundFor) reuse the same linear
// constraints it already has, without re-deriving them from the
// propagator registry.
type linearConstraint struct {
	coeffs []int64
	xs     []VarID
	lo, hi int64
}

func (c *linearConstraint) post(s *Store) (PropID, error) {
	return PostLinear(s, c.coeffs, c.xs, c.lo, c.hi), nil
}

// SumEqual posts sum(xs) = y.
func SumEqual(xs []VarID, y VarID) Constraint {
	coeffs := make([]int64, len(xs)+1)
	vars := make([]VarID, len(xs)+1)
	for i, x := range xs {
		coeffs[i] = 1
		vars[i] = x
	}
	coeffs[len(xs)] = -1
	vars[len(xs)] = y
	return &linearConstraint{coeffs: coeffs, xs: vars, lo: 0, hi: 0}
}

// SumLE posts sum(xs) <= k.
func SumLE(xs []VarID, k int64) Constraint {
	cp := make([]VarID, len(xs))
	copy(cp, xs)
	return &linearConstraint{coeffs: onesCoeffs(len(xs)), xs: cp, lo: -linearInf, hi: k}
}

// SumGE posts sum(xs) >= k.
func SumGE(xs []VarID, k int64) Constraint {
	cp := make([]VarID, len(xs))
	copy(cp, xs)
	return &linearConstraint{coeffs: onesCoeffs(len(xs)), xs: cp, lo: k, hi: linearInf}
}

// Linear posts lo <= sum(coeffs[i]*xs[i]) <= hi.
func Linear(coeffs []int64, xs []VarID, lo, hi int64) Constraint {
	cc := make([]int64, len(coeffs))
	copy(cc, coeffs)
	vv := make([]VarID, len(xs))
	copy(vv, xs)
	return &linearConstraint{coeffs: cc, xs: vv, lo: lo, hi: hi}
}

// AllDifferent posts alldifferent(xs).
func AllDifferent(xs []VarID) Constraint {
	return constraintFunc(func(s *Store) (PropID, error) { return PostAllDifferent(s, xs), nil })
}

// BoolAnd posts b = and(xs).
func BoolAnd(xs []VarID, b VarID) Constraint {
	return constraintFunc(func(s *Store) (PropID, error) { return PostBoolAnd(s, xs, b), nil })
}

// BoolOr posts b = or(xs).
func BoolOr(xs []VarID, b VarID) Constraint {
	return constraintFunc(func(s *Store) (PropID, error) { return PostBoolOr(s, xs, b), nil })
}

// BoolNot posts b = not(x).
func BoolNot(x, b VarID) Constraint {
	return constraintFunc(func(s *Store) (PropID, error) { return PostBoolNot(s, x, b), nil })
}

// ReifyEqual posts b <=> (x = y).
func ReifyEqual(x, y, b VarID) Constraint {
	return constraintFunc(func(s *Store) (PropID, error) { return PostReifyEqual(s, x, y, b), nil })
}

// ReifyCompare posts b <=> (x op y).
func ReifyCompare(x VarID, op CompareOp, y VarID, b VarID) Constraint {
	return constraintFunc(func(s *Store) (PropID, error) { return PostReifyCompare(s, x, op, y, b), nil })
}

// Cumulative posts a resource-scheduling constraint over task starts.
func Cumulative(starts []VarID, durations, demands []int64, capacity int64) Constraint {
	return constraintFunc(func(s *Store) (PropID, error) {
		return PostCumulative(s, starts, durations, demands, capacity)
	})
}

// FloatPlus posts x + y = z over floats.
func FloatPlus(x, y, z VarID) Constraint {
	return constraintFunc(func(s *Store) (PropID, error) { return PostFloatPlus(s, x, y, z), nil })
}

// FloatMinus posts x - y = z over floats.
func FloatMinus(x, y, z VarID) Constraint {
	return constraintFunc(func(s *Store) (PropID, error) { return PostFloatMinus(s, x, y, z), nil })
}

// FloatTimes posts x * y = z over floats.
func FloatTimes(x, y, z VarID) Constraint {
	return constraintFunc(func(s *Store) (PropID, error) { return PostFloatTimes(s, x, y, z), nil })
}

// FloatAbs posts |x| = y over floats.
func FloatAbs(x, y VarID) Constraint {
	return constraintFunc(func(s *Store) (PropID, error) { return PostFloatAbs(s, x, y), nil })
}
