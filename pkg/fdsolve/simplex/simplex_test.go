package simplex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSolveMaximizesSimpleLP(t *testing.T) {
	// maximize 3x + 2y s.t. x+y<=4, x+3y<=6, x,y>=0
	p := NewProblem(2)
	require.NoError(t, p.AddConstraint([]float64{1, 1}, LE, 4))
	require.NoError(t, p.AddConstraint([]float64{1, 3}, LE, 6))
	require.NoError(t, p.SetObjective([]float64{3, 2}, true))

	res, err := Solve(p, Config{})
	require.NoError(t, err)
	require.InDelta(t, 12.0, res.Value, 1e-6)
}

func TestSolveDetectsInfeasible(t *testing.T) {
	// x <= 1 and x >= 2 simultaneously, x>=0
	p := NewProblem(1)
	require.NoError(t, p.AddConstraint([]float64{1}, LE, 1))
	require.NoError(t, p.AddConstraint([]float64{1}, GE, 2))
	require.NoError(t, p.SetObjective([]float64{1}, false))

	_, err := Solve(p, Config{})
	require.ErrorIs(t, err, ErrInfeasible)
}

func TestSolveDetectsUnbounded(t *testing.T) {
	// maximize x with no upper constraint on x
	p := NewProblem(1)
	require.NoError(t, p.SetObjective([]float64{1}, true))

	_, err := Solve(p, Config{})
	require.ErrorIs(t, err, ErrUnbounded)
}

func TestSolveEqualityConstraint(t *testing.T) {
	// minimize x+y s.t. x+y=5, x,y>=0 -> optimum 5
	p := NewProblem(2)
	require.NoError(t, p.AddConstraint([]float64{1, 1}, EQ, 5))
	require.NoError(t, p.SetObjective([]float64{1, 1}, false))

	res, err := Solve(p, Config{})
	require.NoError(t, err)
	require.InDelta(t, 5.0, res.Value, 1e-6)
}

func TestTightenBoundsNarrowsBothDirections(t *testing.T) {
	// x+y<=4, x+3y<=6, x,y>=0 -> x in [0,4], y in [0,2]
	p := NewProblem(2)
	require.NoError(t, p.AddConstraint([]float64{1, 1}, LE, 4))
	require.NoError(t, p.AddConstraint([]float64{1, 3}, LE, 6))

	updates := TightenBounds(p, Config{})
	require.Len(t, updates, 2)

	byIndex := map[int]BoundUpdate{}
	for _, u := range updates {
		byIndex[u.VarIndex] = u
	}
	require.True(t, byIndex[0].HasLo)
	require.True(t, byIndex[0].HasHi)
	require.InDelta(t, 0.0, byIndex[0].Lo, 1e-6)
	require.InDelta(t, 4.0, byIndex[0].Hi, 1e-6)
	require.True(t, byIndex[1].HasHi)
	require.InDelta(t, 2.0, byIndex[1].Hi, 1e-6)
}

func TestTightenBoundsOmitsUnsolvableDirection(t *testing.T) {
	// x >= 1 with no upper constraint: minimizing x is bounded at 1;
	// maximizing x is unbounded, so only the lower side should come back.
	p := NewProblem(1)
	require.NoError(t, p.AddConstraint([]float64{1}, GE, 1))

	updates := TightenBounds(p, Config{})
	require.Len(t, updates, 1)
	require.True(t, updates[0].HasLo)
	require.InDelta(t, 1.0, updates[0].Lo, 1e-6)
	require.False(t, updates[0].HasHi)
}

func TestRelaxObjectiveUsesPostedSense(t *testing.T) {
	p := NewProblem(2)
	require.NoError(t, p.AddConstraint([]float64{1, 1}, LE, 4))
	require.NoError(t, p.AddConstraint([]float64{1, 3}, LE, 6))
	require.NoError(t, p.SetObjective([]float64{3, 2}, true))

	bound, ok := RelaxObjective(p, Config{})
	require.True(t, ok)
	require.InDelta(t, 12.0, bound, 1e-6)
}

func TestRelaxObjectiveReportsNotOkOnInfeasible(t *testing.T) {
	p := NewProblem(1)
	require.NoError(t, p.AddConstraint([]float64{1}, LE, 1))
	require.NoError(t, p.AddConstraint([]float64{1}, GE, 2))
	require.NoError(t, p.SetObjective([]float64{1}, false))

	_, ok := RelaxObjective(p, Config{})
	require.False(t, ok)
}
