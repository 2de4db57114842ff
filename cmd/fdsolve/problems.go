package main

import (
	"fmt"

	"github.com/gitrdm/fdsolve/pkg/fdsolve"
)

// problem bundles a name with a builder so the CLI subcommands can look
// one up by flag without hard-coding per-command switches. This stands in
// for the out-of-scope declarative front-end/FlatZinc parser: a thin,
// fixed catalog of demo problems rather than a way to load arbitrary ones.
type problem struct {
	name        string
	describe    string
	build       func(m *fdsolve.Model, size int) (obj fdsolve.VarID, hasObj bool, err error)
	defaultSize int
}

var problems = map[string]problem{
	"queens":          {name: "queens", describe: "N-Queens (size = board dimension)", build: buildQueens, defaultSize: 8},
	"send-more-money": {name: "send-more-money", describe: "SEND+MORE=MONEY cryptarithmetic", build: buildSendMoreMoney, defaultSize: 0},
	"knapsack":        {name: "knapsack", describe: "0/1 knapsack (size = item count)", build: buildKnapsack, defaultSize: 6},
}

func lookupProblem(name string) (problem, error) {
	p, ok := problems[name]
	if !ok {
		return problem{}, fmt.Errorf("unknown problem %q (try: queens, send-more-money, knapsack)", name)
	}
	return p, nil
}

// buildQueens places size queens on a size x size board, one per row, no
// two sharing a column or diagonal, via the classic AllDifferent-on-offset
// encoding.
func buildQueens(m *fdsolve.Model, size int) (fdsolve.VarID, bool, error) {
	if size <= 0 {
		size = 8
	}
	cols := m.Ints(size, 0, int64(size-1))
	diagUp := make([]fdsolve.VarID, size)
	diagDown := make([]fdsolve.VarID, size)
	for i := 0; i < size; i++ {
		diagUp[i] = m.Int(int64(-size), int64(2*size))
		diagDown[i] = m.Int(int64(-size), int64(2*size))
		if _, err := m.Post(fdsolve.Linear([]int64{1, -1}, []fdsolve.VarID{cols[i], diagUp[i]}, int64(-i), int64(-i))); err != nil {
			return 0, false, err
		}
		if _, err := m.Post(fdsolve.Linear([]int64{1, -1}, []fdsolve.VarID{cols[i], diagDown[i]}, int64(i), int64(i))); err != nil {
			return 0, false, err
		}
	}
	if _, err := m.Post(fdsolve.AllDifferent(cols)); err != nil {
		return 0, false, err
	}
	if _, err := m.Post(fdsolve.AllDifferent(diagUp)); err != nil {
		return 0, false, err
	}
	if _, err := m.Post(fdsolve.AllDifferent(diagDown)); err != nil {
		return 0, false, err
	}
	return 0, false, nil
}

// buildSendMoreMoney posts the classic SEND + MORE = MONEY cryptarithmetic
// puzzle: eight distinct digits, leading digits nonzero, and the column
// arithmetic expressed as one weighted linear equation.
func buildSendMoreMoney(m *fdsolve.Model, _ int) (fdsolve.VarID, bool, error) {
	letters := []string{"s", "e", "n", "d", "m", "o", "r", "y"}
	vars := make(map[string]fdsolve.VarID, len(letters))
	all := make([]fdsolve.VarID, len(letters))
	for i, l := range letters {
		v := m.Int(0, 9)
		vars[l] = v
		all[i] = v
	}
	if _, err := m.Post(fdsolve.AllDifferent(all)); err != nil {
		return 0, false, err
	}
	for _, lead := range []string{"s", "m"} {
		if _, err := m.Post(fdsolve.SumGE([]fdsolve.VarID{vars[lead]}, 1)); err != nil {
			return 0, false, err
		}
	}

	// 1000s + 100e + 10n + d + 1000m + 100o + 10r + e
	//   - (10000m + 1000o + 100n + 10e + y) = 0
	coeffs := []int64{1000, 100, 10, 1, 1000, 100, 10, 1, -10000, -1000, -100, -10, -1}
	xs := []fdsolve.VarID{
		vars["s"], vars["e"], vars["n"], vars["d"],
		vars["m"], vars["o"], vars["r"], vars["e"],
		vars["m"], vars["o"], vars["n"], vars["e"], vars["y"],
	}
	if _, err := m.Post(fdsolve.Linear(coeffs, xs, 0, 0)); err != nil {
		return 0, false, err
	}
	return 0, false, nil
}

// buildKnapsack builds a 0/1 knapsack over size synthetic items (weights
// and values growing with index so the instance is non-trivial) and
// returns the total-value variable as the maximization objective.
func buildKnapsack(m *fdsolve.Model, size int) (fdsolve.VarID, bool, error) {
	if size <= 0 {
		size = 6
	}
	capacity := int64(size * 5)
	// 0/1 indicators as Int vars (not Bool) since they feed straight into
	// Linear's int-domain arithmetic alongside the weight/value terms.
	take := m.Ints(size, 0, 1)
	weightTerms := make([]fdsolve.VarID, size)
	valueTerms := make([]fdsolve.VarID, size)
	weights := make([]int64, size)
	values := make([]int64, size)
	for i := 0; i < size; i++ {
		weights[i] = int64(2 + i*3%11)
		values[i] = int64(3 + i*5%13)
		weightTerms[i] = m.Int(0, weights[i])
		valueTerms[i] = m.Int(0, values[i])
		if _, err := m.Post(fdsolve.Linear([]int64{weights[i], -1}, []fdsolve.VarID{take[i], weightTerms[i]}, 0, 0)); err != nil {
			return 0, false, err
		}
		if _, err := m.Post(fdsolve.Linear([]int64{values[i], -1}, []fdsolve.VarID{take[i], valueTerms[i]}, 0, 0)); err != nil {
			return 0, false, err
		}
	}
	totalWeight := m.Int(0, capacity)
	if _, err := m.Post(fdsolve.SumEqual(weightTerms, totalWeight)); err != nil {
		return 0, false, err
	}
	totalValue := m.Int(0, capacity*10)
	if _, err := m.Post(fdsolve.SumEqual(valueTerms, totalValue)); err != nil {
		return 0, false, err
	}
	return totalValue, true, nil
}
