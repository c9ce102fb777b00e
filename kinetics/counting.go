package kinetics

import "fmt"

// CountMatrix counts transitions at the given lag time from a set of
// discrete trajectories using the sliding-window convention: every pair
// (s[t], s[t+lag]) within a trajectory contributes one count. Counts are
// never accumulated across trajectory boundaries.
func CountMatrix(trajectories [][]int, numStates int, lag int) ([][]float64, error) {
	if numStates < 2 {
		return nil, fmt.Errorf("number of states %d must be at least two", numStates)
	}
	if lag < 1 {
		return nil, fmt.Errorf("lag time %d must be positive", lag)
	}
	C := make([][]float64, numStates)
	for i := range C {
		C[i] = make([]float64, numStates)
	}
	for k, trajectory := range trajectories {
		for t := 0; t+lag < len(trajectory); t++ {
			i, j := trajectory[t], trajectory[t+lag]
			if i < 0 || i >= numStates || j < 0 || j >= numStates {
				return nil, fmt.Errorf("trajectory %d contains state out of range [0,%d)", k, numStates)
			}
			C[i][j]++
		}
	}
	return C, nil
}

// MergeCounts adds the count matrix B into A in place. Both matrices must
// have the same order.
func MergeCounts(A [][]float64, B [][]float64) error {
	if len(A) != len(B) {
		return fmt.Errorf("count matrices of order %d and %d cannot be merged", len(A), len(B))
	}
	for i := range A {
		if len(A[i]) != len(B[i]) {
			return fmt.Errorf("count matrices disagree in row %d", i)
		}
		for j := range A[i] {
			A[i][j] += B[i][j]
		}
	}
	return nil
}

// ActiveSet returns the states with at least one outgoing and one incoming
// count. High-energy bins of the double-well discretization are never
// visited at finite simulation effort; the estimators operate on the active
// set only. For the nearest-neighbour reference process the active set is a
// contiguous, irreducible block.
func ActiveSet(C [][]float64) []int {
	active := make([]int, 0, len(C))
	for i := range C {
		out, in := 0.0, 0.0
		for j := range C {
			out += C[i][j]
			in += C[j][i]
		}
		if out > 0.0 && in > 0.0 {
			active = append(active, i)
		}
	}
	return active
}

// Restrict projects a count matrix onto the given state subset.
func Restrict(C [][]float64, states []int) [][]float64 {
	R := make([][]float64, len(states))
	for a, i := range states {
		R[a] = make([]float64, len(states))
		for b, j := range states {
			R[a][b] = C[i][j]
		}
	}
	return R
}

// RestrictVector projects a probability vector onto the given state subset
// and renormalizes it.
func RestrictVector(v []float64, states []int) ([]float64, error) {
	r := make([]float64, len(states))
	sum := 0.0
	for a, i := range states {
		if i < 0 || i >= len(v) {
			return nil, fmt.Errorf("state %d out of range for vector of length %d", i, len(v))
		}
		r[a] = v[i]
		sum += v[i]
	}
	if sum <= 0.0 {
		return nil, fmt.Errorf("restricted vector has no probability mass")
	}
	for a := range r {
		r[a] /= sum
	}
	return r, nil
}
