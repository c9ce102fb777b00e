package kinetics

import (
	"errors"
	"fmt"
	"math"
)

// Estimation constants.
const (
	estimationEps = 1e-10  // relative convergence threshold for fixed-point iterations
	maxEstSteps   = 100000 // iteration cap for fixed-point iterations
	diagSlackEps  = 1e-6   // tolerated negative mass on the diagonal before renormalization fails
)

// Domain errors of the estimators.
var (
	// ErrEmptyRow indicates a state without outgoing transition counts.
	ErrEmptyRow = errors.New("kinetics: count matrix has a state without outgoing counts")

	// ErrNoConvergence indicates that a fixed-point iteration exhausted its step budget.
	ErrNoConvergence = errors.New("kinetics: estimator failed to converge")
)

// checkCounts validates a count matrix for estimation: square shape,
// non-negative entries, and a positive row sum for every state.
func checkCounts(C [][]float64) ([]float64, error) {
	n := len(C)
	if n < 2 {
		return nil, fmt.Errorf("count matrix of order %d is too small", n)
	}
	rowSums := make([]float64, n)
	for i := 0; i < n; i++ {
		if len(C[i]) != n {
			return nil, fmt.Errorf("count matrix is not square; row %d has %d columns", i, len(C[i]))
		}
		for j := 0; j < n; j++ {
			if C[i][j] < 0.0 {
				return nil, fmt.Errorf("negative count at (%d,%d)", i, j)
			}
			rowSums[i] += C[i][j]
		}
		if rowSums[i] <= 0.0 {
			return nil, fmt.Errorf("%w: state %d", ErrEmptyRow, i)
		}
	}
	return rowSums, nil
}

// TransitionMatrix computes the maximum-likelihood transition matrix without
// a reversibility constraint: each row of the count matrix is normalized by
// its row sum.
func TransitionMatrix(C [][]float64) ([][]float64, error) {
	rowSums, err := checkCounts(C)
	if err != nil {
		return nil, err
	}
	n := len(C)
	T := make([][]float64, n)
	for i := 0; i < n; i++ {
		T[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			T[i][j] = C[i][j] / rowSums[i]
		}
	}
	return T, nil
}

// ReversibleTransitionMatrix computes the maximum-likelihood transition
// matrix under the detailed-balance constraint with a free stationary
// vector. It iterates the self-consistent update
//
//	x_ij <- (c_ij + c_ji) / (c_i/x_i + c_j/x_j)
//
// on the symmetric weights x until the row sums stabilize; the transition
// matrix is the row-normalized weight matrix.
func ReversibleTransitionMatrix(C [][]float64) ([][]float64, error) {
	cRow, err := checkCounts(C)
	if err != nil {
		return nil, err
	}
	n := len(C)

	// initialize weights with the symmetrized counts
	x := make([][]float64, n)
	for i := 0; i < n; i++ {
		x[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			x[i][j] = C[i][j] + C[j][i]
		}
	}

	xRow := make([]float64, n)
	for step := 0; step < maxEstSteps; step++ {
		for i := 0; i < n; i++ {
			xRow[i] = 0.0
			for j := 0; j < n; j++ {
				xRow[i] += x[i][j]
			}
		}
		delta := 0.0
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				s := C[i][j] + C[j][i]
				if s == 0.0 {
					continue
				}
				next := s / (cRow[i]/xRow[i] + cRow[j]/xRow[j])
				if d := math.Abs(next-x[i][j]) / (x[i][j] + 1.0); d > delta {
					delta = d
				}
				x[i][j] = next
				x[j][i] = next
			}
		}
		if delta < estimationEps {
			return normalizeRows(x)
		}
	}
	return nil, fmt.Errorf("%w after %d steps", ErrNoConvergence, maxEstSteps)
}

// TransitionMatrixWithStationary computes the maximum-likelihood transition
// matrix under detailed balance with respect to a FIXED stationary vector pi.
// The symmetric weights x_ij = (c_ij + c_ji) / (lambda_i + lambda_j) are
// driven to the row-sum constraint sum_j x_ij = pi_i by a multiplicative
// update of the Lagrange multipliers lambda. The returned matrix satisfies
// pi_i T_ij = pi_j T_ji exactly for i != j.
func TransitionMatrixWithStationary(C [][]float64, pi []float64) ([][]float64, error) {
	cRow, err := checkCounts(C)
	if err != nil {
		return nil, err
	}
	n := len(C)
	if len(pi) != n {
		return nil, fmt.Errorf("stationary vector length %d does not match count matrix order %d", len(pi), n)
	}
	for i := 0; i < n; i++ {
		if pi[i] <= 0.0 {
			return nil, fmt.Errorf("stationary vector has non-positive entry at state %d", i)
		}
	}

	// Lagrange multipliers, seeded with the observed row sums
	lambda := make([]float64, n)
	copy(lambda, cRow)

	x := make([][]float64, n)
	for i := 0; i < n; i++ {
		x[i] = make([]float64, n)
	}
	rowSum := make([]float64, n)
	for step := 0; step < maxEstSteps; step++ {
		for i := 0; i < n; i++ {
			rowSum[i] = 0.0
			for j := 0; j < n; j++ {
				s := C[i][j] + C[j][i]
				if s == 0.0 {
					x[i][j] = 0.0
					continue
				}
				x[i][j] = s / (lambda[i] + lambda[j])
				rowSum[i] += x[i][j]
			}
		}
		delta := 0.0
		for i := 0; i < n; i++ {
			ratio := rowSum[i] / pi[i]
			if d := math.Abs(ratio - 1.0); d > delta {
				delta = d
			}
			lambda[i] *= ratio
		}
		if delta < estimationEps {
			return stochasticFromWeights(x, pi)
		}
	}
	return nil, fmt.Errorf("%w after %d steps", ErrNoConvergence, maxEstSteps)
}

// normalizeRows converts a non-negative weight matrix into a stochastic
// matrix by dividing each row by its sum.
func normalizeRows(x [][]float64) ([][]float64, error) {
	n := len(x)
	T := make([][]float64, n)
	for i := 0; i < n; i++ {
		sum := 0.0
		for j := 0; j < n; j++ {
			sum += x[i][j]
		}
		if sum <= 0.0 {
			return nil, fmt.Errorf("%w: state %d", ErrEmptyRow, i)
		}
		T[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			T[i][j] = x[i][j] / sum
		}
	}
	return T, nil
}

// stochasticFromWeights converts converged symmetric weights into a
// stochastic matrix with stationary vector pi: off-diagonals are x_ij/pi_i
// and the diagonal absorbs the remaining probability mass. Residual negative
// diagonal mass from the finite convergence threshold is clamped and the row
// renormalized; mass beyond diagSlackEps is an estimation failure.
func stochasticFromWeights(x [][]float64, pi []float64) ([][]float64, error) {
	n := len(x)
	T := make([][]float64, n)
	for i := 0; i < n; i++ {
		T[i] = make([]float64, n)
		off := 0.0
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			T[i][j] = x[i][j] / pi[i]
			off += T[i][j]
		}
		diag := 1.0 - off
		if diag < -diagSlackEps {
			return nil, fmt.Errorf("kinetics: row %d overflows by %v; fixed-pi estimate inconsistent", i, -diag)
		}
		if diag < 0.0 {
			// clamp round-off and rescale the off-diagonals
			T[i][i] = 0.0
			for j := 0; j < n; j++ {
				T[i][j] /= off
			}
			continue
		}
		T[i][i] = diag
	}
	return T, nil
}
