// Package spectral provides the eigen-analysis of transition matrices:
// stationary distributions, eigenvalue spectra, and implied relaxation
// timescales.
package spectral

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

const (
	spectralEps = 1e-9 // epsilon for locating the unit eigenvalue
)

// flatten converts a row-major slice-of-slices matrix for the gonum package.
func flatten(M [][]float64) (*mat.Dense, int, error) {
	n := len(M)
	if n == 0 {
		return nil, 0, fmt.Errorf("empty matrix")
	}
	elements := make([]float64, 0, n*n)
	for i := 0; i < n; i++ {
		if len(M[i]) != n {
			return nil, 0, fmt.Errorf("matrix is not square; row %d has %d columns", i, len(M[i]))
		}
		elements = append(elements, M[i]...)
	}
	return mat.NewDense(n, n, elements), n, nil
}

// StationaryDistribution computes the stationary distribution of a stochastic
// matrix from the left eigenvector for the eigenvalue of one.
func StationaryDistribution(M [][]float64) ([]float64, error) {
	a, n, err := flatten(M)
	if err != nil {
		return nil, err
	}

	var eig mat.Eigen
	if ok := eig.Factorize(a, mat.EigenLeft); !ok {
		return nil, fmt.Errorf("eigen-value decomposition failed")
	}

	// find index for eigenvalue of one
	// (note that it is not necessarily the first index)
	v := eig.Values(nil)
	k := -1
	for i, eigenValue := range v {
		if math.Abs(real(eigenValue)-1.0) < spectralEps && math.Abs(imag(eigenValue)) < spectralEps {
			k = i
		}
	}
	if k == -1 {
		return nil, fmt.Errorf("eigen-decomposition failed; no eigenvalue of one found")
	}

	var ev mat.CDense
	eig.LeftVectorsTo(&ev)

	// normalize the eigenvector for the unit eigenvalue
	total := complex128(0)
	for i := 0; i < n; i++ {
		total += ev.At(i, k)
	}
	if imag(total) > spectralEps {
		return nil, fmt.Errorf("eigen-decomposition failed; eigen-vector is a complex number")
	}
	stationary := make([]float64, n)
	for i := 0; i < n; i++ {
		stationary[i] = math.Abs(real(ev.At(i, k)) / real(total))
	}
	return stationary, nil
}

// Eigenvalues returns the eigenvalue spectrum of a transition matrix sorted
// by descending real part. Non-reversible estimates can carry complex pairs
// deep in their spectrum; callers interested in kinetics only need the
// leading eigenvalues.
func Eigenvalues(M [][]float64) ([]complex128, error) {
	a, _, err := flatten(M)
	if err != nil {
		return nil, err
	}
	var eig mat.Eigen
	if ok := eig.Factorize(a, mat.EigenNone); !ok {
		return nil, fmt.Errorf("eigen-value decomposition failed")
	}
	values := eig.Values(nil)
	sort.Slice(values, func(i, j int) bool {
		return real(values[i]) > real(values[j])
	})
	return values, nil
}

// SubdominantEigenvalue returns the second-largest eigenvalue of a
// transition matrix. The dominant and the sub-dominant eigenvalue must be
// real; a complex sub-dominant eigenvalue means the matrix carries no
// well-defined slowest relaxation process.
func SubdominantEigenvalue(M [][]float64) (float64, error) {
	values, err := Eigenvalues(M)
	if err != nil {
		return 0.0, err
	}
	if len(values) < 2 {
		return 0.0, fmt.Errorf("transition matrix with %d state(s) has no sub-dominant eigenvalue", len(values))
	}
	for k := 0; k < 2; k++ {
		if math.Abs(imag(values[k])) > 1e-6 {
			return 0.0, fmt.Errorf("complex eigenvalue %v among the leading transition-matrix eigenvalues", values[k])
		}
	}
	return real(values[1]), nil
}

// ReversibleEigenvalues computes the spectrum of a transition matrix that is
// reversible with respect to pi, using the similarity transform
// D^{1/2} T D^{-1/2} which is symmetric and therefore has a real spectrum.
func ReversibleEigenvalues(M [][]float64, pi []float64) ([]float64, error) {
	n := len(M)
	if len(pi) != n {
		return nil, fmt.Errorf("stationary vector length %d does not match matrix order %d", len(pi), n)
	}
	elements := make([]float64, n*n)
	for i := 0; i < n; i++ {
		if len(M[i]) != n {
			return nil, fmt.Errorf("matrix is not square; row %d has %d columns", i, len(M[i]))
		}
		for j := 0; j < n; j++ {
			// symmetrize; average out round-off asymmetry
			s := math.Sqrt(pi[i]/pi[j]) * M[i][j]
			t := math.Sqrt(pi[j]/pi[i]) * M[j][i]
			elements[i*n+j] = 0.5 * (s + t)
		}
	}
	sym := mat.NewSymDense(n, elements)
	var es mat.EigenSym
	if ok := es.Factorize(sym, false); !ok {
		return nil, fmt.Errorf("symmetric eigen-value decomposition failed")
	}
	values := es.Values(nil)
	sort.Sort(sort.Reverse(sort.Float64Slice(values)))
	return values, nil
}

// ImpliedTimescale converts a sub-dominant eigenvalue into a relaxation
// timescale for the given lag time, t = -lag / ln(lambda).
func ImpliedTimescale(lambda float64, lag float64) (float64, error) {
	if lambda >= 1.0-spectralEps {
		return 0.0, fmt.Errorf("eigenvalue %v too close to one; timescale diverges", lambda)
	}
	if lambda <= 0.0 {
		return 0.0, fmt.Errorf("non-positive eigenvalue %v has no implied timescale", lambda)
	}
	return -lag / math.Log(lambda), nil
}

// SlowestTimescale computes the slowest relaxation timescale of a transition
// matrix, derived from its second-largest eigenvalue.
func SlowestTimescale(M [][]float64, lag float64) (float64, error) {
	lambda, err := SubdominantEigenvalue(M)
	if err != nil {
		return 0.0, err
	}
	return ImpliedTimescale(lambda, lag)
}

// SlowestTimescaleReversible is SlowestTimescale for a matrix known to be
// reversible with respect to pi; it uses the numerically more robust
// symmetric decomposition.
func SlowestTimescaleReversible(M [][]float64, pi []float64, lag float64) (float64, error) {
	values, err := ReversibleEigenvalues(M, pi)
	if err != nil {
		return 0.0, err
	}
	if len(values) < 2 {
		return 0.0, fmt.Errorf("transition matrix with %d state(s) has no relaxation timescale", len(values))
	}
	return ImpliedTimescale(values[1], lag)
}
