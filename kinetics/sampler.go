package kinetics

import (
	"fmt"
	"math"
	"math/rand"

	exprand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/markov-kinetics/ratekit/kinetics/spectral"
)

// Sampler constants.
const (
	dirichletPrior = 0.5  // Jeffreys-style prior pseudo-count per matrix element
	shiftStep      = 0.25 // proposal step of the reversible edge-shift move, relative to the feasible range
)

// DirichletSampler draws transition matrices from the posterior of a
// non-reversible Markov state model: with a product-Dirichlet prior, the rows
// of the posterior are independent Dirichlet distributions whose
// concentration parameters are the transition counts plus the prior
// pseudo-counts.
type DirichletSampler struct {
	n    int
	rows []distmv.Dirichlet
}

// NewDirichletSampler creates a posterior sampler for the given count
// matrix. The seed fixes the random source for reproducible draws.
func NewDirichletSampler(C [][]float64, seed uint64) (*DirichletSampler, error) {
	if _, err := checkCounts(C); err != nil {
		return nil, err
	}
	n := len(C)
	src := exprand.NewSource(seed)
	rows := make([]distmv.Dirichlet, n)
	for i := 0; i < n; i++ {
		alpha := make([]float64, n)
		for j := 0; j < n; j++ {
			alpha[j] = C[i][j] + dirichletPrior
		}
		rows[i] = *distmv.NewDirichlet(alpha, src)
	}
	return &DirichletSampler{n: n, rows: rows}, nil
}

// Sample draws one transition matrix from the posterior.
func (s *DirichletSampler) Sample() [][]float64 {
	T := make([][]float64, s.n)
	for i := 0; i < s.n; i++ {
		T[i] = s.rows[i].Rand(nil)
	}
	return T
}

// SampleTimescale draws one posterior transition matrix and returns its
// slowest implied timescale at the given lag.
func (s *DirichletSampler) SampleTimescale(lag float64) (float64, error) {
	return spectral.SlowestTimescale(s.Sample(), lag)
}

// ReversibleSampler draws transition matrices from the posterior of a
// reversible Markov state model with a FIXED stationary vector. The sampler
// walks over the symmetric weight matrix x_ij = pi_i T_ij with
// Metropolis-within-Gibbs edge-shift moves
//
//	x_ij += delta, x_ii -= delta, x_jj -= delta
//
// which preserve both the symmetry of x and the row-sum constraint
// sum_j x_ij = pi_i, so every sample is reversible w.r.t. pi by
// construction.
type ReversibleSampler struct {
	n     int
	pi    []float64
	C     [][]float64
	x     [][]float64 // current symmetric weights
	edges [][2]int    // index pairs i<j with observed transitions
	scale []float64   // fixed proposal scale per edge, so the move is symmetric
	rg    *rand.Rand
}

// NewReversibleSampler creates a fixed-pi posterior sampler seeded at the
// maximum-likelihood estimate.
func NewReversibleSampler(C [][]float64, pi []float64, seed int64) (*ReversibleSampler, error) {
	T, err := TransitionMatrixWithStationary(C, pi)
	if err != nil {
		return nil, err
	}
	n := len(C)
	x := make([][]float64, n)
	for i := 0; i < n; i++ {
		x[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			x[i][j] = pi[i] * T[i][j]
		}
	}
	// enforce exact symmetry of the walker state
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			m := 0.5 * (x[i][j] + x[j][i])
			x[i][j], x[j][i] = m, m
		}
	}
	edges := make([][2]int, 0)
	scale := make([]float64, 0)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if C[i][j]+C[j][i] > 0.0 {
				edges = append(edges, [2]int{i, j})
				scale = append(scale, shiftStep*x[i][j])
			}
		}
	}
	if len(edges) == 0 {
		return nil, fmt.Errorf("kinetics: count matrix has no off-diagonal transitions to sample")
	}
	return &ReversibleSampler{
		n:     n,
		pi:    pi,
		C:     C,
		x:     x,
		edges: edges,
		scale: scale,
		rg:    rand.New(rand.NewSource(seed)),
	}, nil
}

// step performs one edge-shift move on a randomly chosen edge. The proposal
// is uniform on a fixed, edge-specific interval, hence symmetric; moves that
// leave the feasible region are rejected outright.
func (s *ReversibleSampler) step() {
	k := s.rg.Intn(len(s.edges))
	i, j := s.edges[k][0], s.edges[k][1]

	delta := s.scale[k] * (2.0*s.rg.Float64() - 1.0)
	xij := s.x[i][j] + delta
	xii := s.x[i][i] - delta
	xjj := s.x[j][j] - delta
	if xij <= 0.0 || xii < 0.0 || xjj < 0.0 {
		return
	}

	// local log-likelihood ratio; pi is fixed so only the weights matter
	logRatio := 0.0
	if c := s.C[i][j] + s.C[j][i]; c > 0.0 {
		logRatio += c * math.Log(xij/s.x[i][j])
	}
	if c := s.C[i][i]; c > 0.0 {
		logRatio += c * math.Log(xii/s.x[i][i])
	}
	if c := s.C[j][j]; c > 0.0 {
		logRatio += c * math.Log(xjj/s.x[j][j])
	}
	if logRatio >= 0.0 || s.rg.Float64() < math.Exp(logRatio) {
		s.x[i][j], s.x[j][i] = xij, xij
		s.x[i][i] = xii
		s.x[j][j] = xjj
	}
}

// Sample advances the chain by the given number of sweeps (one sweep touches
// every edge once on average) and returns the current transition matrix.
func (s *ReversibleSampler) Sample(sweeps int) [][]float64 {
	for k := 0; k < sweeps*len(s.edges); k++ {
		s.step()
	}
	T := make([][]float64, s.n)
	for i := 0; i < s.n; i++ {
		T[i] = make([]float64, s.n)
		for j := 0; j < s.n; j++ {
			T[i][j] = s.x[i][j] / s.pi[i]
		}
	}
	return T
}

// SampleTimescale advances the chain by the given number of sweeps and
// returns the slowest implied timescale of the current transition matrix.
func (s *ReversibleSampler) SampleTimescale(sweeps int, lag float64) (float64, error) {
	return spectral.SlowestTimescaleReversible(s.Sample(sweeps), s.pi, lag)
}

// Pi returns the fixed stationary vector of the sampler.
func (s *ReversibleSampler) Pi() []float64 {
	return s.pi
}
