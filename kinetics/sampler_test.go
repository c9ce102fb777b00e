package kinetics

import (
	"math"
	"testing"

	"github.com/markov-kinetics/ratekit/kinetics/potential"
)

// TestDirichletSamplerStochastic checks that posterior samples are valid
// transition matrices.
func TestDirichletSamplerStochastic(t *testing.T) {
	C := sampledCounts(t, 16, 20000)
	sampler, err := NewDirichletSampler(C, 11)
	if err != nil {
		t.Fatalf("Failed to create sampler. Error: %v", err)
	}
	for s := 0; s < 10; s++ {
		checkStochastic(t, sampler.Sample(), 1e-9)
	}
}

// TestDirichletSamplerPosteriorMean checks that the posterior concentrates
// around the maximum-likelihood estimate for well-sampled counts.
func TestDirichletSamplerPosteriorMean(t *testing.T) {
	C := sampledCounts(t, 16, 200000)
	mle, err := TransitionMatrix(C)
	if err != nil {
		t.Fatalf("Failed to estimate transition matrix. Error: %v", err)
	}
	sampler, err := NewDirichletSampler(C, 12)
	if err != nil {
		t.Fatalf("Failed to create sampler. Error: %v", err)
	}
	n := len(C)
	mean := make([][]float64, n)
	for i := range mean {
		mean[i] = make([]float64, n)
	}
	samples := 200
	for s := 0; s < samples; s++ {
		T := sampler.Sample()
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				mean[i][j] += T[i][j] / float64(samples)
			}
		}
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			// only compare entries with substantial probability mass
			if mle[i][j] > 0.05 && math.Abs(mean[i][j]-mle[i][j]) > 0.05 {
				t.Fatalf("posterior mean deviates from MLE at (%v,%v): %v vs %v", i, j, mean[i][j], mle[i][j])
			}
		}
	}
}

// TestReversibleSamplerInvariants checks that every posterior sample is
// stochastic and in detailed balance with the fixed stationary vector.
func TestReversibleSamplerInvariants(t *testing.T) {
	dw := &potential.DoubleWell{Depth: 2.0, Skew: 0.25}
	g, _ := potential.NewGrid(16, 1.3)
	pi, _ := potential.BoltzmannVector(dw, g, 1.0)
	C := sampledCounts(t, 16, 20000)

	sampler, err := NewReversibleSampler(C, pi, 13)
	if err != nil {
		t.Fatalf("Failed to create sampler. Error: %v", err)
	}
	for s := 0; s < 10; s++ {
		T := sampler.Sample(3)
		checkStochastic(t, T, 1e-6)
		checkDetailedBalance(t, T, pi, 1e-9)
	}
}

// TestSampleTimescale checks the posterior timescale draws of both samplers
// on well-sampled counts.
func TestSampleTimescale(t *testing.T) {
	dw := &potential.DoubleWell{Depth: 2.0, Skew: 0.25}
	g, _ := potential.NewGrid(16, 1.3)
	pi, _ := potential.BoltzmannVector(dw, g, 1.0)
	C := sampledCounts(t, 16, 50000)

	ds, err := NewDirichletSampler(C, 15)
	if err != nil {
		t.Fatalf("Failed to create sampler. Error: %v", err)
	}
	ts, err := ds.SampleTimescale(1.0)
	if err != nil {
		t.Fatalf("Failed to sample timescale. Error: %v", err)
	}
	if ts <= 0.0 || math.IsInf(ts, 0) {
		t.Fatalf("implausible posterior timescale: %v", ts)
	}

	rs, err := NewReversibleSampler(C, pi, 16)
	if err != nil {
		t.Fatalf("Failed to create sampler. Error: %v", err)
	}
	ts, err = rs.SampleTimescale(3, 1.0)
	if err != nil {
		t.Fatalf("Failed to sample timescale. Error: %v", err)
	}
	if ts <= 0.0 || math.IsInf(ts, 0) {
		t.Fatalf("implausible posterior timescale: %v", ts)
	}
}

// TestReversibleSamplerMoves checks that the chain actually moves away from
// its maximum-likelihood starting point.
func TestReversibleSamplerMoves(t *testing.T) {
	dw := &potential.DoubleWell{Depth: 2.0, Skew: 0.25}
	g, _ := potential.NewGrid(16, 1.3)
	pi, _ := potential.BoltzmannVector(dw, g, 1.0)
	C := sampledCounts(t, 16, 20000)

	mle, err := TransitionMatrixWithStationary(C, pi)
	if err != nil {
		t.Fatalf("Failed to estimate fixed-pi matrix. Error: %v", err)
	}
	sampler, err := NewReversibleSampler(C, pi, 14)
	if err != nil {
		t.Fatalf("Failed to create sampler. Error: %v", err)
	}
	T := sampler.Sample(20)
	maxShift := 0.0
	for i := range T {
		for j := range T[i] {
			if d := math.Abs(T[i][j] - mle[i][j]); d > maxShift {
				maxShift = d
			}
		}
	}
	if maxShift == 0.0 {
		t.Fatalf("sampler did not accept any move in 20 sweeps")
	}
}
