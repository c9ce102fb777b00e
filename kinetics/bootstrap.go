package kinetics

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"github.com/klauspost/compress/gzip"
)

// BootstrapStationary produces an ensemble of stationary-vector estimates by
// resampling the trajectory set with replacement and re-estimating the
// stationary vector from the symmetrized transition counts of each replica,
//
//	pi_i proportional to sum_j (c_ij + c_ji).
//
// The ensemble propagates the statistical uncertainty of the stationary
// vector into downstream fixed-pi estimates.
func BootstrapStationary(rg *rand.Rand, trajectories [][]int, numStates int, lag int, replicas int) ([][]float64, error) {
	if len(trajectories) == 0 {
		return nil, fmt.Errorf("bootstrap requires at least one trajectory")
	}
	if replicas < 1 {
		return nil, fmt.Errorf("bootstrap replica count %d must be positive", replicas)
	}
	ensemble := make([][]float64, replicas)
	resampled := make([][]int, len(trajectories))
	for r := 0; r < replicas; r++ {
		for k := range resampled {
			resampled[k] = trajectories[rg.Intn(len(trajectories))]
		}
		C, err := CountMatrix(resampled, numStates, lag)
		if err != nil {
			return nil, err
		}
		pi, err := stationaryFromCounts(C)
		if err != nil {
			return nil, fmt.Errorf("bootstrap replica %d: %w", r, err)
		}
		ensemble[r] = pi
	}
	return ensemble, nil
}

// stationaryFromCounts estimates a stationary vector from symmetrized counts.
// Unvisited states carry zero mass; the high-energy outer bins of the
// double-well discretization are never reached at finite effort, and the
// estimators restrict to the active set downstream.
func stationaryFromCounts(C [][]float64) ([]float64, error) {
	n := len(C)
	pi := make([]float64, n)
	total := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			pi[i] += C[i][j] + C[j][i]
		}
		total += pi[i]
	}
	if total <= 0.0 {
		return nil, fmt.Errorf("%w: no transitions counted", ErrEmptyRow)
	}
	for i := 0; i < n; i++ {
		pi[i] /= total
	}
	return pi, nil
}

// WriteStationaryEnsemble persists a bootstrap ensemble as a gzip-compressed
// JSON array file.
func WriteStationaryEnsemble(path string, ensemble [][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create ensemble file; %w", err)
	}
	defer f.Close()
	zw := gzip.NewWriter(f)
	if err := json.NewEncoder(zw).Encode(ensemble); err != nil {
		zw.Close()
		return fmt.Errorf("failed to encode ensemble; %w", err)
	}
	return zw.Close()
}

// ReadStationaryEnsemble loads a bootstrap ensemble written by
// WriteStationaryEnsemble and validates its shape.
func ReadStationaryEnsemble(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ensemble file; %w", err)
	}
	defer f.Close()
	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("ensemble file is not gzip compressed; %w", err)
	}
	defer zr.Close()
	var ensemble [][]float64
	if err := json.NewDecoder(zr).Decode(&ensemble); err != nil {
		return nil, fmt.Errorf("failed to decode ensemble; %w", err)
	}
	if len(ensemble) == 0 {
		return nil, fmt.Errorf("ensemble file %v contains no estimates", path)
	}
	n := len(ensemble[0])
	for r, pi := range ensemble {
		if len(pi) != n {
			return nil, fmt.Errorf("ensemble replica %d has %d states, expected %d", r, len(pi), n)
		}
	}
	return ensemble, nil
}
