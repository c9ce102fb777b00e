package kinetics

import (
	"fmt"
	"math/rand"
)

// Simulate generates a discrete trajectory of the Markov jump process given
// by the stochastic matrix T, starting in state start and producing length
// states (including the start state). The random generator is passed in so
// that runs are reproducible under a fixed seed.
func Simulate(rg *rand.Rand, T [][]float64, start int, length int) ([]int, error) {
	n := len(T)
	if start < 0 || start >= n {
		return nil, fmt.Errorf("start state %d out of range [0,%d)", start, n)
	}
	if length < 1 {
		return nil, fmt.Errorf("trajectory length %d must be positive", length)
	}
	trajectory := make([]int, length)
	state := start
	trajectory[0] = state
	for t := 1; t < length; t++ {
		// sample the next state from the current row
		u := rg.Float64()
		sum := 0.0
		next := n - 1
		for j := 0; j < n; j++ {
			sum += T[state][j]
			if u < sum {
				next = j
				break
			}
		}
		state = next
		trajectory[t] = state
	}
	return trajectory, nil
}

// SimulateMany generates count independent trajectories with a shared random
// generator, all starting in the same state.
func SimulateMany(rg *rand.Rand, T [][]float64, start int, length int, count int) ([][]int, error) {
	if count < 1 {
		return nil, fmt.Errorf("trajectory count %d must be positive", count)
	}
	trajectories := make([][]int, count)
	for k := 0; k < count; k++ {
		trajectory, err := Simulate(rg, T, start, length)
		if err != nil {
			return nil, err
		}
		trajectories[k] = trajectory
	}
	return trajectories, nil
}
