// Package kinetics implements Markov-state-model estimation for rare-event
// kinetics: trajectory generation, transition counting, maximum-likelihood
// estimation with and without a fixed stationary vector, Bayesian posterior
// sampling, and the simulation-effort sweep experiment built on top of them.
package kinetics

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/markov-kinetics/ratekit/kinetics/potential"
	"github.com/markov-kinetics/ratekit/kinetics/spectral"
)

// ModelJSON is the reference-model file produced by the reference command
// and consumed by the trajectory generator and the visualizer.
type ModelJSON struct {
	Bins      int     `json:"bins"`
	HalfWidth float64 `json:"halfWidth"`
	Beta      float64 `json:"beta"`
	Depth     float64 `json:"depth"`
	Skew      float64 `json:"skew"`
	Lag       int     `json:"lag"`

	StationaryVector []float64   `json:"stationaryVector"`
	TransitionMatrix [][]float64 `json:"transitionMatrix"`
	Timescale        float64     `json:"slowestTimescale"`
}

// NewReferenceModel builds the discretized reference model for a double-well
// potential: the Boltzmann stationary vector, the Metropolis transition
// matrix, and the exact slowest relaxation timescale at the given lag.
func NewReferenceModel(d *potential.DoubleWell, g *potential.Grid, beta float64, lag int) (*ModelJSON, error) {
	pi, err := potential.BoltzmannVector(d, g, beta)
	if err != nil {
		return nil, err
	}
	T, err := potential.MetropolisMatrix(d, g, beta)
	if err != nil {
		return nil, err
	}
	timescale, err := spectral.SlowestTimescaleReversible(T, pi, float64(lag))
	if err != nil {
		return nil, fmt.Errorf("reference model has no relaxation timescale; %w", err)
	}
	return &ModelJSON{
		Bins:             g.Bins,
		HalfWidth:        g.HalfWidth,
		Beta:             beta,
		Depth:            d.Depth,
		Skew:             d.Skew,
		Lag:              lag,
		StationaryVector: pi,
		TransitionMatrix: T,
		Timescale:        timescale,
	}, nil
}

// WriteJSON writes the model to a JSON file.
func (m *ModelJSON) WriteJSON(path string) error {
	data, err := json.MarshalIndent(m, "", " ")
	if err != nil {
		return fmt.Errorf("failed to marshal model; %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// ReadModel reads a model file written by WriteJSON.
func ReadModel(path string) (*ModelJSON, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file; %w", err)
	}
	m := new(ModelJSON)
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal model file; %w", err)
	}
	if len(m.TransitionMatrix) != m.Bins || len(m.StationaryVector) != m.Bins {
		return nil, fmt.Errorf("model file %v is inconsistent with its bin count", path)
	}
	return m, nil
}

// TrajectorySetJSON is the trajectory file shared between the generator, the
// estimator, and the bootstrap command.
type TrajectorySetJSON struct {
	NumStates    int     `json:"numStates"`
	StartBin     int     `json:"startBin"`
	Trajectories [][]int `json:"trajectories"`
}

// WriteJSON writes the trajectory set to a JSON file.
func (t *TrajectorySetJSON) WriteJSON(path string) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal trajectory set; %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// ReadTrajectorySet reads a trajectory file written by WriteJSON.
func ReadTrajectorySet(path string) (*TrajectorySetJSON, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trajectory file; %w", err)
	}
	t := new(TrajectorySetJSON)
	if err := json.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("failed to unmarshal trajectory file; %w", err)
	}
	if t.NumStates < 2 || len(t.Trajectories) == 0 {
		return nil, fmt.Errorf("trajectory file %v is empty or malformed", path)
	}
	return t, nil
}
