package kinetics

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/markov-kinetics/ratekit/kinetics/potential"
)

// TestNewReferenceModel checks consistency of the reference model.
func TestNewReferenceModel(t *testing.T) {
	dw := potential.NewDoubleWell()
	g, err := potential.NewGrid(50, 1.8)
	if err != nil {
		t.Fatalf("Failed to create grid. Error: %v", err)
	}
	m, err := NewReferenceModel(dw, g, 1.0, 1)
	if err != nil {
		t.Fatalf("Failed to build reference model. Error: %v", err)
	}
	if m.Bins != 50 || len(m.StationaryVector) != 50 || len(m.TransitionMatrix) != 50 {
		t.Fatalf("inconsistent model dimensions: %+v", m)
	}
	if m.Timescale <= 1.0 {
		t.Fatalf("implausibly fast reference timescale: %v", m.Timescale)
	}
	checkStochastic(t, m.TransitionMatrix, 1e-12)
	checkDetailedBalance(t, m.TransitionMatrix, m.StationaryVector, 1e-12)
}

// TestModelRoundTrip checks model file persistence.
func TestModelRoundTrip(t *testing.T) {
	dw := potential.NewDoubleWell()
	g, _ := potential.NewGrid(20, 1.8)
	m, err := NewReferenceModel(dw, g, 1.0, 1)
	if err != nil {
		t.Fatalf("Failed to build reference model. Error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "model.json")
	if err := m.WriteJSON(path); err != nil {
		t.Fatalf("Failed to write model file. Error: %v", err)
	}
	got, err := ReadModel(path)
	if err != nil {
		t.Fatalf("Failed to read model file. Error: %v", err)
	}
	if got.Bins != m.Bins || got.Lag != m.Lag || math.Abs(got.Timescale-m.Timescale) > 1e-9 {
		t.Fatalf("model header differs after round trip: %+v", got)
	}
	for i := range m.StationaryVector {
		if math.Abs(got.StationaryVector[i]-m.StationaryVector[i]) > 1e-12 {
			t.Fatalf("stationary vector differs after round trip at bin %v", i)
		}
	}
}

// TestReadModelInconsistent checks rejection of corrupted model files.
func TestReadModelInconsistent(t *testing.T) {
	m := &ModelJSON{
		Bins:             5,
		StationaryVector: []float64{1.0},
		TransitionMatrix: [][]float64{{1.0}},
	}
	path := filepath.Join(t.TempDir(), "model.json")
	if err := m.WriteJSON(path); err != nil {
		t.Fatalf("Failed to write model file. Error: %v", err)
	}
	if _, err := ReadModel(path); err == nil {
		t.Fatalf("inconsistent model file must be rejected")
	}
}

// TestTrajectorySetRoundTrip checks trajectory file persistence.
func TestTrajectorySetRoundTrip(t *testing.T) {
	set := &TrajectorySetJSON{
		NumStates:    4,
		StartBin:     2,
		Trajectories: [][]int{{2, 1, 0, 1}, {2, 3, 3, 2}},
	}
	path := filepath.Join(t.TempDir(), "trajectories.json")
	if err := set.WriteJSON(path); err != nil {
		t.Fatalf("Failed to write trajectory file. Error: %v", err)
	}
	got, err := ReadTrajectorySet(path)
	if err != nil {
		t.Fatalf("Failed to read trajectory file. Error: %v", err)
	}
	if got.NumStates != 4 || got.StartBin != 2 || len(got.Trajectories) != 2 {
		t.Fatalf("trajectory set differs after round trip: %+v", got)
	}
	for k := range set.Trajectories {
		for i := range set.Trajectories[k] {
			if got.Trajectories[k][i] != set.Trajectories[k][i] {
				t.Fatalf("trajectory %v differs after round trip at step %v", k, i)
			}
		}
	}
}
