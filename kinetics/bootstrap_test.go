package kinetics

import (
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/markov-kinetics/ratekit/kinetics/potential"
)

// TestBootstrapStationary checks that the bootstrap produces valid and
// non-degenerate stationary-vector estimates.
func TestBootstrapStationary(t *testing.T) {
	dw := &potential.DoubleWell{Depth: 2.0, Skew: 0.25}
	g, err := potential.NewGrid(12, 1.3)
	if err != nil {
		t.Fatalf("Failed to create grid. Error: %v", err)
	}
	T, err := potential.MetropolisMatrix(dw, g, 1.0)
	if err != nil {
		t.Fatalf("Failed to build reference matrix. Error: %v", err)
	}
	rg := rand.New(rand.NewSource(5))
	trajectories, err := SimulateMany(rg, T, potential.DeepWellBin(dw, g), 5000, 4)
	if err != nil {
		t.Fatalf("Failed to simulate trajectories. Error: %v", err)
	}

	ensemble, err := BootstrapStationary(rg, trajectories, g.Bins, 1, 10)
	if err != nil {
		t.Fatalf("Failed to bootstrap stationary vector. Error: %v", err)
	}
	if len(ensemble) != 10 {
		t.Fatalf("wrong number of replicas: %v", len(ensemble))
	}
	for r, pi := range ensemble {
		if len(pi) != g.Bins {
			t.Fatalf("replica %v has wrong length %v", r, len(pi))
		}
		sum := 0.0
		for i, p := range pi {
			if p <= 0.0 {
				t.Fatalf("replica %v has non-positive weight at bin %v", r, i)
			}
			sum += p
		}
		if math.Abs(sum-1.0) > 1e-12 {
			t.Fatalf("replica %v is not normalized: %v", r, sum)
		}
	}
	spread := 0.0
	for _, pi := range ensemble[1:] {
		for i := range pi {
			spread += math.Abs(pi[i] - ensemble[0][i])
		}
	}
	if spread == 0.0 {
		t.Fatalf("bootstrap replicas show no variability")
	}
}

// TestBootstrapStationaryDefaults checks the bootstrap at the default
// discretization, where the high-energy outer bins are never visited and
// must carry zero mass instead of failing the estimate.
func TestBootstrapStationaryDefaults(t *testing.T) {
	dw := potential.NewDoubleWell()
	g, err := potential.NewGrid(50, 1.8)
	if err != nil {
		t.Fatalf("Failed to create grid. Error: %v", err)
	}
	T, err := potential.MetropolisMatrix(dw, g, 1.0)
	if err != nil {
		t.Fatalf("Failed to build reference matrix. Error: %v", err)
	}
	deep := potential.DeepWellBin(dw, g)
	rg := rand.New(rand.NewSource(9))
	trajectories, err := SimulateMany(rg, T, deep, 20000, 3)
	if err != nil {
		t.Fatalf("Failed to simulate trajectories. Error: %v", err)
	}

	ensemble, err := BootstrapStationary(rg, trajectories, g.Bins, 1, 5)
	if err != nil {
		t.Fatalf("Failed to bootstrap stationary vector. Error: %v", err)
	}
	for r, pi := range ensemble {
		sum := 0.0
		for i, p := range pi {
			if p < 0.0 {
				t.Fatalf("replica %v has negative weight at bin %v", r, i)
			}
			sum += p
		}
		if math.Abs(sum-1.0) > 1e-12 {
			t.Fatalf("replica %v is not normalized: %v", r, sum)
		}
		if pi[deep] <= 0.0 {
			t.Fatalf("replica %v has no weight in the deep well", r)
		}
		// bins at the domain edges sit ~20 kT above the wells
		if pi[0] != 0.0 || pi[g.Bins-1] != 0.0 {
			t.Fatalf("replica %v carries mass in unreachable boundary bins", r)
		}
	}
}

// TestBootstrapStationaryInvalid checks argument validation.
func TestBootstrapStationaryInvalid(t *testing.T) {
	rg := rand.New(rand.NewSource(1))
	if _, err := BootstrapStationary(rg, nil, 3, 1, 5); err == nil {
		t.Fatalf("empty trajectory set must be rejected")
	}
	if _, err := BootstrapStationary(rg, [][]int{{0, 1, 0}}, 2, 1, 0); err == nil {
		t.Fatalf("zero replica count must be rejected")
	}
}

// TestStationaryEnsembleRoundTrip checks ensemble file persistence.
func TestStationaryEnsembleRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ensemble.json.gz")
	ensemble := [][]float64{
		{0.25, 0.5, 0.25},
		{0.2, 0.6, 0.2},
	}
	if err := WriteStationaryEnsemble(path, ensemble); err != nil {
		t.Fatalf("Failed to write ensemble file. Error: %v", err)
	}
	got, err := ReadStationaryEnsemble(path)
	if err != nil {
		t.Fatalf("Failed to read ensemble file. Error: %v", err)
	}
	if len(got) != len(ensemble) {
		t.Fatalf("wrong number of replicas after round trip: %v", len(got))
	}
	for r := range ensemble {
		for i := range ensemble[r] {
			if got[r][i] != ensemble[r][i] {
				t.Fatalf("replica %v differs after round trip at bin %v", r, i)
			}
		}
	}
}

// TestReadStationaryEnsembleInvalid checks rejection of malformed files.
func TestReadStationaryEnsembleInvalid(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "plain.json")
	if err := os.WriteFile(plain, []byte("[[0.5,0.5]]"), 0644); err != nil {
		t.Fatalf("Failed to write file. Error: %v", err)
	}
	if _, err := ReadStationaryEnsemble(plain); err == nil {
		t.Fatalf("uncompressed file must be rejected")
	}

	ragged := filepath.Join(dir, "ragged.json.gz")
	if err := WriteStationaryEnsemble(ragged, [][]float64{{0.5, 0.5}, {1.0}}); err != nil {
		t.Fatalf("Failed to write ensemble file. Error: %v", err)
	}
	if _, err := ReadStationaryEnsemble(ragged); err == nil {
		t.Fatalf("ragged ensemble must be rejected")
	}
}
