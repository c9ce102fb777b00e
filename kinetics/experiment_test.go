package kinetics

import (
	"path/filepath"
	"testing"

	"github.com/markov-kinetics/ratekit/logger"
	"github.com/markov-kinetics/ratekit/utils"
)

// testConfig builds a small sweep configuration that runs quickly.
func testConfig() *utils.Config {
	return &utils.Config{
		Bins:              12,
		HalfWidth:         1.3,
		Beta:              1.0,
		Depth:             2.0,
		Skew:              0.25,
		Lag:               1,
		RandomSeed:        7,
		LongLength:        20000,
		LongCount:         3,
		ShortLen:          300,
		ShortStart:        "barrier",
		SweepCounts:       []int{20, 50},
		PosteriorSamples:  20,
		BurnInSweeps:      10,
		StrideSweeps:      2,
		BootstrapReplicas: 4,
	}
}

// TestExperimentRun checks the structure of a full sweep on a small system.
func TestExperimentRun(t *testing.T) {
	cfg := testConfig()
	e, err := NewExperiment(cfg, logger.NewLogger("CRITICAL", "Test"))
	if err != nil {
		t.Fatalf("Failed to create experiment. Error: %v", err)
	}
	if e.Reference().Timescale <= 0.0 {
		t.Fatalf("non-positive reference timescale: %v", e.Reference().Timescale)
	}

	results, err := e.Run(nil)
	if err != nil {
		t.Fatalf("Failed to run experiment. Error: %v", err)
	}
	if results.ReferenceTimescale != e.Reference().Timescale {
		t.Fatalf("results carry wrong reference timescale")
	}
	if len(results.Standard) != len(cfg.SweepCounts) || len(results.FixedPi) != len(cfg.SweepCounts) {
		t.Fatalf("wrong number of sweep points: standard %v, fixed-pi %v",
			len(results.Standard), len(results.FixedPi))
	}
	for k, count := range cfg.SweepCounts {
		for _, p := range []SweepPoint{results.Standard[k], results.FixedPi[k]} {
			if p.Count != count || p.Effort != count*cfg.ShortLen {
				t.Fatalf("wrong effort bookkeeping at point %v: %+v", k, p)
			}
			if p.Failed {
				continue
			}
			if p.Mean <= 0.0 || p.Std < 0.0 || p.RelError < 0.0 || p.Deviation < 0.0 {
				t.Fatalf("implausible sweep point %v: %+v", k, p)
			}
		}
	}
}

// TestExperimentRunDefaults checks the sweep at the default discretization
// with reduced effort. The outer bins are unreachable at depth 4.0, so the
// bootstrap and the estimators must restrict to the visited states instead
// of failing.
func TestExperimentRunDefaults(t *testing.T) {
	cfg := testConfig()
	cfg.Bins = 50
	cfg.HalfWidth = 1.8
	cfg.Depth = 4.0
	cfg.Skew = 0.5
	cfg.RandomSeed = 3

	e, err := NewExperiment(cfg, logger.NewLogger("CRITICAL", "Test"))
	if err != nil {
		t.Fatalf("Failed to create experiment. Error: %v", err)
	}
	results, err := e.Run(nil)
	if err != nil {
		t.Fatalf("Failed to run experiment. Error: %v", err)
	}
	if len(results.Standard) != len(cfg.SweepCounts) || len(results.FixedPi) != len(cfg.SweepCounts) {
		t.Fatalf("wrong number of sweep points: standard %v, fixed-pi %v",
			len(results.Standard), len(results.FixedPi))
	}
	for k := range cfg.SweepCounts {
		for _, p := range []SweepPoint{results.Standard[k], results.FixedPi[k]} {
			if !p.Failed && p.Mean <= 0.0 {
				t.Fatalf("implausible sweep point %v: %+v", k, p)
			}
		}
	}
}

// TestExperimentEnsembleReuse checks that a precomputed bootstrap ensemble is
// accepted by the sweep.
func TestExperimentEnsembleReuse(t *testing.T) {
	cfg := testConfig()
	cfg.SweepCounts = []int{30}
	e, err := NewExperiment(cfg, logger.NewLogger("CRITICAL", "Test"))
	if err != nil {
		t.Fatalf("Failed to create experiment. Error: %v", err)
	}
	ensemble, err := e.GenerateEnsemble()
	if err != nil {
		t.Fatalf("Failed to generate bootstrap ensemble. Error: %v", err)
	}
	if len(ensemble) != cfg.BootstrapReplicas {
		t.Fatalf("wrong number of bootstrap replicas: %v", len(ensemble))
	}
	results, err := e.Run(ensemble)
	if err != nil {
		t.Fatalf("Failed to run experiment. Error: %v", err)
	}
	if len(results.FixedPi) != 1 {
		t.Fatalf("wrong number of sweep points: %v", len(results.FixedPi))
	}
}

// TestResultsRoundTrip checks persistence of sweep results.
func TestResultsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	results := &ResultsJSON{
		ReferenceTimescale: 123.4,
		Lag:                1,
		Bins:               12,
		Standard:           []SweepPoint{{Count: 10, Effort: 3000, Mean: 120.0, Std: 15.0, RelError: 0.125, Deviation: 0.03}},
		FixedPi:            []SweepPoint{{Count: 10, Effort: 3000, Failed: true}},
	}
	if err := results.WriteJSON(path); err != nil {
		t.Fatalf("Failed to write results file. Error: %v", err)
	}
	got, err := ReadResults(path)
	if err != nil {
		t.Fatalf("Failed to read results file. Error: %v", err)
	}
	if got.ReferenceTimescale != results.ReferenceTimescale || got.Bins != results.Bins {
		t.Fatalf("results header differs after round trip: %+v", got)
	}
	if len(got.Standard) != 1 || got.Standard[0].Mean != 120.0 {
		t.Fatalf("standard points differ after round trip: %+v", got.Standard)
	}
	if len(got.FixedPi) != 1 || !got.FixedPi[0].Failed {
		t.Fatalf("failed point lost after round trip: %+v", got.FixedPi)
	}
}

// TestReadResultsMismatched checks rejection of results files whose strategy
// series disagree in length.
func TestReadResultsMismatched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	results := &ResultsJSON{
		ReferenceTimescale: 123.4,
		Standard: []SweepPoint{
			{Count: 10, Effort: 3000, Mean: 120.0},
			{Count: 20, Effort: 6000, Mean: 121.0},
		},
		FixedPi: []SweepPoint{{Count: 10, Effort: 3000, Mean: 119.0}},
	}
	if err := results.WriteJSON(path); err != nil {
		t.Fatalf("Failed to write results file. Error: %v", err)
	}
	if _, err := ReadResults(path); err == nil {
		t.Fatalf("mismatched strategy series must be rejected")
	}
}
