package kinetics

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"

	"github.com/montanaflynn/stats"

	"github.com/markov-kinetics/ratekit/kinetics/potential"
	"github.com/markov-kinetics/ratekit/logger"
	"github.com/markov-kinetics/ratekit/utils"
)

// minValidSamples is the minimum number of valid posterior timescales for a
// sweep point to be reported; below it the point is marked as failed.
const minValidSamples = 10

// SweepPoint is the timescale estimate at one simulation-effort level.
type SweepPoint struct {
	Count     int     `json:"count"`     // number of short trajectories at this effort
	Effort    int     `json:"effort"`    // total number of simulated steps
	Mean      float64 `json:"mean"`      // posterior mean of the slowest timescale
	Std       float64 `json:"std"`       // posterior standard deviation
	RelError  float64 `json:"relError"`  // statistical uncertainty std/mean
	Deviation float64 `json:"deviation"` // relative deviation of the mean from the reference
	Failed    bool    `json:"failed"`    // estimation produced too few valid samples
}

// ResultsJSON is the output of the simulation-effort sweep.
type ResultsJSON struct {
	ReferenceTimescale float64      `json:"referenceTimescale"`
	Lag                int          `json:"lag"`
	Bins               int          `json:"bins"`
	Standard           []SweepPoint `json:"standard"` // non-reversible MSM from long trajectories
	FixedPi            []SweepPoint `json:"fixedPi"`  // fixed-pi MSM from short downhill trajectories
}

// WriteJSON writes the sweep results to a JSON file.
func (r *ResultsJSON) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", " ")
	if err != nil {
		return fmt.Errorf("failed to marshal results; %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// ReadResults reads a sweep results file.
func ReadResults(path string) (*ResultsJSON, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results file; %w", err)
	}
	r := new(ResultsJSON)
	if err := json.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal results file; %w", err)
	}
	if len(r.Standard) != len(r.FixedPi) {
		return nil, fmt.Errorf("results file %v has %d standard but %d fixed-pi points",
			path, len(r.Standard), len(r.FixedPi))
	}
	return r, nil
}

// Experiment runs the simulation-effort sweep comparing the standard MSM
// estimator against the fixed-stationary-vector estimator.
type Experiment struct {
	cfg *utils.Config
	log logger.Logger

	dw   *potential.DoubleWell
	grid *potential.Grid
	ref  *ModelJSON
	rg   *rand.Rand
}

// NewExperiment creates an experiment for the given configuration.
func NewExperiment(cfg *utils.Config, log logger.Logger) (*Experiment, error) {
	dw := &potential.DoubleWell{Depth: cfg.Depth, Skew: cfg.Skew}
	grid, err := potential.NewGrid(cfg.Bins, cfg.HalfWidth)
	if err != nil {
		return nil, err
	}
	ref, err := NewReferenceModel(dw, grid, cfg.Beta, cfg.Lag)
	if err != nil {
		return nil, err
	}
	return &Experiment{
		cfg:  cfg,
		log:  log,
		dw:   dw,
		grid: grid,
		ref:  ref,
		rg:   rand.New(rand.NewSource(cfg.RandomSeed)),
	}, nil
}

// Reference returns the reference model of the experiment.
func (e *Experiment) Reference() *ModelJSON {
	return e.ref
}

// shortStartBin resolves the configured start position of short trajectories.
func (e *Experiment) shortStartBin() int {
	if e.cfg.ShortStart == "shallow" {
		return potential.ShallowWellBin(e.dw, e.grid)
	}
	return potential.BarrierBin(e.dw, e.grid)
}

// Run executes the sweep. The bootstrap ensemble propagates the uncertainty
// of the stationary vector into the fixed-pi estimates; a nil ensemble is
// generated on the fly from long equilibrium trajectories.
func (e *Experiment) Run(ensemble [][]float64) (*ResultsJSON, error) {
	cfg := e.cfg
	e.log.Noticef("reference timescale t2 = %.1f steps at lag %d", e.ref.Timescale, cfg.Lag)
	e.log.Noticef("using random seed %d", cfg.RandomSeed)

	if ensemble == nil {
		var err error
		ensemble, err = e.GenerateEnsemble()
		if err != nil {
			return nil, err
		}
	}

	results := &ResultsJSON{
		ReferenceTimescale: e.ref.Timescale,
		Lag:                cfg.Lag,
		Bins:               cfg.Bins,
	}
	deep := potential.DeepWellBin(e.dw, e.grid)
	start := e.shortStartBin()

	for _, count := range cfg.SweepCounts {
		effort := count * cfg.ShortLen

		point, err := e.standardPoint(count, effort, deep)
		if err != nil {
			return nil, fmt.Errorf("standard estimate at effort %d failed; %w", effort, err)
		}
		results.Standard = append(results.Standard, point)

		point, err = e.fixedPiPoint(count, effort, start, ensemble)
		if err != nil {
			return nil, fmt.Errorf("fixed-pi estimate at effort %d failed; %w", effort, err)
		}
		results.FixedPi = append(results.FixedPi, point)

		e.log.Infof("effort %7d steps: standard %s, fixed-pi %s",
			effort, formatPoint(results.Standard), formatPoint(results.FixedPi))
	}
	return results, nil
}

// GenerateEnsemble simulates long equilibrium trajectories and produces the
// bootstrap ensemble of stationary-vector estimates from them.
func (e *Experiment) GenerateEnsemble() ([][]float64, error) {
	cfg := e.cfg
	e.log.Noticef("simulating %d long trajectories of %d steps for the bootstrap ensemble",
		cfg.LongCount, cfg.LongLength)
	deep := potential.DeepWellBin(e.dw, e.grid)
	trajectories, err := SimulateMany(e.rg, e.ref.TransitionMatrix, deep, cfg.LongLength, cfg.LongCount)
	if err != nil {
		return nil, err
	}
	return BootstrapStationary(e.rg, trajectories, cfg.Bins, cfg.Lag, cfg.BootstrapReplicas)
}

// standardPoint estimates the timescale with a non-reversible MSM built from
// a long equilibrium trajectory of the given total effort, and quantifies
// its uncertainty with Dirichlet posterior sampling.
func (e *Experiment) standardPoint(count int, effort int, start int) (SweepPoint, error) {
	cfg := e.cfg
	trajectory, err := Simulate(e.rg, e.ref.TransitionMatrix, start, effort)
	if err != nil {
		return SweepPoint{}, err
	}
	C, err := CountMatrix([][]int{trajectory}, cfg.Bins, cfg.Lag)
	if err != nil {
		return SweepPoint{}, err
	}
	active := ActiveSet(C)
	if len(active) < 2 {
		return e.failedPoint(count, effort), nil
	}
	Ca := Restrict(C, active)

	sampler, err := NewDirichletSampler(Ca, uint64(cfg.RandomSeed)+uint64(effort))
	if err != nil {
		return e.failedPoint(count, effort), nil
	}
	values := make([]float64, 0, cfg.PosteriorSamples)
	for s := 0; s < cfg.PosteriorSamples; s++ {
		t, err := sampler.SampleTimescale(float64(cfg.Lag))
		if err != nil {
			// complex or degenerate spectra occur for poorly sampled chains
			continue
		}
		values = append(values, t)
	}
	return e.summarize(count, effort, values), nil
}

// fixedPiPoint estimates the timescale with the fixed-pi reversible MSM from
// short downhill trajectories; the posterior is sampled per bootstrap
// replica of the stationary vector so that both sources of uncertainty enter
// the error bars.
func (e *Experiment) fixedPiPoint(count int, effort int, start int, ensemble [][]float64) (SweepPoint, error) {
	cfg := e.cfg
	trajectories, err := SimulateMany(e.rg, e.ref.TransitionMatrix, start, cfg.ShortLen, count)
	if err != nil {
		return SweepPoint{}, err
	}
	C, err := CountMatrix(trajectories, cfg.Bins, cfg.Lag)
	if err != nil {
		return SweepPoint{}, err
	}
	active := ActiveSet(C)
	if len(active) < 2 {
		return e.failedPoint(count, effort), nil
	}
	Ca := Restrict(C, active)

	samplesPerReplica := cfg.PosteriorSamples / len(ensemble)
	if samplesPerReplica < 1 {
		samplesPerReplica = 1
	}
	values := make([]float64, 0, cfg.PosteriorSamples)
	for r, pi := range ensemble {
		piA, err := RestrictVector(pi, active)
		if err != nil {
			continue
		}
		sampler, err := NewReversibleSampler(Ca, piA, cfg.RandomSeed+int64(effort)+int64(r))
		if err != nil {
			continue
		}
		sampler.Sample(cfg.BurnInSweeps)
		for s := 0; s < samplesPerReplica; s++ {
			t, err := sampler.SampleTimescale(cfg.StrideSweeps, float64(cfg.Lag))
			if err != nil {
				continue
			}
			values = append(values, t)
		}
	}
	return e.summarize(count, effort, values), nil
}

// summarize reduces posterior timescale samples to a sweep point.
func (e *Experiment) summarize(count int, effort int, values []float64) SweepPoint {
	if len(values) < minValidSamples {
		return e.failedPoint(count, effort)
	}
	mean, err := stats.Mean(values)
	if err != nil {
		return e.failedPoint(count, effort)
	}
	std, err := stats.StandardDeviationSample(values)
	if err != nil {
		return e.failedPoint(count, effort)
	}
	return SweepPoint{
		Count:     count,
		Effort:    effort,
		Mean:      mean,
		Std:       std,
		RelError:  std / mean,
		Deviation: math.Abs(mean-e.ref.Timescale) / e.ref.Timescale,
	}
}

// failedPoint marks an effort level at which estimation was not possible.
// Zero values keep the results JSON-encodable.
func (e *Experiment) failedPoint(count int, effort int) SweepPoint {
	return SweepPoint{
		Count:  count,
		Effort: effort,
		Failed: true,
	}
}

// formatPoint renders the latest sweep point for progress logging.
func formatPoint(points []SweepPoint) string {
	p := points[len(points)-1]
	if p.Failed {
		return "failed"
	}
	return fmt.Sprintf("t2 = %.1f +/- %.1f", p.Mean, p.Std)
}
