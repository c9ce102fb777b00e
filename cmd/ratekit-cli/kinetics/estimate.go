package kinetics

import (
	"fmt"

	"github.com/markov-kinetics/ratekit/kinetics"
	"github.com/markov-kinetics/ratekit/kinetics/spectral"
	"github.com/markov-kinetics/ratekit/logger"
	"github.com/markov-kinetics/ratekit/utils"
	"github.com/urfave/cli/v2"
)

// EstimateCommand data structure for the estimator app.
var EstimateCommand = cli.Command{
	Action: estimateAction,
	Name:   "estimate",
	Usage:  "estimates a Markov state model from a trajectory file and reports its slowest timescale",
	Flags: []cli.Flag{
		&utils.LagFlag,
		&utils.EstimatorFlag,
		&utils.TrajectoryFileFlag,
		&utils.ModelFileFlag,
		&logger.LogLevelFlag,
	},
	Description: `
The estimate command counts transitions at the configured lag time and
estimates a transition matrix with the selected estimator:

"standard"   row-normalized counts without constraints;
"reversible" maximum likelihood under detailed balance;
"fixed-pi"   maximum likelihood under detailed balance with the exact
             stationary vector of the reference model file.`,
}

// estimateAction implements the estimator command.
func estimateAction(ctx *cli.Context) error {
	log := logger.NewLoggerFromContext(ctx, "Estimate")
	cfg, err := utils.GetConfig(ctx)
	if err != nil {
		return err
	}

	log.Infof("read trajectory file %v", cfg.TrajectoryFile)
	set, err := kinetics.ReadTrajectorySet(cfg.TrajectoryFile)
	if err != nil {
		return err
	}

	C, err := kinetics.CountMatrix(set.Trajectories, set.NumStates, cfg.Lag)
	if err != nil {
		return err
	}
	active := kinetics.ActiveSet(C)
	log.Infof("%v of %v states are active at lag %v", len(active), set.NumStates, cfg.Lag)
	Ca := kinetics.Restrict(C, active)

	var (
		T  [][]float64
		t2 float64
	)
	switch cfg.Estimator {
	case "standard":
		if T, err = kinetics.TransitionMatrix(Ca); err != nil {
			return err
		}
		t2, err = spectral.SlowestTimescale(T, float64(cfg.Lag))
	case "reversible":
		if T, err = kinetics.ReversibleTransitionMatrix(Ca); err != nil {
			return err
		}
		var pi []float64
		if pi, err = spectral.StationaryDistribution(T); err != nil {
			return err
		}
		t2, err = spectral.SlowestTimescaleReversible(T, pi, float64(cfg.Lag))
	case "fixed-pi":
		m, err := kinetics.ReadModel(cfg.ModelFile)
		if err != nil {
			return err
		}
		if m.Bins != set.NumStates {
			return fmt.Errorf("model file has %d bins but trajectory file has %d states", m.Bins, set.NumStates)
		}
		pi, err := kinetics.RestrictVector(m.StationaryVector, active)
		if err != nil {
			return err
		}
		if T, err = kinetics.TransitionMatrixWithStationary(Ca, pi); err != nil {
			return err
		}
		t2, err = spectral.SlowestTimescaleReversible(T, pi, float64(cfg.Lag))
		if err != nil {
			return err
		}
	}
	if err != nil {
		return err
	}

	log.Noticef("%v estimate from %v trajectories: t2 = %.1f steps at lag %v",
		cfg.Estimator, len(set.Trajectories), t2, cfg.Lag)
	return nil
}
