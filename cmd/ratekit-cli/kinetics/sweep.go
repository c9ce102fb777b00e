package kinetics

import (
	"os"

	"github.com/markov-kinetics/ratekit/kinetics"
	"github.com/markov-kinetics/ratekit/logger"
	"github.com/markov-kinetics/ratekit/utils"
	"github.com/urfave/cli/v2"
)

// SweepCommand data structure for the sweep app.
var SweepCommand = cli.Command{
	Action: sweepAction,
	Name:   "sweep",
	Usage:  "runs the simulation-effort sweep comparing both estimation strategies",
	Flags: []cli.Flag{
		&utils.BinsFlag,
		&utils.HalfWidthFlag,
		&utils.BetaFlag,
		&utils.DepthFlag,
		&utils.SkewFlag,
		&utils.LagFlag,
		&utils.RandomSeedFlag,
		&utils.LongLengthFlag,
		&utils.LongCountFlag,
		&utils.ShortLengthFlag,
		&utils.ShortStartFlag,
		&utils.SweepCountsFlag,
		&utils.PosteriorSamplesFlag,
		&utils.BurnInSweepsFlag,
		&utils.StrideSweepsFlag,
		&utils.BootstrapReplicasFlag,
		&utils.BootstrapFileFlag,
		&utils.OutputFlag,
		&logger.LogLevelFlag,
	},
	Description: `
The sweep command runs the full comparison experiment: for every effort
level it estimates the slowest relaxation timescale once with a standard
non-reversible MSM from long equilibrium trajectories and once with the
fixed-pi reversible MSM from short downhill trajectories, quantifying the
uncertainty via Bayesian posterior sampling and bootstrap resampling of the
stationary vector.

A precomputed bootstrap ensemble file is used when present; otherwise the
ensemble is generated from fresh long trajectories.`,
}

// sweepAction implements the sweep command.
func sweepAction(ctx *cli.Context) error {
	log := logger.NewLoggerFromContext(ctx, "Sweep")
	cfg, err := utils.GetConfig(ctx)
	if err != nil {
		return err
	}

	experiment, err := kinetics.NewExperiment(cfg, log)
	if err != nil {
		return err
	}

	var ensemble [][]float64
	if _, err := os.Stat(cfg.BootstrapFile); err == nil {
		log.Infof("read bootstrap ensemble file %v", cfg.BootstrapFile)
		if ensemble, err = kinetics.ReadStationaryEnsemble(cfg.BootstrapFile); err != nil {
			return err
		}
	} else {
		log.Infof("no bootstrap ensemble file at %v; generating one", cfg.BootstrapFile)
	}

	results, err := experiment.Run(ensemble)
	if err != nil {
		return err
	}

	results.PrintSummary(os.Stdout)

	outputFileName := cfg.Output
	if outputFileName == "" {
		outputFileName = "./sweep-results.json"
	}
	log.Noticef("write results file %v", outputFileName)
	return results.WriteJSON(outputFileName)
}
