package kinetics

import (
	"math/rand"

	"github.com/markov-kinetics/ratekit/kinetics"
	"github.com/markov-kinetics/ratekit/logger"
	"github.com/markov-kinetics/ratekit/utils"
	"github.com/urfave/cli/v2"
)

// BootstrapCommand data structure for the bootstrap app.
var BootstrapCommand = cli.Command{
	Action: bootstrapAction,
	Name:   "bootstrap",
	Usage:  "produces a bootstrap ensemble of stationary-vector estimates from a trajectory file",
	Flags: []cli.Flag{
		&utils.LagFlag,
		&utils.RandomSeedFlag,
		&utils.BootstrapReplicasFlag,
		&utils.TrajectoryFileFlag,
		&utils.BootstrapFileFlag,
		&logger.LogLevelFlag,
	},
	Description: `
The bootstrap command resamples the trajectories of a trajectory file with
replacement and estimates one stationary vector per replica. The resulting
ensemble file feeds the uncertainty of the stationary vector into the
fixed-pi sweep.`,
}

// bootstrapAction implements the bootstrap command.
func bootstrapAction(ctx *cli.Context) error {
	log := logger.NewLoggerFromContext(ctx, "Bootstrap")
	cfg, err := utils.GetConfig(ctx)
	if err != nil {
		return err
	}

	log.Infof("read trajectory file %v", cfg.TrajectoryFile)
	set, err := kinetics.ReadTrajectorySet(cfg.TrajectoryFile)
	if err != nil {
		return err
	}

	rg := rand.New(rand.NewSource(cfg.RandomSeed))
	log.Infof("resampling %v trajectories into %v replicas", len(set.Trajectories), cfg.BootstrapReplicas)
	ensemble, err := kinetics.BootstrapStationary(rg, set.Trajectories, set.NumStates, cfg.Lag, cfg.BootstrapReplicas)
	if err != nil {
		return err
	}

	log.Noticef("write ensemble file %v", cfg.BootstrapFile)
	return kinetics.WriteStationaryEnsemble(cfg.BootstrapFile, ensemble)
}
