package kinetics

import (
	"fmt"
	"math/rand"

	"github.com/markov-kinetics/ratekit/kinetics"
	"github.com/markov-kinetics/ratekit/kinetics/potential"
	"github.com/markov-kinetics/ratekit/logger"
	"github.com/markov-kinetics/ratekit/utils"
	"github.com/urfave/cli/v2"
)

// GenerateCommand data structure for the trajectory generator app.
var GenerateCommand = cli.Command{
	Action:    generateAction,
	Name:      "generate",
	Usage:     "simulates discrete trajectories of the reference process",
	ArgsUsage: "<kind>",
	Flags: []cli.Flag{
		&utils.BinsFlag,
		&utils.HalfWidthFlag,
		&utils.BetaFlag,
		&utils.DepthFlag,
		&utils.SkewFlag,
		&utils.RandomSeedFlag,
		&utils.LongLengthFlag,
		&utils.LongCountFlag,
		&utils.ShortLengthFlag,
		&utils.ShortStartFlag,
		&utils.SweepCountsFlag,
		&utils.TrajectoryFileFlag,
		&logger.LogLevelFlag,
	},
	Description: `
The generate command requires one argument:
<kind>

<kind> selects the trajectory set: "long" simulates equilibrium trajectories
started in the deep well; "short" simulates many short downhill trajectories
started at the barrier top or in the shallow well.`,
}

// generateAction implements the trajectory generator command.
func generateAction(ctx *cli.Context) error {
	log := logger.NewLoggerFromContext(ctx, "Generate")
	if ctx.Args().Len() != 1 {
		return fmt.Errorf("missing trajectory kind (\"long\" or \"short\")")
	}
	kind := ctx.Args().Get(0)

	cfg, err := utils.GetConfig(ctx)
	if err != nil {
		return err
	}
	dw := &potential.DoubleWell{Depth: cfg.Depth, Skew: cfg.Skew}
	grid, err := potential.NewGrid(cfg.Bins, cfg.HalfWidth)
	if err != nil {
		return err
	}
	T, err := potential.MetropolisMatrix(dw, grid, cfg.Beta)
	if err != nil {
		return err
	}
	rg := rand.New(rand.NewSource(cfg.RandomSeed))
	log.Noticef("using random seed %d", cfg.RandomSeed)

	var (
		start, length, count int
	)
	switch kind {
	case "long":
		start, length, count = potential.DeepWellBin(dw, grid), cfg.LongLength, cfg.LongCount
	case "short":
		start, length = potential.BarrierBin(dw, grid), cfg.ShortLen
		if cfg.ShortStart == "shallow" {
			start = potential.ShallowWellBin(dw, grid)
		}
		count = maxSweepCount(cfg.SweepCounts)
	default:
		return fmt.Errorf("unknown trajectory kind %q", kind)
	}

	log.Infof("simulating %v trajectories of %v steps from bin %v", count, length, start)
	trajectories, err := kinetics.SimulateMany(rg, T, start, length, count)
	if err != nil {
		return err
	}
	set := kinetics.TrajectorySetJSON{
		NumStates:    cfg.Bins,
		StartBin:     start,
		Trajectories: trajectories,
	}
	log.Noticef("write trajectory file %v", cfg.TrajectoryFile)
	return set.WriteJSON(cfg.TrajectoryFile)
}

// maxSweepCount returns the largest trajectory count of the effort sweep.
func maxSweepCount(counts []int) int {
	m := 1
	for _, c := range counts {
		if c > m {
			m = c
		}
	}
	return m
}
