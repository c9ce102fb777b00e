// Package kinetics implements the subcommands of the ratekit-cli app.
package kinetics

import (
	"github.com/markov-kinetics/ratekit/kinetics"
	"github.com/markov-kinetics/ratekit/kinetics/potential"
	"github.com/markov-kinetics/ratekit/logger"
	"github.com/markov-kinetics/ratekit/utils"
	"github.com/urfave/cli/v2"
)

// ReferenceCommand data structure for the reference app.
var ReferenceCommand = cli.Command{
	Action: referenceAction,
	Name:   "reference",
	Usage:  "builds the discretized double-well reference model and reports its exact kinetics",
	Flags: []cli.Flag{
		&utils.BinsFlag,
		&utils.HalfWidthFlag,
		&utils.BetaFlag,
		&utils.DepthFlag,
		&utils.SkewFlag,
		&utils.LagFlag,
		&utils.ModelFileFlag,
		&logger.LogLevelFlag,
	},
	Description: `
The reference command discretizes the asymmetric double-well potential,
builds the Metropolis transition matrix, and writes the reference model file
with the exact stationary vector and slowest relaxation timescale.`,
}

// referenceAction implements the reference command.
func referenceAction(ctx *cli.Context) error {
	log := logger.NewLoggerFromContext(ctx, "Reference")
	cfg, err := utils.GetConfig(ctx)
	if err != nil {
		return err
	}

	dw := &potential.DoubleWell{Depth: cfg.Depth, Skew: cfg.Skew}
	grid, err := potential.NewGrid(cfg.Bins, cfg.HalfWidth)
	if err != nil {
		return err
	}

	log.Infof("discretizing [-%v,+%v] into %v bins", cfg.HalfWidth, cfg.HalfWidth, cfg.Bins)
	m, err := kinetics.NewReferenceModel(dw, grid, cfg.Beta, cfg.Lag)
	if err != nil {
		return err
	}
	log.Noticef("deep well at bin %v, shallow well at bin %v, barrier at bin %v",
		potential.DeepWellBin(dw, grid), potential.ShallowWellBin(dw, grid), potential.BarrierBin(dw, grid))
	log.Noticef("exact slowest timescale t2 = %.1f steps at lag %v", m.Timescale, cfg.Lag)

	log.Noticef("write model file %v", cfg.ModelFile)
	return m.WriteJSON(cfg.ModelFile)
}
