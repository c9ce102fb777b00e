package utils

import (
	"github.com/urfave/cli/v2"
)

// Command line options shared between the ratekit commands.
var (
	BinsFlag = cli.IntFlag{
		Name:  "bins",
		Usage: "number of discretization bins of the double-well domain",
		Value: 50,
	}
	HalfWidthFlag = cli.Float64Flag{
		Name:  "half-width",
		Usage: "half-width of the discretized domain [-w,+w]",
		Value: 1.8,
	}
	BetaFlag = cli.Float64Flag{
		Name:  "beta",
		Usage: "inverse temperature of the Metropolis reference process",
		Value: 1.0,
	}
	DepthFlag = cli.Float64Flag{
		Name:  "depth",
		Usage: "barrier-depth parameter of the double-well potential",
		Value: 4.0,
	}
	SkewFlag = cli.Float64Flag{
		Name:  "skew",
		Usage: "skew parameter tilting the double-well potential",
		Value: 0.5,
	}
	LagFlag = cli.IntFlag{
		Name:  "lag",
		Usage: "lag time (in steps) for transition counting and timescales",
		Value: 1,
	}
	RandomSeedFlag = cli.Int64Flag{
		Name:  "random-seed",
		Usage: "seed for the random generator of trajectory simulation and sampling",
		Value: 99,
	}
	LongLengthFlag = cli.IntFlag{
		Name:  "long-length",
		Usage: "length of a long equilibrium trajectory",
		Value: 100000,
	}
	LongCountFlag = cli.IntFlag{
		Name:  "long-count",
		Usage: "number of long equilibrium trajectories",
		Value: 5,
	}
	ShortLengthFlag = cli.IntFlag{
		Name:  "short-length",
		Usage: "length of a short downhill trajectory",
		Value: 500,
	}
	ShortStartFlag = cli.StringFlag{
		Name:  "short-start",
		Usage: "start position of short trajectories (\"barrier\" or \"shallow\")",
		Value: "barrier",
	}
	SweepCountsFlag = cli.IntSliceFlag{
		Name:  "sweep-counts",
		Usage: "short-trajectory counts of the simulation-effort sweep",
		Value: cli.NewIntSlice(10, 20, 50, 100, 200, 500),
	}
	PosteriorSamplesFlag = cli.IntFlag{
		Name:  "posterior-samples",
		Usage: "number of posterior transition-matrix samples per estimate",
		Value: 100,
	}
	BurnInSweepsFlag = cli.IntFlag{
		Name:  "burn-in-sweeps",
		Usage: "number of warm-up sweeps of the reversible posterior sampler",
		Value: 50,
	}
	StrideSweepsFlag = cli.IntFlag{
		Name:  "stride-sweeps",
		Usage: "number of sweeps between consecutive posterior samples",
		Value: 5,
	}
	BootstrapReplicasFlag = cli.IntFlag{
		Name:  "bootstrap-replicas",
		Usage: "number of bootstrap replicas of the stationary vector",
		Value: 20,
	}
	BootstrapFileFlag = cli.PathFlag{
		Name:  "bootstrap-file",
		Usage: "path of the gzip-compressed bootstrap ensemble file",
		Value: "./stationary-bootstrap.json.gz",
	}
	ModelFileFlag = cli.PathFlag{
		Name:  "model-file",
		Usage: "path of the reference model file",
		Value: "./reference-model.json",
	}
	TrajectoryFileFlag = cli.PathFlag{
		Name:  "trajectory-file",
		Usage: "path of the trajectory set file",
		Value: "./trajectories.json",
	}
	OutputFlag = cli.PathFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output file of the command",
	}
	PortFlag = cli.StringFlag{
		Name:  "port",
		Usage: "port of the visualization web-server",
		Value: "8080",
	}
	EstimatorFlag = cli.StringFlag{
		Name:  "estimator",
		Usage: "MSM estimator (\"standard\", \"reversible\", or \"fixed-pi\")",
		Value: "standard",
	}
)
