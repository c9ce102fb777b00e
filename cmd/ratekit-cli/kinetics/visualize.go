package kinetics

import (
	"fmt"

	"github.com/markov-kinetics/ratekit/kinetics"
	"github.com/markov-kinetics/ratekit/kinetics/visualizer"
	"github.com/markov-kinetics/ratekit/logger"
	"github.com/markov-kinetics/ratekit/utils"
	"github.com/urfave/cli/v2"
)

// VisualizeCommand data structure for the visualize app.
var VisualizeCommand = cli.Command{
	Action:    visualizeAction,
	Name:      "visualize",
	Usage:     "produces a graphical view of the sweep results and the reference model",
	ArgsUsage: "<results-file>",
	Flags: []cli.Flag{
		&utils.ModelFileFlag,
		&utils.PortFlag,
		&logger.LogLevelFlag,
	},
	Description: `
The visualize command requires one argument:
<results.json>

<results.json> is the results file produced by the sweep command. The
reference model file provides the potential profile, the stationary
distribution, and the chain rendering.`,
}

// visualizeAction implements the visualize command.
func visualizeAction(ctx *cli.Context) error {
	log := logger.NewLoggerFromContext(ctx, "Visualize")
	if ctx.Args().Len() != 1 {
		return fmt.Errorf("missing results file")
	}
	inputFileName := ctx.Args().Get(0)

	log.Infof("read results file %v", inputFileName)
	results, err := kinetics.ReadResults(inputFileName)
	if err != nil {
		return err
	}
	m, err := kinetics.ReadModel(ctx.Path(utils.ModelFileFlag.Name))
	if err != nil {
		return err
	}

	port := ctx.String(utils.PortFlag.Name)
	if port == "" {
		port = "8080"
	}
	log.Noticef("open web browser with http://localhost:" + port)
	log.Notice("cancel visualize with ^C")
	visualizer.FireUpWeb(m, results, port)

	return nil
}
