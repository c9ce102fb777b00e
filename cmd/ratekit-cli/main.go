package main

import (
	"fmt"
	"os"

	"github.com/markov-kinetics/ratekit/cmd/ratekit-cli/kinetics"
	"github.com/urfave/cli/v2"
)

// initRatekitApp initializes the ratekit-cli app. This function is called by
// the main function and unit tests.
func initRatekitApp() *cli.App {
	return &cli.App{
		Name:     "Ratekit Rare-Event Kinetics Manager",
		HelpName: "ratekit",
		Flags:    []cli.Flag{},
		Commands: []*cli.Command{
			&kinetics.ReferenceCommand,
			&kinetics.GenerateCommand,
			&kinetics.BootstrapCommand,
			&kinetics.EstimateCommand,
			&kinetics.SweepCommand,
			&kinetics.VisualizeCommand,
		},
	}
}

// main implements the "ratekit" cli application.
func main() {
	app := initRatekitApp()
	if err := app.Run(os.Args); err != nil {
		code := 1
		fmt.Fprintln(os.Stderr, err)
		os.Exit(code)
	}
}
