package main

import (
	"os"
	"path/filepath"
	"testing"
)

// TestRatekitCommandPipeline runs the command chain end to end on a small
// domain: reference model, trajectory generation, bootstrap ensemble, and
// estimation. Each command registers only its own flags, so this also checks
// that the configuration layer accepts every subcommand.
func TestRatekitCommandPipeline(t *testing.T) {
	dir := t.TempDir()
	modelFile := filepath.Join(dir, "model.json")
	trajectoryFile := filepath.Join(dir, "trajectories.json")
	ensembleFile := filepath.Join(dir, "ensemble.json.gz")

	run := func(args ...string) {
		t.Helper()
		app := initRatekitApp()
		if err := app.Run(append([]string{"ratekit"}, args...)); err != nil {
			t.Fatalf("Failed to run %v command. Error: %v", args[0], err)
		}
	}

	run("reference", "--log", "critical",
		"--bins", "12", "--half-width", "1.3", "--depth", "2.0", "--skew", "0.25",
		"--model-file", modelFile)
	run("generate", "--log", "critical",
		"--bins", "12", "--half-width", "1.3", "--depth", "2.0", "--skew", "0.25",
		"--long-length", "5000", "--long-count", "3",
		"--trajectory-file", trajectoryFile, "long")
	run("bootstrap", "--log", "critical",
		"--bootstrap-replicas", "4",
		"--trajectory-file", trajectoryFile, "--bootstrap-file", ensembleFile)
	run("estimate", "--log", "critical",
		"--estimator", "standard", "--trajectory-file", trajectoryFile)
	run("estimate", "--log", "critical",
		"--estimator", "fixed-pi", "--trajectory-file", trajectoryFile,
		"--model-file", modelFile)

	for _, f := range []string{modelFile, trajectoryFile, ensembleFile} {
		if _, err := os.Stat(f); err != nil {
			t.Fatalf("command pipeline did not produce %v. Error: %v", f, err)
		}
	}
}

// TestRatekitRejectsBadArguments checks validation at the command boundary.
func TestRatekitRejectsBadArguments(t *testing.T) {
	if err := initRatekitApp().Run([]string{"ratekit", "generate", "--log", "critical", "sideways"}); err == nil {
		t.Fatalf("unknown trajectory kind must be rejected")
	}
	if err := initRatekitApp().Run([]string{"ratekit", "estimate", "--log", "critical", "--estimator", "rosebud"}); err == nil {
		t.Fatalf("unknown estimator must be rejected")
	}
}
