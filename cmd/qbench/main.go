// Copyright 2023 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// qbench generates random quantum circuits, benchmarks their compilation
// and simulation, and analyses the recorded timings.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/log"
	"github.com/fillay12321/qbench/analysis"
	"github.com/fillay12321/qbench/quest"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
	_ "go.uber.org/automaxprocs"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	configFileFlag = &cli.StringFlag{
		Name:     "config",
		Usage:    "TOML configuration file",
		Category: "GENERAL",
	}
	verbosityFlag = &cli.IntFlag{
		Name:     "verbosity",
		Usage:    "Logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=detail",
		Value:    3,
		Category: "LOGGING",
	}
	logFormatFlag = &cli.StringFlag{
		Name:     "log.format",
		Usage:    "Log format to use (terminal|json)",
		Value:    "terminal",
		Category: "LOGGING",
	}
	logFileFlag = &cli.StringFlag{
		Name:     "log.file",
		Usage:    "Also write logs to the given file, rotated at 100MB",
		Category: "LOGGING",
	}

	countFlag = &cli.IntFlag{
		Name:  "count",
		Usage: "Number of circuits to generate",
	}
	outputFlag = &cli.StringFlag{
		Name:  "output",
		Usage: "Directory receiving the results table and artifacts",
	}
	seedFlag = &cli.Int64Flag{
		Name:  "seed",
		Usage: "Random seed (generate: 0 picks one from the clock)",
	}
	shotsFlag = &cli.IntFlag{
		Name:  "shots",
		Usage: "Number of measurement samples per circuit",
	}
	maxOpsFlag = &cli.IntFlag{
		Name:  "maxops",
		Usage: "Maximum number of gates inserted per circuit",
	}
	minOpsFlag = &cli.IntFlag{
		Name:  "minops",
		Usage: "Minimum number of gates before the depth target may stop a circuit",
	}
	lanesFlag = &cli.IntSliceFlag{
		Name:  "lanes",
		Usage: "Inclusive lane count range as min,max",
	}
	depthsFlag = &cli.IntSliceFlag{
		Name:  "depths",
		Usage: "Inclusive target depth range as min,max",
	}
	printFlag = &cli.BoolFlag{
		Name:  "print",
		Usage: "Print every generated circuit",
	}
	inputFlag = &cli.StringFlag{
		Name:  "input",
		Usage: "Benchmark results table",
	}
	plotsFlag = &cli.StringFlag{
		Name:  "plots",
		Usage: "Directory receiving the plots",
	}
	testFractionFlag = &cli.Float64Flag{
		Name:  "test-fraction",
		Usage: "Share of rows held out to evaluate the models",
	}
)

var app = &cli.App{
	Name:  "qbench",
	Usage: "quantum circuit compile and simulation benchmark",
	Flags: []cli.Flag{configFileFlag, verbosityFlag, logFormatFlag, logFileFlag},
	Before: func(ctx *cli.Context) error {
		return setupLogging(ctx, os.Stderr)
	},
	Commands: []*cli.Command{
		{
			Name:   "generate",
			Usage:  "Generate, compile and simulate random circuits",
			Flags:  []cli.Flag{countFlag, outputFlag, seedFlag, shotsFlag, maxOpsFlag, minOpsFlag, lanesFlag, depthsFlag, printFlag},
			Action: generate,
		},
		{
			Name:   "analyze",
			Usage:  "Summarise a results table and draw the descriptive plots",
			Flags:  []cli.Flag{inputFlag, plotsFlag},
			Action: analyze,
		},
		{
			Name:   "factors",
			Usage:  "Rank the structural factors correlated with transpile time",
			Flags:  []cli.Flag{inputFlag, plotsFlag},
			Action: factors,
		},
		{
			Name:   "regress",
			Usage:  "Fit timing models and plot feature importances",
			Flags:  []cli.Flag{inputFlag, plotsFlag, seedFlag, testFractionFlag},
			Action: regress,
		},
		{
			Name:      "dumpconfig",
			Usage:     "Export the effective configuration as TOML",
			ArgsUsage: "<dumpfile>",
			Flags:     []cli.Flag{countFlag, outputFlag, seedFlag, shotsFlag, maxOpsFlag, minOpsFlag, lanesFlag, depthsFlag, printFlag, inputFlag, testFractionFlag},
			Action:    dumpConfig,
		},
	},
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fatalf("%v", err)
	}
}

// fatalf formats a message to standard error and exits the program.
// The message is also printed to standard output if standard error
// is redirected to a different file.
func fatalf(format string, args ...interface{}) {
	w := io.MultiWriter(os.Stdout, os.Stderr)
	outf, _ := os.Stdout.Stat()
	errf, _ := os.Stderr.Stat()
	if outf != nil && errf != nil && os.SameFile(outf, errf) {
		w = os.Stderr
	}
	fmt.Fprintf(w, "Fatal: "+format+"\n", args...)
	os.Exit(1)
}

// setupLogging installs the root log handler.
func setupLogging(ctx *cli.Context, w *os.File) error {
	var (
		out      io.Writer = w
		useColor           = (isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd())) && os.Getenv("TERM") != "dumb"
	)
	if file := ctx.String(logFileFlag.Name); file != "" {
		out = io.MultiWriter(w, &lumberjack.Logger{
			Filename:   file,
			MaxSize:    100,
			MaxBackups: 10,
			Compress:   true,
		})
		useColor = false
	} else if useColor {
		out = colorable.NewColorable(w)
	}

	var handler slog.Handler
	switch format := ctx.String(logFormatFlag.Name); format {
	case "json":
		handler = log.JSONHandler(out)
	case "terminal", "":
		handler = log.NewTerminalHandler(out, useColor)
	default:
		return fmt.Errorf("unknown log format %q", format)
	}
	glogger := log.NewGlogHandler(handler)
	glogger.Verbosity(log.FromLegacyLevel(ctx.Int(verbosityFlag.Name)))
	log.SetDefault(log.NewLogger(glogger))
	return nil
}

func generate(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	runner, err := quest.NewRunner(cfg.Generate)
	if err != nil {
		return err
	}
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = runner.Run(runCtx)
	return err
}

// newAnalyzer loads the configured table and sets up an analyzer drawing
// into dir.
func newAnalyzer(cfg *analysis.Config, dir string) (*analysis.Analyzer, error) {
	table, err := analysis.Load(cfg.Input)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	log.Info("Loaded results table", "path", cfg.Input, "rows", table.Len())
	return analysis.New(table, os.Stdout, dir), nil
}

func analyze(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	a, err := newAnalyzer(&cfg.Analysis, cfg.Analysis.PlotDir)
	if err != nil {
		return err
	}
	if err := a.Analyze(); err != nil {
		return err
	}
	log.Info("Plots written", "dir", cfg.Analysis.PlotDir)
	return nil
}

func factors(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	a, err := newAnalyzer(&cfg.Analysis, cfg.Analysis.FactorsDir)
	if err != nil {
		return err
	}
	_, err = a.TranspileFactors()
	return err
}

func regress(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	a, err := newAnalyzer(&cfg.Analysis, cfg.Analysis.ModelDir)
	if err != nil {
		return err
	}
	_, err = a.Regression(cfg.Analysis.Seed, cfg.Analysis.TestFraction)
	return err
}
