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

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"unicode"

	"github.com/fillay12321/qbench/analysis"
	"github.com/fillay12321/qbench/quest"
	"github.com/naoina/toml"
	"github.com/urfave/cli/v2"
)

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://pkg.go.dev/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

type qbenchConfig struct {
	Generate quest.Config
	Analysis analysis.Config
}

func defaultConfig() qbenchConfig {
	cfg := qbenchConfig{
		Generate: quest.DefaultConfig,
		Analysis: analysis.DefaultConfig,
	}
	cfg.Generate.Gates = append([]string(nil), quest.DefaultConfig.Gates...)
	cfg.Generate.LaneRange = append([]int(nil), quest.DefaultConfig.LaneRange...)
	cfg.Generate.DepthRange = append([]int(nil), quest.DefaultConfig.DepthRange...)
	return cfg
}

func loadConfig(file string, cfg *qbenchConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

// makeConfig resolves the defaults, the config file and the command flags,
// in that order of increasing precedence.
func makeConfig(ctx *cli.Context) (qbenchConfig, error) {
	cfg := defaultConfig()
	if file := ctx.String(configFileFlag.Name); file != "" {
		if err := loadConfig(file, &cfg); err != nil {
			return cfg, err
		}
	}
	applyFlags(ctx, &cfg)
	if err := cfg.Generate.Validate(); err != nil {
		return cfg, err
	}
	if err := cfg.Analysis.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyFlags(ctx *cli.Context, cfg *qbenchConfig) {
	gen, an := &cfg.Generate, &cfg.Analysis
	if ctx.IsSet(countFlag.Name) {
		gen.CircuitCount = ctx.Int(countFlag.Name)
	}
	if ctx.IsSet(outputFlag.Name) {
		gen.OutputDir = ctx.String(outputFlag.Name)
	}
	if ctx.IsSet(shotsFlag.Name) {
		gen.Shots = ctx.Int(shotsFlag.Name)
	}
	if ctx.IsSet(maxOpsFlag.Name) {
		gen.MaxOps = ctx.Int(maxOpsFlag.Name)
	}
	if ctx.IsSet(minOpsFlag.Name) {
		gen.MinOps = ctx.Int(minOpsFlag.Name)
	}
	if ctx.IsSet(lanesFlag.Name) {
		gen.LaneRange = ctx.IntSlice(lanesFlag.Name)
	}
	if ctx.IsSet(depthsFlag.Name) {
		gen.DepthRange = ctx.IntSlice(depthsFlag.Name)
	}
	if ctx.IsSet(printFlag.Name) {
		gen.PrintCircuits = ctx.Bool(printFlag.Name)
	}
	if ctx.IsSet(inputFlag.Name) {
		an.Input = ctx.String(inputFlag.Name)
	}
	if ctx.IsSet(plotsFlag.Name) {
		dir := ctx.String(plotsFlag.Name)
		an.PlotDir, an.FactorsDir, an.ModelDir = dir, dir, dir
	}
	if ctx.IsSet(testFractionFlag.Name) {
		an.TestFraction = ctx.Float64(testFractionFlag.Name)
	}
	if ctx.IsSet(seedFlag.Name) {
		// The generate and regress commands share the flag.
		if ctx.Command.Name == "regress" {
			an.Seed = ctx.Int64(seedFlag.Name)
		} else {
			gen.Seed = ctx.Int64(seedFlag.Name)
		}
	}
}

// dumpConfig is the dumpconfig command.
func dumpConfig(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	var out io.Writer = os.Stdout
	if ctx.NArg() > 0 {
		f, err := os.OpenFile(ctx.Args().Get(0), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return writeConfig(out, &cfg)
}

func writeConfig(w io.Writer, cfg *qbenchConfig) error {
	data, err := tomlSettings.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
