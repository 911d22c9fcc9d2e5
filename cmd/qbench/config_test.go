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
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "qbench.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConfigRoundTrip(t *testing.T) {
	want := defaultConfig()
	want.Generate.CircuitCount = 12
	want.Generate.LaneRange = []int{2, 5}
	want.Generate.Gates = []string{"h", "cx"}
	want.Analysis.TestFraction = 0.25

	var buf bytes.Buffer
	require.NoError(t, writeConfig(&buf, &want))

	var got qbenchConfig
	require.NoError(t, loadConfig(writeFile(t, buf.String()), &got))
	assert.Equal(t, want, got)
}

func TestConfigRanges(t *testing.T) {
	path := writeFile(t, "[Generate]\nLaneRange = [2, 4]\nDepthRange = [3, 9]\n")
	cfg := defaultConfig()
	require.NoError(t, loadConfig(path, &cfg))
	assert.Equal(t, []int{2, 4}, cfg.Generate.LaneRange)
	assert.Equal(t, []int{3, 9}, cfg.Generate.DepthRange)

	cfg, err := resolve(t, "--config", path, "generate", "--lanes", "3,6", "--minops", "4")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 6}, cfg.Generate.LaneRange)
	assert.Equal(t, []int{3, 9}, cfg.Generate.DepthRange)
	assert.Equal(t, 4, cfg.Generate.MinOps)

	_, err = resolve(t, "generate", "--depths", "5")
	assert.Error(t, err)
}

func TestConfigUnknownField(t *testing.T) {
	path := writeFile(t, "[Generate]\nCircuits = 3\n")
	cfg := defaultConfig()
	err := loadConfig(path, &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Circuits")
	assert.Contains(t, err.Error(), path)
}

// resolve runs a cli app with the real flags and returns the configuration
// the command would act on.
func resolve(t *testing.T, args ...string) (qbenchConfig, error) {
	t.Helper()
	var (
		cfg qbenchConfig
		err error
	)
	capture := func(ctx *cli.Context) error {
		cfg, err = makeConfig(ctx)
		return nil
	}
	a := &cli.App{
		Name:  "qbench",
		Flags: []cli.Flag{configFileFlag, verbosityFlag, logFormatFlag},
		Commands: []*cli.Command{
			{Name: "generate", Flags: []cli.Flag{countFlag, outputFlag, seedFlag, shotsFlag, maxOpsFlag, minOpsFlag, lanesFlag, depthsFlag, printFlag}, Action: capture},
			{Name: "regress", Flags: []cli.Flag{inputFlag, plotsFlag, seedFlag, testFractionFlag}, Action: capture},
		},
	}
	require.NoError(t, a.Run(append([]string{"qbench"}, args...)))
	return cfg, err
}

func TestFlagsOverrideFile(t *testing.T) {
	path := writeFile(t, "[Generate]\nCircuitCount = 7\nShots = 64\n\n[Analysis]\nSeed = 3\n")

	cfg, err := resolve(t, "--config", path, "generate", "--count", "9", "--seed", "5")
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Generate.CircuitCount)
	assert.Equal(t, 64, cfg.Generate.Shots)
	assert.Equal(t, int64(5), cfg.Generate.Seed)
	assert.Equal(t, int64(3), cfg.Analysis.Seed)

	cfg, err = resolve(t, "--config", path, "regress", "--seed", "11", "--plots", "out")
	require.NoError(t, err)
	assert.Equal(t, int64(11), cfg.Analysis.Seed)
	assert.Equal(t, int64(0), cfg.Generate.Seed)
	assert.Equal(t, "out", cfg.Analysis.ModelDir)
}

func TestInvalidFlagsRejected(t *testing.T) {
	_, err := resolve(t, "generate", "--count=-1")
	assert.Error(t, err)

	_, err = resolve(t, "regress", "--test-fraction", "1.5")
	assert.Error(t, err)
}
