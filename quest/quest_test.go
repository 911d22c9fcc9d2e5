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

package quest

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fillay12321/qbench/quest/quantum"
	"github.com/fillay12321/qbench/quest/record"
	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	cfg := DefaultConfig
	cfg.CircuitCount = 4
	cfg.OutputDir = t.TempDir()
	cfg.LaneRange = []int{2, 4}
	cfg.DepthRange = []int{2, 5}
	cfg.Shots = 64
	cfg.Seed = 5
	cfg.PrintCircuits = true
	return cfg
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"negative count", func(c *Config) { c.CircuitCount = -1 }},
		{"no output", func(c *Config) { c.OutputDir = "" }},
		{"inverted lanes", func(c *Config) { c.LaneRange = []int{5, 4} }},
		{"zero lanes", func(c *Config) { c.LaneRange = []int{0, 4} }},
		{"too many lanes", func(c *Config) { c.LaneRange = []int{2, quantum.MaxSimulatedQubits + 1} }},
		{"zero depth", func(c *Config) { c.DepthRange = []int{0, 3} }},
		{"single lane bound", func(c *Config) { c.LaneRange = []int{4} }},
		{"missing depth range", func(c *Config) { c.DepthRange = nil }},
		{"three depth bounds", func(c *Config) { c.DepthRange = []int{1, 2, 3} }},
		{"zero max ops", func(c *Config) { c.MaxOps = 0 }},
		{"zero shots", func(c *Config) { c.Shots = 0 }},
		{"unknown gate", func(c *Config) { c.Gates = []string{"h", "rz"} }},
		{"empty catalog", func(c *Config) { c.Gates = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig
			cfg.Gates = append([]string(nil), DefaultConfig.Gates...)
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestExtractMetrics(t *testing.T) {
	qc := quantum.NewCircuit(3)
	for _, step := range []struct {
		k  quantum.Kind
		qs []int
	}{
		{quantum.H, []int{0}},
		{quantum.T, []int{1}},
		{quantum.CX, []int{0, 1}},
		{quantum.CZ, []int{1, 2}},
		{quantum.Swap, []int{0, 2}},
		{quantum.Sdg, []int{2}},
	} {
		require.NoError(t, qc.Append(step.k, step.qs...))
	}
	qc.MeasureAll()

	m := ExtractMetrics(qc)
	assert.Equal(t, 6+1+3, m.NumGates)
	assert.Equal(t, 3, m.Num1QGates)
	assert.Equal(t, 3, m.Num2QGates)
	assert.Equal(t, 1, m.NumCX)
	assert.Equal(t, 1, m.NumCZ)
	assert.Equal(t, 1, m.NumSwap)
	assert.Equal(t, qc.Depth(), m.RealDepth)
	assert.InDelta(t, float64(m.NumGates)/float64(m.RealDepth), m.AvgGateDensity, 1e-12)
}

func TestGateDensity(t *testing.T) {
	assert.Equal(t, 2.5, GateDensity(10, 4))
	assert.Zero(t, GateDensity(10, 0))

	m := ExtractMetrics(quantum.NewCircuit(0))
	assert.Zero(t, m.RealDepth)
	assert.Zero(t, m.AvgGateDensity)
}

func TestRunnerWritesTableAndArtifacts(t *testing.T) {
	cfg := testConfig(t)
	runner, err := NewRunner(cfg)
	require.NoError(t, err)
	var out bytes.Buffer
	runner.Out = &out

	summary, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Circuits)
	assert.Equal(t, int64(5), summary.Seed)
	for _, e := range []Extreme{summary.FastestTranspile, summary.SlowestTranspile, summary.FastestExec, summary.SlowestExec} {
		assert.GreaterOrEqual(t, e.Index, 0)
		assert.Less(t, e.Index, 4)
	}
	assert.LessOrEqual(t, summary.FastestExec.Ms, summary.SlowestExec.Ms)

	rows, err := record.ReadFile(cfg.ResultsPath())
	require.NoError(t, err)
	require.Len(t, rows, 4)
	for i, row := range rows {
		assert.Equal(t, i, row.Index)
		assert.GreaterOrEqual(t, row.NumQubits, 2)
		assert.LessOrEqual(t, row.NumQubits, 4)
		assert.GreaterOrEqual(t, row.DepthMaxConfig, 2)
		assert.LessOrEqual(t, row.DepthMaxConfig, 5)
		assert.Equal(t, row.NumCX+row.NumCZ+row.NumSwap, row.Num2QGates)
		assert.InDelta(t, row.TranspileMs+row.ExecMs, row.TotalMs, 0.0015)
		for _, path := range []string{row.ImgFile, row.HistFile, row.QasmFile} {
			assert.FileExists(t, path)
		}
	}

	assert.Contains(t, out.String(), "[Circuit 3]")
	assert.Contains(t, out.String(), "FINAL RESULTS")

	manifest, err := ReadManifest(filepath.Join(cfg.OutputDir, ManifestFile))
	require.NoError(t, err)
	assert.Equal(t, summary.RunID, manifest.RunID)
	assert.Equal(t, 4, manifest.Config.CircuitCount)
	require.NotNil(t, manifest.Summary)
	assert.Equal(t, 4, manifest.Summary.Circuits)

	prom, err := os.ReadFile(filepath.Join(cfg.OutputDir, MetricsFile))
	require.NoError(t, err)
	assert.Contains(t, string(prom), `qbench_phase_duration_seconds_count{phase="exec"} 4`)
}

func TestRunnerIsReproducible(t *testing.T) {
	structure := func() []string {
		cfg := testConfig(t)
		cfg.PrintCircuits = false
		runner, err := NewRunner(cfg)
		require.NoError(t, err)
		runner.Out = &bytes.Buffer{}
		_, err = runner.Run(context.Background())
		require.NoError(t, err)

		rows, err := record.ReadFile(cfg.ResultsPath())
		require.NoError(t, err)
		var out []string
		for _, r := range rows {
			row := r.Row()
			// drop timings and paths
			out = append(out, strings.Join(row[5:15], ","))
		}
		return out
	}
	assert.Equal(t, structure(), structure())
}

func TestRunnerStopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	runner, err := NewRunner(cfg)
	require.NoError(t, err)
	runner.Out = &bytes.Buffer{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	summary, err := runner.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, summary)
	assert.Zero(t, summary.Circuits)

	rows, err := record.ReadFile(cfg.ResultsPath())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRunnerRefusesLockedOutput(t *testing.T) {
	cfg := testConfig(t)
	lock := flock.New(filepath.Join(cfg.OutputDir, lockFile))
	locked, err := lock.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer lock.Unlock()

	runner, err := NewRunner(cfg)
	require.NoError(t, err)
	_, err = runner.Run(context.Background())
	assert.ErrorIs(t, err, ErrOutputLocked)
}
