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

// Package quest runs the circuit benchmark: it generates random circuits,
// compiles and simulates them, and records per-circuit timings and
// structure.
package quest

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fillay12321/qbench/quest/quantum"
	"github.com/fillay12321/qbench/quest/render"
)

// ResultsFile is the name of the benchmark table inside the output directory.
const ResultsFile = "benchmark_results.csv"

// Artifact subdirectories of the output directory.
const (
	ImageDir = "imgs"
	HistDir  = "hist"
	QasmDir  = "qasm"
)

var (
	ErrInvalidConfig = errors.New("invalid benchmark configuration")
	ErrOutputLocked  = errors.New("output directory is locked by another run")
)

// Config holds the benchmark settings.
type Config struct {
	CircuitCount int    `yaml:"circuit_count"`
	OutputDir    string `yaml:"output_dir"`

	// Generator bounds.
	MaxOps     int      `yaml:"max_ops"`
	MinOps     int      `yaml:"min_ops"`
	LaneRange  []int    `yaml:"lane_range"`  // inclusive [min, max]
	DepthRange []int    `yaml:"depth_range"` // inclusive [min, max]
	Gates      []string `yaml:"gates"`

	Shots int   `yaml:"shots"`
	Seed  int64 `yaml:"seed"` // zero picks a time based seed

	HistogramLimit int  `yaml:"histogram_limit"`
	PrintCircuits  bool `yaml:"print_circuits"`
}

// DefaultConfig contains the stock benchmark settings.
var DefaultConfig = Config{
	CircuitCount:   50000,
	OutputDir:      "results",
	MaxOps:         quantum.DefaultMaxOps,
	MinOps:         quantum.DefaultMinOps,
	LaneRange:      []int{8, 20},
	DepthRange:     []int{8, 20},
	Gates:          quantum.CatalogNames(quantum.DefaultCatalog),
	Shots:          1024,
	HistogramLimit: render.DefaultHistogramLimit,
}

// Validate checks the settings for consistency.
func (c *Config) Validate() error {
	switch {
	case c.CircuitCount < 0:
		return fmt.Errorf("%w: negative circuit count %d", ErrInvalidConfig, c.CircuitCount)
	case c.OutputDir == "":
		return fmt.Errorf("%w: empty output directory", ErrInvalidConfig)
	case !validRange(c.LaneRange):
		return fmt.Errorf("%w: lane range %v", ErrInvalidConfig, c.LaneRange)
	case c.LaneRange[1] > quantum.MaxSimulatedQubits:
		return fmt.Errorf("%w: %d lanes exceed the simulator limit of %d", ErrInvalidConfig, c.LaneRange[1], quantum.MaxSimulatedQubits)
	case !validRange(c.DepthRange):
		return fmt.Errorf("%w: depth range %v", ErrInvalidConfig, c.DepthRange)
	case c.MaxOps < 1:
		return fmt.Errorf("%w: max ops %d", ErrInvalidConfig, c.MaxOps)
	case c.MinOps < 0:
		return fmt.Errorf("%w: min ops %d", ErrInvalidConfig, c.MinOps)
	case c.Shots < 1:
		return fmt.Errorf("%w: shots %d", ErrInvalidConfig, c.Shots)
	case c.HistogramLimit < 0:
		return fmt.Errorf("%w: histogram limit %d", ErrInvalidConfig, c.HistogramLimit)
	}
	if _, err := c.Catalog(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// validRange reports whether r is a [min, max] pair with 1 <= min <= max.
func validRange(r []int) bool {
	return len(r) == 2 && r[0] >= 1 && r[1] >= r[0]
}

// Catalog resolves the configured gate names.
func (c *Config) Catalog() ([]quantum.Kind, error) {
	if len(c.Gates) == 0 {
		return nil, quantum.ErrEmptyCatalog
	}
	return quantum.ParseCatalog(c.Gates)
}

// ResultsPath returns the location of the benchmark table.
func (c *Config) ResultsPath() string {
	return filepath.Join(c.OutputDir, ResultsFile)
}

// artifactPaths returns the diagram, histogram and QASM paths of circuit i.
func (c *Config) artifactPaths(i int) (img, hist, qasm string) {
	img = filepath.Join(c.OutputDir, ImageDir, fmt.Sprintf("circuit_%d.png", i))
	hist = filepath.Join(c.OutputDir, HistDir, fmt.Sprintf("hist_%d.png", i))
	qasm = filepath.Join(c.OutputDir, QasmDir, fmt.Sprintf("circuit_%d.qasm", i))
	return img, hist, qasm
}
