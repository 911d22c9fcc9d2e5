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

package analysis

import (
	"errors"
	"fmt"
)

// Config holds the settings of the offline analysis commands.
type Config struct {
	Input string // benchmark table

	PlotDir    string // descriptive plots
	FactorsDir string // transpile factor plot
	ModelDir   string // regression importance plots

	Seed         int64
	TestFraction float64
}

// DefaultConfig contains the stock analysis settings.
var DefaultConfig = Config{
	Input:        "results/benchmark_results.csv",
	PlotDir:      "graphs",
	FactorsDir:   "graphs_transpile",
	ModelDir:     "graphs_model",
	Seed:         42,
	TestFraction: 0.2,
}

// Validate checks the settings for consistency.
func (c *Config) Validate() error {
	if c.Input == "" {
		return errors.New("no input table")
	}
	if c.TestFraction <= 0 || c.TestFraction >= 1 {
		return fmt.Errorf("test fraction %v outside (0, 1)", c.TestFraction)
	}
	return nil
}
