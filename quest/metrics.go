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
	"time"

	"github.com/fillay12321/qbench/quest/quantum"
	"github.com/fillay12321/qbench/quest/record"
)

// singleQubitGates are the kinds counted as one-lane gates.
var singleQubitGates = []string{"h", "x", "y", "z", "s", "t", "sdg", "tdg"}

// Metrics are the structural properties recorded for a circuit.
type Metrics struct {
	RealDepth      int
	NumGates       int
	Num1QGates     int
	Num2QGates     int
	NumCX          int
	NumCZ          int
	NumSwap        int
	AvgGateDensity float64
}

// ExtractMetrics measures a finalized circuit. NumGates counts every
// instruction, the barrier and measurements included.
func ExtractMetrics(c *quantum.Circuit) Metrics {
	ops := c.CountOps()
	m := Metrics{
		RealDepth: c.Depth(),
		NumGates:  c.Size(),
		NumCX:     ops["cx"],
		NumCZ:     ops["cz"],
		NumSwap:   ops["swap"],
	}
	for _, name := range singleQubitGates {
		m.Num1QGates += ops[name]
	}
	m.Num2QGates = m.NumCX + m.NumCZ + m.NumSwap
	m.AvgGateDensity = GateDensity(m.NumGates, m.RealDepth)
	return m
}

// GateDensity is the number of instructions per layer, or zero for a circuit
// without depth.
func GateDensity(numGates, depth int) float64 {
	if depth <= 0 {
		return 0
	}
	return float64(numGates) / float64(depth)
}

// Timings are the measured phase durations of one circuit.
type Timings struct {
	Transpile     time.Duration // level 0
	TranspileOpt3 time.Duration // level 3
	Exec          time.Duration
}

// Total is the level 0 compile time plus the execution time.
func (t Timings) Total() time.Duration { return t.Transpile + t.Exec }

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// newRecord assembles the table row of circuit index.
func newRecord(index, depthBound int, c *quantum.Circuit, m Metrics, t Timings) *record.Record {
	return &record.Record{
		Index:           index,
		TranspileMs:     milliseconds(t.Transpile),
		TranspileOpt3Ms: milliseconds(t.TranspileOpt3),
		ExecMs:          milliseconds(t.Exec),
		TotalMs:         milliseconds(t.Total()),
		NumQubits:       c.NumQubits(),
		DepthMaxConfig:  depthBound,
		RealDepth:       m.RealDepth,
		NumGates:        m.NumGates,
		Num1QGates:      m.Num1QGates,
		Num2QGates:      m.Num2QGates,
		NumCX:           m.NumCX,
		NumCZ:           m.NumCZ,
		NumSwap:         m.NumSwap,
		AvgGateDensity:  m.AvgGateDensity,
	}
}
