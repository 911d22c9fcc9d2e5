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

package quantum

import (
	"errors"
	"math/rand"
)

const (
	// DefaultMaxOps is the hard cap on inserted operations.
	DefaultMaxOps = 2000

	// DefaultMinOps is the number of operations required before the depth
	// target may stop generation.
	DefaultMinOps = 10
)

var (
	ErrInvalidWidth         = errors.New("circuit width must be at least 1")
	ErrInvalidDepth         = errors.New("target depth must be at least 1")
	ErrInvalidMaxOps        = errors.New("max ops must be at least 1")
	ErrEmptyCatalog         = errors.New("gate catalog is empty")
	ErrUnsatisfiableCatalog = errors.New("no gate in the catalog fits the circuit width")
)

// GeneratorOptions bounds the size of a generated circuit.
type GeneratorOptions struct {
	MaxOps int
	MinOps int
}

// DefaultGeneratorOptions returns the stock operation bounds.
func DefaultGeneratorOptions() GeneratorOptions {
	return GeneratorOptions{MaxOps: DefaultMaxOps, MinOps: DefaultMinOps}
}

// Generated is the output of GenerateRandomCircuit.
type Generated struct {
	Circuit *Circuit

	// Ops is the number of gates inserted before finalization.
	Ops int

	// Depths holds the generator's per-lane depth counters when the loop
	// stopped. The terminal measurement layer is not included.
	Depths []int
}

// MaxDepth returns the deepest lane counter.
func (g *Generated) MaxDepth() int { return maxOf(g.Depths) }

// GenerateRandomCircuit builds a random circuit over width lanes, drawing
// gate kinds uniformly from catalog until either opts.MaxOps gates have been
// placed or the deepest lane reaches depth after at least opts.MinOps gates.
// The circuit is finalized with a measurement of every lane.
//
// Kinds whose arity cannot be satisfied at this width are redrawn without
// counting as an operation.
func GenerateRandomCircuit(rng *rand.Rand, width, depth int, catalog []Kind, opts GeneratorOptions) (*Generated, error) {
	switch {
	case width < 1:
		return nil, ErrInvalidWidth
	case depth < 1:
		return nil, ErrInvalidDepth
	case opts.MaxOps < 1:
		return nil, ErrInvalidMaxOps
	case len(catalog) == 0:
		return nil, ErrEmptyCatalog
	}
	satisfiable := false
	for _, k := range catalog {
		if k.Qubits >= 1 && k.Qubits <= 2 && k.Qubits <= width {
			satisfiable = true
			break
		}
	}
	if !satisfiable {
		return nil, ErrUnsatisfiableCatalog
	}

	qc := NewCircuit(width)
	depths := make([]int, width)
	ops := 0

	for ops < opts.MaxOps {
		kind := catalog[rng.Intn(len(catalog))]

		switch {
		case kind.Qubits == 1:
			q := rng.Intn(width)
			qc.push(Instruction{Kind: kind, Qubits: []int{q}})
			depths[q]++

		case kind.Qubits == 2 && width >= 2:
			q0 := rng.Intn(width)
			q1 := rng.Intn(width - 1)
			if q1 >= q0 {
				q1++
			}
			qc.push(Instruction{Kind: kind, Qubits: []int{q0, q1}})
			d := depths[q0]
			if depths[q1] > d {
				d = depths[q1]
			}
			depths[q0], depths[q1] = d+1, d+1

		default:
			continue
		}
		ops++

		if maxOf(depths) >= depth && ops >= opts.MinOps {
			break
		}
	}
	qc.MeasureAll()

	return &Generated{Circuit: qc, Ops: ops, Depths: depths}, nil
}

func maxOf(xs []int) int {
	m := 0
	for _, x := range xs {
		if x > m {
			m = x
		}
	}
	return m
}
