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

// Package processor compiles circuits for the state-vector backend.
package processor

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/log"
	"github.com/fillay12321/qbench/quest/quantum"
)

var (
	// ErrInvalidLevel is returned for optimization levels outside 0..3.
	ErrInvalidLevel = errors.New("invalid optimization level")

	// ErrNotInBasis is returned when a circuit uses a gate the backend
	// cannot execute.
	ErrNotInBasis = errors.New("gate not in backend basis")
)

const (
	// MaxLevel is the highest supported optimization level.
	MaxLevel = 3

	// maxIterations bounds the level 3 fixed-point loop. Every productive
	// iteration shrinks the circuit, so the bound is never reached in practice.
	maxIterations = 64
)

// DefaultBasis lists the gates the simulator executes natively.
var DefaultBasis = []string{"h", "x", "y", "z", "s", "sdg", "t", "tdg", "cx", "cz", "swap"}

// Stats describes what a transpilation did.
type Stats struct {
	Level      int
	Iterations int // optimization passes run
	Cancelled  int // gates removed by inverse cancellation
	Folded     int // gates removed by phase folding
	SizeBefore int
	SizeAfter  int
}

// Transpiler rewrites circuits into an equivalent form the backend accepts.
type Transpiler struct {
	basis map[string]bool
}

// NewTranspiler creates a transpiler targeting the given basis gates.
func NewTranspiler(basis []string) *Transpiler {
	t := &Transpiler{basis: make(map[string]bool, len(basis))}
	for _, name := range basis {
		t.basis[name] = true
	}
	return t
}

var defaultTranspiler = NewTranspiler(DefaultBasis)

// Transpile compiles c for the default basis.
func Transpile(c *quantum.Circuit, level int) (*quantum.Circuit, Stats, error) {
	return defaultTranspiler.Transpile(c, level)
}

// Transpile compiles c at the given optimization level. The input circuit is
// never modified.
//
//	0: validate against the basis and copy
//	1: + adjacent inverse cancellation
//	2: + diagonal phase folding
//	3: level 2 passes repeated until nothing changes
func (t *Transpiler) Transpile(c *quantum.Circuit, level int) (*quantum.Circuit, Stats, error) {
	stats := Stats{Level: level, SizeBefore: c.Size()}
	if level < 0 || level > MaxLevel {
		return nil, stats, fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}
	if err := t.validate(c); err != nil {
		return nil, stats, err
	}
	instrs := copyInstructions(c.Instructions())

	if level >= 1 {
		fold := level >= 2
		rounds := 1
		if level == MaxLevel {
			rounds = maxIterations
		}
		for i := 0; i < rounds; i++ {
			var res passResult
			instrs, res = peephole(c.NumQubits(), instrs, fold)
			stats.Iterations++
			stats.Cancelled += res.cancelled
			stats.Folded += res.folded
			if !res.changed() {
				break
			}
		}
	}
	out := c.Rebuild(instrs)
	stats.SizeAfter = out.Size()

	log.Trace("Transpiled circuit", "level", level, "passes", stats.Iterations,
		"before", stats.SizeBefore, "after", stats.SizeAfter)
	return out, stats, nil
}

func (t *Transpiler) validate(c *quantum.Circuit) error {
	for i, in := range c.Instructions() {
		if !in.IsGate() {
			continue
		}
		if !t.basis[in.Kind.Name] {
			return fmt.Errorf("%w: %s at instruction %d", ErrNotInBasis, in.Kind.Name, i)
		}
	}
	return nil
}

func copyInstructions(instrs []quantum.Instruction) []quantum.Instruction {
	out := make([]quantum.Instruction, len(instrs))
	for i, in := range instrs {
		out[i] = quantum.Instruction{
			Kind:   in.Kind,
			Qubits: append([]int(nil), in.Qubits...),
			Clbits: append([]int(nil), in.Clbits...),
		}
	}
	return out
}
