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
	"fmt"
	"math/rand"

	"github.com/ethereum/go-ethereum/log"
	"github.com/fillay12321/qbench/quest/processor"
	"github.com/fillay12321/qbench/quest/quantum"
)

// Compiler compiles a circuit at an optimization level.
type Compiler interface {
	Compile(c *quantum.Circuit, level int) (*quantum.Circuit, error)
}

// Executor runs a compiled circuit and returns the measured counts.
type Executor interface {
	Execute(c *quantum.Circuit, shots int) (quantum.Counts, error)
}

// Backend pairs the transpiler with the state-vector simulator.
type Backend struct {
	transpiler *processor.Transpiler
	env        *quantum.QuestEnv
}

var (
	_ Compiler = (*Backend)(nil)
	_ Executor = (*Backend)(nil)
)

// NewBackend creates a backend simulating up to maxQubits lanes. Sampling
// draws from random.
func NewBackend(maxQubits int, random *rand.Rand) (*Backend, error) {
	env, err := quantum.NewQuestEnv(maxQubits, random)
	if err != nil {
		return nil, err
	}
	return &Backend{
		transpiler: processor.NewTranspiler(processor.DefaultBasis),
		env:        env,
	}, nil
}

// Compile implements Compiler.
func (b *Backend) Compile(c *quantum.Circuit, level int) (*quantum.Circuit, error) {
	out, _, err := b.transpiler.Transpile(c, level)
	return out, err
}

// Execute implements Executor.
func (b *Backend) Execute(c *quantum.Circuit, shots int) (quantum.Counts, error) {
	if !b.env.Supports(c) {
		return nil, fmt.Errorf("%w: circuit has gates outside the simulator set", quantum.ErrUnsupportedGate)
	}
	return b.env.Run(c, shots)
}

// MaxQubits returns the widest circuit the backend simulates.
func (b *Backend) MaxQubits() int { return b.env.MaxQubits() }

// WarmUp compiles and runs a small Bell-style circuit so that first-use
// costs do not land on the first benchmarked circuit.
func (b *Backend) WarmUp(shots int) error {
	log.Info("Warming up backend")
	qc := quantum.NewCircuit(3)
	if err := qc.Append(quantum.H, 0); err != nil {
		return err
	}
	if err := qc.Append(quantum.CX, 0, 1); err != nil {
		return err
	}
	qc.MeasureAll()

	compiled, err := b.Compile(qc, processor.MaxLevel)
	if err != nil {
		return fmt.Errorf("warm up: %w", err)
	}
	if _, err := b.Execute(compiled, shots); err != nil {
		return fmt.Errorf("warm up: %w", err)
	}
	log.Info("Backend warmed up")
	return nil
}
