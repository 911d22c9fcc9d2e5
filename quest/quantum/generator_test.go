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
	"math/rand"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRespectsMaxOps(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		width := 2 + rng.Intn(12)
		depth := 1 + rng.Intn(60)
		opts := GeneratorOptions{MaxOps: 1 + rng.Intn(300), MinOps: rng.Intn(20)}

		g, err := GenerateRandomCircuit(rng, width, depth, DefaultCatalog, opts)
		require.NoError(t, err)
		assert.LessOrEqual(t, g.Ops, opts.MaxOps)
		assert.Equal(t, g.Ops, g.Circuit.GateCount())
		if g.Ops < opts.MaxOps {
			// Stopped early, so the depth target must have been met.
			assert.GreaterOrEqual(t, g.MaxDepth(), depth)
			assert.GreaterOrEqual(t, g.Ops, opts.MinOps)
		}
	}
}

func TestGenerateSingleLane(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	opts := GeneratorOptions{MaxOps: 50, MinOps: 10}

	// The depth target is unreachable within the cap, so only MaxOps stops it.
	g, err := GenerateRandomCircuit(rng, 1, 1000, DefaultCatalog, opts)
	require.NoError(t, err)
	assert.Equal(t, 50, g.Ops)
	assert.Equal(t, []int{50}, g.Depths)
	for _, in := range g.Circuit.Instructions() {
		if in.IsGate() {
			assert.Equal(t, 1, in.Kind.Qubits, "two-lane gate placed on a single lane")
		}
	}
}

func TestGenerateTwoLaneOnlyCatalogOnOneLane(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	_, err := GenerateRandomCircuit(rng, 1, 5, []Kind{CX, CZ}, DefaultGeneratorOptions())
	assert.ErrorIs(t, err, ErrUnsatisfiableCatalog)
}

func TestGenerateInvalidInput(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	opts := DefaultGeneratorOptions()

	_, err := GenerateRandomCircuit(rng, 0, 5, DefaultCatalog, opts)
	assert.ErrorIs(t, err, ErrInvalidWidth)
	_, err = GenerateRandomCircuit(rng, 3, 0, DefaultCatalog, opts)
	assert.ErrorIs(t, err, ErrInvalidDepth)
	_, err = GenerateRandomCircuit(rng, 3, 5, nil, opts)
	assert.ErrorIs(t, err, ErrEmptyCatalog)
	_, err = GenerateRandomCircuit(rng, 3, 5, DefaultCatalog, GeneratorOptions{})
	assert.ErrorIs(t, err, ErrInvalidMaxOps)
}

func TestGenerateFinalizesWithMeasurements(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	g, err := GenerateRandomCircuit(rng, 5, 8, DefaultCatalog, DefaultGeneratorOptions())
	require.NoError(t, err)

	qc := g.Circuit
	instrs := qc.Instructions()
	require.Equal(t, 5, qc.NumClbits())
	require.Equal(t, g.Ops+1+5, qc.Size())

	assert.Equal(t, Barrier, instrs[g.Ops].Kind)
	for q := 0; q < 5; q++ {
		in := instrs[g.Ops+1+q]
		assert.Equal(t, Measure, in.Kind)
		assert.Equal(t, []int{q}, in.Qubits)
		assert.Equal(t, []int{q}, in.Clbits)
	}
	// The measurement layer adds exactly one to the critical path.
	assert.Equal(t, g.MaxDepth()+1, qc.Depth())
}

func TestGenerateDepthNeverDecreases(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	g, err := GenerateRandomCircuit(rng, 6, 40, DefaultCatalog, DefaultGeneratorOptions())
	require.NoError(t, err)

	replay := NewCircuit(6)
	prev := replay.LaneDepths()
	for _, in := range g.Circuit.Instructions() {
		if !in.IsGate() {
			continue
		}
		require.NoError(t, replay.Append(in.Kind, in.Qubits...))
		cur := replay.LaneDepths()
		for q := range cur {
			assert.GreaterOrEqual(t, cur[q], prev[q], "lane %d went backwards", q)
		}
		prev = cur
	}
	assert.Equal(t, g.Depths, prev)
}

func TestGenerateDeterministicForSeed(t *testing.T) {
	a, err := GenerateRandomCircuit(rand.New(rand.NewSource(99)), 8, 12, DefaultCatalog, DefaultGeneratorOptions())
	require.NoError(t, err)
	b, err := GenerateRandomCircuit(rand.New(rand.NewSource(99)), 8, 12, DefaultCatalog, DefaultGeneratorOptions())
	require.NoError(t, err)
	assert.Equal(t, a.Circuit.Instructions(), b.Circuit.Instructions())
}

func TestGenerateFuzzedParameters(t *testing.T) {
	var params struct {
		Width, Depth, MaxOps, MinOps uint8
		Seed                         int64
	}
	f := fuzz.NewWithSeed(42).NilChance(0)
	for i := 0; i < 100; i++ {
		f.Fuzz(&params)
		width := 1 + int(params.Width)%10
		depth := 1 + int(params.Depth)
		opts := GeneratorOptions{MaxOps: 1 + int(params.MaxOps), MinOps: int(params.MinOps) % 32}

		g, err := GenerateRandomCircuit(rand.New(rand.NewSource(params.Seed)), width, depth, DefaultCatalog, opts)
		require.NoError(t, err)
		assert.LessOrEqual(t, g.Ops, opts.MaxOps)
		assert.Equal(t, width, g.Circuit.NumClbits())
	}
}
