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
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEnv(t *testing.T) *QuestEnv {
	t.Helper()
	env, err := NewQuestEnv(10, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	return env
}

func mustAppend(t *testing.T, c *Circuit, k Kind, qubits ...int) {
	t.Helper()
	require.NoError(t, c.Append(k, qubits...))
}

func TestBellStateCounts(t *testing.T) {
	qc := NewCircuit(2)
	mustAppend(t, qc, H, 0)
	mustAppend(t, qc, CX, 0, 1)
	qc.MeasureAll()

	counts, err := newTestEnv(t).Run(qc, 2000)
	require.NoError(t, err)
	assert.Equal(t, 2000, counts.Shots())
	assert.Len(t, counts, 2)
	assert.InDelta(t, 1000, counts["00"], 150)
	assert.InDelta(t, 1000, counts["11"], 150)
}

func TestClassicalBitOrder(t *testing.T) {
	qc := NewCircuit(3)
	mustAppend(t, qc, X, 0)
	qc.MeasureAll()

	counts, err := newTestEnv(t).Run(qc, 10)
	require.NoError(t, err)
	assert.Equal(t, Counts{"001": 10}, counts)
}

func TestDeterministicTwoLaneGates(t *testing.T) {
	tests := []struct {
		name  string
		build func(c *Circuit)
		want  string
	}{
		{"swap", func(c *Circuit) { c.Append(X, 0); c.Append(Swap, 0, 1) }, "10"},
		{"cx", func(c *Circuit) { c.Append(X, 1); c.Append(CX, 1, 0) }, "11"},
		{"cz phase only", func(c *Circuit) { c.Append(X, 0); c.Append(X, 1); c.Append(CZ, 0, 1) }, "11"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qc := NewCircuit(2)
			tt.build(qc)
			qc.MeasureAll()
			counts, err := newTestEnv(t).Run(qc, 64)
			require.NoError(t, err)
			assert.Equal(t, Counts{tt.want: 64}, counts)
		})
	}
}

func TestPhaseGatesComposeToZ(t *testing.T) {
	// H S S H == H Z H == X
	qc := NewCircuit(1)
	mustAppend(t, qc, H, 0)
	mustAppend(t, qc, S, 0)
	mustAppend(t, qc, T, 0)
	mustAppend(t, qc, T, 0)
	mustAppend(t, qc, H, 0)
	qc.MeasureAll()

	counts, err := newTestEnv(t).Run(qc, 32)
	require.NoError(t, err)
	assert.Equal(t, Counts{"1": 32}, counts)
}

func TestUniformSuperpositionProbabilities(t *testing.T) {
	env := newTestEnv(t)
	qc := NewCircuit(4)
	for q := 0; q < 4; q++ {
		mustAppend(t, qc, H, q)
	}
	qc.MeasureAll()
	_, err := env.Run(qc, 1)
	require.NoError(t, err)

	probs := env.Probabilities()
	require.Len(t, probs, 16)
	sum := 0.0
	for _, p := range probs {
		assert.InDelta(t, 1.0/16, p, 1e-12)
		sum += p
	}
	assert.InDelta(t, 1, sum, 1e-12)
}

func TestRunRejectsGateAfterMeasurement(t *testing.T) {
	qc := NewCircuit(2)
	qc.MeasureAll()
	mustAppend(t, qc, X, 1)

	_, err := newTestEnv(t).Run(qc, 8)
	assert.ErrorIs(t, err, ErrMidCircuitMeasurement)
}

func TestRunRejectsUnsupportedGate(t *testing.T) {
	iswap := Kind{Name: "iswap", Qubits: 2}
	qc := NewCircuit(2)
	mustAppend(t, qc, iswap, 0, 1)
	qc.MeasureAll()

	env := newTestEnv(t)
	assert.False(t, env.Supports(qc))
	_, err := env.Run(qc, 8)
	assert.ErrorIs(t, err, ErrUnsupportedGate)
}

func TestRunLimits(t *testing.T) {
	_, err := NewQuestEnv(MaxSimulatedQubits+1, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrTooManyQubits)

	env := newTestEnv(t)
	_, err = env.Run(NewCircuit(11), 1)
	assert.ErrorIs(t, err, ErrTooManyQubits)
	_, err = env.Run(NewCircuit(1), 0)
	assert.ErrorIs(t, err, ErrInvalidShots)
}

func TestSamplingIsSeeded(t *testing.T) {
	qc := NewCircuit(3)
	for q := 0; q < 3; q++ {
		mustAppend(t, qc, H, q)
	}
	qc.MeasureAll()

	a, err := newTestEnv(t).Run(qc, 500)
	require.NoError(t, err)
	b, err := newTestEnv(t).Run(qc, 500)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCountsTop(t *testing.T) {
	c := Counts{"00": 5, "01": 9, "10": 5, "11": 1}
	assert.Equal(t, []Outcome{{"01", 9}, {"00", 5}, {"10", 5}}, c.Top(3))
	assert.Len(t, c.Top(0), 4)
	assert.Equal(t, "01: 9\n00: 5\n10: 5\n11: 1\n", FormatCounts(c))
}

func TestSingleQubitMatricesAreUnitary(t *testing.T) {
	for name, m := range singleQubitGates {
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				var dot complex128
				for k := 0; k < 2; k++ {
					dot += m[k][i] * complexConj(m[k][j])
				}
				want := 0.0
				if i == j {
					want = 1
				}
				assert.InDelta(t, want, real(dot), 1e-12, name)
				assert.InDelta(t, 0, math.Abs(imag(dot)), 1e-12, name)
			}
		}
	}
}

func complexConj(c complex128) complex128 { return complex(real(c), -imag(c)) }
