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
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"
	"sort"
	"strings"
	"sync"
)

// MaxSimulatedQubits bounds the state vector at 2^25 amplitudes (512 MiB).
const MaxSimulatedQubits = 25

var (
	// ErrTooManyQubits is returned for circuits wider than the simulator allows.
	ErrTooManyQubits = errors.New("circuit exceeds simulator qubit limit")

	// ErrUnsupportedGate is returned for kinds the simulator has no matrix for.
	ErrUnsupportedGate = errors.New("unsupported gate")

	// ErrMidCircuitMeasurement is returned when a measured lane is used again.
	ErrMidCircuitMeasurement = errors.New("gate after measurement")

	// ErrInvalidShots is returned for a non-positive shot count.
	ErrInvalidShots = errors.New("shots must be positive")
)

var (
	invSqrt2 = 1 / math.Sqrt2

	singleQubitGates = map[string][2][2]complex128{
		"h":   {{complex(invSqrt2, 0), complex(invSqrt2, 0)}, {complex(invSqrt2, 0), complex(-invSqrt2, 0)}},
		"x":   {{0, 1}, {1, 0}},
		"y":   {{0, -1i}, {1i, 0}},
		"z":   {{1, 0}, {0, -1}},
		"s":   {{1, 0}, {0, 1i}},
		"sdg": {{1, 0}, {0, -1i}},
		"t":   {{1, 0}, {0, cmplx.Rect(1, math.Pi/4)}},
		"tdg": {{1, 0}, {0, cmplx.Rect(1, -math.Pi/4)}},
	}
)

// Counts maps measured classical bit strings (bit 0 rightmost) to the
// number of shots that produced them.
type Counts map[string]int

// Shots returns the total number of shots recorded.
func (c Counts) Shots() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// Outcome is a single histogram bucket.
type Outcome struct {
	Bits  string
	Count int
}

// Top returns up to limit outcomes ordered by descending count, ties broken
// by bit string. A non-positive limit returns every outcome.
func (c Counts) Top(limit int) []Outcome {
	out := make([]Outcome, 0, len(c))
	for bits, n := range c {
		out = append(out, Outcome{Bits: bits, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Bits < out[j].Bits
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// QuestEnv is a state-vector simulator. The amplitude buffer is reused
// between runs and grows to the widest circuit seen.
type QuestEnv struct {
	maxQubits int
	numQubits int
	state     []complex128

	mutex  sync.Mutex
	random *rand.Rand
}

// NewQuestEnv creates a simulator accepting circuits up to maxQubits lanes.
// Measurement sampling draws from random.
func NewQuestEnv(maxQubits int, random *rand.Rand) (*QuestEnv, error) {
	if maxQubits <= 0 {
		return nil, fmt.Errorf("qubit limit must be positive, got %d", maxQubits)
	}
	if maxQubits > MaxSimulatedQubits {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyQubits, maxQubits, MaxSimulatedQubits)
	}
	return &QuestEnv{maxQubits: maxQubits, random: random}, nil
}

// MaxQubits returns the widest circuit the env accepts.
func (q *QuestEnv) MaxQubits() int { return q.maxQubits }

// reset prepares |0...0⟩ over n lanes.
func (q *QuestEnv) reset(n int) {
	size := 1 << n
	if cap(q.state) < size {
		q.state = make([]complex128, size)
	}
	q.state = q.state[:size]
	for i := range q.state {
		q.state[i] = 0
	}
	q.state[0] = 1
	q.numQubits = n
}

// applySingle applies a 2x2 unitary to lane target.
func (q *QuestEnv) applySingle(target int, m [2][2]complex128) {
	bit := 1 << target
	for i := range q.state {
		if i&bit != 0 {
			continue
		}
		j := i | bit
		a0, a1 := q.state[i], q.state[j]
		q.state[i] = m[0][0]*a0 + m[0][1]*a1
		q.state[j] = m[1][0]*a0 + m[1][1]*a1
	}
}

// applyCNOT flips target on every basis state where control is set.
func (q *QuestEnv) applyCNOT(control, target int) {
	cbit, tbit := 1<<control, 1<<target
	for i := range q.state {
		if i&cbit != 0 && i&tbit == 0 {
			j := i | tbit
			q.state[i], q.state[j] = q.state[j], q.state[i]
		}
	}
}

// applyCZ negates every basis state where both lanes are set.
func (q *QuestEnv) applyCZ(a, b int) {
	mask := 1<<a | 1<<b
	for i := range q.state {
		if i&mask == mask {
			q.state[i] = -q.state[i]
		}
	}
}

// applySwap exchanges the amplitudes of basis states differing in lanes a and b.
func (q *QuestEnv) applySwap(a, b int) {
	abit, bbit := 1<<a, 1<<b
	for i := range q.state {
		if i&abit != 0 && i&bbit == 0 {
			j := i ^ abit ^ bbit
			q.state[i], q.state[j] = q.state[j], q.state[i]
		}
	}
}

// apply executes one unitary instruction on the current state.
func (q *QuestEnv) apply(in Instruction) error {
	if m, ok := singleQubitGates[in.Kind.Name]; ok && len(in.Qubits) == 1 {
		q.applySingle(in.Qubits[0], m)
		return nil
	}
	if len(in.Qubits) != 2 {
		return fmt.Errorf("%w: %s", ErrUnsupportedGate, in.Kind.Name)
	}
	a, b := in.Qubits[0], in.Qubits[1]
	switch in.Kind.Name {
	case "cx":
		q.applyCNOT(a, b)
	case "cz":
		q.applyCZ(a, b)
	case "swap":
		q.applySwap(a, b)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedGate, in.Kind.Name)
	}
	return nil
}

// Supports reports whether every instruction of c can be simulated.
func (q *QuestEnv) Supports(c *Circuit) bool {
	for _, in := range c.Instructions() {
		if in.Kind.Directive || in.Kind == Measure {
			continue
		}
		if _, ok := singleQubitGates[in.Kind.Name]; ok {
			continue
		}
		switch in.Kind.Name {
		case "cx", "cz", "swap":
			continue
		}
		return false
	}
	return true
}

// Run simulates c from |0...0⟩ and samples shots measurement outcomes.
// Measurements must be terminal on their lane.
func (q *QuestEnv) Run(c *Circuit, shots int) (Counts, error) {
	if shots <= 0 {
		return nil, ErrInvalidShots
	}
	n := c.NumQubits()
	if n > q.maxQubits {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyQubits, n, q.maxQubits)
	}
	q.mutex.Lock()
	defer q.mutex.Unlock()

	q.reset(n)
	measured := make(map[int]int) // lane -> clbit
	for _, in := range c.Instructions() {
		switch {
		case in.Kind.Directive:
			continue
		case in.Kind == Measure:
			measured[in.Qubits[0]] = in.Clbits[0]
			continue
		}
		for _, lane := range in.Qubits {
			if _, ok := measured[lane]; ok {
				return nil, fmt.Errorf("%w: %s on lane %d", ErrMidCircuitMeasurement, in.Kind.Name, lane)
			}
		}
		if err := q.apply(in); err != nil {
			return nil, err
		}
	}
	return q.sample(shots, measured, c.NumClbits()), nil
}

// Probabilities returns |amplitude|^2 of every basis state of the last run.
func (q *QuestEnv) Probabilities() []float64 {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	probs := make([]float64, len(q.state))
	for i, a := range q.state {
		probs[i] = real(a)*real(a) + imag(a)*imag(a)
	}
	return probs
}

// sample draws shots basis states from the current distribution and folds
// them into classical bit strings.
func (q *QuestEnv) sample(shots int, measured map[int]int, numClbits int) Counts {
	cumulative := make([]float64, len(q.state))
	total := 0.0
	for i, a := range q.state {
		total += real(a)*real(a) + imag(a)*imag(a)
		cumulative[i] = total
	}
	counts := make(Counts)
	if numClbits == 0 {
		return counts
	}
	bits := make([]byte, numClbits)
	for s := 0; s < shots; s++ {
		r := q.random.Float64() * total
		idx := sort.Search(len(cumulative), func(i int) bool { return cumulative[i] > r })
		if idx == len(cumulative) {
			idx--
		}
		for i := range bits {
			bits[i] = '0'
		}
		for lane, clbit := range measured {
			if idx>>lane&1 == 1 {
				bits[numClbits-1-clbit] = '1'
			}
		}
		counts[string(bits)]++
	}
	return counts
}

// FormatCounts renders counts in descending order, one outcome per line.
func FormatCounts(c Counts) string {
	var b strings.Builder
	for _, o := range c.Top(0) {
		fmt.Fprintf(&b, "%s: %d\n", o.Bits, o.Count)
	}
	return b.String()
}
