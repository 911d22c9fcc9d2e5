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
)

var (
	// ErrQubitOutOfRange is returned when an instruction references a lane
	// outside the circuit.
	ErrQubitOutOfRange = errors.New("qubit index out of range")

	// ErrArityMismatch is returned when the number of lanes does not match
	// the operation kind.
	ErrArityMismatch = errors.New("operation arity mismatch")

	// ErrDuplicateQubit is returned when an instruction names the same lane twice.
	ErrDuplicateQubit = errors.New("duplicate qubit in instruction")
)

// Circuit is an ordered list of instructions over a fixed set of lanes.
//
// Every Append keeps a per-lane depth counter up to date: the touched lanes
// are all moved to one past the deepest of them. Directives leave the
// counters alone.
type Circuit struct {
	numQubits int
	numClbits int
	instrs    []Instruction
	depths    []int
}

// NewCircuit creates an empty circuit over numQubits lanes.
func NewCircuit(numQubits int) *Circuit {
	return &Circuit{
		numQubits: numQubits,
		depths:    make([]int, numQubits),
	}
}

// NumQubits returns the lane count.
func (c *Circuit) NumQubits() int { return c.numQubits }

// NumClbits returns the number of classical bits.
func (c *Circuit) NumClbits() int { return c.numClbits }

// Instructions returns the instruction list. The slice must not be modified.
func (c *Circuit) Instructions() []Instruction { return c.instrs }

// Size returns the total number of instructions, directives and
// measurements included.
func (c *Circuit) Size() int { return len(c.instrs) }

// GateCount returns the number of unitary gates.
func (c *Circuit) GateCount() int {
	n := 0
	for _, in := range c.instrs {
		if in.IsGate() {
			n++
		}
	}
	return n
}

// LaneDepths returns a copy of the per-lane depth counters.
func (c *Circuit) LaneDepths() []int {
	return append([]int(nil), c.depths...)
}

// Depth returns the critical-path length of the circuit. Directives are not
// counted.
func (c *Circuit) Depth() int {
	depth := 0
	for _, d := range c.depths {
		if d > depth {
			depth = d
		}
	}
	return depth
}

// CountOps returns the number of instructions per kind name.
func (c *Circuit) CountOps() map[string]int {
	counts := make(map[string]int)
	for _, in := range c.instrs {
		counts[in.Kind.Name]++
	}
	return counts
}

func (c *Circuit) checkQubits(qubits []int) error {
	for i, q := range qubits {
		if q < 0 || q >= c.numQubits {
			return fmt.Errorf("%w: %d (circuit has %d)", ErrQubitOutOfRange, q, c.numQubits)
		}
		for _, p := range qubits[:i] {
			if p == q {
				return fmt.Errorf("%w: %d", ErrDuplicateQubit, q)
			}
		}
	}
	return nil
}

// Append places an operation of the given kind on the given lanes.
func (c *Circuit) Append(kind Kind, qubits ...int) error {
	if kind == Measure {
		return errors.New("measurements must be added with AppendMeasure")
	}
	if !kind.Directive && len(qubits) != kind.Qubits {
		return fmt.Errorf("%w: %s takes %d qubits, got %d", ErrArityMismatch, kind.Name, kind.Qubits, len(qubits))
	}
	if err := c.checkQubits(qubits); err != nil {
		return err
	}
	c.push(Instruction{Kind: kind, Qubits: append([]int(nil), qubits...)})
	return nil
}

// AppendMeasure measures lane q into classical bit clbit.
func (c *Circuit) AppendMeasure(q, clbit int) error {
	if err := c.checkQubits([]int{q}); err != nil {
		return err
	}
	if clbit < 0 || clbit >= c.numClbits {
		return fmt.Errorf("classical bit %d out of range (circuit has %d)", clbit, c.numClbits)
	}
	c.push(Instruction{Kind: Measure, Qubits: []int{q}, Clbits: []int{clbit}})
	return nil
}

// push appends an already validated instruction and advances the depth counters.
func (c *Circuit) push(in Instruction) {
	c.instrs = append(c.instrs, in)
	if in.Kind.Directive {
		return
	}
	next := 0
	for _, q := range in.Qubits {
		if c.depths[q] > next {
			next = c.depths[q]
		}
	}
	next++
	for _, q := range in.Qubits {
		c.depths[q] = next
	}
}

// MeasureAll adds one classical bit per lane, a barrier over every lane and a
// terminal measurement of lane i into the new bit i.
func (c *Circuit) MeasureAll() {
	base := c.numClbits
	c.numClbits += c.numQubits

	all := make([]int, c.numQubits)
	for i := range all {
		all[i] = i
	}
	c.push(Instruction{Kind: Barrier, Qubits: all})
	for q := 0; q < c.numQubits; q++ {
		c.push(Instruction{Kind: Measure, Qubits: []int{q}, Clbits: []int{base + q}})
	}
}

// Layers assigns every instruction to the earliest column it can occupy.
// Directives occupy a column on all their lanes so that they render as a
// separator. It returns the column per instruction and the column count.
func (c *Circuit) Layers() ([]int, int) {
	next := make([]int, c.numQubits)
	layers := make([]int, len(c.instrs))
	width := 0
	for i, in := range c.instrs {
		lo, hi := span(in.Qubits)
		col := 0
		// Two-lane gates draw a connector across the lanes in between, so
		// those lanes are occupied too.
		for q := lo; q <= hi && q >= 0; q++ {
			if next[q] > col {
				col = next[q]
			}
		}
		for q := lo; q <= hi && q >= 0; q++ {
			next[q] = col + 1
		}
		layers[i] = col
		if col+1 > width {
			width = col + 1
		}
	}
	return layers, width
}

// span returns the lowest and highest lane of an instruction, or -1, -1
// when it touches no lane.
func span(qubits []int) (int, int) {
	if len(qubits) == 0 {
		return -1, -1
	}
	lo, hi := qubits[0], qubits[0]
	for _, q := range qubits[1:] {
		if q < lo {
			lo = q
		}
		if q > hi {
			hi = q
		}
	}
	return lo, hi
}

// Copy returns a deep copy of the circuit.
func (c *Circuit) Copy() *Circuit {
	cp := &Circuit{
		numQubits: c.numQubits,
		numClbits: c.numClbits,
		instrs:    make([]Instruction, len(c.instrs)),
		depths:    append([]int(nil), c.depths...),
	}
	for i, in := range c.instrs {
		cp.instrs[i] = Instruction{
			Kind:   in.Kind,
			Qubits: append([]int(nil), in.Qubits...),
			Clbits: append([]int(nil), in.Clbits...),
		}
	}
	return cp
}

// Rebuild creates a circuit with the same lanes and classical bits as c from
// the given instruction list, recomputing the depth counters.
func (c *Circuit) Rebuild(instrs []Instruction) *Circuit {
	out := &Circuit{
		numQubits: c.numQubits,
		numClbits: c.numClbits,
		depths:    make([]int, c.numQubits),
	}
	for _, in := range instrs {
		out.push(in)
	}
	return out
}
