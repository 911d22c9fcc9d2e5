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

package processor

import (
	"github.com/fillay12321/qbench/quest/quantum"
)

// phase is the rotation angle of the diagonal single-lane gates in units
// of π/4.
var phase = map[string]int{"t": 1, "s": 2, "z": 4, "sdg": 6, "tdg": 7}

// phaseGate maps a folded angle back to a gate. Angles 3π/4 and 5π/4 have no
// single-gate form and are left unfolded.
var phaseGate = map[int]quantum.Kind{
	1: quantum.T,
	2: quantum.S,
	4: quantum.Z,
	6: quantum.Sdg,
	7: quantum.Tdg,
}

// selfInverse gates cancel against an identical neighbour.
var selfInverse = map[string]bool{"h": true, "x": true, "y": true, "z": true, "cx": true, "cz": true, "swap": true}

// symmetric two-lane gates are independent of lane order.
var symmetric = map[string]bool{"cz": true, "swap": true}

// inversePairs lists the non-self-inverse pairs.
var inversePairs = map[[2]string]bool{
	{"s", "sdg"}: true, {"sdg", "s"}: true,
	{"t", "tdg"}: true, {"tdg", "t"}: true,
}

type passResult struct {
	cancelled int
	folded    int
}

func (r passResult) changed() bool { return r.cancelled+r.folded > 0 }

// peephole makes one sweep over the instruction list, rewriting each gate
// against the previous instruction on its lanes. Removals expose the
// instruction before, so nested pairs such as "h x x h" collapse in a
// single sweep. Directives and measurements sit on the lane stacks like any
// other instruction and therefore stop rewriting across them.
func peephole(numQubits int, instrs []quantum.Instruction, fold bool) ([]quantum.Instruction, passResult) {
	var (
		res   passResult
		out   = make([]quantum.Instruction, 0, len(instrs))
		alive = make([]bool, 0, len(instrs))
		lanes = make([][]int, numQubits) // per-lane stack of live indices into out
	)
	for _, in := range instrs {
		if prev, ok := predecessor(lanes, out, in); ok {
			if inverse(out[prev], in) {
				alive[prev] = false
				for _, q := range in.Qubits {
					lanes[q] = lanes[q][:len(lanes[q])-1]
				}
				res.cancelled += 2
				continue
			}
			if fold {
				if kind, removed, ok := foldPhase(out[prev], in); ok {
					if removed {
						alive[prev] = false
						q := in.Qubits[0]
						lanes[q] = lanes[q][:len(lanes[q])-1]
						res.folded += 2
					} else {
						out[prev].Kind = kind
						res.folded++
					}
					continue
				}
			}
		}
		idx := len(out)
		out = append(out, in)
		alive = append(alive, true)
		for _, q := range in.Qubits {
			lanes[q] = append(lanes[q], idx)
		}
	}
	kept := out[:0]
	for i, in := range out {
		if alive[i] {
			kept = append(kept, in)
		}
	}
	return kept, res
}

// predecessor returns the index of the instruction immediately preceding in
// on all of its lanes, provided that instruction is a gate acting on exactly
// the same lanes.
func predecessor(lanes [][]int, out []quantum.Instruction, in quantum.Instruction) (int, bool) {
	if !in.IsGate() || len(in.Qubits) == 0 {
		return 0, false
	}
	stack := lanes[in.Qubits[0]]
	if len(stack) == 0 {
		return 0, false
	}
	prev := stack[len(stack)-1]
	for _, q := range in.Qubits[1:] {
		s := lanes[q]
		if len(s) == 0 || s[len(s)-1] != prev {
			return 0, false
		}
	}
	p := out[prev]
	if !p.IsGate() || len(p.Qubits) != len(in.Qubits) {
		return 0, false
	}
	return prev, true
}

func inverse(a, b quantum.Instruction) bool {
	switch {
	case a.Kind == b.Kind && selfInverse[a.Kind.Name]:
		if symmetric[a.Kind.Name] {
			return sameLaneSet(a.Qubits, b.Qubits)
		}
		return sameLanes(a.Qubits, b.Qubits)
	case inversePairs[[2]string{a.Kind.Name, b.Kind.Name}]:
		return sameLanes(a.Qubits, b.Qubits)
	}
	return false
}

// foldPhase combines two diagonal gates on one lane. It reports the merged
// kind, whether the pair reduced to the identity, and whether folding applies.
func foldPhase(a, b quantum.Instruction) (quantum.Kind, bool, bool) {
	pa, okA := phase[a.Kind.Name]
	pb, okB := phase[b.Kind.Name]
	if !okA || !okB || !sameLanes(a.Qubits, b.Qubits) {
		return quantum.Kind{}, false, false
	}
	sum := (pa + pb) % 8
	if sum == 0 {
		return quantum.Kind{}, true, true
	}
	kind, ok := phaseGate[sum]
	return kind, false, ok
}

func sameLanes(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sameLaneSet(a, b []int) bool {
	if len(a) != 2 || len(b) != 2 {
		return sameLanes(a, b)
	}
	return (a[0] == b[0] && a[1] == b[1]) || (a[0] == b[1] && a[1] == b[0])
}
