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
	"fmt"
	"strings"
	"unicode/utf8"
)

const cellWidth = 5

// DrawText renders the circuit as a text diagram, one row per lane and one
// cell per layer.
func (c *Circuit) DrawText() string {
	layers, width := c.Layers()
	grid := make([][]string, c.numQubits)
	for q := range grid {
		grid[q] = make([]string, width)
	}
	for i, in := range c.instrs {
		col := layers[i]
		lo, hi := span(in.Qubits)
		for q := lo; q <= hi && q >= 0; q++ {
			grid[q][col] = "┼"
		}
		for j, q := range in.Qubits {
			grid[q][col] = symbol(in, j)
		}
	}

	label := fmt.Sprintf("q%d: ", c.numQubits-1)
	var b strings.Builder
	for q := 0; q < c.numQubits; q++ {
		fmt.Fprintf(&b, "%*s", len(label), fmt.Sprintf("q%d: ", q))
		for _, cell := range grid[q] {
			b.WriteString(pad(cell))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// symbol returns the glyph drawn on the j-th lane of an instruction.
func symbol(in Instruction, j int) string {
	switch in.Kind.Name {
	case "cx":
		if j == 0 {
			return "■"
		}
		return "⊕"
	case "cz":
		return "■"
	case "swap":
		return "x"
	case "measure":
		return "M"
	case "barrier":
		return "░"
	}
	name := in.Kind.Name
	if len(name) > 0 {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return name
}

// pad centres s in a cell of wire characters.
func pad(s string) string {
	n := utf8.RuneCountInString(s)
	if n >= cellWidth {
		return s
	}
	left := (cellWidth - n) / 2
	right := cellWidth - n - left
	return strings.Repeat("─", left) + s + strings.Repeat("─", right)
}
