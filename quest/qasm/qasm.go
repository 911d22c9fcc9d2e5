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

// Package qasm exports circuits as OpenQASM 2.0 source.
package qasm

import (
	"fmt"
	"os"
	"strings"

	"github.com/fillay12321/qbench/quest/quantum"
)

// Placeholder is written instead of source when a circuit cannot be exported.
const Placeholder = "// OpenQASM export is not supported for this circuit\n" +
	"// It uses operations the exporter does not know how to express.\n"

// Exporter turns circuits into textual source.
type Exporter interface {
	// Supports reports whether every instruction of c can be expressed.
	Supports(c *quantum.Circuit) bool

	// Export renders c. It fails for circuits Supports rejects.
	Export(c *quantum.Circuit) (string, error)
}

// qelib1 holds the standard-library gates an OpenQASM 2.0 program can use
// after including qelib1.inc.
var qelib1 = map[string]bool{
	"h": true, "x": true, "y": true, "z": true,
	"s": true, "sdg": true, "t": true, "tdg": true,
	"cx": true, "cz": true, "swap": true,
}

// Builder is an OpenQASM 2.0 exporter.
type Builder struct {
	gates map[string]bool
}

// NewBuilder creates an exporter for the qelib1.inc gate set.
func NewBuilder() *Builder {
	return &Builder{gates: qelib1}
}

// Supports implements Exporter.
func (b *Builder) Supports(c *quantum.Circuit) bool {
	for _, in := range c.Instructions() {
		if in.Kind == quantum.Measure || in.Kind == quantum.Barrier {
			continue
		}
		if !b.gates[in.Kind.Name] {
			return false
		}
	}
	return true
}

// Export implements Exporter.
func (b *Builder) Export(c *quantum.Circuit) (string, error) {
	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", c.NumQubits())
	if c.NumClbits() > 0 {
		fmt.Fprintf(&sb, "creg c[%d];\n", c.NumClbits())
	}
	for i, in := range c.Instructions() {
		switch {
		case in.Kind == quantum.Measure:
			fmt.Fprintf(&sb, "measure q[%d] -> c[%d];\n", in.Qubits[0], in.Clbits[0])
		case in.Kind == quantum.Barrier || b.gates[in.Kind.Name]:
			fmt.Fprintf(&sb, "%s %s;\n", in.Kind.Name, operands(in.Qubits))
		default:
			return "", fmt.Errorf("instruction %d: gate %q has no OpenQASM 2.0 form", i, in.Kind.Name)
		}
	}
	return sb.String(), nil
}

func operands(qubits []int) string {
	args := make([]string, len(qubits))
	for i, q := range qubits {
		args[i] = fmt.Sprintf("q[%d]", q)
	}
	return strings.Join(args, ",")
}

// WriteFile exports c to path, or writes Placeholder when exp cannot express
// the circuit. It reports whether real source was written.
func WriteFile(exp Exporter, c *quantum.Circuit, path string) (bool, error) {
	text := Placeholder
	supported := exp.Supports(c)
	if supported {
		src, err := exp.Export(c)
		if err != nil {
			return false, err
		}
		text = src
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return false, fmt.Errorf("write qasm: %w", err)
	}
	return supported, nil
}
