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

// Package quantum implements the circuit model, the random circuit generator and
// the state-vector simulator used by the benchmark harness.
package quantum

import (
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// Kind describes a circuit operation kind.
type Kind struct {
	// Name is the canonical lower-case mnemonic, also used as the op-count key.
	Name string

	// Qubits is the number of lanes the operation acts on. Directives act on
	// an arbitrary set of lanes and carry zero here.
	Qubits int

	// Directive marks compiler hints such as barriers. Directives never
	// contribute to depth and are skipped by the simulator.
	Directive bool
}

// String implements fmt.Stringer.
func (k Kind) String() string { return k.Name }

// Built-in operation kinds.
var (
	H    = Kind{Name: "h", Qubits: 1}
	X    = Kind{Name: "x", Qubits: 1}
	Y    = Kind{Name: "y", Qubits: 1}
	Z    = Kind{Name: "z", Qubits: 1}
	S    = Kind{Name: "s", Qubits: 1}
	Sdg  = Kind{Name: "sdg", Qubits: 1}
	T    = Kind{Name: "t", Qubits: 1}
	Tdg  = Kind{Name: "tdg", Qubits: 1}
	CX   = Kind{Name: "cx", Qubits: 2}
	CZ   = Kind{Name: "cz", Qubits: 2}
	Swap = Kind{Name: "swap", Qubits: 2}

	Measure = Kind{Name: "measure", Qubits: 1}
	Barrier = Kind{Name: "barrier", Directive: true}
)

// DefaultCatalog is the set of kinds the random generator draws from.
var DefaultCatalog = []Kind{H, X, Y, Z, S, T, CX, CZ, Swap}

var builtinKinds = map[string]Kind{}

func init() {
	for _, k := range []Kind{H, X, Y, Z, S, Sdg, T, Tdg, CX, CZ, Swap, Measure, Barrier} {
		builtinKinds[k.Name] = k
	}
}

// LookupKind returns the built-in kind with the given name.
func LookupKind(name string) (Kind, bool) {
	k, ok := builtinKinds[strings.ToLower(strings.TrimSpace(name))]
	return k, ok
}

// ParseCatalog resolves a list of gate names into a catalog. Measurements and
// directives are rejected since the generator only places unitary gates.
func ParseCatalog(names []string) ([]Kind, error) {
	catalog := make([]Kind, 0, len(names))
	seen := mapset.NewThreadUnsafeSet[string]()
	for _, name := range names {
		k, ok := LookupKind(name)
		if !ok {
			return nil, fmt.Errorf("unknown gate %q", name)
		}
		if k.Directive || k == Measure {
			return nil, fmt.Errorf("gate %q cannot be drawn by the generator", name)
		}
		if !seen.Add(k.Name) {
			return nil, fmt.Errorf("duplicate gate %q", name)
		}
		catalog = append(catalog, k)
	}
	return catalog, nil
}

// CatalogNames returns the mnemonics of a catalog, in order.
func CatalogNames(catalog []Kind) []string {
	names := make([]string, len(catalog))
	for i, k := range catalog {
		names[i] = k.Name
	}
	return names
}

// Instruction is one operation placed on specific lanes.
type Instruction struct {
	Kind   Kind
	Qubits []int
	Clbits []int
}

// IsGate reports whether the instruction is a unitary gate, i.e. neither a
// directive nor a measurement.
func (in Instruction) IsGate() bool {
	return !in.Kind.Directive && in.Kind != Measure
}

func (in Instruction) String() string {
	qs := make([]string, len(in.Qubits))
	for i, q := range in.Qubits {
		qs[i] = fmt.Sprintf("q[%d]", q)
	}
	s := in.Kind.Name + " " + strings.Join(qs, ",")
	if len(in.Clbits) > 0 {
		s += fmt.Sprintf(" -> c[%d]", in.Clbits[0])
	}
	return s
}
