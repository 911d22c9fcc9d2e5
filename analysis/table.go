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

// Package analysis computes statistics, correlations, plots and a simple
// regression model over a benchmark table.
package analysis

import (
	"fmt"
	"math"

	"github.com/fillay12321/qbench/quest/record"
	"gonum.org/v1/gonum/stat"
)

// Derived column names. They are computed on load and never persisted.
const (
	GainMs            = "gain_ms"
	GainPercent       = "gain_percent"
	TranspilePerQubit = "transpile_per_qubit"
	ExecPerQubit      = "exec_per_qubit"
	ComplexityIdx     = "complexity_index"
	ZTranspileMs      = "z_transpile_ms"
)

// Table is a read-only, column oriented view of benchmark records.
type Table struct {
	records []record.Record
	columns map[string][]float64
}

// Load reads the benchmark table at path.
func Load(path string) (*Table, error) {
	records, err := record.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewTable(records)
}

// NewTable indexes records and computes the derived columns.
func NewTable(records []record.Record) (*Table, error) {
	t := &Table{records: records, columns: make(map[string][]float64)}
	for _, name := range record.NumericColumns() {
		col, err := record.NumericColumn(records, name)
		if err != nil {
			return nil, err
		}
		t.columns[name] = col
	}
	t.derive()
	return t, nil
}

func (t *Table) derive() {
	var (
		n         = len(t.records)
		transpile = t.columns["transpile_ms"]
		opt3      = t.columns["transpile_opt3_ms"]
		exec      = t.columns["exec_ms"]
		qubits    = t.columns["num_qubits"]
		density   = t.columns["avg_gate_density"]
		depth     = t.columns["real_depth"]
	)
	gain := make([]float64, n)
	gainPct := make([]float64, n)
	tpq := make([]float64, n)
	epq := make([]float64, n)
	cplx := make([]float64, n)
	for i := 0; i < n; i++ {
		gain[i] = transpile[i] - opt3[i]
		gainPct[i] = gain[i] / transpile[i] * 100 // NaN or ±Inf when transpile is zero
		tpq[i] = transpile[i] / qubits[i]
		epq[i] = exec[i] / qubits[i]
		cplx[i] = density[i] * depth[i] * qubits[i]
	}
	t.columns[GainMs] = gain
	t.columns[GainPercent] = gainPct
	t.columns[TranspilePerQubit] = tpq
	t.columns[ExecPerQubit] = epq
	t.columns[ComplexityIdx] = cplx
	t.columns[ZTranspileMs] = zscores(transpile)
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.records) }

// Record returns row i.
func (t *Table) Record(i int) record.Record { return t.records[i] }

// Column returns a stored or derived numeric column. The slice must not be
// modified.
func (t *Table) Column(name string) ([]float64, error) {
	col, ok := t.columns[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", record.ErrMissingColumn, name)
	}
	return col, nil
}

// mustColumn is Column for names known to exist.
func (t *Table) mustColumn(name string) []float64 {
	col, err := t.Column(name)
	if err != nil {
		panic(err)
	}
	return col
}

// zscores returns population z-scores. A constant column yields NaN.
func zscores(xs []float64) []float64 {
	z := make([]float64, len(xs))
	if len(xs) == 0 {
		return z
	}
	mean, variance := stat.PopMeanVariance(xs, nil)
	std := math.Sqrt(variance)
	for i, x := range xs {
		z[i] = (x - mean) / std
	}
	return z
}

// finite returns the finite values of xs.
func finite(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			out = append(out, x)
		}
	}
	return out
}

// finiteMean is the mean over the finite values, NaN when there are none.
func finiteMean(xs []float64) float64 {
	f := finite(xs)
	if len(f) == 0 {
		return math.NaN()
	}
	return stat.Mean(f, nil)
}

// finitePairs keeps the indices where both x and y are finite.
func finitePairs(x, y []float64) ([]float64, []float64) {
	fx := make([]float64, 0, len(x))
	fy := make([]float64, 0, len(y))
	for i := range x {
		if isFinite(x[i]) && isFinite(y[i]) {
			fx = append(fx, x[i])
			fy = append(fy, y[i])
		}
	}
	return fx, fy
}

func isFinite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

// pearson returns the correlation of x and y over their finite pairs, NaN
// when it is undefined.
func pearson(x, y []float64) float64 {
	fx, fy := finitePairs(x, y)
	if len(fx) < 2 {
		return math.NaN()
	}
	return stat.Correlation(fx, fy, nil)
}
