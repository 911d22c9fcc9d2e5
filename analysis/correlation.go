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

package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/olekukonko/tablewriter"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// CorrelationColumns are the metrics of the correlation matrix.
var CorrelationColumns = []string{
	"transpile_ms", "transpile_opt3_ms", "exec_ms", "total_ms",
	"num_qubits", "depth_max_config", "real_depth",
	"num_gates", "num_1q_gates", "num_2q_gates",
	"num_cx", "num_cz", "num_swap", "avg_gate_density",
}

// FactorColumns are the structural columns related to transpile time.
var FactorColumns = []string{
	"num_qubits", "depth_max_config", "real_depth", "num_gates",
	"num_1q_gates", "num_2q_gates", "num_cx", "num_cz", "num_swap",
	"avg_gate_density",
}

// ScatterPair is an (x, y) column pair plotted as a scatter.
type ScatterPair struct{ X, Y string }

// DefaultScatterPairs lists the pairs drawn by Analyzer.ScatterPairs.
var DefaultScatterPairs = []ScatterPair{
	{"num_qubits", "transpile_ms"},
	{"num_qubits", "exec_ms"},
	{"real_depth", "exec_ms"},
	{"num_cx", "exec_ms"},
	{"avg_gate_density", "transpile_ms"},
}

// CorrelationMatrix computes Pearson correlations between
// CorrelationColumns and draws them as an annotated heatmap. Undefined
// correlations, for instance of a constant column, are NaN.
func (a *Analyzer) CorrelationMatrix() ([][]float64, error) {
	cols := make([][]float64, len(CorrelationColumns))
	for i, name := range CorrelationColumns {
		cols[i] = a.table.mustColumn(name)
	}
	n := len(cols)
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := pearson(cols[i], cols[j])
			m[i][j], m[j][i] = v, v
		}
	}
	p, err := heatmap(CorrelationColumns, m, "Correlation matrix between metrics")
	if err != nil {
		return m, err
	}
	return m, savePlot(p, 12*vg.Inch, 10*vg.Inch, a.path(CorrelationPlot))
}

// ScatterFile returns the plot file name of a scatter pair.
func ScatterFile(pair ScatterPair) string {
	return fmt.Sprintf("scatter_%s_vs_%s.png", pair.X, pair.Y)
}

// ScatterPairs draws one scatter plot per entry of DefaultScatterPairs.
func (a *Analyzer) ScatterPairs() error {
	for _, pair := range DefaultScatterPairs {
		p := plot.New()
		p.Title.Text = fmt.Sprintf("%s vs %s", pair.Y, pair.X)
		p.X.Label.Text = pair.X
		p.Y.Label.Text = pair.Y
		if err := scatter(p, points(a.table.mustColumn(pair.X), a.table.mustColumn(pair.Y)), blue, ""); err != nil {
			return err
		}
		if err := savePlot(p, 6*vg.Inch, 4*vg.Inch, a.path(ScatterFile(pair))); err != nil {
			return err
		}
	}
	return nil
}

// Factor is the correlation of one structural column with transpile time.
type Factor struct {
	Name        string
	Correlation float64
}

// TranspileFactors ranks FactorColumns by the magnitude of their correlation
// with transpile_ms. Undefined correlations sort last.
func (a *Analyzer) TranspileFactors() ([]Factor, error) {
	transpile := a.table.mustColumn("transpile_ms")
	factors := make([]Factor, len(FactorColumns))
	for i, name := range FactorColumns {
		factors[i] = Factor{Name: name, Correlation: pearson(a.table.mustColumn(name), transpile)}
	}
	sort.SliceStable(factors, func(i, j int) bool {
		ci, cj := math.Abs(factors[i].Correlation), math.Abs(factors[j].Correlation)
		if math.IsNaN(cj) {
			return !math.IsNaN(ci)
		}
		return ci > cj
	})

	a.header("FACTORS WITH THE MOST IMPACT ON TRANSPILATION")
	table := tablewriter.NewWriter(a.out)
	table.SetHeader([]string{"factor", "correlation"})
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	names := make([]string, len(factors))
	magnitudes := make([]float64, len(factors))
	for i, f := range factors {
		table.Append([]string{f.Name, fmt.Sprintf("%+.4f", f.Correlation)})
		names[i] = f.Name
		magnitudes[i] = math.Abs(f.Correlation)
	}
	table.Render()

	p, err := barh(names, magnitudes, "Correlation with transpile time (ms)", "|Pearson correlation|", teal)
	if err != nil {
		return factors, err
	}
	return factors, savePlot(p, 10*vg.Inch, 6*vg.Inch, a.path(FactorsPlot))
}
