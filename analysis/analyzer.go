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
	"io"
	"path/filepath"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// Plot file names.
const (
	GainPlot          = "optimization_gain_histogram.png"
	PerQubitPlot      = "time_per_qubit.png"
	OutliersPlot      = "outliers_transpile.png"
	ComplexityPlot    = "exec_vs_complexity_index.png"
	TimeHistogramPlot = "time_histograms.png"
	CorrelationPlot   = "correlation_heatmap.png"
	FactorsPlot       = "transpile_correlations.png"
)

// OutlierThreshold is the z-score above which a transpile time is an outlier.
const OutlierThreshold = 3.0

// Analyzer runs the analysis routines over a table. Every routine only
// reads the table; reports go to the writer and plots into the directory.
type Analyzer struct {
	table *Table
	out   io.Writer
	dir   string
}

// New creates an analyzer writing reports to out and plots below dir.
func New(table *Table, out io.Writer, dir string) *Analyzer {
	return &Analyzer{table: table, out: out, dir: dir}
}

func (a *Analyzer) path(name string) string { return filepath.Join(a.dir, name) }

func (a *Analyzer) header(title string) {
	color.New(color.FgCyan, color.Bold).Fprintf(a.out, "===== %s =====\n", title)
}

// SummaryResult holds the headline timing comparison.
type SummaryResult struct {
	MaxTranspile, MinTranspile float64
	MaxExec, MinExec           float64
	ExecSlower                 int // rows with exec > transpile
	TranspileSlower            int // rows with transpile > exec
	MeanDiffPercent            float64
}

// Summary reports the timing extremes and how transpile and execution times
// compare.
func (a *Analyzer) Summary() SummaryResult {
	transpile := a.table.mustColumn("transpile_ms")
	exec := a.table.mustColumn("exec_ms")

	var res SummaryResult
	if len(transpile) > 0 {
		res.MaxTranspile, res.MinTranspile = floats.Max(transpile), floats.Min(transpile)
		res.MaxExec, res.MinExec = floats.Max(exec), floats.Min(exec)
	}
	diff := make([]float64, len(transpile))
	for i := range transpile {
		switch {
		case exec[i] > transpile[i]:
			res.ExecSlower++
		case transpile[i] > exec[i]:
			res.TranspileSlower++
		}
		diff[i] = (transpile[i] - exec[i]) / transpile[i] * 100
	}
	res.MeanDiffPercent = finiteMean(diff)

	a.header("CSV ANALYSIS")
	fmt.Fprintf(a.out, "Highest transpile time: %.3f ms\n", res.MaxTranspile)
	fmt.Fprintf(a.out, "Lowest transpile time : %.3f ms\n", res.MinTranspile)
	fmt.Fprintf(a.out, "Highest exec time     : %.3f ms\n", res.MaxExec)
	fmt.Fprintf(a.out, "Lowest exec time      : %.3f ms\n", res.MinExec)
	fmt.Fprintln(a.out)
	fmt.Fprintf(a.out, "Circuits with EXEC > TRANSPILE: %d\n", res.ExecSlower)
	fmt.Fprintf(a.out, "Circuits with TRANSPILE > EXEC: %d\n", res.TranspileSlower)
	fmt.Fprintln(a.out)
	fmt.Fprintf(a.out, "Mean percentage difference between transpile and execution: %.2f%%\n", res.MeanDiffPercent)
	return res
}

// GainResult holds the mean level 3 optimization gain.
type GainResult struct {
	MeanMs      float64
	MeanPercent float64
}

// OptimizationGain reports how much faster level 3 compiles than level 0
// and plots the distribution of the percentage gain.
func (a *Analyzer) OptimizationGain() (GainResult, error) {
	gain := a.table.mustColumn(GainMs)
	pct := a.table.mustColumn(GainPercent)
	res := GainResult{MeanMs: finiteMean(gain), MeanPercent: finiteMean(pct)}

	fmt.Fprintf(a.out, "\nMean optimization gain (ms): %.3f\n", res.MeanMs)
	fmt.Fprintf(a.out, "Mean optimization gain (%%): %.2f%%\n", res.MeanPercent)

	p, err := histogram(pct, "Percentage gain of optimization level 3", "Gain (%)", purple)
	if err != nil {
		return res, err
	}
	return res, savePlot(p, 8*vg.Inch, 5*vg.Inch, a.path(GainPlot))
}

// PerQubitTiming plots transpile and execution time per qubit side by side.
func (a *Analyzer) PerQubitTiming() error {
	left, err := histogram(a.table.mustColumn(TranspilePerQubit), "Transpile time per qubit (ms)", "ms", skyBlue)
	if err != nil {
		return err
	}
	right, err := histogram(a.table.mustColumn(ExecPerQubit), "Execution time per qubit (ms)", "ms", salmon)
	if err != nil {
		return err
	}
	return saveRow([]*plot.Plot{left, right}, 12*vg.Inch, 5*vg.Inch, a.path(PerQubitPlot))
}

// Outlier is a row with an unusually long transpile time.
type Outlier struct {
	Index          int
	TranspileMs    float64
	NumQubits      int
	RealDepth      int
	AvgGateDensity float64
	Z              float64
}

// Outliers reports the rows whose transpile time z-score exceeds
// OutlierThreshold and plots them against the rest.
func (a *Analyzer) Outliers() ([]Outlier, error) {
	z := a.table.mustColumn(ZTranspileMs)
	var outliers []Outlier
	for i, v := range z {
		if v > OutlierThreshold {
			r := a.table.Record(i)
			outliers = append(outliers, Outlier{
				Index:          r.Index,
				TranspileMs:    r.TranspileMs,
				NumQubits:      r.NumQubits,
				RealDepth:      r.RealDepth,
				AvgGateDensity: r.AvgGateDensity,
				Z:              v,
			})
		}
	}

	fmt.Fprintf(a.out, "\nNumber of outliers with z-score > %g in transpile time: %d\n", OutlierThreshold, len(outliers))
	if len(outliers) > 0 {
		table := tablewriter.NewWriter(a.out)
		table.SetHeader([]string{"index", "transpile_ms", "num_qubits", "real_depth", "avg_gate_density"})
		table.SetAutoFormatHeaders(false)
		for _, o := range outliers {
			table.Append([]string{
				strconv.Itoa(o.Index),
				strconv.FormatFloat(o.TranspileMs, 'f', 3, 64),
				strconv.Itoa(o.NumQubits),
				strconv.Itoa(o.RealDepth),
				strconv.FormatFloat(o.AvgGateDensity, 'f', 4, 64),
			})
		}
		table.Render()
	}

	p := plot.New()
	p.Title.Text = "Transpile time outliers"
	p.X.Label.Text = "num_qubits"
	p.Y.Label.Text = "transpile_ms"
	if err := scatter(p, points(a.table.mustColumn("num_qubits"), a.table.mustColumn("transpile_ms")), blue, "All"); err != nil {
		return outliers, err
	}
	xs := make([]float64, len(outliers))
	ys := make([]float64, len(outliers))
	for i, o := range outliers {
		xs[i], ys[i] = float64(o.NumQubits), o.TranspileMs
	}
	if err := scatter(p, points(xs, ys), red, "Outliers"); err != nil {
		return outliers, err
	}
	return outliers, savePlot(p, 8*vg.Inch, 5*vg.Inch, a.path(OutliersPlot))
}

// ComplexityIndex plots execution time against
// avg_gate_density × real_depth × num_qubits.
func (a *Analyzer) ComplexityIndex() error {
	p := plot.New()
	p.Title.Text = "Execution time vs complexity index"
	p.X.Label.Text = "Complexity index (avg_gate_density * real_depth * num_qubits)"
	p.Y.Label.Text = "Execution time (ms)"
	if err := scatter(p, points(a.table.mustColumn(ComplexityIdx), a.table.mustColumn("exec_ms")), blue, ""); err != nil {
		return err
	}
	return savePlot(p, 8*vg.Inch, 5*vg.Inch, a.path(ComplexityPlot))
}

// TimeHistograms plots the transpile and execution time distributions.
func (a *Analyzer) TimeHistograms() error {
	left, err := histogram(a.table.mustColumn("transpile_ms"), "Transpile time distribution", "ms", skyBlue)
	if err != nil {
		return err
	}
	right, err := histogram(a.table.mustColumn("exec_ms"), "Execution time distribution", "ms", salmon)
	if err != nil {
		return err
	}
	return saveRow([]*plot.Plot{left, right}, 12*vg.Inch, 5*vg.Inch, a.path(TimeHistogramPlot))
}

// Analyze runs the descriptive routines in order: summary, optimization
// gain, per-qubit timing, outliers, complexity index, time histograms,
// correlation matrix and scatter pairs.
func (a *Analyzer) Analyze() error {
	a.Summary()
	if _, err := a.OptimizationGain(); err != nil {
		return err
	}
	if err := a.PerQubitTiming(); err != nil {
		return err
	}
	if _, err := a.Outliers(); err != nil {
		return err
	}
	if err := a.ComplexityIndex(); err != nil {
		return err
	}
	if err := a.TimeHistograms(); err != nil {
		return err
	}
	if _, err := a.CorrelationMatrix(); err != nil {
		return err
	}
	return a.ScatterPairs()
}
