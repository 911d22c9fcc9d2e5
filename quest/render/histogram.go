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

package render

import (
	"fmt"

	"github.com/fillay12321/qbench/quest/quantum"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// DefaultHistogramLimit is the number of outcomes drawn when no limit is set.
const DefaultHistogramLimit = 32

// Histogram renders the most frequent outcomes of counts as a bar chart. A
// limit of zero draws every outcome.
func Histogram(counts quantum.Counts, path string, limit int) error {
	top := counts.Top(limit)

	p := plot.New()
	p.Title.Text = "Measurement outcomes"
	p.Y.Label.Text = "Counts"
	p.X.Label.Text = "Outcome"

	if len(top) > 0 {
		values := make(plotter.Values, len(top))
		names := make([]string, len(top))
		for i, o := range top {
			values[i] = float64(o.Count)
			names[i] = o.Bits
		}
		bars, err := plotter.NewBarChart(values, vg.Points(14))
		if err != nil {
			return fmt.Errorf("render %s: %w", path, err)
		}
		bars.Color = barColor
		bars.LineStyle.Width = 0
		p.Add(bars)
		p.NominalX(names...)
		p.X.Tick.Label.Rotation = 1.2
		p.X.Tick.Label.XAlign = -1
		p.X.Tick.Label.YAlign = -0.5
		p.Y.Min = 0
	}

	w := vg.Points(24)*vg.Length(len(top)) + 2*vg.Inch
	if w < 5*vg.Inch {
		w = 5 * vg.Inch
	}
	return Save(p, w, 4*vg.Inch, path)
}
