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
	"strings"

	"github.com/fillay12321/qbench/quest/quantum"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	columnWidth = vg.Inch / 2
	laneHeight  = vg.Inch / 2
	maxWidth    = 60 * vg.Inch
	boxHalf     = 0.3 // in data units
)

// diagram is a plot.Plotter drawing the wires and gate shapes of a circuit.
// Gate names are drawn by a separate Labels plotter on top.
type diagram struct {
	circuit *quantum.Circuit
	layers  []int
	columns int
}

var (
	_ plot.Plotter    = (*diagram)(nil)
	_ plot.DataRanger = (*diagram)(nil)
)

func newDiagram(c *quantum.Circuit) *diagram {
	layers, columns := c.Layers()
	return &diagram{circuit: c, layers: layers, columns: columns}
}

// x and y map a column and a lane to data coordinates. Lane 0 is on top.
func (d *diagram) x(col int) float64 { return float64(col + 1) }
func (d *diagram) y(q int) float64   { return float64(d.circuit.NumQubits() - 1 - q) }

// DataRange implements plot.DataRanger.
func (d *diagram) DataRange() (xmin, xmax, ymin, ymax float64) {
	return -0.5, float64(d.columns) + 1, -0.5, float64(d.circuit.NumQubits()) - 0.5
}

// Plot implements plot.Plotter.
func (d *diagram) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	wire := draw.LineStyle{Color: wireColor, Width: vg.Points(1)}

	for q := 0; q < d.circuit.NumQubits(); q++ {
		y := trY(d.y(q))
		c.StrokeLine2(wire, trX(0.5), y, trX(float64(d.columns)+0.5), y)
	}

	for i, in := range d.circuit.Instructions() {
		x := d.x(d.layers[i])
		switch {
		case in.Kind.Directive:
			barrier := wire
			barrier.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
			lo, hi := laneSpan(in.Qubits)
			c.StrokeLine2(barrier, trX(x), trY(d.y(lo)+boxHalf), trX(x), trY(d.y(hi)-boxHalf))

		case len(in.Qubits) == 2:
			d.plotTwoLane(c, trX, trY, in, x)

		default:
			fill := gateColor
			if in.Kind == quantum.Measure {
				fill = measColor
			}
			y := d.y(in.Qubits[0])
			c.FillPolygon(fill, []vg.Point{
				{X: trX(x - boxHalf), Y: trY(y - boxHalf)},
				{X: trX(x + boxHalf), Y: trY(y - boxHalf)},
				{X: trX(x + boxHalf), Y: trY(y + boxHalf)},
				{X: trX(x - boxHalf), Y: trY(y + boxHalf)},
			})
		}
	}
}

func (d *diagram) plotTwoLane(c draw.Canvas, trX, trY func(float64) vg.Length, in quantum.Instruction, x float64) {
	connector := draw.LineStyle{Color: twoQColor, Width: vg.Points(1.5)}
	lo, hi := laneSpan(in.Qubits)
	c.StrokeLine2(connector, trX(x), trY(d.y(lo)), trX(x), trY(d.y(hi)))

	dot := draw.GlyphStyle{Color: twoQColor, Radius: vg.Points(4), Shape: draw.CircleGlyph{}}
	ring := draw.GlyphStyle{Color: twoQColor, Radius: vg.Points(7), Shape: draw.RingGlyph{}}
	plus := draw.GlyphStyle{Color: twoQColor, Radius: vg.Points(7), Shape: draw.PlusGlyph{}}
	cross := draw.GlyphStyle{Color: twoQColor, Radius: vg.Points(5), Shape: draw.CrossGlyph{}}

	for j, q := range in.Qubits {
		pt := vg.Point{X: trX(x), Y: trY(d.y(q))}
		switch in.Kind.Name {
		case "cx":
			if j == 0 {
				c.DrawGlyph(dot, pt)
			} else {
				c.DrawGlyph(ring, pt)
				c.DrawGlyph(plus, pt)
			}
		case "swap":
			c.DrawGlyph(cross, pt)
		default:
			c.DrawGlyph(dot, pt)
		}
	}
}

// labels returns the gate names and lane names placed on the diagram.
func (d *diagram) labels() plotter.XYLabels {
	var l plotter.XYLabels
	for q := 0; q < d.circuit.NumQubits(); q++ {
		l.XYs = append(l.XYs, plotter.XY{X: 0, Y: d.y(q)})
		l.Labels = append(l.Labels, fmt.Sprintf("q%d", q))
	}
	for i, in := range d.circuit.Instructions() {
		if in.Kind.Directive || len(in.Qubits) != 1 {
			continue
		}
		name := strings.ToUpper(in.Kind.Name)
		if in.Kind == quantum.Measure {
			name = "M"
		}
		l.XYs = append(l.XYs, plotter.XY{X: d.x(d.layers[i]), Y: d.y(in.Qubits[0])})
		l.Labels = append(l.Labels, name)
	}
	return l
}

func laneSpan(qubits []int) (int, int) {
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

// CircuitDiagram renders c to a PNG file at path. Very wide circuits are
// squeezed into a bounded canvas.
func CircuitDiagram(c *quantum.Circuit, path string) error {
	if c.NumQubits() == 0 {
		return fmt.Errorf("render %s: circuit has no lanes", path)
	}
	d := newDiagram(c)

	p := plot.New()
	p.HideAxes()
	p.Add(d)

	labels, err := plotter.NewLabels(d.labels())
	if err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = text.XCenter
		labels.TextStyle[i].YAlign = text.YCenter
		if i >= c.NumQubits() {
			labels.TextStyle[i].Color = labelColor
		}
	}
	p.Add(labels)

	w := columnWidth * vg.Length(d.columns+2)
	if w < 4*vg.Inch {
		w = 4 * vg.Inch
	}
	if w > maxWidth {
		w = maxWidth
	}
	h := laneHeight*vg.Length(c.NumQubits()) + vg.Inch/2
	return Save(p, w, h, path)
}
