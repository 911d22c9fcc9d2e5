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
	"bytes"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/fillay12321/qbench/quest/render"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const histBins = 50

var (
	purple  = color.RGBA{R: 128, G: 0, B: 128, A: 255}
	skyBlue = color.RGBA{R: 135, G: 206, B: 235, A: 255}
	salmon  = color.RGBA{R: 250, G: 128, B: 114, A: 255}
	blue    = color.RGBA{R: 31, G: 119, B: 180, A: 160}
	red     = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	teal    = color.RGBA{R: 33, G: 145, B: 140, A: 255}
)

// histogram plots the finite values of xs.
func histogram(xs []float64, title, xLabel string, fill color.Color) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "Count"

	vs := finite(xs)
	if len(vs) == 0 {
		return p, nil
	}
	h, err := plotter.NewHist(plotter.Values(vs), histBins)
	if err != nil {
		return nil, err
	}
	h.FillColor = fill
	h.LineStyle.Width = vg.Points(0.5)
	p.Add(h)
	return p, nil
}

// points pairs the finite values of x and y.
func points(x, y []float64) plotter.XYs {
	fx, fy := finitePairs(x, y)
	xys := make(plotter.XYs, len(fx))
	for i := range fx {
		xys[i].X, xys[i].Y = fx[i], fy[i]
	}
	return xys
}

// scatter adds a point cloud to p. Empty clouds are skipped.
func scatter(p *plot.Plot, xys plotter.XYs, c color.Color, legend string) error {
	if len(xys) == 0 {
		return nil
	}
	s, err := plotter.NewScatter(xys)
	if err != nil {
		return err
	}
	s.GlyphStyle.Color = c
	s.GlyphStyle.Radius = vg.Points(2)
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(s)
	if legend != "" {
		p.Legend.Add(legend, s)
	}
	return nil
}

// barh plots values as horizontal bars, the first value on top.
func barh(names []string, values []float64, title, xLabel string, fill color.Color) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	if len(values) == 0 {
		return p, nil
	}
	n := len(values)
	vs := make(plotter.Values, n)
	labels := make([]string, n)
	for i := range values {
		v := values[n-1-i]
		if !isFinite(v) {
			v = 0
		}
		vs[i] = v
		labels[i] = names[n-1-i]
	}
	bars, err := plotter.NewBarChart(vs, vg.Points(12))
	if err != nil {
		return nil, err
	}
	bars.Horizontal = true
	bars.Color = fill
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalY(labels...)
	return p, nil
}

// corrGrid adapts a square correlation matrix to plotter.GridXYZ with the
// first variable on the top row.
type corrGrid struct {
	m [][]float64
}

func (g corrGrid) Dims() (c, r int) { return len(g.m), len(g.m) }
func (g corrGrid) X(c int) float64  { return float64(c) }
func (g corrGrid) Y(r int) float64  { return float64(r) }
func (g corrGrid) Z(c, r int) float64 {
	v := g.m[len(g.m)-1-r][c]
	if !isFinite(v) {
		return 0
	}
	return v
}

// heatmap plots an annotated correlation matrix on a diverging palette.
func heatmap(names []string, m [][]float64, title string) (*plot.Plot, error) {
	n := len(names)
	p := plot.New()
	p.Title.Text = title
	if n == 0 {
		return p, nil
	}
	cmap := moreland.SmoothBlueRed()
	cmap.SetMin(-1)
	cmap.SetMax(1)
	hm := plotter.NewHeatMap(corrGrid{m: m}, cmap.Palette(255))
	hm.Min, hm.Max = -1, 1
	p.Add(hm)

	var cells plotter.XYLabels
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			v := m[r][c]
			label := "nan"
			if isFinite(v) {
				label = fmt.Sprintf("%.2f", v)
			}
			cells.XYs = append(cells.XYs, plotter.XY{X: float64(c), Y: float64(n - 1 - r)})
			cells.Labels = append(cells.Labels, label)
		}
	}
	labels, err := plotter.NewLabels(cells)
	if err != nil {
		return nil, err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = text.XCenter
		labels.TextStyle[i].YAlign = text.YCenter
		labels.TextStyle[i].Font.Size = vg.Points(7)
	}
	p.Add(labels)

	xticks := make([]plot.Tick, n)
	yticks := make([]plot.Tick, n)
	for i, name := range names {
		xticks[i] = plot.Tick{Value: float64(i), Label: name}
		yticks[i] = plot.Tick{Value: float64(n - 1 - i), Label: name}
	}
	p.X.Tick.Marker = plot.ConstantTicks(xticks)
	p.Y.Tick.Marker = plot.ConstantTicks(yticks)
	p.X.Tick.Label.Rotation = math.Pi / 2
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter
	p.X.Min, p.X.Max = -0.5, float64(n)-0.5
	p.Y.Min, p.Y.Max = -0.5, float64(n)-0.5
	return p, nil
}

// savePlot writes a single plot.
func savePlot(p *plot.Plot, w, h vg.Length, path string) error {
	return render.Save(p, w, h, path)
}

// saveRow writes plots side by side into one PNG.
func saveRow(plots []*plot.Plot, w, h vg.Length, path string) error {
	img := vgimg.New(w, h)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      1,
		Cols:      len(plots),
		PadX:      vg.Millimeter * 6,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := plot.Align([][]*plot.Plot{plots}, tiles, dc)
	for i, p := range plots {
		p.Draw(canvases[0][i])
	}
	var buf bytes.Buffer
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(&buf); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
