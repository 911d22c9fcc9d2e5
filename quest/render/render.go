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

// Package render draws circuit diagrams and measurement histograms as PNG
// images.
package render

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

var (
	wireColor  = color.Gray{Y: 90}
	gateColor  = color.RGBA{R: 54, G: 162, B: 235, A: 255}
	twoQColor  = color.RGBA{R: 0, G: 114, B: 178, A: 255}
	measColor  = color.RGBA{R: 120, G: 120, B: 120, A: 255}
	barColor   = color.RGBA{R: 102, G: 194, B: 165, A: 255}
	labelColor = color.White
)

// Save encodes p as an image whose format follows the file extension and
// writes it to path, creating the parent directory if needed.
func Save(p *plot.Plot, w, h vg.Length, path string) error {
	format := filepath.Ext(path)
	if len(format) > 0 {
		format = format[1:]
	}
	wt, err := p.WriterTo(w, h, format)
	if err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
