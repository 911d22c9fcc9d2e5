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
	"bytes"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/fillay12321/qbench/quest/quantum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCircuit(t *testing.T, width, depth int) *quantum.Circuit {
	t.Helper()
	gen, err := quantum.GenerateRandomCircuit(rand.New(rand.NewSource(3)), width, depth,
		quantum.DefaultCatalog, quantum.DefaultGeneratorOptions())
	require.NoError(t, err)
	return gen.Circuit
}

func TestCircuitDiagramIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	qc := sampleCircuit(t, 4, 8)

	a, b := filepath.Join(dir, "a.png"), filepath.Join(dir, "nested", "b.png")
	require.NoError(t, CircuitDiagram(qc, a))
	require.NoError(t, CircuitDiagram(qc, b))

	da, err := os.ReadFile(a)
	require.NoError(t, err)
	db, err := os.ReadFile(b)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(da, db))

	cfg, err := png.DecodeConfig(bytes.NewReader(da))
	require.NoError(t, err)
	assert.Greater(t, cfg.Height, 0)
}

func TestCircuitDiagramWidthIsCapped(t *testing.T) {
	qc := sampleCircuit(t, 2, 5000)
	path := filepath.Join(t.TempDir(), "wide.png")
	require.NoError(t, CircuitDiagram(qc, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.LessOrEqual(t, cfg.Width, int(maxWidth.Dots(96))+1)
}

func TestCircuitDiagramRejectsEmpty(t *testing.T) {
	assert.Error(t, CircuitDiagram(quantum.NewCircuit(0), filepath.Join(t.TempDir(), "x.png")))
}

func TestHistogram(t *testing.T) {
	dir := t.TempDir()
	counts := quantum.Counts{"00": 500, "11": 480, "01": 30, "10": 14}

	require.NoError(t, Histogram(counts, filepath.Join(dir, "all.png"), 0))
	require.NoError(t, Histogram(counts, filepath.Join(dir, "top.png"), 2))
	require.NoError(t, Histogram(quantum.Counts{}, filepath.Join(dir, "empty.png"), 2))

	for _, name := range []string{"all.png", "top.png", "empty.png"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		_, err = png.DecodeConfig(bytes.NewReader(data))
		assert.NoError(t, err, name)
	}
}
