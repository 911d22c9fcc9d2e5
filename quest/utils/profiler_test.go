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

package utils

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfilerTracksExtremes(t *testing.T) {
	p := NewProfiler()
	for i, ms := range []int{5, 2, 9, 2, 4} {
		p.Record("exec", i, time.Duration(ms)*time.Millisecond)
	}
	stats := p.GetOperationStats("exec")
	require.NotNil(t, stats)

	assert.EqualValues(t, 5, stats.Count)
	assert.Equal(t, 2*time.Millisecond, stats.MinTime)
	assert.Equal(t, 1, stats.MinIndex, "first occurrence of the minimum wins")
	assert.Equal(t, 9*time.Millisecond, stats.MaxTime)
	assert.Equal(t, 2, stats.MaxIndex)
	assert.Equal(t, 22*time.Millisecond, stats.TotalTime)
	assert.Equal(t, 4400*time.Microsecond, stats.AvgTime)

	assert.Nil(t, p.GetOperationStats("transpile"))
}

func TestProfilerTimeRecordsFailures(t *testing.T) {
	p := NewProfiler()
	boom := errors.New("boom")
	_, err := p.Time("transpile", 7, func() error { return boom })
	assert.ErrorIs(t, err, boom)

	stats := p.GetOperationStats("transpile")
	require.NotNil(t, stats)
	assert.EqualValues(t, 1, stats.Count)
	assert.Equal(t, 7, stats.MaxIndex)

	p.Reset()
	assert.Empty(t, p.GetAllOperationStats())
}

func TestProfilerWriteTextfile(t *testing.T) {
	p := NewProfiler()
	p.Record("exec", 0, time.Millisecond)
	p.Record("transpile", 0, 2*time.Millisecond)

	path := filepath.Join(t.TempDir(), "metrics.prom")
	require.NoError(t, p.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.Contains(text, `qbench_phase_duration_seconds_count{phase="exec"} 1`), text)
	assert.Contains(t, text, "qbench_phase_samples_total 2")
}

func TestHardwareInfo(t *testing.T) {
	h := NewHardwareDetector()
	assert.NotEmpty(t, h.Description())
	assert.Greater(t, h.CPUThreads, 0)

	n := h.DetermineOptimalQubits(20)
	assert.LessOrEqual(t, n, 20)
	assert.GreaterOrEqual(t, n, 0)
}
