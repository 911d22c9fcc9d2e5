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

// Package utils holds timing and host helpers for the benchmark runner.
package utils

import (
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
)

// OperationStats holds the timing statistics of one benchmark phase.
type OperationStats struct {
	Count     int64
	TotalTime time.Duration
	MinTime   time.Duration
	MaxTime   time.Duration
	AvgTime   time.Duration

	// MinIndex and MaxIndex identify the circuits that produced the extremes.
	MinIndex int
	MaxIndex int
}

// Profiler collects per-phase durations together with the index of the
// circuit each sample belongs to. Samples are also fed into a Prometheus
// histogram so that a run can be exported in text format.
type Profiler struct {
	operationStats map[string]*OperationStats
	mutex          sync.Mutex

	registry  *prometheus.Registry
	durations *prometheus.HistogramVec
	samples   prometheus.Counter
}

// NewProfiler creates an empty profiler with its own metrics registry.
func NewProfiler() *Profiler {
	p := &Profiler{
		operationStats: make(map[string]*OperationStats),
		registry:       prometheus.NewRegistry(),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "qbench",
			Name:      "phase_duration_seconds",
			Help:      "Benchmark phase duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 18), // 50µs to ~6.5s
		}, []string{"phase"}),
		samples: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "qbench",
			Name:      "phase_samples_total",
			Help:      "Total number of recorded phase samples",
		}),
	}
	p.registry.MustRegister(p.durations, p.samples)
	return p
}

// Record adds one sample of the named phase for circuit index.
func (p *Profiler) Record(operationName string, index int, duration time.Duration) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	stats, ok := p.operationStats[operationName]
	if !ok {
		stats = &OperationStats{
			MinTime:  duration,
			MaxTime:  duration,
			MinIndex: index,
			MaxIndex: index,
		}
		p.operationStats[operationName] = stats
	}
	stats.Count++
	stats.TotalTime += duration

	if duration < stats.MinTime {
		stats.MinTime, stats.MinIndex = duration, index
	}
	if duration > stats.MaxTime {
		stats.MaxTime, stats.MaxIndex = duration, index
	}
	stats.AvgTime = time.Duration(stats.TotalTime.Nanoseconds() / stats.Count)

	p.durations.WithLabelValues(operationName).Observe(duration.Seconds())
	p.samples.Inc()
}

// Time runs fn, records its duration under the named phase and returns it.
// The duration is recorded even if fn fails.
func (p *Profiler) Time(operationName string, index int, fn func() error) (time.Duration, error) {
	start := time.Now()
	err := fn()
	duration := time.Since(start)
	p.Record(operationName, index, duration)
	return duration, err
}

// GetOperationStats returns a copy of the statistics of one phase, or nil if
// it was never recorded.
func (p *Profiler) GetOperationStats(operationName string) *OperationStats {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	stats, ok := p.operationStats[operationName]
	if !ok {
		return nil
	}
	statsCopy := *stats
	return &statsCopy
}

// GetAllOperationStats returns a copy of the statistics of every phase.
func (p *Profiler) GetAllOperationStats() map[string]*OperationStats {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	result := make(map[string]*OperationStats, len(p.operationStats))
	for name, stats := range p.operationStats {
		statsCopy := *stats
		result[name] = &statsCopy
	}
	return result
}

// Reset drops all statistics. Exported histograms are not affected.
func (p *Profiler) Reset() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.operationStats = make(map[string]*OperationStats)
}

// LogStatistics logs the statistics of every phase, in name order.
func (p *Profiler) LogStatistics() {
	all := p.GetAllOperationStats()
	if len(all) == 0 {
		log.Info("No profiling data")
		return
	}
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		stats := all[name]
		log.Info("Phase statistics", "phase", name,
			"count", stats.Count,
			"total", stats.TotalTime,
			"avg", stats.AvgTime,
			"min", stats.MinTime, "minIndex", stats.MinIndex,
			"max", stats.MaxTime, "maxIndex", stats.MaxIndex)
	}
}

// WriteTextfile exports the phase histograms in Prometheus text format.
func (p *Profiler) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, p.registry)
}
