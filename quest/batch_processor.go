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

package quest

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/fatih/color"
	"github.com/fillay12321/qbench/quest/processor"
	"github.com/fillay12321/qbench/quest/qasm"
	"github.com/fillay12321/qbench/quest/quantum"
	"github.com/fillay12321/qbench/quest/record"
	"github.com/fillay12321/qbench/quest/render"
	"github.com/fillay12321/qbench/quest/utils"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// Profiler phase names.
const (
	PhaseTranspile     = "transpile"
	PhaseTranspileOpt3 = "transpile_opt3"
	PhaseExec          = "exec"
	PhaseTotal         = "total"
)

const (
	lockFile     = ".qbench.lock"
	ManifestFile = "run.yaml"
	MetricsFile  = "metrics.prom"

	// progressInterval is the time between progress log lines.
	progressInterval = 8 * time.Second
)

// Extreme identifies the circuit with the lowest or highest time of a phase.
type Extreme struct {
	Index int     `yaml:"index"`
	Ms    float64 `yaml:"ms"`
}

// Summary describes a finished (or interrupted) run.
type Summary struct {
	RunID    string `yaml:"run_id"`
	Seed     int64  `yaml:"seed"`
	Circuits int    `yaml:"circuits"`

	FastestTranspile Extreme `yaml:"fastest_transpile"`
	SlowestTranspile Extreme `yaml:"slowest_transpile"`
	FastestExec      Extreme `yaml:"fastest_exec"`
	SlowestExec      Extreme `yaml:"slowest_exec"`
}

// warmer is implemented by backends with first-use costs.
type warmer interface {
	WarmUp(shots int) error
}

// Runner executes a benchmark run.
type Runner struct {
	config   Config
	catalog  []quantum.Kind
	seed     int64
	rng      *rand.Rand
	compiler Compiler
	executor Executor
	exporter qasm.Exporter
	profiler *utils.Profiler
	hardware *utils.HardwareInfo

	// Out receives the circuit drawings and the final report.
	Out io.Writer
}

// NewRunner validates config and sets up the backend.
func NewRunner(config Config) (*Runner, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	catalog, err := config.Catalog()
	if err != nil {
		return nil, err
	}
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	hardware := utils.NewHardwareDetector()
	maxQubits := hardware.DetermineOptimalQubits(quantum.MaxSimulatedQubits)
	if config.LaneRange[1] > maxQubits {
		log.Warn("Lane range exceeds the host's comfortable state size", "lanes", config.LaneRange[1], "suggested", maxQubits)
		maxQubits = config.LaneRange[1]
	}
	backend, err := NewBackend(maxQubits, rand.New(rand.NewSource(seed+1)))
	if err != nil {
		return nil, err
	}
	return &Runner{
		config:   config,
		catalog:  catalog,
		seed:     seed,
		rng:      rand.New(rand.NewSource(seed)),
		compiler: backend,
		executor: backend,
		exporter: qasm.NewBuilder(),
		profiler: utils.NewProfiler(),
		hardware: hardware,
		Out:      os.Stdout,
	}, nil
}

// Seed returns the seed the run draws from.
func (r *Runner) Seed() int64 { return r.seed }

// Run generates, compiles, executes and records config.CircuitCount
// circuits. Cancelling ctx stops the run between circuits; the rows written
// so far stay valid and the returned summary covers them.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	cfg := &r.config
	for _, dir := range []string{ImageDir, HistDir, QasmDir} {
		if err := os.MkdirAll(filepath.Join(cfg.OutputDir, dir), 0o755); err != nil {
			return nil, err
		}
	}
	lock := flock.New(filepath.Join(cfg.OutputDir, lockFile))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock output directory: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrOutputLocked, cfg.OutputDir)
	}
	defer lock.Unlock()

	if w, ok := r.compiler.(warmer); ok {
		if err := w.WarmUp(cfg.Shots); err != nil {
			return nil, err
		}
	}

	writer, err := record.Create(cfg.ResultsPath())
	if err != nil {
		return nil, err
	}
	defer writer.Close()

	manifest := newManifest(r, time.Now())
	log.Info("Starting benchmark", "id", manifest.RunID, "circuits", cfg.CircuitCount, "seed", r.seed, "out", cfg.OutputDir)

	var (
		start   = time.Now()
		logged  = start
		done    int
		loopErr error
	)
	for i := 0; i < cfg.CircuitCount; i++ {
		if err := ctx.Err(); err != nil {
			log.Warn("Benchmark interrupted", "done", done, "total", cfg.CircuitCount)
			loopErr = err
			break
		}
		if err := r.runOne(i, writer); err != nil {
			loopErr = fmt.Errorf("circuit %d: %w", i, err)
			break
		}
		done++
		if time.Since(logged) > progressInterval {
			log.Info("Generating circuits", "done", done, "total", cfg.CircuitCount, "elapsed", common.PrettyDuration(time.Since(start)))
			logged = time.Now()
		}
	}
	if err := writer.Close(); err != nil && loopErr == nil {
		loopErr = err
	}

	summary := r.summary(manifest.RunID, done)
	r.report(summary)
	r.profiler.LogStatistics()

	manifest.finish(summary, time.Now())
	if err := manifest.write(filepath.Join(cfg.OutputDir, ManifestFile)); err != nil && loopErr == nil {
		loopErr = err
	}
	if err := r.profiler.WriteTextfile(filepath.Join(cfg.OutputDir, MetricsFile)); err != nil && loopErr == nil {
		loopErr = err
	}
	log.Info("Benchmark finished", "circuits", done, "elapsed", common.PrettyDuration(time.Since(start)))
	return summary, loopErr
}

// runOne benchmarks circuit i and writes its row and artifacts.
func (r *Runner) runOne(i int, writer *record.Writer) error {
	cfg := &r.config
	width := cfg.LaneRange[0] + r.rng.Intn(cfg.LaneRange[1]-cfg.LaneRange[0]+1)
	depth := cfg.DepthRange[0] + r.rng.Intn(cfg.DepthRange[1]-cfg.DepthRange[0]+1)

	gen, err := quantum.GenerateRandomCircuit(r.rng, width, depth, r.catalog,
		quantum.GeneratorOptions{MaxOps: cfg.MaxOps, MinOps: cfg.MinOps})
	if err != nil {
		return err
	}
	qc := gen.Circuit

	var (
		timings   Timings
		optimized *quantum.Circuit
		counts    quantum.Counts
	)
	if timings.Transpile, err = r.profiler.Time(PhaseTranspile, i, func() error {
		_, err := r.compiler.Compile(qc, 0)
		return err
	}); err != nil {
		return err
	}
	if timings.TranspileOpt3, err = r.profiler.Time(PhaseTranspileOpt3, i, func() error {
		var err error
		optimized, err = r.compiler.Compile(qc, processor.MaxLevel)
		return err
	}); err != nil {
		return err
	}
	if timings.Exec, err = r.profiler.Time(PhaseExec, i, func() error {
		var err error
		counts, err = r.executor.Execute(optimized, cfg.Shots)
		return err
	}); err != nil {
		return err
	}
	r.profiler.Record(PhaseTotal, i, timings.Total())

	rec := newRecord(i, depth, qc, ExtractMetrics(qc), timings)
	rec.ImgFile, rec.HistFile, rec.QasmFile = cfg.artifactPaths(i)
	if err := writer.Write(rec); err != nil {
		return err
	}

	if err := render.CircuitDiagram(qc, rec.ImgFile); err != nil {
		return err
	}
	if err := render.Histogram(counts, rec.HistFile, cfg.HistogramLimit); err != nil {
		return err
	}
	exported, err := qasm.WriteFile(r.exporter, qc, rec.QasmFile)
	if err != nil {
		return err
	}
	if !exported {
		log.Warn("Circuit not expressible as OpenQASM, wrote placeholder", "index", i)
	}

	if cfg.PrintCircuits {
		fmt.Fprintf(r.Out, "\n[Circuit %d]\n%s", i, qc.DrawText())
	}
	log.Debug("Benchmarked circuit", "index", i, "qubits", width, "depth", rec.RealDepth,
		"gates", rec.NumGates, "transpile", timings.Transpile, "exec", timings.Exec)
	return nil
}

func (r *Runner) summary(runID string, done int) *Summary {
	s := &Summary{RunID: runID, Seed: r.seed, Circuits: done}
	if st := r.profiler.GetOperationStats(PhaseTranspile); st != nil {
		s.FastestTranspile = Extreme{Index: st.MinIndex, Ms: milliseconds(st.MinTime)}
		s.SlowestTranspile = Extreme{Index: st.MaxIndex, Ms: milliseconds(st.MaxTime)}
	}
	if st := r.profiler.GetOperationStats(PhaseExec); st != nil {
		s.FastestExec = Extreme{Index: st.MinIndex, Ms: milliseconds(st.MinTime)}
		s.SlowestExec = Extreme{Index: st.MaxIndex, Ms: milliseconds(st.MaxTime)}
	}
	return s
}

func (r *Runner) report(s *Summary) {
	color.New(color.Bold).Fprintln(r.Out, "\n==== FINAL RESULTS ====")
	if s.Circuits == 0 {
		fmt.Fprintln(r.Out, "No circuits benchmarked")
		return
	}
	fmt.Fprintf(r.Out, "Fastest transpile: circuit %d - %.3f ms\n", s.FastestTranspile.Index, s.FastestTranspile.Ms)
	fmt.Fprintf(r.Out, "Slowest transpile: circuit %d - %.3f ms\n", s.SlowestTranspile.Index, s.SlowestTranspile.Ms)
	fmt.Fprintf(r.Out, "Fastest execution: circuit %d - %.3f ms\n", s.FastestExec.Index, s.FastestExec.Ms)
	fmt.Fprintf(r.Out, "Slowest execution: circuit %d - %.3f ms\n", s.SlowestExec.Index, s.SlowestExec.Ms)
}

// newRunID returns a fresh run identifier.
func newRunID() string { return uuid.New().String() }
