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
	"fmt"
	"os"
	"time"

	"github.com/fillay12321/qbench/quest/utils"
	"gopkg.in/yaml.v3"
)

// Manifest describes a benchmark run. It is written next to the results
// table as run.yaml.
type Manifest struct {
	RunID    string              `yaml:"run_id"`
	Seed     int64               `yaml:"seed"`
	Started  time.Time           `yaml:"started"`
	Finished time.Time           `yaml:"finished"`
	Config   Config              `yaml:"config"`
	Host     *utils.HardwareInfo `yaml:"host"`
	Summary  *Summary            `yaml:"summary,omitempty"`
}

func newManifest(r *Runner, started time.Time) *Manifest {
	r.hardware.DetectHardware()
	return &Manifest{
		RunID:   newRunID(),
		Seed:    r.seed,
		Started: started.UTC(),
		Config:  r.config,
		Host:    r.hardware,
	}
}

func (m *Manifest) finish(s *Summary, finished time.Time) {
	m.Summary = s
	m.Finished = finished.UTC()
}

func (m *Manifest) write(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadManifest loads a run manifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m := new(Manifest)
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("decode manifest %s: %w", path, err)
	}
	return m, nil
}
