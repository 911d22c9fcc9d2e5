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
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/ethereum/go-ethereum/log"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
)

// amplitudeSize is the memory taken by one complex128 amplitude.
const amplitudeSize = 16

// HardwareInfo describes the host a benchmark runs on.
type HardwareInfo struct {
	Hostname    string  `yaml:"hostname"`
	OS          string  `yaml:"os"`
	Arch        string  `yaml:"arch"`
	GoVersion   string  `yaml:"go_version"`
	CPUModel    string  `yaml:"cpu_model"`
	CPUCores    int     `yaml:"cpu_cores"`
	CPUThreads  int     `yaml:"cpu_threads"`
	MemoryGB    float64 `yaml:"memory_gb"`
	AvailableGB float64 `yaml:"available_gb"`

	detected bool
	mutex    sync.Mutex
}

// NewHardwareDetector creates a detector. Detection runs lazily on first use.
func NewHardwareDetector() *HardwareInfo {
	return &HardwareInfo{
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
		GoVersion:  runtime.Version(),
		CPUCores:   runtime.NumCPU(),
		CPUThreads: runtime.NumCPU(),
	}
}

// DetectHardware queries the host. Probes that fail leave the runtime
// defaults in place.
func (h *HardwareInfo) DetectHardware() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.detected {
		return
	}
	h.detected = true

	if name, err := os.Hostname(); err == nil {
		h.Hostname = name
	}
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		h.CPUModel = infos[0].ModelName
	} else if err != nil {
		log.Debug("CPU info unavailable", "err", err)
	}
	if n, err := cpu.Counts(false); err == nil && n > 0 {
		h.CPUCores = n
	}
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		h.CPUThreads = n
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		h.MemoryGB = float64(vm.Total) / (1 << 30)
		h.AvailableGB = float64(vm.Available) / (1 << 30)
	} else {
		log.Debug("Memory info unavailable", "err", err)
	}

	log.Info("Detected hardware",
		"cpu", h.CPUModel,
		"cores", h.CPUCores,
		"threads", h.CPUThreads,
		"memory_gb", fmt.Sprintf("%.1f", h.MemoryGB))
}

// DetermineOptimalQubits returns the largest lane count whose state vector
// fits in a quarter of the available memory, never exceeding limit. Without
// memory information limit is returned.
func (h *HardwareInfo) DetermineOptimalQubits(limit int) int {
	h.DetectHardware()

	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.AvailableGB <= 0 {
		return limit
	}
	budget := h.AvailableGB * (1 << 30) / 4
	n := 0
	for n < limit && float64(uint64(1)<<uint(n+1))*amplitudeSize <= budget {
		n++
	}
	return n
}

// Description returns a one-line summary of the host.
func (h *HardwareInfo) Description() string {
	h.DetectHardware()

	h.mutex.Lock()
	defer h.mutex.Unlock()

	return fmt.Sprintf("%s/%s, CPU: %s (%d cores, %d threads), Memory: %.1f GB",
		h.OS, h.Arch, h.CPUModel, h.CPUCores, h.CPUThreads, h.MemoryGB)
}
