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

// Package record defines the benchmark table: one row per generated circuit.
package record

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrMissingColumn is returned when a table lacks a required column.
var ErrMissingColumn = errors.New("missing column")

// Record is one benchmark row. Durations are in milliseconds.
type Record struct {
	Index           int
	TranspileMs     float64
	TranspileOpt3Ms float64
	ExecMs          float64
	TotalMs         float64
	NumQubits       int
	DepthMaxConfig  int
	RealDepth       int
	NumGates        int
	Num1QGates      int
	Num2QGates      int
	NumCX           int
	NumCZ           int
	NumSwap         int
	AvgGateDensity  float64
	QasmFile        string
	ImgFile         string
	HistFile        string
}

type kind int

const (
	intCol kind = iota
	msCol
	densityCol
	textCol
)

// column binds a table column to a Record field.
type column struct {
	name string
	kind kind
	i    func(r *Record) *int
	f    func(r *Record) *float64
	s    func(r *Record) *string
}

var columns = []column{
	{name: "index", kind: intCol, i: func(r *Record) *int { return &r.Index }},
	{name: "transpile_ms", kind: msCol, f: func(r *Record) *float64 { return &r.TranspileMs }},
	{name: "transpile_opt3_ms", kind: msCol, f: func(r *Record) *float64 { return &r.TranspileOpt3Ms }},
	{name: "exec_ms", kind: msCol, f: func(r *Record) *float64 { return &r.ExecMs }},
	{name: "total_ms", kind: msCol, f: func(r *Record) *float64 { return &r.TotalMs }},
	{name: "num_qubits", kind: intCol, i: func(r *Record) *int { return &r.NumQubits }},
	{name: "depth_max_config", kind: intCol, i: func(r *Record) *int { return &r.DepthMaxConfig }},
	{name: "real_depth", kind: intCol, i: func(r *Record) *int { return &r.RealDepth }},
	{name: "num_gates", kind: intCol, i: func(r *Record) *int { return &r.NumGates }},
	{name: "num_1q_gates", kind: intCol, i: func(r *Record) *int { return &r.Num1QGates }},
	{name: "num_2q_gates", kind: intCol, i: func(r *Record) *int { return &r.Num2QGates }},
	{name: "num_cx", kind: intCol, i: func(r *Record) *int { return &r.NumCX }},
	{name: "num_cz", kind: intCol, i: func(r *Record) *int { return &r.NumCZ }},
	{name: "num_swap", kind: intCol, i: func(r *Record) *int { return &r.NumSwap }},
	{name: "avg_gate_density", kind: densityCol, f: func(r *Record) *float64 { return &r.AvgGateDensity }},
	{name: "qasm_file", kind: textCol, s: func(r *Record) *string { return &r.QasmFile }},
	{name: "img_file", kind: textCol, s: func(r *Record) *string { return &r.ImgFile }},
	{name: "hist_file", kind: textCol, s: func(r *Record) *string { return &r.HistFile }},
}

var columnIndex = func() map[string]int {
	m := make(map[string]int, len(columns))
	for i, c := range columns {
		m[c.name] = i
	}
	return m
}()

// Header returns the column names in table order.
func Header() []string {
	h := make([]string, len(columns))
	for i, c := range columns {
		h[i] = c.name
	}
	return h
}

// NumericColumns returns the names of the numeric columns in table order.
func NumericColumns() []string {
	var names []string
	for _, c := range columns {
		if c.kind != textCol {
			names = append(names, c.name)
		}
	}
	return names
}

// Row formats r in column order: milliseconds with 3 decimals, the density
// with 4, integers plain.
func (r *Record) Row() []string {
	row := make([]string, len(columns))
	for i, c := range columns {
		switch c.kind {
		case intCol:
			row[i] = strconv.Itoa(*c.i(r))
		case msCol:
			row[i] = strconv.FormatFloat(*c.f(r), 'f', 3, 64)
		case densityCol:
			row[i] = strconv.FormatFloat(*c.f(r), 'f', 4, 64)
		case textCol:
			row[i] = *c.s(r)
		}
	}
	return row
}

func (c *column) parse(r *Record, value string) error {
	switch c.kind {
	case intCol:
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("column %s: %w", c.name, err)
		}
		*c.i(r) = v
	case msCol, densityCol:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("column %s: %w", c.name, err)
		}
		*c.f(r) = v
	case textCol:
		*c.s(r) = value
	}
	return nil
}

// Value returns the numeric column name of r.
func (r *Record) Value(name string) (float64, error) {
	idx, ok := columnIndex[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingColumn, name)
	}
	c := columns[idx]
	switch c.kind {
	case intCol:
		return float64(*c.i(r)), nil
	case msCol, densityCol:
		return *c.f(r), nil
	}
	return 0, fmt.Errorf("column %s is not numeric", name)
}

// NumericColumn extracts a numeric column from a set of records.
func NumericColumn(records []Record, name string) ([]float64, error) {
	out := make([]float64, len(records))
	for i := range records {
		v, err := records[i].Value(name)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
