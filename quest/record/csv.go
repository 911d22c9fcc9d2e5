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

package record

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Writer appends records to a CSV file. The header is written on creation.
type Writer struct {
	file   *os.File
	csv    *csv.Writer
	rows   int
	closed bool
}

// Create truncates or creates path and writes the header row.
func Create(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := &Writer{file: f, csv: csv.NewWriter(f)}
	if err := w.csv.Write(Header()); err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

// Write appends one row and flushes it to the file.
func (w *Writer) Write(r *Record) error {
	if w.closed {
		return os.ErrClosed
	}
	if err := w.csv.Write(r.Row()); err != nil {
		return err
	}
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("write record %d: %w", r.Index, err)
	}
	w.rows++
	return nil
}

// Rows returns the number of records written.
func (w *Writer) Rows() int { return w.rows }

// Close flushes pending output and closes the file. It is safe to call more
// than once.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.csv.Flush()
	return errors.Join(w.csv.Error(), w.file.Close())
}

// ReadFile loads every record of the CSV file at path.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// Read parses a benchmark table. Columns are matched by header name, so
// their order may differ from Header; every column must be present.
func Read(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty table", ErrMissingColumn)
	}
	if err != nil {
		return nil, err
	}
	position := make(map[string]int, len(header))
	for i, name := range header {
		position[name] = i
	}
	order := make([]int, len(columns))
	for i, c := range columns {
		p, ok := position[c.name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c.name)
		}
		order[i] = p
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		var rec Record
		for i := range columns {
			if err := columns[i].parse(&rec, row[order[i]]); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
		}
		records = append(records, rec)
	}
	return records, nil
}
