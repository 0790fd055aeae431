package main

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// evalLog appends calibration rows to a CSV file, writing the header once.
type evalLog struct {
	f             *os.File
	headerWritten bool
}

func newEvalLog(path string) (*evalLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating evaluation log: %w", err)
	}
	return &evalLog{f: f}, nil
}

// Write appends one row.
func (l *evalLog) Write(rec EvalRecord) error {
	records := []EvalRecord{rec}
	if !l.headerWritten {
		if err := gocsv.Marshal(records, l.f); err != nil {
			return err
		}
		l.headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, l.f)
}

// Close closes the underlying file.
func (l *evalLog) Close() error {
	return l.f.Close()
}
