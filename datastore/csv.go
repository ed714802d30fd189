package datastore

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CSVSink writes a header and then one flushed row per record.
type CSVSink struct {
	f *os.File
	w *csv.Writer
}

func NewCSVSink(path string) (*CSVSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	s := &CSVSink{f: f, w: csv.NewWriter(f)}
	s.w.Write(columns)
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

func (s *CSVSink) Write(_ context.Context, r Record) error {
	if err := s.w.Write(r.Values()); err != nil {
		return err
	}
	s.w.Flush()
	return s.w.Error()
}

func (s *CSVSink) Close() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}

// WriteCSV writes records with a header row to w.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	cw.Write(columns)
	for _, r := range records {
		cw.Write(r.Values())
	}
	cw.Flush()
	return cw.Error()
}
