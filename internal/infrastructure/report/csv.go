package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/productscout/backend/internal/domain"
)

// CSVSink writes one CSV row per report, flushing after every row so a
// partial run leaves a readable file
type CSVSink struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVSink creates (or truncates) path and writes the header row
func NewCSVSink(path string) (*CSVSink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating report directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating report file: %w", err)
	}

	s := &CSVSink{file: f, writer: csv.NewWriter(f)}
	if err := s.writeRecord(Columns); err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

// Write implements domain.ReportSink
func (s *CSVSink) Write(ctx context.Context, r *domain.ProductReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeRecord(Row(r))
}

func (s *CSVSink) writeRecord(rec []string) error {
	if err := s.writer.Write(rec); err != nil {
		return fmt.Errorf("writing csv row: %w", err)
	}
	s.writer.Flush()
	return s.writer.Error()
}

// Close flushes and closes the file
func (s *CSVSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}
