package report

import (
	"context"
	"errors"

	"github.com/productscout/backend/internal/domain"
)

// MultiSink fans every row out to several sinks
type MultiSink []domain.ReportSink

// Write stops at the first failing sink
func (m MultiSink) Write(ctx context.Context, r *domain.ProductReport) error {
	for _, s := range m {
		if err := s.Write(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink and joins their errors
func (m MultiSink) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
