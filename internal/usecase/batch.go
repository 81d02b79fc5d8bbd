package usecase

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/productscout/backend/internal/domain"
)

// LoadQueries reads one query per line. Blank lines are skipped; input without
// any query is ErrEmptyInput.
func LoadQueries(r io.Reader) ([]string, error) {
	var queries []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if q := strings.TrimSpace(scanner.Text()); q != "" {
			queries = append(queries, q)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading queries: %w", err)
	}
	if len(queries) == 0 {
		return nil, domain.ErrEmptyInput
	}
	return queries, nil
}

// BatchSummary counts the outcome of a batch run
type BatchSummary struct {
	Total   int
	Matched int
	Failed  int
}

// RunBatch processes queries one at a time and writes exactly one row per query
// to sink. A query that fails is recorded as unmatched. onDone, when set, is
// called after each row. Only context cancellation or a sink failure stops the run.
func (s *ReportService) RunBatch(
	ctx context.Context,
	queries []string,
	sink domain.ReportSink,
	onDone func(*domain.ProductReport),
) (BatchSummary, error) {
	var summary BatchSummary

	for _, q := range queries {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		report, err := s.Process(ctx, q)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return summary, ctxErr
			}
			s.logger.Error().Err(err).Str("query", q).Msg("query failed")
			report = domain.UnmatchedReport(q)
			summary.Failed++
		}

		summary.Total++
		if report.Matched {
			summary.Matched++
		}

		if err := sink.Write(ctx, report); err != nil {
			return summary, fmt.Errorf("writing report for %q: %w", q, err)
		}
		if onDone != nil {
			onDone(report)
		}
	}

	return summary, nil
}
