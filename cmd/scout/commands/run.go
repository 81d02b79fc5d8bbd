package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/productscout/backend/internal/app"
	"github.com/productscout/backend/internal/domain"
	"github.com/productscout/backend/internal/infrastructure/report"
	"github.com/productscout/backend/internal/usecase"
	"github.com/spf13/cobra"
)

func newRunCommand() *cobra.Command {
	var (
		csvPath    string
		sqlitePath string
		noProgress bool
	)

	cmd := &cobra.Command{
		Use:   "run QUERIES_FILE",
		Short: "Process a file of queries, one per line, into a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("csv") {
				cfg.Report.CSVPath = csvPath
			}
			if cmd.Flags().Changed("sqlite") {
				cfg.Report.SQLitePath = sqlitePath
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening queries: %w", err)
			}
			queries, err := usecase.LoadQueries(f)
			f.Close()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			pipeline, err := app.New(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer pipeline.Close()

			sink, err := openSinks(ctx)
			if err != nil {
				return err
			}

			bar := newProgress(cmd.ErrOrStderr(), len(queries), noProgress)
			summary, runErr := pipeline.Reports.RunBatch(ctx, queries, sink, func(r *domain.ProductReport) {
				bar.Add(r)
			})
			bar.Finish()

			if err := sink.Close(); err != nil && runErr == nil {
				runErr = fmt.Errorf("closing report: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Processed %d of %d queries: %d matched, %d failed\n",
				summary.Total, len(queries), summary.Matched, summary.Failed)
			if cfg.Report.CSVPath != "" {
				fmt.Fprintf(out, "CSV report: %s\n", cfg.Report.CSVPath)
			}
			if cfg.Report.SQLitePath != "" {
				fmt.Fprintf(out, "SQLite report: %s\n", cfg.Report.SQLitePath)
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "CSV report path (empty disables)")
	cmd.Flags().StringVar(&sqlitePath, "sqlite", "", "SQLite report path (empty disables)")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable the progress bar")
	return cmd
}

// openSinks opens every configured report target
func openSinks(ctx context.Context) (report.MultiSink, error) {
	var sinks report.MultiSink

	if cfg.Report.CSVPath != "" {
		csvSink, err := report.NewCSVSink(cfg.Report.CSVPath)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, csvSink)
	}

	if cfg.Report.SQLitePath != "" {
		dbSink, err := report.NewSQLiteSink(ctx, cfg.Report.SQLitePath)
		if err != nil {
			sinks.Close()
			return nil, err
		}
		logger.Info().Str("run_id", dbSink.RunID()).Str("path", cfg.Report.SQLitePath).Msg("recording run")
		sinks = append(sinks, dbSink)
	}

	if len(sinks) == 0 {
		return nil, fmt.Errorf("%w: no report target configured", domain.ErrInvalidRequest)
	}
	return sinks, nil
}
