package report

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/productscout/backend/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS product_reports (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id             TEXT NOT NULL,
	position           INTEGER NOT NULL,
	query              TEXT NOT NULL,
	matched            INTEGER NOT NULL,
	product_url        TEXT NOT NULL,
	match_score        INTEGER NOT NULL,
	match_tier         TEXT NOT NULL,
	pdf_link           TEXT NOT NULL,
	energy_class       TEXT NOT NULL,
	energy_label_link  TEXT NOT NULL,
	supplier           TEXT NOT NULL,
	source             TEXT NOT NULL,
	created_at         TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_product_reports_run ON product_reports(run_id);
CREATE INDEX IF NOT EXISTS idx_product_reports_query ON product_reports(query);
`

const insertReport = `INSERT INTO product_reports
	(run_id, position, query, matched, product_url, match_score, match_tier,
	 pdf_link, energy_class, energy_label_link, supplier, source, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// SQLiteSink appends report rows to a SQLite table. Rows of one sink share a run id.
type SQLiteSink struct {
	db       *sql.DB
	stmt     *sql.Stmt
	runID    string
	position int
}

// NewSQLiteSink opens (or creates) the database at path and prepares the table
func NewSQLiteSink(ctx context.Context, path string) (*SQLiteSink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	stmt, err := db.PrepareContext(ctx, insertReport)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("preparing insert: %w", err)
	}

	return &SQLiteSink{db: db, stmt: stmt, runID: uuid.NewString()}, nil
}

// RunID identifies the rows written by this sink
func (s *SQLiteSink) RunID() string {
	return s.runID
}

// Write implements domain.ReportSink
func (s *SQLiteSink) Write(ctx context.Context, r *domain.ProductReport) error {
	s.position++
	row := Row(r)
	_, err := s.stmt.ExecContext(ctx,
		s.runID, s.position, r.Query, boolToInt(r.Matched), r.ProductURL, r.MatchScore, row[4],
		r.DatasheetURL, r.EnergyClass, r.EnergyLabelImage, r.SupplierText, r.Source,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting report row: %w", err)
	}
	return nil
}

// Close releases the statement and the database
func (s *SQLiteSink) Close() error {
	s.stmt.Close()
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
