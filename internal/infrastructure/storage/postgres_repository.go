package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/yx-aesthete/sejm-info/internal/ports"
)

// PostgresRepository persists analysis results into Postgres.
type PostgresRepository struct {
	db    *sql.DB
	table reportTable
}

var _ ports.ReportRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB, table string) (*PostgresRepository, error) {
	t, err := newReportTable(table, sq.Dollar)
	if err != nil {
		return nil, err
	}
	return &PostgresRepository{db: db, table: t}, nil
}

// EnsureSchema creates the results table when it does not exist yet.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if r.db == nil {
		return nil
	}

	name := pq.QuoteIdentifier(r.table.name)
	schema := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
              run_id TEXT NOT NULL,
              analysis_type TEXT NOT NULL,
              results JSONB NOT NULL,
              generated_at TIMESTAMPTZ NOT NULL,
              PRIMARY KEY (run_id, analysis_type))`, name)

	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create %s: %w", r.table.name, err)
	}
	return nil
}

// SaveReport upserts the analysis result keyed by run and analysis type.
func (r *PostgresRepository) SaveReport(ctx context.Context, report ports.StoredReport) error {
	if r.db == nil {
		return nil
	}
	return r.table.exec(ctx, r.db, r.table.upsert(report.RunID, report.AnalysisType, report.Payload, report.GeneratedAt.UTC()))
}

// LatestReport returns the newest stored result of an analysis type.
func (r *PostgresRepository) LatestReport(ctx context.Context, analysisType string) (ports.StoredReport, bool, error) {
	if r.db == nil {
		return ports.StoredReport{}, false, nil
	}

	var generatedAt time.Time
	report, ok, err := r.table.queryLatest(ctx, r.db, analysisType, &generatedAt)
	if err != nil || !ok {
		return report, ok, err
	}
	report.GeneratedAt = generatedAt.UTC()
	return report, true, nil
}
