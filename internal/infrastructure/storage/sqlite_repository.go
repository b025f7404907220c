package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"github.com/yx-aesthete/sejm-info/internal/ports"
)

// Fixed-width UTC layout so lexical order matches chronological order.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteRepository keeps analysis results in a local SQLite file.
// All methods are safe for concurrent use.
type SQLiteRepository struct {
	db    *sql.DB
	table reportTable
	mu    sync.RWMutex
}

var _ ports.ReportRepository = (*SQLiteRepository)(nil)

// OpenSQLite opens (or creates) the database at path and prepares the results table.
func OpenSQLite(path, table string) (*SQLiteRepository, error) {
	t, err := newReportTable(table, sq.Question)
	if err != nil {
		return nil, err
	}

	connStr := path
	if path == ":memory:" {
		connStr = "file::memory:"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	r := &SQLiteRepository{db: db, table: t}
	if err := r.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return r, nil
}

func (r *SQLiteRepository) createTables() error {
	schema := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %[1]s (
		run_id TEXT NOT NULL,
		analysis_type TEXT NOT NULL,
		results TEXT NOT NULL,
		generated_at TEXT NOT NULL,
		PRIMARY KEY (run_id, analysis_type)
	);

	CREATE INDEX IF NOT EXISTS idx_%[1]s_type ON %[1]s(analysis_type, generated_at DESC);
	`, r.table.name)

	if _, err := r.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *SQLiteRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.db.Close()
}

// SaveReport upserts the analysis result keyed by run and analysis type.
func (r *SQLiteRepository) SaveReport(ctx context.Context, report ports.StoredReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stamp := report.GeneratedAt.UTC().Format(sqliteTimeLayout)
	return r.table.exec(ctx, r.db, r.table.upsert(report.RunID, report.AnalysisType, report.Payload, stamp))
}

// LatestReport returns the newest stored result of an analysis type.
func (r *SQLiteRepository) LatestReport(ctx context.Context, analysisType string) (ports.StoredReport, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stamp string
	report, ok, err := r.table.queryLatest(ctx, r.db, analysisType, &stamp)
	if err != nil || !ok {
		return report, ok, err
	}
	generatedAt, err := time.Parse(sqliteTimeLayout, stamp)
	if err != nil {
		return ports.StoredReport{}, false, fmt.Errorf("parse generated_at %q: %w", stamp, err)
	}
	report.GeneratedAt = generatedAt
	return report, true, nil
}
