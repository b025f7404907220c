package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	sq "github.com/Masterminds/squirrel"

	"github.com/yx-aesthete/sejm-info/internal/ports"
)

// DefaultTable is where analysis results are written unless configured otherwise.
const DefaultTable = "ml_analysis_results"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// reportTable holds the statements shared by the SQL repositories.
type reportTable struct {
	name    string
	builder sq.StatementBuilderType
}

func newReportTable(name string, format sq.PlaceholderFormat) (reportTable, error) {
	if name == "" {
		name = DefaultTable
	}
	if !tableName.MatchString(name) {
		return reportTable{}, fmt.Errorf("invalid table name %q", name)
	}
	return reportTable{name: name, builder: sq.StatementBuilder.PlaceholderFormat(format)}, nil
}

func (t reportTable) upsert(runID, analysisType string, payload []byte, generatedAt any) sq.InsertBuilder {
	return t.builder.
		Insert(t.name).
		Columns("run_id", "analysis_type", "results", "generated_at").
		Values(runID, analysisType, string(payload), generatedAt).
		Suffix("ON CONFLICT (run_id, analysis_type) DO UPDATE SET results = excluded.results, generated_at = excluded.generated_at")
}

func (t reportTable) latest(analysisType string) sq.SelectBuilder {
	return t.builder.
		Select("run_id", "analysis_type", "results", "generated_at").
		From(t.name).
		Where(sq.Eq{"analysis_type": analysisType}).
		OrderBy("generated_at DESC").
		Limit(1)
}

func (t reportTable) exec(ctx context.Context, db *sql.DB, builder sq.InsertBuilder) error {
	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert report: %w", err)
	}
	return nil
}

// queryLatest scans the newest row; generatedAt receives the raw timestamp column.
func (t reportTable) queryLatest(ctx context.Context, db *sql.DB, analysisType string, generatedAt any) (ports.StoredReport, bool, error) {
	query, args, err := t.latest(analysisType).ToSql()
	if err != nil {
		return ports.StoredReport{}, false, fmt.Errorf("build select: %w", err)
	}

	var (
		report  ports.StoredReport
		payload []byte
	)
	row := db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&report.RunID, &report.AnalysisType, &payload, generatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ports.StoredReport{}, false, nil
		}
		return ports.StoredReport{}, false, fmt.Errorf("select latest report: %w", err)
	}
	report.Payload = payload
	return report, true, nil
}
