package source

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/yx-aesthete/sejm-info/internal/domain"
	"github.com/yx-aesthete/sejm-info/internal/ports"
)

// PostgresSource reads the upstream tables directly from the database.
type PostgresSource struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.RecordSource = (*PostgresSource)(nil)

// NewPostgresSource wires a sql.DB implementation.
func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// ProcessesQuery selects every process column the analyzers read. Nullable columns
// are coalesced so a missing value reads as the zero value.
func (s *PostgresSource) ProcessesQuery() sq.SelectBuilder {
	return s.builder.
		Select(
			"id::text",
			"COALESCE(term_number, 0)",
			"COALESCE(number, '')",
			"COALESCE(title, '')",
			"COALESCE(description, '')",
			"COALESCE(document_type, '')",
			"COALESCE(project_type, '')",
			"COALESCE(urgency, '')",
			"COALESCE(is_finished, false)",
			"COALESCE(is_rejected, false)",
			"COALESCE(document_date::text, '')",
			"COALESCE(change_date::text, '')",
			"COALESCE(timeline::text, 'null')",
			"COALESCE(categories, '{}')",
			"COALESCE(extended_data::text, 'null')",
		).
		From(ProcessesTable).
		OrderBy("id")
}

// VotingsQuery selects every voting.
func (s *PostgresSource) VotingsQuery() sq.SelectBuilder {
	return s.builder.
		Select(
			"id",
			"COALESCE(term_number, 0)",
			"COALESCE(sitting_number, 0)",
			"COALESCE(voting_number, 0)",
			"COALESCE(process_id::text, '')",
			"COALESCE(topic, '')",
			"COALESCE(date::text, '')",
			"COALESCE(yes_count, 0)",
			"COALESCE(no_count, 0)",
			"COALESCE(abstain_count, 0)",
			"COALESCE(not_participating, 0)",
		).
		From(VotingsTable).
		OrderBy("id")
}

// PrintsQuery selects every print. The upstream table carries no body columns, so
// text and html are read from the row document and are empty when absent.
func (s *PostgresSource) PrintsQuery() sq.SelectBuilder {
	return s.builder.
		Select(
			"id::text",
			"COALESCE(term_number, 0)",
			"COALESCE(number, '')",
			"COALESCE(title, '')",
			"COALESCE(document_date::text, '')",
			"COALESCE(change_date::text, '')",
			"COALESCE(to_jsonb(prints)->>'text', '')",
			"COALESCE(to_jsonb(prints)->>'html', '')",
			"COALESCE(attachments::text, 'null')",
		).
		From(PrintsTable).
		OrderBy("id")
}

// FetchProcesses loads every legislative process.
func (s *PostgresSource) FetchProcesses(ctx context.Context) ([]domain.Process, error) {
	if s.db == nil {
		return nil, nil
	}

	var out []domain.Process
	err := s.query(ctx, ProcessesTable, s.ProcessesQuery(), func(rows *sql.Rows) error {
		var (
			p                        domain.Process
			documentDate, changeDate string
			timeline, extended       []byte
			categories               pq.StringArray
		)
		if err := rows.Scan(
			&p.ID, &p.TermNumber, &p.Number, &p.Title, &p.Description,
			&p.DocumentType, &p.ProjectType, &p.Urgency, &p.IsFinished, &p.IsRejected,
			&documentDate, &changeDate, &timeline, &categories, &extended,
		); err != nil {
			return err
		}
		p.DocumentDate = domain.Timestamp(documentDate)
		p.ChangeDate = domain.Timestamp(changeDate)
		p.Categories = []string(categories)
		if err := json.Unmarshal(timeline, &p.Timeline); err != nil {
			return fmt.Errorf("decode timeline of %s: %w", p.ID, err)
		}
		if err := json.Unmarshal(extended, &p.ExtendedData); err != nil {
			return fmt.Errorf("decode extended data of %s: %w", p.ID, err)
		}
		out = append(out, p)
		return nil
	})
	return out, err
}

// FetchVotings loads every voting.
func (s *PostgresSource) FetchVotings(ctx context.Context) ([]domain.Voting, error) {
	if s.db == nil {
		return nil, nil
	}

	var out []domain.Voting
	err := s.query(ctx, VotingsTable, s.VotingsQuery(), func(rows *sql.Rows) error {
		var (
			v    domain.Voting
			date string
		)
		if err := rows.Scan(
			&v.ID, &v.TermNumber, &v.SittingNumber, &v.VotingNumber, &v.ProcessID, &v.Topic,
			&date, &v.Yes, &v.No, &v.Abstain, &v.NotParticipating,
		); err != nil {
			return err
		}
		v.Date = domain.Timestamp(date)
		out = append(out, v)
		return nil
	})
	return out, err
}

// FetchPrints loads every print.
func (s *PostgresSource) FetchPrints(ctx context.Context) ([]domain.Print, error) {
	if s.db == nil {
		return nil, nil
	}

	var out []domain.Print
	err := s.query(ctx, PrintsTable, s.PrintsQuery(), func(rows *sql.Rows) error {
		var (
			p                        domain.Print
			documentDate, changeDate string
			attachments              []byte
		)
		if err := rows.Scan(
			&p.ID, &p.TermNumber, &p.Number, &p.Title,
			&documentDate, &changeDate, &p.Text, &p.HTML, &attachments,
		); err != nil {
			return err
		}
		p.DocumentDate = domain.Timestamp(documentDate)
		p.ChangeDate = domain.Timestamp(changeDate)
		if err := json.Unmarshal(attachments, &p.Attachments); err != nil {
			return fmt.Errorf("decode attachments of %s: %w", p.ID, err)
		}
		out = append(out, p)
		return nil
	})
	return out, err
}

func (s *PostgresSource) query(ctx context.Context, table string, builder sq.SelectBuilder, scan func(*sql.Rows) error) error {
	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build %s query: %w", table, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query %s: %w", table, err)
	}

	for rows.Next() {
		if err := scan(rows); err != nil {
			_ = rows.Close()
			return fmt.Errorf("scan %s: %w", table, err)
		}
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return fmt.Errorf("close rows: %w", closeErr)
	}

	return nil
}
