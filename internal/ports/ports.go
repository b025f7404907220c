package ports

import (
	"context"
	"time"

	"github.com/yx-aesthete/sejm-info/internal/domain"
)

// RecordSource returns complete snapshots of the upstream collections.
type RecordSource interface {
	FetchProcesses(ctx context.Context) ([]domain.Process, error)
	FetchVotings(ctx context.Context) ([]domain.Voting, error)
	FetchPrints(ctx context.Context) ([]domain.Print, error)
}

// StoredReport is a persisted analyzer result.
type StoredReport struct {
	RunID        string
	AnalysisType string
	Payload      []byte
	GeneratedAt  time.Time
}

// ReportRepository persists analyzer results.
type ReportRepository interface {
	SaveReport(ctx context.Context, report StoredReport) error
	LatestReport(ctx context.Context, analysisType string) (StoredReport, bool, error)
}

// Notifier publishes report digests to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when refresh runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
