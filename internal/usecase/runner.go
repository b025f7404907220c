package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yx-aesthete/sejm-info/internal/analytics"
	"github.com/yx-aesthete/sejm-info/internal/domain"
	"github.com/yx-aesthete/sejm-info/internal/ports"
)

// RunnerDeps wires all driven adapters into the analysis runner.
type RunnerDeps struct {
	Source     ports.RecordSource
	Registry   *analytics.Registry
	Repository ports.ReportRepository
	Notifier   ports.Notifier
	Logger     *slog.Logger
	Clock      func() time.Time
	NewRunID   func() string
}

// Outcome is one analyzer result of a run.
type Outcome struct {
	RunID  string
	Name   string
	Report domain.Report
}

// Runner fetches records, runs analyzers, persists and publishes their reports.
type Runner struct {
	source     ports.RecordSource
	registry   *analytics.Registry
	repository ports.ReportRepository
	notifier   ports.Notifier
	logger     *slog.Logger
	clock      func() time.Time
	newRunID   func() string
}

// NewRunner constructs the orchestration component.
func NewRunner(deps RunnerDeps) *Runner {
	r := &Runner{
		source:     deps.Source,
		registry:   deps.Registry,
		repository: deps.Repository,
		notifier:   deps.Notifier,
		logger:     deps.Logger,
		clock:      deps.Clock,
		newRunID:   deps.NewRunID,
	}
	if r.registry == nil {
		r.registry = analytics.DefaultRegistry()
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.clock == nil {
		r.clock = func() time.Time { return time.Now().UTC() }
	}
	if r.newRunID == nil {
		r.newRunID = func() string { return uuid.NewString() }
	}
	return r
}

// Names lists the available analyzers.
func (r *Runner) Names() []string {
	return r.registry.Names()
}

// Analyze runs one analyzer by name. Persistence failures are logged, not returned.
func (r *Runner) Analyze(ctx context.Context, name string) (Outcome, error) {
	analyzer, err := r.registry.Resolve(name)
	if err != nil {
		return Outcome{}, err
	}

	runID := r.newRunID()
	out, err := r.run(ctx, r.source, runID, analyzer, r.clock())
	if err != nil {
		return Outcome{}, err
	}
	if err := r.persist(ctx, out); err != nil {
		r.logger.Warn("persist report failed", "analysis", name, "run_id", runID, "error", err)
	}
	return out, nil
}

// AnalyzeAll runs every registered analyzer over one shared record snapshot.
// Supplementary analyzers that fail are left out of the result.
func (r *Runner) AnalyzeAll(ctx context.Context) ([]Outcome, error) {
	outcomes, err := r.runAll(ctx, r.clock())
	if err != nil {
		return nil, err
	}
	for _, out := range outcomes {
		if err := r.persist(ctx, out); err != nil {
			r.logger.Warn("persist report failed", "analysis", out.Name, "run_id", out.RunID, "error", err)
		}
	}
	return outcomes, nil
}

// Refresh runs every analyzer at trigger, persists the reports and publishes a digest.
// Unlike Analyze, persistence and notification failures are returned.
func (r *Runner) Refresh(ctx context.Context, trigger time.Time) error {
	outcomes, err := r.runAll(ctx, trigger)
	if err != nil {
		return err
	}

	var errs []error
	for _, out := range outcomes {
		if err := r.persist(ctx, out); err != nil {
			errs = append(errs, fmt.Errorf("persist %s: %w", out.Name, err))
		}
	}

	if r.notifier != nil {
		if err := r.notifier.PublishDigest(ctx, BuildDigest(outcomes)); err != nil {
			errs = append(errs, fmt.Errorf("publish digest: %w", err))
		}
	}

	return errors.Join(errs...)
}

// Latest returns the newest persisted report of an analyzer.
func (r *Runner) Latest(ctx context.Context, name string) (ports.StoredReport, bool, error) {
	if _, err := r.registry.Resolve(name); err != nil {
		return ports.StoredReport{}, false, err
	}
	if r.repository == nil {
		return ports.StoredReport{}, false, nil
	}
	report, ok, err := r.repository.LatestReport(ctx, name)
	if err != nil {
		return ports.StoredReport{}, false, fmt.Errorf("load latest %s: %w", name, err)
	}
	return report, ok, nil
}

func (r *Runner) runAll(ctx context.Context, now time.Time) ([]Outcome, error) {
	runID := r.newRunID()
	src := newSnapshotSource(r.source)

	outcomes := make([]Outcome, 0, len(r.registry.Names()))
	for _, name := range r.registry.Names() {
		analyzer, err := r.registry.Resolve(name)
		if err != nil {
			return nil, err
		}
		out, err := r.run(ctx, src, runID, analyzer, now)
		if err != nil {
			if analytics.IsSupplementary(analyzer) && ctx.Err() == nil {
				r.logger.Warn("supplementary analysis skipped", "analysis", name, "run_id", runID, "error", err)
				continue
			}
			return nil, err
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}

func (r *Runner) run(ctx context.Context, src ports.RecordSource, runID string, analyzer analytics.Analyzer, now time.Time) (Outcome, error) {
	if src == nil {
		return Outcome{}, fmt.Errorf("run %s: no record source configured", analyzer.Name())
	}

	started := time.Now()
	logger := r.logger.With("analysis", analyzer.Name(), "run_id", runID)
	logger.Debug("analysis started")

	report, err := analyzer.Analyze(ctx, src, now)
	if err != nil {
		logger.Error("analysis failed", "error", err)
		return Outcome{}, fmt.Errorf("run %s: %w", analyzer.Name(), err)
	}

	logger.Info("analysis finished", "duration", time.Since(started), "empty", report.IsEmpty())
	return Outcome{RunID: runID, Name: analyzer.Name(), Report: report}, nil
}

func (r *Runner) persist(ctx context.Context, out Outcome) error {
	if r.repository == nil {
		return nil
	}

	payload, err := json.Marshal(out.Report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	return r.repository.SaveReport(ctx, ports.StoredReport{
		RunID:        out.RunID,
		AnalysisType: out.Name,
		Payload:      payload,
		GeneratedAt:  out.Report.GeneratedTime(),
	})
}

// BuildDigest formats report highlights as a plain-text message.
func BuildDigest(outcomes []Outcome) string {
	var b strings.Builder
	for i, out := range outcomes {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s\n", strings.ToUpper(out.Name))
		for _, line := range out.Report.Highlights() {
			fmt.Fprintf(&b, "- %s\n", line)
		}
	}
	return strings.TrimSpace(b.String())
}

// snapshotSource fetches each collection at most once so every analyzer of a run
// sees the same records.
type snapshotSource struct {
	src ports.RecordSource

	processes, votings, prints sync.Once

	processList []domain.Process
	processErr  error
	votingList  []domain.Voting
	votingErr   error
	printList   []domain.Print
	printErr    error
}

var _ ports.RecordSource = (*snapshotSource)(nil)

func newSnapshotSource(src ports.RecordSource) ports.RecordSource {
	if src == nil {
		return nil
	}
	return &snapshotSource{src: src}
}

func (s *snapshotSource) FetchProcesses(ctx context.Context) ([]domain.Process, error) {
	s.processes.Do(func() { s.processList, s.processErr = s.src.FetchProcesses(ctx) })
	return s.processList, s.processErr
}

func (s *snapshotSource) FetchVotings(ctx context.Context) ([]domain.Voting, error) {
	s.votings.Do(func() { s.votingList, s.votingErr = s.src.FetchVotings(ctx) })
	return s.votingList, s.votingErr
}

func (s *snapshotSource) FetchPrints(ctx context.Context) ([]domain.Print, error) {
	s.prints.Do(func() { s.printList, s.printErr = s.src.FetchPrints(ctx) })
	return s.printList, s.printErr
}
