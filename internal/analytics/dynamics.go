package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/yx-aesthete/sejm-info/internal/domain"
	"github.com/yx-aesthete/sejm-info/internal/ports"
	"github.com/yx-aesthete/sejm-info/internal/stats"
)

const (
	maxTotalDurationDays = 3650
	maxStageDurationDays = 365
	minStageSamples      = 5
	minTypeSamples       = 3
	topBottlenecks       = 10
	topFastest           = 5
	trendMonths          = 12
	monthLayout          = "2006-01"
)

// StageDuration is the elapsed whole days of one named stage.
type StageDuration struct {
	Stage string
	Days  int
}

// StageDurations computes per-stage elapsed days for a timeline. Stages missing a
// boundary, or with one that does not parse, are skipped. A repeated stage name
// keeps its first position and the last computed value.
func StageDurations(timeline []domain.Stage) []StageDuration {
	var out []StageDuration
	index := map[string]int{}
	for i, stage := range timeline {
		days, ok := stageDays(stage)
		if !ok {
			continue
		}
		name := stage.Label(i)
		if j, seen := index[name]; seen {
			out[j].Days = days
			continue
		}
		index[name] = len(out)
		out = append(out, StageDuration{Stage: name, Days: days})
	}
	return out
}

func stageDays(stage domain.Stage) (int, bool) {
	start, ok := stage.DateStart.Parse()
	if !ok {
		return 0, false
	}
	end, ok := stage.DateEnd.Parse()
	if !ok {
		return 0, false
	}
	return domain.DaysBetween(start, end), true
}

// TotalDuration returns the whole days from document date to change date of a
// finished process. ok is false for unfinished processes, unparsable dates and
// durations outside (0, 3650).
func TotalDuration(p domain.Process) (days int, finishedAt time.Time, ok bool) {
	if !p.IsFinished {
		return 0, time.Time{}, false
	}
	start, okStart := p.DocumentDate.Parse()
	end, okEnd := p.ChangeDate.Parse()
	if !okStart || !okEnd {
		return 0, time.Time{}, false
	}
	days = domain.DaysBetween(start, end)
	if days <= 0 || days >= maxTotalDurationDays {
		return 0, time.Time{}, false
	}
	return days, end, true
}

// AggregateProcessDynamics computes duration statistics, stage bottlenecks, speed by
// project type and monthly start/finish counts.
func AggregateProcessDynamics(processes []domain.Process, now time.Time) domain.ProcessDynamicsReport {
	report := domain.ProcessDynamicsReport{ReportMeta: domain.ReportMeta{GeneratedAt: now}}
	if len(processes) == 0 {
		report.Empty = true
		return report
	}

	var (
		totals   []float64
		byType   stats.Groups[string, float64]
		byStage  stats.Groups[string, float64]
		started  stats.Counter[string]
		finished stats.Counter[string]
	)

	for _, proc := range processes {
		if days, end, ok := TotalDuration(proc); ok {
			totals = append(totals, float64(days))
			byType.Append(proc.ProjectTypeOrUnknown(), float64(days))
			finished.Inc(end.Format(monthLayout))
		}

		if start, ok := proc.DocumentDate.Parse(); ok {
			started.Inc(start.Format(monthLayout))
		}

		for _, sd := range StageDurations(proc.Timeline) {
			if sd.Days < 0 || sd.Days > maxStageDurationDays {
				continue
			}
			byStage.Append(sd.Stage, float64(sd.Days))
		}
	}

	report.AvgTotalDurationDays = stats.Round(stats.Mean(totals), 1)
	report.MedianTotalDurationDays = stats.Round(stats.Median(totals), 1)
	report.TotalProcessesAnalyzed = len(totals)

	stages := make([]domain.StageStat, 0, byStage.Len())
	byStage.Each(func(name string, days []float64) {
		if len(days) < minStageSamples {
			return
		}
		stages = append(stages, domain.StageStat{
			Stage:      name,
			AvgDays:    stats.Round(stats.Mean(days), 1),
			MedianDays: stats.Round(stats.Median(days), 1),
			Count:      len(days),
		})
	})
	sort.SliceStable(stages, func(i, j int) bool { return stages[i].AvgDays > stages[j].AvgDays })

	report.Bottlenecks = head(stages, topBottlenecks)
	report.FastestStages = []domain.StageStat{}
	if len(stages) > topFastest {
		report.FastestStages = append(report.FastestStages, stages[len(stages)-topFastest:]...)
	}

	speeds := make([]domain.TypeSpeed, 0, byType.Len())
	byType.Each(func(projectType string, days []float64) {
		if len(days) < minTypeSamples {
			return
		}
		speeds = append(speeds, domain.TypeSpeed{
			Type:       projectType,
			AvgDays:    stats.Round(stats.Mean(days), 1),
			MedianDays: stats.Round(stats.Median(days), 1),
			Count:      len(days),
		})
	})
	sort.SliceStable(speeds, func(i, j int) bool { return speeds[i].AvgDays < speeds[j].AvgDays })
	report.SpeedByProjectType = speeds

	report.MonthlyTrends = monthlyTrends(&started, &finished)
	return report
}

func monthlyTrends(started, finished *stats.Counter[string]) []domain.MonthlyTrend {
	months := map[string]struct{}{}
	for _, e := range started.Entries() {
		months[e.Key] = struct{}{}
	}
	for _, e := range finished.Entries() {
		months[e.Key] = struct{}{}
	}

	keys := make([]string, 0, len(months))
	for m := range months {
		keys = append(keys, m)
	}
	sort.Strings(keys)
	if len(keys) > trendMonths {
		keys = keys[len(keys)-trendMonths:]
	}

	trends := make([]domain.MonthlyTrend, 0, len(keys))
	for _, m := range keys {
		trends = append(trends, domain.MonthlyTrend{Month: m, Started: started.Get(m), Finished: finished.Get(m)})
	}
	return trends
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		items = items[:n]
	}
	return append([]T{}, items...)
}

// ProcessDynamics analyzes process and stage durations.
type ProcessDynamics struct{}

var _ Analyzer = ProcessDynamics{}

func (ProcessDynamics) Name() string { return domain.ProcessDynamicsReport{}.Kind() }

func (ProcessDynamics) Analyze(ctx context.Context, src ports.RecordSource, now time.Time) (domain.Report, error) {
	processes, err := src.FetchProcesses(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch processes: %w", err)
	}
	return AggregateProcessDynamics(processes, now), nil
}
