package analytics

import (
	"fmt"
	"testing"

	"github.com/yx-aesthete/sejm-info/internal/domain"
)

func TestStageDurations(t *testing.T) {
	t.Parallel()

	timeline := []domain.Stage{
		stage("Komisja", "2020-01-01", "2020-01-11"),
		stage("", "2020-02-01T10:00:00Z", "2020-02-01T18:00:00Z"),
		stage("Senat", "2020-03-01", ""),
		stage("Prezydent", "bad", "2020-03-05"),
		stage("Komisja", "2020-01-01", "2020-01-03"),
		stage("Odwrotny", "2020-01-10", "2020-01-09T12:00:00Z"),
	}

	got := StageDurations(timeline)
	want := []StageDuration{{"Komisja", 2}, {"Stage 2", 0}, {"Odwrotny", -1}}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("duration %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestTotalDuration(t *testing.T) {
	t.Parallel()

	p := domain.Process{IsFinished: true, DocumentDate: "2020-01-01", ChangeDate: "2020-04-10T00:00:00Z"}
	days, end, ok := TotalDuration(p)
	if !ok || days != 100 {
		t.Fatalf("expected 100 days, got %d (ok=%v)", days, ok)
	}
	if end.Format("2006-01") != "2020-04" {
		t.Fatalf("unexpected finish month: %v", end)
	}

	cases := map[string]domain.Process{
		"unfinished":  {DocumentDate: "2020-01-01", ChangeDate: "2020-04-10"},
		"same day":    {IsFinished: true, DocumentDate: "2020-01-01", ChangeDate: "2020-01-01"},
		"inverted":    {IsFinished: true, DocumentDate: "2020-02-01", ChangeDate: "2020-01-01"},
		"too long":    {IsFinished: true, DocumentDate: "2000-01-01", ChangeDate: "2020-01-01"},
		"unparsable":  {IsFinished: true, DocumentDate: "01/01/2020", ChangeDate: "2020-04-10"},
		"missing end": {IsFinished: true, DocumentDate: "2020-01-01"},
	}
	for name, p := range cases {
		if _, _, ok := TotalDuration(p); ok {
			t.Fatalf("%s: expected duration to be excluded", name)
		}
	}
}

func TestAggregateProcessDynamics(t *testing.T) {
	t.Parallel()

	committee := stage("Komisja", "2020-01-01", "2020-01-11")
	senate := stage("Senat", "2020-01-01", "2020-01-03")

	finished := func(projectType, doc, change string, timeline ...domain.Stage) domain.Process {
		return domain.Process{
			ProjectType:  projectType,
			IsFinished:   true,
			DocumentDate: ts(doc),
			ChangeDate:   ts(change),
			Timeline:     timeline,
		}
	}

	processes := []domain.Process{
		finished("rządowy", "2020-01-01", "2020-04-10", committee, senate),
		finished("rządowy", "2020-02-01", "2020-03-22", committee, senate),
		finished("rządowy", "2020-03-01", "2020-03-31", committee, senate),
		finished("poselski", "2020-01-15", "2020-02-14", committee, senate),
		finished("poselski", "2020-01-20", "2020-01-30", committee),
		{
			DocumentDate: "2020-05-05",
			Timeline:     []domain.Stage{stage("Komisja", "2020-01-01", "2021-06-01")},
		},
	}

	report := AggregateProcessDynamics(processes, testNow)

	if report.TotalProcessesAnalyzed != 5 {
		t.Fatalf("expected 5 analyzed processes, got %d", report.TotalProcessesAnalyzed)
	}
	if report.AvgTotalDurationDays != 44 || report.MedianTotalDurationDays != 30 {
		t.Fatalf("unexpected duration stats: avg %v median %v", report.AvgTotalDurationDays, report.MedianTotalDurationDays)
	}

	if len(report.SpeedByProjectType) != 1 {
		t.Fatalf("types with fewer than 3 samples must be dropped: %+v", report.SpeedByProjectType)
	}
	speed := report.SpeedByProjectType[0]
	if speed.Type != "rządowy" || speed.AvgDays != 60 || speed.MedianDays != 50 || speed.Count != 3 {
		t.Fatalf("unexpected speed row: %+v", speed)
	}

	if len(report.Bottlenecks) != 1 {
		t.Fatalf("stages with fewer than 5 samples must be dropped: %+v", report.Bottlenecks)
	}
	if b := report.Bottlenecks[0]; b.Stage != "Komisja" || b.AvgDays != 10 || b.Count != 5 {
		t.Fatalf("unexpected bottleneck: %+v", b)
	}
	if len(report.FastestStages) != 0 {
		t.Fatalf("fastest stages need more than 5 ranked stages: %+v", report.FastestStages)
	}

	wantTrends := []domain.MonthlyTrend{
		{Month: "2020-01", Started: 3, Finished: 1},
		{Month: "2020-02", Started: 1, Finished: 1},
		{Month: "2020-03", Started: 1, Finished: 2},
		{Month: "2020-04", Started: 0, Finished: 1},
		{Month: "2020-05", Started: 1, Finished: 0},
	}
	if len(report.MonthlyTrends) != len(wantTrends) {
		t.Fatalf("expected %v, got %v", wantTrends, report.MonthlyTrends)
	}
	for i := range wantTrends {
		if report.MonthlyTrends[i] != wantTrends[i] {
			t.Fatalf("trend %d: expected %+v, got %+v", i, wantTrends[i], report.MonthlyTrends[i])
		}
	}
}

func TestAggregateProcessDynamicsStageRanking(t *testing.T) {
	t.Parallel()

	var processes []domain.Process
	for i := 0; i < 5; i++ {
		var timeline []domain.Stage
		for s := 1; s <= 7; s++ {
			timeline = append(timeline, stage(fmt.Sprintf("S%d", s), "2020-01-01", fmt.Sprintf("2020-01-%02d", 1+s)))
		}
		processes = append(processes, domain.Process{Timeline: timeline})
	}

	report := AggregateProcessDynamics(processes, testNow)

	if len(report.Bottlenecks) != 7 || report.Bottlenecks[0].Stage != "S7" {
		t.Fatalf("unexpected bottlenecks: %+v", report.Bottlenecks)
	}
	if len(report.FastestStages) != 5 {
		t.Fatalf("expected 5 fastest stages, got %+v", report.FastestStages)
	}
	if report.FastestStages[0].Stage != "S5" || report.FastestStages[4].Stage != "S1" {
		t.Fatalf("fastest stages must be the ranking tail: %+v", report.FastestStages)
	}
	if report.TotalProcessesAnalyzed != 0 || report.AvgTotalDurationDays != 0 {
		t.Fatalf("unfinished processes have no total duration")
	}
}

func TestAggregateProcessDynamicsKeepsLastTwelveMonths(t *testing.T) {
	t.Parallel()

	var processes []domain.Process
	for m := 1; m <= 15; m++ {
		year, month := 2020+(m-1)/12, (m-1)%12+1
		processes = append(processes, domain.Process{DocumentDate: ts(fmt.Sprintf("%d-%02d-10", year, month))})
	}

	report := AggregateProcessDynamics(processes, testNow)
	if len(report.MonthlyTrends) != 12 {
		t.Fatalf("expected 12 months, got %d", len(report.MonthlyTrends))
	}
	if report.MonthlyTrends[0].Month != "2020-04" || report.MonthlyTrends[11].Month != "2021-03" {
		t.Fatalf("unexpected window: %s..%s", report.MonthlyTrends[0].Month, report.MonthlyTrends[11].Month)
	}
}

func TestAggregateProcessDynamicsEmpty(t *testing.T) {
	t.Parallel()

	if report := AggregateProcessDynamics(nil, testNow); !report.Empty {
		t.Fatalf("expected empty report")
	}
}
