package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/yx-aesthete/sejm-info/internal/domain"
	"github.com/yx-aesthete/sejm-info/internal/ports"
	"github.com/yx-aesthete/sejm-info/internal/stats"
)

const topFeatures = 10

// NumericFeatures names the numeric and boolean features in ranking order.
var NumericFeatures = [...]string{
	"num_categories",
	"timeline_length",
	"has_description",
	"has_pdf_analysis",
	"has_ai_summary",
	"num_key_changes",
	"num_related_laws",
	"num_tags",
	"has_financial_impact",
	"has_social_impact",
	"has_economic_impact",
}

// FeatureVector is the flattened snapshot of one process.
type FeatureVector struct {
	ProjectType  string
	DocumentType string
	Urgency      string
	// Numeric is indexed like NumericFeatures.
	Numeric      [len(NumericFeatures)]float64
	IsFinished   bool
	IsRejected   bool
	IsSuccessful bool
}

// Value returns a numeric feature by name.
func (f FeatureVector) Value(name string) (float64, bool) {
	for i, n := range NumericFeatures {
		if n == name {
			return f.Numeric[i], true
		}
	}
	return 0, false
}

// TimelineLength returns the number of timeline stages.
func (f FeatureVector) TimelineLength() float64 {
	return f.Numeric[1]
}

// ExtractFeatures maps a process to its feature vector. Absent fields default.
func ExtractFeatures(p domain.Process) FeatureVector {
	ext := p.ExtendedData
	financial, social, economic := ext.ImpactFlags()

	return FeatureVector{
		ProjectType:  p.ProjectTypeOrUnknown(),
		DocumentType: p.DocumentTypeOrUnknown(),
		Urgency:      p.UrgencyOrNormal(),
		Numeric: [len(NumericFeatures)]float64{
			float64(len(p.Categories)),
			float64(len(p.Timeline)),
			flag(p.Description != ""),
			flag(ext.HasPDFAnalysis()),
			flag(ext.HasSummary()),
			float64(ext.KeyChangeCount()),
			float64(len(ext.Laws())),
			float64(ext.TagCount()),
			flag(financial),
			flag(social),
			flag(economic),
		},
		IsFinished:   p.IsFinished,
		IsRejected:   p.IsRejected,
		IsSuccessful: p.IsSuccessful(),
	}
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// AggregateSuccessFactors computes outcome rates and ranks features by their
// correlation with success.
func AggregateSuccessFactors(processes []domain.Process, now time.Time) domain.SuccessFactorsReport {
	report := domain.SuccessFactorsReport{ReportMeta: domain.ReportMeta{GeneratedAt: now}}
	if len(processes) == 0 {
		report.Empty = true
		return report
	}

	vectors := make([]FeatureVector, 0, len(processes))
	for _, p := range processes {
		vectors = append(vectors, ExtractFeatures(p))
	}

	var (
		overall                 domain.OverallStats
		byType, byUrgency       stats.Groups[string, bool]
		timelineOK, timelineRej []float64
	)
	success := make([]float64, len(vectors))
	overall.Total = len(vectors)

	for i, f := range vectors {
		if f.IsFinished {
			overall.Finished++
		}
		if f.IsRejected {
			overall.Rejected++
			timelineRej = append(timelineRej, f.TimelineLength())
		}
		if f.IsSuccessful {
			overall.Successful++
			timelineOK = append(timelineOK, f.TimelineLength())
		}
		success[i] = flag(f.IsSuccessful)
		byType.Append(f.ProjectType, f.IsSuccessful)
		byUrgency.Append(f.Urgency, f.IsSuccessful)
	}

	total := float64(overall.Total)
	overall.SuccessRatePct = stats.Round(stats.Percent(float64(overall.Successful), total), 1)
	overall.RejectionRatePct = stats.Round(stats.Percent(float64(overall.Rejected), total), 1)

	report.Overall = overall
	report.SuccessByProjectType = groupRates(&byType)
	report.SuccessByUrgency = groupRates(&byUrgency)
	report.FeatureImportance = featureImportance(vectors, success)
	report.Insights = domain.SuccessInsights{
		AvgTimelineSuccessful: stats.Round(stats.Mean(timelineOK), 1),
		AvgTimelineRejected:   stats.Round(stats.Mean(timelineRej), 1),
	}
	return report
}

func groupRates(groups *stats.Groups[string, bool]) []domain.GroupRate {
	type row struct {
		domain.GroupRate
		rate float64
	}
	rows := make([]row, 0, groups.Len())
	groups.Each(func(key string, outcomes []bool) {
		successful := 0
		for _, ok := range outcomes {
			if ok {
				successful++
			}
		}
		rate := stats.Percent(float64(successful), float64(len(outcomes)))
		rows = append(rows, row{
			GroupRate: domain.GroupRate{
				Key:            key,
				Successful:     successful,
				Total:          len(outcomes),
				SuccessRatePct: stats.Round(rate, 1),
			},
			rate: rate,
		})
	})
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].rate > rows[j].rate })

	out := make([]domain.GroupRate, len(rows))
	for i, r := range rows {
		out[i] = r.GroupRate
	}
	return out
}

func featureImportance(vectors []FeatureVector, success []float64) []domain.FeatureCorrelation {
	column := make([]float64, len(vectors))
	out := make([]domain.FeatureCorrelation, 0, len(NumericFeatures))
	for i, name := range NumericFeatures {
		for j, f := range vectors {
			column[j] = f.Numeric[i]
		}
		r, ok := stats.Pearson(column, success)
		if !ok {
			continue
		}
		out = append(out, domain.FeatureCorrelation{Feature: name, Correlation: stats.Round(r, 3)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].Correlation) > math.Abs(out[j].Correlation)
	})
	return head(out, topFeatures)
}

// SuccessFactors relates process features to legislative outcomes.
type SuccessFactors struct{}

var _ Analyzer = SuccessFactors{}

func (SuccessFactors) Name() string { return domain.SuccessFactorsReport{}.Kind() }

func (SuccessFactors) Analyze(ctx context.Context, src ports.RecordSource, now time.Time) (domain.Report, error) {
	processes, err := src.FetchProcesses(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch processes: %w", err)
	}
	return AggregateSuccessFactors(processes, now), nil
}
