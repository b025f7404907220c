package analytics

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/yx-aesthete/sejm-info/internal/domain"
)

func TestExtractFeaturesDefaults(t *testing.T) {
	t.Parallel()

	f := ExtractFeatures(domain.Process{})
	if f.ProjectType != domain.UnknownValue || f.DocumentType != domain.UnknownValue || f.Urgency != domain.NormalUrgency {
		t.Fatalf("unexpected categorical defaults: %+v", f)
	}
	for i, v := range f.Numeric {
		if v != 0 {
			t.Fatalf("feature %s must default to 0, got %v", NumericFeatures[i], v)
		}
	}
	if f.IsFinished || f.IsRejected || f.IsSuccessful {
		t.Fatalf("labels must default to false")
	}
}

func TestExtractFeatures(t *testing.T) {
	t.Parallel()

	p := domain.Process{
		ProjectType:  "rządowy",
		DocumentType: "projekt ustawy",
		Urgency:      "pilny",
		Description:  "opis",
		Categories:   []string{"finanse", "praca"},
		Timeline:     []domain.Stage{{Name: "a"}, {Name: "b"}, {Name: "c"}},
		IsFinished:   true,
		ExtendedData: &domain.ExtendedData{
			SimpleSummary: "streszczenie",
			PDFAnalyzed:   true,
			KeyChanges:    []string{"x"},
			Tags:          []string{"t1", "t2"},
			RelatedLaws:   []domain.RelatedLaw{{Title: "Kodeks"}},
			Impact: &domain.Impact{
				Financial: json.RawMessage(`{"budgetImpact": 120}`),
				Social:    json.RawMessage(`{}`),
				Economic:  json.RawMessage(`null`),
			},
		},
	}

	f := ExtractFeatures(p)
	want := map[string]float64{
		"num_categories":       2,
		"timeline_length":      3,
		"has_description":      1,
		"has_pdf_analysis":     1,
		"has_ai_summary":       1,
		"num_key_changes":      1,
		"num_related_laws":     1,
		"num_tags":             2,
		"has_financial_impact": 1,
		"has_social_impact":    0,
		"has_economic_impact":  0,
	}
	for name, expected := range want {
		got, ok := f.Value(name)
		if !ok || got != expected {
			t.Fatalf("%s: expected %v, got %v (ok=%v)", name, expected, got, ok)
		}
	}
	if _, ok := f.Value("missing"); ok {
		t.Fatalf("unknown feature must not resolve")
	}
	if !f.IsSuccessful {
		t.Fatalf("finished and not rejected is successful")
	}
}

func TestAggregateSuccessFactors(t *testing.T) {
	t.Parallel()

	timeline := func(n int) []domain.Stage { return make([]domain.Stage, n) }
	pdf := &domain.ExtendedData{PDFAnalyzed: true}

	processes := []domain.Process{
		{ProjectType: "rządowy", Urgency: "pilny", IsFinished: true, Categories: []string{"a"}, Timeline: timeline(4), ExtendedData: pdf},
		{ProjectType: "rządowy", IsFinished: true, Timeline: timeline(6), ExtendedData: pdf},
		{ProjectType: "poselski", IsFinished: true, IsRejected: true, Categories: []string{"b"}, Timeline: timeline(2)},
		{ProjectType: "poselski"},
	}

	report := AggregateSuccessFactors(processes, testNow)

	wantOverall := domain.OverallStats{Total: 4, Finished: 3, Successful: 2, Rejected: 1, SuccessRatePct: 50, RejectionRatePct: 25}
	if report.Overall != wantOverall {
		t.Fatalf("expected %+v, got %+v", wantOverall, report.Overall)
	}

	wantTypes := []domain.GroupRate{
		{Key: "rządowy", Successful: 2, Total: 2, SuccessRatePct: 100},
		{Key: "poselski", Successful: 0, Total: 2, SuccessRatePct: 0},
	}
	if !reflect.DeepEqual(report.SuccessByProjectType, wantTypes) {
		t.Fatalf("unexpected project type rates: %+v", report.SuccessByProjectType)
	}
	wantUrgency := []domain.GroupRate{
		{Key: "pilny", Successful: 1, Total: 1, SuccessRatePct: 100},
		{Key: "normal", Successful: 1, Total: 3, SuccessRatePct: 33.3},
	}
	if !reflect.DeepEqual(report.SuccessByUrgency, wantUrgency) {
		t.Fatalf("unexpected urgency rates: %+v", report.SuccessByUrgency)
	}

	wantFeatures := []domain.FeatureCorrelation{
		{Feature: "has_pdf_analysis", Correlation: 1},
		{Feature: "timeline_length", Correlation: 0.894},
		{Feature: "num_categories", Correlation: 0},
	}
	if !reflect.DeepEqual(report.FeatureImportance, wantFeatures) {
		t.Fatalf("unexpected feature importance: %+v", report.FeatureImportance)
	}

	if report.Insights.AvgTimelineSuccessful != 5 || report.Insights.AvgTimelineRejected != 2 {
		t.Fatalf("unexpected insights: %+v", report.Insights)
	}
}

func TestAggregateSuccessFactorsEmpty(t *testing.T) {
	t.Parallel()

	if report := AggregateSuccessFactors(nil, testNow); !report.Empty {
		t.Fatalf("expected empty report")
	}
}
