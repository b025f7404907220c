package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestampParse(t *testing.T) {
	t.Parallel()

	cases := map[Timestamp]time.Time{
		"2024-05-01T10:00:00Z":          time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		"2024-05-01T10:00:00.123+02:00": time.Date(2024, 5, 1, 8, 0, 0, 123000000, time.UTC),
		"2024-05-01T10:00:00":           time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		"2024-05-01 10:00:00+00:00":     time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		"2024-05-01 12:00:00+02":        time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		"2024-05-01":                    time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	for raw, want := range cases {
		got, ok := raw.Parse()
		if !ok {
			t.Fatalf("%q: expected to parse", raw)
		}
		if !got.Equal(want) {
			t.Fatalf("%q: expected %v, got %v", raw, want, got)
		}
	}

	for _, raw := range []Timestamp{"", "   ", "yesterday", "01/05/2024"} {
		if _, ok := raw.Parse(); ok {
			t.Fatalf("%q: expected parse failure", raw)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	t.Parallel()

	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		end  time.Time
		want int
	}{
		{time.Date(2020, 4, 10, 0, 0, 0, 0, time.UTC), 100},
		{time.Date(2020, 1, 1, 23, 0, 0, 0, time.UTC), 0},
		{start, 0},
		{time.Date(2019, 12, 31, 12, 0, 0, 0, time.UTC), -1},
		{time.Date(2019, 12, 31, 0, 0, 0, 0, time.UTC), -1},
	}
	for _, c := range cases {
		if got := DaysBetween(start, c.end); got != c.want {
			t.Fatalf("%v: expected %d, got %d", c.end, c.want, got)
		}
	}
}

func TestExtendedDataNilSafe(t *testing.T) {
	t.Parallel()

	var ext *ExtendedData
	f, s, e := ext.ImpactFlags()
	if ext.Laws() != nil || ext.HasSummary() || ext.HasPDFAnalysis() || ext.KeyChangeCount() != 0 || ext.TagCount() != 0 || f || s || e {
		t.Fatalf("nil annotations must read as absent")
	}
}

func TestExtendedDataDecode(t *testing.T) {
	t.Parallel()

	raw := `{
		"simpleSummary": "Zmiana stawek",
		"keyChanges": ["a", "b"],
		"impact": {"financial": {"budgetImpact": 10}, "social": {}, "economic": null},
		"relatedLaws": [{"title": "Kodeks pracy", "relation": "nowelizuje", "dziennikUstaw": "Dz.U. 2020 poz. 1"}],
		"pdfAnalyzed": true
	}`
	var ext ExtendedData
	if err := json.Unmarshal([]byte(raw), &ext); err != nil {
		t.Fatalf("decode: %v", err)
	}
	f, s, e := ext.ImpactFlags()
	if !f || s || e {
		t.Fatalf("unexpected impact flags: %v %v %v", f, s, e)
	}
	laws := ext.Laws()
	if len(laws) != 1 || laws[0].Relation != RelationAmends || laws[0].Citation != "Dz.U. 2020 poz. 1" {
		t.Fatalf("unexpected laws: %+v", laws)
	}
	if !ext.HasSummary() || !ext.HasPDFAnalysis() || ext.KeyChangeCount() != 2 {
		t.Fatalf("unexpected accessors: %+v", ext)
	}
}

func TestProcessDefaults(t *testing.T) {
	t.Parallel()

	p := Process{}
	if p.ProjectTypeOrUnknown() != UnknownValue || p.DocumentTypeOrUnknown() != UnknownValue || p.UrgencyOrNormal() != NormalUrgency {
		t.Fatalf("unexpected defaults")
	}
	if (Process{IsFinished: true, IsRejected: true}).IsSuccessful() {
		t.Fatalf("rejected process is not successful")
	}
	if (Stage{}).Label(2) != "Stage 3" || (Stage{Name: "Komisja"}).Label(0) != "Komisja" {
		t.Fatalf("unexpected stage labels")
	}
}

func TestReportsEmptyHighlights(t *testing.T) {
	t.Parallel()

	reports := []Report{
		LawReferenceReport{ReportMeta: ReportMeta{Empty: true}},
		ProcessDynamicsReport{ReportMeta: ReportMeta{Empty: true}},
		VotingPatternsReport{ReportMeta: ReportMeta{Empty: true}},
		SuccessFactorsReport{ReportMeta: ReportMeta{Empty: true}},
		PrintReferenceReport{ReportMeta: ReportMeta{Empty: true}},
	}
	for _, r := range reports {
		if !r.IsEmpty() || len(r.Highlights()) != 1 {
			t.Fatalf("%s: unexpected empty highlights %v", r.Kind(), r.Highlights())
		}
	}
}
