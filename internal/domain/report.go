package domain

import (
	"fmt"
	"time"
)

// Report is the immutable output of one analyzer run.
type Report interface {
	Kind() string
	IsEmpty() bool
	GeneratedTime() time.Time
	// Highlights summarises the top findings as short human-readable lines.
	Highlights() []string
}

// ReportMeta carries fields shared by every report. Empty marks a run over an empty
// population, which is distinct from a failed run.
type ReportMeta struct {
	GeneratedAt time.Time `json:"generated_at"`
	Empty       bool      `json:"empty,omitempty"`
}

// IsEmpty reports whether the run had nothing to analyse.
func (m ReportMeta) IsEmpty() bool { return m.Empty }

// GeneratedTime returns the run time.
func (m ReportMeta) GeneratedTime() time.Time { return m.GeneratedAt }

// NameCount is one ranked frequency entry.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// LawEdge links a process to a referenced law.
type LawEdge struct {
	Law      string `json:"law"`
	Relation string `json:"relation"`
	Citation string `json:"citation,omitempty"`
}

// ProcessLaws lists the laws referenced by one process.
type ProcessLaws struct {
	Process string    `json:"process"`
	Laws    []LawEdge `json:"laws"`
}

// LawReferenceReport ranks laws referenced by process annotations.
type LawReferenceReport struct {
	ReportMeta
	MostReferenced       []NameCount   `json:"most_referenced_laws"`
	MostAmended          []NameCount   `json:"most_amended_laws"`
	MostRepealed         []NameCount   `json:"most_repealed_laws"`
	Trending             []NameCount   `json:"trending_laws_6m"`
	CitationDistribution []NameCount   `json:"citation_distribution"`
	TotalUniqueLaws      int           `json:"total_unique_laws"`
	TotalReferences      int           `json:"total_references"`
	ReferenceNetwork     []ProcessLaws `json:"reference_network"`
}

func (LawReferenceReport) Kind() string { return "law-references" }

func (r LawReferenceReport) Highlights() []string {
	if r.Empty {
		return []string{"no processes found"}
	}
	lines := []string{fmt.Sprintf("%d unique laws, %d references", r.TotalUniqueLaws, r.TotalReferences)}
	lines = appendTop(lines, "most referenced", r.MostReferenced, 5)
	return appendTop(lines, "most amended", r.MostAmended, 5)
}

// StageStat summarises the durations of one stage.
type StageStat struct {
	Stage      string  `json:"stage"`
	AvgDays    float64 `json:"avg_days"`
	MedianDays float64 `json:"median_days"`
	Count      int     `json:"count"`
}

// TypeSpeed summarises total durations for one project type.
type TypeSpeed struct {
	Type       string  `json:"type"`
	AvgDays    float64 `json:"avg_days"`
	MedianDays float64 `json:"median_days"`
	Count      int     `json:"count"`
}

// MonthlyTrend counts processes started and finished in a month (YYYY-MM).
type MonthlyTrend struct {
	Month    string `json:"month"`
	Started  int    `json:"started"`
	Finished int    `json:"finished"`
}

// ProcessDynamicsReport describes how long processes and their stages take.
type ProcessDynamicsReport struct {
	ReportMeta
	AvgTotalDurationDays    float64        `json:"avg_total_duration_days"`
	MedianTotalDurationDays float64        `json:"median_total_duration_days"`
	TotalProcessesAnalyzed  int            `json:"total_processes_analyzed"`
	Bottlenecks             []StageStat    `json:"bottlenecks"`
	FastestStages           []StageStat    `json:"fastest_stages"`
	SpeedByProjectType      []TypeSpeed    `json:"speed_by_project_type"`
	MonthlyTrends           []MonthlyTrend `json:"monthly_trends"`
}

func (ProcessDynamicsReport) Kind() string { return "process-dynamics" }

func (r ProcessDynamicsReport) Highlights() []string {
	if r.Empty {
		return []string{"no processes found"}
	}
	lines := []string{
		fmt.Sprintf("analyzed %d finished processes", r.TotalProcessesAnalyzed),
		fmt.Sprintf("average duration: %.1f days, median %.1f days", r.AvgTotalDurationDays, r.MedianTotalDurationDays),
	}
	for i, s := range r.Bottlenecks {
		if i == 5 {
			break
		}
		lines = append(lines, fmt.Sprintf("bottleneck %d. %s: %.1f days (n=%d)", i+1, s.Stage, s.AvgDays, s.Count))
	}
	return lines
}

// ControversialVote is the projection of a vote with a high controversy score.
type ControversialVote struct {
	Topic            string    `json:"topic"`
	Date             Timestamp `json:"date"`
	ControversyScore float64   `json:"controversy_score"`
	YesPct           float64   `json:"yes_pct"`
	NoPct            float64   `json:"no_pct"`
}

// CloseVote is the projection of a vote decided by a narrow margin.
type CloseVote struct {
	Topic     string    `json:"topic"`
	Date      Timestamp `json:"date"`
	MarginPct float64   `json:"margin_pct"`
	Yes       int       `json:"yes"`
	No        int       `json:"no"`
}

// TurnoutVote is the projection of a vote with very high turnout.
type TurnoutVote struct {
	Topic      string    `json:"topic"`
	Date       Timestamp `json:"date"`
	TurnoutPct float64   `json:"turnout_pct"`
}

// VotingPatternsReport aggregates roll-call metrics.
type VotingPatternsReport struct {
	ReportMeta
	TotalVotings         int                 `json:"total_votings"`
	AnalyzedVotings      int                 `json:"analyzed_votings"`
	ProcessesWithVotings int                 `json:"processes_with_votings"`
	AvgTurnoutPct        float64             `json:"avg_turnout_pct"`
	AvgYesPct            float64             `json:"avg_yes_pct"`
	AvgControversyScore  float64             `json:"avg_controversy_score"`
	PassRatePct          float64             `json:"pass_rate_pct"`
	MostControversial    []ControversialVote `json:"most_controversial"`
	ClosestVotes         []CloseVote         `json:"closest_votes"`
	HighestTurnout       []TurnoutVote       `json:"highest_turnout"`
}

func (VotingPatternsReport) Kind() string { return "voting-patterns" }

func (r VotingPatternsReport) Highlights() []string {
	if r.Empty {
		return []string{"no votings found"}
	}
	lines := []string{
		fmt.Sprintf("total votings: %d (%d analyzable)", r.TotalVotings, r.AnalyzedVotings),
		fmt.Sprintf("average turnout: %.1f%%, average yes: %.1f%%", r.AvgTurnoutPct, r.AvgYesPct),
		fmt.Sprintf("pass rate: %.1f%%, average controversy: %.1f/100", r.PassRatePct, r.AvgControversyScore),
	}
	for i, v := range r.MostControversial {
		if i == 5 {
			break
		}
		lines = append(lines, fmt.Sprintf("controversial %d. %s (score: %.1f)", i+1, truncate(v.Topic, 60), v.ControversyScore))
	}
	return lines
}

// GroupRate is the success rate of one categorical group.
type GroupRate struct {
	Key            string  `json:"key"`
	Successful     int     `json:"successful"`
	Total          int     `json:"total"`
	SuccessRatePct float64 `json:"success_rate_pct"`
}

// FeatureCorrelation is the linear association of a feature with success.
type FeatureCorrelation struct {
	Feature     string  `json:"feature"`
	Correlation float64 `json:"correlation"`
}

// OverallStats holds outcome counts across all processes.
type OverallStats struct {
	Total            int     `json:"total"`
	Finished         int     `json:"finished"`
	Successful       int     `json:"successful"`
	Rejected         int     `json:"rejected"`
	SuccessRatePct   float64 `json:"success_rate_pct"`
	RejectionRatePct float64 `json:"rejection_rate_pct"`
}

// SuccessInsights contrasts successful and rejected processes.
type SuccessInsights struct {
	AvgTimelineSuccessful float64 `json:"avg_timeline_successful"`
	AvgTimelineRejected   float64 `json:"avg_timeline_rejected"`
}

// SuccessFactorsReport relates process features to legislative success.
type SuccessFactorsReport struct {
	ReportMeta
	Overall              OverallStats         `json:"overall_stats"`
	SuccessByProjectType []GroupRate          `json:"success_by_project_type"`
	SuccessByUrgency     []GroupRate          `json:"success_by_urgency"`
	FeatureImportance    []FeatureCorrelation `json:"feature_importance"`
	Insights             SuccessInsights      `json:"insights"`
}

func (SuccessFactorsReport) Kind() string { return "success-factors" }

func (r SuccessFactorsReport) Highlights() []string {
	if r.Empty {
		return []string{"no processes found"}
	}
	lines := []string{
		fmt.Sprintf("success rate: %.1f%%, rejection rate: %.1f%%", r.Overall.SuccessRatePct, r.Overall.RejectionRatePct),
	}
	for i, g := range r.SuccessByProjectType {
		if i == 5 {
			break
		}
		lines = append(lines, fmt.Sprintf("%s: %.1f%% (%d/%d)", g.Key, g.SuccessRatePct, g.Successful, g.Total))
	}
	for i, f := range r.FeatureImportance {
		if i == 5 {
			break
		}
		lines = append(lines, fmt.Sprintf("feature %s: %.3f", f.Feature, f.Correlation))
	}
	return lines
}

// YearCount counts citations published in one year.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// PrintReferenceReport aggregates law references found in print texts.
type PrintReferenceReport struct {
	ReportMeta
	TotalPrints          int                   `json:"total_prints"`
	PrintsWithReferences int                   `json:"prints_with_references"`
	CountsByKind         map[ReferenceKind]int `json:"counts_by_kind"`
	TopCitations         []NameCount           `json:"top_citations"`
	TopAmended           []NameCount           `json:"top_amended"`
	TopRepealed          []NameCount           `json:"top_repealed"`
	CitationsByYear      []YearCount           `json:"citations_by_year"`
}

func (PrintReferenceReport) Kind() string { return "print-references" }

func (r PrintReferenceReport) Highlights() []string {
	if r.Empty {
		return []string{"no prints found"}
	}
	lines := []string{fmt.Sprintf("%d of %d prints reference laws", r.PrintsWithReferences, r.TotalPrints)}
	lines = appendTop(lines, "cited", r.TopCitations, 5)
	return appendTop(lines, "amended", r.TopAmended, 5)
}

func appendTop(lines []string, label string, items []NameCount, n int) []string {
	for i, item := range items {
		if i == n {
			break
		}
		lines = append(lines, fmt.Sprintf("%s %d. %s (%d)", label, i+1, item.Name, item.Count))
	}
	return lines
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
