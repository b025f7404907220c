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

const (
	controversyThreshold = 70
	highTurnoutThreshold = 95
	closeMarginPct       = 5
	topVotes             = 10
)

// VotingMetrics are the derived figures of one analyzable voting. Percentages are
// rounded to one decimal.
type VotingMetrics struct {
	YesPct           float64
	NoPct            float64
	AbstainPct       float64
	TurnoutPct       float64
	ControversyScore float64
	Margin           int
	MarginPct        float64
	TotalVotes       int
	TotalMPs         int
	IsPassed         bool
}

// ComputeVotingMetrics derives the metrics of a voting. ok is false when no yes, no or
// abstain vote was recorded; such a voting must be skipped, not treated as zero.
func ComputeVotingMetrics(v domain.Voting) (VotingMetrics, bool) {
	totalVotes := v.Yes + v.No + v.Abstain
	if totalVotes == 0 {
		return VotingMetrics{}, false
	}
	totalMPs := totalVotes + v.NotParticipating

	votes := float64(totalVotes)
	yesPct := stats.Percent(float64(v.Yes), votes)
	noPct := stats.Percent(float64(v.No), votes)
	margin := v.Yes - v.No
	if margin < 0 {
		margin = -margin
	}

	return VotingMetrics{
		YesPct:           stats.Round(yesPct, 1),
		NoPct:            stats.Round(noPct, 1),
		AbstainPct:       stats.Round(stats.Percent(float64(v.Abstain), votes), 1),
		TurnoutPct:       stats.Round(stats.Percent(votes, float64(totalMPs)), 1),
		ControversyScore: stats.Round(100-math.Abs(yesPct-noPct), 1),
		Margin:           margin,
		MarginPct:        stats.Round(stats.Percent(float64(margin), votes), 1),
		TotalVotes:       totalVotes,
		TotalMPs:         totalMPs,
		IsPassed:         v.Yes > v.No,
	}, true
}

// AggregateVotingPatterns summarises all analyzable votings and ranks the
// controversial, close and high-turnout ones.
func AggregateVotingPatterns(processes []domain.Process, votings []domain.Voting, now time.Time) domain.VotingPatternsReport {
	report := domain.VotingPatternsReport{ReportMeta: domain.ReportMeta{GeneratedAt: now}}
	if len(votings) == 0 {
		report.Empty = true
		return report
	}

	var (
		turnout, yes, controversy []float64
		passed                    int
		withVotings               stats.Counter[string]
		controversial             []domain.ControversialVote
		highTurnout               []domain.TurnoutVote
		closeVotes                []domain.CloseVote
	)

	known := make(map[string]struct{}, len(processes))
	for _, p := range processes {
		known[p.ID] = struct{}{}
	}

	for _, v := range votings {
		m, ok := ComputeVotingMetrics(v)
		if !ok {
			continue
		}

		turnout = append(turnout, m.TurnoutPct)
		yes = append(yes, m.YesPct)
		controversy = append(controversy, m.ControversyScore)
		if m.IsPassed {
			passed++
		}
		if _, ok := known[v.ProcessID]; ok && v.ProcessID != "" {
			withVotings.Inc(v.ProcessID)
		}

		if m.ControversyScore > controversyThreshold {
			controversial = append(controversial, domain.ControversialVote{
				Topic:            v.Topic,
				Date:             v.Date,
				ControversyScore: m.ControversyScore,
				YesPct:           m.YesPct,
				NoPct:            m.NoPct,
			})
		}
		if m.TurnoutPct > highTurnoutThreshold {
			highTurnout = append(highTurnout, domain.TurnoutVote{Topic: v.Topic, Date: v.Date, TurnoutPct: m.TurnoutPct})
		}
		// A tie has zero margin and is reported through IsPassed instead.
		if m.MarginPct > 0 && m.MarginPct < closeMarginPct {
			closeVotes = append(closeVotes, domain.CloseVote{
				Topic:     v.Topic,
				Date:      v.Date,
				MarginPct: m.MarginPct,
				Yes:       v.Yes,
				No:        v.No,
			})
		}
	}

	sort.SliceStable(controversial, func(i, j int) bool {
		return controversial[i].ControversyScore > controversial[j].ControversyScore
	})
	sort.SliceStable(highTurnout, func(i, j int) bool { return highTurnout[i].TurnoutPct > highTurnout[j].TurnoutPct })
	sort.SliceStable(closeVotes, func(i, j int) bool { return closeVotes[i].MarginPct < closeVotes[j].MarginPct })

	report.TotalVotings = len(votings)
	report.AnalyzedVotings = len(turnout)
	report.ProcessesWithVotings = withVotings.Len()
	report.AvgTurnoutPct = stats.Round(stats.Mean(turnout), 1)
	report.AvgYesPct = stats.Round(stats.Mean(yes), 1)
	report.AvgControversyScore = stats.Round(stats.Mean(controversy), 1)
	if len(turnout) > 0 {
		report.PassRatePct = stats.Round(stats.Percent(float64(passed), float64(len(turnout))), 1)
	}
	report.MostControversial = head(controversial, topVotes)
	report.HighestTurnout = head(highTurnout, topVotes)
	report.ClosestVotes = head(closeVotes, topVotes)
	return report
}

// VotingPatterns analyzes roll-call results.
type VotingPatterns struct{}

var _ Analyzer = VotingPatterns{}

func (VotingPatterns) Name() string { return domain.VotingPatternsReport{}.Kind() }

func (VotingPatterns) Analyze(ctx context.Context, src ports.RecordSource, now time.Time) (domain.Report, error) {
	processes, err := src.FetchProcesses(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch processes: %w", err)
	}
	votings, err := src.FetchVotings(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch votings: %w", err)
	}
	return AggregateVotingPatterns(processes, votings, now), nil
}
