package analytics

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/yx-aesthete/sejm-info/internal/domain"
	"github.com/yx-aesthete/sejm-info/internal/ports"
	"github.com/yx-aesthete/sejm-info/internal/stats"
)

// RecencyWindow bounds the trending-laws counter.
const RecencyWindow = 180 * 24 * time.Hour

const (
	topReferenced = 20
	topAmended    = 20
	topRepealed   = 10
	topTrending   = 10
	topCitations  = 20
)

var (
	// "(Dz. U. z 2020 r. poz. 1234)"
	citationExpr  = regexp.MustCompile(`(?i)\(Dz\.\s*U\.\s+z\s+(\d{4})\s+r\.\s+poz\.\s+(\d+)`)
	amendmentExpr = regexp.MustCompile(`(?i)nowelizacj[ęai]\s+ustaw[yaęź]\s+([^,.]+)`)
	repealExpr    = regexp.MustCompile(`(?i)uchyl(?:a|enia|enie)\s+ustaw[yaęź]\s+([^,.]+)`)
)

// ExtractReferences scans text for law citations, amendments and repeals. Rules run in
// that order and each reports every non-overlapping match in occurrence order.
func ExtractReferences(text string) []domain.TextReference {
	if text == "" {
		return nil
	}

	var refs []domain.TextReference
	for _, m := range citationExpr.FindAllStringSubmatch(text, -1) {
		year, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		pos, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		refs = append(refs, domain.TextReference{
			Kind:     domain.KindCitation,
			Label:    fmt.Sprintf("Dz.U. %d poz. %d", year, pos),
			Year:     year,
			Position: pos,
		})
	}
	refs = appendClauses(refs, amendmentExpr, domain.KindAmendment, text)
	return appendClauses(refs, repealExpr, domain.KindRepeal, text)
}

func appendClauses(refs []domain.TextReference, expr *regexp.Regexp, kind domain.ReferenceKind, text string) []domain.TextReference {
	for _, m := range expr.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		if name == "" {
			continue
		}
		refs = append(refs, domain.TextReference{Kind: kind, Label: name})
	}
	return refs
}

// AggregateLawReferences ranks laws named in the related-law annotations of processes.
func AggregateLawReferences(processes []domain.Process, now time.Time) domain.LawReferenceReport {
	report := domain.LawReferenceReport{ReportMeta: domain.ReportMeta{GeneratedAt: now}}
	if len(processes) == 0 {
		report.Empty = true
		return report
	}

	var (
		all, amended, repealed, citations, recent stats.Counter[string]
		network                                   stats.Groups[string, domain.LawEdge]
	)
	cutoff := now.Add(-RecencyWindow)

	for _, proc := range processes {
		laws := proc.ExtendedData.Laws()
		if len(laws) == 0 {
			continue
		}

		changed, changedOK := proc.ChangeDate.Parse()
		isRecent := changedOK && changed.After(cutoff)

		for _, law := range laws {
			title := strings.TrimSpace(law.Title)
			if title == "" {
				continue
			}

			all.Inc(title)
			network.Append(proc.Number, domain.LawEdge{Law: title, Relation: law.Relation, Citation: law.Citation})

			switch law.Relation {
			case domain.RelationAmends:
				amended.Inc(title)
			case domain.RelationRepeals:
				repealed.Inc(title)
			}
			if law.Citation != "" {
				citations.Inc(law.Citation)
			}
			if isRecent {
				recent.Inc(title)
			}
		}
	}

	report.MostReferenced = nameCounts(all.MostCommon(topReferenced))
	report.MostAmended = nameCounts(amended.MostCommon(topAmended))
	report.MostRepealed = nameCounts(repealed.MostCommon(topRepealed))
	report.Trending = nameCounts(recent.MostCommon(topTrending))
	report.CitationDistribution = nameCounts(citations.MostCommon(topCitations))
	report.TotalUniqueLaws = all.Len()
	report.TotalReferences = all.Total()
	report.ReferenceNetwork = make([]domain.ProcessLaws, 0, network.Len())
	network.Each(func(process string, laws []domain.LawEdge) {
		report.ReferenceNetwork = append(report.ReferenceNetwork, domain.ProcessLaws{Process: process, Laws: laws})
	})

	return report
}

func nameCounts(entries []stats.Entry[string]) []domain.NameCount {
	out := make([]domain.NameCount, 0, len(entries))
	for _, e := range entries {
		out = append(out, domain.NameCount{Name: e.Key, Count: e.Count})
	}
	return out
}

// LawReferences analyzes related-law annotations of all processes.
type LawReferences struct{}

var _ Analyzer = LawReferences{}

func (LawReferences) Name() string { return domain.LawReferenceReport{}.Kind() }

func (LawReferences) Analyze(ctx context.Context, src ports.RecordSource, now time.Time) (domain.Report, error) {
	processes, err := src.FetchProcesses(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch processes: %w", err)
	}
	return AggregateLawReferences(processes, now), nil
}
