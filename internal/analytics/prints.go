package analytics

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yx-aesthete/sejm-info/internal/domain"
	"github.com/yx-aesthete/sejm-info/internal/ports"
	"github.com/yx-aesthete/sejm-info/internal/stats"
)

// TextFunc returns the analysable text of a print.
type TextFunc func(domain.Print) string

// RawPrintText joins the title and raw text of a print.
func RawPrintText(p domain.Print) string {
	return strings.TrimSpace(p.Title + "\n" + p.Text)
}

// AggregatePrintReferences runs the reference extractor over every print.
func AggregatePrintReferences(prints []domain.Print, text TextFunc, now time.Time) domain.PrintReferenceReport {
	report := domain.PrintReferenceReport{ReportMeta: domain.ReportMeta{GeneratedAt: now}}
	if len(prints) == 0 {
		report.Empty = true
		return report
	}
	if text == nil {
		text = RawPrintText
	}

	var (
		citations, amended, repealed stats.Counter[string]
		years                        stats.Counter[int]
		withRefs                     int
	)
	kinds := map[domain.ReferenceKind]int{}

	for _, p := range prints {
		refs := ExtractReferences(text(p))
		if len(refs) > 0 {
			withRefs++
		}
		for _, ref := range refs {
			kinds[ref.Kind]++
			switch ref.Kind {
			case domain.KindCitation:
				citations.Inc(ref.Label)
				years.Inc(ref.Year)
			case domain.KindAmendment:
				amended.Inc(ref.Label)
			case domain.KindRepeal:
				repealed.Inc(ref.Label)
			}
		}
	}

	byYear := make([]domain.YearCount, 0, years.Len())
	for _, e := range years.Entries() {
		byYear = append(byYear, domain.YearCount{Year: e.Key, Count: e.Count})
	}
	sort.Slice(byYear, func(i, j int) bool { return byYear[i].Year < byYear[j].Year })

	report.TotalPrints = len(prints)
	report.PrintsWithReferences = withRefs
	report.CountsByKind = map[domain.ReferenceKind]int{
		domain.KindCitation:  kinds[domain.KindCitation],
		domain.KindAmendment: kinds[domain.KindAmendment],
		domain.KindRepeal:    kinds[domain.KindRepeal],
	}
	report.TopCitations = nameCounts(citations.MostCommon(topCitations))
	report.TopAmended = nameCounts(amended.MostCommon(topAmended))
	report.TopRepealed = nameCounts(repealed.MostCommon(topRepealed))
	report.CitationsByYear = byYear
	return report
}

// PrintReferences analyzes law references in print texts.
type PrintReferences struct {
	// Text extracts the analysable text; RawPrintText when nil.
	Text TextFunc
}

var _ Analyzer = PrintReferences{}

func (PrintReferences) Name() string { return domain.PrintReferenceReport{}.Kind() }

// Supplementary marks print references as optional in batch runs; print bodies are
// not part of every upstream schema.
func (PrintReferences) Supplementary() bool { return true }

func (a PrintReferences) Analyze(ctx context.Context, src ports.RecordSource, now time.Time) (domain.Report, error) {
	prints, err := src.FetchPrints(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch prints: %w", err)
	}
	return AggregatePrintReferences(prints, a.Text, now), nil
}
