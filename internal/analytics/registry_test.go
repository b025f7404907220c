package analytics

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/yx-aesthete/sejm-info/internal/domain"
)

func TestDefaultRegistry(t *testing.T) {
	t.Parallel()

	reg := DefaultRegistry()
	want := []string{"law-references", "process-dynamics", "voting-patterns", "success-factors", "print-references"}
	if got := reg.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if _, err := reg.Resolve("sentiment"); !errors.Is(err, ErrUnknownAnalyzer) {
		t.Fatalf("expected ErrUnknownAnalyzer, got %v", err)
	}

	reg.Register(PrintReferences{Text: RawPrintText})
	if len(reg.Names()) != len(want) {
		t.Fatalf("re-registering must replace, not append")
	}
}

func TestAnalyzersPropagateFetchErrors(t *testing.T) {
	t.Parallel()

	upstream := errors.New("upstream down")
	src := fakeSource{err: upstream}

	for _, name := range DefaultRegistry().Names() {
		a, err := DefaultRegistry().Resolve(name)
		if err != nil {
			t.Fatalf("resolve %s: %v", name, err)
		}
		if _, err := a.Analyze(context.Background(), src, testNow); !errors.Is(err, upstream) {
			t.Fatalf("%s: expected upstream error, got %v", name, err)
		}
	}
}

func TestAnalyzersAreIdempotent(t *testing.T) {
	t.Parallel()

	src := fakeSource{
		processes: []domain.Process{
			{
				ID: "p1", Number: "1", ProjectType: "rządowy", IsFinished: true,
				DocumentDate: "2024-01-01", ChangeDate: daysAgo(30),
				Timeline: []domain.Stage{stage("Komisja", "2024-01-01", "2024-02-01")},
				ExtendedData: &domain.ExtendedData{RelatedLaws: []domain.RelatedLaw{
					{Title: "Kodeks pracy", Relation: domain.RelationAmends},
				}},
			},
			{ID: "p2", Number: "2", IsRejected: true, DocumentDate: "2024-03-01"},
		},
		votings: votingFixture(),
		prints:  []domain.Print{{Number: "1", Text: "(Dz. U. z 2020 r. poz. 1)"}},
	}

	for _, name := range DefaultRegistry().Names() {
		a, _ := DefaultRegistry().Resolve(name)
		first, err := a.Analyze(context.Background(), src, testNow)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		second, err := a.Analyze(context.Background(), src, testNow)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("%s: repeated runs differ", name)
		}
		if first.Kind() != name || first.IsEmpty() {
			t.Fatalf("%s: unexpected report kind %s (empty=%v)", name, first.Kind(), first.IsEmpty())
		}
		if len(first.Highlights()) == 0 {
			t.Fatalf("%s: expected highlights", name)
		}
	}
}

func TestSupplementaryAnalyzers(t *testing.T) {
	t.Parallel()

	reg := DefaultRegistry()
	for _, name := range reg.Names() {
		a, err := reg.Resolve(name)
		if err != nil {
			t.Fatalf("resolve %s: %v", name, err)
		}
		want := name == "print-references"
		if got := IsSupplementary(a); got != want {
			t.Fatalf("%s: expected supplementary=%v, got %v", name, want, got)
		}
	}
}
