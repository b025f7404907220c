package analytics

import (
	"context"
	"time"

	"github.com/yx-aesthete/sejm-info/internal/domain"
)

var testNow = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

type fakeSource struct {
	processes []domain.Process
	votings   []domain.Voting
	prints    []domain.Print
	err       error
}

func (f fakeSource) FetchProcesses(context.Context) ([]domain.Process, error) {
	return f.processes, f.err
}

func (f fakeSource) FetchVotings(context.Context) ([]domain.Voting, error) {
	return f.votings, f.err
}

func (f fakeSource) FetchPrints(context.Context) ([]domain.Print, error) {
	return f.prints, f.err
}

func ts(layout string) domain.Timestamp {
	return domain.Timestamp(layout)
}

func daysAgo(days int) domain.Timestamp {
	return domain.Timestamp(testNow.AddDate(0, 0, -days).Format(time.RFC3339))
}

func stage(name, start, end string) domain.Stage {
	return domain.Stage{Name: name, DateStart: ts(start), DateEnd: ts(end)}
}
