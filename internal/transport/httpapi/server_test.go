package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yx-aesthete/sejm-info/internal/domain"
	"github.com/yx-aesthete/sejm-info/internal/infrastructure/storage"
	"github.com/yx-aesthete/sejm-info/internal/logging"
	"github.com/yx-aesthete/sejm-info/internal/ports"
	"github.com/yx-aesthete/sejm-info/internal/usecase"
)

type stubSource struct {
	err error
}

func (s stubSource) FetchProcesses(context.Context) ([]domain.Process, error) {
	return []domain.Process{
		{ID: "p1", Number: "1", IsFinished: true, ProjectType: "poselski"},
		{ID: "p2", Number: "2", IsRejected: true, ProjectType: "rządowy"},
	}, s.err
}

func (s stubSource) FetchVotings(context.Context) ([]domain.Voting, error) {
	return []domain.Voting{{ID: 1, ProcessID: "p1", Topic: "ustawa", Yes: 240, No: 190, Abstain: 5, NotParticipating: 25}}, s.err
}

func (s stubSource) FetchPrints(context.Context) ([]domain.Print, error) {
	return nil, s.err
}

func newTestServer(t *testing.T, src ports.RecordSource, repo ports.ReportRepository, rps float64) *httptest.Server {
	t.Helper()
	runner := usecase.NewRunner(usecase.RunnerDeps{
		Source:     src,
		Repository: repo,
		Logger:     logging.Discard(),
		Clock:      func() time.Time { return time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC) },
	})
	srv := httptest.NewServer(NewServer(runner, "test", rps, logging.Discard()).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, v any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	return resp
}

func TestHealth(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, stubSource{}, nil, 0)
	var health Health
	resp := getJSON(t, srv.URL+"/", &health)
	if resp.StatusCode != http.StatusOK || health.Status != "running" || health.Version != "test" {
		t.Fatalf("unexpected health %d %+v", resp.StatusCode, health)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("missing CORS header")
	}
}

func TestAnalyzeEndpoints(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, stubSource{}, nil, 0)

	var body struct {
		Success bool                        `json:"success"`
		Data    domain.VotingPatternsReport `json:"data"`
	}
	resp := getJSON(t, srv.URL+"/analyze/voting-patterns", &body)
	if resp.StatusCode != http.StatusOK || !body.Success {
		t.Fatalf("unexpected response %d %+v", resp.StatusCode, body)
	}
	if body.Data.TotalVotings != 1 || body.Data.ProcessesWithVotings != 1 {
		t.Fatalf("unexpected voting report %+v", body.Data)
	}

	var success struct {
		Success bool                        `json:"success"`
		Data    domain.SuccessFactorsReport `json:"data"`
	}
	resp = getJSON(t, srv.URL+"/analyze/success-prediction", &success)
	if resp.StatusCode != http.StatusOK || !success.Success {
		t.Fatalf("alias should resolve, got %d", resp.StatusCode)
	}

	var all struct {
		Success bool                       `json:"success"`
		Data    map[string]json.RawMessage `json:"data"`
	}
	resp = getJSON(t, srv.URL+"/analyze/all", &all)
	if resp.StatusCode != http.StatusOK || len(all.Data) != 5 {
		t.Fatalf("unexpected all response %d keys=%d", resp.StatusCode, len(all.Data))
	}
	if _, ok := all.Data["law-references"]; !ok {
		t.Fatalf("missing law-references in %v", all.Data)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, stubSource{}, nil, 0)
	var env Envelope
	resp := getJSON(t, srv.URL+"/analyze/astrology", &env)
	if resp.StatusCode != http.StatusNotFound || env.Success || env.Error == "" {
		t.Fatalf("expected 404 envelope, got %d %+v", resp.StatusCode, env)
	}

	failing := newTestServer(t, stubSource{err: errors.New("supabase unavailable")}, nil, 0)
	resp = getJSON(t, failing.URL+"/analyze/process-dynamics", &env)
	if resp.StatusCode != http.StatusInternalServerError || env.Success {
		t.Fatalf("expected 500 envelope, got %d %+v", resp.StatusCode, env)
	}
}

func TestLatestReport(t *testing.T) {
	t.Parallel()

	repo, err := storage.OpenSQLite(":memory:", "")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	srv := newTestServer(t, stubSource{}, repo, 0)

	var env Envelope
	resp := getJSON(t, srv.URL+"/reports/voting-patterns/latest", &env)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 before any run, got %d", resp.StatusCode)
	}

	var analyzed Envelope
	getJSON(t, srv.URL+"/analyze/voting-patterns", &analyzed)

	var latest struct {
		Success bool `json:"success"`
		Data    struct {
			AnalysisType string                      `json:"analysis_type"`
			Results      domain.VotingPatternsReport `json:"results"`
		} `json:"data"`
	}
	resp = getJSON(t, srv.URL+"/reports/voting-patterns/latest", &latest)
	if resp.StatusCode != http.StatusOK || latest.Data.AnalysisType != "voting-patterns" || latest.Data.Results.TotalVotings != 1 {
		t.Fatalf("unexpected latest %d %+v", resp.StatusCode, latest)
	}
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, stubSource{}, nil, 0.001)

	var health Health
	if resp := getJSON(t, srv.URL+"/", &health); resp.StatusCode != http.StatusOK {
		t.Fatalf("first request should pass, got %d", resp.StatusCode)
	}
	var env Envelope
	if resp := getJSON(t, srv.URL+"/", &env); resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.StatusCode)
	}
}
