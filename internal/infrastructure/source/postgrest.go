package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/yx-aesthete/sejm-info/internal/config"
	"github.com/yx-aesthete/sejm-info/internal/domain"
	"github.com/yx-aesthete/sejm-info/internal/ports"
)

// Upstream table names.
const (
	ProcessesTable = "legislative_processes"
	VotingsTable   = "votings"
	PrintsTable    = "prints"
)

const restPrefix = "/rest/v1/"

// PostgRESTSource reads whole tables from a Supabase REST endpoint page by page.
type PostgRESTSource struct {
	endpoint string
	apiKey   string
	pageSize int
	http     *http.Client
	limiter  *rate.Limiter
	logger   *slog.Logger
}

var _ ports.RecordSource = (*PostgRESTSource)(nil)

// NewPostgRESTSource creates a reusable client for the configured project.
func NewPostgRESTSource(cfg config.PostgRESTConfig, logger *slog.Logger) *PostgRESTSource {
	if logger == nil {
		logger = slog.Default()
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 1000
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &PostgRESTSource{
		endpoint: strings.TrimRight(cfg.URL, "/"),
		apiKey:   cfg.APIKey,
		pageSize: pageSize,
		http:     &http.Client{Timeout: timeout},
		limiter:  rate.NewLimiter(limit, 1),
		logger:   logger,
	}
}

// FetchProcesses loads every legislative process.
func (s *PostgRESTSource) FetchProcesses(ctx context.Context) ([]domain.Process, error) {
	return fetchAll[domain.Process](ctx, s, ProcessesTable)
}

// FetchVotings loads every voting.
func (s *PostgRESTSource) FetchVotings(ctx context.Context) ([]domain.Voting, error) {
	return fetchAll[domain.Voting](ctx, s, VotingsTable)
}

// FetchPrints loads every print.
func (s *PostgRESTSource) FetchPrints(ctx context.Context) ([]domain.Print, error) {
	return fetchAll[domain.Print](ctx, s, PrintsTable)
}

func fetchAll[T any](ctx context.Context, s *PostgRESTSource, table string) ([]T, error) {
	if s.endpoint == "" {
		return nil, fmt.Errorf("fetch %s: postgrest url is not configured", table)
	}

	// The server may cap a page below pageSize, so only an empty page ends the scan.
	var all []T
	for offset := 0; ; {
		var page []T
		if err := s.get(ctx, table, offset, &page); err != nil {
			return nil, fmt.Errorf("fetch %s: %w", table, err)
		}
		if len(page) == 0 {
			break
		}
		all = append(all, page...)
		offset += len(page)
	}

	s.logger.Debug("table fetched", "table", table, "rows", len(all))
	return all, nil
}

func (s *PostgRESTSource) get(ctx context.Context, table string, offset int, v any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	query := url.Values{}
	query.Set("select", "*")
	query.Set("order", "id.asc")
	query.Set("limit", strconv.Itoa(s.pageSize))
	query.Set("offset", strconv.Itoa(offset))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+restPrefix+table+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.apiKey != "" {
		req.Header.Set("apikey", s.apiKey)
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			return fmt.Errorf("unexpected status %s, close body: %v", resp.Status, closeErr)
		}
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		_ = resp.Body.Close()
		return fmt.Errorf("decode response: %w", err)
	}

	if err := resp.Body.Close(); err != nil {
		return fmt.Errorf("close response body: %w", err)
	}

	return nil
}
