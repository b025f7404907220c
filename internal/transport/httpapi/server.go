// Package httpapi exposes the analyzers over HTTP with a {success, data, error} envelope.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/yx-aesthete/sejm-info/internal/analytics"
	"github.com/yx-aesthete/sejm-info/internal/ports"
	"github.com/yx-aesthete/sejm-info/internal/usecase"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "Sejm Analytics Service"

// Older clients request the success analyzer under its former name.
var aliases = map[string]string{
	"success-prediction": "success-factors",
}

// Analyses is the part of the runner the HTTP layer depends on.
type Analyses interface {
	Analyze(ctx context.Context, name string) (usecase.Outcome, error)
	AnalyzeAll(ctx context.Context) ([]usecase.Outcome, error)
	Latest(ctx context.Context, name string) (ports.StoredReport, bool, error)
}

var _ Analyses = (*usecase.Runner)(nil)

// Envelope is the response body of every analysis endpoint.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Health is the body of GET /.
type Health struct {
	Service string `json:"service"`
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Server routes HTTP requests to the analysis runner.
type Server struct {
	analyses Analyses
	version  string
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// NewServer builds the handler set. requestsPerSecond <= 0 disables rate limiting.
func NewServer(analyses Analyses, version string, requestsPerSecond float64, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{analyses: analyses, version: version, logger: logger}
	if requestsPerSecond > 0 {
		burst := int(requestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}
	return s
}

// Handler returns the routed handler with CORS and rate limiting applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHealth)
	mux.HandleFunc("GET /analyze/all", s.handleAnalyzeAll)
	mux.HandleFunc("GET /analyze/{name}", s.handleAnalyze)
	mux.HandleFunc("GET /reports/{name}/latest", s.handleLatest)
	return s.withCORS(s.withRateLimit(mux))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, Health{Service: ServiceName, Status: "running", Version: s.version})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	name := resolveName(r.PathValue("name"))
	s.logger.Info("running analysis", "analysis", name)

	out, err := s.analyses.Analyze(r.Context(), name)
	if err != nil {
		s.fail(w, name, err)
		return
	}
	jsonResponse(w, http.StatusOK, Envelope{Success: true, Data: out.Report})
}

func (s *Server) handleAnalyzeAll(w http.ResponseWriter, r *http.Request) {
	s.logger.Info("running all analyses")

	outcomes, err := s.analyses.AnalyzeAll(r.Context())
	if err != nil {
		s.fail(w, "all", err)
		return
	}

	data := make(map[string]any, len(outcomes))
	for _, out := range outcomes {
		data[out.Name] = out.Report
	}
	jsonResponse(w, http.StatusOK, Envelope{Success: true, Data: data})
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	name := resolveName(r.PathValue("name"))

	stored, ok, err := s.analyses.Latest(r.Context(), name)
	if err != nil {
		s.fail(w, name, err)
		return
	}
	if !ok {
		jsonResponse(w, http.StatusNotFound, Envelope{Error: "no stored report for " + name})
		return
	}

	jsonResponse(w, http.StatusOK, Envelope{Success: true, Data: map[string]any{
		"run_id":        stored.RunID,
		"analysis_type": stored.AnalysisType,
		"generated_at":  stored.GeneratedAt,
		"results":       json.RawMessage(stored.Payload),
	}})
}

func (s *Server) fail(w http.ResponseWriter, name string, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, analytics.ErrUnknownAnalyzer) {
		status = http.StatusNotFound
	} else {
		s.logger.Error("analysis request failed", "analysis", name, "error", err)
	}
	jsonResponse(w, status, Envelope{Error: err.Error()})
}

func (s *Server) withRateLimit(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			jsonResponse(w, http.StatusTooManyRequests, Envelope{Error: "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func resolveName(name string) string {
	if alias, ok := aliases[name]; ok {
		return alias
	}
	return name
}

func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encode json response", "error", err)
	}
}
