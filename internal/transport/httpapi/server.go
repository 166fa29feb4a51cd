// Package httpapi exposes the email generation pipeline over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/coldreach-ai/coldreach/internal/domain"
)

// Runner executes the full generation pipeline for one page of text.
type Runner interface {
	Run(ctx context.Context, raw string) ([]domain.Outcome, error)
}

// PageFetcher retrieves the visible text of a careers page by URL.
type PageFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// Pinger reports cache store liveness for health checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the HTTP handlers.
type Server struct {
	pipeline Runner
	fetcher  PageFetcher
	store    Pinger
	logger   *zap.Logger
}

// NewServer creates the HTTP API server.
func NewServer(pipeline Runner, fetcher PageFetcher, store Pinger, logger *zap.Logger) *Server {
	return &Server{
		pipeline: pipeline,
		fetcher:  fetcher,
		store:    store,
		logger:   logger,
	}
}

// Routes mounts the handlers on a router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/v1/emails", s.GenerateEmails)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

type generateRequest struct {
	URL  string `json:"url,omitempty"`
	Text string `json:"text,omitempty"`
}

type jobView struct {
	Role        string   `json:"role"`
	Experience  string   `json:"experience,omitempty"`
	Skills      []string `json:"skills"`
	Description string   `json:"description,omitempty"`
}

type outcomeView struct {
	Job   jobView  `json:"job"`
	Links []string `json:"links"`
	Email string   `json:"email,omitempty"`
	Error string   `json:"error,omitempty"`
}

type generateResponse struct {
	Results   []outcomeView `json:"results"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
}

// GenerateEmails handles POST /v1/emails.
func (s *Server) GenerateEmails(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	if (req.URL == "") == (req.Text == "") {
		writeError(w, http.StatusBadRequest, "validation_failed", "Exactly one of url or text is required")
		return
	}

	text := req.Text
	if req.URL != "" {
		fetched, err := s.fetcher.FetchText(r.Context(), req.URL)
		if err != nil {
			s.logger.Warn("Page fetch failed", zap.String("url", req.URL), zap.Error(err))
			writeError(w, http.StatusBadGateway, "fetch_failed", "Could not fetch the page")
			return
		}
		text = fetched
	}

	outcomes, err := s.pipeline.Run(r.Context(), text)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp := generateResponse{Results: make([]outcomeView, len(outcomes))}
	for i, o := range outcomes {
		resp.Results[i] = outcomeToView(o)
		if o.Err == nil {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	httpStatus := http.StatusOK
	checks := map[string]string{"cache": "ok"}

	if s.store != nil {
		if err := s.store.Ping(r.Context()); err != nil {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
			checks["cache"] = "unavailable"
		}
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": status,
		"checks": checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func outcomeToView(o domain.Outcome) outcomeView {
	v := outcomeView{
		Job: jobView{
			Role:        o.Job.Role,
			Experience:  o.Job.Experience,
			Skills:      o.Job.Skills,
			Description: o.Job.Description,
		},
		Links: o.Links,
		Email: o.Email,
	}
	if v.Job.Skills == nil {
		v.Job.Skills = []string{}
	}
	if v.Links == nil {
		v.Links = []string{}
	}
	if o.Err != nil {
		v.Error = safeDomainMessage(o.Err)
	}
	return v
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	switch {
	case errors.Is(err, domain.ErrExtraction):
		writeError(w, http.StatusUnprocessableEntity, "extraction_failed", msg)
	case errors.Is(err, domain.ErrCatalogUnavailable):
		writeError(w, http.StatusServiceUnavailable, "catalog_unavailable", msg)
	case errors.Is(err, domain.ErrLLMProviderError):
		writeError(w, http.StatusBadGateway, "llm_provider_error", msg)
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrExtraction,
		domain.ErrCatalogUnavailable,
		domain.ErrComposition,
		domain.ErrLLMProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"code":    code,
		"message": message,
	})
}
