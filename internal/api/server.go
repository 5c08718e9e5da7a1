// Package api exposes the turnover service over HTTP. Authentication is
// handled by the gateway in front of this service; the caller's identity
// arrives in the X-User-ID and X-User-Role headers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/XOOPO/TrackingTurnover/internal/jobs"
	"github.com/XOOPO/TrackingTurnover/internal/pkg/credentials"
	"github.com/XOOPO/TrackingTurnover/internal/pkg/models"
	"github.com/XOOPO/TrackingTurnover/internal/pkg/storage"
)

const (
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"
	roleAdmin      = "admin"
)

// CredentialLister exposes the full credential sheet for the admin view.
type CredentialLister interface {
	FetchAll(ctx context.Context) ([]models.Credential, error)
}

// TestAlerter sends a throwaway alert so an operator can verify the
// notification channel end to end.
type TestAlerter interface {
	SendTestAlert(ctx context.Context, message string) error
}

// Server wires the HTTP surface over the orchestrator.
type Server struct {
	orchestrator *jobs.Orchestrator
	providers    func() []string
	creds        CredentialLister
	activity     storage.ActivityLogStorage
	alerter      TestAlerter
}

func NewServer(orchestrator *jobs.Orchestrator, providers func() []string, creds CredentialLister, activity storage.ActivityLogStorage, alerter TestAlerter) *Server {
	if activity == nil {
		activity = storage.NoopActivityLog{}
	}
	return &Server{
		orchestrator: orchestrator,
		providers:    providers,
		creds:        creds,
		activity:     activity,
		alerter:      alerter,
	}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", headerUserID, headerUserRole},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/turnover", func(r chi.Router) {
		r.Post("/search", s.handleStartSearch)
		r.Post("/search/sync", s.handleSyncSearch)
		r.Get("/jobs/{jobID}", s.handleGetJob)
		r.Get("/providers", s.handleProviders)
		r.Get("/brands", s.handleBrands)
		r.Get("/credentials", s.handleCredentials)
	})

	r.Route("/api/activity-logs", func(r chi.Router) {
		r.Get("/", s.handleActivityLogs)
		r.Get("/all", s.handleAllActivityLogs)
	})

	r.Post("/api/admin/test-alert", s.handleTestAlert)

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("api: request",
			"method", r.Method, "path", r.URL.Path,
			"status", ww.Status(), "duration", time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleStartSearch creates a background job and returns immediately.
func (s *Server) handleStartSearch(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(headerUserID)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, errors.New("missing user identity"))
		return
	}

	var req jobs.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	job, err := s.orchestrator.StartSearch(userID, req)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"jobId":  job.ID,
		"status": job.Status,
	})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(headerUserID)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, errors.New("missing user identity"))
		return
	}
	jobID := chi.URLParam(r, "jobID")

	job, err := s.orchestrator.GetJob(userID, jobID)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

// handleSyncSearch runs the scrape within the request. Kept for clients
// that cannot poll; long searches may hit upstream timeouts.
func (s *Server) handleSyncSearch(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(headerUserID)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, errors.New("missing user identity"))
		return
	}

	var req jobs.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	result, err := s.orchestrator.Search(r.Context(), userID, req)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleProviders(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.providers())
}

func (s *Server) handleBrands(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, credentials.Brands())
}

// handleCredentials returns the known logins. Passwords never serialize.
func (s *Server) handleCredentials(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get(headerUserID) == "" {
		writeError(w, http.StatusUnauthorized, errors.New("missing user identity"))
		return
	}

	creds, err := s.creds.FetchAll(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, creds)
}

func (s *Server) handleActivityLogs(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(headerUserID)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, errors.New("missing user identity"))
		return
	}

	entries, err := s.activity.ListByUser(r.Context(), userID, 100)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if entries == nil {
		entries = []models.ActivityEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleAllActivityLogs(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get(headerUserID) == "" {
		writeError(w, http.StatusUnauthorized, errors.New("missing user identity"))
		return
	}
	if r.Header.Get(headerUserRole) != roleAdmin {
		writeError(w, http.StatusForbidden, errors.New("admin role required"))
		return
	}

	entries, err := s.activity.ListAll(r.Context(), 100)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if entries == nil {
		entries = []models.ActivityEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleTestAlert pushes a test message through the notification channel
// so an operator can confirm alerts are being delivered.
func (s *Server) handleTestAlert(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get(headerUserID) == "" {
		writeError(w, http.StatusUnauthorized, errors.New("missing user identity"))
		return
	}
	if r.Header.Get(headerUserRole) != roleAdmin {
		writeError(w, http.StatusForbidden, errors.New("admin role required"))
		return
	}
	if s.alerter == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("notifications not configured"))
		return
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Message == "" {
		req.Message = "Turnover service test alert"
	}

	if err := s.alerter.SendTestAlert(r.Context(), req.Message); err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "queued"})
}

func statusFor(err error) int {
	var verr *jobs.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, jobs.ErrJobNotFound):
		return http.StatusNotFound
	case errors.Is(err, jobs.ErrJobForbidden):
		return http.StatusForbidden
	case errors.Is(err, credentials.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("api: response encode failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
