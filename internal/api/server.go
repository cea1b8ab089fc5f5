// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package api exposes the summarizer over HTTP: the HTML interface, the JSON
// history API and the operational endpoints.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ManuGH/ytsum/internal/api/middleware"
	"github.com/ManuGH/ytsum/internal/config"
	"github.com/ManuGH/ytsum/internal/health"
	"github.com/ManuGH/ytsum/internal/pipeline"
	"github.com/ManuGH/ytsum/internal/records"
	"github.com/ManuGH/ytsum/internal/ui"
)

const maxFormBytes = 1 << 20

// RecordStore is the view of the record collection the handlers need.
type RecordStore interface {
	List(page, perPage int) (records.Page, error)
	All() []records.Record
	Get(id string) (records.Record, error)
	Delete(ctx context.Context, id string) error
}

// Submitter runs one summarize submission end to end.
type Submitter interface {
	Summarize(ctx context.Context, sub pipeline.Submission) (records.Record, error)
}

// Deps are the collaborators of a Server.
type Deps struct {
	Store     RecordStore
	Submitter Submitter
	Health    *health.Manager
}

// Server holds the HTTP handlers.
type Server struct {
	cfg    config.AppConfig
	store  RecordStore
	submit Submitter
	health *health.Manager
	view   *ui.Renderer
}

// New creates a Server.
func New(cfg config.AppConfig, deps Deps) (*Server, error) {
	view, err := ui.NewRenderer()
	if err != nil {
		return nil, err
	}
	hm := deps.Health
	if hm == nil {
		hm = health.NewManager(cfg.Version)
	}
	return &Server{
		cfg:    cfg,
		store:  deps.Store,
		submit: deps.Submitter,
		health: hm,
		view:   view,
	}, nil
}

// Handler returns the routed handler with the middleware stack applied.
func (s *Server) Handler() http.Handler {
	tracing := ""
	if s.cfg.Telemetry.Enabled {
		tracing = s.cfg.LogService
	}
	r := middleware.NewRouter(middleware.StackConfig{
		EnableSecurityHeaders: true,
		CSP:                   middleware.DefaultCSP,
		EnableMetrics:         true,
		TracingService:        tracing,
		EnableLogging:         true,
	})

	s.registerOperationalRoutes(r)
	s.registerUIRoutes(r)
	s.registerAPIRoutes(r)
	return r
}

// limit returns perMinute, or 0 (unlimited) when rate limiting is off.
func (s *Server) limit(perMinute int) int {
	if !s.cfg.RateLimit.Enabled {
		return 0
	}
	return perMinute
}

func (s *Server) registerOperationalRoutes(r chi.Router) {
	r.Get("/healthz", s.health.ServeHealth)
	r.Get("/readyz", s.health.ServeReady)
	r.Handle("/metrics", promhttp.Handler())
}

func (s *Server) registerUIRoutes(r chi.Router) {
	r.Handle("/static/*", http.StripPrefix("/static/", ui.StaticHandler()))
	r.Get("/", s.handleIndex)
	r.Get("/history", s.handleHistoryPage)
	r.With(middleware.SubmitRateLimit(s.limit(s.cfg.RateLimit.SubmitPerMinute))).Post("/summarize", s.handleSummarize)
}

func (s *Server) registerAPIRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.APIRateLimit(s.limit(s.cfg.RateLimit.APIPerMinute)))
		r.Get("/history", s.handleListHistory)
		r.Delete("/history/{id}", s.handleDeleteHistory)
		r.Get("/summaries", s.handleListSummaries)
		r.Get("/summary/{id}", s.handleGetSummary)
	})
}
