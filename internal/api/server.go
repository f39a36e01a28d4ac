// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package api exposes the extraction pipeline and the curation backlog over
// HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/pdiddy/bioregistry-curator/internal/backlog"
	"github.com/pdiddy/bioregistry-curator/internal/logger"
	"github.com/pdiddy/bioregistry-curator/internal/pipeline"
	"github.com/pdiddy/bioregistry-curator/internal/validation"
	"github.com/pdiddy/bioregistry-curator/pkg/types"
)

// Extractor runs one extraction request.
type Extractor interface {
	Run(ctx context.Context, req pipeline.Request) (pipeline.Result, error)
}

// BacklogSource computes the ranked backlog.
type BacklogSource interface {
	Backlog(ctx context.Context) (backlog.Result, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	router    *chi.Mux
	api       huma.API
	extractor Extractor
	backlog   BacklogSource
	validator *validation.Validator
	slots     chan struct{}
	version   string
	log       *zap.SugaredLogger
}

// NewServer creates a server with all routes configured. Extractions beyond
// cfg.MaxConcurrentExtractions wait for a free slot.
func NewServer(cfg types.ServerConfig, extractor Extractor, bl BacklogSource, version string) *Server {
	slots := cfg.MaxConcurrentExtractions
	if slots <= 0 {
		slots = 1
	}

	s := &Server{
		router:    chi.NewRouter(),
		extractor: extractor,
		backlog:   bl,
		validator: validation.New(),
		slots:     make(chan struct{}, slots),
		version:   version,
		log:       logger.Logger,
	}

	s.setupMiddleware(cfg.AllowedOrigins)

	humaConfig := huma.DefaultConfig("Bioregistry Curator API", version)
	// Responses are plain envelopes; skip the $schema link field.
	humaConfig.CreateHooks = nil
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerExtractRoutes()
	s.registerBacklogRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API returns the huma API, for OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

func (s *Server) setupMiddleware(origins []string) {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

// requestLogger logs one line per request through the process logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Infow("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"request_id", middleware.GetReqID(r.Context()),
			"elapsed", time.Since(start),
		)
	})
}

// acquire takes an extraction slot, or fails when ctx ends first.
func (s *Server) acquire(ctx context.Context) (func(), error) {
	select {
	case s.slots <- struct{}{}:
		return func() { <-s.slots }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
