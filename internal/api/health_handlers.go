// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// HealthResponse reports liveness.
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Version string `json:"version"`
}

// HealthOutput wraps the health response.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

func (s *Server) handleHealthCheck(_ context.Context, _ *struct{}) (*HealthOutput, error) {
	return &HealthOutput{Body: HealthResponse{Status: "ok", Version: s.version}}, nil
}
