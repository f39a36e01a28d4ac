// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/pdiddy/bioregistry-curator/pkg/types"
)

// BacklogInput holds the backlog query parameters.
type BacklogInput struct {
	Limit int `query:"limit" minimum:"0" doc:"Maximum entries to return; 0 returns all"`
}

// BacklogResponse is the ranked list of uncurated publications.
type BacklogResponse struct {
	Status   string               `json:"status" example:"success"`
	Data     []types.BacklogEntry `json:"data"`
	Total    int                  `json:"total" doc:"Backlog size before the limit"`
	CachedAt *time.Time           `json:"cachedAt,omitempty" doc:"When the candidate dataset was loaded"`
	Stale    bool                 `json:"stale,omitempty" doc:"The dataset could not be refreshed and a cached copy was used"`
}

// BacklogOutput wraps the backlog response.
type BacklogOutput struct {
	Body BacklogResponse
}

func (s *Server) registerBacklogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getBacklog",
		Method:      http.MethodGet,
		Path:        "/backlog",
		Summary:     "Rank uncurated publications",
		Tags:        []string{"Backlog"},
	}, s.handleBacklog)

	// The curation web client calls the ranking by its historical path.
	huma.Register(s.api, huma.Operation{
		OperationID: "getPmidRankings",
		Method:      http.MethodGet,
		Path:        "/pmid-rankings",
		Summary:     "Rank uncurated publications",
		Tags:        []string{"Backlog"},
	}, s.handleBacklog)
}

func (s *Server) handleBacklog(ctx context.Context, input *BacklogInput) (*BacklogOutput, error) {
	res, err := s.backlog.Backlog(ctx)
	if err != nil {
		s.log.Warnw("backlog unavailable", "error", err)
		return nil, fromError(err)
	}

	entries := res.Entries
	if entries == nil {
		entries = []types.BacklogEntry{}
	}
	total := len(entries)
	if input.Limit > 0 && input.Limit < total {
		entries = entries[:input.Limit]
	}

	body := BacklogResponse{Status: "success", Data: entries, Total: total, Stale: res.Stale}
	if !res.CachedAt.IsZero() {
		cachedAt := res.CachedAt.UTC()
		body.CachedAt = &cachedAt
	}
	return &BacklogOutput{Body: body}, nil
}
