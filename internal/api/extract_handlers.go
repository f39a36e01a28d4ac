// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/pdiddy/bioregistry-curator/internal/errors"
	"github.com/pdiddy/bioregistry-curator/internal/merge"
	"github.com/pdiddy/bioregistry-curator/internal/pipeline"
	"github.com/pdiddy/bioregistry-curator/internal/validation"
	"github.com/pdiddy/bioregistry-curator/pkg/types"
)

// ExtractRequest is the body of POST /extract.
type ExtractRequest struct {
	PMID        string                `json:"pmid" required:"false" validate:"required,pmid" doc:"PubMed identifier, digits only" example:"34791309"`
	Contributor types.ContributorInfo `json:"contributor,omitempty" doc:"Curator credited on the draft"`
	URL         string                `json:"url,omitempty" doc:"Database homepage; skips URL resolution when set"`
}

// ExtractInput wraps the request body.
type ExtractInput struct {
	Body ExtractRequest
}

// ScrapeStatus tells the client whether structural fields were filled.
type ScrapeStatus struct {
	Success bool               `json:"success"`
	Error   *types.ScrapeError `json:"error,omitempty"`
}

// ExtractResponse carries the draft and its bioregistry rendering.
type ExtractResponse struct {
	Status      string                    `json:"status" example:"success"`
	RunID       string                    `json:"runId"`
	Data        types.DraftRegistryEntry  `json:"data"`
	Provenance  types.Provenance          `json:"provenance"`
	Scrape      ScrapeStatus              `json:"scrape"`
	Bioregistry map[string]merge.Resource `json:"bioregistry"`
}

// ExtractOutput wraps the extract response.
type ExtractOutput struct {
	Body ExtractResponse
}

func (s *Server) registerExtractRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "extract",
		Method:      http.MethodPost,
		Path:        "/extract",
		Summary:     "Draft a registry entry",
		Description: "Fetches the publication, resolves and scrapes the database homepage, and returns a draft entry. " +
			"A failed scrape still returns a draft with bibliographic fields only.",
		Tags: []string{"Extraction"},
	}, s.handleExtract)
}

func (s *Server) handleExtract(ctx context.Context, input *ExtractInput) (*ExtractOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		if validation.Failed(err, "pmid") {
			return nil, fromError(errors.InvalidIdentifier(input.Body.PMID))
		}
		return nil, fromError(err)
	}

	release, err := s.acquire(ctx)
	if err != nil {
		return nil, huma.Error503ServiceUnavailable("extraction capacity exhausted", err)
	}
	defer release()

	res, err := s.extractor.Run(ctx, pipeline.Request{
		Identifier:  input.Body.PMID,
		Contributor: input.Body.Contributor,
		URLOverride: input.Body.URL,
	})
	if err != nil {
		s.log.Infow("extraction failed", "pmid", input.Body.PMID, "kind", errors.KindOf(err), "error", err)
		return nil, fromError(err)
	}

	return &ExtractOutput{Body: ExtractResponse{
		Status:      "success",
		RunID:       res.RunID,
		Data:        res.Entry,
		Provenance:  res.Entry.Provenance,
		Scrape:      ScrapeStatus{Success: res.Scrape.Success, Error: res.Scrape.ErrorDetail},
		Bioregistry: merge.ToBioregistry(res.Entry),
	}}, nil
}
