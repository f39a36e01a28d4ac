// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline turns a PubMed identifier into a draft registry entry:
// normalize the publication, resolve the database URL, scrape it, merge.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/bioregistry-curator/internal/errors"
	"github.com/pdiddy/bioregistry-curator/internal/logger"
	"github.com/pdiddy/bioregistry-curator/internal/merge"
	"github.com/pdiddy/bioregistry-curator/pkg/types"
)

// Normalizer fetches and normalizes bibliographic metadata.
type Normalizer interface {
	Normalize(ctx context.Context, id types.Identifier) (types.BibliographicRecord, error)
}

// Resolver picks the database URL for a record. A non-empty override is
// returned after validation.
type Resolver interface {
	Resolve(record types.BibliographicRecord, override string) (string, error)
}

// Invoker scrapes a URL. It never fails; failures are in the result.
type Invoker interface {
	Invoke(ctx context.Context, url string) types.ScrapeResult
}

// Request is one extraction request.
type Request struct {
	// Identifier is the raw PubMed ID as supplied by the caller.
	Identifier  string
	Contributor types.ContributorInfo

	// URLOverride, when set, replaces URL resolution.
	URLOverride string
}

// Result is a successful run.
type Result struct {
	RunID  string
	Entry  types.DraftRegistryEntry
	Scrape types.ScrapeResult
}

// Pipeline runs extraction requests. It holds no per-request state, so one
// Pipeline serves any number of concurrent Run calls.
type Pipeline struct {
	normalizer Normalizer
	resolver   Resolver
	invoker    Invoker
	log        *zap.SugaredLogger
}

// New returns a Pipeline over the given stages.
func New(n Normalizer, r Resolver, inv Invoker) *Pipeline {
	return &Pipeline{normalizer: n, resolver: r, invoker: inv, log: logger.Logger}
}

// Run executes one request. The identifier is validated before any
// external call. Normalizer and resolver failures end the run; a failed
// scrape does not, and yields a draft with bibliographic fields only.
// Every returned error carries one of InvalidIdentifier, NotFound,
// UpstreamUnavailable or NoCandidateUrl.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	runID := uuid.NewString()
	log := p.log.With("run_id", runID, "pmid", strings.TrimSpace(req.Identifier))
	start := time.Now()

	id, ok := types.ParseIdentifier(req.Identifier)
	if !ok {
		log.Infow("rejected invalid identifier")
		return Result{}, errors.InvalidIdentifier(req.Identifier)
	}

	record, err := p.normalizer.Normalize(ctx, id)
	if err != nil {
		err = errors.Ensure(err, errors.KindUpstreamUnavailable)
		log.Warnw("normalize failed", "kind", errors.KindOf(err), "error", err)
		return Result{}, err
	}
	log.Infow("normalized", "title", record.Title, "authors", len(record.Authors))

	override := strings.TrimSpace(req.URLOverride)
	url, err := p.resolver.Resolve(record, override)
	if err != nil {
		err = errors.Ensure(err, errors.KindNoCandidateURL)
		log.Warnw("resolve failed", "kind", errors.KindOf(err), "error", err)
		return Result{}, err
	}
	log.Infow("resolved database url", "url", url, "override", override != "")

	res := p.invoker.Invoke(ctx, url)
	switch {
	case res.Success:
		log.Infow("scraped", "url", url, "inferred", res.Inferred)
	case res.ErrorDetail != nil:
		log.Warnw("scrape unsuccessful, continuing with bibliographic fields",
			"url", url, "kind", res.ErrorDetail.Kind, "message", res.ErrorDetail.Message)
	default:
		log.Warnw("scrape unsuccessful, continuing with bibliographic fields", "url", url)
	}

	entry := merge.Merge(record, res, req.Contributor)
	if override != "" {
		merge.OverrideHomepage(&entry)
	}
	log.Infow("draft ready", "scrape_success", res.Success, "provenance", entry.Provenance, "elapsed", time.Since(start))

	return Result{RunID: runID, Entry: entry, Scrape: res}, nil
}
