// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize turns a provider's raw publication metadata into a
// BibliographicRecord.
package normalize

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/bioregistry-curator/internal/errors"
	"github.com/pdiddy/bioregistry-curator/pkg/types"
)

// Provider fetches raw metadata for a publication. It returns a nil record
// and nil error when the identifier has no record.
type Provider interface {
	Fetch(ctx context.Context, id types.Identifier) (*types.RawRecord, error)
}

// DefaultTimeout bounds a provider call when none is configured.
const DefaultTimeout = 30 * time.Second

var yearPattern = regexp.MustCompile(`(19|20)\d{2}`)

// Normalizer wraps a Provider with a timeout and normalization.
type Normalizer struct {
	provider Provider
	timeout  time.Duration
}

// New returns a Normalizer that bounds each provider call by timeout.
func New(p Provider, timeout time.Duration) *Normalizer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Normalizer{provider: p, timeout: timeout}
}

// Normalize fetches and normalizes the record for id. Errors are kinded
// NotFound or UpstreamUnavailable.
func (n *Normalizer) Normalize(ctx context.Context, id types.Identifier) (types.BibliographicRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	raw, err := n.provider.Fetch(ctx, id)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return types.BibliographicRecord{}, errors.UpstreamUnavailable(err,
				"PubMed did not answer within %s for PMID %s", n.timeout, id)
		}
		return types.BibliographicRecord{}, errors.UpstreamUnavailable(err,
			"could not retrieve PubMed metadata for PMID %s", id)
	}
	if raw == nil {
		return types.BibliographicRecord{}, errors.NotFound("no PubMed record found for PMID %s", id)
	}
	return Record(id, *raw), nil
}

// Record normalizes raw into a BibliographicRecord. It never fails: values
// that cannot be interpreted are left absent.
func Record(id types.Identifier, raw types.RawRecord) types.BibliographicRecord {
	rec := types.BibliographicRecord{
		Identifier:  id,
		Title:       collapse(raw.Title),
		Authors:     cleanList(raw.Authors),
		Description: collapse(raw.Abstract),
		Keywords:    cleanList(raw.Keywords),
		Year:        parseYear(raw.Year, raw.PubDate),
	}
	if rec.Authors == nil {
		rec.Authors = []string{}
	}
	if doi := cleanDOI(raw.DOI); doi != "" {
		rec.DOI = &doi
	}
	return rec
}

// collapse trims s and folds internal whitespace runs to single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// cleanList collapses each element, dropping empties and exact repeats
// while keeping order.
func cleanList(in []string) []string {
	var out []string
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = collapse(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func parseYear(year, pubDate string) *int {
	if y, err := strconv.Atoi(collapse(year)); err == nil && y > 0 {
		return &y
	}
	if m := yearPattern.FindString(pubDate); m != "" {
		y, _ := strconv.Atoi(m)
		return &y
	}
	return nil
}

// cleanDOI strips resolver and scheme prefixes that some records carry.
func cleanDOI(s string) string {
	s = collapse(s)
	lower := strings.ToLower(s)
	for _, p := range []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "http://dx.doi.org/", "doi:"} {
		if strings.HasPrefix(lower, p) {
			s = strings.TrimSpace(s[len(p):])
			break
		}
	}
	return s
}
