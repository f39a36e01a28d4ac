// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed fetches publication metadata from the NCBI E-utilities
// efetch endpoint.
package pubmed

import (
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/pdiddy/bioregistry-curator/internal/errors"
	"github.com/pdiddy/bioregistry-curator/internal/httputil"
	"github.com/pdiddy/bioregistry-curator/pkg/types"
)

const toolName = "bioregistry-curator"

// Client is a metadata provider backed by efetch. A nil record with a nil
// error means PubMed has no article for the identifier.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	cfg     types.PubMedConfig
}

// New returns a Client. NCBI allows 3 requests per second without an API
// key and 10 with one; cfg.RequestsPerSecond should respect that.
func New(client *http.Client, cfg types.PubMedConfig) *Client {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 3
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/"
	}
	return &Client{
		http:    client,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		cfg:     cfg,
	}
}

// Fetch retrieves the article for id.
func (c *Client) Fetch(ctx context.Context, id types.Identifier) (*types.RawRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "waiting for NCBI rate limit")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.efetchURL(id), nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating efetch request")
	}

	resp, err := httputil.DoWithRetry(ctx, c.http, req, c.cfg.MaxRetries)
	if err != nil {
		return nil, errors.Wrapf(err, "efetch request for PMID %s", id)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		io.Copy(io.Discard, resp.Body)
		return nil, errors.Newf("efetch returned HTTP %d for PMID %s", resp.StatusCode, id)
	}

	articles, err := parseArticleSet(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing efetch response for PMID %s", id)
	}
	for _, a := range articles {
		if strings.TrimSpace(a.MedlineCitation.PMID.Text) == string(id) {
			return a.toRaw(), nil
		}
	}
	return nil, nil
}

func (c *Client) efetchURL(id types.Identifier) string {
	q := url.Values{}
	q.Set("db", "pubmed")
	q.Set("id", string(id))
	q.Set("retmode", "xml")
	q.Set("tool", toolName)
	if c.cfg.Email != "" {
		q.Set("email", c.cfg.Email)
	}
	if c.cfg.APIKey != "" {
		q.Set("api_key", c.cfg.APIKey)
	}
	return strings.TrimRight(c.cfg.BaseURL, "/") + "/efetch.fcgi?" + q.Encode()
}

// parseArticleSet decodes a PubmedArticleSet document. NCBI answers unknown
// identifiers with an empty set or an eFetchResult error document; both
// yield no articles.
func parseArticleSet(r io.Reader) ([]pubmedArticle, error) {
	var set articleSet
	if err := xml.NewDecoder(r).Decode(&set); err != nil {
		return nil, err
	}
	if set.XMLName.Local != "PubmedArticleSet" {
		return nil, nil
	}
	return set.Articles, nil
}

func (a pubmedArticle) toRaw() *types.RawRecord {
	art := a.MedlineCitation.Article
	raw := &types.RawRecord{
		Title:   art.Title.Text,
		Year:    art.Journal.Issue.PubDate.Year,
		PubDate: art.Journal.Issue.PubDate.String(),
	}

	var abstract []string
	for _, p := range art.Abstract.Texts {
		text := strings.TrimSpace(p.Text)
		if text == "" {
			continue
		}
		if p.Label != "" {
			text = p.Label + ": " + text
		}
		abstract = append(abstract, text)
	}
	raw.Abstract = strings.Join(abstract, " ")

	for _, au := range art.Authors {
		if name := au.displayName(); name != "" {
			raw.Authors = append(raw.Authors, name)
		}
	}

	for _, loc := range art.ELocationIDs {
		if strings.EqualFold(loc.Type, "doi") && loc.Valid != "N" {
			raw.DOI = loc.Text
			break
		}
	}
	if raw.DOI == "" {
		for _, aid := range a.PubmedData.ArticleIDs {
			if strings.EqualFold(aid.Type, "doi") {
				raw.DOI = aid.Text
				break
			}
		}
	}

	for _, list := range a.MedlineCitation.KeywordLists {
		for _, kw := range list.Keywords {
			raw.Keywords = append(raw.Keywords, kw.Text)
		}
	}
	if len(raw.Keywords) == 0 {
		for _, mh := range a.MedlineCitation.MeshHeadings {
			raw.Keywords = append(raw.Keywords, mh.Descriptor.Text)
		}
	}
	return raw
}
