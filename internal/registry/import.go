// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/pdiddy/bioregistry-curator/internal/errors"
	"github.com/pdiddy/bioregistry-curator/internal/httputil"
	"github.com/pdiddy/bioregistry-curator/internal/logger"
	"github.com/pdiddy/bioregistry-curator/pkg/types"
)

// resource is the part of a bioregistry.json entry the importer reads.
type resource struct {
	Publications []struct {
		PubMed string `json:"pubmed"`
	} `json:"publications"`
}

// ParseRegistry reads a bioregistry.json export and returns one
// Publication per (prefix, PubMed ID) pair, ordered by prefix. Invalid or
// missing PubMed IDs are skipped.
func ParseRegistry(r io.Reader) ([]Publication, error) {
	var reg map[string]resource
	if err := json.NewDecoder(r).Decode(&reg); err != nil {
		return nil, errors.Wrap(err, "decoding registry")
	}

	prefixes := make([]string, 0, len(reg))
	for p := range reg {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)

	var out []Publication
	for _, prefix := range prefixes {
		for _, pub := range reg[prefix].Publications {
			id, ok := types.ParseIdentifier(pub.PubMed)
			if !ok {
				continue
			}
			out = append(out, Publication{Identifier: id, Prefix: prefix, Source: SourceImport})
		}
	}
	return out, nil
}

// Importer loads the curated set from a bioregistry export.
type Importer struct {
	client     *http.Client
	maxRetries int
}

// NewImporter returns an Importer that fetches remote exports with client.
func NewImporter(client *http.Client, maxRetries int) *Importer {
	return &Importer{client: client, maxRetries: maxRetries}
}

// Import reads the export at source, which is an http(s) URL or a local
// path, and marks every publication it cites as curated.
func (im *Importer) Import(ctx context.Context, store *Store, source string) (int, error) {
	rc, err := im.open(ctx, source)
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	pubs, err := ParseRegistry(rc)
	if err != nil {
		return 0, err
	}
	n, err := store.MarkCuratedBatch(ctx, pubs)
	if err != nil {
		return 0, err
	}
	logger.Logger.Infow("imported curated publications", "source", source, "publications", n)
	return n, nil
}

func (im *Importer) open(ctx context.Context, source string) (io.ReadCloser, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		f, err := os.Open(source)
		if err != nil {
			return nil, errors.Wrap(err, "opening registry file")
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building registry request")
	}
	resp, err := httputil.DoWithRetry(ctx, im.client, req, im.maxRetries)
	if err != nil {
		return nil, errors.Wrap(err, "fetching registry")
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.Newf("registry returned HTTP %d", resp.StatusCode)
	}
	return resp.Body, nil
}
