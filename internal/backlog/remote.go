// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backlog

import (
	"context"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pdiddy/bioregistry-curator/internal/errors"
	"github.com/pdiddy/bioregistry-curator/internal/httputil"
	"github.com/pdiddy/bioregistry-curator/internal/logger"
	"github.com/pdiddy/bioregistry-curator/pkg/types"
)

const defaultRetryInterval = time.Minute

// RemoteDataset fetches a TSV over HTTP and caches it for a fixed
// duration. When a refresh fails the previous snapshot is served and
// marked stale, and no new fetch is attempted for RetryInterval. Only a
// failure with nothing cached is an error.
type RemoteDataset struct {
	client *http.Client
	cfg    types.BacklogConfig
	now    func() time.Time

	snap atomic.Pointer[Snapshot]

	// refresh serializes fetches so concurrent callers on an expired cache
	// trigger one download. It also guards retryAt.
	refresh sync.Mutex
	retryAt time.Time
}

// NewRemoteDataset returns a dataset reading cfg.SourceURL.
func NewRemoteDataset(client *http.Client, cfg types.BacklogConfig) *RemoteDataset {
	if client == nil {
		client = httputil.NewClient(cfg.HTTPConfig)
	}
	return &RemoteDataset{client: client, cfg: cfg, now: time.Now}
}

// Load returns the cached snapshot while it is fresh and fetches a new one
// otherwise.
func (d *RemoteDataset) Load(ctx context.Context) (*Snapshot, error) {
	if s := d.snap.Load(); d.fresh(s) {
		return s, nil
	}

	d.refresh.Lock()
	defer d.refresh.Unlock()

	cached := d.snap.Load()
	if d.fresh(cached) {
		return cached, nil
	}
	if cached != nil && d.now().Before(d.retryAt) {
		return staleCopy(cached), nil
	}

	candidates, err := d.fetch(ctx)
	if err != nil {
		if cached != nil {
			d.retryAt = d.now().Add(d.retryInterval())
			logger.Logger.Warnw("backlog refresh failed, serving cached dataset",
				"url", d.cfg.SourceURL, "cached_at", cached.LoadedAt, "retry_at", d.retryAt, "error", err)
			return staleCopy(cached), nil
		}
		return nil, errors.DatasetUnavailable(err, "candidate dataset could not be loaded from %s", d.cfg.SourceURL)
	}

	s := &Snapshot{Candidates: candidates, LoadedAt: d.now()}
	d.snap.Store(s)
	d.retryAt = time.Time{}
	logger.Logger.Infow("backlog dataset refreshed", "url", d.cfg.SourceURL, "candidates", len(candidates))
	return s, nil
}

func (d *RemoteDataset) fresh(s *Snapshot) bool {
	return s != nil && d.now().Sub(s.LoadedAt) < d.cfg.CacheDuration
}

func (d *RemoteDataset) retryInterval() time.Duration {
	if d.cfg.RetryInterval > 0 {
		return d.cfg.RetryInterval
	}
	return defaultRetryInterval
}

// staleCopy marks a copy so the published snapshot never changes.
func staleCopy(s *Snapshot) *Snapshot {
	stale := *s
	stale.Stale = true
	return &stale
}

func (d *RemoteDataset) fetch(ctx context.Context) ([]Candidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.cfg.SourceURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building dataset request")
	}

	resp, err := httputil.DoWithRetry(ctx, d.client, req, d.cfg.MaxRetries)
	if err != nil {
		return nil, errors.Wrap(err, "fetching dataset")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.Newf("dataset returned HTTP %d: %s", resp.StatusCode, body)
	}
	return ParseTSV(resp.Body, d.cfg.IDColumn, d.cfg.LabelColumn)
}
