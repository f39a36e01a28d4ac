// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backlog

import (
	"context"
	"time"

	"github.com/pdiddy/bioregistry-curator/internal/errors"
	"github.com/pdiddy/bioregistry-curator/pkg/types"
)

// CuratedSource reports which identifiers already have registry entries.
type CuratedSource interface {
	CuratedSet(ctx context.Context) (map[types.Identifier]struct{}, error)
}

// Result is a ranked backlog and the time its dataset was loaded.
type Result struct {
	Entries  []types.BacklogEntry
	CachedAt time.Time
	Stale    bool
}

// Service computes the backlog from a dataset and the curated set.
type Service struct {
	dataset Dataset
	curated CuratedSource
	cmp     Comparator
}

// NewService returns a Service. curated may be nil when nothing has been
// curated yet.
func NewService(dataset Dataset, curated CuratedSource, cmp Comparator) *Service {
	return &Service{dataset: dataset, curated: curated, cmp: cmp}
}

// NewDataset picks the dataset cfg describes: a watched local file when
// SourceFile is set, the remote TSV otherwise.
func NewDataset(cfg types.BacklogConfig) Dataset {
	if cfg.SourceFile != "" {
		return NewFileDataset(cfg.SourceFile, cfg.IDColumn, cfg.LabelColumn)
	}
	return NewRemoteDataset(nil, cfg)
}

// Backlog ranks the uncurated candidates. An empty backlog is not an error;
// every failure is reported as DatasetUnavailable.
func (s *Service) Backlog(ctx context.Context) (Result, error) {
	snap, err := s.dataset.Load(ctx)
	if err != nil {
		return Result{}, errors.Ensure(err, errors.KindDatasetUnavailable)
	}

	var curated map[types.Identifier]struct{}
	if s.curated != nil {
		curated, err = s.curated.CuratedSet(ctx)
		if err != nil {
			return Result{}, errors.DatasetUnavailable(err, "curated publications could not be read")
		}
	}

	return Result{
		Entries:  Rank(snap.Candidates, curated, s.cmp),
		CachedAt: snap.LoadedAt,
		Stale:    snap.Stale,
	}, nil
}
