// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package backlog ranks candidate publications that have not yet been
// curated. Candidates come from a tabular dataset, loaded either from a
// remote TSV with a time-based cache or from a local file that is reloaded
// when it changes.
package backlog

import (
	"context"
	"time"

	"github.com/pdiddy/bioregistry-curator/pkg/types"
)

// Candidate is one dataset row. Columns keeps every cell by header name so
// comparators can order by any column.
type Candidate struct {
	Identifier types.Identifier
	Label      string
	Columns    map[string]string
}

// Snapshot is an immutable view of a dataset. Datasets publish a new
// snapshot on refresh; readers holding an old one are unaffected.
type Snapshot struct {
	Candidates []Candidate
	LoadedAt   time.Time

	// Stale is set when a refresh failed and an older snapshot is served.
	Stale bool
}

// Dataset yields the current candidate snapshot. Implementations return a
// DatasetUnavailable error when no snapshot can be produced at all.
type Dataset interface {
	Load(ctx context.Context) (*Snapshot, error)
}
