// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backlog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bioregistry-curator/internal/errors"
)

func TestFileDataset_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "predictions.tsv")
	require.NoError(t, os.WriteFile(path, []byte(predictionsTSV), 0o644))

	d := NewFileDataset(path, "pubmed", "title")
	s, err := d.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, s.Candidates, 3)

	again, err := d.Load(context.Background())
	require.NoError(t, err)
	assert.Same(t, s, again)
}

func TestFileDataset_MissingFile(t *testing.T) {
	d := NewFileDataset(filepath.Join(t.TempDir(), "absent.tsv"), "pubmed", "title")
	_, err := d.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.KindDatasetUnavailable, errors.KindOf(err))
}

func TestFileDataset_WatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "predictions.tsv")
	require.NoError(t, os.WriteFile(path, []byte(predictionsTSV), 0o644))

	d := NewFileDataset(path, "pubmed", "title")
	_, err := d.Load(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Watch(ctx) }()
	defer func() {
		cancel()
		assert.NoError(t, <-done)
	}()

	// Give the watcher time to register before writing.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("pubmed\ttitle\tscore\n42\tOnly one\t1\n"), 0o644))

	assert.Eventually(t, func() bool {
		s, err := d.Load(context.Background())
		return err == nil && len(s.Candidates) == 1 && s.Candidates[0].Label == "Only one"
	}, 2*time.Second, 10*time.Millisecond)
}
