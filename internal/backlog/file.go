// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backlog

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pdiddy/bioregistry-curator/internal/errors"
	"github.com/pdiddy/bioregistry-curator/internal/logger"
)

// FileDataset reads candidates from a local TSV. The file is parsed on
// first use and again whenever Watch sees it change.
type FileDataset struct {
	path        string
	idColumn    string
	labelColumn string

	snap atomic.Pointer[Snapshot]
}

// NewFileDataset returns a dataset backed by path.
func NewFileDataset(path, idColumn, labelColumn string) *FileDataset {
	return &FileDataset{path: path, idColumn: idColumn, labelColumn: labelColumn}
}

// Load returns the current snapshot, parsing the file if nothing has been
// loaded yet.
func (d *FileDataset) Load(_ context.Context) (*Snapshot, error) {
	if s := d.snap.Load(); s != nil {
		return s, nil
	}
	if err := d.reload(); err != nil {
		return nil, errors.DatasetUnavailable(err, "candidate dataset could not be read from %s", d.path)
	}
	return d.snap.Load(), nil
}

func (d *FileDataset) reload() error {
	f, err := os.Open(d.path)
	if err != nil {
		return errors.Wrap(err, "opening dataset")
	}
	defer f.Close()

	candidates, err := ParseTSV(f, d.idColumn, d.labelColumn)
	if err != nil {
		return err
	}
	d.snap.Store(&Snapshot{Candidates: candidates, LoadedAt: time.Now()})
	return nil
}

// Watch reloads the dataset whenever the file is written or replaced,
// until ctx is done. The parent directory is watched so editors that save
// by rename are seen. A reload that fails keeps the previous snapshot.
func (d *FileDataset) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating dataset watcher")
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(d.path)); err != nil {
		return errors.Wrapf(err, "watching %s", filepath.Dir(d.path))
	}
	target := filepath.Clean(d.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			if err := d.reload(); err != nil {
				logger.Logger.Warnw("backlog dataset reload failed", "path", d.path, "error", err)
				continue
			}
			logger.Logger.Infow("backlog dataset reloaded", "path", d.path, "candidates", len(d.snap.Load().Candidates))
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Logger.Warnw("backlog dataset watcher error", "path", d.path, "error", err)
		}
	}
}
