// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compare lines up manually curated registry entries against
// automated drafts of the same resources.
package compare

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/bioregistry-curator/internal/errors"
	"github.com/pdiddy/bioregistry-curator/internal/logger"
)

// Row sources.
const (
	SourceManual    = "Manual"
	SourceAutomated = "Automated"
)

// Summary describes a comparison run.
type Summary struct {
	Compared int
	Skipped  []string

	// Matches counts, per field, the resources whose manual and automated
	// values are equal.
	Matches map[string]int
}

// Compare reads every <resource>.json in manualDir, pairs it with the file
// of the same name in automatedDir, and writes one CSV row per side with
// the given fields as columns. Each file holds a bioregistry-shaped object
// keyed by the resource id. Resources without an automated file are skipped.
func Compare(manualDir, automatedDir string, fields []string, w io.Writer) (Summary, error) {
	manualFiles, err := filepath.Glob(filepath.Join(manualDir, "*.json"))
	if err != nil {
		return Summary{}, errors.Wrap(err, "listing manual curations")
	}
	sort.Strings(manualFiles)
	logger.Logger.Infow("comparing curations", "manual", len(manualFiles), "dir", manualDir)

	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"Resource", "Source"}, fields...)); err != nil {
		return Summary{}, errors.Wrap(err, "writing header")
	}

	summary := Summary{Matches: make(map[string]int, len(fields))}
	for _, manualFile := range manualFiles {
		id := strings.TrimSuffix(filepath.Base(manualFile), ".json")
		autoFile := filepath.Join(automatedDir, id+".json")
		if _, err := os.Stat(autoFile); err != nil {
			logger.Logger.Debugw("no automated curation", "resource", id)
			summary.Skipped = append(summary.Skipped, id)
			continue
		}

		manual, err := loadResource(manualFile, id)
		if err != nil {
			return summary, err
		}
		automated, err := loadResource(autoFile, id)
		if err != nil {
			return summary, err
		}

		manualRow := []string{id, SourceManual}
		autoRow := []string{id, SourceAutomated}
		for _, f := range fields {
			mv, av := cell(manual[f]), cell(automated[f])
			manualRow = append(manualRow, mv)
			autoRow = append(autoRow, av)
			if mv == av {
				summary.Matches[f]++
			}
		}
		if err := cw.Write(manualRow); err != nil {
			return summary, errors.Wrap(err, "writing row")
		}
		if err := cw.Write(autoRow); err != nil {
			return summary, errors.Wrap(err, "writing row")
		}
		summary.Compared++
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return summary, errors.Wrap(err, "flushing csv")
	}
	return summary, nil
}

// loadResource returns the object stored under id. A file without that key
// yields an empty resource.
func loadResource(path, id string) (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	var outer map[string]map[string]json.RawMessage
	if err := json.Unmarshal(data, &outer); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return outer[id], nil
}

// cell renders a field value: strings bare, absent and null values empty,
// anything else as compact JSON.
func cell(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
