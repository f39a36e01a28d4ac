// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backlog

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/pdiddy/bioregistry-curator/internal/errors"
	"github.com/pdiddy/bioregistry-curator/internal/logger"
	"github.com/pdiddy/bioregistry-curator/pkg/types"
)

// ParseTSV reads a tab-separated table with a header row. Rows whose
// idColumn is not a valid identifier are skipped. labelColumn may be empty
// or absent from the header.
func ParseTSV(r io.Reader, idColumn, labelColumn string) ([]Candidate, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("dataset is empty")
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading dataset header")
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	idIdx := indexOf(header, idColumn)
	if idIdx < 0 {
		return nil, errors.Newf("dataset has no %q column", idColumn)
	}
	labelIdx := indexOf(header, labelColumn)

	var (
		out     []Candidate
		skipped int
	)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading dataset row")
		}
		if idIdx >= len(row) {
			skipped++
			continue
		}
		id, ok := types.ParseIdentifier(row[idIdx])
		if !ok {
			skipped++
			continue
		}

		c := Candidate{Identifier: id, Columns: make(map[string]string, len(header))}
		for i, name := range header {
			if i < len(row) {
				c.Columns[name] = strings.TrimSpace(row[i])
			}
		}
		if labelIdx >= 0 {
			c.Label = c.Columns[header[labelIdx]]
		}
		out = append(out, c)
	}

	if skipped > 0 {
		logger.Logger.Debugw("skipped dataset rows without a valid identifier", "rows", skipped, "column", idColumn)
	}
	return out, nil
}

func indexOf(header []string, name string) int {
	if name == "" {
		return -1
	}
	for i, h := range header {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}
