// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backlog

import (
	"math"
	"sort"
	"strconv"

	"github.com/pdiddy/bioregistry-curator/pkg/types"
)

// Comparator orders two candidates: negative when a ranks before b,
// positive when after, zero when the comparator cannot tell them apart.
type Comparator func(a, b Candidate) int

// ByColumn orders candidates by the numeric value of column. Cells that are
// missing or not numbers rank after every numeric cell.
func ByColumn(column string, descending bool) Comparator {
	return func(a, b Candidate) int {
		av, aok := numeric(a.Columns[column])
		bv, bok := numeric(b.Columns[column])
		switch {
		case !aok && !bok:
			return 0
		case !aok:
			return 1
		case !bok:
			return -1
		}
		c := compareFloat(av, bv)
		if descending {
			return -c
		}
		return c
	}
}

func numeric(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Rank drops curated and duplicate identifiers (the first row wins), sorts
// the rest with cmp and numbers them from 1. Ties under cmp are broken by
// identifier in ascending numeric order, so the result is fully
// determined by its inputs. A nil cmp orders by identifier alone.
func Rank(candidates []Candidate, curated map[types.Identifier]struct{}, cmp Comparator) []types.BacklogEntry {
	seen := make(map[types.Identifier]struct{}, len(candidates))
	kept := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := curated[c.Identifier]; ok {
			continue
		}
		if _, ok := seen[c.Identifier]; ok {
			continue
		}
		seen[c.Identifier] = struct{}{}
		kept = append(kept, c)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if cmp != nil {
			if c := cmp(kept[i], kept[j]); c != 0 {
				return c < 0
			}
		}
		return types.CompareIdentifiers(kept[i].Identifier, kept[j].Identifier) < 0
	})

	out := make([]types.BacklogEntry, len(kept))
	for i, c := range kept {
		out[i] = types.BacklogEntry{Identifier: c.Identifier, DisplayLabel: c.Label, Rank: i + 1}
	}
	return out
}
