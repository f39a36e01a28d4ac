// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backlog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/bioregistry-curator/pkg/types"
)

func cand(id, score string) Candidate {
	return Candidate{Identifier: types.Identifier(id), Label: "paper " + id, Columns: map[string]string{"score": score}}
}

func ids(entries []types.BacklogEntry) []types.Identifier {
	out := make([]types.Identifier, len(entries))
	for i, e := range entries {
		out[i] = e.Identifier
	}
	return out
}

func TestRank_ExcludesCurated(t *testing.T) {
	candidates := []Candidate{cand("101", "0.9"), cand("102", "0.8"), cand("103", "0.7")}
	curated := map[types.Identifier]struct{}{"102": {}}

	got := Rank(candidates, curated, ByColumn("score", true))

	assert.Equal(t, []types.Identifier{"101", "103"}, ids(got))
	assert.Equal(t, 1, got[0].Rank)
	assert.Equal(t, 2, got[1].Rank)
	assert.Equal(t, "paper 103", got[1].DisplayLabel)
}

func TestRank_AllCuratedIsEmptyNotNil(t *testing.T) {
	got := Rank([]Candidate{cand("1", "1")}, map[types.Identifier]struct{}{"1": {}}, nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRank_Deterministic(t *testing.T) {
	a := []Candidate{cand("900", "0.5"), cand("1000", "0.5"), cand("20", "0.9"), cand("30", "x"), cand("25", "")}
	b := []Candidate{a[3], a[1], a[4], a[0], a[2]}

	first := Rank(a, nil, ByColumn("score", true))
	second := Rank(b, nil, ByColumn("score", true))

	assert.Equal(t, first, second)
	// Equal scores tie-break numerically, non-numeric scores go last.
	assert.Equal(t, []types.Identifier{"20", "900", "1000", "25", "30"}, ids(first))
}

func TestRank_DuplicatesKeepFirstRow(t *testing.T) {
	got := Rank([]Candidate{cand("7", "0.1"), cand("7", "0.9"), cand("8", "0.5")}, nil, ByColumn("score", true))
	assert.Equal(t, []types.Identifier{"8", "7"}, ids(got))
}

func TestByColumn_Ascending(t *testing.T) {
	got := Rank([]Candidate{cand("1", "3"), cand("2", "1"), cand("3", "2")}, nil, ByColumn("score", false))
	assert.Equal(t, []types.Identifier{"2", "3", "1"}, ids(got))
}

func TestRank_NilComparatorOrdersByIdentifier(t *testing.T) {
	got := Rank([]Candidate{cand("10", ""), cand("9", ""), cand("011", "")}, nil, nil)
	assert.Equal(t, []types.Identifier{"9", "10", "011"}, ids(got))
}
