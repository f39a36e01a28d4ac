// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backlog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bioregistry-curator/pkg/types"
)

const predictionsTSV = "pubmed\ttitle\tscore\n" +
	"34000001\tA database of kinases\t0.93\n" +
	"not-a-pmid\tbroken row\t0.99\n" +
	"34000002\tTitle with \"inner\" quotes\t0.81\n" +
	"\n" +
	"34000003\tShort row\n"

func TestParseTSV(t *testing.T) {
	got, err := ParseTSV(strings.NewReader(predictionsTSV), "pubmed", "title")
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, types.Identifier("34000001"), got[0].Identifier)
	assert.Equal(t, "A database of kinases", got[0].Label)
	assert.Equal(t, "0.93", got[0].Columns["score"])
	assert.Equal(t, `Title with "inner" quotes`, got[1].Label)
	assert.Equal(t, "Short row", got[2].Label)
	assert.NotContains(t, got[2].Columns, "score")
}

func TestParseTSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"missing id column", "doi\ttitle\n10.1/x\tx\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTSV(strings.NewReader(tt.input), "pubmed", "title")
			assert.Error(t, err)
		})
	}
}

func TestParseTSV_NoLabelColumn(t *testing.T) {
	got, err := ParseTSV(strings.NewReader("PubMed\tscore\n1\t0.5\n"), "pubmed", "title")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].Label)
}
