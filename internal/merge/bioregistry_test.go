// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bioregistry-curator/pkg/types"
)

func TestToBioregistry(t *testing.T) {
	entry := Merge(sampleRecord(), successfulScrape(), contributor)

	out := ToBioregistry(entry)
	require.Contains(t, out, "exdb")
	r := out["exdb"]

	assert.Equal(t, "Example DB", r.Name)
	assert.Equal(t, "ada@example.org", r.Contact.Email)
	assert.Equal(t, "Grace Hopper", r.Contributor.Name)
	assert.Equal(t, "0000-0002-1825-0097", r.Contributor.ORCID)
	assert.Equal(t, "EX00001", r.Example)
	assert.Equal(t, `^EX\d{5}$`, r.Pattern)
	assert.Equal(t, "https://www.example-db.org/entry/$1", r.URIFormat)
	assert.Equal(t, "https://www.example-db.org", r.Homepage)
	require.Len(t, r.Publications, 1)
	assert.Equal(t, Publication{DOI: "10.1000/exdb", PubMed: "12345678", Title: entry.Title, Year: entry.Year}, r.Publications[0])
}

func TestToBioregistry_KeyFallbacks(t *testing.T) {
	tests := []struct {
		name    string
		entry   types.DraftRegistryEntry
		wantKey string
	}{
		{
			name: "prefix from name",
			entry: types.DraftRegistryEntry{
				HomepageURL: "https://www.example-db.org",
				ExtraFields: map[string]string{"name": "Protein Atlas v2"},
			},
			wantKey: "proteinatlas",
		},
		{
			name:    "prefix from homepage host",
			entry:   types.DraftRegistryEntry{HomepageURL: "https://www.flybase.org/"},
			wantKey: "flybase",
		},
		{
			name:    "no homepage",
			entry:   types.DraftRegistryEntry{},
			wantKey: "database",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ToBioregistry(tt.entry)
			assert.Contains(t, out, tt.wantKey)
			assert.Len(t, out, 1)
		})
	}
}
