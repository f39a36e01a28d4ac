// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLabeled(t *testing.T) {
	out := `Here is what I found:\n- **Name**: Example DB\n* Prefix: exdb
Pattern: ^EX\\d{5}$
URI Format: https://www.example-db.org/entry/$1
https://www.example-db.org/
Contact Email: EMPTY
Contact Email: ada@example.org
no colon here`

	got := ParseLabeled(out)

	assert.Equal(t, Fields{
		"Here is what I found": "",
		"Name":                 "Example DB",
		"Prefix":               "exdb",
		"Pattern":              `^EX\\d{5}$`,
		"URI Format":           "https://www.example-db.org/entry/$1",
		"Contact Email":        "ada@example.org",
	}, got)
}

func TestParseLabeled_FeedsCoerce(t *testing.T) {
	res := Coerce("https://www.example-db.org", ParseLabeled("Pattern: ^EX\\\\d{5}$\nExample: EX00001"))
	if assert.NotNil(t, res.IDPatternCandidate) {
		assert.Equal(t, `^EX\d{5}$`, *res.IDPatternCandidate)
	}
	assert.Equal(t, []string{"EX00001"}, res.ExampleIdentifiers)
}

func TestParseLabeled_Empty(t *testing.T) {
	assert.Empty(t, ParseLabeled(""))
	assert.Empty(t, ParseLabeled("nothing useful"))
}
