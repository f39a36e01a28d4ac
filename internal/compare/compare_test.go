// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compare

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestCompare(t *testing.T) {
	root := t.TempDir()
	manual := filepath.Join(root, "manual")
	automated := filepath.Join(root, "automated")

	writeFile(t, manual, "foodb.json", `{"foodb": {
		"name": "FooDB",
		"homepage": "https://foodb.org",
		"keywords": ["food", "chemistry"],
		"pattern": "^FDB\\d+$"
	}}`)
	writeFile(t, automated, "foodb.json", `{"foodb": {
		"name": "FooDB",
		"homepage": "https://foodb.org/",
		"keywords": ["food",  "chemistry"],
		"pattern": null
	}}`)
	writeFile(t, manual, "bardb.json", `{"bardb": {"name": "BarDB"}}`)

	var out bytes.Buffer
	summary, err := Compare(manual, automated, []string{"name", "homepage", "keywords", "pattern"}, &out)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Compared)
	assert.Equal(t, []string{"bardb"}, summary.Skipped)
	assert.Equal(t, map[string]int{"name": 1, "keywords": 1}, summary.Matches)

	rows, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Resource", "Source", "name", "homepage", "keywords", "pattern"},
		{"foodb", "Manual", "FooDB", "https://foodb.org", `["food","chemistry"]`, `^FDB\d+$`},
		{"foodb", "Automated", "FooDB", "https://foodb.org/", `["food","chemistry"]`, ""},
	}, rows)
}

func TestCompare_MissingResourceKey(t *testing.T) {
	root := t.TempDir()
	manual := filepath.Join(root, "manual")
	automated := filepath.Join(root, "automated")
	writeFile(t, manual, "x.json", `{"x": {"name": "X"}}`)
	writeFile(t, automated, "x.json", `{"other": {"name": "X"}}`)

	var out bytes.Buffer
	summary, err := Compare(manual, automated, []string{"name"}, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Compared)
	assert.Zero(t, summary.Matches["name"])
}

func TestCompare_Malformed(t *testing.T) {
	root := t.TempDir()
	manual := filepath.Join(root, "manual")
	automated := filepath.Join(root, "automated")
	writeFile(t, manual, "x.json", `{"x": {"name": "X"}}`)
	writeFile(t, automated, "x.json", `not json`)

	var out bytes.Buffer
	_, err := Compare(manual, automated, []string{"name"}, &out)
	assert.Error(t, err)
}

func TestCompare_EmptyManualDir(t *testing.T) {
	var out bytes.Buffer
	summary, err := Compare(t.TempDir(), t.TempDir(), []string{"name"}, &out)
	require.NoError(t, err)
	assert.Zero(t, summary.Compared)
	assert.Equal(t, "Resource,Source,name\n", out.String())
}
