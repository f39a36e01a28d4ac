// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package merge combines a normalized bibliographic record, a scrape
// result and contributor details into a draft registry entry.
package merge

import (
	"github.com/pdiddy/bioregistry-curator/internal/scrape"
	"github.com/pdiddy/bioregistry-curator/pkg/types"
)

// maxKeywords bounds keywords taken from a scrape when the record has none.
const maxKeywords = 3

// Draft field names used as provenance keys. They match the JSON names.
const (
	FieldIdentifier         = "identifier"
	FieldTitle              = "title"
	FieldAuthors            = "authors"
	FieldYear               = "year"
	FieldDOI                = "doi"
	FieldDescription        = "description"
	FieldKeywords           = "keywords"
	FieldHomepageURL        = "homepageUrl"
	FieldPrefix             = "prefix"
	FieldIDPattern          = "idPattern"
	FieldExampleIdentifiers = "exampleIdentifiers"
	FieldURIFormat          = "uriFormat"
	FieldExtraFields        = "extraFields"
	FieldContributor        = "contributor"
)

// Merge builds a draft entry. Precedence, in order:
//
//  1. bibliographic fields come from the record, always;
//  2. structural fields come from the scrape only when it succeeded;
//  3. the homepage is the URL that was scraped, whether or not it succeeded;
//  4. keywords come from the record, else from a successful scrape;
//  5. contributor details are attached as given.
//
// Merge is pure: the same inputs always give an equal entry, and no input
// is modified or aliased by the result.
func Merge(rec types.BibliographicRecord, res types.ScrapeResult, contributor types.ContributorInfo) types.DraftRegistryEntry {
	rec = rec.Clone()
	prov := types.Provenance{}

	entry := types.DraftRegistryEntry{
		Identifier:  rec.Identifier,
		Title:       rec.Title,
		Authors:     rec.Authors,
		Year:        rec.Year,
		DOI:         rec.DOI,
		Description: rec.Description,
		HomepageURL: res.SourceURL,
		Contributor: contributor,
	}
	if entry.Authors == nil {
		entry.Authors = []string{}
	}
	prov[FieldIdentifier] = types.SourceBibliographic
	prov[FieldTitle] = types.SourceBibliographic
	prov[FieldAuthors] = types.SourceBibliographic
	if entry.Year != nil {
		prov[FieldYear] = types.SourceBibliographic
	}
	if entry.DOI != nil {
		prov[FieldDOI] = types.SourceBibliographic
	}
	if entry.Description != "" {
		prov[FieldDescription] = types.SourceBibliographic
	}
	if entry.HomepageURL != "" {
		prov[FieldHomepageURL] = types.SourceScrape
	}
	if !contributor.IsZero() {
		prov[FieldContributor] = types.SourceContributor
	}

	if len(rec.Keywords) > 0 {
		entry.Keywords = rec.Keywords
		prov[FieldKeywords] = types.SourceBibliographic
	}

	if !res.Success {
		return withProvenance(entry, prov)
	}

	source := func(field string) string {
		if res.IsInferred(field) {
			return types.SourceScrapeInferred
		}
		return types.SourceScrape
	}
	if res.PrefixCandidate != nil {
		entry.Prefix = copyString(res.PrefixCandidate)
		prov[FieldPrefix] = source(scrape.FieldPrefix)
	}
	if res.IDPatternCandidate != nil {
		entry.IDPattern = copyString(res.IDPatternCandidate)
		prov[FieldIDPattern] = source(scrape.FieldPattern)
	}
	if len(res.ExampleIdentifiers) > 0 {
		entry.ExampleIdentifiers = append([]string(nil), res.ExampleIdentifiers...)
		prov[FieldExampleIdentifiers] = types.SourceScrape
	}
	if res.URIFormatCandidate != nil {
		entry.URIFormat = copyString(res.URIFormatCandidate)
		prov[FieldURIFormat] = types.SourceScrape
	}
	if len(res.ExtraFields) > 0 {
		entry.ExtraFields = make(map[string]string, len(res.ExtraFields))
		for k, v := range res.ExtraFields {
			entry.ExtraFields[k] = v
		}
		prov[FieldExtraFields] = types.SourceScrape
	}
	if entry.Keywords == nil {
		if kw := scrape.SplitKeywords(res.ExtraFields[scrape.FieldKeywords], maxKeywords); len(kw) > 0 {
			entry.Keywords = kw
			prov[FieldKeywords] = types.SourceScrape
		}
	}

	return withProvenance(entry, prov)
}

// OverrideHomepage marks the homepage as curator-supplied. The pipeline
// calls it when the scraped URL came from a curator override.
func OverrideHomepage(entry *types.DraftRegistryEntry) {
	if entry.Provenance == nil {
		entry.Provenance = types.Provenance{}
	}
	entry.Provenance[FieldHomepageURL] = types.SourceCurator
}

func withProvenance(entry types.DraftRegistryEntry, prov types.Provenance) types.DraftRegistryEntry {
	entry.Provenance = prov
	return entry
}

func copyString(s *string) *string {
	v := *s
	return &v
}
