// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RawRecord is what a bibliographic metadata provider returns before
// normalization. Fields are copied verbatim from the upstream source.
type RawRecord struct {
	Title    string
	Authors  []string
	Year     string
	PubDate  string
	DOI      string
	Abstract string
	Keywords []string
}

// BibliographicRecord is the normalized description of a publication.
// Year and DOI are nil when the source did not carry a usable value.
type BibliographicRecord struct {
	Identifier  Identifier `json:"identifier"`
	Title       string     `json:"title"`
	Authors     []string   `json:"authors"`
	Year        *int       `json:"year,omitempty"`
	DOI         *string    `json:"doi,omitempty"`
	Description string     `json:"description"`
	Keywords    []string   `json:"keywords,omitempty"`
}

// Clone returns a deep copy so callers cannot mutate shared slices.
func (r BibliographicRecord) Clone() BibliographicRecord {
	out := r
	out.Authors = cloneStrings(r.Authors)
	out.Keywords = cloneStrings(r.Keywords)
	if r.Year != nil {
		y := *r.Year
		out.Year = &y
	}
	if r.DOI != nil {
		d := *r.DOI
		out.DOI = &d
	}
	return out
}

// ScrapeErrorKind classifies a failed scrape attempt.
type ScrapeErrorKind string

const (
	ScrapeTimeout  ScrapeErrorKind = "timeout"
	ScrapeNetwork  ScrapeErrorKind = "network"
	ScrapeParse    ScrapeErrorKind = "parse"
	ScrapeCanceled ScrapeErrorKind = "canceled"
	ScrapeAgent    ScrapeErrorKind = "agent"
)

// ScrapeError describes why a scrape did not succeed.
type ScrapeError struct {
	Kind    ScrapeErrorKind `json:"kind"`
	Message string          `json:"message"`
}

// ScrapeResult is the canonical shape of whatever a scraper agent produced
// for one URL. Candidate fields are nil when the agent had nothing usable.
type ScrapeResult struct {
	SourceURL          string            `json:"sourceUrl"`
	PrefixCandidate    *string           `json:"prefixCandidate,omitempty"`
	IDPatternCandidate *string           `json:"idPatternCandidate,omitempty"`
	ExampleIdentifiers []string          `json:"exampleIdentifiers,omitempty"`
	URIFormatCandidate *string           `json:"uriFormatCandidate,omitempty"`
	ExtraFields        map[string]string `json:"extraFields,omitempty"`
	Success            bool              `json:"success"`
	ErrorDetail        *ScrapeError      `json:"errorDetail,omitempty"`

	// Inferred names the canonical fields that were derived from other
	// scraped values rather than read directly from the page.
	Inferred []string `json:"-"`
}

// IsInferred reports whether field was derived during coercion.
func (s ScrapeResult) IsInferred(field string) bool {
	for _, f := range s.Inferred {
		if f == field {
			return true
		}
	}
	return false
}

// ContributorInfo identifies the curator submitting a draft. It is passed
// through to the draft untouched; only the ORCID shape is checked.
type ContributorInfo struct {
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
	Email  string `json:"email,omitempty" yaml:"email,omitempty"`
	ORCID  string `json:"orcid,omitempty" yaml:"orcid,omitempty" validate:"omitempty,orcid"`
	GitHub string `json:"github,omitempty" yaml:"github,omitempty"`
}

// IsZero reports whether no contributor detail was supplied.
func (c ContributorInfo) IsZero() bool {
	return c == ContributorInfo{}
}

// Provenance source tags.
const (
	SourceBibliographic  = "bibliographic"
	SourceScrape         = "scrape"
	SourceScrapeInferred = "scrape-inferred"
	SourceCurator        = "curator"
	SourceContributor    = "contributor"
)

// Provenance maps a draft field name to the source that supplied it.
type Provenance map[string]string

// DraftRegistryEntry is the merged output presented to the curator.
type DraftRegistryEntry struct {
	Identifier         Identifier        `json:"identifier" yaml:"identifier"`
	Title              string            `json:"title" yaml:"title"`
	Authors            []string          `json:"authors" yaml:"authors"`
	Year               *int              `json:"year,omitempty" yaml:"year,omitempty"`
	DOI                *string           `json:"doi,omitempty" yaml:"doi,omitempty"`
	Description        string            `json:"description,omitempty" yaml:"description,omitempty"`
	Keywords           []string          `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	HomepageURL        string            `json:"homepageUrl" yaml:"homepage_url"`
	Prefix             *string           `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	IDPattern          *string           `json:"idPattern,omitempty" yaml:"id_pattern,omitempty"`
	ExampleIdentifiers []string          `json:"exampleIdentifiers,omitempty" yaml:"example_identifiers,omitempty"`
	URIFormat          *string           `json:"uriFormat,omitempty" yaml:"uri_format,omitempty"`
	ExtraFields        map[string]string `json:"extraFields,omitempty" yaml:"extra_fields,omitempty"`
	Contributor        ContributorInfo   `json:"contributor" yaml:"contributor"`

	Provenance Provenance `json:"-" yaml:"-"`
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
