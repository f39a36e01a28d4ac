// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package merge

import (
	"net/url"
	"strings"

	"github.com/pdiddy/bioregistry-curator/internal/scrape"
	"github.com/pdiddy/bioregistry-curator/pkg/types"
)

const (
	fallbackName   = "database"
	fallbackPrefix = "database_key"
)

// BioregistryFields lists the resource fields in the order curation
// comparisons report them.
var BioregistryFields = []string{
	"contact",
	"description",
	"example",
	"homepage",
	"keywords",
	"name",
	"pattern",
	"publications",
	"uri_format",
}

// Contact is a resource maintainer.
type Contact struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	ORCID string `json:"orcid"`
}

// Contributor is the curator credited with a new resource.
type Contributor struct {
	Email  string `json:"email"`
	GitHub string `json:"github"`
	Name   string `json:"name"`
	ORCID  string `json:"orcid"`
}

// Publication cites the paper that described the resource.
type Publication struct {
	DOI    string `json:"doi"`
	PubMed string `json:"pubmed"`
	Title  string `json:"title"`
	Year   *int   `json:"year"`
}

// Resource is one entry in the shape the bioregistry accepts for new
// prefix requests.
type Resource struct {
	Contact            Contact       `json:"contact"`
	Contributor        Contributor   `json:"contributor"`
	Description        string        `json:"description"`
	Example            string        `json:"example"`
	GitHubRequestIssue string        `json:"github_request_issue"`
	Homepage           string        `json:"homepage"`
	Keywords           []string      `json:"keywords"`
	Name               string        `json:"name"`
	Pattern            string        `json:"pattern"`
	Publications       []Publication `json:"publications"`
	URIFormat          string        `json:"uri_format"`
}

// ToBioregistry renders entry as a single-resource bioregistry object
// keyed by prefix. Without a prefix, one is derived from the database name;
// without a name, the homepage host supplies one.
func ToBioregistry(entry types.DraftRegistryEntry) map[string]Resource {
	extra := entry.ExtraFields

	homepage := extra[scrape.FieldHomepage]
	if homepage == "" {
		homepage = entry.HomepageURL
	}

	name := strings.TrimSpace(extra[scrape.FieldName])
	if name == "" {
		name = nameFromHomepage(homepage)
	}

	prefix := ""
	if entry.Prefix != nil {
		prefix = strings.TrimSpace(*entry.Prefix)
	}
	if prefix == "" {
		prefix = scrape.DerivePrefix(name)
	}
	if prefix == "" {
		prefix = fallbackPrefix
	}

	r := Resource{
		Contact: Contact{
			Email: extra[scrape.FieldContactEmail],
			Name:  extra[scrape.FieldContactName],
			ORCID: extra[scrape.FieldContactORCID],
		},
		Contributor: Contributor{
			Email:  entry.Contributor.Email,
			GitHub: entry.Contributor.GitHub,
			Name:   entry.Contributor.Name,
			ORCID:  entry.Contributor.ORCID,
		},
		Description: extra[scrape.FieldDescription],
		Homepage:    homepage,
		Keywords:    append([]string{}, entry.Keywords...),
		Name:        name,
		Publications: []Publication{{
			PubMed: entry.Identifier.String(),
			Title:  entry.Title,
			Year:   entry.Year,
		}},
	}
	if entry.DOI != nil {
		r.Publications[0].DOI = *entry.DOI
	}
	if len(entry.ExampleIdentifiers) > 0 {
		r.Example = entry.ExampleIdentifiers[0]
	}
	if entry.IDPattern != nil {
		r.Pattern = *entry.IDPattern
	}
	if entry.URIFormat != nil {
		r.URIFormat = *entry.URIFormat
	}

	return map[string]Resource{prefix: r}
}

// nameFromHomepage takes the first host label after an optional "www.".
func nameFromHomepage(homepage string) string {
	u, err := url.Parse(homepage)
	if err != nil || u.Hostname() == "" {
		return fallbackName
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	label, _, _ := strings.Cut(host, ".")
	if label == "" {
		return fallbackName
	}
	return label
}
