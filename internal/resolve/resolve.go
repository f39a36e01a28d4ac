// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve picks the URL of the database a publication describes.
//
// Rules, in order:
//  1. A curator-supplied override always wins.
//  2. Candidate URLs are extracted from the description in order of
//     appearance, with trailing punctuation removed and repeats dropped.
//  3. The first candidate whose host is not a publisher, literature index,
//     license or identifier-registry host is chosen.
//  4. If every candidate is such a host, the first candidate is chosen.
//  5. With no candidates at all, resolution fails with NoCandidateUrl.
package resolve

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/pdiddy/bioregistry-curator/internal/errors"
	"github.com/pdiddy/bioregistry-curator/pkg/types"
)

var (
	urlPattern    = regexp.MustCompile(`https?://[^\s\)\]>"'<]+`)
	trailingPunct = regexp.MustCompile(`[.,;:]+$`)
)

// deniedHosts are hosts that publications link to but that are never the
// database itself. Subdomains are denied too.
var deniedHosts = []string{
	// DOI and identifier resolvers
	"doi.org", "dx.doi.org", "identifiers.org", "n2t.net", "purl.org", "w3id.org", "bioregistry.io",
	// literature indexes
	"pubmed.ncbi.nlm.nih.gov", "pmc.ncbi.nlm.nih.gov", "europepmc.org", "scholar.google.com",
	"semanticscholar.org", "researchgate.net", "biorxiv.org", "medrxiv.org", "arxiv.org",
	// journal and publisher hosts
	"academic.oup.com", "oup.com", "nature.com", "springer.com", "link.springer.com",
	"biomedcentral.com", "sciencedirect.com", "elsevier.com", "cell.com", "wiley.com",
	"onlinelibrary.wiley.com", "plos.org", "journals.plos.org", "frontiersin.org", "mdpi.com",
	"tandfonline.com", "sagepub.com", "science.org", "pnas.org", "embopress.org", "elifesciences.org",
	"f1000research.com", "peerj.com", "hindawi.com", "genome.cshlp.org", "cshlp.org",
	// license hosts
	"creativecommons.org", "opensource.org", "gnu.org",
	// code and archive hosts commonly cited for supplementary material
	"zenodo.org", "figshare.com", "orcid.org",
}

// Resolver applies the resolution rules. It holds no mutable state.
type Resolver struct {
	denied map[string]bool
}

// New returns a Resolver whose deny-list is extended by extraDenied.
func New(extraDenied []string) *Resolver {
	denied := make(map[string]bool, len(deniedHosts)+len(extraDenied))
	for _, h := range deniedHosts {
		denied[h] = true
	}
	for _, h := range extraDenied {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			denied[h] = true
		}
	}
	return &Resolver{denied: denied}
}

// Resolve returns the database URL for record. A non-empty override is
// returned as-is after checking it is an absolute http(s) URL.
func (r *Resolver) Resolve(record types.BibliographicRecord, override string) (string, error) {
	if override = strings.TrimSpace(override); override != "" {
		if _, ok := parseHTTP(override); !ok {
			return "", errors.NoCandidateURL("override %q is not an absolute http(s) URL", override)
		}
		return override, nil
	}

	candidates := Candidates(record.Description)
	if len(candidates) == 0 {
		return "", errors.NoCandidateURL("no URL found in the abstract of PMID %s", record.Identifier)
	}
	for _, c := range candidates {
		if !r.IsDenied(c) {
			return c, nil
		}
	}
	return candidates[0], nil
}

// IsDenied reports whether rawURL points at a deny-listed host.
func (r *Resolver) IsDenied(rawURL string) bool {
	u, ok := parseHTTP(rawURL)
	if !ok {
		return true
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	for {
		if r.denied[host] {
			return true
		}
		i := strings.IndexByte(host, '.')
		if i < 0 {
			return false
		}
		host = host[i+1:]
	}
}

// Candidates extracts http(s) URLs from text in order of first appearance.
func Candidates(text string) []string {
	var out []string
	seen := map[string]bool{}
	for _, m := range urlPattern.FindAllString(text, -1) {
		m = trailingPunct.ReplaceAllString(m, "")
		if seen[m] {
			continue
		}
		if _, ok := parseHTTP(m); !ok {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}

func parseHTTP(s string) (*url.URL, bool) {
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, false
	}
	return u, true
}
