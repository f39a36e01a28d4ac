// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/bioregistry-curator/internal/logger"
	"github.com/pdiddy/bioregistry-curator/pkg/types"
)

// Canonical field names. The first four map to ScrapeResult candidates;
// the rest are kept in ExtraFields under these names.
const (
	FieldPrefix       = "prefix"
	FieldPattern      = "pattern"
	FieldExample      = "example"
	FieldURIFormat    = "uri_format"
	FieldName         = "name"
	FieldDescription  = "description"
	FieldHomepage     = "homepage"
	FieldContactName  = "contact_name"
	FieldContactEmail = "contact_email"
	FieldContactORCID = "contact_orcid"
	FieldKeywords     = "keywords"
)

// maxScrapedKeywords caps keywords taken from a site.
const maxScrapedKeywords = 3

var (
	labelSeparators = regexp.MustCompile(`[_\-\s]+`)
	exampleSplit    = regexp.MustCompile(`[,;\s]+`)
	emailPattern    = regexp.MustCompile(`[\w.+-]+@[\w-]+\.[\w.-]+`)
	orcidPattern    = regexp.MustCompile(`\d{4}-\d{4}-\d{4}-\d{3}[\dX]`)
	letterDigits    = regexp.MustCompile(`^([A-Z]+)(\d+)$`)
	allDigits       = regexp.MustCompile(`^\d+$`)
	versionSuffix   = regexp.MustCompile(`(?i)\s*(?:v|version)\s*\d+(?:\.\d+)*$`)
	nonAlnum        = regexp.MustCompile(`[^A-Za-z0-9]+`)
)

// aliases maps normalized agent labels onto canonical field names.
var aliases = map[string]string{
	"prefix":              FieldPrefix,
	"registry_prefix":     FieldPrefix,
	"namespace":           FieldPrefix,
	"database_prefix":     FieldPrefix,
	"pattern":             FieldPattern,
	"id_pattern":          FieldPattern,
	"identifier_pattern":  FieldPattern,
	"regex":               FieldPattern,
	"regexp":              FieldPattern,
	"local_id_pattern":    FieldPattern,
	"example":             FieldExample,
	"examples":            FieldExample,
	"example_id":          FieldExample,
	"example_ids":         FieldExample,
	"example_identifier":  FieldExample,
	"example_identifiers": FieldExample,
	"uri_format":          FieldURIFormat,
	"url_format":          FieldURIFormat,
	"uri_pattern":         FieldURIFormat,
	"url_pattern":         FieldURIFormat,
	"uri_template":        FieldURIFormat,
	"resolver_url":        FieldURIFormat,
	"name":                FieldName,
	"database_name":       FieldName,
	"title":               FieldName,
	"description":         FieldDescription,
	"summary":             FieldDescription,
	"homepage":            FieldHomepage,
	"homepage_url":        FieldHomepage,
	"website":             FieldHomepage,
	"contact":             FieldContactName,
	"contact_name":        FieldContactName,
	"contact_person":      FieldContactName,
	"email":               FieldContactEmail,
	"contact_email":       FieldContactEmail,
	"orcid":               FieldContactORCID,
	"contact_orcid":       FieldContactORCID,
	"keywords":            FieldKeywords,
	"keyword":             FieldKeywords,
	"tags":                FieldKeywords,
}

// placeholders are values agents emit when they found nothing.
var placeholders = map[string]bool{
	"":        true,
	"empty":   true,
	"n/a":     true,
	"na":      true,
	"none":    true,
	"null":    true,
	"unknown": true,
	"-":       true,
}

// NormalizeLabel lower-cases label and folds runs of underscores, dashes
// and whitespace into a single underscore.
func NormalizeLabel(label string) string {
	l := labelSeparators.ReplaceAllString(strings.TrimSpace(label), "_")
	return strings.Trim(strings.ToLower(l), "_")
}

// canonical returns the canonical field for a normalized label, or "".
func canonical(label string) string {
	if f, ok := aliases[label]; ok {
		return f
	}
	if strings.Contains(label, "uri") && strings.Contains(label, "format") {
		return FieldURIFormat
	}
	return ""
}

func isPlaceholder(v string) bool {
	return placeholders[strings.ToLower(strings.TrimSpace(v))]
}

// Coerce maps raw agent fields onto a ScrapeResult. It is the single place
// where agent output is interpreted. Recognized labels fill candidates,
// placeholder values are dropped, unrecognized labels are kept in
// ExtraFields, and missing values that can be derived from others are
// filled in and listed in Inferred. Success is left false for the caller.
func Coerce(sourceURL string, fields Fields) types.ScrapeResult {
	res := types.ScrapeResult{SourceURL: sourceURL}
	extra := map[string]string{}

	// Iterate in sorted label order so repeated labels resolve the same way
	// every time.
	labels := make([]string, 0, len(fields))
	for l := range fields {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	for _, raw := range labels {
		value := strings.TrimSpace(fields[raw])
		if isPlaceholder(value) {
			continue
		}
		label := NormalizeLabel(raw)
		if label == "" {
			continue
		}

		switch field := canonical(label); field {
		case FieldPrefix:
			if res.PrefixCandidate == nil {
				res.PrefixCandidate = ptr(strings.ToLower(value))
			}
		case FieldPattern:
			if res.IDPatternCandidate == nil {
				res.IDPatternCandidate = ptr(strings.ReplaceAll(value, `\\`, `\`))
			}
		case FieldExample:
			res.ExampleIdentifiers = appendExamples(res.ExampleIdentifiers, value)
		case FieldURIFormat:
			if res.URIFormatCandidate == nil {
				res.URIFormatCandidate = ptr(value)
			}
		case "":
			extra[label] = value
		default:
			if _, ok := extra[field]; !ok {
				extra[field] = value
			}
		}
	}

	if len(extra) > 0 {
		res.ExtraFields = extra
	}
	postProcess(&res)
	return res
}

func appendExamples(dst []string, value string) []string {
	for _, ex := range exampleSplit.Split(value, -1) {
		if ex == "" || isPlaceholder(ex) || contains(dst, ex) {
			continue
		}
		dst = append(dst, ex)
	}
	return dst
}

// postProcess fills values derivable from other scraped values and logs
// sanity warnings about the URI format.
func postProcess(res *types.ScrapeResult) {
	extra := res.ExtraFields
	if extra == nil {
		extra = map[string]string{}
	}

	if name := extra[FieldContactName]; name != "" {
		if email := emailPattern.FindString(name); email != "" {
			if extra[FieldContactEmail] == "" {
				extra[FieldContactEmail] = email
			}
			if rest := strings.Trim(strings.Replace(name, email, "", 1), "()<>,; "); rest != "" {
				extra[FieldContactName] = rest
			} else {
				delete(extra, FieldContactName)
			}
		}
		if orcid := orcidPattern.FindString(name); orcid != "" && extra[FieldContactORCID] == "" {
			extra[FieldContactORCID] = orcid
		}
	}

	if kw := extra[FieldKeywords]; kw != "" {
		extra[FieldKeywords] = strings.Join(SplitKeywords(kw, maxScrapedKeywords), ", ")
	}

	if home := extra[FieldHomepage]; home != "" {
		extra[FieldHomepage] = strings.TrimRight(home, "/")
	}

	if res.IDPatternCandidate == nil {
		if p := InferPattern(res.ExampleIdentifiers); p != "" {
			res.IDPatternCandidate = &p
			res.Inferred = append(res.Inferred, FieldPattern)
		}
	}

	if res.PrefixCandidate == nil {
		if p := DerivePrefix(extra[FieldName]); p != "" {
			res.PrefixCandidate = &p
			res.Inferred = append(res.Inferred, FieldPrefix)
		}
	}

	if res.URIFormatCandidate != nil {
		for _, w := range URIFormatWarnings(*res.URIFormatCandidate) {
			logger.Logger.Warnw("suspicious uri format", "url", res.SourceURL, "uri_format", *res.URIFormatCandidate, "warning", w)
		}
	}

	if len(extra) > 0 {
		res.ExtraFields = extra
	}
}

// InferPattern derives an ID pattern from example identifiers when they
// all share one recognizable shape: digits only, or an upper-case prefix
// followed by digits. Equal lengths give a fixed-width pattern.
func InferPattern(examples []string) string {
	if len(examples) == 0 {
		return ""
	}

	if all(examples, allDigits.MatchString) {
		if n, ok := sameLength(examples); ok {
			return fmt.Sprintf(`^\d{%d}$`, n)
		}
		return `^\d+$`
	}

	var prefix string
	digits := make([]string, 0, len(examples))
	for _, ex := range examples {
		m := letterDigits.FindStringSubmatch(ex)
		if m == nil || (prefix != "" && m[1] != prefix) {
			return ""
		}
		prefix = m[1]
		digits = append(digits, m[2])
	}
	if n, ok := sameLength(digits); ok {
		return fmt.Sprintf(`^%s\d{%d}$`, prefix, n)
	}
	return fmt.Sprintf(`^%s\d+$`, prefix)
}

// DerivePrefix builds a registry prefix from a database name: a trailing
// version is dropped and the remaining alphanumerics are lower-cased.
func DerivePrefix(name string) string {
	name = versionSuffix.ReplaceAllString(strings.TrimSpace(name), "")
	return strings.ToLower(nonAlnum.ReplaceAllString(name, ""))
}

// SplitKeywords splits a comma or semicolon separated keyword list,
// keeping at most limit distinct entries.
func SplitKeywords(s string, limit int) []string {
	var out []string
	for _, k := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' }) {
		k = strings.Join(strings.Fields(k), " ")
		if k == "" || contains(out, k) {
			continue
		}
		out = append(out, k)
		if len(out) == limit {
			break
		}
	}
	return out
}

// URIFormatWarnings lists reasons a URI format looks wrong. Formats are
// still accepted; the warnings are for the curator.
func URIFormatWarnings(format string) []string {
	var warnings []string
	if !strings.Contains(format, "$1") {
		warnings = append(warnings, "no $1 placeholder")
	}
	lower := strings.ToLower(format)
	if strings.Contains(lower, "index.html") || strings.Contains(lower, "default.html") {
		warnings = append(warnings, "points at an index page rather than an entry page")
	}
	if path := strings.SplitN(strings.TrimPrefix(strings.TrimPrefix(format, "https://"), "http://"), "?", 2)[0]; strings.Count(path, "/") > 4 {
		warnings = append(warnings, "deeply nested path")
	}
	return warnings
}

func all(ss []string, f func(string) bool) bool {
	for _, s := range ss {
		if !f(s) {
			return false
		}
	}
	return true
}

func sameLength(ss []string) (int, bool) {
	n := len(ss[0])
	for _, s := range ss[1:] {
		if len(s) != n {
			return 0, false
		}
	}
	return n, true
}

func contains(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}

func ptr(s string) *string { return &s }
