// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	defaultMaxBody = 5 << 20
	maxExamples    = 5
	idPlaceholder  = "$1"
)

var (
	// idToken matches values that look like database record identifiers:
	// an optional short alphabetic prefix and separator, then a digit.
	idToken      = regexp.MustCompile(`^[A-Za-z]{0,12}[:_.-]?\d[A-Za-z0-9_.:-]{0,30}$`)
	yearToken    = regexp.MustCompile(`^(19|20)\d{2}$`)
	fileSuffix   = regexp.MustCompile(`(?i)\.(html?|php|aspx?|jsp|pdf|png|jpe?g|gif|svg|css|js|zip|gz|txt|xml|json)$`)
	titleSplitRe = regexp.MustCompile(`\s+[-|:—–]+\s+`)
)

// HTMLAgent scrapes a database homepage in-process with goquery. It reads
// page metadata and infers a URI format and example identifiers from
// links that differ only in one identifier-like component.
type HTMLAgent struct {
	client    *http.Client
	userAgent string
	maxBody   int64
}

// NewHTMLAgent returns an HTMLAgent. maxBody caps the bytes read per page.
func NewHTMLAgent(client *http.Client, userAgent string, maxBody int64) *HTMLAgent {
	if maxBody <= 0 {
		maxBody = defaultMaxBody
	}
	return &HTMLAgent{client: client, userAgent: userAgent, maxBody: maxBody}
}

// Scrape fetches pageURL and extracts labeled fields.
func (a *HTMLAgent) Scrape(ctx context.Context, pageURL string) (Fields, error) {
	doc, final, err := a.fetchDocument(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	fields := Fields{FieldHomepage: final.String()}
	if name := siteName(doc); name != "" {
		fields[FieldName] = name
	}
	if desc := metaContent(doc, `meta[name="description"]`, `meta[property="og:description"]`); desc != "" {
		fields[FieldDescription] = desc
	}
	if kw := metaContent(doc, `meta[name="keywords"]`); kw != "" {
		fields[FieldKeywords] = kw
	}
	if email := contactEmail(doc); email != "" {
		fields[FieldContactEmail] = email
	}
	if t, ok := bestTemplate(doc, final); ok {
		fields[FieldURIFormat] = t.format
		fields[FieldExample] = strings.Join(t.examples, ", ")
	}
	return fields, nil
}

func (a *HTMLAgent) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, *url.URL, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, nil, &ParseError{Msg: "invalid page URL", Err: err}
	}
	if a.userAgent != "" {
		req.Header.Set("User-Agent", a.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request homepage: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, &StatusError{URL: pageURL, Code: resp.StatusCode}
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "html") {
		return nil, nil, &ParseError{Msg: fmt.Sprintf("homepage is %s, not HTML", ct)}
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, a.maxBody))
	if err != nil {
		return nil, nil, &ParseError{Msg: "parse homepage", Err: err}
	}
	return doc, resp.Request.URL, nil
}

func siteName(doc *goquery.Document) string {
	if name := metaContent(doc, `meta[property="og:site_name"]`, `meta[name="application-name"]`); name != "" {
		return name
	}
	title := strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
	if title == "" {
		return ""
	}
	return strings.TrimSpace(titleSplitRe.Split(title, 2)[0])
}

// metaContent returns the first non-empty content attribute among selectors.
func metaContent(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if v, ok := doc.Find(sel).First().Attr("content"); ok {
			if v = strings.Join(strings.Fields(v), " "); v != "" {
				return v
			}
		}
	}
	return ""
}

func contactEmail(doc *goquery.Document) string {
	var email string
	doc.Find(`a[href^="mailto:"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		addr, _, _ := strings.Cut(strings.TrimPrefix(href, "mailto:"), "?")
		if addr = strings.TrimSpace(addr); strings.Contains(addr, "@") {
			email = addr
			return false
		}
		return true
	})
	return email
}

type linkTemplate struct {
	format   string
	examples []string
	first    int
}

// bestTemplate groups same-site links by the URL they become when one
// identifier-like component is replaced with $1, and returns the group
// with the most distinct identifiers. At least two identifiers are needed.
func bestTemplate(doc *goquery.Document, base *url.URL) (linkTemplate, bool) {
	groups := map[string]*linkTemplate{}
	n := 0
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		u, err := base.Parse(strings.TrimSpace(href))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || !sameSite(u.Hostname(), base.Hostname()) {
			return
		}
		format, token, ok := templatize(u)
		if !ok {
			return
		}
		g, exists := groups[format]
		if !exists {
			g = &linkTemplate{format: format, first: n}
			groups[format] = g
		}
		n++
		if !contains(g.examples, token) {
			g.examples = append(g.examples, token)
		}
	})

	candidates := make([]*linkTemplate, 0, len(groups))
	for _, g := range groups {
		if len(g.examples) >= 2 {
			candidates = append(candidates, g)
		}
	}
	if len(candidates) == 0 {
		return linkTemplate{}, false
	}
	sort.Slice(candidates, func(i, j int) bool {
		if len(candidates[i].examples) != len(candidates[j].examples) {
			return len(candidates[i].examples) > len(candidates[j].examples)
		}
		return candidates[i].first < candidates[j].first
	})

	best := *candidates[0]
	if len(best.examples) > maxExamples {
		best.examples = best.examples[:maxExamples]
	}
	return best, true
}

// templatize replaces the identifier-like component of u with $1. Query
// values are tried first (in key order), then the last path segment.
func templatize(u *url.URL) (format, token string, ok bool) {
	q := u.Query()
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := q.Get(k)
		if !looksLikeID(v) {
			continue
		}
		q.Set(k, "\x00")
		t := *u
		t.Fragment = ""
		t.RawQuery = strings.Replace(q.Encode(), "%00", idPlaceholder, 1)
		return t.String(), v, true
	}

	path := u.EscapedPath()
	trailing := strings.HasSuffix(path, "/")
	trimmed := strings.TrimSuffix(path, "/")
	i := strings.LastIndex(trimmed, "/")
	if i < 0 {
		return "", "", false
	}
	seg, err := url.PathUnescape(trimmed[i+1:])
	if err != nil || !looksLikeID(seg) {
		return "", "", false
	}
	format = u.Scheme + "://" + u.Host + trimmed[:i+1] + idPlaceholder
	if trailing {
		format += "/"
	}
	if u.RawQuery != "" {
		format += "?" + u.RawQuery
	}
	return format, seg, true
}

func looksLikeID(s string) bool {
	return idToken.MatchString(s) && !yearToken.MatchString(s) && !fileSuffix.MatchString(s)
}

// sameSite compares hosts ignoring a leading "www.".
func sameSite(a, b string) bool {
	return strings.TrimPrefix(strings.ToLower(a), "www.") == strings.TrimPrefix(strings.ToLower(b), "www.")
}
