// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"net/http"

	"github.com/pdiddy/bioregistry-curator/pkg/types"
)

// NewClient returns an HTTP client that stamps every request with the
// configured User-Agent. The client timeout is cfg.Timeout.
func NewClient(cfg types.HTTPConfig) *http.Client {
	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: &userAgentTransport{ua: cfg.UserAgent, next: http.DefaultTransport},
	}
}

type userAgentTransport struct {
	ua   string
	next http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.ua == "" || req.Header.Get("User-Agent") != "" {
		return t.next.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.ua)
	return t.next.RoundTrip(r)
}
