// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bioregistry-curator/pkg/types"
)

func TestNewClient_SetsUserAgent(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer ts.Close()

	c := NewClient(types.HTTPConfig{Timeout: time.Second, UserAgent: "bioregistry-curator/test"})
	resp, err := c.Get(ts.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "bioregistry-curator/test", got)
	assert.Equal(t, time.Second, c.Timeout)
}

func TestNewClient_KeepsExplicitUserAgent(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer ts.Close()

	c := NewClient(types.HTTPConfig{UserAgent: "default"})
	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "explicit")

	resp, err := c.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "explicit", got)
}
