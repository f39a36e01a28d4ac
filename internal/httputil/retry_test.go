// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	RetryBaseDelay = 1 * time.Millisecond
}

// sequenceServer answers with the given statuses in order, repeating the
// last one once the sequence is used up.
func sequenceServer(t *testing.T, statuses ...int) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := int(atomic.AddInt32(&calls, 1))
		if n > len(statuses) {
			n = len(statuses)
		}
		w.WriteHeader(statuses[n-1])
	}))
	t.Cleanup(ts.Close)
	return ts, &calls
}

func TestDoWithRetry(t *testing.T) {
	tests := []struct {
		name       string
		statuses   []int
		maxRetries int
		wantStatus int
		wantCalls  int32
	}{
		{"immediate success", []int{200}, 3, 200, 1},
		{"429 then success", []int{429, 429, 200}, 3, 200, 3},
		{"503 then success", []int{503, 200}, 3, 200, 2},
		{"exhausts retries", []int{429}, 2, 429, 3},
		{"default retries", []int{503}, 0, 503, 4},
		{"404 passes through", []int{404}, 3, 404, 1},
		{"500 passes through", []int{500}, 3, 500, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, calls := sequenceServer(t, tt.statuses...)

			req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
			require.NoError(t, err)

			resp, err := DoWithRetry(context.Background(), ts.Client(), req, tt.maxRetries)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(calls))
		})
	}
}

func TestDoWithRetry_HonorsRetryAfter(t *testing.T) {
	old := RetryBaseDelay
	RetryBaseDelay = time.Hour
	defer func() { RetryBaseDelay = old }()

	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := DoWithRetry(ctx, ts.Client(), req, 3)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestDoWithRetry_ContextCancelledDuringBackoff(t *testing.T) {
	ts, _ := sequenceServer(t, http.StatusTooManyRequests)

	old := RetryBaseDelay
	RetryBaseDelay = 500 * time.Millisecond
	defer func() { RetryBaseDelay = old }()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	_, err = DoWithRetry(ctx, ts.Client(), req, 5)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRetryAfter(t *testing.T) {
	d, ok := retryAfter("5")
	assert.True(t, ok)
	assert.Equal(t, 5*time.Second, d)

	d, ok = retryAfter("3600")
	assert.True(t, ok)
	assert.Equal(t, maxRetryAfter, d)

	_, ok = retryAfter("")
	assert.False(t, ok)
	_, ok = retryAfter("Wed, 21 Oct 2015 07:28:00 GMT")
	assert.False(t, ok)
}
