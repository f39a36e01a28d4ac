// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package errors

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindInvalidIdentifier, http.StatusBadRequest},
		{KindInvalidRequest, http.StatusBadRequest},
		{KindNotFound, http.StatusNotFound},
		{KindUpstreamUnavailable, http.StatusBadGateway},
		{KindNoCandidateURL, http.StatusUnprocessableEntity},
		{KindDatasetUnavailable, http.StatusServiceUnavailable},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.HTTPStatus())
		})
	}
}

func TestKindOf_SurvivesWrapping(t *testing.T) {
	base := UpstreamUnavailable(context.DeadlineExceeded, "PubMed did not answer for PMID %s", "123")
	wrapped := Wrap(base, "normalizing")
	stdWrapped := fmt.Errorf("pipeline: %w", wrapped)

	assert.Equal(t, KindUpstreamUnavailable, KindOf(stdWrapped))
	assert.True(t, Is(stdWrapped, ErrUpstreamUnavailable))
	assert.True(t, Is(stdWrapped, context.DeadlineExceeded))
	assert.False(t, Is(stdWrapped, ErrNotFound))
	assert.Equal(t, "PubMed did not answer for PMID 123", UserMessage(stdWrapped))
}

func TestHint(t *testing.T) {
	err := InvalidIdentifier("abc")
	assert.Equal(t, KindInvalidIdentifier, KindOf(err))
	assert.Contains(t, Hint(err), "numeric PubMed ID")
	assert.Contains(t, err.Error(), `"abc"`)
}

func TestKindOf_Unkinded(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(New("boom")))
	assert.Equal(t, "internal error", UserMessage(New("boom")))
}

func TestEnsure(t *testing.T) {
	assert.Nil(t, Ensure(nil, KindNotFound))

	kinded := NotFound("no record")
	assert.Same(t, kinded, Ensure(kinded, KindUpstreamUnavailable))

	raw := New("connection reset")
	got := Ensure(raw, KindUpstreamUnavailable)
	assert.Equal(t, KindUpstreamUnavailable, KindOf(got))
	assert.Equal(t, "upstream unavailable", UserMessage(got))
	assert.True(t, Is(got, raw))
}
