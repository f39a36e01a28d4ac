// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"net/http"
	"strings"
	"sync"

	"github.com/danielgtaylor/huma/v2"

	"github.com/pdiddy/bioregistry-curator/internal/errors"
)

// APIError is the error envelope every endpoint returns. It implements
// huma.StatusError so handlers can return it directly.
type APIError struct { //nolint:revive // API prefix reads better at call sites
	status  int
	Status  string `json:"status" example:"error" doc:"Always \"error\""`
	Kind    string `json:"kind" doc:"Machine-readable error kind"`
	Message string `json:"message" doc:"Message fit to show a curator"`
	Hint    string `json:"hint,omitempty" doc:"Suggested next step"`
	Details any    `json:"details,omitempty" doc:"Per-field validation messages"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// fromError converts a kinded error into the envelope. Upstream causes stay
// in the logs; only the kinded message reaches the client.
func fromError(err error) *APIError {
	kind := errors.KindOf(err)
	return &APIError{
		status:  kind.HTTPStatus(),
		Status:  "error",
		Kind:    string(kind),
		Message: errors.UserMessage(err),
		Hint:    errors.Hint(err),
		Details: errors.DetailsOf(err),
	}
}

var registerOnce sync.Once

// RegisterErrorHandler makes huma's own failures (body decoding, schema
// validation, panics) use the same envelope as domain errors. Call it
// before registering routes.
func RegisterErrorHandler() {
	registerOnce.Do(func() {
		huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
			for _, err := range errs {
				var kinded *errors.Error
				if errors.As(err, &kinded) {
					return fromError(err)
				}
			}
			if identifierFailed(errs) {
				return fromError(errors.InvalidIdentifier(""))
			}

			kind := statusToKind(status)
			if kind == errors.KindInvalidRequest {
				status = kind.HTTPStatus()
			}
			return &APIError{
				status:  status,
				Status:  "error",
				Kind:    string(kind),
				Message: message,
				Details: detailsOf(errs),
			}
		}
	})
}

// detailsOf collects huma's per-location validation messages.
func detailsOf(errs []error) map[string]string {
	var out map[string]string
	for _, err := range errs {
		var d *huma.ErrorDetail
		if !errors.As(err, &d) {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[d.Location] = d.Message
	}
	return out
}

// identifierFailed reports whether huma rejected the pmid field itself, as
// with {"pmid": 123}. Those are identifier problems, not request-shape ones.
func identifierFailed(errs []error) bool {
	for _, err := range errs {
		var d *huma.ErrorDetail
		if !errors.As(err, &d) {
			continue
		}
		if d.Location == "body.pmid" || (d.Location == "body" && strings.Contains(d.Message, "property pmid")) {
			return true
		}
	}
	return false
}

// statusToKind maps huma's status codes onto error kinds.
func statusToKind(status int) errors.Kind {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusRequestEntityTooLarge:
		return errors.KindInvalidRequest
	case http.StatusNotFound:
		return errors.KindNotFound
	default:
		return errors.KindInternal
	}
}
