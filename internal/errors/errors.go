// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package errors provides the kinded errors surfaced to callers of the
// extraction pipeline and the backlog, on top of github.com/cockroachdb/errors.
//
// Adapters convert upstream failures into a kinded *Error at the point of
// origin, so callers only ever see one of the kinds declared here:
//
//	if rec == nil {
//	    return errors.NotFound("no PubMed record found for PMID %s", id)
//	}
//
//	switch errors.KindOf(err) {
//	case errors.KindNotFound:
//	    ...
//	}
package errors

import (
	"fmt"
	"net/http"
	"strings"

	crdb "github.com/cockroachdb/errors"
)

// Core error creation, wrapping and inspection.
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithHint     = crdb.WithHint
	WithHintf    = crdb.WithHintf
	Is           = crdb.Is
	As           = crdb.As
	GetAllHints  = crdb.GetAllHints
	FlattenHints = crdb.FlattenHints
)

// Kind is the machine-readable class of a request-level failure.
type Kind string

const (
	// KindInvalidIdentifier: the identifier is not a string of decimal digits.
	KindInvalidIdentifier Kind = "InvalidIdentifier"

	// KindNotFound: the metadata provider has no record for the identifier.
	KindNotFound Kind = "NotFound"

	// KindUpstreamUnavailable: the metadata provider failed or timed out.
	KindUpstreamUnavailable Kind = "UpstreamUnavailable"

	// KindNoCandidateURL: no database URL could be found in the publication.
	KindNoCandidateURL Kind = "NoCandidateUrl"

	// KindDatasetUnavailable: the candidate dataset could not be loaded.
	// Only the backlog produces it.
	KindDatasetUnavailable Kind = "DatasetUnavailable"

	// KindInvalidRequest is raised by request validation in the API layer,
	// never by the pipeline.
	KindInvalidRequest Kind = "InvalidRequest"

	// KindInternal marks an error that carried no kind. Seeing it means an
	// adapter failed to convert an upstream error at its origin.
	KindInternal Kind = "Internal"
)

// HTTPStatus returns the HTTP status code for a kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidIdentifier, KindInvalidRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstreamUnavailable:
		return http.StatusBadGateway
	case KindNoCandidateURL:
		return http.StatusUnprocessableEntity
	case KindDatasetUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error is a kinded error with a message fit to show a curator.
type Error struct {
	Kind    Kind
	Message string
	Details any
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for use with Is.
var (
	ErrInvalidIdentifier   = &Error{Kind: KindInvalidIdentifier, Message: "invalid identifier"}
	ErrNotFound            = &Error{Kind: KindNotFound, Message: "not found"}
	ErrUpstreamUnavailable = &Error{Kind: KindUpstreamUnavailable, Message: "upstream unavailable"}
	ErrNoCandidateURL      = &Error{Kind: KindNoCandidateURL, Message: "no candidate URL"}
	ErrDatasetUnavailable  = &Error{Kind: KindDatasetUnavailable, Message: "dataset unavailable"}
)

func newKinded(kind Kind, cause error, hint string, format string, args ...any) error {
	var err error = &Error{Kind: kind, Message: fmt.Sprintf(format, args...), cause: cause}
	if hint != "" {
		err = crdb.WithHint(err, hint)
	}
	return err
}

// InvalidIdentifier reports a malformed identifier.
func InvalidIdentifier(raw string) error {
	return newKinded(KindInvalidIdentifier, nil,
		"provide a numeric PubMed ID such as 12345678",
		"invalid PMID %q", raw)
}

// NotFound reports a missing upstream record.
func NotFound(format string, args ...any) error {
	return newKinded(KindNotFound, nil,
		"check the PMID on https://pubmed.ncbi.nlm.nih.gov/", format, args...)
}

// UpstreamUnavailable wraps a provider failure.
func UpstreamUnavailable(cause error, format string, args ...any) error {
	return newKinded(KindUpstreamUnavailable, cause,
		"PubMed may be busy; try again in a few minutes", format, args...)
}

// NoCandidateURL reports that no database URL could be chosen.
func NoCandidateURL(format string, args ...any) error {
	return newKinded(KindNoCandidateURL, nil,
		"supply the database homepage URL as an override", format, args...)
}

// DatasetUnavailable wraps a backlog dataset failure.
func DatasetUnavailable(cause error, format string, args ...any) error {
	return newKinded(KindDatasetUnavailable, cause,
		"the candidate ranking source could not be reached; try again later", format, args...)
}

// InvalidRequest reports a request that failed validation.
func InvalidRequest(format string, args ...any) error {
	return newKinded(KindInvalidRequest, nil, "", format, args...)
}

// InvalidRequestWithDetails reports a failed validation with per-field messages.
func InvalidRequestWithDetails(details map[string]string, format string, args ...any) error {
	return &Error{Kind: KindInvalidRequest, Message: fmt.Sprintf(format, args...), Details: details}
}

// DetailsOf returns the details attached to the first *Error in err's chain.
func DetailsOf(err error) any {
	var e *Error
	if crdb.As(err, &e) {
		return e.Details
	}
	return nil
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var e *Error
	if crdb.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// UserMessage returns the curator-facing message of err: the kinded message
// without upstream causes.
func UserMessage(err error) string {
	var e *Error
	if crdb.As(err, &e) {
		return e.Message
	}
	return "internal error"
}

// Hint returns the hints attached to err joined into one line.
func Hint(err error) string {
	return strings.Join(crdb.GetAllHints(err), "; ")
}

// Ensure returns err unchanged when it already carries a kind, and
// otherwise converts it into fallback so the caller's closed set of kinds
// is preserved.
func Ensure(err error, fallback Kind) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != KindInternal {
		return err
	}
	msg := "internal error"
	for _, s := range []*Error{ErrInvalidIdentifier, ErrNotFound, ErrUpstreamUnavailable, ErrNoCandidateURL, ErrDatasetUnavailable} {
		if s.Kind == fallback {
			msg = s.Message
		}
	}
	return &Error{Kind: fallback, Message: msg, cause: err}
}
