// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validation validates API request bodies using validator/v10.
package validation

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pdiddy/bioregistry-curator/internal/errors"
)

var (
	// The last ORCID character is an ISO 7064 check digit and may be X.
	orcidPattern = regexp.MustCompile(`^\d{4}-\d{4}-\d{4}-\d{3}[\dX]$`)
	pmidPattern  = regexp.MustCompile(`^\d+$`)
)

// Validator wraps go-playground/validator and converts failures into
// InvalidRequest errors carrying a field-to-message map.
type Validator struct {
	v *validator.Validate
}

// New creates a validator with the pmid and orcid tags registered.
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("orcid", func(fl validator.FieldLevel) bool {
		return orcidPattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	_ = v.RegisterValidation("pmid", func(fl validator.FieldLevel) bool {
		return pmidPattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})

	return &Validator{v: v}
}

// Validate validates a struct.
func (v *Validator) Validate(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.InvalidRequest("invalid request: %v", err)
	}

	fields := make(map[string]string, len(verrs))
	for _, e := range verrs {
		fields[fieldPath(e)] = friendlyMessage(e)
	}
	return errors.InvalidRequestWithDetails(fields, "%s", summary(fields))
}

// Failed reports whether err is a validation failure naming field.
func Failed(err error, field string) bool {
	details, ok := errors.DetailsOf(err).(map[string]string)
	if !ok {
		return false
	}
	_, failed := details[field]
	return failed
}

// fieldPath drops the top-level struct name from the namespace so nested
// fields read as "contributor.orcid".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return e.Field()
}

func summary(fields map[string]string) string {
	if msg, ok := fields["contributor.orcid"]; ok {
		return "Invalid ORCID format. Expected format: 0000-0000-0000-0000 (" + msg + ")"
	}
	return "validation failed"
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "url", "http_url":
		return "must be a valid http(s) URL"
	case "orcid":
		return "must look like 0000-0000-0000-0000"
	case "pmid":
		return "must be a numeric PubMed ID"
	default:
		return "is invalid"
	}
}
