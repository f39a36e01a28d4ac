// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scrape invokes a web scraper agent against a database homepage
// and coerces whatever it returns into a ScrapeResult.
package scrape

import (
	"context"
	"fmt"
	"net"

	"github.com/pdiddy/bioregistry-curator/internal/errors"
	"github.com/pdiddy/bioregistry-curator/pkg/types"
)

// Fields is raw agent output: labels as the agent wrote them, mapped to
// string values. Coerce maps labels onto canonical fields.
type Fields map[string]string

// Agent extracts structural metadata from the site at url. Agents may
// return partial fields alongside an error.
type Agent interface {
	Scrape(ctx context.Context, url string) (Fields, error)
}

// AgentFunc adapts a function to the Agent interface.
type AgentFunc func(ctx context.Context, url string) (Fields, error)

// Scrape calls f.
func (f AgentFunc) Scrape(ctx context.Context, url string) (Fields, error) { return f(ctx, url) }

// ParseError reports agent output or a page that could not be interpreted.
type ParseError struct {
	Msg string
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// StatusError reports a non-success HTTP status from the scraped site.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d", e.URL, e.Code)
}

// classify maps an agent error onto a scrape error kind.
func classify(err error) types.ScrapeErrorKind {
	var (
		pe *ParseError
		se *StatusError
		ne net.Error
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return types.ScrapeTimeout
	case errors.Is(err, context.Canceled):
		return types.ScrapeCanceled
	case errors.As(err, &pe):
		return types.ScrapeParse
	case errors.As(err, &se):
		return types.ScrapeNetwork
	case errors.As(err, &ne):
		if ne.Timeout() {
			return types.ScrapeTimeout
		}
		return types.ScrapeNetwork
	default:
		return types.ScrapeAgent
	}
}
