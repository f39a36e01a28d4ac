// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/bioregistry-curator/internal/logger"
	"github.com/pdiddy/bioregistry-curator/pkg/types"
)

// DefaultTimeout bounds a scrape attempt when none is configured.
const DefaultTimeout = 3 * time.Minute

// Invoker runs an Agent with a deadline and never fails: every outcome is a
// ScrapeResult. Results depend on live sites, so repeated invocations for
// the same URL may differ.
type Invoker struct {
	agent   Agent
	timeout time.Duration
	log     *zap.SugaredLogger
}

// NewInvoker returns an Invoker that gives agent at most timeout per URL.
func NewInvoker(agent Agent, timeout time.Duration) *Invoker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Invoker{agent: agent, timeout: timeout, log: logger.Logger}
}

type outcome struct {
	fields Fields
	err    error
}

// Invoke makes one bounded attempt to scrape url. The agent runs in its
// own goroutine so the deadline holds even if the agent ignores ctx; such
// an agent is left to finish in the background and its result discarded.
func (inv *Invoker) Invoke(ctx context.Context, url string) types.ScrapeResult {
	ctx, cancel := context.WithTimeout(ctx, inv.timeout)
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("agent panicked: %v", r)}
			}
		}()
		fields, err := inv.agent.Scrape(ctx, url)
		done <- outcome{fields: fields, err: err}
	}()

	var out outcome
	select {
	case out = <-done:
	case <-ctx.Done():
		out = outcome{err: ctx.Err()}
	}

	res := Coerce(url, out.fields)
	if out.err == nil {
		res.Success = true
		return res
	}

	kind := classify(out.err)
	msg := out.err.Error()
	if kind == types.ScrapeTimeout {
		msg = fmt.Sprintf("scrape did not finish within %s", inv.timeout)
	}
	res.ErrorDetail = &types.ScrapeError{Kind: kind, Message: msg}
	inv.log.Warnw("scrape failed", "url", url, "kind", kind, "error", out.err)
	return res
}
