// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"

	"github.com/pdiddy/bioregistry-curator/internal/container"
	"github.com/pdiddy/bioregistry-curator/internal/errors"
	"github.com/pdiddy/bioregistry-curator/internal/httputil"
	"github.com/pdiddy/bioregistry-curator/internal/normalize"
	"github.com/pdiddy/bioregistry-curator/internal/pubmed"
	"github.com/pdiddy/bioregistry-curator/internal/resolve"
	"github.com/pdiddy/bioregistry-curator/internal/scrape"
	"github.com/pdiddy/bioregistry-curator/internal/secrets"
	"github.com/pdiddy/bioregistry-curator/pkg/types"
)

// detectRuntime is swapped in tests.
var detectRuntime = container.DetectRuntime

// FromConfig wires the production stages: the PubMed E-utilities provider
// and the scraper agent selected by cfg.Scrape.Agent. The container agent
// needs a working docker or podman and the configured image.
func FromConfig(ctx context.Context, cfg types.CuratorConfig, sec *secrets.Secrets) (*Pipeline, error) {
	pm := cfg.PubMed
	pm.APIKey = sec.Or(pm.APIKey, secrets.NCBIAPIKey)
	pm.Email = sec.Or(pm.Email, secrets.NCBIEmail)
	provider := pubmed.New(httputil.NewClient(pm.HTTPConfig), pm)

	agent, err := newAgent(ctx, cfg.Scrape, sec)
	if err != nil {
		return nil, err
	}

	return New(
		normalize.New(provider, pm.Timeout),
		resolve.New(cfg.Resolve.ExtraDeniedHosts),
		scrape.NewInvoker(agent, cfg.Scrape.Timeout),
	), nil
}

func newAgent(ctx context.Context, cfg types.ScrapeConfig, sec *secrets.Secrets) (scrape.Agent, error) {
	switch cfg.Agent {
	case types.AgentHTML, "":
		// The invoker bounds the whole attempt; the client has no timeout of its own.
		client := httputil.NewClient(types.HTTPConfig{UserAgent: cfg.UserAgent})
		return scrape.NewHTMLAgent(client, cfg.UserAgent, cfg.MaxBodyBytes), nil

	case types.AgentContainer:
		if cfg.ContainerImage == "" {
			return nil, errors.New("scrape.container_image must be set for the container agent")
		}
		rt, err := detectRuntime(ctx)
		if err != nil {
			return nil, err
		}
		if err := rt.ImageExists(ctx, cfg.ContainerImage); err != nil {
			return nil, errors.WithHint(err, "pull or build the agent image first")
		}
		env := append([]string{}, cfg.ContainerEnv...)
		if key := sec.Get(secrets.AgentAPIKey); key != "" {
			env = append(env, "AGENT_API_KEY="+key)
		}
		return scrape.NewContainerAgent(rt, cfg.ContainerImage, env), nil

	default:
		return nil, errors.Newf("unknown scrape agent %q (want %q or %q)", cfg.Agent, types.AgentHTML, types.AgentContainer)
	}
}
