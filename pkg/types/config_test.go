// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.PubMed.Timeout)
	assert.Equal(t, 3.0, cfg.PubMed.RequestsPerSecond)
	assert.Equal(t, AgentHTML, cfg.Scrape.Agent)
	assert.Equal(t, 3*time.Minute, cfg.Scrape.Timeout)
	assert.Equal(t, time.Hour, cfg.Backlog.CacheDuration)
	assert.Equal(t, time.Minute, cfg.Backlog.RetryInterval)
	assert.Equal(t, DefaultPredictionsURL, cfg.Backlog.SourceURL)
	assert.Equal(t, "pubmed", cfg.Backlog.IDColumn)
	assert.True(t, cfg.Backlog.RankDescending)
	assert.Equal(t, 4, cfg.Server.MaxConcurrentExtractions)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_YAMLOverrides(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
scrape:
  agent: container
  timeout: 90s
  container_image: ghcr.io/example/agent:latest
resolve:
  extra_denied_hosts: [example-journal.org]
backlog:
  source_file: data/predictions.tsv
  rank_descending: false
`)))

	cfg, err := LoadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, AgentContainer, cfg.Scrape.Agent)
	assert.Equal(t, 90*time.Second, cfg.Scrape.Timeout)
	assert.Equal(t, "ghcr.io/example/agent:latest", cfg.Scrape.ContainerImage)
	assert.Equal(t, []string{"example-journal.org"}, cfg.Resolve.ExtraDeniedHosts)
	assert.Equal(t, "data/predictions.tsv", cfg.Backlog.SourceFile)
	assert.False(t, cfg.Backlog.RankDescending)
	// Untouched keys keep their defaults.
	assert.Equal(t, 30*time.Second, cfg.Backlog.Timeout)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("CURATOR_PUBMED_TIMEOUT", "5s")
	t.Setenv("CURATOR_SERVER_ADDR", ":9090")

	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix("CURATOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg, err := LoadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.PubMed.Timeout)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}
