// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bioregistry-curator/pkg/types"
)

func TestBuild_ConsoleRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := build(types.LogConfig{Level: "warn"}, &buf)
	require.NoError(t, err)

	l.Infow("hidden", "pmid", "1")
	l.Warnw("scrape failed", "pmid", "34567890")
	require.NoError(t, l.Sync())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "scrape failed")
	assert.Contains(t, out, "34567890")
}

func TestBuild_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l, err := build(types.LogConfig{Level: "chatty"}, &buf)
	require.NoError(t, err)

	l.Debug("debug line")
	l.Info("info line")
	require.NoError(t, l.Sync())

	assert.NotContains(t, buf.String(), "debug line")
	assert.Contains(t, buf.String(), "info line")
}

func TestInitialize_JSON(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { Logger = prev })

	require.NoError(t, Initialize(types.LogConfig{Level: "info", JSON: true}))
	assert.NotNil(t, Logger)
}
