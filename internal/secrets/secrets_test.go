// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T) string
		wantKeys []string
		want     map[string]string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, NCBIAPIKey, "  abc123  \n")
				writeFile(t, dir, NCBIEmail, "curator@example.org\n")
				return dir
			},
			wantKeys: []string{NCBIAPIKey, NCBIEmail},
			want:     map[string]string{NCBIAPIKey: "abc123", NCBIEmail: "curator@example.org"},
		},
		{
			name: "nonexistent directory yields empty set",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			wantKeys: []string{},
		},
		{
			name: "skips empty files, dotfiles and directories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, AgentAPIKey, "agent-key")
				writeFile(t, dir, "empty-key", "   \n\t ")
				writeFile(t, dir, ".gitkeep", "x")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))
				return dir
			},
			wantKeys: []string{AgentAPIKey},
			want:     map[string]string{AgentAPIKey: "agent-key"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Load(tt.setup(t))
			require.NoError(t, err)
			s.getenv = func(string) string { return "" }

			assert.Equal(t, tt.wantKeys, s.Keys())
			for k, v := range tt.want {
				assert.Equal(t, v, s.Get(k))
			}
		})
	}
}

func TestGet_EnvironmentWins(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, NCBIAPIKey, "from-file")

	s, err := Load(dir)
	require.NoError(t, err)
	s.getenv = func(name string) string {
		if name == "CURATOR_NCBI_API_KEY" {
			return "from-env"
		}
		return ""
	}

	assert.Equal(t, "from-env", s.Get(NCBIAPIKey))
	assert.Equal(t, "", s.Get(NCBIEmail))
}

func TestOr(t *testing.T) {
	s := &Secrets{values: map[string]string{NCBIEmail: "file@example.org"}, getenv: func(string) string { return "" }}

	assert.Equal(t, "config@example.org", s.Or("config@example.org", NCBIEmail))
	assert.Equal(t, "file@example.org", s.Or("", NCBIEmail))

	var nilSecrets *Secrets
	assert.Equal(t, "", nilSecrets.Get(NCBIEmail))
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "CURATOR_AGENT_API_KEY", EnvName(AgentAPIKey))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}
