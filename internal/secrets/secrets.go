// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file holds one secret: the filename is the key and the trimmed
// contents are the value. An environment variable CURATOR_<KEY> (upper-case,
// dashes as underscores) takes precedence over the file.
//
// Known keys: ncbi-api-key, ncbi-email, agent-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/bioregistry-curator/internal/logger"
)

// Well-known secret keys.
const (
	NCBIAPIKey  = "ncbi-api-key"
	NCBIEmail   = "ncbi-email"
	AgentAPIKey = "agent-api-key"
)

const envPrefix = "CURATOR_"

// Secrets is a loaded set of secrets.
type Secrets struct {
	values map[string]string
	getenv func(string) string
}

// Load reads all files in dir. A missing directory is not an error; Load
// returns an empty set. Unreadable files are logged and skipped.
func Load(dir string) (*Secrets, error) {
	s := &Secrets{values: map[string]string{}, getenv: os.Getenv}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Logger.Warnw("could not read secret", "key", name, "error", err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			s.values[name] = value
		}
	}
	return s, nil
}

// Get returns the secret for key, preferring the environment.
func (s *Secrets) Get(key string) string {
	if s == nil {
		return ""
	}
	if v := strings.TrimSpace(s.getenv(EnvName(key))); v != "" {
		return v
	}
	return s.values[key]
}

// Or returns explicit when non-empty, otherwise the secret for key. It lets
// configuration values win over secrets files.
func (s *Secrets) Or(explicit, key string) string {
	if explicit != "" {
		return explicit
	}
	return s.Get(key)
}

// Keys lists the keys loaded from files, sorted. Values are never exposed.
func (s *Secrets) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// EnvName returns the environment variable consulted for key.
func EnvName(key string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}
