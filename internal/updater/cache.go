package updater

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// The release check result is cached under ~/.agentpod so scaffolding runs
// stay off the network; at most one background refresh happens per cache
// lifetime.
const (
	cacheFileName = "version-check.json"

	// DefaultCacheMaxAge bounds how long a cached release check is trusted.
	DefaultCacheMaxAge = 24 * time.Hour
)

// VersionCache is the persisted result of the most recent release check.
type VersionCache struct {
	LatestVersion   string    `json:"latest_version"`
	CurrentVersion  string    `json:"current_version"`
	CheckedAt       time.Time `json:"checked_at"`
	UpdateAvailable bool      `json:"update_available"`
}

// LoadCache reads the cached release check from configDir. A missing cache
// file means no check has completed yet and returns nil, nil.
func LoadCache(configDir string) (*VersionCache, error) {
	data, err := os.ReadFile(filepath.Join(configDir, cacheFileName))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading version cache: %w", err)
	}

	var cache VersionCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, fmt.Errorf("parsing version cache: %w", err)
	}
	return &cache, nil
}

// Save persists the check result under configDir, creating it if needed.
func (c *VersionCache) Save(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling version cache: %w", err)
	}

	path := filepath.Join(configDir, cacheFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing version cache: %w", err)
	}
	return nil
}

// Stale reports whether the cached result is older than maxAge. A nil cache
// is always stale.
func (c *VersionCache) Stale(maxAge time.Duration) bool {
	if c == nil {
		return true
	}
	return time.Since(c.CheckedAt) > maxAge
}
