// Package config manages the persistent CLI configuration under
// ~/.agentpod/config.yaml, backed by Viper with AGENTPOD_* env overlay.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentpod-labs/agentpod/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Recognised configuration keys.
const (
	// KeyColor controls styled terminal output: auto, always, or never.
	KeyColor = "color"
	// KeyCertExtraPath is an extra host path probed (first) for the
	// corporate root certificate.
	KeyCertExtraPath = "certs.extra_path"
)

// Dir returns the path to the config directory (~/.agentpod/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.agentpod/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	// Dotted keys map to underscored env vars: certs.extra_path is
	// overridden by AGENTPOD_CERTS_EXTRA_PATH.
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// All returns every key currently known to Viper with its string value.
func All() map[string]string {
	out := make(map[string]string)
	for _, key := range viper.AllKeys() {
		out[key] = viper.GetString(key)
	}
	return out
}
